package services

import (
	"context"
	"errors"
	"fmt"
	"math"

	"wellness/models"

	"gorm.io/gorm"
)

const (
	defaultAge    = 24
	defaultWeight = 180.0
	defaultHeight = 180.0
)

type CalorieGoalAlgorithm string

const (
	AlgorithmHarrisBenedict CalorieGoalAlgorithm = "harris-benedict"
	// recognised names, not implemented yet; they return ErrUnsupportedAlgorithm
	AlgorithmMifflinStJeor  CalorieGoalAlgorithm = "mifflin-st-jeor"
	AlgorithmKatchMcArdle   CalorieGoalAlgorithm = "katch-mcardle"
)

var activityMultipliers = map[string]float64{
	"low":      1.2,
	"moderate": 1.55,
	"active":   1.9,
}

// HarrisBenedict returns the recommended daily calories, rounded.
//
// The units argument does not change the result: weight and height enter
// the formula exactly as stored, even for imperial profiles, where a
// kg/cm conversion would be expected. Clients already show goals computed
// this way, so the formula is kept literal; TestHarrisBenedictIgnoresUnits
// pins the behaviour.
func HarrisBenedict(age int, weight, height float64, gender, activityLevel, units string) int {
	var bmr float64
	if gender == "male" {
		bmr = 10*weight + 6.25*height - 5*float64(age) + 5
	} else {
		bmr = 10*weight + 6.25*height - 5*float64(age) - 161
	}

	m, ok := activityMultipliers[activityLevel]
	if !ok {
		m = 1.2
	}
	return int(math.Round(bmr * m))
}

type CalorieGoalService struct {
	db *gorm.DB
}

func NewCalorieGoalService(db *gorm.DB) *CalorieGoalService {
	return &CalorieGoalService{db: db}
}

func (s *CalorieGoalService) RecommendedCalorieGoal(ctx context.Context, userID uint, algorithm CalorieGoalAlgorithm) (int, error) {
	var profile models.UserProfile
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, fmt.Errorf("user profile: %w", ErrNotFound)
		}
		return 0, err
	}

	var pref models.UserPreference
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&pref).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, fmt.Errorf("user preference: %w", ErrNotFound)
		}
		return 0, err
	}

	return calorieGoalFor(&profile, pref.WeightHeightUnits, algorithm)
}

// SaveCalorieGoal stores goal on the user's profile.
func (s *CalorieGoalService) SaveCalorieGoal(ctx context.Context, userID uint, goal int) error {
	res := s.db.WithContext(ctx).Model(&models.UserProfile{}).
		Where("user_id = ?", userID).
		Update("calorie_goal", goal)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("user profile: %w", ErrNotFound)
	}
	return nil
}

func calorieGoalFor(p *models.UserProfile, units string, algorithm CalorieGoalAlgorithm) (int, error) {
	age, weight, height := p.Age, p.Weight, p.Height
	if age == 0 {
		age = defaultAge
	}
	if weight == 0 {
		weight = defaultWeight
	}
	if height == 0 {
		height = defaultHeight
	}

	switch algorithm {
	case AlgorithmHarrisBenedict:
		return HarrisBenedict(age, weight, height, p.Gender, p.ActivityLevel, units), nil
	default:
		return 0, fmt.Errorf("%w: %s", ErrUnsupportedAlgorithm, algorithm)
	}
}
