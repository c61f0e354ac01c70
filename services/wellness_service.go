package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"wellness/models"
	"wellness/utils"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	dateLayout    = "2006-01-02"
	maxNameLength = 100

	EventEntryCreated = "entry.created"
)

// ItemResolver turns an entry name into a resolved item. *Evaluator is the
// production implementation.
type ItemResolver interface {
	ResolveFood(ctx context.Context, name string) (*models.FoodItem, error)
	ResolveExercise(ctx context.Context, name string, kind ExerciseKind) (*models.ExerciseActivity, error)
}

// EntryPublisher fans entry events out to a user's live connections.
type EntryPublisher interface {
	Publish(userID uint, payload any)
}

type EntryEvent struct {
	Kind  string `json:"kind"`
	Entry any    `json:"entry"`
}

type FoodEntryInput struct {
	Name     string `json:"name"`
	Quantity string `json:"quantity"`
	Calories *int   `json:"calories"`
}

type ExerciseEntryInput struct {
	Name           string  `json:"name"`
	Type           string  `json:"type"`
	Intensity      string  `json:"intensity"`
	Duration       float64 `json:"duration"`
	CaloriesBurned *int    `json:"caloriesBurned"`
}

type Streak struct {
	Streak            int    `json:"streak"`
	DateProcessedFrom string `json:"dateProcessedFrom,omitempty"`
	StreakFromDate    string `json:"streakFromDate,omitempty"`
}

type WellnessService struct {
	db       *gorm.DB
	resolver ItemResolver
	events   EntryPublisher
	log      *zap.Logger
}

func NewWellnessService(db *gorm.DB, resolver ItemResolver, events EntryPublisher, log *zap.Logger) *WellnessService {
	return &WellnessService{db: db, resolver: resolver, events: events, log: log}
}

// FormatDate accepts YYYY-MM-DD or an RFC 3339 timestamp and returns the
// calendar date part.
func FormatDate(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if t, err := time.Parse(dateLayout, raw); err == nil {
		return t.Format(dateLayout), nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return "", invalidInput(fmt.Sprintf("invalid date %q", raw))
	}
	return t.UTC().Format(dateLayout), nil
}

func (s *WellnessService) CreateWellnessData(ctx context.Context, userID uint, date string, glassesOfWater int) (*models.WellnessData, error) {
	day, err := FormatDate(date)
	if err != nil {
		return nil, err
	}
	wd := &models.WellnessData{UserID: userID, Date: day, GlassesOfWater: glassesOfWater}
	if err := s.db.WithContext(ctx).Create(wd).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrWellnessDataExists
		}
		return nil, err
	}
	return wd, nil
}

func (s *WellnessService) UpdateWellnessData(ctx context.Context, userID, id uint, glassesOfWater int) (*models.WellnessData, error) {
	wd, err := s.ownedWellnessData(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	wd.GlassesOfWater = glassesOfWater
	wd.HasActivity = wd.HasActivity || glassesOfWater > 0
	if err := s.db.WithContext(ctx).Save(wd).Error; err != nil {
		return nil, err
	}
	return wd, nil
}

func (s *WellnessService) GetWellnessDataByDate(ctx context.Context, userID uint, date string) (*models.WellnessData, error) {
	day, err := FormatDate(date)
	if err != nil {
		return nil, err
	}
	var wd models.WellnessData
	err = s.withEntries(ctx).
		Where("user_id = ? AND date = ?", userID, day).
		First(&wd).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("no data found for this date: %w", ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &wd, nil
}

// ListWellnessData returns the days between startDate and endDate inclusive.
// Either bound may be empty, not both.
func (s *WellnessService) ListWellnessData(ctx context.Context, userID uint, startDate, endDate string) ([]models.WellnessData, error) {
	if startDate == "" && endDate == "" {
		return nil, invalidInput("Please provide a start or end date")
	}
	q := s.withEntries(ctx).Where("user_id = ?", userID)
	if startDate != "" {
		day, err := FormatDate(startDate)
		if err != nil {
			return nil, err
		}
		q = q.Where("date >= ?", day)
	}
	if endDate != "" {
		day, err := FormatDate(endDate)
		if err != nil {
			return nil, err
		}
		q = q.Where("date <= ?", day)
	}

	var days []models.WellnessData
	if err := q.Order("date ASC").Find(&days).Error; err != nil {
		return nil, err
	}
	return days, nil
}

func (s *WellnessService) AddFoodEntry(ctx context.Context, userID, wellnessDataID uint, in FoodEntryInput) (*models.FoodEntry, error) {
	wd, err := s.ownedWellnessData(ctx, userID, wellnessDataID)
	if err != nil {
		return nil, err
	}
	entry, err := evaluateFood(ctx, s.resolver, in)
	if err != nil {
		return nil, err
	}
	entry.WellnessDataID = wd.ID

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(entry).Error; err != nil {
			return err
		}
		return markActive(tx, wd.ID)
	})
	if err != nil {
		return nil, err
	}
	s.publish(userID, entry)
	return entry, nil
}

func (s *WellnessService) AddExerciseEntry(ctx context.Context, userID, wellnessDataID uint, in ExerciseEntryInput) (*models.ExerciseEntry, error) {
	wd, err := s.ownedWellnessData(ctx, userID, wellnessDataID)
	if err != nil {
		return nil, err
	}
	entry, err := evaluateExercise(ctx, s.resolver, in, func() (float64, string, error) {
		return s.bodyWeight(ctx, userID)
	})
	if err != nil {
		return nil, err
	}
	entry.WellnessDataID = wd.ID

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(entry).Error; err != nil {
			return err
		}
		return markActive(tx, wd.ID)
	})
	if err != nil {
		return nil, err
	}
	s.publish(userID, entry)
	return entry, nil
}

func (s *WellnessService) DeleteFoodEntry(ctx context.Context, userID, wellnessDataID, entryID uint) error {
	if _, err := s.ownedWellnessData(ctx, userID, wellnessDataID); err != nil {
		return err
	}
	return s.db.WithContext(ctx).
		Where("id = ? AND wellness_data_id = ?", entryID, wellnessDataID).
		Delete(&models.FoodEntry{}).Error
}

func (s *WellnessService) DeleteExerciseEntry(ctx context.Context, userID, wellnessDataID, entryID uint) error {
	if _, err := s.ownedWellnessData(ctx, userID, wellnessDataID); err != nil {
		return err
	}
	return s.db.WithContext(ctx).
		Where("id = ? AND wellness_data_id = ?", entryID, wellnessDataID).
		Delete(&models.ExerciseEntry{}).Error
}

// Streak counts the active days leading up to today.
func (s *WellnessService) Streak(ctx context.Context, userID uint, now time.Time) (*Streak, error) {
	today := now.UTC().Format(dateLayout)

	var dates []string
	err := s.db.WithContext(ctx).Model(&models.WellnessData{}).
		Where("user_id = ? AND date <= ? AND has_activity = ?", userID, today, true).
		Order("date DESC").
		Pluck("date", &dates).Error
	if err != nil {
		return nil, err
	}
	return ComputeStreak(dates, today)
}

// ComputeStreak walks dates (newest first, none after today). A gap of zero
// or one day keeps the streak going; anything longer ends it.
func ComputeStreak(dates []string, today string) (*Streak, error) {
	if len(dates) == 0 {
		return &Streak{}, nil
	}
	prev, err := time.Parse(dateLayout, today)
	if err != nil {
		return nil, err
	}

	n := 0
	for _, d := range dates {
		cur, err := time.Parse(dateLayout, d)
		if err != nil {
			return nil, err
		}
		diff := int(prev.Sub(cur).Hours() / 24)
		if diff > 1 {
			break
		}
		if diff >= 0 {
			n++
			prev = cur
		}
	}
	return &Streak{
		Streak:            n,
		DateProcessedFrom: today,
		StreakFromDate:    prev.Format(dateLayout),
	}, nil
}

func (s *WellnessService) withEntries(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx).
		Preload("FoodEntries.FoodItem").
		Preload("ExerciseEntries.ExerciseActivity")
}

func (s *WellnessService) ownedWellnessData(ctx context.Context, userID, id uint) (*models.WellnessData, error) {
	var wd models.WellnessData
	err := s.db.WithContext(ctx).First(&wd, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("wellness data %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	if wd.UserID != userID {
		return nil, ErrForbidden
	}
	return &wd, nil
}

// bodyWeight returns the profile weight and the units it is stored in.
func (s *WellnessService) bodyWeight(ctx context.Context, userID uint) (float64, string, error) {
	var profile models.UserProfile
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&profile).Error
	if errors.Is(err, gorm.ErrRecordNotFound) || (err == nil && profile.Weight <= 0) {
		return 0, "", ErrProfileWeightMissing
	}
	if err != nil {
		return 0, "", err
	}

	units := utils.UnitsImperial
	var pref models.UserPreference
	err = s.db.WithContext(ctx).Where("user_id = ?", userID).First(&pref).Error
	switch {
	case err == nil:
		units = pref.WeightHeightUnits
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return 0, "", err
	}
	return profile.Weight, units, nil
}

func (s *WellnessService) publish(userID uint, entry any) {
	if s.events == nil {
		return
	}
	s.events.Publish(userID, EntryEvent{Kind: EventEntryCreated, Entry: entry})
}

func markActive(tx *gorm.DB, wellnessDataID uint) error {
	return tx.Model(&models.WellnessData{}).
		Where("id = ?", wellnessDataID).
		Update("has_activity", true).Error
}

func validateEntryName(name string) error {
	if utf8.RuneCountInString(name) > maxNameLength {
		return invalidInput("Name must be less than 100 characters")
	}
	return nil
}

// evaluateFood builds a food entry. A positive explicit calorie count is used
// as-is; otherwise the name is resolved and calories are derived from it.
func evaluateFood(ctx context.Context, resolver ItemResolver, in FoodEntryInput) (*models.FoodEntry, error) {
	if strings.TrimSpace(in.Name) == "" || strings.TrimSpace(in.Quantity) == "" {
		return nil, invalidInput("Missing required fields")
	}
	if err := validateEntryName(in.Name); err != nil {
		return nil, err
	}

	if in.Calories != nil && *in.Calories != 0 {
		if *in.Calories < 0 {
			return nil, invalidInput("Calories must be greater than 0")
		}
		return &models.FoodEntry{Name: in.Name, Quantity: in.Quantity, Calories: *in.Calories}, nil
	}

	item, err := resolver.ResolveFood(ctx, in.Name)
	if err != nil {
		return nil, err
	}
	return &models.FoodEntry{
		FoodItemID: &item.ID,
		FoodItem:   item,
		Name:       item.Name,
		Quantity:   in.Quantity,
		Calories:   CalculateCalories(float64(item.CaloriesPerUnit), in.Quantity),
	}, nil
}

// evaluateExercise is the exercise counterpart of evaluateFood. weight is
// only consulted when the calories have to be estimated.
func evaluateExercise(ctx context.Context, resolver ItemResolver, in ExerciseEntryInput, weight func() (float64, string, error)) (*models.ExerciseEntry, error) {
	if strings.TrimSpace(in.Name) == "" || in.Type == "" || in.Intensity == "" || in.Duration <= 0 {
		return nil, invalidInput("Missing required fields")
	}
	if err := validateEntryName(in.Name); err != nil {
		return nil, err
	}

	entry := &models.ExerciseEntry{
		Name:      in.Name,
		Type:      in.Type,
		Intensity: in.Intensity,
		Duration:  in.Duration,
	}
	if in.CaloriesBurned != nil && *in.CaloriesBurned != 0 {
		if *in.CaloriesBurned < 0 {
			return nil, invalidInput("Calories burned must be greater than 0")
		}
		entry.CaloriesBurned = *in.CaloriesBurned
		return entry, nil
	}

	activity, err := resolver.ResolveExercise(ctx, in.Name, ParseExerciseKind(in.Type))
	if err != nil {
		return nil, err
	}
	w, units, err := weight()
	if err != nil {
		return nil, err
	}
	entry.ExerciseActivityID = &activity.ID
	entry.ExerciseActivity = activity
	entry.Name = activity.Name
	entry.CaloriesBurned = CalculateCaloriesBurned(activity.BaseMetabolicRate, in.Duration, in.Intensity, w, units)
	return entry, nil
}
