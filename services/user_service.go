package services

import (
	"context"
	"errors"
	"fmt"

	"wellness/models"
	"wellness/utils"

	"gorm.io/gorm"
)

var (
	activityLevels = []string{"low", "moderate", "active"}
	genders        = []string{"male", "female", "non-binary", "genderqueer", "genderfluid", "other", "prefer not to answer"}
	unitSystems    = []string{utils.UnitsImperial, utils.UnitsMetric}
)

// ProfileInput carries the whitelisted profile fields. Absent fields are
// left unchanged.
type ProfileInput struct {
	Age            *int     `json:"age"`
	Weight         *float64 `json:"weight"`
	Height         *float64 `json:"height"`
	ActivityLevel  *string  `json:"activityLevel"`
	Gender         *string  `json:"gender"`
	ProfilePicture *string  `json:"profilePicture"`
}

type PreferencesInput struct {
	WeightHeightUnits string `json:"weightHeightUnits"`
}

// PictureUploader stores a profile picture and returns its URL.
type PictureUploader interface {
	UploadProfilePicture(ctx context.Context, userID uint, dataURI string) (string, error)
}

type UserService struct {
	db       *gorm.DB
	pictures PictureUploader
}

func NewUserService(db *gorm.DB, pictures PictureUploader) *UserService {
	return &UserService{db: db, pictures: pictures}
}

func (s *UserService) UpdateProfile(ctx context.Context, userID uint, in ProfileInput) (*models.UserProfile, error) {
	updates, err := applyProfileInput(in)
	if err != nil {
		return nil, err
	}

	var profile models.UserProfile
	err = s.db.WithContext(ctx).Where("user_id = ?", userID).First(&profile).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("user profile: %w", ErrNotFound)
	}
	if err != nil {
		return nil, err
	}

	if in.ProfilePicture != nil {
		if s.pictures == nil {
			return nil, invalidInput("profile pictures are not enabled")
		}
		url, err := s.pictures.UploadProfilePicture(ctx, userID, *in.ProfilePicture)
		if err != nil {
			return nil, err
		}
		updates["profile_picture"] = url
	}

	if err := s.db.WithContext(ctx).Model(&profile).Updates(updates).Error; err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).First(&profile, profile.ID).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

// applyProfileInput validates in and returns the column updates it implies,
// not counting the picture which has to be uploaded first.
func applyProfileInput(in ProfileInput) (map[string]any, error) {
	updates := map[string]any{}
	if in.Age != nil {
		if *in.Age <= 0 {
			return nil, invalidInput("age must be positive")
		}
		updates["age"] = *in.Age
	}
	if in.Weight != nil {
		if *in.Weight <= 0 {
			return nil, invalidInput("weight must be positive")
		}
		updates["weight"] = *in.Weight
	}
	if in.Height != nil {
		if *in.Height <= 0 {
			return nil, invalidInput("height must be positive")
		}
		updates["height"] = *in.Height
	}
	if in.ActivityLevel != nil {
		if !oneOf(*in.ActivityLevel, activityLevels) {
			return nil, invalidInput(fmt.Sprintf("invalid activityLevel %q", *in.ActivityLevel))
		}
		updates["activity_level"] = *in.ActivityLevel
	}
	if in.Gender != nil {
		if !oneOf(*in.Gender, genders) {
			return nil, invalidInput(fmt.Sprintf("invalid gender %q", *in.Gender))
		}
		updates["gender"] = *in.Gender
	}
	if len(updates) == 0 && in.ProfilePicture == nil {
		return nil, invalidInput("No valid fields provided for update")
	}
	return updates, nil
}

func (s *UserService) UpdatePreferences(ctx context.Context, userID uint, in PreferencesInput) (*models.UserPreference, error) {
	if !oneOf(in.WeightHeightUnits, unitSystems) {
		return nil, invalidInput(fmt.Sprintf("invalid weightHeightUnits %q", in.WeightHeightUnits))
	}
	pref := models.UserPreference{UserID: userID}
	err := s.db.WithContext(ctx).
		Where(models.UserPreference{UserID: userID}).
		Assign(models.UserPreference{WeightHeightUnits: in.WeightHeightUnits}).
		FirstOrCreate(&pref).Error
	if err != nil {
		return nil, err
	}
	return &pref, nil
}

func oneOf(v string, allowed []string) bool {
	for _, a := range allowed {
		if v == a {
			return true
		}
	}
	return false
}
