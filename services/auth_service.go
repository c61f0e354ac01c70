package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"wellness/models"
	"wellness/utils"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SignupInput struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	Username    string `json:"username"`
	PhoneNumber string `json:"phoneNumber"`
}

// CurrentUser is a user merged with its profile and preferences.
type CurrentUser struct {
	models.User
	UserProfile        *models.UserProfile        `json:"userProfile"`
	UserPreferences    *models.UserPreference     `json:"userPreferences"`
	VerificationStatus *models.VerificationStatus `json:"verificationStatus,omitempty"`
	BMI                *float64                   `json:"bmi,omitempty"`
}

type AuthService struct {
	db        *gorm.DB
	sender    VerificationSender
	jwtSecret string
	now       func() time.Time
	log       *zap.Logger
}

func NewAuthService(db *gorm.DB, sender VerificationSender, jwtSecret string, log *zap.Logger) *AuthService {
	return &AuthService{db: db, sender: sender, jwtSecret: jwtSecret, now: time.Now, log: log}
}

// Signup creates the user with a default profile, preferences and
// verification status, sends a code to every channel given and returns a
// session token.
func (s *AuthService) Signup(ctx context.Context, in SignupInput) (string, error) {
	in.Email = strings.TrimSpace(strings.ToLower(in.Email))
	in.Username = strings.TrimSpace(in.Username)
	in.PhoneNumber = strings.TrimSpace(in.PhoneNumber)
	if in.Username == "" || in.Password == "" {
		return "", invalidInput("username and password are required")
	}

	var count int64
	q := s.db.WithContext(ctx).Model(&models.User{}).Where("username = ?", in.Username)
	if in.Email != "" {
		q = q.Or("email = ?", in.Email)
	}
	if err := q.Count(&count).Error; err != nil {
		return "", err
	}
	if count > 0 {
		return "", ErrUserExists
	}

	hashed, err := utils.HashPassword(in.Password)
	if err != nil {
		return "", err
	}
	user := &models.User{
		Email:       optional(in.Email),
		Username:    in.Username,
		Password:    hashed,
		Role:        models.RoleStandard,
		PhoneNumber: optional(in.PhoneNumber),
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return err
		}
		if err := tx.Create(&models.UserProfile{UserID: user.ID}).Error; err != nil {
			return err
		}
		if err := tx.Create(&models.UserPreference{UserID: user.ID, WeightHeightUnits: utils.UnitsImperial}).Error; err != nil {
			return err
		}
		return tx.Create(&models.VerificationStatus{UserID: user.ID}).Error
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return "", ErrUserExists
	}
	if err != nil {
		return "", err
	}

	code := utils.GenerateVerificationCode()
	for channel, address := range channels(user) {
		// the account exists at this point; a failed send can be retried
		// through ResendVerification
		if err := s.issueCode(ctx, user.ID, channel, address, code); err != nil {
			s.log.Warn("verification not sent", zap.Uint("user_id", user.ID), zap.String("type", channel), zap.Error(err))
		}
	}

	return utils.GenerateJWT(s.jwtSecret, user.ID, user.Role)
}

func (s *AuthService) Verify(ctx context.Context, email, code, channel string) error {
	if err := validChannel(channel); err != nil {
		return err
	}
	user, err := s.userByEmail(ctx, email)
	if err != nil {
		return err
	}

	var v models.Verification
	err = s.db.WithContext(ctx).
		Where("user_id = ? AND type = ?", user.ID, channel).
		First(&v).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrInvalidVerification
	}
	if err != nil {
		return err
	}
	if err := verificationValid(&v, code, s.now()); err != nil {
		return err
	}

	field := "is_email_verified"
	if channel == models.VerificationSMS {
		field = "is_sms_verified"
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		status := models.VerificationStatus{UserID: user.ID}
		if err := tx.Where(&status).FirstOrCreate(&status).Error; err != nil {
			return err
		}
		if err := tx.Model(&status).Update(field, true).Error; err != nil {
			return err
		}
		return tx.Delete(&v).Error
	})
}

// verificationValid checks a stored code against the one supplied.
func verificationValid(v *models.Verification, code string, now time.Time) error {
	if v.VerificationCode != code {
		return ErrInvalidVerification
	}
	if now.Sub(v.CreatedAt) > VerificationTTL {
		return fmt.Errorf("%w: code expired", ErrInvalidVerification)
	}
	return nil
}

func (s *AuthService) ResendVerification(ctx context.Context, email, channel string) error {
	if err := validChannel(channel); err != nil {
		return err
	}
	user, err := s.userByEmail(ctx, email)
	if err != nil {
		return err
	}
	address, ok := channels(user)[channel]
	if !ok {
		return ErrVerificationChannelNil
	}
	return s.issueCode(ctx, user.ID, channel, address, utils.GenerateVerificationCode())
}

func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	var user models.User
	err := s.db.WithContext(ctx).
		Where("email = ?", strings.TrimSpace(strings.ToLower(email))).
		First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", ErrInvalidCredentials
	}
	if err != nil {
		return "", err
	}
	if !utils.CheckPasswordHash(password, user.Password) {
		return "", ErrInvalidCredentials
	}
	return utils.GenerateJWT(s.jwtSecret, user.ID, user.Role)
}

func (s *AuthService) CurrentUser(ctx context.Context, userID uint) (*CurrentUser, error) {
	var user models.User
	err := s.db.WithContext(ctx).First(&user, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	out := &CurrentUser{User: user}

	var profile models.UserProfile
	err = s.db.WithContext(ctx).Where("user_id = ?", userID).First(&profile).Error
	switch {
	case err == nil:
		out.UserProfile = &profile
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, err
	}

	pref := models.UserPreference{UserID: userID}
	err = s.db.WithContext(ctx).
		Where(models.UserPreference{UserID: userID}).
		Attrs(models.UserPreference{WeightHeightUnits: utils.UnitsImperial}).
		FirstOrCreate(&pref).Error
	if err != nil {
		return nil, err
	}
	out.UserPreferences = &pref

	var status models.VerificationStatus
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&status).Error; err == nil {
		out.VerificationStatus = &status
	}

	if out.UserProfile != nil {
		if bmi, err := utils.BodyMassIndex(profile.Weight, profile.Height, pref.WeightHeightUnits); err == nil {
			out.BMI = &bmi
		}
	}
	return out, nil
}

func (s *AuthService) UsernameAvailable(ctx context.Context, username string) (bool, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return false, invalidInput("Username is required")
	}
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).Where("username = ?", username).Count(&count).Error; err != nil {
		return false, err
	}
	return count == 0, nil
}

// DeleteUser removes a user and everything owned by it.
func (s *AuthService) DeleteUser(ctx context.Context, userID uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// hard delete so the email and username can be registered again
		tx = tx.Unscoped().Session(&gorm.Session{})
		res := tx.Delete(&models.User{}, userID)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrUserNotFound
		}

		days := tx.Model(&models.WellnessData{}).Select("id").Where("user_id = ?", userID)
		if err := tx.Where("wellness_data_id IN (?)", days).Delete(&models.FoodEntry{}).Error; err != nil {
			return err
		}
		if err := tx.Where("wellness_data_id IN (?)", days).Delete(&models.ExerciseEntry{}).Error; err != nil {
			return err
		}
		for _, m := range []any{
			&models.WellnessData{},
			&models.UserProfile{},
			&models.UserPreference{},
			&models.VerificationStatus{},
			&models.Verification{},
		} {
			if err := tx.Where("user_id = ?", userID).Delete(m).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// issueCode stores code as the user's current code for channel, replacing
// any previous one, and sends it.
func (s *AuthService) issueCode(ctx context.Context, userID uint, channel, address, code string) error {
	v := models.Verification{UserID: userID, Type: channel, VerificationCode: code, CreatedAt: s.now()}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "type"}},
		DoUpdates: clause.AssignmentColumns([]string{"verification_code", "created_at"}),
	}).Create(&v).Error
	if err != nil {
		return err
	}
	return s.sender.Send(ctx, channel, address, code)
}

func (s *AuthService) userByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).
		Where("email = ?", strings.TrimSpace(strings.ToLower(email))).
		First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// channels maps each verification type to the user's address for it.
func channels(u *models.User) map[string]string {
	out := make(map[string]string, 2)
	if u.Email != nil && *u.Email != "" {
		out[models.VerificationEmail] = *u.Email
	}
	if u.PhoneNumber != nil && *u.PhoneNumber != "" {
		out[models.VerificationSMS] = *u.PhoneNumber
	}
	return out
}

func validChannel(channel string) error {
	if channel != models.VerificationEmail && channel != models.VerificationSMS {
		return invalidInput(fmt.Sprintf("unknown verification type %q", channel))
	}
	return nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
