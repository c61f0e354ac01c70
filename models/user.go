package models

import (
	"gorm.io/gorm"
)

const (
	RoleGuest    = "guest"
	RoleStandard = "standard"
	RolePremium  = "premium"
	RoleAdmin    = "admin"
)

type User struct {
	gorm.Model
	Email       *string `gorm:"uniqueIndex" json:"email,omitempty"`
	Username    string  `gorm:"uniqueIndex;not null" json:"username"`
	Password    string  `gorm:"not null" json:"-"`
	Role        string  `gorm:"size:16;default:standard" json:"role"`
	PhoneNumber *string `gorm:"uniqueIndex" json:"phoneNumber,omitempty"`
}

// UserProfile holds the body metrics used by the calorie calculators.
// Weight and height are stored in the units named by UserPreference.
type UserProfile struct {
	gorm.Model
	UserID         uint    `gorm:"uniqueIndex;not null" json:"userId"`
	Age            int     `gorm:"default:24" json:"age"`
	Weight         float64 `gorm:"default:180" json:"weight"`
	Height         float64 `gorm:"default:180" json:"height"`
	CalorieGoal    int     `gorm:"default:2000" json:"calorieGoal"`
	ActivityLevel  string  `gorm:"size:16;default:moderate" json:"activityLevel"`
	Gender         string  `gorm:"size:32;default:prefer not to answer" json:"gender"`
	ProfilePicture string  `json:"profilePicture,omitempty"`
}

type UserPreference struct {
	gorm.Model
	UserID            uint   `gorm:"uniqueIndex;not null" json:"userId"`
	WeightHeightUnits string `gorm:"size:16;default:imperial" json:"weightHeightUnits"`
}
