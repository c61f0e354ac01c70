package models

import (
	"gorm.io/gorm"
)

// WellnessData is one user's log for a single calendar day.
type WellnessData struct {
	gorm.Model
	UserID          uint            `gorm:"uniqueIndex:idx_wellness_user_date;not null" json:"userId"`
	Date            string          `gorm:"type:char(10);uniqueIndex:idx_wellness_user_date;not null" json:"date"` // YYYY-MM-DD
	GlassesOfWater  int             `gorm:"default:0" json:"glassesOfWater"`
	HasActivity     bool            `gorm:"index" json:"hasActivity"`
	FoodEntries     []FoodEntry     `json:"foodEntries"`
	ExerciseEntries []ExerciseEntry `json:"exerciseEntries"`
}

type FoodEntry struct {
	gorm.Model
	WellnessDataID uint      `gorm:"index;not null" json:"wellnessDataId"`
	FoodItemID     *uint     `json:"foodItemId,omitempty"`
	FoodItem       *FoodItem `json:"foodItem,omitempty"`
	Name           string    `gorm:"size:100;not null" json:"name"`
	Quantity       string    `gorm:"size:16;not null" json:"quantity"` // some | half | full | extra
	Calories       int       `gorm:"not null" json:"calories"`
}

type ExerciseEntry struct {
	gorm.Model
	WellnessDataID     uint              `gorm:"index;not null" json:"wellnessDataId"`
	ExerciseActivityID *uint             `json:"exerciseActivityId,omitempty"`
	ExerciseActivity   *ExerciseActivity `json:"exerciseActivity,omitempty"`
	Name               string            `gorm:"size:100;not null" json:"name"`
	Type               string            `gorm:"size:16;not null" json:"type"`      // cardio | strength | other
	Intensity          string            `gorm:"size:16;not null" json:"intensity"` // easy | moderate | hard
	Duration           float64           `gorm:"not null" json:"duration"`          // minutes
	CaloriesBurned     int               `gorm:"not null" json:"caloriesBurned"`
}
