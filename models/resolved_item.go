package models

import "gorm.io/gorm"

// FoodItem is a food resolved once through the estimation service and
// reused for every later entry whose name normalizes to Key. It is never
// updated after creation.
type FoodItem struct {
	gorm.Model
	Key             string `gorm:"type:varchar(255);uniqueIndex;not null" json:"key"`
	Name            string `gorm:"size:100;not null" json:"name"`
	CaloriesPerUnit int    `gorm:"not null" json:"caloriesPerUnit"`
	Units           string `gorm:"not null" json:"units"`
	Description     string `json:"description"`
}

// ExerciseActivity is the exercise counterpart of FoodItem. BaseMetabolicRate
// is the MET value of the activity.
type ExerciseActivity struct {
	gorm.Model
	Key               string  `gorm:"type:varchar(255);uniqueIndex;not null" json:"key"`
	Name              string  `gorm:"size:100;not null" json:"name"`
	BaseMetabolicRate float64 `gorm:"not null" json:"baseMetabolicRate"`
	Description       string  `json:"description"`
}
