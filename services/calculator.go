package services

import (
	"math"

	"wellness/utils"
)

var quantityMultipliers = map[string]float64{
	"some":  0.5,
	"half":  0.5,
	"full":  1.0,
	"extra": 1.5,
}

var intensityMultipliers = map[string]float64{
	"easy":     0.75,
	"moderate": 1.0,
	"hard":     1.25,
}

// CalculateCalories scales a per-unit calorie value by how much was eaten.
// Unknown quantity labels count as one full unit. The result is floored.
func CalculateCalories(caloriesPerUnit float64, quantity string) int {
	m, ok := quantityMultipliers[quantity]
	if !ok {
		m = 1.0
	}
	return int(math.Floor(caloriesPerUnit * m))
}

// CalculateCaloriesBurned is MET x kg x hours, floored. An unknown intensity
// is treated as moderate.
func CalculateCaloriesBurned(baseMetabolicRate, durationMinutes float64, intensity string, weight float64, weightUnits string) int {
	m, ok := intensityMultipliers[intensity]
	if !ok {
		m = 1.0
	}
	met := baseMetabolicRate * m
	weightKg := utils.ToKilograms(weight, weightUnits)
	return int(math.Floor(met * weightKg * (durationMinutes / 60)))
}
