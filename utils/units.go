package utils

import "errors"

const (
	UnitsImperial = "imperial"
	UnitsMetric   = "metric"

	PoundsToKilograms   = 0.453592
	InchesToCentimeters = 2.54
)

// ToKilograms converts a body weight expressed in the user's preferred units.
func ToKilograms(weight float64, units string) float64 {
	if units == UnitsImperial {
		return weight * PoundsToKilograms
	}
	return weight
}

// ToCentimeters converts a body height expressed in the user's preferred units.
func ToCentimeters(height float64, units string) float64 {
	if units == UnitsImperial {
		return height * InchesToCentimeters
	}
	return height
}

// BodyMassIndex returns kg/m² for a weight and height given in units.
func BodyMassIndex(weight, height float64, units string) (float64, error) {
	kg := ToKilograms(weight, units)
	cm := ToCentimeters(height, units)
	if kg <= 0 || cm <= 0 {
		return 0, errors.New("height and weight must be positive")
	}
	if cm < 50 || cm > 250 || kg < 10 || kg > 400 {
		return 0, errors.New("height/weight out of plausible range")
	}
	m := cm / 100.0
	return kg / (m * m), nil
}
