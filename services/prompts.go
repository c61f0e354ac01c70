package services

import "fmt"

type SubjectType string

const (
	SubjectFood            SubjectType = "food"
	SubjectExercise        SubjectType = "exercise"
	SubjectFoodSuggestions SubjectType = "food-suggestions"
)

func (s SubjectType) valid() bool {
	switch s {
	case SubjectFood, SubjectExercise, SubjectFoodSuggestions:
		return true
	}
	return false
}

type ExerciseKind string

const (
	ExerciseCardio   ExerciseKind = "cardio"
	ExerciseStrength ExerciseKind = "strength"
	ExerciseOther    ExerciseKind = "other"
)

// ParseExerciseKind falls back to "other" for anything unrecognised.
func ParseExerciseKind(s string) ExerciseKind {
	switch k := ExerciseKind(s); k {
	case ExerciseCardio, ExerciseStrength:
		return k
	}
	return ExerciseOther
}

func FoodEstimationPrompt(name string) string {
	return fmt.Sprintf(`
Estimate the calories for this food item: %[1]s.

Produce these values for the food item:
- name: the food item's name with spelling corrected, or a clearer name for it.
- caloriesPerUnit: the number of calories in one unit of the food item.
- units: the unit a person naturally counts this food in ("serving", "piece", "gram", ...).
  The unit is later multiplied by a ratio describing how much the user felt they ate, so
  pick the unit that ratio makes sense for: people eat pieces of candy but servings of turkey.
- description: a short plain description of the food item.

Reply with a single JSON object and nothing else, shaped like:
{
  "name": "%[1]s",
  "caloriesPerUnit": 100,
  "units": "serving",
  "description": "A delicious food item"
}
`, name)
}

func ExerciseEstimationPrompt(name string, kind ExerciseKind) string {
	return fmt.Sprintf(`
Here is the name of an exercise activity: %[1]s, assumed type: %[2]s.
Estimate the MET (Metabolic Equivalent of Task) for this activity. If the usual
value is a range, give the middle of the range.

Produce these values:
- name: the activity's name with spelling corrected, or a clearer name for it.
- baseMetabolicRate: the MET value of the activity.
- description: a short plain description of the activity.

Reply with a single JSON object and nothing else, shaped like:
{
  "name": "%[1]s",
  "baseMetabolicRate": 5,
  "description": "A fun exercise activity"
}
`, name, kind)
}

func FoodSuggestionsPrompt(name string) string {
	return fmt.Sprintf(`
Here is a food item a user typed: %s
Normalize it:
- work out which food is meant,
- fix any spelling mistakes,
- make the name clear and easy to understand.

Reply with a JSON array of a few possible normalized names and nothing else, shaped like:
[
  {"name": "Normalized Food Item Name 1"},
  {"name": "Normalized Food Item Name 2"}
]
`, name)
}
