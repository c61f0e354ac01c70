package services

import (
	"encoding/json"
	"fmt"
	"strings"
)

type FoodEstimate struct {
	Name            string
	CaloriesPerUnit float64
	Units           string
	Description     string
}

type ExerciseEstimate struct {
	Name              string
	BaseMetabolicRate float64
	Description       string
}

// ParseFoodEstimate validates a food estimation reply. Every field is
// required with the right JSON type; numbers are kept as-is here and only
// floored when the item is persisted.
func ParseFoodEstimate(raw string) (*FoodEstimate, error) {
	obj, err := decodeObject(raw)
	if err != nil {
		return nil, err
	}
	var est FoodEstimate
	if est.Name, err = requireString(obj, "name"); err != nil {
		return nil, err
	}
	if est.CaloriesPerUnit, err = requirePositive(obj, "caloriesPerUnit"); err != nil {
		return nil, err
	}
	if est.Units, err = requireString(obj, "units"); err != nil {
		return nil, err
	}
	if est.Description, err = requireString(obj, "description"); err != nil {
		return nil, err
	}
	return &est, nil
}

func ParseExerciseEstimate(raw string) (*ExerciseEstimate, error) {
	obj, err := decodeObject(raw)
	if err != nil {
		return nil, err
	}
	var est ExerciseEstimate
	if est.Name, err = requireString(obj, "name"); err != nil {
		return nil, err
	}
	if est.BaseMetabolicRate, err = requirePositive(obj, "baseMetabolicRate"); err != nil {
		return nil, err
	}
	if est.Description, err = requireString(obj, "description"); err != nil {
		return nil, err
	}
	return &est, nil
}

// ParseNameSuggestions validates a reply to FoodSuggestionsPrompt: a JSON
// array whose every element has a string "name".
func ParseNameSuggestions(raw string) ([]string, error) {
	var items []map[string]any
	if err := json.Unmarshal([]byte(stripCodeFence(raw)), &items); err != nil {
		return nil, fmt.Errorf("%w: expected a JSON array: %v", ErrMalformedResponse, err)
	}
	names := make([]string, 0, len(items))
	for _, it := range items {
		name, err := requireString(it, "name")
		if err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, nil
}

func decodeObject(raw string) (map[string]any, error) {
	var obj map[string]any
	if err := json.Unmarshal([]byte(stripCodeFence(raw)), &obj); err != nil {
		return nil, fmt.Errorf("%w: expected a JSON object: %v", ErrMalformedResponse, err)
	}
	if obj == nil {
		return nil, fmt.Errorf("%w: expected a JSON object, got null", ErrMalformedResponse)
	}
	return obj, nil
}

func requireString(obj map[string]any, field string) (string, error) {
	s, ok := obj[field].(string)
	if !ok || strings.TrimSpace(s) == "" {
		return "", fmt.Errorf("%w: no %s found", ErrMalformedResponse, field)
	}
	return s, nil
}

func requirePositive(obj map[string]any, field string) (float64, error) {
	n, ok := obj[field].(float64)
	if !ok || n <= 0 {
		return 0, fmt.Errorf("%w: no %s found", ErrMalformedResponse, field)
	}
	return n, nil
}

// stripCodeFence removes a markdown ```json fence some models wrap replies in.
func stripCodeFence(raw string) string {
	s := strings.TrimSpace(raw)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
