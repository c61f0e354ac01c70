package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"wellness/models"
	"wellness/utils"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Evaluator resolves free-text food and exercise names into persisted items,
// asking the estimation service only when the normalized key is unknown.
//
// Concurrent misses for the same key inside one process share a single
// estimation call. Across processes the store's unique key is the backstop:
// a create that loses the race rereads and returns the winner's item.
type Evaluator struct {
	store     ResolvedItemStore
	completer Completer
	moderator Moderator
	policy    ModerationPolicy
	group     singleflight.Group
	log       *zap.Logger
}

func NewEvaluator(store ResolvedItemStore, completer Completer, moderator Moderator, policy ModerationPolicy, log *zap.Logger) *Evaluator {
	return &Evaluator{
		store:     store,
		completer: completer,
		moderator: moderator,
		policy:    policy,
		log:       log,
	}
}

func (e *Evaluator) ResolveFood(ctx context.Context, name string) (*models.FoodItem, error) {
	key := utils.NormalizeKey(name)
	item, err := e.store.FindFoodItemByKey(ctx, key)
	if err == nil {
		return item, nil
	}
	if !errors.Is(err, ErrItemNotFound) {
		return nil, err
	}

	v, err := e.shared(ctx, "food:"+key, func(ctx context.Context) (any, error) {
		// a caller that just finished this key may have persisted it
		if item, err := e.store.FindFoodItemByKey(ctx, key); err == nil {
			return item, nil
		}
		return e.createFood(ctx, name)
	})
	if err != nil {
		return nil, err
	}
	return v.(*models.FoodItem), nil
}

func (e *Evaluator) createFood(ctx context.Context, name string) (*models.FoodItem, error) {
	e.log.Info("food cache miss, estimating", zap.String("name", name))

	raw, err := e.estimate(ctx, SubjectFood, FoodEstimationPrompt(name))
	if err != nil {
		return nil, err
	}
	est, err := ParseFoodEstimate(raw)
	if err != nil {
		return nil, fmt.Errorf("could not find or create food item: %w", err)
	}

	key := utils.NormalizeKey(est.Name)
	if existing, err := e.store.FindFoodItemByKey(ctx, key); err == nil {
		return existing, nil
	}

	item := &models.FoodItem{
		Key:             key,
		Name:            est.Name,
		CaloriesPerUnit: int(math.Floor(est.CaloriesPerUnit)),
		Units:           est.Units,
		Description:     est.Description,
	}
	err = e.store.CreateFoodItem(ctx, item)
	if errors.Is(err, ErrPersistenceConflict) {
		e.log.Info("food item created concurrently, rereading", zap.String("key", key))
		return e.store.FindFoodItemByKey(ctx, key)
	}
	if err != nil {
		return nil, err
	}
	return item, nil
}

func (e *Evaluator) ResolveExercise(ctx context.Context, name string, kind ExerciseKind) (*models.ExerciseActivity, error) {
	key := utils.NormalizeKey(name)
	activity, err := e.store.FindExerciseActivityByKey(ctx, key)
	if err == nil {
		return activity, nil
	}
	if !errors.Is(err, ErrItemNotFound) {
		return nil, err
	}

	v, err := e.shared(ctx, "exercise:"+key, func(ctx context.Context) (any, error) {
		if activity, err := e.store.FindExerciseActivityByKey(ctx, key); err == nil {
			return activity, nil
		}
		return e.createExercise(ctx, name, kind)
	})
	if err != nil {
		return nil, err
	}
	return v.(*models.ExerciseActivity), nil
}

func (e *Evaluator) createExercise(ctx context.Context, name string, kind ExerciseKind) (*models.ExerciseActivity, error) {
	e.log.Info("exercise cache miss, estimating", zap.String("name", name), zap.String("kind", string(kind)))

	raw, err := e.estimate(ctx, SubjectExercise, ExerciseEstimationPrompt(name, kind))
	if err != nil {
		return nil, err
	}
	est, err := ParseExerciseEstimate(raw)
	if err != nil {
		return nil, fmt.Errorf("could not find or create exercise activity: %w", err)
	}

	key := utils.NormalizeKey(est.Name)
	if existing, err := e.store.FindExerciseActivityByKey(ctx, key); err == nil {
		return existing, nil
	}

	activity := &models.ExerciseActivity{
		Key:               key,
		Name:              est.Name,
		BaseMetabolicRate: est.BaseMetabolicRate,
		Description:       est.Description,
	}
	err = e.store.CreateExerciseActivity(ctx, activity)
	if errors.Is(err, ErrPersistenceConflict) {
		e.log.Info("exercise activity created concurrently, rereading", zap.String("key", key))
		return e.store.FindExerciseActivityByKey(ctx, key)
	}
	if err != nil {
		return nil, err
	}
	return activity, nil
}

// shared runs fn once per key for all concurrent callers. fn gets a context
// that outlives any single caller, so one client going away does not fail
// the others; each caller still stops waiting when its own ctx is done.
func (e *Evaluator) shared(ctx context.Context, key string, fn func(context.Context) (any, error)) (any, error) {
	ch := e.group.DoChan(key, func() (any, error) {
		return fn(context.WithoutCancel(ctx))
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case r := <-ch:
		return r.Val, r.Err
	}
}

// SuggestFoodNames asks for a few normalized spellings of what the user
// typed. Nothing is persisted.
func (e *Evaluator) SuggestFoodNames(ctx context.Context, name string) ([]string, error) {
	raw, err := e.estimate(ctx, SubjectFoodSuggestions, FoodSuggestionsPrompt(strings.TrimSpace(name)))
	if err != nil {
		return nil, err
	}
	return ParseNameSuggestions(raw)
}

// estimate runs the moderation gate when the policy asks for it and then
// sends the prompt.
func (e *Evaluator) estimate(ctx context.Context, subject SubjectType, prompt string) (string, error) {
	if e.policy.Gates(subject) {
		ok, err := PassesModeration(ctx, e.moderator, prompt)
		if err != nil {
			return "", err
		}
		if !ok {
			e.log.Info("content flagged by moderation", zap.String("subject", string(subject)))
			return "", NewContentModerationError("Content flagged by moderation")
		}
	}
	return e.completer.Complete(ctx, prompt)
}
