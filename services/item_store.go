package services

import (
	"context"
	"errors"
	"fmt"

	"wellness/models"

	"gorm.io/gorm"
)

// ResolvedItemStore is the lookup-by-key store behind the resolve-or-create
// cache. Find returns ErrItemNotFound on a miss; Create returns
// ErrPersistenceConflict when the key is already taken.
type ResolvedItemStore interface {
	FindFoodItemByKey(ctx context.Context, key string) (*models.FoodItem, error)
	CreateFoodItem(ctx context.Context, item *models.FoodItem) error
	FindExerciseActivityByKey(ctx context.Context, key string) (*models.ExerciseActivity, error)
	CreateExerciseActivity(ctx context.Context, activity *models.ExerciseActivity) error
}

type GormItemStore struct {
	db *gorm.DB
}

func NewGormItemStore(db *gorm.DB) *GormItemStore {
	return &GormItemStore{db: db}
}

func (s *GormItemStore) FindFoodItemByKey(ctx context.Context, key string) (*models.FoodItem, error) {
	var item models.FoodItem
	if err := s.db.WithContext(ctx).Where(&models.FoodItem{Key: key}).First(&item).Error; err != nil {
		return nil, translateFindError(err, key)
	}
	return &item, nil
}

func (s *GormItemStore) CreateFoodItem(ctx context.Context, item *models.FoodItem) error {
	return translateCreateError(s.db.WithContext(ctx).Create(item).Error, item.Key)
}

func (s *GormItemStore) FindExerciseActivityByKey(ctx context.Context, key string) (*models.ExerciseActivity, error) {
	var activity models.ExerciseActivity
	if err := s.db.WithContext(ctx).Where(&models.ExerciseActivity{Key: key}).First(&activity).Error; err != nil {
		return nil, translateFindError(err, key)
	}
	return &activity, nil
}

func (s *GormItemStore) CreateExerciseActivity(ctx context.Context, activity *models.ExerciseActivity) error {
	return translateCreateError(s.db.WithContext(ctx).Create(activity).Error, activity.Key)
}

func translateFindError(err error, key string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: %s", ErrItemNotFound, key)
	}
	return fmt.Errorf("find resolved item %q: %w", key, err)
}

func translateCreateError(err error, key string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%w: %s", ErrPersistenceConflict, key)
	default:
		return fmt.Errorf("create resolved item %q: %w", key, err)
	}
}
