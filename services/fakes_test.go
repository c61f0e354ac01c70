package services

import (
	"context"
	"sync"
	"sync/atomic"

	"wellness/models"
)

type memStore struct {
	mu        sync.Mutex
	foods     map[string]*models.FoodItem
	exercises map[string]*models.ExerciseActivity
	nextID    uint
	creates   int
	foodReads atomic.Int32

	// beforeCreate runs before a create is applied; returning an error
	// aborts the create.
	beforeCreate func(s *memStore, key string) error
}

func newMemStore() *memStore {
	return &memStore{
		foods:     map[string]*models.FoodItem{},
		exercises: map[string]*models.ExerciseActivity{},
	}
}

func (s *memStore) FindFoodItemByKey(_ context.Context, key string) (*models.FoodItem, error) {
	s.foodReads.Add(1)
	s.mu.Lock()
	defer s.mu.Unlock()
	if it, ok := s.foods[key]; ok {
		return it, nil
	}
	return nil, ErrItemNotFound
}

func (s *memStore) CreateFoodItem(_ context.Context, item *models.FoodItem) error {
	if s.beforeCreate != nil {
		if err := s.beforeCreate(s, item.Key); err != nil {
			return err
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.foods[item.Key]; ok {
		return ErrPersistenceConflict
	}
	s.nextID++
	item.ID = s.nextID
	s.foods[item.Key] = item
	s.creates++
	return nil
}

func (s *memStore) FindExerciseActivityByKey(_ context.Context, key string) (*models.ExerciseActivity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if a, ok := s.exercises[key]; ok {
		return a, nil
	}
	return nil, ErrItemNotFound
}

func (s *memStore) CreateExerciseActivity(_ context.Context, a *models.ExerciseActivity) error {
	if s.beforeCreate != nil {
		if err := s.beforeCreate(s, a.Key); err != nil {
			return err
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.exercises[a.Key]; ok {
		return ErrPersistenceConflict
	}
	s.nextID++
	a.ID = s.nextID
	s.exercises[a.Key] = a
	s.creates++
	return nil
}

func (s *memStore) size() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.foods) + len(s.exercises)
}

type fakeCompleter struct {
	reply   string
	err     error
	calls   atomic.Int32
	prompts []string
	mu      sync.Mutex
}

func (f *fakeCompleter) Complete(_ context.Context, prompt string) (string, error) {
	f.calls.Add(1)
	f.mu.Lock()
	f.prompts = append(f.prompts, prompt)
	f.mu.Unlock()
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}

type fakeModerator struct {
	flagged bool
	err     error
	calls   atomic.Int32
}

func (f *fakeModerator) Moderate(context.Context, string) (bool, error) {
	f.calls.Add(1)
	return f.flagged, f.err
}

// blockingCompleter holds every call until release is closed or the call's
// context is done.
type blockingCompleter struct {
	reply   string
	started chan struct{}
	release chan struct{}
	once    sync.Once
	calls   atomic.Int32
}

func newBlockingCompleter(reply string) *blockingCompleter {
	return &blockingCompleter{reply: reply, started: make(chan struct{}), release: make(chan struct{})}
}

func (f *blockingCompleter) Complete(ctx context.Context, _ string) (string, error) {
	f.calls.Add(1)
	f.once.Do(func() { close(f.started) })
	select {
	case <-f.release:
		return f.reply, nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}
