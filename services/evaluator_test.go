package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"wellness/models"

	"go.uber.org/zap"
)

const appleReply = `{"name": "Apple", "caloriesPerUnit": 52.9, "units": "piece", "description": "A crisp fruit"}`

func newTestEvaluator(store ResolvedItemStore, c Completer, m Moderator, p ModerationPolicy) *Evaluator {
	return NewEvaluator(store, c, m, p, zap.NewNop())
}

func TestResolveFoodCreatesOnceAndFloors(t *testing.T) {
	store := newMemStore()
	c := &fakeCompleter{reply: appleReply}
	e := newTestEvaluator(store, c, &fakeModerator{}, DefaultModerationPolicy())

	item, err := e.ResolveFood(context.Background(), "Apple")
	if err != nil {
		t.Fatal(err)
	}
	if item.Key != "apple" || item.Name != "Apple" || item.CaloriesPerUnit != 52 || item.Units != "piece" {
		t.Errorf("unexpected item %+v", item)
	}

	again, err := e.ResolveFood(context.Background(), "apple")
	if err != nil {
		t.Fatal(err)
	}
	if again.ID != item.ID {
		t.Errorf("second resolve returned item %d, want %d", again.ID, item.ID)
	}
	if n := c.calls.Load(); n != 1 {
		t.Errorf("completer called %d times, want 1", n)
	}
	if store.creates != 1 {
		t.Errorf("store has %d creates, want 1", store.creates)
	}
}

func TestResolveFoodSameKeySameItem(t *testing.T) {
	store := newMemStore()
	c := &fakeCompleter{reply: `{"name": "Grilled Chicken", "caloriesPerUnit": 200, "units": "serving", "description": "d"}`}
	e := newTestEvaluator(store, c, &fakeModerator{}, DefaultModerationPolicy())

	names := []string{"Grilled Chicken", "grilled chicken", "GRILLED CHICKEN", "Grilled chicken"}
	var first *models.FoodItem
	for _, n := range names {
		item, err := e.ResolveFood(context.Background(), n)
		if err != nil {
			t.Fatalf("ResolveFood(%q): %v", n, err)
		}
		if first == nil {
			first = item
		} else if item.ID != first.ID {
			t.Errorf("ResolveFood(%q) = item %d, want %d", n, item.ID, first.ID)
		}
	}
	if n := c.calls.Load(); n != 1 {
		t.Errorf("completer called %d times, want 1", n)
	}
}

func TestResolveFoodReusesItemUnderCorrectedName(t *testing.T) {
	store := newMemStore()
	existing := &models.FoodItem{Key: "banana", Name: "Banana", CaloriesPerUnit: 105, Units: "piece"}
	_ = store.CreateFoodItem(context.Background(), existing)

	c := &fakeCompleter{reply: `{"name": "Banana", "caloriesPerUnit": 90, "units": "piece", "description": "d"}`}
	e := newTestEvaluator(store, c, &fakeModerator{}, DefaultModerationPolicy())

	item, err := e.ResolveFood(context.Background(), "bananna")
	if err != nil {
		t.Fatal(err)
	}
	if item.ID != existing.ID || item.CaloriesPerUnit != 105 {
		t.Errorf("got %+v, want the existing banana", item)
	}
	if store.creates != 1 {
		t.Errorf("store has %d creates, want 1", store.creates)
	}
}

func TestResolveFoodModerationFlagged(t *testing.T) {
	store := newMemStore()
	c := &fakeCompleter{reply: appleReply}
	m := &fakeModerator{flagged: true}
	e := newTestEvaluator(store, c, m, ModerationPolicy{Mode: ModerateAll})

	_, err := e.ResolveFood(context.Background(), "something nasty")
	var cme *ContentModerationError
	if !errors.As(err, &cme) {
		t.Fatalf("err = %v, want ContentModerationError", err)
	}
	if cme.StatusCode() != 400 {
		t.Errorf("status = %d", cme.StatusCode())
	}
	if store.size() != 0 {
		t.Error("store changed after a flagged prompt")
	}
	if c.calls.Load() != 0 {
		t.Error("completer called after a flagged prompt")
	}
}

func TestResolveDefaultPolicyGatesExerciseOnly(t *testing.T) {
	store := newMemStore()
	m := &fakeModerator{flagged: true}
	c := &fakeCompleter{reply: appleReply}
	e := newTestEvaluator(store, c, m, DefaultModerationPolicy())

	if _, err := e.ResolveFood(context.Background(), "Apple"); err != nil {
		t.Fatalf("food should not be gated: %v", err)
	}
	if m.calls.Load() != 0 {
		t.Errorf("moderator called %d times for food", m.calls.Load())
	}

	_, err := e.ResolveExercise(context.Background(), "running", ExerciseCardio)
	var cme *ContentModerationError
	if !errors.As(err, &cme) {
		t.Fatalf("err = %v, want ContentModerationError", err)
	}
	if len(store.exercises) != 0 {
		t.Error("exercise persisted after a flagged prompt")
	}
}

func TestResolveModerationServiceFailure(t *testing.T) {
	store := newMemStore()
	c := &fakeCompleter{reply: appleReply}
	m := &fakeModerator{err: fmt.Errorf("%w: timeout", ErrModerationService)}
	e := newTestEvaluator(store, c, m, ModerationPolicy{Mode: ModerateAll})

	_, err := e.ResolveFood(context.Background(), "Apple")
	if !errors.Is(err, ErrModerationService) {
		t.Fatalf("err = %v, want ErrModerationService", err)
	}
	if c.calls.Load() != 0 || store.size() != 0 {
		t.Error("nothing should happen after a moderation failure")
	}
}

func TestResolveFoodMalformedResponse(t *testing.T) {
	tests := []struct {
		name  string
		reply string
	}{
		{"missing caloriesPerUnit", `{"name": "Apple", "units": "piece", "description": "d"}`},
		{"zero caloriesPerUnit", `{"name": "Apple", "caloriesPerUnit": 0, "units": "piece", "description": "d"}`},
		{"string caloriesPerUnit", `{"name": "Apple", "caloriesPerUnit": "52", "units": "piece", "description": "d"}`},
		{"empty name", `{"name": "", "caloriesPerUnit": 52, "units": "piece", "description": "d"}`},
		{"not json", `I think an apple has about 52 calories.`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newMemStore()
			e := newTestEvaluator(store, &fakeCompleter{reply: tt.reply}, &fakeModerator{}, DefaultModerationPolicy())

			_, err := e.ResolveFood(context.Background(), "Apple")
			if !errors.Is(err, ErrMalformedResponse) {
				t.Fatalf("err = %v, want ErrMalformedResponse", err)
			}
			if !strings.Contains(err.Error(), "could not find or create food item") {
				t.Errorf("err = %q", err)
			}
			if store.size() != 0 {
				t.Error("malformed response was persisted")
			}
		})
	}
}

func TestResolveFoodNoResponse(t *testing.T) {
	store := newMemStore()
	c := &fakeCompleter{err: fmt.Errorf("%w: upstream 503", ErrNoResponse)}
	e := newTestEvaluator(store, c, &fakeModerator{}, DefaultModerationPolicy())

	if _, err := e.ResolveFood(context.Background(), "Apple"); !errors.Is(err, ErrNoResponse) {
		t.Fatalf("err = %v, want ErrNoResponse", err)
	}
	if store.size() != 0 {
		t.Error("store changed without a response")
	}
}

func TestResolveFoodConflictRereads(t *testing.T) {
	store := newMemStore()
	winner := &models.FoodItem{Key: "apple", Name: "Apple", CaloriesPerUnit: 95, Units: "piece"}
	store.beforeCreate = func(s *memStore, key string) error {
		s.beforeCreate = nil
		// another process wins the race for the same key
		return s.CreateFoodItem(context.Background(), winner)
	}
	e := newTestEvaluator(store, &fakeCompleter{reply: appleReply}, &fakeModerator{}, DefaultModerationPolicy())

	item, err := e.ResolveFood(context.Background(), "Apple")
	if err != nil {
		t.Fatal(err)
	}
	if item.ID != winner.ID || item.CaloriesPerUnit != 95 {
		t.Errorf("got %+v, want the winner's item", item)
	}
	if store.creates != 1 {
		t.Errorf("store has %d creates, want 1", store.creates)
	}
}

func TestResolveFoodConcurrentMissesShareOneCall(t *testing.T) {
	store := newMemStore()
	c := &fakeCompleter{reply: appleReply}
	e := newTestEvaluator(store, c, &fakeModerator{}, DefaultModerationPolicy())

	const n = 20
	var wg sync.WaitGroup
	ids := make([]uint, n)
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			item, err := e.ResolveFood(context.Background(), "Apple")
			errs[i] = err
			if err == nil {
				ids[i] = item.ID
			}
		}(i)
	}
	wg.Wait()

	for i := 0; i < n; i++ {
		if errs[i] != nil {
			t.Fatalf("goroutine %d: %v", i, errs[i])
		}
		if ids[i] != ids[0] {
			t.Errorf("goroutine %d got item %d, want %d", i, ids[i], ids[0])
		}
	}
	if got := c.calls.Load(); got != 1 {
		t.Errorf("completer called %d times, want 1", got)
	}
}

func TestResolveFoodSharedCallSurvivesFirstCallerCancel(t *testing.T) {
	store := newMemStore()
	c := newBlockingCompleter(appleReply)
	e := newTestEvaluator(store, c, &fakeModerator{}, DefaultModerationPolicy())

	ctxA, cancelA := context.WithCancel(context.Background())
	errA := make(chan error, 1)
	go func() {
		_, err := e.ResolveFood(ctxA, "Apple")
		errA <- err
	}()
	<-c.started

	type result struct {
		item *models.FoodItem
		err  error
	}
	resB := make(chan result, 1)
	go func() {
		item, err := e.ResolveFood(context.Background(), "Apple")
		resB <- result{item, err}
	}()
	// A's outer and inner lookups, then B's lookup before it joins
	for store.foodReads.Load() < 3 {
		time.Sleep(time.Millisecond)
	}
	time.Sleep(10 * time.Millisecond)

	cancelA()
	if err := <-errA; !errors.Is(err, context.Canceled) {
		t.Fatalf("cancelled caller err = %v, want context.Canceled", err)
	}

	close(c.release)
	b := <-resB
	if b.err != nil {
		t.Fatalf("live caller err = %v", b.err)
	}
	if b.item.Name != "Apple" {
		t.Errorf("item = %+v", b.item)
	}
	if got := c.calls.Load(); got != 1 {
		t.Errorf("completer called %d times, want 1", got)
	}
	if store.size() != 1 {
		t.Errorf("store size = %d, want 1", store.size())
	}
}

func TestResolveExercise(t *testing.T) {
	store := newMemStore()
	c := &fakeCompleter{reply: `{"name": "Running", "baseMetabolicRate": 9.8, "description": "Running at a steady pace"}`}
	e := newTestEvaluator(store, c, &fakeModerator{}, DefaultModerationPolicy())

	a, err := e.ResolveExercise(context.Background(), "Runing", ExerciseCardio)
	if err != nil {
		t.Fatal(err)
	}
	if a.Key != "running" || a.BaseMetabolicRate != 9.8 {
		t.Errorf("unexpected activity %+v", a)
	}
	if !strings.Contains(c.prompts[0], "Runing") || !strings.Contains(c.prompts[0], "cardio") {
		t.Errorf("prompt does not carry the name and kind: %q", c.prompts[0])
	}

	c.reply = `{"name": "Running", "description": "no rate"}`
	_, err = e.ResolveExercise(context.Background(), "sprinting", ExerciseCardio)
	if !errors.Is(err, ErrMalformedResponse) {
		t.Errorf("err = %v, want ErrMalformedResponse", err)
	}
}

func TestSuggestFoodNames(t *testing.T) {
	c := &fakeCompleter{reply: "```json\n[{\"name\": \"Apple\"}, {\"name\": \"Green Apple\"}]\n```"}
	e := newTestEvaluator(newMemStore(), c, &fakeModerator{}, DefaultModerationPolicy())

	names, err := e.SuggestFoodNames(context.Background(), " aple ")
	if err != nil {
		t.Fatal(err)
	}
	if len(names) != 2 || names[0] != "Apple" || names[1] != "Green Apple" {
		t.Errorf("names = %v", names)
	}
}
