package memory

import (
	"context"
	"sync"
	"testing"

	"fitstudio/server/internal/domain"
	"fitstudio/server/internal/repository"
	"fitstudio/server/internal/repository/repositorytest"

	"gorm.io/datatypes"
)

func TestStoreContract(t *testing.T) {
	repositorytest.Run(t, func(t *testing.T) *repository.Store {
		return NewStore(nil)
	})
}

func TestConcurrentInsertsGetDistinctIDs(t *testing.T) {
	store := NewStore(nil)
	ctx := context.Background()

	const workers = 16
	const perWorker = 50

	var mu sync.Mutex
	seen := make(map[int64]bool)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perWorker; j++ {
				p := &domain.Progress{StudentID: 1}
				if err := store.Progress.Insert(ctx, p); err != nil {
					t.Errorf("insert: %v", err)
					return
				}
				mu.Lock()
				if seen[p.ID] {
					t.Errorf("id %d handed out twice", p.ID)
				}
				seen[p.ID] = true
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if len(seen) != workers*perWorker {
		t.Fatalf("expected %d distinct ids, got %d", workers*perWorker, len(seen))
	}
}

func TestGetReturnsCopy(t *testing.T) {
	store := NewStore(nil)
	ctx := context.Background()

	w := &domain.Workout{Title: "Legs", Level: "basic", DurationMinutes: 30, TrainerID: 1, Category: "lower"}
	if err := store.Workouts.Insert(ctx, w); err != nil {
		t.Fatalf("insert: %v", err)
	}
	w.Title = "changed after insert"

	got, err := store.Workouts.Get(ctx, w.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	got.Title = "changed after get"

	again, _ := store.Workouts.Get(ctx, w.ID)
	if again.Title != "Legs" {
		t.Fatalf("stored row was aliased, title=%q", again.Title)
	}
}

func TestMapAndPointerFieldsAreNotShared(t *testing.T) {
	store := NewStore(nil)
	ctx := context.Background()

	ref := "INV-1"
	p := &domain.Payment{
		StudentID: 2, TrainerID: 1, AmountCents: 100, Plan: "Mensal",
		Reference: &ref,
		Metadata:  datatypes.JSONMap{"k": "v", "nested": map[string]any{"a": "b"}},
	}
	if err := store.Payments.Insert(ctx, p); err != nil {
		t.Fatalf("insert: %v", err)
	}
	p.Metadata["k"] = "changed after insert"
	*p.Reference = "changed after insert"

	got, err := store.Payments.Get(ctx, p.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	got.Metadata["k"] = "changed after get"
	got.Metadata["nested"].(map[string]any)["a"] = "changed after get"

	listed, err := store.Payments.Scan(ctx, nil)
	if err != nil || len(listed) != 1 {
		t.Fatalf("scan: %v, %d rows", err, len(listed))
	}
	listed[0].Metadata["k"] = "changed after scan"

	again, _ := store.Payments.Get(ctx, p.ID)
	if again.Metadata["k"] != "v" {
		t.Fatalf("metadata aliased: %v", again.Metadata["k"])
	}
	if again.Metadata["nested"].(map[string]any)["a"] != "b" {
		t.Fatalf("nested metadata aliased: %v", again.Metadata["nested"])
	}
	if *again.Reference != "INV-1" {
		t.Fatalf("reference aliased: %q", *again.Reference)
	}
}

func TestCanceledContext(t *testing.T) {
	store := NewStore(nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := store.Users.Insert(ctx, &domain.User{Username: "x"}); err == nil {
		t.Fatalf("expected insert on canceled context to fail")
	}
}
