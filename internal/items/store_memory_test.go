package items

import (
	"context"
	"sync"
	"testing"
)

func TestMemStore_SeedFixture(t *testing.T) {
	s := NewMemStore()

	all, err := s.List(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("len=%d", len(all))
	}
	if all[0] != (Item{ID: 1, Name: "Laptop", Price: 1200}) {
		t.Fatalf("items[0]=%+v", all[0])
	}
	if all[2] != (Item{ID: 3, Name: "Keyboard", Price: 75}) {
		t.Fatalf("items[2]=%+v", all[2])
	}
}

func TestMemStore_CreateAssignsMonotonicIDs(t *testing.T) {
	s := NewMemStore()
	ctx := context.Background()

	a, err := s.Create(ctx, "A", 1)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	b, err := s.Create(ctx, "B", 2)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if a.ID != 4 || b.ID != 5 {
		t.Fatalf("ids=%d,%d", a.ID, b.ID)
	}
}

func TestMemStore_IDsNotReusedAfterDelete(t *testing.T) {
	s := NewMemStore()
	ctx := context.Background()

	first, _ := s.Create(ctx, "First", 10)

	removed, err := s.Delete(ctx, first.ID)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if !removed {
		t.Fatalf("delete reported no removal")
	}

	second, _ := s.Create(ctx, "Second", 20)
	if second.ID <= first.ID {
		t.Fatalf("id=%d not past deleted id=%d", second.ID, first.ID)
	}
}

func TestMemStore_UpdatePartial(t *testing.T) {
	s := NewMemStore()
	ctx := context.Background()

	price := 1300.0
	it, ok, err := s.Update(ctx, 1, Patch{Price: &price})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if !ok {
		t.Fatalf("item 1 missing")
	}
	if it != (Item{ID: 1, Name: "Laptop", Price: 1300}) {
		t.Fatalf("item=%+v", it)
	}

	name := "Gaming Laptop"
	it, ok, _ = s.Update(ctx, 1, Patch{Name: &name})
	if !ok {
		t.Fatalf("item 1 missing")
	}
	if it != (Item{ID: 1, Name: "Gaming Laptop", Price: 1300}) {
		t.Fatalf("item=%+v", it)
	}
}

func TestMemStore_UpdateUnknownID(t *testing.T) {
	s := NewMemStore()

	price := 1.0
	_, ok, err := s.Update(context.Background(), 999, Patch{Price: &price})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if ok {
		t.Fatalf("update of unknown id reported found")
	}
}

func TestMemStore_DeleteReportsRemoval(t *testing.T) {
	s := NewMemStore()
	ctx := context.Background()

	removed, _ := s.Delete(ctx, 2)
	if !removed {
		t.Fatalf("first delete reported no removal")
	}

	removed, _ = s.Delete(ctx, 2)
	if removed {
		t.Fatalf("second delete reported removal")
	}
}

func TestMemStore_ListInsertionOrder(t *testing.T) {
	s := NewMemStore()
	ctx := context.Background()

	s.Create(ctx, "Monitor", 300)
	s.Delete(ctx, 2)
	name := "Mechanical Keyboard"
	s.Update(ctx, 3, Patch{Name: &name})

	all, _ := s.List(ctx)
	wantIDs := []int{1, 3, 4}
	if len(all) != len(wantIDs) {
		t.Fatalf("len=%d", len(all))
	}
	for i, id := range wantIDs {
		if all[i].ID != id {
			t.Fatalf("order=%+v", all)
		}
	}
}

func TestMemStore_ConcurrentCreateUniqueIDs(t *testing.T) {
	s := NewMemStore()
	ctx := context.Background()

	const n = 100
	ids := make(chan int, n)

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			it, err := s.Create(ctx, "Concurrent", 1)
			if err != nil {
				t.Errorf("create: %v", err)
				return
			}
			ids <- it.ID
		}()
	}
	wg.Wait()
	close(ids)

	seen := map[int]bool{}
	for id := range ids {
		if seen[id] {
			t.Fatalf("id %d assigned twice", id)
		}
		seen[id] = true
	}
	if len(seen) != n {
		t.Fatalf("got %d unique ids, want %d", len(seen), n)
	}
}
