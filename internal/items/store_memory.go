package items

import (
	"context"
	"sync"
)

// MemStore keeps items in an id-indexed map plus an ordered id slice so
// listing preserves insertion order. Ids come from a counter that is never
// decremented, so an id is never reused after a delete.
type MemStore struct {
	mu     sync.RWMutex
	m      map[int]Item
	order  []int
	nextID int
}

func NewMemStore() *MemStore {
	s := &MemStore{m: map[int]Item{}, nextID: 1}
	s.seed(
		Item{Name: "Laptop", Price: 1200},
		Item{Name: "Mouse", Price: 25},
		Item{Name: "Keyboard", Price: 75},
	)
	return s
}

func (s *MemStore) seed(items ...Item) {
	for _, it := range items {
		it.ID = s.nextID
		s.m[it.ID] = it
		s.order = append(s.order, it.ID)
		s.nextID++
	}
}

func (s *MemStore) Ping(ctx context.Context) error { return nil }

func (s *MemStore) List(ctx context.Context) ([]Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Item, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.m[id])
	}
	return out, nil
}

func (s *MemStore) Get(ctx context.Context, id int) (Item, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	it, ok := s.m[id]
	return it, ok, nil
}

func (s *MemStore) Create(ctx context.Context, name string, price float64) (Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	it := Item{ID: s.nextID, Name: name, Price: price}
	s.m[it.ID] = it
	s.order = append(s.order, it.ID)
	s.nextID++
	return it, nil
}

func (s *MemStore) Update(ctx context.Context, id int, p Patch) (Item, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	it, ok := s.m[id]
	if !ok {
		return Item{}, false, nil
	}

	if p.Name != nil {
		it.Name = *p.Name
	}
	if p.Price != nil {
		it.Price = *p.Price
	}

	s.m[id] = it
	return it, true, nil
}

func (s *MemStore) Delete(ctx context.Context, id int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.m[id]; !ok {
		return false, nil
	}

	delete(s.m, id)
	for i, oid := range s.order {
		if oid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return true, nil
}
