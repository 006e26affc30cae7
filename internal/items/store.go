package items

import "context"

type Item struct {
	ID    int     `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

// Patch carries the optional fields of an update; nil means "leave as is".
type Patch struct {
	Name  *string
	Price *float64
}

type Store interface {
	Ping(ctx context.Context) error
	List(ctx context.Context) ([]Item, error)
	Get(ctx context.Context, id int) (Item, bool, error)
	Create(ctx context.Context, name string, price float64) (Item, error)
	Update(ctx context.Context, id int, p Patch) (Item, bool, error)
	Delete(ctx context.Context, id int) (bool, error)
}
