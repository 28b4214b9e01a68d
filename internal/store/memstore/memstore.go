// Package memstore keeps every collection in process memory. Records are held
// in their encoded form so callers never share slices with the store.
package memstore

import (
	"context"
	"slices"
	"sync"

	"github.com/supriya-vit2006/vit-travel-buddy-s/internal/models"
	"github.com/supriya-vit2006/vit-travel-buddy-s/internal/store"
)

type entry struct {
	id   string
	data []byte
}

// Collection is an ordered, mutex guarded record list
type Collection[T store.Record] struct {
	mu      sync.RWMutex
	entries []entry
}

func NewCollection[T store.Record]() *Collection[T] {
	return &Collection[T]{}
}

func (c *Collection[T]) List(_ context.Context) ([]T, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]T, 0, len(c.entries))
	for _, e := range c.entries {
		rec, err := store.Decode[T](e.data)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

func (c *Collection[T]) Get(_ context.Context, id string) (T, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var zero T
	i := c.index(id)
	if i < 0 {
		return zero, false, nil
	}
	rec, err := store.Decode[T](c.entries[i].data)
	if err != nil {
		return zero, false, err
	}
	return rec, true, nil
}

func (c *Collection[T]) Put(_ context.Context, rec T) error {
	data, err := store.Encode(rec)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if i := c.index(rec.Key()); i >= 0 {
		c.entries[i].data = data
		return nil
	}
	c.entries = append(c.entries, entry{id: rec.Key(), data: data})
	return nil
}

func (c *Collection[T]) ReplaceAll(_ context.Context, recs []T) error {
	entries := make([]entry, 0, len(recs))
	for _, rec := range recs {
		data, err := store.Encode(rec)
		if err != nil {
			return err
		}
		entries = append(entries, entry{id: rec.Key(), data: data})
	}

	c.mu.Lock()
	c.entries = entries
	c.mu.Unlock()
	return nil
}

func (c *Collection[T]) Remove(_ context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if i := c.index(id); i >= 0 {
		c.entries = slices.Delete(c.entries, i, i+1)
	}
	return nil
}

func (c *Collection[T]) index(id string) int {
	return slices.IndexFunc(c.entries, func(e entry) bool { return e.id == id })
}

// New returns a Store backed entirely by memory
func New() *store.Store {
	return &store.Store{
		Users:          NewCollection[models.User](),
		TravelRequests: NewCollection[models.TravelRequest](),
		TravelGroups:   NewCollection[models.TravelGroup](),
		GroupRequests:  NewCollection[models.GroupRequest](),
	}
}
