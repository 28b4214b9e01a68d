package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/supriya-vit2006/vit-travel-buddy-s/internal/models"
)

// Collection names shared by every backend
const (
	UsersCollection          = "users"
	TravelRequestsCollection = "travel_requests"
	TravelGroupsCollection   = "travel_groups"
	GroupRequestsCollection  = "group_requests"
)

// Record is implemented by every entity kept in a Collection
type Record interface {
	Key() string
}

// Collection is a keyed set of records. List returns records in insertion
// order; Put replaces in place and appends new ids at the end.
type Collection[T Record] interface {
	List(ctx context.Context) ([]T, error)
	Get(ctx context.Context, id string) (T, bool, error)
	Put(ctx context.Context, rec T) error
	ReplaceAll(ctx context.Context, recs []T) error
	Remove(ctx context.Context, id string) error
}

// Backend is the connection behind a Store
type Backend interface {
	Ping(ctx context.Context) error
	Close() error
}

// Store groups the four collections the matching engine works on
type Store struct {
	Users          Collection[models.User]
	TravelRequests Collection[models.TravelRequest]
	TravelGroups   Collection[models.TravelGroup]
	GroupRequests  Collection[models.GroupRequest]

	Backend Backend
}

// Ping checks the backend, a Store without one is always reachable
func (s *Store) Ping(ctx context.Context) error {
	if s.Backend == nil {
		return nil
	}
	return s.Backend.Ping(ctx)
}

func (s *Store) Close() error {
	if s.Backend == nil {
		return nil
	}
	return s.Backend.Close()
}

// Encode serialises a record for the JSON document backends
func Encode[T Record](rec T) ([]byte, error) {
	data, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("encode record %s: %w", rec.Key(), err)
	}
	return data, nil
}

// Decode is the inverse of Encode
func Decode[T Record](data []byte) (T, error) {
	var rec T
	if err := json.Unmarshal(data, &rec); err != nil {
		return rec, fmt.Errorf("decode record: %w", err)
	}
	return rec, nil
}
