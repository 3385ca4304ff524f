package database

import (
	"context"
)

// ExchangeStore is a durable map from a request string to the response the
// model gave for it.
type ExchangeStore interface {
	Name() string
	// Upsert records response under request; the last write for a key wins.
	Upsert(ctx context.Context, request, response string) error
	Get(ctx context.Context, request string) (string, bool, error)
	// Clear resets the store to an empty mapping.
	Clear(ctx context.Context) error
}

// ExchangeStores is the fixed set of well-known stores. The first one is
// where persisted turns are written.
type ExchangeStores []ExchangeStore

// Active returns the store persisted turns are written to
func (s ExchangeStores) Active() ExchangeStore {
	if len(s) == 0 {
		return nil
	}
	return s[0]
}

// ClearAll empties every store, stopping at the first failure.
func (s ExchangeStores) ClearAll(ctx context.Context) error {
	for _, store := range s {
		if err := store.Clear(ctx); err != nil {
			return err
		}
	}
	return nil
}
