package registry

import "context"

// Store is the persistence boundary consumed by the registry. Lookup
// misses are reported as ErrNotFound; any other failure is a StoreError.
type Store interface {
	GetValue(ctx context.Context, key string) (string, error)
	SetValue(ctx context.Context, key, val string) error
	HashGetField(ctx context.Context, hash, field string) (string, error)
	HashSetField(ctx context.Context, hash, field, val string) error
	SetMembers(ctx context.Context, key string) ([]string, error)
}
