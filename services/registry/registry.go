package registry

import (
	"context"
	"encoding/json"
	"fmt"

	"signage/models"
)

const (
	screenHashKey  = "screens"
	tokenKeyPrefix = "screenToken:"
	tenantSetKey   = "apiKey:%s:screens"
)

// ScreenRegistry persists screen records, the token→id index, and
// tenant-scoped screen id sets.
type ScreenRegistry interface {
	GetScreen(ctx context.Context, id string) (*models.Screen, error)
	PutScreen(ctx context.Context, screen *models.Screen) error
	TenantScreens(ctx context.Context, apiKeyID string) ([]string, error)
	LookupToken(ctx context.Context, token string) (string, error)
	IndexToken(ctx context.Context, token, screenID string) error
}

// DefaultScreenRegistry is the production implementation.
type DefaultScreenRegistry struct {
	Store Store
}

// GetScreen loads a screen record by id. Returns ErrNotFound on a miss.
func (r *DefaultScreenRegistry) GetScreen(ctx context.Context, id string) (*models.Screen, error) {
	data, err := r.Store.HashGetField(ctx, screenHashKey, id)
	if err != nil {
		return nil, err
	}
	var screen models.Screen
	if err := json.Unmarshal([]byte(data), &screen); err != nil {
		return nil, fmt.Errorf("failed to unmarshal screen %s: %w", id, err)
	}
	return &screen, nil
}

// PutScreen replaces the full record for screen.ID. Last writer wins:
// there is no optimistic concurrency, so concurrent updates to the same
// id may race and one silently overwrites the other.
func (r *DefaultScreenRegistry) PutScreen(ctx context.Context, screen *models.Screen) error {
	data, err := json.Marshal(screen)
	if err != nil {
		return fmt.Errorf("failed to marshal screen %s: %w", screen.ID, err)
	}
	return r.Store.HashSetField(ctx, screenHashKey, screen.ID, string(data))
}

// TenantScreens returns the screen ids owned by the given API key.
func (r *DefaultScreenRegistry) TenantScreens(ctx context.Context, apiKeyID string) ([]string, error) {
	return r.Store.SetMembers(ctx, fmt.Sprintf(tenantSetKey, apiKeyID))
}

// LookupToken resolves a bearer token to a screen id. Returns
// ErrNotFound when the token has never been registered.
func (r *DefaultScreenRegistry) LookupToken(ctx context.Context, token string) (string, error) {
	return r.Store.GetValue(ctx, tokenKeyPrefix+token)
}

// IndexToken writes the token→id mapping. The mapping is immutable once
// created; callers only invoke this during registration.
func (r *DefaultScreenRegistry) IndexToken(ctx context.Context, token, screenID string) error {
	return r.Store.SetValue(ctx, tokenKeyPrefix+token, screenID)
}
