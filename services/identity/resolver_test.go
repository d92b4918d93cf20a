package identity

import (
	"context"
	"errors"
	"testing"

	"signage/models"
	"signage/services/registry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRegistry is an in-memory ScreenRegistry.
type fakeRegistry struct {
	screens map[string]*models.Screen
	tokens  map[string]string

	lookupErr error
}

func newFakeRegistry() *fakeRegistry {
	return &fakeRegistry{
		screens: make(map[string]*models.Screen),
		tokens:  make(map[string]string),
	}
}

func (f *fakeRegistry) GetScreen(_ context.Context, id string) (*models.Screen, error) {
	screen, ok := f.screens[id]
	if !ok {
		return nil, registry.ErrNotFound
	}
	copied := *screen
	return &copied, nil
}

func (f *fakeRegistry) PutScreen(_ context.Context, screen *models.Screen) error {
	copied := *screen
	f.screens[screen.ID] = &copied
	return nil
}

func (f *fakeRegistry) TenantScreens(context.Context, string) ([]string, error) {
	return nil, nil
}

func (f *fakeRegistry) LookupToken(_ context.Context, token string) (string, error) {
	if f.lookupErr != nil {
		return "", f.lookupErr
	}
	id, ok := f.tokens[token]
	if !ok {
		return "", registry.ErrNotFound
	}
	return id, nil
}

func (f *fakeRegistry) IndexToken(_ context.Context, token, screenID string) error {
	f.tokens[token] = screenID
	return nil
}

func TestResolve_ProvisionsOnFirstContact(t *testing.T) {
	reg := newFakeRegistry()
	resolver := &DefaultResolver{Registry: reg}

	screen, err := resolver.Resolve(context.Background(), "fresh-token")
	require.NoError(t, err)
	assert.NotEmpty(t, screen.ID)
	assert.Equal(t, DefaultScreenName, screen.Name)
	assert.Empty(t, screen.Groups)

	// The record and the token index were both written.
	assert.Contains(t, reg.screens, screen.ID)
	assert.Equal(t, screen.ID, reg.tokens["fresh-token"])
}

func TestResolve_IdempotentProvisioning(t *testing.T) {
	resolver := &DefaultResolver{Registry: newFakeRegistry()}
	ctx := context.Background()

	first, err := resolver.Resolve(ctx, "tok-a")
	require.NoError(t, err)

	second, err := resolver.Resolve(ctx, "tok-a")
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
}

func TestRegister_ResolveRoundTrip(t *testing.T) {
	resolver := &DefaultResolver{Registry: newFakeRegistry()}
	ctx := context.Background()

	require.NoError(t, resolver.Register(ctx, "scr-42", "tok-42"))

	screen, err := resolver.Resolve(ctx, "tok-42")
	require.NoError(t, err)
	assert.Equal(t, "scr-42", screen.ID)
}

func TestRegister_KeepsExistingRecord(t *testing.T) {
	reg := newFakeRegistry()
	reg.screens["scr-1"] = &models.Screen{ID: "scr-1", Name: "Lobby", Groups: []string{"lobby"}}
	resolver := &DefaultResolver{Registry: reg}

	require.NoError(t, resolver.Register(context.Background(), "scr-1", "tok-new"))

	screen, err := resolver.Resolve(context.Background(), "tok-new")
	require.NoError(t, err)
	assert.Equal(t, "Lobby", screen.Name)
	assert.Equal(t, []string{"lobby"}, screen.Groups)
}

func TestResolve_StoreErrorIsNotAbsence(t *testing.T) {
	reg := newFakeRegistry()
	reg.lookupErr = &registry.StoreError{Op: "GET", Err: errors.New("connection refused")}
	resolver := &DefaultResolver{Registry: reg}

	_, err := resolver.Resolve(context.Background(), "tok-a")
	require.Error(t, err)

	// No screen was provisioned off the back of a store failure.
	assert.Empty(t, reg.screens)

	var storeErr *registry.StoreError
	assert.True(t, errors.As(err, &storeErr))
}
