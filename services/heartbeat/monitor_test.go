package heartbeat

import (
	"context"
	"testing"
	"time"

	"signage/models"
	"signage/services/registry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRegistry struct {
	screens map[string]*models.Screen
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

func (f *fakeRegistry) LookupToken(context.Context, string) (string, error) {
	return "", registry.ErrNotFound
}

func (f *fakeRegistry) IndexToken(context.Context, string, string) error {
	return nil
}

func TestExpired_ThresholdBoundary(t *testing.T) {
	now := time.Now()
	threshold := 900 * time.Second

	assert.True(t, Expired(now.Add(-901*time.Second), now, threshold))
	assert.False(t, Expired(now.Add(-899*time.Second), now, threshold))
	// Exactly at the threshold is not yet expired.
	assert.False(t, Expired(now.Add(-900*time.Second), now, threshold))
}

func TestMarkAlive_PersistsTimestamp(t *testing.T) {
	reg := &fakeRegistry{screens: map[string]*models.Screen{
		"scr-1": {ID: "scr-1", Name: "Lobby"},
	}}
	monitor := &DefaultMonitor{Registry: reg, Threshold: 900 * time.Second}

	ts := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, monitor.MarkAlive(context.Background(), "scr-1", ts))

	assert.True(t, reg.screens["scr-1"].LastHeartbeat.Equal(ts))
}

func TestMarkAlive_UnknownScreen(t *testing.T) {
	monitor := &DefaultMonitor{
		Registry:  &fakeRegistry{screens: map[string]*models.Screen{}},
		Threshold: 900 * time.Second,
	}

	err := monitor.MarkAlive(context.Background(), "ghost", time.Now())
	assert.True(t, registry.IsNotFound(err))
}

func TestExpiredAt_UsesConfiguredThreshold(t *testing.T) {
	monitor := &DefaultMonitor{Threshold: 10 * time.Second}
	now := time.Now()

	assert.True(t, monitor.ExpiredAt(now.Add(-11*time.Second), now))
	assert.False(t, monitor.ExpiredAt(now.Add(-9*time.Second), now))
}
