package fleet

import (
	"context"
	"fmt"
	"sync"
	"time"

	apikeyRepo "signage/database/repository/apikey"
	"signage/models"
	"signage/services/heartbeat"
	"signage/services/registry"

	"golang.org/x/sync/errgroup"
)

// Aggregator builds the operator-facing fleet view.
type Aggregator interface {
	BuildFleetView(ctx context.Context) (*models.FleetView, error)
}

// DefaultAggregator fans out concurrently per tenant and per screen.
// The aggregation is all-or-nothing: a single screen-load failure fails
// the entire call.
type DefaultAggregator struct {
	Keys      apikeyRepo.APIKeyRepository
	Registry  registry.ScreenRegistry
	Threshold time.Duration
}

func (a *DefaultAggregator) BuildFleetView(ctx context.Context) (*models.FleetView, error) {
	keys, err := a.Keys.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to enumerate tenants: %w", err)
	}

	now := time.Now()
	view := &models.FleetView{
		All:      make(map[string][]models.ScreenStatus),
		Critical: make(map[string][]models.ScreenStatus),
	}
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	for _, key := range keys {
		key := key
		g.Go(func() error {
			ids, err := a.Registry.TenantScreens(gctx, key.ID)
			if err != nil {
				return fmt.Errorf("failed to list screens for tenant %s: %w", key.ID, err)
			}
			tg, tctx := errgroup.WithContext(gctx)
			for _, id := range ids {
				id := id
				tg.Go(func() error {
					screen, err := a.Registry.GetScreen(tctx, id)
					if err != nil {
						return fmt.Errorf("failed to load screen %s: %w", id, err)
					}
					status := models.ScreenStatus{
						ID:            screen.ID,
						Name:          screen.Name,
						LastHeartbeat: screen.LastHeartbeat.Format(time.RFC3339),
						Critical:      heartbeat.Expired(screen.LastHeartbeat, now, a.Threshold),
					}
					// Buckets fill in completion order of the loads.
					mu.Lock()
					view.All[key.ID] = append(view.All[key.ID], status)
					view.Counts.Total++
					if status.Critical {
						view.Critical[key.ID] = append(view.Critical[key.ID], status)
						view.Counts.Critical++
					}
					mu.Unlock()
					return nil
				})
			}
			return tg.Wait()
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return view, nil
}
