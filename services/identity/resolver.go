package identity

import (
	"context"
	"fmt"

	"signage/models"
	"signage/services/registry"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultScreenName is assigned to screens provisioned on first contact.
const DefaultScreenName = "Unnamed screen"

// Resolver maps bearer tokens to screen records, provisioning a new
// screen the first time an unknown token shows up.
type Resolver interface {
	Resolve(ctx context.Context, token string) (*models.Screen, error)
	Register(ctx context.Context, screenID, token string) error
}

// DefaultResolver is the production implementation.
type DefaultResolver struct {
	Registry registry.ScreenRegistry
	Logger   *zap.Logger
}

// Resolve looks up the token index and loads the screen record. On a
// miss it provisions a new screen. A store failure is never treated as
// absence: it propagates as-is.
func (r *DefaultResolver) Resolve(ctx context.Context, token string) (*models.Screen, error) {
	id, err := r.Registry.LookupToken(ctx, token)
	switch {
	case err == nil:
		return r.Registry.GetScreen(ctx, id)
	case registry.IsNotFound(err):
		return r.provision(ctx, token)
	default:
		return nil, fmt.Errorf("failed to look up token: %w", err)
	}
}

// Register writes the screen record and the token→id index. The record
// is written first so a reader following the index always finds it.
func (r *DefaultResolver) Register(ctx context.Context, screenID, token string) error {
	screen, err := r.Registry.GetScreen(ctx, screenID)
	if registry.IsNotFound(err) {
		screen = &models.Screen{
			ID:     screenID,
			Name:   DefaultScreenName,
			Groups: []string{},
		}
	} else if err != nil {
		return fmt.Errorf("failed to load screen %s: %w", screenID, err)
	}
	screen.Token = token

	if err := r.Registry.PutScreen(ctx, screen); err != nil {
		return fmt.Errorf("failed to persist screen %s: %w", screenID, err)
	}
	if err := r.Registry.IndexToken(ctx, token, screenID); err != nil {
		return fmt.Errorf("failed to index token for screen %s: %w", screenID, err)
	}
	return nil
}

func (r *DefaultResolver) provision(ctx context.Context, token string) (*models.Screen, error) {
	screen := &models.Screen{
		ID:     uuid.NewString(),
		Token:  token,
		Name:   DefaultScreenName,
		Groups: []string{},
	}

	if err := r.Registry.PutScreen(ctx, screen); err != nil {
		return nil, fmt.Errorf("failed to provision screen: %w", err)
	}
	if err := r.Registry.IndexToken(ctx, token, screen.ID); err != nil {
		return nil, fmt.Errorf("failed to index token for new screen: %w", err)
	}

	if r.Logger != nil {
		r.Logger.Info("provisioned new screen", zap.String("screenId", screen.ID))
	}
	return screen, nil
}
