package apikeyRepo

import (
	"context"

	"signage/models"
)

// APIKeyRepository exposes read-only access to tenant API keys.
// Keys are provisioned by an external system; this service never
// creates or deletes them.
type APIKeyRepository interface {
	GetAll(ctx context.Context) ([]models.APIKey, error)
	GetByID(ctx context.Context, id string) (*models.APIKey, error)
}
