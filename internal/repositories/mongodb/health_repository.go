package mongodb

import (
	"context"
	"errors"

	pmongo "github.com/brightfold/api/internal/platform/mongodb"
)

// HealthRepository pings the deployment for readiness probes.
type HealthRepository struct {
	provider *pmongo.Provider
}

// NewHealthRepository constructs a MongoDB-backed health repository.
func NewHealthRepository(provider *pmongo.Provider) (*HealthRepository, error) {
	if provider == nil {
		return nil, errors.New("health repository requires mongodb provider")
	}
	return &HealthRepository{provider: provider}, nil
}

// Check verifies the primary is reachable.
func (r *HealthRepository) Check(ctx context.Context) error {
	if r == nil || r.provider == nil {
		return errors.New("health repository not initialised")
	}
	return r.provider.Ping(ctx)
}
