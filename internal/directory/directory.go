// Package directory resolves tenant keys and provider integrations for the
// ingestion pipeline. Lookups are read-only; an optional Redis look-aside
// cache bounds the per-request round-trips, with explicit invalidation when
// operator tooling rotates or deactivates an integration.
package directory

import (
	"context"
	"log/slog"
	"time"

	"github.com/g66wcyhhgd-glitch/control-hub/internal/models"
)

// Repository is the subset of persistence the directory reads.
type Repository interface {
	GetProjectByKey(ctx context.Context, projectKey string) (*models.Project, error)
	GetIntegration(ctx context.Context, projectID, provider string) (*models.Integration, error)
}

type Directory struct {
	repo   Repository
	cache  *Cache
	logger *slog.Logger
}

// Option configures a Directory.
type Option func(*Directory)

// WithCache enables the Redis look-aside cache.
func WithCache(cache *Cache) Option {
	return func(d *Directory) {
		d.cache = cache
	}
}

// WithLogger sets the logger used for cache diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(d *Directory) {
		d.logger = logger
	}
}

func New(repo Repository, opts ...Option) *Directory {
	d := &Directory{
		repo:   repo,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// FindProjectByKey resolves a tenant by its public project key.
// Returns repository.ErrProjectNotFound when the key is unknown.
func (d *Directory) FindProjectByKey(ctx context.Context, projectKey string) (*models.Project, error) {
	if d.cache != nil {
		var project models.Project
		hit, err := d.cache.getProject(ctx, projectKey, &project)
		if err != nil {
			d.logger.DebugContext(ctx, "project cache read failed", slog.String("error", err.Error()))
		} else if hit {
			return &project, nil
		}
	}

	project, err := d.repo.GetProjectByKey(ctx, projectKey)
	if err != nil {
		return nil, err
	}

	if d.cache != nil {
		if err := d.cache.setProject(ctx, projectKey, project); err != nil {
			d.logger.DebugContext(ctx, "project cache write failed", slog.String("error", err.Error()))
		}
	}

	return project, nil
}

// FindIntegration resolves the (project, provider) integration record.
// Returns repository.ErrIntegrationNotFound when no pairing exists.
func (d *Directory) FindIntegration(ctx context.Context, projectID, provider string) (*models.Integration, error) {
	if d.cache != nil {
		var integration models.Integration
		hit, err := d.cache.getIntegration(ctx, projectID, provider, &integration)
		if err != nil {
			d.logger.DebugContext(ctx, "integration cache read failed", slog.String("error", err.Error()))
		} else if hit {
			return &integration, nil
		}
	}

	integration, err := d.repo.GetIntegration(ctx, projectID, provider)
	if err != nil {
		return nil, err
	}

	if d.cache != nil {
		if err := d.cache.setIntegration(ctx, projectID, provider, integration); err != nil {
			d.logger.DebugContext(ctx, "integration cache write failed", slog.String("error", err.Error()))
		}
	}

	return integration, nil
}

// InvalidateIntegration drops a cached integration after a secret rotation or
// status change so the next lookup sees the stored record.
func (d *Directory) InvalidateIntegration(ctx context.Context, projectID, provider string) error {
	if d.cache == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return d.cache.deleteIntegration(ctx, projectID, provider)
}
