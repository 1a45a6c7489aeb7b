package repository

import (
	"context"
	"errors"

	"github.com/g66wcyhhgd-glitch/control-hub/internal/models"
)

var (
	ErrProjectNotFound     = errors.New("project not found")
	ErrProjectExists       = errors.New("project already exists")
	ErrIntegrationNotFound = errors.New("integration not found")
	ErrIntegrationExists   = errors.New("integration already exists")
	ErrDuplicateEvent      = errors.New("duplicate incoming event")
)

// Repository is the persistence boundary for webhook ingestion. The pipeline
// only reads projects and integrations and appends events; the write
// operations on projects and integrations exist for operator tooling.
type Repository interface {
	CreateProject(ctx context.Context, project *models.Project) error
	GetProjectByKey(ctx context.Context, projectKey string) (*models.Project, error)
	GetProjectByID(ctx context.Context, id string) (*models.Project, error)
	ListProjects(ctx context.Context) ([]*models.Project, error)

	CreateIntegration(ctx context.Context, integration *models.Integration) error
	GetIntegration(ctx context.Context, projectID, provider string) (*models.Integration, error)
	ListIntegrations(ctx context.Context, projectID string) ([]*models.Integration, error)
	UpdateIntegrationSecret(ctx context.Context, projectID, provider, secret string) error
	UpdateIntegrationStatus(ctx context.Context, projectID, provider, status string) error

	InsertIncomingEvent(ctx context.Context, event *models.IncomingEvent) error
	ListIncomingEvents(ctx context.Context, projectID string, limit int) ([]*models.IncomingEvent, error)

	InsertAuditEvent(ctx context.Context, event *models.AuditEvent) error
	ListAuditEvents(ctx context.Context, projectID *string, limit int) ([]*models.AuditEvent, error)

	Ping(ctx context.Context) error
	Close()
}
