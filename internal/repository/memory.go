package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/g66wcyhhgd-glitch/control-hub/internal/models"
)

// InMemoryRepository is a map-backed Repository for development and tests.
type InMemoryRepository struct {
	projects       map[string]*models.Project
	projectsByKey  map[string]*models.Project
	integrations   map[string]*models.Integration // keyed by projectID+"/"+provider
	incomingEvents []*models.IncomingEvent
	eventSeen      map[string]bool // projectID+"/"+provider+"/"+externalEventID
	auditEvents    []*models.AuditEvent
	mu             sync.RWMutex
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		projects:      make(map[string]*models.Project),
		projectsByKey: make(map[string]*models.Project),
		integrations:  make(map[string]*models.Integration),
		eventSeen:     make(map[string]bool),
	}
}

func integrationKey(projectID, provider string) string {
	return projectID + "/" + provider
}

func (r *InMemoryRepository) CreateProject(ctx context.Context, project *models.Project) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.projectsByKey[project.ProjectKey]; exists {
		return ErrProjectExists
	}

	r.projects[project.ID] = project
	r.projectsByKey[project.ProjectKey] = project
	return nil
}

func (r *InMemoryRepository) GetProjectByKey(ctx context.Context, projectKey string) (*models.Project, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	project, exists := r.projectsByKey[projectKey]
	if !exists {
		return nil, ErrProjectNotFound
	}
	return project, nil
}

func (r *InMemoryRepository) GetProjectByID(ctx context.Context, id string) (*models.Project, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	project, exists := r.projects[id]
	if !exists {
		return nil, ErrProjectNotFound
	}
	return project, nil
}

func (r *InMemoryRepository) ListProjects(ctx context.Context) ([]*models.Project, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	projects := make([]*models.Project, 0, len(r.projects))
	for _, p := range r.projects {
		projects = append(projects, p)
	}
	sort.Slice(projects, func(i, j int) bool { return projects[i].ID > projects[j].ID })
	return projects, nil
}

func (r *InMemoryRepository) CreateIntegration(ctx context.Context, integration *models.Integration) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := integrationKey(integration.ProjectID, integration.Provider)
	if _, exists := r.integrations[key]; exists {
		return ErrIntegrationExists
	}

	r.integrations[key] = integration
	return nil
}

func (r *InMemoryRepository) GetIntegration(ctx context.Context, projectID, provider string) (*models.Integration, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	integration, exists := r.integrations[integrationKey(projectID, provider)]
	if !exists {
		return nil, ErrIntegrationNotFound
	}
	return integration, nil
}

func (r *InMemoryRepository) ListIntegrations(ctx context.Context, projectID string) ([]*models.Integration, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var integrations []*models.Integration
	for _, integration := range r.integrations {
		if integration.ProjectID == projectID {
			integrations = append(integrations, integration)
		}
	}
	sort.Slice(integrations, func(i, j int) bool {
		return integrations[i].Provider < integrations[j].Provider
	})
	return integrations, nil
}

func (r *InMemoryRepository) UpdateIntegrationSecret(ctx context.Context, projectID, provider, secret string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	integration, exists := r.integrations[integrationKey(projectID, provider)]
	if !exists {
		return ErrIntegrationNotFound
	}
	integration.Secret = secret
	return nil
}

func (r *InMemoryRepository) UpdateIntegrationStatus(ctx context.Context, projectID, provider, status string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	integration, exists := r.integrations[integrationKey(projectID, provider)]
	if !exists {
		return ErrIntegrationNotFound
	}
	integration.Status = status
	return nil
}

func (r *InMemoryRepository) InsertIncomingEvent(ctx context.Context, event *models.IncomingEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := event.ProjectID + "/" + event.Provider + "/" + event.ExternalEventID
	if r.eventSeen[key] {
		return ErrDuplicateEvent
	}

	r.eventSeen[key] = true
	r.incomingEvents = append(r.incomingEvents, event)
	return nil
}

func (r *InMemoryRepository) ListIncomingEvents(ctx context.Context, projectID string, limit int) ([]*models.IncomingEvent, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var events []*models.IncomingEvent
	for i := len(r.incomingEvents) - 1; i >= 0 && len(events) < limit; i-- {
		if r.incomingEvents[i].ProjectID == projectID {
			events = append(events, r.incomingEvents[i])
		}
	}
	return events, nil
}

func (r *InMemoryRepository) InsertAuditEvent(ctx context.Context, event *models.AuditEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.auditEvents = append(r.auditEvents, event)
	return nil
}

func (r *InMemoryRepository) ListAuditEvents(ctx context.Context, projectID *string, limit int) ([]*models.AuditEvent, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var events []*models.AuditEvent
	for i := len(r.auditEvents) - 1; i >= 0 && len(events) < limit; i-- {
		e := r.auditEvents[i]
		if projectID == nil || (e.ProjectID != nil && *e.ProjectID == *projectID) {
			events = append(events, e)
		}
	}
	return events, nil
}

func (r *InMemoryRepository) Ping(ctx context.Context) error {
	return nil
}

func (r *InMemoryRepository) Close() {}
