package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/g66wcyhhgd-glitch/control-hub/internal/models"
)

// pgUniqueViolation is the PostgreSQL error code for unique constraint violations.
const pgUniqueViolation = "23505"

const queryTimeout = 5 * time.Second

type PostgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(ctx context.Context, connString string) (*PostgresRepository, error) {
	config, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}

	config.MaxConns = 25
	config.MinConns = 5
	config.MaxConnLifetime = 5 * time.Minute
	config.MaxConnIdleTime = 1 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &PostgresRepository{pool: pool}, nil
}

func (r *PostgresRepository) Close() {
	r.pool.Close()
}

func (r *PostgresRepository) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return r.pool.Ping(ctx)
}

// =============================================================================
// PROJECTS
// =============================================================================

func (r *PostgresRepository) CreateProject(ctx context.Context, project *models.Project) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	query := `
		INSERT INTO projects (id, name, project_key, created_at)
		VALUES ($1, $2, $3, $4)
	`

	_, err := r.pool.Exec(ctx, query,
		project.ID, project.Name, project.ProjectKey, project.CreatedAt,
	)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return ErrProjectExists
		}
		return fmt.Errorf("failed to create project: %w", err)
	}

	return nil
}

func (r *PostgresRepository) GetProjectByKey(ctx context.Context, projectKey string) (*models.Project, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	query := `
		SELECT id, name, project_key, created_at
		FROM projects
		WHERE project_key = $1
	`

	var project models.Project
	err := r.pool.QueryRow(ctx, query, projectKey).Scan(
		&project.ID, &project.Name, &project.ProjectKey, &project.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to get project: %w", err)
	}

	return &project, nil
}

func (r *PostgresRepository) GetProjectByID(ctx context.Context, id string) (*models.Project, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	query := `
		SELECT id, name, project_key, created_at
		FROM projects
		WHERE id = $1
	`

	var project models.Project
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&project.ID, &project.Name, &project.ProjectKey, &project.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to get project: %w", err)
	}

	return &project, nil
}

func (r *PostgresRepository) ListProjects(ctx context.Context) ([]*models.Project, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	// Order by id DESC (UUIDv7 = created_at)
	query := `
		SELECT id, name, project_key, created_at
		FROM projects
		ORDER BY id DESC
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()

	var projects []*models.Project
	for rows.Next() {
		var project models.Project
		err := rows.Scan(&project.ID, &project.Name, &project.ProjectKey, &project.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}
		projects = append(projects, &project)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating projects: %w", err)
	}

	return projects, nil
}

// =============================================================================
// INTEGRATIONS
// =============================================================================

func (r *PostgresRepository) CreateIntegration(ctx context.Context, integration *models.Integration) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	query := `
		INSERT INTO integrations (id, project_id, provider, secret, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.pool.Exec(ctx, query,
		integration.ID, integration.ProjectID, integration.Provider,
		integration.Secret, integration.Status,
		integration.CreatedAt, integration.UpdatedAt,
	)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return ErrIntegrationExists
		}
		return fmt.Errorf("failed to create integration: %w", err)
	}

	return nil
}

func (r *PostgresRepository) GetIntegration(ctx context.Context, projectID, provider string) (*models.Integration, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	query := `
		SELECT id, project_id, provider, secret, status, created_at, updated_at
		FROM integrations
		WHERE project_id = $1 AND provider = $2
	`

	var integration models.Integration
	err := r.pool.QueryRow(ctx, query, projectID, provider).Scan(
		&integration.ID, &integration.ProjectID, &integration.Provider,
		&integration.Secret, &integration.Status,
		&integration.CreatedAt, &integration.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrIntegrationNotFound
		}
		return nil, fmt.Errorf("failed to get integration: %w", err)
	}

	return &integration, nil
}

func (r *PostgresRepository) ListIntegrations(ctx context.Context, projectID string) ([]*models.Integration, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	query := `
		SELECT id, project_id, provider, secret, status, created_at, updated_at
		FROM integrations
		WHERE project_id = $1
		ORDER BY provider
	`

	rows, err := r.pool.Query(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list integrations: %w", err)
	}
	defer rows.Close()

	var integrations []*models.Integration
	for rows.Next() {
		var integration models.Integration
		err := rows.Scan(
			&integration.ID, &integration.ProjectID, &integration.Provider,
			&integration.Secret, &integration.Status,
			&integration.CreatedAt, &integration.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan integration: %w", err)
		}
		integrations = append(integrations, &integration)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating integrations: %w", err)
	}

	return integrations, nil
}

func (r *PostgresRepository) UpdateIntegrationSecret(ctx context.Context, projectID, provider, secret string) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	query := `
		UPDATE integrations
		SET secret = $3, updated_at = NOW()
		WHERE project_id = $1 AND provider = $2
	`

	result, err := r.pool.Exec(ctx, query, projectID, provider, secret)
	if err != nil {
		return fmt.Errorf("failed to update integration secret: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrIntegrationNotFound
	}

	return nil
}

func (r *PostgresRepository) UpdateIntegrationStatus(ctx context.Context, projectID, provider, status string) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	query := `
		UPDATE integrations
		SET status = $3, updated_at = NOW()
		WHERE project_id = $1 AND provider = $2
	`

	result, err := r.pool.Exec(ctx, query, projectID, provider, status)
	if err != nil {
		return fmt.Errorf("failed to update integration status: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrIntegrationNotFound
	}

	return nil
}

// =============================================================================
// INCOMING EVENTS (append-only)
// =============================================================================

func (r *PostgresRepository) InsertIncomingEvent(ctx context.Context, event *models.IncomingEvent) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	query := `
		INSERT INTO incoming_events (id, project_id, provider, event_type, external_event_id, payload, received_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.pool.Exec(ctx, query,
		event.ID, event.ProjectID, event.Provider, event.EventType,
		event.ExternalEventID, []byte(event.Payload), event.ReceivedAt,
	)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return ErrDuplicateEvent
		}
		return fmt.Errorf("failed to insert incoming event: %w", err)
	}

	return nil
}

func (r *PostgresRepository) ListIncomingEvents(ctx context.Context, projectID string, limit int) ([]*models.IncomingEvent, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	query := `
		SELECT id, project_id, provider, event_type, external_event_id, payload, received_at
		FROM incoming_events
		WHERE project_id = $1
		ORDER BY id DESC
		LIMIT $2
	`

	rows, err := r.pool.Query(ctx, query, projectID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list incoming events: %w", err)
	}
	defer rows.Close()

	var events []*models.IncomingEvent
	for rows.Next() {
		var event models.IncomingEvent
		var payload []byte
		err := rows.Scan(
			&event.ID, &event.ProjectID, &event.Provider, &event.EventType,
			&event.ExternalEventID, &payload, &event.ReceivedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan incoming event: %w", err)
		}
		event.Payload = payload
		events = append(events, &event)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating incoming events: %w", err)
	}

	return events, nil
}

// =============================================================================
// AUDIT EVENTS (append-only)
// =============================================================================

func (r *PostgresRepository) InsertAuditEvent(ctx context.Context, event *models.AuditEvent) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	payloadJSON := []byte("{}")
	if event.Payload != nil {
		var err error
		payloadJSON, err = json.Marshal(event.Payload)
		if err != nil {
			return fmt.Errorf("failed to marshal audit payload: %w", err)
		}
	}

	query := `
		INSERT INTO audit_events (id, project_id, event_type, actor_id, payload, signature, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.pool.Exec(ctx, query,
		event.ID, event.ProjectID, event.EventType, event.ActorID,
		payloadJSON, event.Signature, event.CreatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to insert audit event: %w", err)
	}

	return nil
}

func (r *PostgresRepository) ListAuditEvents(ctx context.Context, projectID *string, limit int) ([]*models.AuditEvent, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	query := `
		SELECT id, project_id, event_type, actor_id, payload, signature, created_at
		FROM audit_events
		WHERE ($1::uuid IS NULL OR project_id = $1)
		ORDER BY id DESC
		LIMIT $2
	`

	rows, err := r.pool.Query(ctx, query, projectID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list audit events: %w", err)
	}
	defer rows.Close()

	var events []*models.AuditEvent
	for rows.Next() {
		var event models.AuditEvent
		var payloadJSON []byte
		err := rows.Scan(
			&event.ID, &event.ProjectID, &event.EventType, &event.ActorID,
			&payloadJSON, &event.Signature, &event.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan audit event: %w", err)
		}
		if len(payloadJSON) > 0 {
			if err := json.Unmarshal(payloadJSON, &event.Payload); err != nil {
				return nil, fmt.Errorf("failed to unmarshal audit payload: %w", err)
			}
		}
		events = append(events, &event)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating audit events: %w", err)
	}

	return events, nil
}
