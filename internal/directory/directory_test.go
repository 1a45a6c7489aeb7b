package directory

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/g66wcyhhgd-glitch/control-hub/internal/models"
	"github.com/g66wcyhhgd-glitch/control-hub/internal/repository"
)

func setupTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return mr, client
}

func seedRepo(t *testing.T) (*repository.InMemoryRepository, *models.Project, *models.Integration) {
	t.Helper()
	repo := repository.NewInMemoryRepository()
	ctx := context.Background()

	project := &models.Project{
		ID:         "0192f0c1-0000-7000-8000-000000000001",
		Name:       "Acme",
		ProjectKey: "ph_acme",
		CreatedAt:  time.Now().UTC(),
	}
	require.NoError(t, repo.CreateProject(ctx, project))

	integration := &models.Integration{
		ID:        "0192f0c1-0000-7000-8000-000000000002",
		ProjectID: project.ID,
		Provider:  "github",
		Secret:    "whsec_github",
		Status:    models.IntegrationActive,
	}
	require.NoError(t, repo.CreateIntegration(ctx, integration))

	return repo, project, integration
}

func TestDirectory_Uncached(t *testing.T) {
	repo, project, _ := seedRepo(t)
	dir := New(repo)
	ctx := context.Background()

	got, err := dir.FindProjectByKey(ctx, "ph_acme")
	require.NoError(t, err)
	assert.Equal(t, project.ID, got.ID)

	_, err = dir.FindProjectByKey(ctx, "ph_unknown")
	assert.ErrorIs(t, err, repository.ErrProjectNotFound)

	integration, err := dir.FindIntegration(ctx, project.ID, "github")
	require.NoError(t, err)
	assert.Equal(t, "whsec_github", integration.Secret)

	_, err = dir.FindIntegration(ctx, project.ID, "stripe")
	assert.ErrorIs(t, err, repository.ErrIntegrationNotFound)
}

func TestDirectory_CacheHit(t *testing.T) {
	mr, client := setupTestRedis(t)
	defer mr.Close()
	defer client.Close()

	repo, project, _ := seedRepo(t)
	dir := New(repo, WithCache(NewCacheWithClient(client, time.Minute)))
	ctx := context.Background()

	// First lookup populates the cache.
	integration, err := dir.FindIntegration(ctx, project.ID, "github")
	require.NoError(t, err)
	assert.Equal(t, "whsec_github", integration.Secret)

	// A direct store update without invalidation is not yet visible.
	require.NoError(t, repo.UpdateIntegrationSecret(ctx, project.ID, "github", "whsec_rotated"))
	cached, err := dir.FindIntegration(ctx, project.ID, "github")
	require.NoError(t, err)
	assert.Equal(t, "whsec_github", cached.Secret)

	// Invalidation makes the rotated secret visible.
	require.NoError(t, dir.InvalidateIntegration(ctx, project.ID, "github"))
	fresh, err := dir.FindIntegration(ctx, project.ID, "github")
	require.NoError(t, err)
	assert.Equal(t, "whsec_rotated", fresh.Secret)
}

func TestDirectory_CacheExpiry(t *testing.T) {
	mr, client := setupTestRedis(t)
	defer mr.Close()
	defer client.Close()

	repo, project, _ := seedRepo(t)
	dir := New(repo, WithCache(NewCacheWithClient(client, time.Second)))
	ctx := context.Background()

	_, err := dir.FindIntegration(ctx, project.ID, "github")
	require.NoError(t, err)

	require.NoError(t, repo.UpdateIntegrationSecret(ctx, project.ID, "github", "whsec_rotated"))
	mr.FastForward(2 * time.Second)

	fresh, err := dir.FindIntegration(ctx, project.ID, "github")
	require.NoError(t, err)
	assert.Equal(t, "whsec_rotated", fresh.Secret)
}

// Misses are never cached: a project created after a failed lookup must be
// found on the next request.
func TestDirectory_NegativeLookupNotCached(t *testing.T) {
	mr, client := setupTestRedis(t)
	defer mr.Close()
	defer client.Close()

	repo := repository.NewInMemoryRepository()
	dir := New(repo, WithCache(NewCacheWithClient(client, time.Minute)))
	ctx := context.Background()

	_, err := dir.FindProjectByKey(ctx, "ph_new")
	require.ErrorIs(t, err, repository.ErrProjectNotFound)

	require.NoError(t, repo.CreateProject(ctx, &models.Project{
		ID:         "0192f0c1-0000-7000-8000-000000000003",
		Name:       "New",
		ProjectKey: "ph_new",
	}))

	project, err := dir.FindProjectByKey(ctx, "ph_new")
	require.NoError(t, err)
	assert.Equal(t, "ph_new", project.ProjectKey)
}

// Redis being down degrades to plain store lookups.
func TestDirectory_CacheFailureFallsThrough(t *testing.T) {
	mr, client := setupTestRedis(t)
	repo, project, _ := seedRepo(t)
	dir := New(repo, WithCache(NewCacheWithClient(client, time.Minute)))
	ctx := context.Background()

	mr.Close()

	integration, err := dir.FindIntegration(ctx, project.ID, "github")
	require.NoError(t, err)
	assert.Equal(t, "whsec_github", integration.Secret)
}
