package repositories

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/PatrikF1/backend-ProjectPartner/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// newTestStore connects to the server in MONGO_TEST_URI and gives each test a
// throwaway database.
func newTestStore(t *testing.T) *Store {
	t.Helper()
	uri := os.Getenv("MONGO_TEST_URI")
	if uri == "" {
		t.Skip("MONGO_TEST_URI not set")
	}
	ctx := context.Background()
	store, err := Connect(ctx, uri, "projectpartner_test_"+primitive.NewObjectID().Hex(), false)
	require.NoError(t, err)
	require.NoError(t, store.EnsureIndexes(ctx))
	t.Cleanup(func() {
		_ = store.db.Drop(context.Background())
		_ = store.Close(context.Background())
	})
	return store
}

func createProject(t *testing.T, repo *ProjectRepository, capacity *int) *models.Project {
	t.Helper()
	project := &models.Project{Name: "Capstone", Description: "d", Type: models.ProjectTypeProject, Capacity: capacity, IsActive: true}
	require.NoError(t, repo.Create(context.Background(), project))
	return project
}

func TestMongoAddMemberCapacity(t *testing.T) {
	ctx := context.Background()
	repo := newTestStore(t).Projects()
	one := 1
	project := createProject(t, repo, &one)
	a, b := primitive.NewObjectID(), primitive.NewObjectID()

	added, err := repo.AddMember(ctx, project.ID, a, true)
	require.NoError(t, err)
	assert.True(t, added)

	added, err = repo.AddMember(ctx, project.ID, a, true)
	require.NoError(t, err)
	assert.False(t, added, "double join")

	added, err = repo.AddMember(ctx, project.ID, b, true)
	require.NoError(t, err)
	assert.False(t, added, "full")

	added, err = repo.AddMember(ctx, project.ID, b, false)
	require.NoError(t, err)
	assert.True(t, added, "capacity not enforced")

	removed, err := repo.RemoveMember(ctx, project.ID, a)
	require.NoError(t, err)
	assert.True(t, removed)
	removed, err = repo.RemoveMember(ctx, project.ID, a)
	require.NoError(t, err)
	assert.False(t, removed)

	unlimited := createProject(t, repo, nil)
	for i := 0; i < 3; i++ {
		added, err = repo.AddMember(ctx, unlimited.ID, primitive.NewObjectID(), true)
		require.NoError(t, err)
		assert.True(t, added)
	}
}

func TestMongoConcurrentJoinsRespectCapacity(t *testing.T) {
	ctx := context.Background()
	repo := newTestStore(t).Projects()
	capacity := 3
	project := createProject(t, repo, &capacity)

	var (
		wg    sync.WaitGroup
		mu    sync.Mutex
		added int
	)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, err := repo.AddMember(ctx, project.ID, primitive.NewObjectID(), true)
			assert.NoError(t, err)
			if ok {
				mu.Lock()
				added++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, capacity, added)
	stored, err := repo.FindByID(ctx, project.ID)
	require.NoError(t, err)
	assert.Len(t, stored.Members, capacity)
}

func TestMongoUpdateClearsOptionalFields(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	repo := store.Projects()
	capacity := 5
	deadline := time.Date(2030, 6, 1, 0, 0, 0, 0, time.UTC)
	project := createProject(t, repo, &capacity)
	project.Deadline = &deadline
	require.NoError(t, repo.Update(ctx, project))

	stored, err := repo.FindByID(ctx, project.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.Capacity)
	require.NotNil(t, stored.Deadline)
	assert.True(t, deadline.Equal(*stored.Deadline))

	stored.Capacity, stored.Deadline = nil, nil
	stored.Name = "Renamed"
	require.NoError(t, repo.Update(ctx, stored))

	raw := bson.M{}
	require.NoError(t, store.db.Collection(projectsCollection).FindOne(ctx, bson.M{"_id": project.ID}).Decode(&raw))
	assert.NotContains(t, raw, "capacity")
	assert.NotContains(t, raw, "deadline")
	assert.Equal(t, "Renamed", raw["name"])

	missing := &models.Project{ID: primitive.NewObjectID()}
	assert.ErrorIs(t, repo.Update(ctx, missing), ErrNotFound)
}
