package services

import (
	"context"
	"testing"

	"github.com/PatrikF1/backend-ProjectPartner/models"
	"github.com/PatrikF1/backend-ProjectPartner/repositories/memory"

	"github.com/stretchr/testify/require"
)

func newTestStores(t *testing.T) Stores {
	t.Helper()
	store := memory.New()
	return Stores{
		Users:        store.Users(),
		Projects:     store.Projects(),
		Applications: store.Applications(),
		Tasks:        store.Tasks(),
		Events:       store.Events(),
		Posts:        store.Posts(),
		Spaces:       store.Spaces(),
		Links:        store.Links(),
		Tx:           store,
	}
}

func seedUser(t *testing.T, s Stores, name, email string, admin bool) *models.User {
	t.Helper()
	user := &models.User{Name: name, LastName: "Tester", Email: email, IsAdmin: admin}
	require.NoError(t, s.Users.Create(context.Background(), user))
	return user
}

func seedProject(t *testing.T, s Stores, owner *models.User, name string, capacity *int) *models.ProjectView {
	t.Helper()
	project, err := NewProjectService(s).CreateProject(context.Background(), owner, CreateProjectInput{
		Name:        name,
		Description: name + " description",
		Capacity:    capacity,
	})
	require.NoError(t, err)
	return project
}

func intPtr(v int) *int { return &v }

func requireCode(t *testing.T, err error, code ErrCode) {
	t.Helper()
	require.Error(t, err)
	serr, ok := AsError(err)
	require.True(t, ok, "expected a service error, got %v", err)
	require.Equal(t, code, serr.Code, serr.Msg)
}
