package services

import (
	"context"
	"testing"

	"github.com/PatrikF1/backend-ProjectPartner/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecideApplication(t *testing.T) {
	ctx := context.Background()
	s := newTestStores(t)
	apps := NewApplicationService(s)
	admin := seedUser(t, s, "Admin", "admin@example.com", true)
	a := seedUser(t, s, "A", "a@example.com", false)
	b := seedUser(t, s, "B", "b@example.com", false)
	project := seedProject(t, s, admin, "Capstone", intPtr(1))
	_, err := NewProjectService(s).JoinProject(ctx, b, project.ID.Hex())
	require.NoError(t, err)

	app, err := apps.CreateApplication(ctx, a, CreateApplicationInput{ProjectID: project.ID.Hex(), Idea: "idea", Description: "d"})
	require.NoError(t, err)
	assert.Equal(t, models.ApplicationPending, app.Status)

	_, err = apps.DecideApplication(ctx, app.ID.Hex(), "maybe")
	requireCode(t, err, ErrCodeInvalidRequest)

	decided, err := apps.DecideApplication(ctx, app.ID.Hex(), "approve")
	require.NoError(t, err)
	assert.Equal(t, models.ApplicationApproved, decided.Status)

	// Approval is an admin decision and is not limited by capacity.
	stored, err := s.Projects.FindByID(ctx, project.ID)
	require.NoError(t, err)
	assert.True(t, stored.HasMember(a.ID))
	assert.Len(t, stored.Members, 2)

	// Approving twice does not duplicate the membership.
	_, err = apps.DecideApplication(ctx, app.ID.Hex(), "APPROVE")
	require.NoError(t, err)
	stored, err = s.Projects.FindByID(ctx, project.ID)
	require.NoError(t, err)
	assert.Len(t, stored.Members, 2)
}

func TestRejectApplicationKeepsMembers(t *testing.T) {
	ctx := context.Background()
	s := newTestStores(t)
	apps := NewApplicationService(s)
	admin := seedUser(t, s, "Admin", "admin@example.com", true)
	a := seedUser(t, s, "A", "a@example.com", false)
	project := seedProject(t, s, admin, "Capstone", nil)

	app, err := apps.CreateApplication(ctx, a, CreateApplicationInput{ProjectID: project.ID.Hex(), Idea: "idea", Description: "d"})
	require.NoError(t, err)
	decided, err := apps.DecideApplication(ctx, app.ID.Hex(), "reject")
	require.NoError(t, err)
	assert.Equal(t, models.ApplicationRejected, decided.Status)

	stored, err := s.Projects.FindByID(ctx, project.ID)
	require.NoError(t, err)
	assert.Empty(t, stored.Members)

	mine, err := apps.ListMyApplications(ctx, a)
	require.NoError(t, err)
	assert.Len(t, mine, 1)
	mine, err = apps.ListMyApplications(ctx, admin)
	require.NoError(t, err)
	assert.Empty(t, mine)
}

func TestCreateApplicationValidation(t *testing.T) {
	ctx := context.Background()
	s := newTestStores(t)
	apps := NewApplicationService(s)
	a := seedUser(t, s, "A", "a@example.com", false)

	_, err := apps.CreateApplication(ctx, a, CreateApplicationInput{Idea: "idea", Description: "d"})
	requireCode(t, err, ErrCodeInvalidRequest)
	_, err = apps.CreateApplication(ctx, a, CreateApplicationInput{ProjectID: "65f000000000000000000000", Idea: "idea", Description: "d"})
	requireCode(t, err, ErrCodeNotFound)
}
