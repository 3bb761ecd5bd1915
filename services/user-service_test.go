package services

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDashboard(t *testing.T) {
	ctx := context.Background()
	s := newTestStores(t)
	users := NewUserService(s)
	admin := seedUser(t, s, "Admin", "admin@example.com", true)
	a := seedUser(t, s, "A", "a@example.com", false)
	joined := seedProject(t, s, admin, "Joined", nil)
	seedProject(t, s, admin, "Other", nil)
	_, err := NewProjectService(s).JoinProject(ctx, a, joined.ID.Hex())
	require.NoError(t, err)
	_, err = NewApplicationService(s).CreateApplication(ctx, a, CreateApplicationInput{ProjectID: joined.ID.Hex(), Idea: "i", Description: "d"})
	require.NoError(t, err)

	d, err := users.Dashboard(ctx, a)
	require.NoError(t, err)
	assert.Len(t, d.Users, 2)
	assert.Len(t, d.Projects, 2)
	require.Len(t, d.MyProjects, 1)
	assert.Equal(t, "Joined", d.MyProjects[0].Name)
	assert.Len(t, d.Applications, 1)
	assert.Len(t, d.MyApplications, 1)
}

func TestUpdateProfileImage(t *testing.T) {
	ctx := context.Background()
	s := newTestStores(t)
	users := NewUserService(s)
	a := seedUser(t, s, "A", "a@example.com", false)

	for _, bad := range []string{"", "ftp://x/y.png", "data:" + strings.Repeat("a", MaxProfileImageLength)} {
		_, err := users.UpdateProfileImage(ctx, a, bad)
		requireCode(t, err, ErrCodeInvalidRequest)
	}

	updated, err := users.UpdateProfileImage(ctx, a, "data:image/png;base64,AAAA")
	require.NoError(t, err)
	assert.Equal(t, "data:image/png;base64,AAAA", updated.ProfileImage)
}
