package services

import (
	"context"
	"testing"

	"github.com/PatrikF1/backend-ProjectPartner/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpaceLifecycle(t *testing.T) {
	ctx := context.Background()
	s := newTestStores(t)
	spaces := NewSpaceService(s)
	admin := seedUser(t, s, "Admin", "admin@example.com", true)
	a := seedUser(t, s, "A", "a@example.com", false)
	b := seedUser(t, s, "B", "b@example.com", false)

	_, err := spaces.CreateSpace(ctx, admin, SpaceInput{Name: "Lab"})
	requireCode(t, err, ErrCodeInvalidRequest)
	_, err = spaces.CreateSpace(ctx, admin, SpaceInput{Name: "Lab", Type: "garage"})
	requireCode(t, err, ErrCodeInvalidRequest)

	space, err := spaces.CreateSpace(ctx, admin, SpaceInput{Name: "Lab", Type: models.SpaceMeetingRoom, Capacity: intPtr(1)})
	require.NoError(t, err)
	id := space.ID.Hex()

	joined, err := spaces.JoinSpace(ctx, a, id)
	require.NoError(t, err)
	assert.Len(t, joined.Members, 1)
	_, err = spaces.JoinSpace(ctx, b, id)
	requireCode(t, err, ErrCodeInvalidRequest)

	location := "Building B"
	updated, err := spaces.UpdateSpace(ctx, id, UpdateSpaceInput{Location: &location, Capacity: models.OptionalInt{Set: true, Value: intPtr(2)}})
	require.NoError(t, err)
	assert.Equal(t, "Building B", updated.Location)
	assert.Len(t, updated.Members, 1)

	_, err = spaces.JoinSpace(ctx, b, id)
	require.NoError(t, err)
	left, err := spaces.LeaveSpace(ctx, a, id)
	require.NoError(t, err)
	require.Len(t, left.Members, 1)
	assert.Equal(t, b.ID, left.Members[0].ID)

	require.NoError(t, spaces.DeleteSpace(ctx, id))
	_, err = spaces.GetSpace(ctx, id)
	requireCode(t, err, ErrCodeNotFound)
}

func TestRepositoryLinks(t *testing.T) {
	ctx := context.Background()
	s := newTestStores(t)
	links := NewLinkService(s)
	a := seedUser(t, s, "A", "a@example.com", false)

	_, err := links.CreateLink(ctx, a, CreateLinkInput{GithubURL: " "})
	requireCode(t, err, ErrCodeInvalidRequest)

	link, err := links.CreateLink(ctx, a, CreateLinkInput{GithubURL: "https://github.com/example/repo"})
	require.NoError(t, err)
	require.Len(t, link.Members, 1)
	assert.Equal(t, a.ID, link.Members[0].ID)

	list, err := links.ListLinks(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.NotNil(t, list[0].CreatedBy)
	assert.Equal(t, "a@example.com", list[0].CreatedBy.Email)
}
