package services

import (
	"context"
	"testing"
	"time"

	"github.com/PatrikF1/backend-ProjectPartner/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListEventsMergesProjectDeadlines(t *testing.T) {
	ctx := context.Background()
	s := newTestStores(t)
	events := NewEventService(s)
	admin := seedUser(t, s, "Admin", "admin@example.com", true)
	a := seedUser(t, s, "A", "a@example.com", false)

	deadline := time.Date(2030, 6, 1, 0, 0, 0, 0, time.UTC)
	_, err := NewProjectService(s).CreateProject(ctx, admin, CreateProjectInput{
		Name: "Capstone", Description: "d", Deadline: models.OptionalTime{Set: true, Value: &deadline},
	})
	require.NoError(t, err)
	seedProject(t, s, admin, "No deadline", nil)

	_, err = events.CreateEvent(ctx, a, CreateEventInput{Title: "Later", Date: "2030-07-01"})
	require.NoError(t, err)
	_, err = events.CreateEvent(ctx, a, CreateEventInput{Title: "Sooner", Date: "2030-05-01T10:00"})
	require.NoError(t, err)

	list, err := events.ListEvents(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "Sooner", list[0].Title)
	assert.Equal(t, "Deadline: Capstone", list[1].Title)
	assert.True(t, list[1].Virtual)
	require.NotNil(t, list[1].ProjectID)
	assert.Equal(t, "Capstone", list[1].ProjectID.Name)
	assert.Equal(t, "Later", list[2].Title)
}

func TestDeleteEventPermissions(t *testing.T) {
	ctx := context.Background()
	s := newTestStores(t)
	events := NewEventService(s)
	admin := seedUser(t, s, "Admin", "admin@example.com", true)
	a := seedUser(t, s, "A", "a@example.com", false)
	b := seedUser(t, s, "B", "b@example.com", false)

	first, err := events.CreateEvent(ctx, a, CreateEventInput{Title: "One", Date: "2030-01-01"})
	require.NoError(t, err)
	second, err := events.CreateEvent(ctx, a, CreateEventInput{Title: "Two", Date: "2030-01-02"})
	require.NoError(t, err)

	requireCode(t, events.DeleteEvent(ctx, b, first.ID.Hex()), ErrCodeForbidden)
	require.NoError(t, events.DeleteEvent(ctx, a, first.ID.Hex()))
	require.NoError(t, events.DeleteEvent(ctx, admin, second.ID.Hex()))
	requireCode(t, events.DeleteEvent(ctx, a, first.ID.Hex()), ErrCodeNotFound)
}

func TestCreateEventValidation(t *testing.T) {
	ctx := context.Background()
	s := newTestStores(t)
	events := NewEventService(s)
	a := seedUser(t, s, "A", "a@example.com", false)

	_, err := events.CreateEvent(ctx, a, CreateEventInput{Title: "x"})
	requireCode(t, err, ErrCodeInvalidRequest)
	_, err = events.CreateEvent(ctx, a, CreateEventInput{Title: "x", Date: "tomorrow"})
	requireCode(t, err, ErrCodeInvalidRequest)
	_, err = events.CreateEvent(ctx, a, CreateEventInput{Title: "x", Date: "2030-01-01", ProjectID: "65f000000000000000000000"})
	requireCode(t, err, ErrCodeNotFound)
}
