package services

import (
	"context"
	"testing"
	"time"

	"github.com/PatrikF1/backend-ProjectPartner/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestArchivedTaskHiddenFromMyTasks(t *testing.T) {
	ctx := context.Background()
	s := newTestStores(t)
	tasks := NewTaskService(s)
	admin := seedUser(t, s, "Admin", "admin@example.com", true)
	a := seedUser(t, s, "A", "a@example.com", false)
	project := seedProject(t, s, admin, "Capstone", nil)
	_, err := NewProjectService(s).JoinProject(ctx, a, project.ID.Hex())
	require.NoError(t, err)

	keep, err := tasks.CreateTask(ctx, a, CreateTaskInput{ProjectID: project.ID.Hex(), Name: "keep"})
	require.NoError(t, err)
	hide, err := tasks.CreateTask(ctx, a, CreateTaskInput{ProjectID: project.ID.Hex(), Name: "hide"})
	require.NoError(t, err)

	archived, err := tasks.ArchiveTask(ctx, a, hide.ID.Hex())
	require.NoError(t, err)
	assert.True(t, archived.IsArchived)
	assert.NotNil(t, archived.ArchivedAt)

	mine, err := tasks.ListMyTasks(ctx, a)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, keep.ID, mine[0].ID)

	all, err := tasks.ListTasks(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestMyTasksEmptyWithoutProjects(t *testing.T) {
	ctx := context.Background()
	s := newTestStores(t)
	tasks := NewTaskService(s)
	admin := seedUser(t, s, "Admin", "admin@example.com", true)
	loner := seedUser(t, s, "L", "l@example.com", false)
	project := seedProject(t, s, admin, "Capstone", nil)
	_, err := tasks.CreateTask(ctx, admin, CreateTaskInput{ProjectID: project.ID.Hex(), Name: "t"})
	require.NoError(t, err)

	mine, err := tasks.ListMyTasks(ctx, loner)
	require.NoError(t, err)
	assert.Empty(t, mine)
}

func TestTaskDeadlineFansOutToMembers(t *testing.T) {
	ctx := context.Background()
	s := newTestStores(t)
	tasks := NewTaskService(s)
	projects := NewProjectService(s)
	admin := seedUser(t, s, "Admin", "admin@example.com", true)
	a := seedUser(t, s, "A", "a@example.com", false)
	b := seedUser(t, s, "B", "b@example.com", false)
	project := seedProject(t, s, admin, "Capstone", nil)
	for _, u := range []*models.User{a, b} {
		_, err := projects.JoinProject(ctx, u, project.ID.Hex())
		require.NoError(t, err)
	}

	deadline := time.Date(2031, 5, 1, 0, 0, 0, 0, time.UTC)
	task, err := tasks.CreateTask(ctx, a, CreateTaskInput{
		ProjectID: project.ID.Hex(),
		Name:      "Write docs",
		Deadline:  models.OptionalTime{Set: true, Value: &deadline},
	})
	require.NoError(t, err)
	assert.Equal(t, models.StatusNotStarted, task.Status)
	assert.Equal(t, models.PriorityMedium, task.Priority)

	events, err := s.Events.List(ctx)
	require.NoError(t, err)
	require.Len(t, events, 2)
	owners := map[primitive.ObjectID]bool{}
	for _, e := range events {
		owners[e.CreatedBy] = true
		assert.Equal(t, "Task deadline: Write docs", e.Title)
		assert.True(t, deadline.Equal(e.Date))
		require.NotNil(t, e.TaskID)
		assert.Equal(t, task.ID, *e.TaskID)
	}
	assert.True(t, owners[a.ID])
	assert.True(t, owners[b.ID])
}

func TestCreateTaskValidation(t *testing.T) {
	ctx := context.Background()
	s := newTestStores(t)
	tasks := NewTaskService(s)
	admin := seedUser(t, s, "Admin", "admin@example.com", true)
	project := seedProject(t, s, admin, "Capstone", nil)
	other := seedProject(t, s, admin, "Other", nil)
	app, err := NewApplicationService(s).CreateApplication(ctx, admin, CreateApplicationInput{
		ProjectID: other.ID.Hex(), Idea: "idea", Description: "d",
	})
	require.NoError(t, err)

	tests := []struct {
		name string
		in   CreateTaskInput
		code ErrCode
	}{
		{"missing name", CreateTaskInput{ProjectID: project.ID.Hex()}, ErrCodeInvalidRequest},
		{"bad project id", CreateTaskInput{ProjectID: "zzz", Name: "t"}, ErrCodeInvalidRequest},
		{"unknown project", CreateTaskInput{ProjectID: primitive.NewObjectID().Hex(), Name: "t"}, ErrCodeNotFound},
		{"bad status", CreateTaskInput{ProjectID: project.ID.Hex(), Name: "t", Status: "done"}, ErrCodeInvalidRequest},
		{"bad priority", CreateTaskInput{ProjectID: project.ID.Hex(), Name: "t", Priority: "urgent"}, ErrCodeInvalidRequest},
		{"unknown application", CreateTaskInput{ProjectID: project.ID.Hex(), Name: "t", ApplicationID: primitive.NewObjectID().Hex()}, ErrCodeInvalidRequest},
		{"foreign application", CreateTaskInput{ProjectID: project.ID.Hex(), Name: "t", ApplicationID: app.ID.Hex()}, ErrCodeInvalidRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tasks.CreateTask(ctx, admin, tt.in)
			requireCode(t, err, tt.code)
		})
	}
}

func TestTaskMutationPermissions(t *testing.T) {
	ctx := context.Background()
	s := newTestStores(t)
	tasks := NewTaskService(s)
	admin := seedUser(t, s, "Admin", "admin@example.com", true)
	owner := seedUser(t, s, "O", "o@example.com", false)
	member := seedUser(t, s, "M", "m@example.com", false)
	stranger := seedUser(t, s, "S", "s@example.com", false)
	project := seedProject(t, s, admin, "Capstone", nil)
	_, err := NewProjectService(s).JoinProject(ctx, member, project.ID.Hex())
	require.NoError(t, err)

	task, err := tasks.CreateTask(ctx, owner, CreateTaskInput{ProjectID: project.ID.Hex(), Name: "t"})
	require.NoError(t, err)
	id := task.ID.Hex()

	status := models.StatusInProgress
	_, err = tasks.UpdateTask(ctx, stranger, id, UpdateTaskInput{Status: &status})
	requireCode(t, err, ErrCodeForbidden)

	updated, err := tasks.UpdateTask(ctx, member, id, UpdateTaskInput{Status: &status})
	require.NoError(t, err)
	assert.Equal(t, models.StatusInProgress, updated.Status)

	back := models.StatusNotStarted
	_, err = tasks.UpdateTask(ctx, owner, id, UpdateTaskInput{Status: &back})
	require.NoError(t, err)

	requireCode(t, tasks.DeleteTask(ctx, stranger, id), ErrCodeForbidden)
	require.NoError(t, tasks.DeleteTask(ctx, admin, id))
	_, err = tasks.GetTask(ctx, id)
	requireCode(t, err, ErrCodeNotFound)
}

func TestQueryTasks(t *testing.T) {
	ctx := context.Background()
	s := newTestStores(t)
	tasks := NewTaskService(s)
	admin := seedUser(t, s, "Admin", "admin@example.com", true)
	a := seedUser(t, s, "A", "a@example.com", false)
	project := seedProject(t, s, admin, "Capstone", nil)
	app, err := NewApplicationService(s).CreateApplication(ctx, a, CreateApplicationInput{
		ProjectID: project.ID.Hex(), Idea: "idea", Description: "d",
	})
	require.NoError(t, err)

	_, err = tasks.CreateTask(ctx, a, CreateTaskInput{ProjectID: project.ID.Hex(), ApplicationID: app.ID.Hex(), Name: "with app"})
	require.NoError(t, err)
	_, err = tasks.CreateTask(ctx, a, CreateTaskInput{ProjectID: project.ID.Hex(), Name: "plain"})
	require.NoError(t, err)
	_, err = tasks.CreateTask(ctx, admin, CreateTaskInput{ProjectID: project.ID.Hex(), Name: "admin"})
	require.NoError(t, err)

	byUser, err := tasks.QueryTasks(ctx, TaskQuery{UserID: a.ID.Hex()})
	require.NoError(t, err)
	assert.Len(t, byUser, 2)

	byApp, err := tasks.ListApplicationTasks(ctx, a, project.ID.Hex(), app.ID.Hex())
	require.NoError(t, err)
	require.Len(t, byApp, 1)
	assert.Equal(t, "with app", byApp[0].Name)
	require.NotNil(t, byApp[0].ApplicationID)
	assert.Equal(t, "idea", byApp[0].ApplicationID.Idea)

	_, err = tasks.QueryTasks(ctx, TaskQuery{ProjectID: "nope"})
	requireCode(t, err, ErrCodeInvalidRequest)
}

func TestNormalizePriority(t *testing.T) {
	assert.Equal(t, models.PriorityHigh, NormalizePriority(" HIGH "))
	assert.Equal(t, models.PriorityLow, NormalizePriority("low"))
	assert.Equal(t, models.PriorityMedium, NormalizePriority("urgent"))
	assert.Equal(t, models.PriorityMedium, NormalizePriority(""))
}
