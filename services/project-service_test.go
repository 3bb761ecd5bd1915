package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/PatrikF1/backend-ProjectPartner/models"
	"github.com/PatrikF1/backend-ProjectPartner/repositories"
	"github.com/PatrikF1/backend-ProjectPartner/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func memberIDs(view *models.ProjectView) []primitive.ObjectID {
	ids := make([]primitive.ObjectID, 0, len(view.Members))
	for _, m := range view.Members {
		ids = append(ids, m.ID)
	}
	return ids
}

func TestCapstoneMembership(t *testing.T) {
	ctx := context.Background()
	s := newTestStores(t)
	svc := NewProjectService(s)
	admin := seedUser(t, s, "Admin", "admin@example.com", true)
	a := seedUser(t, s, "A", "a@example.com", false)
	b := seedUser(t, s, "B", "b@example.com", false)

	project := seedProject(t, s, admin, "Capstone", intPtr(1))
	id := project.ID.Hex()

	view, err := svc.JoinProject(ctx, a, id)
	require.NoError(t, err)
	assert.Equal(t, []primitive.ObjectID{a.ID}, memberIDs(view))

	_, err = svc.JoinProject(ctx, b, id)
	requireCode(t, err, ErrCodeInvalidRequest)

	view, err = svc.LeaveProject(ctx, a, id)
	require.NoError(t, err)
	assert.Empty(t, view.Members)

	view, err = svc.JoinProject(ctx, b, id)
	require.NoError(t, err)
	assert.Equal(t, []primitive.ObjectID{b.ID}, memberIDs(view))
}

func TestJoinAndLeaveRules(t *testing.T) {
	ctx := context.Background()
	s := newTestStores(t)
	svc := NewProjectService(s)
	admin := seedUser(t, s, "Admin", "admin@example.com", true)
	a := seedUser(t, s, "A", "a@example.com", false)
	b := seedUser(t, s, "B", "b@example.com", false)
	project := seedProject(t, s, admin, "Open", nil)
	id := project.ID.Hex()

	_, err := svc.JoinProject(ctx, a, id)
	require.NoError(t, err)
	_, err = svc.JoinProject(ctx, a, id)
	requireCode(t, err, ErrCodeInvalidRequest)

	_, err = svc.JoinProject(ctx, b, id)
	require.NoError(t, err)

	_, err = svc.LeaveProject(ctx, admin, id)
	requireCode(t, err, ErrCodeInvalidRequest)

	view, err := svc.LeaveProject(ctx, a, id)
	require.NoError(t, err)
	assert.Equal(t, []primitive.ObjectID{b.ID}, memberIDs(view))

	_, err = svc.JoinProject(ctx, a, "not-an-id")
	requireCode(t, err, ErrCodeInvalidRequest)
	_, err = svc.JoinProject(ctx, a, primitive.NewObjectID().Hex())
	requireCode(t, err, ErrCodeNotFound)
}

func TestCreateProjectValidation(t *testing.T) {
	ctx := context.Background()
	s := newTestStores(t)
	svc := NewProjectService(s)
	admin := seedUser(t, s, "Admin", "admin@example.com", true)

	_, err := svc.CreateProject(ctx, admin, CreateProjectInput{Name: "x"})
	requireCode(t, err, ErrCodeInvalidRequest)

	_, err = svc.CreateProject(ctx, admin, CreateProjectInput{Name: "x", Description: "y", Capacity: intPtr(0)})
	requireCode(t, err, ErrCodeInvalidRequest)

	_, err = svc.CreateProject(ctx, admin, CreateProjectInput{Name: "x", Description: "y", Type: "epic"})
	requireCode(t, err, ErrCodeInvalidRequest)

	view, err := svc.CreateProject(ctx, admin, CreateProjectInput{Name: " x ", Description: "y"})
	require.NoError(t, err)
	assert.Equal(t, "x", view.Name)
	assert.Equal(t, models.ProjectTypeProject, view.Type)
	assert.True(t, view.IsActive)
	require.NotNil(t, view.CreatedBy)
	assert.Equal(t, admin.ID, view.CreatedBy.ID)
}

func TestUpdateProject(t *testing.T) {
	ctx := context.Background()
	s := newTestStores(t)
	svc := NewProjectService(s)
	admin := seedUser(t, s, "Admin", "admin@example.com", true)
	a := seedUser(t, s, "A", "a@example.com", false)
	b := seedUser(t, s, "B", "b@example.com", false)
	project := seedProject(t, s, admin, "Grow", intPtr(5))
	id := project.ID.Hex()
	for _, u := range []*models.User{a, b} {
		_, err := svc.JoinProject(ctx, u, id)
		require.NoError(t, err)
	}

	_, err := svc.UpdateProject(ctx, id, UpdateProjectInput{Capacity: models.OptionalInt{Set: true, Value: intPtr(1)}})
	requireCode(t, err, ErrCodeInvalidRequest)

	name := "Renamed"
	deadline := time.Date(2030, 1, 2, 0, 0, 0, 0, time.UTC)
	view, err := svc.UpdateProject(ctx, id, UpdateProjectInput{
		Name:     &name,
		Capacity: models.OptionalInt{Set: true},
		Deadline: models.OptionalTime{Set: true, Value: &deadline},
	})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", view.Name)
	assert.Nil(t, view.Capacity)
	require.NotNil(t, view.Deadline)
	assert.True(t, deadline.Equal(*view.Deadline))
	assert.Len(t, view.Members, 2)
}

func stubRenderer(err error) ReportRenderer {
	return func(*models.ProjectReport) ([]byte, error) {
		if err != nil {
			return nil, err
		}
		return []byte("%PDF-stub"), nil
	}
}

func seedProjectContent(t *testing.T, s Stores, project *models.ProjectView, author *models.User, tasks, applications int) {
	t.Helper()
	ctx := context.Background()
	for i := 0; i < tasks; i++ {
		status := models.StatusNotStarted
		if i == 0 {
			status = models.StatusCompleted
		}
		_, err := NewTaskService(s).CreateTask(ctx, author, CreateTaskInput{ProjectID: project.ID.Hex(), Name: "task", Status: status})
		require.NoError(t, err)
	}
	for i := 0; i < applications; i++ {
		_, err := NewApplicationService(s).CreateApplication(ctx, author, CreateApplicationInput{
			ProjectID: project.ID.Hex(), Idea: "idea", Description: "description",
		})
		require.NoError(t, err)
	}
}

func TestEndProjectRemovesEverything(t *testing.T) {
	ctx := context.Background()
	s := newTestStores(t)
	projects := NewProjectService(s)
	reports := NewReportService(s, projects, stubRenderer(nil))
	admin := seedUser(t, s, "Admin", "admin@example.com", true)
	a := seedUser(t, s, "A", "a@example.com", false)

	project := seedProject(t, s, admin, "Capstone", nil)
	other := seedProject(t, s, admin, "Other", nil)
	_, err := projects.JoinProject(ctx, a, project.ID.Hex())
	require.NoError(t, err)
	seedProjectContent(t, s, project, a, 3, 2)
	seedProjectContent(t, s, other, a, 1, 1)

	result, err := reports.EndProject(ctx, project.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, 3, result.Stats.Total)
	assert.Equal(t, 1, result.Stats.Completed)
	assert.Equal(t, 33.3, result.Stats.CompletionRate)
	require.Len(t, result.Members, 1)
	assert.Equal(t, 3, result.Members[0].Tasks)
	assert.Contains(t, result.Report, "data:application/pdf;base64,")

	_, err = s.Projects.FindByID(ctx, project.ID)
	assert.ErrorIs(t, err, repositories.ErrNotFound)

	tasks, err := s.Tasks.List(ctx, repositories.TaskFilter{})
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, other.ID, tasks[0].ProjectID)

	apps, err := s.Applications.List(ctx, repositories.ApplicationFilter{})
	require.NoError(t, err)
	require.Len(t, apps, 1)
	assert.Equal(t, other.ID, apps[0].ProjectID)
}

func TestEndProjectKeepsDataWhenRenderFails(t *testing.T) {
	ctx := context.Background()
	s := newTestStores(t)
	projects := NewProjectService(s)
	reports := NewReportService(s, projects, stubRenderer(errors.New("boom")))
	admin := seedUser(t, s, "Admin", "admin@example.com", true)
	project := seedProject(t, s, admin, "Capstone", nil)
	seedProjectContent(t, s, project, admin, 2, 0)

	_, err := reports.EndProject(ctx, project.ID.Hex())
	requireCode(t, err, ErrCodeInternal)

	_, err = s.Projects.FindByID(ctx, project.ID)
	require.NoError(t, err)
	tasks, err := s.Tasks.List(ctx, repositories.TaskFilter{ProjectID: &project.ID})
	require.NoError(t, err)
	assert.Len(t, tasks, 2)
}

func TestEndProjectWithAccentedNames(t *testing.T) {
	ctx := context.Background()
	s := newTestStores(t)
	projects := NewProjectService(s)
	reports := NewReportService(s, projects, utils.RenderProjectReport)
	admin := seedUser(t, s, "Željka", "zeljka@example.com", true)
	a := seedUser(t, s, "Jürgen", "jurgen@example.com", false)

	for _, name := range []string{"Café app", "Škola", "Straße über Brücke"} {
		project := seedProject(t, s, admin, name, nil)
		_, err := projects.JoinProject(ctx, a, project.ID.Hex())
		require.NoError(t, err)
		seedProjectContent(t, s, project, a, 2, 1)

		result, err := reports.EndProject(ctx, project.ID.Hex())
		require.NoError(t, err, name)
		assert.Contains(t, result.Report, "data:application/pdf;base64,")

		_, err = s.Projects.FindByID(ctx, project.ID)
		assert.ErrorIs(t, err, repositories.ErrNotFound)
	}
}

func TestDeleteProjectCascades(t *testing.T) {
	ctx := context.Background()
	s := newTestStores(t)
	projects := NewProjectService(s)
	admin := seedUser(t, s, "Admin", "admin@example.com", true)
	project := seedProject(t, s, admin, "Gone", nil)
	seedProjectContent(t, s, project, admin, 2, 2)

	require.NoError(t, projects.DeleteProject(ctx, project.ID.Hex()))

	tasks, err := s.Tasks.List(ctx, repositories.TaskFilter{})
	require.NoError(t, err)
	assert.Empty(t, tasks)
	apps, err := s.Applications.List(ctx, repositories.ApplicationFilter{})
	require.NoError(t, err)
	assert.Empty(t, apps)

	requireCode(t, projects.DeleteProject(ctx, project.ID.Hex()), ErrCodeNotFound)
}
