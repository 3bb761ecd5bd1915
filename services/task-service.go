package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/PatrikF1/backend-ProjectPartner/logging"
	"github.com/PatrikF1/backend-ProjectPartner/models"
	"github.com/PatrikF1/backend-ProjectPartner/repositories"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type CreateTaskInput struct {
	ProjectID     string              `json:"projectId"`
	ApplicationID string              `json:"applicationId"`
	Name          string              `json:"name"`
	Description   string              `json:"description"`
	Status        models.TaskStatus   `json:"status"`
	Priority      models.TaskPriority `json:"priority"`
	Deadline      models.OptionalTime `json:"deadline"`
}

type UpdateTaskInput struct {
	Name        *string              `json:"name"`
	Description *string              `json:"description"`
	Status      *models.TaskStatus   `json:"status"`
	Priority    *models.TaskPriority `json:"priority"`
	Deadline    models.OptionalTime  `json:"deadline"`
}

// TaskQuery is the admin lookup behind /api/tasks/by-user. Empty fields do not filter.
type TaskQuery struct {
	UserID        string
	ApplicationID string
	ProjectID     string
}

type TaskService struct {
	tasks        TaskStore
	projects     ProjectStore
	applications ApplicationStore
	events       EventStore
	tx           Transactor
	resolve      *resolver
}

func NewTaskService(s Stores) *TaskService {
	return &TaskService{
		tasks:        s.Tasks,
		projects:     s.Projects,
		applications: s.Applications,
		events:       s.Events,
		tx:           s.Tx,
		resolve:      newResolver(s),
	}
}

// CreateTask adds a task to a project. A deadline puts one calendar event on
// every project member's calendar, written in the same transaction as the task.
func (s *TaskService) CreateTask(ctx context.Context, caller *models.User, in CreateTaskInput) (*models.TaskView, error) {
	name := strings.TrimSpace(in.Name)
	if strings.TrimSpace(in.ProjectID) == "" || name == "" {
		return nil, invalid("projectId and name are required")
	}
	projectID, err := parseID(in.ProjectID, "project id")
	if err != nil {
		return nil, err
	}
	project, err := s.projects.FindByID(ctx, projectID)
	if err != nil {
		return nil, lookupErr(err, "project")
	}

	task := &models.Task{
		ProjectID:   projectID,
		Name:        name,
		Description: strings.TrimSpace(in.Description),
		Status:      in.Status,
		Priority:    in.Priority,
		Deadline:    in.Deadline.Value,
		CreatedBy:   caller.ID,
	}
	if task.Status == "" {
		task.Status = models.StatusNotStarted
	}
	if task.Priority == "" {
		task.Priority = models.PriorityMedium
	}
	if !task.Status.Valid() {
		return nil, invalid("invalid status %q", task.Status)
	}
	if !task.Priority.Valid() {
		return nil, invalid("invalid priority %q", task.Priority)
	}
	if strings.TrimSpace(in.ApplicationID) != "" {
		applicationID, err := parseID(in.ApplicationID, "application id")
		if err != nil {
			return nil, err
		}
		application, err := s.applications.FindByID(ctx, applicationID)
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, invalid("application does not exist")
		} else if err != nil {
			return nil, internal("failed to load application", err)
		}
		if application.ProjectID != projectID {
			return nil, invalid("application does not belong to this project")
		}
		task.ApplicationID = &applicationID
	}

	err = s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		if err := s.tasks.Create(ctx, task); err != nil {
			return err
		}
		return s.events.CreateMany(ctx, deadlineEvents(task, project))
	})
	if err != nil {
		return nil, internal("failed to create task", err)
	}
	logging.Logger.Infof("Event ID: TASK_CREATED, Description: Task %s created in project %s by %s", task.ID.Hex(), projectID.Hex(), caller.ID.Hex())
	return s.resolve.task(ctx, task)
}

func deadlineEvents(task *models.Task, project *models.Project) []*models.Event {
	if task.Deadline == nil {
		return nil
	}
	events := make([]*models.Event, 0, len(project.Members))
	for _, member := range project.Members {
		projectID, taskID := project.ID, task.ID
		events = append(events, &models.Event{
			Title:       "Task deadline: " + task.Name,
			Date:        *task.Deadline,
			Description: fmt.Sprintf("Task %q in project %q is due.", task.Name, project.Name),
			SendAlert:   true,
			ProjectID:   &projectID,
			TaskID:      &taskID,
			CreatedBy:   member,
		})
	}
	return events
}

func (s *TaskService) ListTasks(ctx context.Context) ([]models.TaskView, error) {
	return s.list(ctx, repositories.TaskFilter{})
}

// ListMyTasks returns unarchived tasks of every project the caller belongs to.
func (s *TaskService) ListMyTasks(ctx context.Context, caller *models.User) ([]models.TaskView, error) {
	projects, err := s.projects.List(ctx, repositories.ProjectFilter{MemberID: &caller.ID})
	if err != nil {
		return nil, internal("failed to load projects", err)
	}
	ids := make([]primitive.ObjectID, 0, len(projects))
	for _, p := range projects {
		ids = append(ids, p.ID)
	}
	return s.list(ctx, repositories.TaskFilter{ProjectIDs: ids, ExcludeArchived: true})
}

// ListApplicationTasks returns the caller's tasks for one application of a project.
func (s *TaskService) ListApplicationTasks(ctx context.Context, caller *models.User, rawProjectID, rawApplicationID string) ([]models.TaskView, error) {
	projectID, err := parseID(rawProjectID, "project id")
	if err != nil {
		return nil, err
	}
	applicationID, err := parseID(rawApplicationID, "application id")
	if err != nil {
		return nil, err
	}
	return s.list(ctx, repositories.TaskFilter{ProjectID: &projectID, ApplicationID: &applicationID, CreatedBy: &caller.ID})
}

func (s *TaskService) QueryTasks(ctx context.Context, q TaskQuery) ([]models.TaskView, error) {
	var filter repositories.TaskFilter
	for _, f := range []struct {
		raw, what string
		dst       **primitive.ObjectID
	}{
		{q.UserID, "user id", &filter.CreatedBy},
		{q.ApplicationID, "application id", &filter.ApplicationID},
		{q.ProjectID, "project id", &filter.ProjectID},
	} {
		if f.raw == "" {
			continue
		}
		id, err := parseID(f.raw, f.what)
		if err != nil {
			return nil, err
		}
		*f.dst = &id
	}
	return s.list(ctx, filter)
}

func (s *TaskService) GetTask(ctx context.Context, rawID string) (*models.TaskView, error) {
	task, err := s.load(ctx, rawID)
	if err != nil {
		return nil, err
	}
	return s.resolve.task(ctx, task)
}

// UpdateTask applies a partial update. Status may move freely between values.
func (s *TaskService) UpdateTask(ctx context.Context, caller *models.User, rawID string, in UpdateTaskInput) (*models.TaskView, error) {
	task, err := s.authorized(ctx, caller, rawID, ActionUpdate)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		task.Name = strings.TrimSpace(*in.Name)
		if task.Name == "" {
			return nil, invalid("name must not be empty")
		}
	}
	if in.Description != nil {
		task.Description = strings.TrimSpace(*in.Description)
	}
	if in.Status != nil {
		if !in.Status.Valid() {
			return nil, invalid("invalid status %q", *in.Status)
		}
		task.Status = *in.Status
	}
	if in.Priority != nil {
		if !in.Priority.Valid() {
			return nil, invalid("invalid priority %q", *in.Priority)
		}
		task.Priority = *in.Priority
	}
	if in.Deadline.Set {
		task.Deadline = in.Deadline.Value
	}
	if err := s.tasks.Update(ctx, task); err != nil {
		return nil, writeErr(err, "update", "task")
	}
	return s.resolve.task(ctx, task)
}

func (s *TaskService) DeleteTask(ctx context.Context, caller *models.User, rawID string) error {
	task, err := s.authorized(ctx, caller, rawID, ActionDelete)
	if err != nil {
		return err
	}
	if err := s.tasks.Delete(ctx, task.ID); err != nil {
		return writeErr(err, "delete", "task")
	}
	logging.Logger.Infof("Event ID: TASK_DELETED, Description: Task %s deleted by %s", task.ID.Hex(), caller.ID.Hex())
	return nil
}

// ArchiveTask hides a task from "my tasks" without deleting it.
func (s *TaskService) ArchiveTask(ctx context.Context, caller *models.User, rawID string) (*models.TaskView, error) {
	task, err := s.authorized(ctx, caller, rawID, ActionArchive)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	task.IsArchived = true
	task.ArchivedAt = &now
	if err := s.tasks.Update(ctx, task); err != nil {
		return nil, writeErr(err, "archive", "task")
	}
	logging.Logger.Infof("Event ID: TASK_ARCHIVED, Description: Task %s archived by %s", task.ID.Hex(), caller.ID.Hex())
	return s.resolve.task(ctx, task)
}

func (s *TaskService) authorized(ctx context.Context, caller *models.User, rawID string, action Action) (*models.Task, error) {
	task, err := s.load(ctx, rawID)
	if err != nil {
		return nil, err
	}
	project, err := s.projects.FindByID(ctx, task.ProjectID)
	if err != nil && !errors.Is(err, repositories.ErrNotFound) {
		return nil, internal("failed to load project", err)
	}
	if err := Authorize(caller, action, TaskResource(task, project)); err != nil {
		return nil, err
	}
	return task, nil
}

func (s *TaskService) load(ctx context.Context, rawID string) (*models.Task, error) {
	id, err := parseID(rawID, "task id")
	if err != nil {
		return nil, err
	}
	task, err := s.tasks.FindByID(ctx, id)
	if err != nil {
		return nil, lookupErr(err, "task")
	}
	return task, nil
}

func (s *TaskService) list(ctx context.Context, filter repositories.TaskFilter) ([]models.TaskView, error) {
	tasks, err := s.tasks.List(ctx, filter)
	if err != nil {
		return nil, internal("failed to load tasks", err)
	}
	return s.resolve.tasks(ctx, tasks)
}

// NormalizePriority maps free-form priority text onto a valid priority,
// falling back to medium.
func NormalizePriority(raw string) models.TaskPriority {
	p := models.TaskPriority(strings.ToLower(strings.TrimSpace(raw)))
	if p.Valid() {
		return p
	}
	return models.PriorityMedium
}
