package services

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/PatrikF1/backend-ProjectPartner/logging"
	"github.com/PatrikF1/backend-ProjectPartner/models"
	"github.com/PatrikF1/backend-ProjectPartner/repositories"
)

type CreateProjectInput struct {
	Name        string              `json:"name"`
	Description string              `json:"description"`
	Type        models.ProjectType  `json:"type"`
	Capacity    *int                `json:"capacity"`
	Deadline    models.OptionalTime `json:"deadline"`
}

// UpdateProjectInput is a partial update; nil fields are left as they are.
// Capacity and deadline accept an explicit null to clear them.
type UpdateProjectInput struct {
	Name        *string             `json:"name"`
	Description *string             `json:"description"`
	Type        *models.ProjectType `json:"type"`
	Capacity    models.OptionalInt  `json:"capacity"`
	Deadline    models.OptionalTime `json:"deadline"`
	IsActive    *bool               `json:"isActive"`
}

type ProjectService struct {
	projects     ProjectStore
	tasks        TaskStore
	applications ApplicationStore
	events       EventStore
	tx           Transactor
	resolve      *resolver
}

func NewProjectService(s Stores) *ProjectService {
	return &ProjectService{
		projects:     s.Projects,
		tasks:        s.Tasks,
		applications: s.Applications,
		events:       s.Events,
		tx:           s.Tx,
		resolve:      newResolver(s),
	}
}

// CreateProject registers a project owned by the calling admin.
func (s *ProjectService) CreateProject(ctx context.Context, caller *models.User, in CreateProjectInput) (*models.ProjectView, error) {
	project := &models.Project{
		Name:        strings.TrimSpace(in.Name),
		Description: strings.TrimSpace(in.Description),
		Type:        in.Type,
		Capacity:    in.Capacity,
		Deadline:    in.Deadline.Value,
		IsActive:    true,
		CreatedBy:   caller.ID,
	}
	if project.Name == "" || project.Description == "" {
		return nil, invalid("name and description are required")
	}
	if project.Type == "" {
		project.Type = models.ProjectTypeProject
	}
	if err := validateProject(project); err != nil {
		return nil, err
	}
	if err := s.projects.Create(ctx, project); err != nil {
		return nil, internal("failed to create project", err)
	}
	logging.Logger.Infof("Event ID: PROJECT_CREATED, Description: Project %s created by %s", project.ID.Hex(), caller.ID.Hex())
	return s.resolve.project(ctx, project)
}

func (s *ProjectService) ListProjects(ctx context.Context) ([]models.ProjectView, error) {
	projects, err := s.projects.List(ctx, repositories.ProjectFilter{})
	if err != nil {
		return nil, internal("failed to load projects", err)
	}
	return s.resolve.projects(ctx, projects)
}

// ListMyProjects returns the projects the caller is a member of.
func (s *ProjectService) ListMyProjects(ctx context.Context, caller *models.User) ([]models.ProjectView, error) {
	projects, err := s.projects.List(ctx, repositories.ProjectFilter{MemberID: &caller.ID})
	if err != nil {
		return nil, internal("failed to load projects", err)
	}
	return s.resolve.projects(ctx, projects)
}

func (s *ProjectService) GetProject(ctx context.Context, rawID string) (*models.ProjectView, error) {
	project, err := s.load(ctx, rawID)
	if err != nil {
		return nil, err
	}
	return s.resolve.project(ctx, project)
}

func (s *ProjectService) UpdateProject(ctx context.Context, rawID string, in UpdateProjectInput) (*models.ProjectView, error) {
	project, err := s.load(ctx, rawID)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		project.Name = strings.TrimSpace(*in.Name)
		if project.Name == "" {
			return nil, invalid("name must not be empty")
		}
	}
	if in.Description != nil {
		project.Description = strings.TrimSpace(*in.Description)
		if project.Description == "" {
			return nil, invalid("description must not be empty")
		}
	}
	if in.Type != nil {
		project.Type = *in.Type
	}
	if in.Capacity.Set {
		project.Capacity = in.Capacity.Value
	}
	if in.Deadline.Set {
		project.Deadline = in.Deadline.Value
	}
	if in.IsActive != nil {
		project.IsActive = *in.IsActive
	}
	if err := validateProject(project); err != nil {
		return nil, err
	}
	if project.Capacity != nil && *project.Capacity < len(project.Members) {
		return nil, invalid("capacity cannot be lower than the current number of members (%d)", len(project.Members))
	}
	if err := s.projects.Update(ctx, project); err != nil {
		return nil, writeErr(err, "update", "project")
	}
	return s.resolve.project(ctx, project)
}

// JoinProject adds the caller to the project's members.
func (s *ProjectService) JoinProject(ctx context.Context, caller *models.User, rawID string) (*models.ProjectView, error) {
	project, err := s.load(ctx, rawID)
	if err != nil {
		return nil, err
	}
	if err := joinMembers(ctx, s.projects, "project", project.ID, caller.ID, project.HasMember(caller.ID), project.IsFull()); err != nil {
		return nil, err
	}
	logging.Logger.Infof("Event ID: PROJECT_JOINED, Description: User %s joined project %s", caller.ID.Hex(), project.ID.Hex())
	return s.reload(ctx, project)
}

// LeaveProject removes exactly the caller from the project's members.
func (s *ProjectService) LeaveProject(ctx context.Context, caller *models.User, rawID string) (*models.ProjectView, error) {
	project, err := s.load(ctx, rawID)
	if err != nil {
		return nil, err
	}
	if err := leaveMembers(ctx, s.projects, "project", project.ID, caller.ID, project.HasMember(caller.ID)); err != nil {
		return nil, err
	}
	logging.Logger.Infof("Event ID: PROJECT_LEFT, Description: User %s left project %s", caller.ID.Hex(), project.ID.Hex())
	return s.reload(ctx, project)
}

// DeleteProject removes the project together with its tasks, applications and
// linked calendar events in one transaction.
func (s *ProjectService) DeleteProject(ctx context.Context, rawID string) error {
	project, err := s.load(ctx, rawID)
	if err != nil {
		return err
	}
	return s.destroy(ctx, project)
}

func (s *ProjectService) destroy(ctx context.Context, project *models.Project) error {
	var tasks, applications, events int64
	err := s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		var err error
		if tasks, err = s.tasks.DeleteByProject(ctx, project.ID); err != nil {
			return err
		}
		if applications, err = s.applications.DeleteByProject(ctx, project.ID); err != nil {
			return err
		}
		if events, err = s.events.DeleteByProject(ctx, project.ID); err != nil {
			return err
		}
		return s.projects.Delete(ctx, project.ID)
	})
	if err != nil {
		logging.Logger.Errorf("Event ID: PROJECT_DELETE_FAILED, Description: Failed to delete project %s: %v", project.ID.Hex(), err)
		return writeErr(err, "delete", "project")
	}
	logging.Logger.Infof("Event ID: PROJECT_DELETED, Description: Project %s deleted with %d tasks, %d applications and %d events",
		project.ID.Hex(), tasks, applications, events)
	return nil
}

func (s *ProjectService) load(ctx context.Context, rawID string) (*models.Project, error) {
	id, err := parseID(rawID, "project id")
	if err != nil {
		return nil, err
	}
	project, err := s.projects.FindByID(ctx, id)
	if err != nil {
		return nil, lookupErr(err, "project")
	}
	return project, nil
}

func (s *ProjectService) reload(ctx context.Context, project *models.Project) (*models.ProjectView, error) {
	fresh, err := s.projects.FindByID(ctx, project.ID)
	if err != nil {
		return nil, lookupErr(err, "project")
	}
	return s.resolve.project(ctx, fresh)
}

func validateProject(p *models.Project) error {
	if utf8.RuneCountInString(p.Name) > models.MaxProjectNameLength {
		return invalid("name must not exceed %d characters", models.MaxProjectNameLength)
	}
	if utf8.RuneCountInString(p.Description) > models.MaxProjectDescriptionLength {
		return invalid("description must not exceed %d characters", models.MaxProjectDescriptionLength)
	}
	if !p.Type.Valid() {
		return invalid("invalid project type %q", p.Type)
	}
	if !validCapacity(p.Capacity) {
		return invalid("capacity must be between %d and %d", models.MinCapacity, models.MaxCapacity)
	}
	return nil
}
