package services

import (
	"context"
	"strings"

	"github.com/PatrikF1/backend-ProjectPartner/logging"
	"github.com/PatrikF1/backend-ProjectPartner/models"
	"github.com/PatrikF1/backend-ProjectPartner/repositories"
)

type CreateApplicationInput struct {
	ProjectID   string `json:"projectId"`
	Idea        string `json:"idea"`
	Description string `json:"description"`
}

type ApplicationService struct {
	applications ApplicationStore
	projects     ProjectStore
	tx           Transactor
	resolve      *resolver
}

func NewApplicationService(s Stores) *ApplicationService {
	return &ApplicationService{applications: s.Applications, projects: s.Projects, tx: s.Tx, resolve: newResolver(s)}
}

// CreateApplication files an idea proposal for an existing project.
func (s *ApplicationService) CreateApplication(ctx context.Context, caller *models.User, in CreateApplicationInput) (*models.ApplicationView, error) {
	idea := strings.TrimSpace(in.Idea)
	description := strings.TrimSpace(in.Description)
	if strings.TrimSpace(in.ProjectID) == "" || idea == "" || description == "" {
		return nil, invalid("projectId, idea and description are required")
	}
	projectID, err := parseID(in.ProjectID, "project id")
	if err != nil {
		return nil, err
	}
	if _, err := s.projects.FindByID(ctx, projectID); err != nil {
		return nil, lookupErr(err, "project")
	}

	application := &models.Application{
		ProjectID:   projectID,
		Idea:        idea,
		Description: description,
		Status:      models.ApplicationPending,
		CreatedBy:   caller.ID,
	}
	if err := s.applications.Create(ctx, application); err != nil {
		return nil, internal("failed to create application", err)
	}
	logging.Logger.Infof("Event ID: APPLICATION_CREATED, Description: Application %s for project %s created by %s",
		application.ID.Hex(), projectID.Hex(), caller.ID.Hex())
	return s.resolve.application(ctx, application)
}

func (s *ApplicationService) ListApplications(ctx context.Context) ([]models.ApplicationView, error) {
	return s.list(ctx, repositories.ApplicationFilter{})
}

func (s *ApplicationService) ListMyApplications(ctx context.Context, caller *models.User) ([]models.ApplicationView, error) {
	return s.list(ctx, repositories.ApplicationFilter{CreatedBy: &caller.ID})
}

// DecideApplication approves or rejects an application. Approval makes the
// author a project member; admins curate membership, so capacity is not checked.
func (s *ApplicationService) DecideApplication(ctx context.Context, rawID, action string) (*models.ApplicationView, error) {
	var status models.ApplicationStatus
	switch strings.ToLower(action) {
	case "approve":
		status = models.ApplicationApproved
	case "reject":
		status = models.ApplicationRejected
	default:
		return nil, invalid("action must be approve or reject")
	}
	id, err := parseID(rawID, "application id")
	if err != nil {
		return nil, err
	}
	application, err := s.applications.FindByID(ctx, id)
	if err != nil {
		return nil, lookupErr(err, "application")
	}

	err = s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		if err := s.applications.UpdateStatus(ctx, id, status); err != nil {
			return err
		}
		if status == models.ApplicationApproved {
			if _, err := s.projects.AddMember(ctx, application.ProjectID, application.CreatedBy, false); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, writeErr(err, "update", "application")
	}
	application.Status = status
	logging.Logger.Infof("Event ID: APPLICATION_DECIDED, Description: Application %s marked %s", id.Hex(), status)
	return s.resolve.application(ctx, application)
}

func (s *ApplicationService) list(ctx context.Context, filter repositories.ApplicationFilter) ([]models.ApplicationView, error) {
	applications, err := s.applications.List(ctx, filter)
	if err != nil {
		return nil, internal("failed to load applications", err)
	}
	return s.resolve.applications(ctx, applications)
}
