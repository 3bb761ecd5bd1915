package services

import (
	"context"
	"slices"
	"strings"

	"github.com/PatrikF1/backend-ProjectPartner/logging"
	"github.com/PatrikF1/backend-ProjectPartner/models"
	"github.com/PatrikF1/backend-ProjectPartner/repositories"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type CreateEventInput struct {
	Title       string `json:"title"`
	Date        string `json:"date"`
	Description string `json:"description"`
	SendAlert   bool   `json:"sendAlert"`
	ProjectID   string `json:"projectId"`
	TaskID      string `json:"taskId"`
}

type EventService struct {
	events   EventStore
	projects ProjectStore
	tasks    TaskStore
	resolve  *resolver
}

func NewEventService(s Stores) *EventService {
	return &EventService{events: s.Events, projects: s.Projects, tasks: s.Tasks, resolve: newResolver(s)}
}

func (s *EventService) CreateEvent(ctx context.Context, caller *models.User, in CreateEventInput) (*models.EventView, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" || strings.TrimSpace(in.Date) == "" {
		return nil, invalid("title and date are required")
	}
	date, err := models.ParseDate(strings.TrimSpace(in.Date))
	if err != nil {
		return nil, invalid("invalid date")
	}
	event := &models.Event{
		Title:       title,
		Date:        date,
		Description: strings.TrimSpace(in.Description),
		SendAlert:   in.SendAlert,
		CreatedBy:   caller.ID,
	}
	if in.ProjectID != "" {
		id, err := parseID(in.ProjectID, "project id")
		if err != nil {
			return nil, err
		}
		if _, err := s.projects.FindByID(ctx, id); err != nil {
			return nil, lookupErr(err, "project")
		}
		event.ProjectID = &id
	}
	if in.TaskID != "" {
		id, err := parseID(in.TaskID, "task id")
		if err != nil {
			return nil, err
		}
		if _, err := s.tasks.FindByID(ctx, id); err != nil {
			return nil, lookupErr(err, "task")
		}
		event.TaskID = &id
	}
	if err := s.events.Create(ctx, event); err != nil {
		return nil, internal("failed to create event", err)
	}
	views, err := s.resolve.events(ctx, []models.Event{*event})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// ListEvents returns stored events merged with a virtual deadline event for
// every project that has a deadline, ordered by date and then newest first.
func (s *EventService) ListEvents(ctx context.Context) ([]models.EventView, error) {
	events, err := s.events.List(ctx)
	if err != nil {
		return nil, internal("failed to load events", err)
	}
	views, err := s.resolve.events(ctx, events)
	if err != nil {
		return nil, err
	}

	projects, err := s.projects.List(ctx, repositories.ProjectFilter{WithDeadline: true})
	if err != nil {
		return nil, internal("failed to load projects", err)
	}
	creators, err := s.resolve.userMap(ctx, projectCreators(projects))
	if err != nil {
		return nil, err
	}
	for _, p := range projects {
		if p.Deadline == nil {
			continue
		}
		projectID := p.ID
		views = append(views, models.EventView{
			Event: models.Event{
				ID:          p.ID,
				Title:       "Deadline: " + p.Name,
				Date:        *p.Deadline,
				Description: p.Description,
				ProjectID:   &projectID,
				CreatedBy:   p.CreatedBy,
				CreatedAt:   p.CreatedAt,
				UpdatedAt:   p.UpdatedAt,
			},
			ProjectID: &models.ProjectRef{ID: p.ID, Name: p.Name},
			CreatedBy: userRef(creators, p.CreatedBy),
			Virtual:   true,
		})
	}

	slices.SortStableFunc(views, func(a, b models.EventView) int {
		if c := a.Date.Compare(b.Date); c != 0 {
			return c
		}
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return views, nil
}

// DeleteEvent is allowed for the event's creator and for admins.
func (s *EventService) DeleteEvent(ctx context.Context, caller *models.User, rawID string) error {
	id, err := parseID(rawID, "event id")
	if err != nil {
		return err
	}
	event, err := s.events.FindByID(ctx, id)
	if err != nil {
		return lookupErr(err, "event")
	}
	if err := Authorize(caller, ActionDelete, EventResource(event)); err != nil {
		return err
	}
	if err := s.events.Delete(ctx, id); err != nil {
		return writeErr(err, "delete", "event")
	}
	logging.Logger.Infof("Event ID: CALENDAR_EVENT_DELETED, Description: Event %s deleted by %s", id.Hex(), caller.ID.Hex())
	return nil
}

func projectCreators(projects []models.Project) []primitive.ObjectID {
	ids := make([]primitive.ObjectID, 0, len(projects))
	for _, p := range projects {
		ids = append(ids, p.CreatedBy)
	}
	return ids
}
