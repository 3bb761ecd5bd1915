package memory

import (
	"context"
	"slices"

	"github.com/PatrikF1/backend-ProjectPartner/models"
	"github.com/PatrikF1/backend-ProjectPartner/repositories"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type EventRepository struct {
	s *Store
}

func (r *EventRepository) Create(ctx context.Context, event *models.Event) error {
	return r.CreateMany(ctx, []*models.Event{event})
}

func (r *EventRepository) CreateMany(_ context.Context, events []*models.Event) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	t := now()
	for _, event := range events {
		if event.ID.IsZero() {
			event.ID = primitive.NewObjectID()
		}
		event.CreatedAt, event.UpdatedAt = t, t
		r.s.events[event.ID] = cloneEvent(*event)
	}
	return nil
}

func (r *EventRepository) FindByID(_ context.Context, id primitive.ObjectID) (*models.Event, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	event, ok := r.s.events[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	event = cloneEvent(event)
	return &event, nil
}

func (r *EventRepository) List(_ context.Context) ([]models.Event, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	events := collect(r.s.events, nil, cloneEvent)
	slices.SortFunc(events, func(a, b models.Event) int {
		if c := a.Date.Compare(b.Date); c != 0 {
			return c
		}
		return compareNewest(a.CreatedAt, b.CreatedAt, a.ID, b.ID)
	})
	return events, nil
}

func (r *EventRepository) Delete(_ context.Context, id primitive.ObjectID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.events[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(r.s.events, id)
	return nil
}

func (r *EventRepository) DeleteByProject(_ context.Context, projectID primitive.ObjectID) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var n int64
	for id, event := range r.s.events {
		if event.ProjectID != nil && *event.ProjectID == projectID {
			delete(r.s.events, id)
			n++
		}
	}
	return n, nil
}
