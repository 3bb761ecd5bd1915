package memory

import (
	"context"
	"slices"

	"github.com/PatrikF1/backend-ProjectPartner/models"
	"github.com/PatrikF1/backend-ProjectPartner/repositories"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ApplicationRepository struct {
	s *Store
}

func (r *ApplicationRepository) Create(_ context.Context, application *models.Application) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if application.ID.IsZero() {
		application.ID = primitive.NewObjectID()
	}
	t := now()
	application.CreatedAt, application.UpdatedAt = t, t
	r.s.applications[application.ID] = *application
	return nil
}

func (r *ApplicationRepository) FindByID(_ context.Context, id primitive.ObjectID) (*models.Application, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	application, ok := r.s.applications[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &application, nil
}

func (r *ApplicationRepository) FindByIDs(_ context.Context, ids []primitive.ObjectID) ([]models.Application, error) {
	return r.list(func(a models.Application) bool { return slices.Contains(ids, a.ID) }), nil
}

func (r *ApplicationRepository) List(_ context.Context, filter repositories.ApplicationFilter) ([]models.Application, error) {
	return r.list(func(a models.Application) bool {
		if filter.CreatedBy != nil && a.CreatedBy != *filter.CreatedBy {
			return false
		}
		if filter.ProjectID != nil && a.ProjectID != *filter.ProjectID {
			return false
		}
		return true
	}), nil
}

func (r *ApplicationRepository) UpdateStatus(_ context.Context, id primitive.ObjectID, status models.ApplicationStatus) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	application, ok := r.s.applications[id]
	if !ok {
		return repositories.ErrNotFound
	}
	application.Status = status
	application.UpdatedAt = now()
	r.s.applications[id] = application
	return nil
}

func (r *ApplicationRepository) DeleteByProject(_ context.Context, projectID primitive.ObjectID) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var n int64
	for id, application := range r.s.applications {
		if application.ProjectID == projectID {
			delete(r.s.applications, id)
			n++
		}
	}
	return n, nil
}

func (r *ApplicationRepository) list(keep func(models.Application) bool) []models.Application {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	applications := collect(r.s.applications, keep, identity[models.Application])
	slices.SortFunc(applications, func(a, b models.Application) int { return compareNewest(a.CreatedAt, b.CreatedAt, a.ID, b.ID) })
	return applications
}
