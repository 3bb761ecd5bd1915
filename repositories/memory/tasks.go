package memory

import (
	"context"
	"slices"

	"github.com/PatrikF1/backend-ProjectPartner/models"
	"github.com/PatrikF1/backend-ProjectPartner/repositories"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type TaskRepository struct {
	s *Store
}

func (r *TaskRepository) Create(_ context.Context, task *models.Task) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if task.ID.IsZero() {
		task.ID = primitive.NewObjectID()
	}
	t := now()
	task.CreatedAt, task.UpdatedAt = t, t
	r.s.tasks[task.ID] = cloneTask(*task)
	return nil
}

func (r *TaskRepository) FindByID(_ context.Context, id primitive.ObjectID) (*models.Task, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	task, ok := r.s.tasks[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	task = cloneTask(task)
	return &task, nil
}

func (r *TaskRepository) List(_ context.Context, filter repositories.TaskFilter) ([]models.Task, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	tasks := collect(r.s.tasks, func(t models.Task) bool {
		if filter.ProjectIDs != nil && !slices.Contains(filter.ProjectIDs, t.ProjectID) {
			return false
		}
		if filter.ProjectID != nil && t.ProjectID != *filter.ProjectID {
			return false
		}
		if filter.ApplicationID != nil && (t.ApplicationID == nil || *t.ApplicationID != *filter.ApplicationID) {
			return false
		}
		if filter.CreatedBy != nil && t.CreatedBy != *filter.CreatedBy {
			return false
		}
		if filter.ExcludeArchived && t.IsArchived {
			return false
		}
		return true
	}, cloneTask)
	slices.SortFunc(tasks, func(a, b models.Task) int { return compareNewest(a.CreatedAt, b.CreatedAt, a.ID, b.ID) })
	return tasks, nil
}

func (r *TaskRepository) Update(_ context.Context, task *models.Task) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.tasks[task.ID]; !ok {
		return repositories.ErrNotFound
	}
	task.UpdatedAt = now()
	r.s.tasks[task.ID] = cloneTask(*task)
	return nil
}

func (r *TaskRepository) Delete(_ context.Context, id primitive.ObjectID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.tasks[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(r.s.tasks, id)
	return nil
}

func (r *TaskRepository) DeleteByProject(_ context.Context, projectID primitive.ObjectID) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var n int64
	for id, task := range r.s.tasks {
		if task.ProjectID == projectID {
			delete(r.s.tasks, id)
			n++
		}
	}
	return n, nil
}
