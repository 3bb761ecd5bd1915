package memory

import (
	"context"
	"slices"

	"github.com/PatrikF1/backend-ProjectPartner/models"
	"github.com/PatrikF1/backend-ProjectPartner/repositories"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ProjectRepository struct {
	s *Store
}

func (r *ProjectRepository) Create(_ context.Context, project *models.Project) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if project.ID.IsZero() {
		project.ID = primitive.NewObjectID()
	}
	if project.Members == nil {
		project.Members = []primitive.ObjectID{}
	}
	t := now()
	project.CreatedAt, project.UpdatedAt = t, t
	r.s.projects[project.ID] = cloneProject(*project)
	return nil
}

func (r *ProjectRepository) FindByID(_ context.Context, id primitive.ObjectID) (*models.Project, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	project, ok := r.s.projects[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	project = cloneProject(project)
	return &project, nil
}

func (r *ProjectRepository) FindByIDs(_ context.Context, ids []primitive.ObjectID) ([]models.Project, error) {
	return r.list(func(p models.Project) bool { return slices.Contains(ids, p.ID) }), nil
}

func (r *ProjectRepository) List(_ context.Context, filter repositories.ProjectFilter) ([]models.Project, error) {
	return r.list(func(p models.Project) bool {
		if filter.MemberID != nil && !p.HasMember(*filter.MemberID) {
			return false
		}
		if filter.WithDeadline && p.Deadline == nil {
			return false
		}
		return true
	}), nil
}

func (r *ProjectRepository) Update(_ context.Context, project *models.Project) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	stored, ok := r.s.projects[project.ID]
	if !ok {
		return repositories.ErrNotFound
	}
	project.UpdatedAt = now()
	stored.Name = project.Name
	stored.Description = project.Description
	stored.Type = project.Type
	stored.IsActive = project.IsActive
	stored.Capacity = cloneInt(project.Capacity)
	stored.Deadline = cloneTime(project.Deadline)
	stored.UpdatedAt = project.UpdatedAt
	r.s.projects[project.ID] = stored
	return nil
}

func (r *ProjectRepository) AddMember(_ context.Context, id, userID primitive.ObjectID, enforceCapacity bool) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	project, ok := r.s.projects[id]
	if !ok || project.HasMember(userID) || (enforceCapacity && project.IsFull()) {
		return false, nil
	}
	project.Members = append(cloneIDs(project.Members), userID)
	project.UpdatedAt = now()
	r.s.projects[id] = project
	return true, nil
}

func (r *ProjectRepository) RemoveMember(_ context.Context, id, userID primitive.ObjectID) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	project, ok := r.s.projects[id]
	if !ok || !project.HasMember(userID) {
		return false, nil
	}
	project.Members = slices.DeleteFunc(cloneIDs(project.Members), func(m primitive.ObjectID) bool { return m == userID })
	project.UpdatedAt = now()
	r.s.projects[id] = project
	return true, nil
}

func (r *ProjectRepository) Delete(_ context.Context, id primitive.ObjectID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.projects[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(r.s.projects, id)
	return nil
}

func (r *ProjectRepository) list(keep func(models.Project) bool) []models.Project {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	projects := collect(r.s.projects, keep, cloneProject)
	slices.SortFunc(projects, func(a, b models.Project) int { return compareNewest(a.CreatedAt, b.CreatedAt, a.ID, b.ID) })
	return projects
}
