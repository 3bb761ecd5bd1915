package memory

import (
	"context"
	"slices"

	"github.com/PatrikF1/backend-ProjectPartner/models"
	"github.com/PatrikF1/backend-ProjectPartner/repositories"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type SpaceRepository struct {
	s *Store
}

func (r *SpaceRepository) Create(_ context.Context, space *models.Space) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if space.ID.IsZero() {
		space.ID = primitive.NewObjectID()
	}
	if space.Members == nil {
		space.Members = []primitive.ObjectID{}
	}
	if space.Amenities == nil {
		space.Amenities = []string{}
	}
	t := now()
	space.CreatedAt, space.UpdatedAt = t, t
	r.s.spaces[space.ID] = cloneSpace(*space)
	return nil
}

func (r *SpaceRepository) FindByID(_ context.Context, id primitive.ObjectID) (*models.Space, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	space, ok := r.s.spaces[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	space = cloneSpace(space)
	return &space, nil
}

func (r *SpaceRepository) List(_ context.Context) ([]models.Space, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	spaces := collect(r.s.spaces, nil, cloneSpace)
	slices.SortFunc(spaces, func(a, b models.Space) int { return compareNewest(a.CreatedAt, b.CreatedAt, a.ID, b.ID) })
	return spaces, nil
}

func (r *SpaceRepository) Update(_ context.Context, space *models.Space) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	stored, ok := r.s.spaces[space.ID]
	if !ok {
		return repositories.ErrNotFound
	}
	space.UpdatedAt = now()
	stored.Name = space.Name
	stored.Description = space.Description
	stored.Type = space.Type
	stored.Capacity = cloneInt(space.Capacity)
	stored.Location = space.Location
	stored.Amenities = slices.Clone(space.Amenities)
	stored.IsActive = space.IsActive
	stored.UpdatedAt = space.UpdatedAt
	r.s.spaces[space.ID] = stored
	return nil
}

func (r *SpaceRepository) Delete(_ context.Context, id primitive.ObjectID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.spaces[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(r.s.spaces, id)
	return nil
}

func (r *SpaceRepository) AddMember(_ context.Context, id, userID primitive.ObjectID, enforceCapacity bool) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	space, ok := r.s.spaces[id]
	if !ok || space.HasMember(userID) || (enforceCapacity && space.IsFull()) {
		return false, nil
	}
	space.Members = append(cloneIDs(space.Members), userID)
	space.UpdatedAt = now()
	r.s.spaces[id] = space
	return true, nil
}

func (r *SpaceRepository) RemoveMember(_ context.Context, id, userID primitive.ObjectID) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	space, ok := r.s.spaces[id]
	if !ok || !space.HasMember(userID) {
		return false, nil
	}
	space.Members = slices.DeleteFunc(cloneIDs(space.Members), func(m primitive.ObjectID) bool { return m == userID })
	space.UpdatedAt = now()
	r.s.spaces[id] = space
	return true, nil
}
