package memory

import (
	"context"
	"slices"
	"strings"

	"github.com/PatrikF1/backend-ProjectPartner/models"
	"github.com/PatrikF1/backend-ProjectPartner/repositories"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type UserRepository struct {
	s *Store
}

func (r *UserRepository) Create(_ context.Context, user *models.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, existing := range r.s.users {
		if existing.Email == user.Email {
			return repositories.ErrDuplicateKey
		}
	}
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	t := now()
	user.CreatedAt, user.UpdatedAt = t, t
	r.s.users[user.ID] = *user
	return nil
}

func (r *UserRepository) FindByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	user, ok := r.s.users[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &user, nil
}

func (r *UserRepository) FindByEmail(_ context.Context, email string) (*models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, user := range r.s.users {
		if user.Email == email {
			return &user, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *UserRepository) FindByIDs(_ context.Context, ids []primitive.ObjectID) ([]models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	users := collect(r.s.users, func(u models.User) bool { return slices.Contains(ids, u.ID) }, identity[models.User])
	sortUsers(users)
	return users, nil
}

func (r *UserRepository) List(_ context.Context) ([]models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	users := collect(r.s.users, nil, identity[models.User])
	sortUsers(users)
	return users, nil
}

func (r *UserRepository) UpdateProfileImage(_ context.Context, id primitive.ObjectID, image string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	user, ok := r.s.users[id]
	if !ok {
		return repositories.ErrNotFound
	}
	user.ProfileImage = image
	user.UpdatedAt = now()
	r.s.users[id] = user
	return nil
}

func sortUsers(users []models.User) {
	slices.SortFunc(users, func(a, b models.User) int {
		if c := strings.Compare(a.Name, b.Name); c != 0 {
			return c
		}
		return strings.Compare(a.LastName, b.LastName)
	})
}

func identity[T any](v T) T { return v }
