package memory

import (
	"context"
	"slices"

	"github.com/PatrikF1/backend-ProjectPartner/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type LinkRepository struct {
	s *Store
}

func (r *LinkRepository) Create(_ context.Context, link *models.RepositoryLink) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if link.ID.IsZero() {
		link.ID = primitive.NewObjectID()
	}
	t := now()
	link.CreatedAt, link.UpdatedAt = t, t
	r.s.links[link.ID] = cloneLink(*link)
	return nil
}

func (r *LinkRepository) List(_ context.Context) ([]models.RepositoryLink, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	links := collect(r.s.links, nil, cloneLink)
	slices.SortFunc(links, func(a, b models.RepositoryLink) int { return compareNewest(a.CreatedAt, b.CreatedAt, a.ID, b.ID) })
	return links, nil
}
