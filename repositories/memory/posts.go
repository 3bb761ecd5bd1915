package memory

import (
	"context"
	"slices"

	"github.com/PatrikF1/backend-ProjectPartner/models"
	"github.com/PatrikF1/backend-ProjectPartner/repositories"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type PostRepository struct {
	s *Store
}

func (r *PostRepository) Create(_ context.Context, post *models.Post) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if post.ID.IsZero() {
		post.ID = primitive.NewObjectID()
	}
	if post.Comments == nil {
		post.Comments = []models.Comment{}
	}
	t := now()
	post.CreatedAt, post.UpdatedAt = t, t
	r.s.posts[post.ID] = clonePost(*post)
	return nil
}

func (r *PostRepository) FindByID(_ context.Context, id primitive.ObjectID) (*models.Post, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	post, ok := r.s.posts[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	post = clonePost(post)
	return &post, nil
}

func (r *PostRepository) List(_ context.Context) ([]models.Post, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	posts := collect(r.s.posts, nil, clonePost)
	slices.SortFunc(posts, func(a, b models.Post) int { return compareNewest(a.CreatedAt, b.CreatedAt, a.ID, b.ID) })
	return posts, nil
}

func (r *PostRepository) Delete(_ context.Context, id primitive.ObjectID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.posts[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(r.s.posts, id)
	return nil
}

func (r *PostRepository) AddComment(_ context.Context, postID primitive.ObjectID, comment *models.Comment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	post, ok := r.s.posts[postID]
	if !ok {
		return repositories.ErrNotFound
	}
	if comment.ID.IsZero() {
		comment.ID = primitive.NewObjectID()
	}
	t := now()
	comment.CreatedAt, comment.UpdatedAt = t, t
	post = clonePost(post)
	post.Comments = append(post.Comments, *comment)
	post.UpdatedAt = t
	r.s.posts[postID] = post
	return nil
}

func (r *PostRepository) RemoveComment(_ context.Context, postID, commentID primitive.ObjectID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	post, ok := r.s.posts[postID]
	if !ok {
		return repositories.ErrNotFound
	}
	if _, found := post.FindComment(commentID); !found {
		return repositories.ErrNotFound
	}
	post = clonePost(post)
	post.Comments = slices.DeleteFunc(post.Comments, func(c models.Comment) bool { return c.ID == commentID })
	post.UpdatedAt = now()
	r.s.posts[postID] = post
	return nil
}
