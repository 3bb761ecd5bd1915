package services

import (
	"context"

	"github.com/PatrikF1/backend-ProjectPartner/models"
	"github.com/PatrikF1/backend-ProjectPartner/repositories"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// The store interfaces below are satisfied by both the MongoDB repositories
// and repositories/memory.

type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.User, error)
	List(ctx context.Context) ([]models.User, error)
	UpdateProfileImage(ctx context.Context, id primitive.ObjectID, image string) error
}

type memberStore interface {
	AddMember(ctx context.Context, id, userID primitive.ObjectID, enforceCapacity bool) (bool, error)
	RemoveMember(ctx context.Context, id, userID primitive.ObjectID) (bool, error)
}

type ProjectStore interface {
	memberStore
	Create(ctx context.Context, project *models.Project) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Project, error)
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Project, error)
	List(ctx context.Context, filter repositories.ProjectFilter) ([]models.Project, error)
	Update(ctx context.Context, project *models.Project) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type ApplicationStore interface {
	Create(ctx context.Context, application *models.Application) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Application, error)
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Application, error)
	List(ctx context.Context, filter repositories.ApplicationFilter) ([]models.Application, error)
	UpdateStatus(ctx context.Context, id primitive.ObjectID, status models.ApplicationStatus) error
	DeleteByProject(ctx context.Context, projectID primitive.ObjectID) (int64, error)
}

type TaskStore interface {
	Create(ctx context.Context, task *models.Task) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Task, error)
	List(ctx context.Context, filter repositories.TaskFilter) ([]models.Task, error)
	Update(ctx context.Context, task *models.Task) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	DeleteByProject(ctx context.Context, projectID primitive.ObjectID) (int64, error)
}

type EventStore interface {
	Create(ctx context.Context, event *models.Event) error
	CreateMany(ctx context.Context, events []*models.Event) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Event, error)
	List(ctx context.Context) ([]models.Event, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	DeleteByProject(ctx context.Context, projectID primitive.ObjectID) (int64, error)
}

type PostStore interface {
	Create(ctx context.Context, post *models.Post) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Post, error)
	List(ctx context.Context) ([]models.Post, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	AddComment(ctx context.Context, postID primitive.ObjectID, comment *models.Comment) error
	RemoveComment(ctx context.Context, postID, commentID primitive.ObjectID) error
}

type SpaceStore interface {
	memberStore
	Create(ctx context.Context, space *models.Space) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Space, error)
	List(ctx context.Context) ([]models.Space, error)
	Update(ctx context.Context, space *models.Space) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type LinkStore interface {
	Create(ctx context.Context, link *models.RepositoryLink) error
	List(ctx context.Context) ([]models.RepositoryLink, error)
}

// Transactor runs fn atomically. Repository calls inside fn must use the
// context fn receives.
type Transactor interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// Stores groups everything the services need from the persistence layer.
type Stores struct {
	Users        UserStore
	Projects     ProjectStore
	Applications ApplicationStore
	Tasks        TaskStore
	Events       EventStore
	Posts        PostStore
	Spaces       SpaceStore
	Links        LinkStore
	Tx           Transactor
}
