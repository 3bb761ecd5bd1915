package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/PatrikF1/backend-ProjectPartner/logging"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	usersCollection        = "users"
	projectsCollection     = "projects"
	applicationsCollection = "applications"
	tasksCollection        = "tasks"
	eventsCollection       = "events"
	postsCollection        = "posts"
	spacesCollection       = "spaces"
	linksCollection        = "githubs"
)

// Store owns the MongoDB client for the lifetime of the process. Repositories
// are handed collections from it; nothing else opens connections.
type Store struct {
	client       *mongo.Client
	db           *mongo.Database
	transactions bool
}

func Connect(ctx context.Context, uri, dbName string, transactions bool) (*Store, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect to mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}
	logging.Logger.Infof("Event ID: DB_CONNECTED, Description: Connected to MongoDB database %s", dbName)

	return &Store{
		client:       client,
		db:           client.Database(dbName),
		transactions: transactions,
	}, nil
}

func (s *Store) Close(ctx context.Context) error {
	if err := s.client.Disconnect(ctx); err != nil {
		return fmt.Errorf("disconnect mongo: %w", err)
	}
	logging.Logger.Info("Event ID: DB_DISCONNECTED, Description: MongoDB client disconnected")
	return nil
}

// EnsureIndexes creates the indexes the repositories rely on. Creating an
// existing index is a no-op in MongoDB.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	indexes := map[string][]mongo.IndexModel{
		usersCollection: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		projectsCollection: {
			{Keys: bson.D{{Key: "members", Value: 1}}},
			{Keys: bson.D{{Key: "createdAt", Value: -1}}},
		},
		applicationsCollection: {
			{Keys: bson.D{{Key: "projectId", Value: 1}}},
			{Keys: bson.D{{Key: "createdBy", Value: 1}, {Key: "createdAt", Value: -1}}},
		},
		tasksCollection: {
			{Keys: bson.D{{Key: "projectId", Value: 1}, {Key: "isArchived", Value: 1}}},
			{Keys: bson.D{{Key: "createdBy", Value: 1}}},
		},
		eventsCollection: {
			{Keys: bson.D{{Key: "date", Value: 1}, {Key: "createdAt", Value: -1}}},
			{Keys: bson.D{{Key: "projectId", Value: 1}}},
		},
	}
	for name, idx := range indexes {
		if _, err := s.db.Collection(name).Indexes().CreateMany(ctx, idx); err != nil {
			return fmt.Errorf("create indexes on %s: %w", name, err)
		}
	}
	logging.Logger.Info("Event ID: DB_INDEXES_READY, Description: MongoDB indexes ensured")
	return nil
}

// WithTransaction runs fn inside a session transaction. The context passed to
// fn must be used for every repository call that belongs to the transaction.
// With transactions disabled (standalone servers) fn runs directly.
func (s *Store) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if !s.transactions {
		return fn(ctx)
	}
	session, err := s.client.StartSession()
	if err != nil {
		return fmt.Errorf("start session: %w", err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	return err
}

func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, nil)
}

func (s *Store) Users() *UserRepository {
	return &UserRepository{collection: s.db.Collection(usersCollection)}
}

func (s *Store) Projects() *ProjectRepository {
	return &ProjectRepository{collection: s.db.Collection(projectsCollection)}
}

func (s *Store) Applications() *ApplicationRepository {
	return &ApplicationRepository{collection: s.db.Collection(applicationsCollection)}
}

func (s *Store) Tasks() *TaskRepository {
	return &TaskRepository{collection: s.db.Collection(tasksCollection)}
}

func (s *Store) Events() *EventRepository {
	return &EventRepository{collection: s.db.Collection(eventsCollection)}
}

func (s *Store) Posts() *PostRepository {
	return &PostRepository{collection: s.db.Collection(postsCollection)}
}

func (s *Store) Spaces() *SpaceRepository {
	return &SpaceRepository{collection: s.db.Collection(spacesCollection)}
}

func (s *Store) Links() *LinkRepository {
	return &LinkRepository{collection: s.db.Collection(linksCollection)}
}
