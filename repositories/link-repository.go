package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/PatrikF1/backend-ProjectPartner/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type LinkRepository struct {
	collection *mongo.Collection
}

func (r *LinkRepository) Create(ctx context.Context, link *models.RepositoryLink) error {
	now := time.Now().UTC()
	if link.ID.IsZero() {
		link.ID = primitive.NewObjectID()
	}
	link.CreatedAt, link.UpdatedAt = now, now
	if _, err := r.collection.InsertOne(ctx, link); err != nil {
		return fmt.Errorf("insert repository link: %w", translate(err))
	}
	return nil
}

func (r *LinkRepository) List(ctx context.Context) ([]models.RepositoryLink, error) {
	cursor, err := r.collection.Find(ctx, bson.M{}, options.Find().SetSort(newestFirst))
	if err != nil {
		return nil, fmt.Errorf("find repository links: %w", err)
	}
	defer cursor.Close(ctx)

	var links []models.RepositoryLink
	if err := cursor.All(ctx, &links); err != nil {
		return nil, fmt.Errorf("decode repository links: %w", err)
	}
	return links, nil
}
