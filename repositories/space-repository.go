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

type SpaceRepository struct {
	collection *mongo.Collection
}

func (r *SpaceRepository) Create(ctx context.Context, space *models.Space) error {
	now := time.Now().UTC()
	if space.ID.IsZero() {
		space.ID = primitive.NewObjectID()
	}
	if space.Members == nil {
		space.Members = []primitive.ObjectID{}
	}
	if space.Amenities == nil {
		space.Amenities = []string{}
	}
	space.CreatedAt, space.UpdatedAt = now, now
	if _, err := r.collection.InsertOne(ctx, space); err != nil {
		return fmt.Errorf("insert space: %w", translate(err))
	}
	return nil
}

func (r *SpaceRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Space, error) {
	var space models.Space
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&space); err != nil {
		return nil, translate(err)
	}
	return &space, nil
}

func (r *SpaceRepository) List(ctx context.Context) ([]models.Space, error) {
	cursor, err := r.collection.Find(ctx, bson.M{}, options.Find().SetSort(newestFirst))
	if err != nil {
		return nil, fmt.Errorf("find spaces: %w", err)
	}
	defer cursor.Close(ctx)

	var spaces []models.Space
	if err := cursor.All(ctx, &spaces); err != nil {
		return nil, fmt.Errorf("decode spaces: %w", err)
	}
	return spaces, nil
}

func (r *SpaceRepository) Update(ctx context.Context, space *models.Space) error {
	space.UpdatedAt = time.Now().UTC()
	if space.Amenities == nil {
		space.Amenities = []string{}
	}
	set := bson.M{
		"name":        space.Name,
		"description": space.Description,
		"type":        space.Type,
		"location":    space.Location,
		"amenities":   space.Amenities,
		"isActive":    space.IsActive,
		"updatedAt":   space.UpdatedAt,
	}
	update := bson.M{"$set": set}
	if space.Capacity != nil {
		set["capacity"] = *space.Capacity
	} else {
		update["$unset"] = bson.M{"capacity": ""}
	}
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": space.ID}, update)
	if err != nil {
		return fmt.Errorf("update space: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *SpaceRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete space: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *SpaceRepository) AddMember(ctx context.Context, id, userID primitive.ObjectID, enforceCapacity bool) (bool, error) {
	return addMember(ctx, r.collection, id, userID, enforceCapacity)
}

func (r *SpaceRepository) RemoveMember(ctx context.Context, id, userID primitive.ObjectID) (bool, error) {
	return removeMember(ctx, r.collection, id, userID)
}
