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

type ApplicationRepository struct {
	collection *mongo.Collection
}

func (r *ApplicationRepository) Create(ctx context.Context, application *models.Application) error {
	now := time.Now().UTC()
	if application.ID.IsZero() {
		application.ID = primitive.NewObjectID()
	}
	application.CreatedAt, application.UpdatedAt = now, now
	if _, err := r.collection.InsertOne(ctx, application); err != nil {
		return fmt.Errorf("insert application: %w", translate(err))
	}
	return nil
}

func (r *ApplicationRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Application, error) {
	var application models.Application
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&application); err != nil {
		return nil, translate(err)
	}
	return &application, nil
}

func (r *ApplicationRepository) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Application, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	return r.find(ctx, bson.M{"_id": bson.M{"$in": ids}})
}

func (r *ApplicationRepository) List(ctx context.Context, filter ApplicationFilter) ([]models.Application, error) {
	query := bson.M{}
	if filter.CreatedBy != nil {
		query["createdBy"] = *filter.CreatedBy
	}
	if filter.ProjectID != nil {
		query["projectId"] = *filter.ProjectID
	}
	return r.find(ctx, query)
}

func (r *ApplicationRepository) UpdateStatus(ctx context.Context, id primitive.ObjectID, status models.ApplicationStatus) error {
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"status":    status,
		"updatedAt": time.Now().UTC(),
	}})
	if err != nil {
		return fmt.Errorf("update application status: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *ApplicationRepository) DeleteByProject(ctx context.Context, projectID primitive.ObjectID) (int64, error) {
	res, err := r.collection.DeleteMany(ctx, bson.M{"projectId": projectID})
	if err != nil {
		return 0, fmt.Errorf("delete applications: %w", err)
	}
	return res.DeletedCount, nil
}

func (r *ApplicationRepository) find(ctx context.Context, filter bson.M) ([]models.Application, error) {
	cursor, err := r.collection.Find(ctx, filter, options.Find().SetSort(newestFirst))
	if err != nil {
		return nil, fmt.Errorf("find applications: %w", err)
	}
	defer cursor.Close(ctx)

	var applications []models.Application
	if err := cursor.All(ctx, &applications); err != nil {
		return nil, fmt.Errorf("decode applications: %w", err)
	}
	return applications, nil
}
