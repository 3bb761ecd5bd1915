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

var newestFirst = bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}

type ProjectRepository struct {
	collection *mongo.Collection
}

func (r *ProjectRepository) Create(ctx context.Context, project *models.Project) error {
	now := time.Now().UTC()
	if project.ID.IsZero() {
		project.ID = primitive.NewObjectID()
	}
	if project.Members == nil {
		project.Members = []primitive.ObjectID{}
	}
	project.CreatedAt, project.UpdatedAt = now, now
	if _, err := r.collection.InsertOne(ctx, project); err != nil {
		return fmt.Errorf("insert project: %w", translate(err))
	}
	return nil
}

func (r *ProjectRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Project, error) {
	var project models.Project
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&project); err != nil {
		return nil, translate(err)
	}
	return &project, nil
}

func (r *ProjectRepository) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Project, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	return r.find(ctx, bson.M{"_id": bson.M{"$in": ids}})
}

func (r *ProjectRepository) List(ctx context.Context, filter ProjectFilter) ([]models.Project, error) {
	query := bson.M{}
	if filter.MemberID != nil {
		query["members"] = *filter.MemberID
	}
	if filter.WithDeadline {
		query["deadline"] = bson.M{"$ne": nil}
	}
	return r.find(ctx, query)
}

func (r *ProjectRepository) Update(ctx context.Context, project *models.Project) error {
	project.UpdatedAt = time.Now().UTC()
	set := bson.M{
		"name":        project.Name,
		"description": project.Description,
		"type":        project.Type,
		"isActive":    project.IsActive,
		"updatedAt":   project.UpdatedAt,
	}
	unset := bson.M{}
	if project.Capacity != nil {
		set["capacity"] = *project.Capacity
	} else {
		unset["capacity"] = ""
	}
	if project.Deadline != nil {
		set["deadline"] = *project.Deadline
	} else {
		unset["deadline"] = ""
	}
	update := bson.M{"$set": set}
	if len(unset) > 0 {
		update["$unset"] = unset
	}
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": project.ID}, update)
	if err != nil {
		return fmt.Errorf("update project: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// AddMember appends userID unless it is already a member. With enforceCapacity
// the store also refuses when a capacity is set and reached, so two concurrent
// joins cannot both take the last seat. It reports whether the member was added.
func (r *ProjectRepository) AddMember(ctx context.Context, id, userID primitive.ObjectID, enforceCapacity bool) (bool, error) {
	return addMember(ctx, r.collection, id, userID, enforceCapacity)
}

// RemoveMember pulls userID and reports whether it was a member.
func (r *ProjectRepository) RemoveMember(ctx context.Context, id, userID primitive.ObjectID) (bool, error) {
	return removeMember(ctx, r.collection, id, userID)
}

func (r *ProjectRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete project: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *ProjectRepository) find(ctx context.Context, filter bson.M) ([]models.Project, error) {
	cursor, err := r.collection.Find(ctx, filter, options.Find().SetSort(newestFirst))
	if err != nil {
		return nil, fmt.Errorf("find projects: %w", err)
	}
	defer cursor.Close(ctx)

	var projects []models.Project
	if err := cursor.All(ctx, &projects); err != nil {
		return nil, fmt.Errorf("decode projects: %w", err)
	}
	return projects, nil
}

func addMember(ctx context.Context, collection *mongo.Collection, id, userID primitive.ObjectID, enforceCapacity bool) (bool, error) {
	filter := bson.M{
		"_id":     id,
		"members": bson.M{"$ne": userID},
	}
	if enforceCapacity {
		filter["$or"] = bson.A{
			bson.M{"capacity": bson.M{"$exists": false}},
			bson.M{"capacity": nil},
			bson.M{"$expr": bson.M{"$lt": bson.A{bson.M{"$size": "$members"}, "$capacity"}}},
		}
	}
	update := bson.M{
		"$push": bson.M{"members": userID},
		"$set":  bson.M{"updatedAt": time.Now().UTC()},
	}
	res, err := collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, fmt.Errorf("add member: %w", err)
	}
	return res.ModifiedCount == 1, nil
}

func removeMember(ctx context.Context, collection *mongo.Collection, id, userID primitive.ObjectID) (bool, error) {
	res, err := collection.UpdateOne(ctx,
		bson.M{"_id": id, "members": userID},
		bson.M{
			"$pull": bson.M{"members": userID},
			"$set":  bson.M{"updatedAt": time.Now().UTC()},
		})
	if err != nil {
		return false, fmt.Errorf("remove member: %w", err)
	}
	return res.ModifiedCount == 1, nil
}
