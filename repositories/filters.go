package repositories

import "go.mongodb.org/mongo-driver/bson/primitive"

type ProjectFilter struct {
	MemberID     *primitive.ObjectID
	WithDeadline bool
}

type ApplicationFilter struct {
	CreatedBy *primitive.ObjectID
	ProjectID *primitive.ObjectID
}

type TaskFilter struct {
	ProjectIDs      []primitive.ObjectID
	ProjectID       *primitive.ObjectID
	ApplicationID   *primitive.ObjectID
	CreatedBy       *primitive.ObjectID
	ExcludeArchived bool
}
