package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ApplicationStatus string

const (
	ApplicationPending  ApplicationStatus = "pending"
	ApplicationApproved ApplicationStatus = "approved"
	ApplicationRejected ApplicationStatus = "rejected"
)

type Application struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ProjectID   primitive.ObjectID `bson:"projectId" json:"projectId"`
	Idea        string             `bson:"idea" json:"idea"`
	Description string             `bson:"description" json:"description"`
	Status      ApplicationStatus  `bson:"status" json:"status"`
	CreatedBy   primitive.ObjectID `bson:"createdBy" json:"createdBy"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}

type ApplicationView struct {
	Application
	ProjectID *ProjectRef  `json:"projectId"`
	CreatedBy *UserSummary `json:"createdBy"`
}

// ApplicationRef is the populated form of an application reference.
type ApplicationRef struct {
	ID   primitive.ObjectID `json:"id"`
	Idea string             `json:"idea"`
}
