package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ProjectType string

const (
	ProjectTypeProject     ProjectType = "project"
	ProjectTypeFeature     ProjectType = "feature"
	ProjectTypeBugFix      ProjectType = "bug/fix"
	ProjectTypeOther       ProjectType = "other"
	ProjectTypeTask        ProjectType = "task"
	ProjectTypeApplication ProjectType = "application"
)

func (t ProjectType) Valid() bool {
	switch t {
	case ProjectTypeProject, ProjectTypeFeature, ProjectTypeBugFix, ProjectTypeOther, ProjectTypeTask, ProjectTypeApplication:
		return true
	}
	return false
}

const (
	MaxProjectNameLength        = 100
	MaxProjectDescriptionLength = 500
	MinCapacity                 = 1
	MaxCapacity                 = 100
)

type Project struct {
	ID          primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Name        string               `bson:"name" json:"name"`
	Description string               `bson:"description" json:"description"`
	Type        ProjectType          `bson:"type" json:"type"`
	Capacity    *int                 `bson:"capacity,omitempty" json:"capacity,omitempty"`
	Deadline    *time.Time           `bson:"deadline,omitempty" json:"deadline,omitempty"`
	IsActive    bool                 `bson:"isActive" json:"isActive"`
	CreatedBy   primitive.ObjectID   `bson:"createdBy" json:"createdBy"`
	Members     []primitive.ObjectID `bson:"members" json:"members"`
	CreatedAt   time.Time            `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time            `bson:"updatedAt" json:"updatedAt"`
}

func (p *Project) HasMember(userID primitive.ObjectID) bool {
	return containsID(p.Members, userID)
}

// IsFull reports whether a capacity is set and already reached.
func (p *Project) IsFull() bool {
	return p.Capacity != nil && len(p.Members) >= *p.Capacity
}

// ProjectView is a project with its user references resolved.
type ProjectView struct {
	Project
	CreatedBy *UserSummary  `json:"createdBy"`
	Members   []UserSummary `json:"members"`
}

// ProjectRef is the populated form of a project reference.
type ProjectRef struct {
	ID   primitive.ObjectID `json:"id"`
	Name string             `json:"name"`
}

func containsID(ids []primitive.ObjectID, id primitive.ObjectID) bool {
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}
