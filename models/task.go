package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type TaskStatus string

const (
	StatusNotStarted TaskStatus = "not-started"
	StatusInProgress TaskStatus = "in-progress"
	StatusCompleted  TaskStatus = "completed"
)

func (s TaskStatus) Valid() bool {
	switch s {
	case StatusNotStarted, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

type TaskPriority string

const (
	PriorityLow    TaskPriority = "low"
	PriorityMedium TaskPriority = "medium"
	PriorityHigh   TaskPriority = "high"
)

func (p TaskPriority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

type Task struct {
	ID            primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	ProjectID     primitive.ObjectID  `bson:"projectId" json:"projectId"`
	ApplicationID *primitive.ObjectID `bson:"applicationId,omitempty" json:"applicationId"`
	Name          string              `bson:"name" json:"name"`
	Description   string              `bson:"description" json:"description"`
	Status        TaskStatus          `bson:"status" json:"status"`
	Priority      TaskPriority        `bson:"priority" json:"priority"`
	Deadline      *time.Time          `bson:"deadline,omitempty" json:"deadline"`
	IsArchived    bool                `bson:"isArchived" json:"isArchived"`
	ArchivedAt    *time.Time          `bson:"archivedAt,omitempty" json:"archivedAt,omitempty"`
	CreatedBy     primitive.ObjectID  `bson:"createdBy" json:"createdBy"`
	CreatedAt     time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time           `bson:"updatedAt" json:"updatedAt"`
}

type TaskView struct {
	Task
	ProjectID     *ProjectRef     `json:"projectId"`
	ApplicationID *ApplicationRef `json:"applicationId"`
	CreatedBy     *UserSummary    `json:"createdBy"`
}
