package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Event struct {
	ID          primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Title       string              `bson:"title" json:"title"`
	Date        time.Time           `bson:"date" json:"date"`
	Description string              `bson:"description" json:"description"`
	SendAlert   bool                `bson:"sendAlert" json:"sendAlert"`
	ProjectID   *primitive.ObjectID `bson:"projectId,omitempty" json:"projectId"`
	TaskID      *primitive.ObjectID `bson:"taskId,omitempty" json:"taskId"`
	CreatedBy   primitive.ObjectID  `bson:"createdBy" json:"createdBy"`
	CreatedAt   time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time           `bson:"updatedAt" json:"updatedAt"`
}

// EventView is what the calendar returns. Virtual events are synthesized from
// project deadlines at read time and have no stored document.
type EventView struct {
	Event
	ProjectID *ProjectRef  `json:"projectId"`
	CreatedBy *UserSummary `json:"createdBy"`
	Virtual   bool         `json:"virtual,omitempty"`
}
