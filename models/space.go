package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type SpaceType string

const (
	SpaceWorkspace    SpaceType = "workspace"
	SpaceProjectSpace SpaceType = "project-space"
	SpaceTeamSpace    SpaceType = "team-space"
	SpaceMeetingRoom  SpaceType = "meeting-room"
)

func (t SpaceType) Valid() bool {
	switch t {
	case SpaceWorkspace, SpaceProjectSpace, SpaceTeamSpace, SpaceMeetingRoom:
		return true
	}
	return false
}

type Space struct {
	ID          primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Name        string               `bson:"name" json:"name"`
	Description string               `bson:"description" json:"description"`
	Type        SpaceType            `bson:"type" json:"type"`
	Capacity    *int                 `bson:"capacity,omitempty" json:"capacity,omitempty"`
	Location    string               `bson:"location,omitempty" json:"location,omitempty"`
	Amenities   []string             `bson:"amenities" json:"amenities"`
	IsActive    bool                 `bson:"isActive" json:"isActive"`
	CreatedBy   primitive.ObjectID   `bson:"createdBy" json:"createdBy"`
	Members     []primitive.ObjectID `bson:"members" json:"members"`
	CreatedAt   time.Time            `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time            `bson:"updatedAt" json:"updatedAt"`
}

func (s *Space) HasMember(userID primitive.ObjectID) bool {
	return containsID(s.Members, userID)
}

func (s *Space) IsFull() bool {
	return s.Capacity != nil && len(s.Members) >= *s.Capacity
}

type SpaceView struct {
	Space
	CreatedBy *UserSummary  `json:"createdBy"`
	Members   []UserSummary `json:"members"`
}
