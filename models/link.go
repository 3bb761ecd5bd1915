package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const MaxGithubURLLength = 200

// RepositoryLink is a shared source repository URL with the users working on it.
type RepositoryLink struct {
	ID        primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	GithubURL string               `bson:"githubUrl" json:"githubUrl"`
	CreatedBy primitive.ObjectID   `bson:"createdBy" json:"createdBy"`
	Members   []primitive.ObjectID `bson:"members" json:"members"`
	CreatedAt time.Time            `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time            `bson:"updatedAt" json:"updatedAt"`
}

type RepositoryLinkView struct {
	RepositoryLink
	CreatedBy *UserSummary  `json:"createdBy"`
	Members   []UserSummary `json:"members"`
}
