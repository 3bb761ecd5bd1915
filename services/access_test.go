package services

import (
	"testing"

	"github.com/PatrikF1/backend-ProjectPartner/models"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestAuthorize(t *testing.T) {
	owner := &models.User{ID: primitive.NewObjectID()}
	admin := &models.User{ID: primitive.NewObjectID(), IsAdmin: true}
	member := &models.User{ID: primitive.NewObjectID()}
	stranger := &models.User{ID: primitive.NewObjectID()}

	post := &models.Post{CreatedBy: owner.ID}
	event := &models.Event{CreatedBy: owner.ID}
	task := &models.Task{CreatedBy: owner.ID}
	project := &models.Project{Members: []primitive.ObjectID{member.ID}}

	tests := []struct {
		name     string
		actor    *models.User
		resource Resource
		allowed  bool
	}{
		{"post owner", owner, PostResource(post), true},
		{"post admin", admin, PostResource(post), false},
		{"comment stranger", stranger, CommentResource(models.Comment{CreatedBy: owner.ID}), false},
		{"event admin", admin, EventResource(event), true},
		{"event stranger", stranger, EventResource(event), false},
		{"task member", member, TaskResource(task, project), true},
		{"task admin", admin, TaskResource(task, project), true},
		{"task stranger", stranger, TaskResource(task, project), false},
		{"task without project", member, TaskResource(task, nil), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Authorize(tt.actor, ActionDelete, tt.resource)
			if tt.allowed {
				assert.NoError(t, err)
				return
			}
			serr, ok := AsError(err)
			if assert.True(t, ok) {
				assert.Equal(t, ErrCodeForbidden, serr.Code)
			}
		})
	}
}
