package services

import (
	"github.com/PatrikF1/backend-ProjectPartner/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Action string

const (
	ActionUpdate  Action = "update"
	ActionDelete  Action = "delete"
	ActionArchive Action = "archive"
)

// Resource is anything with an owner that a caller may try to change.
type Resource interface {
	Kind() string
	OwnerID() primitive.ObjectID
}

// grant lists who besides the owner may act on a resource kind.
type grant struct {
	admin   bool
	members bool
}

var policy = map[string]grant{
	"post":    {},
	"comment": {},
	"event":   {admin: true},
	"task":    {admin: true, members: true},
}

type postResource struct{ post *models.Post }

func (r postResource) Kind() string { return "post" }
func (r postResource) OwnerID() primitive.ObjectID { return r.post.CreatedBy }

type commentResource struct{ comment models.Comment }

func (r commentResource) Kind() string { return "comment" }
func (r commentResource) OwnerID() primitive.ObjectID { return r.comment.CreatedBy }

type eventResource struct{ event *models.Event }

func (r eventResource) Kind() string { return "event" }
func (r eventResource) OwnerID() primitive.ObjectID { return r.event.CreatedBy }

// taskResource carries the owning project so project members can be granted.
// project is nil when it no longer exists.
type taskResource struct {
	task    *models.Task
	project *models.Project
}

func (r taskResource) Kind() string { return "task" }
func (r taskResource) OwnerID() primitive.ObjectID { return r.task.CreatedBy }

func (r taskResource) hasMember(userID primitive.ObjectID) bool {
	return r.project != nil && r.project.HasMember(userID)
}

func PostResource(p *models.Post) Resource { return postResource{post: p} }
func CommentResource(c models.Comment) Resource { return commentResource{comment: c} }
func EventResource(e *models.Event) Resource { return eventResource{event: e} }
func TaskResource(t *models.Task, p *models.Project) Resource {
	return taskResource{task: t, project: p}
}

// Authorize decides whether actor may perform action on resource. Every
// ownership-guarded mutation goes through it.
func Authorize(actor *models.User, action Action, resource Resource) error {
	if actor == nil {
		return newError(ErrCodeUnauthorized, "authentication required")
	}
	if resource.OwnerID() == actor.ID {
		return nil
	}
	g := policy[resource.Kind()]
	if g.admin && actor.IsAdmin {
		return nil
	}
	if g.members {
		if m, ok := resource.(interface{ hasMember(primitive.ObjectID) bool }); ok && m.hasMember(actor.ID) {
			return nil
		}
	}
	return forbidden("you are not allowed to %s this %s", action, resource.Kind())
}
