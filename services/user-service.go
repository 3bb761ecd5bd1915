package services

import (
	"context"
	"strings"

	"github.com/PatrikF1/backend-ProjectPartner/models"
	"github.com/PatrikF1/backend-ProjectPartner/repositories"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const MaxProfileImageLength = 2 << 20

type UserListItem struct {
	models.UserSummary
	IsAdmin bool `json:"isAdmin"`
}

type Dashboard struct {
	Users          []UserListItem           `json:"users"`
	Projects       []models.ProjectView     `json:"projects"`
	MyProjects     []models.ProjectView     `json:"myProjects"`
	Applications   []models.ApplicationView `json:"applications"`
	MyApplications []models.ApplicationView `json:"myApplications"`
}

type UserService struct {
	users        UserStore
	projects     ProjectStore
	applications ApplicationStore
	resolve      *resolver
}

func NewUserService(s Stores) *UserService {
	return &UserService{users: s.Users, projects: s.Projects, applications: s.Applications, resolve: newResolver(s)}
}

// Get loads a user by id.
func (s *UserService) Get(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, lookupErr(err, "user")
	}
	return user, nil
}

func (s *UserService) List(ctx context.Context) ([]UserListItem, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, internal("failed to load users", err)
	}
	items := make([]UserListItem, 0, len(users))
	for _, u := range users {
		items = append(items, UserListItem{UserSummary: u.Summary(), IsAdmin: u.IsAdmin})
	}
	return items, nil
}

// Dashboard collects everything the landing page shows in one call.
func (s *UserService) Dashboard(ctx context.Context, caller *models.User) (*Dashboard, error) {
	users, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	all, err := s.projects.List(ctx, repositories.ProjectFilter{})
	if err != nil {
		return nil, internal("failed to load projects", err)
	}
	var mine []models.Project
	for _, p := range all {
		if p.HasMember(caller.ID) {
			mine = append(mine, p)
		}
	}
	applications, err := s.applications.List(ctx, repositories.ApplicationFilter{})
	if err != nil {
		return nil, internal("failed to load applications", err)
	}
	var myApplications []models.Application
	for _, a := range applications {
		if a.CreatedBy == caller.ID {
			myApplications = append(myApplications, a)
		}
	}

	d := &Dashboard{Users: users}
	if d.Projects, err = s.resolve.projects(ctx, all); err != nil {
		return nil, err
	}
	if d.MyProjects, err = s.resolve.projects(ctx, mine); err != nil {
		return nil, err
	}
	if d.Applications, err = s.resolve.applications(ctx, applications); err != nil {
		return nil, err
	}
	if d.MyApplications, err = s.resolve.applications(ctx, myApplications); err != nil {
		return nil, err
	}
	return d, nil
}

// UpdateProfileImage accepts an image data URI or an http(s) URL.
func (s *UserService) UpdateProfileImage(ctx context.Context, caller *models.User, image string) (*models.User, error) {
	image = strings.TrimSpace(image)
	if image == "" {
		return nil, invalid("profileImage is required")
	}
	if len(image) > MaxProfileImageLength {
		return nil, invalid("profileImage must not exceed 2 MB")
	}
	if !strings.HasPrefix(image, "data:image/") && !strings.HasPrefix(image, "http://") && !strings.HasPrefix(image, "https://") {
		return nil, invalid("profileImage must be an image data URI or URL")
	}
	if err := s.users.UpdateProfileImage(ctx, caller.ID, image); err != nil {
		return nil, writeErr(err, "update", "user")
	}
	return s.Get(ctx, caller.ID)
}
