package services

import (
	"context"

	"github.com/PatrikF1/backend-ProjectPartner/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// resolver turns stored references into the summaries returned to clients.
// Each call batches its lookups so a list costs one query per referenced
// collection rather than one per document.
type resolver struct {
	userStore        UserStore
	projectStore     ProjectStore
	applicationStore ApplicationStore
}

func newResolver(s Stores) *resolver {
	return &resolver{userStore: s.Users, projectStore: s.Projects, applicationStore: s.Applications}
}

func (r *resolver) userMap(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.UserSummary, error) {
	out := map[primitive.ObjectID]models.UserSummary{}
	users, err := r.userStore.FindByIDs(ctx, unique(ids))
	if err != nil {
		return nil, internal("failed to load users", err)
	}
	for _, u := range users {
		out[u.ID] = u.Summary()
	}
	return out, nil
}

func (r *resolver) projectMap(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.ProjectRef, error) {
	out := map[primitive.ObjectID]models.ProjectRef{}
	projects, err := r.projectStore.FindByIDs(ctx, unique(ids))
	if err != nil {
		return nil, internal("failed to load projects", err)
	}
	for _, p := range projects {
		out[p.ID] = models.ProjectRef{ID: p.ID, Name: p.Name}
	}
	return out, nil
}

func (r *resolver) applicationMap(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.ApplicationRef, error) {
	out := map[primitive.ObjectID]models.ApplicationRef{}
	applications, err := r.applicationStore.FindByIDs(ctx, unique(ids))
	if err != nil {
		return nil, internal("failed to load applications", err)
	}
	for _, a := range applications {
		out[a.ID] = models.ApplicationRef{ID: a.ID, Idea: a.Idea}
	}
	return out, nil
}

func (r *resolver) projects(ctx context.Context, projects []models.Project) ([]models.ProjectView, error) {
	var ids []primitive.ObjectID
	for _, p := range projects {
		ids = append(ids, p.CreatedBy)
		ids = append(ids, p.Members...)
	}
	users, err := r.userMap(ctx, ids)
	if err != nil {
		return nil, err
	}
	views := make([]models.ProjectView, 0, len(projects))
	for _, p := range projects {
		views = append(views, models.ProjectView{
			Project:   p,
			CreatedBy: userRef(users, p.CreatedBy),
			Members:   summaries(users, p.Members),
		})
	}
	return views, nil
}

func (r *resolver) project(ctx context.Context, p *models.Project) (*models.ProjectView, error) {
	views, err := r.projects(ctx, []models.Project{*p})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

func (r *resolver) applications(ctx context.Context, applications []models.Application) ([]models.ApplicationView, error) {
	var userIDs, projectIDs []primitive.ObjectID
	for _, a := range applications {
		userIDs = append(userIDs, a.CreatedBy)
		projectIDs = append(projectIDs, a.ProjectID)
	}
	users, err := r.userMap(ctx, userIDs)
	if err != nil {
		return nil, err
	}
	projects, err := r.projectMap(ctx, projectIDs)
	if err != nil {
		return nil, err
	}
	views := make([]models.ApplicationView, 0, len(applications))
	for _, a := range applications {
		views = append(views, models.ApplicationView{
			Application: a,
			ProjectID:   projectRef(projects, a.ProjectID),
			CreatedBy:   userRef(users, a.CreatedBy),
		})
	}
	return views, nil
}

func (r *resolver) application(ctx context.Context, a *models.Application) (*models.ApplicationView, error) {
	views, err := r.applications(ctx, []models.Application{*a})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

func (r *resolver) tasks(ctx context.Context, tasks []models.Task) ([]models.TaskView, error) {
	var userIDs, projectIDs, applicationIDs []primitive.ObjectID
	for _, t := range tasks {
		userIDs = append(userIDs, t.CreatedBy)
		projectIDs = append(projectIDs, t.ProjectID)
		if t.ApplicationID != nil {
			applicationIDs = append(applicationIDs, *t.ApplicationID)
		}
	}
	users, err := r.userMap(ctx, userIDs)
	if err != nil {
		return nil, err
	}
	projects, err := r.projectMap(ctx, projectIDs)
	if err != nil {
		return nil, err
	}
	applications, err := r.applicationMap(ctx, applicationIDs)
	if err != nil {
		return nil, err
	}
	views := make([]models.TaskView, 0, len(tasks))
	for _, t := range tasks {
		view := models.TaskView{
			Task:      t,
			ProjectID: projectRef(projects, t.ProjectID),
			CreatedBy: userRef(users, t.CreatedBy),
		}
		if t.ApplicationID != nil {
			if a, ok := applications[*t.ApplicationID]; ok {
				view.ApplicationID = &a
			}
		}
		views = append(views, view)
	}
	return views, nil
}

func (r *resolver) task(ctx context.Context, t *models.Task) (*models.TaskView, error) {
	views, err := r.tasks(ctx, []models.Task{*t})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

func (r *resolver) events(ctx context.Context, events []models.Event) ([]models.EventView, error) {
	var userIDs, projectIDs []primitive.ObjectID
	for _, e := range events {
		userIDs = append(userIDs, e.CreatedBy)
		if e.ProjectID != nil {
			projectIDs = append(projectIDs, *e.ProjectID)
		}
	}
	users, err := r.userMap(ctx, userIDs)
	if err != nil {
		return nil, err
	}
	projects, err := r.projectMap(ctx, projectIDs)
	if err != nil {
		return nil, err
	}
	views := make([]models.EventView, 0, len(events))
	for _, e := range events {
		view := models.EventView{Event: e, CreatedBy: userRef(users, e.CreatedBy)}
		if e.ProjectID != nil {
			view.ProjectID = projectRef(projects, *e.ProjectID)
		}
		views = append(views, view)
	}
	return views, nil
}

func (r *resolver) posts(ctx context.Context, posts []models.Post) ([]models.PostView, error) {
	var ids []primitive.ObjectID
	for _, p := range posts {
		ids = append(ids, p.CreatedBy)
		for _, c := range p.Comments {
			ids = append(ids, c.CreatedBy)
		}
	}
	users, err := r.userMap(ctx, ids)
	if err != nil {
		return nil, err
	}
	views := make([]models.PostView, 0, len(posts))
	for _, p := range posts {
		comments := make([]models.CommentView, 0, len(p.Comments))
		for _, c := range p.Comments {
			comments = append(comments, models.CommentView{Comment: c, CreatedBy: userRef(users, c.CreatedBy)})
		}
		views = append(views, models.PostView{Post: p, CreatedBy: userRef(users, p.CreatedBy), Comments: comments})
	}
	return views, nil
}

func (r *resolver) post(ctx context.Context, p *models.Post) (*models.PostView, error) {
	views, err := r.posts(ctx, []models.Post{*p})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

func (r *resolver) spaces(ctx context.Context, spaces []models.Space) ([]models.SpaceView, error) {
	var ids []primitive.ObjectID
	for _, s := range spaces {
		ids = append(ids, s.CreatedBy)
		ids = append(ids, s.Members...)
	}
	users, err := r.userMap(ctx, ids)
	if err != nil {
		return nil, err
	}
	views := make([]models.SpaceView, 0, len(spaces))
	for _, s := range spaces {
		views = append(views, models.SpaceView{Space: s, CreatedBy: userRef(users, s.CreatedBy), Members: summaries(users, s.Members)})
	}
	return views, nil
}

func (r *resolver) space(ctx context.Context, s *models.Space) (*models.SpaceView, error) {
	views, err := r.spaces(ctx, []models.Space{*s})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

func (r *resolver) links(ctx context.Context, links []models.RepositoryLink) ([]models.RepositoryLinkView, error) {
	var ids []primitive.ObjectID
	for _, l := range links {
		ids = append(ids, l.CreatedBy)
		ids = append(ids, l.Members...)
	}
	users, err := r.userMap(ctx, ids)
	if err != nil {
		return nil, err
	}
	views := make([]models.RepositoryLinkView, 0, len(links))
	for _, l := range links {
		views = append(views, models.RepositoryLinkView{RepositoryLink: l, CreatedBy: userRef(users, l.CreatedBy), Members: summaries(users, l.Members)})
	}
	return views, nil
}

// userRef is nil when the referenced user no longer exists.
func userRef(users map[primitive.ObjectID]models.UserSummary, id primitive.ObjectID) *models.UserSummary {
	if u, ok := users[id]; ok {
		return &u
	}
	return nil
}

func projectRef(projects map[primitive.ObjectID]models.ProjectRef, id primitive.ObjectID) *models.ProjectRef {
	if p, ok := projects[id]; ok {
		return &p
	}
	return nil
}

// summaries keeps the order of ids and skips users that no longer exist.
func summaries(users map[primitive.ObjectID]models.UserSummary, ids []primitive.ObjectID) []models.UserSummary {
	out := make([]models.UserSummary, 0, len(ids))
	for _, id := range ids {
		if u, ok := users[id]; ok {
			out = append(out, u)
		}
	}
	return out
}

func unique(ids []primitive.ObjectID) []primitive.ObjectID {
	seen := make(map[primitive.ObjectID]struct{}, len(ids))
	out := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
