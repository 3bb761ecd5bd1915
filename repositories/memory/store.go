// Package memory is an in-process implementation of the repositories. It backs
// `serve --memory` and the service and handler tests.
package memory

import (
	"cmp"
	"context"
	"slices"
	"sync"
	"time"

	"github.com/PatrikF1/backend-ProjectPartner/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Store struct {
	mu   sync.RWMutex
	txMu sync.Mutex

	users        map[primitive.ObjectID]models.User
	projects     map[primitive.ObjectID]models.Project
	applications map[primitive.ObjectID]models.Application
	tasks        map[primitive.ObjectID]models.Task
	events       map[primitive.ObjectID]models.Event
	posts        map[primitive.ObjectID]models.Post
	spaces       map[primitive.ObjectID]models.Space
	links        map[primitive.ObjectID]models.RepositoryLink
}

func New() *Store {
	return &Store{
		users:        map[primitive.ObjectID]models.User{},
		projects:     map[primitive.ObjectID]models.Project{},
		applications: map[primitive.ObjectID]models.Application{},
		tasks:        map[primitive.ObjectID]models.Task{},
		events:       map[primitive.ObjectID]models.Event{},
		posts:        map[primitive.ObjectID]models.Post{},
		spaces:       map[primitive.ObjectID]models.Space{},
		links:        map[primitive.ObjectID]models.RepositoryLink{},
	}
}

// WithTransaction restores every collection to its state before fn when fn
// fails. Transactions are serialized with each other but not isolated from
// concurrent non-transactional writes.
func (s *Store) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	snap := s.snapshot()
	if err := fn(ctx); err != nil {
		s.mu.Lock()
		s.restore(snap)
		s.mu.Unlock()
		return err
	}
	return nil
}

func (s *Store) Ping(context.Context) error { return nil }

func (s *Store) Users() *UserRepository               { return &UserRepository{s: s} }
func (s *Store) Projects() *ProjectRepository         { return &ProjectRepository{s: s} }
func (s *Store) Applications() *ApplicationRepository { return &ApplicationRepository{s: s} }
func (s *Store) Tasks() *TaskRepository               { return &TaskRepository{s: s} }
func (s *Store) Events() *EventRepository             { return &EventRepository{s: s} }
func (s *Store) Posts() *PostRepository               { return &PostRepository{s: s} }
func (s *Store) Spaces() *SpaceRepository             { return &SpaceRepository{s: s} }
func (s *Store) Links() *LinkRepository               { return &LinkRepository{s: s} }

type snapshot struct {
	users        map[primitive.ObjectID]models.User
	projects     map[primitive.ObjectID]models.Project
	applications map[primitive.ObjectID]models.Application
	tasks        map[primitive.ObjectID]models.Task
	events       map[primitive.ObjectID]models.Event
	posts        map[primitive.ObjectID]models.Post
	spaces       map[primitive.ObjectID]models.Space
	links        map[primitive.ObjectID]models.RepositoryLink
}

func (s *Store) snapshot() snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return snapshot{
		users:        cloneMap(s.users, func(u models.User) models.User { return u }),
		projects:     cloneMap(s.projects, cloneProject),
		applications: cloneMap(s.applications, func(a models.Application) models.Application { return a }),
		tasks:        cloneMap(s.tasks, cloneTask),
		events:       cloneMap(s.events, cloneEvent),
		posts:        cloneMap(s.posts, clonePost),
		spaces:       cloneMap(s.spaces, cloneSpace),
		links:        cloneMap(s.links, cloneLink),
	}
}

func (s *Store) restore(snap snapshot) {
	s.users = snap.users
	s.projects = snap.projects
	s.applications = snap.applications
	s.tasks = snap.tasks
	s.events = snap.events
	s.posts = snap.posts
	s.spaces = snap.spaces
	s.links = snap.links
}

func cloneMap[T any](m map[primitive.ObjectID]T, clone func(T) T) map[primitive.ObjectID]T {
	out := make(map[primitive.ObjectID]T, len(m))
	for k, v := range m {
		out[k] = clone(v)
	}
	return out
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}

func cloneInt(i *int) *int {
	if i == nil {
		return nil
	}
	c := *i
	return &c
}

func cloneID(id *primitive.ObjectID) *primitive.ObjectID {
	if id == nil {
		return nil
	}
	c := *id
	return &c
}

func cloneIDs(ids []primitive.ObjectID) []primitive.ObjectID {
	if ids == nil {
		return []primitive.ObjectID{}
	}
	return slices.Clone(ids)
}

func cloneProject(p models.Project) models.Project {
	p.Capacity = cloneInt(p.Capacity)
	p.Deadline = cloneTime(p.Deadline)
	p.Members = cloneIDs(p.Members)
	return p
}

func cloneTask(t models.Task) models.Task {
	t.ApplicationID = cloneID(t.ApplicationID)
	t.Deadline = cloneTime(t.Deadline)
	t.ArchivedAt = cloneTime(t.ArchivedAt)
	return t
}

func cloneEvent(e models.Event) models.Event {
	e.ProjectID = cloneID(e.ProjectID)
	e.TaskID = cloneID(e.TaskID)
	return e
}

func clonePost(p models.Post) models.Post {
	if p.Comments == nil {
		p.Comments = []models.Comment{}
	} else {
		p.Comments = slices.Clone(p.Comments)
	}
	return p
}

func cloneSpace(s models.Space) models.Space {
	s.Capacity = cloneInt(s.Capacity)
	s.Members = cloneIDs(s.Members)
	if s.Amenities == nil {
		s.Amenities = []string{}
	} else {
		s.Amenities = slices.Clone(s.Amenities)
	}
	return s
}

func cloneLink(l models.RepositoryLink) models.RepositoryLink {
	l.Members = cloneIDs(l.Members)
	return l
}

// compareNewest orders by creation time descending; ids break ties so the
// order matches the MongoDB sort on {createdAt: -1, _id: -1}.
func compareNewest(at, bt time.Time, aid, bid primitive.ObjectID) int {
	if c := bt.Compare(at); c != 0 {
		return c
	}
	return cmp.Compare(bid.Hex(), aid.Hex())
}

func collect[T any](m map[primitive.ObjectID]T, keep func(T) bool, clone func(T) T) []T {
	out := make([]T, 0, len(m))
	for _, v := range m {
		if keep == nil || keep(v) {
			out = append(out, clone(v))
		}
	}
	return out
}

func now() time.Time {
	return time.Now().UTC()
}
