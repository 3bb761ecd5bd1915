package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/PatrikF1/backend-ProjectPartner/middleware"
	"github.com/PatrikF1/backend-ProjectPartner/services"

	"github.com/gorilla/mux"
)

type Dependencies struct {
	Auth         *services.AuthService
	Users        *services.UserService
	Projects     *services.ProjectService
	Reports      *services.ReportService
	Applications *services.ApplicationService
	Tasks        *services.TaskService
	Events       *services.EventService
	Posts        *services.PostService
	Spaces       *services.SpaceService
	Links        *services.LinkService
	Assistant    *services.AssistantService

	Authenticator *middleware.Authenticator
	ChatLimiter   *middleware.UserRateLimiter
	CORSOrigin    string

	// Ping reports whether the store is reachable.
	Ping func(ctx context.Context) error
}

// NewRouter builds the whole HTTP surface. Literal routes such as /my are
// registered before the {id} routes they would otherwise collide with.
func NewRouter(d Dependencies) http.Handler {
	middleware.RegisterMetrics()

	r := mux.NewRouter()
	r.Use(middleware.Metrics)

	r.HandleFunc("/health", health(d.Ping)).Methods(http.MethodGet)
	r.Handle("/metrics", middleware.MetricsHandler()).Methods(http.MethodGet)

	authed := func(h http.HandlerFunc) http.Handler { return d.Authenticator.RequireAuthenticated(h) }
	admin := func(h http.HandlerFunc) http.Handler { return d.Authenticator.RequireAdmin(h) }

	api := r.PathPrefix("/api").Subrouter()

	authH := NewAuthHandler(d.Auth)
	api.HandleFunc("/auth/register", authH.Register).Methods(http.MethodPost)
	api.HandleFunc("/auth/login", authH.Login).Methods(http.MethodPost)
	api.Handle("/auth/me", authed(authH.Me)).Methods(http.MethodGet)

	userH := NewUserHandler(d.Users)
	api.Handle("/users", authed(userH.List)).Methods(http.MethodGet)
	api.Handle("/users/dashboard", authed(userH.Dashboard)).Methods(http.MethodGet)
	api.Handle("/users/me/profile-image", authed(userH.UpdateProfileImage)).Methods(http.MethodPut)

	projectH := NewProjectHandler(d.Projects, d.Reports)
	api.Handle("/projects", authed(projectH.List)).Methods(http.MethodGet)
	api.Handle("/projects", admin(projectH.Create)).Methods(http.MethodPost)
	api.Handle("/projects/my", authed(projectH.ListMine)).Methods(http.MethodGet)
	api.Handle("/projects/{id}", authed(projectH.Get)).Methods(http.MethodGet)
	api.Handle("/projects/{id}", admin(projectH.Update)).Methods(http.MethodPut)
	api.Handle("/projects/{id}", admin(projectH.Delete)).Methods(http.MethodDelete)
	api.Handle("/projects/{id}/join", authed(projectH.Join)).Methods(http.MethodPost)
	api.Handle("/projects/{id}/leave", authed(projectH.Leave)).Methods(http.MethodPost)
	api.Handle("/projects/{id}/end", admin(projectH.End)).Methods(http.MethodPost)
	api.Handle("/projects/{id}/report", admin(projectH.Report)).Methods(http.MethodPost)

	applicationH := NewApplicationHandler(d.Applications)
	api.Handle("/applications", authed(applicationH.List)).Methods(http.MethodGet)
	api.Handle("/applications", authed(applicationH.Create)).Methods(http.MethodPost)
	api.Handle("/applications/my", authed(applicationH.ListMine)).Methods(http.MethodGet)
	api.Handle("/applications/{id}/{action}", admin(applicationH.Decide)).Methods(http.MethodPut)

	taskH := NewTaskHandler(d.Tasks)
	api.Handle("/tasks", authed(taskH.List)).Methods(http.MethodGet)
	api.Handle("/tasks", authed(taskH.Create)).Methods(http.MethodPost)
	api.Handle("/tasks/my", authed(taskH.ListMine)).Methods(http.MethodGet)
	api.Handle("/tasks/by-user", admin(taskH.ListByUser)).Methods(http.MethodGet)
	api.Handle("/tasks/project/{projectId}/application/{applicationId}", authed(taskH.ListForApplication)).Methods(http.MethodGet)
	api.Handle("/tasks/{id}", authed(taskH.Get)).Methods(http.MethodGet)
	api.Handle("/tasks/{id}", authed(taskH.Update)).Methods(http.MethodPut)
	api.Handle("/tasks/{id}", authed(taskH.Delete)).Methods(http.MethodDelete)
	api.Handle("/tasks/{id}/archive", authed(taskH.Archive)).Methods(http.MethodPut)

	postH := NewPostHandler(d.Posts)
	api.Handle("/posts", authed(postH.List)).Methods(http.MethodGet)
	api.Handle("/posts", authed(postH.Create)).Methods(http.MethodPost)
	api.Handle("/posts/{id}", authed(postH.Delete)).Methods(http.MethodDelete)
	api.Handle("/posts/{id}/comments", authed(postH.AddComment)).Methods(http.MethodPost)
	api.Handle("/posts/{id}/comments/{commentId}", authed(postH.DeleteComment)).Methods(http.MethodDelete)

	eventH := NewEventHandler(d.Events)
	api.Handle("/calendar/events", authed(eventH.List)).Methods(http.MethodGet)
	api.Handle("/calendar/events", authed(eventH.Create)).Methods(http.MethodPost)
	api.Handle("/calendar/events/{id}", authed(eventH.Delete)).Methods(http.MethodDelete)

	chatH := NewChatHandler(d.Assistant)
	api.Handle("/chat", d.Authenticator.RequireAuthenticated(d.ChatLimiter.Middleware(http.HandlerFunc(chatH.Chat)))).Methods(http.MethodPost)

	spaceH := NewSpaceHandler(d.Spaces)
	api.Handle("/spaces", authed(spaceH.List)).Methods(http.MethodGet)
	api.Handle("/spaces", admin(spaceH.Create)).Methods(http.MethodPost)
	api.Handle("/spaces/{id}", authed(spaceH.Get)).Methods(http.MethodGet)
	api.Handle("/spaces/{id}", admin(spaceH.Update)).Methods(http.MethodPut)
	api.Handle("/spaces/{id}", admin(spaceH.Delete)).Methods(http.MethodDelete)
	api.Handle("/spaces/{id}/join", authed(spaceH.Join)).Methods(http.MethodPost)
	api.Handle("/spaces/{id}/leave", authed(spaceH.Leave)).Methods(http.MethodPost)

	linkH := NewLinkHandler(d.Links)
	api.Handle("/githubs", authed(linkH.List)).Methods(http.MethodGet)
	api.Handle("/githubs", authed(linkH.Create)).Methods(http.MethodPost)

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeMsg(w, http.StatusNotFound, "route not found")
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeMsg(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	return middleware.CORS(d.CORSOrigin)(middleware.RequestLogger(middleware.Recover(r)))
}

func health(ping func(ctx context.Context) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if ping != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := ping(ctx); err != nil {
				writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
				return
			}
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
