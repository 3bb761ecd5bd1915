package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/PatrikF1/backend-ProjectPartner/config"
	"github.com/PatrikF1/backend-ProjectPartner/handlers"
	"github.com/PatrikF1/backend-ProjectPartner/logging"
	"github.com/PatrikF1/backend-ProjectPartner/middleware"
	"github.com/PatrikF1/backend-ProjectPartner/services"
	"github.com/PatrikF1/backend-ProjectPartner/utils"

	"github.com/spf13/cobra"
)

const shutdownTimeout = 15 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		return serve(ctx, cfg)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func serve(ctx context.Context, cfg *config.Config) error {
	logging.Logger.Info("Event ID: SERVICE_START, Description: Starting ProjectPartner API...")

	b, err := openBackend(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := b.close(closeCtx); err != nil {
			logging.Logger.Errorf("Event ID: DB_CLOSE_FAILED, Description: %v", err)
		}
	}()

	router := handlers.NewRouter(buildDependencies(cfg, b))

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.ServerPort),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		// Chat requests wait on the completion API.
		WriteTimeout: cfg.OpenAITimeout + 30*time.Second,
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logging.Logger.Infof("Event ID: SERVER_START_INFO, Description: Server running on http://localhost%s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logging.Logger.Info("Event ID: SERVER_SHUTDOWN, Description: Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	logging.Logger.Info("Event ID: SERVER_STOPPED, Description: Server stopped")
	return nil
}

func buildDependencies(cfg *config.Config, b *backend) handlers.Dependencies {
	s := b.stores
	tokens := services.NewJWTService(cfg.JWTSecret, cfg.TokenTTL)
	projects := services.NewProjectService(s)
	tasks := services.NewTaskService(s)

	var completer services.Completer
	if cfg.AssistantEnabled() {
		completer = utils.NewCompletionClient(utils.CompletionOptions{
			BaseURL: cfg.OpenAIBaseURL,
			APIKey:  cfg.OpenAIAPIKey,
			Model:   cfg.OpenAIModel,
			Timeout: cfg.OpenAITimeout,
		})
	} else {
		logging.Logger.Warn("Event ID: ASSISTANT_DISABLED, Description: OPENAI_API_KEY is not set, chat requests will fail")
	}

	return handlers.Dependencies{
		Auth:         services.NewAuthService(s.Users, tokens, cfg.AdminRegistrationKey),
		Users:        services.NewUserService(s),
		Projects:     projects,
		Reports:      services.NewReportService(s, projects, utils.RenderProjectReport),
		Applications: services.NewApplicationService(s),
		Tasks:        tasks,
		Events:       services.NewEventService(s),
		Posts:        services.NewPostService(s),
		Spaces:       services.NewSpaceService(s),
		Links:        services.NewLinkService(s),
		Assistant:    services.NewAssistantService(completer, s, tasks, projects),

		Authenticator: middleware.NewAuthenticator(tokens, s.Users),
		ChatLimiter:   middleware.NewUserRateLimiter(cfg.ChatRatePerMinute),
		CORSOrigin:    cfg.CORSOrigin,
		Ping:          b.ping,
	}
}
