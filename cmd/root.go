package cmd

import (
	"context"
	"os"

	"github.com/PatrikF1/backend-ProjectPartner/config"
	"github.com/PatrikF1/backend-ProjectPartner/logging"
	"github.com/PatrikF1/backend-ProjectPartner/repositories"
	"github.com/PatrikF1/backend-ProjectPartner/repositories/memory"
	"github.com/PatrikF1/backend-ProjectPartner/services"

	"github.com/spf13/cobra"
)

var (
	envFile   string
	useMemory bool
)

var rootCmd = &cobra.Command{
	Use:           "project-partner",
	Short:         "ProjectPartner backend",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file to load before reading the environment")
	rootCmd.PersistentFlags().BoolVar(&useMemory, "memory", false, "use the in-process store instead of MongoDB")
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		logging.Logger.Errorf("Event ID: COMMAND_FAILED, Description: %v", err)
		os.Exit(1)
	}
}

// backend is an opened persistence layer.
type backend struct {
	stores services.Stores
	ping   func(ctx context.Context) error
	close  func(ctx context.Context) error
}

func openBackend(ctx context.Context, cfg *config.Config) (*backend, error) {
	if useMemory {
		logging.Logger.Warn("Event ID: MEMORY_STORE, Description: Using the in-process store, data is lost on exit")
		store := memory.New()
		return &backend{
			stores: services.Stores{
				Users:        store.Users(),
				Projects:     store.Projects(),
				Applications: store.Applications(),
				Tasks:        store.Tasks(),
				Events:       store.Events(),
				Posts:        store.Posts(),
				Spaces:       store.Spaces(),
				Links:        store.Links(),
				Tx:           store,
			},
			ping:  store.Ping,
			close: func(context.Context) error { return nil },
		}, nil
	}

	store, err := repositories.Connect(ctx, cfg.MongoURI, cfg.MongoDBName, cfg.MongoTransactions)
	if err != nil {
		return nil, err
	}
	if err := store.EnsureIndexes(ctx); err != nil {
		_ = store.Close(context.Background())
		return nil, err
	}
	return &backend{
		stores: services.Stores{
			Users:        store.Users(),
			Projects:     store.Projects(),
			Applications: store.Applications(),
			Tasks:        store.Tasks(),
			Events:       store.Events(),
			Posts:        store.Posts(),
			Spaces:       store.Spaces(),
			Links:        store.Links(),
			Tx:           store,
		},
		ping:  store.Ping,
		close: store.Close,
	}, nil
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(envFile)
	if err != nil {
		return nil, err
	}
	logging.InitLogger(logging.Options{File: cfg.LogFile, Level: cfg.LogLevel, Stdout: cfg.LogStdout})
	return cfg, nil
}
