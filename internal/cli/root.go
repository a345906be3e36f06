package cli

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/stefanorainone/sales-management/internal/api"
	"github.com/stefanorainone/sales-management/internal/auth"
	"github.com/stefanorainone/sales-management/internal/config"
	"github.com/stefanorainone/sales-management/internal/db"
	"github.com/stefanorainone/sales-management/internal/repository"
)

// App holds everything the commands use. It is filled by a Wiring before
// any command runs, or directly by tests.
type App struct {
	Config   *config.Config
	Logger   *slog.Logger
	Services api.Services
	Auth     *auth.Authenticator
	Files    http.Handler
	Users    repository.UserRepo
	Tokens   repository.TokenRepo
	UoW      db.UnitOfWork
	// Fs is where seed files and attachments to upload are read from.
	Fs afero.Fs
	// Confirm asks a yes/no question. Nil means non-interactive: the
	// answer is always no.
	Confirm func(title, description string) (bool, error)
}

// Wiring builds the App from configuration and returns a cleanup func.
type Wiring func(ctx context.Context, cfg *config.Config) (*App, func(), error)

// NewRootCmd creates the top-level "salescoach" command. When wire is
// non-nil, configuration is loaded from the environment and flags and the
// App is built before the selected command runs.
func NewRootCmd(app *App, wire Wiring) *cobra.Command {
	var cleanup func()

	root := &cobra.Command{
		Use:           "salescoach",
		Short:         "Sales pipeline service with an AI task coach",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if wire == nil {
				return nil
			}
			cfg, err := config.Load(cmd.Flags())
			if err != nil {
				return err
			}
			built, done, err := wire(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			*app = *built
			cleanup = done
			return nil
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if cleanup != nil {
				cleanup()
			}
		},
	}

	pf := root.PersistentFlags()
	pf.String("db", "salescoach.db", "SQLite database path")
	pf.String("storage-dir", "attachments", "directory for task attachments")
	pf.String("redis-url", "", "Redis URL for the generation lock (in-process lock when empty)")
	pf.String("log-level", "info", "log level: debug, info, warn, error")
	pf.String("log-format", "auto", "log format: auto, text, json")
	pf.String("llm-provider", "mock", "text generation backend: mock, ollama, openai, gemini")
	pf.Bool("demo", false, "force deterministic suggestions")

	root.AddCommand(
		newServeCmd(app),
		newSeedCmd(app),
		newTokenCmd(app),
		newBriefingCmd(app),
		newTasksCmd(app),
		newAnalyticsCmd(app),
	)

	return root
}
