package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/spf13/afero"
	"github.com/stefanorainone/sales-management/internal/api"
	"github.com/stefanorainone/sales-management/internal/auth"
	"github.com/stefanorainone/sales-management/internal/cli"
	"github.com/stefanorainone/sales-management/internal/config"
	"github.com/stefanorainone/sales-management/internal/db"
	"github.com/stefanorainone/sales-management/internal/intelligence"
	"github.com/stefanorainone/sales-management/internal/llm"
	"github.com/stefanorainone/sales-management/internal/lock"
	"github.com/stefanorainone/sales-management/internal/logging"
	"github.com/stefanorainone/sales-management/internal/repository"
	"github.com/stefanorainone/sales-management/internal/service"
	"github.com/stefanorainone/sales-management/internal/storage"
)

// generationLockTTL bounds how long a crashed holder can block a seller.
const generationLockTTL = 2 * time.Minute

func main() {
	app := &cli.App{}
	if err := cli.NewRootCmd(app, wire).ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func wire(ctx context.Context, cfg *config.Config) (*cli.App, func(), error) {
	logger := logging.NewLogger(cfg.Log.Level, cfg.Log.Format, os.Stderr)

	// Open database
	database, err := db.OpenDB(cfg.Database.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("opening database: %w", err)
	}
	closers := []func(){func() { database.Close() }}
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	// Wire repositories
	taskRepo := repository.NewSQLiteTaskRepo(database)
	insightRepo := repository.NewSQLiteInsightRepo(database)
	userRepo := repository.NewSQLiteUserRepo(database)
	tokenRepo := repository.NewSQLiteTokenRepo(database)
	clientRepo := repository.NewSQLiteClientRepo(database)
	dealRepo := repository.NewSQLiteDealRepo(database)
	activityRepo := repository.NewSQLiteActivityRepo(database)
	instructionRepo := repository.NewSQLiteInstructionRepo(database)

	// Wire unit of work for transactional operations
	uow := db.NewSQLiteUnitOfWork(database)

	llmCfg := cfg.LLMConfig()
	llmClient, err := llm.NewClient(ctx, llmCfg, llm.NewLogObserver(logger))
	if err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("creating llm client: %w", err)
	}
	logger.Info("text generation backend selected", "provider", string(llmCfg.Provider), "demo_mode", cfg.DemoMode)

	var locker lock.Locker = lock.NewMemoryLocker()
	if cfg.Redis.URL != "" {
		rl, err := lock.NewRedisLocker(cfg.Redis.URL, generationLockTTL, logger)
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("connecting to redis: %w", err)
		}
		if err := rl.Ping(ctx); err != nil {
			rl.Close()
			cleanup()
			return nil, nil, fmt.Errorf("pinging redis: %w", err)
		}
		closers = append(closers, func() { rl.Close() })
		locker = rl
	}

	store, err := storage.NewDirStore(cfg.Storage.Dir, cfg.Storage.BaseURL)
	if err != nil {
		cleanup()
		return nil, nil, err
	}

	obs := service.NewLogUseCaseObserver(logger)
	fetcher := intelligence.NewInstructionsFetcher(instructionRepo, logger)
	taskDrafter := intelligence.NewTaskDrafter(llmClient, logger)
	loader := service.NewPipelineLoader(userRepo, dealRepo, clientRepo, activityRepo, taskRepo)

	generation := service.NewTaskGenerationService(taskRepo, uow, taskDrafter, fetcher, locker, logger, obs)
	insights := service.NewInsightService(insightRepo, uow, intelligence.NewInsightDrafter(llmClient, logger), fetcher, logger, obs)

	app := &cli.App{
		Config: cfg,
		Logger: logger,
		Services: api.Services{
			Loader:       loader,
			Generation:   generation,
			Insights:     insights,
			Briefings:    service.NewBriefingService(generation, insights, obs),
			Completion:   service.NewCompletionService(taskRepo, clientRepo, dealRepo, store, intelligence.NewNotesAnalyzer(llmClient, logger), logger, obs),
			Admin:        service.NewTaskAdminService(taskRepo, userRepo, obs),
			Custom:       service.NewCustomGenerationService(loader, uow, taskDrafter, fetcher, obs),
			Analytics:    service.NewAnalyticsService(taskRepo, activityRepo, dealRepo),
			Instructions: service.NewInstructionService(instructionRepo, userRepo),
		},
		Auth:   auth.NewAuthenticator(tokenRepo, userRepo, logger),
		Files:  store.Handler(),
		Users:  userRepo,
		Tokens: tokenRepo,
		UoW:    uow,
		Fs:     afero.NewOsFs(),
	}

	// Detect interactive terminal for confirmation prompts.
	if isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd()) {
		app.Confirm = cli.HuhConfirm
	}

	return app, cleanup, nil
}
