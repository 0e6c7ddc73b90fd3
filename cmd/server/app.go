package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // registers the pgx database/sql driver

	"github.com/parlato/parlato-api/internal/config"
	"github.com/parlato/parlato-api/internal/mastery"
	"github.com/parlato/parlato-api/internal/platform/gcpspeech"
	"github.com/parlato/parlato-api/internal/platform/gemini"
	"github.com/parlato/parlato-api/internal/platform/logger"
	"github.com/parlato/parlato-api/internal/platform/postgres"
	"github.com/parlato/parlato-api/internal/service/answer"
	"github.com/parlato/parlato-api/internal/service/attempt"
	"github.com/parlato/parlato-api/internal/service/xp"
	"github.com/parlato/parlato-api/internal/srs"
)

// application holds the wired dependency graph: configuration, the
// database pool, and the services the HTTP handlers are built from.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	answerService  answer.Service
	attemptService attempt.Service
	accountant     xp.Accountant

	assessorCloser func() error
}

// newApplication loads configuration, connects to the database, runs
// migrations, and wires every service.
func newApplication(ctx context.Context) (*application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	appLogger := logger.Setup(cfg.Server.LogLevel)
	appLogger.Info("Server configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel)

	db, err := setupAppDatabase(cfg, appLogger)
	if err != nil {
		return nil, err
	}

	if err := postgres.Migrate(ctx, db, appLogger); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	// Stores
	questionStore := postgres.NewPostgresQuestionStore(db, appLogger)
	performanceStore := postgres.NewPostgresPerformanceStore(db, appLogger)
	methodScoreStore := postgres.NewPostgresMethodScoreStore(db, appLogger)
	preferenceStore := postgres.NewPostgresPreferenceStore(db, appLogger)
	masteryStore := postgres.NewPostgresMasteryStore(db, appLogger)
	xpStore := postgres.NewPostgresXpStore(db, appLogger)

	// External collaborators. Both are optional: validation degrades
	// gracefully when they are absent.
	var grammarChecker answer.GrammarChecker
	if cfg.Grammar.GeminiAPIKey != "" {
		checker, err := gemini.NewGrammarChecker(ctx, appLogger, cfg.Grammar)
		if err != nil {
			return nil, fmt.Errorf("failed to create grammar checker: %w", err)
		}
		grammarChecker = checker
	} else {
		appLogger.Warn("no Gemini API key configured, grammar checking disabled")
	}

	var assessor answer.PronunciationAssessor
	var assessorCloser func() error
	speechAssessor, err := gcpspeech.NewAssessor(ctx, appLogger, cfg.Speech)
	if err != nil {
		appLogger.Warn("pronunciation assessor unavailable", "error", err.Error())
	} else {
		assessor = speechAssessor
		assessorCloser = speechAssessor.Close
	}

	// Services
	answerService := answer.NewService(
		questionStore,
		preferenceStore,
		methodScoreStore,
		grammarChecker,
		assessor,
		answer.Languages{
			UserCode:     cfg.Languages.UserCode,
			LearningCode: cfg.Languages.LearningCode,
		},
		appLogger,
	)

	scheduler := srs.NewScheduler(performanceStore)
	masteryUpdater := mastery.NewUpdater(masteryStore)
	accountant := xp.NewAccountant(db, xpStore, appLogger)

	attemptService := attempt.NewService(
		questionStore,
		performanceStore,
		scheduler,
		masteryUpdater,
		accountant,
		appLogger,
	)

	return &application{
		config:         cfg,
		logger:         appLogger,
		db:             db,
		answerService:  answerService,
		attemptService: attemptService,
		accountant:     accountant,
		assessorCloser: assessorCloser,
	}, nil
}

// setupAppDatabase establishes the database connection and configures
// the pool.
func setupAppDatabase(cfg *config.Config, logger *slog.Logger) (*sql.DB, error) {
	db, err := sql.Open("pgx", cfg.Database.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Info("Database connection established")
	return db, nil
}

// cleanup releases held resources in reverse wiring order.
func (app *application) cleanup() {
	if app.assessorCloser != nil {
		if err := app.assessorCloser(); err != nil {
			app.logger.Warn("failed to close pronunciation assessor", "error", err.Error())
		}
	}
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Warn("failed to close database", "error", err.Error())
		}
	}
}
