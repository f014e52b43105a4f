// Package app wires configuration, adapters, services, and the HTTP
// server together and runs the process lifecycle.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/soundous/haven-backend/internal/adapter/blob"
	"github.com/soundous/haven-backend/internal/adapter/llm"
	"github.com/soundous/haven-backend/internal/adapter/postgres"
	capsulerepo "github.com/soundous/haven-backend/internal/adapter/postgres/capsule"
	chatrepo "github.com/soundous/haven-backend/internal/adapter/postgres/chat"
	feedbackrepo "github.com/soundous/haven-backend/internal/adapter/postgres/feedback"
	gratituderepo "github.com/soundous/haven-backend/internal/adapter/postgres/gratitude"
	journalrepo "github.com/soundous/haven-backend/internal/adapter/postgres/journal"
	summaryrepo "github.com/soundous/haven-backend/internal/adapter/postgres/summarylog"
	"github.com/soundous/haven-backend/internal/config"
	"github.com/soundous/haven-backend/internal/service/account"
	capsulesvc "github.com/soundous/haven-backend/internal/service/capsule"
	chatsvc "github.com/soundous/haven-backend/internal/service/chat"
	feedbacksvc "github.com/soundous/haven-backend/internal/service/feedback"
	journalsvc "github.com/soundous/haven-backend/internal/service/journal"
	summarysvc "github.com/soundous/haven-backend/internal/service/summary"
	"github.com/soundous/haven-backend/internal/transport/middleware"
	"github.com/soundous/haven-backend/internal/transport/rest"
)

// Run is the application entry point. It loads configuration, connects the
// adapters, wires services and HTTP handlers, and serves until the context
// is cancelled, then shuts down gracefully.
func Run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := NewLogger(cfg.Log)

	logger.Info("starting application",
		slog.String("version", BuildVersion()),
		slog.String("log_level", cfg.Log.Level),
	)

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer pool.Close()

	if cfg.Database.MigrateOnStart {
		if err := postgres.Migrate(ctx, pool); err != nil {
			return fmt.Errorf("run migrations: %w", err)
		}
		logger.Info("migrations applied")
	}

	images, err := blob.New(ctx, cfg.Storage)
	if err != nil {
		return fmt.Errorf("connect to object storage: %w", err)
	}

	ai := llm.New(cfg.LLM)
	txManager := postgres.NewTxManager(pool)

	journalRepo := journalrepo.New(pool)
	gratitudeRepo := gratituderepo.New(pool)
	capsuleRepo := capsulerepo.New(pool)
	summaryRepo := summaryrepo.New(pool)
	chatRepo := chatrepo.New(pool)
	feedbackRepo := feedbackrepo.New(pool)

	journalService := journalsvc.NewService(logger, journalRepo, gratitudeRepo, images, ai)
	capsuleService := capsulesvc.NewService(logger, capsuleRepo, txManager, ai)
	summaryService := summarysvc.NewService(logger, journalRepo, summaryRepo, ai)
	chatService := chatsvc.NewService(logger, chatRepo, ai)
	feedbackService := feedbacksvc.NewService(logger, feedbackRepo)
	accountService := account.NewService(logger, images,
		journalRepo, gratitudeRepo, capsuleRepo, summaryRepo, chatRepo, feedbackRepo)

	router := rest.NewRouter(rest.Handlers{
		Health:   rest.NewHealthHandler(pool, BuildVersion()),
		Chat:     rest.NewChatHandler(chatService, logger),
		Journal:  rest.NewJournalHandler(journalService, logger),
		Capsule:  rest.NewCapsuleHandler(capsuleService, logger),
		Summary:  rest.NewSummaryHandler(summaryService, logger),
		Feedback: rest.NewFeedbackHandler(feedbackService, logger),
		Account:  rest.NewAccountHandler(accountService, logger),
	})

	rateLimiter := middleware.NewRateLimiter(5 * time.Minute)
	defer rateLimiter.Stop()

	handler := middleware.Chain(
		middleware.RequestID,
		middleware.Recovery(logger),
		middleware.Logger(logger),
		middleware.CORS(cfg.CORS),
		rateLimiter.Limit(cfg.Server.RateLimitPerMin),
	)(router)

	srv := &http.Server{
		Addr:         net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port)),
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}

	return nil
}
