package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/utopia-ai/advisor/backend/internal/analysis/question"
	"github.com/utopia-ai/advisor/backend/internal/config"
	"github.com/utopia-ai/advisor/backend/internal/handler"
	"github.com/utopia-ai/advisor/backend/internal/logging"
	"github.com/utopia-ai/advisor/backend/internal/metrics"
	"github.com/utopia-ai/advisor/backend/internal/model/agent"
	"github.com/utopia-ai/advisor/backend/internal/service/ai"
	"github.com/utopia-ai/advisor/backend/internal/service/chat"
	"github.com/utopia-ai/advisor/backend/internal/store"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Printf("warning: failed to load .env file: %v", err)
		log.Println("continuing with system environment variables only")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger, err := logging.New(logging.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()
	zap.ReplaceGlobals(logger)

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal("server exited", zap.Error(err))
	}
}

func run(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	m := metrics.New()

	sessions, err := openStore(cfg.Session)
	if err != nil {
		return err
	}
	defer func() {
		if err := sessions.Close(); err != nil {
			logger.Warn("close session store", zap.Error(err))
		}
	}()
	logger.Info("session store ready", zap.String("backend", cfg.Session.Store))

	store.StartJanitor(ctx, sessions, cfg.Session.SweepInterval, cfg.Session.TTL, logger, m.ObserveSweep)

	if !cfg.AI.Enabled() {
		return errors.New("Ark 凭证未配置：需要 ARK_API_KEY 或 ARK_ACCESS_KEY/ARK_SECRET_KEY 以及 Model")
	}
	chatModel, err := cfg.AI.NewChatModel(ctx)
	if err != nil {
		return fmt.Errorf("init chat model: %w", err)
	}

	agents := agent.NewMemoryStore(agent.Seed())
	aiService, err := ai.NewService(ctx, chatModel, agents, logger, m)
	if err != nil {
		return fmt.Errorf("init ai service: %w", err)
	}
	logger.Info("AI service initialized")

	engine := chat.NewEngine(sessions, aiService, aiService, aiService, chat.Options{
		CompleteThreshold: cfg.Session.CompleteThreshold,
		HistoryViewLimit:  cfg.Session.HistoryViewLimit,
		Validator:         question.Validator{MinOpenLength: cfg.Session.MinOpenLength},
	}, logger, m)

	router := handler.NewRouter(handler.Deps{
		Engine:         engine,
		Agents:         agents,
		Metrics:        m,
		Logger:         logger,
		AllowedOrigins: cfg.Server.AllowedOrigins,
	})

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	logger.Info("advisor backend listening", zap.String("addr", cfg.Server.Addr))
	return runServer(ctx, srv)
}

func openStore(cfg config.SessionConfig) (store.Store, error) {
	if cfg.Store == "sqlite" {
		s, err := store.NewSQLite(cfg.DBPath)
		if err != nil {
			return nil, fmt.Errorf("open sqlite session store: %w", err)
		}
		return s, nil
	}
	return store.NewMemoryStore(), nil
}

func runServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
