package main

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"mindmap/internal/config"
	"mindmap/internal/handler"
	"mindmap/internal/hub"
	"mindmap/internal/logging"
	"mindmap/internal/placement"
	"mindmap/internal/repository/sqlite"
	"mindmap/internal/service"
	"mindmap/internal/watcher"
)

func serveCmd(flags *globalFlags) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the editor HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, path, err := flags.load()
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Server.Addr = addr
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg, path, flags.logLevel != "")
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "HTTP listen address override")
	return cmd
}

func serve(ctx context.Context, cfg *config.Config, configPath string, levelPinned bool) error {
	logger, level, err := logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return err
	}
	defer logger.Sync()

	logger.Info("starting mindmap server", zap.String("version", version), zap.String("config", configPath))
	logger.Debug("effective config", zap.String("summary", cfg.Summary()))

	archive, err := sqlite.New(cfg.Database.Path, sqlite.WithLogger(logger.Named("archive")))
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer archive.Close()
	logger.Info("database opened", zap.String("path", cfg.Database.Path))

	eventBus := service.NewEventBus()

	sseHub := hub.New(hub.WithLogger(logger.Named("hub")))
	hubCtx, stopHub := context.WithCancel(context.Background())
	defer stopHub()
	go sseHub.Run(hubCtx)

	// Connect event bus to SSE hub
	eventChan := make(chan service.Event, 256)
	eventBus.Subscribe(eventChan)
	defer eventBus.Unsubscribe(eventChan)
	go func() {
		for {
			select {
			case event := <-eventChan:
				sseHub.Broadcast(event)
			case <-hubCtx.Done():
				return
			}
		}
	}()

	session := service.NewSession(service.Config{
		Canvas:        cfg.CanvasExtent(),
		Placer:        newPlacer(cfg.Placement),
		FrameInterval: cfg.Redraw.FrameInterval.Duration(),
		Archive:       archive,
		Bus:           eventBus,
		Logger:        logger.Named("session"),
	})
	defer session.Close()

	if configPath != "" && !levelPinned {
		w := watcher.New(configPath, func() { reloadLevel(configPath, level, logger) }).
			WithLogger(logger.Named("watcher"))
		go func() {
			if err := w.Watch(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Warn("config watcher stopped", zap.Error(err))
			}
		}()
	}

	router := handler.NewRouter(handler.RouterConfig{
		Editor:         handler.NewEditorHandler(session),
		Events:         sseHub,
		Logger:         logger.Named("http"),
		AllowedOrigins: cfg.CORS.AllowedOrigins,
	})

	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout.Duration(),
		WriteTimeout: cfg.Server.WriteTimeout.Duration(),
		IdleTimeout:  cfg.Server.IdleTimeout.Duration(),
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", zap.String("addr", cfg.Server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down server")
	// SSE streams only end when the hub stops
	stopHub()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Warn("server shutdown error", zap.Error(err))
	}
	return nil
}

func newPlacer(cfg config.PlacementConfig) *placement.Engine {
	opts := []placement.Option{placement.WithAlignment(placement.Alignment(cfg.Alignment))}
	if cfg.Seed != 0 {
		opts = append(opts, placement.WithRand(rand.New(rand.NewPCG(cfg.Seed, cfg.Seed))))
	}
	return placement.New(opts...)
}

// reloadLevel applies the log level from a changed config file
func reloadLevel(path string, level zap.AtomicLevel, logger *zap.Logger) {
	cfg, _, err := config.LoadFromPath(path)
	if err != nil {
		logger.Warn("config reload failed", zap.Error(err))
		return
	}
	next, err := logging.ParseLevel(cfg.Log.Level)
	if err != nil {
		logger.Warn("config reload failed", zap.Error(err))
		return
	}
	if next.Level() != level.Level() {
		level.SetLevel(next.Level())
		logger.Info("log level changed", zap.Stringer("level", next.Level()))
	}
}
