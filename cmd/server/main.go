package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/tycoonfree/tycoon-server-go/internal/config"
	"github.com/tycoonfree/tycoon-server-go/internal/game"
	"github.com/tycoonfree/tycoon-server-go/internal/game/board"
	"github.com/tycoonfree/tycoon-server-go/internal/game/rules"
	"github.com/tycoonfree/tycoon-server-go/internal/lobby"
	"github.com/tycoonfree/tycoon-server-go/internal/repository"
	"github.com/tycoonfree/tycoon-server-go/internal/server"
	"github.com/tycoonfree/tycoon-server-go/internal/session"
)

var (
	configPath = flag.String("config", "config/config.yaml", "path to configuration file")
	version    = "dev" // set via ldflags during build
)

func main() {
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := initLogger(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("starting tycoon server",
		zap.String("version", version),
		zap.String("config", *configPath),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	// Persistence is optional: with no database URL the server runs
	// in-memory only.
	var (
		resultRepo *repository.ResultRepository
		userRepo   *repository.UserRepository
	)
	if cfg.Database.URL != "" {
		db, dbErr := repository.NewDB(ctx, cfg.Database, logger)
		if dbErr != nil {
			logger.Fatal("failed to connect to database", zap.Error(dbErr))
		}
		defer db.Close()

		if schemaErr := db.EnsureSchema(ctx); schemaErr != nil {
			logger.Fatal("failed to ensure schema", zap.Error(schemaErr))
		}
		stats := db.Stats()
		logger.Info("database connection pool initialized",
			zap.Int32("total_conns", stats.TotalConns()),
			zap.Int32("idle_conns", stats.IdleConns()),
		)
		resultRepo = repository.NewResultRepository(db)
		userRepo = repository.NewUserRepository(db)
	} else {
		logger.Info("no database configured; results will not be persisted and login is open")
	}

	sessionMgr := session.NewManager(cfg.Server.LeasePeriod, cfg.Server.MaxSessions, logger)
	logger.Info("session manager initialized",
		zap.Duration("lease_period", cfg.Server.LeasePeriod),
		zap.Int("max_sessions", cfg.Server.MaxSessions),
	)
	go sessionMgr.CleanupExpiredSessions(ctx)

	engineCfg, err := engineConfig(cfg.Game)
	if err != nil {
		logger.Fatal("invalid game configuration", zap.Error(err))
	}
	engine := game.NewEngine(engineCfg, logger)
	logger.Info("game engine initialized")

	lobbyMgr := lobby.NewManager(logger)
	logger.Info("lobby manager initialized")

	gateway := server.NewGateway(engine, sessionMgr, lobbyMgr, cfg.Server.WebSocket, logger)
	if userRepo != nil {
		gateway.BindAccounts(userRepo)
	}
	if resultRepo != nil {
		finished := make(chan string, 16)
		engine.SetNotificationHandler(func(ev rules.Event) {
			gateway.BroadcastEvent(ev)
			if ev.Type == rules.EventGameOver {
				select {
				case finished <- ev.GameID:
				default:
					logger.Warn("result queue full, dropping", zap.String("game_id", ev.GameID))
				}
			}
		})
		go persistResults(ctx, engine, resultRepo, finished, logger)
	} else {
		gateway.BindEngine()
	}

	go func() {
		if serveErr := gateway.Serve(); serveErr != nil {
			logger.Error("websocket gateway error", zap.Error(serveErr))
		}
	}()

	logger.Info("tycoon server initialized",
		zap.String("version", version),
		zap.String("websocket_address", cfg.Server.WebSocket.Address),
		zap.Int("max_sessions", cfg.Server.MaxSessions),
	)

	sig := <-sigChan
	logger.Info("received shutdown signal", zap.String("signal", sig.String()))

	logger.Info("shutting down gracefully...")
	cancel()
	sessionMgr.CloseAll()
	logger.Info("tycoon server stopped")
}

// engineConfig applies the configured rule overrides on top of the engine
// defaults.
func engineConfig(gc config.GameConfig) (game.Config, error) {
	cfg := game.DefaultConfig()
	if gc.StartingCash > 0 {
		cfg.StartingCash = gc.StartingCash
	}
	if gc.Salary > 0 {
		cfg.Salary = gc.Salary
	}
	if gc.MaxRounds > 0 {
		cfg.MaxRounds = gc.MaxRounds
	}
	if gc.MinPlayers > 0 {
		cfg.MinPlayers = gc.MinPlayers
	}
	if gc.MaxPlayers > 0 {
		cfg.MaxPlayers = gc.MaxPlayers
	}
	if gc.TaxRate > 0 {
		cfg.TaxRate = gc.TaxRate
	}
	if gc.BoardFile != "" {
		b, err := board.LoadFile(gc.BoardFile)
		if err != nil {
			return cfg, fmt.Errorf("load board %s: %w", gc.BoardFile, err)
		}
		cfg.Board = b
	}
	return cfg, nil
}

// persistResults saves final game records as games finish. Runs off the
// engine's emit path so the save never blocks a game.
func persistResults(ctx context.Context, engine *game.Engine, repo *repository.ResultRepository, finished <-chan string, logger *zap.Logger) {
	for {
		select {
		case <-ctx.Done():
			return
		case gameID := <-finished:
			result, err := engine.Result(gameID)
			if err != nil {
				logger.Error("read finished game result", zap.String("game_id", gameID), zap.Error(err))
				continue
			}
			saveCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			if err := repo.SaveResult(saveCtx, result); err != nil {
				logger.Error("persist game result", zap.String("game_id", gameID), zap.Error(err))
			}
			cancel()
		}
	}
}

// initLogger initializes the zap logger based on configuration
func initLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	switch cfg.Level {
	case "debug":
		level = zapcore.DebugLevel
	case "info":
		level = zapcore.InfoLevel
	case "warn":
		level = zapcore.WarnLevel
	case "error":
		level = zapcore.ErrorLevel
	default:
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}
