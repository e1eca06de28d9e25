package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/magefree/mage-goldfish-go/internal/config"
	"github.com/magefree/mage-goldfish-go/internal/goldfish"
	"github.com/magefree/mage-goldfish-go/internal/repository"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var version = "dev" // set via ldflags during build

func main() {
	flags := pflag.NewFlagSet("goldfish", pflag.ExitOnError)
	configPath := flags.String("config", "config/goldfish.yaml", "path to configuration file")
	config.RegisterFlags(flags)
	_ = flags.Parse(os.Args[1:])

	cfg, err := config.Load(*configPath, flags)
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

	logger.Info("starting goldfish",
		zap.String("version", version),
		zap.String("config", *configPath),
		zap.Int("games", cfg.Goldfish.Games),
		zap.Int64("seed", cfg.Goldfish.Seed),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runner, err := goldfish.NewRunner(cfg.Deck(), cfg.ValueTable(), cfg.RunnerOptions(), logger)
	if err != nil {
		logger.Fatal("failed to create runner", zap.Error(err))
	}

	summary, err := runner.RunMany(ctx, cfg.Goldfish.Games, cfg.Goldfish.Workers, cfg.Goldfish.Seed)
	if err != nil {
		logger.Error("goldfish run failed", zap.Error(err))
		os.Exit(1)
	}
	printSummary(summary)

	if cfg.Database.Enabled() {
		if err := storeSummary(ctx, cfg, summary, logger); err != nil {
			logger.Error("failed to store results", zap.Error(err))
			os.Exit(1)
		}
	}
}

func storeSummary(ctx context.Context, cfg *config.Config, summary goldfish.Summary, logger *zap.Logger) error {
	db, err := repository.NewDB(ctx, cfg.Database, logger)
	if err != nil {
		return err
	}
	defer db.Close()

	runs := repository.NewRunRepository(db)
	if err := runs.Migrate(ctx); err != nil {
		return err
	}
	id, err := runs.Save(ctx, cfg.Deck(), summary)
	if err != nil {
		return err
	}
	fmt.Printf("stored as run %s\n", id)
	return nil
}

func printSummary(s goldfish.Summary) {
	fmt.Printf("games: %d  wins: %d  average turns to win: %.2f\n", s.Games, s.Wins, s.AverageTurns)
	for _, turn := range s.Turns() {
		fmt.Printf("  turn %2d: %d\n", turn, s.TurnsToWin[turn])
	}
}

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
