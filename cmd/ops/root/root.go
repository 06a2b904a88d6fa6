package root

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fastygo/hunter/internal/config"
	redisInfra "github.com/fastygo/hunter/internal/infrastructure/redis"
	"github.com/fastygo/hunter/internal/storage"
	"github.com/fastygo/hunter/pkg/logger"
	redisRepo "github.com/fastygo/hunter/repository/redis"
	leaderboardUC "github.com/fastygo/hunter/usecase/leaderboard"
)

// env is loaded once before any subcommand runs.
var env struct {
	cfg    *config.Config
	logger *zap.Logger
}

var rootCmd = &cobra.Command{
	Use:           "hunter-ops",
	Short:         "Maintenance commands for the hunter progression service",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		zapLogger, err := logger.New(logger.Config{
			Level:    cfg.Logger.Level,
			Encoding: cfg.Logger.Encoding,
		})
		if err != nil {
			return err
		}
		env.cfg, env.logger = cfg, zapLogger
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if env.logger != nil {
			_ = env.logger.Sync()
		}
	},
}

func Execute() {
	rootCmd.AddCommand(
		newMigrateCmd(),
		newSeedCmd(),
		newReconcileCmd(),
		newDrainCmd(),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, "error: "+err.Error())
		os.Exit(1)
	}
}

// openStores opens the primary store. With Redis enabled, profile and
// progress writes also drop the cached leaderboards. The returned func
// closes everything opened here.
func openStores(ctx context.Context) (*storage.Stores, func(), error) {
	stores, err := storage.Open(ctx, env.cfg, env.logger)
	if err != nil {
		return nil, nil, err
	}
	closeStores := func() { _ = stores.Close() }
	if !env.cfg.Redis.Enabled {
		return stores, closeStores, nil
	}

	client, err := redisInfra.NewClient(ctx, env.cfg.Redis, env.logger)
	if err != nil {
		env.logger.Warn("leaderboard cache unreachable, cached boards live until their TTL", zap.Error(err))
		return stores, closeStores, nil
	}
	cache := redisRepo.NewLeaderboardCache(client, env.cfg.Progression.LeaderboardTTL)
	stores.Profiles = leaderboardUC.InvalidatingProfiles(stores.Profiles, cache, env.logger)
	stores.Progress = leaderboardUC.InvalidatingProgress(stores.Progress, cache, env.logger)
	return stores, func() {
		closeStores()
		_ = client.Close()
	}, nil
}
