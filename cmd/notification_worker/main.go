package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/oksasatya/locshare-api/config"
	"github.com/oksasatya/locshare-api/internal/application"
	"github.com/oksasatya/locshare-api/internal/infrastructure/redisstore"
	"github.com/oksasatya/locshare-api/pkg/helpers"
	"github.com/oksasatya/locshare-api/pkg/push"
)

// The notification worker runs the sweep on a fixed interval. Any number
// of replicas may run; the Redis lock ensures only one sweeps per tick.
func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-notification-worker", cfg.Env)

	rdb := helpers.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	defer func() { _ = rdb.Close() }()

	sweep := application.NewSweepService(
		redisstore.NewUserStore(rdb),
		redisstore.NewPendingStore(rdb),
		redisstore.NewLock(rdb),
		push.NewLogGateway(logger),
		logger,
		cfg.SweepLockTTL,
		cfg.PendingStaleThreshold,
		cfg.VisibleNotifyCooldown,
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	ticker := time.NewTicker(cfg.SweepLockTTL)
	defer ticker.Stop()

	logger.Infof("notification worker sweeping every %s", cfg.SweepLockTTL)
	for {
		select {
		case <-stop:
			logger.Info("notification worker shutting down")
			return
		case <-ticker.C:
			if _, err := sweep.RunSweep(ctx); err != nil {
				logger.WithError(err).Error("sweep failed")
			}
		}
	}
}
