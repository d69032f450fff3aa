package main // activity-log worker entry point

import (
	"context"   // cancellation on signal
	"errors"    // errors.Is for the cancellation sentinel
	"os"        // signals and env
	"os/signal" // stop on SIGINT/SIGTERM
	"syscall"   // SIGTERM

	"github.com/labstack/gommon/log" // leveled logger

	"github.com/iliyamo/studentdev-hub/internal/config" // env configuration
	"github.com/iliyamo/studentdev-hub/internal/queue"  // activity consumer
)

// The worker drains the activity queue into <ACTIVITY_LOG_DIR>/activity.log.
// It needs only the broker URL, so it does not go through config.Load,
// which would demand JWT_SECRET.
func main() {
	config.LoadDotEnv()

	dir := os.Getenv("ACTIVITY_LOG_DIR")
	if dir == "" {
		dir = "logs"
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	url := config.RabbitURL()
	log.Infof("activity worker: consuming into %s", dir)
	if err := queue.StartActivityConsumer(ctx, url, dir); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatal(err)
	}
	log.Info("activity worker: stopped")
}
