// Command teamspaced runs the teamspace background daemon: it opens
// the database and drives the deadline scan scheduler. Request
// handling lives in the surrounding deployment and calls into the
// repository layer directly; this binary only owns the recurring work.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/nhle/teamspace/internal/logging"
	"github.com/nhle/teamspace/internal/model"
	"github.com/nhle/teamspace/internal/notify"
	"github.com/nhle/teamspace/internal/scheduler"
	"github.com/nhle/teamspace/internal/store"
)

func main() {
	configPath := flag.String("config", model.DefaultConfigPath(), "path to config file")
	flag.Parse()

	// A missing .env is fine; a broken one is not.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		panic(err)
	}

	cfg, err := model.LoadConfig(*configPath)
	if err != nil {
		logging.New(model.LogConfig{}, true).Fatalf("loading config: %v", err)
	}

	log := logging.New(cfg.Log, true)
	log.Infof("starting teamspaced, database at %s", cfg.DatabasePath)

	s, err := store.NewSQLiteStore(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("opening store: %v", err)
	}
	defer s.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	scanner := scheduler.New(
		s,
		notify.New(s),
		cfg.Location(),
		time.Duration(cfg.Scheduler.IntervalSec)*time.Second,
		log,
	)

	log.Infof("deadline scan every %ds, timezone %s", cfg.Scheduler.IntervalSec, cfg.Timezone)
	scanner.Run(ctx)

	log.Info("shutting down")
}
