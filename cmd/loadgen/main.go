package main

import (
	"context"
	"flag"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"ItemStore/internal/loadgen"
	"ItemStore/pkg/kit"
)

func main() {
	target := flag.String("target", "http://127.0.0.1:5000", "base URL of the item service")
	users := flag.Int("users", 5, "number of concurrent simulated users")
	duration := flag.Duration("duration", 30*time.Second, "how long to run")
	withDelete := flag.Bool("with-delete", false, "include delete tasks")
	flag.Parse()

	log := kit.NewLogger("loadgen")
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Info("load run starting",
		zap.String("target", *target),
		zap.Int("users", *users),
		zap.Duration("duration", *duration),
		zap.Bool("with_delete", *withDelete),
	)

	r := loadgen.New(loadgen.Config{
		BaseURL:    *target,
		Users:      *users,
		Duration:   *duration,
		WithDelete: *withDelete,
		Log:        log,
	})

	stats := r.Run(ctx)

	for name, t := range stats.ByTask {
		avg := time.Duration(0)
		if t.Requests > 0 {
			avg = t.TotalLatency / time.Duration(t.Requests)
		}
		log.Info("task summary",
			zap.String("task", name),
			zap.Int("requests", t.Requests),
			zap.Int("failures", t.Failures),
			zap.Duration("avg_latency", avg),
		)
	}

	log.Info("load run finished",
		zap.Int("requests", stats.Requests()),
		zap.Int("failures", stats.Failures()),
	)
}
