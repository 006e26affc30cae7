package main

import (
	"os"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"ItemStore/internal/items"
	"ItemStore/pkg/kit"
)

func main() {
	service := "items"
	log := kit.NewLogger(service)
	defer func() { _ = log.Sync() }()

	port := getenv("PORT", "5000")
	metricsToken := os.Getenv("METRICS_TOKEN")

	reg := prometheus.NewRegistry()
	s := &items.Server{Store: items.NewMemStore(), Log: log}

	h := items.NewHandler(s, items.HTTPDeps{
		Log:      log,
		Service:  service,
		Registry: reg,

		MetricsEnabled: metricsToken != "",
		MetricsToken:   metricsToken,

		RateLimit:         getenvInt("RATE_LIMIT", 0),
		RateWindowSeconds: getenvInt("RATE_WINDOW_SECONDS", 60),
	})

	if err := kit.RunHTTPServer(":"+port, h, log); err != nil {
		log.Fatal("http server stopped", zap.Error(err))
	}
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getenvInt(k string, def int) int {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}
