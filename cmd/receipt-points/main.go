package main

import (
	"context"
	_ "embed"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/peterbourgon/ff/v4"
	"github.com/peterbourgon/ff/v4/ffhelp"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/zombor/receipt-points/internal/points"
	"github.com/zombor/receipt-points/internal/receipt"
)

//go:embed VERSION.txt
var versionFile string

var version = strings.TrimSpace(versionFile)

func main() {
	// Check for version flag before parsing other flags
	for _, arg := range os.Args[1:] {
		if arg == "--version" || arg == "-version" || arg == "-v" {
			fmt.Println(version)
			os.Exit(0)
		}
	}

	fs := ff.NewFlagSet("receipt-points")
	var (
		port        = fs.IntLong("port", 8080, "HTTP server port")
		storeType   = fs.StringLong("store", "memory", "Score store: 'memory' or 'bolt'")
		dbDir       = fs.StringLong("db-dir", "", "Directory for the bolt file, removed on exit (default: system temp dir)")
		logLevel    = fs.StringLong("log-level", "info", "Log level: debug, info, warn or error")
		logFormat   = fs.StringLong("log-format", "text", "Log format: 'text' or 'json'")
		noMetrics   = fs.BoolLong("no-metrics", "Do not expose Prometheus metrics on /metrics")
		showVersion = fs.BoolLong("version", "Show version information")
	)

	if err := ff.Parse(fs, os.Args[1:],
		ff.WithEnvVarPrefix("RECEIPT_POINTS"),
	); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", ffhelp.Flags(fs))
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	// Check version flag after parsing
	if *showVersion {
		fmt.Println(version)
		os.Exit(0)
	}

	if err := setupLogging(*logLevel, *logFormat); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	// Initialize store
	var store receipt.Store
	switch *storeType {
	case "memory":
		slog.Info("Using in-memory store")
		store = receipt.NewMemoryStore()
	case "bolt":
		boltStore, err := receipt.NewBoltStore(*dbDir)
		if err != nil {
			slog.Error("Failed to initialize bolt store", "error", err)
			os.Exit(1)
		}
		slog.Info("Using bolt store", "path", boltStore.Path())
		store = boltStore
	default:
		slog.Error("Invalid store type", "type", *storeType, "valid", "memory or bolt")
		os.Exit(1)
	}
	defer store.Close()

	// Initialize service
	metrics := receipt.NewMetrics("receipt_points", prometheus.DefaultRegisterer)
	service := receipt.NewService(store, points.NewEngine(), metrics)

	// Initialize server
	var metricsHandler http.Handler
	if !*noMetrics {
		metricsHandler = promhttp.Handler()
	}
	server := receipt.NewServer(service, metricsHandler)

	// Start server in goroutine
	addr := fmt.Sprintf(":%d", *port)
	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start(addr)
	}()

	slog.Info("Server started", "address", fmt.Sprintf("http://localhost%s", addr), "version", version)

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	select {
	case <-sigChan:
	case err := <-errCh:
		if err != nil {
			slog.Error("Server error", "error", err)
			store.Close()
			os.Exit(1)
		}
	}

	n, err := service.Count()
	if err != nil {
		slog.Warn("Failed to count receipts", "error", err)
	}
	slog.Info("Shutting down...", "receipts", n)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		slog.Error("Shutdown error", "error", err)
	}
}

// setupLogging installs the default slog logger
func setupLogging(level, format string) error {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return fmt.Errorf("parsing log level: %w", err)
	}
	opts := &slog.HandlerOptions{Level: lvl}

	switch format {
	case "text":
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, opts)))
	case "json":
		slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, opts)))
	default:
		return fmt.Errorf("invalid log format %q", format)
	}
	return nil
}
