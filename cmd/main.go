package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/Houeta/hrkeeper/config"
	"github.com/Houeta/hrkeeper/internal/metrics"
	"github.com/Houeta/hrkeeper/internal/repository"
	"github.com/Houeta/hrkeeper/internal/server"
	"github.com/Houeta/hrkeeper/internal/service"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Constants for different environment types.
const (
	envLocal = "local"
	envDev   = "development"
	envProd  = "production"
)

const shutdownTimeout = 5 * time.Second

// main is the entry point of the application.
func main() {
	// Create a context that will be canceled when an interrupt signal is received.
	// This allows for graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)

	// Load application configuration.
	cfg := config.MustLoad()

	// Set up the logger based on the environment.
	logger := setupLogger(cfg.Env)

	// Create a separate registry for metrics
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	appMetrics := metrics.NewMetrics(reg)

	// Initialize the database connection.
	dtb, err := repository.NewDatabase(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to DB: %v", err)
	}

	// Create a new repository instance using the database connection and
	// make sure the tables and their unique constraints exist.
	repo := repository.NewRepository(dtb, appMetrics)
	if err = repo.EnsureSchema(ctx); err != nil {
		log.Fatalf("Failed to ensure database schema: %v", err)
	}

	// Create the record managers and the REST server.
	employeeService := service.NewEmployeeService(repo)
	attendanceService := service.NewAttendanceService(repo, appMetrics)
	apiServer := server.New(logger, employeeService, attendanceService, appMetrics)

	defer stop() // Ensure stop is called to release resources related to signal handling.
	defer dtb.Close()

	// Log that the application has started.
	logger.InfoContext(ctx, "Application started. Press Ctrl+C to stop.", "port", cfg.HTTPPort)

	// Start the API server in a goroutine to allow main to listen for signals.
	go func() {
		addr := net.JoinHostPort("", strconv.Itoa(cfg.HTTPPort))
		if errListen := apiServer.Listen(addr); errListen != nil {
			logger.ErrorContext(ctx, "API server failed", "error", errListen)
			stop()
		}
	}()

	// Start the monitoring server
	go server.StartMonitoringServer(ctx, logger, reg, dtb, cfg.MonitoringPort)

	// Wait for the context to be canceled (e.g., by Ctrl+C).
	<-ctx.Done()

	// Log that a shutdown signal has been received.
	logger.InfoContext(ctx, "Shutdown signal received. Stopping application...")

	// Stop the API server gracefully.
	if err = apiServer.Shutdown(shutdownTimeout); err != nil {
		logger.ErrorContext(ctx, "Failed to stop API server gracefully", "error", err)
	}

	// Log graceful shutdown completion.
	logger.InfoContext(ctx, "Application stopped gracefully.")
}

// setupLogger initializes and returns a logger based on the environment provided.
func setupLogger(env string) *slog.Logger {
	var logger *slog.Logger

	switch env {
	case envLocal:
		logger = slog.New(
			slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
				Level:     slog.LevelDebug,
				AddSource: true,
			}),
		)
	case envDev:
		logger = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level:     slog.LevelInfo,
				AddSource: false,
			}),
		)
	case envProd:
		logger = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level:     slog.LevelWarn,
				AddSource: false,
				ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
					if a.Key == slog.TimeKey {
						return slog.Attr{}
					}
					return a
				},
			}),
		)
	default:
		logger = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level:     slog.LevelError,
				AddSource: false,
			}),
		)

		logger.Error(
			fmt.Sprintf("The env parameter %q was not specified or was invalid. Logging will be minimal, by default.", env),
			slog.String("available_envs", "local, development, production"))
	}

	return logger
}
