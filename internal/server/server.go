package server

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/Houeta/hrkeeper/internal/metrics"
	"github.com/Houeta/hrkeeper/internal/models"
	"github.com/Houeta/hrkeeper/internal/service"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// EmployeeManager is the employee record manager consumed by the handlers.
type EmployeeManager interface {
	Create(ctx context.Context, input service.EmployeeInput) (models.Employee, error)
	Get(ctx context.Context, id string) (models.Employee, error)
	List(ctx context.Context) ([]models.Employee, error)
	Update(ctx context.Context, id string, input service.EmployeeInput) (models.Employee, error)
	PartialUpdate(ctx context.Context, id string, patch service.EmployeePatch) (models.Employee, error)
	Delete(ctx context.Context, id string) error
}

// AttendanceManager is the attendance record manager consumed by the handlers.
type AttendanceManager interface {
	Create(ctx context.Context, input service.AttendanceInput) (models.Attendance, error)
	Get(ctx context.Context, id string) (models.Attendance, error)
	List(ctx context.Context, filter service.AttendanceListFilter) ([]models.Attendance, error)
	Update(ctx context.Context, id string, input service.AttendanceInput) (models.Attendance, error)
	Delete(ctx context.Context, id string) error
	ListForEmployee(
		ctx context.Context,
		employeeID, startDate, endDate string,
	) (models.Employee, []models.Attendance, models.AttendanceStats, error)
	ExportReport(ctx context.Context, employeeID, startDate, endDate string) (*bytes.Buffer, string, error)
}

// Server is the REST surface of the service.
type Server struct {
	app        *fiber.App
	log        *slog.Logger
	employees  EmployeeManager
	attendance AttendanceManager
}

// New creates the Fiber application with its middleware and route table.
// The metrics argument may be nil; request metrics are then not recorded.
func New(log *slog.Logger, employees EmployeeManager, attendance AttendanceManager, mtr *metrics.Metrics) *Server {
	app := fiber.New(fiber.Config{
		AppName:               "hrkeeper",
		DisableStartupMessage: true,
	})

	app.Use(cors.New(cors.Config{
		AllowMethods: "GET,POST,PUT,PATCH,DELETE,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	srv := &Server{
		app:        app,
		log:        log,
		employees:  employees,
		attendance: attendance,
	}

	app.Use(srv.requestObserver(mtr))
	srv.registerRoutes()

	return srv
}

// App exposes the underlying Fiber application, used by tests.
func (s *Server) App() *fiber.App {
	return s.app
}

// Listen starts serving on the given address and blocks until shutdown.
func (s *Server) Listen(addr string) error {
	if err := s.app.Listen(addr); err != nil {
		return fmt.Errorf("api server failed: %w", err)
	}

	return nil
}

// Shutdown gracefully stops the server within the given timeout.
func (s *Server) Shutdown(timeout time.Duration) error {
	if err := s.app.ShutdownWithTimeout(timeout); err != nil {
		return fmt.Errorf("api server shutdown failed: %w", err)
	}

	return nil
}

func (s *Server) registerRoutes() {
	// Employee endpoints
	s.app.Get("/employees", s.listEmployees)
	s.app.Post("/employees", s.createEmployee)
	s.app.Get("/employees/:id", s.getEmployee)
	s.app.Put("/employees/:id", s.updateEmployee)
	s.app.Delete("/employees/:id", s.deleteEmployee)
	s.app.Patch("/employees/:id/update", s.patchEmployee)

	// Attendance endpoints
	s.app.Get("/attendance", s.listAttendance)
	s.app.Post("/attendance", s.createAttendance)
	s.app.Get("/attendance/:id", s.getAttendance)
	s.app.Put("/attendance/:id", s.updateAttendance)
	s.app.Delete("/attendance/:id", s.deleteAttendance)
	s.app.Get("/employees/:employeeId/attendance", s.employeeAttendance)
	s.app.Get("/employees/:employeeId/attendance/report", s.employeeAttendanceReport)
}

// requestObserver logs every handled request and records request metrics.
func (s *Server) requestObserver(mtr *metrics.Metrics) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		elapsed := time.Since(start)

		if mtr != nil {
			route := c.Route().Path
			mtr.HTTPRequests.WithLabelValues(c.Method(), route, strconv.Itoa(status)).Inc()
			mtr.HTTPDuration.WithLabelValues(c.Method(), route).Observe(elapsed.Seconds())
		}

		s.log.InfoContext(c.UserContext(), "Request handled",
			slog.String("method", c.Method()),
			slog.String("path", c.Path()),
			slog.Int("status", status),
			slog.Duration("duration", elapsed),
		)

		return err
	}
}

// StartMonitoringServer starts an HTTP server that provides health check and metrics endpoints.
// It listens on the specified port and logs the server's status and any errors encountered.
//
// Parameters:
// - ctx: A context.Context for managing cancellation and timeouts.
// - log: A logger for logging server events and errors.
// - reg: A registry with Prometheus collectors.
// - dtb: A database connection for health checks (ping).
// - port: The port number on which the server will listen.
func StartMonitoringServer(
	ctx context.Context,
	log *slog.Logger,
	reg *prometheus.Registry,
	dtb DBPinger,
	port int,
) {
	mux := http.NewServeMux()
	healthChecker := NewHealthChecker(log, dtb)

	mux.Handle("/healthz", healthChecker)
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	log.InfoContext(ctx, "Starting monitoring server", "port", port)

	readTimeout := 5
	writeTimeout := 10
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      mux,
		ReadTimeout:  time.Duration(readTimeout) * time.Second,
		WriteTimeout: time.Duration(writeTimeout) * time.Second,
	}

	var err error
	serverErr := make(chan error, 1)
	go func() {
		serverErr <- server.ListenAndServe()
	}()
	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(readTimeout)*time.Second)
		defer cancel()
		log.InfoContext(ctx, "Monitoring server shutting down.")
		if err = server.Shutdown(shutdownCtx); err != nil {
			log.ErrorContext(ctx, "Monitoring server failed to shutdown", "error", err)
			return
		}
	case err = <-serverErr:
		log.ErrorContext(ctx, "Monitoring server failed", "error", err)
	}
}
