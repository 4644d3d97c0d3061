package status

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/jo-hoe/tfcheck/internal/metrics"
	"github.com/jo-hoe/tfcheck/internal/validator"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Snapshot is the JSON body of GET /status.
type Snapshot struct {
	RunID            string           `json:"runId"`
	Files            int              `json:"files"`
	Records          int64            `json:"records"`
	Batches          int64            `json:"batches"`
	Dropped          int64            `json:"dropped"`
	DroppedByStage   map[string]int64 `json:"droppedByStage"`
	RecordsPerSecond float64          `json:"recordsPerSecond"`
	Elapsed          string           `json:"elapsed"`
	Done             bool             `json:"done"`
}

type Server struct {
	echo    *echo.Echo
	port    int
	runID   string
	tracker *validator.Tracker
}

// NewServer serves the state of tracker and the collectors of m on port.
func NewServer(port int, runID string, tracker *validator.Tracker, m *metrics.Metrics) *Server {
	s := &Server{
		echo:    defineServer(),
		port:    port,
		runID:   runID,
		tracker: tracker,
	}
	s.setRoutes(m)
	return s
}

// Start blocks until the server is shut down.
func (s *Server) Start() error {
	slog.Info("StatusServer: listening", "port", s.port)
	if err := s.echo.Start(fmt.Sprintf(":%d", s.port)); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("status server error: %w", err)
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

// ServeHTTP makes the server usable with httptest.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.echo.ServeHTTP(w, r)
}

func (s *Server) setRoutes(m *metrics.Metrics) {
	// Set health route
	s.echo.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "tfcheck is running")
	})

	s.echo.GET("/status", func(c echo.Context) error {
		return c.JSON(http.StatusOK, s.snapshot())
	})

	if m != nil {
		s.echo.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(m.Registry(), promhttp.HandlerOpts{})))
	}
}

func (s *Server) snapshot() Snapshot {
	stats := s.tracker.Snapshot()
	byStage := make(map[string]int64, len(stats.DroppedByStage))
	for stage, n := range stats.DroppedByStage {
		byStage[string(stage)] = n
	}
	return Snapshot{
		RunID:            s.runID,
		Files:            stats.Files,
		Records:          stats.Records,
		Batches:          stats.Batches,
		Dropped:          stats.Dropped,
		DroppedByStage:   byStage,
		RecordsPerSecond: stats.Throughput(),
		Elapsed:          stats.Elapsed.String(),
		Done:             stats.Done,
	}
}

func defineServer() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Configure request logger to skip the health endpoint
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/health"
		},
		LogStatus:    true,
		LogLatency:   true,
		LogMethod:    true,
		LogURI:       true,
		LogError:     true,
		LogRemoteIP:  true,
		LogRoutePath: true,
		HandleError:  false,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			attrs := []any{
				"method", v.Method,
				"uri", v.URI,
				"route", v.RoutePath,
				"status", v.Status,
				"latency", v.Latency,
				"remote_ip", v.RemoteIP,
			}
			if v.Error != nil {
				slog.Warn("StatusServer: request failed", append(attrs, "error", v.Error)...)
				return nil
			}
			slog.Debug("StatusServer: request", attrs...)
			return nil
		},
	}))

	e.Use(middleware.Recover())
	e.Pre(middleware.RemoveTrailingSlash())

	return e
}
