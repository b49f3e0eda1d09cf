package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/ChicagoDave/popsim/pkg/analytics"
	"github.com/ChicagoDave/popsim/pkg/resources"
	"github.com/ChicagoDave/popsim/pkg/spec"
	"github.com/ChicagoDave/popsim/pkg/validation"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// maxRunBodyBytes caps the size of POST /api/run override bodies.
const maxRunBodyBytes = 1 << 20

// Server exposes the synthesis pipeline over a JSON API.
type Server struct {
	spec     *spec.RunSpec
	port     int
	logger   *slog.Logger
	registry *prometheus.Registry
	metrics  *Metrics
}

// New creates a server for the run spec in the given project directory.
func New(projectPath string, port int, logger *slog.Logger) (*Server, error) {
	s, err := spec.LoadProject(projectPath)
	if err != nil {
		return nil, fmt.Errorf("loading spec: %w", err)
	}
	logger = logger.With("project", projectPath)
	return NewWithSpec(s, port, logger), nil
}

// NewWithSpec creates a server around an already loaded run spec.
func NewWithSpec(s *spec.RunSpec, port int, logger *slog.Logger) *Server {
	reg := prometheus.NewRegistry()
	return &Server{
		spec:     s,
		port:     port,
		logger:   logger,
		registry: reg,
		metrics:  NewMetrics(reg),
	}
}

// Router builds the gin engine with every route registered.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), s.requestLogger())

	r.GET("/healthz", s.handleHealth)
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{})))

	api := r.Group("/api")
	api.GET("/spec", s.handleSpec)
	api.GET("/validation", s.handleValidation)
	api.GET("/tables", s.handleTables)
	api.POST("/run", s.handleRun)

	return r
}

// Start launches the HTTP server.
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.port)
	s.logger.Info("popsim server starting", "url", "http://localhost"+addr)
	return s.Router().Run(addr)
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Debug("request",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleSpec(c *gin.Context) {
	c.JSON(http.StatusOK, s.spec)
}

func (s *Server) handleValidation(c *gin.Context) {
	c.JSON(http.StatusOK, validation.ValidateSchema(s.spec))
}

// tableView describes one built-in profile table.
type tableView struct {
	Name         string                                        `json:"name"`
	NativePolicy resources.Policy                              `json:"native_policy"`
	Profiles     resources.Table                               `json:"profiles"`
	Daily        map[string]map[string]resources.Coefficients `json:"daily"`
}

func (s *Server) handleTables(c *gin.Context) {
	out := make([]tableView, 0)
	for _, name := range resources.TableNames() {
		t, native, _ := resources.BuiltinTable(name)
		view := tableView{
			Name:         name,
			NativePolicy: native,
			Profiles:     t,
			Daily:        make(map[string]map[string]resources.Coefficients),
		}
		for _, p := range []resources.Policy{resources.PolicyAnnualToDaily, resources.PolicyDirectDaily} {
			daily, err := resources.Daily(t, p)
			if err != nil {
				continue
			}
			byCat := make(map[string]resources.Coefficients, len(daily))
			for cat, coeff := range daily {
				byCat[string(cat)] = coeff
			}
			view.Daily[string(p)] = byCat
		}
		out = append(out, view)
	}
	c.JSON(http.StatusOK, out)
}

// runRequest wraps the query flags of POST /api/run.
type runRequest struct {
	Individuals bool `form:"individuals"`
}

func (s *Server) handleRun(c *gin.Context) {
	var q runRequest
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	runSpec := s.spec.Clone()
	body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxRunBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": fmt.Sprintf("run overrides exceed %d bytes", maxRunBodyBytes)})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if len(bytes.TrimSpace(body)) > 0 {
		if err := json.Unmarshal(body, runSpec); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("parsing run overrides: %v", err)})
			return
		}
	}

	start := time.Now()
	res, report, err := analytics.Resolve(c.Request.Context(), runSpec)
	s.metrics.RunDurationSeconds.Observe(time.Since(start).Seconds())

	switch {
	case errors.Is(err, validation.ErrInvalidSpec):
		s.metrics.RunsTotal.WithLabelValues(outcomeInvalid).Inc()
		s.logger.Warn("run rejected", "summary", report.Summary)
		c.JSON(http.StatusUnprocessableEntity, gin.H{"validation": report})
		return
	case err != nil:
		s.metrics.RunsTotal.WithLabelValues(outcomeError).Inc()
		s.logger.Error("run failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	s.metrics.RunsTotal.WithLabelValues(outcomeSuccess).Inc()
	for cat, n := range res.Counts {
		s.metrics.IndividualsTotal.WithLabelValues(string(cat)).Add(float64(n))
	}
	s.logger.Info("run complete",
		"run_id", res.RunID,
		"seed", res.Seed,
		"population", res.Population,
		"duration", time.Since(start),
	)

	if !q.Individuals {
		res = res.WithoutIndividuals()
	}
	c.JSON(http.StatusOK, gin.H{"result": res, "validation": report})
}
