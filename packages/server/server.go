// Package server exposes the execution API over HTTP.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/abdul-hamid-achik/hitrelay/packages/executor"
	hitlog "github.com/abdul-hamid-achik/hitrelay/packages/log"
	"github.com/abdul-hamid-achik/hitrelay/packages/stats"
	"github.com/abdul-hamid-achik/hitrelay/packages/store"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// ExecutionIDHeader carries the execution id assigned to a POST /execute call.
const ExecutionIDHeader = "X-Execution-Id"

// Runner executes a request description. *executor.Executor satisfies it.
type Runner interface {
	Execute(ctx context.Context, desc executor.Description) (executor.Result, string)
}

// Server is the inbound HTTP API
type Server struct {
	runner      Runner
	store       store.Store
	reader      store.Reader
	stats       *stats.Collector
	limiter     *rate.Limiter
	corsOrigins []string
	addr        string
	logger      *logrus.Logger
	engine      *gin.Engine
}

// Option is a functional option for Server
type Option func(*Server)

// WithAddr sets the listen address, e.g. ":5000".
func WithAddr(addr string) Option {
	return func(s *Server) {
		s.addr = addr
	}
}

// WithStore enables POST /tables/:tableName/items against st.
func WithStore(st store.Store) Option {
	return func(s *Server) {
		s.store = st
	}
}

// WithReader enables GET /executions/:id.
func WithReader(r store.Reader) Option {
	return func(s *Server) {
		s.reader = r
	}
}

// WithStats enables GET /stats.
func WithStats(c *stats.Collector) Option {
	return func(s *Server) {
		s.stats = c
	}
}

// WithRateLimit limits POST /execute to perSecond requests with the given
// burst. A non-positive rate disables limiting.
func WithRateLimit(perSecond float64, burst int) Option {
	return func(s *Server) {
		if perSecond <= 0 {
			s.limiter = nil
			return
		}
		if burst < 1 {
			burst = 1
		}
		s.limiter = rate.NewLimiter(rate.Limit(perSecond), burst)
	}
}

// WithCORSOrigins sets the allowed CORS origins. "*" allows all.
func WithCORSOrigins(origins []string) Option {
	return func(s *Server) {
		s.corsOrigins = origins
	}
}

// WithLogger overrides the shared logger.
func WithLogger(l *logrus.Logger) Option {
	return func(s *Server) {
		s.logger = l
	}
}

// New builds the server and its routes.
func New(runner Runner, opts ...Option) *Server {
	s := &Server{
		runner:      runner,
		addr:        ":5000",
		corsOrigins: []string{"*"},
		logger:      hitlog.GetLogger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.engine = s.routes()
	return s
}

// Handler returns the http.Handler serving the API.
func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) routes() *gin.Engine {
	r := gin.New()
	r.Use(requestLogger(s.logger))
	r.Use(gin.CustomRecovery(func(c *gin.Context, recovered any) {
		s.logger.WithField("panic", recovered).Error("Error handling request")
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": executor.ErrExecutionFailed})
	}))
	r.Use(cors.New(s.corsConfig()))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})
	r.GET("/test", func(c *gin.Context) {
		c.String(http.StatusOK, "hello! world")
	})
	r.GET("/api-docs/openapi.json", s.openAPIDocument)

	r.POST("/execute", s.rateLimit(), s.execute)
	r.POST("/tables/:tableName/items", s.createItem)
	r.GET("/executions/:id", s.getExecution)
	r.GET("/stats", s.getStats)

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not Found"})
	})

	return r
}

func (s *Server) corsConfig() cors.Config {
	cfg := cors.DefaultConfig()
	cfg.AllowHeaders = append(cfg.AllowHeaders, "Authorization")
	cfg.ExposeHeaders = []string{ExecutionIDHeader}

	for _, origin := range s.corsOrigins {
		if origin == "*" {
			cfg.AllowAllOrigins = true
			return cfg
		}
	}
	if len(s.corsOrigins) == 0 {
		cfg.AllowAllOrigins = true
		return cfg
	}
	cfg.AllowOrigins = s.corsOrigins
	return cfg
}

func (s *Server) rateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		if s.limiter != nil && !s.limiter.Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Too Many Requests"})
			return
		}
		c.Next()
	}
}

func requestLogger(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.WithFields(logrus.Fields{
			"method":   c.Request.Method,
			"path":     c.Request.URL.Path,
			"status":   c.Writer.Status(),
			"duration": time.Since(start).String(),
		}).Debug("Handled request")
	}
}

// StartWithContext serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) StartWithContext(ctx context.Context) error {
	server := &http.Server{
		Addr:              s.addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			s.logger.WithError(err).Warn("Server shutdown failed")
		}
	}()

	s.logger.Infof("Server running on %s", s.addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
