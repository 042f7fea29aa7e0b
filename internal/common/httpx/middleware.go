package httpx

import (
	"net/http"
	"time"

	"restaurant-pos/internal/common/logger"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	HeaderRequestID = "X-Request-ID"
	loggerKey       = "logger"
)

// Logger returns the request-scoped logger set by RequestID.
func Logger(c *gin.Context) *logger.Logger {
	if v, ok := c.Get(loggerKey); ok {
		if lg, ok := v.(*logger.Logger); ok {
			return lg
		}
	}
	return logger.NewNop()
}

func RequestID(lg *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(HeaderRequestID)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(loggerKey, lg.WithRequestID(id))
		c.Header(HeaderRequestID, id)
		c.Next()
	}
}

func AccessLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		Logger(c).Debug("http_request", map[string]any{
			"method":      c.Request.Method,
			"path":        c.Request.URL.Path,
			"status":      c.Writer.Status(),
			"duration_ms": time.Since(start).Milliseconds(),
		})
	}
}

// Limit rejects requests with 503 once max are in flight. max <= 0 disables it.
func Limit(max int) gin.HandlerFunc {
	if max <= 0 {
		return func(c *gin.Context) { c.Next() }
	}
	sem := make(chan struct{}, max)
	return func(c *gin.Context) {
		select {
		case sem <- struct{}{}:
			defer func() { <-sem }()
			c.Next()
		default:
			writeProblem(c, http.StatusServiceUnavailable, "UNAVAILABLE", "too many concurrent requests")
		}
	}
}

// CORS allows the given origins; an empty list disables the middleware.
func CORS(origins []string) gin.HandlerFunc {
	if len(origins) == 0 {
		return func(c *gin.Context) { c.Next() }
	}
	return cors.New(cors.Config{
		AllowOrigins:  origins,
		AllowMethods:  []string{"GET", "POST", "PUT", "PATCH", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", HeaderRequestID},
		ExposeHeaders: []string{"Content-Length", HeaderRequestID},
		MaxAge:        12 * time.Hour,
	})
}

func recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, rec any) {
		Logger(c).Error("panic_recovered", nil, map[string]any{"panic": rec, "path": c.Request.URL.Path})
		writeProblem(c, http.StatusInternalServerError, "UNKNOWN", "internal error")
	})
}

type Options struct {
	MaxConcurrent int
	CORSOrigins   []string
}

// NewEngine returns a gin engine with the shared middleware chain and a
// problem-shaped 404 for unknown routes.
func NewEngine(lg *logger.Logger, opts Options) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	e := gin.New()
	e.Use(RequestID(lg), recovery(), AccessLog(), CORS(opts.CORSOrigins), Limit(opts.MaxConcurrent))
	e.NoRoute(func(c *gin.Context) {
		writeProblem(c, http.StatusNotFound, "NOT_FOUND", "no route for "+c.Request.Method+" "+c.Request.URL.Path)
	})
	return e
}
