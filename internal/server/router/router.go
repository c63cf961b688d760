package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/riceledger/internal/metrics"
	"github.com/mamadbah2/riceledger/internal/server/handlers"
)

// Handlers groups the HTTP adapters mounted under /api.
type Handlers struct {
	Stock     *handlers.StockHandler
	Sales     *handlers.SalesHandler
	Records   *handlers.RecordsHandler
	Dashboard *handlers.DashboardHandler
}

// New wires the Gin engine with required routes and middlewares. A nil m
// leaves /metrics unmounted.
func New(h Handlers, m *metrics.Metrics, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(zapLoggerMiddleware(logger))
	r.Use(metricsMiddleware(m))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if m != nil {
		r.GET("/metrics", gin.WrapH(m.Handler()))
	}

	api := r.Group("/api")

	stock := api.Group("/stock")
	stock.POST("", h.Stock.Create)
	stock.GET("", h.Stock.List)
	stock.PUT("/:id", h.Stock.Update)
	stock.DELETE("/:id", h.Stock.Delete)

	sales := api.Group("/sales")
	sales.POST("", h.Sales.Create)
	sales.GET("", h.Sales.List)
	sales.GET("/:id", h.Sales.Get)
	sales.PUT("/:id", h.Sales.Update)
	sales.DELETE("/:id", h.Sales.Delete)

	api.GET("/orders", h.Records.Orders)
	api.GET("/wages", h.Records.Wages)
	api.GET("/expenses", h.Records.Expenses)
	api.GET("/employees", h.Records.Employees)

	api.GET("/dashboard", h.Dashboard.Get)
	api.GET("/dashboard/export", h.Dashboard.Export)

	if logger != nil {
		logger.Info("router initialized")
	}

	return r
}

func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Info("request completed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("client_ip", c.ClientIP()))
	}
}

// metricsMiddleware labels requests by route template so ids do not
// explode the label space.
func metricsMiddleware(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.RequestServed(c.Request.Method, route, c.Writer.Status(), time.Since(start))
	}
}
