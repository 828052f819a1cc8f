package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/ganado/internal/server/handlers"
)

const maxMultipartMemory = 32 << 20

// Handlers groups the HTTP handlers mounted by the router. Webhook is nil
// when the WhatsApp integration is disabled.
type Handlers struct {
	Session   *handlers.SessionHandler
	Livestock *handlers.LivestockHandler
	Sales     *handlers.SalesHandler
	Cash      *handlers.CashHandler
	Webhook   *handlers.WebhookHandler
}

// New wires the Gin engine with required routes and middlewares.
func New(h Handlers, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.MaxMultipartMemory = maxMultipartMemory
	r.Use(gin.Recovery())
	r.Use(zapLoggerMiddleware(logger))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api", h.Session.LoadSession())

	api.POST("/session/login", h.Session.Login)
	api.POST("/session/logout", h.Session.Logout)
	api.GET("/session/me", h.Session.Me)

	api.GET("/livestock", h.Livestock.List)
	api.GET("/livestock/:id", h.Livestock.Get)

	owner := api.Group("", handlers.RequireOwner())
	owner.POST("/livestock", h.Livestock.Create)
	owner.PUT("/livestock/:id", h.Livestock.Update)
	owner.DELETE("/livestock/:id", h.Livestock.Delete)

	owner.GET("/sales", h.Sales.List)
	owner.POST("/sales", h.Sales.Create)
	owner.GET("/sales/export.csv", h.Sales.ExportCSV)
	owner.GET("/sales/:id", h.Sales.Get)
	owner.GET("/sales/:id/snapshot.pdf", h.Sales.SnapshotPDF)
	owner.POST("/sales/:id/close-listing", h.Sales.CloseListing)

	owner.GET("/cash", h.Cash.List)
	owner.POST("/cash", h.Cash.Create)
	owner.PUT("/cash/:id", h.Cash.Update)
	owner.DELETE("/cash/:id", h.Cash.Delete)

	if h.Webhook != nil {
		r.GET("/webhook", h.Webhook.Verify)
		r.POST("/webhook", h.Webhook.Receive)
		owner.POST("/whatsapp/notify", h.Webhook.NotifyOwner)
	}

	if logger != nil {
		logger.Info("router initialized", zap.Bool("whatsapp", h.Webhook != nil))
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
