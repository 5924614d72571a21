package api

import (
	"net/http"
	"strconv"
	"time"

	"swizzle-client/internal/apiclient"
	"swizzle-client/internal/cart"
	"swizzle-client/internal/feed"
	"swizzle-client/internal/models"
	"swizzle-client/internal/promo"
	"swizzle-client/internal/redisclient"
	"swizzle-client/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Handler serves the kiosk's local HTTP surface: health and metrics for
// operators, plus read-only JSON views of the cart, board, and menu for
// the display layer.
type Handler struct {
	api           *apiclient.Client
	cache         *redisclient.Client
	cart          *cart.Store
	promos        *promo.Manager
	board         *feed.Board
	notifications *feed.NotificationCenter
	menuTTL       time.Duration
	logger        *zap.Logger
}

// NewHandler creates the kiosk HTTP handler.
func NewHandler(
	api *apiclient.Client,
	cache *redisclient.Client,
	cartStore *cart.Store,
	promos *promo.Manager,
	board *feed.Board,
	notifications *feed.NotificationCenter,
	menuTTL time.Duration,
) *Handler {
	return &Handler{
		api:           api,
		cache:         cache,
		cart:          cartStore,
		promos:        promos,
		board:         board,
		notifications: notifications,
		menuTTL:       menuTTL,
		logger:        util.GetLogger(),
	}
}

// SetupRoutes sets up HTTP routes
func (h *Handler) SetupRoutes(router *gin.Engine) {
	router.Use(gin.Recovery())
	router.Use(prometheusMiddleware())
	router.Use(gin.Logger())

	router.GET("/health", h.healthCheck)
	router.GET("/ready", h.readinessCheck)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/api/v1")
	{
		v1.GET("/cart", h.getCart)
		v1.GET("/menu", h.getMenu)
		v1.GET("/board", h.getBoard)
		v1.GET("/board/kitchen", h.getKitchenBoard)
		v1.GET("/board/export", h.exportBoard)
		v1.GET("/notifications", h.getNotifications)
	}
}

// healthCheck handles health check requests
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"time":   time.Now().Unix(),
	})
}

// readinessCheck handles readiness check requests
func (h *Handler) readinessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
		"time":   time.Now().Unix(),
	})
}

// getCart returns the current cart lines, totals, and promo attachment.
func (h *Handler) getCart(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"items": h.cart.Lines(),
		"count": h.cart.Count(),
		"total": h.cart.Total(),
		"promo": h.promos.Attachment(),
	})
}

// getMenu serves the menu cache-aside: cached snapshot when fresh, API
// fetch plus cache fill otherwise. A cache write failure degrades to
// uncached serving rather than an error.
func (h *Handler) getMenu(c *gin.Context) {
	ctx := c.Request.Context()

	if h.cache != nil {
		menu, err := h.cache.GetMenu(ctx)
		if err != nil {
			h.logger.Warn("Menu cache read failed", zap.Error(err))
		}
		if menu != nil {
			c.JSON(http.StatusOK, menu)
			return
		}
	}

	menu, err := h.api.FetchMenu(ctx)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{
			"error":   "Failed to fetch menu",
			"details": err.Error(),
		})
		return
	}

	if h.cache != nil {
		if err := h.cache.SetMenu(ctx, menu, h.menuTTL); err != nil {
			h.logger.Warn("Menu cache write failed", zap.Error(err))
		}
	}

	c.JSON(http.StatusOK, menu)
}

// getBoard returns the live order board, optionally filtered by status.
func (h *Handler) getBoard(c *gin.Context) {
	if status := c.Query("status"); status != "" {
		c.JSON(http.StatusOK, h.board.OrdersByStatus(models.OrderStatus(status)))
		return
	}
	c.JSON(http.StatusOK, h.board.Orders())
}

// getKitchenBoard returns active kitchen orders, longest-waiting first,
// each annotated with its urgency bucket.
func (h *Handler) getKitchenBoard(c *gin.Context) {
	now := time.Now()
	orders := h.board.KitchenOrders()

	out := make([]gin.H, 0, len(orders))
	for i := range orders {
		out = append(out, gin.H{
			"order":          orders[i],
			"elapsedMinutes": feed.ElapsedMinutes(&orders[i], now),
			"urgency":        feed.OrderUrgency(&orders[i], now),
		})
	}
	c.JSON(http.StatusOK, out)
}

// exportBoard streams the board as a CSV download.
func (h *Handler) exportBoard(c *gin.Context) {
	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", `attachment; filename="orders.csv"`)

	if err := feed.ExportCSV(c.Writer, h.board.Orders()); err != nil {
		h.logger.Error("CSV export failed", zap.Error(err))
	}
}

// getNotifications returns the notification tray. mark_read=true flags
// everything read after the snapshot is taken.
func (h *Handler) getNotifications(c *gin.Context) {
	entries := h.notifications.All()
	unread := h.notifications.UnreadCount()

	if c.Query("mark_read") == "true" {
		h.notifications.MarkAllRead()
	}

	c.JSON(http.StatusOK, gin.H{
		"notifications": entries,
		"unread":        unread,
	})
}

// prometheusMiddleware collects HTTP metrics
func prometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Writer.Status())

		util.HTTPRequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Observe(duration)

		util.HTTPRequestsTotal.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Inc()
	}
}
