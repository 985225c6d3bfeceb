package api

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/FERRETERIA-JyM-GUTIERREZ/AP-WEB-FERRE-JMG-sub001/internal/api/handlers"
	"github.com/FERRETERIA-JyM-GUTIERREZ/AP-WEB-FERRE-JMG-sub001/internal/api/middleware"
	"github.com/FERRETERIA-JyM-GUTIERREZ/AP-WEB-FERRE-JMG-sub001/internal/checkout"
	"github.com/FERRETERIA-JyM-GUTIERREZ/AP-WEB-FERRE-JMG-sub001/internal/config"
	"github.com/FERRETERIA-JyM-GUTIERREZ/AP-WEB-FERRE-JMG-sub001/internal/domain"
	"github.com/FERRETERIA-JyM-GUTIERREZ/AP-WEB-FERRE-JMG-sub001/internal/repository"
	"github.com/FERRETERIA-JyM-GUTIERREZ/AP-WEB-FERRE-JMG-sub001/internal/store"
)

// NewRouter creates and configures the Gin router
func NewRouter(
	cfg *config.Config,
	repos *repository.Repositories,
	sessions *store.SessionStore,
	checkoutSvc *checkout.Service,
	logger *zap.Logger,
) *gin.Engine {
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Middleware
	router.Use(customRecovery(logger))
	router.Use(loggingMiddleware(logger))
	router.Use(middleware.SessionMiddleware())

	// Root: friendly response so GET / returns 200 instead of 404
	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"service": "Ferreteria JyM Gutierrez API",
			"endpoints": []string{
				"GET /health",
				"GET /v1/products",
				"GET /v1/destinations",
				"GET /v1/cart",
				"POST /v1/checkout",
				"GET /v1/orders",
				"GET /v1/calendar/:year/:month",
			},
		})
	})

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	v1 := router.Group("/v1")
	{
		// Public routes
		v1.POST("/auth/register", handlers.HandleRegister(cfg, repos, logger))
		v1.POST("/auth/login", handlers.HandleLogin(cfg, repos, sessions, logger))
		v1.POST("/auth/staff/login", handlers.HandleStaffLogin(cfg, repos, logger))
		v1.GET("/products", handlers.HandleListProducts(repos, logger))
		v1.GET("/products/:id", handlers.HandleGetProduct(repos, logger))
		v1.GET("/destinations", handlers.HandleListDestinations(repos, logger))

		// Guest-capable routes: work anonymously against the session key,
		// and against the account when a token is present.
		guestRoutes := v1.Group("")
		guestRoutes.Use(middleware.OptionalAuthMiddleware(cfg, repos, logger))
		{
			guestRoutes.GET("/cart", handlers.HandleGetCart(sessions, logger))
			guestRoutes.PUT("/cart", handlers.HandleUpdateCart(repos, sessions, logger))
			guestRoutes.DELETE("/cart", handlers.HandleClearCart(sessions, logger))
			guestRoutes.POST("/cart", handlers.HandleAddCartItem(repos, sessions, logger))
			guestRoutes.PATCH("/cart/items/:productID", handlers.HandleUpdateCartItem(sessions, logger))
			guestRoutes.DELETE("/cart/items/:productID", handlers.HandleRemoveCartItem(sessions, logger))

			guestRoutes.GET("/favorites", handlers.HandleListFavorites(repos, sessions, logger))
			guestRoutes.PUT("/favorites/:productID", handlers.HandleAddFavorite(repos, sessions, logger))
			guestRoutes.DELETE("/favorites/:productID", handlers.HandleRemoveFavorite(repos, sessions, logger))

			checkoutRoutes := guestRoutes.Group("")
			checkoutRoutes.Use(middleware.IdempotencyMiddleware(repos, logger))
			{
				checkoutRoutes.POST("/checkout", handlers.HandleCheckout(cfg, checkoutSvc, repos, logger))
			}
		}

		// Account routes (require authentication)
		authRoutes := v1.Group("")
		authRoutes.Use(middleware.AuthMiddleware(cfg, repos, logger))
		{
			authRoutes.GET("/me", handlers.HandleGetProfile(logger))
			authRoutes.PATCH("/me", handlers.HandleUpdateProfile(repos, logger))
			authRoutes.POST("/me/password", handlers.HandleChangePassword(repos, logger))

			authRoutes.POST("/favorites/merge", handlers.HandleMergeFavorites(repos, sessions, logger))

			authRoutes.GET("/orders", handlers.HandleListMyOrders(repos, logger))
			authRoutes.GET("/orders/:id", handlers.HandleGetOrder(repos, logger))

			authRoutes.GET("/calendar/:year/:month", handlers.HandleGetCalendarMonth(repos, logger))
			authRoutes.GET("/notes", handlers.HandleListNotes(repos, logger))
			authRoutes.GET("/notes/:id", handlers.HandleGetNote(repos, logger))
			authRoutes.POST("/notes", handlers.HandleCreateNote(repos, logger))
			authRoutes.PUT("/notes/:id", handlers.HandleUpdateNote(repos, logger))
			authRoutes.DELETE("/notes/:id", handlers.HandleDeleteNote(repos, logger))
		}

		// Staff routes
		staffRoutes := v1.Group("/staff")
		staffRoutes.Use(middleware.AuthMiddleware(cfg, repos, logger))
		staffRoutes.Use(middleware.RequireStaff())
		{
			staffRoutes.POST("/products", handlers.HandleCreateProduct(repos, logger))
			staffRoutes.PATCH("/products/:id", handlers.HandleUpdateProduct(repos, logger))
			staffRoutes.DELETE("/products/:id", handlers.HandleDeactivateProduct(repos, logger))

			staffRoutes.GET("/orders", handlers.HandleListOrders(repos, logger))
			staffRoutes.GET("/orders/:id/events", handlers.HandleGetOrderEvents(repos, logger))
			staffRoutes.POST("/orders/:id/confirm", handlers.HandleUpdateOrderStatus(repos, domain.OrderStatusConfirmed, logger))
			staffRoutes.POST("/orders/:id/reject", handlers.HandleUpdateOrderStatus(repos, domain.OrderStatusRejected, logger))
			staffRoutes.POST("/orders/:id/ship", handlers.HandleUpdateOrderStatus(repos, domain.OrderStatusShipped, logger))
			staffRoutes.POST("/orders/:id/deliver", handlers.HandleUpdateOrderStatus(repos, domain.OrderStatusDelivered, logger))
			staffRoutes.POST("/orders/:id/cancel", handlers.HandleUpdateOrderStatus(repos, domain.OrderStatusCancelled, logger))
		}
	}

	return router
}

// customRecovery is a custom recovery middleware that logs panics
func customRecovery(logger *zap.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		logger.Error("Panic recovered",
			zap.Any("error", recovered),
			zap.String("path", c.Request.URL.Path),
			zap.String("method", c.Request.Method),
		)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal server error",
			"details": fmt.Sprintf("%v", recovered),
		})
	})
}

// loggingMiddleware logs HTTP requests
func loggingMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		status := c.Writer.Status()
		logger.Info("HTTP request",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", status),
		)
	}
}
