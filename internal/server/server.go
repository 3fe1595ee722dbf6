// internal/server/server.go
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/ThinkInAIXYZ/go-mcp/protocol"
	"github.com/gin-gonic/gin"

	"cookie-storefront/internal/config"
	"cookie-storefront/internal/logging"
	"cookie-storefront/internal/storefront"
)

const Version = "1.0.0"

// StorefrontServer exposes one Storefront over REST and over MCP tool calls.
type StorefrontServer struct {
	store      *storefront.Storefront
	log        *logging.Logger
	router     *gin.Engine
	httpServer *http.Server
	info       protocol.Implementation
	tools      map[string]tool
}

func NewStorefrontServer(cfg config.ServerConfig, store *storefront.Storefront, log *logging.Logger) (*StorefrontServer, error) {
	if store == nil {
		return nil, errors.New("storefront is required")
	}
	if log == nil {
		log = logging.Nop()
	}
	if cfg.GinMode != "" {
		gin.SetMode(cfg.GinMode)
	}

	s := &StorefrontServer{
		store: store,
		log:   log,
		info: protocol.Implementation{
			Name:    "cookie-storefront",
			Version: Version,
		},
	}

	if err := s.registerTools(); err != nil {
		return nil, fmt.Errorf("failed to register tools: %w", err)
	}
	s.router = s.newRouter(cfg.AllowedOrigins)

	s.httpServer = &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return s, nil
}

func (s *StorefrontServer) newRouter(origins []string) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(corsMiddleware(origins))
	router.Use(requestLogger(s.log))

	router.GET("/healthcheck", healthCheck)

	api := router.Group("/api")
	{
		api.GET("/products", s.listProducts)
		api.GET("/products/:id", s.getProduct)

		api.GET("/cart", s.getCart)
		api.DELETE("/cart", s.clearCart)
		api.POST("/cart/items", s.addToCart)
		api.PATCH("/cart/items/:id", s.updateQuantity)

		api.GET("/box", s.getBox)
		api.POST("/box/slots", s.pickForBox)
		api.DELETE("/box/slots/:index", s.unpickFromBox)
		api.POST("/box/commit", s.commitBox)

		api.POST("/concierge", s.recommend)

		api.POST("/checkout", s.startCheckout)
		api.GET("/checkout", s.checkoutStatus)
		api.DELETE("/checkout", s.resetCheckout)

		api.GET("/orders", s.listOrders)
	}

	router.GET("/mcp", s.describeMCP)
	router.POST("/mcp", s.handleMCP)

	return router
}

// Handler is the root HTTP handler, for embedding and tests.
func (s *StorefrontServer) Handler() http.Handler {
	return s.router
}

func (s *StorefrontServer) Addr() string {
	return s.httpServer.Addr
}

// Start serves until Stop is called. A clean shutdown returns nil.
func (s *StorefrontServer) Start(ctx context.Context) error {
	s.log.Info("Starting storefront server", "addr", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Stop drains in-flight requests, then stops a pending checkout.
func (s *StorefrontServer) Stop(ctx context.Context) error {
	err := s.httpServer.Shutdown(ctx)
	s.store.Close()
	return err
}
