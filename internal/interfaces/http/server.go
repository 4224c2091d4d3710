package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/balasin/balasin/internal/application/usecase"
	"github.com/balasin/balasin/internal/domain/conversation"
	"github.com/balasin/balasin/internal/interfaces/http/handlers"
	"github.com/balasin/balasin/internal/interfaces/websocket"
)

// Server HTTP服务器
type Server struct {
	server *http.Server
	logger *zap.Logger
}

// Config HTTP服务器配置
type Config struct {
	Host        string
	Port        int
	Mode        string // local, production
	AllowOrigin string // CORS 唯一放行来源
}

// NewServer 创建HTTP服务器
func NewServer(cfg Config, relayUC *usecase.RelayMessageUseCase, index *conversation.Index, hub *websocket.Hub, logger *zap.Logger) *Server {
	if cfg.Mode == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(ginLogger(logger))
	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{cfg.AllowOrigin},
		AllowMethods: []string{"GET", "POST", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept"},
		MaxAge:       12 * time.Hour,
	}))

	relayHandler := handlers.NewRelayHandler(relayUC, logger)
	conversationHandler := handlers.NewConversationHandler(index)

	setupRoutes(router, relayHandler, conversationHandler, hub)

	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	server := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	return &Server{
		server: server,
		logger: logger,
	}
}

// Start 启动服务器
func (s *Server) Start(ctx context.Context) error {
	s.logger.Info("Starting HTTP server", zap.String("address", s.server.Addr))

	go func() {
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Error("HTTP server error", zap.Error(err))
		}
	}()

	return nil
}

// Stop 停止服务器
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Stopping HTTP server")
	return s.server.Shutdown(ctx)
}

// setupRoutes 设置路由
func setupRoutes(router *gin.Engine, relayHandler *handlers.RelayHandler, conversationHandler *handlers.ConversationHandler, hub *websocket.Hub) {
	// 存活探针 (外部 uptime 监控依赖这个响应体)
	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "OK",
			"message": "Bridge is alive and ready to receive API calls.",
		})
	})

	api := router.Group("/api")
	{
		api.POST("/new-message", relayHandler.NewMessage)
		api.GET("/conversations", conversationHandler.ListActive)
	}

	if hub != nil {
		router.GET("/ws/events", hub.Serve)
	}
}

// ginLogger Gin日志中间件
func ginLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		logger.Info("HTTP request",
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("ip", c.ClientIP()),
		)
	}
}
