package http

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"chat-relay/internal/service"
)

// NewRelayRouter configura el router del proceso relay: el transporte
// websocket y un health check. El relay no expone más superficie REST.
func NewRelayRouter(logger *zap.Logger, wsH *WSHandler) *gin.Engine {
	r := gin.New()
	r.Use(zapLoggerMiddleware(logger), gin.Recovery())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/ws", wsH.Handle)

	return r
}

// NewStoreRouter configura el router del proceso storegate: el contrato REST
// del gateway de persistencia y los endpoints de identidad.
func NewStoreRouter(
	logger *zap.Logger,
	msgH *MessageHandler,
	authH *AuthHandler,
	jwtServ *service.JWTService,
) *gin.Engine {
	r := gin.New()
	r.Use(zapLoggerMiddleware(logger), gin.Recovery())

	// Los clientes de navegador consultan el store directamente.
	corsCfg := cors.DefaultConfig()
	corsCfg.AllowAllOrigins = true
	corsCfg.AllowHeaders = append(corsCfg.AllowHeaders, "Authorization")
	r.Use(cors.New(corsCfg))

	api := r.Group("/api")
	api.POST("/messages", msgH.CreateMessage)
	api.GET("/messages", msgH.ListMessages)

	auth := api.Group("/auth")
	auth.POST("/local", authH.Login)
	auth.POST("/local/register", authH.Register)
	auth.GET("/me", JWTAuthMiddleware(jwtServ), authH.Me)

	return r
}

// zapLoggerMiddleware crea un middleware simple de logging con zap.
func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)
		logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", latency),
			zap.String("client_ip", c.ClientIP()),
		)
	}
}

// errorBody arma el sobre de error que esperan los clientes del store.
func errorBody(msg string) gin.H {
	return gin.H{"error": gin.H{"message": msg}}
}
