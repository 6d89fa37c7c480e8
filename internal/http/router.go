package http

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"superlists/internal/service"
)

// NewRouter configura el router de Gin con middlewares y rutas base.
func NewRouter(
	logger *zap.Logger,
	sessions *service.SessionService,
	accountH *AccountHandler,
	homeH *HomeHandler,
) *gin.Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	r := gin.New()

	// Middlewares basicos: logging, recovery, JSON content-type y sesion.
	r.Use(zapLoggerMiddleware(logger), gin.Recovery(), jsonContentTypeMiddleware(), SessionMiddleware(sessions))

	r.GET("/", homeH.Index)
	r.GET("/healthz", homeH.Health)

	accounts := r.Group("/accounts")
	accounts.GET("/register/", accountH.RegisterForm)
	accounts.POST("/register/", accountH.Register)
	accounts.GET("/register/success/", accountH.RegisterSuccess)
	accounts.GET("/register/confirm/:profile_id/:code/", accountH.Confirm)
	accounts.GET("/login/", accountH.LoginRedirect)
	accounts.POST("/login/", accountH.Login)
	accounts.GET("/logout/", accountH.Logout)
	accounts.GET("/user/", RequireSession(loginPath), accountH.User)

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

// jsonContentTypeMiddleware fuerza Content-Type: application/json en responses.
func jsonContentTypeMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Content-Type", "application/json")
		c.Next()
	}
}
