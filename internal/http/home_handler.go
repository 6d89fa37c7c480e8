package http

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"superlists/internal/domain"
	"superlists/internal/repository"
)

// Pinger verifica la conectividad de una dependencia.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HomeHandler sirve la portada y el chequeo de salud.
type HomeHandler struct {
	logger  *zap.Logger
	lists   repository.TodoListRepository
	db      Pinger
	cookies CookieOptions
}

func NewHomeHandler(logger *zap.Logger, lists repository.TodoListRepository, db Pinger, cookies CookieOptions) *HomeHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HomeHandler{
		logger:  logger,
		lists:   lists,
		db:      db,
		cookies: cookies,
	}
}

// Index maneja GET /: listas publicas, usuario actual y mensajes pendientes.
func (h *HomeHandler) Index(c *gin.Context) {
	lists := []domain.TodoList{}
	if h.lists != nil {
		found, err := h.lists.ListPublic(c.Request.Context())
		if err != nil {
			h.logger.Error("list public lists failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load lists"})
			return
		}
		if found != nil {
			lists = found
		}
	}

	resp := gin.H{
		"todo_lists": lists,
		"messages":   nonNil(popFlashes(c, h.cookies)),
	}
	if session, ok := GetSession(c); ok {
		resp["username"] = session.Username
	}
	c.JSON(http.StatusOK, resp)
}

// Health maneja GET /healthz.
func (h *HomeHandler) Health(c *gin.Context) {
	if h.db != nil {
		if err := h.db.Ping(c.Request.Context()); err != nil {
			h.logger.Warn("health check failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func nonNil(messages []string) []string {
	if messages == nil {
		return []string{}
	}
	return messages
}
