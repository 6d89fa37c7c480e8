package http

import (
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"

	"superlists/internal/domain"
	"superlists/internal/service"
)

const (
	sessionCookieName = "sessionid"
	sessionKey        = "session"
	loginPath         = "/accounts/login/"
)

// SessionMiddleware resuelve la cookie de sesion y guarda la sesion en el contexto.
// Una cookie invalida o vencida se trata como visitante anonimo.
func SessionMiddleware(sessions *service.SessionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if sessions == nil {
			c.Next()
			return
		}
		token, err := c.Cookie(sessionCookieName)
		if err != nil || token == "" {
			c.Next()
			return
		}
		session, err := sessions.Current(c.Request.Context(), token)
		if err != nil {
			if !errors.Is(err, service.ErrNoSession) {
				c.Error(err)
			}
			c.Next()
			return
		}
		c.Set(sessionKey, session)
		c.Next()
	}
}

// RequireSession redirige al login cuando no hay sesion, conservando la ruta en next.
func RequireSession(login string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := GetSession(c); ok {
			c.Next()
			return
		}
		target := login + "?next=" + strings.ReplaceAll(url.QueryEscape(c.Request.URL.Path), "%2F", "/")
		c.Redirect(http.StatusFound, target)
		c.Abort()
	}
}

// GetSession obtiene la sesion autenticada desde el contexto.
func GetSession(c *gin.Context) (domain.Session, bool) {
	val, ok := c.Get(sessionKey)
	if !ok {
		return domain.Session{}, false
	}
	session, ok := val.(domain.Session)
	return session, ok
}
