package http

import (
	"encoding/base64"
	"encoding/json"

	"github.com/gin-gonic/gin"
)

const (
	flashCookieName = "messages"
	flashMaxAge     = 300
)

// CookieOptions son los atributos comunes de las cookies emitidas.
type CookieOptions struct {
	Secure bool
}

// addFlash agrega un mensaje a la cookie de mensajes para la siguiente vista.
func addFlash(c *gin.Context, opts CookieOptions, msg string) {
	messages := append(readFlashes(c), msg)
	raw, err := json.Marshal(messages)
	if err != nil {
		return
	}
	c.SetCookie(flashCookieName, base64.RawURLEncoding.EncodeToString(raw), flashMaxAge, "/", "", opts.Secure, true)
}

// popFlashes devuelve los mensajes pendientes y borra la cookie.
func popFlashes(c *gin.Context, opts CookieOptions) []string {
	messages := readFlashes(c)
	if len(messages) > 0 {
		c.SetCookie(flashCookieName, "", -1, "/", "", opts.Secure, true)
	}
	return messages
}

func readFlashes(c *gin.Context) []string {
	value, err := c.Cookie(flashCookieName)
	if err != nil || value == "" {
		return nil
	}
	raw, err := base64.RawURLEncoding.DecodeString(value)
	if err != nil {
		return nil
	}
	var messages []string
	if err := json.Unmarshal(raw, &messages); err != nil {
		return nil
	}
	return messages
}
