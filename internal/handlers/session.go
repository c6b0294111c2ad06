package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	sessionCookie = "cart_session"
	sessionKeyCtx = "cartKey"
	cookieMaxAge  = 30 * 24 * 60 * 60
)

// CartSession assigns every browsing session a stable cart key via cookie.
// Carts are keyed by this value in durable storage, so a returning session
// finds its cart again.
func CartSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		key, err := c.Cookie(sessionCookie)
		if err != nil || uuid.Validate(key) != nil {
			key = uuid.NewString()
			c.SetCookie(sessionCookie, key, cookieMaxAge, "/", "", false, true)
		}
		c.Set(sessionKeyCtx, key)
		c.Next()
	}
}

func cartKey(c *gin.Context) string {
	return c.GetString(sessionKeyCtx)
}
