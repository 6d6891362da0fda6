package server

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// authMiddleware пускает запрос по статическому ключу в x-functions-key
// либо по bearer-токену (сам токен не проверяем — проверку делает IDP
// перед выдачей, эталонному серверу хватает факта его наличия).
// Пустой key выключает проверку целиком — дев-режим.
func authMiddleware(key string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if key == "" {
			c.Next()
			return
		}
		if got := c.GetHeader("x-functions-key"); got != "" {
			if subtle.ConstantTimeCompare([]byte(got), []byte(key)) == 1 {
				c.Next()
				return
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid function key"})
			return
		}
		if h := c.GetHeader("Authorization"); strings.HasPrefix(h, "Bearer ") && len(h) > len("Bearer ") {
			c.Next()
			return
		}
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing credentials"})
	}
}
