package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"habitboard/internal/services"
)

// CookieName is where the access token is mirrored for browser clients.
const CookieName = "token"

// tokenSource extracts a candidate credential from the request, or "".
type tokenSource func(c *gin.Context) string

// ordered: the Authorization header wins over the cookie
var tokenSources = []tokenSource{
	fromBearerHeader,
	fromCookie,
}

func fromBearerHeader(c *gin.Context) string {
	authHeader := strings.TrimSpace(c.GetHeader("Authorization"))
	if authHeader == "" {
		return ""
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func fromCookie(c *gin.Context) string {
	v, err := c.Cookie(CookieName)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(v)
}

// AuthMiddleware resolves the caller identity from the first source that
// yields a valid token and stores it under "user_id". Public endpoints stay
// open by being registered before the router picks this middleware up.
func AuthMiddleware(auth services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Next()
			return
		}

		for _, source := range tokenSources {
			tokenStr := source(c)
			if tokenStr == "" {
				continue
			}
			userID, err := auth.ParseToken(tokenStr)
			if err != nil {
				continue
			}
			c.Set("user_id", userID)
			c.Next()
			return
		}

		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing or invalid credentials"})
	}
}
