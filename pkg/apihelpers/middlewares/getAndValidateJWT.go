package middlewares

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	jwthandling "github.com/todo-app/todo-backend/pkg/jwt-handling"
)

const (
	HeaderAuthorization = "Authorization"
	AccessTokenCookie   = "accessTokenUser"
)

// AccessTokenValidator resolves the claims of an access token
type AccessTokenValidator interface {
	ValidateAccessToken(token string) (*jwthandling.TodoUserClaims, error)
}

// GetAndValidateTodoUserJWT reads the access token from the cookie or the Authorization header
// and aborts with 401 if neither carries a valid one. The cookie is tried first; an invalid
// cookie falls back to the header.
func GetAndValidateTodoUserJWT(validator AccessTokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokens := extractTokens(c)
		if len(tokens) == 0 {
			slog.Warn("no access token found")
			abortUnauthorized(c)
			return
		}

		var lastErr error
		for _, token := range tokens {
			parsedToken, err := validator.ValidateAccessToken(token)
			if err != nil {
				lastErr = err
				continue
			}
			c.Set("validatedToken", parsedToken)
			c.Set("userId", parsedToken.ID)
			c.Next()
			return
		}

		slog.Warn("token validation failed", slog.String("error", lastErr.Error()))
		abortUnauthorized(c)
	}
}

func abortUnauthorized(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized", "code": "UNAUTHORIZED"})
}

// extractTokens returns the candidate tokens, cookie first, header second
func extractTokens(c *gin.Context) []string {
	tokens := []string{}
	if cookie, err := c.Cookie(AccessTokenCookie); err == nil && cookie != "" {
		tokens = append(tokens, cookie)
	}

	header := c.GetHeader(HeaderAuthorization)
	if token, ok := strings.CutPrefix(header, "Bearer "); ok {
		if token = strings.TrimSpace(token); token != "" {
			tokens = append(tokens, token)
		}
	}
	return tokens
}
