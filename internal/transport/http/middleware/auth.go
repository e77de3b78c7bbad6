package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Gaurav200247/suvichar-auth/internal/core/domain"
	"github.com/Gaurav200247/suvichar-auth/internal/usecase"
)

// ErrorResponse matches the handlers.ErrorResponse structure
type ErrorResponse struct {
	Error      bool   `json:"error"`
	StatusCode int    `json:"statusCode"`
	Msg        string `json:"msg"`
	TraceID    string `json:"trace_id,omitempty"`
}

func newErrorResponse(c *gin.Context, status int, msg string) ErrorResponse {
	return ErrorResponse{
		Error:      true,
		StatusCode: status,
		Msg:        msg,
		TraceID:    GetTraceID(c),
	}
}

// RequireAuth validates the Authorization header and resolves the session
// owner. The authenticated user and the raw token are stored in the request
// context for downstream handlers.
func RequireAuth(sessions *usecase.SessionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				newErrorResponse(c, http.StatusUnauthorized, "missing authorization header"))
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				newErrorResponse(c, http.StatusUnauthorized, "invalid authorization format: expected 'Bearer <token>'"))
			return
		}

		token := strings.TrimSpace(parts[1])
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				newErrorResponse(c, http.StatusUnauthorized, "missing access token"))
			return
		}

		user, err := sessions.Authenticate(c.Request.Context(), token)
		if err != nil {
			switch {
			case errors.Is(err, usecase.ErrSessionExpired):
				c.AbortWithStatusJSON(http.StatusUnauthorized,
					newErrorResponse(c, http.StatusUnauthorized, "session expired, please login again"))
			case errors.Is(err, usecase.ErrUnauthenticated):
				c.AbortWithStatusJSON(http.StatusUnauthorized,
					newErrorResponse(c, http.StatusUnauthorized, "authentication token is missing or invalid"))
			case errors.Is(err, usecase.ErrNotVerified):
				c.AbortWithStatusJSON(http.StatusUnauthorized,
					newErrorResponse(c, http.StatusUnauthorized, "account is not verified"))
			case errors.Is(err, usecase.ErrAccountDisabled):
				c.AbortWithStatusJSON(http.StatusUnauthorized,
					newErrorResponse(c, http.StatusUnauthorized, "account has been deactivated"))
			default:
				c.AbortWithStatusJSON(http.StatusInternalServerError,
					newErrorResponse(c, http.StatusInternalServerError, "authentication failed"))
			}
			return
		}

		c.Set(UserKey, user)
		c.Set(TokenKey, token)

		if reqCtx := GetRequestContext(c); reqCtx != nil {
			reqCtx.UserID = user.ID
		}

		c.Next()
	}
}

// GetAuthenticatedUser retrieves the session owner from context.
func GetAuthenticatedUser(c *gin.Context) (*domain.User, bool) {
	val, exists := c.Get(UserKey)
	if !exists {
		return nil, false
	}

	user, ok := val.(*domain.User)
	return user, ok
}

// GetAccessToken retrieves the raw bearer token presented on this request.
func GetAccessToken(c *gin.Context) (string, bool) {
	val, exists := c.Get(TokenKey)
	if !exists {
		return "", false
	}

	token, ok := val.(string)
	return token, ok
}
