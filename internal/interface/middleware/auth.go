package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/campnet-io/campnet-backend/pkg/helpers"
	"github.com/campnet-io/campnet-backend/pkg/response"
)

// Context keys set by Auth.
const (
	CtxUserIDKey   = "userID"
	CtxUserNameKey = "userName"
	CtxUserRoleKey = "userRole"
)

// Auth validates the access token cookie and ensures an active session
// exists in Redis whose sid matches the token. It sets userID, userName,
// userEmail and userRole in the Gin context on success.
func Auth(rdb *redis.Client, jwt *helpers.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(helpers.CookieAccessToken)
		if err != nil || token == "" {
			resp := response.Error[any](c, http.StatusUnauthorized, "missing access token", nil)
			c.AbortWithStatusJSON(resp.Status, resp)
			return
		}
		claims, err := jwt.ParseAccessToken(token)
		if err != nil {
			resp := response.Error[any](c, http.StatusUnauthorized, "invalid access token", err.Error())
			c.AbortWithStatusJSON(resp.Status, resp)
			return
		}

		key := "user:session:" + claims.UserID
		data, err := rdb.HGetAll(c.Request.Context(), key).Result()
		if err != nil || len(data) == 0 || data["sid"] != claims.SessionID {
			resp := response.Error[any](c, http.StatusUnauthorized, "session not found", nil)
			c.AbortWithStatusJSON(resp.Status, resp)
			return
		}

		c.Set(CtxUserIDKey, data["user_id"])
		c.Set(CtxUserNameKey, data["name"])
		c.Set("userEmail", data["email"])
		c.Set(CtxUserRoleKey, data["role"])
		c.Next()
	}
}

// RequireRole gates a route group to the given roles. Must run after Auth.
func RequireRole(roles ...string) gin.HandlerFunc {
	allowed := make(map[string]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}
	return func(c *gin.Context) {
		role := c.GetString(CtxUserRoleKey)
		if _, ok := allowed[role]; !ok {
			resp := response.Error[any](c, http.StatusForbidden, "insufficient role", nil)
			c.AbortWithStatusJSON(resp.Status, resp)
			return
		}
		c.Next()
	}
}
