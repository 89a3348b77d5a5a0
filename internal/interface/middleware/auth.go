package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/taivex/taivex/pkg/helpers"
	"github.com/taivex/taivex/pkg/response"
)

// Auth validates the access token cookie and checks the server-side session,
// including that the token's sid still matches; a logout or token rotation
// invalidates older tokens immediately. Sets accountID in the Gin context.
func Auth(rdb *redis.Client, jwt *helpers.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(helpers.CookieAccess)
		if err != nil || token == "" {
			response.Error(c, http.StatusUnauthorized, "missing access token", nil)
			c.Abort()
			return
		}
		claims, err := jwt.ParseAccessToken(token)
		if err != nil {
			response.Error(c, http.StatusUnauthorized, "invalid access token", nil)
			c.Abort()
			return
		}

		key := helpers.KeySession(claims.UserID)
		data, err := rdb.HGetAll(c.Request.Context(), key).Result()
		if err != nil || len(data) == 0 || data["sid"] != claims.SessionID {
			response.Error(c, http.StatusUnauthorized, "session expired", nil)
			c.Abort()
			return
		}

		c.Set("accountID", data["account_id"])
		c.Set("accountEmail", data["email"])
		c.Set("accountName", data["username"])
		c.Next()
	}
}

// AccountID reads the authenticated account id set by Auth.
func AccountID(c *gin.Context) string {
	return c.GetString("accountID")
}
