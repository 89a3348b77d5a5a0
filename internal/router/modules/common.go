package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/taivex/taivex/internal/container"
	"github.com/taivex/taivex/internal/interface/middleware"
)

// protect returns a subgroup that requires a valid session. The group also
// carries a per-IP and a per-account limiter; the budgets are shared across
// modules because the Redis keys are.
func protect(rg *gin.RouterGroup) *gin.RouterGroup {
	auth := rg.Group("/")
	auth.Use(middleware.Auth(container.GetRedis(), container.GetJWT()))
	auth.Use(
		middleware.RateLimit(container.GetRedis(), 300, time.Minute, middleware.KeyByIP(), nil),
		middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByAccountID(), nil),
	)
	return auth
}
