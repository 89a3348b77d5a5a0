package modules

import (
	"expvar"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/taivex/taivex/internal/container"
	"github.com/taivex/taivex/internal/interface/middleware"
)

type DebugModule struct{}

func NewDebugModule() *DebugModule { return &DebugModule{} }

func (m *DebugModule) Register(_, api *gin.RouterGroup) {
	// Public metrics endpoint (expvar), rate-limited per IP
	rl := middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByIP(), middleware.AllowPrivateIP())
	api.GET("/debug/vars", rl, gin.WrapH(expvar.Handler()))
}
