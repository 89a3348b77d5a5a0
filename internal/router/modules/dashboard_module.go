package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/taivex/taivex/internal/interface/http"
)

type DashboardModule struct {
	Handler *handlers.DashboardHandler
}

func NewDashboardModule(h *handlers.DashboardHandler) *DashboardModule {
	return &DashboardModule{Handler: h}
}

func (m *DashboardModule) Register(_, api *gin.RouterGroup) {
	auth := protect(api)
	auth.GET("/dashboard", m.Handler.Overview)
}
