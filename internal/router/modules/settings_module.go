package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/taivex/taivex/internal/container"
	handlers "github.com/taivex/taivex/internal/interface/http"
	"github.com/taivex/taivex/internal/interface/middleware"
)

type SettingsModule struct {
	Handler *handlers.SettingsHandler
}

func NewSettingsModule(h *handlers.SettingsHandler) *SettingsModule {
	return &SettingsModule{Handler: h}
}

func (m *SettingsModule) Register(_, api *gin.RouterGroup) {
	// translations are public and cacheable
	i18nLimiter := middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByIP(), nil)
	api.GET("/i18n/:lang", i18nLimiter, m.Handler.Translations)

	auth := protect(api)
	auth.GET("/settings/shop", m.Handler.Profile)
	auth.PUT("/settings/shop", m.Handler.UpdateProfile)
	auth.POST("/settings/shop/logo", m.Handler.UploadLogo)
	auth.DELETE("/settings/shop/logo", m.Handler.DeleteLogo)
	auth.GET("/settings/export/orders", m.Handler.ExportAllOrders)
	auth.GET("/settings/export/range/:type", m.Handler.ExportRange)
	auth.POST("/settings/wipe", m.Handler.WipeData)
}
