package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/taivex/taivex/internal/container"
	handlers "github.com/taivex/taivex/internal/interface/http"
	"github.com/taivex/taivex/internal/interface/middleware"
)

// BillModule wires the invoice routes. The public view lives at the top
// level so signed links stay short and stable.
type BillModule struct {
	Handler *handlers.BillHandler
}

func NewBillModule(h *handlers.BillHandler) *BillModule {
	return &BillModule{Handler: h}
}

func (m *BillModule) Register(root, api *gin.RouterGroup) {
	publicLimiter := middleware.RateLimit(container.GetRedis(), 60, time.Minute, middleware.KeyByIP(), nil)
	root.GET("/bill/view/:id", publicLimiter, m.Handler.PublicView)

	auth := protect(api)
	auth.GET("/bills/:id/view", m.Handler.View)
	auth.GET("/bills/:id/share", m.Handler.ShareLink)
	auth.POST("/bills/:id/save", m.Handler.SaveSnapshot)
	auth.POST("/bills/:id/pdf", m.Handler.SavePDF)
}
