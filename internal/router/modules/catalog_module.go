package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/taivex/taivex/internal/interface/http"
)

// CatalogModule covers garment categories and measurement records.
type CatalogModule struct {
	Categories   *handlers.CategoryHandler
	Measurements *handlers.MeasurementHandler
}

func NewCatalogModule(c *handlers.CategoryHandler, m *handlers.MeasurementHandler) *CatalogModule {
	return &CatalogModule{Categories: c, Measurements: m}
}

func (mod *CatalogModule) Register(_, api *gin.RouterGroup) {
	auth := protect(api)
	auth.GET("/categories", mod.Categories.List)
	auth.POST("/categories", mod.Categories.Create)
	auth.DELETE("/categories/:id", mod.Categories.Delete)

	auth.POST("/measurements", mod.Measurements.Save)
	auth.GET("/measurements", mod.Measurements.List)
	auth.GET("/measurements/latest", mod.Measurements.LastActive)
	auth.GET("/measurements/:id", mod.Measurements.Get)
	auth.DELETE("/measurements/:id", mod.Measurements.Delete)
}
