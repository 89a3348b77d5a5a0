package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/taivex/taivex/internal/interface/http"
)

type CustomerModule struct {
	Customers    *handlers.CustomerHandler
	Measurements *handlers.MeasurementHandler
}

func NewCustomerModule(c *handlers.CustomerHandler, m *handlers.MeasurementHandler) *CustomerModule {
	return &CustomerModule{Customers: c, Measurements: m}
}

func (mod *CustomerModule) Register(_, api *gin.RouterGroup) {
	auth := protect(api)
	auth.POST("/customers", mod.Customers.Create)
	auth.GET("/customers", mod.Customers.List)
	auth.GET("/customers/search", mod.Customers.Search)
	auth.GET("/customers/:id", mod.Customers.Get)
	auth.PUT("/customers/:id", mod.Customers.Update)
	auth.DELETE("/customers/:id", mod.Customers.Delete)
	auth.POST("/customers/:id/photo", mod.Customers.UploadPhoto)
	auth.GET("/customers/:id/measurements", mod.Measurements.ListByCustomer)
}
