package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/taivex/taivex/internal/interface/http"
)

type OrderModule struct {
	Orders    *handlers.OrderHandler
	Reminders *handlers.ReminderHandler
}

func NewOrderModule(o *handlers.OrderHandler, r *handlers.ReminderHandler) *OrderModule {
	return &OrderModule{Orders: o, Reminders: r}
}

func (mod *OrderModule) Register(_, api *gin.RouterGroup) {
	auth := protect(api)
	auth.POST("/orders", mod.Orders.Create)
	auth.GET("/orders", mod.Orders.List)
	auth.GET("/orders/:id", mod.Orders.Get)
	auth.PUT("/orders/:id", mod.Orders.Update)
	auth.DELETE("/orders/:id", mod.Orders.Delete)
	auth.PATCH("/orders/:id/status", mod.Orders.SetStatus)
	auth.POST("/orders/:id/payment", mod.Orders.RecordPayment)
	auth.POST("/orders/:id/remind", mod.Reminders.SendDelivery)

	auth.GET("/reminders", mod.Reminders.View)
	auth.POST("/reminders", mod.Reminders.Create)
}
