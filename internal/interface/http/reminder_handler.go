package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	app "github.com/taivex/taivex/internal/application"
	"github.com/taivex/taivex/internal/domain/entity"
	"github.com/taivex/taivex/internal/interface/middleware"
	"github.com/taivex/taivex/pkg/response"
	"github.com/taivex/taivex/pkg/validation"
)

type ReminderHandler struct {
	Svc    *app.ReminderService
	Logger *logrus.Logger
}

func NewReminderHandler(svc *app.ReminderService, logger *logrus.Logger) *ReminderHandler {
	return &ReminderHandler{Svc: svc, Logger: logger}
}

type reminderRequest struct {
	CustomerID string `json:"customer_id" form:"customer_id" binding:"omitempty,uuid4"`
	OrderID    int64  `json:"order_id" form:"order_id"`
	Type       string `json:"type" form:"type" binding:"required,oneof=measurement delivery payment"`
	DueDate    string `json:"due_date" form:"due_date" binding:"omitempty,datetime=2006-01-02"`
	DueTime    string `json:"due_time" form:"due_time" binding:"omitempty,datetime=15:04"`
	Message    string `json:"message" form:"message"`
}

func reminderJSON(r *entity.Reminder) gin.H {
	out := gin.H{
		"id":          r.ID,
		"customer_id": r.CustomerID,
		"type":        r.Type,
		"due_time":    r.DueTime,
		"message":     r.Message,
		"status":      r.Status,
		"created_at":  r.CreatedAt,
	}
	if r.OrderID != 0 {
		out["order_id"] = r.OrderID
	}
	if r.DueDate != nil {
		out["due_date"] = r.DueDate.Format(dateLayout)
	}
	return out
}

func (h *ReminderHandler) Create(c *gin.Context) {
	var req reminderRequest
	if err := c.ShouldBind(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	r, err := h.Svc.Create(c.Request.Context(), middleware.AccountID(c), app.ReminderInput{
		CustomerID: req.CustomerID,
		OrderID:    req.OrderID,
		Type:       req.Type,
		DueDate:    parseDatePtr(req.DueDate),
		DueTime:    req.DueTime,
		Message:    req.Message,
	})
	if err != nil {
		if errors.Is(err, app.ErrCustomerNotFound) {
			response.Error(c, http.StatusNotFound, "customer not found", nil)
			return
		}
		h.Logger.WithError(err).Error("create reminder failed")
		response.Error(c, http.StatusInternalServerError, "could not create reminder", nil)
		return
	}
	response.Success(c, http.StatusCreated, reminderJSON(r), "reminder created", nil)
}

func (h *ReminderHandler) View(c *gin.Context) {
	view, err := h.Svc.View(c.Request.Context(), middleware.AccountID(c))
	if err != nil {
		h.Logger.WithError(err).Error("load reminders failed")
		response.Error(c, http.StatusInternalServerError, "could not load reminders", nil)
		return
	}
	response.Success(c, http.StatusOK, view, "reminders", nil)
}

// SendDelivery emails the customer that their order is due. Customers without
// an email address are skipped without error.
func (h *ReminderHandler) SendDelivery(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "invalid order id", nil)
		return
	}
	if err := h.Svc.SendDeliveryReminder(c.Request.Context(), middleware.AccountID(c), id); err != nil {
		if errors.Is(err, app.ErrOrderNotFound) {
			response.Error(c, http.StatusNotFound, "order not found", nil)
			return
		}
		h.Logger.WithError(err).Error("send delivery reminder failed")
		response.Error(c, http.StatusInternalServerError, "could not send reminder", nil)
		return
	}
	response.Success[any](c, http.StatusOK, map[string]any{"queued": true}, "reminder queued", nil)
}
