package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	app "github.com/taivex/taivex/internal/application"
	"github.com/taivex/taivex/internal/domain/entity"
	repo "github.com/taivex/taivex/internal/domain/repository"
	"github.com/taivex/taivex/internal/interface/middleware"
	"github.com/taivex/taivex/pkg/response"
	"github.com/taivex/taivex/pkg/validation"
)

type OrderHandler struct {
	Svc    *app.OrderService
	Logger *logrus.Logger
}

func NewOrderHandler(svc *app.OrderService, logger *logrus.Logger) *OrderHandler {
	return &OrderHandler{Svc: svc, Logger: logger}
}

type lineItemRequest struct {
	Name string          `json:"name" form:"name" binding:"required"`
	Qty  int             `json:"qty" form:"qty" binding:"required,gte=1"`
	Cost decimal.Decimal `json:"cost" form:"cost"`
}

type orderRequest struct {
	CustomerID    string            `json:"customer_id" form:"customer_id" binding:"required,uuid4"`
	Items         []lineItemRequest `json:"items" binding:"required,min=1,dive"`
	StartDate     string            `json:"start_date" form:"start_date" binding:"omitempty,datetime=2006-01-02"`
	DeliveryDate  string            `json:"delivery_date" form:"delivery_date" binding:"omitempty,datetime=2006-01-02"`
	TrialDate     string            `json:"trial_date" form:"trial_date" binding:"omitempty,datetime=2006-01-02"`
	WorkStatus    string            `json:"work_status" form:"work_status"`
	TotalAmt      decimal.Decimal   `json:"total_amt" form:"total_amt"`
	Advance       decimal.Decimal   `json:"advance" form:"advance"`
	PaymentMode   string            `json:"payment_mode" form:"payment_mode"`
	BillCreatedBy string            `json:"bill_created_by" form:"bill_created_by"`
	Notes         string            `json:"notes" form:"notes"`
}

type statusRequest struct {
	WorkStatus string `json:"work_status" form:"work_status" binding:"required"`
}

type paymentRequest struct {
	Amount decimal.Decimal `json:"amount" form:"amount" binding:"required"`
	Mode   string          `json:"mode" form:"mode"`
}

func (r orderRequest) toInput() app.OrderInput {
	items := make([]entity.LineItem, 0, len(r.Items))
	for _, it := range r.Items {
		items = append(items, entity.LineItem{Name: it.Name, Qty: it.Qty, Cost: it.Cost})
	}
	return app.OrderInput{
		CustomerID:    r.CustomerID,
		Items:         items,
		StartDate:     parseDatePtr(r.StartDate),
		DeliveryDate:  parseDatePtr(r.DeliveryDate),
		TrialDate:     parseDatePtr(r.TrialDate),
		WorkStatus:    r.WorkStatus,
		TotalAmt:      r.TotalAmt,
		Advance:       r.Advance,
		PaymentMode:   r.PaymentMode,
		BillCreatedBy: r.BillCreatedBy,
		Notes:         r.Notes,
	}
}

func parseDatePtr(s string) *time.Time {
	if s == "" {
		return nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return nil
	}
	return &t
}

func orderJSON(o *entity.Order) gin.H {
	out := gin.H{
		"id":              o.ID,
		"customer_id":     o.CustomerID,
		"items":           o.Items,
		"work_status":     o.WorkStatus,
		"payment_status":  o.PaymentStatus,
		"total_amt":       o.TotalAmt,
		"advance":         o.Advance,
		"balance":         o.Balance,
		"payment_mode":    o.PaymentMode,
		"bill_created_by": o.BillCreatedBy,
		"notes":           o.Notes,
		"created_at":      o.CreatedAt,
	}
	if o.StartDate != nil {
		out["start_date"] = o.StartDate.Format(dateLayout)
	}
	if o.DeliveryDate != nil {
		out["delivery_date"] = o.DeliveryDate.Format(dateLayout)
	}
	if o.TrialDate != nil {
		out["trial_date"] = o.TrialDate.Format(dateLayout)
	}
	return out
}

func orderRecordJSON(r *repo.OrderRecord) gin.H {
	out := orderJSON(&r.Order)
	out["customer_name"] = r.CustomerName
	out["customer_mobile"] = r.CustomerMobile
	return out
}

func orderID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "invalid order id", nil)
		return 0, false
	}
	return id, true
}

func (h *OrderHandler) Create(c *gin.Context) {
	var req orderRequest
	if err := c.ShouldBind(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	o, err := h.Svc.Create(c.Request.Context(), middleware.AccountID(c), req.toInput())
	if err != nil {
		if errors.Is(err, app.ErrCustomerNotFound) {
			response.Error(c, http.StatusNotFound, "customer not found", nil)
			return
		}
		h.Logger.WithError(err).Error("create order failed")
		response.Error(c, http.StatusInternalServerError, "could not create order", nil)
		return
	}
	response.Success(c, http.StatusCreated, orderJSON(o), "order created", nil)
}

func (h *OrderHandler) Update(c *gin.Context) {
	id, ok := orderID(c)
	if !ok {
		return
	}
	var req orderRequest
	if err := c.ShouldBind(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	o, err := h.Svc.Update(c.Request.Context(), middleware.AccountID(c), id, req.toInput())
	if err != nil {
		h.writeOrderError(c, err, "update order failed")
		return
	}
	response.Success(c, http.StatusOK, orderJSON(o), "order updated", nil)
}

func (h *OrderHandler) SetStatus(c *gin.Context) {
	id, ok := orderID(c)
	if !ok {
		return
	}
	var req statusRequest
	if err := c.ShouldBind(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	o, err := h.Svc.SetStatus(c.Request.Context(), middleware.AccountID(c), id, req.WorkStatus)
	if err != nil {
		h.writeOrderError(c, err, "set status failed")
		return
	}
	response.Success(c, http.StatusOK, orderJSON(o), "status updated", nil)
}

func (h *OrderHandler) RecordPayment(c *gin.Context) {
	id, ok := orderID(c)
	if !ok {
		return
	}
	var req paymentRequest
	if err := c.ShouldBind(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	if !req.Amount.IsPositive() {
		response.Error(c, http.StatusBadRequest, "amount must be positive", nil)
		return
	}
	o, err := h.Svc.RecordPayment(c.Request.Context(), middleware.AccountID(c), id, req.Amount, req.Mode)
	if err != nil {
		h.writeOrderError(c, err, "record payment failed")
		return
	}
	response.Success(c, http.StatusOK, orderJSON(o), "payment recorded", nil)
}

func (h *OrderHandler) Get(c *gin.Context) {
	id, ok := orderID(c)
	if !ok {
		return
	}
	rec, err := h.Svc.Get(c.Request.Context(), middleware.AccountID(c), id)
	if err != nil {
		h.writeOrderError(c, err, "get order failed")
		return
	}
	response.Success(c, http.StatusOK, orderRecordJSON(rec), "order", nil)
}

func (h *OrderHandler) Delete(c *gin.Context) {
	id, ok := orderID(c)
	if !ok {
		return
	}
	if err := h.Svc.Delete(c.Request.Context(), middleware.AccountID(c), id); err != nil {
		h.writeOrderError(c, err, "delete order failed")
		return
	}
	response.Success[any](c, http.StatusOK, map[string]any{"deleted": true}, "order deleted", nil)
}

// List pages orders for a month; ?delivery_date= or ?date= narrow to a single
// day on the respective column.
func (h *OrderHandler) List(c *gin.Context) {
	q := repo.OrderQuery{
		Search:  c.Query("search"),
		Status:  c.Query("status"),
		Window:  windowFromQuery(c),
		Page:    intQuery(c, "page", 1),
		PerPage: intQuery(c, "per_page", 20),
	}
	if d := c.Query("delivery_date"); d != "" {
		if day, err := time.Parse(dateLayout, d); err == nil {
			w := entity.DayWindow(day)
			q.DeliveryDate = &w
		}
	}
	if d := c.Query("date"); d != "" {
		if day, err := time.Parse(dateLayout, d); err == nil {
			w := entity.DayWindow(day)
			q.Date = &w
		}
	}
	recs, total, err := h.Svc.List(c.Request.Context(), middleware.AccountID(c), q)
	if err != nil {
		h.Logger.WithError(err).Error("list orders failed")
		response.Error(c, http.StatusInternalServerError, "could not list orders", nil)
		return
	}
	out := make([]gin.H, 0, len(recs))
	for i := range recs {
		out = append(out, orderRecordJSON(&recs[i]))
	}
	response.Success(c, http.StatusOK, out, "orders", listMeta(q.Page, q.PerPage, total, q.Window))
}

func (h *OrderHandler) writeOrderError(c *gin.Context, err error, logMsg string) {
	switch {
	case errors.Is(err, app.ErrOrderNotFound):
		response.Error(c, http.StatusNotFound, "order not found", nil)
	case errors.Is(err, app.ErrCustomerNotFound):
		response.Error(c, http.StatusNotFound, "customer not found", nil)
	default:
		h.Logger.WithError(err).Error(logMsg)
		response.Error(c, http.StatusInternalServerError, "operation failed", nil)
	}
}
