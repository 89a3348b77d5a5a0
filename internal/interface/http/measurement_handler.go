package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	app "github.com/taivex/taivex/internal/application"
	"github.com/taivex/taivex/internal/domain/entity"
	repo "github.com/taivex/taivex/internal/domain/repository"
	"github.com/taivex/taivex/internal/interface/middleware"
	"github.com/taivex/taivex/pkg/response"
	"github.com/taivex/taivex/pkg/validation"
)

type MeasurementHandler struct {
	Svc    *app.MeasurementService
	Logger *logrus.Logger
}

func NewMeasurementHandler(svc *app.MeasurementService, logger *logrus.Logger) *MeasurementHandler {
	return &MeasurementHandler{Svc: svc, Logger: logger}
}

// Values is a map of labels, so it only arrives as JSON; the flat fields also
// bind from form bodies.
type measurementRequest struct {
	CustomerID string          `json:"customer_id" form:"customer_id" binding:"required,uuid4"`
	CategoryID string          `json:"category_id" form:"category_id" binding:"required,uuid4"`
	Values     entity.ValueSet `json:"values" binding:"required"`
	Remarks    string          `json:"remarks" form:"remarks"`
}

func measurementJSON(m *entity.Measurement) gin.H {
	return gin.H{
		"id":          m.ID,
		"customer_id": m.CustomerID,
		"category_id": m.CategoryID,
		"date":        m.Date,
		"values":      m.Values,
		"remarks":     m.Remarks,
		"is_active":   m.IsActive,
	}
}

func measurementRecordJSON(r *repo.MeasurementRecord) gin.H {
	out := measurementJSON(&r.Measurement)
	out["customer_name"] = r.CustomerName
	out["customer_mobile"] = r.CustomerMobile
	out["category_name"] = r.CategoryName
	return out
}

// Save records a measurement set. Saving values identical to the latest
// active set is a no-op that returns the existing row.
func (h *MeasurementHandler) Save(c *gin.Context) {
	var req measurementRequest
	if err := c.ShouldBind(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	m, created, err := h.Svc.Save(c.Request.Context(), middleware.AccountID(c),
		req.CustomerID, req.CategoryID, req.Values, req.Remarks)
	if err != nil {
		switch {
		case errors.Is(err, app.ErrMeasurementEmpty):
			response.Error(c, http.StatusBadRequest, "measurement has no values", nil)
		case errors.Is(err, app.ErrCustomerNotFound):
			response.Error(c, http.StatusNotFound, "customer not found", nil)
		case errors.Is(err, app.ErrMeasurementNotFound):
			response.Error(c, http.StatusNotFound, "category not found", nil)
		default:
			h.Logger.WithError(err).Error("save measurement failed")
			response.Error(c, http.StatusInternalServerError, "could not save measurement", nil)
		}
		return
	}
	status := http.StatusOK
	msg := "measurement unchanged"
	if created {
		status = http.StatusCreated
		msg = "measurement saved"
	}
	response.Success(c, status, measurementJSON(m), msg, map[string]any{"created": created})
}

func (h *MeasurementHandler) Get(c *gin.Context) {
	m, err := h.Svc.Get(c.Request.Context(), middleware.AccountID(c), c.Param("id"))
	if err != nil {
		response.Error(c, http.StatusNotFound, "measurement not found", nil)
		return
	}
	response.Success(c, http.StatusOK, measurementJSON(m), "measurement", nil)
}

func (h *MeasurementHandler) Delete(c *gin.Context) {
	if err := h.Svc.Delete(c.Request.Context(), middleware.AccountID(c), c.Param("id")); err != nil {
		if errors.Is(err, app.ErrMeasurementNotFound) {
			response.Error(c, http.StatusNotFound, "measurement not found", nil)
			return
		}
		h.Logger.WithError(err).Error("delete measurement failed")
		response.Error(c, http.StatusInternalServerError, "could not delete measurement", nil)
		return
	}
	response.Success[any](c, http.StatusOK, map[string]any{"deleted": true}, "measurement deleted", nil)
}

// LastActive prefills the measurement form with the customer's latest values
// for a category.
func (h *MeasurementHandler) LastActive(c *gin.Context) {
	m, err := h.Svc.LastActive(c.Request.Context(), middleware.AccountID(c),
		c.Query("customer_id"), c.Query("category_id"))
	if err != nil {
		if errors.Is(err, app.ErrMeasurementNotFound) {
			response.Success[any](c, http.StatusOK, nil, "no previous measurement", nil)
			return
		}
		h.Logger.WithError(err).Error("last active measurement failed")
		response.Error(c, http.StatusInternalServerError, "lookup failed", nil)
		return
	}
	response.Success(c, http.StatusOK, measurementJSON(m), "latest measurement", nil)
}

func (h *MeasurementHandler) List(c *gin.Context) {
	w := windowFromQuery(c)
	page := intQuery(c, "page", 1)
	perPage := intQuery(c, "per_page", 20)
	recs, total, err := h.Svc.ListWindow(c.Request.Context(), middleware.AccountID(c), w, page, perPage)
	if err != nil {
		h.Logger.WithError(err).Error("list measurements failed")
		response.Error(c, http.StatusInternalServerError, "could not list measurements", nil)
		return
	}
	out := make([]gin.H, 0, len(recs))
	for i := range recs {
		out = append(out, measurementRecordJSON(&recs[i]))
	}
	response.Success(c, http.StatusOK, out, "measurements", listMeta(page, perPage, total, w))
}

func (h *MeasurementHandler) ListByCustomer(c *gin.Context) {
	recs, err := h.Svc.ListByCustomer(c.Request.Context(), middleware.AccountID(c), c.Param("id"))
	if err != nil {
		h.Logger.WithError(err).Error("list customer measurements failed")
		response.Error(c, http.StatusInternalServerError, "could not list measurements", nil)
		return
	}
	out := make([]gin.H, 0, len(recs))
	for i := range recs {
		out = append(out, measurementRecordJSON(&recs[i]))
	}
	response.Success(c, http.StatusOK, out, "measurements", nil)
}
