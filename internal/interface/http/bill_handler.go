package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	app "github.com/taivex/taivex/internal/application"
	"github.com/taivex/taivex/internal/interface/middleware"
	"github.com/taivex/taivex/pkg/response"
)

type BillHandler struct {
	Svc    *app.BillingService
	Orders *app.OrderService
	Logger *logrus.Logger
}

func NewBillHandler(svc *app.BillingService, orders *app.OrderService, logger *logrus.Logger) *BillHandler {
	return &BillHandler{Svc: svc, Orders: orders, Logger: logger}
}

// View renders the invoice HTML for the owner; ?download=1 switches the
// template into print layout.
func (h *BillHandler) View(c *gin.Context) {
	id, ok := orderID(c)
	if !ok {
		return
	}
	download := c.Query("download") == "1"
	html, err := h.Svc.RenderInvoice(c.Request.Context(), middleware.AccountID(c), id, download)
	if err != nil {
		if errors.Is(err, app.ErrOrderNotFound) {
			response.Error(c, http.StatusNotFound, "order not found", nil)
			return
		}
		h.Logger.WithError(err).Error("render invoice failed")
		response.Error(c, http.StatusInternalServerError, "could not render bill", nil)
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", html)
}

// ShareLink returns the signed public URL for the bill.
func (h *BillHandler) ShareLink(c *gin.Context) {
	id, ok := orderID(c)
	if !ok {
		return
	}
	rec, err := h.Orders.Get(c.Request.Context(), middleware.AccountID(c), id)
	if err != nil {
		if errors.Is(err, app.ErrOrderNotFound) {
			response.Error(c, http.StatusNotFound, "order not found", nil)
			return
		}
		h.Logger.WithError(err).Error("share link failed")
		response.Error(c, http.StatusInternalServerError, "could not build share link", nil)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"url": h.Svc.ShareURL(&rec.Order)}, "share link", nil)
}

// PublicView serves a bill to anyone holding a valid signed link. No session
// is required; the token alone is the authority.
func (h *BillHandler) PublicView(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.String(http.StatusNotFound, "bill not found")
		return
	}
	html, err := h.Svc.PublicInvoice(c.Request.Context(), id, c.Query("token"))
	if err != nil {
		switch {
		case errors.Is(err, app.ErrBillLinkExpired):
			c.String(http.StatusGone, "this bill link has expired")
		case errors.Is(err, app.ErrBillLinkInvalid):
			c.String(http.StatusNotFound, "bill not found")
		default:
			h.Logger.WithError(err).Error("public bill view failed")
			c.String(http.StatusInternalServerError, "could not load bill")
		}
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", html)
}

// SaveSnapshot archives an HTML copy of the bill on disk.
func (h *BillHandler) SaveSnapshot(c *gin.Context) {
	id, ok := orderID(c)
	if !ok {
		return
	}
	path, err := h.Svc.SaveSnapshot(c.Request.Context(), middleware.AccountID(c), id)
	if err != nil {
		if errors.Is(err, app.ErrOrderNotFound) {
			response.Error(c, http.StatusNotFound, "order not found", nil)
			return
		}
		h.Logger.WithError(err).Error("save bill snapshot failed")
		response.Error(c, http.StatusInternalServerError, "could not save bill", nil)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"path": path}, "bill saved", nil)
}

// SavePDF stores a client-rendered PDF of the bill, replacing any HTML
// snapshot for the same order.
func (h *BillHandler) SavePDF(c *gin.Context) {
	id, ok := orderID(c)
	if !ok {
		return
	}
	file, err := c.FormFile("pdf")
	if err != nil {
		response.Error(c, http.StatusBadRequest, "missing pdf file", nil)
		return
	}
	src, err := file.Open()
	if err != nil {
		response.Error(c, http.StatusBadRequest, "could not read pdf", nil)
		return
	}
	defer func() { _ = src.Close() }()

	path, err := h.Svc.SavePDFCopy(c.Request.Context(), middleware.AccountID(c), id, src)
	if err != nil {
		if errors.Is(err, app.ErrOrderNotFound) {
			response.Error(c, http.StatusNotFound, "order not found", nil)
			return
		}
		h.Logger.WithError(err).Error("save bill pdf failed")
		response.Error(c, http.StatusInternalServerError, "could not save pdf", nil)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"path": path}, "pdf saved", nil)
}
