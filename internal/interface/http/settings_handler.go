package handlers

import (
	"bytes"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	app "github.com/taivex/taivex/internal/application"
	"github.com/taivex/taivex/internal/domain/entity"
	"github.com/taivex/taivex/internal/interface/middleware"
	"github.com/taivex/taivex/pkg/i18n"
	"github.com/taivex/taivex/pkg/response"
	"github.com/taivex/taivex/pkg/validation"
)

type SettingsHandler struct {
	Shop   *app.ShopService
	Export *app.ExportService
	Logger *logrus.Logger
}

func NewSettingsHandler(shop *app.ShopService, export *app.ExportService, logger *logrus.Logger) *SettingsHandler {
	return &SettingsHandler{Shop: shop, Export: export, Logger: logger}
}

type shopProfileRequest struct {
	ShopName     string   `json:"shop_name" form:"shop_name" binding:"required,min=2"`
	Address      string   `json:"address" form:"address"`
	Mobile       string   `json:"mobile" form:"mobile" binding:"omitempty,mobile"`
	GSTNo        string   `json:"gst_no" form:"gst_no"`
	Terms        string   `json:"terms" form:"terms"`
	UPIID        string   `json:"upi_id" form:"upi_id"`
	BillCreators []string `json:"bill_creators" form:"bill_creators"`
}

type wipeRequest struct {
	Confirm string `json:"confirm" form:"confirm" binding:"required"`
}

func profileJSON(p *entity.ShopProfile) gin.H {
	return gin.H{
		"shop_name":     p.ShopName,
		"address":       p.Address,
		"mobile":        p.Mobile,
		"gst_no":        p.GSTNo,
		"terms":         p.Terms,
		"upi_id":        p.UPIID,
		"logo":          p.Logo,
		"bill_creators": p.BillCreators,
	}
}

func (h *SettingsHandler) Profile(c *gin.Context) {
	p, err := h.Shop.Profile(c.Request.Context(), middleware.AccountID(c))
	if err != nil {
		h.Logger.WithError(err).Error("load shop profile failed")
		response.Error(c, http.StatusInternalServerError, "could not load shop profile", nil)
		return
	}
	response.Success(c, http.StatusOK, profileJSON(p), "shop profile", nil)
}

func (h *SettingsHandler) UpdateProfile(c *gin.Context) {
	var req shopProfileRequest
	if err := c.ShouldBind(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	p, err := h.Shop.UpdateProfile(c.Request.Context(), middleware.AccountID(c), app.ShopProfileInput{
		ShopName:     req.ShopName,
		Address:      req.Address,
		Mobile:       req.Mobile,
		GSTNo:        req.GSTNo,
		Terms:        req.Terms,
		UPIID:        req.UPIID,
		BillCreators: req.BillCreators,
	})
	if err != nil {
		h.Logger.WithError(err).Error("update shop profile failed")
		response.Error(c, http.StatusInternalServerError, "could not update shop profile", nil)
		return
	}
	response.Success(c, http.StatusOK, profileJSON(p), "shop profile updated", nil)
}

func (h *SettingsHandler) UploadLogo(c *gin.Context) {
	file, err := c.FormFile("logo")
	if err != nil {
		response.Error(c, http.StatusBadRequest, "missing logo file", nil)
		return
	}
	src, err := file.Open()
	if err != nil {
		response.Error(c, http.StatusBadRequest, "could not read logo", nil)
		return
	}
	defer func() { _ = src.Close() }()

	url, err := h.Shop.UploadLogo(c.Request.Context(), middleware.AccountID(c),
		src, file.Filename, file.Header.Get("Content-Type"))
	if err != nil {
		h.Logger.WithError(err).Error("logo upload failed")
		response.Error(c, http.StatusInternalServerError, "could not upload logo", nil)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"logo": url}, "logo uploaded", nil)
}

func (h *SettingsHandler) DeleteLogo(c *gin.Context) {
	if err := h.Shop.DeleteLogo(c.Request.Context(), middleware.AccountID(c)); err != nil {
		h.Logger.WithError(err).Error("logo delete failed")
		response.Error(c, http.StatusInternalServerError, "could not delete logo", nil)
		return
	}
	response.Success[any](c, http.StatusOK, map[string]any{"logo": ""}, "logo removed", nil)
}

// ExportAllOrders downloads the account's full order history as CSV.
func (h *SettingsHandler) ExportAllOrders(c *gin.Context) {
	var buf bytes.Buffer
	if err := h.Export.WriteAllOrders(c.Request.Context(), middleware.AccountID(c), &buf); err != nil {
		h.Logger.WithError(err).Error("export orders failed")
		response.Error(c, http.StatusInternalServerError, "export failed", nil)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="all_orders.csv"`)
	c.Data(http.StatusOK, "text/csv", buf.Bytes())
}

// ExportRange downloads one data type restricted to ?from=&to= as CSV.
func (h *SettingsHandler) ExportRange(c *gin.Context) {
	dataType := c.Param("type")
	from, err := time.Parse(dateLayout, c.Query("from"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid from date", nil)
		return
	}
	to, err := time.Parse(dateLayout, c.Query("to"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid to date", nil)
		return
	}
	if to.Before(from) {
		response.Error(c, http.StatusBadRequest, "to date before from date", nil)
		return
	}
	window := entity.RangeWindow(from, to)

	var buf bytes.Buffer
	if err := h.Export.WriteRange(c.Request.Context(), middleware.AccountID(c), dataType, window, &buf); err != nil {
		if errors.Is(err, app.ErrUnknownExportType) {
			response.Error(c, http.StatusBadRequest, "unknown export type", nil)
			return
		}
		h.Logger.WithError(err).Error("ranged export failed")
		response.Error(c, http.StatusInternalServerError, "export failed", nil)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+h.Export.Filename(dataType, window)+`"`)
	c.Data(http.StatusOK, "text/csv", buf.Bytes())
}

// WipeData deletes all business records of the account after an explicit
// confirmation phrase. The account and shop profile stay.
func (h *SettingsHandler) WipeData(c *gin.Context) {
	var req wipeRequest
	if err := c.ShouldBind(&req); err != nil || req.Confirm != "DELETE" {
		response.Error(c, http.StatusBadRequest, `confirmation required: send {"confirm":"DELETE"}`, nil)
		return
	}
	if err := h.Shop.WipeData(c.Request.Context(), middleware.AccountID(c)); err != nil {
		h.Logger.WithError(err).Error("wipe data failed")
		response.Error(c, http.StatusInternalServerError, "could not wipe data", nil)
		return
	}
	response.Success[any](c, http.StatusOK, map[string]any{"wiped": true}, "all data deleted", nil)
}

// Translations serves the static UI strings for a language, falling back to
// English for unknown languages.
func (h *SettingsHandler) Translations(c *gin.Context) {
	lang := c.Param("lang")
	if !i18n.Supported(lang) {
		lang = i18n.DefaultLang
	}
	response.Success(c, http.StatusOK, i18n.Table(lang), "translations", map[string]any{
		"lang":      lang,
		"languages": i18n.Languages(),
	})
}
