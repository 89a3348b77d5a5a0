package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	app "github.com/taivex/taivex/internal/application"
	"github.com/taivex/taivex/internal/domain/entity"
	repo "github.com/taivex/taivex/internal/domain/repository"
	"github.com/taivex/taivex/internal/interface/middleware"
	"github.com/taivex/taivex/pkg/response"
	"github.com/taivex/taivex/pkg/validation"
)

const dateLayout = "2006-01-02"

type CustomerHandler struct {
	Svc    *app.CustomerService
	Logger *logrus.Logger
}

func NewCustomerHandler(svc *app.CustomerService, logger *logrus.Logger) *CustomerHandler {
	return &CustomerHandler{Svc: svc, Logger: logger}
}

type customerRequest struct {
	Name      string `json:"name" form:"name" binding:"required,min=2"`
	Mobile    string `json:"mobile" form:"mobile" binding:"required,mobile"`
	AltMobile string `json:"alt_mobile" form:"alt_mobile"`
	Email     string `json:"email" form:"email" binding:"omitempty,email"`
	Address   string `json:"address" form:"address"`
	City      string `json:"city" form:"city"`
	Area      string `json:"area" form:"area"`
	Whatsapp  bool   `json:"whatsapp" form:"whatsapp"`
	Gender    string `json:"gender" form:"gender" binding:"required,oneof=male female"`
	Notes     string `json:"notes" form:"notes"`
	StylePref string `json:"style_pref" form:"style_pref"`
	Birthday  string `json:"birthday" form:"birthday" binding:"omitempty,datetime=2006-01-02"`
}

func (r customerRequest) apply(c *entity.Customer) {
	c.Name = r.Name
	c.Mobile = r.Mobile
	c.AltMobile = r.AltMobile
	c.Email = r.Email
	c.Address = r.Address
	c.City = r.City
	c.Area = r.Area
	c.Whatsapp = r.Whatsapp
	c.Gender = r.Gender
	c.Notes = r.Notes
	c.StylePref = r.StylePref
	if r.Birthday != "" {
		if bd, err := time.Parse(dateLayout, r.Birthday); err == nil {
			c.Birthday = &bd
		}
	} else {
		c.Birthday = nil
	}
}

func customerJSON(c *entity.Customer) gin.H {
	out := gin.H{
		"id":           c.ID,
		"name":         c.Name,
		"mobile":       c.Mobile,
		"alt_mobile":   c.AltMobile,
		"email":        c.Email,
		"address":      c.Address,
		"city":         c.City,
		"area":         c.Area,
		"whatsapp":     c.Whatsapp,
		"gender":       c.Gender,
		"photo":        c.Photo,
		"notes":        c.Notes,
		"style_pref":   c.StylePref,
		"created_date": c.CreatedDate,
		"last_visit":   c.LastVisit,
	}
	if c.Birthday != nil {
		out["birthday"] = c.Birthday.Format(dateLayout)
	}
	return out
}

func (h *CustomerHandler) Create(c *gin.Context) {
	var req customerRequest
	if err := c.ShouldBind(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	cust := &entity.Customer{AccountID: middleware.AccountID(c)}
	req.apply(cust)
	if err := h.Svc.Create(c.Request.Context(), cust); err != nil {
		if errors.Is(err, repo.ErrDuplicateMobile) {
			response.Error(c, http.StatusConflict, "a customer with this mobile already exists", nil)
			return
		}
		h.Logger.WithError(err).Error("create customer failed")
		response.Error(c, http.StatusInternalServerError, "could not create customer", nil)
		return
	}
	response.Success(c, http.StatusCreated, customerJSON(cust), "customer created", nil)
}

func (h *CustomerHandler) Update(c *gin.Context) {
	var req customerRequest
	if err := c.ShouldBind(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	accountID := middleware.AccountID(c)
	cust, err := h.Svc.Get(c.Request.Context(), accountID, c.Param("id"))
	if err != nil {
		response.Error(c, http.StatusNotFound, "customer not found", nil)
		return
	}
	req.apply(cust)
	if err := h.Svc.Update(c.Request.Context(), cust); err != nil {
		if errors.Is(err, repo.ErrDuplicateMobile) {
			response.Error(c, http.StatusConflict, "a customer with this mobile already exists", nil)
			return
		}
		h.Logger.WithError(err).Error("update customer failed")
		response.Error(c, http.StatusInternalServerError, "could not update customer", nil)
		return
	}
	response.Success(c, http.StatusOK, customerJSON(cust), "customer updated", nil)
}

func (h *CustomerHandler) Get(c *gin.Context) {
	accountID := middleware.AccountID(c)
	cust, err := h.Svc.Get(c.Request.Context(), accountID, c.Param("id"))
	if err != nil {
		response.Error(c, http.StatusNotFound, "customer not found", nil)
		return
	}
	pending, err := h.Svc.PendingTotal(c.Request.Context(), accountID, cust.ID)
	if err != nil {
		h.Logger.WithError(err).Warn("pending total failed")
	}
	out := customerJSON(cust)
	out["pending_total"] = pending
	response.Success(c, http.StatusOK, out, "customer", nil)
}

func (h *CustomerHandler) Delete(c *gin.Context) {
	if err := h.Svc.Delete(c.Request.Context(), middleware.AccountID(c), c.Param("id")); err != nil {
		if errors.Is(err, app.ErrCustomerNotFound) {
			response.Error(c, http.StatusNotFound, "customer not found", nil)
			return
		}
		h.Logger.WithError(err).Error("delete customer failed")
		response.Error(c, http.StatusInternalServerError, "could not delete customer", nil)
		return
	}
	response.Success[any](c, http.StatusOK, map[string]any{"deleted": true}, "customer deleted", nil)
}

// List pages customers, scoped by last visit to a month unless an exact date
// is given.
func (h *CustomerHandler) List(c *gin.Context) {
	q := repo.CustomerQuery{
		Search:  c.Query("search"),
		Gender:  c.Query("gender"),
		Status:  c.Query("status"),
		Window:  windowFromQuery(c),
		Page:    intQuery(c, "page", 1),
		PerPage: intQuery(c, "per_page", 20),
	}
	if d := c.Query("date"); d != "" {
		if day, err := time.Parse(dateLayout, d); err == nil {
			w := entity.DayWindow(day)
			q.Date = &w
		}
	}
	rows, total, err := h.Svc.List(c.Request.Context(), middleware.AccountID(c), q)
	if err != nil {
		h.Logger.WithError(err).Error("list customers failed")
		response.Error(c, http.StatusInternalServerError, "could not list customers", nil)
		return
	}
	out := make([]gin.H, 0, len(rows))
	for i := range rows {
		item := customerJSON(&rows[i].Customer)
		item["order_count"] = rows[i].OrderCount
		item["pending_total"] = rows[i].PendingTotal
		out = append(out, item)
	}
	response.Success(c, http.StatusOK, out, "customers", listMeta(q.Page, q.PerPage, total, q.Window))
}

func (h *CustomerHandler) Search(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		response.Success(c, http.StatusOK, []gin.H{}, "search results", nil)
		return
	}
	found, err := h.Svc.Search(c.Request.Context(), middleware.AccountID(c), query, intQuery(c, "limit", 10))
	if err != nil {
		h.Logger.WithError(err).Error("customer search failed")
		response.Error(c, http.StatusInternalServerError, "search failed", nil)
		return
	}
	out := make([]gin.H, 0, len(found))
	for i := range found {
		out = append(out, customerJSON(&found[i]))
	}
	response.Success(c, http.StatusOK, out, "search results", nil)
}

func (h *CustomerHandler) UploadPhoto(c *gin.Context) {
	file, err := c.FormFile("photo")
	if err != nil {
		response.Error(c, http.StatusBadRequest, "missing photo file", nil)
		return
	}
	src, err := file.Open()
	if err != nil {
		response.Error(c, http.StatusBadRequest, "could not read photo", nil)
		return
	}
	defer func() { _ = src.Close() }()

	url, err := h.Svc.UploadPhoto(c.Request.Context(), middleware.AccountID(c), c.Param("id"),
		src, file.Filename, file.Header.Get("Content-Type"))
	if err != nil {
		if errors.Is(err, app.ErrCustomerNotFound) {
			response.Error(c, http.StatusNotFound, "customer not found", nil)
			return
		}
		h.Logger.WithError(err).Error("photo upload failed")
		response.Error(c, http.StatusInternalServerError, "could not upload photo", nil)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"photo": url}, "photo uploaded", nil)
}

// windowFromQuery builds the month window from ?month=&year=, defaulting to
// the current month.
func windowFromQuery(c *gin.Context) entity.Window {
	now := time.Now()
	year := intQuery(c, "year", now.Year())
	month := intQuery(c, "month", int(now.Month()))
	if month < 1 || month > 12 {
		month = int(now.Month())
	}
	return entity.MonthWindow(year, time.Month(month), now.Location())
}

func intQuery(c *gin.Context, key string, def int) int {
	v := c.Query(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func listMeta(page, perPage, total int, w entity.Window) map[string]any {
	pages := total / perPage
	if total%perPage != 0 {
		pages++
	}
	return map[string]any{
		"page":     page,
		"per_page": perPage,
		"total":    total,
		"pages":    pages,
		"window":   w.Label(),
	}
}
