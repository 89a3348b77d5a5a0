package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	app "github.com/taivex/taivex/internal/application"
	"github.com/taivex/taivex/internal/domain/entity"
	"github.com/taivex/taivex/internal/interface/middleware"
	"github.com/taivex/taivex/pkg/response"
	"github.com/taivex/taivex/pkg/validation"
)

type CategoryHandler struct {
	Svc    *app.CategoryService
	Logger *logrus.Logger
}

func NewCategoryHandler(svc *app.CategoryService, logger *logrus.Logger) *CategoryHandler {
	return &CategoryHandler{Svc: svc, Logger: logger}
}

type categoryRequest struct {
	Name   string   `json:"name" form:"name" binding:"required,min=2"`
	Gender string   `json:"gender" form:"gender" binding:"required,oneof=male female"`
	Fields []string `json:"fields" form:"fields" binding:"required,min=1"`
}

func categoryJSON(c *entity.Category) gin.H {
	return gin.H{
		"id":        c.ID,
		"name":      c.Name,
		"gender":    c.Gender,
		"is_custom": c.IsCustom,
		"fields":    c.Fields,
	}
}

// List returns the system categories plus the account's custom ones,
// optionally filtered by ?gender=.
func (h *CategoryHandler) List(c *gin.Context) {
	cats, err := h.Svc.List(c.Request.Context(), middleware.AccountID(c), c.Query("gender"))
	if err != nil {
		h.Logger.WithError(err).Error("list categories failed")
		response.Error(c, http.StatusInternalServerError, "could not list categories", nil)
		return
	}
	out := make([]gin.H, 0, len(cats))
	for i := range cats {
		out = append(out, categoryJSON(&cats[i]))
	}
	response.Success(c, http.StatusOK, out, "categories", nil)
}

func (h *CategoryHandler) Create(c *gin.Context) {
	var req categoryRequest
	if err := c.ShouldBind(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	cat, err := h.Svc.CreateCustom(c.Request.Context(), middleware.AccountID(c), req.Gender, req.Name, req.Fields)
	if err != nil {
		if errors.Is(err, app.ErrCategoryExists) {
			response.Error(c, http.StatusConflict, "category already exists", nil)
			return
		}
		h.Logger.WithError(err).Error("create category failed")
		response.Error(c, http.StatusInternalServerError, "could not create category", nil)
		return
	}
	response.Success(c, http.StatusCreated, categoryJSON(cat), "category created", nil)
}

func (h *CategoryHandler) Delete(c *gin.Context) {
	err := h.Svc.Delete(c.Request.Context(), middleware.AccountID(c), c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, app.ErrCategoryNotFound):
			response.Error(c, http.StatusNotFound, "category not found", nil)
		case errors.Is(err, app.ErrCategorySystem):
			response.Error(c, http.StatusForbidden, "system categories cannot be deleted", nil)
		case errors.Is(err, app.ErrCategoryInUse):
			response.Error(c, http.StatusConflict, "category has measurements and cannot be deleted", nil)
		default:
			h.Logger.WithError(err).Error("delete category failed")
			response.Error(c, http.StatusInternalServerError, "could not delete category", nil)
		}
		return
	}
	response.Success[any](c, http.StatusOK, map[string]any{"deleted": true}, "category deleted", nil)
}
