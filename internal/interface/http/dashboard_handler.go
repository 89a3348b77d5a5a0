package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	app "github.com/taivex/taivex/internal/application"
	"github.com/taivex/taivex/internal/interface/middleware"
	"github.com/taivex/taivex/pkg/response"
)

type DashboardHandler struct {
	Svc    *app.DashboardService
	Logger *logrus.Logger
}

func NewDashboardHandler(svc *app.DashboardService, logger *logrus.Logger) *DashboardHandler {
	return &DashboardHandler{Svc: svc, Logger: logger}
}

func (h *DashboardHandler) Overview(c *gin.Context) {
	ov, err := h.Svc.Overview(c.Request.Context(), middleware.AccountID(c))
	if err != nil {
		h.Logger.WithError(err).Error("dashboard overview failed")
		response.Error(c, http.StatusInternalServerError, "could not load dashboard", nil)
		return
	}
	response.Success(c, http.StatusOK, ov, "dashboard", nil)
}
