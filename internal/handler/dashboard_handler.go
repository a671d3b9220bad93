package handler

import (
	"net/http"

	"Office_Hub/internal/pkg"
	"Office_Hub/internal/service"

	"github.com/gin-gonic/gin"
)

type DashboardHandler struct {
	svc *service.DashboardService
}

func NewDashboardHandler(svc *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{svc: svc}
}

func (h *DashboardHandler) Index(c *gin.Context) {
	d, err := h.svc.Summary(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	pkg.Success(c, http.StatusOK, "Dashboard data retrieved", gin.H{
		"stats":      d.Stats,
		"chart_data": d.ChartData,
		"activities": d.Activities,
	}, nil)
}
