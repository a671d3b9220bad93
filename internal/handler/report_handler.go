package handler

import (
	"net/http"

	"Office_Hub/internal/pkg"
	"Office_Hub/internal/service"

	"github.com/gin-gonic/gin"
)

type ReportHandler struct {
	svc *service.ReportService
}

func NewReportHandler(svc *service.ReportService) *ReportHandler {
	return &ReportHandler{svc: svc}
}

func (h *ReportHandler) NilaiRT(c *gin.Context) {
	rows, err := h.svc.NilaiRT(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	pkg.Success(c, http.StatusOK, "RT scores retrieved", gin.H{"reports": rows}, nil)
}

func (h *ReportHandler) NilaiST(c *gin.Context) {
	rows, err := h.svc.NilaiST(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	pkg.Success(c, http.StatusOK, "ST scores retrieved", gin.H{"reports": rows}, nil)
}
