package handler

import (
	"net/http"

	"Office_Hub/internal/model"
	"Office_Hub/internal/pkg"
	"Office_Hub/internal/service"

	"github.com/gin-gonic/gin"
)

type DivisionHandler struct {
	presenter
	svc *service.DivisionService
}

type DivisionReq struct {
	Name string `json:"name" form:"name" binding:"required,max=255"`
}

func NewDivisionHandler(svc *service.DivisionService) *DivisionHandler {
	return &DivisionHandler{svc: svc}
}

func (h *DivisionHandler) List(c *gin.Context) {
	q := pkg.ParsePageQuery(c, pkg.MaxPerPageDirectory)
	rows, page, err := h.svc.List(c.Request.Context(), model.DivisionFilter{Name: c.Query("name")}, q)
	if err != nil {
		c.Error(err)
		return
	}
	pkg.Success(c, http.StatusOK, "Divisions retrieved", gin.H{"divisions": h.divisions(rows)}, page)
}

func (h *DivisionHandler) Get(c *gin.Context) {
	d, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}
	pkg.Success(c, http.StatusOK, "Division retrieved", gin.H{"division": h.division(d)}, nil)
}

func (h *DivisionHandler) Create(c *gin.Context) {
	var req DivisionReq
	if err := c.ShouldBind(&req); err != nil {
		c.Error(pkg.BindError(err))
		return
	}
	d, err := h.svc.Create(c.Request.Context(), req.Name)
	if err != nil {
		c.Error(err)
		return
	}
	pkg.Success(c, http.StatusCreated, "Division created", gin.H{"division": h.division(d)}, nil)
}

func (h *DivisionHandler) Update(c *gin.Context) {
	var req DivisionReq
	if err := c.ShouldBind(&req); err != nil {
		c.Error(pkg.BindError(err))
		return
	}
	d, err := h.svc.Update(c.Request.Context(), c.Param("id"), req.Name)
	if err != nil {
		c.Error(err)
		return
	}
	pkg.Success(c, http.StatusOK, "Division updated", gin.H{"division": h.division(d)}, nil)
}

func (h *DivisionHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		c.Error(err)
		return
	}
	pkg.Success(c, http.StatusOK, "Division deleted", nil, nil)
}
