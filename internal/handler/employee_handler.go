package handler

import (
	"encoding/csv"
	"fmt"
	"log"
	"mime/multipart"
	"net/http"
	"time"

	"Office_Hub/internal/model"
	"Office_Hub/internal/pkg"
	"Office_Hub/internal/service"

	"github.com/gin-gonic/gin"
)

type EmployeeHandler struct {
	presenter
	svc *service.EmployeeService
}

// EmployeeForm multipart 表单；字段校验统一在 service 中完成，便于一次返回全部字段错误
type EmployeeForm struct {
	Name     string                `form:"name"`
	Phone    string                `form:"phone"`
	Division string                `form:"division"`
	Position string                `form:"position"`
	Image    *multipart.FileHeader `form:"image"`
}

func (f EmployeeForm) input() service.EmployeeInput {
	return service.EmployeeInput{Name: f.Name, Phone: f.Phone, DivisionID: f.Division, Position: f.Position}
}

type BulkDeleteReq struct {
	IDs []string `json:"ids" binding:"required,min=1,max=100"`
}

func NewEmployeeHandler(svc *service.EmployeeService, urls URLResolver) *EmployeeHandler {
	return &EmployeeHandler{presenter: presenter{urls: urls}, svc: svc}
}

func (h *EmployeeHandler) List(c *gin.Context) {
	q := pkg.ParsePageQuery(c, pkg.MaxPerPageDirectory)
	f := model.EmployeeFilter{Name: c.Query("name"), DivisionID: c.Query("division_id")}
	rows, page, err := h.svc.List(c.Request.Context(), f, q)
	if err != nil {
		c.Error(err)
		return
	}
	pkg.Success(c, http.StatusOK, "Employees retrieved", gin.H{"employees": h.employees(rows)}, page)
}

func (h *EmployeeHandler) Get(c *gin.Context) {
	e, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}
	pkg.Success(c, http.StatusOK, "Employee retrieved", gin.H{"employee": h.employee(e)}, nil)
}

func (h *EmployeeHandler) Create(c *gin.Context) {
	var form EmployeeForm
	if err := c.ShouldBind(&form); err != nil {
		c.Error(pkg.BindError(err))
		return
	}
	e, err := h.svc.Create(c.Request.Context(), form.input(), form.Image)
	if err != nil {
		c.Error(err)
		return
	}
	pkg.Success(c, http.StatusCreated, "Employee created", gin.H{"employee": h.employee(e)}, nil)
}

func (h *EmployeeHandler) Update(c *gin.Context) {
	var form EmployeeForm
	if err := c.ShouldBind(&form); err != nil {
		c.Error(pkg.BindError(err))
		return
	}
	e, err := h.svc.Update(c.Request.Context(), c.Param("id"), form.input(), form.Image)
	if err != nil {
		c.Error(err)
		return
	}
	pkg.Success(c, http.StatusOK, "Employee updated", gin.H{"employee": h.employee(e)}, nil)
}

func (h *EmployeeHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		c.Error(err)
		return
	}
	pkg.Success(c, http.StatusOK, "Employee deleted", nil, nil)
}

func (h *EmployeeHandler) BulkDelete(c *gin.Context) {
	var req BulkDeleteReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(pkg.BindError(err))
		return
	}
	res, err := h.svc.BulkDelete(c.Request.Context(), req.IDs)
	if err != nil {
		c.Error(err)
		return
	}
	pkg.Success(c, http.StatusOK, fmt.Sprintf("Deleted %d employees", len(res.Deleted)), gin.H{
		"deleted":   res.Deleted,
		"not_found": res.NotFound,
		"failed":    res.Failed,
	}, nil)
}

// Export 以 CSV 附件形式导出全部员工
func (h *EmployeeHandler) Export(c *gin.Context) {
	rows, err := h.svc.ExportRows(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}

	filename := fmt.Sprintf("employees_export_%s.csv", time.Now().Format("2006-01-02_15-04-05"))
	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Status(http.StatusOK)

	w := csv.NewWriter(c.Writer)
	if err = w.WriteAll(rows); err != nil {
		// 响应头已发出，只能记录
		log.Printf("export employees: %v", err)
	}
}
