package service

import (
	"context"
	"fmt"
	"log"
	"mime/multipart"

	"Office_Hub/internal/model"
	"Office_Hub/internal/pkg"
)

const (
	employeeSubject = "employee"
	employeeDir     = "employees"
	MaxBulkDelete   = 100
)

// EmployeeHook 员工写入成功后同步执行；返回的错误只记录日志，不回滚主写入
type EmployeeHook func(ctx context.Context, event string, e *model.Employee) error

type EmployeeService struct {
	repo      EmployeeRepository
	divisions DivisionRepository
	images    ImageStore
	hooks     []EmployeeHook
}

func NewEmployeeService(repo EmployeeRepository, divisions DivisionRepository, images ImageStore, hooks ...EmployeeHook) *EmployeeService {
	return &EmployeeService{
		repo:      repo,
		divisions: divisions,
		images:    images,
		hooks:     hooks,
	}
}

// ActivityHook 把员工变更写入活动日志
func ActivityHook(repo ActivityRepository) EmployeeHook {
	return func(ctx context.Context, event string, e *model.Employee) error {
		var desc string
		switch event {
		case model.EventCreated:
			desc = fmt.Sprintf("New employee %s joined", e.Name)
		case model.EventUpdated:
			desc = fmt.Sprintf("Employee %s details updated", e.Name)
		case model.EventDeleted:
			desc = fmt.Sprintf("Employee %s was removed", e.Name)
		default:
			return fmt.Errorf("unknown employee event %q", event)
		}
		return repo.Create(ctx, &model.ActivityLog{
			Description: desc,
			Event:       event,
			SubjectType: employeeSubject,
			SubjectID:   e.ID,
		})
	}
}

type EmployeeInput struct {
	Name       string
	Phone      string
	DivisionID string
	Position   string
}

// BulkDeleteResult 批量删除逐条执行，分别报告每个 id 的结果
type BulkDeleteResult struct {
	Deleted  []string `json:"deleted"`
	NotFound []string `json:"not_found"`
	Failed   []string `json:"failed"`
}

func (s *EmployeeService) List(ctx context.Context, f model.EmployeeFilter, q pkg.PageQuery) ([]model.Employee, *pkg.Pagination, error) {
	rows, total, err := s.repo.List(ctx, f, q)
	if err != nil {
		return nil, nil, err
	}
	return rows, pkg.NewPagination(total, q, len(rows)), nil
}

func (s *EmployeeService) Get(ctx context.Context, id string) (*model.Employee, error) {
	if !validID(id) {
		return nil, pkg.NotFound("employee not found")
	}
	e, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, pkg.NotFound("employee not found")
		}
		return nil, err
	}
	return e, nil
}

// Create 图片必填
func (s *EmployeeService) Create(ctx context.Context, in EmployeeInput, image *multipart.FileHeader) (*model.Employee, error) {
	e := &model.Employee{}
	if err := s.apply(ctx, e, in, image == nil); err != nil {
		return nil, err
	}

	rel, err := saveImage(s.images, image, employeeDir, "image")
	if err != nil {
		return nil, err
	}
	e.Image = rel

	if err = s.repo.Create(ctx, e); err != nil {
		_ = s.images.Delete(rel)
		return nil, err
	}
	s.fire(ctx, model.EventCreated, e)
	return e, nil
}

// Update image 为空时保留原图；替换时新图写入且记录更新成功后才删除旧文件
func (s *EmployeeService) Update(ctx context.Context, id string, in EmployeeInput, image *multipart.FileHeader) (*model.Employee, error) {
	e, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err = s.apply(ctx, e, in, false); err != nil {
		return nil, err
	}

	old := e.Image
	if image != nil {
		rel, err := saveImage(s.images, image, employeeDir, "image")
		if err != nil {
			return nil, err
		}
		e.Image = rel
	}

	if err = s.repo.Update(ctx, e); err != nil {
		if e.Image != old {
			_ = s.images.Delete(e.Image)
		}
		return nil, err
	}
	if e.Image != old {
		if err = s.images.Delete(old); err != nil {
			log.Printf("delete employee image %s: %v", old, err)
		}
	}
	s.fire(ctx, model.EventUpdated, e)
	return e, nil
}

func (s *EmployeeService) Delete(ctx context.Context, id string) error {
	e, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	return s.remove(ctx, e)
}

// BulkDelete 逐条删除，单条失败不影响其余 id
func (s *EmployeeService) BulkDelete(ctx context.Context, ids []string) (*BulkDeleteResult, error) {
	if len(ids) == 0 || len(ids) > MaxBulkDelete {
		return nil, pkg.FieldError("ids", fmt.Sprintf("ids must contain 1-%d items", MaxBulkDelete))
	}

	res := &BulkDeleteResult{Deleted: []string{}, NotFound: []string{}, Failed: []string{}}
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}

		err := s.Delete(ctx, id)
		switch {
		case err == nil:
			res.Deleted = append(res.Deleted, id)
		case pkg.KindOf(err) == pkg.KindNotFound:
			res.NotFound = append(res.NotFound, id)
		default:
			log.Printf("bulk delete employee %s: %v", id, err)
			res.Failed = append(res.Failed, id)
		}
	}
	return res, nil
}

// ExportRows CSV 导出的表头和数据行，缺失的部门、图片用 "-" 占位
func (s *EmployeeService) ExportRows(ctx context.Context) ([][]string, error) {
	rows, err := s.repo.All(ctx)
	if err != nil {
		return nil, err
	}
	out := make([][]string, 0, len(rows)+1)
	out = append(out, []string{"ID", "Name", "Division", "Position", "Phone", "Image URL"})
	for _, e := range rows {
		division := "-"
		if e.Division != nil {
			division = e.Division.Name
		}
		image := "-"
		if e.Image != "" {
			image = s.images.URL(e.Image)
		}
		out = append(out, []string{e.ID, e.Name, division, e.Position, e.Phone, image})
	}
	return out, nil
}

func (s *EmployeeService) ImageURL(rel string) string {
	if rel == "" {
		return ""
	}
	return s.images.URL(rel)
}

// remove 先删图片再删记录
func (s *EmployeeService) remove(ctx context.Context, e *model.Employee) error {
	if err := s.images.Delete(e.Image); err != nil {
		log.Printf("delete employee image %s: %v", e.Image, err)
	}
	affected, err := s.repo.Delete(ctx, e.ID)
	if err != nil {
		return err
	}
	if affected == 0 {
		return pkg.NotFound("employee not found")
	}
	s.fire(ctx, model.EventDeleted, e)
	return nil
}

// apply 校验输入并写入 e；部门必须存在
func (s *EmployeeService) apply(ctx context.Context, e *model.Employee, in EmployeeInput, imageMissing bool) error {
	fe := fieldErrors{}
	name := fe.text("name", in.Name, 1, 255)
	phone := fe.text("phone", in.Phone, 1, 30)
	position := fe.text("position", in.Position, 1, 255)
	divisionID := fe.text("division", in.DivisionID, 1, 0)
	if imageMissing {
		fe.add("image", "image is required")
	}

	var division *model.Division
	if divisionID != "" {
		if !validID(divisionID) {
			fe.add("division", "division must be a valid UUID")
		} else {
			d, err := s.divisions.FindByID(ctx, divisionID)
			switch {
			case isNotFound(err):
				fe.add("division", "selected division does not exist")
			case err != nil:
				return err
			default:
				division = d
			}
		}
	}
	if err := fe.err(); err != nil {
		return err
	}

	e.Name = name
	e.Phone = phone
	e.Position = position
	e.DivisionID = division.ID
	e.Division = division
	return nil
}

func (s *EmployeeService) fire(ctx context.Context, event string, e *model.Employee) {
	for _, hook := range s.hooks {
		if err := hook(ctx, event, e); err != nil {
			log.Printf("employee %s hook (%s): %v", event, e.ID, err)
		}
	}
}
