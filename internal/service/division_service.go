package service

import (
	"context"

	"Office_Hub/internal/model"
	"Office_Hub/internal/pkg"
)

type DivisionService struct {
	repo      DivisionRepository
	employees EmployeeRepository
	onChange  func(ctx context.Context)
}

// NewDivisionService onChange 在部门增删改成功后调用（例如清理仪表盘缓存），可为 nil
func NewDivisionService(repo DivisionRepository, employees EmployeeRepository, onChange func(ctx context.Context)) *DivisionService {
	return &DivisionService{repo: repo, employees: employees, onChange: onChange}
}

func (s *DivisionService) List(ctx context.Context, f model.DivisionFilter, q pkg.PageQuery) ([]model.Division, *pkg.Pagination, error) {
	rows, total, err := s.repo.List(ctx, f, q)
	if err != nil {
		return nil, nil, err
	}
	return rows, pkg.NewPagination(total, q, len(rows)), nil
}

func (s *DivisionService) Get(ctx context.Context, id string) (*model.Division, error) {
	if !validID(id) {
		return nil, pkg.NotFound("division not found")
	}
	d, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, pkg.NotFound("division not found")
		}
		return nil, err
	}
	return d, nil
}

func (s *DivisionService) Create(ctx context.Context, rawName string) (*model.Division, error) {
	fe := fieldErrors{}
	name := fe.text("name", rawName, 1, 255)
	if err := fe.err(); err != nil {
		return nil, err
	}
	d := &model.Division{Name: name}
	if err := s.repo.Create(ctx, d); err != nil {
		return nil, err
	}
	s.changed(ctx)
	return d, nil
}

func (s *DivisionService) Update(ctx context.Context, id, rawName string) (*model.Division, error) {
	fe := fieldErrors{}
	name := fe.text("name", rawName, 1, 255)
	if err := fe.err(); err != nil {
		return nil, err
	}
	d, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	d.Name = name
	if err = s.repo.Update(ctx, d); err != nil {
		return nil, err
	}
	s.changed(ctx)
	return d, nil
}

// Delete 仍有员工的部门不允许删除
func (s *DivisionService) Delete(ctx context.Context, id string) error {
	if !validID(id) {
		return pkg.NotFound("division not found")
	}
	n, err := s.employees.CountByDivision(ctx, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return pkg.Conflict("division still has employees")
	}
	affected, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if affected == 0 {
		return pkg.NotFound("division not found")
	}
	s.changed(ctx)
	return nil
}

func (s *DivisionService) changed(ctx context.Context) {
	if s.onChange != nil {
		s.onChange(ctx)
	}
}
