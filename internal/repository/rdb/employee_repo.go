package rdb

import (
	"context"

	"Office_Hub/internal/model"
	"Office_Hub/internal/pkg"

	"gorm.io/gorm"
)

type EmployeeRepository struct {
	DB *gorm.DB
}

// List 按创建时间倒序分页，附带所属部门
func (r *EmployeeRepository) List(ctx context.Context, f model.EmployeeFilter, q pkg.PageQuery) ([]model.Employee, int64, error) {
	tx := r.DB.WithContext(ctx).Model(&model.Employee{})
	if f.Name != "" {
		tx = tx.Where(likeExpr("name"), pkg.LikePattern(f.Name))
	}
	if f.DivisionID != "" {
		tx = tx.Where("division_id = ?", f.DivisionID)
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []model.Employee
	err := tx.Preload("Division").
		Order("created_at DESC").Order("id DESC").
		Offset(q.Offset()).Limit(q.PerPage).
		Find(&rows).Error
	return rows, total, err
}

func (r *EmployeeRepository) FindByID(ctx context.Context, id string) (*model.Employee, error) {
	var e model.Employee
	if err := r.DB.WithContext(ctx).Preload("Division").Where("id = ?", id).First(&e).Error; err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *EmployeeRepository) Create(ctx context.Context, e *model.Employee) error {
	return mapDBError(r.DB.WithContext(ctx).Omit("Division").Create(e).Error)
}

func (r *EmployeeRepository) Update(ctx context.Context, e *model.Employee) error {
	err := r.DB.WithContext(ctx).Model(&model.Employee{ID: e.ID}).Updates(map[string]any{
		"division_id": e.DivisionID,
		"name":        e.Name,
		"phone":       e.Phone,
		"position":    e.Position,
		"image":       e.Image,
	}).Error
	return mapDBError(err)
}

func (r *EmployeeRepository) Delete(ctx context.Context, id string) (int64, error) {
	res := r.DB.WithContext(ctx).Where("id = ?", id).Delete(&model.Employee{})
	return res.RowsAffected, mapDBError(res.Error)
}

func (r *EmployeeRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&model.Employee{}).Count(&n).Error
	return n, err
}

func (r *EmployeeRepository) CountByDivision(ctx context.Context, divisionID string) (int64, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&model.Employee{}).Where("division_id = ?", divisionID).Count(&n).Error
	return n, err
}

// All 导出用，最新的在前
func (r *EmployeeRepository) All(ctx context.Context) ([]model.Employee, error) {
	var rows []model.Employee
	err := r.DB.WithContext(ctx).Preload("Division").
		Order("created_at DESC").Order("id DESC").
		Find(&rows).Error
	return rows, err
}
