package rdb

import (
	"context"

	"Office_Hub/internal/model"
	"Office_Hub/internal/pkg"

	"gorm.io/gorm"
)

type DivisionRepository struct {
	DB *gorm.DB
}

// List 按名称升序分页
func (r *DivisionRepository) List(ctx context.Context, f model.DivisionFilter, q pkg.PageQuery) ([]model.Division, int64, error) {
	tx := r.DB.WithContext(ctx).Model(&model.Division{})
	if f.Name != "" {
		tx = tx.Where(likeExpr("name"), pkg.LikePattern(f.Name))
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []model.Division
	err := tx.Order("name ASC").Order("id ASC").
		Offset(q.Offset()).Limit(q.PerPage).
		Find(&rows).Error
	return rows, total, err
}

func (r *DivisionRepository) FindByID(ctx context.Context, id string) (*model.Division, error) {
	var d model.Division
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&d).Error; err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *DivisionRepository) Create(ctx context.Context, d *model.Division) error {
	return mapDBError(r.DB.WithContext(ctx).Create(d).Error)
}

func (r *DivisionRepository) Update(ctx context.Context, d *model.Division) error {
	return mapDBError(r.DB.WithContext(ctx).Model(d).Update("name", d.Name).Error)
}

// Delete 返回受影响行数，0 表示记录不存在
func (r *DivisionRepository) Delete(ctx context.Context, id string) (int64, error) {
	res := r.DB.WithContext(ctx).Where("id = ?", id).Delete(&model.Division{})
	return res.RowsAffected, mapDBError(res.Error)
}

func (r *DivisionRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&model.Division{}).Count(&n).Error
	return n, err
}

// EmployeeCounts 每个部门的员工数，按数量降序
func (r *DivisionRepository) EmployeeCounts(ctx context.Context) ([]model.DivisionCount, error) {
	var rows []model.DivisionCount
	err := r.DB.WithContext(ctx).Model(&model.Division{}).
		Select("divisions.name AS name, COUNT(employees.id) AS count").
		Joins("LEFT JOIN employees ON employees.division_id = divisions.id").
		Group("divisions.id, divisions.name").
		Order("count DESC").Order("divisions.name ASC").
		Scan(&rows).Error
	return rows, err
}
