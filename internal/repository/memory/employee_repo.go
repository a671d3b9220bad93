package memory

import (
	"context"
	"time"

	"Office_Hub/internal/model"
	"Office_Hub/internal/pkg"
)

type EmployeeRepository struct{ s *Store }

// withDivision 模拟 Preload("Division")，调用方需持有锁
func (r *EmployeeRepository) withDivision(e model.Employee) model.Employee {
	if d, ok := r.s.divisions[e.DivisionID]; ok {
		e.Division = &d
	} else {
		e.Division = nil
	}
	return e
}

func (r *EmployeeRepository) sorted(keep func(model.Employee) bool) []model.Employee {
	var rows []model.Employee
	for _, e := range r.s.employees {
		if keep(e) {
			rows = append(rows, r.withDivision(e))
		}
	}
	newestFirst(rows,
		func(e model.Employee) time.Time { return e.CreatedAt },
		func(e model.Employee) string { return e.ID })
	return rows
}

func (r *EmployeeRepository) List(_ context.Context, f model.EmployeeFilter, q pkg.PageQuery) ([]model.Employee, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	rows := r.sorted(func(e model.Employee) bool {
		return (f.Name == "" || contains(e.Name, f.Name)) &&
			(f.DivisionID == "" || e.DivisionID == f.DivisionID)
	})
	return page(rows, q), int64(len(rows)), nil
}

func (r *EmployeeRepository) FindByID(_ context.Context, id string) (*model.Employee, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	e, ok := r.s.employees[id]
	if !ok {
		return nil, errNotFound
	}
	e = r.withDivision(e)
	return &e, nil
}

func (r *EmployeeRepository) Create(_ context.Context, e *model.Employee) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.divisions[e.DivisionID]; !ok {
		return pkg.Conflict("referenced resource does not exist")
	}
	e.ID = newID(e.ID)
	e.CreatedAt = r.s.now()
	e.UpdatedAt = e.CreatedAt
	stored := *e
	stored.Division = nil
	r.s.employees[e.ID] = stored
	return nil
}

func (r *EmployeeRepository) Update(_ context.Context, e *model.Employee) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.employees[e.ID]
	if !ok {
		return nil
	}
	cur.DivisionID = e.DivisionID
	cur.Name = e.Name
	cur.Phone = e.Phone
	cur.Position = e.Position
	cur.Image = e.Image
	cur.UpdatedAt = r.s.now()
	r.s.employees[e.ID] = cur
	return nil
}

func (r *EmployeeRepository) Delete(_ context.Context, id string) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.employees[id]; !ok {
		return 0, nil
	}
	delete(r.s.employees, id)
	return 1, nil
}

func (r *EmployeeRepository) Count(context.Context) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return int64(len(r.s.employees)), nil
}

func (r *EmployeeRepository) CountByDivision(_ context.Context, divisionID string) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for _, e := range r.s.employees {
		if e.DivisionID == divisionID {
			n++
		}
	}
	return n, nil
}

func (r *EmployeeRepository) All(context.Context) ([]model.Employee, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.sorted(func(model.Employee) bool { return true }), nil
}
