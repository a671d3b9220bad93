package memory

import (
	"context"
	"sort"

	"Office_Hub/internal/model"
	"Office_Hub/internal/pkg"
)

type DivisionRepository struct{ s *Store }

func (r *DivisionRepository) List(_ context.Context, f model.DivisionFilter, q pkg.PageQuery) ([]model.Division, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var rows []model.Division
	for _, d := range r.s.divisions {
		if f.Name == "" || contains(d.Name, f.Name) {
			rows = append(rows, d)
		}
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Name != rows[j].Name {
			return rows[i].Name < rows[j].Name
		}
		return rows[i].ID < rows[j].ID
	})
	return page(rows, q), int64(len(rows)), nil
}

func (r *DivisionRepository) FindByID(_ context.Context, id string) (*model.Division, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	d, ok := r.s.divisions[id]
	if !ok {
		return nil, errNotFound
	}
	return &d, nil
}

func (r *DivisionRepository) Create(_ context.Context, d *model.Division) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	d.ID = newID(d.ID)
	d.CreatedAt = r.s.now()
	d.UpdatedAt = d.CreatedAt
	r.s.divisions[d.ID] = *d
	return nil
}

func (r *DivisionRepository) Update(_ context.Context, d *model.Division) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.divisions[d.ID]
	if !ok {
		return nil
	}
	cur.Name = d.Name
	cur.UpdatedAt = r.s.now()
	r.s.divisions[d.ID] = cur
	return nil
}

func (r *DivisionRepository) Delete(_ context.Context, id string) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.divisions[id]; !ok {
		return 0, nil
	}
	for _, e := range r.s.employees {
		if e.DivisionID == id {
			return 0, pkg.Conflict("resource is still referenced")
		}
	}
	delete(r.s.divisions, id)
	return 1, nil
}

func (r *DivisionRepository) Count(context.Context) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return int64(len(r.s.divisions)), nil
}

func (r *DivisionRepository) EmployeeCounts(context.Context) ([]model.DivisionCount, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	counts := make(map[string]int64, len(r.s.divisions))
	for _, e := range r.s.employees {
		counts[e.DivisionID]++
	}
	rows := make([]model.DivisionCount, 0, len(r.s.divisions))
	for id, d := range r.s.divisions {
		rows = append(rows, model.DivisionCount{Name: d.Name, Count: counts[id]})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Count != rows[j].Count {
			return rows[i].Count > rows[j].Count
		}
		return rows[i].Name < rows[j].Name
	})
	return rows, nil
}
