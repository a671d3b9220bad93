package memory

import (
	"context"
	"sort"

	"Office_Hub/internal/model"
)

type ScoreRepository struct{ s *Store }

func (r *ScoreRepository) ListByMateri(_ context.Context, materiUjiID int) ([]model.Score, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var rows []model.Score
	for _, sc := range r.s.scores {
		if sc.MateriUjiID == materiUjiID {
			rows = append(rows, sc)
		}
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Nama != rows[j].Nama {
			return rows[i].Nama < rows[j].Nama
		}
		if rows[i].NISN != rows[j].NISN {
			return rows[i].NISN < rows[j].NISN
		}
		return rows[i].ID < rows[j].ID
	})
	return rows, nil
}
