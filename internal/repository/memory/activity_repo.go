package memory

import (
	"context"

	"Office_Hub/internal/model"
)

type ActivityRepository struct{ s *Store }

func (r *ActivityRepository) Create(_ context.Context, a *model.ActivityLog) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	a.ID = uint64(len(r.s.activities) + 1)
	a.CreatedAt = r.s.now()
	r.s.activities = append(r.s.activities, *a)
	return nil
}

// Latest 新的在前
func (r *ActivityRepository) Latest(_ context.Context, n int) ([]model.ActivityLog, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	rows := make([]model.ActivityLog, 0, n)
	for i := len(r.s.activities) - 1; i >= 0 && len(rows) < n; i-- {
		rows = append(rows, r.s.activities[i])
	}
	return rows, nil
}

func (r *ActivityRepository) ListUnpublished(_ context.Context, batchSize, maxRetry int) ([]model.ActivityLog, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var rows []model.ActivityLog
	for _, a := range r.s.activities {
		if a.PublishedAt == nil && a.Retry < maxRetry {
			rows = append(rows, a)
			if len(rows) == batchSize {
				break
			}
		}
	}
	return rows, nil
}

func (r *ActivityRepository) MarkPublished(_ context.Context, id uint64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if i := int(id) - 1; i >= 0 && i < len(r.s.activities) {
		now := r.s.now()
		r.s.activities[i].PublishedAt = &now
	}
	return nil
}

func (r *ActivityRepository) RetryUpdate(_ context.Context, id uint64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if i := int(id) - 1; i >= 0 && i < len(r.s.activities) {
		r.s.activities[i].Retry++
	}
	return nil
}

// All 测试断言用
func (r *ActivityRepository) All() []model.ActivityLog {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return append([]model.ActivityLog(nil), r.s.activities...)
}
