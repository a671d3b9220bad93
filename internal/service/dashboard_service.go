package service

import (
	"context"
	"log"
	"time"

	"Office_Hub/internal/model"
)

const (
	dashboardCacheKey = "dashboard:summary"
	dashboardCacheTTL = 30 * time.Second
	recentActivities  = 5
)

type DashboardStats struct {
	TotalEmployees int64 `json:"total_employees"`
	TotalDivisions int64 `json:"total_divisions"`
}

type ActivityItem struct {
	ID          uint64    `json:"id"`
	Description string    `json:"description"`
	Event       string    `json:"event"`
	CreatedAt   time.Time `json:"created_at"`
}

type Dashboard struct {
	Stats      DashboardStats        `json:"stats"`
	ChartData  []model.DivisionCount `json:"chart_data"`
	Activities []ActivityItem        `json:"activities"`
}

type DashboardService struct {
	employees  EmployeeRepository
	divisions  DivisionRepository
	activities ActivityRepository
	cache      Cache
}

// NewDashboardService cache 可为 nil（不缓存）
func NewDashboardService(employees EmployeeRepository, divisions DivisionRepository, activities ActivityRepository, cache Cache) *DashboardService {
	return &DashboardService{employees: employees, divisions: divisions, activities: activities, cache: cache}
}

// Summary 先读缓存，未命中时回源并回填
func (s *DashboardService) Summary(ctx context.Context) (*Dashboard, error) {
	if s.cache != nil {
		var cached Dashboard
		if ok, err := s.cache.GetJSON(ctx, dashboardCacheKey, &cached); err == nil && ok {
			return &cached, nil
		}
	}

	d, err := s.build(ctx)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		if err = s.cache.SetJSON(ctx, dashboardCacheKey, d, dashboardCacheTTL); err != nil {
			log.Printf("cache dashboard: %v", err)
		}
	}
	return d, nil
}

// Invalidate 员工或部门变化后清理缓存
func (s *DashboardService) Invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, dashboardCacheKey); err != nil {
		log.Printf("invalidate dashboard cache: %v", err)
	}
}

// EmployeeHook 作为员工写入钩子使用
func (s *DashboardService) EmployeeHook() EmployeeHook {
	return func(ctx context.Context, _ string, _ *model.Employee) error {
		s.Invalidate(ctx)
		return nil
	}
}

func (s *DashboardService) build(ctx context.Context) (*Dashboard, error) {
	totalEmployees, err := s.employees.Count(ctx)
	if err != nil {
		return nil, err
	}
	totalDivisions, err := s.divisions.Count(ctx)
	if err != nil {
		return nil, err
	}
	chart, err := s.divisions.EmployeeCounts(ctx)
	if err != nil {
		return nil, err
	}
	logs, err := s.activities.Latest(ctx, recentActivities)
	if err != nil {
		return nil, err
	}

	items := make([]ActivityItem, 0, len(logs))
	for _, a := range logs {
		items = append(items, ActivityItem{ID: a.ID, Description: a.Description, Event: a.Event, CreatedAt: a.CreatedAt})
	}
	if chart == nil {
		chart = []model.DivisionCount{}
	}
	return &Dashboard{
		Stats:      DashboardStats{TotalEmployees: totalEmployees, TotalDivisions: totalDivisions},
		ChartData:  chart,
		Activities: items,
	}, nil
}
