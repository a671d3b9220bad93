// Package memory 内存版仓储实现，接口与 repository/rdb 一致，供测试使用
package memory

import (
	"sort"
	"strings"
	"sync"
	"time"

	"Office_Hub/internal/model"
	"Office_Hub/internal/pkg"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Store 所有实体共享一把锁，时间戳单调递增保证排序稳定
type Store struct {
	mu    sync.Mutex
	base  time.Time
	ticks int64

	users      map[string]model.User
	divisions  map[string]model.Division
	employees  map[string]model.Employee
	posts      map[string]model.Post
	comments   map[string]model.Comment
	activities []model.ActivityLog
	scores     []model.Score
}

func New() *Store {
	return &Store{
		base:      time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		users:     map[string]model.User{},
		divisions: map[string]model.Division{},
		employees: map[string]model.Employee{},
		posts:     map[string]model.Post{},
		comments:  map[string]model.Comment{},
	}
}

func (s *Store) Users() *UserRepository         { return &UserRepository{s} }
func (s *Store) Divisions() *DivisionRepository { return &DivisionRepository{s} }
func (s *Store) Employees() *EmployeeRepository { return &EmployeeRepository{s} }
func (s *Store) Posts() *PostRepository         { return &PostRepository{s} }
func (s *Store) Comments() *CommentRepository   { return &CommentRepository{s} }
func (s *Store) Activities() *ActivityRepository {
	return &ActivityRepository{s}
}
func (s *Store) Scores() *ScoreRepository { return &ScoreRepository{s} }

// SeedScores 写入成绩明细
func (s *Store) SeedScores(rows ...model.Score) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range rows {
		r.ID = uint64(len(s.scores) + 1)
		s.scores = append(s.scores, r)
	}
}

func (s *Store) now() time.Time {
	s.ticks++
	return s.base.Add(time.Duration(s.ticks) * time.Millisecond)
}

func newID(id string) string {
	if id == "" {
		return uuid.NewString()
	}
	return id
}

func contains(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

// page 对已排序的结果截取当前页
func page[T any](rows []T, q pkg.PageQuery) []T {
	start := q.Offset()
	if start >= len(rows) {
		return []T{}
	}
	end := start + q.PerPage
	if end > len(rows) {
		end = len(rows)
	}
	return rows[start:end]
}

// newestFirst 创建时间倒序，id 兜底
func newestFirst[T any](rows []T, created func(T) time.Time, id func(T) string) {
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := created(rows[i]), created(rows[j])
		if !a.Equal(b) {
			return a.After(b)
		}
		return id(rows[i]) > id(rows[j])
	})
}

var errNotFound = gorm.ErrRecordNotFound

func conflict() error {
	return pkg.Conflict("resource already exists")
}
