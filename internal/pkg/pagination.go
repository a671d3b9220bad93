package pkg

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	DefaultPage    = 1
	DefaultPerPage = 10

	MaxPerPageDirectory = 100 // 部门、员工
	MaxPerPageBlog      = 50  // 帖子、评论
)

type PageQuery struct {
	Page    int
	PerPage int
}

func (q PageQuery) Offset() int {
	return (q.Page - 1) * q.PerPage
}

// NewPageQuery 页码小于 1 取 1；每页数量夹到 [1, maxPerPage]
func NewPageQuery(page, perPage, maxPerPage int) PageQuery {
	if page < 1 {
		page = DefaultPage
	}
	if perPage < 1 {
		perPage = 1
	}
	if perPage > maxPerPage {
		perPage = maxPerPage
	}
	return PageQuery{Page: page, PerPage: perPage}
}

// ParsePageQuery 从 page、per_page（兼容 limit）读取分页参数，无法解析时使用默认值
func ParsePageQuery(c *gin.Context, maxPerPage int) PageQuery {
	page := atoiOr(c.Query("page"), DefaultPage)

	raw := c.Query("per_page")
	if raw == "" {
		raw = c.Query("limit")
	}
	perPage := atoiOr(raw, DefaultPerPage)

	return NewPageQuery(page, perPage, maxPerPage)
}

func atoiOr(raw string, def int) int {
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return def
	}
	return v
}

// Pagination 分页元数据；From/To 为当前页首尾条目的序号，空页为 null
type Pagination struct {
	Total       int64  `json:"total"`
	PerPage     int    `json:"per_page"`
	CurrentPage int    `json:"current_page"`
	LastPage    int    `json:"last_page"`
	From        *int64 `json:"from"`
	To          *int64 `json:"to"`
}

func NewPagination(total int64, q PageQuery, count int) *Pagination {
	p := &Pagination{
		Total:       total,
		PerPage:     q.PerPage,
		CurrentPage: q.Page,
		LastPage:    int((total + int64(q.PerPage) - 1) / int64(q.PerPage)),
	}
	if count > 0 {
		from := int64(q.Offset()) + 1
		to := int64(q.Offset() + count)
		p.From = &from
		p.To = &to
	}
	return p
}

// LikePattern 转义 LIKE 通配符并转小写，用于不区分大小写的子串匹配
func LikePattern(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + strings.ToLower(r.Replace(s)) + "%"
}
