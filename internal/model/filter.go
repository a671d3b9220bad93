package model

// DivisionFilter 部门列表筛选条件
type DivisionFilter struct {
	Name string
}

// EmployeeFilter 员工列表筛选条件
type EmployeeFilter struct {
	Name       string
	DivisionID string
}

// PostFilter 帖子列表筛选条件；Query 同时匹配标题、正文和作者用户名
type PostFilter struct {
	Query    string
	AuthorID string
	Category string
}
