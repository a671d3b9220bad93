package router

import (
	"Office_Hub/internal/handler"
	"Office_Hub/internal/middleware"
	"Office_Hub/internal/pkg"
	"Office_Hub/internal/service"

	"github.com/gin-gonic/gin"
)

// Deps 路由需要的全部服务
type Deps struct {
	Users      *service.UserService
	Divisions  *service.DivisionService
	Employees  *service.EmployeeService
	Posts      *service.PostService
	Comments   *service.CommentService
	Dashboard  *service.DashboardService
	Reports    *service.ReportService
	Storage    *pkg.DiskStorage
	RequestLog bool
}

func InitRouter(d Deps) *gin.Engine {
	r := gin.New()
	if d.RequestLog {
		r.Use(gin.Logger())
	}
	r.Use(middleware.Recovery(), middleware.ErrorHandler())
	r.MaxMultipartMemory = 8 << 20
	r.NoRoute(middleware.NoRoute)

	user := handler.NewUserHandler(d.Users, d.Storage)
	division := handler.NewDivisionHandler(d.Divisions)
	employee := handler.NewEmployeeHandler(d.Employees, d.Storage)
	post := handler.NewPostHandler(d.Posts, d.Storage)
	comment := handler.NewCommentHandler(d.Comments, d.Storage)
	dashboard := handler.NewDashboardHandler(d.Dashboard)
	report := handler.NewReportHandler(d.Reports)

	auth := middleware.AuthMiddleware(d.Users)

	// 上传文件
	r.Static(pkg.UploadsRoute, d.Storage.Root())

	api := r.Group("/api")

	// 游客接口：已登录再访问返回 403
	guest := api.Group("")
	guest.Use(middleware.GuestOnly(d.Users))
	{
		guest.POST("/login", user.Login)
		guest.POST("/register", user.Register)
	}

	// token相关接口
	api.POST("/token/refresh", user.TokenRefresh)

	// 公开接口
	{
		api.GET("/posts", post.List)
		api.GET("/posts/:id", post.Get)
		api.GET("/posts/:id/comments", comment.ListByPost)
		api.GET("/users/:id", user.Profile)
		api.GET("/reports/nilai-rt", report.NilaiRT)
		api.GET("/reports/nilai-st", report.NilaiST)
	}

	// 登录态接口
	authGroup := api.Group("")
	authGroup.Use(auth)
	{
		authGroup.POST("/logout", user.Logout)
		authGroup.GET("/me", user.Me)
		authGroup.PUT("/me", user.UpdateMe)
		authGroup.POST("/me/avatar", user.UpdateAvatar)
		authGroup.POST("/me/password", user.ChangePassword)
		authGroup.GET("/dashboard", dashboard.Index)
	}

	// 部门相关接口
	divisionGroup := api.Group("/divisions")
	divisionGroup.Use(auth)
	{
		divisionGroup.GET("", division.List)
		divisionGroup.POST("", division.Create)
		divisionGroup.GET("/:id", division.Get)
		divisionGroup.PUT("/:id", division.Update)
		divisionGroup.DELETE("/:id", division.Delete)
	}

	// 员工相关接口
	employeeGroup := api.Group("/employees")
	employeeGroup.Use(auth)
	{
		employeeGroup.GET("", employee.List)
		employeeGroup.POST("", employee.Create)
		employeeGroup.GET("/export", employee.Export)
		employeeGroup.POST("/bulk-delete", employee.BulkDelete)
		employeeGroup.GET("/:id", employee.Get)
		employeeGroup.PUT("/:id", employee.Update)
		employeeGroup.POST("/:id", employee.Update) // 部分客户端无法用 PUT 提交 multipart
		employeeGroup.DELETE("/:id", employee.Delete)
	}

	// 帖子相关接口
	postGroup := api.Group("/posts")
	postGroup.Use(auth)
	{
		postGroup.POST("", post.CreatePost)
		postGroup.PUT("/:id", middleware.RequirePostOwner(d.Posts), post.UpdatePost)
		postGroup.DELETE("/:id", middleware.RequirePostOwner(d.Posts), post.DeletePost)
		postGroup.POST("/:id/comments", comment.Create)
		postGroup.PUT("/:id/comments/:commentId", middleware.RequireNestedCommentOwner(d.Comments), comment.Update)
		postGroup.DELETE("/:id/comments/:commentId", middleware.RequireNestedCommentOwner(d.Comments), comment.Delete)
	}

	// 评论相关接口
	commentGroup := api.Group("/comments")
	commentGroup.Use(auth)
	{
		commentGroup.PUT("/:id", middleware.RequireCommentOwner(d.Comments, "id"), comment.Update)
		commentGroup.DELETE("/:id", middleware.RequireCommentOwner(d.Comments, "id"), comment.Delete)
	}

	return r
}
