package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/PashaShevchuk/course-management-system-api-sub000/config"
	"github.com/PashaShevchuk/course-management-system-api-sub000/internal/api/handler"
	"github.com/PashaShevchuk/course-management-system-api-sub000/internal/api/middleware"
	"github.com/PashaShevchuk/course-management-system-api-sub000/internal/model"
)

// Setup 初始化并返回 Gin 路由引擎
// limiter 为 nil 时登录接口不限流
func Setup(cfg *config.Config, h *handler.Handler, verifier middleware.TokenVerifier, limiter middleware.RateLimiter, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))

	// ── 健康检查 ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	authn := middleware.JWTAuth(verifier)
	adminOnly := middleware.RoleAuth(model.RoleAdmin)
	instructorOnly := middleware.RoleAuth(model.RoleInstructor)
	studentOnly := middleware.RoleAuth(model.RoleStudent)

	// 作业上传单独限制请求体，其余接口统一使用 server.body_limit
	uploadLimit := middleware.BodyLimit(cfg.Storage.MaxFileSize*int64(cfg.Storage.MaxFiles) + 1<<20)
	api := r.Group("", middleware.BodyLimit(cfg.Server.BodyLimit))

	// 认证模块
	auth := api.Group("/auth")
	{
		auth.POST("/login", middleware.RateLimit(limiter, cfg.Auth.LoginRateLimit, cfg.Auth.LoginRateWindow), h.Auth.Login)
		auth.POST("/logout", authn, middleware.RoleAuth(), h.Auth.Logout)
		auth.GET("/me", authn, middleware.RoleAuth(), h.Auth.Me)
	}

	// 管理员账户
	admins := api.Group("/admins")
	{
		admins.POST("", h.Admin.Create)
		admins.GET("", authn, adminOnly, h.Admin.List)
		admins.GET("/:id", authn, adminOnly, h.Admin.Get)
		admins.PUT("/:id", authn, adminOnly, h.Admin.Update)
		admins.DELETE("/:id", authn, adminOnly, h.Admin.Delete)
	}

	// 讲师：账户管理 + 任教课程
	instructors := api.Group("/instructors")
	{
		instructors.POST("/registration", h.Instructor.Register)
		instructors.PUT("/password", authn, instructorOnly, h.Instructor.ChangePassword)

		instructors.GET("", authn, adminOnly, h.Instructor.List)
		instructors.GET("/:id", authn, adminOnly, h.Instructor.Get)
		instructors.PUT("/:id/status", authn, adminOnly, h.Instructor.UpdateStatus)
		instructors.DELETE("/:id", authn, adminOnly, h.Instructor.Delete)

		teaching := instructors.Group("/courses", authn, instructorOnly)
		{
			teaching.GET("", h.Instructor.Courses)
			teaching.GET("/:courseId/students", h.Instructor.Students)
			teaching.PUT("/:courseId/students/:studentId/lessons/:lessonId/mark", h.Instructor.PutMark)
			teaching.GET("/:courseId/students/:studentId/lessons/:lessonId/homework", h.Instructor.DownloadHomework)
			teaching.POST("/:courseId/students/:studentId/feedback", h.Instructor.CreateFeedback)
		}
	}

	// 学生：账户管理 + 自助选课
	students := api.Group("/students")
	{
		students.POST("/registration", h.Student.Register)
		students.PUT("/password", authn, studentOnly, h.Student.ChangePassword)
		students.POST("/take-course", authn, studentOnly, h.Student.TakeCourse)

		students.GET("", authn, adminOnly, h.Student.List)
		students.GET("/:id", authn, adminOnly, h.Student.Get)
		students.PUT("/:id/status", authn, adminOnly, h.Student.UpdateStatus)
		students.DELETE("/:id", authn, adminOnly, h.Student.Delete)

		learning := students.Group("/courses", authn, studentOnly)
		{
			learning.GET("", h.Student.Courses)
			learning.GET("/:courseId/lessons", h.Student.Lessons)
			learning.GET("/:courseId/marks", h.Student.Marks)
			learning.GET("/:courseId/feedback", h.Student.Feedback)
			learning.GET("/:courseId/lessons/:lessonId/homework", h.Student.DownloadHomework)
			learning.DELETE("/:courseId/lessons/:lessonId/homework", h.Student.DeleteHomework)
		}
	}
	r.POST("/students/courses/:courseId/lessons/:lessonId/homework", uploadLimit, authn, studentOnly, h.Student.UploadHomework)

	// 课程与课时（管理员）
	courses := api.Group("/courses", authn, adminOnly)
	{
		courses.POST("", h.Course.Create)
		courses.GET("", h.Course.List)
		courses.POST("/assign-instructor", h.Course.AssignInstructor)
		courses.GET("/:id", h.Course.Get)
		courses.PUT("/:id", h.Course.Update)
		courses.DELETE("/:id", h.Course.Delete)
		courses.GET("/:id/publish", h.Course.Publish)
		courses.GET("/:id/gradebook", h.Export.Gradebook)
		courses.DELETE("/:id/instructors/:instructorId", h.Course.UnassignInstructor)

		courses.POST("/:id/lessons", h.Course.CreateLesson)
		courses.GET("/:id/lessons", h.Course.ListLessons)
		courses.PUT("/:id/lessons/:lessonId", h.Course.UpdateLesson)
		courses.DELETE("/:id/lessons/:lessonId", h.Course.DeleteLesson)
	}

	return r
}
