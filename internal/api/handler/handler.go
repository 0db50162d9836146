package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/PashaShevchuk/course-management-system-api-sub000/config"
	"github.com/PashaShevchuk/course-management-system-api-sub000/internal/service"
	"github.com/PashaShevchuk/course-management-system-api-sub000/pkg/response"
	"github.com/PashaShevchuk/course-management-system-api-sub000/pkg/validation"
)

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Auth       *AuthHandler
	Admin      *AdminHandler
	Instructor *InstructorHandler
	Student    *StudentHandler
	Course     *CourseHandler
	Export     *ExportHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(svc *service.Service, storageCfg *config.StorageConfig) *Handler {
	return &Handler{
		Auth:       NewAuthHandler(svc.Auth),
		Admin:      NewAdminHandler(svc.Admin),
		Instructor: NewInstructorHandler(svc.Instructor, svc.Grading, svc.Homework),
		Student:    NewStudentHandler(svc.Student, svc.Enrollment, svc.Homework, storageCfg.MaxFiles),
		Course:     NewCourseHandler(svc.Course, svc.Lesson),
		Export:     NewExportHandler(svc.Export),
	}
}

// ── 绑定辅助 ──

// bindJSON 绑定并校验 JSON 请求体，失败时写入 400
func bindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		response.BadRequest(c, validation.Message(err))
		return false
	}
	return true
}

// bindQuery 绑定并校验查询参数，失败时写入 400
func bindQuery(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindQuery(req); err != nil {
		response.BadRequest(c, validation.Message(err))
		return false
	}
	return true
}

// paramID 解析路径中的正整数 ID，失败时写入 400
func paramID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		response.BadRequest(c, name+" must be a positive integer")
		return 0, false
	}
	return uint(id), true
}
