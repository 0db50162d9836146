package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/PashaShevchuk/course-management-system-api-sub000/internal/dto"
	"github.com/PashaShevchuk/course-management-system-api-sub000/internal/service"
	"github.com/PashaShevchuk/course-management-system-api-sub000/pkg/response"
)

// InstructorHandler 讲师账户与评分 HTTP 处理器
type InstructorHandler struct {
	instructorSvc service.InstructorService
	gradingSvc    service.GradingService
	homeworkSvc   service.HomeworkService
}

// NewInstructorHandler 创建 InstructorHandler
func NewInstructorHandler(instructorSvc service.InstructorService, gradingSvc service.GradingService, homeworkSvc service.HomeworkService) *InstructorHandler {
	return &InstructorHandler{
		instructorSvc: instructorSvc,
		gradingSvc:    gradingSvc,
		homeworkSvc:   homeworkSvc,
	}
}

// ────────────────────── 账户 ──────────────────────

// Register 讲师注册（待管理员激活）
// POST /instructors/registration
func (h *InstructorHandler) Register(c *gin.Context) {
	var req dto.InstructorRegistrationRequest
	if !bindJSON(c, &req) {
		return
	}

	inst, err := h.instructorSvc.Register(c.Request.Context(), &req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Created(c, inst)
}

// List 讲师列表（管理员）
// GET /instructors
func (h *InstructorHandler) List(c *gin.Context) {
	var req dto.AccountListRequest
	if !bindQuery(c, &req) {
		return
	}

	list, total, err := h.instructorSvc.List(c.Request.Context(), &req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OKPage(c, list, total, req.GetPage(), req.GetPageSize())
}

// Get 讲师详情（管理员）
// GET /instructors/:id
func (h *InstructorHandler) Get(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	inst, err := h.instructorSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, inst)
}

// UpdateStatus 启用/停用讲师（管理员）
// PUT /instructors/:id/status
func (h *InstructorHandler) UpdateStatus(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateStatusRequest
	if !bindJSON(c, &req) {
		return
	}

	inst, err := h.instructorSvc.UpdateStatus(c.Request.Context(), id, *req.IsActive)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, inst)
}

// Delete 删除讲师（管理员）
// DELETE /instructors/:id
func (h *InstructorHandler) Delete(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := h.instructorSvc.Delete(c.Request.Context(), id); err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, nil)
}

// ChangePassword 修改本人密码
// PUT /instructors/password
func (h *InstructorHandler) ChangePassword(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	var req dto.ChangePasswordRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := h.instructorSvc.ChangePassword(c.Request.Context(), userID, &req); err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, nil)
}

// ────────────────────── 任教课程 ──────────────────────

// Courses 本人任教课程
// GET /instructors/courses
func (h *InstructorHandler) Courses(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	courses, err := h.gradingSvc.ListCourses(c.Request.Context(), userID)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, courses)
}

// Students 任教课程的选课学生
// GET /instructors/courses/:courseId/students
func (h *InstructorHandler) Students(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	courseID, ok := paramID(c, "courseId")
	if !ok {
		return
	}

	students, err := h.gradingSvc.ListStudents(c.Request.Context(), userID, courseID)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, students)
}

// PutMark 为学生课时打分
// PUT /instructors/courses/:courseId/students/:studentId/lessons/:lessonId/mark
func (h *InstructorHandler) PutMark(c *gin.Context) {
	userID, courseID, studentID, ok := h.studentScope(c)
	if !ok {
		return
	}
	lessonID, ok := paramID(c, "lessonId")
	if !ok {
		return
	}
	var req dto.PutMarkRequest
	if !bindJSON(c, &req) {
		return
	}

	sm, err := h.gradingSvc.PutMark(c.Request.Context(), userID, studentID, lessonID, courseID, *req.Mark)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, sm)
}

// CreateFeedback 为学生写课程评语
// POST /instructors/courses/:courseId/students/:studentId/feedback
func (h *InstructorHandler) CreateFeedback(c *gin.Context) {
	userID, courseID, studentID, ok := h.studentScope(c)
	if !ok {
		return
	}
	var req dto.CreateFeedbackRequest
	if !bindJSON(c, &req) {
		return
	}

	fb, err := h.gradingSvc.CreateFeedback(c.Request.Context(), userID, courseID, studentID, req.Text)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Created(c, fb)
}

// DownloadHomework 下载学生作业
// GET /instructors/courses/:courseId/students/:studentId/lessons/:lessonId/homework
func (h *InstructorHandler) DownloadHomework(c *gin.Context) {
	userID, courseID, studentID, ok := h.studentScope(c)
	if !ok {
		return
	}
	lessonID, ok := paramID(c, "lessonId")
	if !ok {
		return
	}

	hw, rc, err := h.homeworkSvc.OpenForInstructor(c.Request.Context(), userID, studentID, courseID, lessonID)
	if err != nil {
		response.FromError(c, err)
		return
	}
	serveHomework(c, hw, rc)
}

// studentScope 解析 (讲师, 课程, 学生)
func (h *InstructorHandler) studentScope(c *gin.Context) (userID, courseID, studentID uint, ok bool) {
	if userID, ok = MustGetUserID(c); !ok {
		return
	}
	if courseID, ok = paramID(c, "courseId"); !ok {
		return
	}
	studentID, ok = paramID(c, "studentId")
	return
}
