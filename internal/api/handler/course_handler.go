package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/PashaShevchuk/course-management-system-api-sub000/internal/dto"
	"github.com/PashaShevchuk/course-management-system-api-sub000/internal/service"
	"github.com/PashaShevchuk/course-management-system-api-sub000/pkg/response"
)

// CourseHandler 课程与课时管理 HTTP 处理器（管理员）
type CourseHandler struct {
	courseSvc service.CourseService
	lessonSvc service.LessonService
}

// NewCourseHandler 创建 CourseHandler
func NewCourseHandler(courseSvc service.CourseService, lessonSvc service.LessonService) *CourseHandler {
	return &CourseHandler{courseSvc: courseSvc, lessonSvc: lessonSvc}
}

// ────────────────────── 课程 ──────────────────────

// Create 创建课程
// POST /courses
func (h *CourseHandler) Create(c *gin.Context) {
	var req dto.CreateCourseRequest
	if !bindJSON(c, &req) {
		return
	}

	course, err := h.courseSvc.Create(c.Request.Context(), &req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Created(c, course)
}

// List 课程列表
// GET /courses?published=true
func (h *CourseHandler) List(c *gin.Context) {
	var req dto.CourseListRequest
	if !bindQuery(c, &req) {
		return
	}

	courses, total, err := h.courseSvc.List(c.Request.Context(), &req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OKPage(c, courses, total, req.GetPage(), req.GetPageSize())
}

// Get 课程详情
// GET /courses/:id
func (h *CourseHandler) Get(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	course, err := h.courseSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, course)
}

// Update 更新课程
// PUT /courses/:id
func (h *CourseHandler) Update(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateCourseRequest
	if !bindJSON(c, &req) {
		return
	}

	course, err := h.courseSvc.Update(c.Request.Context(), id, &req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, course)
}

// Delete 删除课程（级联删除课时、选课与成绩）
// DELETE /courses/:id
func (h *CourseHandler) Delete(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := h.courseSvc.Delete(c.Request.Context(), id); err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, nil)
}

// Publish 发布课程
// GET /courses/:id/publish
func (h *CourseHandler) Publish(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	course, err := h.courseSvc.Publish(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, course)
}

// AssignInstructor 指派讲师
// POST /courses/assign-instructor
func (h *CourseHandler) AssignInstructor(c *gin.Context) {
	var req dto.AssignInstructorRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := h.courseSvc.AssignInstructor(c.Request.Context(), &req); err != nil {
		response.FromError(c, err)
		return
	}
	response.Created(c, req)
}

// UnassignInstructor 取消指派
// DELETE /courses/:id/instructors/:instructorId
func (h *CourseHandler) UnassignInstructor(c *gin.Context) {
	courseID, ok := paramID(c, "id")
	if !ok {
		return
	}
	instructorID, ok := paramID(c, "instructorId")
	if !ok {
		return
	}

	if err := h.courseSvc.UnassignInstructor(c.Request.Context(), courseID, instructorID); err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, nil)
}

// ────────────────────── 课时 ──────────────────────

// CreateLesson 创建课时
// POST /courses/:id/lessons
func (h *CourseHandler) CreateLesson(c *gin.Context) {
	courseID, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req dto.CreateLessonRequest
	if !bindJSON(c, &req) {
		return
	}

	lesson, err := h.lessonSvc.Create(c.Request.Context(), courseID, &req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Created(c, lesson)
}

// ListLessons 课程的课时列表
// GET /courses/:id/lessons
func (h *CourseHandler) ListLessons(c *gin.Context) {
	courseID, ok := paramID(c, "id")
	if !ok {
		return
	}

	lessons, err := h.lessonSvc.List(c.Request.Context(), courseID)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, lessons)
}

// UpdateLesson 更新课时
// PUT /courses/:id/lessons/:lessonId
func (h *CourseHandler) UpdateLesson(c *gin.Context) {
	courseID, ok := paramID(c, "id")
	if !ok {
		return
	}
	lessonID, ok := paramID(c, "lessonId")
	if !ok {
		return
	}
	var req dto.UpdateLessonRequest
	if !bindJSON(c, &req) {
		return
	}

	lesson, err := h.lessonSvc.Update(c.Request.Context(), courseID, lessonID, &req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, lesson)
}

// DeleteLesson 删除课时
// DELETE /courses/:id/lessons/:lessonId
func (h *CourseHandler) DeleteLesson(c *gin.Context) {
	courseID, ok := paramID(c, "id")
	if !ok {
		return
	}
	lessonID, ok := paramID(c, "lessonId")
	if !ok {
		return
	}

	if err := h.lessonSvc.Delete(c.Request.Context(), courseID, lessonID); err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, nil)
}
