package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/PashaShevchuk/course-management-system-api-sub000/internal/dto"
	"github.com/PashaShevchuk/course-management-system-api-sub000/internal/service"
	"github.com/PashaShevchuk/course-management-system-api-sub000/pkg/response"
)

// StudentHandler 学生账户与学生自助 HTTP 处理器
type StudentHandler struct {
	studentSvc    service.StudentService
	enrollmentSvc service.EnrollmentService
	homeworkSvc   service.HomeworkService
	maxFiles      int
}

// NewStudentHandler 创建 StudentHandler
func NewStudentHandler(studentSvc service.StudentService, enrollmentSvc service.EnrollmentService, homeworkSvc service.HomeworkService, maxFiles int) *StudentHandler {
	return &StudentHandler{
		studentSvc:    studentSvc,
		enrollmentSvc: enrollmentSvc,
		homeworkSvc:   homeworkSvc,
		maxFiles:      maxFiles,
	}
}

// ────────────────────── 账户 ──────────────────────

// Register 学生注册（待管理员激活）
// POST /students/registration
func (h *StudentHandler) Register(c *gin.Context) {
	var req dto.StudentRegistrationRequest
	if !bindJSON(c, &req) {
		return
	}

	student, err := h.studentSvc.Register(c.Request.Context(), &req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Created(c, student)
}

// List 学生列表（管理员）
// GET /students
func (h *StudentHandler) List(c *gin.Context) {
	var req dto.AccountListRequest
	if !bindQuery(c, &req) {
		return
	}

	students, total, err := h.studentSvc.List(c.Request.Context(), &req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OKPage(c, students, total, req.GetPage(), req.GetPageSize())
}

// Get 学生详情（管理员）
// GET /students/:id
func (h *StudentHandler) Get(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	student, err := h.studentSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, student)
}

// UpdateStatus 启用/停用学生（管理员）
// PUT /students/:id/status
func (h *StudentHandler) UpdateStatus(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateStatusRequest
	if !bindJSON(c, &req) {
		return
	}

	student, err := h.studentSvc.UpdateStatus(c.Request.Context(), id, *req.IsActive)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, student)
}

// Delete 删除学生（管理员）
// DELETE /students/:id
func (h *StudentHandler) Delete(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := h.studentSvc.Delete(c.Request.Context(), id); err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, nil)
}

// ChangePassword 修改本人密码
// PUT /students/password
func (h *StudentHandler) ChangePassword(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	var req dto.ChangePasswordRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := h.studentSvc.ChangePassword(c.Request.Context(), userID, &req); err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, nil)
}

// ────────────────────── 选课 ──────────────────────

// TakeCourse 选课
// POST /students/take-course
func (h *StudentHandler) TakeCourse(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	var req dto.TakeCourseRequest
	if !bindJSON(c, &req) {
		return
	}

	sc, err := h.enrollmentSvc.TakeCourse(c.Request.Context(), userID, req.CourseID)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Created(c, sc)
}

// Courses 本人已选课程
// GET /students/courses
func (h *StudentHandler) Courses(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	courses, err := h.enrollmentSvc.ListCourses(c.Request.Context(), userID)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, courses)
}

// Lessons 已选课程的课时
// GET /students/courses/:courseId/lessons
func (h *StudentHandler) Lessons(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	courseID, ok := paramID(c, "courseId")
	if !ok {
		return
	}

	lessons, err := h.enrollmentSvc.ListLessons(c.Request.Context(), userID, courseID)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, lessons)
}

// Marks 已选课程的成绩
// GET /students/courses/:courseId/marks
func (h *StudentHandler) Marks(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	courseID, ok := paramID(c, "courseId")
	if !ok {
		return
	}

	marks, err := h.enrollmentSvc.ListMarks(c.Request.Context(), userID, courseID)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, marks)
}

// Feedback 已选课程的讲师评语
// GET /students/courses/:courseId/feedback
func (h *StudentHandler) Feedback(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	courseID, ok := paramID(c, "courseId")
	if !ok {
		return
	}

	rows, err := h.enrollmentSvc.ListFeedback(c.Request.Context(), userID, courseID)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, rows)
}

// ────────────────────── 作业 ──────────────────────

// homeworkScope 解析 (学生, 课程, 课时)
func (h *StudentHandler) homeworkScope(c *gin.Context) (studentID, courseID, lessonID uint, ok bool) {
	if studentID, ok = MustGetUserID(c); !ok {
		return
	}
	if courseID, ok = paramID(c, "courseId"); !ok {
		return
	}
	lessonID, ok = paramID(c, "lessonId")
	return
}

// UploadHomework 上传作业
// POST /students/courses/:courseId/lessons/:lessonId/homework
func (h *StudentHandler) UploadHomework(c *gin.Context) {
	studentID, courseID, lessonID, ok := h.homeworkScope(c)
	if !ok {
		return
	}
	fh, ok := homeworkFile(c, h.maxFiles)
	if !ok {
		return
	}

	f, err := fh.Open()
	if err != nil {
		response.BadRequest(c, "cannot read uploaded file")
		return
	}
	defer f.Close()

	hw, err := h.homeworkSvc.Upload(c.Request.Context(), studentID, courseID, lessonID, f, uploadInfo(fh))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Created(c, hw)
}

// DownloadHomework 下载本人作业
// GET /students/courses/:courseId/lessons/:lessonId/homework
func (h *StudentHandler) DownloadHomework(c *gin.Context) {
	studentID, courseID, lessonID, ok := h.homeworkScope(c)
	if !ok {
		return
	}

	hw, rc, err := h.homeworkSvc.Open(c.Request.Context(), studentID, courseID, lessonID)
	if err != nil {
		response.FromError(c, err)
		return
	}
	serveHomework(c, hw, rc)
}

// DeleteHomework 删除本人作业
// DELETE /students/courses/:courseId/lessons/:lessonId/homework
func (h *StudentHandler) DeleteHomework(c *gin.Context) {
	studentID, courseID, lessonID, ok := h.homeworkScope(c)
	if !ok {
		return
	}

	if err := h.homeworkSvc.Delete(c.Request.Context(), studentID, courseID, lessonID); err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, nil)
}
