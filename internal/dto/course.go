package dto

import "github.com/PashaShevchuk/course-management-system-api-sub000/internal/model"

// ── 课程模块 DTO ──

// CreateCourseRequest 创建课程
type CreateCourseRequest struct {
	Title       string `json:"title"       binding:"required,max=255"`
	Description string `json:"description" binding:"max=5000"`
}

// UpdateCourseRequest 更新课程；发布状态只能通过发布接口修改
type UpdateCourseRequest struct {
	Title       *string `json:"title"       binding:"omitempty,min=1,max=255"`
	Description *string `json:"description" binding:"omitempty,max=5000"`
}

// CourseListRequest 课程列表查询参数
type CourseListRequest struct {
	PaginationRequest
	Published *bool `form:"published"`
}

// AssignInstructorRequest 为课程指派讲师
type AssignInstructorRequest struct {
	CourseID     uint `json:"course_id"     binding:"required,min=1"`
	InstructorID uint `json:"instructor_id" binding:"required,min=1"`
}

// CourseDetailResponse 课程详情
type CourseDetailResponse struct {
	model.Course
	LessonCount int64              `json:"lesson_count"`
	Instructors []model.Instructor `json:"instructors"`
}

// ── 课时 ──

// CreateLessonRequest 创建课时
type CreateLessonRequest struct {
	Title       string `json:"title"        binding:"required,max=255"`
	Description string `json:"description"  binding:"max=5000"`
	HighestMark int    `json:"highest_mark" binding:"required,min=1"`
}

// UpdateLessonRequest 更新课时
type UpdateLessonRequest struct {
	Title       *string `json:"title"        binding:"omitempty,min=1,max=255"`
	Description *string `json:"description"  binding:"omitempty,max=5000"`
	HighestMark *int    `json:"highest_mark" binding:"omitempty,min=1"`
}
