package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/PashaShevchuk/course-management-system-api-sub000/internal/model"
)

// ── 评语 ──

// FeedbackRepository 课程评语数据访问接口
type FeedbackRepository interface {
	Create(ctx context.Context, fb *model.CourseFeedback) error
	ListByStudentCourse(ctx context.Context, studentID, courseID uint) ([]model.CourseFeedback, error)
}

type feedbackRepo struct {
	db *gorm.DB
}

// NewFeedbackRepo 创建 FeedbackRepository 实例
func NewFeedbackRepo(db *gorm.DB) FeedbackRepository {
	return &feedbackRepo{db: db}
}

func (r *feedbackRepo) Create(ctx context.Context, fb *model.CourseFeedback) error {
	return r.db.WithContext(ctx).Create(fb).Error
}

func (r *feedbackRepo) ListByStudentCourse(ctx context.Context, studentID, courseID uint) ([]model.CourseFeedback, error) {
	var rows []model.CourseFeedback
	err := r.db.WithContext(ctx).
		Preload("Instructor").
		Where("student_id = ? AND course_id = ?", studentID, courseID).
		Order("id ASC").
		Find(&rows).Error
	return rows, err
}

// ── 成绩 ──

// MarkRepository 课时成绩数据访问接口
type MarkRepository interface {
	Create(ctx context.Context, mark *model.StudentMark) error
	ListByStudentCourse(ctx context.Context, studentID, courseID uint) ([]model.StudentMark, error)
	ListByCourse(ctx context.Context, courseID uint) ([]model.StudentMark, error)
}

type markRepo struct {
	db *gorm.DB
}

// NewMarkRepo 创建 MarkRepository 实例
func NewMarkRepo(db *gorm.DB) MarkRepository {
	return &markRepo{db: db}
}

func (r *markRepo) Create(ctx context.Context, mark *model.StudentMark) error {
	return r.db.WithContext(ctx).Create(mark).Error
}

func (r *markRepo) ListByStudentCourse(ctx context.Context, studentID, courseID uint) ([]model.StudentMark, error) {
	var rows []model.StudentMark
	err := r.db.WithContext(ctx).
		Preload("Lesson").
		Joins("JOIN lessons l ON l.id = student_marks.lesson_id").
		Where("student_marks.student_id = ? AND l.course_id = ?", studentID, courseID).
		Order("student_marks.lesson_id ASC").
		Find(&rows).Error
	return rows, err
}

func (r *markRepo) ListByCourse(ctx context.Context, courseID uint) ([]model.StudentMark, error) {
	var rows []model.StudentMark
	err := r.db.WithContext(ctx).
		Joins("JOIN lessons l ON l.id = student_marks.lesson_id").
		Where("l.course_id = ?", courseID).
		Find(&rows).Error
	return rows, err
}
