package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/PashaShevchuk/course-management-system-api-sub000/internal/model"
)

// StudentCourseRepository 学生-课程关联数据访问接口
type StudentCourseRepository interface {
	Create(ctx context.Context, sc *model.StudentCourse) error
	Exists(ctx context.Context, courseID, studentID uint) (bool, error)
	CountByStudent(ctx context.Context, studentID uint) (int64, error)
	// ListByCourse 课程的选课记录（预加载学生）
	ListByCourse(ctx context.Context, courseID uint) ([]model.StudentCourse, error)
}

type studentCourseRepo struct {
	db *gorm.DB
}

// NewStudentCourseRepo 创建 StudentCourseRepository 实例
func NewStudentCourseRepo(db *gorm.DB) StudentCourseRepository {
	return &studentCourseRepo{db: db}
}

func (r *studentCourseRepo) Create(ctx context.Context, sc *model.StudentCourse) error {
	return r.db.WithContext(ctx).Create(sc).Error
}

func (r *studentCourseRepo) Exists(ctx context.Context, courseID, studentID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.StudentCourse{}).
		Where("course_id = ? AND student_id = ?", courseID, studentID).
		Count(&count).Error
	return count > 0, err
}

func (r *studentCourseRepo) CountByStudent(ctx context.Context, studentID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.StudentCourse{}).Where("student_id = ?", studentID).Count(&count).Error
	return count, err
}

func (r *studentCourseRepo) ListByCourse(ctx context.Context, courseID uint) ([]model.StudentCourse, error) {
	var rows []model.StudentCourse
	err := r.db.WithContext(ctx).
		Preload("Student").
		Where("course_id = ?", courseID).
		Order("student_id ASC").
		Find(&rows).Error
	return rows, err
}
