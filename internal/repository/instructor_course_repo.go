package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/PashaShevchuk/course-management-system-api-sub000/internal/model"
)

// InstructorCourseRepository 讲师-课程关联数据访问接口
type InstructorCourseRepository interface {
	Create(ctx context.Context, ic *model.InstructorCourse) error
	Exists(ctx context.Context, courseID, instructorID uint) (bool, error)
	Delete(ctx context.Context, courseID, instructorID uint) error
	CountByCourse(ctx context.Context, courseID uint) (int64, error)
	ListInstructors(ctx context.Context, courseID uint) ([]model.Instructor, error)
}

type instructorCourseRepo struct {
	db *gorm.DB
}

// NewInstructorCourseRepo 创建 InstructorCourseRepository 实例
func NewInstructorCourseRepo(db *gorm.DB) InstructorCourseRepository {
	return &instructorCourseRepo{db: db}
}

func (r *instructorCourseRepo) Create(ctx context.Context, ic *model.InstructorCourse) error {
	return r.db.WithContext(ctx).Create(ic).Error
}

func (r *instructorCourseRepo) Exists(ctx context.Context, courseID, instructorID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.InstructorCourse{}).
		Where("course_id = ? AND instructor_id = ?", courseID, instructorID).
		Count(&count).Error
	return count > 0, err
}

func (r *instructorCourseRepo) Delete(ctx context.Context, courseID, instructorID uint) error {
	res := r.db.WithContext(ctx).
		Where("course_id = ? AND instructor_id = ?", courseID, instructorID).
		Delete(&model.InstructorCourse{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *instructorCourseRepo) CountByCourse(ctx context.Context, courseID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.InstructorCourse{}).Where("course_id = ?", courseID).Count(&count).Error
	return count, err
}

func (r *instructorCourseRepo) ListInstructors(ctx context.Context, courseID uint) ([]model.Instructor, error) {
	var instructors []model.Instructor
	err := r.db.WithContext(ctx).
		Joins("JOIN instructor_courses ic ON ic.instructor_id = instructors.id").
		Where("ic.course_id = ?", courseID).
		Order("instructors.id ASC").
		Find(&instructors).Error
	return instructors, err
}
