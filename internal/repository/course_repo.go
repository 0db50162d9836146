package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/PashaShevchuk/course-management-system-api-sub000/internal/model"
)

// CourseRepository 课程数据访问接口
type CourseRepository interface {
	Create(ctx context.Context, course *model.Course) error
	GetByID(ctx context.Context, id uint) (*model.Course, error)
	Update(ctx context.Context, course *model.Course) error
	// Delete 删除课程，课时与关联记录由外键级联删除
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, published *bool, offset, limit int) ([]model.Course, int64, error)
	ListByInstructor(ctx context.Context, instructorID uint) ([]model.Course, error)
	ListByStudent(ctx context.Context, studentID uint) ([]model.Course, error)
}

type courseRepo struct {
	db *gorm.DB
}

// NewCourseRepo 创建 CourseRepository 实例
func NewCourseRepo(db *gorm.DB) CourseRepository {
	return &courseRepo{db: db}
}

func (r *courseRepo) Create(ctx context.Context, course *model.Course) error {
	return r.db.WithContext(ctx).Create(course).Error
}

func (r *courseRepo) GetByID(ctx context.Context, id uint) (*model.Course, error) {
	var course model.Course
	if err := r.db.WithContext(ctx).First(&course, id).Error; err != nil {
		return nil, err
	}
	return &course, nil
}

func (r *courseRepo) Update(ctx context.Context, course *model.Course) error {
	return r.db.WithContext(ctx).Save(course).Error
}

func (r *courseRepo) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&model.Course{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *courseRepo) List(ctx context.Context, published *bool, offset, limit int) ([]model.Course, int64, error) {
	var courses []model.Course
	var total int64

	db := r.db.WithContext(ctx).Model(&model.Course{})
	if published != nil {
		db = db.Where("is_published = ?", *published)
	}
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := db.Offset(offset).Limit(limit).Order("id ASC").Find(&courses).Error; err != nil {
		return nil, 0, err
	}
	return courses, total, nil
}

func (r *courseRepo) ListByInstructor(ctx context.Context, instructorID uint) ([]model.Course, error) {
	var courses []model.Course
	err := r.db.WithContext(ctx).
		Joins("JOIN instructor_courses ic ON ic.course_id = courses.id").
		Where("ic.instructor_id = ?", instructorID).
		Order("courses.id ASC").
		Find(&courses).Error
	return courses, err
}

func (r *courseRepo) ListByStudent(ctx context.Context, studentID uint) ([]model.Course, error) {
	var courses []model.Course
	err := r.db.WithContext(ctx).
		Joins("JOIN student_courses sc ON sc.course_id = courses.id").
		Where("sc.student_id = ?", studentID).
		Order("courses.id ASC").
		Find(&courses).Error
	return courses, err
}
