package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/PashaShevchuk/course-management-system-api-sub000/internal/model"
)

// LessonScope 课时的组合查询条件；InstructorID / StudentID 为 0 时不做对应限制
type LessonScope struct {
	CourseID     uint
	LessonID     uint
	InstructorID uint
	StudentID    uint
}

// LessonRepository 课时数据访问接口
type LessonRepository interface {
	Create(ctx context.Context, lesson *model.Lesson) error
	Update(ctx context.Context, lesson *model.Lesson) error
	Delete(ctx context.Context, courseID, lessonID uint) error
	ListByCourse(ctx context.Context, courseID uint) ([]model.Lesson, error)
	CountByCourse(ctx context.Context, courseID uint) (int64, error)
	// FindScoped 一次查询同时校验：课时属于课程、讲师任教该课程、学生已选该课程
	FindScoped(ctx context.Context, scope LessonScope) (*model.Lesson, error)
}

type lessonRepo struct {
	db *gorm.DB
}

// NewLessonRepo 创建 LessonRepository 实例
func NewLessonRepo(db *gorm.DB) LessonRepository {
	return &lessonRepo{db: db}
}

func (r *lessonRepo) Create(ctx context.Context, lesson *model.Lesson) error {
	return r.db.WithContext(ctx).Create(lesson).Error
}

func (r *lessonRepo) Update(ctx context.Context, lesson *model.Lesson) error {
	return r.db.WithContext(ctx).Save(lesson).Error
}

func (r *lessonRepo) Delete(ctx context.Context, courseID, lessonID uint) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND course_id = ?", lessonID, courseID).
		Delete(&model.Lesson{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *lessonRepo) ListByCourse(ctx context.Context, courseID uint) ([]model.Lesson, error) {
	var lessons []model.Lesson
	err := r.db.WithContext(ctx).
		Where("course_id = ?", courseID).
		Order("id ASC").
		Find(&lessons).Error
	return lessons, err
}

func (r *lessonRepo) CountByCourse(ctx context.Context, courseID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Lesson{}).Where("course_id = ?", courseID).Count(&count).Error
	return count, err
}

func (r *lessonRepo) FindScoped(ctx context.Context, scope LessonScope) (*model.Lesson, error) {
	db := r.db.WithContext(ctx).Model(&model.Lesson{})
	if scope.InstructorID != 0 {
		db = db.Joins("JOIN instructor_courses ic ON ic.course_id = lessons.course_id AND ic.instructor_id = ?", scope.InstructorID)
	}
	if scope.StudentID != 0 {
		db = db.Joins("JOIN student_courses sc ON sc.course_id = lessons.course_id AND sc.student_id = ?", scope.StudentID)
	}

	var lesson model.Lesson
	err := db.Where("lessons.id = ? AND lessons.course_id = ?", scope.LessonID, scope.CourseID).
		First(&lesson).Error
	if err != nil {
		return nil, err
	}
	return &lesson, nil
}
