package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/PashaShevchuk/course-management-system-api-sub000/internal/model"
)

// InstructorRepository 讲师数据访问接口
type InstructorRepository interface {
	Create(ctx context.Context, instructor *model.Instructor) error
	GetByID(ctx context.Context, id uint) (*model.Instructor, error)
	Update(ctx context.Context, instructor *model.Instructor) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, filter AccountFilter, offset, limit int) ([]model.Instructor, int64, error)
}

type instructorRepo struct {
	db *gorm.DB
}

// NewInstructorRepo 创建 InstructorRepository 实例
func NewInstructorRepo(db *gorm.DB) InstructorRepository {
	return &instructorRepo{db: db}
}

func (r *instructorRepo) Create(ctx context.Context, instructor *model.Instructor) error {
	return r.db.WithContext(ctx).Create(instructor).Error
}

func (r *instructorRepo) GetByID(ctx context.Context, id uint) (*model.Instructor, error) {
	var instructor model.Instructor
	if err := r.db.WithContext(ctx).First(&instructor, id).Error; err != nil {
		return nil, err
	}
	return &instructor, nil
}

func (r *instructorRepo) Update(ctx context.Context, instructor *model.Instructor) error {
	return r.db.WithContext(ctx).Save(instructor).Error
}

func (r *instructorRepo) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&model.Instructor{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *instructorRepo) List(ctx context.Context, filter AccountFilter, offset, limit int) ([]model.Instructor, int64, error) {
	var instructors []model.Instructor
	var total int64

	db := filter.apply(r.db.WithContext(ctx).Model(&model.Instructor{}))
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := db.Offset(offset).Limit(limit).Order("id ASC").Find(&instructors).Error; err != nil {
		return nil, 0, err
	}
	return instructors, total, nil
}
