package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/PashaShevchuk/course-management-system-api-sub000/internal/model"
)

// HomeworkRepository 作业文件记录数据访问接口
type HomeworkRepository interface {
	Create(ctx context.Context, hw *model.Homework) error
	Get(ctx context.Context, studentID, lessonID uint) (*model.Homework, error)
	Delete(ctx context.Context, id uint) error
}

type homeworkRepo struct {
	db *gorm.DB
}

// NewHomeworkRepo 创建 HomeworkRepository 实例
func NewHomeworkRepo(db *gorm.DB) HomeworkRepository {
	return &homeworkRepo{db: db}
}

func (r *homeworkRepo) Create(ctx context.Context, hw *model.Homework) error {
	return r.db.WithContext(ctx).Create(hw).Error
}

func (r *homeworkRepo) Get(ctx context.Context, studentID, lessonID uint) (*model.Homework, error) {
	var hw model.Homework
	err := r.db.WithContext(ctx).
		Where("student_id = ? AND lesson_id = ?", studentID, lessonID).
		First(&hw).Error
	if err != nil {
		return nil, err
	}
	return &hw, nil
}

func (r *homeworkRepo) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&model.Homework{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
