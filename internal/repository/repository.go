package repository

import (
	"context"

	"gorm.io/gorm"
)

// Repository 所有 Repository 的聚合入口
type Repository struct {
	db *gorm.DB

	Account          AccountRepository
	Admin            AdminRepository
	Instructor       InstructorRepository
	Student          StudentRepository
	Course           CourseRepository
	Lesson           LessonRepository
	InstructorCourse InstructorCourseRepository
	StudentCourse    StudentCourseRepository
	Feedback         FeedbackRepository
	Mark             MarkRepository
	Homework         HomeworkRepository
}

// NewRepository 创建 Repository 聚合
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		db:               db,
		Account:          NewAccountRepo(db),
		Admin:            NewAdminRepo(db),
		Instructor:       NewInstructorRepo(db),
		Student:          NewStudentRepo(db),
		Course:           NewCourseRepo(db),
		Lesson:           NewLessonRepo(db),
		InstructorCourse: NewInstructorCourseRepo(db),
		StudentCourse:    NewStudentCourseRepo(db),
		Feedback:         NewFeedbackRepo(db),
		Mark:             NewMarkRepo(db),
		Homework:         NewHomeworkRepo(db),
	}
}

// BeginTx 开启事务；db 为空（单元测试中的 mock 聚合）时返回 nil
func (r *Repository) BeginTx(ctx context.Context) (*gorm.DB, error) {
	if r.db == nil {
		return nil, nil
	}
	tx := r.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return nil, tx.Error
	}
	return tx, nil
}

// WithTx 返回绑定到事务连接的 Repository；tx 为 nil 时返回自身
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return NewRepository(tx)
}
