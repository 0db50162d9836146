package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/PashaShevchuk/course-management-system-api-sub000/internal/dto"
	"github.com/PashaShevchuk/course-management-system-api-sub000/internal/model"
	"github.com/PashaShevchuk/course-management-system-api-sub000/internal/repository"
	apperrors "github.com/PashaShevchuk/course-management-system-api-sub000/pkg/errors"
)

var ErrLessonNotFound = apperrors.NotFound("lesson not found")

// LessonService 课时业务接口（管理员）
type LessonService interface {
	Create(ctx context.Context, courseID uint, req *dto.CreateLessonRequest) (*model.Lesson, error)
	List(ctx context.Context, courseID uint) ([]model.Lesson, error)
	Update(ctx context.Context, courseID, lessonID uint, req *dto.UpdateLessonRequest) (*model.Lesson, error)
	Delete(ctx context.Context, courseID, lessonID uint) error
}

type lessonService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewLessonService 创建 LessonService 实例
func NewLessonService(repo *repository.Repository, logger *zap.Logger) LessonService {
	return &lessonService{repo: repo, logger: logger}
}

func (s *lessonService) Create(ctx context.Context, courseID uint, req *dto.CreateLessonRequest) (*model.Lesson, error) {
	lesson := &model.Lesson{
		CourseID:    courseID,
		Title:       req.Title,
		Description: req.Description,
		HighestMark: req.HighestMark,
	}
	if err := s.repo.Lesson.Create(ctx, lesson); err != nil {
		if repository.IsForeignKeyViolation(err) {
			return nil, ErrCourseNotFound
		}
		s.logger.Error("创建课时失败", zap.Uint("course_id", courseID), zap.Error(err))
		return nil, err
	}
	return lesson, nil
}

func (s *lessonService) List(ctx context.Context, courseID uint) ([]model.Lesson, error) {
	if _, err := s.repo.Course.GetByID(ctx, courseID); err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrCourseNotFound
		}
		s.logger.Error("查询课程失败", zap.Uint("id", courseID), zap.Error(err))
		return nil, err
	}
	lessons, err := s.repo.Lesson.ListByCourse(ctx, courseID)
	if err != nil {
		s.logger.Error("查询课时列表失败", zap.Uint("course_id", courseID), zap.Error(err))
		return nil, err
	}
	return lessons, nil
}

func (s *lessonService) Update(ctx context.Context, courseID, lessonID uint, req *dto.UpdateLessonRequest) (*model.Lesson, error) {
	lesson, err := s.repo.Lesson.FindScoped(ctx, repository.LessonScope{CourseID: courseID, LessonID: lessonID})
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrLessonNotFound
		}
		s.logger.Error("查询课时失败", zap.Uint("id", lessonID), zap.Error(err))
		return nil, err
	}

	if req.Title != nil {
		lesson.Title = *req.Title
	}
	if req.Description != nil {
		lesson.Description = *req.Description
	}
	if req.HighestMark != nil {
		lesson.HighestMark = *req.HighestMark
	}
	if err := s.repo.Lesson.Update(ctx, lesson); err != nil {
		s.logger.Error("更新课时失败", zap.Uint("id", lessonID), zap.Error(err))
		return nil, err
	}
	return lesson, nil
}

func (s *lessonService) Delete(ctx context.Context, courseID, lessonID uint) error {
	if err := s.repo.Lesson.Delete(ctx, courseID, lessonID); err != nil {
		if repository.IsNotFound(err) {
			return ErrLessonNotFound
		}
		s.logger.Error("删除课时失败", zap.Uint("id", lessonID), zap.Error(err))
		return err
	}
	return nil
}
