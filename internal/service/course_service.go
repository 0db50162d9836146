package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/PashaShevchuk/course-management-system-api-sub000/config"
	"github.com/PashaShevchuk/course-management-system-api-sub000/internal/dto"
	"github.com/PashaShevchuk/course-management-system-api-sub000/internal/model"
	"github.com/PashaShevchuk/course-management-system-api-sub000/internal/repository"
	apperrors "github.com/PashaShevchuk/course-management-system-api-sub000/pkg/errors"
)

// ── 课程模块业务错误 ──

var (
	ErrCourseNotFound     = apperrors.NotFound("course not found")
	ErrAlreadyPublished   = apperrors.BadRequest("course is already published")
	ErrNoInstructors      = apperrors.BadRequest("course has no instructors")
	ErrAlreadyAssigned    = apperrors.BadRequest("instructor is already assigned to this course")
	ErrAssignmentNotFound = apperrors.NotFound("instructor is not assigned to this course")
)

// CourseService 课程业务接口
type CourseService interface {
	Create(ctx context.Context, req *dto.CreateCourseRequest) (*model.Course, error)
	GetByID(ctx context.Context, id uint) (*dto.CourseDetailResponse, error)
	List(ctx context.Context, req *dto.CourseListRequest) ([]model.Course, int64, error)
	Update(ctx context.Context, id uint, req *dto.UpdateCourseRequest) (*model.Course, error)
	Delete(ctx context.Context, id uint) error
	// Publish 未发布 + 至少一名讲师 + 课时数达标 时发布课程
	Publish(ctx context.Context, id uint) (*model.Course, error)
	AssignInstructor(ctx context.Context, req *dto.AssignInstructorRequest) error
	UnassignInstructor(ctx context.Context, courseID, instructorID uint) error
}

type courseService struct {
	repo   *repository.Repository
	cfg    *config.EnrollmentConfig
	logger *zap.Logger
}

// NewCourseService 创建 CourseService 实例
func NewCourseService(repo *repository.Repository, cfg *config.EnrollmentConfig, logger *zap.Logger) CourseService {
	return &courseService{repo: repo, cfg: cfg, logger: logger}
}

// ────────────────────── CRUD ──────────────────────

func (s *courseService) Create(ctx context.Context, req *dto.CreateCourseRequest) (*model.Course, error) {
	course := &model.Course{Title: req.Title, Description: req.Description}
	if err := s.repo.Course.Create(ctx, course); err != nil {
		s.logger.Error("创建课程失败", zap.Error(err))
		return nil, err
	}
	return course, nil
}

func (s *courseService) load(ctx context.Context, id uint) (*model.Course, error) {
	course, err := s.repo.Course.GetByID(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrCourseNotFound
		}
		s.logger.Error("查询课程失败", zap.Uint("id", id), zap.Error(err))
		return nil, err
	}
	return course, nil
}

func (s *courseService) GetByID(ctx context.Context, id uint) (*dto.CourseDetailResponse, error) {
	course, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	lessonCount, err := s.repo.Lesson.CountByCourse(ctx, id)
	if err != nil {
		s.logger.Error("统计课时失败", zap.Uint("course_id", id), zap.Error(err))
		return nil, err
	}
	instructors, err := s.repo.InstructorCourse.ListInstructors(ctx, id)
	if err != nil {
		s.logger.Error("查询课程讲师失败", zap.Uint("course_id", id), zap.Error(err))
		return nil, err
	}
	if instructors == nil {
		instructors = []model.Instructor{}
	}

	return &dto.CourseDetailResponse{
		Course:      *course,
		LessonCount: lessonCount,
		Instructors: instructors,
	}, nil
}

func (s *courseService) List(ctx context.Context, req *dto.CourseListRequest) ([]model.Course, int64, error) {
	courses, total, err := s.repo.Course.List(ctx, req.Published, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("查询课程列表失败", zap.Error(err))
		return nil, 0, err
	}
	return courses, total, nil
}

func (s *courseService) Update(ctx context.Context, id uint, req *dto.UpdateCourseRequest) (*model.Course, error) {
	course, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Title != nil {
		course.Title = *req.Title
	}
	if req.Description != nil {
		course.Description = *req.Description
	}
	if err := s.repo.Course.Update(ctx, course); err != nil {
		s.logger.Error("更新课程失败", zap.Uint("id", id), zap.Error(err))
		return nil, err
	}
	return course, nil
}

func (s *courseService) Delete(ctx context.Context, id uint) error {
	if err := s.repo.Course.Delete(ctx, id); err != nil {
		if repository.IsNotFound(err) {
			return ErrCourseNotFound
		}
		s.logger.Error("删除课程失败", zap.Uint("id", id), zap.Error(err))
		return err
	}
	return nil
}

// ────────────────────── Publish ──────────────────────

func (s *courseService) Publish(ctx context.Context, id uint) (*model.Course, error) {
	// 1. 课程存在
	course, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	// 2. 未发布
	if course.IsPublished {
		return nil, ErrAlreadyPublished
	}

	// 3. 至少一名讲师
	instructors, err := s.repo.InstructorCourse.CountByCourse(ctx, id)
	if err != nil {
		s.logger.Error("统计课程讲师失败", zap.Uint("course_id", id), zap.Error(err))
		return nil, err
	}
	if instructors == 0 {
		return nil, ErrNoInstructors
	}

	// 4. 课时数达标
	lessons, err := s.repo.Lesson.CountByCourse(ctx, id)
	if err != nil {
		s.logger.Error("统计课时失败", zap.Uint("course_id", id), zap.Error(err))
		return nil, err
	}
	if lessons < int64(s.cfg.MinLessonsToPublish) {
		return nil, apperrors.BadRequest(fmt.Sprintf("course has fewer than %d lessons", s.cfg.MinLessonsToPublish))
	}

	course.IsPublished = true
	if err := s.repo.Course.Update(ctx, course); err != nil {
		s.logger.Error("发布课程失败", zap.Uint("id", id), zap.Error(err))
		return nil, err
	}

	s.logger.Info("课程已发布", zap.Uint("id", id))
	return course, nil
}

// ────────────────────── Instructors ──────────────────────

func (s *courseService) AssignInstructor(ctx context.Context, req *dto.AssignInstructorRequest) error {
	if _, err := s.load(ctx, req.CourseID); err != nil {
		return err
	}
	if _, err := s.repo.Instructor.GetByID(ctx, req.InstructorID); err != nil {
		if repository.IsNotFound(err) {
			return ErrInstructorNotFound
		}
		s.logger.Error("查询讲师失败", zap.Uint("id", req.InstructorID), zap.Error(err))
		return err
	}

	// (course, instructor) 唯一约束是重复指派的最终判定
	err := s.repo.InstructorCourse.Create(ctx, &model.InstructorCourse{
		CourseID:     req.CourseID,
		InstructorID: req.InstructorID,
	})
	if err != nil {
		if repository.IsUniqueViolation(err) {
			return ErrAlreadyAssigned
		}
		s.logger.Error("指派讲师失败", zap.Error(err))
		return err
	}
	return nil
}

func (s *courseService) UnassignInstructor(ctx context.Context, courseID, instructorID uint) error {
	if err := s.repo.InstructorCourse.Delete(ctx, courseID, instructorID); err != nil {
		if repository.IsNotFound(err) {
			return ErrAssignmentNotFound
		}
		s.logger.Error("取消指派失败", zap.Error(err))
		return err
	}
	return nil
}
