package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/PashaShevchuk/course-management-system-api-sub000/config"
	"github.com/PashaShevchuk/course-management-system-api-sub000/internal/model"
	"github.com/PashaShevchuk/course-management-system-api-sub000/internal/repository"
	apperrors "github.com/PashaShevchuk/course-management-system-api-sub000/pkg/errors"
)

// ── 选课模块业务错误 ──

var (
	ErrCourseLoadCap     = apperrors.BadRequest("cannot exceed course load cap")
	ErrAlreadyTaken      = apperrors.BadRequest("course is already taken")
	ErrTakeCourseMissing = apperrors.BadRequest("course not found")
	ErrNotEnrolled       = apperrors.NotFound("course not found among student's courses")
)

// EnrollmentService 学生选课与自助查询
type EnrollmentService interface {
	// TakeCourse 学生选课；已选课程数达到上限时拒绝
	TakeCourse(ctx context.Context, studentID, courseID uint) (*model.StudentCourse, error)
	ListCourses(ctx context.Context, studentID uint) ([]model.Course, error)
	ListLessons(ctx context.Context, studentID, courseID uint) ([]model.Lesson, error)
	ListMarks(ctx context.Context, studentID, courseID uint) ([]model.StudentMark, error)
	ListFeedback(ctx context.Context, studentID, courseID uint) ([]model.CourseFeedback, error)
}

type enrollmentService struct {
	repo   *repository.Repository
	cfg    *config.EnrollmentConfig
	logger *zap.Logger
}

// NewEnrollmentService 创建 EnrollmentService 实例
func NewEnrollmentService(repo *repository.Repository, cfg *config.EnrollmentConfig, logger *zap.Logger) EnrollmentService {
	return &enrollmentService{repo: repo, cfg: cfg, logger: logger}
}

// ────────────────────── TakeCourse ──────────────────────

func (s *enrollmentService) TakeCourse(ctx context.Context, studentID, courseID uint) (*model.StudentCourse, error) {
	// 1. 选课数上限：已有 max_courses 门时第 max_courses+1 次拒绝
	count, err := s.repo.StudentCourse.CountByStudent(ctx, studentID)
	if err != nil {
		s.logger.Error("统计学生课程失败", zap.Uint("student_id", studentID), zap.Error(err))
		return nil, err
	}
	if count >= int64(s.cfg.MaxCourses) {
		return nil, ErrCourseLoadCap
	}

	// 2. 写入；唯一约束 → 重复选课，外键 → 课程不存在
	sc := &model.StudentCourse{CourseID: courseID, StudentID: studentID}
	if err := s.repo.StudentCourse.Create(ctx, sc); err != nil {
		switch {
		case repository.IsUniqueViolation(err):
			return nil, ErrAlreadyTaken
		case repository.IsForeignKeyViolation(err):
			return nil, ErrTakeCourseMissing
		}
		s.logger.Error("选课失败", zap.Uint("student_id", studentID), zap.Uint("course_id", courseID), zap.Error(err))
		return nil, err
	}

	s.logger.Info("学生选课", zap.Uint("student_id", studentID), zap.Uint("course_id", courseID))
	return sc, nil
}

// ────────────────────── Query ──────────────────────

func (s *enrollmentService) ListCourses(ctx context.Context, studentID uint) ([]model.Course, error) {
	courses, err := s.repo.Course.ListByStudent(ctx, studentID)
	if err != nil {
		s.logger.Error("查询学生课程失败", zap.Uint("student_id", studentID), zap.Error(err))
		return nil, err
	}
	return courses, nil
}

// ensureEnrolled 学生已选该课程
func (s *enrollmentService) ensureEnrolled(ctx context.Context, studentID, courseID uint) error {
	ok, err := s.repo.StudentCourse.Exists(ctx, courseID, studentID)
	if err != nil {
		s.logger.Error("查询选课记录失败", zap.Error(err))
		return err
	}
	if !ok {
		return ErrNotEnrolled
	}
	return nil
}

func (s *enrollmentService) ListLessons(ctx context.Context, studentID, courseID uint) ([]model.Lesson, error) {
	if err := s.ensureEnrolled(ctx, studentID, courseID); err != nil {
		return nil, err
	}
	lessons, err := s.repo.Lesson.ListByCourse(ctx, courseID)
	if err != nil {
		s.logger.Error("查询课时失败", zap.Uint("course_id", courseID), zap.Error(err))
		return nil, err
	}
	return lessons, nil
}

func (s *enrollmentService) ListMarks(ctx context.Context, studentID, courseID uint) ([]model.StudentMark, error) {
	if err := s.ensureEnrolled(ctx, studentID, courseID); err != nil {
		return nil, err
	}
	marks, err := s.repo.Mark.ListByStudentCourse(ctx, studentID, courseID)
	if err != nil {
		s.logger.Error("查询成绩失败", zap.Uint("student_id", studentID), zap.Error(err))
		return nil, err
	}
	return marks, nil
}

func (s *enrollmentService) ListFeedback(ctx context.Context, studentID, courseID uint) ([]model.CourseFeedback, error) {
	if err := s.ensureEnrolled(ctx, studentID, courseID); err != nil {
		return nil, err
	}
	rows, err := s.repo.Feedback.ListByStudentCourse(ctx, studentID, courseID)
	if err != nil {
		s.logger.Error("查询评语失败", zap.Uint("student_id", studentID), zap.Error(err))
		return nil, err
	}
	return rows, nil
}
