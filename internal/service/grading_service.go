package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/PashaShevchuk/course-management-system-api-sub000/internal/model"
	"github.com/PashaShevchuk/course-management-system-api-sub000/internal/repository"
	apperrors "github.com/PashaShevchuk/course-management-system-api-sub000/pkg/errors"
)

// ── 评分模块业务错误 ──

var (
	ErrLessonScopeNotFound = apperrors.NotFound("lesson not found")
	ErrNotAssigned         = apperrors.NotFound("course not found among instructor's courses")
	ErrMarkTooHigh         = apperrors.BadRequest("mark exceeds the lesson's highest mark")
	ErrAlreadyMarked       = apperrors.BadRequest("student is already marked for this lesson")
	ErrFeedbackExists      = apperrors.BadRequest("feedback already exists")
)

// GradingService 讲师的课程、评分与评语
type GradingService interface {
	ListCourses(ctx context.Context, instructorID uint) ([]model.Course, error)
	// ListStudents 讲师任教课程的选课学生
	ListStudents(ctx context.Context, instructorID, courseID uint) ([]model.Student, error)
	// PutMark 一次组合查询同时校验课时归属、讲师任教、学生选课
	PutMark(ctx context.Context, instructorID, studentID, lessonID, courseID uint, mark int) (*model.StudentMark, error)
	CreateFeedback(ctx context.Context, instructorID, courseID, studentID uint, text string) (*model.CourseFeedback, error)
}

type gradingService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewGradingService 创建 GradingService 实例
func NewGradingService(repo *repository.Repository, logger *zap.Logger) GradingService {
	return &gradingService{repo: repo, logger: logger}
}

func (s *gradingService) ListCourses(ctx context.Context, instructorID uint) ([]model.Course, error) {
	courses, err := s.repo.Course.ListByInstructor(ctx, instructorID)
	if err != nil {
		s.logger.Error("查询讲师课程失败", zap.Uint("instructor_id", instructorID), zap.Error(err))
		return nil, err
	}
	return courses, nil
}

func (s *gradingService) ensureAssigned(ctx context.Context, instructorID, courseID uint) error {
	ok, err := s.repo.InstructorCourse.Exists(ctx, courseID, instructorID)
	if err != nil {
		s.logger.Error("查询讲师指派失败", zap.Error(err))
		return err
	}
	if !ok {
		return ErrNotAssigned
	}
	return nil
}

func (s *gradingService) ListStudents(ctx context.Context, instructorID, courseID uint) ([]model.Student, error) {
	if err := s.ensureAssigned(ctx, instructorID, courseID); err != nil {
		return nil, err
	}
	rows, err := s.repo.StudentCourse.ListByCourse(ctx, courseID)
	if err != nil {
		s.logger.Error("查询选课学生失败", zap.Uint("course_id", courseID), zap.Error(err))
		return nil, err
	}
	students := make([]model.Student, 0, len(rows))
	for _, r := range rows {
		if r.Student != nil {
			students = append(students, *r.Student)
		}
	}
	return students, nil
}

// ────────────────────── PutMark ──────────────────────

func (s *gradingService) PutMark(ctx context.Context, instructorID, studentID, lessonID, courseID uint, mark int) (*model.StudentMark, error) {
	// 1. 组合查询：课时属于课程 + 讲师任教 + 学生已选
	lesson, err := s.repo.Lesson.FindScoped(ctx, repository.LessonScope{
		CourseID:     courseID,
		LessonID:     lessonID,
		InstructorID: instructorID,
		StudentID:    studentID,
	})
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrLessonScopeNotFound
		}
		s.logger.Error("查询课时失败", zap.Error(err))
		return nil, err
	}

	// 2. 不超过课时满分
	if mark > lesson.HighestMark {
		return nil, ErrMarkTooHigh
	}

	// 3. 写入；(student, lesson) 唯一
	sm := &model.StudentMark{StudentID: studentID, LessonID: lessonID, Mark: mark}
	if err := s.repo.Mark.Create(ctx, sm); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, ErrAlreadyMarked
		}
		s.logger.Error("写入成绩失败", zap.Error(err))
		return nil, err
	}
	return sm, nil
}

// ────────────────────── Feedback ──────────────────────

func (s *gradingService) CreateFeedback(ctx context.Context, instructorID, courseID, studentID uint, text string) (*model.CourseFeedback, error) {
	// 1. 讲师任教
	if err := s.ensureAssigned(ctx, instructorID, courseID); err != nil {
		return nil, err
	}

	// 2. 学生已选
	ok, err := s.repo.StudentCourse.Exists(ctx, courseID, studentID)
	if err != nil {
		s.logger.Error("查询选课记录失败", zap.Error(err))
		return nil, err
	}
	if !ok {
		return nil, ErrStudentNotFound
	}

	// 3. 写入；(course, instructor, student) 唯一
	fb := &model.CourseFeedback{CourseID: courseID, InstructorID: instructorID, StudentID: studentID, Text: text}
	if err := s.repo.Feedback.Create(ctx, fb); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, ErrFeedbackExists
		}
		s.logger.Error("写入评语失败", zap.Error(err))
		return nil, err
	}
	return fb, nil
}
