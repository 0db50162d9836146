package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/PashaShevchuk/course-management-system-api-sub000/config"
	"github.com/PashaShevchuk/course-management-system-api-sub000/internal/repository"
	"github.com/PashaShevchuk/course-management-system-api-sub000/pkg/jwt"
	"github.com/PashaShevchuk/course-management-system-api-sub000/pkg/mail"
	"github.com/PashaShevchuk/course-management-system-api-sub000/pkg/password"
	"github.com/PashaShevchuk/course-management-system-api-sub000/pkg/storage"
)

// TokenCache 会话 Token 缓存，键为 (角色, 账户 ID)，每个账户仅保留最新一个
type TokenCache interface {
	SetUserToken(ctx context.Context, role string, userID uint, token string, ttl time.Duration) error
	GetUserToken(ctx context.Context, role string, userID uint) (string, bool, error)
	DeleteUserToken(ctx context.Context, role string, userID uint) error
}

// Mailer 异步模板邮件
type Mailer interface {
	Send(messages ...*mail.Message)
}

// Deps Service 层的外部协作者；TokenCache / Mailer 可为 nil
type Deps struct {
	Config  *config.Config
	Repo    *repository.Repository
	JWT     *jwt.Manager
	Hasher  *password.Hasher
	Cache   TokenCache
	Storage storage.Storage
	Mailer  Mailer
	Logger  *zap.Logger
}

// Service 所有 Service 的聚合入口
type Service struct {
	Auth       AuthService
	Admin      AdminService
	Instructor InstructorService
	Student    StudentService
	Course     CourseService
	Lesson     LessonService
	Enrollment EnrollmentService
	Grading    GradingService
	Homework   HomeworkService
	Export     ExportService
}

// NewService 创建 Service 聚合
func NewService(d Deps) *Service {
	auth := NewAuthService(&d.Config.Auth, d.Repo, d.JWT, d.Hasher, d.Cache, d.Logger)
	accounts := newAccountSupport(d.Repo, auth, d.Mailer, d.Logger)

	return &Service{
		Auth:       auth,
		Admin:      NewAdminService(d.Repo, accounts, d.Logger),
		Instructor: NewInstructorService(d.Repo, accounts, d.Logger),
		Student:    NewStudentService(d.Repo, accounts, d.Logger),
		Course:     NewCourseService(d.Repo, &d.Config.Enrollment, d.Logger),
		Lesson:     NewLessonService(d.Repo, d.Logger),
		Enrollment: NewEnrollmentService(d.Repo, &d.Config.Enrollment, d.Logger),
		Grading:    NewGradingService(d.Repo, d.Logger),
		Homework:   NewHomeworkService(d.Repo, d.Storage, &d.Config.Storage, d.Logger),
		Export:     NewExportService(d.Repo, d.Logger),
	}
}
