package service

import (
	"context"
	"time"

	"go.uber.org/zap"
	"gorm.io/datatypes"

	"github.com/PashaShevchuk/course-management-system-api-sub000/internal/dto"
	"github.com/PashaShevchuk/course-management-system-api-sub000/internal/model"
	"github.com/PashaShevchuk/course-management-system-api-sub000/internal/repository"
	apperrors "github.com/PashaShevchuk/course-management-system-api-sub000/pkg/errors"
	"github.com/PashaShevchuk/course-management-system-api-sub000/pkg/mail"
)

const birthDateLayout = "2006-01-02"

// StudentService 学生账户业务接口
type StudentService interface {
	// Register 自助注册，账户待管理员激活
	Register(ctx context.Context, req *dto.StudentRegistrationRequest) (*model.Student, error)
	GetByID(ctx context.Context, id uint) (*model.Student, error)
	List(ctx context.Context, req *dto.AccountListRequest) ([]model.Student, int64, error)
	UpdateStatus(ctx context.Context, id uint, active bool) (*model.Student, error)
	Delete(ctx context.Context, id uint) error
	ChangePassword(ctx context.Context, id uint, req *dto.ChangePasswordRequest) error
}

type studentService struct {
	repo     *repository.Repository
	accounts *accountSupport
	logger   *zap.Logger
}

// NewStudentService 创建 StudentService 实例
func NewStudentService(repo *repository.Repository, accounts *accountSupport, logger *zap.Logger) StudentService {
	return &studentService{repo: repo, accounts: accounts, logger: logger}
}

func (s *studentService) Register(ctx context.Context, req *dto.StudentRegistrationRequest) (*model.Student, error) {
	var birthDate *datatypes.Date
	if req.BirthDate != "" {
		t, err := time.Parse(birthDateLayout, req.BirthDate)
		if err != nil {
			return nil, apperrors.Validation("birth_date must be in YYYY-MM-DD format")
		}
		d := datatypes.Date(t)
		birthDate = &d
	}

	if err := s.accounts.ensureEmailFree(ctx, req.Email); err != nil {
		return nil, err
	}

	acc, err := s.accounts.newAccount(model.RoleStudent, req.FirstName, req.LastName, req.Email, req.Password, false)
	if err != nil {
		return nil, err
	}

	student := &model.Student{Account: acc, BirthDate: birthDate}
	if err := s.repo.Student.Create(ctx, student); err != nil {
		return nil, s.accounts.createErr(err)
	}

	s.logger.Info("学生注册", zap.Uint("id", student.ID), zap.String("email", student.Email))
	s.accounts.notify(&student.Account, "Registration received", mail.TemplateRegistrationReceived)
	return student, nil
}

func (s *studentService) GetByID(ctx context.Context, id uint) (*model.Student, error) {
	student, err := s.repo.Student.GetByID(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrStudentNotFound
		}
		s.logger.Error("查询学生失败", zap.Uint("id", id), zap.Error(err))
		return nil, err
	}
	return student, nil
}

func (s *studentService) List(ctx context.Context, req *dto.AccountListRequest) ([]model.Student, int64, error) {
	filter := repository.AccountFilter{IsActive: req.IsActive, Keyword: req.Keyword}
	students, total, err := s.repo.Student.List(ctx, filter, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("查询学生列表失败", zap.Error(err))
		return nil, 0, err
	}
	return students, total, nil
}

func (s *studentService) UpdateStatus(ctx context.Context, id uint, active bool) (*model.Student, error) {
	student, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if student.IsActive == active {
		return student, nil
	}

	student.IsActive = active
	if err := s.repo.Student.Update(ctx, student); err != nil {
		s.logger.Error("更新学生状态失败", zap.Uint("id", id), zap.Error(err))
		return nil, err
	}

	s.accounts.revoke(ctx, model.RoleStudent, id)
	s.accounts.notifyStatus(&student.Account)
	return student, nil
}

func (s *studentService) Delete(ctx context.Context, id uint) error {
	if err := s.repo.Student.Delete(ctx, id); err != nil {
		if repository.IsNotFound(err) {
			return ErrStudentNotFound
		}
		s.logger.Error("删除学生失败", zap.Uint("id", id), zap.Error(err))
		return err
	}
	s.accounts.revoke(ctx, model.RoleStudent, id)
	return nil
}

func (s *studentService) ChangePassword(ctx context.Context, id uint, req *dto.ChangePasswordRequest) error {
	student, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.accounts.changePassword(&student.Account, req.OldPassword, req.NewPassword); err != nil {
		return err
	}
	if err := s.repo.Student.Update(ctx, student); err != nil {
		s.logger.Error("更新学生密码失败", zap.Uint("id", id), zap.Error(err))
		return err
	}
	s.accounts.revoke(ctx, model.RoleStudent, id)
	return nil
}
