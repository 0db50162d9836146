package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/PashaShevchuk/course-management-system-api-sub000/internal/dto"
	"github.com/PashaShevchuk/course-management-system-api-sub000/internal/model"
	"github.com/PashaShevchuk/course-management-system-api-sub000/internal/repository"
	"github.com/PashaShevchuk/course-management-system-api-sub000/pkg/mail"
)

// InstructorService 讲师账户业务接口
type InstructorService interface {
	// Register 自助注册，账户待管理员激活
	Register(ctx context.Context, req *dto.InstructorRegistrationRequest) (*model.Instructor, error)
	GetByID(ctx context.Context, id uint) (*model.Instructor, error)
	List(ctx context.Context, req *dto.AccountListRequest) ([]model.Instructor, int64, error)
	UpdateStatus(ctx context.Context, id uint, active bool) (*model.Instructor, error)
	Delete(ctx context.Context, id uint) error
	ChangePassword(ctx context.Context, id uint, req *dto.ChangePasswordRequest) error
}

type instructorService struct {
	repo     *repository.Repository
	accounts *accountSupport
	logger   *zap.Logger
}

// NewInstructorService 创建 InstructorService 实例
func NewInstructorService(repo *repository.Repository, accounts *accountSupport, logger *zap.Logger) InstructorService {
	return &instructorService{repo: repo, accounts: accounts, logger: logger}
}

func (s *instructorService) Register(ctx context.Context, req *dto.InstructorRegistrationRequest) (*model.Instructor, error) {
	if err := s.accounts.ensureEmailFree(ctx, req.Email); err != nil {
		return nil, err
	}

	acc, err := s.accounts.newAccount(model.RoleInstructor, req.FirstName, req.LastName, req.Email, req.Password, false)
	if err != nil {
		return nil, err
	}

	instructor := &model.Instructor{Account: acc, Position: req.Position}
	if err := s.repo.Instructor.Create(ctx, instructor); err != nil {
		return nil, s.accounts.createErr(err)
	}

	s.logger.Info("讲师注册", zap.Uint("id", instructor.ID), zap.String("email", instructor.Email))
	s.accounts.notify(&instructor.Account, "Registration received", mail.TemplateRegistrationReceived)
	return instructor, nil
}

func (s *instructorService) GetByID(ctx context.Context, id uint) (*model.Instructor, error) {
	instructor, err := s.repo.Instructor.GetByID(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrInstructorNotFound
		}
		s.logger.Error("查询讲师失败", zap.Uint("id", id), zap.Error(err))
		return nil, err
	}
	return instructor, nil
}

func (s *instructorService) List(ctx context.Context, req *dto.AccountListRequest) ([]model.Instructor, int64, error) {
	filter := repository.AccountFilter{IsActive: req.IsActive, Keyword: req.Keyword}
	instructors, total, err := s.repo.Instructor.List(ctx, filter, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("查询讲师列表失败", zap.Error(err))
		return nil, 0, err
	}
	return instructors, total, nil
}

func (s *instructorService) UpdateStatus(ctx context.Context, id uint, active bool) (*model.Instructor, error) {
	instructor, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if instructor.IsActive == active {
		return instructor, nil
	}

	instructor.IsActive = active
	if err := s.repo.Instructor.Update(ctx, instructor); err != nil {
		s.logger.Error("更新讲师状态失败", zap.Uint("id", id), zap.Error(err))
		return nil, err
	}

	s.accounts.revoke(ctx, model.RoleInstructor, id)
	s.accounts.notifyStatus(&instructor.Account)
	return instructor, nil
}

func (s *instructorService) Delete(ctx context.Context, id uint) error {
	if err := s.repo.Instructor.Delete(ctx, id); err != nil {
		if repository.IsNotFound(err) {
			return ErrInstructorNotFound
		}
		s.logger.Error("删除讲师失败", zap.Uint("id", id), zap.Error(err))
		return err
	}
	s.accounts.revoke(ctx, model.RoleInstructor, id)
	return nil
}

func (s *instructorService) ChangePassword(ctx context.Context, id uint, req *dto.ChangePasswordRequest) error {
	instructor, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.accounts.changePassword(&instructor.Account, req.OldPassword, req.NewPassword); err != nil {
		return err
	}
	if err := s.repo.Instructor.Update(ctx, instructor); err != nil {
		s.logger.Error("更新讲师密码失败", zap.Uint("id", id), zap.Error(err))
		return err
	}
	s.accounts.revoke(ctx, model.RoleInstructor, id)
	return nil
}
