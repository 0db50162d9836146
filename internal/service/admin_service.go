package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/PashaShevchuk/course-management-system-api-sub000/internal/dto"
	"github.com/PashaShevchuk/course-management-system-api-sub000/internal/model"
	"github.com/PashaShevchuk/course-management-system-api-sub000/internal/repository"
)

// AdminService 管理员账户业务接口
type AdminService interface {
	Create(ctx context.Context, req *dto.CreateAdminRequest) (*model.Admin, error)
	GetByID(ctx context.Context, id uint) (*model.Admin, error)
	List(ctx context.Context, req *dto.AccountListRequest) ([]model.Admin, int64, error)
	// Update 修改邮箱、密码或启用状态时吊销该管理员的 Token
	Update(ctx context.Context, id uint, req *dto.UpdateAdminRequest) (*model.Admin, error)
	Delete(ctx context.Context, id uint) error
}

type adminService struct {
	repo     *repository.Repository
	accounts *accountSupport
	logger   *zap.Logger
}

// NewAdminService 创建 AdminService 实例
func NewAdminService(repo *repository.Repository, accounts *accountSupport, logger *zap.Logger) AdminService {
	return &adminService{repo: repo, accounts: accounts, logger: logger}
}

// ────────────────────── Create ──────────────────────

func (s *adminService) Create(ctx context.Context, req *dto.CreateAdminRequest) (*model.Admin, error) {
	if err := s.accounts.ensureEmailFree(ctx, req.Email); err != nil {
		return nil, err
	}

	acc, err := s.accounts.newAccount(model.RoleAdmin, req.FirstName, req.LastName, req.Email, req.Password, req.IsActive)
	if err != nil {
		return nil, err
	}

	admin := &model.Admin{Account: acc}
	if err := s.repo.Admin.Create(ctx, admin); err != nil {
		return nil, s.accounts.createErr(err)
	}

	s.logger.Info("创建管理员", zap.Uint("id", admin.ID), zap.String("email", admin.Email))
	return admin, nil
}

// ────────────────────── Query ──────────────────────

func (s *adminService) GetByID(ctx context.Context, id uint) (*model.Admin, error) {
	admin, err := s.repo.Admin.GetByID(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrAdminNotFound
		}
		s.logger.Error("查询管理员失败", zap.Uint("id", id), zap.Error(err))
		return nil, err
	}
	return admin, nil
}

func (s *adminService) List(ctx context.Context, req *dto.AccountListRequest) ([]model.Admin, int64, error) {
	filter := repository.AccountFilter{IsActive: req.IsActive, Keyword: req.Keyword}
	admins, total, err := s.repo.Admin.List(ctx, filter, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("查询管理员列表失败", zap.Error(err))
		return nil, 0, err
	}
	return admins, total, nil
}

// ────────────────────── Update ──────────────────────

func (s *adminService) Update(ctx context.Context, id uint, req *dto.UpdateAdminRequest) (*model.Admin, error) {
	admin, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	credentialsChanged := false

	if req.FirstName != nil {
		admin.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		admin.LastName = *req.LastName
	}
	if req.Email != nil && *req.Email != admin.Email {
		if err := s.accounts.ensureEmailFree(ctx, *req.Email); err != nil {
			return nil, err
		}
		admin.Email = *req.Email
		credentialsChanged = true
	}
	if req.Password != nil {
		hash, err := s.accounts.auth.HashPassword(*req.Password)
		if err != nil {
			s.logger.Error("密码哈希失败", zap.Error(err))
			return nil, err
		}
		admin.HashPassword = hash
		credentialsChanged = true
	}
	if req.IsActive != nil && *req.IsActive != admin.IsActive {
		admin.IsActive = *req.IsActive
		credentialsChanged = true
	}

	if err := s.repo.Admin.Update(ctx, admin); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, ErrEmailExists
		}
		s.logger.Error("更新管理员失败", zap.Uint("id", id), zap.Error(err))
		return nil, err
	}

	if credentialsChanged {
		s.accounts.revoke(ctx, model.RoleAdmin, admin.ID)
	}
	return admin, nil
}

// ────────────────────── Delete ──────────────────────

func (s *adminService) Delete(ctx context.Context, id uint) error {
	if err := s.repo.Admin.Delete(ctx, id); err != nil {
		if repository.IsNotFound(err) {
			return ErrAdminNotFound
		}
		s.logger.Error("删除管理员失败", zap.Uint("id", id), zap.Error(err))
		return err
	}
	s.accounts.revoke(ctx, model.RoleAdmin, id)
	return nil
}
