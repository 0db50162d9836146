package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/PashaShevchuk/course-management-system-api-sub000/config"
	"github.com/PashaShevchuk/course-management-system-api-sub000/internal/dto"
	"github.com/PashaShevchuk/course-management-system-api-sub000/internal/repository"
	apperrors "github.com/PashaShevchuk/course-management-system-api-sub000/pkg/errors"
	"github.com/PashaShevchuk/course-management-system-api-sub000/pkg/jwt"
	"github.com/PashaShevchuk/course-management-system-api-sub000/pkg/password"
)

// ── 认证模块业务错误 ──

var (
	ErrInvalidCredentials = apperrors.Unauthorized("invalid email or password")
	ErrAccountInactive    = apperrors.Unauthorized("account is not active")
	ErrTokenInvalid       = apperrors.Unauthorized("invalid token")
	ErrTokenExpired       = apperrors.Unauthorized("token expired")
	ErrTokenRevoked       = apperrors.Unauthorized("token has been revoked")
	ErrAccountNotFound    = apperrors.NotFound("account not found")
)

// AuthService 认证业务接口
type AuthService interface {
	// Login 按 admin → instructor → student 顺序查找账户并签发 Token
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error)
	HashPassword(plain string) (string, error)
	CheckPassword(hash, plain string) bool
	// VerifyToken 校验签名与有效期；开启 enforce_token_cache 时还要求与缓存中的 Token 一致
	VerifyToken(ctx context.Context, token string) (*jwt.Claims, error)
	// DeclineToken 清除账户的缓存 Token
	DeclineToken(ctx context.Context, role string, userID uint)
	Me(ctx context.Context, role string, userID uint) (*dto.MeResponse, error)
}

type authService struct {
	cfg    *config.AuthConfig
	repo   *repository.Repository
	jwtMgr *jwt.Manager
	hasher *password.Hasher
	cache  TokenCache
	logger *zap.Logger
}

// NewAuthService 创建 AuthService 实例；cache 为 nil 时不做 Token 缓存
func NewAuthService(
	cfg *config.AuthConfig,
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	hasher *password.Hasher,
	cache TokenCache,
	logger *zap.Logger,
) AuthService {
	return &authService{
		cfg:    cfg,
		repo:   repo,
		jwtMgr: jwtMgr,
		hasher: hasher,
		cache:  cache,
		logger: logger,
	}
}

// ────────────────────── Login ──────────────────────

func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error) {
	// 1. 查询账户
	principal, err := s.repo.Account.FindByEmail(ctx, req.Email)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrInvalidCredentials
		}
		s.logger.Error("查询账户失败", zap.Error(err))
		return nil, err
	}
	acc := principal.AccountInfo()

	// 2. 账户状态
	if !acc.IsActive {
		return nil, ErrAccountInactive
	}

	// 3. 验证密码 (bcrypt)
	if !s.hasher.Compare(acc.HashPassword, req.Password) {
		return nil, ErrInvalidCredentials
	}

	// 4. 签发 Token 并写入缓存
	token, err := s.jwtMgr.GenerateToken(jwt.Payload{
		ID:    principal.PrincipalID(),
		Email: acc.Email,
		Role:  acc.Role,
	})
	if err != nil {
		s.logger.Error("生成 Token 失败", zap.Error(err))
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.SetUserToken(ctx, acc.Role, principal.PrincipalID(), token, s.jwtMgr.TTL()); err != nil {
			// 缓存不可用不影响登录
			s.logger.Warn("写入 Token 缓存失败", zap.Uint("user_id", principal.PrincipalID()), zap.Error(err))
		}
	}

	s.logger.Info("登录成功", zap.String("role", acc.Role), zap.Uint("user_id", principal.PrincipalID()))
	return &dto.TokenResponse{Token: token}, nil
}

// ────────────────────── Password ──────────────────────

func (s *authService) HashPassword(plain string) (string, error) {
	return s.hasher.Hash(plain)
}

func (s *authService) CheckPassword(hash, plain string) bool {
	return s.hasher.Compare(hash, plain)
}

// ────────────────────── Token ──────────────────────

func (s *authService) VerifyToken(ctx context.Context, token string) (*jwt.Claims, error) {
	claims, err := s.jwtMgr.ParseToken(token)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}

	if !s.cfg.EnforceTokenCache || s.cache == nil {
		return claims, nil
	}

	cached, ok, err := s.cache.GetUserToken(ctx, claims.Role, claims.UserID)
	if err != nil {
		// Redis 故障时降级为仅校验签名
		s.logger.Warn("读取 Token 缓存失败，降级为签名校验", zap.Error(err))
		return claims, nil
	}
	if !ok || cached != token {
		return nil, ErrTokenRevoked
	}
	return claims, nil
}

func (s *authService) DeclineToken(ctx context.Context, role string, userID uint) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeleteUserToken(ctx, role, userID); err != nil {
		s.logger.Warn("清除 Token 缓存失败", zap.String("role", role), zap.Uint("user_id", userID), zap.Error(err))
	}
}

// ────────────────────── Me ──────────────────────

func (s *authService) Me(ctx context.Context, role string, userID uint) (*dto.MeResponse, error) {
	principal, err := s.repo.Account.FindByRole(ctx, role, userID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrAccountNotFound
		}
		s.logger.Error("查询账户失败", zap.Error(err))
		return nil, err
	}
	acc := principal.AccountInfo()
	return &dto.MeResponse{
		ID:        principal.PrincipalID(),
		FirstName: acc.FirstName,
		LastName:  acc.LastName,
		Email:     acc.Email,
		Role:      acc.Role,
		IsActive:  acc.IsActive,
	}, nil
}
