package service

import (
	"context"
	netmail "net/mail"

	"go.uber.org/zap"

	"github.com/PashaShevchuk/course-management-system-api-sub000/internal/model"
	"github.com/PashaShevchuk/course-management-system-api-sub000/internal/repository"
	apperrors "github.com/PashaShevchuk/course-management-system-api-sub000/pkg/errors"
	"github.com/PashaShevchuk/course-management-system-api-sub000/pkg/mail"
)

// ── 账户模块业务错误 ──

var (
	ErrEmailExists        = apperrors.BadRequest("user with this email already exists")
	ErrWrongPassword      = apperrors.BadRequest("old password is incorrect")
	ErrAdminNotFound      = apperrors.NotFound("admin not found")
	ErrInstructorNotFound = apperrors.NotFound("instructor not found")
	ErrStudentNotFound    = apperrors.NotFound("student not found")
)

// accountSupport 三类账户服务共用的注册、吊销与通知逻辑
type accountSupport struct {
	repo   *repository.Repository
	auth   AuthService
	mailer Mailer
	logger *zap.Logger
}

func newAccountSupport(repo *repository.Repository, auth AuthService, mailer Mailer, logger *zap.Logger) *accountSupport {
	return &accountSupport{repo: repo, auth: auth, mailer: mailer, logger: logger}
}

// ensureEmailFree 邮箱在三张账户表中均未被使用
func (a *accountSupport) ensureEmailFree(ctx context.Context, email string) error {
	exists, err := a.repo.Account.EmailExists(ctx, email)
	if err != nil {
		a.logger.Error("检查邮箱失败", zap.Error(err))
		return err
	}
	if exists {
		return ErrEmailExists
	}
	return nil
}

// newAccount 构造账户公共字段并哈希密码
func (a *accountSupport) newAccount(role, firstName, lastName, email, plain string, active bool) (model.Account, error) {
	hash, err := a.auth.HashPassword(plain)
	if err != nil {
		a.logger.Error("密码哈希失败", zap.Error(err))
		return model.Account{}, err
	}
	return model.Account{
		FirstName:    firstName,
		LastName:     lastName,
		Email:        email,
		HashPassword: hash,
		IsActive:     active,
		Role:         role,
	}, nil
}

// createErr 唯一约束冲突（并发注册同一邮箱）翻译为 ErrEmailExists
func (a *accountSupport) createErr(err error) error {
	if repository.IsUniqueViolation(err) {
		return ErrEmailExists
	}
	a.logger.Error("创建账户失败", zap.Error(err))
	return err
}

// changePassword 校验旧密码并写入新哈希
func (a *accountSupport) changePassword(acc *model.Account, oldPlain, newPlain string) error {
	if !a.auth.CheckPassword(acc.HashPassword, oldPlain) {
		return ErrWrongPassword
	}
	hash, err := a.auth.HashPassword(newPlain)
	if err != nil {
		a.logger.Error("密码哈希失败", zap.Error(err))
		return err
	}
	acc.HashPassword = hash
	return nil
}

func (a *accountSupport) revoke(ctx context.Context, role string, id uint) {
	a.auth.DeclineToken(ctx, role, id)
}

// notify 异步发送账户通知邮件
func (a *accountSupport) notify(acc *model.Account, subject, template string) {
	if a.mailer == nil {
		return
	}
	a.mailer.Send(&mail.Message{
		To:           []netmail.Address{{Name: acc.FirstName + " " + acc.LastName, Address: acc.Email}},
		Subject:      subject,
		TemplateName: template,
		TemplateData: acc,
	})
}

func (a *accountSupport) notifyStatus(acc *model.Account) {
	if acc.IsActive {
		a.notify(acc, "Your account has been activated", mail.TemplateAccountActivated)
	} else {
		a.notify(acc, "Your account has been deactivated", mail.TemplateAccountDeactivated)
	}
}
