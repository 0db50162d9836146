package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/PashaShevchuk/course-management-system-api-sub000/internal/model"
)

// AccountRepository 跨三张账户表的凭证查询
type AccountRepository interface {
	// FindByEmail 依次查询 admin → instructor → student，返回第一个命中的账户
	FindByEmail(ctx context.Context, email string) (model.Principal, error)
	// FindByRole 按角色与 ID 查询账户
	FindByRole(ctx context.Context, role string, id uint) (model.Principal, error)
	// EmailExists 邮箱是否已被任一账户使用
	EmailExists(ctx context.Context, email string) (bool, error)
}

type accountRepo struct {
	db *gorm.DB
}

// NewAccountRepo 创建 AccountRepository 实例
func NewAccountRepo(db *gorm.DB) AccountRepository {
	return &accountRepo{db: db}
}

// newPrincipal 按角色返回对应的空模型
func newPrincipal(role string) model.Principal {
	switch role {
	case model.RoleAdmin:
		return &model.Admin{}
	case model.RoleInstructor:
		return &model.Instructor{}
	case model.RoleStudent:
		return &model.Student{}
	}
	return nil
}

var loginOrder = []string{model.RoleAdmin, model.RoleInstructor, model.RoleStudent}

func (r *accountRepo) FindByEmail(ctx context.Context, email string) (model.Principal, error) {
	for _, role := range loginOrder {
		p := newPrincipal(role)
		err := r.db.WithContext(ctx).Where("email = ?", email).First(p).Error
		if err == nil {
			return p, nil
		}
		if !IsNotFound(err) {
			return nil, err
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *accountRepo) FindByRole(ctx context.Context, role string, id uint) (model.Principal, error) {
	p := newPrincipal(role)
	if p == nil {
		return nil, gorm.ErrRecordNotFound
	}
	if err := r.db.WithContext(ctx).First(p, id).Error; err != nil {
		return nil, err
	}
	return p, nil
}

func (r *accountRepo) EmailExists(ctx context.Context, email string) (bool, error) {
	for _, role := range loginOrder {
		var count int64
		if err := r.db.WithContext(ctx).Model(newPrincipal(role)).Where("email = ?", email).Count(&count).Error; err != nil {
			return false, err
		}
		if count > 0 {
			return true, nil
		}
	}
	return false, nil
}
