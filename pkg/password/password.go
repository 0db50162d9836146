// Package password 封装 bcrypt 单向哈希
package password

import (
	"golang.org/x/crypto/bcrypt"
)

// DefaultCost 账号密码的默认工作因子
const DefaultCost = 10

// Hasher 固定工作因子的密码哈希器
type Hasher struct {
	cost int
}

// NewHasher 创建 Hasher；cost 非法时回退为 DefaultCost
func NewHasher(cost int) *Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultCost
	}
	return &Hasher{cost: cost}
}

// Hash 生成带盐哈希
func (h *Hasher) Hash(plain string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), h.cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Compare 常量时间比较明文与哈希
func (h *Hasher) Compare(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
