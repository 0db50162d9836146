// Package storage 作业文件的 Blob 存储：按路径读、写、删
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/PashaShevchuk/course-management-system-api-sub000/config"
)

var (
	ErrNotFound    = errors.New("blob not found")
	ErrInvalidPath = errors.New("invalid blob path")
)

// Storage Blob 存储接口
type Storage interface {
	Save(ctx context.Context, key string, r io.Reader) error
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	// Delete 对不存在的 key 不报错
	Delete(ctx context.Context, key string) error
}

// New 根据配置创建存储实现
func New(ctx context.Context, cfg *config.StorageConfig) (Storage, error) {
	switch cfg.Driver {
	case "local":
		return NewLocal(cfg.LocalRoot)
	case "b2":
		return NewB2(ctx, cfg.B2AccountID, cfg.B2ApplicationKey, cfg.B2Bucket)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}

// cleanKey 规范化相对路径，拒绝越界访问
func cleanKey(key string) (string, error) {
	k := path.Clean("/" + strings.ReplaceAll(key, "\\", "/"))
	k = strings.TrimPrefix(k, "/")
	if k == "" || k == "." {
		return "", ErrInvalidPath
	}
	return k, nil
}
