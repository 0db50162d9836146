package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/PashaShevchuk/course-management-system-api-sub000/config"
	"github.com/PashaShevchuk/course-management-system-api-sub000/internal/model"
	"github.com/PashaShevchuk/course-management-system-api-sub000/internal/repository"
	"github.com/PashaShevchuk/course-management-system-api-sub000/internal/testutil"
	"github.com/PashaShevchuk/course-management-system-api-sub000/pkg/jwt"
	"github.com/PashaShevchuk/course-management-system-api-sub000/pkg/mail"
	"github.com/PashaShevchuk/course-management-system-api-sub000/pkg/password"
	"github.com/PashaShevchuk/course-management-system-api-sub000/pkg/redis"
	"github.com/PashaShevchuk/course-management-system-api-sub000/pkg/storage"
)

// ── Mock AccountRepository ──

type mockAccountRepo struct {
	principals []model.Principal // 按 admin → instructor → student 顺序追加
}

func newMockAccountRepo() *mockAccountRepo {
	return &mockAccountRepo{}
}

func (m *mockAccountRepo) FindByEmail(_ context.Context, email string) (model.Principal, error) {
	for _, p := range m.principals {
		if p.AccountInfo().Email == email {
			return p, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockAccountRepo) FindByRole(_ context.Context, role string, id uint) (model.Principal, error) {
	for _, p := range m.principals {
		if p.AccountInfo().Role == role && p.PrincipalID() == id {
			return p, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockAccountRepo) EmailExists(ctx context.Context, email string) (bool, error) {
	_, err := m.FindByEmail(ctx, email)
	return err == nil, nil
}

// ── Mock Mailer ──

type recordingMailer struct {
	mu   sync.Mutex
	sent []*mail.Message
}

func (m *recordingMailer) Send(messages ...*mail.Message) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, messages...)
}

func (m *recordingMailer) templates() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	names := make([]string, 0, len(m.sent))
	for _, msg := range m.sent {
		names = append(names, msg.TemplateName)
	}
	return names
}

// ── 测试辅助 ──

const testPassword = "SomePassword1"

func testConfig() *config.Config {
	return &config.Config{
		Auth: config.AuthConfig{
			JWTSecret:  "test-secret-key-for-unit-testing-2026",
			TokenTTL:   12 * time.Hour,
			BcryptCost: bcrypt.MinCost,
		},
		Enrollment: config.EnrollmentConfig{
			MaxCourses:          5,
			MinLessonsToPublish: 5,
		},
		Storage: config.StorageConfig{
			MaxFileSize:      1 << 10,
			MaxFiles:         1,
			AllowedMIMETypes: []string{"application/pdf", "text/plain"},
		},
	}
}

// newTestCache 基于 miniredis 的 Token 缓存
func newTestCache(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client, err := redis.NewClient(&config.RedisConfig{Addr: mr.Addr()}, zap.NewNop())
	if err != nil {
		t.Fatalf("连接 miniredis 失败: %v", err)
	}
	t.Cleanup(func() { client.Close() })
	return client, mr
}

func hashed(t *testing.T, plain string) string {
	t.Helper()
	h, err := password.NewHasher(bcrypt.MinCost).Hash(plain)
	if err != nil {
		t.Fatalf("Hash 失败: %v", err)
	}
	return h
}

// testEnv 基于 sqlite 的完整 Service 环境
type testEnv struct {
	cfg    *config.Config
	db     *gorm.DB
	repo   *repository.Repository
	svc    *Service
	cache  *redis.Client
	mr     *miniredis.Miniredis
	mailer *recordingMailer
	store  storage.Storage
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	return newTestEnvWithStore(t, nil)
}

func newTestEnvWithStore(t *testing.T, store storage.Storage) *testEnv {
	t.Helper()
	cfg := testConfig()
	db := testutil.NewDB(t)
	repo := repository.NewRepository(db)
	cache, mr := newTestCache(t)
	mailer := &recordingMailer{}

	if store == nil {
		local, err := storage.NewLocal(t.TempDir())
		if err != nil {
			t.Fatalf("NewLocal 失败: %v", err)
		}
		store = local
	}

	svc := NewService(Deps{
		Config:  cfg,
		Repo:    repo,
		JWT:     jwt.NewManager(&cfg.Auth),
		Hasher:  password.NewHasher(cfg.Auth.BcryptCost),
		Cache:   cache,
		Storage: store,
		Mailer:  mailer,
		Logger:  zap.NewNop(),
	})

	return &testEnv{cfg: cfg, db: db, repo: repo, svc: svc, cache: cache, mr: mr, mailer: mailer, store: store}
}
