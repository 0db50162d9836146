package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/PashaShevchuk/course-management-system-api-sub000/config"
	"github.com/PashaShevchuk/course-management-system-api-sub000/internal/api/handler"
	"github.com/PashaShevchuk/course-management-system-api-sub000/internal/api/middleware"
	"github.com/PashaShevchuk/course-management-system-api-sub000/internal/api/router"
	"github.com/PashaShevchuk/course-management-system-api-sub000/internal/model"
	"github.com/PashaShevchuk/course-management-system-api-sub000/internal/repository"
	"github.com/PashaShevchuk/course-management-system-api-sub000/internal/service"
	"github.com/PashaShevchuk/course-management-system-api-sub000/pkg/database"
	"github.com/PashaShevchuk/course-management-system-api-sub000/pkg/jwt"
	applogger "github.com/PashaShevchuk/course-management-system-api-sub000/pkg/logger"
	"github.com/PashaShevchuk/course-management-system-api-sub000/pkg/mail"
	"github.com/PashaShevchuk/course-management-system-api-sub000/pkg/password"
	"github.com/PashaShevchuk/course-management-system-api-sub000/pkg/redis"
	"github.com/PashaShevchuk/course-management-system-api-sub000/pkg/storage"
	"github.com/PashaShevchuk/course-management-system-api-sub000/pkg/validation"
)

func main() {
	// 1. 加载配置
	cfg, err := config.Load(os.Getenv("CMS_CONFIG"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "加载配置失败: %v\n", err)
		os.Exit(1)
	}

	// 2. 初始化日志
	logger, err := applogger.NewLogger(&cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "初始化日志失败: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("应用启动中...",
		zap.Int("port", cfg.Server.Port),
		zap.String("log_level", cfg.Log.Level),
	)

	if err := validation.Setup(); err != nil {
		logger.Fatal("初始化参数校验失败", zap.Error(err))
	}

	// 3. 连接数据库
	db, err := database.NewDB(&cfg.Database, cfg.Log.Level, logger)
	if err != nil {
		logger.Fatal("数据库连接失败", zap.Error(err))
	}

	// 3.1 建表：PostgreSQL 走迁移脚本，sqlite 按模型自动建表
	if cfg.Database.Driver == "sqlite" {
		if err := database.AutoMigrate(db, logger, model.All()...); err != nil {
			logger.Fatal("自动建表失败", zap.Error(err))
		}
	} else {
		sqlDB, err := db.DB()
		if err != nil {
			logger.Fatal("获取底层 sql.DB 失败", zap.Error(err))
		}
		if err := database.RunMigrations(sqlDB, logger); err != nil {
			logger.Fatal("数据库迁移失败", zap.Error(err))
		}
	}

	// 4. 连接 Redis（可选：连接失败时降级运行，不中断启动）
	var (
		tokenCache service.TokenCache
		limiter    middleware.RateLimiter
	)
	rdb, err := redis.NewClient(&cfg.Redis, logger)
	if err != nil {
		logger.Warn("Redis 连接失败，Token 缓存与登录限流将不可用", zap.Error(err))
	} else {
		tokenCache = rdb
		limiter = rdb
	}

	// 5. 作业存储与邮件
	ctx := context.Background()
	store, err := storage.New(ctx, &cfg.Storage)
	if err != nil {
		logger.Fatal("初始化作业存储失败", zap.Error(err))
	}
	mailer, err := mail.New(&cfg.Mail, logger)
	if err != nil {
		logger.Fatal("初始化邮件发送失败", zap.Error(err))
	}

	// 6. 依赖注入: Repository → Service → Handler
	repo := repository.NewRepository(db)
	svc := service.NewService(service.Deps{
		Config:  cfg,
		Repo:    repo,
		JWT:     jwt.NewManager(&cfg.Auth),
		Hasher:  password.NewHasher(cfg.Auth.BcryptCost),
		Cache:   tokenCache,
		Storage: store,
		Mailer:  mailer,
		Logger:  logger,
	})
	h := handler.NewHandler(svc, &cfg.Storage)

	// 7. 初始化路由
	engine := router.Setup(cfg, h, svc.Auth, limiter, logger)

	// 8. 启动 HTTP 服务器（优雅关闭）
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      engine,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("HTTP 服务器已启动", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP 服务器异常", zap.Error(err))
		}
	}()

	// 9. 监听系统信号，优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	logger.Info("收到关闭信号，开始优雅关闭...", zap.String("signal", sig.String()))

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("服务器关闭异常", zap.Error(err))
	}

	// 等待未发送完的邮件
	mailer.Wait()

	// 关闭数据库连接
	closeDB, _ := db.DB()
	if closeDB != nil {
		closeDB.Close()
	}

	// 关闭 Redis 连接
	if rdb != nil {
		rdb.Close()
	}

	logger.Info("服务器已关闭")
}
