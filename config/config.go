package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"golang.org/x/crypto/bcrypt"
)

// Config 应用全局配置结构体
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Database   DatabaseConfig   `mapstructure:"db"`
	Redis      RedisConfig      `mapstructure:"redis"`
	Auth       AuthConfig       `mapstructure:"auth"`
	Enrollment EnrollmentConfig `mapstructure:"enrollment"`
	Storage    StorageConfig    `mapstructure:"storage"`
	Mail       MailConfig       `mapstructure:"mail"`
	Log        LogConfig        `mapstructure:"log"`
}

// ServerConfig HTTP 服务器配置
type ServerConfig struct {
	Port      int        `mapstructure:"port"`
	BaseURL   string     `mapstructure:"base_url"`
	BodyLimit int64      `mapstructure:"body_limit"` // 非上传接口的请求体上限（字节）
	CORS      CORSConfig `mapstructure:"cors"`
}

// CORSConfig 跨域配置
type CORSConfig struct {
	AllowOrigins []string `mapstructure:"allow_origins"`
}

// DatabaseConfig PostgreSQL 数据库配置
type DatabaseConfig struct {
	Driver          string `mapstructure:"driver"`      // "postgres" | "sqlite"
	SQLitePath      string `mapstructure:"sqlite_path"` // 仅 sqlite 使用，本地开发
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	Name            string `mapstructure:"name"`
	User            string `mapstructure:"user"`
	Password        string `mapstructure:"password"`
	SSLMode         string `mapstructure:"sslmode"`
	Timezone        string `mapstructure:"timezone"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"`  // 连接最大生命周期（分钟）
	ConnMaxIdleTime int    `mapstructure:"conn_max_idle_time"` // 空闲连接最大存活时间（分钟）
}

// DSN 生成 PostgreSQL 连接字符串
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s TimeZone=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode, c.Timezone,
	)
}

// RedisConfig Redis 缓存配置（Token 缓存 + 登录限流）
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// AuthConfig 认证配置
type AuthConfig struct {
	JWTSecret  string        `mapstructure:"jwt_secret"`
	TokenTTL   time.Duration `mapstructure:"token_ttl"`
	BcryptCost int           `mapstructure:"bcrypt_cost"`
	// EnforceTokenCache 为 true 时，JWTAuth 额外要求请求 Token 与缓存中的最新 Token 一致。
	// 默认关闭：吊销仅清除缓存项，已签发且未过期的 Token 仍可通过签名校验。
	EnforceTokenCache bool          `mapstructure:"enforce_token_cache"`
	LoginRateLimit    int           `mapstructure:"login_rate_limit"`
	LoginRateWindow   time.Duration `mapstructure:"login_rate_window"`
}

// EnrollmentConfig 选课与发布规则配置
type EnrollmentConfig struct {
	MaxCourses          int `mapstructure:"max_courses"`            // 单个学生最多可选课程数
	MinLessonsToPublish int `mapstructure:"min_lessons_to_publish"` // 课程发布所需最少课时数
}

// StorageConfig 作业文件存储配置
type StorageConfig struct {
	Driver           string   `mapstructure:"driver"` // "local" | "b2"
	LocalRoot        string   `mapstructure:"local_root"`
	B2AccountID      string   `mapstructure:"b2_account_id"`
	B2ApplicationKey string   `mapstructure:"b2_application_key"`
	B2Bucket         string   `mapstructure:"b2_bucket"`
	MaxFileSize      int64    `mapstructure:"max_file_size"`
	MaxFiles         int      `mapstructure:"max_files"`
	AllowedMIMETypes []string `mapstructure:"allowed_mime_types"`
}

// MailConfig 邮件发送配置
type MailConfig struct {
	Driver         string `mapstructure:"driver"` // "log" | "sendgrid"
	SendgridAPIKey string `mapstructure:"sendgrid_api_key"`
	FromName       string `mapstructure:"from_name"`
	FromAddress    string `mapstructure:"from_address"`
	SubjectPrefix  string `mapstructure:"subject_prefix"`
}

// LogConfig 日志配置
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load 从配置文件与环境变量加载配置
// 优先级：环境变量（含 .env）> 配置文件 > 默认值
func Load(path string) (*Config, error) {
	// .env 不存在时忽略
	_ = godotenv.Load()

	v := viper.New()

	// ── 默认值 ──
	v.SetDefault("server.port", 3000)
	v.SetDefault("server.base_url", "http://localhost:3000")
	v.SetDefault("server.body_limit", 1<<20)
	v.SetDefault("server.cors.allow_origins", []string{"http://localhost:5173"})

	v.SetDefault("db.driver", "postgres")
	v.SetDefault("db.sqlite_path", "course_management.db")
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.name", "course_management")
	v.SetDefault("db.user", "postgres")
	v.SetDefault("db.password", "")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.timezone", "UTC")
	v.SetDefault("db.max_open_conns", 25)
	v.SetDefault("db.max_idle_conns", 10)
	v.SetDefault("db.conn_max_lifetime", 60)
	v.SetDefault("db.conn_max_idle_time", 30)

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("auth.token_ttl", "12h")
	v.SetDefault("auth.bcrypt_cost", 10)
	v.SetDefault("auth.enforce_token_cache", false)
	v.SetDefault("auth.login_rate_limit", 10)
	v.SetDefault("auth.login_rate_window", "1m")

	v.SetDefault("enrollment.max_courses", 5)
	v.SetDefault("enrollment.min_lessons_to_publish", 5)

	v.SetDefault("storage.driver", "local")
	v.SetDefault("storage.local_root", "./uploads")
	v.SetDefault("storage.b2_account_id", "")
	v.SetDefault("storage.b2_application_key", "")
	v.SetDefault("storage.b2_bucket", "")
	v.SetDefault("storage.max_file_size", 10<<20)
	v.SetDefault("storage.max_files", 1)
	v.SetDefault("storage.allowed_mime_types", []string{
		"application/pdf",
		"application/zip",
		"image/png",
		"image/jpeg",
		"text/plain",
	})

	v.SetDefault("mail.driver", "log")
	v.SetDefault("mail.sendgrid_api_key", "")
	v.SetDefault("mail.from_name", "Course Management")
	v.SetDefault("mail.from_address", "no-reply@course-management.local")
	v.SetDefault("mail.subject_prefix", "[Course Management] ")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// ── 配置文件 ──
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
	}

	// ── 环境变量 ──
	v.SetEnvPrefix("CMS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("读取配置文件失败: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("解析配置失败: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate 校验关键配置项
func (c *Config) Validate() error {
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("配置校验失败: auth.jwt_secret 不能为空")
	}
	if len(c.Auth.JWTSecret) < 16 {
		return fmt.Errorf("配置校验失败: auth.jwt_secret 长度不能少于 16 字符")
	}
	if c.Auth.TokenTTL <= 0 {
		return fmt.Errorf("配置校验失败: auth.token_ttl 必须为正数")
	}
	if c.Auth.BcryptCost < bcrypt.MinCost || c.Auth.BcryptCost > bcrypt.MaxCost {
		return fmt.Errorf("配置校验失败: auth.bcrypt_cost 必须在 %d-%d 之间", bcrypt.MinCost, bcrypt.MaxCost)
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("配置校验失败: server.port 必须在 1-65535 之间")
	}
	if c.Enrollment.MaxCourses <= 0 || c.Enrollment.MinLessonsToPublish <= 0 {
		return fmt.Errorf("配置校验失败: enrollment 上限必须为正数")
	}
	switch c.Database.Driver {
	case "postgres":
	case "sqlite":
		if c.Database.SQLitePath == "" {
			return fmt.Errorf("配置校验失败: db.sqlite_path 不能为空")
		}
	default:
		return fmt.Errorf("配置校验失败: 未知的 db.driver %q", c.Database.Driver)
	}
	switch c.Storage.Driver {
	case "local":
		if c.Storage.LocalRoot == "" {
			return fmt.Errorf("配置校验失败: storage.local_root 不能为空")
		}
	case "b2":
		if c.Storage.B2AccountID == "" || c.Storage.B2ApplicationKey == "" || c.Storage.B2Bucket == "" {
			return fmt.Errorf("配置校验失败: storage.b2_* 必须完整配置")
		}
	default:
		return fmt.Errorf("配置校验失败: 未知的 storage.driver %q", c.Storage.Driver)
	}
	if c.Storage.MaxFileSize <= 0 || c.Storage.MaxFiles <= 0 {
		return fmt.Errorf("配置校验失败: storage 文件大小与数量限制必须为正数")
	}
	switch c.Mail.Driver {
	case "log":
	case "sendgrid":
		if c.Mail.SendgridAPIKey == "" {
			return fmt.Errorf("配置校验失败: mail.sendgrid_api_key 不能为空")
		}
	default:
		return fmt.Errorf("配置校验失败: 未知的 mail.driver %q", c.Mail.Driver)
	}
	return nil
}
