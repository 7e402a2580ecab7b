package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// ==================== 配置结构 ====================

// Config 应用配置
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	JWT      JWTConfig
	SMTP     SMTPConfig
}

// ServerConfig HTTP 服务配置
type ServerConfig struct {
	Port string
	Mode string // debug / release
}

// DatabaseConfig 数据库配置
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// DSN 拼接 PostgreSQL 连接串
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=%s",
		c.Host, c.User, c.Password, c.DBName, c.Port, c.SSLMode)
}

// JWTConfig JWT 配置
type JWTConfig struct {
	Secret          string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
	Issuer          string
}

// SMTPConfig 邮件通知配置
type SMTPConfig struct {
	Host     string
	Port     int
	From     string
	Username string
	Password string
}

// ==================== 加载 ====================

// Load 加载配置
// 读取顺序：config.yaml（可选）→ 环境变量（ORDERS_ 前缀）覆盖 → 默认值兜底
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./configs")

	v.SetEnvPrefix("ORDERS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		// 配置文件缺失时仅靠环境变量和默认值运行
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("读取配置文件失败: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("解析配置失败: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.mode", "debug")

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "orders")
	v.SetDefault("database.password", "orders")
	v.SetDefault("database.dbname", "orders")
	v.SetDefault("database.sslmode", "disable")

	v.SetDefault("jwt.secret", "orders-backend-secret-change-in-production")
	v.SetDefault("jwt.accesstokenttl", 2*time.Hour)
	v.SetDefault("jwt.refreshtokenttl", 7*24*time.Hour)
	v.SetDefault("jwt.issuer", "orders-backend")

	v.SetDefault("smtp.host", "localhost")
	v.SetDefault("smtp.port", 25)
	v.SetDefault("smtp.from", "noreply@orders.local")
}
