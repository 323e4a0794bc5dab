package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config 应用配置
type Config struct {
	Server struct {
		Port         int      `yaml:"port"`
		UploadDir    string   `yaml:"upload_dir"`
		AllowOrigins []string `yaml:"allow_origins"`
		TLS          struct {
			Enabled  bool   `yaml:"enabled"`
			CertFile string `yaml:"cert_file"`
			KeyFile  string `yaml:"key_file"`
		} `yaml:"tls"`
	} `yaml:"server"`

	Database struct {
		Driver string `yaml:"driver"` // mysql 或 sqlite
		MySQL  struct {
			DSN string `yaml:"dsn"` // Data Source Name
		} `yaml:"mysql"`
		SQLite struct {
			Path string `yaml:"path"`
		} `yaml:"sqlite"`
		LogLevel string `yaml:"log_level"`
	} `yaml:"database"`

	JWT struct {
		Secret string `yaml:"secret"`
		Expire int    `yaml:"expire"` // 过期时间（小时）
	} `yaml:"jwt"`

	Redis struct {
		Host     string `yaml:"host"`
		Port     int    `yaml:"port"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
		Enabled  bool   `yaml:"enabled"`
	} `yaml:"redis"`

	Log struct {
		Level       string `yaml:"level"`
		Development bool   `yaml:"development"`
	} `yaml:"log"`
}

const (
	DriverMySQL  = "mysql"
	DriverSQLite = "sqlite"

	defaultSecret = "default_secret_key_for_development"
)

// GlobalConfig 全局配置
var GlobalConfig = Default()

// Default 返回开发环境默认配置
func Default() *Config {
	cfg := &Config{}
	cfg.Server.Port = 5000
	cfg.Server.UploadDir = "./static/uploads"
	cfg.Server.AllowOrigins = []string{"http://localhost:3000"}
	cfg.Database.Driver = DriverMySQL
	cfg.Database.MySQL.DSN = "root:123456@tcp(127.0.0.1:3306)/socialhub?charset=utf8mb4&parseTime=True&loc=UTC"
	cfg.Database.SQLite.Path = "socialhub.db"
	cfg.Database.LogLevel = "warn"
	cfg.JWT.Secret = defaultSecret
	cfg.JWT.Expire = 24
	cfg.Redis.Host = "127.0.0.1"
	cfg.Redis.Port = 6379
	cfg.Log.Level = "info"
	return cfg
}

// Init 初始化全局配置
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	GlobalConfig = cfg
	return nil
}

// Load 读取 .env、YAML 配置文件和环境变量，缺失的字段使用默认值
func Load(path string) (*Config, error) {
	// .env 不存在不是错误
	_ = godotenv.Load()

	cfg := Default()

	f, err := os.Open(path)
	switch {
	case err == nil:
		defer f.Close()
		if err := yaml.NewDecoder(f).Decode(cfg); err != nil {
			return nil, fmt.Errorf("解析配置文件 %s 失败: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist):
		// 配置文件不存在，使用默认配置
	default:
		return nil, fmt.Errorf("打开配置文件 %s 失败: %w", path, err)
	}

	cfg.applyEnv()
	cfg.fillDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.Server.Port = getEnvInt("SERVER_PORT", c.Server.Port)
	c.Server.UploadDir = getEnv("UPLOAD_DIR", c.Server.UploadDir)
	c.Server.TLS.Enabled = getEnvBool("ENABLE_TLS", c.Server.TLS.Enabled)
	c.Server.TLS.CertFile = getEnv("TLS_CERT_FILE", c.Server.TLS.CertFile)
	c.Server.TLS.KeyFile = getEnv("TLS_KEY_FILE", c.Server.TLS.KeyFile)

	c.Database.Driver = getEnv("DB_DRIVER", c.Database.Driver)
	c.Database.MySQL.DSN = getEnv("MYSQL_DSN", c.Database.MySQL.DSN)
	c.Database.SQLite.Path = getEnv("SQLITE_PATH", c.Database.SQLite.Path)

	c.JWT.Secret = getEnv("JWT_SECRET", c.JWT.Secret)
	c.JWT.Expire = getEnvInt("JWT_EXPIRE_HOURS", c.JWT.Expire)

	c.Redis.Host = getEnv("REDIS_HOST", c.Redis.Host)
	c.Redis.Port = getEnvInt("REDIS_PORT", c.Redis.Port)
	c.Redis.Password = getEnv("REDIS_PASSWORD", c.Redis.Password)
	c.Redis.Enabled = getEnvBool("REDIS_ENABLED", c.Redis.Enabled)

	c.Log.Level = getEnv("LOG_LEVEL", c.Log.Level)
	c.Log.Development = getEnv("APP_ENV", "") == "development" || c.Log.Development
}

func (c *Config) fillDefaults() {
	// 确保 JWT Secret 有值
	if c.JWT.Secret == "" {
		c.JWT.Secret = defaultSecret
	}
	// 确保过期时间有值
	if c.JWT.Expire <= 0 {
		c.JWT.Expire = 24
	}
	if c.Redis.Host == "" {
		c.Redis.Host = "127.0.0.1"
	}
	if c.Redis.Port == 0 {
		c.Redis.Port = 6379
	}
	if c.Server.UploadDir == "" {
		c.Server.UploadDir = "./static/uploads"
	}
}

// Validate 校验配置
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("无效的服务端口: %d", c.Server.Port)
	}
	switch c.Database.Driver {
	case DriverMySQL:
		if c.Database.MySQL.DSN == "" {
			return errors.New("database.mysql.dsn 不能为空")
		}
	case DriverSQLite:
		if c.Database.SQLite.Path == "" {
			return errors.New("database.sqlite.path 不能为空")
		}
	default:
		return fmt.Errorf("不支持的数据库驱动: %q", c.Database.Driver)
	}
	if c.Server.TLS.Enabled && (c.Server.TLS.CertFile == "" || c.Server.TLS.KeyFile == "") {
		return errors.New("启用 TLS 时必须配置证书和私钥")
	}
	return nil
}

// RedisAddr 返回 host:port
func (c *Config) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Redis.Host, c.Redis.Port)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}
