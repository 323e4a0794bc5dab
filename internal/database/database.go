package database

import (
	"fmt"
	"strings"
	"time"

	"socialhub/internal/config"
	"socialhub/internal/logger"
	"socialhub/internal/model"

	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Open 根据配置连接数据库并迁移表结构
func Open(cfg *config.Config) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.Database.Driver {
	case config.DriverMySQL:
		dialector = mysql.Open(cfg.Database.MySQL.DSN)
	case config.DriverSQLite:
		dialector = sqlite.Open(cfg.Database.SQLite.Path)
	default:
		return nil, fmt.Errorf("不支持的数据库驱动: %q", cfg.Database.Driver)
	}

	db, err := open(dialector, parseLogLevel(cfg.Database.LogLevel))
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("获取数据库连接失败: %w", err)
	}
	if cfg.Database.Driver == config.DriverSQLite {
		// SQLite 只允许一个写连接
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetMaxOpenConns(100)
		sqlDB.SetConnMaxLifetime(time.Hour)
	}

	if err := model.SetupDatabase(db); err != nil {
		return nil, fmt.Errorf("数据库迁移失败: %w", err)
	}

	logger.Info("数据库初始化成功", "driver", cfg.Database.Driver)
	return db, nil
}

// OpenSQLite 打开 SQLite 数据库并迁移，主要用于开发和测试（dsn 可为内存库）
func OpenSQLite(dsn string) (*gorm.DB, error) {
	db, err := open(sqlite.Open(dsn), gormlogger.Silent)
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)

	if err := model.SetupDatabase(db); err != nil {
		return nil, err
	}
	return db, nil
}

func open(dialector gorm.Dialector, level gormlogger.LogLevel) (*gorm.DB, error) {
	newLogger := gormlogger.New(
		gormWriter{},
		gormlogger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  level,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: newLogger,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
		// 唯一索引冲突转换为 gorm.ErrDuplicatedKey
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("连接数据库失败: %w", err)
	}
	return db, nil
}

type gormWriter struct{}

func (gormWriter) Printf(format string, args ...interface{}) {
	logger.Printf(format, args...)
}

func parseLogLevel(level string) gormlogger.LogLevel {
	switch strings.ToLower(level) {
	case "silent":
		return gormlogger.Silent
	case "error":
		return gormlogger.Error
	case "info":
		return gormlogger.Info
	default:
		return gormlogger.Warn
	}
}
