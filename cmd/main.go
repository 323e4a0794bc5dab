package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"socialhub/internal/config"
	"socialhub/internal/database"
	"socialhub/internal/logger"
	"socialhub/internal/redisclient"
	"socialhub/internal/router"
	"socialhub/internal/server"
	"socialhub/internal/service"

	"github.com/gin-gonic/gin"
)

func main() {
	// 读取配置前先用默认级别输出启动错误
	_ = logger.Init("info", false)

	// 读取配置
	if err := config.Init(configPath()); err != nil {
		logger.Fatal("加载配置失败", err)
	}
	cfg := config.GlobalConfig

	if err := logger.Init(cfg.Log.Level, cfg.Log.Development); err != nil {
		logger.Fatal("初始化日志失败", err)
	}
	defer logger.Sync()

	if !cfg.Log.Development {
		gin.SetMode(gin.ReleaseMode)
	}

	// 初始化数据库
	db, err := database.Open(cfg)
	if err != nil {
		logger.Fatal("初始化数据库失败", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		logger.Fatal("获取数据库连接失败", err)
	}
	defer sqlDB.Close()

	// Redis 只用于缓存，失败时继续运行
	rdb, err := redisclient.InitRedis(context.Background(), cfg)
	if err != nil {
		logger.Warn("Redis 初始化失败，将在无缓存的情况下运行", "addr", cfg.RedisAddr(), "error", err)
		rdb = nil
	}
	defer redisclient.CloseRedis()

	serviceMgr := service.NewManager(cfg, db, rdb)
	r := router.SetupRouter(cfg, serviceMgr)

	srv := server.New(cfg, r)
	if err := srv.ValidateCertificates(); err != nil {
		logger.Fatal("TLS证书无效", err)
	}

	go func() {
		if err := srv.Start(); err != nil {
			logger.Fatal("服务器启动失败", err)
		}
	}()

	// 等待中断信号
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("正在关闭服务器...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("服务器强制关闭", "error", err)
	}
	logger.Info("服务器已退出")
}

func configPath() string {
	if p := os.Getenv("CONFIG_PATH"); p != "" {
		return p
	}
	return "config.yaml"
}
