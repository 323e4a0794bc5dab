package service

import (
	"time"

	"socialhub/internal/chat"
	"socialhub/internal/config"
	"socialhub/internal/constants"
	"socialhub/internal/friend"
	"socialhub/internal/logger"
	"socialhub/internal/middleware"
	"socialhub/internal/user"

	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

// Manager 统一服务管理器，所有服务共享同一个显式传入的 *gorm.DB
type Manager struct {
	tokens         *middleware.TokenIssuer
	accountService *user.AccountService
	graph          *friend.Graph
	requestService *friend.RequestService
	messageService *chat.MessageService
	uploadDir      string
}

// NewManager 创建服务管理器；rdb 为 nil 时不使用好友关系缓存
func NewManager(cfg *config.Config, db *gorm.DB, rdb *redis.Client) *Manager {
	tokens := middleware.NewTokenIssuer(cfg.JWT.Secret, time.Duration(cfg.JWT.Expire)*time.Hour)
	accounts := user.NewAccountService(db, tokens)
	graph := friend.NewGraph(db, accounts, friend.NewRedisCache(rdb, constants.FriendCacheTTL))

	manager := &Manager{
		tokens:         tokens,
		accountService: accounts,
		graph:          graph,
		requestService: friend.NewRequestService(db, accounts, graph),
		messageService: chat.NewMessageService(db, accounts),
		uploadDir:      cfg.Server.UploadDir,
	}

	logger.Info("服务管理器初始化完成", "cache", rdb != nil)
	return manager
}

// Tokens 获取令牌签发器
func (m *Manager) Tokens() *middleware.TokenIssuer {
	return m.tokens
}

// GetAccountService 获取账户服务
func (m *Manager) GetAccountService() *user.AccountService {
	return m.accountService
}

// GetFriendGraph 获取好友关系图
func (m *Manager) GetFriendGraph() *friend.Graph {
	return m.graph
}

// GetRequestService 获取好友请求服务
func (m *Manager) GetRequestService() *friend.RequestService {
	return m.requestService
}

// GetMessageService 获取私信服务
func (m *Manager) GetMessageService() *chat.MessageService {
	return m.messageService
}

// UploadDir 头像上传目录
func (m *Manager) UploadDir() string {
	return m.uploadDir
}
