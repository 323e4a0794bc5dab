package constants

import "time"

// 好友请求状态
const (
	RequestStatusPending  = "pending"
	RequestStatusAccepted = "accepted"
	RequestStatusRejected = "rejected"
)

// 好友请求处理动作
const (
	ActionAccept = "accept"
	ActionReject = "reject"
)

// 用户之间的关系（读取时推导，不落库）
const (
	RelationNone     = "none"
	RelationSent     = "sent"
	RelationReceived = "received"
	RelationFriends  = "friends"
	RelationRejected = "rejected"
)

// 消息排序
const (
	OrderAsc  = "asc"
	OrderDesc = "desc"
)

// 分页默认值
const (
	DefaultFriendsPerPage = 10
	DefaultChatPerPage    = 20
	MaxPerPage            = 100
)

// 字段长度限制
const (
	MaxMessageLength  = 1000
	MaxBioLength      = 300
	MaxLocationLength = 100
	MaxStatusLength   = 50
)

// 时间格式
const (
	FriendshipTimeLayout = "2006-01-02 15:04"
	MessageTimeLayout    = "2006-01-02 15:04:05"
)

// 上传
const (
	UploadURLPrefix = "/static/uploads"
)

// AllowedPictureExtensions 允许上传的头像扩展名
var AllowedPictureExtensions = []string{".png", ".jpg", ".jpeg", ".gif"}

// 上下文键
const (
	ContextUserID    = "userID"
	ContextRequestID = "requestID"
)

// Redis键前缀
const (
	RedisKeyFriendPair        = "friends:%d:%d"     // friends:low:high
	RedisKeyFriendPairVersion = "friends:%d:%d:ver" // 每次失效递增
	FriendCacheTTL            = 5 * time.Minute
	FriendCacheVersionTTL     = 24 * time.Hour
)

// 返回给客户端的错误信息
const (
	ErrMissingFields        = "Missing fields"
	ErrUserExists           = "User already exists"
	ErrInvalidCredentials   = "Invalid email or password"
	ErrUnauthorized         = "Missing or invalid token"
	ErrUserNotFound         = "User not found"
	ErrInvalidRequest       = "Invalid request"
	ErrAlreadyFriends       = "You are already friends"
	ErrRequestAlreadySent   = "Request already sent or exists"
	ErrReverseRequestExists = "They already sent you a request"
	ErrRequestNotFound      = "Request not found"
	ErrInvalidAction        = "Invalid action"
	ErrFriendshipNotFound   = "Friendship not found"
	ErrMissingMessageFields = "Missing required fields"
	ErrReceiverNotFound     = "Receiver not found"
	ErrMessageTooLong       = "Message content too long"
	ErrMissingUser2         = "Missing user2 ID"
	ErrNoFilePart           = "No file part"
	ErrNoSelectedFile       = "No selected file"
	ErrInvalidFileType      = "Invalid file type"
)
