package friend

import (
	"context"

	"socialhub/internal/model"
)

// Directory 身份存储提供的查询能力，好友模块只通过它读取用户
type Directory interface {
	Exists(ctx context.Context, userID uint) (bool, error)
	FindByIDs(ctx context.Context, ids []uint) (map[uint]model.User, error)
}

// SendRequestBody 发送好友请求
type SendRequestBody struct {
	ReceiverID uint `json:"receiver_id"`
}

// RespondBody 处理好友请求
type RespondBody struct {
	RequestID uint   `json:"request_id"`
	Action    string `json:"action"`
}

// IncomingRequest 收到的待处理请求
type IncomingRequest struct {
	ID             uint   `json:"id"`
	SenderID       uint   `json:"sender_id"`
	SenderUsername string `json:"sender_username"`
}

// OutgoingRequest 发出的待处理请求
type OutgoingRequest struct {
	ID               uint   `json:"id"`
	ReceiverID       uint   `json:"receiver_id"`
	ReceiverUsername string `json:"receiver_username"`
}

// FriendView 好友列表中的一项
type FriendView struct {
	ID                   uint    `json:"id"`
	Username             string  `json:"username"`
	Email                string  `json:"email"`
	ProfilePicture       *string `json:"profile_picture"`
	Bio                  *string `json:"bio"`
	Location             *string `json:"location"`
	Status               *string `json:"status"`
	FriendshipAcceptedAt *string `json:"friendship_accepted_at"`
}

// FriendPage 好友列表分页结果
type FriendPage struct {
	Friends     []FriendView `json:"friends"`
	Total       int64        `json:"total"`
	Pages       int          `json:"pages"`
	CurrentPage int          `json:"current_page"`
}

// FriendStatus 两个用户之间是否为好友
type FriendStatus struct {
	FriendID   uint `json:"friend_id"`
	AreFriends bool `json:"are_friends"`
}
