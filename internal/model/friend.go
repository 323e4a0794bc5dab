package model

import (
	"fmt"
	"time"
)

// FriendRequest 好友请求，作为历史记录保留
type FriendRequest struct {
	ID         uint   `gorm:"primaryKey"`
	SenderID   uint   `gorm:"not null;index:idx_request_sender_receiver"`
	ReceiverID uint   `gorm:"not null;index:idx_request_sender_receiver;index:idx_request_receiver_status"`
	Status     string `gorm:"type:varchar(20);not null;default:'pending';index:idx_request_receiver_status"`
	// PendingKey 仅在 pending 状态下非空，唯一索引保证同一对用户最多一个待处理请求
	PendingKey *string `gorm:"type:varchar(64);uniqueIndex"`
	CreatedAt  time.Time
	AcceptedAt *time.Time
}

// Friendship 好友关系，一对用户只存一行，UserID 为最初的请求发送者
type Friendship struct {
	ID       uint `gorm:"primaryKey"`
	UserID   uint `gorm:"not null;uniqueIndex:idx_friendship_user_friend"`
	FriendID uint `gorm:"not null;uniqueIndex:idx_friendship_user_friend;index"`
	// PairLow/PairHigh 是无序对的规范形式，保证两个方向不会同时存在
	PairLow         uint `gorm:"not null;uniqueIndex:idx_friendship_pair"`
	PairHigh        uint `gorm:"not null;uniqueIndex:idx_friendship_pair"`
	FriendRequestID uint `gorm:"not null;index"`
	CreatedAt       time.Time
}

// TableName 指定表名
func (Friendship) TableName() string {
	return "friendships"
}

// OrderedPair 返回 (较小, 较大)
func OrderedPair(a, b uint) (uint, uint) {
	if a > b {
		return b, a
	}
	return a, b
}

// PairKey 无序对的字符串键
func PairKey(a, b uint) string {
	low, high := OrderedPair(a, b)
	return fmt.Sprintf("%d:%d", low, high)
}

// Other 返回关系中除 userID 以外的另一方
func (f *Friendship) Other(userID uint) uint {
	if f.UserID == userID {
		return f.FriendID
	}
	return f.UserID
}
