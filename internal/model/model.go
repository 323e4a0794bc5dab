package model

import (
	"time"

	"gorm.io/gorm"
)

// User 用户模型，由身份存储独占写入
type User struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	Username       string    `gorm:"type:varchar(120);uniqueIndex;not null" json:"username"`
	Email          string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	PasswordHash   string    `gorm:"type:varchar(255);not null" json:"-"`
	ProfilePicture *string   `gorm:"type:varchar(255)" json:"profile_picture"`
	Bio            *string   `gorm:"type:varchar(300)" json:"bio"`
	Location       *string   `gorm:"type:varchar(100)" json:"location"`
	Status         *string   `gorm:"type:varchar(50)" json:"status"`
	CreatedAt      time.Time `json:"created_at"`
}

// Message 私信，创建后不可修改
type Message struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	SenderID   uint      `gorm:"not null;index:idx_message_pair" json:"sender_id"`
	ReceiverID uint      `gorm:"not null;index:idx_message_pair" json:"receiver_id"`
	Content    string    `gorm:"type:varchar(1000);not null" json:"content"`
	Timestamp  time.Time `gorm:"not null;index" json:"timestamp"`
}

// SetupDatabase 初始化数据库表结构
func SetupDatabase(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&FriendRequest{},
		&Friendship{},
		&Message{},
	)
}
