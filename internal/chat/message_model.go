package chat

import (
	"socialhub/internal/constants"
	"socialhub/internal/pagination"
	"socialhub/internal/model"
)

// SendMessageRequest 发送私信
type SendMessageRequest struct {
	ReceiverID uint   `json:"receiver_id"`
	Content    string `json:"content"`
}

// MessageResponse 私信
type MessageResponse struct {
	ID         uint   `json:"id"`
	SenderID   uint   `json:"sender_id"`
	ReceiverID uint   `json:"receiver_id"`
	Content    string `json:"content"`
	Timestamp  string `json:"timestamp"`
}

// ChatQuery 查询两人之间的聊天记录
type ChatQuery struct {
	UserA   uint
	UserB   uint
	Page    int
	PerPage int
	Order   string
}

// ChatPage 聊天记录分页结果，Next/Prev 由 HTTP 层填充
type ChatPage struct {
	Messages []MessageResponse `json:"messages"`
	Total    int64             `json:"total"`
	Page     int               `json:"page"`
	PerPage  int               `json:"per_page"`
	Pages    int               `json:"pages"`
	Next     *string           `json:"next"`
	Prev     *string           `json:"prev"`

	meta pagination.Result
}

func toResponse(m *model.Message) MessageResponse {
	return MessageResponse{
		ID:         m.ID,
		SenderID:   m.SenderID,
		ReceiverID: m.ReceiverID,
		Content:    m.Content,
		Timestamp:  m.Timestamp.UTC().Format(constants.MessageTimeLayout),
	}
}
