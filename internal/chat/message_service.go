package chat

import (
	"context"
	"time"
	"unicode/utf8"

	"socialhub/internal/apperr"
	"socialhub/internal/constants"
	"socialhub/internal/logger"
	"socialhub/internal/model"
	"socialhub/internal/monitoring"
	"socialhub/internal/pagination"
	"socialhub/internal/sanitize"

	"gorm.io/gorm"
)

// UserChecker 校验用户是否存在
type UserChecker interface {
	Exists(ctx context.Context, userID uint) (bool, error)
}

// MessageService 私信存储，与好友关系无关
type MessageService struct {
	db    *gorm.DB
	users UserChecker
	now   func() time.Time
}

func NewMessageService(db *gorm.DB, users UserChecker) *MessageService {
	return &MessageService{
		db:    db,
		users: users,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// SendMessage 保存一条私信，时间戳由服务端生成
func (s *MessageService) SendMessage(ctx context.Context, senderID, receiverID uint, content string) (*MessageResponse, error) {
	content = sanitize.Text(content)
	if senderID == 0 || receiverID == 0 || content == "" {
		return nil, apperr.InvalidArgument(constants.ErrMissingMessageFields)
	}
	if utf8.RuneCountInString(content) > constants.MaxMessageLength {
		return nil, apperr.InvalidArgument(constants.ErrMessageTooLong)
	}

	exists, err := s.users.Exists(ctx, receiverID)
	if err != nil {
		return nil, apperr.Internal(err, "failed to look up receiver")
	}
	if !exists {
		return nil, apperr.InvalidArgument(constants.ErrReceiverNotFound)
	}

	msg := &model.Message{
		SenderID:   senderID,
		ReceiverID: receiverID,
		Content:    content,
		// 存储精度为秒，与对外格式一致
		Timestamp: s.now().Truncate(time.Second),
	}
	if err := s.db.WithContext(ctx).Create(msg).Error; err != nil {
		return nil, apperr.Internal(err, "failed to save message")
	}

	monitoring.MessagesSent.Inc()
	logger.Debug("消息已保存", "message_id", msg.ID, "sender_id", senderID, "receiver_id", receiverID)
	resp := toResponse(msg)
	return &resp, nil
}

// GetChat 分页获取两人之间的消息，任意方向，默认按时间倒序
func (s *MessageService) GetChat(ctx context.Context, q ChatQuery) (*ChatPage, error) {
	if q.UserA == 0 || q.UserB == 0 {
		return nil, apperr.InvalidArgument(constants.ErrMissingUser2)
	}
	page := pagination.New(q.Page, q.PerPage, constants.DefaultChatPerPage, constants.MaxPerPage)

	order := "timestamp DESC, id DESC"
	if q.Order == constants.OrderAsc {
		order = "timestamp ASC, id ASC"
	}

	db := s.db.WithContext(ctx)
	where := "(sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)"
	args := []interface{}{q.UserA, q.UserB, q.UserB, q.UserA}

	var total int64
	if err := db.Model(&model.Message{}).Where(where, args...).Count(&total).Error; err != nil {
		return nil, apperr.Internal(err, "failed to count messages")
	}

	var messages []model.Message
	if err := db.Where(where, args...).
		Order(order).
		Offset(page.Offset()).
		Limit(page.Limit()).
		Find(&messages).Error; err != nil {
		return nil, apperr.Internal(err, "failed to load messages")
	}

	result := page.Result(total)
	out := &ChatPage{
		Messages: make([]MessageResponse, 0, len(messages)),
		Total:    total,
		Page:     result.Page,
		PerPage:  result.PerPage,
		Pages:    result.Pages(),
		meta:     result,
	}
	for i := range messages {
		out.Messages = append(out.Messages, toResponse(&messages[i]))
	}
	return out, nil
}

// HasNext 是否存在下一页
func (p *ChatPage) HasNext() bool { return p.meta.HasNext() }

// HasPrev 是否存在上一页
func (p *ChatPage) HasPrev() bool { return p.meta.HasPrev() }

func (p *ChatPage) NextPage() int { return p.meta.NextPage() }

func (p *ChatPage) PrevPage() int { return p.meta.PrevPage() }
