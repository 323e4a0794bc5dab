package friend

import (
	"context"
	"errors"
	"time"

	"socialhub/internal/apperr"
	"socialhub/internal/constants"
	"socialhub/internal/logger"
	"socialhub/internal/model"
	"socialhub/internal/monitoring"

	"gorm.io/gorm"
)

// RequestService 管理好友请求的生命周期 pending -> accepted/rejected
type RequestService struct {
	db    *gorm.DB
	users Directory
	graph *Graph
	now   func() time.Time
}

func NewRequestService(db *gorm.DB, users Directory, graph *Graph) *RequestService {
	return &RequestService{
		db:    db,
		users: users,
		graph: graph,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// SendRequest 发送好友请求。对方已经向自己发出待处理请求时同样拒绝，不会自动接受
func (s *RequestService) SendRequest(ctx context.Context, senderID, receiverID uint) (*model.FriendRequest, error) {
	if receiverID == 0 || senderID == receiverID {
		return nil, apperr.InvalidArgument(constants.ErrInvalidRequest)
	}

	exists, err := s.users.Exists(ctx, receiverID)
	if err != nil {
		return nil, apperr.Internal(err, "failed to look up receiver")
	}
	if !exists {
		return nil, apperr.InvalidArgument(constants.ErrInvalidRequest)
	}

	pendingKey := model.PairKey(senderID, receiverID)
	req := &model.FriendRequest{
		SenderID:   senderID,
		ReceiverID: receiverID,
		Status:     constants.RequestStatusPending,
		PendingKey: &pendingKey,
		CreatedAt:  s.now(),
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		linked, err := edgeExists(tx, senderID, receiverID)
		if err != nil {
			return apperr.Internal(err, "failed to check friendship")
		}
		if linked {
			return apperr.Conflict(constants.ErrAlreadyFriends)
		}

		var pending []model.FriendRequest
		if err := tx.Where("pending_key = ?", pendingKey).Limit(1).Find(&pending).Error; err != nil {
			return apperr.Internal(err, "failed to check pending requests")
		}
		if len(pending) > 0 {
			if pending[0].SenderID == senderID {
				return apperr.Conflict(constants.ErrRequestAlreadySent)
			}
			return apperr.Conflict(constants.ErrReverseRequestExists)
		}

		if err := tx.Create(req).Error; err != nil {
			// 并发发送时由唯一索引兜底
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return apperr.Conflict(constants.ErrRequestAlreadySent)
			}
			return apperr.Internal(err, "failed to create friend request")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	monitoring.FriendRequestsSent.Inc()
	logger.Info("好友请求已发送", "request_id", req.ID, "sender_id", senderID, "receiver_id", receiverID)
	return req, nil
}

// ListIncoming 列出发给 receiverID 的待处理请求，按创建顺序
func (s *RequestService) ListIncoming(ctx context.Context, receiverID uint) ([]IncomingRequest, error) {
	var requests []model.FriendRequest
	if err := s.db.WithContext(ctx).
		Where("receiver_id = ? AND status = ?", receiverID, constants.RequestStatusPending).
		Order("id ASC").
		Find(&requests).Error; err != nil {
		return nil, apperr.Internal(err, "failed to list friend requests")
	}

	senderIDs := make([]uint, 0, len(requests))
	for i := range requests {
		senderIDs = append(senderIDs, requests[i].SenderID)
	}
	users, err := s.lookup(ctx, senderIDs)
	if err != nil {
		return nil, err
	}

	result := make([]IncomingRequest, 0, len(requests))
	for i := range requests {
		sender, ok := users[requests[i].SenderID]
		if !ok {
			continue
		}
		result = append(result, IncomingRequest{
			ID:             requests[i].ID,
			SenderID:       sender.ID,
			SenderUsername: sender.Username,
		})
	}
	return result, nil
}

// ListOutgoing 列出 senderID 发出且尚未处理的请求
func (s *RequestService) ListOutgoing(ctx context.Context, senderID uint) ([]OutgoingRequest, error) {
	var requests []model.FriendRequest
	if err := s.db.WithContext(ctx).
		Where("sender_id = ? AND status = ?", senderID, constants.RequestStatusPending).
		Order("id ASC").
		Find(&requests).Error; err != nil {
		return nil, apperr.Internal(err, "failed to list sent requests")
	}

	receiverIDs := make([]uint, 0, len(requests))
	for i := range requests {
		receiverIDs = append(receiverIDs, requests[i].ReceiverID)
	}
	users, err := s.lookup(ctx, receiverIDs)
	if err != nil {
		return nil, err
	}

	result := make([]OutgoingRequest, 0, len(requests))
	for i := range requests {
		receiver, ok := users[requests[i].ReceiverID]
		if !ok {
			continue
		}
		result = append(result, OutgoingRequest{
			ID:               requests[i].ID,
			ReceiverID:       receiver.ID,
			ReceiverUsername: receiver.Username,
		})
	}
	return result, nil
}

// Respond 接受或拒绝请求。请求不存在、不是发给 responderID 或已处理，统一返回 NotFound
func (s *RequestService) Respond(ctx context.Context, responderID, requestID uint, action string) (*model.FriendRequest, error) {
	var req model.FriendRequest

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.First(&req, requestID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound(constants.ErrRequestNotFound)
		}
		if err != nil {
			return apperr.Internal(err, "failed to load friend request")
		}
		if req.ReceiverID != responderID || req.Status != constants.RequestStatusPending {
			return apperr.NotFound(constants.ErrRequestNotFound)
		}

		updates := map[string]interface{}{"pending_key": nil}
		switch action {
		case constants.ActionAccept:
			now := s.now()
			req.Status = constants.RequestStatusAccepted
			req.AcceptedAt = &now
			updates["status"] = req.Status
			updates["accepted_at"] = now
		case constants.ActionReject:
			req.Status = constants.RequestStatusRejected
			updates["status"] = req.Status
		default:
			return apperr.InvalidArgument(constants.ErrInvalidAction)
		}

		// 只有仍处于 pending 的请求才会被更新，并发处理时后到者影响 0 行
		res := tx.Model(&model.FriendRequest{}).
			Where("id = ? AND status = ?", req.ID, constants.RequestStatusPending).
			Updates(updates)
		if res.Error != nil {
			return apperr.Internal(res.Error, "failed to update friend request")
		}
		if res.RowsAffected == 0 {
			return apperr.NotFound(constants.ErrRequestNotFound)
		}
		req.PendingKey = nil

		if action == constants.ActionAccept {
			return addEdge(tx, &req)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if action == constants.ActionAccept {
		s.graph.cache.Invalidate(context.WithoutCancel(ctx), req.SenderID, req.ReceiverID)
	}
	monitoring.FriendRequestsResolved.WithLabelValues(action).Inc()
	logger.Info("好友请求已处理", "request_id", req.ID, "action", action, "responder_id", responderID)
	return &req, nil
}

// Relations 计算 viewerID 与每个候选用户之间的关系
func (s *RequestService) Relations(ctx context.Context, viewerID uint, candidateIDs []uint) (map[uint]string, error) {
	result := make(map[uint]string, len(candidateIDs))
	if len(candidateIDs) == 0 {
		return result, nil
	}

	var requests []model.FriendRequest
	if err := s.db.WithContext(ctx).
		Where("(sender_id = ? AND receiver_id IN ?) OR (receiver_id = ? AND sender_id IN ?)",
			viewerID, candidateIDs, viewerID, candidateIDs).
		Order("id ASC").
		Find(&requests).Error; err != nil {
		return nil, apperr.Internal(err, "failed to load friend requests")
	}

	// 按 id 升序遍历，最后写入的就是最近的一条
	latest := make(map[uint]*model.FriendRequest, len(requests))
	for i := range requests {
		other := requests[i].SenderID
		if other == viewerID {
			other = requests[i].ReceiverID
		}
		latest[other] = &requests[i]
	}

	for _, id := range candidateIDs {
		result[id] = ClassifyRelation(viewerID, latest[id])
	}
	return result, nil
}

func (s *RequestService) lookup(ctx context.Context, ids []uint) (map[uint]model.User, error) {
	if len(ids) == 0 {
		return map[uint]model.User{}, nil
	}
	users, err := s.users.FindByIDs(ctx, ids)
	if err != nil {
		return nil, apperr.Internal(err, "failed to load users")
	}
	return users, nil
}
