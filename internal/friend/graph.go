package friend

import (
	"context"
	"errors"

	"socialhub/internal/apperr"
	"socialhub/internal/constants"
	"socialhub/internal/logger"
	"socialhub/internal/model"
	"socialhub/internal/monitoring"
	"socialhub/internal/pagination"

	"gorm.io/gorm"
)

// Graph 好友关系图，friendships 表只由它写入
type Graph struct {
	db    *gorm.DB
	users Directory
	cache Cache
}

func NewGraph(db *gorm.DB, users Directory, cache Cache) *Graph {
	if cache == nil {
		cache = nopCache{}
	}
	return &Graph{db: db, users: users, cache: cache}
}

// AreFriends 任意方向存在关系即为好友
func (g *Graph) AreFriends(ctx context.Context, a, b uint) (bool, error) {
	if a == 0 || b == 0 || a == b {
		return false, nil
	}
	friends, version, ok := g.cache.Get(ctx, a, b)
	if ok {
		return friends, nil
	}

	friends, err := edgeExists(g.db.WithContext(ctx), a, b)
	if err != nil {
		return false, apperr.Internal(err, "failed to check friendship")
	}
	// 只有读库期间没有发生失效才回填
	g.cache.Set(ctx, a, b, friends, version)
	return friends, nil
}

// ListFriends 分页列出好友；对方用户已不存在的行会被跳过，但仍计入 total
func (g *Graph) ListFriends(ctx context.Context, userID uint, page pagination.Params) (*FriendPage, error) {
	db := g.db.WithContext(ctx)

	var total int64
	if err := db.Model(&model.Friendship{}).
		Where("user_id = ? OR friend_id = ?", userID, userID).
		Count(&total).Error; err != nil {
		return nil, apperr.Internal(err, "failed to count friends")
	}

	var edges []model.Friendship
	if err := db.Where("user_id = ? OR friend_id = ?", userID, userID).
		Order("id ASC").
		Offset(page.Offset()).
		Limit(page.Limit()).
		Find(&edges).Error; err != nil {
		return nil, apperr.Internal(err, "failed to list friends")
	}

	result := page.Result(total)
	out := &FriendPage{
		Friends:     make([]FriendView, 0, len(edges)),
		Total:       total,
		Pages:       result.Pages(),
		CurrentPage: result.Page,
	}
	if len(edges) == 0 {
		return out, nil
	}

	friendIDs := make([]uint, 0, len(edges))
	requestIDs := make([]uint, 0, len(edges))
	for i := range edges {
		friendIDs = append(friendIDs, edges[i].Other(userID))
		requestIDs = append(requestIDs, edges[i].FriendRequestID)
	}

	users, err := g.users.FindByIDs(ctx, friendIDs)
	if err != nil {
		return nil, apperr.Internal(err, "failed to load friends")
	}

	var requests []model.FriendRequest
	if err := db.Where("id IN ?", requestIDs).Find(&requests).Error; err != nil {
		return nil, apperr.Internal(err, "failed to load friend requests")
	}
	acceptedAt := make(map[uint]*string, len(requests))
	for i := range requests {
		if requests[i].AcceptedAt != nil {
			s := requests[i].AcceptedAt.UTC().Format(constants.FriendshipTimeLayout)
			acceptedAt[requests[i].ID] = &s
		}
	}

	for i := range edges {
		u, ok := users[edges[i].Other(userID)]
		if !ok {
			continue
		}
		out.Friends = append(out.Friends, FriendView{
			ID:                   u.ID,
			Username:             u.Username,
			Email:                u.Email,
			ProfilePicture:       u.ProfilePicture,
			Bio:                  u.Bio,
			Location:             u.Location,
			Status:               u.Status,
			FriendshipAcceptedAt: acceptedAt[edges[i].FriendRequestID],
		})
	}
	return out, nil
}

// Unfriend 在同一事务中删除已接受的请求记录和对应的关系行
func (g *Graph) Unfriend(ctx context.Context, userID, friendID uint) error {
	err := g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var req model.FriendRequest
		err := tx.Where("status = ? AND ((sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?))",
			constants.RequestStatusAccepted, userID, friendID, friendID, userID).
			Order("id DESC").
			First(&req).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound(constants.ErrFriendshipNotFound)
		}
		if err != nil {
			return apperr.Internal(err, "failed to find friendship")
		}

		res := tx.Delete(&req)
		if res.Error != nil {
			return apperr.Internal(res.Error, "failed to delete friend request")
		}
		// 并发的另一次解除已经删掉了这条记录
		if res.RowsAffected == 0 {
			return apperr.NotFound(constants.ErrFriendshipNotFound)
		}

		return removeEdge(tx, userID, friendID)
	})
	if err != nil {
		return err
	}

	g.cache.Invalidate(context.WithoutCancel(ctx), userID, friendID)
	monitoring.Unfriended.Inc()
	logger.Info("解除好友关系", "user_id", userID, "friend_id", friendID)
	return nil
}

func edgeExists(tx *gorm.DB, a, b uint) (bool, error) {
	low, high := model.OrderedPair(a, b)
	var count int64
	err := tx.Model(&model.Friendship{}).
		Where("pair_low = ? AND pair_high = ?", low, high).
		Count(&count).Error
	return count > 0, err
}

// addEdge 只能在接受请求的事务中调用
func addEdge(tx *gorm.DB, req *model.FriendRequest) error {
	low, high := model.OrderedPair(req.SenderID, req.ReceiverID)
	edge := &model.Friendship{
		UserID:          req.SenderID,
		FriendID:        req.ReceiverID,
		PairLow:         low,
		PairHigh:        high,
		FriendRequestID: req.ID,
	}
	if err := tx.Create(edge).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return apperr.Conflict(constants.ErrAlreadyFriends)
		}
		return apperr.Internal(err, "failed to create friendship")
	}
	return nil
}

func removeEdge(tx *gorm.DB, a, b uint) error {
	low, high := model.OrderedPair(a, b)
	if err := tx.Where("pair_low = ? AND pair_high = ?", low, high).
		Delete(&model.Friendship{}).Error; err != nil {
		return apperr.Internal(err, "failed to delete friendship")
	}
	return nil
}
