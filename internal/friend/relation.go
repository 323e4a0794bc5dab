package friend

import (
	"socialhub/internal/constants"
	"socialhub/internal/model"
)

// ClassifyRelation 根据两人之间最近的一条请求推导 viewer 视角下的关系
func ClassifyRelation(viewerID uint, latest *model.FriendRequest) string {
	if latest == nil {
		return constants.RelationNone
	}
	switch latest.Status {
	case constants.RequestStatusPending:
		if latest.SenderID == viewerID {
			return constants.RelationSent
		}
		return constants.RelationReceived
	case constants.RequestStatusAccepted:
		return constants.RelationFriends
	default:
		return constants.RelationRejected
	}
}
