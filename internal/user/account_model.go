package user

import (
	"bytes"
	"encoding/json"

	"socialhub/internal/model"
)

// RegisterRequest 注册请求
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest 登录请求
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UpdateProfileRequest 更新个人资料，未提供的字段保持不变，显式 null 清空字段
type UpdateProfileRequest struct {
	Bio      ProfileField `json:"bio"`
	Location ProfileField `json:"location"`
	Status   ProfileField `json:"status"`
}

// ProfileField 区分未提供的键和显式 null
type ProfileField struct {
	Set   bool
	Value *string
}

// FieldValue 设置为给定字符串
func FieldValue(v string) ProfileField {
	return ProfileField{Set: true, Value: &v}
}

// FieldNull 显式清空
func FieldNull() ProfileField {
	return ProfileField{Set: true}
}

// UnmarshalJSON 只有请求中出现该键时才会被调用
func (f *ProfileField) UnmarshalJSON(data []byte) error {
	f.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		f.Value = nil
		return nil
	}
	var v string
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	f.Value = &v
	return nil
}

// LoginResponse 登录响应
type LoginResponse struct {
	Message string      `json:"message"`
	Token   string      `json:"token"`
	User    UserSummary `json:"user"`
}

// UserSummary 登录时返回的用户信息
type UserSummary struct {
	ID             uint    `json:"id"`
	Username       string  `json:"username"`
	Email          string  `json:"email"`
	ProfilePicture *string `json:"profile_picture"`
}

// ProfileResponse 个人资料
type ProfileResponse struct {
	ID             uint    `json:"id"`
	Username       string  `json:"username"`
	Email          string  `json:"email"`
	Bio            *string `json:"bio"`
	Location       *string `json:"location"`
	Status         *string `json:"status"`
	ProfilePicture *string `json:"profile_picture"`
}

// DirectoryEntry 用户列表中的一项，附带与当前用户的关系
type DirectoryEntry struct {
	ID               uint    `json:"id"`
	Username         string  `json:"username"`
	Email            string  `json:"email"`
	ProfilePicture   *string `json:"profile_picture"`
	FriendshipStatus string  `json:"friendship_status"`
}

func toSummary(u *model.User) UserSummary {
	return UserSummary{
		ID:             u.ID,
		Username:       u.Username,
		Email:          u.Email,
		ProfilePicture: u.ProfilePicture,
	}
}

func toProfile(u *model.User) ProfileResponse {
	return ProfileResponse{
		ID:             u.ID,
		Username:       u.Username,
		Email:          u.Email,
		Bio:            u.Bio,
		Location:       u.Location,
		Status:         u.Status,
		ProfilePicture: u.ProfilePicture,
	}
}
