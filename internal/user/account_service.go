package user

import (
	"context"
	"errors"
	"strings"

	"socialhub/internal/apperr"
	"socialhub/internal/constants"
	"socialhub/internal/logger"
	"socialhub/internal/middleware"
	"socialhub/internal/model"
	"socialhub/internal/monitoring"
	"socialhub/internal/sanitize"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// AccountService 身份存储：注册、登录、资料维护和用户查询
type AccountService struct {
	db     *gorm.DB
	tokens *middleware.TokenIssuer
}

func NewAccountService(db *gorm.DB, tokens *middleware.TokenIssuer) *AccountService {
	return &AccountService{db: db, tokens: tokens}
}

// Register 注册新用户
func (s *AccountService) Register(ctx context.Context, req *RegisterRequest) (*model.User, error) {
	username := strings.TrimSpace(req.Username)
	email := strings.TrimSpace(req.Email)
	if username == "" || email == "" || req.Password == "" {
		return nil, apperr.InvalidArgument(constants.ErrMissingFields)
	}

	db := s.db.WithContext(ctx)

	// 检查用户名或邮箱是否已存在
	var count int64
	if err := db.Model(&model.User{}).
		Where("username = ? OR email = ?", username, email).
		Count(&count).Error; err != nil {
		return nil, apperr.Internal(err, "failed to check user")
	}
	if count > 0 {
		return nil, apperr.Conflict(constants.ErrUserExists)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperr.Internal(err, "failed to hash password")
	}

	user := &model.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hashedPassword),
	}
	if err := db.Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperr.Conflict(constants.ErrUserExists)
		}
		return nil, apperr.Internal(err, "failed to create user")
	}

	monitoring.RegisterSuccess.Inc()
	logger.Info("用户注册成功", "user_id", user.ID, "username", user.Username)
	return user, nil
}

// Login 用户登录，成功时返回访问令牌
func (s *AccountService) Login(ctx context.Context, req *LoginRequest) (*LoginResponse, error) {
	if req.Email == "" || req.Password == "" {
		return nil, apperr.InvalidArgument(constants.ErrMissingFields)
	}

	var user model.User
	err := s.db.WithContext(ctx).Where("email = ?", req.Email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		monitoring.LoginFailure.WithLabelValues("unknown_email").Inc()
		return nil, apperr.Unauthenticated(constants.ErrInvalidCredentials)
	}
	if err != nil {
		return nil, apperr.Internal(err, "failed to load user")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		monitoring.LoginFailure.WithLabelValues("bad_password").Inc()
		logger.Debug("密码验证失败", "user_id", user.ID)
		return nil, apperr.Unauthenticated(constants.ErrInvalidCredentials)
	}

	token, err := s.tokens.GenerateToken(user.ID)
	if err != nil {
		return nil, apperr.Internal(err, "failed to issue token")
	}

	monitoring.LoginSuccess.Inc()
	logger.Info("用户登录成功", "user_id", user.ID)
	return &LoginResponse{
		Message: "Login successful",
		Token:   token,
		User:    toSummary(&user),
	}, nil
}

// GetUserByID 通过ID获取用户
func (s *AccountService) GetUserByID(ctx context.Context, userID uint) (*model.User, error) {
	var user model.User
	err := s.db.WithContext(ctx).First(&user, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound(constants.ErrUserNotFound)
	}
	if err != nil {
		return nil, apperr.Internal(err, "failed to load user")
	}
	return &user, nil
}

// Exists 用户是否存在
func (s *AccountService) Exists(ctx context.Context, userID uint) (bool, error) {
	if userID == 0 {
		return false, nil
	}
	var count int64
	if err := s.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", userID).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// FindByIDs 批量获取用户，不存在的ID不会出现在结果中
func (s *AccountService) FindByIDs(ctx context.Context, ids []uint) (map[uint]model.User, error) {
	result := make(map[uint]model.User, len(ids))
	if len(ids) == 0 {
		return result, nil
	}
	var users []model.User
	if err := s.db.WithContext(ctx).Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, err
	}
	for _, u := range users {
		result[u.ID] = u
	}
	return result, nil
}

// SearchUsers 列出除自己外的用户，search 对用户名和邮箱做不区分大小写的模糊匹配
func (s *AccountService) SearchUsers(ctx context.Context, viewerID uint, search string) ([]model.User, error) {
	query := s.db.WithContext(ctx).Where("id <> ?", viewerID)
	if term := strings.ToLower(strings.TrimSpace(search)); term != "" {
		like := "%" + escapeLike(term) + "%"
		query = query.Where("(LOWER(username) LIKE ? ESCAPE '!' OR LOWER(email) LIKE ? ESCAPE '!')", like, like)
	}

	var users []model.User
	if err := query.Order("id ASC").Find(&users).Error; err != nil {
		return nil, apperr.Internal(err, "failed to search users")
	}
	return users, nil
}

// UpdateProfile 更新简介、所在地和状态
func (s *AccountService) UpdateProfile(ctx context.Context, userID uint, req *UpdateProfileRequest) (*model.User, error) {
	user, err := s.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.Bio.Set {
		user.Bio = cleanField(req.Bio.Value, constants.MaxBioLength)
		updates["bio"] = user.Bio
	}
	if req.Location.Set {
		user.Location = cleanField(req.Location.Value, constants.MaxLocationLength)
		updates["location"] = user.Location
	}
	if req.Status.Set {
		user.Status = cleanField(req.Status.Value, constants.MaxStatusLength)
		updates["status"] = user.Status
	}
	if len(updates) == 0 {
		return user, nil
	}

	if err := s.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", userID).Updates(updates).Error; err != nil {
		return nil, apperr.Internal(err, "failed to update profile")
	}
	return user, nil
}

// SetProfilePicture 保存头像路径
func (s *AccountService) SetProfilePicture(ctx context.Context, userID uint, path string) error {
	if err := s.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", userID).
		Update("profile_picture", path).Error; err != nil {
		return apperr.Internal(err, "failed to save profile picture")
	}
	return nil
}

// cleanField null 或清理后为空的字段存为 NULL
func cleanField(value *string, max int) *string {
	if value == nil {
		return nil
	}
	v := sanitize.Truncate(sanitize.Text(*value), max)
	if v == "" {
		return nil
	}
	return &v
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`!`, `!!`, `%`, `!%`, `_`, `!_`)
	return r.Replace(s)
}
