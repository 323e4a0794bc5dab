package user

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path"
	"path/filepath"

	"socialhub/internal/apperr"
	"socialhub/internal/constants"
	"socialhub/internal/middleware"
	"socialhub/internal/response"
	"socialhub/internal/sanitize"

	"github.com/gin-gonic/gin"
)

// RelationResolver 计算当前用户与其他用户之间的好友关系
type RelationResolver interface {
	Relations(ctx context.Context, viewerID uint, candidateIDs []uint) (map[uint]string, error)
}

// Handler 账户与用户资料相关的 HTTP 接口
type Handler struct {
	accounts  *AccountService
	relations RelationResolver
	uploadDir string
}

func NewHandler(accounts *AccountService, relations RelationResolver, uploadDir string) *Handler {
	return &Handler{accounts: accounts, relations: relations, uploadDir: uploadDir}
}

// Register POST /api/register
func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperr.InvalidArgument(constants.ErrMissingFields))
		return
	}

	if _, err := h.accounts.Register(c.Request.Context(), &req); err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "User registered successfully"})
}

// Login POST /api/login
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperr.InvalidArgument(constants.ErrMissingFields))
		return
	}

	resp, err := h.accounts.Login(c.Request.Context(), &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ListUsers GET /api/users?search=
func (h *Handler) ListUsers(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		response.Error(c, apperr.Unauthenticated(constants.ErrUnauthorized))
		return
	}

	users, err := h.accounts.SearchUsers(c.Request.Context(), userID, c.Query("search"))
	if err != nil {
		response.Error(c, err)
		return
	}

	ids := make([]uint, 0, len(users))
	for _, u := range users {
		ids = append(ids, u.ID)
	}
	relations, err := h.relations.Relations(c.Request.Context(), userID, ids)
	if err != nil {
		response.Error(c, err)
		return
	}

	result := make([]DirectoryEntry, 0, len(users))
	for _, u := range users {
		result = append(result, DirectoryEntry{
			ID:               u.ID,
			Username:         u.Username,
			Email:            u.Email,
			ProfilePicture:   u.ProfilePicture,
			FriendshipStatus: relations[u.ID],
		})
	}
	c.JSON(http.StatusOK, result)
}

// UpdateMyProfile PUT /api/users/me
func (h *Handler) UpdateMyProfile(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		response.Error(c, apperr.Unauthenticated(constants.ErrUnauthorized))
		return
	}

	var req UpdateProfileRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Error(c, apperr.InvalidArgument(constants.ErrInvalidRequest))
			return
		}
	}

	user, err := h.accounts.UpdateProfile(c.Request.Context(), userID, &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Profile updated",
		"user":    toProfile(user),
	})
}

// UploadProfilePicture POST /api/users/upload-profile
func (h *Handler) UploadProfilePicture(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		response.Error(c, apperr.Unauthenticated(constants.ErrUnauthorized))
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		response.Error(c, apperr.InvalidArgument(constants.ErrNoFilePart))
		return
	}
	if file.Filename == "" {
		response.Error(c, apperr.InvalidArgument(constants.ErrNoSelectedFile))
		return
	}

	safeName := sanitize.Filename(file.Filename)
	if safeName == "" || !sanitize.HasExtension(safeName, constants.AllowedPictureExtensions) {
		response.Error(c, apperr.InvalidArgument(constants.ErrInvalidFileType))
		return
	}

	filename := fmt.Sprintf("user_%d_%s", userID, safeName)
	if err := os.MkdirAll(h.uploadDir, 0o755); err != nil {
		response.Error(c, apperr.Internal(err, "failed to prepare upload directory"))
		return
	}
	if err := c.SaveUploadedFile(file, filepath.Join(h.uploadDir, filename)); err != nil {
		response.Error(c, apperr.Internal(err, "failed to save upload"))
		return
	}

	picture := path.Join(constants.UploadURLPrefix, filename)
	if err := h.accounts.SetProfilePicture(c.Request.Context(), userID, picture); err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":         "Profile picture uploaded successfully",
		"profile_picture": picture,
	})
}
