package user

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"socialhub/internal/constants"
	"socialhub/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticRelations map[uint]string

func (r staticRelations) Relations(_ context.Context, _ uint, ids []uint) (map[uint]string, error) {
	out := make(map[uint]string, len(ids))
	for _, id := range ids {
		if rel, ok := r[id]; ok {
			out[id] = rel
			continue
		}
		out[id] = constants.RelationNone
	}
	return out, nil
}

type handlerFixture struct {
	router    *gin.Engine
	accounts  *AccountService
	uploadDir string
}

func newHandlerFixture(t *testing.T, relations RelationResolver) *handlerFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	accounts := newTestService(t)
	uploadDir := filepath.Join(t.TempDir(), "uploads")
	h := NewHandler(accounts, relations, uploadDir)

	r := gin.New()
	r.POST("/api/register", h.Register)
	r.POST("/api/login", h.Login)
	auth := r.Group("/api", middleware.JWT(accounts.tokens))
	auth.GET("/users", h.ListUsers)
	auth.PUT("/users/me", h.UpdateMyProfile)
	auth.POST("/users/upload-profile", h.UploadProfilePicture)

	return &handlerFixture{router: r, accounts: accounts, uploadDir: uploadDir}
}

func (f *handlerFixture) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func (f *handlerFixture) token(t *testing.T, userID uint) string {
	t.Helper()
	token, err := f.accounts.tokens.GenerateToken(userID)
	require.NoError(t, err)
	return token
}

func TestRegisterAndLoginHandlers(t *testing.T) {
	f := newHandlerFixture(t, staticRelations{})

	w := f.do(t, http.MethodPost, "/api/register", "", gin.H{"username": "alice", "email": "alice@example.com", "password": "pw"})
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.JSONEq(t, `{"message":"User registered successfully"}`, w.Body.String())

	w = f.do(t, http.MethodPost, "/api/register", "", gin.H{"username": "alice", "email": "x@example.com", "password": "pw"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"`+constants.ErrUserExists+`"}`, w.Body.String())

	w = f.do(t, http.MethodPost, "/api/register", "", gin.H{"username": "bob"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = f.do(t, http.MethodPost, "/api/login", "", gin.H{"email": "alice@example.com", "password": "pw"})
	require.Equal(t, http.StatusOK, w.Code)
	var login LoginResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &login))
	assert.NotEmpty(t, login.Token)
	assert.Equal(t, "alice", login.User.Username)

	w = f.do(t, http.MethodPost, "/api/login", "", gin.H{"email": "alice@example.com", "password": "bad"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestListUsersHandler(t *testing.T) {
	relations := staticRelations{}
	f := newHandlerFixture(t, relations)
	alice := mustRegister(t, f.accounts, "alice")
	bob := mustRegister(t, f.accounts, "bob")
	carol := mustRegister(t, f.accounts, "carol")
	relations[bob] = constants.RelationFriends

	w := f.do(t, http.MethodGet, "/api/users", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = f.do(t, http.MethodGet, "/api/users", f.token(t, alice), nil)
	require.Equal(t, http.StatusOK, w.Code)
	var entries []DirectoryEntry
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &entries))
	require.Len(t, entries, 2)
	assert.Equal(t, bob, entries[0].ID)
	assert.Equal(t, constants.RelationFriends, entries[0].FriendshipStatus)
	assert.Equal(t, carol, entries[1].ID)
	assert.Equal(t, constants.RelationNone, entries[1].FriendshipStatus)

	w = f.do(t, http.MethodGet, "/api/users?search=car", f.token(t, alice), nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &entries))
	require.Len(t, entries, 1)
	assert.Equal(t, "carol", entries[0].Username)
}

func TestUpdateMyProfileHandler(t *testing.T) {
	f := newHandlerFixture(t, staticRelations{})
	alice := mustRegister(t, f.accounts, "alice")

	w := f.do(t, http.MethodPut, "/api/users/me", f.token(t, alice), gin.H{"bio": "hi there", "status": "busy"})
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Message string          `json:"message"`
		User    ProfileResponse `json:"user"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Profile updated", body.Message)
	require.NotNil(t, body.User.Bio)
	assert.Equal(t, "hi there", *body.User.Bio)
	require.NotNil(t, body.User.Status)
	assert.Equal(t, "busy", *body.User.Status)
	assert.Nil(t, body.User.Location)

	// 显式 null 清空，未出现的键保持不变
	w = f.do(t, http.MethodPut, "/api/users/me", f.token(t, alice), gin.H{"bio": nil})
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Nil(t, body.User.Bio)
	require.NotNil(t, body.User.Status)
	assert.Equal(t, "busy", *body.User.Status)

	w = f.do(t, http.MethodPut, "/api/users/me", f.token(t, alice), gin.H{"bio": 7})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUploadProfilePictureHandler(t *testing.T) {
	f := newHandlerFixture(t, staticRelations{})
	alice := mustRegister(t, f.accounts, "alice")

	upload := func(field, filename string) *httptest.ResponseRecorder {
		var buf bytes.Buffer
		mw := multipart.NewWriter(&buf)
		part, err := mw.CreateFormFile(field, filename)
		require.NoError(t, err)
		_, err = part.Write([]byte("fake image"))
		require.NoError(t, err)
		require.NoError(t, mw.Close())

		req := httptest.NewRequest(http.MethodPost, "/api/users/upload-profile", &buf)
		req.Header.Set("Content-Type", mw.FormDataContentType())
		req.Header.Set("Authorization", "Bearer "+f.token(t, alice))
		w := httptest.NewRecorder()
		f.router.ServeHTTP(w, req)
		return w
	}

	w := upload("file", "../../me.PNG")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	expected := "user_" + strconv.Itoa(int(alice)) + "_me.PNG"
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, constants.UploadURLPrefix+"/"+expected, body["profile_picture"])

	_, err := os.Stat(filepath.Join(f.uploadDir, expected))
	assert.NoError(t, err)

	u, err := f.accounts.GetUserByID(context.Background(), alice)
	require.NoError(t, err)
	require.NotNil(t, u.ProfilePicture)
	assert.Equal(t, body["profile_picture"], *u.ProfilePicture)

	w = upload("file", "script.exe")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"`+constants.ErrInvalidFileType+`"}`, w.Body.String())

	w = upload("avatar", "me.png")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"`+constants.ErrNoFilePart+`"}`, w.Body.String())
}
