package chat

import (
	"net/http"
	"net/url"
	"strconv"

	"socialhub/internal/apperr"
	"socialhub/internal/constants"
	"socialhub/internal/middleware"
	"socialhub/internal/pagination"
	"socialhub/internal/response"

	"github.com/gin-gonic/gin"
)

// Handler 私信相关的 HTTP 接口
type Handler struct {
	messages *MessageService
}

func NewHandler(messages *MessageService) *Handler {
	return &Handler{messages: messages}
}

// SendMessage POST /api/messages/send
func (h *Handler) SendMessage(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		response.Error(c, apperr.Unauthenticated(constants.ErrUnauthorized))
		return
	}

	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperr.InvalidArgument(constants.ErrMissingMessageFields))
		return
	}

	msg, err := h.messages.SendMessage(c.Request.Context(), userID, req.ReceiverID, req.Content)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, msg)
}

// GetChat GET /api/messages/chat?user2&page&per_page&order
func (h *Handler) GetChat(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		response.Error(c, apperr.Unauthenticated(constants.ErrUnauthorized))
		return
	}

	otherID, err := strconv.ParseUint(c.Query("user2"), 10, 64)
	if err != nil || otherID == 0 {
		response.Error(c, apperr.InvalidArgument(constants.ErrMissingUser2))
		return
	}

	order := c.DefaultQuery("order", constants.OrderDesc)
	page := pagination.Parse(c.Query("page"), c.Query("per_page"), constants.DefaultChatPerPage, constants.MaxPerPage)

	result, err := h.messages.GetChat(c.Request.Context(), ChatQuery{
		UserA:   userID,
		UserB:   uint(otherID),
		Page:    page.Page,
		PerPage: page.PerPage,
		Order:   order,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	if result.HasNext() {
		next := chatURL(c, otherID, result.NextPage(), result.PerPage, order)
		result.Next = &next
	}
	if result.HasPrev() {
		prev := chatURL(c, otherID, result.PrevPage(), result.PerPage, order)
		result.Prev = &prev
	}
	c.JSON(http.StatusOK, result)
}

// chatURL 生成相邻页的绝对地址
func chatURL(c *gin.Context, otherID uint64, page, perPage int, order string) string {
	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	if proto := c.GetHeader("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	}

	q := url.Values{}
	q.Set("user2", strconv.FormatUint(otherID, 10))
	q.Set("page", strconv.Itoa(page))
	q.Set("per_page", strconv.Itoa(perPage))
	q.Set("order", order)

	u := url.URL{
		Scheme:   scheme,
		Host:     c.Request.Host,
		Path:     c.Request.URL.Path,
		RawQuery: q.Encode(),
	}
	return u.String()
}
