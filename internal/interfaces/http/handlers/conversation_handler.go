package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/balasin/balasin/internal/domain/conversation"
)

// ConversationHandler 暴露活跃会话快照给前端
type ConversationHandler struct {
	index *conversation.Index
}

// NewConversationHandler 创建会话处理器
func NewConversationHandler(index *conversation.Index) *ConversationHandler {
	return &ConversationHandler{index: index}
}

// ConversationView 会话快照的 JSON 形状
type ConversationView struct {
	ConversationID  string    `json:"conversationId"`
	UserID          string    `json:"userId"`
	RelayMessageRef int       `json:"relayMessageRef"`
	CreatedAt       time.Time `json:"createdAt"`
	LastActivityAt  time.Time `json:"lastActivityAt"`
	IdleMinutes     int       `json:"idleMinutes"`
}

// ListActive GET /api/conversations
func (h *ConversationHandler) ListActive(c *gin.Context) {
	snapshots := h.index.List(time.Now())

	views := make([]ConversationView, 0, len(snapshots))
	for _, s := range snapshots {
		views = append(views, ConversationView{
			ConversationID:  s.ConversationID,
			UserID:          s.UserID,
			RelayMessageRef: s.RelayMessageRef,
			CreatedAt:       s.CreatedAt,
			LastActivityAt:  s.LastActivityAt,
			IdleMinutes:     s.IdleMinutes,
		})
	}

	c.JSON(http.StatusOK, gin.H{"conversations": views})
}
