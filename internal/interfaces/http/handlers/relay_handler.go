package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/balasin/balasin/internal/application/usecase"
	appErrors "github.com/balasin/balasin/pkg/errors"
)

// RelayHandler 接收客户应用推来的新消息
type RelayHandler struct {
	relayUC *usecase.RelayMessageUseCase
	logger  *zap.Logger
}

// NewRelayHandler 创建转发处理器
func NewRelayHandler(relayUC *usecase.RelayMessageUseCase, logger *zap.Logger) *RelayHandler {
	return &RelayHandler{
		relayUC: relayUC,
		logger:  logger,
	}
}

// NewMessageRequest POST /api/new-message 请求体
type NewMessageRequest struct {
	ConversationID string   `json:"conversationId"`
	UserID         string   `json:"userId"`
	MessageID      string   `json:"messageId"`
	MessageContent string   `json:"messageContent"`
	Timestamp      FlexTime `json:"timestamp"`
	UserInfo       string   `json:"userInfo"`
}

// NewMessage 处理入站客户消息
func (h *RelayHandler) NewMessage(c *gin.Context) {
	var req NewMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	_, err := h.relayUC.Execute(c.Request.Context(), usecase.RelayRequest{
		ConversationID: req.ConversationID,
		UserID:         req.UserID,
		MessageID:      req.MessageID,
		Content:        req.MessageContent,
		UserInfo:       req.UserInfo,
		SentAt:         req.Timestamp.Time,
	})
	if err != nil {
		status, body := mapRelayError(err)
		c.JSON(status, body)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Message relayed to support channel."})
}

// mapRelayError 错误码 → HTTP 状态
func mapRelayError(err error) (int, gin.H) {
	switch appErrors.CodeOf(err) {
	case appErrors.CodeInvalidInput:
		return http.StatusBadRequest, gin.H{"error": errMessage(err)}
	case appErrors.CodeChannelUnavailable:
		return http.StatusInternalServerError, gin.H{"error": "support channel not found"}
	case appErrors.CodeDeliveryFailed:
		return http.StatusInternalServerError, gin.H{"error": "failed to deliver message to support channel"}
	default:
		return http.StatusInternalServerError, gin.H{"error": "internal error"}
	}
}

// errMessage 取 AppError 的展示文案
func errMessage(err error) string {
	var appErr *appErrors.AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return err.Error()
}
