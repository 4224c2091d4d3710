package entity

import (
	"time"

	"github.com/balasin/balasin/internal/domain/valueobject"
)

// Message 消息实体 — messages 表的一行, 追加写, 永不修改
type Message struct {
	id             string
	conversationID string
	content        string
	sender         valueobject.Sender
	createdAt      time.Time
}

// NewMessage 创建新消息（工厂方法）
func NewMessage(
	id string,
	conversationID string,
	content string,
	sender valueobject.Sender,
	createdAt time.Time,
) (*Message, error) {
	if conversationID == "" {
		return nil, ErrInvalidConversationID
	}
	if sender.ID() == "" {
		return nil, ErrInvalidSenderID
	}
	if content == "" {
		return nil, ErrEmptyContent
	}

	return &Message{
		id:             id,
		conversationID: conversationID,
		content:        content,
		sender:         sender,
		createdAt:      createdAt,
	}, nil
}

// ReconstructMessage 重建消息（用于从持久化层恢复）
func ReconstructMessage(
	id string,
	conversationID string,
	content string,
	sender valueobject.Sender,
	createdAt time.Time,
) *Message {
	return &Message{
		id:             id,
		conversationID: conversationID,
		content:        content,
		sender:         sender,
		createdAt:      createdAt,
	}
}

// ID 返回消息ID
func (m *Message) ID() string {
	return m.id
}

// ConversationID 返回会话ID
func (m *Message) ConversationID() string {
	return m.conversationID
}

// Content 返回消息内容
func (m *Message) Content() string {
	return m.content
}

// Sender 返回发送者
func (m *Message) Sender() valueobject.Sender {
	return m.sender
}

// CreatedAt 返回创建时间
func (m *Message) CreatedAt() time.Time {
	return m.createdAt
}

// IsFromCustomer 判断是否来自客户（业务规则）
func (m *Message) IsFromCustomer() bool {
	return m.sender.IsCustomer()
}

// IsFromSupportAgent 判断是否来自客服（业务规则）
func (m *Message) IsFromSupportAgent() bool {
	return m.sender.IsSupportAgent()
}
