package models

import "time"

// MessageModel 数据库消息模型 — 追加写日志, 没有软删除
type MessageModel struct {
	ID             string `gorm:"primaryKey;size:64"`
	ConversationID string `gorm:"index;size:64;not null"`
	SenderID       string `gorm:"size:64;not null"`
	SenderName     string `gorm:"size:64"`
	SenderType     string `gorm:"size:32;not null"` // customer, support_agent
	Content        string `gorm:"type:text;not null"`
	CreatedAt      time.Time
}

// TableName 指定表名
func (MessageModel) TableName() string {
	return "messages"
}
