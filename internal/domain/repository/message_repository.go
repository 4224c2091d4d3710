package repository

import (
	"context"

	"github.com/balasin/balasin/internal/domain/entity"
)

// MessageRepository 消息仓储接口
type MessageRepository interface {
	// Save 保存消息（追加写）
	Save(ctx context.Context, message *entity.Message) error

	// FindByConversationID 根据会话ID查找消息列表
	FindByConversationID(ctx context.Context, conversationID string, limit, offset int) ([]*entity.Message, error)

	// Count 统计会话中的消息数量
	Count(ctx context.Context, conversationID string) (int64, error)

	// Ping 有界连通性探测（读一行, 不依赖表内有数据）
	Ping(ctx context.Context) error
}
