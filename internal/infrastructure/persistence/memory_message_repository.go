package persistence

import (
	"context"
	"sync"

	"github.com/balasin/balasin/internal/domain/entity"
	"github.com/balasin/balasin/internal/domain/repository"
)

// MemoryMessageRepository 内存实现的消息仓储, 用于本地开发和测试
type MemoryMessageRepository struct {
	mu       sync.RWMutex
	messages []*entity.Message
}

// NewMemoryMessageRepository 创建内存消息仓储
func NewMemoryMessageRepository() repository.MessageRepository {
	return &MemoryMessageRepository{}
}

// Save 保存消息
func (r *MemoryMessageRepository) Save(ctx context.Context, message *entity.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, message)
	return nil
}

// FindByConversationID 根据会话ID查找消息列表
func (r *MemoryMessageRepository) FindByConversationID(ctx context.Context, conversationID string, limit, offset int) ([]*entity.Message, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []*entity.Message
	skipped := 0
	for _, m := range r.messages {
		if m.ConversationID() != conversationID {
			continue
		}
		if skipped < offset {
			skipped++
			continue
		}
		result = append(result, m)
		if limit > 0 && len(result) >= limit {
			break
		}
	}
	return result, nil
}

// Count 统计会话中的消息数量
func (r *MemoryMessageRepository) Count(ctx context.Context, conversationID string) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var count int64
	for _, m := range r.messages {
		if m.ConversationID() == conversationID {
			count++
		}
	}
	return count, nil
}

// Ping 内存实现永远可达
func (r *MemoryMessageRepository) Ping(ctx context.Context) error {
	return nil
}
