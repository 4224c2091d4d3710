package persistence

import (
	"context"

	"gorm.io/gorm"

	"github.com/balasin/balasin/internal/domain/entity"
	"github.com/balasin/balasin/internal/domain/repository"
	"github.com/balasin/balasin/internal/domain/valueobject"
	"github.com/balasin/balasin/internal/infrastructure/persistence/models"
	domainErrors "github.com/balasin/balasin/pkg/errors"
)

// GormMessageRepository GORM 实现的消息仓储
type GormMessageRepository struct {
	db *gorm.DB
}

// NewGormMessageRepository 创建 GORM 消息仓储
func NewGormMessageRepository(db *gorm.DB) repository.MessageRepository {
	return &GormMessageRepository{
		db: db,
	}
}

// Save 保存消息。messages 表只追加, 用 Create 而不是 Save。
func (r *GormMessageRepository) Save(ctx context.Context, message *entity.Message) error {
	model := r.toModel(message)

	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return domainErrors.NewPersistFailedError("failed to insert message", err)
	}

	return nil
}

// FindByConversationID 根据会话ID查找消息列表
func (r *GormMessageRepository) FindByConversationID(ctx context.Context, conversationID string, limit, offset int) ([]*entity.Message, error) {
	var rows []models.MessageModel
	err := r.db.WithContext(ctx).
		Where("conversation_id = ?", conversationID).
		Order("created_at asc").
		Limit(limit).
		Offset(offset).
		Find(&rows).Error

	if err != nil {
		return nil, domainErrors.NewStoreUnavailableError("failed to find messages", err)
	}

	messages := make([]*entity.Message, 0, len(rows))
	for i := range rows {
		messages = append(messages, r.toEntity(&rows[i]))
	}

	return messages, nil
}

// Count 统计会话中的消息数量
func (r *GormMessageRepository) Count(ctx context.Context, conversationID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.MessageModel{}).
		Where("conversation_id = ?", conversationID).
		Count(&count).Error

	if err != nil {
		return 0, domainErrors.NewStoreUnavailableError("failed to count messages", err)
	}
	return count, nil
}

// Ping 有界连通性探测 — 最多读一行, 空表也能成功
func (r *GormMessageRepository) Ping(ctx context.Context) error {
	var rows []models.MessageModel
	err := r.db.WithContext(ctx).
		Limit(1).
		Find(&rows).Error

	if err != nil {
		return domainErrors.NewStoreUnavailableError("store probe failed", err)
	}
	return nil
}

// 转换方法

func (r *GormMessageRepository) toModel(message *entity.Message) *models.MessageModel {
	return &models.MessageModel{
		ID:             message.ID(),
		ConversationID: message.ConversationID(),
		SenderID:       message.Sender().ID(),
		SenderName:     message.Sender().Name(),
		SenderType:     string(message.Sender().Type()),
		Content:        message.Content(),
		CreatedAt:      message.CreatedAt(),
	}
}

func (r *GormMessageRepository) toEntity(model *models.MessageModel) *entity.Message {
	sender := valueobject.NewSender(model.SenderID, model.SenderName, valueobject.SenderType(model.SenderType))
	return entity.ReconstructMessage(
		model.ID,
		model.ConversationID,
		model.Content,
		sender,
		model.CreatedAt,
	)
}
