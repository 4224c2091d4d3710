package usecase

import (
	"time"

	"go.uber.org/zap"

	"github.com/balasin/balasin/internal/domain/conversation"
)

// CloseConversationUseCase removes a conversation from the active index.
// Closing only forgets the index entry; persisted messages are untouched.
type CloseConversationUseCase struct {
	index  *conversation.Index
	events EventPublisher
	logger *zap.Logger
}

// NewCloseConversationUseCase creates the close use-case.
func NewCloseConversationUseCase(index *conversation.Index, events EventPublisher, logger *zap.Logger) *CloseConversationUseCase {
	if events == nil {
		events = NopPublisher{}
	}
	return &CloseConversationUseCase{
		index:  index,
		events: events,
		logger: logger,
	}
}

// Execute removes the entry, reporting whether it existed. Idempotent.
func (uc *CloseConversationUseCase) Execute(conversationID, closedBy string) bool {
	existed := uc.index.Remove(conversationID)

	uc.events.Publish(Event{
		Type:           EventTypeClose,
		ConversationID: conversationID,
		SenderID:       closedBy,
		Timestamp:      time.Now(),
	})

	uc.logger.Info("Conversation closed",
		zap.String("conversation_id", conversationID),
		zap.String("closed_by", closedBy),
		zap.Bool("existed", existed),
	)

	return existed
}
