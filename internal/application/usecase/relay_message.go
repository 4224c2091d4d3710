package usecase

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/balasin/balasin/internal/domain/conversation"
	appErrors "github.com/balasin/balasin/pkg/errors"
)

// RelayMessageUseCase forwards a customer message from the HTTP boundary
// into the support channel and records the conversation in the index.
type RelayMessageUseCase struct {
	deliverer ChannelDeliverer
	index     *conversation.Index
	events    EventPublisher
	logger    *zap.Logger
}

// NewRelayMessageUseCase creates the inbound relay use-case.
func NewRelayMessageUseCase(
	deliverer ChannelDeliverer,
	index *conversation.Index,
	events EventPublisher,
	logger *zap.Logger,
) *RelayMessageUseCase {
	if events == nil {
		events = NopPublisher{}
	}
	return &RelayMessageUseCase{
		deliverer: deliverer,
		index:     index,
		events:    events,
		logger:    logger,
	}
}

// RelayRequest is the validated-to-be input of Execute.
type RelayRequest struct {
	ConversationID string
	UserID         string
	MessageID      string    // optional
	Content        string
	UserInfo       string    // optional
	SentAt         time.Time // zero means "not supplied by the app"
}

// RelayResult reports a successful relay.
type RelayResult struct {
	MessageRef int
	RelayedAt  time.Time
}

// Execute validates the request, posts exactly one message to the support
// channel and upserts exactly one index entry. Failures map to the error
// taxonomy: INVALID_INPUT, CHANNEL_UNAVAILABLE, DELIVERY_FAILED.
func (uc *RelayMessageUseCase) Execute(ctx context.Context, req RelayRequest) (*RelayResult, error) {
	if req.ConversationID == "" || req.UserID == "" || req.Content == "" {
		return nil, appErrors.NewInvalidInputError("conversationId, userId and messageContent are required")
	}

	if err := uc.deliverer.ResolveChannel(ctx); err != nil {
		uc.logger.Error("Support channel unavailable", zap.Error(err))
		return nil, appErrors.NewChannelUnavailableError("support channel not found", err)
	}

	sentAt := req.SentAt
	if sentAt.IsZero() {
		sentAt = time.Now()
	}

	card := RelayCard{
		ConversationID: req.ConversationID,
		UserID:         req.UserID,
		MessageID:      req.MessageID,
		Content:        req.Content,
		UserInfo:       req.UserInfo,
		SentAt:         sentAt,
	}

	ref, err := uc.deliverer.PostCard(ctx, card)
	if err != nil {
		uc.logger.Error("Failed to post relay card",
			zap.String("conversation_id", req.ConversationID),
			zap.Error(err),
		)
		return nil, appErrors.NewDeliveryFailedError("failed to deliver message to support channel", err)
	}

	now := time.Now()
	uc.index.Upsert(req.ConversationID, req.UserID, ref, now)

	uc.events.Publish(Event{
		Type:           EventTypeRelay,
		ConversationID: req.ConversationID,
		SenderID:       req.UserID,
		Content:        req.Content,
		Timestamp:      now,
	})

	uc.logger.Info("Customer message relayed",
		zap.String("conversation_id", req.ConversationID),
		zap.String("user_id", req.UserID),
		zap.Int("message_ref", ref),
	)

	return &RelayResult{MessageRef: ref, RelayedAt: now}, nil
}
