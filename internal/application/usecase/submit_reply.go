package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/balasin/balasin/internal/domain/conversation"
	"github.com/balasin/balasin/internal/domain/entity"
	"github.com/balasin/balasin/internal/domain/repository"
	"github.com/balasin/balasin/internal/domain/valueobject"
	appErrors "github.com/balasin/balasin/pkg/errors"
)

// displayContentLimit caps reply content in confirmations; the stored row
// always keeps the full text.
const displayContentLimit = 200

// SubmitReplyUseCase correlates a support-side reply with its conversation,
// persists it as the system of record and reports the outcome through the
// caller-supplied sink. Every failure path ends in a sink emission — a reply
// is never silently dropped, and the supporter's text is always echoed back
// on persistence failures so it can be retried from the failure message.
type SubmitReplyUseCase struct {
	messageRepo repository.MessageRepository
	index       *conversation.Index
	events      EventPublisher
	logger      *zap.Logger
}

// NewSubmitReplyUseCase creates the reply correlator.
func NewSubmitReplyUseCase(
	messageRepo repository.MessageRepository,
	index *conversation.Index,
	events EventPublisher,
	logger *zap.Logger,
) *SubmitReplyUseCase {
	if events == nil {
		events = NopPublisher{}
	}
	return &SubmitReplyUseCase{
		messageRepo: messageRepo,
		index:       index,
		events:      events,
		logger:      logger,
	}
}

// ReplyRequest describes a support reply to submit.
type ReplyRequest struct {
	ConversationID string
	SupporterID    string
	SupporterName  string
	Content        string
}

// Execute runs the submission. The returned error mirrors what was emitted
// to the sink and is meant for caller-side logging only.
func (uc *SubmitReplyUseCase) Execute(ctx context.Context, req ReplyRequest, sink ResponseSink) error {
	if req.ConversationID == "" || req.SupporterID == "" || req.Content == "" {
		err := appErrors.NewInvalidInputError("conversation id and reply content are required")
		sink.Reject(ctx, ReplyFailure{
			Code:   string(appErrors.CodeInvalidInput),
			Reason: "conversation id and reply content are required",
		})
		return err
	}

	// Bounded connectivity probe before touching the table. A dead store is
	// reported with its diagnostic instead of a bare insert failure.
	if err := uc.messageRepo.Ping(ctx); err != nil {
		uc.logger.Error("Store probe failed before reply insert",
			zap.String("conversation_id", req.ConversationID),
			zap.Error(err),
		)
		sink.Reject(ctx, ReplyFailure{
			Code:        string(appErrors.CodeStoreUnavailable),
			Reason:      "message store is unreachable",
			Detail:      detailOf(err),
			EchoContent: req.Content,
		})
		return err
	}

	now := time.Now()
	sender := valueobject.NewSender(req.SupporterID, req.SupporterName, valueobject.SenderTypeSupportAgent)
	msg, err := entity.NewMessage(uuid.NewString(), req.ConversationID, req.Content, sender, now)
	if err != nil {
		sink.Reject(ctx, ReplyFailure{
			Code:        string(appErrors.CodeInvalidInput),
			Reason:      err.Error(),
			EchoContent: req.Content,
		})
		return err
	}

	if err := uc.messageRepo.Save(ctx, msg); err != nil {
		uc.logger.Error("Failed to persist reply",
			zap.String("conversation_id", req.ConversationID),
			zap.String("supporter_id", req.SupporterID),
			zap.Error(err),
		)
		sink.Reject(ctx, ReplyFailure{
			Code:        string(appErrors.CodePersistFailed),
			Reason:      "failed to save reply to the message store",
			Detail:      detailOf(err),
			EchoContent: req.Content,
		})
		return err
	}

	uc.index.Touch(req.ConversationID, now)

	uc.events.Publish(Event{
		Type:           EventTypeReply,
		ConversationID: req.ConversationID,
		SenderID:       req.SupporterID,
		Content:        req.Content,
		Timestamp:      now,
	})

	supporterName := req.SupporterName
	if supporterName == "" {
		supporterName = req.SupporterID
	}
	sink.Confirm(ctx, ReplyConfirmation{
		ConversationID: req.ConversationID,
		SupporterName:  supporterName,
		Content:        truncateForDisplay(req.Content),
		SentAt:         now,
	})

	uc.logger.Info("Support reply persisted",
		zap.String("conversation_id", req.ConversationID),
		zap.String("supporter_id", req.SupporterID),
		zap.String("message_id", msg.ID()),
	)

	return nil
}

// detailOf extracts the store-provided diagnostic from an AppError chain.
func detailOf(err error) string {
	var appErr *appErrors.AppError
	if errors.As(err, &appErr) {
		return appErr.Detail()
	}
	return err.Error()
}

// truncateForDisplay shortens content for confirmations, rune-safe.
func truncateForDisplay(content string) string {
	runes := []rune(content)
	if len(runes) <= displayContentLimit {
		return content
	}
	return string(runes[:displayContentLimit]) + "…"
}
