package usecase

import (
	"context"
	"time"
)

// RelayCard is the renderable description of a customer message headed for
// the support channel. How it is presented (formatting, buttons) is up to
// the ChannelDeliverer implementation.
type RelayCard struct {
	ConversationID string
	UserID         string
	MessageID      string // customer-app message id, presentational only
	Content        string
	UserInfo       string // optional free-form block about the customer
	SentAt         time.Time
}

// ChannelDeliverer posts relay cards into the fixed support channel.
// Resolution and posting are separate steps so their failures can be
// told apart (channel missing vs. transport error).
type ChannelDeliverer interface {
	// ResolveChannel verifies the configured support channel is reachable.
	ResolveChannel(ctx context.Context) error
	// PostCard renders and posts the card, returning the posted message ref.
	PostCard(ctx context.Context, card RelayCard) (int, error)
}

// ReplyConfirmation is emitted to the sink after a reply is persisted.
type ReplyConfirmation struct {
	ConversationID string
	SupporterName  string
	Content        string // possibly truncated for display
	SentAt         time.Time
}

// ReplyFailure is emitted to the sink when a reply cannot be processed.
// EchoContent carries the supporter's original text so it is never lost.
type ReplyFailure struct {
	Code        string // pkg/errors code
	Reason      string
	Detail      string // store-provided diagnostic, may be empty
	EchoContent string
}

// ResponseSink receives the outcome of a reply submission. The two
// implementations are the visible in-channel flow (plain command) and the
// ephemeral flow (button + reply prompt); the content is the same in
// substance, only the delivery differs.
type ResponseSink interface {
	Confirm(ctx context.Context, c ReplyConfirmation)
	Reject(ctx context.Context, f ReplyFailure)
}

// Event types published to the dashboard feed.
const (
	EventTypeRelay = "relay"
	EventTypeReply = "reply"
	EventTypeClose = "close"
)

// Event is a bridge activity notification.
type Event struct {
	Type           string    `json:"type"`
	ConversationID string    `json:"conversation_id"`
	SenderID       string    `json:"sender_id,omitempty"`
	Content        string    `json:"content,omitempty"`
	Timestamp      time.Time `json:"timestamp"`
}

// EventPublisher broadcasts bridge activity. Implementations must be
// non-blocking; a slow subscriber must not stall a relay or reply.
type EventPublisher interface {
	Publish(event Event)
}

// NopPublisher discards events.
type NopPublisher struct{}

// Publish implements EventPublisher.
func (NopPublisher) Publish(Event) {}
