package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/balasin/balasin/internal/domain/conversation"
	appErrors "github.com/balasin/balasin/pkg/errors"
)

type fakeDeliverer struct {
	resolveErr error
	postErr    error
	posted     []RelayCard
	nextRef    int
}

func (f *fakeDeliverer) ResolveChannel(ctx context.Context) error {
	return f.resolveErr
}

func (f *fakeDeliverer) PostCard(ctx context.Context, card RelayCard) (int, error) {
	if f.postErr != nil {
		return 0, f.postErr
	}
	f.posted = append(f.posted, card)
	f.nextRef++
	return f.nextRef, nil
}

type recordingPublisher struct {
	events []Event
}

func (p *recordingPublisher) Publish(e Event) {
	p.events = append(p.events, e)
}

func TestRelayMessage(t *testing.T) {
	ctx := context.Background()

	t.Run("Valid payload posts once and upserts once", func(t *testing.T) {
		deliverer := &fakeDeliverer{}
		index := conversation.NewIndex()
		pub := &recordingPublisher{}
		uc := NewRelayMessageUseCase(deliverer, index, pub, zap.NewNop())

		start := time.Now()
		result, err := uc.Execute(ctx, RelayRequest{
			ConversationID: "C1",
			UserID:         "U1",
			Content:        "Hello",
		})
		if err != nil {
			t.Fatalf("Execute failed: %v", err)
		}

		if len(deliverer.posted) != 1 {
			t.Fatalf("Expected exactly one channel post, got %d", len(deliverer.posted))
		}
		if result.MessageRef != 1 {
			t.Errorf("Expected ref 1, got %d", result.MessageRef)
		}

		e, ok := index.Get("C1")
		if !ok {
			t.Fatal("index entry should exist after relay")
		}
		if e.UserID != "U1" {
			t.Errorf("Expected user U1, got %s", e.UserID)
		}
		if e.RelayMessageRef != 1 {
			t.Errorf("Expected ref 1 in index, got %d", e.RelayMessageRef)
		}
		if e.LastActivityAt.Before(start) {
			t.Error("LastActivityAt should be the call time")
		}

		if len(pub.events) != 1 || pub.events[0].Type != EventTypeRelay {
			t.Errorf("Expected one relay event, got %+v", pub.events)
		}
	})

	t.Run("Repeated relay keeps first identity", func(t *testing.T) {
		deliverer := &fakeDeliverer{}
		index := conversation.NewIndex()
		uc := NewRelayMessageUseCase(deliverer, index, nil, zap.NewNop())

		uc.Execute(ctx, RelayRequest{ConversationID: "C1", UserID: "U1", Content: "first"})
		uc.Execute(ctx, RelayRequest{ConversationID: "C1", UserID: "U9", Content: "second"})

		e, _ := index.Get("C1")
		if e.UserID != "U1" {
			t.Errorf("UserID must stay fixed from first call, got %s", e.UserID)
		}
		if e.RelayMessageRef != 2 {
			t.Errorf("ref should follow the latest post, got %d", e.RelayMessageRef)
		}
		if index.Len() != 1 {
			t.Errorf("Expected exactly one entry, got %d", index.Len())
		}
	})

	t.Run("Missing fields rejected before any post", func(t *testing.T) {
		deliverer := &fakeDeliverer{}
		index := conversation.NewIndex()
		uc := NewRelayMessageUseCase(deliverer, index, nil, zap.NewNop())

		_, err := uc.Execute(ctx, RelayRequest{ConversationID: "C1", UserID: "U1"})
		if !appErrors.IsInvalidInput(err) {
			t.Errorf("Expected INVALID_INPUT, got %v", err)
		}
		if len(deliverer.posted) != 0 {
			t.Error("no channel post may happen for invalid payloads")
		}
		if index.Len() != 0 {
			t.Error("no index entry may be created for invalid payloads")
		}
	})

	t.Run("Channel resolution failure", func(t *testing.T) {
		deliverer := &fakeDeliverer{resolveErr: errors.New("chat not found")}
		uc := NewRelayMessageUseCase(deliverer, conversation.NewIndex(), nil, zap.NewNop())

		_, err := uc.Execute(ctx, RelayRequest{ConversationID: "C1", UserID: "U1", Content: "hi"})
		if !appErrors.IsCode(err, appErrors.CodeChannelUnavailable) {
			t.Errorf("Expected CHANNEL_UNAVAILABLE, got %v", err)
		}
	})

	t.Run("Delivery failure leaves index untouched", func(t *testing.T) {
		deliverer := &fakeDeliverer{postErr: errors.New("telegram: 502")}
		index := conversation.NewIndex()
		uc := NewRelayMessageUseCase(deliverer, index, nil, zap.NewNop())

		_, err := uc.Execute(ctx, RelayRequest{ConversationID: "C1", UserID: "U1", Content: "hi"})
		if !appErrors.IsCode(err, appErrors.CodeDeliveryFailed) {
			t.Errorf("Expected DELIVERY_FAILED, got %v", err)
		}
		if index.Len() != 0 {
			t.Error("failed delivery must not create an index entry")
		}
	})
}
