package telegram

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/balasin/balasin/internal/application/usecase"
	"github.com/balasin/balasin/internal/domain/conversation"
	"github.com/balasin/balasin/internal/domain/repository"
	"github.com/balasin/balasin/internal/infrastructure/persistence"
)

const testSupportChatID int64 = -100123

// fakeMessenger records outgoing traffic instead of hitting Telegram
type fakeMessenger struct {
	mu        sync.Mutex
	sent      []*OutgoingMessage
	edits     []editCall
	callbacks []string
	nextID    int
	sendErr   error
}

type editCall struct {
	chatID    int64
	messageID int
	text      string
}

func (m *fakeMessenger) Send(out *OutgoingMessage) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.sendErr != nil {
		return 0, m.sendErr
	}
	m.nextID++
	m.sent = append(m.sent, out)
	return m.nextID, nil
}

func (m *fakeMessenger) Edit(chatID int64, messageID int, text, parseMode string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.edits = append(m.edits, editCall{chatID: chatID, messageID: messageID, text: text})
	return nil
}

func (m *fakeMessenger) AnswerCallback(callbackID, text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.callbacks = append(m.callbacks, callbackID)
	return nil
}

func (m *fakeMessenger) lastSent() *OutgoingMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.sent) == 0 {
		return nil
	}
	return m.sent[len(m.sent)-1]
}

func (m *fakeMessenger) sentCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sent)
}

type fakeAuthorizer struct {
	admins map[int64]bool
}

func (a *fakeAuthorizer) IsAdmin(userID int64) bool { return a.admins[userID] }

type fakeDiagnostics struct {
	probed   bool
	probeErr error
}

func (d *fakeDiagnostics) ConfigFlags() []ConfigFlag {
	return []ConfigFlag{{Name: "TELEGRAM_BOT_TOKEN", Set: true}, {Name: "DATABASE_DSN", Set: false}}
}

func (d *fakeDiagnostics) ProbeStore(ctx context.Context) error {
	d.probed = true
	return d.probeErr
}

type interpreterFixture struct {
	interp    *Interpreter
	messenger *fakeMessenger
	repo      repository.MessageRepository
	index     *conversation.Index
	diag      *fakeDiagnostics
}

func newInterpreterFixture(t *testing.T) *interpreterFixture {
	t.Helper()

	messenger := &fakeMessenger{}
	repo := persistence.NewMemoryMessageRepository()
	index := conversation.NewIndex()
	diag := &fakeDiagnostics{}
	logger := zap.NewNop()

	submitUC := usecase.NewSubmitReplyUseCase(repo, index, nil, logger)
	closeUC := usecase.NewCloseConversationUseCase(index, nil, logger)
	admin := &fakeAuthorizer{admins: map[int64]bool{99: true}}

	interp := NewInterpreter(messenger, submitUC, closeUC, index, admin, diag, testSupportChatID, logger)
	return &interpreterFixture{
		interp:    interp,
		messenger: messenger,
		repo:      repo,
		index:     index,
		diag:      diag,
	}
}

func supportMessage(messageID int, userID int64, text string) *IncomingMessage {
	return &IncomingMessage{
		MessageID: messageID,
		ChatID:    testSupportChatID,
		UserID:    userID,
		Username:  "agent",
		Text:      text,
		Timestamp: time.Now(),
	}
}

func TestInterpreterBalas(t *testing.T) {
	ctx := context.Background()

	t.Run("valid reply persisted and confirmed", func(t *testing.T) {
		f := newInterpreterFixture(t)
		f.index.Upsert("conv-1", "user-1", 10, time.Now())

		f.interp.HandleMessage(ctx, supportMessage(1, 42, "!balas conv-1 halo dari support"))

		count, err := f.repo.Count(ctx, "conv-1")
		if err != nil {
			t.Fatalf("Count failed: %v", err)
		}
		if count != 1 {
			t.Fatalf("expected 1 stored message, got %d", count)
		}

		msgs, _ := f.repo.FindByConversationID(ctx, "conv-1", 10, 0)
		if msgs[0].Content() != "halo dari support" {
			t.Errorf("stored content = %q", msgs[0].Content())
		}
		if msgs[0].Sender().ID() != "tg:42" {
			t.Errorf("sender id = %q, want tg:42", msgs[0].Sender().ID())
		}

		last := f.messenger.lastSent()
		if last == nil || !strings.Contains(last.Text, "✅") {
			t.Errorf("expected confirmation message, got %+v", last)
		}
		if last.ReplyToID != 1 {
			t.Errorf("confirmation should reply to the command, got ReplyToID=%d", last.ReplyToID)
		}
	})

	t.Run("missing content gets usage help without insert", func(t *testing.T) {
		f := newInterpreterFixture(t)

		f.interp.HandleMessage(ctx, supportMessage(1, 42, "!balas conv-1"))

		count, _ := f.repo.Count(ctx, "conv-1")
		if count != 0 {
			t.Fatalf("expected no stored messages, got %d", count)
		}
		last := f.messenger.lastSent()
		if last == nil || !strings.Contains(last.Text, "!balas") {
			t.Errorf("expected usage text, got %+v", last)
		}
	})

	t.Run("conversation absent from index still persists", func(t *testing.T) {
		f := newInterpreterFixture(t)

		f.interp.HandleMessage(ctx, supportMessage(1, 42, "!balas conv-gone pesan lama"))

		count, _ := f.repo.Count(ctx, "conv-gone")
		if count != 1 {
			t.Fatalf("expected reply stored despite unknown conversation, got %d", count)
		}
	})
}

func TestInterpreterIgnores(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name string
		msg  *IncomingMessage
	}{
		{"bot messages", &IncomingMessage{MessageID: 1, ChatID: testSupportChatID, UserID: 7, Text: "!list", FromBot: true}},
		{"other chats", &IncomingMessage{MessageID: 1, ChatID: 555, UserID: 7, Text: "!list"}},
		{"plain text", supportMessage(1, 7, "halo semuanya")},
		{"unregistered command", supportMessage(1, 7, "!balasan conv-1 x")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newInterpreterFixture(t)
			f.interp.HandleMessage(ctx, tt.msg)
			if n := f.messenger.sentCount(); n != 0 {
				t.Errorf("expected silence, got %d messages", n)
			}
		})
	}
}

func TestInterpreterList(t *testing.T) {
	ctx := context.Background()

	t.Run("empty index", func(t *testing.T) {
		f := newInterpreterFixture(t)
		f.interp.HandleMessage(ctx, supportMessage(1, 42, "!list"))

		last := f.messenger.lastSent()
		if last == nil || last.Text != emptyListText {
			t.Errorf("expected empty-list text, got %+v", last)
		}
	})

	t.Run("lists active conversations", func(t *testing.T) {
		f := newInterpreterFixture(t)
		f.index.Upsert("conv-1", "user-1", 10, time.Now())
		f.index.Upsert("conv-2", "user-2", 11, time.Now())

		f.interp.HandleMessage(ctx, supportMessage(1, 42, "/list"))

		last := f.messenger.lastSent()
		if last == nil || !strings.Contains(last.Text, "conv-1") || !strings.Contains(last.Text, "conv-2") {
			t.Errorf("expected both conversations listed, got %+v", last)
		}
	})
}

func TestInterpreterTutup(t *testing.T) {
	ctx := context.Background()

	t.Run("removes entry and confirms", func(t *testing.T) {
		f := newInterpreterFixture(t)
		f.index.Upsert("conv-1", "user-1", 10, time.Now())

		f.interp.HandleMessage(ctx, supportMessage(1, 42, "!tutup conv-1"))

		if f.index.Len() != 0 {
			t.Errorf("expected conversation removed, index has %d entries", f.index.Len())
		}
		last := f.messenger.lastSent()
		if last == nil || !strings.Contains(last.Text, "ditutup") {
			t.Errorf("expected closure confirmation, got %+v", last)
		}
	})

	t.Run("close alias", func(t *testing.T) {
		f := newInterpreterFixture(t)
		f.index.Upsert("conv-1", "user-1", 10, time.Now())

		f.interp.HandleMessage(ctx, supportMessage(1, 42, "/close conv-1"))

		if f.index.Len() != 0 {
			t.Errorf("expected conversation removed via alias")
		}
	})

	t.Run("unknown conversation reported", func(t *testing.T) {
		f := newInterpreterFixture(t)

		f.interp.HandleMessage(ctx, supportMessage(1, 42, "!tutup conv-x"))

		last := f.messenger.lastSent()
		if last == nil || !strings.Contains(last.Text, "tidak ada") {
			t.Errorf("expected not-found text, got %+v", last)
		}
	})
}

func TestInterpreterDebug(t *testing.T) {
	ctx := context.Background()

	t.Run("non-admin refused without probing", func(t *testing.T) {
		f := newInterpreterFixture(t)

		f.interp.HandleMessage(ctx, supportMessage(1, 42, "!debug"))

		if f.diag.probed {
			t.Error("store must not be probed for non-admins")
		}
		last := f.messenger.lastSent()
		if last == nil || last.Text != forbiddenText {
			t.Errorf("expected forbidden text, got %+v", last)
		}
	})

	t.Run("admin gets report with probe", func(t *testing.T) {
		f := newInterpreterFixture(t)

		f.interp.HandleMessage(ctx, supportMessage(1, 99, "!debug"))

		if !f.diag.probed {
			t.Error("expected store probe for admin")
		}
		last := f.messenger.lastSent()
		if last == nil || !strings.Contains(last.Text, "Diagnostik") {
			t.Errorf("expected diagnostics report, got %+v", last)
		}
		if !strings.Contains(last.Text, "TELEGRAM_BOT_TOKEN") {
			t.Errorf("expected config flags in report, got %q", last.Text)
		}
	})

	t.Run("probe failure shown in report", func(t *testing.T) {
		f := newInterpreterFixture(t)
		f.diag.probeErr = errors.New("connection refused")

		f.interp.HandleMessage(ctx, supportMessage(1, 99, "/debug"))

		last := f.messenger.lastSent()
		if last == nil || !strings.Contains(last.Text, "connection refused") {
			t.Errorf("expected probe error in report, got %+v", last)
		}
	})
}

func TestInterpreterQuickReply(t *testing.T) {
	ctx := context.Background()

	t.Run("button opens force-reply prompt", func(t *testing.T) {
		f := newInterpreterFixture(t)
		f.index.Upsert("conv-1", "user-1", 10, time.Now())

		f.interp.HandleCallback(ctx, &CallbackEvent{
			ID:     "cb-1",
			Data:   "reply:conv-1",
			ChatID: testSupportChatID,
			UserID: 42,
		})

		last := f.messenger.lastSent()
		if last == nil || !last.ForceReply {
			t.Fatalf("expected force-reply prompt, got %+v", last)
		}
		if !strings.Contains(last.Text, "conv-1") {
			t.Errorf("prompt should name the conversation, got %q", last.Text)
		}
		if len(f.messenger.callbacks) != 1 {
			t.Errorf("callback must be answered, got %d answers", len(f.messenger.callbacks))
		}
	})

	t.Run("reply to prompt persists and edits prompt", func(t *testing.T) {
		f := newInterpreterFixture(t)
		f.index.Upsert("conv-1", "user-1", 10, time.Now())

		f.interp.HandleCallback(ctx, &CallbackEvent{ID: "cb-1", Data: "reply:conv-1", ChatID: testSupportChatID, UserID: 42})
		promptID := f.messenger.nextID

		reply := supportMessage(2, 42, "jawaban cepat")
		reply.ReplyToMessageID = promptID
		f.interp.HandleMessage(ctx, reply)

		count, _ := f.repo.Count(ctx, "conv-1")
		if count != 1 {
			t.Fatalf("expected reply persisted, got %d", count)
		}
		if len(f.messenger.edits) != 1 {
			t.Fatalf("expected outcome edited into the prompt, got %d edits", len(f.messenger.edits))
		}
		if f.messenger.edits[0].messageID != promptID {
			t.Errorf("edited message = %d, want prompt %d", f.messenger.edits[0].messageID, promptID)
		}
		if !strings.Contains(f.messenger.edits[0].text, "✅") {
			t.Errorf("expected confirmation in edit, got %q", f.messenger.edits[0].text)
		}
	})

	t.Run("prompt redeems only once", func(t *testing.T) {
		f := newInterpreterFixture(t)
		f.index.Upsert("conv-1", "user-1", 10, time.Now())

		f.interp.HandleCallback(ctx, &CallbackEvent{ID: "cb-1", Data: "reply:conv-1", ChatID: testSupportChatID, UserID: 42})
		promptID := f.messenger.nextID

		first := supportMessage(2, 42, "pertama")
		first.ReplyToMessageID = promptID
		f.interp.HandleMessage(ctx, first)

		second := supportMessage(3, 42, "kedua")
		second.ReplyToMessageID = promptID
		f.interp.HandleMessage(ctx, second)

		count, _ := f.repo.Count(ctx, "conv-1")
		if count != 1 {
			t.Errorf("second redemption must not persist, got %d messages", count)
		}
	})
}

func TestInterpreterReplyToCard(t *testing.T) {
	ctx := context.Background()

	f := newInterpreterFixture(t)
	f.index.Upsert("conv-1", "user-1", 77, time.Now())

	reply := supportMessage(2, 42, "balasan lewat reply kartu")
	reply.ReplyToMessageID = 77
	f.interp.HandleMessage(ctx, reply)

	count, _ := f.repo.Count(ctx, "conv-1")
	if count != 1 {
		t.Fatalf("expected card reply persisted, got %d", count)
	}
	last := f.messenger.lastSent()
	if last == nil || !strings.Contains(last.Text, "✅") {
		t.Errorf("expected visible confirmation, got %+v", last)
	}
}

func TestInterpreterCloseCallback(t *testing.T) {
	ctx := context.Background()

	f := newInterpreterFixture(t)
	f.index.Upsert("conv-1", "user-1", 10, time.Now())

	f.interp.HandleCallback(ctx, &CallbackEvent{
		ID:     "cb-1",
		Data:   "close:conv-1",
		ChatID: testSupportChatID,
		UserID: 42,
	})

	if f.index.Len() != 0 {
		t.Errorf("expected conversation closed via button")
	}
	if len(f.messenger.callbacks) != 1 {
		t.Errorf("callback must be answered")
	}
	last := f.messenger.lastSent()
	if last == nil || !strings.Contains(last.Text, "ditutup") {
		t.Errorf("expected closure message, got %+v", last)
	}
}
