package telegram

import (
	"context"
	"fmt"

	"github.com/balasin/balasin/internal/application/usecase"
)

// visibleSink 把结果以 reply 的形式发回频道, 所有人可见。
// !balas 指令和对转发卡片的直接 reply 走这条路。
type visibleSink struct {
	messenger Messenger
	chatID    int64
	replyToID int
}

func (s *visibleSink) Confirm(ctx context.Context, c usecase.ReplyConfirmation) {
	s.messenger.Send(&OutgoingMessage{
		ChatID:    s.chatID,
		Text:      RenderConfirmation(c),
		ParseMode: "HTML",
		ReplyToID: s.replyToID,
	})
}

func (s *visibleSink) Reject(ctx context.Context, f usecase.ReplyFailure) {
	s.messenger.Send(&OutgoingMessage{
		ChatID:    s.chatID,
		Text:      RenderFailure(f),
		ParseMode: "HTML",
		ReplyToID: s.replyToID,
	})
}

// promptSink 把结果编辑回快速回复的提示消息, 不再刷屏。
// 编辑失败时退回普通发送, 结果不能丢。
type promptSink struct {
	messenger       Messenger
	chatID          int64
	promptMessageID int
}

func (s *promptSink) Confirm(ctx context.Context, c usecase.ReplyConfirmation) {
	s.deliver(RenderConfirmation(c))
}

func (s *promptSink) Reject(ctx context.Context, f usecase.ReplyFailure) {
	s.deliver(RenderFailure(f))
}

func (s *promptSink) deliver(text string) {
	if err := s.messenger.Edit(s.chatID, s.promptMessageID, text, "HTML"); err != nil {
		s.messenger.Send(&OutgoingMessage{
			ChatID:    s.chatID,
			Text:      text,
			ParseMode: "HTML",
		})
	}
}

// supporterID 客服的存储侧标识
func supporterID(userID int64) string {
	return fmt.Sprintf("tg:%d", userID)
}

// supporterName 展示名, 没有用户名时退回数字ID
func supporterName(username string, userID int64) string {
	if username != "" {
		return username
	}
	return fmt.Sprintf("tg:%d", userID)
}
