package telegram

import "time"

// IncomingMessage 入站消息 (已脱离 tgbotapi 类型, 方便测试)
type IncomingMessage struct {
	MessageID        int
	ChatID           int64
	UserID           int64
	Username         string
	Text             string
	ReplyToMessageID int // 0 表示不是对某条消息的回复
	FromBot          bool
	Timestamp        time.Time
}

// OutgoingMessage 出站消息
type OutgoingMessage struct {
	ChatID      int64
	Text        string
	ParseMode   string // "HTML", "Markdown", ""
	ReplyToID   int
	ReplyMarkup interface{}
	ForceReply  bool // 要求对方以 reply 形式作答 (快速回复提示用)
}

// CallbackEvent 内联按钮点击事件
type CallbackEvent struct {
	ID        string
	Data      string
	ChatID    int64
	MessageID int
	UserID    int64
	Username  string
}

// Messenger 发送侧抽象。Adapter 用真 Bot 实现, 测试用假实现。
type Messenger interface {
	// Send 发送消息, 返回已发送消息的ID
	Send(out *OutgoingMessage) (int, error)
	// Edit 编辑已发送消息的文本
	Edit(chatID int64, messageID int, text, parseMode string) error
	// AnswerCallback 应答按钮回调 (去掉客户端的加载动画)
	AnswerCallback(callbackID, text string) error
}
