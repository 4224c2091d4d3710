package telegram

import (
	"context"
	"fmt"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/balasin/balasin/internal/application/usecase"
	"github.com/balasin/balasin/pkg/safego"
)

// Config Telegram 适配器配置
type Config struct {
	BotToken      string
	SupportChatID int64
	Debug         bool
}

// Adapter Telegram 适配器。对外实现 Messenger 和 usecase.ChannelDeliverer,
// 对内把 tgbotapi 的 update 转成解释器认识的类型。
type Adapter struct {
	bot         *tgbotapi.BotAPI
	config      *Config
	logger      *zap.Logger
	interpreter *Interpreter
	cancel      context.CancelFunc
}

// NewAdapter 创建 Telegram 适配器
func NewAdapter(config *Config, logger *zap.Logger) (*Adapter, error) {
	bot, err := tgbotapi.NewBotAPI(config.BotToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}

	bot.Debug = config.Debug

	logger.Info("Telegram bot authorized",
		zap.String("username", bot.Self.UserName),
	)

	return &Adapter{
		bot:    bot,
		config: config,
		logger: logger,
	}, nil
}

// SetInterpreter 设置指令解释器
func (a *Adapter) SetInterpreter(interpreter *Interpreter) {
	a.interpreter = interpreter
}

// Start 启动适配器 (轮询模式)
func (a *Adapter) Start(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	innerCtx, cancel := context.WithCancel(ctx)
	a.cancel = cancel

	updates := a.bot.GetUpdatesChan(u)

	a.logger.Info("Starting Telegram polling",
		zap.Int64("support_chat_id", a.config.SupportChatID),
	)

	safego.Go(a.logger, "telegram-poll", func() {
		for {
			select {
			case <-innerCtx.Done():
				a.bot.StopReceivingUpdates()
				a.logger.Info("Telegram adapter stopped")
				return
			case update := <-updates:
				safego.Go(a.logger, "telegram-update", func() {
					a.handleUpdate(innerCtx, update)
				})
			}
		}
	})

	return nil
}

// Stop 停止适配器
func (a *Adapter) Stop() {
	if a.cancel != nil {
		a.cancel()
	}
}

// handleUpdate 处理更新
func (a *Adapter) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	if a.interpreter == nil {
		return
	}

	if update.CallbackQuery != nil {
		cb := update.CallbackQuery
		event := &CallbackEvent{
			ID:     cb.ID,
			Data:   cb.Data,
			UserID: cb.From.ID,
		}
		if cb.From.UserName != "" {
			event.Username = cb.From.UserName
		}
		if cb.Message != nil {
			event.ChatID = cb.Message.Chat.ID
			event.MessageID = cb.Message.MessageID
		}
		a.interpreter.HandleCallback(ctx, event)
		return
	}

	msg := update.Message
	if msg == nil || msg.From == nil {
		return
	}

	incoming := &IncomingMessage{
		MessageID: msg.MessageID,
		ChatID:    msg.Chat.ID,
		UserID:    msg.From.ID,
		Username:  msg.From.UserName,
		Text:      msg.Text,
		FromBot:   msg.From.IsBot || msg.From.ID == a.bot.Self.ID,
		Timestamp: time.Unix(int64(msg.Date), 0),
	}
	if msg.ReplyToMessage != nil {
		incoming.ReplyToMessageID = msg.ReplyToMessage.MessageID
	}

	a.interpreter.HandleMessage(ctx, incoming)
}

// Send 实现 Messenger
func (a *Adapter) Send(out *OutgoingMessage) (int, error) {
	msg := tgbotapi.NewMessage(out.ChatID, out.Text)

	if out.ParseMode != "" {
		msg.ParseMode = out.ParseMode
	}

	if out.ReplyToID > 0 {
		msg.ReplyToMessageID = out.ReplyToID
	}

	switch {
	case out.ForceReply:
		msg.ReplyMarkup = tgbotapi.ForceReply{ForceReply: true, Selective: true}
	case out.ReplyMarkup != nil:
		msg.ReplyMarkup = out.ReplyMarkup
	}

	sent, err := a.bot.Send(msg)

	// Fallback: if HTML parsing fails, retry as plain text.
	// Safety net for edge cases where the markdown converter produces
	// entities Telegram rejects.
	if err != nil && msg.ParseMode != "" && strings.Contains(err.Error(), "can't parse entities") {
		a.logger.Warn("HTML parse failed, retrying as plain text",
			zap.Int64("chat_id", out.ChatID),
			zap.Error(err),
		)
		msg.ParseMode = ""
		sent, err = a.bot.Send(msg)
	}

	if err != nil {
		return 0, err
	}
	return sent.MessageID, nil
}

// Edit 实现 Messenger
func (a *Adapter) Edit(chatID int64, messageID int, text, parseMode string) error {
	edit := tgbotapi.NewEditMessageText(chatID, messageID, text)
	if parseMode != "" {
		edit.ParseMode = parseMode
	}
	_, err := a.bot.Send(edit)

	if err != nil && parseMode != "" && strings.Contains(err.Error(), "can't parse entities") {
		edit.ParseMode = ""
		_, err = a.bot.Send(edit)
	}
	return err
}

// AnswerCallback 实现 Messenger
func (a *Adapter) AnswerCallback(callbackID, text string) error {
	_, err := a.bot.Request(tgbotapi.NewCallback(callbackID, text))
	return err
}

// ResolveChannel 实现 usecase.ChannelDeliverer, 确认支持频道可达
func (a *Adapter) ResolveChannel(ctx context.Context) error {
	_, err := a.bot.GetChat(tgbotapi.ChatInfoConfig{
		ChatConfig: tgbotapi.ChatConfig{ChatID: a.config.SupportChatID},
	})
	if err != nil {
		return fmt.Errorf("support chat %d unreachable: %w", a.config.SupportChatID, err)
	}
	return nil
}

// PostCard 实现 usecase.ChannelDeliverer, 把转发卡片发进支持频道
func (a *Adapter) PostCard(ctx context.Context, card usecase.RelayCard) (int, error) {
	return a.Send(&OutgoingMessage{
		ChatID:      a.config.SupportChatID,
		Text:        RenderRelayCard(card),
		ParseMode:   "HTML",
		ReplyMarkup: BuildRelayKeyboard(card.ConversationID),
	})
}
