package telegram

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/balasin/balasin/internal/application/usecase"
	"github.com/balasin/balasin/internal/domain/conversation"
)

// Authorizer 判定谁能用管理员指令。配置热更新器实现了它。
type Authorizer interface {
	IsAdmin(userID int64) bool
}

// ConfigFlag 配置项存在性标记 (只报有无, 不报值)
type ConfigFlag struct {
	Name string
	Set  bool
}

// Diagnostics !debug 指令的数据来源
type Diagnostics interface {
	// ConfigFlags 各关键配置是否已设置
	ConfigFlags() []ConfigFlag
	// ProbeStore 有界的存储连通性探测
	ProbeStore(ctx context.Context) error
}

// commandHandler 单条指令的处理函数
type commandHandler func(ctx context.Context, msg *IncomingMessage, cmd *Command)

// Interpreter 把支持频道里的消息和按钮事件翻译成应用层调用。
// 只处理指定频道; 机器人自己的消息和无关文本一律忽略。
type Interpreter struct {
	messenger     Messenger
	submitUC      *usecase.SubmitReplyUseCase
	closeUC       *usecase.CloseConversationUseCase
	index         *conversation.Index
	admin         Authorizer
	diag          Diagnostics
	prompts       *PromptRegistry
	supportChatID int64
	logger        *zap.Logger
	handlers      map[string]commandHandler
}

// NewInterpreter 创建指令解释器
func NewInterpreter(
	messenger Messenger,
	submitUC *usecase.SubmitReplyUseCase,
	closeUC *usecase.CloseConversationUseCase,
	index *conversation.Index,
	admin Authorizer,
	diag Diagnostics,
	supportChatID int64,
	logger *zap.Logger,
) *Interpreter {
	i := &Interpreter{
		messenger:     messenger,
		submitUC:      submitUC,
		closeUC:       closeUC,
		index:         index,
		admin:         admin,
		diag:          diag,
		prompts:       NewPromptRegistry(),
		supportChatID: supportChatID,
		logger:        logger,
	}

	// 指令表: 首 token 精确匹配, 未注册的文本静默忽略
	i.handlers = map[string]commandHandler{
		"balas": i.cmdBalas,
		"list":  i.cmdList,
		"help":  i.cmdHelp,
		"tutup": i.cmdTutup,
		"close": i.cmdTutup,
		"debug": i.cmdDebug,
	}

	return i
}

// HandleMessage 处理一条频道消息
func (i *Interpreter) HandleMessage(ctx context.Context, msg *IncomingMessage) {
	if msg.FromBot {
		return
	}
	if msg.ChatID != i.supportChatID {
		return
	}

	// 对快速回复提示或转发卡片的 reply 直接视为回复正文
	if msg.ReplyToMessageID != 0 {
		if conversationID, ok := i.prompts.Take(msg.ReplyToMessageID); ok {
			i.submitPromptReply(ctx, msg, conversationID)
			return
		}
		if conversationID, ok := i.conversationByCard(msg.ReplyToMessageID); ok {
			i.submitVisibleReply(ctx, msg, conversationID, strings.TrimSpace(msg.Text))
			return
		}
	}

	cmd := ParseCommand(msg.Text)
	if cmd == nil {
		return
	}
	handler, ok := i.handlers[cmd.Name]
	if !ok {
		return
	}
	handler(ctx, msg, cmd)
}

// HandleCallback 处理内联按钮点击
func (i *Interpreter) HandleCallback(ctx context.Context, cb *CallbackEvent) {
	switch {
	case strings.HasPrefix(cb.Data, callbackReplyPrefix):
		conversationID := strings.TrimPrefix(cb.Data, callbackReplyPrefix)
		i.openReplyPrompt(cb, conversationID)

	case strings.HasPrefix(cb.Data, callbackClosePrefix):
		conversationID := strings.TrimPrefix(cb.Data, callbackClosePrefix)
		existed := i.closeUC.Execute(conversationID, supporterName(cb.Username, cb.UserID))
		i.messenger.AnswerCallback(cb.ID, "Percakapan ditutup")
		i.send(cb.ChatID, RenderClosure(conversationID, supporterName(cb.Username, cb.UserID), existed), 0)

	default:
		i.messenger.AnswerCallback(cb.ID, "")
	}
}

// openReplyPrompt 发出 force-reply 提示并登记
func (i *Interpreter) openReplyPrompt(cb *CallbackEvent, conversationID string) {
	promptID, err := i.messenger.Send(&OutgoingMessage{
		ChatID:     cb.ChatID,
		Text:       RenderReplyPrompt(conversationID),
		ParseMode:  "HTML",
		ForceReply: true,
	})
	if err != nil {
		i.logger.Error("Failed to send reply prompt",
			zap.String("conversation_id", conversationID),
			zap.Error(err),
		)
		i.messenger.AnswerCallback(cb.ID, "Gagal membuka prompt")
		return
	}
	i.prompts.Add(promptID, conversationID)
	i.messenger.AnswerCallback(cb.ID, "")
}

// submitPromptReply 快速回复流程: 结果编辑回提示消息
func (i *Interpreter) submitPromptReply(ctx context.Context, msg *IncomingMessage, conversationID string) {
	sink := &promptSink{
		messenger:       i.messenger,
		chatID:          msg.ChatID,
		promptMessageID: msg.ReplyToMessageID,
	}
	i.submit(ctx, msg, conversationID, strings.TrimSpace(msg.Text), sink)
}

// submitVisibleReply 明面流程: 结果以 reply 形式发回频道
func (i *Interpreter) submitVisibleReply(ctx context.Context, msg *IncomingMessage, conversationID, content string) {
	sink := &visibleSink{
		messenger: i.messenger,
		chatID:    msg.ChatID,
		replyToID: msg.MessageID,
	}
	i.submit(ctx, msg, conversationID, content, sink)
}

func (i *Interpreter) submit(ctx context.Context, msg *IncomingMessage, conversationID, content string, sink usecase.ResponseSink) {
	err := i.submitUC.Execute(ctx, usecase.ReplyRequest{
		ConversationID: conversationID,
		SupporterID:    supporterID(msg.UserID),
		SupporterName:  supporterName(msg.Username, msg.UserID),
		Content:        content,
	}, sink)
	if err != nil {
		i.logger.Warn("Reply submission failed",
			zap.String("conversation_id", conversationID),
			zap.Int64("supporter_id", msg.UserID),
			zap.Error(err),
		)
	}
}

// conversationByCard 通过转发卡片消息ID反查会话
func (i *Interpreter) conversationByCard(messageID int) (string, bool) {
	for _, s := range i.index.List(time.Now()) {
		if s.RelayMessageRef == messageID {
			return s.ConversationID, true
		}
	}
	return "", false
}

// ─── 指令处理 ───

func (i *Interpreter) cmdBalas(ctx context.Context, msg *IncomingMessage, cmd *Command) {
	conversationID, content := SplitReplyArgs(cmd.RawArgs)
	if conversationID == "" || content == "" {
		i.send(msg.ChatID, replyUsageText, msg.MessageID)
		return
	}
	i.submitVisibleReply(ctx, msg, conversationID, content)
}

func (i *Interpreter) cmdList(ctx context.Context, msg *IncomingMessage, cmd *Command) {
	i.send(msg.ChatID, RenderConversationList(i.index.List(time.Now())), 0)
}

func (i *Interpreter) cmdHelp(ctx context.Context, msg *IncomingMessage, cmd *Command) {
	i.send(msg.ChatID, helpText, 0)
}

func (i *Interpreter) cmdTutup(ctx context.Context, msg *IncomingMessage, cmd *Command) {
	if len(cmd.Args) < 1 {
		i.send(msg.ChatID, closeUsageText, msg.MessageID)
		return
	}
	conversationID := cmd.Args[0]
	closedBy := supporterName(msg.Username, msg.UserID)
	existed := i.closeUC.Execute(conversationID, closedBy)
	i.send(msg.ChatID, RenderClosure(conversationID, closedBy, existed), 0)
}

func (i *Interpreter) cmdDebug(ctx context.Context, msg *IncomingMessage, cmd *Command) {
	if !i.admin.IsAdmin(msg.UserID) {
		// 权限不足时不做任何探测
		i.send(msg.ChatID, forbiddenText, msg.MessageID)
		return
	}

	start := time.Now()
	probeErr := i.diag.ProbeStore(ctx)
	i.send(msg.ChatID, RenderDebugReport(i.diag.ConfigFlags(), probeErr, time.Since(start)), msg.MessageID)
}

// send 发送 HTML 消息, 失败只记日志, 频道出问题时没有别的通知途径
func (i *Interpreter) send(chatID int64, text string, replyToID int) {
	_, err := i.messenger.Send(&OutgoingMessage{
		ChatID:    chatID,
		Text:      text,
		ParseMode: "HTML",
		ReplyToID: replyToID,
	})
	if err != nil {
		i.logger.Error("Failed to send channel message", zap.Error(err))
	}
}
