package telegram

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// 回调数据前缀
const (
	callbackReplyPrefix = "reply:"
	callbackClosePrefix = "close:"
)

// InlineButton 内联按钮
type InlineButton struct {
	Text         string
	CallbackData string
}

// BuildInlineKeyboard 构建内联键盘
func BuildInlineKeyboard(rows [][]InlineButton) tgbotapi.InlineKeyboardMarkup {
	keyboard := make([][]tgbotapi.InlineKeyboardButton, len(rows))
	for i, row := range rows {
		keyboard[i] = make([]tgbotapi.InlineKeyboardButton, len(row))
		for j, btn := range row {
			// Telegram 回调数据上限 64 字节
			callbackData := btn.CallbackData
			if len(callbackData) > 64 {
				callbackData = callbackData[:64]
			}
			keyboard[i][j] = tgbotapi.NewInlineKeyboardButtonData(btn.Text, callbackData)
		}
	}
	return tgbotapi.InlineKeyboardMarkup{InlineKeyboard: keyboard}
}

// BuildRelayKeyboard 转发卡片下方的操作按钮
func BuildRelayKeyboard(conversationID string) tgbotapi.InlineKeyboardMarkup {
	return BuildInlineKeyboard([][]InlineButton{
		{
			{Text: "💬 Balas Cepat", CallbackData: callbackReplyPrefix + conversationID},
			{Text: "✅ Tutup Tiket", CallbackData: callbackClosePrefix + conversationID},
		},
	})
}
