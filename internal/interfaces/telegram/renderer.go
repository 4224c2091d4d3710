package telegram

import (
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/balasin/balasin/internal/application/usecase"
	"github.com/balasin/balasin/internal/domain/conversation"
	appErrors "github.com/balasin/balasin/pkg/errors"
)

// 客服可见的固定文案。产品面向印尼团队, 文案保持印尼语。
const (
	helpText = `📖 <b>Perintah yang tersedia</b>

<code>!balas &lt;conversationId&gt; &lt;pesan&gt;</code> — kirim balasan ke percakapan
<code>!list</code> — daftar percakapan aktif
<code>!tutup &lt;conversationId&gt;</code> — tutup percakapan
<code>!help</code> — tampilkan pesan ini
<code>!debug</code> — diagnostik (khusus admin)

Atau pakai tombol 💬 Balas Cepat di bawah setiap pesan masuk.`

	replyUsageText = "Format command salah. Gunakan: <code>!balas &lt;conversationId&gt; &lt;pesan balasan&gt;</code>"
	closeUsageText = "Format command salah. Gunakan: <code>!tutup &lt;conversationId&gt;</code>"
	emptyListText  = "Tidak ada percakapan aktif."
	forbiddenText  = "⛔ Perintah <code>!debug</code> khusus admin."
)

// RenderRelayCard 渲染转发卡片 (HTML)
func RenderRelayCard(card usecase.RelayCard) string {
	var b strings.Builder

	fmt.Fprintf(&b, "💬 <b>Pesan Baru dari Aplikasi</b> (User: %s)\n", html.EscapeString(card.UserID))
	fmt.Fprintf(&b, "<b>Conversation ID:</b> <code>%s</code>\n", html.EscapeString(card.ConversationID))
	if card.MessageID != "" {
		fmt.Fprintf(&b, "<b>Message ID (App):</b> <code>%s</code>\n", html.EscapeString(card.MessageID))
	}
	fmt.Fprintf(&b, "<b>Waktu (App):</b> %s\n", card.SentAt.Format("02 Jan 2006 15:04:05 MST"))
	if card.UserInfo != "" {
		fmt.Fprintf(&b, "<b>Info User:</b> %s\n", html.EscapeString(card.UserInfo))
	}

	b.WriteString("<b>Pesan:</b>\n")
	b.WriteString(MarkdownToTelegramHTML(card.Content))
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "🔑 Untuk membalas: <code>!balas %s [pesan]</code> — atau pakai tombol di bawah.",
		html.EscapeString(card.ConversationID))

	return b.String()
}

// RenderConfirmation 渲染回复成功的确认
func RenderConfirmation(c usecase.ReplyConfirmation) string {
	return fmt.Sprintf(
		"✅ Balasan tersimpan untuk <code>%s</code>\n<b>Oleh:</b> %s\n<b>Waktu:</b> %s\n<b>Isi:</b> %s",
		html.EscapeString(c.ConversationID),
		html.EscapeString(c.SupporterName),
		c.SentAt.Format("15:04:05"),
		html.EscapeString(c.Content),
	)
}

// RenderFailure 渲染回复失败 — 始终带上原始正文, 方便客服重试
func RenderFailure(f usecase.ReplyFailure) string {
	var b strings.Builder

	switch f.Code {
	case string(appErrors.CodeInvalidInput):
		return replyUsageText
	case string(appErrors.CodeStoreUnavailable):
		b.WriteString("❌ Database tidak bisa dihubungi.")
	case string(appErrors.CodePersistFailed):
		b.WriteString("❌ Gagal menyimpan balasan ke database.")
	default:
		b.WriteString("❌ Terjadi kesalahan saat memproses balasan.")
	}

	if f.Detail != "" {
		fmt.Fprintf(&b, "\n<b>Detail:</b> <code>%s</code>", html.EscapeString(f.Detail))
	}
	if f.EchoContent != "" {
		fmt.Fprintf(&b, "\n\nBalasan Anda (tidak hilang, silakan kirim ulang):\n<code>%s</code>",
			html.EscapeString(f.EchoContent))
	}

	return b.String()
}

// RenderConversationList 渲染活跃会话列表
func RenderConversationList(snapshots []conversation.Snapshot) string {
	if len(snapshots) == 0 {
		return emptyListText
	}

	var b strings.Builder
	fmt.Fprintf(&b, "📋 <b>Percakapan aktif (%d)</b>\n", len(snapshots))
	for _, s := range snapshots {
		fmt.Fprintf(&b, "• <code>%s</code> — user %s, %d menit lalu\n",
			html.EscapeString(s.ConversationID),
			html.EscapeString(s.UserID),
			s.IdleMinutes,
		)
	}
	return strings.TrimRight(b.String(), "\n")
}

// RenderClosure 渲染关闭确认, 点名操作者
func RenderClosure(conversationID, closedBy string, existed bool) string {
	if !existed {
		return fmt.Sprintf("Percakapan <code>%s</code> tidak ada di daftar aktif.",
			html.EscapeString(conversationID))
	}
	return fmt.Sprintf("🔒 Percakapan <code>%s</code> ditutup oleh %s.",
		html.EscapeString(conversationID), html.EscapeString(closedBy))
}

// RenderReplyPrompt 渲染快速回复提示 (force reply 的正文)
func RenderReplyPrompt(conversationID string) string {
	return fmt.Sprintf("💬 Balas percakapan <code>%s</code> — reply pesan ini dengan jawaban Anda.",
		html.EscapeString(conversationID))
}

// RenderDebugReport 渲染诊断报告: 只报配置有没有, 不泄露值
func RenderDebugReport(flags []ConfigFlag, probeErr error, probeElapsed time.Duration) string {
	var b strings.Builder
	b.WriteString("🔧 <b>Diagnostik</b>\n")
	for _, f := range flags {
		mark := "❌"
		if f.Set {
			mark = "✅"
		}
		fmt.Fprintf(&b, "%s %s\n", mark, html.EscapeString(f.Name))
	}

	if probeErr != nil {
		fmt.Fprintf(&b, "\nDatabase: ❌ <code>%s</code>", html.EscapeString(probeErr.Error()))
	} else {
		fmt.Fprintf(&b, "\nDatabase: ✅ terhubung (%s)", probeElapsed.Round(time.Millisecond))
	}
	return b.String()
}
