package telegram

import "strings"

// Command 支持频道里的一条指令
type Command struct {
	Name    string   // 指令名, 不含前缀, 已转小写
	Args    []string // 按空白切分的参数
	RawArgs string   // 原始参数串
}

// ParseCommand 解析指令文本。
// 兼容 `!` (历史习惯) 和 `/` (Telegram 原生) 两种前缀;
// 识别只看首个 token, 非指令文本返回 nil。
func ParseCommand(text string) *Command {
	trimmed := strings.TrimSpace(text)
	if len(trimmed) < 2 {
		return nil
	}
	if trimmed[0] != '!' && trimmed[0] != '/' {
		return nil
	}

	parts := strings.SplitN(trimmed[1:], " ", 2)
	name := parts[0]
	// 群组里的 /cmd@botname
	if idx := strings.Index(name, "@"); idx != -1 {
		name = name[:idx]
	}
	if name == "" {
		return nil
	}

	cmd := &Command{Name: strings.ToLower(name)}
	if len(parts) > 1 {
		cmd.RawArgs = strings.TrimSpace(parts[1])
		cmd.Args = strings.Fields(cmd.RawArgs)
	}
	return cmd
}

// SplitReplyArgs 把 `!balas <conversationId> <pesan...>` 的参数拆成
// 会话ID和回复正文。正文为空时第二个返回值为空串。
func SplitReplyArgs(rawArgs string) (conversationID, content string) {
	rawArgs = strings.TrimSpace(rawArgs)
	if rawArgs == "" {
		return "", ""
	}
	parts := strings.SplitN(rawArgs, " ", 2)
	conversationID = parts[0]
	if len(parts) > 1 {
		content = strings.TrimSpace(parts[1])
	}
	return conversationID, content
}
