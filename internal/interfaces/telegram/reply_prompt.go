package telegram

import "sync"

// PromptRegistry 记录未完成的快速回复提示。
// 键是机器人发出的提示消息ID, 值是目标会话ID; 客服对提示消息的
// reply 到达时用 Take 取走, 一个提示只能兑现一次。
// 进程重启即清空 — 和会话索引一样只是便利缓存。
type PromptRegistry struct {
	mu      sync.Mutex
	pending map[int]string
}

// NewPromptRegistry 创建空注册表
func NewPromptRegistry() *PromptRegistry {
	return &PromptRegistry{
		pending: make(map[int]string),
	}
}

// Add 登记一个提示消息
func (r *PromptRegistry) Add(promptMessageID int, conversationID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pending[promptMessageID] = conversationID
}

// Take 取走并删除登记, 返回会话ID和是否命中
func (r *PromptRegistry) Take(promptMessageID int) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	conversationID, ok := r.pending[promptMessageID]
	if ok {
		delete(r.pending, promptMessageID)
	}
	return conversationID, ok
}

// Len 未兑现的提示数量
func (r *PromptRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.pending)
}
