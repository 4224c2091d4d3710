package conversation

import (
	"sync"
	"time"
)

// Entry 活跃会话条目。UserID 和 CreatedAt 在首次写入后不再变更。
type Entry struct {
	ConversationID  string
	UserID          string
	RelayMessageRef int // 最近一次转发到支持频道的消息ID
	CreatedAt       time.Time
	LastActivityAt  time.Time
}

// Snapshot 带闲置时长的条目快照
type Snapshot struct {
	Entry
	IdleMinutes int
}

// Index 活跃会话索引 — 进程内缓存, 不是事实来源。
// 只记录本进程启动以来见过的会话; 条目仅通过显式关闭或进程重启消失。
// 多个 goroutine 并发读写, 以互斥锁保护; 同键并发写为后写覆盖, 不做合并。
type Index struct {
	mu      sync.RWMutex
	entries map[string]*Entry
	order   []string // 插入顺序, List 按此顺序产出
}

// NewIndex 创建空索引
func NewIndex() *Index {
	return &Index{
		entries: make(map[string]*Entry),
	}
}

// Upsert 写入或更新会话条目。
// 条目不存在时插入, UserID 和 CreatedAt 定格于首次插入;
// 已存在时只更新 RelayMessageRef 和 LastActivityAt。
func (idx *Index) Upsert(conversationID, userID string, relayMessageRef int, now time.Time) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	if e, ok := idx.entries[conversationID]; ok {
		e.RelayMessageRef = relayMessageRef
		e.LastActivityAt = now
		return
	}

	idx.entries[conversationID] = &Entry{
		ConversationID:  conversationID,
		UserID:          userID,
		RelayMessageRef: relayMessageRef,
		CreatedAt:       now,
		LastActivityAt:  now,
	}
	idx.order = append(idx.order, conversationID)
}

// Touch 刷新 LastActivityAt。
// 条目不存在时静默返回 — 重启后索引已遗忘的会话仍可能收到回复。
func (idx *Index) Touch(conversationID string, now time.Time) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	if e, ok := idx.entries[conversationID]; ok {
		e.LastActivityAt = now
	}
}

// Remove 删除条目, 幂等。返回条目此前是否存在。
func (idx *Index) Remove(conversationID string) bool {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	if _, ok := idx.entries[conversationID]; !ok {
		return false
	}
	delete(idx.entries, conversationID)
	for i, id := range idx.order {
		if id == conversationID {
			idx.order = append(idx.order[:i], idx.order[i+1:]...)
			break
		}
	}
	return true
}

// Get 返回条目副本
func (idx *Index) Get(conversationID string) (Entry, bool) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	e, ok := idx.entries[conversationID]
	if !ok {
		return Entry{}, false
	}
	return *e, true
}

// List 按插入顺序产出全部条目快照, 闲置分钟数以传入的 now 计算
func (idx *Index) List(now time.Time) []Snapshot {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	snapshots := make([]Snapshot, 0, len(idx.order))
	for _, id := range idx.order {
		e, ok := idx.entries[id]
		if !ok {
			continue
		}
		snapshots = append(snapshots, Snapshot{
			Entry:       *e,
			IdleMinutes: int(now.Sub(e.LastActivityAt).Minutes()),
		})
	}
	return snapshots
}

// Len 返回条目数量
func (idx *Index) Len() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return len(idx.entries)
}
