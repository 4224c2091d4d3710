package eventbus

import (
	"sync"

	"go.uber.org/zap"

	"github.com/balasin/balasin/internal/application/usecase"
)

// Handler 事件处理函数
type Handler func(event usecase.Event)

// Bus 桥接事件总线。用例只往这里发, 订阅方 (websocket 推送等) 在
// 装配时挂上来; 分发在独立协程完成, 发布侧永不阻塞。
// 实现了 usecase.EventPublisher。
type Bus struct {
	mu        sync.RWMutex
	handlers  map[string][]Handler
	eventChan chan usecase.Event
	closed    bool
	logger    *zap.Logger
	wg        sync.WaitGroup
}

// NewBus 创建事件总线并启动分发协程
func NewBus(logger *zap.Logger, bufferSize int) *Bus {
	bus := &Bus{
		handlers:  make(map[string][]Handler),
		eventChan: make(chan usecase.Event, bufferSize),
		logger:    logger,
	}

	bus.wg.Add(1)
	go bus.dispatch()

	return bus
}

// Publish 发布事件, 非阻塞; 缓冲满时丢弃并告警。
// 事件只是通知, 丢一条不影响转发和落库本身。
// 读锁跨住发送: Close 拿写锁关 channel, 不会撞上进行中的发送。
func (b *Bus) Publish(event usecase.Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return
	}

	select {
	case b.eventChan <- event:
	default:
		b.logger.Warn("Event buffer full, dropping event",
			zap.String("type", event.Type),
			zap.String("conversation_id", event.ConversationID),
		)
	}
}

// Subscribe 订阅指定类型的事件, "*" 订阅全部
func (b *Bus) Subscribe(eventType string, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[eventType] = append(b.handlers[eventType], handler)
}

// Close 关闭总线, 等待已入队事件分发完毕
func (b *Bus) Close() {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.closed = true
	close(b.eventChan)
	b.mu.Unlock()

	b.wg.Wait()
	b.logger.Info("Event bus closed")
}

// dispatch 事件分发循环
func (b *Bus) dispatch() {
	defer b.wg.Done()

	for event := range b.eventChan {
		b.mu.RLock()
		handlers := make([]Handler, 0, len(b.handlers[event.Type])+len(b.handlers["*"]))
		handlers = append(handlers, b.handlers[event.Type]...)
		handlers = append(handlers, b.handlers["*"]...)
		b.mu.RUnlock()

		for _, h := range handlers {
			h(event)
		}
	}
}
