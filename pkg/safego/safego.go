package safego

import (
	"go.uber.org/zap"
)

// Go 启动一个带 panic 兜底的 goroutine。
// polling 循环或单条更新的处理 panic 时只损失该 goroutine,
// 进程继续活着; panic 值和堆栈记入日志。
func Go(logger *zap.Logger, name string, fn func()) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("Goroutine panicked",
					zap.String("goroutine", name),
					zap.Any("panic", r),
					zap.Stack("stack"),
				)
			}
		}()
		fn()
	}()
}
