package config

import (
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// Watcher 监听本地配置文件, 热更新可变项 (目前只有管理员名单)。
// bot token / 频道 / 端口等需要重启进程才生效。
type Watcher struct {
	v      *viper.Viper
	logger *zap.Logger

	mu       sync.RWMutex
	adminIDs []int64
}

// NewWatcher 创建配置监听器
func NewWatcher(v *viper.Viper, initial *Config, logger *zap.Logger) *Watcher {
	return &Watcher{
		v:        v,
		logger:   logger.With(zap.String("component", "config-watcher")),
		adminIDs: initial.Telegram.AdminIDs,
	}
}

// Start 开始监听。viper 内部用 fsnotify 盯配置文件变更。
func (w *Watcher) Start() {
	w.v.OnConfigChange(func(e fsnotify.Event) {
		var cfg Config
		if err := w.v.Unmarshal(&cfg, WeaklyTypedInput); err != nil {
			w.logger.Warn("Config reload failed",
				zap.String("file", e.Name),
				zap.Error(err),
			)
			return
		}

		w.mu.Lock()
		w.adminIDs = cfg.Telegram.AdminIDs
		w.mu.Unlock()

		w.logger.Info("Config reloaded",
			zap.String("file", e.Name),
			zap.String("op", e.Op.String()),
			zap.Int("admin_count", len(cfg.Telegram.AdminIDs)),
		)
	})
	w.v.WatchConfig()
}

// IsAdmin 判断用户是否在当前管理员名单内（线程安全）
func (w *Watcher) IsAdmin(userID int64) bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	for _, id := range w.adminIDs {
		if id == userID {
			return true
		}
	}
	return false
}
