package application

import (
	"context"
	"time"

	"github.com/balasin/balasin/internal/domain/repository"
	"github.com/balasin/balasin/internal/infrastructure/config"
	"github.com/balasin/balasin/internal/interfaces/telegram"
)

// probeTimeout !debug 存储探测的时间上限
const probeTimeout = 5 * time.Second

// diagnostics telegram.Diagnostics 的实现。
// 只报告配置项有没有设置, 绝不泄露值本身。
type diagnostics struct {
	cfg  *config.Config
	repo repository.MessageRepository
}

func newDiagnostics(cfg *config.Config, repo repository.MessageRepository) *diagnostics {
	return &diagnostics{cfg: cfg, repo: repo}
}

// ConfigFlags 关键配置的存在性清单
func (d *diagnostics) ConfigFlags() []telegram.ConfigFlag {
	return []telegram.ConfigFlag{
		{Name: "TELEGRAM_BOT_TOKEN", Set: d.cfg.Telegram.BotToken != ""},
		{Name: "TELEGRAM_SUPPORT_CHAT_ID", Set: d.cfg.Telegram.SupportChatID != 0},
		{Name: "TELEGRAM_ADMIN_IDS", Set: len(d.cfg.Telegram.AdminIDs) > 0},
		{Name: "DATABASE_DSN", Set: d.cfg.Database.DSN != ""},
		{Name: "SERVER_ALLOW_ORIGIN", Set: d.cfg.Server.AllowOrigin != ""},
	}
}

// ProbeStore 有界的存储连通性探测
func (d *diagnostics) ProbeStore(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()
	return d.repo.Ping(ctx)
}
