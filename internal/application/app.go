package application

import (
	"context"
	"fmt"

	"github.com/spf13/viper"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/balasin/balasin/internal/application/usecase"
	"github.com/balasin/balasin/internal/domain/conversation"
	"github.com/balasin/balasin/internal/domain/repository"
	"github.com/balasin/balasin/internal/infrastructure/config"
	"github.com/balasin/balasin/internal/infrastructure/eventbus"
	"github.com/balasin/balasin/internal/infrastructure/persistence"
	httpServer "github.com/balasin/balasin/internal/interfaces/http"
	"github.com/balasin/balasin/internal/interfaces/telegram"
	"github.com/balasin/balasin/internal/interfaces/websocket"
	"github.com/balasin/balasin/pkg/safego"
)

// App 应用程序（依赖注入容器）
type App struct {
	config  *config.Config
	watcher *config.Watcher
	logger  *zap.Logger
	db      *gorm.DB

	// 仓储层
	messageRepo repository.MessageRepository

	// 领域状态
	index *conversation.Index

	// 应用服务
	relayUseCase  *usecase.RelayMessageUseCase
	submitUseCase *usecase.SubmitReplyUseCase
	closeUseCase  *usecase.CloseConversationUseCase

	// 基础设施
	bus *eventbus.Bus

	// 接口层
	hub             *websocket.Hub
	telegramAdapter *telegram.Adapter
	httpServer      *httpServer.Server

	hubCancel context.CancelFunc
}

// NewApp 创建应用程序。v 是 Load 返回的 viper 实例, 供配置热更新使用。
func NewApp(cfg *config.Config, v *viper.Viper, logger *zap.Logger) (*App, error) {
	app := &App{
		config:  cfg,
		watcher: config.NewWatcher(v, cfg, logger),
		logger:  logger,
		index:   conversation.NewIndex(),
	}

	if err := app.initRepositories(); err != nil {
		return nil, fmt.Errorf("failed to init repositories: %w", err)
	}

	if err := app.initInterfaces(); err != nil {
		return nil, fmt.Errorf("failed to init interfaces: %w", err)
	}

	return app, nil
}

// initRepositories 初始化仓储层
func (app *App) initRepositories() error {
	// memory 仅供本地开发, 进程退出即清空
	if app.config.Database.Type == "memory" {
		app.logger.Warn("Using in-memory message store, replies will not survive a restart")
		app.messageRepo = persistence.NewMemoryMessageRepository()
		return nil
	}

	db, err := persistence.NewDBConnection(&app.config.Database)
	if err != nil {
		return fmt.Errorf("failed to connect database: %w", err)
	}
	app.db = db
	app.messageRepo = persistence.NewGormMessageRepository(db)

	app.logger.Info("Message store initialized",
		zap.String("type", app.config.Database.Type),
	)
	return nil
}

// initInterfaces 初始化接口层并完成用例装配
func (app *App) initInterfaces() error {
	app.hub = websocket.NewHub(app.config.Server.AllowOrigin, app.logger)

	// 用例只认总线, websocket 推送是总线的一个订阅方
	app.bus = eventbus.NewBus(app.logger, 256)
	app.bus.Subscribe("*", app.hub.Publish)

	adapter, err := telegram.NewAdapter(&telegram.Config{
		BotToken:      app.config.Telegram.BotToken,
		SupportChatID: app.config.Telegram.SupportChatID,
		Debug:         app.config.Telegram.Debug,
	}, app.logger)
	if err != nil {
		return fmt.Errorf("failed to create telegram adapter: %w", err)
	}
	app.telegramAdapter = adapter

	app.relayUseCase = usecase.NewRelayMessageUseCase(adapter, app.index, app.bus, app.logger)
	app.submitUseCase = usecase.NewSubmitReplyUseCase(app.messageRepo, app.index, app.bus, app.logger)
	app.closeUseCase = usecase.NewCloseConversationUseCase(app.index, app.bus, app.logger)

	adapter.SetInterpreter(telegram.NewInterpreter(
		adapter,
		app.submitUseCase,
		app.closeUseCase,
		app.index,
		app.watcher,
		newDiagnostics(app.config, app.messageRepo),
		app.config.Telegram.SupportChatID,
		app.logger,
	))

	app.httpServer = httpServer.NewServer(httpServer.Config{
		Host:        app.config.Server.Host,
		Port:        app.config.Server.Port,
		Mode:        app.config.Server.Mode,
		AllowOrigin: app.config.Server.AllowOrigin,
	}, app.relayUseCase, app.index, app.hub, app.logger)

	return nil
}

// Start 启动应用程序
func (app *App) Start(ctx context.Context) error {
	app.logger.Info("Starting application")

	hubCtx, cancel := context.WithCancel(ctx)
	app.hubCancel = cancel
	safego.Go(app.logger, "websocket-hub", func() {
		app.hub.Run(hubCtx)
	})

	// 启动前确认支持频道可达, 早失败好过静默吞消息
	if err := app.telegramAdapter.ResolveChannel(ctx); err != nil {
		app.logger.Warn("Support channel not reachable at startup", zap.Error(err))
	}

	if err := app.telegramAdapter.Start(ctx); err != nil {
		return fmt.Errorf("failed to start telegram adapter: %w", err)
	}

	if err := app.httpServer.Start(ctx); err != nil {
		return fmt.Errorf("failed to start http server: %w", err)
	}

	app.watcher.Start()

	return nil
}

// Stop 停止应用程序
func (app *App) Stop(ctx context.Context) error {
	app.logger.Info("Stopping application")

	app.telegramAdapter.Stop()

	if err := app.httpServer.Stop(ctx); err != nil {
		app.logger.Error("Failed to stop http server", zap.Error(err))
	}

	if app.bus != nil {
		app.bus.Close()
	}

	if app.hubCancel != nil {
		app.hubCancel()
	}

	if app.db != nil {
		if sqlDB, err := app.db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}

	app.logger.Info("Application stopped")
	return nil
}
