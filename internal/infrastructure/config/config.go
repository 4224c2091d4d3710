package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

// Config 应用配置
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Telegram TelegramConfig `mapstructure:"telegram"`
	Database DatabaseConfig `mapstructure:"database"`
	Log      LogConfig      `mapstructure:"log"`
}

// ServerConfig HTTP 服务配置
type ServerConfig struct {
	Host        string `mapstructure:"host"`
	Port        int    `mapstructure:"port"`
	Mode        string `mapstructure:"mode"`         // local, production
	AllowOrigin string `mapstructure:"allow_origin"` // CORS 白名单, 单一来源
}

// TelegramConfig Telegram 配置
type TelegramConfig struct {
	BotToken      string  `mapstructure:"bot_token"`
	SupportChatID int64   `mapstructure:"support_chat_id"` // 固定的支持频道
	AdminIDs      []int64 `mapstructure:"admin_ids"`       // 可执行 !debug 的用户
	Debug         bool    `mapstructure:"debug"`
}

// DatabaseConfig 数据库配置
type DatabaseConfig struct {
	Type string `mapstructure:"type"` // sqlite, postgres
	DSN  string `mapstructure:"dsn"`
}

// LogConfig 日志配置
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// IsAdmin 判断用户是否在管理员名单内
func (c *TelegramConfig) IsAdmin(userID int64) bool {
	for _, id := range c.AdminIDs {
		if id == userID {
			return true
		}
	}
	return false
}

// Load 加载配置, 返回配置和读到的 viper 实例（供热更新使用）
func Load() (*Config, *viper.Viper, error) {
	v := viper.New()

	// 设置默认值
	setDefaults(v)

	// ─── 分层配置加载 ───
	// 优先级 (低 → 高): 默认值 → 全局 ~/.balasin/ → 项目本地 → 环境变量
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	// Layer 1: 全局配置 ~/.balasin/config.yaml
	globalDir := filepath.Join(os.Getenv("HOME"), ".balasin")
	v.AddConfigPath(globalDir)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, nil, fmt.Errorf("failed to read global config: %w", err)
		}
	}

	// Layer 2: 项目本地配置 (覆盖层)
	for _, localDir := range []string{"./config", "."} {
		localPath := filepath.Join(localDir, "config.yaml")
		if _, err := os.Stat(localPath); err == nil {
			v2 := viper.New()
			v2.SetConfigFile(localPath)
			if err := v2.ReadInConfig(); err == nil {
				_ = v.MergeConfigMap(v2.AllSettings())
			}
			v.SetConfigFile(localPath) // WatchConfig 盯本地文件
			break
		}
	}

	// 环境变量覆盖 (BALASIN_TELEGRAM_BOT_TOKEN 等)
	v.SetEnvPrefix("BALASIN")
	v.AutomaticEnv()
	bindEnvKeys(v)

	var cfg Config
	if err := v.Unmarshal(&cfg, WeaklyTypedInput); err != nil {
		return nil, nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, v, nil
}

// WeaklyTypedInput 让环境变量的字符串值也能解进数值字段,
// 比如 BALASIN_TELEGRAM_ADMIN_IDS="11,22" → []int64
func WeaklyTypedInput(dc *mapstructure.DecoderConfig) {
	dc.WeaklyTypedInput = true
}

// setDefaults 设置默认配置
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 3001)
	v.SetDefault("server.mode", "local")
	v.SetDefault("server.allow_origin", "http://localhost:3000")

	v.SetDefault("database.type", "sqlite")
	v.SetDefault("database.dsn", "balasin.db")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
}

// bindEnvKeys 显式绑定嵌套键。
// AutomaticEnv 对 Unmarshal 不会联想嵌套键, 需要逐个绑定。
func bindEnvKeys(v *viper.Viper) {
	for _, key := range []string{
		"server.host",
		"server.port",
		"server.mode",
		"server.allow_origin",
		"telegram.bot_token",
		"telegram.support_chat_id",
		"telegram.admin_ids", // 逗号分隔
		"telegram.debug",
		"database.type",
		"database.dsn",
		"log.level",
		"log.format",
	} {
		_ = v.BindEnv(key)
	}
}
