package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/balasin/balasin/internal/application"
	"github.com/balasin/balasin/internal/infrastructure/config"
	"github.com/balasin/balasin/internal/infrastructure/logger"
)

const (
	appName    = "balasin"
	appVersion = "0.1.0"
)

func main() {
	// .env 便于本地开发, 文件不存在时静默跳过
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:   appName,
		Short: "Balasin — customer support message bridge",
		Long:  "Balasin relays customer messages from the app into a Telegram support channel and stores support replies back into the message database.",
		RunE:  runServe,
	}

	// --- Subcommands ---

	rootCmd.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Start the bridge (HTTP API + Telegram bot)",
		RunE:  runServe,
	})

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Show version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("%s v%s\n", appName, appVersion)
		},
	})

	rootCmd.AddCommand(&cobra.Command{
		Use:   "doctor",
		Short: "Check local configuration",
		RunE:  runDoctor,
	})

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, v, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.NewLogger(logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		OutputPath: "stdout",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	log.Info("Starting Balasin bridge",
		zap.String("version", appVersion),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	app, err := application.NewApp(cfg, v, log)
	if err != nil {
		log.Fatal("Failed to initialize application", zap.Error(err))
	}

	if err := app.Start(ctx); err != nil {
		log.Fatal("Failed to start application", zap.Error(err))
	}

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	sig := <-quit
	log.Info("Received shutdown signal", zap.String("signal", sig.String()))

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := app.Stop(shutdownCtx); err != nil {
		log.Error("Error during shutdown", zap.Error(err))
		os.Exit(1)
	}

	log.Info("Application stopped successfully")
	return nil
}

// ─── Doctor ───

func runDoctor(cmd *cobra.Command, args []string) error {
	fmt.Printf("◇ Balasin Doctor v%s\n\n", appVersion)

	checks := []struct {
		name  string
		check func() (string, bool)
	}{
		{"Config file", checkConfigFile},
		{"Bot token", checkEnvOrConfig("BALASIN_TELEGRAM_BOT_TOKEN")},
		{"Support chat", checkEnvOrConfig("BALASIN_TELEGRAM_SUPPORT_CHAT_ID")},
	}

	allOK := true
	for _, c := range checks {
		val, ok := c.check()
		icon := "\033[92m✓\033[0m"
		if !ok {
			icon = "\033[91m✗\033[0m"
			allOK = false
		}
		fmt.Printf("  %s %s: %s\n", icon, c.name, val)
	}

	fmt.Println()
	if allOK {
		fmt.Println("All checks passed ✓")
	} else {
		fmt.Println("Some checks failed, see marks above")
	}
	return nil
}

func checkConfigFile() (string, bool) {
	for _, path := range []string{
		os.Getenv("HOME") + "/.balasin/config.yaml",
		"./config/config.yaml",
		"./config.yaml",
	} {
		if _, err := os.Stat(path); err == nil {
			return path, true
		}
	}
	return "no config.yaml found (env vars may still cover everything)", false
}

// checkEnvOrConfig 只确认环境变量是否设置, 配置文件里的值由 serve 自行校验
func checkEnvOrConfig(envKey string) func() (string, bool) {
	return func() (string, bool) {
		if os.Getenv(envKey) != "" {
			return "set via " + envKey, true
		}
		return envKey + " not set", false
	}
}
