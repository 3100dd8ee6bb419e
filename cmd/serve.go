package main

import (
	"context"
	"net"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"taxiservice/config"
	"taxiservice/pkg/api"
	"taxiservice/pkg/auth"
	"taxiservice/pkg/bot"
	"taxiservice/pkg/logger"
	"taxiservice/service"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the web application",
	Long: `Run the web application.

The Telegram admin bot is started alongside it when ADMIN_BOT_TOKEN is set.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(parent context.Context) error {
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.Load()
	log := newLogger(cfg)
	defer func() { _ = log.Sync() }()

	if err := cfg.Validate(); err != nil {
		return err
	}

	stg, err := openStorage(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer stg.Close()

	svc := service.New(stg, log)

	if cfg.LoggerLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	router, err := api.NewRouter(api.Options{
		Services: svc,
		Storage:  stg,
		Sessions:      auth.NewSessionManager(cfg.SessionSecret, cfg.SessionTTL),
		Log:           log,
		SecureCookies: cfg.SessionCookieSecure,
	})
	if err != nil {
		return err
	}

	if cfg.AdminBotToken != "" {
		adminBot, err := bot.New(ctx, &cfg, svc, log)
		if err != nil {
			log.Error("failed to initialize admin bot", logger.Error(err))
		} else {
			go adminBot.Start()
			defer adminBot.Stop()
		}
	}

	addr := net.JoinHostPort(cfg.AppHost, strconv.Itoa(cfg.AppPort))
	return api.RunServer(ctx, addr, router, log)
}
