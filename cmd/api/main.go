package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"cartwidget/internal/config"
	"cartwidget/internal/handler"
	"cartwidget/internal/infra/catalog"
	infraRepo "cartwidget/internal/infra/repository"
	"cartwidget/internal/logger"
	"cartwidget/internal/metrics"
	"cartwidget/internal/middleware"
	"cartwidget/internal/server"
	"cartwidget/internal/usecase"
	"cartwidget/internal/view"

	"github.com/joho/godotenv"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	//.envは任意
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log := logger.New(logger.Options{
		Service: "cartwidget",
		Env:     cfg.GoEnv,
		Level:   cfg.LogLevel,
	})

	//ストア（localStorage相当）
	storage, closeStorage, err := infraRepo.OpenStorage(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeStorage(); err != nil {
			log.Warn("close storage failed", "error", err)
		}
	}()

	//カタログとページ
	cat, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		return err
	}
	tmpl, err := view.NewPageTemplate(cat)
	if err != nil {
		return err
	}

	m := metrics.New()

	//Usecase / Handler
	widgetUC := usecase.NewWidgetUsecase(tmpl, storage, catalog.NewReader(), m, log)
	widgetH := handler.NewWidgetHandler(widgetUC)
	issuer := middleware.NewSessionIssuer(cfg.SessionSecret)

	e := server.New(log)
	server.RegisterRoutes(e, widgetH, issuer, m.Handler())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	//操作の無いセッションはメモリから捨てる（カートは保存済み）
	go widgetUC.RunEviction(ctx, cfg.WidgetIdleTTL, cfg.WidgetIdleTTL/2)

	log.Info("starting", "storage", cfg.StorageDriver, "courses", len(cat.Courses))
	return server.Start(ctx, e, cfg.Addr(), log)
}
