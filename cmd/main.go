package main

import (
	"context"
	"log"
	"os"
	"time"

	"crypto-market-screener/internal/api"
	"crypto-market-screener/internal/report"
	"crypto-market-screener/internal/screener"
	"crypto-market-screener/internal/service"
)

func main() {
	configPath := "config"
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		log.Fatal("Configuration directory 'config/' not found. Please create it.")
	}
	cfg := service.LoadConfig(configPath)

	service.InitLogger(cfg.LogFile)
	defer service.Logger.Sync()
	logger := service.Logger.Sugar()

	// 1. 行情客户端 + 扫描编排器
	client := api.NewClient(&cfg.Exchange, cfg.Scan.QuoteSuffix, logger.With("component", "api"))
	scr, err := screener.New(client, cfg, logger.With("component", "screener"))
	if err != nil {
		logger.Fatalw("Failed to build screener", "error", err)
	}

	// 2. 通知渠道：Token 未配置时回退到控制台输出
	var notifier report.Notifier
	if cfg.Telegram.BotToken != "" {
		notifier = report.NewTelegramNotifier(&cfg.Telegram, cfg.Exchange.APITimeout, logger.With("component", "telegram"))
	} else {
		logger.Warn("Telegram token not configured, reports go to console")
		notifier = report.NewConsoleNotifier(logger.With("component", "console"))
	}

	// 3. 行情流连接器 (可选)：基准币价格大幅偏离时触发提前扫描
	var trigger <-chan float64
	var connector *api.Connector
	if cfg.Stream.Enabled {
		connector = api.NewConnector(
			cfg.Exchange.WSURL,
			cfg.Scan.ReferenceSymbol,
			cfg.Stream.RescanDriftPercent,
			logger.With("component", "connector"))
		trigger = connector.TriggerChannel()
		go connector.Start()
	}

	runScan := func(reason string) {
		logger.Infow("Starting market scan", "reason", reason)
		ctx := context.Background()

		result, err := scr.RunScan(ctx)
		if err != nil {
			// 周期级失败：报告错误，进程继续等下一个周期
			logger.Errorw("Scan cycle failed", "error", err)
			if sendErr := notifier.SendError(ctx, err); sendErr != nil {
				logger.Errorw("Failed to deliver error report", "error", sendErr)
			}
			return
		}

		if err := notifier.SendReport(ctx, result); err != nil {
			logger.Errorw("Failed to deliver scan report", "error", err)
		}
		if connector != nil {
			// 基线归零，由下一条行情重新建立
			connector.ResetBaseline(0)
		}
	}

	// 启动时立即扫描一次，之后按周期 + 偏离触发
	runScan("startup")

	interval := time.Duration(cfg.Scan.IntervalHours) * time.Hour
	logger.Infow("Screener is running", "interval", interval, "stream_enabled", cfg.Stream.Enabled)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			runScan("schedule")
		case price := <-trigger:
			logger.Infow("Early rescan triggered by price drift", "price", price)
			runScan("price-drift")
		}
	}
}
