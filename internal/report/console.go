package report

import (
	"context"
	"fmt"
	"time"

	"crypto-market-screener/internal/model"

	"go.uber.org/zap"
)

// ConsoleNotifier 把报告打印到标准输出
// Telegram 未配置时的回退渠道，也便于本地调试
type ConsoleNotifier struct {
	logger *zap.SugaredLogger
}

// NewConsoleNotifier 初始化控制台通知器
func NewConsoleNotifier(logger *zap.SugaredLogger) *ConsoleNotifier {
	return &ConsoleNotifier{logger: logger}
}

func (c *ConsoleNotifier) SendReport(_ context.Context, result *model.ScanResult) error {
	fmt.Println("--- SCAN REPORT ---")
	fmt.Println(FormatReport(result))
	fmt.Println("-------------------")
	return nil
}

func (c *ConsoleNotifier) SendError(_ context.Context, scanErr error) error {
	c.logger.Warnw("Scan failed, error report printed to console", "error", scanErr)
	fmt.Println(FormatError(scanErr, time.Now()))
	return nil
}
