package report

import (
	"context"

	"crypto-market-screener/internal/model"
)

// Notifier 是扫描结果投递的通用接口，负责与通知渠道通信
type Notifier interface {
	// 格式化并投递一次扫描的完整报告
	SendReport(ctx context.Context, result *model.ScanResult) error

	// 投递周期级错误的简报 (扫描失败时调用)
	SendError(ctx context.Context, scanErr error) error
}
