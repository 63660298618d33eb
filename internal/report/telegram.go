package report

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"crypto-market-screener/internal/model"
	"crypto-market-screener/internal/service"

	"go.uber.org/zap"
)

const telegramAPIBase = "https://api.telegram.org"

// TelegramNotifier 通过 Telegram Bot API 投递报告
type TelegramNotifier struct {
	apiBase    string // 可注入，测试时指向 httptest server
	token      string
	chatID     string
	httpClient *http.Client
	logger     *zap.SugaredLogger
}

// NewTelegramNotifier 初始化 Telegram 通知器
func NewTelegramNotifier(cfg *service.TelegramConfig, timeout time.Duration, logger *zap.SugaredLogger) *TelegramNotifier {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &TelegramNotifier{
		apiBase:    telegramAPIBase,
		token:      cfg.BotToken,
		chatID:     cfg.ChatID,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// SendReport 格式化并推送完整扫描报告
func (t *TelegramNotifier) SendReport(ctx context.Context, result *model.ScanResult) error {
	return t.sendMessage(ctx, FormatReport(result))
}

// SendError 推送周期级错误简报
func (t *TelegramNotifier) SendError(ctx context.Context, scanErr error) error {
	return t.sendMessage(ctx, FormatError(scanErr, time.Now()))
}

func (t *TelegramNotifier) sendMessage(ctx context.Context, text string) error {
	payload := map[string]string{
		"chat_id":    t.chatID,
		"text":       text,
		"parse_mode": "Markdown",
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", t.apiBase, t.token)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("telegram request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("telegram status %d: %s", resp.StatusCode, string(b))
	}

	t.logger.Info("Report sent to Telegram")
	return nil
}
