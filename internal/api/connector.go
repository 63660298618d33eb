package api

import (
	"encoding/json"
	"sync"
	"time"

	"crypto-market-screener/internal/service"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Bybit 公共 WS 要求 20s 内至少一次 ping
const pingInterval = 20 * time.Second

// wsMessage Bybit v5 公共频道的通用响应结构，data 延迟解析
type wsMessage struct {
	Topic   string          `json:"topic"`
	Type    string          `json:"type"`
	Data    json.RawMessage `json:"data"`
	Op      string          `json:"op"`
	Success *bool           `json:"success,omitempty"`
}

// wsTickerData tickers 频道的字段子集
// delta 推送可能缺省字段，lastPrice 为空时跳过该条
type wsTickerData struct {
	Symbol    string `json:"symbol"`
	LastPrice string `json:"lastPrice"`
}

// Connector 订阅基准币的实时行情，监控价格相对上次扫描基线的偏离
// 偏离超过阈值时向触发通道发送一次提前扫描请求
type Connector struct {
	wsURL        string
	symbol       string // 基准币，例如 "BTCUSDT"
	driftPercent float64
	triggerChan  chan float64

	mu       sync.Mutex
	baseline float64 // 上次扫描时的基准价，0 表示尚未建立

	logger *zap.SugaredLogger
}

// NewConnector 初始化行情流连接器
func NewConnector(wsURL, symbol string, driftPercent float64, logger *zap.SugaredLogger) *Connector {
	return &Connector{
		wsURL:        wsURL,
		symbol:       symbol,
		driftPercent: driftPercent,
		triggerChan:  make(chan float64, 1),
		logger:       logger,
	}
}

// TriggerChannel 供调度循环 select 使用，值为触发时的最新价
func (c *Connector) TriggerChannel() <-chan float64 {
	return c.triggerChan
}

// ResetBaseline 每次扫描完成后由调度方调用，重置偏离基线
func (c *Connector) ResetBaseline(price float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.baseline = price
}

// Start 启动 WS 连接和接收循环，断线后自动重连
// 在独立的 Goroutine 中运行
func (c *Connector) Start() {
	for {
		if err := c.connectAndRead(); err != nil {
			c.logger.Warnw("WS connection lost, reconnecting...", "error", err)
		}
		time.Sleep(5 * time.Second)
	}
}

func (c *Connector) connectAndRead() error {
	conn, _, err := websocket.DefaultDialer.Dial(c.wsURL, nil)
	if err != nil {
		return err
	}
	defer conn.Close()

	subscribeMsg := map[string]interface{}{
		"op":   "subscribe",
		"args": []string{"tickers." + c.symbol},
	}
	if err := conn.WriteJSON(subscribeMsg); err != nil {
		return err
	}
	c.logger.Infow("Subscribed to ticker stream", "symbol", c.symbol)

	// 心跳循环，连接断开时随 done 退出
	done := make(chan struct{})
	defer close(done)
	go func() {
		ticker := time.NewTicker(pingInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if err := conn.WriteJSON(map[string]string{"op": "ping"}); err != nil {
					return
				}
			case <-done:
				return
			}
		}
	}()

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			return err
		}

		var msg wsMessage
		if err := json.Unmarshal(message, &msg); err != nil {
			continue
		}
		if msg.Op != "" || msg.Topic == "" || len(msg.Data) == 0 {
			continue // 订阅确认 / pong
		}

		var data wsTickerData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.logger.Debugw("Ticker data unmarshal error", "error", err)
			continue
		}
		if data.LastPrice == "" {
			continue // delta 推送未带价格
		}

		price, err := service.StringToFloat(data.LastPrice)
		if err != nil || price <= 0 {
			continue
		}
		c.checkDrift(price)
	}
}

// checkDrift 价格偏离基线超过阈值时发出触发信号并重置基线
// 通道已满 (上一次触发还没被消费) 时直接丢弃，避免阻塞读循环
func (c *Connector) checkDrift(price float64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.baseline <= 0 {
		c.baseline = price
		return
	}

	drift := (price - c.baseline) / c.baseline * 100
	if drift < 0 {
		drift = -drift
	}
	if drift < c.driftPercent {
		return
	}

	select {
	case c.triggerChan <- price:
		c.logger.Infow("Price drift threshold hit, early rescan requested",
			"symbol", c.symbol, "baseline", c.baseline, "price", price, "drift_percent", drift)
	default:
	}
	c.baseline = price
}
