package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"crypto-market-screener/internal/model"
	"crypto-market-screener/internal/service"

	"go.uber.org/zap"
)

// Bybit v5 公共行情接口的 category，本项目只看 USDT 永续
const category = "linear"

// Client 是 Bybit v5 公共行情的 REST 客户端，实现 screener.MarketData
// 无状态，连接复用交给 http.Transport
type Client struct {
	baseURL     string
	quoteSuffix string // 例如 "USDT"，不匹配的交易对在这里就被排除
	httpClient  *http.Client
	logger      *zap.SugaredLogger
}

// NewClient 初始化行情客户端
func NewClient(cfg *service.ExchangeConfig, quoteSuffix string, logger *zap.SugaredLogger) *Client {
	timeout := cfg.APITimeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	return &Client{
		baseURL:     cfg.RESTURL,
		quoteSuffix: quoteSuffix,
		logger:      logger,
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				DialContext:         (&net.Dialer{Timeout: 5 * time.Second, KeepAlive: 15 * time.Second}).DialContext,
				MaxIdleConns:        100,
				IdleConnTimeout:     90 * time.Second,
				TLSHandshakeTimeout: 5 * time.Second,
			},
		},
	}
}

// bybitResponse Bybit v5 的通用响应外壳，result 延迟解析
type bybitResponse struct {
	RetCode int             `json:"retCode"`
	RetMsg  string          `json:"retMsg"`
	Result  json.RawMessage `json:"result"`
}

type klineResult struct {
	Symbol string     `json:"symbol"`
	List   [][]string `json:"list"` // [startTime, open, high, low, close, volume, turnover]，最新在前
}

type tickerEntry struct {
	Symbol            string `json:"symbol"`
	LastPrice         string `json:"lastPrice"`
	Price24hPcnt      string `json:"price24hPcnt"`
	Turnover24h       string `json:"turnover24h"`
	OpenInterestValue string `json:"openInterestValue"`
}

type tickersResult struct {
	List []tickerEntry `json:"list"`
}

// fetchResult 发送 GET 请求并解出 result 字段
func (c *Client) fetchResult(ctx context.Context, endpoint string, params map[string]string, target interface{}) error {
	u, err := url.Parse(c.baseURL + endpoint)
	if err != nil {
		return fmt.Errorf("invalid base URL or endpoint: %w", err)
	}
	q := u.Query()
	for k, v := range params {
		q.Set(k, v)
	}
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("http GET failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("status %d: %s", resp.StatusCode, string(b))
	}

	var outer bybitResponse
	if err := json.NewDecoder(resp.Body).Decode(&outer); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	if outer.RetCode != 0 {
		return fmt.Errorf("bybit retCode %d: %s", outer.RetCode, outer.RetMsg)
	}
	return json.Unmarshal(outer.Result, target)
}

// FetchCandles 拉取 K 线序列
// Bybit 返回最新在前，这里反转为时间升序；空列表视为错误
func (c *Client) FetchCandles(ctx context.Context, symbol, interval string, limit int) ([]model.Candle, error) {
	var result klineResult
	err := c.fetchResult(ctx, "/v5/market/kline", map[string]string{
		"category": category,
		"symbol":   symbol,
		"interval": interval,
		"limit":    strconv.Itoa(limit),
	}, &result)
	if err != nil {
		return nil, err
	}
	if len(result.List) == 0 {
		return nil, fmt.Errorf("no kline data for %s", symbol)
	}

	candles := make([]model.Candle, 0, len(result.List))
	// 反向遍历：把最新在前的响应转成升序序列
	for i := len(result.List) - 1; i >= 0; i-- {
		row := result.List[i]
		if len(row) < 7 {
			continue
		}

		ms, err := service.StringToInt64(row[0])
		if err != nil {
			continue
		}
		open, err1 := service.StringToFloat(row[1])
		high, err2 := service.StringToFloat(row[2])
		low, err3 := service.StringToFloat(row[3])
		closePrice, err4 := service.StringToFloat(row[4])
		volume, err5 := service.StringToFloat(row[5])
		turnover, err6 := service.StringToFloat(row[6])
		if err1 != nil || err2 != nil || err3 != nil || err4 != nil || err5 != nil || err6 != nil {
			continue
		}

		candles = append(candles, model.Candle{
			StartTime: time.UnixMilli(ms).UTC(),
			Open:      open,
			High:      high,
			Low:       low,
			Close:     closePrice,
			Volume:    volume,
			Turnover:  turnover,
		})
	}
	if len(candles) == 0 {
		return nil, fmt.Errorf("kline data for %s is malformed", symbol)
	}
	return candles, nil
}

// FetchAllTickers 拉取全部 USDT 永续的 24h 快照
// 不以 quoteSuffix 结尾的交易对在这里被排除 (流动性过滤的前置条件)
func (c *Client) FetchAllTickers(ctx context.Context) ([]model.TickerSnapshot, error) {
	var result tickersResult
	err := c.fetchResult(ctx, "/v5/market/tickers", map[string]string{
		"category": category,
	}, &result)
	if err != nil {
		return nil, err
	}
	if len(result.List) == 0 {
		return nil, fmt.Errorf("ticker list is empty")
	}

	snapshots := make([]model.TickerSnapshot, 0, len(result.List))
	for _, t := range result.List {
		if !strings.HasSuffix(t.Symbol, c.quoteSuffix) {
			continue
		}

		// 数值字段偶尔为空串 (新上市合约)，当 0 处理而不是丢弃整个快照
		snapshots = append(snapshots, model.TickerSnapshot{
			Symbol:            t.Symbol,
			LastPrice:         parseFloatOrZero(t.LastPrice),
			Price24hPcnt:      parseFloatOrZero(t.Price24hPcnt),
			Turnover24h:       parseFloatOrZero(t.Turnover24h),
			OpenInterestValue: parseFloatOrZero(t.OpenInterestValue),
		})
	}

	c.logger.Infow("Tickers fetched", "total", len(result.List), "matched_quote", len(snapshots))
	return snapshots, nil
}

func parseFloatOrZero(s string) float64 {
	f, err := service.StringToFloat(s)
	if err != nil {
		return 0
	}
	return f
}
