package model

import "time"

// Candle 代表一根已完成的 K 线 (Bybit /v5/market/kline 解析后)
// 序列约定：按时间升序存储，最新一根在末尾
type Candle struct {
	StartTime time.Time // K 线起始时间
	Open      float64
	High      float64
	Low       float64
	Close     float64
	Volume    float64 // 币本位成交量
	Turnover  float64 // USDT 计价成交额
}

// TickerSnapshot 代表单个交易对的 24h 行情快照 (每个扫描周期刷新一次，只读)
type TickerSnapshot struct {
	Symbol            string  // 交易对，例如 "BTCUSDT"
	LastPrice         float64 // 最新成交价
	Price24hPcnt      float64 // 24h 涨跌幅 (小数，0.05 = +5%)
	Turnover24h       float64 // 24h 成交额 (USD)
	OpenInterestValue float64 // 未平仓合约价值 (USD)
}

// IndicatorSet 是指标引擎对一段 K 线序列的计算结果
// 以最新一根 K 线为基准点；历史长度不足时不会产生部分结果
type IndicatorSet struct {
	Close      float64 // 最新收盘价
	EMAShort   float64
	EMALong    float64
	ATRPercent float64 // ATR 占最新收盘价的百分比
	RSI        float64 // RSI(14)，仅用于报告展示，不参与评分
}

// BTCTrend BTC 宏观趋势标签
type BTCTrend string

const (
	TrendBullish BTCTrend = "Bullish"
	TrendBearish BTCTrend = "Bearish"
	TrendNeutral BTCTrend = "Neutral"
	TrendUnknown BTCTrend = "Unknown"
)

// MarketRegime 市场波动状态标签
type MarketRegime string

const (
	RegimeTrending MarketRegime = "Trending"
	RegimeQuiet    MarketRegime = "Quiet"
	RegimeChoppy   MarketRegime = "Choppy"
	RegimeUnknown  MarketRegime = "Unknown"
)

// RegimeReport 每个扫描周期只生成一次的宏观分析结果，生成后不可变
// 下游 (流动性过滤 + 评分) 用它来选择阈值档位
type RegimeReport struct {
	BTCTrend     BTCTrend
	MarketRegime MarketRegime
	ATRPercent   float64 // 分类时的 BTC ATR%，Unknown 时为 0
}

// TrendType 单币种趋势方向
type TrendType string

const (
	TrendTypeBullish TrendType = "bullish"
	TrendTypeBearish TrendType = "bearish"
)

// Stage 上涨趋势阶段 (只对 bullish 有意义)
type Stage string

const (
	StageEarly Stage = "Early"
	StageMid   Stage = "Mid"
	StageNA    Stage = "N/A"
)

// ScoredSymbol 是评分通过后的交易对：快照 + 趋势分类 + 健康分
// 评分产出后不可变，排名阶段只做排序和截断
type ScoredSymbol struct {
	TickerSnapshot

	TrendType   TrendType
	Stage       Stage
	HealthScore int     // 0 - 100
	RSI         float64 // 随指标附带，报告展示用
}

// ScanResult 一次完整扫描的终态输出，纯数据，交给通知层后即被丢弃
type ScanResult struct {
	Regime       RegimeReport
	Bullish      []ScoredSymbol // 按 HealthScore 降序，<= TopBullishCount
	Bearish      []ScoredSymbol // 按 HealthScore 降序，<= TopBearishCount
	ScannedCount int            // 通过流动性过滤、实际参与评分的数量
	Duration     time.Duration
	GeneratedAt  time.Time
}
