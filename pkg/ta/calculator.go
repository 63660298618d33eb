package ta

import (
	"errors"

	"crypto-market-screener/internal/model"
	"crypto-market-screener/internal/service"

	"github.com/markcheno/go-talib"
	"go.uber.org/zap"
)

// ErrInsufficientData K 线历史不足以计算长周期 EMA
// 调用方应把该币种排除，而不是使用部分指标
var ErrInsufficientData = errors.New("insufficient candle history")

// RSI 展示列的固定周期，与评分无关
const rsiPeriod = 14

// Calculator 负责从 K 线序列计算指标集
// 无共享可变状态，可被多个 worker 并发调用
type Calculator struct {
	cfg    *service.IndicatorConfig
	logger *zap.SugaredLogger
}

// NewCalculator 初始化技术指标计算器
func NewCalculator(cfg *service.IndicatorConfig, logger *zap.SugaredLogger) *Calculator {
	return &Calculator{cfg: cfg, logger: logger}
}

// EMA 计算指数移动平均的最新值
// 平滑因子 α = 2/(period+1)，以序列首个值为种子，沿时间正向递推：
// ema[t] = α*value[t] + (1-α)*ema[t-1]
func EMA(values []float64, period int) float64 {
	if len(values) == 0 || period <= 0 {
		return 0
	}

	alpha := 2.0 / (float64(period) + 1.0)
	ema := values[0]
	for _, v := range values[1:] {
		ema = alpha*v + (1-alpha)*ema
	}
	return ema
}

// trueRanges 计算每根 K 线的真实波幅
// prevClose 取时间上的前一根 (序列为升序，即前一个下标)；首根退化为 high-low
func trueRanges(candles []model.Candle) []float64 {
	tr := make([]float64, len(candles))
	for i, c := range candles {
		hl := c.High - c.Low
		if i == 0 {
			tr[i] = hl
			continue
		}

		prevClose := candles[i-1].Close
		hc := abs(c.High - prevClose)
		lc := abs(c.Low - prevClose)
		tr[i] = max3(hl, hc, lc)
	}
	return tr
}

// Compute 以最新一根 K 线为基准点计算指标集
// 少于 EMALongPeriod 根时返回 ErrInsufficientData，不产生部分结果
func (c *Calculator) Compute(candles []model.Candle) (*model.IndicatorSet, error) {
	if len(candles) < c.cfg.EMALongPeriod {
		return nil, ErrInsufficientData
	}

	closes := make([]float64, len(candles))
	for i, cd := range candles {
		closes[i] = cd.Close
	}
	latestClose := closes[len(closes)-1]

	// --- EMA 结构 ---
	emaShort := EMA(closes, c.cfg.EMAShortPeriod)
	emaLong := EMA(closes, c.cfg.EMALongPeriod)

	// --- ATR% (真实波幅的 EMA，按最新收盘价折算成百分比) ---
	atr := EMA(trueRanges(candles), c.cfg.ATRPeriod)
	atrPercent := 0.0
	if latestClose > 0 {
		atrPercent = atr / latestClose * 100
	}

	// --- RSI (talib，仅报告展示) ---
	rsi := 0.0
	if len(closes) > rsiPeriod {
		rsiResult := talib.Rsi(closes, rsiPeriod)
		rsi = rsiResult[len(rsiResult)-1]
	}

	c.logger.Debugw("Indicators computed",
		"close", latestClose,
		"ema_short", emaShort,
		"ema_long", emaLong,
		"atr_percent", atrPercent)

	return &model.IndicatorSet{
		Close:      latestClose,
		EMAShort:   emaShort,
		EMALong:    emaLong,
		ATRPercent: atrPercent,
		RSI:        rsi,
	}, nil
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

func max3(a, b, c float64) float64 {
	m := a
	if b > m {
		m = b
	}
	if c > m {
		m = c
	}
	return m
}
