package strategy

import (
	"errors"
	"math"

	"crypto-market-screener/internal/model"
	"crypto-market-screener/internal/service"
	"crypto-market-screener/pkg/ta"

	"go.uber.org/zap"
)

// 健康分构成 (加法制，合计上限 100)
const (
	// EMA 间距分上限：每 1% 间距记 10 分，最多 50
	maxSeparationScore   = 50
	separationPointsPer1 = 10

	// 收盘价确认结构方向的动量加分
	momentumBonus = 30

	// 收盘价贴近短期 EMA 的加分
	proximityBonus = 20
)

// SymbolScorer 负责单币种的趋势分类和健康分评分
// 只读取配置和传入的数据，可被多个 worker 并发调用
type SymbolScorer struct {
	calc   *ta.Calculator
	cfg    *service.ScoringConfig
	logger *zap.SugaredLogger
}

// NewSymbolScorer 初始化评分器
func NewSymbolScorer(calc *ta.Calculator, cfg *service.ScoringConfig, logger *zap.SugaredLogger) *SymbolScorer {
	return &SymbolScorer{calc: calc, cfg: cfg, logger: logger}
}

// Score 对单个币种评分，minHealthScore 是当前市场状态下的准入分数线
// 返回 (nil, false) 表示该币种被拒绝 (历史不足、无结构、分数不达标)
func (ss *SymbolScorer) Score(ticker model.TickerSnapshot, candles []model.Candle, minHealthScore int) (*model.ScoredSymbol, bool) {
	// 历史不足或 EMA 无效 -> 直接拒绝，不产生零分条目
	ind, err := ss.calc.Compute(candles)
	if err != nil {
		if errors.Is(err, ta.ErrInsufficientData) {
			ss.logger.Debugw("Symbol rejected: insufficient history",
				"symbol", ticker.Symbol, "candles", len(candles))
		}
		return nil, false
	}
	return ss.evaluate(ticker, ind, minHealthScore)
}

// evaluate 基于已算好的指标集做分类和评分
func (ss *SymbolScorer) evaluate(ticker model.TickerSnapshot, ind *model.IndicatorSet, minHealthScore int) (*model.ScoredSymbol, bool) {
	if ind.EMALong == 0 {
		return nil, false
	}

	// ----------------------------------------------------------------------
	// 1. 【趋势结构】EMA 间距的符号决定方向，0 视为无结构
	// ----------------------------------------------------------------------
	separation := (ind.EMAShort - ind.EMALong) / ind.EMALong * 100

	var trendType model.TrendType
	switch {
	case separation > 0:
		trendType = model.TrendTypeBullish
	case separation < 0:
		trendType = model.TrendTypeBearish
	default:
		return nil, false
	}

	// ----------------------------------------------------------------------
	// 2. 【健康分】间距分 + 动量确认 + 贴近度，合计 0 - 100
	// ----------------------------------------------------------------------
	score := int(math.Round(math.Abs(separation) * separationPointsPer1))
	if score > maxSeparationScore {
		score = maxSeparationScore
	}

	// 动量确认：收盘价在短期 EMA 的结构同侧
	if (trendType == model.TrendTypeBullish && ind.Close > ind.EMAShort) ||
		(trendType == model.TrendTypeBearish && ind.Close < ind.EMAShort) {
		score += momentumBonus
	}

	// 贴近度：偏离短期 EMA 不超过上限才加分 (EMAShort <= 0 时不加分)
	if ind.EMAShort > 0 {
		distance := math.Abs(ind.Close-ind.EMAShort) / ind.EMAShort * 100
		if distance < ss.cfg.MaxDistanceFromEMAPercent {
			score += proximityBonus
		}
	}

	if score < minHealthScore {
		ss.logger.Debugw("Symbol rejected: below minimum health score",
			"symbol", ticker.Symbol, "score", score, "min", minHealthScore)
		return nil, false
	}

	// ----------------------------------------------------------------------
	// 3. 【阶段分类】只对 bullish 有意义；Mid 不设上限，过度延伸由贴近度扣分兜底
	// ----------------------------------------------------------------------
	stage := model.StageNA
	if trendType == model.TrendTypeBullish && ind.EMAShort > 0 {
		dist := (ind.Close - ind.EMAShort) / ind.EMAShort * 100
		if dist >= 0 && dist < ss.cfg.EarlyStageMaxPercent {
			stage = model.StageEarly
		} else if dist >= 0 {
			stage = model.StageMid
		}
	}

	return &model.ScoredSymbol{
		TickerSnapshot: ticker,
		TrendType:      trendType,
		Stage:          stage,
		HealthScore:    score,
		RSI:            ind.RSI,
	}, true
}
