package strategy

import (
	"crypto-market-screener/internal/model"
	"crypto-market-screener/internal/service"

	"go.uber.org/zap"
)

// RegimeClassifier 根据基准币 (BTC) 的指标判定宏观趋势和市场状态
// 纯函数式组件，除日志外无副作用
type RegimeClassifier struct {
	cfg    *service.RegimeConfig
	logger *zap.SugaredLogger
}

// NewRegimeClassifier 初始化宏观状态分类器
func NewRegimeClassifier(cfg *service.RegimeConfig, logger *zap.SugaredLogger) *RegimeClassifier {
	return &RegimeClassifier{cfg: cfg, logger: logger}
}

// Classify 生成本周期的宏观分析结果
// ind 为 nil (指标计算失败或基准币拉取失败) 时两个标签都降级为 Unknown，
// Unknown 对下游意味着"使用宽松档阈值"，不是错误
func (rc *RegimeClassifier) Classify(ind *model.IndicatorSet) model.RegimeReport {
	if ind == nil {
		rc.logger.Warn("Reference indicators unavailable, regime degraded to Unknown")
		return model.RegimeReport{
			BTCTrend:     model.TrendUnknown,
			MarketRegime: model.RegimeUnknown,
		}
	}

	// --- 趋势判定：EMA 排列 ---
	trend := model.TrendNeutral
	if ind.Close > ind.EMAShort && ind.EMAShort > ind.EMALong {
		trend = model.TrendBullish
	} else if ind.Close < ind.EMAShort && ind.EMAShort < ind.EMALong {
		trend = model.TrendBearish
	}

	// --- 状态判定：ATR% 波动区间 ---
	regime := model.RegimeChoppy
	if ind.ATRPercent > rc.cfg.ATRTrendingThreshold {
		regime = model.RegimeTrending
	} else if ind.ATRPercent < rc.cfg.ATRQuietThreshold {
		regime = model.RegimeQuiet
	}

	rc.logger.Infow("Macro conditions classified",
		"btc_trend", string(trend),
		"market_regime", string(regime),
		"atr_percent", ind.ATRPercent)

	return model.RegimeReport{
		BTCTrend:     trend,
		MarketRegime: regime,
		ATRPercent:   ind.ATRPercent,
	}
}
