package strategy

import (
	"crypto-market-screener/internal/model"
	"crypto-market-screener/internal/service"
)

// LiquidityThresholds 流动性门槛对 (成交额 + 未平仓价值)
type LiquidityThresholds struct {
	MinVolume24h    float64
	MinOpenInterest float64
}

// SelectLiquidityThresholds 根据市场状态选择流动性档位
// 只有 Trending 使用严格档；Quiet/Choppy/Unknown 一律宽松档
func SelectLiquidityThresholds(regime model.MarketRegime, cfg *service.LiquidityConfig) LiquidityThresholds {
	if regime == model.RegimeTrending {
		return LiquidityThresholds{
			MinVolume24h:    cfg.StrictMinVolume24h,
			MinOpenInterest: cfg.StrictMinOpenInterest,
		}
	}
	return LiquidityThresholds{
		MinVolume24h:    cfg.RelaxedMinVolume24h,
		MinOpenInterest: cfg.RelaxedMinOpenInterest,
	}
}

// SelectMinHealthScore 根据市场状态选择最低健康分，档位切换逻辑与流动性一致
func SelectMinHealthScore(regime model.MarketRegime, cfg *service.ScoringConfig) int {
	if regime == model.RegimeTrending {
		return cfg.StrictMinHealthScore
	}
	return cfg.RelaxedMinHealthScore
}
