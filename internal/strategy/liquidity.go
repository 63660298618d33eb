package strategy

import "crypto-market-screener/internal/model"

// FilterLiquid 按流动性门槛过滤行情快照，保持原始顺序
// 前置条件：输入已在上游 (API 客户端) 按计价货币后缀过滤过
func FilterLiquid(tickers []model.TickerSnapshot, th LiquidityThresholds) []model.TickerSnapshot {
	liquid := make([]model.TickerSnapshot, 0, len(tickers))
	for _, t := range tickers {
		if t.Turnover24h >= th.MinVolume24h && t.OpenInterestValue >= th.MinOpenInterest {
			liquid = append(liquid, t)
		}
	}
	return liquid
}
