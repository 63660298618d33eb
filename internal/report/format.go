package report

import (
	"fmt"
	"strings"
	"time"

	"crypto-market-screener/internal/model"
	"crypto-market-screener/internal/service"
)

// FormatReport 把扫描结果格式化为 Telegram Markdown 报告
// 纯格式化，不做任何计算
func FormatReport(result *model.ScanResult) string {
	var b strings.Builder

	b.WriteString("====================================\n")
	b.WriteString("  📊 *MARKET INTELLIGENCE REPORT*\n")
	b.WriteString("====================================\n\n")

	// --- 宏观部分 ---
	b.WriteString("*[ MACRO ANALYSIS ]*\n")
	fmt.Fprintf(&b, "- BTC Trend: *%s*\n", result.Regime.BTCTrend)
	fmt.Fprintf(&b, "- Market Regime: *%s*", result.Regime.MarketRegime)
	if result.Regime.MarketRegime != model.RegimeUnknown {
		fmt.Fprintf(&b, " (ATR %.2f%%)", result.Regime.ATRPercent)
	}
	b.WriteString("\n")
	fmt.Fprintf(&b, "- News Events: %s 🗓️\n\n", service.GetCurrentDayWarning(result.GeneratedAt))
	b.WriteString("---\n\n")

	// --- 多头榜 ---
	fmt.Fprintf(&b, "🔥 *Top %d Healthy Uptrend Coins* 🔥\n", len(result.Bullish))
	b.WriteString("```\n")
	b.WriteString("#   Symbol       | Stage | Score | RSI  | 24h Change\n")
	b.WriteString("----------------------------------------------------\n")
	if len(result.Bullish) > 0 {
		for i, coin := range result.Bullish {
			fmt.Fprintf(&b, "%-3d %-12s | %-5s | %5d | %4.0f | %+7.2f%%\n",
				i+1, coin.Symbol, coin.Stage, coin.HealthScore, coin.RSI, coin.Price24hPcnt*100)
		}
	} else {
		b.WriteString("No qualifying bullish candidates found.\n")
	}
	b.WriteString("```\n---\n\n")

	// --- 空头榜 ---
	fmt.Fprintf(&b, "💧 *Top %d Healthy Downtrend Coins* 💧\n", len(result.Bearish))
	b.WriteString("```\n")
	b.WriteString("#   Symbol       | Score | RSI  | 24h Change\n")
	b.WriteString("--------------------------------------------\n")
	if len(result.Bearish) > 0 {
		for i, coin := range result.Bearish {
			fmt.Fprintf(&b, "%-3d %-12s | %5d | %4.0f | %+7.2f%%\n",
				i+1, coin.Symbol, coin.HealthScore, coin.RSI, coin.Price24hPcnt*100)
		}
	} else {
		b.WriteString("No qualifying bearish candidates found.\n")
	}
	b.WriteString("```\n\n")

	// --- 建议 ---
	b.WriteString("*[ RECOMMENDATION ]*\n")
	fmt.Fprintf(&b, "_%s_\n\n", Recommendation(result.Regime))

	fmt.Fprintf(&b, "_Scanned %d symbols in %.1fs. Generated: %s_",
		result.ScannedCount,
		result.Duration.Seconds(),
		result.GeneratedAt.Format("2006-01-02 15:04 UTC"))

	return b.String()
}

// Recommendation 根据宏观结果生成一句操作建议
func Recommendation(regime model.RegimeReport) string {
	switch {
	case regime.BTCTrend == model.TrendBullish && regime.MarketRegime == model.RegimeTrending:
		return "Market conditions are favorable. Prioritize Early Stage candidates."
	case regime.BTCTrend == model.TrendBearish:
		return "Market shows bearish bias. Consider short opportunities or wait for clearer signals."
	default:
		return "Mixed signals detected. Exercise extreme caution and wait for a clearer market direction."
	}
}

// FormatError 周期级失败的简报
func FormatError(scanErr error, now time.Time) string {
	return fmt.Sprintf(
		"⚠️ *Market Screener Error* ⚠️\n\nAn error occurred during the scan:\n`%s`\n\n_Time: %s_",
		scanErr.Error(),
		now.UTC().Format("2006-01-02 15:04 UTC"))
}
