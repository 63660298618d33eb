package strategy

import (
	"testing"

	"crypto-market-screener/internal/model"
	"crypto-market-screener/internal/service"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func testRegimeClassifier() *RegimeClassifier {
	cfg := &service.RegimeConfig{
		ATRTrendingThreshold: 2.5,
		ATRQuietThreshold:    1.0,
	}
	return NewRegimeClassifier(cfg, zap.NewNop().Sugar())
}

func TestClassify_BullishTrending(t *testing.T) {
	rc := testRegimeClassifier()

	// close > ema_short > ema_long 且 ATR% 高于 Trending 阈值
	report := rc.Classify(&model.IndicatorSet{
		Close:      105,
		EMAShort:   100,
		EMALong:    90,
		ATRPercent: 3.0,
	})

	assert.Equal(t, model.TrendBullish, report.BTCTrend)
	assert.Equal(t, model.RegimeTrending, report.MarketRegime)
	assert.Equal(t, 3.0, report.ATRPercent)
}

func TestClassify_BearishQuiet(t *testing.T) {
	rc := testRegimeClassifier()

	report := rc.Classify(&model.IndicatorSet{
		Close:      80,
		EMAShort:   90,
		EMALong:    100,
		ATRPercent: 0.5,
	})

	assert.Equal(t, model.TrendBearish, report.BTCTrend)
	assert.Equal(t, model.RegimeQuiet, report.MarketRegime)
}

func TestClassify_NeutralChoppy(t *testing.T) {
	rc := testRegimeClassifier()

	// 收盘价夹在两条 EMA 之间：既非 Bullish 也非 Bearish
	report := rc.Classify(&model.IndicatorSet{
		Close:      95,
		EMAShort:   100,
		EMALong:    90,
		ATRPercent: 1.5,
	})

	assert.Equal(t, model.TrendNeutral, report.BTCTrend)
	assert.Equal(t, model.RegimeChoppy, report.MarketRegime)
}

func TestClassify_NilIndicatorsDegradeToUnknown(t *testing.T) {
	rc := testRegimeClassifier()

	report := rc.Classify(nil)
	assert.Equal(t, model.TrendUnknown, report.BTCTrend)
	assert.Equal(t, model.RegimeUnknown, report.MarketRegime)
	assert.Equal(t, 0.0, report.ATRPercent)
}

func TestClassify_Deterministic(t *testing.T) {
	rc := testRegimeClassifier()
	ind := &model.IndicatorSet{Close: 105, EMAShort: 100, EMALong: 90, ATRPercent: 3.0}

	first := rc.Classify(ind)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, rc.Classify(ind))
	}
}

func TestClassify_LabelsPartitionInputs(t *testing.T) {
	rc := testRegimeClassifier()

	// 边界值恰好等于阈值时归 Choppy (严格大于/小于判定)
	atEdge := rc.Classify(&model.IndicatorSet{Close: 1, EMAShort: 1, EMALong: 1, ATRPercent: 2.5})
	assert.Equal(t, model.RegimeChoppy, atEdge.MarketRegime)
	assert.Equal(t, model.TrendNeutral, atEdge.BTCTrend)

	quietEdge := rc.Classify(&model.IndicatorSet{Close: 1, EMAShort: 1, EMALong: 1, ATRPercent: 1.0})
	assert.Equal(t, model.RegimeChoppy, quietEdge.MarketRegime)
}
