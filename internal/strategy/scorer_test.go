package strategy

import (
	"testing"

	"crypto-market-screener/internal/model"
	"crypto-market-screener/internal/service"
	"crypto-market-screener/pkg/ta"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testScorer() *SymbolScorer {
	indCfg := &service.IndicatorConfig{EMAShortPeriod: 3, EMALongPeriod: 5, ATRPeriod: 3}
	scoreCfg := &service.ScoringConfig{
		MaxDistanceFromEMAPercent: 15.0,
		EarlyStageMaxPercent:      5.0,
		StrictMinHealthScore:      70,
		RelaxedMinHealthScore:     50,
	}
	logger := zap.NewNop().Sugar()
	return NewSymbolScorer(ta.NewCalculator(indCfg, logger), scoreCfg, logger)
}

func ticker(symbol string) model.TickerSnapshot {
	return model.TickerSnapshot{Symbol: symbol}
}

func TestEvaluate_PerfectBullishScenario(t *testing.T) {
	ss := testScorer()

	// 间距 10% -> 50 分；close 在 EMA 上方 -> +30；偏离 1.8% < 15% -> +20
	scored, ok := ss.evaluate(ticker("AAAUSDT"), &model.IndicatorSet{
		Close:    112,
		EMAShort: 110,
		EMALong:  100,
	}, 50)

	require.True(t, ok)
	assert.Equal(t, 100, scored.HealthScore)
	assert.Equal(t, model.TrendTypeBullish, scored.TrendType)
	// dist% = 1.8 < 5.0 -> Early
	assert.Equal(t, model.StageEarly, scored.Stage)
}

func TestEvaluate_BearishStageIsNA(t *testing.T) {
	ss := testScorer()

	scored, ok := ss.evaluate(ticker("BBBUSDT"), &model.IndicatorSet{
		Close:    85,
		EMAShort: 90,
		EMALong:  100,
	}, 50)

	require.True(t, ok)
	assert.Equal(t, model.TrendTypeBearish, scored.TrendType)
	assert.Equal(t, 100, scored.HealthScore)
	assert.Equal(t, model.StageNA, scored.Stage)
}

func TestEvaluate_OverextendedBullishIsMidWithoutProximityBonus(t *testing.T) {
	ss := testScorer()

	// dist% = 40：丢掉贴近加分，但 Mid 不设上限
	scored, ok := ss.evaluate(ticker("CCCUSDT"), &model.IndicatorSet{
		Close:    140,
		EMAShort: 100,
		EMALong:  90,
	}, 50)

	require.True(t, ok)
	assert.Equal(t, 80, scored.HealthScore) // 50 + 30, 无 +20
	assert.Equal(t, model.StageMid, scored.Stage)
}

func TestEvaluate_SeparationCapAt50(t *testing.T) {
	ss := testScorer()

	// 间距 100%：间距分封顶 50
	scored, ok := ss.evaluate(ticker("DDDUSDT"), &model.IndicatorSet{
		Close:    201,
		EMAShort: 200,
		EMALong:  100,
	}, 0)

	require.True(t, ok)
	assert.Equal(t, 100, scored.HealthScore)
	assert.LessOrEqual(t, scored.HealthScore, 100)
}

func TestEvaluate_RejectsZeroSeparation(t *testing.T) {
	ss := testScorer()

	_, ok := ss.evaluate(ticker("EEEUSDT"), &model.IndicatorSet{
		Close:    100,
		EMAShort: 100,
		EMALong:  100,
	}, 0)
	assert.False(t, ok)
}

func TestEvaluate_RejectsZeroEMALong(t *testing.T) {
	ss := testScorer()

	_, ok := ss.evaluate(ticker("FFFUSDT"), &model.IndicatorSet{
		Close:    100,
		EMAShort: 100,
		EMALong:  0,
	}, 0)
	assert.False(t, ok)
}

func TestEvaluate_RejectsBelowMinimumScore(t *testing.T) {
	ss := testScorer()

	// 间距 0.5% -> 5 分；无动量确认；+20 贴近 = 25 < 50
	ind := &model.IndicatorSet{Close: 99, EMAShort: 100.5, EMALong: 100}

	_, ok := ss.evaluate(ticker("GGGUSDT"), ind, 50)
	assert.False(t, ok)

	// 同样的输入在更低的分数线下通过
	scored, ok := ss.evaluate(ticker("GGGUSDT"), ind, 20)
	require.True(t, ok)
	assert.Equal(t, 25, scored.HealthScore)
}

func TestEvaluate_ScoreBounded(t *testing.T) {
	ss := testScorer()

	cases := []*model.IndicatorSet{
		{Close: 112, EMAShort: 110, EMALong: 100},
		{Close: 90, EMAShort: 110, EMALong: 100},
		{Close: 500, EMAShort: 300, EMALong: 100},
		{Close: 1, EMAShort: 2, EMALong: 100},
		{Close: 85, EMAShort: 90, EMALong: 100},
	}
	for _, ind := range cases {
		scored, ok := ss.evaluate(ticker("XUSDT"), ind, 0)
		if !ok {
			continue
		}
		assert.GreaterOrEqual(t, scored.HealthScore, 0)
		assert.LessOrEqual(t, scored.HealthScore, 100)
	}
}

func TestScore_RejectsInsufficientHistory(t *testing.T) {
	ss := testScorer()

	candles := []model.Candle{
		{Close: 100, High: 101, Low: 99},
		{Close: 101, High: 102, Low: 100},
		{Close: 102, High: 103, Low: 101},
	} // EMALongPeriod = 5

	scored, ok := ss.Score(ticker("NEWUSDT"), candles, 0)
	assert.False(t, ok)
	assert.Nil(t, scored)
}

func TestScore_RejectsFlatSeries(t *testing.T) {
	ss := testScorer()

	// 恒定价格 -> EMA 间距为 0 -> 无结构
	candles := make([]model.Candle, 20)
	for i := range candles {
		candles[i] = model.Candle{Open: 100, High: 100, Low: 100, Close: 100}
	}

	_, ok := ss.Score(ticker("FLATUSDT"), candles, 0)
	assert.False(t, ok)
}
