package screener

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"crypto-market-screener/internal/model"
	"crypto-market-screener/internal/service"
	"crypto-market-screener/internal/strategy"
	"crypto-market-screener/pkg/ta"

	"go.uber.org/zap"
)

// MarketData 是行情数据源的通用接口，负责与交易所通信
// 空或畸形的响应视为错误，不允许"空但有效"的序列
type MarketData interface {
	// 拉取单个币种的 K 线序列，按时间升序返回
	FetchCandles(ctx context.Context, symbol, interval string, limit int) ([]model.Candle, error)

	// 拉取全部可交易币种的 24h 行情快照 (已按计价货币后缀过滤)
	FetchAllTickers(ctx context.Context) ([]model.TickerSnapshot, error)
}

// Screener 是扫描编排器：宏观分类 -> 流动性过滤 -> 并发评分 -> 排名截断
type Screener struct {
	client   MarketData
	cfg      *service.Config
	calc     *ta.Calculator
	regime   *strategy.RegimeClassifier
	scorer   *strategy.SymbolScorer
	interval string // Bybit interval 参数，由配置的 Timeframe 换算
	logger   *zap.SugaredLogger
}

// New 初始化扫描编排器
func New(client MarketData, cfg *service.Config, logger *zap.SugaredLogger) (*Screener, error) {
	interval, err := service.IntervalToBybit(cfg.Scan.Timeframe)
	if err != nil {
		return nil, fmt.Errorf("invalid scan timeframe: %w", err)
	}

	calc := ta.NewCalculator(&cfg.Indicators, logger)
	return &Screener{
		client:   client,
		cfg:      cfg,
		calc:     calc,
		regime:   strategy.NewRegimeClassifier(&cfg.Regime, logger),
		scorer:   strategy.NewSymbolScorer(calc, &cfg.Scoring, logger),
		interval: interval,
		logger:   logger,
	}, nil
}

// RunScan 执行一次完整扫描
// 只有扫描开始前的全局失败 (例如完全拉不到行情列表) 才返回错误；
// 单币种失败被隔离在批次内部，只记日志
func (s *Screener) RunScan(ctx context.Context) (*model.ScanResult, error) {
	start := time.Now()

	// ----------------------------------------------------------------------
	// 1. 【行情快照】全量失败是周期级错误，交给调度方处理
	// ----------------------------------------------------------------------
	tickers, err := s.client.FetchAllTickers(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch tickers: %w", err)
	}
	if len(tickers) == 0 {
		return nil, errors.New("ticker list is empty")
	}

	// ----------------------------------------------------------------------
	// 2. 【宏观分类】基准币失败只会降级为 Unknown，不中断扫描
	// ----------------------------------------------------------------------
	regime := s.classifyRegime(ctx)

	// ----------------------------------------------------------------------
	// 3. 【流动性过滤】阈值档位由市场状态决定
	// ----------------------------------------------------------------------
	thresholds := strategy.SelectLiquidityThresholds(regime.MarketRegime, &s.cfg.Liquidity)
	liquid := strategy.FilterLiquid(tickers, thresholds)
	s.logger.Infow("Liquidity filter applied",
		"total", len(tickers), "liquid", len(liquid),
		"min_volume", thresholds.MinVolume24h, "min_oi", thresholds.MinOpenInterest)

	// ----------------------------------------------------------------------
	// 4. 【并发评分】固定 worker 池，join 之后才做聚合
	// ----------------------------------------------------------------------
	minScore := strategy.SelectMinHealthScore(regime.MarketRegime, &s.cfg.Scoring)
	scored := s.scoreAll(ctx, liquid, minScore)

	// ----------------------------------------------------------------------
	// 5. 【排名】按原始快照顺序收集 -> 稳定排序 (健康分降序) -> 截断
	//    最终顺序只由排序决定，与 worker 完成顺序无关
	// ----------------------------------------------------------------------
	var bullish, bearish []model.ScoredSymbol
	for _, sym := range scored {
		if sym == nil {
			continue
		}
		switch sym.TrendType {
		case model.TrendTypeBullish:
			bullish = append(bullish, *sym)
		case model.TrendTypeBearish:
			bearish = append(bearish, *sym)
		}
	}
	sortByHealthScore(bullish)
	sortByHealthScore(bearish)
	bullish = truncate(bullish, s.cfg.Scan.TopBullishCount)
	bearish = truncate(bearish, s.cfg.Scan.TopBearishCount)

	result := &model.ScanResult{
		Regime:       regime,
		Bullish:      bullish,
		Bearish:      bearish,
		ScannedCount: len(liquid),
		Duration:     time.Since(start),
		GeneratedAt:  time.Now().UTC(),
	}

	s.logger.Infow("Scan finished",
		"bullish", len(bullish), "bearish", len(bearish),
		"scanned", len(liquid), "duration", result.Duration)
	return result, nil
}

// classifyRegime 拉取基准币 K 线并分类宏观状态
// 任何失败都降级为 Unknown (下游改用宽松档阈值)
func (s *Screener) classifyRegime(ctx context.Context) model.RegimeReport {
	ref := s.cfg.Scan.ReferenceSymbol
	candles, err := s.client.FetchCandles(ctx, ref, s.interval, s.cfg.Scan.KlineLimit)
	if err != nil {
		s.logger.Warnw("Reference symbol fetch failed, regime degraded", "symbol", ref, "error", err)
		return s.regime.Classify(nil)
	}

	ind, err := s.calc.Compute(candles)
	if err != nil {
		s.logger.Warnw("Reference indicators unavailable, regime degraded", "symbol", ref, "error", err)
		return s.regime.Classify(nil)
	}
	return s.regime.Classify(ind)
}

// scoreAll 把每个币种作为一个任务投给固定大小的 worker 池
// 每个 worker 只写自己任务的下标槽位，无共享可变状态；返回值与输入同序
func (s *Screener) scoreAll(ctx context.Context, liquid []model.TickerSnapshot, minScore int) []*model.ScoredSymbol {
	workers := s.cfg.Scan.MaxWorkers
	if workers <= 0 {
		workers = 1
	}

	jobs := make(chan int)
	results := make([]*model.ScoredSymbol, len(liquid))

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				results[idx] = s.scoreOne(ctx, liquid[idx], minScore)
			}
		}()
	}

	for i := range liquid {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	return results
}

// scoreOne 单币种任务：拉 K 线 + 评分
// 拉取失败只影响该币种，记日志后返回 nil
func (s *Screener) scoreOne(ctx context.Context, ticker model.TickerSnapshot, minScore int) *model.ScoredSymbol {
	candles, err := s.client.FetchCandles(ctx, ticker.Symbol, s.interval, s.cfg.Scan.KlineLimit)
	if err != nil {
		s.logger.Debugw("Candle fetch failed, symbol excluded", "symbol", ticker.Symbol, "error", err)
		return nil
	}

	scored, ok := s.scorer.Score(ticker, candles, minScore)
	if !ok {
		return nil
	}
	return scored
}

// sortByHealthScore 健康分降序的稳定排序，平分时保持原始快照顺序
func sortByHealthScore(symbols []model.ScoredSymbol) {
	sort.SliceStable(symbols, func(i, j int) bool {
		return symbols[i].HealthScore > symbols[j].HealthScore
	})
}

func truncate(symbols []model.ScoredSymbol, n int) []model.ScoredSymbol {
	if n >= 0 && len(symbols) > n {
		return symbols[:n]
	}
	return symbols
}
