// internal/service/config.go
package service

import (
	"log"
	"time"

	"github.com/spf13/viper"
)

// ExchangeConfig 定义了交易所公共行情接口的连接信息
type ExchangeConfig struct {
	Name       string
	RESTURL    string        // 例如 https://api.bybit.com
	WSURL      string        // 例如 wss://stream.bybit.com/v5/public/linear
	APITimeout time.Duration // 单次 REST 请求的最大等待时间
}

// ScanConfig 定义了扫描循环与并发参数
type ScanConfig struct {
	IntervalHours   int    // 扫描频率 (小时)
	Timeframe       string // 分析用的 K 线周期，例如 "4h"
	KlineLimit      int    // 每个币种拉取的 K 线数量
	MaxWorkers      int    // 并发评分的 worker 数量
	TopBullishCount int    // 报告中展示的多头币种上限
	TopBearishCount int    // 报告中展示的空头币种上限
	ReferenceSymbol string // 宏观分析的基准币种，例如 "BTCUSDT"
	QuoteSuffix     string // 目标计价货币后缀，例如 "USDT"
}

// IndicatorConfig 技术指标周期参数
type IndicatorConfig struct {
	EMAShortPeriod int
	EMALongPeriod  int
	ATRPeriod      int
}

// RegimeConfig 市场状态判定的 ATR% 阈值
type RegimeConfig struct {
	ATRTrendingThreshold float64 // ATR% 超过该值视为 Trending
	ATRQuietThreshold    float64 // ATR% 低于该值视为 Quiet
}

// LiquidityConfig 流动性过滤的两档阈值，strict >= relaxed
// Trending 时使用严格档，其余状态使用宽松档
type LiquidityConfig struct {
	StrictMinVolume24h     float64
	StrictMinOpenInterest  float64
	RelaxedMinVolume24h    float64
	RelaxedMinOpenInterest float64
}

// ScoringConfig 健康分评分参数
type ScoringConfig struct {
	MaxDistanceFromEMAPercent float64 // 贴近加分的最大偏离 (%)
	EarlyStageMaxPercent      float64 // Early 阶段的最大偏离 (%)
	StrictMinHealthScore      int     // Trending 时的最低健康分
	RelaxedMinHealthScore     int     // 其余状态的最低健康分
}

// StreamConfig 行情流 (WS) 触发的提前扫描参数
type StreamConfig struct {
	Enabled            bool
	RescanDriftPercent float64 // 基准币价格偏离上次扫描基线多少 % 时触发提前扫描
}

// TelegramConfig 报告推送配置，BotToken 为空时回退到控制台输出
type TelegramConfig struct {
	BotToken string
	ChatID   string
}

// Config 存储加载后的全局配置
type Config struct {
	Exchange   ExchangeConfig  `mapstructure:"Exchange"`
	Scan       ScanConfig      `mapstructure:"Scan"`
	Indicators IndicatorConfig `mapstructure:"Indicators"`
	Regime     RegimeConfig    `mapstructure:"Regime"`
	Liquidity  LiquidityConfig `mapstructure:"Liquidity"`
	Scoring    ScoringConfig   `mapstructure:"Scoring"`
	Stream     StreamConfig    `mapstructure:"Stream"`
	Telegram   TelegramConfig  `mapstructure:"Telegram"`
	LogFile    string          `mapstructure:"LogFile"`
}

// GlobalConfig 存储加载后的全局配置
var GlobalConfig Config

// LoadConfig 读取并解析配置文件
func LoadConfig(configPath string) *Config {
	// 设置配置文件的名称、类型和路径
	viper.SetConfigName("config") // 文件名是 config
	viper.SetConfigType("yaml")   // 文件类型是 yaml
	viper.AddConfigPath(configPath)

	// 查找并读取配置文件
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			log.Fatalf("Config file not found: %s", err)
		} else {
			log.Fatalf("Error reading config file: %s", err)
		}
	}

	// 将配置绑定到结构体
	if err := viper.Unmarshal(&GlobalConfig); err != nil {
		log.Fatalf("Unable to decode config into struct: %s", err)
	}

	return &GlobalConfig
}
