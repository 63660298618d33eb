package service

import (
	"log"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger 是全局日志接口
// 在其他模块中使用：service.Logger.Info("Scan finished", zap.Int("bullish", n))
var Logger *zap.Logger

// InitLogger 初始化高性能的 Zap 日志
// logFile 非空时同时写入 stdout 和指定文件
func InitLogger(logFile string) {
	config := zap.NewProductionConfig()

	// 格式化时间
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.EncoderConfig.TimeKey = "time"

	if logFile != "" {
		config.OutputPaths = []string{"stdout", logFile}
	}

	var err error
	Logger, err = config.Build()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
}
