package service

import (
	"fmt"
	"strconv"
	"time"
)

func StringToFloat(s string) (float64, error) {
	return strconv.ParseFloat(s, 64)
}

func StringToInt64(s string) (int64, error) {
	return strconv.ParseInt(s, 10, 64)
}

// 将 K 线周期字符串解析为 time.Duration
// 例如 "4h" -> 4*time.Hour
func ParseIntervalDuration(s string) (time.Duration, error) {
	if len(s) < 2 {
		return 0, fmt.Errorf("invalid interval format: %s", s)
	}

	unit := s[len(s)-1:]
	valueStr := s[:len(s)-1]

	var unitDuration time.Duration
	switch unit {
	case "m":
		unitDuration = time.Minute
	case "h":
		unitDuration = time.Hour
	case "d":
		unitDuration = 24 * time.Hour
	default:
		return 0, fmt.Errorf("unsupported interval unit: %s", unit)
	}

	var value int
	_, err := fmt.Sscanf(valueStr, "%d", &value)
	if err != nil {
		return 0, fmt.Errorf("invalid interval value: %s", valueStr)
	}

	return time.Duration(value) * unitDuration, nil
}

// IntervalToBybit 将 K 线周期字符串转换为 Bybit v5 的 interval 参数
// 分钟级别用分钟数表示 ("4h" -> "240")，天级别用 "D"
func IntervalToBybit(s string) (string, error) {
	d, err := ParseIntervalDuration(s)
	if err != nil {
		return "", err
	}

	if d >= 24*time.Hour {
		if d%(24*time.Hour) != 0 {
			return "", fmt.Errorf("unsupported interval: %s", s)
		}
		days := int(d / (24 * time.Hour))
		if days == 1 {
			return "D", nil
		}
		return "", fmt.Errorf("unsupported interval: %s", s)
	}

	if d%time.Minute != 0 {
		return "", fmt.Errorf("unsupported interval: %s", s)
	}
	return strconv.Itoa(int(d / time.Minute)), nil
}

// GetCurrentDayWarning 基于星期几的简易新闻提示 (周三/周五常有高影响数据)
func GetCurrentDayWarning(now time.Time) string {
	day := now.UTC().Weekday()
	if day == time.Wednesday || day == time.Friday {
		return fmt.Sprintf("Potential high-impact news today (%s)", day)
	}
	return "No major scheduled news expected"
}
