package common

import (
	"fmt"
	"time"
)

// FormatTraffic 把字节数格式化为带单位的字符串
func FormatTraffic(trafficBytes int64) string {
	units := []string{"B", "KB", "MB", "GB", "TB", "PB"}
	size := float64(trafficBytes)
	i := 0
	for size >= 1024 && i < len(units)-1 {
		size /= 1024
		i++
	}
	return fmt.Sprintf("%.2f%s", size, units[i])
}

// FormatExpiry 把毫秒时间戳格式化为日期，<= 0 表示永不过期
func FormatExpiry(expiryMillis int64, loc *time.Location) string {
	if expiryMillis <= 0 {
		return ""
	}
	if loc == nil {
		loc = time.Local
	}
	return time.UnixMilli(expiryMillis).In(loc).Format("2006-01-02 15:04:05")
}
