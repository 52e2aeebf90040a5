package utility

import (
	"fmt"
	"time"
)

// Các định dạng ngày được chấp nhận trong payload
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02",
	"2006-01-02 15:04:05",
}

// ParseDateMilli chuyển chuỗi ngày thành unix milli.
// Chuỗi rỗng trả về 0 (không đặt giá trị).
func ParseDateMilli(value string) (int64, error) {
	if value == "" {
		return 0, nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UnixMilli(), nil
		}
	}
	return 0, fmt.Errorf("invalid date format: %q", value)
}

// StartOfDay trả về unix milli của 00:00:00 local time trong ngày của t
func StartOfDay(t time.Time) int64 {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location()).UnixMilli()
}
