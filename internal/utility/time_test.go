// Package utility - Test parse ngày và tính mốc đầu ngày.
package utility

import (
	"testing"
	"time"
)

func TestParseDateMilli_EmptyReturnsZero(t *testing.T) {
	milli, err := ParseDateMilli("")
	if err != nil {
		t.Fatalf("chuỗi rỗng không được trả lỗi: %v", err)
	}
	if milli != 0 {
		t.Errorf("chuỗi rỗng phải trả 0 (không đặt), got %d", milli)
	}
}

func TestParseDateMilli_AcceptedLayouts(t *testing.T) {
	cases := []string{
		"2024-03-15",
		"2024-03-15 10:30:00",
		"2024-03-15T10:30:00Z",
	}
	for _, value := range cases {
		milli, err := ParseDateMilli(value)
		if err != nil {
			t.Errorf("ParseDateMilli(%q) trả lỗi: %v", value, err)
			continue
		}
		if milli == 0 {
			t.Errorf("ParseDateMilli(%q) trả 0", value)
		}
	}
}

func TestParseDateMilli_InvalidRejected(t *testing.T) {
	for _, value := range []string{"15/03/2024", "not-a-date", "2024-13-45"} {
		if _, err := ParseDateMilli(value); err == nil {
			t.Errorf("ParseDateMilli(%q) phải trả lỗi", value)
		}
	}
}

func TestStartOfDay(t *testing.T) {
	now := time.Date(2024, 3, 15, 17, 42, 30, 0, time.Local)
	milli := StartOfDay(now)
	got := time.UnixMilli(milli)
	if got.Hour() != 0 || got.Minute() != 0 || got.Second() != 0 {
		t.Errorf("StartOfDay phải trả về 00:00:00, got %v", got)
	}
	if got.Day() != 15 || got.Month() != 3 || got.Year() != 2024 {
		t.Errorf("StartOfDay đổi ngày: %v", got)
	}
}

func TestStartOfDay_StableWithinDay(t *testing.T) {
	morning := time.Date(2024, 3, 15, 0, 0, 1, 0, time.Local)
	evening := time.Date(2024, 3, 15, 23, 59, 59, 0, time.Local)
	if StartOfDay(morning) != StartOfDay(evening) {
		t.Error("hai thời điểm cùng ngày phải có cùng mốc đầu ngày")
	}
}
