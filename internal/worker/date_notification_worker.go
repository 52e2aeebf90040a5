// Package worker chứa các worker chạy nền định kỳ
package worker

import (
	"context"
	"fmt"
	"time"

	entrysvc "field_crm/internal/api/entry/service"
	notifsvc "field_crm/internal/api/notification/service"
	"field_crm/internal/delivery"
	"field_crm/internal/logger"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DateNotificationWorker quét các entry có followUpDate hoặc
// expectedClosingDate rơi vào cửa sổ 24 giờ kể từ 00:00 ngày mai và
// nhắc người tạo cùng những người được gán. Dự kiến chạy mỗi ngày một
// lần; channel gửi thông báo được inject khi khởi động.
type DateNotificationWorker struct {
	entryService *entrysvc.EntryService
	notifier     *notifsvc.NotificationService
	interval     time.Duration // Khoảng thời gian giữa các lần chạy
}

// NewDateNotificationWorker tạo mới DateNotificationWorker.
// Tham số:
//   - interval: Khoảng thời gian giữa các lần quét (mặc định: 24 giờ)
//   - channel: Kênh đẩy thông báo (nil = chỉ lưu trong store)
func NewDateNotificationWorker(interval time.Duration, channel delivery.Channel) (*DateNotificationWorker, error) {
	entryService, err := entrysvc.NewEntryService(channel)
	if err != nil {
		return nil, err
	}
	notifier, err := notifsvc.NewNotificationService(channel)
	if err != nil {
		return nil, err
	}
	if interval < time.Minute {
		interval = 24 * time.Hour
	}
	return &DateNotificationWorker{
		entryService: entryService,
		notifier:     notifier,
		interval:     interval,
	}, nil
}

// Start chạy worker trong vòng lặp cho đến khi ctx bị hủy
func (w *DateNotificationWorker) Start(ctx context.Context) {
	log := logger.GetAppLogger()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	log.WithFields(map[string]interface{}{
		"interval": w.interval.String(),
	}).Info("🔔 [DATE_NOTIFY] Starting Date Notification Worker...")

	for {
		select {
		case <-ctx.Done():
			log.Info("🔔 [DATE_NOTIFY] Date Notification Worker stopped")
			return
		case <-ticker.C:
			func() {
				defer func() {
					if r := recover(); r != nil {
						log.WithFields(map[string]interface{}{
							"panic": r,
						}).Error("🔔 [DATE_NOTIFY] Panic khi quét date notifications, sẽ tiếp tục ở lần chạy tiếp theo")
					}
				}()

				if err := w.Sweep(ctx); err != nil {
					log.WithError(err).Error("🔔 [DATE_NOTIFY] Lỗi quét date notifications")
				}
			}()
		}
	}
}

// Sweep quét một lượt: tìm entry có ngày follow-up hoặc ngày chốt dự
// kiến trong cửa sổ [ngày mai 00:00, ngày kia 00:00) và phát nhắc nhở.
// Thông báo là best-effort, lỗi từng entry không dừng lượt quét.
func (w *DateNotificationWorker) Sweep(ctx context.Context) error {
	log := logger.GetAppLogger()

	now := time.Now()
	year, month, day := now.Date()
	windowStart := time.Date(year, month, day, 0, 0, 0, 0, now.Location()).AddDate(0, 0, 1).UnixMilli()
	windowEnd := time.Date(year, month, day, 0, 0, 0, 0, now.Location()).AddDate(0, 0, 2).UnixMilli()

	window := bson.M{"$gte": windowStart, "$lt": windowEnd}
	filter := bson.M{"$or": []bson.M{
		{"followUpDate": window},
		{"expectedClosingDate": window},
	}}

	entries, err := w.entryService.Find(ctx, filter, nil)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		return nil
	}

	log.WithFields(map[string]interface{}{
		"count": len(entries),
	}).Info("🔔 [DATE_NOTIFY] Phát nhắc nhở cho các entry sắp đến hạn")

	for _, entry := range entries {
		var message string
		switch {
		case entry.FollowUpDate >= windowStart && entry.FollowUpDate < windowEnd:
			message = fmt.Sprintf("Follow-up for entry %q is due tomorrow", entry.CustomerName)
		default:
			message = fmt.Sprintf("Expected closing date for entry %q is tomorrow", entry.CustomerName)
		}

		entryID := entry.ID
		w.notifier.Notify(ctx, entry.CreatedBy, message, &entryID)

		seen := map[primitive.ObjectID]bool{entry.CreatedBy: true}
		for _, userID := range entry.AssignedTo {
			if seen[userID] {
				continue
			}
			seen[userID] = true
			w.notifier.Notify(ctx, userID, message, &entryID)
		}
	}

	return nil
}
