// Package delivery chứa các kênh gửi thông báo ra ngoài (best-effort).
// Không có kênh nào được coi là bắt buộc: lỗi gửi chỉ được log, không
// bao giờ chặn request gốc.
package delivery

import (
	"context"

	"github.com/sirupsen/logrus"
)

// Channel là kênh đẩy thông báo đến một người dùng.
// Việc người dùng không kết nối kênh nào không phải là lỗi.
type Channel interface {
	Send(ctx context.Context, userEmail string, subject string, message string) error
}

// LogChannel ghi thông báo ra log thay vì gửi đi, dùng cho môi trường
// development hoặc khi chưa cấu hình SMTP.
type LogChannel struct{}

// NewLogChannel tạo mới LogChannel
func NewLogChannel() *LogChannel {
	return &LogChannel{}
}

// Send ghi thông báo ra log
func (ch *LogChannel) Send(ctx context.Context, userEmail string, subject string, message string) error {
	logrus.WithFields(logrus.Fields{
		"to":      userEmail,
		"subject": subject,
	}).Infof("🔔 [DELIVERY] %s", message)
	return nil
}
