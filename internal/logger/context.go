package logger

import (
	"context"

	"github.com/gofiber/fiber/v3"
	"github.com/sirupsen/logrus"
)

// WithRequest trả về logger entry với thông tin request từ Fiber
func WithRequest(c fiber.Ctx) *logrus.Entry {
	entry := GetAppLogger().WithContext(context.Background())

	// Request ID do middleware requestid đặt vào Locals hoặc header
	var requestID string
	if rid := c.Locals("requestid"); rid != nil {
		if ridStr, ok := rid.(string); ok {
			requestID = ridStr
		}
	}
	if requestID == "" {
		requestID = c.Get("X-Request-ID")
	}
	if requestID != "" {
		entry = entry.WithField("request_id", requestID)
	}

	return entry.WithFields(logrus.Fields{
		"method": c.Method(),
		"path":   c.Path(),
		"ip":     c.IP(),
	})
}
