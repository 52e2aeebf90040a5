package main

import (
	"context"
	"fmt"
	"time"

	"field_crm/internal/database"
	"field_crm/internal/delivery"
	"field_crm/internal/global"
	"field_crm/internal/logger"
	"field_crm/internal/worker"
)

// initLogger khởi tạo và cấu hình logger cho toàn bộ ứng dụng
func initLogger() {
	// Logger tự động đọc environment variables để cấu hình
	if err := logger.Init(nil); err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}

	log := logger.GetAppLogger()
	log.Info("Logger system initialized successfully")
}

// initDeliveryChannel chọn kênh gửi thông báo: email nếu có cấu hình SMTP,
// ngược lại ghi log.
func initDeliveryChannel() delivery.Channel {
	log := logger.GetAppLogger()
	cfg := global.ServerConfig
	if cfg.SMTPHost != "" {
		log.WithFields(map[string]interface{}{
			"host": cfg.SMTPHost,
			"port": cfg.SMTPPort,
		}).Info("🔔 [DELIVERY] Using email notification channel")
		return delivery.NewEmailChannel(cfg)
	}
	log.Info("🔔 [DELIVERY] SMTP not configured, using log notification channel")
	return delivery.NewLogChannel()
}

// main_thread khởi tạo và chạy Fiber server
func main_thread(channel delivery.Channel) {
	app := InitFiberApp(channel)

	cfg := global.ServerConfig
	log := logger.GetAppLogger()
	log.WithFields(map[string]interface{}{
		"address":  cfg.Address,
		"protocol": "HTTP",
	}).Info("Starting Fiber server...")

	if err := app.Listen(cfg.Address); err != nil {
		log.Fatalf("Error in Fiber Listen: %v", err)
	}
}

// Hàm main
func main() {
	// Khởi tạo logger
	initLogger()

	// Khởi tạo các biến toàn cục
	InitGlobal()
	defer database.CloseInstance(global.MongoDB_Session)

	// Khởi tạo registry
	InitRegistry()

	// Chọn kênh gửi thông báo
	channel := initDeliveryChannel()

	// Khởi tạo và chạy worker quét ngày hẹn (background)
	log := logger.GetAppLogger()
	interval := time.Duration(global.ServerConfig.DateNotifyInterval) * time.Second
	dateWorker, err := worker.NewDateNotificationWorker(interval, channel)
	if err != nil {
		log.WithError(err).Error("Failed to create date notification worker, continuing without it")
	} else {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		go func() {
			defer func() {
				if r := recover(); r != nil {
					log.WithFields(map[string]interface{}{
						"panic": r,
					}).Error("🔔 [DATE_NOTIFY] Worker goroutine panic")
				}
			}()

			log.Info("🔔 [DATE_NOTIFY] Starting date notification worker...")
			dateWorker.Start(ctx)
			log.Warn("🔔 [DATE_NOTIFY] Worker đã dừng (có thể do context cancelled)")
		}()
	}

	// Chạy Fiber server trên main thread
	main_thread(channel)
}
