package main

import (
	"fmt"
	"strings"
	"time"

	attrouter "field_crm/internal/api/attendance/router"
	authrouter "field_crm/internal/api/auth/router"
	entryrouter "field_crm/internal/api/entry/router"
	notifrouter "field_crm/internal/api/notification/router"
	"field_crm/internal/api/router"
	"field_crm/internal/common"
	"field_crm/internal/delivery"
	"field_crm/internal/global"
	"field_crm/internal/logger"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/limiter"
	"github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/gofiber/fiber/v3/middleware/requestid"
)

// InitFiberApp khởi tạo ứng dụng Fiber với các middleware cần thiết
// và đăng ký route của tất cả các domain.
func InitFiberApp(channel delivery.Channel) *fiber.App {
	app := fiber.New(fiber.Config{
		// Cấu hình cơ bản
		AppName:       "Field CRM API",
		ServerHeader:  "Field CRM API",
		StrictRouting: true,
		CaseSensitive: true,
		UnescapePath:  true,

		// Cấu hình performance
		BodyLimit:       10 * 1024 * 1024, // Max size của request body (10MB)
		Concurrency:     256 * 1024,
		ReadBufferSize:  4096,
		WriteBufferSize: 4096,

		// Cấu hình timeout
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,

		// Error handler: trả lỗi theo format JSON thống nhất
		ErrorHandler: func(c fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			message := "Internal Server Error"
			errorCode := common.ErrCodeInternalServer.Code

			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
				message = e.Message
				switch code {
				case fiber.StatusBadRequest:
					errorCode = common.ErrCodeValidationInput.Code
				case fiber.StatusUnauthorized:
					errorCode = common.ErrCodeAuthToken.Code
				case fiber.StatusForbidden:
					errorCode = common.ErrCodeAuthScope.Code
				case fiber.StatusNotFound:
					errorCode = common.ErrCodeDatabaseQuery.Code
				case fiber.StatusConflict:
					errorCode = common.ErrCodeDatabaseQuery.Code
				}
			}

			logger.WithRequest(c).WithFields(map[string]interface{}{
				"code":      code,
				"errorCode": errorCode,
				"message":   message,
			}).Error("Request error")

			return c.Status(code).JSON(fiber.Map{
				"code":    errorCode,
				"message": message,
				"status":  "error",
			})
		},
	})

	// 1. Request ID Middleware - tạo ID duy nhất cho mỗi request để trace
	app.Use(requestid.New(requestid.Config{
		Header: "X-Request-ID",
		Generator: func() string {
			return fmt.Sprintf("%d", time.Now().UnixNano())
		},
	}))

	// 2. CORS Middleware - phải đặt trước các middleware khác để xử lý preflight
	corsOrigins := global.ServerConfig.CORS_Origins
	var allowOrigins []string
	if corsOrigins == "*" {
		allowOrigins = []string{"*"}
	} else {
		allowOrigins = strings.Split(corsOrigins, ",")
		for i, origin := range allowOrigins {
			allowOrigins[i] = strings.TrimSpace(origin)
		}
	}

	app.Use(cors.New(cors.Config{
		AllowOrigins: allowOrigins,
		AllowMethods: []string{"GET", "POST", "PUT", "DELETE", "PATCH", "HEAD", "OPTIONS"},
		AllowHeaders: []string{
			"Origin",
			"Content-Type",
			"Accept",
			"Authorization",
			"X-Request-ID",
			"X-Requested-With",
		},
		AllowCredentials: global.ServerConfig.CORS_AllowCredentials,
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition", "X-Request-ID"},
		MaxAge:           24 * 60 * 60,
	}))

	// 3. Security Headers Middleware
	app.Use(func(c fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		c.Set("X-XSS-Protection", "1; mode=block")
		c.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		return c.Next()
	})

	// 4. Rate Limiting Middleware
	if global.ServerConfig.RateLimit_Enabled && global.ServerConfig.RateLimit_Max > 0 {
		rateLimitMax := global.ServerConfig.RateLimit_Max
		rateLimitWindow := time.Duration(global.ServerConfig.RateLimit_Window) * time.Second
		app.Use(limiter.New(limiter.Config{
			Max:        rateLimitMax,
			Expiration: rateLimitWindow,
			KeyGenerator: func(c fiber.Ctx) string {
				return c.IP()
			},
			LimitReached: func(c fiber.Ctx) error {
				return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
					"code":    common.ErrCodeBusinessOperation.Code,
					"message": "Quá nhiều yêu cầu, vui lòng thử lại sau",
					"status":  "error",
				})
			},
			Next: func(c fiber.Ctx) bool {
				// Bỏ qua rate limit cho health check và preflight
				return c.Path() == "/api/v1/system/health" || c.Method() == "OPTIONS"
			},
		}))
		logger.GetAppLogger().Infof("Rate limiting enabled: %d requests per %d seconds", rateLimitMax, global.ServerConfig.RateLimit_Window)
	} else {
		logger.GetAppLogger().Info("Rate limiting disabled")
	}

	// 5. Recover Middleware
	app.Use(recover.New(recover.Config{
		EnableStackTrace: true,
		StackTraceHandler: func(c fiber.Ctx, e interface{}) {
			logger.WithRequest(c).WithFields(map[string]interface{}{
				"panic": e,
			}).Error("Panic recovered")
		},
	}))

	// Health check
	app.Get("/api/v1/system/health", func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	// Đăng ký route của các domain
	if err := router.SetupRoutes(app,
		authrouter.Register,
		entryrouter.NewRegister(channel),
		notifrouter.NewRegister(channel),
		attrouter.Register,
	); err != nil {
		logger.GetAppLogger().Fatalf("Failed to setup routes: %v", err)
	}

	return app
}
