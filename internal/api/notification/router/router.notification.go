// Package notifrouter đăng ký các route của domain thông báo
package notifrouter

import (
	"fmt"

	"field_crm/internal/api/middleware"
	notifhdl "field_crm/internal/api/notification/handler"
	"field_crm/internal/api/router"
	"field_crm/internal/delivery"

	"github.com/gofiber/fiber/v3"
)

// NewRegister trả về hàm đăng ký route thông báo với channel được inject
func NewRegister(channel delivery.Channel) router.RegisterFunc {
	return func(v1 fiber.Router, r *router.Router) error {
		notificationHandler, err := notifhdl.NewNotificationHandler(channel)
		if err != nil {
			return fmt.Errorf("failed to create notification handler: %v", err)
		}

		auth := middleware.AuthMiddleware()
		mws := []fiber.Handler{auth}

		router.RegisterRouteWithMiddleware(v1, "/notifications", "GET", "/", mws, notificationHandler.HandleList)
		router.RegisterRouteWithMiddleware(v1, "/notifications", "PUT", "/:id/read", mws, notificationHandler.HandleMarkRead)
		router.RegisterRouteWithMiddleware(v1, "/notifications", "DELETE", "/", mws, notificationHandler.HandleDeleteAll)

		return nil
	}
}
