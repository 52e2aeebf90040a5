// Package attrouter đăng ký các route của domain chấm công
package attrouter

import (
	"fmt"

	atthdl "field_crm/internal/api/attendance/handler"
	"field_crm/internal/api/middleware"
	"field_crm/internal/api/router"

	"github.com/gofiber/fiber/v3"
)

// Register đăng ký các route chấm công, tất cả đều yêu cầu xác thực
func Register(v1 fiber.Router, r *router.Router) error {
	attendanceHandler, err := atthdl.NewAttendanceHandler()
	if err != nil {
		return fmt.Errorf("failed to create attendance handler: %v", err)
	}

	auth := middleware.AuthMiddleware()
	mws := []fiber.Handler{auth}

	router.RegisterRouteWithMiddleware(v1, "/attendance", "POST", "/check-in", mws, attendanceHandler.HandleCheckIn)
	router.RegisterRouteWithMiddleware(v1, "/attendance", "POST", "/check-out", mws, attendanceHandler.HandleCheckOut)
	router.RegisterRouteWithMiddleware(v1, "/attendance", "GET", "/today", mws, attendanceHandler.HandleToday)
	router.RegisterRouteWithMiddleware(v1, "/attendance", "GET", "/", mws, attendanceHandler.HandleList)

	return nil
}
