// Package entryrouter đăng ký các route của domain entry
package entryrouter

import (
	"fmt"

	entryhdl "field_crm/internal/api/entry/handler"
	"field_crm/internal/api/middleware"
	"field_crm/internal/api/router"
	"field_crm/internal/delivery"

	"github.com/gofiber/fiber/v3"
)

// NewRegister trả về hàm đăng ký route entry với channel thông báo
// được inject khi khởi động. Mọi route dữ liệu đều yêu cầu xác thực.
func NewRegister(channel delivery.Channel) router.RegisterFunc {
	return func(v1 fiber.Router, r *router.Router) error {
		entryHandler, err := entryhdl.NewEntryHandler(channel)
		if err != nil {
			return fmt.Errorf("failed to create entry handler: %v", err)
		}

		auth := middleware.AuthMiddleware()
		mws := []fiber.Handler{auth}

		router.RegisterRouteWithMiddleware(v1, "/entries", "POST", "/", mws, entryHandler.HandleCreate)
		router.RegisterRouteWithMiddleware(v1, "/entries", "GET", "/", mws, entryHandler.HandleList)
		router.RegisterRouteWithMiddleware(v1, "/entries", "GET", "/export", mws, entryHandler.HandleExport)
		router.RegisterRouteWithMiddleware(v1, "/entries", "POST", "/import", mws, entryHandler.HandleBulkImport)
		router.RegisterRouteWithMiddleware(v1, "/entries", "GET", "/:id", mws, entryHandler.HandleGetById)
		router.RegisterRouteWithMiddleware(v1, "/entries", "PUT", "/:id", mws, entryHandler.HandleUpdate)
		router.RegisterRouteWithMiddleware(v1, "/entries", "DELETE", "/:id", mws, entryHandler.HandleDelete)

		return nil
	}
}
