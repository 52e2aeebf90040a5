// Package authrouter đăng ký các route xác thực và quản lý người dùng
package authrouter

import (
	"fmt"

	authhdl "field_crm/internal/api/auth/handler"
	"field_crm/internal/api/middleware"
	"field_crm/internal/api/router"

	"github.com/gofiber/fiber/v3"
)

// Register đăng ký các route của domain auth/user.
// /auth/signup và /auth/login không yêu cầu xác thực, phần còn lại đều
// đi qua AuthMiddleware.
func Register(v1 fiber.Router, r *router.Router) error {
	userHandler, err := authhdl.NewUserHandler()
	if err != nil {
		return fmt.Errorf("failed to create user handler: %v", err)
	}

	// Route công khai: phải đăng ký TRƯỚC các group có middleware
	// để không bị dính AuthMiddleware theo prefix /auth
	v1.Post("/auth/signup", userHandler.HandleSignup)
	v1.Post("/auth/login", userHandler.HandleLogin)

	auth := middleware.AuthMiddleware()

	// Route yêu cầu xác thực
	router.RegisterRouteWithMiddleware(v1, "/auth", "GET", "/me", []fiber.Handler{auth}, userHandler.HandleGetProfile)
	router.RegisterRouteWithMiddleware(v1, "/users", "GET", "/", []fiber.Handler{auth}, userHandler.HandleListMembers)
	router.RegisterRouteWithMiddleware(v1, "/users", "GET", "/admins", []fiber.Handler{auth}, userHandler.HandleListAdmins)
	router.RegisterRouteWithMiddleware(v1, "/users", "PUT", "/:id/assign-admin", []fiber.Handler{auth}, userHandler.HandleAssignAdmin)

	return nil
}
