package middleware

import (
	"context"
	"strings"
	"sync"

	"github.com/gofiber/fiber/v3"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"

	authmodels "field_crm/internal/api/auth/models"
	authsvc "field_crm/internal/api/auth/service"
	"field_crm/internal/common"
	"field_crm/internal/global"
	"field_crm/internal/logger"
	"field_crm/internal/utility"
)

// AuthManager quản lý xác thực người dùng
type AuthManager struct {
	UserCRUD *authsvc.UserService
}

var (
	authManagerInstance *AuthManager
	authManagerOnce     sync.Once
)

// GetAuthManager trả về instance duy nhất của AuthManager (singleton pattern)
func GetAuthManager() *AuthManager {
	authManagerOnce.Do(func() {
		userService, err := authsvc.NewUserService()
		if err != nil {
			panic(err)
		}
		authManagerInstance = &AuthManager{UserCRUD: userService}
	})
	return authManagerInstance
}

// AuthMiddleware middleware xác thực cho Fiber.
// Xác thực Bearer JWT, đối chiếu token đã lưu trên user document,
// và lưu thông tin user vào context.
func AuthMiddleware() fiber.Handler {
	return func(c fiber.Ctx) error {
		authManager := GetAuthManager()

		authHeader := c.Get("Authorization")
		if authHeader == "" {
			logger.GetAppLogger().WithFields(logrus.Fields{
				"path":   c.Path(),
				"method": c.Method(),
			}).Warn("❌ [AUTH] Missing Authorization header")
			HandleErrorResponse(c, common.ErrTokenMissing)
			return nil
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			HandleErrorResponse(c, common.ErrTokenInvalid)
			return nil
		}
		token := parts[1]

		// Xác thực chữ ký và hạn của JWT
		claims, err := utility.ParseToken(global.ServerConfig.JwtSecret, token)
		if err != nil {
			logger.GetAppLogger().WithFields(logrus.Fields{
				"path":  c.Path(),
				"error": err.Error(),
			}).Warn("❌ [AUTH] Invalid or expired token")
			HandleErrorResponse(c, common.ErrTokenInvalid)
			return nil
		}

		// Token phải khớp với token mới nhất đã lưu trên user document
		user, err := authManager.UserCRUD.FindOne(context.Background(), bson.M{"token": token}, nil)
		if err != nil {
			logger.GetAppLogger().WithFields(logrus.Fields{
				"path":    c.Path(),
				"user_id": claims.UserID,
			}).Warn("❌ [AUTH] Token not found in database")
			HandleErrorResponse(c, common.ErrTokenInvalid)
			return nil
		}

		c.Locals("user_id", user.ID.Hex())
		c.Locals("user", user)
		return c.Next()
	}
}

// RequireRoles middleware kiểm tra vai trò người dùng.
// Phải dùng SAU AuthMiddleware (cần user trong context).
func RequireRoles(roles ...string) fiber.Handler {
	return func(c fiber.Ctx) error {
		user, ok := c.Locals("user").(authmodels.User)
		if !ok {
			HandleErrorResponse(c, common.ErrTokenMissing)
			return nil
		}

		for _, role := range roles {
			if user.Role == role {
				return c.Next()
			}
		}

		logger.GetAppLogger().WithFields(logrus.Fields{
			"user_id": user.ID.Hex(),
			"role":    user.Role,
			"path":    c.Path(),
		}).Warn("❌ [AUTH] User role not allowed for this route")
		HandleErrorResponse(c, common.ErrForbidden)
		return nil
	}
}

// CurrentUser lấy user hiện tại từ context (đã được AuthMiddleware lưu).
func CurrentUser(c fiber.Ctx) (authmodels.User, error) {
	user, ok := c.Locals("user").(authmodels.User)
	if !ok {
		return authmodels.User{}, common.ErrTokenMissing
	}
	return user, nil
}
