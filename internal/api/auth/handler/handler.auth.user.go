// Package authhdl chứa các handler xử lý request HTTP cho phần xác thực và quản lý người dùng
package authhdl

import (
	"context"
	"fmt"

	authdto "field_crm/internal/api/auth/dto"
	models "field_crm/internal/api/auth/models"
	authsvc "field_crm/internal/api/auth/service"
	basehdl "field_crm/internal/api/base/handler"
	"field_crm/internal/common"

	"github.com/gofiber/fiber/v3"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserHandler xử lý các request liên quan đến xác thực và quản lý người dùng
type UserHandler struct {
	userService *authsvc.UserService
}

// NewUserHandler tạo một instance mới của UserHandler
func NewUserHandler() (*UserHandler, error) {
	userService, err := authsvc.NewUserService()
	if err != nil {
		return nil, fmt.Errorf("failed to create user service: %v", err)
	}

	return &UserHandler{
		userService: userService,
	}, nil
}

// currentUser lấy user đã xác thực từ context (do AuthMiddleware đặt vào)
func currentUser(c fiber.Ctx) (models.User, error) {
	user, ok := c.Locals("user").(models.User)
	if !ok {
		return models.User{}, common.NewError(common.ErrCodeAuth, "User not authenticated", common.StatusUnauthorized, nil)
	}
	return user, nil
}

// sanitize loại bỏ thông tin nhạy cảm trước khi trả về client
func sanitize(user models.User) models.User {
	user.Password = ""
	user.Token = ""
	return user
}

// HandleSignup xử lý đăng ký tài khoản mới
func (h *UserHandler) HandleSignup(c fiber.Ctx) error {
	return basehdl.SafeHandler(c, func() error {
		var input authdto.SignupInput
		if err := basehdl.ParseRequestBody(c, &input); err != nil {
			basehdl.HandleResponse(c, nil, err)
			return nil
		}

		user, err := h.userService.Signup(context.Background(), &input)
		if err != nil {
			basehdl.HandleResponse(c, nil, err)
			return nil
		}

		basehdl.HandleCreatedResponse(c, sanitize(user))
		return nil
	})
}

// HandleLogin xử lý đăng nhập, trả về token và thông tin người dùng
func (h *UserHandler) HandleLogin(c fiber.Ctx) error {
	return basehdl.SafeHandler(c, func() error {
		var input authdto.LoginInput
		if err := basehdl.ParseRequestBody(c, &input); err != nil {
			basehdl.HandleResponse(c, nil, err)
			return nil
		}

		user, token, err := h.userService.Login(context.Background(), &input)
		if err != nil {
			basehdl.HandleResponse(c, nil, err)
			return nil
		}

		basehdl.HandleResponse(c, fiber.Map{
			"token": token,
			"user":  sanitize(user),
		}, nil)
		return nil
	})
}

// HandleGetProfile lấy thông tin của người dùng đang đăng nhập.
// Dữ liệu nhạy cảm (password, token) được loại bỏ trước khi trả về.
func (h *UserHandler) HandleGetProfile(c fiber.Ctx) error {
	return basehdl.SafeHandler(c, func() error {
		user, err := currentUser(c)
		if err != nil {
			basehdl.HandleResponse(c, nil, err)
			return nil
		}

		basehdl.HandleResponse(c, sanitize(user), nil)
		return nil
	})
}

// HandleListMembers trả về danh sách người dùng role others trong phạm vi của actor
func (h *UserHandler) HandleListMembers(c fiber.Ctx) error {
	return basehdl.SafeHandler(c, func() error {
		actor, err := currentUser(c)
		if err != nil {
			basehdl.HandleResponse(c, nil, err)
			return nil
		}

		users, err := h.userService.ListMembers(context.Background(), actor)
		if err != nil {
			basehdl.HandleResponse(c, nil, err)
			return nil
		}

		result := make([]models.User, 0, len(users))
		for _, u := range users {
			result = append(result, sanitize(u))
		}
		basehdl.HandleResponse(c, result, nil)
		return nil
	})
}

// HandleListAdmins trả về danh sách người dùng role admin (chỉ superadmin)
func (h *UserHandler) HandleListAdmins(c fiber.Ctx) error {
	return basehdl.SafeHandler(c, func() error {
		actor, err := currentUser(c)
		if err != nil {
			basehdl.HandleResponse(c, nil, err)
			return nil
		}

		admins, err := h.userService.ListAdmins(context.Background(), actor)
		if err != nil {
			basehdl.HandleResponse(c, nil, err)
			return nil
		}

		result := make([]models.User, 0, len(admins))
		for _, u := range admins {
			result = append(result, sanitize(u))
		}
		basehdl.HandleResponse(c, result, nil)
		return nil
	})
}

// HandleAssignAdmin gán hoặc gỡ admin quản lý cho một user
func (h *UserHandler) HandleAssignAdmin(c fiber.Ctx) error {
	return basehdl.SafeHandler(c, func() error {
		actor, err := currentUser(c)
		if err != nil {
			basehdl.HandleResponse(c, nil, err)
			return nil
		}

		targetID, err := primitive.ObjectIDFromHex(c.Params("id"))
		if err != nil {
			basehdl.HandleResponse(c, nil, common.NewError(common.ErrCodeValidationFormat, "Invalid user ID", common.StatusBadRequest, err))
			return nil
		}

		var input authdto.AssignAdminInput
		if err := basehdl.ParseRequestBody(c, &input); err != nil {
			basehdl.HandleResponse(c, nil, err)
			return nil
		}

		var adminID *primitive.ObjectID
		if input.AdminID != "" {
			objID, err := primitive.ObjectIDFromHex(input.AdminID)
			if err != nil {
				basehdl.HandleResponse(c, nil, common.NewError(common.ErrCodeValidationFormat, "Invalid admin ID", common.StatusBadRequest, err))
				return nil
			}
			adminID = &objID
		}

		updated, err := h.userService.AssignAdmin(context.Background(), actor, targetID, adminID)
		if err != nil {
			basehdl.HandleResponse(c, nil, err)
			return nil
		}

		basehdl.HandleResponse(c, sanitize(updated), nil)
		return nil
	})
}
