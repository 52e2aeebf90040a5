// Package notifhdl chứa các handler xử lý request HTTP cho domain thông báo
package notifhdl

import (
	"context"
	"fmt"

	authmodels "field_crm/internal/api/auth/models"
	basehdl "field_crm/internal/api/base/handler"
	notifsvc "field_crm/internal/api/notification/service"
	"field_crm/internal/common"
	"field_crm/internal/delivery"

	"github.com/gofiber/fiber/v3"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// NotificationHandler xử lý các request liên quan đến thông báo
type NotificationHandler struct {
	notificationService *notifsvc.NotificationService
}

// NewNotificationHandler tạo một instance mới của NotificationHandler
func NewNotificationHandler(channel delivery.Channel) (*NotificationHandler, error) {
	notificationService, err := notifsvc.NewNotificationService(channel)
	if err != nil {
		return nil, fmt.Errorf("failed to create notification service: %v", err)
	}

	return &NotificationHandler{
		notificationService: notificationService,
	}, nil
}

func currentUser(c fiber.Ctx) (authmodels.User, error) {
	user, ok := c.Locals("user").(authmodels.User)
	if !ok {
		return authmodels.User{}, common.NewError(common.ErrCodeAuth, "User not authenticated", common.StatusUnauthorized, nil)
	}
	return user, nil
}

// HandleList trả về thông báo của người dùng hiện tại, mới nhất trước
func (h *NotificationHandler) HandleList(c fiber.Ctx) error {
	return basehdl.SafeHandler(c, func() error {
		actor, err := currentUser(c)
		if err != nil {
			basehdl.HandleResponse(c, nil, err)
			return nil
		}

		notifications, err := h.notificationService.ListForUser(context.Background(), actor.ID)
		basehdl.HandleResponse(c, notifications, err)
		return nil
	})
}

// HandleMarkRead đánh dấu một thông báo của chính mình là đã đọc
func (h *NotificationHandler) HandleMarkRead(c fiber.Ctx) error {
	return basehdl.SafeHandler(c, func() error {
		actor, err := currentUser(c)
		if err != nil {
			basehdl.HandleResponse(c, nil, err)
			return nil
		}

		notificationID, err := primitive.ObjectIDFromHex(c.Params("id"))
		if err != nil {
			basehdl.HandleResponse(c, nil, common.NewError(common.ErrCodeValidationFormat, "Invalid notification ID", common.StatusBadRequest, err))
			return nil
		}

		notification, err := h.notificationService.MarkRead(context.Background(), actor.ID, notificationID)
		basehdl.HandleResponse(c, notification, err)
		return nil
	})
}

// HandleDeleteAll xoá toàn bộ thông báo của người dùng hiện tại
func (h *NotificationHandler) HandleDeleteAll(c fiber.Ctx) error {
	return basehdl.SafeHandler(c, func() error {
		actor, err := currentUser(c)
		if err != nil {
			basehdl.HandleResponse(c, nil, err)
			return nil
		}

		deleted, err := h.notificationService.DeleteAllForUser(context.Background(), actor.ID)
		if err != nil {
			basehdl.HandleResponse(c, nil, err)
			return nil
		}

		basehdl.HandleResponse(c, fiber.Map{"deleted": deleted}, nil)
		return nil
	})
}
