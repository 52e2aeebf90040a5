// Package atthdl chứa các handler xử lý request HTTP cho domain chấm công
package atthdl

import (
	"context"
	"fmt"

	attdto "field_crm/internal/api/attendance/dto"
	attsvc "field_crm/internal/api/attendance/service"
	authmodels "field_crm/internal/api/auth/models"
	basehdl "field_crm/internal/api/base/handler"
	"field_crm/internal/common"

	"github.com/gofiber/fiber/v3"
)

// AttendanceHandler xử lý các request liên quan đến chấm công
type AttendanceHandler struct {
	attendanceService *attsvc.AttendanceService
}

// NewAttendanceHandler tạo một instance mới của AttendanceHandler
func NewAttendanceHandler() (*AttendanceHandler, error) {
	attendanceService, err := attsvc.NewAttendanceService()
	if err != nil {
		return nil, fmt.Errorf("failed to create attendance service: %v", err)
	}

	return &AttendanceHandler{
		attendanceService: attendanceService,
	}, nil
}

func currentUser(c fiber.Ctx) (authmodels.User, error) {
	user, ok := c.Locals("user").(authmodels.User)
	if !ok {
		return authmodels.User{}, common.NewError(common.ErrCodeAuth, "User not authenticated", common.StatusUnauthorized, nil)
	}
	return user, nil
}

// HandleCheckIn xử lý check-in hôm nay
func (h *AttendanceHandler) HandleCheckIn(c fiber.Ctx) error {
	return basehdl.SafeHandler(c, func() error {
		actor, err := currentUser(c)
		if err != nil {
			basehdl.HandleResponse(c, nil, err)
			return nil
		}

		var input attdto.CheckInInput
		if err := basehdl.ParseRequestBody(c, &input); err != nil {
			basehdl.HandleResponse(c, nil, err)
			return nil
		}

		attendance, err := h.attendanceService.CheckIn(context.Background(), actor, &input)
		if err != nil {
			basehdl.HandleResponse(c, nil, err)
			return nil
		}

		basehdl.HandleCreatedResponse(c, attendance)
		return nil
	})
}

// HandleCheckOut xử lý check-out hôm nay
func (h *AttendanceHandler) HandleCheckOut(c fiber.Ctx) error {
	return basehdl.SafeHandler(c, func() error {
		actor, err := currentUser(c)
		if err != nil {
			basehdl.HandleResponse(c, nil, err)
			return nil
		}

		var input attdto.CheckOutInput
		if err := basehdl.ParseRequestBody(c, &input); err != nil {
			basehdl.HandleResponse(c, nil, err)
			return nil
		}

		attendance, err := h.attendanceService.CheckOut(context.Background(), actor, &input)
		basehdl.HandleResponse(c, attendance, err)
		return nil
	})
}

// HandleToday trả về bản ghi chấm công hôm nay của người dùng hiện tại
func (h *AttendanceHandler) HandleToday(c fiber.Ctx) error {
	return basehdl.SafeHandler(c, func() error {
		actor, err := currentUser(c)
		if err != nil {
			basehdl.HandleResponse(c, nil, err)
			return nil
		}

		attendance, err := h.attendanceService.TodayFor(context.Background(), actor.ID)
		basehdl.HandleResponse(c, attendance, err)
		return nil
	})
}

// HandleList trả về bản ghi chấm công trong phạm vi của người dùng
func (h *AttendanceHandler) HandleList(c fiber.Ctx) error {
	return basehdl.SafeHandler(c, func() error {
		actor, err := currentUser(c)
		if err != nil {
			basehdl.HandleResponse(c, nil, err)
			return nil
		}

		filter := &attdto.AttendanceListFilter{
			From: c.Query("from"),
			To:   c.Query("to"),
		}

		records, err := h.attendanceService.List(context.Background(), actor, filter)
		basehdl.HandleResponse(c, records, err)
		return nil
	})
}
