// Package entryhdl chứa các handler xử lý request HTTP cho domain entry
package entryhdl

import (
	"context"
	"fmt"
	"strconv"

	authmodels "field_crm/internal/api/auth/models"
	basehdl "field_crm/internal/api/base/handler"
	entrydto "field_crm/internal/api/entry/dto"
	entrysvc "field_crm/internal/api/entry/service"
	"field_crm/internal/common"
	"field_crm/internal/delivery"

	"github.com/gofiber/fiber/v3"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// EntryHandler xử lý các request liên quan đến entry
type EntryHandler struct {
	entryService *entrysvc.EntryService
}

// NewEntryHandler tạo một instance mới của EntryHandler
func NewEntryHandler(channel delivery.Channel) (*EntryHandler, error) {
	entryService, err := entrysvc.NewEntryService(channel)
	if err != nil {
		return nil, fmt.Errorf("failed to create entry service: %v", err)
	}

	return &EntryHandler{
		entryService: entryService,
	}, nil
}

func currentUser(c fiber.Ctx) (authmodels.User, error) {
	user, ok := c.Locals("user").(authmodels.User)
	if !ok {
		return authmodels.User{}, common.NewError(common.ErrCodeAuth, "User not authenticated", common.StatusUnauthorized, nil)
	}
	return user, nil
}

func parseEntryID(c fiber.Ctx) (primitive.ObjectID, error) {
	objID, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return primitive.NilObjectID, common.NewError(common.ErrCodeValidationFormat, "Invalid entry ID", common.StatusBadRequest, err)
	}
	return objID, nil
}

// HandleCreate xử lý tạo entry mới
func (h *EntryHandler) HandleCreate(c fiber.Ctx) error {
	return basehdl.SafeHandler(c, func() error {
		actor, err := currentUser(c)
		if err != nil {
			basehdl.HandleResponse(c, nil, err)
			return nil
		}

		var input entrydto.EntryCreateInput
		if err := basehdl.ParseRequestBody(c, &input); err != nil {
			basehdl.HandleResponse(c, nil, err)
			return nil
		}

		entry, err := h.entryService.Create(context.Background(), actor, &input)
		if err != nil {
			basehdl.HandleResponse(c, nil, err)
			return nil
		}

		basehdl.HandleCreatedResponse(c, entry)
		return nil
	})
}

// HandleList trả về danh sách entry trong phạm vi của người dùng.
// Hỗ trợ phân trang tùy chọn qua query param page/limit (page >= 1).
func (h *EntryHandler) HandleList(c fiber.Ctx) error {
	return basehdl.SafeHandler(c, func() error {
		actor, err := currentUser(c)
		if err != nil {
			basehdl.HandleResponse(c, nil, err)
			return nil
		}

		page, _ := strconv.ParseInt(c.Query("page"), 10, 64)
		limit, _ := strconv.ParseInt(c.Query("limit"), 10, 64)
		if page > 0 {
			result, err := h.entryService.ListPaginated(context.Background(), actor, page, limit)
			basehdl.HandleResponse(c, result, err)
			return nil
		}

		entries, err := h.entryService.List(context.Background(), actor)
		basehdl.HandleResponse(c, entries, err)
		return nil
	})
}

// HandleGetById trả về một entry theo id (nếu trong phạm vi)
func (h *EntryHandler) HandleGetById(c fiber.Ctx) error {
	return basehdl.SafeHandler(c, func() error {
		actor, err := currentUser(c)
		if err != nil {
			basehdl.HandleResponse(c, nil, err)
			return nil
		}

		entryID, err := parseEntryID(c)
		if err != nil {
			basehdl.HandleResponse(c, nil, err)
			return nil
		}

		entry, err := h.entryService.GetByID(context.Background(), actor, entryID)
		basehdl.HandleResponse(c, entry, err)
		return nil
	})
}

// HandleUpdate xử lý sửa một phần entry
func (h *EntryHandler) HandleUpdate(c fiber.Ctx) error {
	return basehdl.SafeHandler(c, func() error {
		actor, err := currentUser(c)
		if err != nil {
			basehdl.HandleResponse(c, nil, err)
			return nil
		}

		entryID, err := parseEntryID(c)
		if err != nil {
			basehdl.HandleResponse(c, nil, err)
			return nil
		}

		var input entrydto.EntryUpdateInput
		if err := basehdl.ParseRequestBody(c, &input); err != nil {
			basehdl.HandleResponse(c, nil, err)
			return nil
		}

		entry, err := h.entryService.Update(context.Background(), actor, entryID, &input)
		basehdl.HandleResponse(c, entry, err)
		return nil
	})
}

// HandleDelete xử lý xoá entry
func (h *EntryHandler) HandleDelete(c fiber.Ctx) error {
	return basehdl.SafeHandler(c, func() error {
		actor, err := currentUser(c)
		if err != nil {
			basehdl.HandleResponse(c, nil, err)
			return nil
		}

		entryID, err := parseEntryID(c)
		if err != nil {
			basehdl.HandleResponse(c, nil, err)
			return nil
		}

		err = h.entryService.Delete(context.Background(), actor, entryID)
		basehdl.HandleResponse(c, nil, err)
		return nil
	})
}

// HandleBulkImport xử lý nhập entry hàng loạt
func (h *EntryHandler) HandleBulkImport(c fiber.Ctx) error {
	return basehdl.SafeHandler(c, func() error {
		actor, err := currentUser(c)
		if err != nil {
			basehdl.HandleResponse(c, nil, err)
			return nil
		}

		var rows []entrydto.EntryImportRow
		if err := basehdl.ParseRequestBody(c, &rows); err != nil {
			basehdl.HandleResponse(c, nil, err)
			return nil
		}

		count, err := h.entryService.BulkImport(context.Background(), actor, rows)
		if err != nil {
			basehdl.HandleResponse(c, nil, err)
			return nil
		}

		basehdl.HandleCreatedResponse(c, fiber.Map{"count": count})
		return nil
	})
}

// HandleExport xuất entry ra file XLSX theo phạm vi và bộ lọc query
func (h *EntryHandler) HandleExport(c fiber.Ctx) error {
	return basehdl.SafeHandler(c, func() error {
		actor, err := currentUser(c)
		if err != nil {
			basehdl.HandleResponse(c, nil, err)
			return nil
		}

		filter := &entrydto.EntryExportFilter{
			CustomerName: c.Query("customerName"),
			MobileNumber: c.Query("mobileNumber"),
			Status:       c.Query("status"),
			Category:     c.Query("category"),
			State:        c.Query("state"),
			City:         c.Query("city"),
			Type:         c.Query("type"),
			CreatedFrom:  c.Query("createdFrom"),
			CreatedTo:    c.Query("createdTo"),
		}

		fileBytes, err := h.entryService.Export(context.Background(), actor, filter)
		if err != nil {
			basehdl.HandleResponse(c, nil, err)
			return nil
		}

		c.Set("Content-Disposition", "attachment; filename=entries.xlsx")
		c.Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		return c.Send(fileBytes)
	})
}
