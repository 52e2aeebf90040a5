// Package entrysvc - service quản lý entry (bản ghi khách hàng/lead).
package entrysvc

import (
	"context"
	"fmt"
	"strings"

	authmodels "field_crm/internal/api/auth/models"
	authsvc "field_crm/internal/api/auth/service"
	basemodels "field_crm/internal/api/base/models"
	basesvc "field_crm/internal/api/base/service"
	entrydto "field_crm/internal/api/entry/dto"
	entrymodels "field_crm/internal/api/entry/models"
	notifsvc "field_crm/internal/api/notification/service"
	"field_crm/internal/common"
	"field_crm/internal/delivery"
	"field_crm/internal/global"
	"field_crm/internal/utility"

	"github.com/sirupsen/logrus"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// EntryService là cấu trúc chứa các phương thức liên quan đến entry
type EntryService struct {
	*basesvc.BaseServiceMongoImpl[entrymodels.Entry]
	userService *authsvc.UserService
	notifier    *notifsvc.NotificationService
}

// NewEntryService tạo mới EntryService.
// channel là kênh đẩy thông báo được inject khi khởi động.
func NewEntryService(channel delivery.Channel) (*EntryService, error) {
	entryCollection, exist := global.RegistryCollections.Get(global.MongoDB_ColNames.Entries)
	if !exist {
		return nil, fmt.Errorf("failed to get entries collection: %v", common.ErrNotFound)
	}

	userService, err := authsvc.NewUserService()
	if err != nil {
		return nil, fmt.Errorf("failed to create user service: %v", err)
	}

	notifier, err := notifsvc.NewNotificationService(channel)
	if err != nil {
		return nil, fmt.Errorf("failed to create notification service: %v", err)
	}

	return &EntryService{
		BaseServiceMongoImpl: basesvc.NewBaseServiceMongo[entrymodels.Entry](entryCollection),
		userService:          userService,
		notifier:             notifier,
	}, nil
}

// visibilityFilter dựng bộ lọc MongoDB theo phạm vi của actor.
// Cùng một bộ lọc được dùng cho danh sách và xuất file; với role others,
// entry được gán (assignedTo) cũng hiển thị thêm bên cạnh entry tự tạo.
func (s *EntryService) visibilityFilter(ctx context.Context, actor authmodels.User) (bson.M, error) {
	all, ownerIDs, err := s.userService.VisibleOwnerIDs(ctx, actor)
	if err != nil {
		return nil, err
	}
	if all {
		return bson.M{}, nil
	}
	if actor.Role == authmodels.RoleOthers {
		return bson.M{"$or": []bson.M{
			{"createdBy": actor.ID},
			{"assignedTo": actor.ID},
		}}, nil
	}
	return bson.M{"createdBy": bson.M{"$in": ownerIDs}}, nil
}

// validateProducts kiểm tra và chuẩn hóa danh sách sản phẩm.
// strict=true (create, import): sản phẩm không hợp lệ làm hỏng cả thao tác.
// strict=false (edit): sản phẩm không hợp lệ bị log và bỏ qua.
func validateProducts(inputs []entrydto.ProductInput, strict bool) ([]entrymodels.Product, error) {
	products := make([]entrymodels.Product, 0, len(inputs))
	for _, p := range inputs {
		product := entrymodels.Product{
			Name:          strings.TrimSpace(p.Name),
			Specification: strings.TrimSpace(p.Specification),
			Size:          strings.TrimSpace(p.Size),
			Quantity:      p.Quantity,
		}
		if product.Name == "" || product.Specification == "" || product.Size == "" || product.Quantity < 1 {
			if strict {
				return nil, common.NewError(
					common.ErrCodeValidationInput,
					"All product fields (name, specification, size, quantity) are required and quantity must be positive",
					common.StatusBadRequest,
					nil,
				)
			}
			logrus.WithField("product", p).Warn("⚠️ [ENTRY] Bỏ qua sản phẩm không hợp lệ")
			continue
		}
		products = append(products, product)
	}
	return products, nil
}

// resolveAssignedTo chuyển danh sách hex id thành ObjectID và kiểm tra
// từng user có tồn tại, trả lỗi chỉ rõ id vi phạm.
func (s *EntryService) resolveAssignedTo(ctx context.Context, ids []string) ([]primitive.ObjectID, error) {
	assigned := make([]primitive.ObjectID, 0, len(ids))
	for _, raw := range ids {
		objID, err := primitive.ObjectIDFromHex(raw)
		if err != nil {
			return nil, common.NewError(common.ErrCodeValidationFormat, fmt.Sprintf("Invalid user ID: %s", raw), common.StatusBadRequest, err)
		}
		exists, err := s.userService.DocumentExists(ctx, bson.M{"_id": objID})
		if err != nil {
			return nil, err
		}
		if !exists {
			return nil, common.NewError(common.ErrCodeValidationInput, fmt.Sprintf("Assigned user not found: %s", raw), common.StatusBadRequest, nil)
		}
		assigned = append(assigned, objID)
	}
	return assigned, nil
}

// Create tạo entry mới với đúng một phần tử nhật ký ban đầu.
// Sản phẩm không hợp lệ làm hỏng toàn bộ thao tác (khác với edit).
func (s *EntryService) Create(ctx context.Context, actor authmodels.User, input *entrydto.EntryCreateInput) (entrymodels.Entry, error) {
	var zero entrymodels.Entry

	products, err := validateProducts(input.Products, true)
	if err != nil {
		return zero, err
	}

	assigned, err := s.resolveAssignedTo(ctx, input.AssignedTo)
	if err != nil {
		return zero, err
	}

	firstdate, err := utility.ParseDateMilli(input.Firstdate)
	if err != nil {
		return zero, common.NewError(common.ErrCodeValidationFormat, err.Error(), common.StatusBadRequest, err)
	}
	expectedClosing, err := utility.ParseDateMilli(input.ExpectedClosingDate)
	if err != nil {
		return zero, common.NewError(common.ErrCodeValidationFormat, err.Error(), common.StatusBadRequest, err)
	}
	followUp, err := utility.ParseDateMilli(input.FollowUpDate)
	if err != nil {
		return zero, common.NewError(common.ErrCodeValidationFormat, err.Error(), common.StatusBadRequest, err)
	}

	status := strings.TrimSpace(input.Status)
	if status == "" {
		status = entrymodels.StatusDefault
	}

	initialRemarks := strings.TrimSpace(input.Remarks)
	if initialRemarks == "" {
		initialRemarks = "Initial entry created"
	}

	entry := entrymodels.Entry{
		CustomerName:        strings.TrimSpace(input.CustomerName),
		MobileNumber:        strings.TrimSpace(input.MobileNumber),
		Contactperson:       strings.TrimSpace(input.Contactperson),
		Firstdate:           firstdate,
		Address:             strings.TrimSpace(input.Address),
		State:               strings.TrimSpace(input.State),
		City:                strings.TrimSpace(input.City),
		Organization:        strings.TrimSpace(input.Organization),
		Type:                strings.TrimSpace(input.Type),
		Category:            strings.TrimSpace(input.Category),
		Products:            products,
		Status:              status,
		ExpectedClosingDate: expectedClosing,
		FollowUpDate:        followUp,
		Remarks:             strings.TrimSpace(input.Remarks),
		LiveLocation:        strings.TrimSpace(input.LiveLocation),
		AssignedTo:          assigned,
		CreatedBy:           actor.ID,
		History: []entrymodels.HistoryEvent{
			{
				Status:       status,
				Remarks:      initialRemarks,
				LiveLocation: strings.TrimSpace(input.LiveLocation),
				Products:     products,
				AssignedTo:   assigned,
				Timestamp:    nowMilli(),
			},
		},
	}
	if input.EstimatedValue > 0 {
		entry.EstimatedValue = input.EstimatedValue
	}

	created, err := s.InsertOne(ctx, entry)
	if err != nil {
		return zero, err
	}

	s.notifier.OnEntryMutated(ctx, actor.ID, created.ID, created.AssignedTo,
		fmt.Sprintf("New entry %q created", created.CustomerName))

	return created, nil
}

// List trả về danh sách entry trong phạm vi của actor
func (s *EntryService) List(ctx context.Context, actor authmodels.User) ([]entrymodels.Entry, error) {
	filter, err := s.visibilityFilter(ctx, actor)
	if err != nil {
		return nil, err
	}
	return s.Find(ctx, filter, nil)
}

// ListPaginated trả về một trang entry trong phạm vi của actor.
// limit không hợp lệ (<= 0) mặc định 50.
func (s *EntryService) ListPaginated(ctx context.Context, actor authmodels.User, page, limit int64) (*basemodels.PaginateResult[entrymodels.Entry], error) {
	filter, err := s.visibilityFilter(ctx, actor)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 50
	}
	return s.FindWithPagination(ctx, filter, page, limit, nil)
}

// GetByID trả về một entry nếu actor có quyền thấy nó
func (s *EntryService) GetByID(ctx context.Context, actor authmodels.User, entryID primitive.ObjectID) (entrymodels.Entry, error) {
	var zero entrymodels.Entry

	entry, err := s.FindOneById(ctx, entryID)
	if err != nil {
		return zero, err
	}

	visible, err := s.canView(ctx, actor, entry)
	if err != nil {
		return zero, err
	}
	if !visible {
		return zero, common.ErrForbidden
	}
	return entry, nil
}

// canView kiểm tra actor có được thấy entry không (cùng quy tắc với visibilityFilter)
func (s *EntryService) canView(ctx context.Context, actor authmodels.User, entry entrymodels.Entry) (bool, error) {
	all, ownerIDs, err := s.userService.VisibleOwnerIDs(ctx, actor)
	if err != nil {
		return false, err
	}
	if all {
		return true, nil
	}
	for _, id := range ownerIDs {
		if entry.CreatedBy == id {
			return true, nil
		}
	}
	if actor.Role == authmodels.RoleOthers {
		for _, id := range entry.AssignedTo {
			if id == actor.ID {
				return true, nil
			}
		}
	}
	return false, nil
}

// Delete xoá cứng một entry. Quyền xoá: superadmin luôn được; admin nếu
// chủ entry là mình hoặc thành viên team; others chỉ khi là chủ entry
// (được gán không có nghĩa là được xoá).
func (s *EntryService) Delete(ctx context.Context, actor authmodels.User, entryID primitive.ObjectID) error {
	entry, err := s.FindOneById(ctx, entryID)
	if err != nil {
		return err
	}

	all, ownerIDs, err := s.userService.VisibleOwnerIDs(ctx, actor)
	if err != nil {
		return err
	}
	if !all {
		allowed := false
		for _, id := range ownerIDs {
			if entry.CreatedBy == id {
				allowed = true
				break
			}
		}
		if !allowed {
			return common.ErrForbidden
		}
	}

	return s.DeleteById(ctx, entryID)
}

// Update thực hiện sửa một phần entry: trường nil giữ nguyên, chuỗi ngày
// rỗng xoá giá trị. Engine nhật ký chạy trước khi merge, so sánh với
// trạng thái trước khi sửa. Sản phẩm không hợp lệ bị bỏ qua (đã log),
// không làm hỏng thao tác.
func (s *EntryService) Update(ctx context.Context, actor authmodels.User, entryID primitive.ObjectID, input *entrydto.EntryUpdateInput) (entrymodels.Entry, error) {
	var zero entrymodels.Entry

	entry, err := s.FindOneById(ctx, entryID)
	if err != nil {
		return zero, err
	}

	visible, err := s.canView(ctx, actor, entry)
	if err != nil {
		return zero, err
	}
	if !visible {
		return zero, common.ErrForbidden
	}

	var newProducts []entrymodels.Product
	if input.Products != nil {
		newProducts, _ = validateProducts(*input.Products, false)
	}

	var newAssigned []primitive.ObjectID
	if input.AssignedTo != nil {
		newAssigned, err = s.resolveAssignedTo(ctx, *input.AssignedTo)
		if err != nil {
			return zero, err
		}
	}

	historyEvent := BuildHistoryEvent(entry, input, newProducts, newAssigned)

	set := map[string]interface{}{}
	unset := map[string]interface{}{}

	setTrimmed := func(key string, value *string) {
		if value != nil {
			set[key] = strings.TrimSpace(*value)
		}
	}
	setDate := func(key string, value *string) error {
		if value == nil {
			return nil
		}
		if *value == "" {
			unset[key] = ""
			return nil
		}
		milli, err := utility.ParseDateMilli(*value)
		if err != nil {
			return common.NewError(common.ErrCodeValidationFormat, err.Error(), common.StatusBadRequest, err)
		}
		set[key] = milli
		return nil
	}

	setTrimmed("customerName", input.CustomerName)
	setTrimmed("mobileNumber", input.MobileNumber)
	setTrimmed("contactperson", input.Contactperson)
	setTrimmed("address", input.Address)
	setTrimmed("state", input.State)
	setTrimmed("city", input.City)
	setTrimmed("organization", input.Organization)
	setTrimmed("type", input.Type)
	setTrimmed("category", input.Category)
	setTrimmed("nextAction", input.NextAction)
	setTrimmed("closetype", input.CloseType)
	setTrimmed("firstPersonMeet", input.FirstPersonMeet)
	setTrimmed("secondPersonMeet", input.SecondPersonMeet)
	setTrimmed("thirdPersonMeet", input.ThirdPersonMeet)
	setTrimmed("fourthPersonMeet", input.FourthPersonMeet)

	if err := setDate("firstdate", input.Firstdate); err != nil {
		return zero, err
	}
	if err := setDate("expectedClosingDate", input.ExpectedClosingDate); err != nil {
		return zero, err
	}
	if err := setDate("followUpDate", input.FollowUpDate); err != nil {
		return zero, err
	}

	if input.Status != nil {
		set["status"] = *input.Status
	}
	if input.Remarks != nil {
		set["remarks"] = *input.Remarks
	}
	if input.LiveLocation != nil {
		set["liveLocation"] = strings.TrimSpace(*input.LiveLocation)
	}
	if input.EstimatedValue != nil {
		set["estimatedValue"] = *input.EstimatedValue
	}
	if input.CloseAmount != nil {
		set["closeamount"] = *input.CloseAmount
	}
	if input.Products != nil {
		set["products"] = newProducts
	}
	if input.AssignedTo != nil {
		set["assignedTo"] = newAssigned
	}

	if historyEvent != nil {
		set["history"] = AppendHistory(entry.History, *historyEvent)
	}

	updateData := &basesvc.UpdateData{Set: set}
	if len(unset) > 0 {
		updateData.Unset = unset
	}

	updated, err := s.UpdateById(ctx, entryID, updateData)
	if err != nil {
		return zero, err
	}

	if input.AssignedTo != nil {
		s.notifier.OnAssignmentDelta(ctx, updated.ID, updated.CustomerName, entry.AssignedTo, newAssigned)
	}
	if historyEvent != nil {
		s.notifier.OnEntryMutated(ctx, actor.ID, updated.ID, updated.AssignedTo,
			fmt.Sprintf("Entry %q updated: %s", updated.CustomerName, historyEvent.Remarks))
	}

	return updated, nil
}
