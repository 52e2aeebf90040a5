package entrysvc

import (
	"encoding/json"
	"strings"
	"time"

	entrydto "field_crm/internal/api/entry/dto"
	entrymodels "field_crm/internal/api/entry/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func nowMilli() int64 {
	return time.Now().UnixMilli()
}

// BuildHistoryEvent quyết định một lần sửa entry có đáng ghi nhật ký hay không
// và dựng phần tử nhật ký nếu có. So sánh từng trường với trạng thái hiện tại
// của entry (trước khi sửa); snapshot products/assignedTo ghi giá trị MỚI
// (sau khi sửa). Nhiều trường thay đổi cùng lúc tạo đúng MỘT phần tử gộp.
//
// Trả về nil nếu không có điều kiện nào kích hoạt (kể cả khi payload chứa
// các thay đổi khác như địa chỉ).
func BuildHistoryEvent(entry entrymodels.Entry, input *entrydto.EntryUpdateInput, newProducts []entrymodels.Product, newAssigned []primitive.ObjectID) *entrymodels.HistoryEvent {
	event := entrymodels.HistoryEvent{
		Timestamp: time.Now().UnixMilli(),
	}
	triggered := false

	// Snapshot dùng giá trị sau khi sửa nếu trường được cung cấp
	snapshotProducts := entry.Products
	if input.Products != nil {
		snapshotProducts = newProducts
	}
	snapshotAssigned := entry.AssignedTo
	if input.AssignedTo != nil {
		snapshotAssigned = newAssigned
	}

	switch {
	case input.Status != nil && *input.Status != entry.Status:
		event.Status = *input.Status
		if input.Remarks != nil {
			event.Remarks = *input.Remarks
		}
		if input.NextAction != nil && *input.NextAction != "" {
			event.NextAction = strings.TrimSpace(*input.NextAction)
		}
		if input.EstimatedValue != nil && *input.EstimatedValue != 0 {
			event.EstimatedValue = *input.EstimatedValue
		}
		triggered = true

	case input.Remarks != nil && *input.Remarks != entry.Remarks:
		event.Status = entry.Status
		event.Remarks = *input.Remarks
		triggered = true

	case input.Products != nil && serializedDiffers(newProducts, entry.Products):
		event.Status = entry.Status
		event.Remarks = "Products updated"
		if input.Remarks != nil && *input.Remarks != "" {
			event.Remarks = *input.Remarks
		}
		triggered = true

	case input.AssignedTo != nil && serializedDiffers(newAssigned, entry.AssignedTo):
		event.Status = entry.Status
		event.Remarks = "Assigned users updated"
		triggered = true
	}

	if triggered {
		if input.LiveLocation != nil && *input.LiveLocation != "" {
			event.LiveLocation = *input.LiveLocation
		}
		event.Products = snapshotProducts
		event.AssignedTo = snapshotAssigned
	}

	// Các trường person meet được gộp vào cùng phần tử;
	// tự chúng cũng đủ để kích hoạt một phần tử mới.
	personChanged := false
	type personField struct {
		value   *string
		current string
		target  *string
	}
	fields := []personField{
		{input.FirstPersonMeet, entry.FirstPersonMeet, &event.FirstPersonMeet},
		{input.SecondPersonMeet, entry.SecondPersonMeet, &event.SecondPersonMeet},
		{input.ThirdPersonMeet, entry.ThirdPersonMeet, &event.ThirdPersonMeet},
		{input.FourthPersonMeet, entry.FourthPersonMeet, &event.FourthPersonMeet},
	}
	for _, f := range fields {
		if f.value == nil {
			continue
		}
		trimmed := strings.TrimSpace(*f.value)
		if trimmed == "" || trimmed == f.current {
			continue
		}
		*f.target = trimmed
		personChanged = true
	}

	if personChanged && !triggered {
		event.Status = entry.Status
		event.Remarks = "Person meet updated"
		event.Products = snapshotProducts
		event.AssignedTo = snapshotAssigned
		triggered = true
	}

	if !triggered {
		return nil
	}
	return &event
}

// AppendHistory thêm một phần tử vào cuối nhật ký.
// Nếu nhật ký đã đầy (HistoryCapacity phần tử), phần tử cũ nhất bị
// loại bỏ trước khi thêm (FIFO).
func AppendHistory(history []entrymodels.HistoryEvent, event entrymodels.HistoryEvent) []entrymodels.HistoryEvent {
	if len(history) >= entrymodels.HistoryCapacity {
		history = history[1:]
	}
	return append(history, event)
}

// serializedDiffers so sánh hai slice theo dạng JSON hóa, nhạy cảm với
// thứ tự phần tử. Slice nil và slice rỗng được coi là giống nhau.
func serializedDiffers[T any](a []T, b []T) bool {
	if a == nil {
		a = []T{}
	}
	if b == nil {
		b = []T{}
	}
	aJSON, errA := json.Marshal(a)
	bJSON, errB := json.Marshal(b)
	if errA != nil || errB != nil {
		return true
	}
	return string(aJSON) != string(bJSON)
}
