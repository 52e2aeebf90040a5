// Package entrysvc - Test bộ máy nhật ký trạng thái: điều kiện kích hoạt,
// gộp nhiều thay đổi vào một phần tử, và giới hạn FIFO 4 phần tử.
package entrysvc

import (
	"fmt"
	"testing"

	entrydto "field_crm/internal/api/entry/dto"
	entrymodels "field_crm/internal/api/entry/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func strPtr(s string) *string { return &s }

func baseEntry() entrymodels.Entry {
	return entrymodels.Entry{
		CustomerName: "ACME Corp",
		Status:       entrymodels.StatusDefault,
		Remarks:      "initial",
		Products: []entrymodels.Product{
			{Name: "Pump", Specification: "X1", Size: "L", Quantity: 2},
		},
	}
}

func TestBuildHistoryEvent_StatusChange(t *testing.T) {
	entry := baseEntry()
	input := &entrydto.EntryUpdateInput{
		Status:       strPtr("Quoted"),
		Remarks:      strPtr("sent quotation"),
		LiveLocation: strPtr("10.762,106.660"),
	}

	event := BuildHistoryEvent(entry, input, nil, nil)
	if event == nil {
		t.Fatal("đổi status phải tạo phần tử nhật ký")
	}
	if event.Status != "Quoted" {
		t.Errorf("status của phần tử phải là status MỚI, got %q", event.Status)
	}
	if event.Remarks != "sent quotation" {
		t.Errorf("remarks không được giữ lại, got %q", event.Remarks)
	}
	if event.LiveLocation != "10.762,106.660" {
		t.Errorf("liveLocation không được ghi vào phần tử, got %q", event.LiveLocation)
	}
	if event.Timestamp == 0 {
		t.Error("phần tử nhật ký thiếu timestamp")
	}
}

func TestBuildHistoryEvent_SameStatusNoTrigger(t *testing.T) {
	entry := baseEntry()
	// Gửi lại đúng status và remarks hiện tại: không có gì thay đổi
	input := &entrydto.EntryUpdateInput{
		Status:  strPtr(entry.Status),
		Remarks: strPtr(entry.Remarks),
	}
	if event := BuildHistoryEvent(entry, input, nil, nil); event != nil {
		t.Errorf("status/remarks không đổi nhưng vẫn tạo phần tử: %+v", event)
	}
}

func TestBuildHistoryEvent_NonTriggerFieldsIgnored(t *testing.T) {
	entry := baseEntry()
	// Address, city... không nằm trong điều kiện kích hoạt nhật ký
	input := &entrydto.EntryUpdateInput{
		Address: strPtr("123 New Street"),
		City:    strPtr("Hanoi"),
	}
	if event := BuildHistoryEvent(entry, input, nil, nil); event != nil {
		t.Errorf("sửa address/city không được tạo phần tử nhật ký: %+v", event)
	}
}

func TestBuildHistoryEvent_RemarksOnlyChange(t *testing.T) {
	entry := baseEntry()
	input := &entrydto.EntryUpdateInput{Remarks: strPtr("called customer")}

	event := BuildHistoryEvent(entry, input, nil, nil)
	if event == nil {
		t.Fatal("đổi remarks (status giữ nguyên) phải tạo phần tử")
	}
	if event.Status != entry.Status {
		t.Errorf("status của phần tử phải giữ status hiện tại, got %q", event.Status)
	}
	if event.Remarks != "called customer" {
		t.Errorf("remarks sai: %q", event.Remarks)
	}
}

func TestBuildHistoryEvent_ProductsChange(t *testing.T) {
	entry := baseEntry()
	newProducts := []entrymodels.Product{
		{Name: "Pump", Specification: "X2", Size: "L", Quantity: 3},
	}
	inputs := []entrydto.ProductInput{
		{Name: "Pump", Specification: "X2", Size: "L", Quantity: 3},
	}
	input := &entrydto.EntryUpdateInput{Products: &inputs}

	event := BuildHistoryEvent(entry, input, newProducts, nil)
	if event == nil {
		t.Fatal("đổi products phải tạo phần tử nhật ký")
	}
	if event.Remarks != "Products updated" {
		t.Errorf("remarks phải là 'Products updated', got %q", event.Remarks)
	}
	// Snapshot phải chứa products SAU khi sửa
	if len(event.Products) != 1 || event.Products[0].Specification != "X2" {
		t.Errorf("snapshot products phải là giá trị mới, got %+v", event.Products)
	}
}

func TestBuildHistoryEvent_ProductsUnchangedNoTrigger(t *testing.T) {
	entry := baseEntry()
	// Gửi lại đúng products hiện tại
	inputs := []entrydto.ProductInput{
		{Name: "Pump", Specification: "X1", Size: "L", Quantity: 2},
	}
	input := &entrydto.EntryUpdateInput{Products: &inputs}

	if event := BuildHistoryEvent(entry, input, entry.Products, nil); event != nil {
		t.Errorf("products không đổi nhưng vẫn tạo phần tử: %+v", event)
	}
}

func TestBuildHistoryEvent_AssignedToOrderSensitive(t *testing.T) {
	a := primitive.NewObjectID()
	b := primitive.NewObjectID()
	entry := baseEntry()
	entry.AssignedTo = []primitive.ObjectID{a, b}

	// Cùng tập user nhưng đảo thứ tự: so sánh theo JSON hóa nên vẫn kích hoạt
	reversed := []primitive.ObjectID{b, a}
	ids := []string{b.Hex(), a.Hex()}
	input := &entrydto.EntryUpdateInput{AssignedTo: &ids}

	event := BuildHistoryEvent(entry, input, nil, reversed)
	if event == nil {
		t.Fatal("đảo thứ tự assignedTo phải tạo phần tử nhật ký")
	}
	if event.Remarks != "Assigned users updated" {
		t.Errorf("remarks phải là 'Assigned users updated', got %q", event.Remarks)
	}
	if len(event.AssignedTo) != 2 || event.AssignedTo[0] != b {
		t.Errorf("snapshot assignedTo phải là giá trị mới, got %v", event.AssignedTo)
	}
}

func TestBuildHistoryEvent_PersonMeetOnly(t *testing.T) {
	entry := baseEntry()
	input := &entrydto.EntryUpdateInput{
		FirstPersonMeet: strPtr("  Mr. Sharma  "),
	}

	event := BuildHistoryEvent(entry, input, nil, nil)
	if event == nil {
		t.Fatal("đổi person meet một mình phải tạo phần tử nhật ký")
	}
	if event.Remarks != "Person meet updated" {
		t.Errorf("remarks phải là 'Person meet updated', got %q", event.Remarks)
	}
	if event.Status != entry.Status {
		t.Errorf("status phải giữ nguyên, got %q", event.Status)
	}
	if event.FirstPersonMeet != "Mr. Sharma" {
		t.Errorf("person meet phải được trim, got %q", event.FirstPersonMeet)
	}
}

func TestBuildHistoryEvent_PersonMeetMergedIntoStatusEvent(t *testing.T) {
	entry := baseEntry()
	input := &entrydto.EntryUpdateInput{
		Status:           strPtr("Quoted"),
		SecondPersonMeet: strPtr("Ms. Patel"),
	}

	event := BuildHistoryEvent(entry, input, nil, nil)
	if event == nil {
		t.Fatal("phải tạo phần tử nhật ký")
	}
	// Đổi status và person meet cùng lúc tạo đúng MỘT phần tử gộp
	if event.Status != "Quoted" {
		t.Errorf("status phải theo thay đổi status, got %q", event.Status)
	}
	if event.Remarks == "Person meet updated" {
		t.Error("remarks không được bị person meet ghi đè khi status đổi")
	}
	if event.SecondPersonMeet != "Ms. Patel" {
		t.Errorf("person meet phải được gộp vào cùng phần tử, got %q", event.SecondPersonMeet)
	}
}

func TestAppendHistory_CapAtFour(t *testing.T) {
	var history []entrymodels.HistoryEvent
	for i := 0; i < 7; i++ {
		history = AppendHistory(history, entrymodels.HistoryEvent{
			Status:    fmt.Sprintf("S%d", i),
			Timestamp: int64(i),
		})
	}
	if len(history) != entrymodels.HistoryCapacity {
		t.Fatalf("nhật ký phải giới hạn %d phần tử, got %d", entrymodels.HistoryCapacity, len(history))
	}
	// Sau 7 lần ghi, 4 phần tử mới nhất (S3..S6) phải còn lại theo thứ tự
	for i, want := range []string{"S3", "S4", "S5", "S6"} {
		if history[i].Status != want {
			t.Errorf("history[%d].Status = %q, muốn %q", i, history[i].Status, want)
		}
	}
}

func TestAppendHistory_UnderCapacityKeepsAll(t *testing.T) {
	var history []entrymodels.HistoryEvent
	for i := 0; i < 3; i++ {
		history = AppendHistory(history, entrymodels.HistoryEvent{Timestamp: int64(i)})
	}
	if len(history) != 3 {
		t.Errorf("chưa đầy không được loại bỏ phần tử, got %d", len(history))
	}
}

func TestSerializedDiffers_NilEqualsEmpty(t *testing.T) {
	if serializedDiffers[entrymodels.Product](nil, []entrymodels.Product{}) {
		t.Error("slice nil và slice rỗng phải được coi là giống nhau")
	}
}

func TestSerializedDiffers_OrderMatters(t *testing.T) {
	a := primitive.NewObjectID()
	b := primitive.NewObjectID()
	if !serializedDiffers([]primitive.ObjectID{a, b}, []primitive.ObjectID{b, a}) {
		t.Error("đảo thứ tự phần tử phải được coi là khác nhau")
	}
	if serializedDiffers([]primitive.ObjectID{a, b}, []primitive.ObjectID{a, b}) {
		t.Error("hai slice giống hệt không được coi là khác nhau")
	}
}
