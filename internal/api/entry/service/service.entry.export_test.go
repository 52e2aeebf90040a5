// Package entrysvc - Test định dạng hiển thị khi xuất file và ghép bộ lọc.
package entrysvc

import (
	"testing"
	"time"

	entrydto "field_crm/internal/api/entry/dto"
	entrymodels "field_crm/internal/api/entry/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestFormatProductsDisplay(t *testing.T) {
	products := []entrymodels.Product{
		{Name: "Pump", Specification: "X1", Size: "L", Quantity: 2},
		{Name: "Valve", Specification: "V3", Size: "S", Quantity: 5},
	}
	got := FormatProductsDisplay(products)
	want := "Pump (X1, L, Qty: 2); Valve (V3, S, Qty: 5)"
	if got != want {
		t.Errorf("FormatProductsDisplay = %q, muốn %q", got, want)
	}
}

func TestFormatProductsDisplay_Empty(t *testing.T) {
	if got := FormatProductsDisplay(nil); got != "" {
		t.Errorf("danh sách rỗng phải trả chuỗi rỗng, got %q", got)
	}
}

func TestFormatDateDisplay(t *testing.T) {
	if got := formatDateDisplay(0); got != "Not Set" {
		t.Errorf("ngày chưa đặt phải hiển thị 'Not Set', got %q", got)
	}
	milli := time.Date(2024, 3, 15, 10, 0, 0, 0, time.Local).UnixMilli()
	if got := formatDateDisplay(milli); got != "15/03/2024" {
		t.Errorf("formatDateDisplay = %q, muốn 15/03/2024", got)
	}
}

func TestExportRow_Defaults(t *testing.T) {
	creator := primitive.NewObjectID()
	entry := entrymodels.Entry{
		CustomerName: "ACME Corp",
		CreatedBy:    creator,
	}
	row := exportRow(entry, map[primitive.ObjectID]string{creator: "fieldsales01"})

	// Các trường chưa đặt phải hiển thị default thay vì chuỗi rỗng
	if row["status"] != entrymodels.StatusDefault {
		t.Errorf("status rỗng phải hiển thị %q, got %v", entrymodels.StatusDefault, row["status"])
	}
	for _, key := range []string{"firstdate", "expectedClosingDate", "followUpDate", "closetype", "remarks", "nextAction"} {
		if row[key] != "Not Set" {
			t.Errorf("cột %s chưa đặt phải hiển thị 'Not Set', got %v", key, row[key])
		}
	}
	if row["createdBy"] != "fieldsales01" {
		t.Errorf("createdBy phải được resolve thành username, got %v", row["createdBy"])
	}
}

func TestExportColumns_CoveredByRow(t *testing.T) {
	row := exportRow(entrymodels.Entry{}, nil)
	for _, col := range exportColumns {
		if _, ok := row[col]; !ok {
			t.Errorf("cột %q có trong header nhưng exportRow không cung cấp", col)
		}
	}
}

func TestBuildExportFilter_PreservesScope(t *testing.T) {
	owner := primitive.NewObjectID()
	base := bson.M{"createdBy": owner}
	combined, err := buildExportFilter(base, &entrydto.EntryExportFilter{Status: "Quoted"})
	if err != nil {
		t.Fatalf("không được trả lỗi: %v", err)
	}
	// Bộ lọc tùy chọn chỉ thu hẹp, không được thay thế bộ lọc phạm vi
	if combined["createdBy"] != owner {
		t.Error("bộ lọc phạm vi phải được giữ nguyên trong bộ lọc ghép")
	}
	if combined["status"] != "Quoted" {
		t.Errorf("bộ lọc status không được áp dụng, got %v", combined["status"])
	}
}

func TestBuildExportFilter_CustomerNameRegex(t *testing.T) {
	combined, err := buildExportFilter(bson.M{}, &entrydto.EntryExportFilter{CustomerName: "acme"})
	if err != nil {
		t.Fatalf("không được trả lỗi: %v", err)
	}
	clause, ok := combined["customerName"].(bson.M)
	if !ok {
		t.Fatalf("customerName phải là điều kiện $regex, got %T", combined["customerName"])
	}
	if clause["$regex"] != "acme" || clause["$options"] != "i" {
		t.Errorf("so khớp chuỗi con phải không phân biệt hoa thường, got %v", clause)
	}
}

func TestBuildExportFilter_CreatedRange(t *testing.T) {
	combined, err := buildExportFilter(bson.M{}, &entrydto.EntryExportFilter{
		CreatedFrom: "2024-01-01",
		CreatedTo:   "2024-06-30",
	})
	if err != nil {
		t.Fatalf("không được trả lỗi: %v", err)
	}
	createdRange, ok := combined["createdAt"].(bson.M)
	if !ok {
		t.Fatal("createdAt phải là điều kiện khoảng")
	}
	if _, ok := createdRange["$gte"]; !ok {
		t.Error("thiếu cận dưới $gte")
	}
	if _, ok := createdRange["$lte"]; !ok {
		t.Error("thiếu cận trên $lte")
	}
}

func TestBuildExportFilter_BadDateRejected(t *testing.T) {
	if _, err := buildExportFilter(bson.M{}, &entrydto.EntryExportFilter{CreatedFrom: "not-a-date"}); err == nil {
		t.Error("ngày không hợp lệ phải trả lỗi")
	}
}

func TestBuildExportFilter_NilFilterKeepsBase(t *testing.T) {
	base := bson.M{"createdBy": bson.M{"$in": []primitive.ObjectID{primitive.NewObjectID()}}}
	combined, err := buildExportFilter(base, nil)
	if err != nil {
		t.Fatalf("không được trả lỗi: %v", err)
	}
	if len(combined) != 1 {
		t.Errorf("filter nil chỉ giữ bộ lọc phạm vi, got %v", combined)
	}
}
