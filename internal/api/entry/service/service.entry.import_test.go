// Package entrysvc - Test validate từng dòng import: trường bắt buộc,
// định dạng số điện thoại, enum type/category và sản phẩm.
package entrysvc

import (
	"strings"
	"testing"

	authmodels "field_crm/internal/api/auth/models"
	entrydto "field_crm/internal/api/entry/dto"
	entrymodels "field_crm/internal/api/entry/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func validImportRow() entrydto.EntryImportRow {
	return entrydto.EntryImportRow{
		CustomerName:  "ACME Corp",
		MobileNumber:  "9876543210",
		Contactperson: "Mr. Rao",
		Address:       "12 Industrial Estate",
		State:         "Karnataka",
		City:          "Bangalore",
		Organization:  "ACME",
		Type:          "Customer",
		Category:      "Private",
		Products: []entrydto.ProductInput{
			{Name: "Pump", Specification: "X1", Size: "L", Quantity: 2},
		},
	}
}

func importActor() authmodels.User {
	return authmodels.User{ID: primitive.NewObjectID(), Role: "others"}
}

func TestValidateImportRow_Valid(t *testing.T) {
	actor := importActor()
	entry, err := validateImportRow(actor, validImportRow(), 0)
	if err != nil {
		t.Fatalf("dòng hợp lệ không được trả lỗi: %v", err)
	}
	if entry.CreatedBy != actor.ID {
		t.Error("createdBy phải là user thực hiện import")
	}
	if entry.Status != entrymodels.StatusDefault {
		t.Errorf("status thiếu phải nhận default %q, got %q", entrymodels.StatusDefault, entry.Status)
	}
}

func TestValidateImportRow_MissingMobileNumber(t *testing.T) {
	row := validImportRow()
	row.MobileNumber = ""
	_, err := validateImportRow(importActor(), row, 3)
	if err == nil {
		t.Fatal("thiếu mobileNumber phải trả lỗi")
	}
	// Thông điệp lỗi phải chỉ rõ dòng vi phạm (đánh số từ 1)
	if !strings.Contains(err.Error(), "Row 4") {
		t.Errorf("lỗi phải chứa 'Row 4', got %q", err.Error())
	}
	if !strings.Contains(err.Error(), "mobileNumber") {
		t.Errorf("lỗi phải nêu tên trường vi phạm, got %q", err.Error())
	}
}

func TestValidateImportRow_MobileNumberTenDigits(t *testing.T) {
	for _, bad := range []string{"12345", "98765432100", "98765abc10"} {
		row := validImportRow()
		row.MobileNumber = bad
		if _, err := validateImportRow(importActor(), row, 0); err == nil {
			t.Errorf("mobileNumber %q phải bị từ chối", bad)
		}
	}
}

func TestValidateImportRow_TypeEnum(t *testing.T) {
	row := validImportRow()
	row.Type = "Reseller"
	if _, err := validateImportRow(importActor(), row, 0); err == nil {
		t.Error("type ngoài Partner/Customer phải bị từ chối")
	}
}

func TestValidateImportRow_CategoryEnum(t *testing.T) {
	row := validImportRow()
	row.Category = "Public"
	if _, err := validateImportRow(importActor(), row, 0); err == nil {
		t.Error("category ngoài Private/Government phải bị từ chối")
	}
}

func TestValidateImportRow_EmptyProducts(t *testing.T) {
	row := validImportRow()
	row.Products = nil
	if _, err := validateImportRow(importActor(), row, 0); err == nil {
		t.Error("products rỗng phải bị từ chối")
	}
}

func TestValidateImportRow_ZeroQuantityProduct(t *testing.T) {
	row := validImportRow()
	row.Products[0].Quantity = 0
	if _, err := validateImportRow(importActor(), row, 0); err == nil {
		t.Error("sản phẩm quantity 0 phải bị từ chối khi import")
	}
}

func TestValidateImportRow_CreatedAtOverride(t *testing.T) {
	row := validImportRow()
	row.CreatedAt = "2024-03-15"
	entry, err := validateImportRow(importActor(), row, 0)
	if err != nil {
		t.Fatalf("createdAt hợp lệ không được trả lỗi: %v", err)
	}
	if entry.CreatedAt == 0 {
		t.Error("createdAt do dòng import cung cấp phải được giữ lại")
	}
}

func TestValidateProducts_StrictRejectsInvalid(t *testing.T) {
	inputs := []entrydto.ProductInput{
		{Name: "Pump", Specification: "X1", Size: "L", Quantity: 2},
		{Name: "", Specification: "X2", Size: "M", Quantity: 1},
	}
	if _, err := validateProducts(inputs, true); err == nil {
		t.Error("strict mode phải trả lỗi khi có sản phẩm không hợp lệ")
	}
}

func TestValidateProducts_LenientSkipsInvalid(t *testing.T) {
	inputs := []entrydto.ProductInput{
		{Name: "Pump", Specification: "X1", Size: "L", Quantity: 2},
		{Name: "", Specification: "X2", Size: "M", Quantity: 1},
		{Name: "Valve", Specification: "V3", Size: "S", Quantity: 0},
	}
	products, err := validateProducts(inputs, false)
	if err != nil {
		t.Fatalf("lenient mode không được trả lỗi: %v", err)
	}
	// Sản phẩm không hợp lệ bị bỏ qua, sản phẩm hợp lệ được giữ lại
	if len(products) != 1 || products[0].Name != "Pump" {
		t.Errorf("chỉ sản phẩm hợp lệ được giữ lại, got %+v", products)
	}
}

func TestValidateProducts_TrimsFields(t *testing.T) {
	inputs := []entrydto.ProductInput{
		{Name: "  Pump  ", Specification: " X1 ", Size: " L ", Quantity: 2},
	}
	products, err := validateProducts(inputs, true)
	if err != nil {
		t.Fatalf("không được trả lỗi: %v", err)
	}
	if products[0].Name != "Pump" || products[0].Specification != "X1" || products[0].Size != "L" {
		t.Errorf("các trường chuỗi phải được trim, got %+v", products[0])
	}
}
