package entrysvc

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	authmodels "field_crm/internal/api/auth/models"
	entrydto "field_crm/internal/api/entry/dto"
	entrymodels "field_crm/internal/api/entry/models"
	"field_crm/internal/common"
	"field_crm/internal/utility"

	"github.com/sirupsen/logrus"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Kích thước mỗi batch ghi khi import hàng loạt
const importBatchSize = 500

var mobileNumberPattern = regexp.MustCompile(`^\d{10}$`)

var importEntryTypes = map[string]bool{
	"Partner":  true,
	"Customer": true,
}

var importCategories = map[string]bool{
	"Private":    true,
	"Government": true,
}

// validateImportRow kiểm tra một dòng import, trả về entry đã chuẩn hóa.
// Một dòng lỗi làm hỏng cả batch (kiểm tra all-or-nothing trước khi ghi).
func validateImportRow(actor authmodels.User, row entrydto.EntryImportRow, index int) (entrymodels.Entry, error) {
	var zero entrymodels.Entry

	rowErr := func(format string, args ...interface{}) error {
		msg := fmt.Sprintf(format, args...)
		return common.NewError(common.ErrCodeValidationInput, fmt.Sprintf("Row %d: %s", index+1, msg), common.StatusBadRequest, nil)
	}

	required := []struct {
		name  string
		value string
	}{
		{"customerName", row.CustomerName},
		{"mobileNumber", row.MobileNumber},
		{"contactperson", row.Contactperson},
		{"address", row.Address},
		{"organization", row.Organization},
		{"category", row.Category},
		{"state", row.State},
		{"city", row.City},
	}
	for _, field := range required {
		if strings.TrimSpace(field.value) == "" {
			return zero, rowErr("%s is required and must be a non-empty string", field.name)
		}
	}

	if !mobileNumberPattern.MatchString(strings.TrimSpace(row.MobileNumber)) {
		return zero, rowErr("Mobile number must be exactly 10 digits")
	}
	if !importEntryTypes[row.Type] {
		return zero, rowErr("Type must be either 'Partner' or 'Customer'")
	}
	if !importCategories[row.Category] {
		return zero, rowErr("Category must be either 'Private' or 'Government'")
	}
	if row.EstimatedValue < 0 {
		return zero, rowErr("Estimated value must be a non-negative number")
	}
	if len(row.Products) == 0 {
		return zero, rowErr("Products must be a non-empty array")
	}

	products, err := validateProducts(row.Products, true)
	if err != nil {
		return zero, rowErr("All product fields (name, specification, size, quantity) are required and quantity must be positive")
	}

	firstdate, err := utility.ParseDateMilli(row.Firstdate)
	if err != nil {
		return zero, rowErr(err.Error())
	}
	expectedClosing, err := utility.ParseDateMilli(row.ExpectedClosingDate)
	if err != nil {
		return zero, rowErr(err.Error())
	}
	followUp, err := utility.ParseDateMilli(row.FollowUpDate)
	if err != nil {
		return zero, rowErr(err.Error())
	}
	createdAt, err := utility.ParseDateMilli(row.CreatedAt)
	if err != nil {
		return zero, rowErr(err.Error())
	}

	status := strings.TrimSpace(row.Status)
	if status == "" {
		status = entrymodels.StatusDefault
	}

	entry := entrymodels.Entry{
		CustomerName:        strings.TrimSpace(row.CustomerName),
		MobileNumber:        strings.TrimSpace(row.MobileNumber),
		Contactperson:       strings.TrimSpace(row.Contactperson),
		Firstdate:           firstdate,
		Address:             strings.TrimSpace(row.Address),
		State:               strings.TrimSpace(row.State),
		City:                strings.TrimSpace(row.City),
		Organization:        strings.TrimSpace(row.Organization),
		Type:                strings.TrimSpace(row.Type),
		Category:            strings.TrimSpace(row.Category),
		Products:            products,
		Status:              status,
		ExpectedClosingDate: expectedClosing,
		FollowUpDate:        followUp,
		Remarks:             strings.TrimSpace(row.Remarks),
		CloseType:           strings.TrimSpace(row.CloseType),
		NextAction:          strings.TrimSpace(row.NextAction),
		CreatedBy:           actor.ID,
		CreatedAt:           createdAt,
	}
	if row.EstimatedValue > 0 {
		entry.EstimatedValue = row.EstimatedValue
	}
	if row.CloseAmount > 0 {
		entry.CloseAmount = row.CloseAmount
	}

	return entry, nil
}

// BulkImport nhập một mảng entry. Toàn bộ mảng được validate trước, một
// dòng lỗi hủy cả batch (chưa có gì được ghi). Ghi theo từng batch 500
// với unordered insert: một document lỗi (ví dụ trùng key) không chặn
// các document khác trong cùng batch; batch đã commit không bị ảnh
// hưởng bởi lỗi của batch sau.
func (s *EntryService) BulkImport(ctx context.Context, actor authmodels.User, rows []entrydto.EntryImportRow) (int64, error) {
	if len(rows) == 0 {
		return 0, common.NewError(common.ErrCodeValidationInput, "Invalid data format. Array expected.", common.StatusBadRequest, nil)
	}

	validated := make([]entrymodels.Entry, 0, len(rows))
	for i, row := range rows {
		entry, err := validateImportRow(actor, row, i)
		if err != nil {
			return 0, err
		}
		validated = append(validated, entry)
	}

	var inserted int64
	var lastErr error
	for start := 0; start < len(validated); start += importBatchSize {
		end := start + importBatchSize
		if end > len(validated) {
			end = len(validated)
		}
		batch := validated[start:end]

		docs := make([]interface{}, 0, len(batch))
		now := nowMilli()
		for _, entry := range batch {
			doc, err := utility.ToMap(entry)
			if err != nil {
				return inserted, common.ErrInvalidFormat
			}
			// Giữ createdAt do dòng import cung cấp (nếu có)
			if entry.CreatedAt == 0 {
				doc["createdAt"] = now
			}
			doc["updatedAt"] = now
			docs = append(docs, doc)
		}

		result, err := s.Collection().InsertMany(ctx, docs, options.InsertMany().SetOrdered(false))
		if result != nil {
			inserted += int64(len(result.InsertedIDs))
		}
		if err != nil {
			// Unordered insert: lỗi một phần (trùng key) không hủy các
			// document còn lại; ghi nhận lỗi và tiếp tục batch sau
			if mongo.IsDuplicateKeyError(err) {
				logrus.WithError(err).Warn("⚠️ [IMPORT] Một số document trùng key bị bỏ qua")
				lastErr = common.ErrDuplicate
				continue
			}
			return inserted, common.ConvertMongoError(err)
		}
	}

	if inserted == 0 && lastErr != nil {
		return 0, lastErr
	}
	return inserted, nil
}
