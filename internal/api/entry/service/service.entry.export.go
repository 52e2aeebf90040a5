package entrysvc

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	authmodels "field_crm/internal/api/auth/models"
	entrydto "field_crm/internal/api/entry/dto"
	entrymodels "field_crm/internal/api/entry/models"
	"field_crm/internal/common"
	"field_crm/internal/utility"

	"github.com/xuri/excelize/v2"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const exportSheetName = "Customer Entries"

const exportDateLayout = "02/01/2006"

var exportColumns = []string{
	"customerName", "mobileNumber", "contactperson", "firstdate",
	"address", "state", "city", "products", "type", "organization",
	"category", "status", "createdAt", "createdBy", "closetype",
	"expectedClosingDate", "followUpDate", "remarks",
	"estimatedValue", "closeamount", "nextAction",
}

// buildExportFilter ghép bộ lọc phạm vi với các bộ lọc tùy chọn.
// customerName khớp chuỗi con không phân biệt hoa thường, createdAt
// lọc theo khoảng, các trường còn lại so khớp bằng.
func buildExportFilter(base bson.M, filter *entrydto.EntryExportFilter) (bson.M, error) {
	combined := bson.M{}
	for key, value := range base {
		combined[key] = value
	}
	if filter == nil {
		return combined, nil
	}

	if filter.CustomerName != "" {
		combined["customerName"] = bson.M{
			"$regex":   filter.CustomerName,
			"$options": "i",
		}
	}
	if filter.MobileNumber != "" {
		combined["mobileNumber"] = filter.MobileNumber
	}
	if filter.Status != "" {
		combined["status"] = filter.Status
	}
	if filter.Category != "" {
		combined["category"] = filter.Category
	}
	if filter.State != "" {
		combined["state"] = filter.State
	}
	if filter.City != "" {
		combined["city"] = filter.City
	}
	if filter.Type != "" {
		combined["type"] = filter.Type
	}

	createdRange := bson.M{}
	if filter.CreatedFrom != "" {
		from, err := utility.ParseDateMilli(filter.CreatedFrom)
		if err != nil {
			return nil, common.NewError(common.ErrCodeValidationFormat, err.Error(), common.StatusBadRequest, err)
		}
		createdRange["$gte"] = from
	}
	if filter.CreatedTo != "" {
		to, err := utility.ParseDateMilli(filter.CreatedTo)
		if err != nil {
			return nil, common.NewError(common.ErrCodeValidationFormat, err.Error(), common.StatusBadRequest, err)
		}
		createdRange["$lte"] = to
	}
	if len(createdRange) > 0 {
		combined["createdAt"] = createdRange
	}

	return combined, nil
}

// FormatProductsDisplay nối danh sách sản phẩm thành một chuỗi hiển thị
func FormatProductsDisplay(products []entrymodels.Product) string {
	parts := make([]string, 0, len(products))
	for _, p := range products {
		parts = append(parts, fmt.Sprintf("%s (%s, %s, Qty: %d)", p.Name, p.Specification, p.Size, p.Quantity))
	}
	return strings.Join(parts, "; ")
}

// formatDateDisplay hiển thị unix milli dưới dạng ngày; 0 trả về "Not Set"
func formatDateDisplay(milli int64) string {
	if milli == 0 {
		return "Not Set"
	}
	return time.UnixMilli(milli).Format(exportDateLayout)
}

func displayOrNotSet(value string) string {
	if value == "" {
		return "Not Set"
	}
	return value
}

// exportRow dựng map cột -> chuỗi hiển thị cho một entry
func exportRow(entry entrymodels.Entry, creatorNames map[primitive.ObjectID]string) map[string]interface{} {
	status := entry.Status
	if status == "" {
		status = entrymodels.StatusDefault
	}
	return map[string]interface{}{
		"customerName":        entry.CustomerName,
		"mobileNumber":        entry.MobileNumber,
		"contactperson":       entry.Contactperson,
		"firstdate":           formatDateDisplay(entry.Firstdate),
		"address":             entry.Address,
		"state":               entry.State,
		"city":                entry.City,
		"products":            FormatProductsDisplay(entry.Products),
		"type":                entry.Type,
		"organization":        entry.Organization,
		"category":            entry.Category,
		"status":              status,
		"createdAt":           formatDateDisplay(entry.CreatedAt),
		"createdBy":           creatorNames[entry.CreatedBy],
		"closetype":           displayOrNotSet(entry.CloseType),
		"expectedClosingDate": formatDateDisplay(entry.ExpectedClosingDate),
		"followUpDate":        formatDateDisplay(entry.FollowUpDate),
		"remarks":             displayOrNotSet(entry.Remarks),
		"estimatedValue":      entry.EstimatedValue,
		"closeamount":         entry.CloseAmount,
		"nextAction":          displayOrNotSet(entry.NextAction),
	}
}

// Export xuất các entry trong phạm vi của actor (cộng bộ lọc tùy chọn)
// thành file XLSX. Không có entry nào khớp vẫn trả về file chỉ có header.
// Thứ tự dòng theo thứ tự tự nhiên của store, không sắp xếp thêm.
func (s *EntryService) Export(ctx context.Context, actor authmodels.User, filter *entrydto.EntryExportFilter) ([]byte, error) {
	base, err := s.visibilityFilter(ctx, actor)
	if err != nil {
		return nil, err
	}
	combined, err := buildExportFilter(base, filter)
	if err != nil {
		return nil, err
	}

	entries, err := s.Find(ctx, combined, nil)
	if err != nil {
		return nil, err
	}

	// Resolve tên người tạo một lần cho toàn bộ kết quả
	creatorIDs := make([]primitive.ObjectID, 0, len(entries))
	seen := map[primitive.ObjectID]bool{}
	for _, entry := range entries {
		if !seen[entry.CreatedBy] {
			seen[entry.CreatedBy] = true
			creatorIDs = append(creatorIDs, entry.CreatedBy)
		}
	}
	creatorNames := map[primitive.ObjectID]string{}
	if len(creatorIDs) > 0 {
		creators, err := s.userService.FindManyByIds(ctx, creatorIDs)
		if err != nil {
			return nil, err
		}
		for _, creator := range creators {
			creatorNames[creator.ID] = creator.Username
		}
	}

	file := excelize.NewFile()
	defer file.Close()

	sheetIndex, err := file.NewSheet(exportSheetName)
	if err != nil {
		return nil, common.NewError(common.ErrCodeInternalServer, "Không thể tạo sheet xuất dữ liệu", common.StatusInternalServerError, err)
	}
	file.SetActiveSheet(sheetIndex)
	file.DeleteSheet("Sheet1")

	for col, name := range exportColumns {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, common.NewError(common.ErrCodeInternalServer, "Không thể ghi header xuất dữ liệu", common.StatusInternalServerError, err)
		}
		if err := file.SetCellValue(exportSheetName, cell, name); err != nil {
			return nil, common.NewError(common.ErrCodeInternalServer, "Không thể ghi header xuất dữ liệu", common.StatusInternalServerError, err)
		}
	}

	for rowIndex, entry := range entries {
		row := exportRow(entry, creatorNames)
		for col, name := range exportColumns {
			cell, err := excelize.CoordinatesToCellName(col+1, rowIndex+2)
			if err != nil {
				return nil, common.NewError(common.ErrCodeInternalServer, "Không thể ghi dữ liệu xuất file", common.StatusInternalServerError, err)
			}
			if err := file.SetCellValue(exportSheetName, cell, row[name]); err != nil {
				return nil, common.NewError(common.ErrCodeInternalServer, "Không thể ghi dữ liệu xuất file", common.StatusInternalServerError, err)
			}
		}
	}

	var buffer bytes.Buffer
	if err := file.Write(&buffer); err != nil {
		return nil, common.NewError(common.ErrCodeInternalServer, "Không thể ghi file xuất dữ liệu", common.StatusInternalServerError, err)
	}
	return buffer.Bytes(), nil
}
