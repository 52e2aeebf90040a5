// Package attdto chứa các cấu trúc dữ liệu đầu vào cho domain chấm công
package attdto

// LocationInput là tọa độ gửi kèm check-in/check-out.
// Dùng con trỏ để phân biệt thiếu trường với giá trị 0 hợp lệ.
type LocationInput struct {
	Latitude  *float64 `json:"latitude" validate:"required"`
	Longitude *float64 `json:"longitude" validate:"required"`
}

// CheckInInput là dữ liệu đầu vào cho check-in
type CheckInInput struct {
	Location *LocationInput `json:"location" validate:"required"`
	Remarks  string         `json:"remarks"`
}

// CheckOutInput là dữ liệu đầu vào cho check-out
type CheckOutInput struct {
	Location *LocationInput `json:"location" validate:"required"`
	Remarks  string         `json:"remarks"`
}

// AttendanceListFilter là bộ lọc tùy chọn khi liệt kê chấm công
type AttendanceListFilter struct {
	From string `json:"from"`
	To   string `json:"to"`
}
