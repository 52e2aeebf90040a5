// Package entrydto chứa các cấu trúc dữ liệu đầu vào cho domain entry
package entrydto

// ProductInput là dữ liệu một sản phẩm trong payload
type ProductInput struct {
	Name          string `json:"name"`
	Specification string `json:"specification"`
	Size          string `json:"size"`
	Quantity      int64  `json:"quantity"`
}

// EntryCreateInput là dữ liệu đầu vào để tạo entry mới.
// Ngày tháng nhận dạng chuỗi (RFC3339 hoặc YYYY-MM-DD), chuỗi rỗng nghĩa là không đặt.
type EntryCreateInput struct {
	CustomerName        string         `json:"customerName" validate:"required"`
	MobileNumber        string         `json:"mobileNumber" validate:"omitempty,mobile_number"`
	Contactperson       string         `json:"contactperson"`
	Firstdate           string         `json:"firstdate"`
	EstimatedValue      float64        `json:"estimatedValue" validate:"omitempty,gte=0"`
	Address             string         `json:"address"`
	State               string         `json:"state"`
	City                string         `json:"city"`
	Organization        string         `json:"organization"`
	Type                string         `json:"type"`
	Category            string         `json:"category"`
	Products            []ProductInput `json:"products"`
	Status              string         `json:"status"`
	ExpectedClosingDate string         `json:"expectedClosingDate"`
	FollowUpDate        string         `json:"followUpDate"`
	Remarks             string         `json:"remarks"`
	LiveLocation        string         `json:"liveLocation" validate:"required"`
	AssignedTo          []string       `json:"assignedTo"`
}

// EntryUpdateInput là dữ liệu đầu vào để sửa entry.
// Mọi trường đều tùy chọn: nil nghĩa là giữ nguyên.
// Với các trường ngày, con trỏ tới chuỗi rỗng nghĩa là xoá giá trị.
type EntryUpdateInput struct {
	CustomerName        *string         `json:"customerName"`
	MobileNumber        *string         `json:"mobileNumber" validate:"omitempty,mobile_number"`
	Contactperson       *string         `json:"contactperson"`
	Firstdate           *string         `json:"firstdate"`
	EstimatedValue      *float64        `json:"estimatedValue"`
	Address             *string         `json:"address"`
	State               *string         `json:"state"`
	City                *string         `json:"city"`
	Organization        *string         `json:"organization"`
	Type                *string         `json:"type"`
	Category            *string         `json:"category"`
	Products            *[]ProductInput `json:"products"`
	Status              *string         `json:"status"`
	ExpectedClosingDate *string         `json:"expectedClosingDate"`
	CloseAmount         *float64        `json:"closeamount"`
	FollowUpDate        *string         `json:"followUpDate"`
	Remarks             *string         `json:"remarks"`
	LiveLocation        *string         `json:"liveLocation"`
	NextAction          *string         `json:"nextAction"`
	CloseType           *string         `json:"closetype" validate:"omitempty,close_type"`
	FirstPersonMeet     *string         `json:"firstPersonMeet"`
	SecondPersonMeet    *string         `json:"secondPersonMeet"`
	ThirdPersonMeet     *string         `json:"thirdPersonMeet"`
	FourthPersonMeet    *string         `json:"fourthPersonMeet"`
	AssignedTo          *[]string       `json:"assignedTo"`
}

// EntryImportRow là một dòng dữ liệu trong import hàng loạt.
// Việc validate chi tiết (trường bắt buộc, enum, sản phẩm) thực hiện
// trong service để trả về thông điệp lỗi chỉ rõ trường vi phạm.
type EntryImportRow struct {
	CustomerName        string         `json:"customerName"`
	MobileNumber        string         `json:"mobileNumber"`
	Contactperson       string         `json:"contactperson"`
	Firstdate           string         `json:"firstdate"`
	EstimatedValue      float64        `json:"estimatedValue"`
	Address             string         `json:"address"`
	State               string         `json:"state"`
	City                string         `json:"city"`
	Organization        string         `json:"organization"`
	Type                string         `json:"type"`
	Category            string         `json:"category"`
	Products            []ProductInput `json:"products"`
	Status              string         `json:"status"`
	ExpectedClosingDate string         `json:"expectedClosingDate"`
	CloseAmount         float64        `json:"closeamount"`
	FollowUpDate        string         `json:"followUpDate"`
	Remarks             string         `json:"remarks"`
	CloseType           string         `json:"closetype"`
	NextAction          string         `json:"nextAction"`
	CreatedAt           string         `json:"createdAt"`
}

// EntryExportFilter là bộ lọc tùy chọn cho xuất file.
// Các trường rỗng bị bỏ qua; CustomerName so khớp chuỗi con không phân
// biệt hoa thường, các trường còn lại so khớp bằng.
type EntryExportFilter struct {
	CustomerName string `json:"customerName"`
	MobileNumber string `json:"mobileNumber"`
	Status       string `json:"status"`
	Category     string `json:"category"`
	State        string `json:"state"`
	City         string `json:"city"`
	Type         string `json:"type"`
	CreatedFrom  string `json:"createdFrom"`
	CreatedTo    string `json:"createdTo"`
}
