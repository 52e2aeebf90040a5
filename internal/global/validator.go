package global

import (
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// InitValidator khởi tạo và đăng ký các custom validator
func InitValidator() {
	Validate = validator.New()

	_ = Validate.RegisterValidation("mobile_number", validateMobileNumber)
	_ = Validate.RegisterValidation("entry_type", validateEntryType)
	_ = Validate.RegisterValidation("entry_category", validateEntryCategory)
	_ = Validate.RegisterValidation("close_type", validateCloseType)
	_ = Validate.RegisterValidation("user_role", validateUserRole)
}

var mobileRegex = regexp.MustCompile(`^\d{10}$`)

// validateMobileNumber kiểm tra số điện thoại đúng 10 chữ số
func validateMobileNumber(fl validator.FieldLevel) bool {
	value := strings.TrimSpace(fl.Field().String())
	if value == "" {
		return true // bỏ qua nếu rỗng, dùng kèm required khi bắt buộc
	}
	return mobileRegex.MatchString(value)
}

// validateEntryType kiểm tra loại khách hàng hợp lệ
func validateEntryType(fl validator.FieldLevel) bool {
	value := strings.TrimSpace(fl.Field().String())
	return value == "" || value == "Partner" || value == "Customer"
}

// validateEntryCategory kiểm tra phân loại khách hàng hợp lệ
func validateEntryCategory(fl validator.FieldLevel) bool {
	value := strings.TrimSpace(fl.Field().String())
	return value == "" || value == "Private" || value == "Government"
}

// validateCloseType kiểm tra kiểu chốt deal hợp lệ
func validateCloseType(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	return value == "" || value == "Closed Won" || value == "Closed Lost"
}

// validateUserRole kiểm tra vai trò người dùng hợp lệ
func validateUserRole(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	return value == "" || value == "superadmin" || value == "admin" || value == "others"
}
