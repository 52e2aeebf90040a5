// Package authdto chứa các cấu trúc đầu vào của domain auth.
package authdto

// SignupInput đầu vào đăng ký tài khoản.
type SignupInput struct {
	Username string `json:"username" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Role     string `json:"role" validate:"omitempty,user_role"`
}

// LoginInput đầu vào đăng nhập.
type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AssignAdminInput đầu vào gán/gỡ admin cho user.
// AdminID rỗng nghĩa là gỡ gán (assignedAdmin = null).
type AssignAdminInput struct {
	AdminID string `json:"adminId"`
}
