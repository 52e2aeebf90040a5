// Package models - model người dùng (User) thuộc domain auth.
package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Các vai trò hợp lệ của người dùng.
const (
	RoleSuperadmin = "superadmin"
	RoleAdmin      = "admin"
	RoleOthers     = "others"
)

// User định nghĩa mô hình người dùng.
// Token chứa token xác thực mới nhất của người dùng (mỗi lần login sẽ ghi đè).
// AssignedAdmin trỏ tới admin quản lý user này (chỉ có nghĩa với role "others", nil nếu chưa được gán).
type User struct {
	ID            primitive.ObjectID  `json:"id,omitempty" bson:"_id,omitempty"`
	Username      string              `json:"username" bson:"username"`
	Email         string              `json:"email" bson:"email" index:"unique"`
	Password      string              `json:"-" bson:"password,omitempty"`
	Role          string              `json:"role" bson:"role" default:"others" index:"single:1"`
	AssignedAdmin *primitive.ObjectID `json:"assignedAdmin" bson:"assignedAdmin,omitempty" index:"single:1"`
	Token         string              `json:"-" bson:"token,omitempty"`
	CreatedAt     int64               `json:"createdAt" bson:"createdAt"`
	UpdatedAt     int64               `json:"updatedAt" bson:"updatedAt"`
}

// IsValidRole kiểm tra role có thuộc danh sách hợp lệ không.
func IsValidRole(role string) bool {
	return role == RoleSuperadmin || role == RoleAdmin || role == RoleOthers
}
