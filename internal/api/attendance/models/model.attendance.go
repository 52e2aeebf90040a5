// Package attmodels định nghĩa model chấm công
package attmodels

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Các trạng thái chấm công trong ngày
const (
	StatusPending = "Pending"
	StatusPresent = "Present"
	StatusAbsent  = "Absent"
)

// GeoLocation là tọa độ vị trí khi check-in/check-out
type GeoLocation struct {
	Latitude  float64 `json:"latitude" bson:"latitude"`
	Longitude float64 `json:"longitude" bson:"longitude"`
}

// Attendance là bản ghi chấm công: mỗi user tối đa một bản ghi mỗi ngày
// (index unique user+date). Date là 00:00:00 đầu ngày theo unix milli.
// Trạng thái đi từ Pending (sau check-in) sang Present (sau check-out).
type Attendance struct {
	ID               primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	UserID           primitive.ObjectID `json:"user" bson:"user" index:"compound:user_date_unique"`
	Date             int64              `json:"date" bson:"date" index:"compound:user_date_unique"`
	CheckIn          int64              `json:"checkIn,omitempty" bson:"checkIn,omitempty"`
	CheckOut         int64              `json:"checkOut,omitempty" bson:"checkOut,omitempty"`
	CheckInLocation  *GeoLocation       `json:"checkInLocation,omitempty" bson:"checkInLocation,omitempty"`
	CheckOutLocation *GeoLocation       `json:"checkOutLocation,omitempty" bson:"checkOutLocation,omitempty"`
	Status           string             `json:"status" bson:"status" default:"Pending"`
	Remarks          string             `json:"remarks,omitempty" bson:"remarks,omitempty"`
	CreatedAt        int64              `json:"createdAt" bson:"createdAt"`
	UpdatedAt        int64              `json:"updatedAt" bson:"updatedAt"`
}
