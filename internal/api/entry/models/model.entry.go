// Package entrymodels định nghĩa model cho khách hàng (entry) và nhật ký trạng thái
package entrymodels

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Số phần tử tối đa của nhật ký trạng thái trên một entry.
// Khi vượt quá, phần tử cũ nhất (index 0) bị loại bỏ (FIFO).
const HistoryCapacity = 4

// StatusDefault là trạng thái mặc định của entry khi không được cung cấp
const StatusDefault = "Not Found"

// Product là một sản phẩm nhúng trong entry.
// Cả bốn trường phải hợp lệ cùng nhau (quantity >= 1), nếu không
// sản phẩm bị coi là không hợp lệ.
type Product struct {
	Name          string `json:"name" bson:"name,omitempty"`
	Specification string `json:"specification" bson:"specification,omitempty"`
	Size          string `json:"size" bson:"size,omitempty"`
	Quantity      int64  `json:"quantity" bson:"quantity,omitempty"`
}

// HistoryEvent là một snapshot bất biến trong nhật ký trạng thái của entry.
// Snapshot ghi lại trạng thái SAU lần sửa tạo ra nó.
type HistoryEvent struct {
	Status           string               `json:"status" bson:"status"`
	Remarks          string               `json:"remarks,omitempty" bson:"remarks,omitempty"`
	LiveLocation     string               `json:"liveLocation,omitempty" bson:"liveLocation,omitempty"`
	NextAction       string               `json:"nextAction,omitempty" bson:"nextAction,omitempty"`
	EstimatedValue   float64              `json:"estimatedValue,omitempty" bson:"estimatedValue,omitempty"`
	Products         []Product            `json:"products,omitempty" bson:"products,omitempty"`
	AssignedTo       []primitive.ObjectID `json:"assignedTo,omitempty" bson:"assignedTo,omitempty"`
	FirstPersonMeet  string               `json:"firstPersonMeet,omitempty" bson:"firstPersonMeet,omitempty"`
	SecondPersonMeet string               `json:"secondPersonMeet,omitempty" bson:"secondPersonMeet,omitempty"`
	ThirdPersonMeet  string               `json:"thirdPersonMeet,omitempty" bson:"thirdPersonMeet,omitempty"`
	FourthPersonMeet string               `json:"fourthPersonMeet,omitempty" bson:"fourthPersonMeet,omitempty"`
	Timestamp        int64                `json:"timestamp" bson:"timestamp"`
}

// Entry là một bản ghi khách hàng/lead được theo dõi qua pipeline bán hàng.
// CreatedBy là chủ sở hữu, không bao giờ thay đổi sau khi tạo.
// History bị chặn ở HistoryCapacity phần tử.
type Entry struct {
	ID                  primitive.ObjectID   `json:"id" bson:"_id,omitempty"`
	CustomerName        string               `json:"customerName" bson:"customerName" index:"single:1"`
	MobileNumber        string               `json:"mobileNumber,omitempty" bson:"mobileNumber,omitempty" index:"single:1"`
	Contactperson       string               `json:"contactperson,omitempty" bson:"contactperson,omitempty"`
	Firstdate           int64                `json:"firstdate,omitempty" bson:"firstdate,omitempty"`
	EstimatedValue      float64              `json:"estimatedValue,omitempty" bson:"estimatedValue,omitempty"`
	Address             string               `json:"address,omitempty" bson:"address,omitempty"`
	State               string               `json:"state,omitempty" bson:"state,omitempty" index:"single:1"`
	City                string               `json:"city,omitempty" bson:"city,omitempty"`
	Organization        string               `json:"organization,omitempty" bson:"organization,omitempty"`
	Type                string               `json:"type,omitempty" bson:"type,omitempty"`
	Category            string               `json:"category,omitempty" bson:"category,omitempty"`
	Products            []Product            `json:"products" bson:"products,omitempty"`
	Status              string               `json:"status" bson:"status" default:"Not Found" index:"single:1"`
	ExpectedClosingDate int64                `json:"expectedClosingDate,omitempty" bson:"expectedClosingDate,omitempty"`
	CloseAmount         float64              `json:"closeamount,omitempty" bson:"closeamount,omitempty"`
	FollowUpDate        int64                `json:"followUpDate,omitempty" bson:"followUpDate,omitempty"`
	Remarks             string               `json:"remarks,omitempty" bson:"remarks,omitempty"`
	LiveLocation        string               `json:"liveLocation,omitempty" bson:"liveLocation,omitempty"`
	NextAction          string               `json:"nextAction,omitempty" bson:"nextAction,omitempty"`
	CloseType           string               `json:"closetype,omitempty" bson:"closetype,omitempty"`
	FirstPersonMeet     string               `json:"firstPersonMeet,omitempty" bson:"firstPersonMeet,omitempty"`
	SecondPersonMeet    string               `json:"secondPersonMeet,omitempty" bson:"secondPersonMeet,omitempty"`
	ThirdPersonMeet     string               `json:"thirdPersonMeet,omitempty" bson:"thirdPersonMeet,omitempty"`
	FourthPersonMeet    string               `json:"fourthPersonMeet,omitempty" bson:"fourthPersonMeet,omitempty"`
	AssignedTo          []primitive.ObjectID `json:"assignedTo,omitempty" bson:"assignedTo,omitempty" index:"single:1"`
	CreatedBy           primitive.ObjectID   `json:"createdBy" bson:"createdBy" index:"single:1"`
	History             []HistoryEvent       `json:"history" bson:"history,omitempty"`
	CreatedAt           int64                `json:"createdAt" bson:"createdAt" index:"single,order:-1"`
	UpdatedAt           int64                `json:"updatedAt" bson:"updatedAt"`
}
