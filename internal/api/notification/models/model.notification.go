// Package notifmodels định nghĩa model thông báo
package notifmodels

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Notification đại diện cho một thông báo gửi đến người dùng.
// Thông báo chỉ thay đổi cờ Read sau khi tạo; xoá theo từng user khi có yêu cầu.
type Notification struct {
	ID        primitive.ObjectID  `json:"id" bson:"_id,omitempty"`
	UserID    primitive.ObjectID  `json:"userId" bson:"userId" index:"single:1"`
	Message   string              `json:"message" bson:"message"`
	EntryID   *primitive.ObjectID `json:"entryId,omitempty" bson:"entryId,omitempty"`
	Read      bool                `json:"read" bson:"read" default:"false"`
	Timestamp int64               `json:"timestamp" bson:"timestamp" index:"single,order:-1"`
	CreatedAt int64               `json:"createdAt" bson:"createdAt"`
	UpdatedAt int64               `json:"updatedAt" bson:"updatedAt"`
}
