// Package notifsvc - service thông báo.
// Thông báo là side effect best-effort: lỗi tạo/gửi thông báo chỉ được
// log, không bao giờ propagate ngược lại request gốc.
package notifsvc

import (
	"context"
	"fmt"
	"time"

	authsvc "field_crm/internal/api/auth/service"
	basesvc "field_crm/internal/api/base/service"
	notifmodels "field_crm/internal/api/notification/models"
	"field_crm/internal/common"
	"field_crm/internal/delivery"
	"field_crm/internal/global"

	"github.com/sirupsen/logrus"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// NotificationService là cấu trúc chứa các phương thức liên quan đến thông báo
type NotificationService struct {
	*basesvc.BaseServiceMongoImpl[notifmodels.Notification]
	userService *authsvc.UserService
	channel     delivery.Channel
}

// NewNotificationService tạo mới NotificationService.
// channel là kênh gửi thông báo ra ngoài, được inject khi khởi động
// (nil nghĩa là chỉ lưu thông báo trong store, không đẩy đi đâu).
func NewNotificationService(channel delivery.Channel) (*NotificationService, error) {
	notifCollection, exist := global.RegistryCollections.Get(global.MongoDB_ColNames.Notifications)
	if !exist {
		return nil, fmt.Errorf("failed to get notifications collection: %v", common.ErrNotFound)
	}

	userService, err := authsvc.NewUserService()
	if err != nil {
		return nil, fmt.Errorf("failed to create user service: %v", err)
	}

	return &NotificationService{
		BaseServiceMongoImpl: basesvc.NewBaseServiceMongo[notifmodels.Notification](notifCollection),
		userService:          userService,
		channel:              channel,
	}, nil
}

// Notify tạo một thông báo cho userID và đẩy qua channel (nếu có).
// Best-effort: mọi lỗi đều được log và nuốt.
func (s *NotificationService) Notify(ctx context.Context, userID primitive.ObjectID, message string, entryID *primitive.ObjectID) {
	notification := notifmodels.Notification{
		UserID:    userID,
		Message:   message,
		EntryID:   entryID,
		Read:      false,
		Timestamp: time.Now().UnixMilli(),
	}

	if _, err := s.InsertOne(ctx, notification); err != nil {
		logrus.WithError(err).WithField("user_id", userID.Hex()).Warn("⚠️ [NOTIFY] Không thể lưu thông báo")
		return
	}

	if s.channel == nil {
		return
	}

	user, err := s.userService.FindOneById(ctx, userID)
	if err != nil {
		logrus.WithError(err).WithField("user_id", userID.Hex()).Warn("⚠️ [NOTIFY] Không tìm thấy người nhận thông báo")
		return
	}

	if err := s.channel.Send(ctx, user.Email, "CRM Notification", message); err != nil {
		logrus.WithError(err).WithField("user_id", userID.Hex()).Warn("⚠️ [NOTIFY] Gửi thông báo qua channel thất bại")
	}
}

// OnEntryMutated phát thông báo khi một entry bị thay đổi: một cho người
// thực hiện và một cho mỗi user trong assignedTo (loại trùng với actor).
func (s *NotificationService) OnEntryMutated(ctx context.Context, actorID primitive.ObjectID, entryID primitive.ObjectID, assignedTo []primitive.ObjectID, message string) {
	s.Notify(ctx, actorID, message, &entryID)

	seen := map[primitive.ObjectID]bool{actorID: true}
	for _, userID := range assignedTo {
		if seen[userID] {
			continue
		}
		seen[userID] = true
		s.Notify(ctx, userID, message, &entryID)
	}
}

// OnAssignmentDelta phát thông báo "assigned"/"unassigned" theo hiệu số
// hai chiều giữa danh sách gán cũ và mới.
func (s *NotificationService) OnAssignmentDelta(ctx context.Context, entryID primitive.ObjectID, customerName string, oldAssigned []primitive.ObjectID, newAssigned []primitive.ObjectID) {
	oldSet := make(map[primitive.ObjectID]bool, len(oldAssigned))
	for _, id := range oldAssigned {
		oldSet[id] = true
	}
	newSet := make(map[primitive.ObjectID]bool, len(newAssigned))
	for _, id := range newAssigned {
		newSet[id] = true
	}

	for _, id := range newAssigned {
		if !oldSet[id] {
			s.Notify(ctx, id, fmt.Sprintf("You have been assigned to entry %q", customerName), &entryID)
		}
	}
	for _, id := range oldAssigned {
		if !newSet[id] {
			s.Notify(ctx, id, fmt.Sprintf("You have been unassigned from entry %q", customerName), &entryID)
		}
	}
}

// ListForUser trả về thông báo của một user, mới nhất trước
func (s *NotificationService) ListForUser(ctx context.Context, userID primitive.ObjectID) ([]notifmodels.Notification, error) {
	opts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: -1}})
	return s.Find(ctx, bson.M{"userId": userID}, opts)
}

// MarkRead đánh dấu một thông báo của chính user là đã đọc
func (s *NotificationService) MarkRead(ctx context.Context, userID primitive.ObjectID, notificationID primitive.ObjectID) (notifmodels.Notification, error) {
	var zero notifmodels.Notification

	notification, err := s.FindOneById(ctx, notificationID)
	if err != nil {
		return zero, err
	}
	if notification.UserID != userID {
		return zero, common.ErrForbidden
	}

	return s.UpdateById(ctx, notificationID, &basesvc.UpdateData{
		Set: map[string]interface{}{"read": true},
	})
}

// DeleteAllForUser xoá toàn bộ thông báo của một user
func (s *NotificationService) DeleteAllForUser(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	return s.DeleteMany(ctx, bson.M{"userId": userID})
}
