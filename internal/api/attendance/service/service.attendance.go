// Package attsvc - service chấm công.
// Máy trạng thái theo (user, ngày): NoRecord -> CheckedIn -> CheckedOut,
// mỗi bước chỉ được thực hiện một lần trong ngày.
package attsvc

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	attdto "field_crm/internal/api/attendance/dto"
	attmodels "field_crm/internal/api/attendance/models"
	authmodels "field_crm/internal/api/auth/models"
	authsvc "field_crm/internal/api/auth/service"
	basesvc "field_crm/internal/api/base/service"
	"field_crm/internal/common"
	"field_crm/internal/global"
	"field_crm/internal/utility"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// AttendanceService là cấu trúc chứa các phương thức liên quan đến chấm công
type AttendanceService struct {
	*basesvc.BaseServiceMongoImpl[attmodels.Attendance]
	userService *authsvc.UserService
}

// NewAttendanceService tạo mới AttendanceService
func NewAttendanceService() (*AttendanceService, error) {
	attendanceCollection, exist := global.RegistryCollections.Get(global.MongoDB_ColNames.Attendances)
	if !exist {
		return nil, fmt.Errorf("failed to get attendances collection: %v", common.ErrNotFound)
	}

	userService, err := authsvc.NewUserService()
	if err != nil {
		return nil, fmt.Errorf("failed to create user service: %v", err)
	}

	return &AttendanceService{
		BaseServiceMongoImpl: basesvc.NewBaseServiceMongo[attmodels.Attendance](attendanceCollection),
		userService:          userService,
	}, nil
}

// CheckIn ghi nhận check-in của hôm nay. Yêu cầu tọa độ hợp lệ;
// từ chối nếu hôm nay đã check-in.
func (s *AttendanceService) CheckIn(ctx context.Context, actor authmodels.User, input *attdto.CheckInInput) (attmodels.Attendance, error) {
	var zero attmodels.Attendance

	today := utility.StartOfDay(time.Now())

	exists, err := s.DocumentExists(ctx, bson.M{"user": actor.ID, "date": today})
	if err != nil {
		return zero, err
	}
	if exists {
		return zero, common.ErrAlreadyCheckedIn
	}

	attendance := attmodels.Attendance{
		UserID: actor.ID,
		Date:   today,
		CheckIn: time.Now().UnixMilli(),
		CheckInLocation: &attmodels.GeoLocation{
			Latitude:  *input.Location.Latitude,
			Longitude: *input.Location.Longitude,
		},
		Status:  attmodels.StatusPending,
		Remarks: strings.TrimSpace(input.Remarks),
	}

	return s.InsertOne(ctx, attendance)
}

// CheckOut ghi nhận check-out của hôm nay. Yêu cầu đã check-in hôm nay
// và chưa check-out; đặt trạng thái Present và ghi đè remarks nếu có.
func (s *AttendanceService) CheckOut(ctx context.Context, actor authmodels.User, input *attdto.CheckOutInput) (attmodels.Attendance, error) {
	var zero attmodels.Attendance

	today := utility.StartOfDay(time.Now())

	attendance, err := s.FindOne(ctx, bson.M{"user": actor.ID, "date": today}, nil)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return zero, common.ErrNoCheckInToday
		}
		return zero, err
	}
	if attendance.CheckOut != 0 {
		return zero, common.NewError(common.ErrCodeBusinessState, "Already checked out today", common.StatusBadRequest, nil)
	}

	set := map[string]interface{}{
		"checkOut": time.Now().UnixMilli(),
		"checkOutLocation": attmodels.GeoLocation{
			Latitude:  *input.Location.Latitude,
			Longitude: *input.Location.Longitude,
		},
		"status": attmodels.StatusPresent,
	}
	if strings.TrimSpace(input.Remarks) != "" {
		set["remarks"] = strings.TrimSpace(input.Remarks)
	}

	return s.UpdateById(ctx, attendance.ID, &basesvc.UpdateData{Set: set})
}

// List trả về bản ghi chấm công trong phạm vi của actor (cùng resolver
// với entry), lọc thêm theo khoảng ngày nếu có, mới nhất trước.
func (s *AttendanceService) List(ctx context.Context, actor authmodels.User, filter *attdto.AttendanceListFilter) ([]attmodels.Attendance, error) {
	all, ownerIDs, err := s.userService.VisibleOwnerIDs(ctx, actor)
	if err != nil {
		return nil, err
	}

	query := bson.M{}
	if !all {
		query["user"] = bson.M{"$in": ownerIDs}
	}

	if filter != nil {
		dateRange := bson.M{}
		if filter.From != "" {
			from, err := utility.ParseDateMilli(filter.From)
			if err != nil {
				return nil, common.NewError(common.ErrCodeValidationFormat, err.Error(), common.StatusBadRequest, err)
			}
			dateRange["$gte"] = from
		}
		if filter.To != "" {
			to, err := utility.ParseDateMilli(filter.To)
			if err != nil {
				return nil, common.NewError(common.ErrCodeValidationFormat, err.Error(), common.StatusBadRequest, err)
			}
			dateRange["$lte"] = to
		}
		if len(dateRange) > 0 {
			query["date"] = dateRange
		}
	}

	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}})
	return s.Find(ctx, query, opts)
}

// TodayFor trả về bản ghi chấm công hôm nay của một user (nếu có)
func (s *AttendanceService) TodayFor(ctx context.Context, userID primitive.ObjectID) (attmodels.Attendance, error) {
	today := utility.StartOfDay(time.Now())
	return s.FindOne(ctx, bson.M{"user": userID, "date": today}, nil)
}
