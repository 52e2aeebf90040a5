// Package authsvc - service người dùng (User).
package authsvc

import (
	"context"
	"errors"
	"fmt"
	"strings"

	authdto "field_crm/internal/api/auth/dto"
	models "field_crm/internal/api/auth/models"
	basesvc "field_crm/internal/api/base/service"
	"field_crm/internal/common"
	"field_crm/internal/global"
	"field_crm/internal/utility"

	"github.com/sirupsen/logrus"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserService là cấu trúc chứa các phương thức liên quan đến người dùng
type UserService struct {
	*basesvc.BaseServiceMongoImpl[models.User]
}

// NewUserService tạo mới UserService
func NewUserService() (*UserService, error) {
	userCollection, exist := global.RegistryCollections.Get(global.MongoDB_ColNames.Users)
	if !exist {
		return nil, fmt.Errorf("failed to get users collection: %v", common.ErrNotFound)
	}

	return &UserService{
		BaseServiceMongoImpl: basesvc.NewBaseServiceMongo[models.User](userCollection),
	}, nil
}

// Signup đăng ký tài khoản mới. Email phải chưa tồn tại, mật khẩu được băm bcrypt.
// Role không hợp lệ bị từ chối; role trống mặc định là "others".
func (s *UserService) Signup(ctx context.Context, input *authdto.SignupInput) (models.User, error) {
	var zero models.User

	role := strings.TrimSpace(input.Role)
	if role == "" {
		role = models.RoleOthers
	}
	if !models.IsValidRole(role) {
		return zero, common.NewError(common.ErrCodeValidationInput, "Vai trò không hợp lệ", common.StatusBadRequest, nil)
	}

	email := strings.ToLower(strings.TrimSpace(input.Email))
	exists, err := s.DocumentExists(ctx, bson.M{"email": email})
	if err != nil {
		return zero, err
	}
	if exists {
		return zero, common.NewError(common.ErrCodeValidationInput, "Email đã được sử dụng", common.StatusConflict, nil)
	}

	hash, err := utility.HashPassword(input.Password)
	if err != nil {
		return zero, common.NewError(common.ErrCodeInternalServer, "Không thể băm mật khẩu", common.StatusInternalServerError, err)
	}

	user := models.User{
		Username: strings.TrimSpace(input.Username),
		Email:    email,
		Password: hash,
		Role:     role,
	}

	created, err := s.InsertOne(ctx, user)
	if err != nil {
		return zero, err
	}

	logrus.WithFields(logrus.Fields{
		"user_id": created.ID.Hex(),
		"role":    created.Role,
	}).Info("✅ [AUTH] Đã tạo tài khoản mới")
	return created, nil
}

// Login xác thực mật khẩu, tạo JWT token và lưu token lên user document.
func (s *UserService) Login(ctx context.Context, input *authdto.LoginInput) (models.User, string, error) {
	var zero models.User

	email := strings.ToLower(strings.TrimSpace(input.Email))
	user, err := s.FindOne(ctx, bson.M{"email": email}, nil)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return zero, "", common.ErrInvalidCredentials
		}
		return zero, "", err
	}

	if !utility.CheckPasswordHash(input.Password, user.Password) {
		return zero, "", common.ErrInvalidCredentials
	}

	token, err := utility.CreateToken(global.ServerConfig.JwtSecret, user.ID.Hex(), user.Username, user.Email, user.Role)
	if err != nil {
		return zero, "", common.NewError(common.ErrCodeAuthToken, "Không thể tạo token", common.StatusInternalServerError, err)
	}

	updateData := &basesvc.UpdateData{
		Set: map[string]interface{}{
			"token": token,
		},
	}
	updated, err := s.UpdateById(ctx, user.ID, updateData)
	if err != nil {
		return zero, "", err
	}

	return updated, token, nil
}

// AssignAdmin gán hoặc gỡ admin quản lý cho một user.
// Quy tắc:
//   - target phải có role "others"
//   - superadmin được gán bất kỳ admin nào; admin chỉ được gán chính mình
//   - adminID nil nghĩa là gỡ gán; admin chỉ được gỡ thành viên thuộc team mình
func (s *UserService) AssignAdmin(ctx context.Context, actor models.User, targetID primitive.ObjectID, adminID *primitive.ObjectID) (models.User, error) {
	var zero models.User

	if actor.Role != models.RoleSuperadmin && actor.Role != models.RoleAdmin {
		return zero, common.ErrForbidden
	}

	target, err := s.FindOneById(ctx, targetID)
	if err != nil {
		return zero, err
	}
	if target.Role != models.RoleOthers {
		return zero, common.NewError(common.ErrCodeBusinessOperation, "Chỉ có thể gán admin cho người dùng có vai trò others", common.StatusBadRequest, nil)
	}

	if adminID != nil {
		admin, err := s.FindOneById(ctx, *adminID)
		if err != nil {
			return zero, err
		}
		if admin.Role != models.RoleAdmin && admin.Role != models.RoleSuperadmin {
			return zero, common.NewError(common.ErrCodeBusinessOperation, "Người được gán phải có vai trò admin", common.StatusBadRequest, nil)
		}
		// Admin chỉ được gán thành viên vào team của chính mình
		if actor.Role == models.RoleAdmin && admin.ID != actor.ID {
			return zero, common.ErrForbidden
		}

		updated, err := s.UpdateById(ctx, targetID, &basesvc.UpdateData{
			Set: map[string]interface{}{"assignedAdmin": *adminID},
		})
		if err != nil {
			return zero, err
		}
		return updated, nil
	}

	// Gỡ gán: admin chỉ được gỡ thành viên thuộc team mình
	if actor.Role == models.RoleAdmin {
		if target.AssignedAdmin == nil || *target.AssignedAdmin != actor.ID {
			return zero, common.ErrForbidden
		}
	}

	updated, err := s.UpdateById(ctx, targetID, &basesvc.UpdateData{
		Unset: map[string]interface{}{"assignedAdmin": ""},
	})
	if err != nil {
		return zero, err
	}
	return updated, nil
}

// ListMembers trả về danh sách user role "others" trong phạm vi của actor.
// Superadmin thấy tất cả; admin chỉ thấy team mình.
func (s *UserService) ListMembers(ctx context.Context, actor models.User) ([]models.User, error) {
	filter := bson.M{"role": models.RoleOthers}
	switch actor.Role {
	case models.RoleSuperadmin:
		// không lọc thêm
	case models.RoleAdmin:
		filter["assignedAdmin"] = actor.ID
	default:
		return nil, common.ErrForbidden
	}

	return s.Find(ctx, filter, nil)
}

// ListAdmins trả về danh sách user có role admin (chỉ superadmin được gọi).
func (s *UserService) ListAdmins(ctx context.Context, actor models.User) ([]models.User, error) {
	if actor.Role != models.RoleSuperadmin {
		return nil, common.ErrForbidden
	}
	return s.Find(ctx, bson.M{"role": models.RoleAdmin}, nil)
}
