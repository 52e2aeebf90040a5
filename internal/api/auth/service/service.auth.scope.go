package authsvc

import (
	"context"

	models "field_crm/internal/api/auth/models"
	"field_crm/internal/common"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// VisibleOwnerIDs xác định phạm vi dữ liệu của actor.
// Trả về all=true nếu actor thấy toàn bộ dữ liệu (superadmin),
// ngược lại trả về danh sách owner id mà actor được phép thấy:
//   - admin: chính mình + các thành viên có assignedAdmin là mình
//   - others: chỉ chính mình
//
// Mọi nơi kiểm tra quyền trên dữ liệu (danh sách, xuất file, xoá,
// chấm công) đều dùng chung hàm này.
func (s *UserService) VisibleOwnerIDs(ctx context.Context, actor models.User) (bool, []primitive.ObjectID, error) {
	switch actor.Role {
	case models.RoleSuperadmin:
		return true, nil, nil
	case models.RoleAdmin:
		team, err := s.Find(ctx, bson.M{"assignedAdmin": actor.ID}, nil)
		if err != nil {
			return false, nil, err
		}
		ids := make([]primitive.ObjectID, 0, len(team)+1)
		ids = append(ids, actor.ID)
		for _, member := range team {
			ids = append(ids, member.ID)
		}
		return false, ids, nil
	case models.RoleOthers:
		return false, []primitive.ObjectID{actor.ID}, nil
	default:
		return false, nil, common.ErrForbidden
	}
}
