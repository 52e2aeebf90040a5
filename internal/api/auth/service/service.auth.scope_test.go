// Package authsvc - Test phạm vi dữ liệu theo role (các nhánh không cần DB).
package authsvc

import (
	"context"
	"errors"
	"testing"

	models "field_crm/internal/api/auth/models"
	"field_crm/internal/common"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestVisibleOwnerIDs_Superadmin(t *testing.T) {
	s := &UserService{}
	actor := models.User{ID: primitive.NewObjectID(), Role: models.RoleSuperadmin}

	all, ids, err := s.VisibleOwnerIDs(context.Background(), actor)
	if err != nil {
		t.Fatalf("superadmin không được trả lỗi: %v", err)
	}
	if !all {
		t.Error("superadmin phải thấy toàn bộ dữ liệu (all=true)")
	}
	if ids != nil {
		t.Errorf("superadmin không cần danh sách owner, got %v", ids)
	}
}

func TestVisibleOwnerIDs_Others(t *testing.T) {
	s := &UserService{}
	actor := models.User{ID: primitive.NewObjectID(), Role: models.RoleOthers}

	all, ids, err := s.VisibleOwnerIDs(context.Background(), actor)
	if err != nil {
		t.Fatalf("others không được trả lỗi: %v", err)
	}
	if all {
		t.Error("others không được thấy toàn bộ dữ liệu")
	}
	if len(ids) != 1 || ids[0] != actor.ID {
		t.Errorf("others chỉ thấy chính mình, got %v", ids)
	}
}

func TestVisibleOwnerIDs_UnknownRole(t *testing.T) {
	s := &UserService{}
	actor := models.User{ID: primitive.NewObjectID(), Role: "guest"}

	_, _, err := s.VisibleOwnerIDs(context.Background(), actor)
	if err == nil {
		t.Fatal("role không xác định phải bị từ chối")
	}
	if !errors.Is(err, common.ErrForbidden) {
		t.Errorf("lỗi phải là ErrForbidden, got %v", err)
	}
}

func TestIsValidRole(t *testing.T) {
	for _, role := range []string{models.RoleSuperadmin, models.RoleAdmin, models.RoleOthers} {
		if !models.IsValidRole(role) {
			t.Errorf("role %q phải hợp lệ", role)
		}
	}
	for _, role := range []string{"", "guest", "Admin", "SUPERADMIN"} {
		if models.IsValidRole(role) {
			t.Errorf("role %q không được hợp lệ", role)
		}
	}
}
