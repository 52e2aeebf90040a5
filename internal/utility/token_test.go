// Package utility - Test tạo và giải mã JWT token.
package utility

import "testing"

func TestCreateAndParseToken(t *testing.T) {
	secret := "test-secret"
	token, err := CreateToken(secret, "65f1a2b3c4d5e6f7a8b9c0d1", "fieldsales01", "sales@example.com", "others")
	if err != nil {
		t.Fatalf("CreateToken trả lỗi: %v", err)
	}
	if token == "" {
		t.Fatal("token rỗng")
	}

	claims, err := ParseToken(secret, token)
	if err != nil {
		t.Fatalf("ParseToken trả lỗi: %v", err)
	}
	if claims.UserID != "65f1a2b3c4d5e6f7a8b9c0d1" {
		t.Errorf("UserID sai: %q", claims.UserID)
	}
	if claims.Role != "others" {
		t.Errorf("Role sai: %q", claims.Role)
	}
	if claims.Email != "sales@example.com" {
		t.Errorf("Email sai: %q", claims.Email)
	}
}

func TestParseToken_WrongSecret(t *testing.T) {
	token, err := CreateToken("secret-a", "id", "user", "u@example.com", "admin")
	if err != nil {
		t.Fatalf("CreateToken trả lỗi: %v", err)
	}
	if _, err := ParseToken("secret-b", token); err == nil {
		t.Error("token ký bằng secret khác phải bị từ chối")
	}
}

func TestCheckPasswordHash(t *testing.T) {
	hash, err := HashPassword("s3cret!")
	if err != nil {
		t.Fatalf("HashPassword trả lỗi: %v", err)
	}
	if !CheckPasswordHash("s3cret!", hash) {
		t.Error("mật khẩu đúng phải khớp hash")
	}
	if CheckPasswordHash("wrong", hash) {
		t.Error("mật khẩu sai không được khớp hash")
	}
}
