package utility

import "golang.org/x/crypto/bcrypt"

// HashPassword băm mật khẩu bằng bcrypt với cost mặc định.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPasswordHash so sánh mật khẩu với hash đã lưu.
func CheckPasswordHash(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
