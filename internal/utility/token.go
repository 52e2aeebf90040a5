package utility

import (
	"fmt"
	"time"

	"github.com/dgrijalva/jwt-go"
)

// JwtClaims chứa data được mã hóa trong JWT token.
type JwtClaims struct {
	UserID   string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	jwt.StandardClaims
}

// Thời hạn token: 30 ngày
const tokenLifetime = 30 * 24 * time.Hour

// CreateToken tạo JWT token chứa thông tin định danh người dùng.
func CreateToken(secret, userID, username, email, role string) (string, error) {
	claims := JwtClaims{
		UserID:   userID,
		Username: username,
		Email:    email,
		Role:     role,
		StandardClaims: jwt.StandardClaims{
			IssuedAt:  time.Now().Unix(),
			ExpiresAt: time.Now().Add(tokenLifetime).Unix(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("không thể ký JWT token: %w", err)
	}
	return signed, nil
}

// ParseToken giải mã và xác thực JWT token, trả về claims nếu hợp lệ.
func ParseToken(secret, tokenString string) (*JwtClaims, error) {
	claims := &JwtClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("phương thức ký không hợp lệ: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, fmt.Errorf("token không hợp lệ")
	}
	return claims, nil
}
