package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/caarlos0/env"
	"github.com/joho/godotenv"
)

// Configuration chứa thông tin tĩnh cần thiết để chạy ứng dụng
type Configuration struct {
	Address               string `env:"ADDRESS" envDefault:":8080"`                // Địa chỉ server
	JwtSecret             string `env:"JWT_SECRET,required"`                       // Bí mật JWT
	MongoDB_ConnectionURI string `env:"MONGODB_CONNECTION_URI,required"`           // URL kết nối cơ sở dữ liệu
	MongoDB_DBName        string `env:"MONGODB_DBNAME,required"`                   // Tên cơ sở dữ liệu
	CORS_Origins          string `env:"CORS_ORIGINS" envDefault:"*"`               // Các origins được phép (phân cách bởi dấu phẩy, * = tất cả)
	CORS_AllowCredentials bool   `env:"CORS_ALLOW_CREDENTIALS" envDefault:"false"` // Cho phép gửi credentials
	RateLimit_Max         int    `env:"RATE_LIMIT_MAX" envDefault:"100"`           // Số request tối đa trong window
	RateLimit_Window      int    `env:"RATE_LIMIT_WINDOW" envDefault:"60"`         // Thời gian window (giây)
	RateLimit_Enabled     bool   `env:"RATE_LIMIT_ENABLED" envDefault:"true"`      // Bật/tắt rate limiting
	// Notification sweep
	DateNotifyInterval int `env:"DATE_NOTIFY_INTERVAL" envDefault:"3600"` // Chu kỳ quét ngày hẹn (giây)
	// SMTP (optional - kênh email cho notification)
	SMTPHost     string `env:"SMTP_HOST"`                  // SMTP host, để trống nếu không dùng email
	SMTPPort     int    `env:"SMTP_PORT" envDefault:"587"` // SMTP port
	SMTPUser     string `env:"SMTP_USER"`                  // SMTP user
	SMTPPassword string `env:"SMTP_PASSWORD"`              // SMTP password
	SMTPFrom     string `env:"SMTP_FROM"`                  // Địa chỉ gửi
	// Logging
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`  // debug, info, warn, error
	LogFormat string `env:"LOG_FORMAT" envDefault:"text"` // json hoặc text
	LogOutput string `env:"LOG_OUTPUT" envDefault:"both"` // file, stdout, both
}

// getEnvPath trả về đường dẫn đến file env dựa trên môi trường
func getEnvPath() string {
	// Mặc định sử dụng môi trường development
	env := os.Getenv("GO_ENV")
	if env == "" {
		env = "development"
	}

	currentDir, err := os.Getwd()
	if err != nil {
		// Sử dụng fmt.Printf vì logger có thể chưa được init ở đây
		fmt.Printf("Không thể lấy được thư mục hiện tại: %v\n", err)
		return ""
	}

	// Tìm thư mục config/env bằng cách đi lên từ thư mục hiện tại
	for {
		envDir := filepath.Join(currentDir, "config", "env")
		if _, err := os.Stat(envDir); err == nil {
			return filepath.Join(envDir, fmt.Sprintf("%s.env", env))
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			return ""
		}
		currentDir = parentDir
	}
}

// NewConfig sẽ đọc dữ liệu cấu hình từ file env tương ứng với GO_ENV
func NewConfig() *Configuration {
	envPath := getEnvPath()
	if envPath == "" {
		fmt.Printf("Không tìm thấy thư mục config/env\n")
		return nil
	}

	if err := godotenv.Load(envPath); err != nil {
		fmt.Printf("Không thể load file env tại %s: %v\n", envPath, err)
		return nil
	}

	cfg := Configuration{}
	if err := env.Parse(&cfg); err != nil {
		fmt.Printf("Lỗi khi parse config: %+v\n", err)
		return nil
	}

	return &cfg
}
