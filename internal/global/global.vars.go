package global

import (
	"field_crm/config"
	"field_crm/internal/registry"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoDB_CollectionName chứa tên các collection trong MongoDB
type MongoDB_CollectionName struct {
	Users         string // Tên collection cho người dùng
	Entries       string // Tên collection cho khách hàng tiềm năng
	Notifications string // Tên collection cho thông báo
	Attendances   string // Tên collection cho chấm công
}

// Các biến toàn cục
var Validate *validator.Validate               // Biến để xác thực dữ liệu
var MongoDB_Session *mongo.Client              // Phiên kết nối tới MongoDB
var ServerConfig *config.Configuration         // Cấu hình của server
var MongoDB_ColNames = MongoDB_CollectionName{} // Tên các collection

// Các Registry
var RegistryCollections = registry.NewRegistry[*mongo.Collection]() // Registry chứa các collections
