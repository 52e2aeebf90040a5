package main

import (
	"context"

	"field_crm/config"
	attmodels "field_crm/internal/api/attendance/models"
	authmodels "field_crm/internal/api/auth/models"
	entrymodels "field_crm/internal/api/entry/models"
	"field_crm/internal/api/events"
	notifmodels "field_crm/internal/api/notification/models"
	"field_crm/internal/database"
	"field_crm/internal/global"
	"field_crm/internal/logger"

	"github.com/sirupsen/logrus"
)

// Hàm khởi tạo các biến toàn cục
func InitGlobal() {
	initColNames()         // Khởi tạo tên các collection trong database
	initValidator()        // Khởi tạo validator
	initConfig()           // Khởi tạo cấu hình server
	initDatabase_MongoDB() // Khởi tạo kết nối database
	initDataChangeAudit()  // Khởi tạo audit log cho thay đổi dữ liệu
}

// Hàm đăng ký audit log: mọi thay đổi dữ liệu qua CRUD đều được ghi lại
func initDataChangeAudit() {
	audit := logger.GetAuditLogger()
	events.OnDataChanged(func(ctx context.Context, e events.DataChangeEvent) {
		audit.WithFields(logrus.Fields{
			"collection": e.CollectionName,
			"operation":  e.Operation,
		}).Info("Data changed")
	})
	logrus.Info("Initialized data change audit log")
}

// Hàm khởi tạo tên các collection trong database
func initColNames() {
	global.MongoDB_ColNames.Users = "users"
	global.MongoDB_ColNames.Entries = "entries"
	global.MongoDB_ColNames.Notifications = "notifications"
	global.MongoDB_ColNames.Attendances = "attendances"

	logrus.Info("Initialized collection names")
}

// Hàm khởi tạo validator
func initValidator() {
	global.InitValidator()
	logrus.Info("Initialized validator")
}

// Hàm khởi tạo cấu hình server
func initConfig() {
	global.ServerConfig = config.NewConfig()
	if global.ServerConfig == nil {
		logrus.Fatalf("Failed to initialize config: config is nil")
	}
	logrus.Info("Initialized server config")
}

// Hàm khởi tạo kết nối database
func initDatabase_MongoDB() {
	var err error
	global.MongoDB_Session, err = database.GetInstance(global.ServerConfig)
	if err != nil {
		logrus.Fatalf("Failed to get database instance: %v", err)
	}
	logrus.Info("Connected to MongoDB")

	// Khởi tạo các db và collections nếu chưa có
	database.EnsureDatabaseAndCollections(global.MongoDB_Session)
	logrus.Info("Ensured database and collections")

	// Khởi tạo các index cho các collection
	dbName := global.ServerConfig.MongoDB_DBName
	db := global.MongoDB_Session.Database(dbName)
	database.CreateIndexes(context.TODO(), db.Collection(global.MongoDB_ColNames.Users), authmodels.User{})
	database.CreateIndexes(context.TODO(), db.Collection(global.MongoDB_ColNames.Entries), entrymodels.Entry{})
	database.CreateIndexes(context.TODO(), db.Collection(global.MongoDB_ColNames.Notifications), notifmodels.Notification{})
	database.CreateIndexes(context.TODO(), db.Collection(global.MongoDB_ColNames.Attendances), attmodels.Attendance{})
}
