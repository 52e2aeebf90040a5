package tests

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"field_crm_tests/utils"

	"github.com/stretchr/testify/assert"
)

// waitForHealth chờ server sẵn sàng trước khi chạy test
func waitForHealth(baseURL string, attempts int, delay time.Duration, t *testing.T) {
	for i := 0; i < attempts; i++ {
		resp, err := http.Get(baseURL + "/system/health")
		if err == nil {
			resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return
			}
		}
		time.Sleep(delay)
	}
	t.Fatal("❌ Server không sẵn sàng sau nhiều lần thử")
}

func parseEnvelope(t *testing.T, body []byte) map[string]interface{} {
	var result map[string]interface{}
	err := json.Unmarshal(body, &result)
	assert.NoError(t, err, "Phải parse được JSON response")
	return result
}

// TestFieldCRMFlow kiểm tra luồng chính: signup/login, tạo và sửa entry,
// nhật ký trạng thái, chấm công và thông báo.
func TestFieldCRMFlow(t *testing.T) {
	baseURL := "http://localhost:8080/api/v1"
	waitForHealth(baseURL, 10, 1*time.Second, t)

	client := utils.NewHTTPClient(baseURL, 10)

	suffix := time.Now().UnixNano()
	email := fmt.Sprintf("sales%d@example.com", suffix)
	password := "s3cret-password"

	// ============================================
	// AUTH
	// ============================================
	t.Run("🔐 Auth", func(t *testing.T) {
		t.Run("SIGNUP - Đăng ký tài khoản", func(t *testing.T) {
			payload := map[string]interface{}{
				"username": fmt.Sprintf("sales%d", suffix),
				"email":    email,
				"password": password,
			}
			resp, body, err := client.POST("/auth/signup", payload)
			if err != nil {
				t.Fatalf("❌ Lỗi khi signup: %v", err)
			}
			assert.Equal(t, http.StatusCreated, resp.StatusCode, "Signup phải trả 201, body: %s", string(body))

			result := parseEnvelope(t, body)
			assert.Equal(t, "success", result["status"], "Status phải là success")
			// Role thiếu phải nhận default "others"
			if data, ok := result["data"].(map[string]interface{}); ok {
				assert.Equal(t, "others", data["role"], "Role mặc định phải là others")
				assert.Empty(t, data["password"], "Password không được trả về trong response")
			}
		})

		t.Run("SIGNUP - Email trùng bị từ chối", func(t *testing.T) {
			payload := map[string]interface{}{
				"username": "dup",
				"email":    email,
				"password": password,
			}
			resp, _, err := client.POST("/auth/signup", payload)
			if err != nil {
				t.Fatalf("❌ Lỗi khi signup: %v", err)
			}
			assert.Equal(t, http.StatusConflict, resp.StatusCode, "Email trùng phải trả 409")
		})

		t.Run("LOGIN - Đăng nhập", func(t *testing.T) {
			payload := map[string]interface{}{"email": email, "password": password}
			resp, body, err := client.POST("/auth/login", payload)
			if err != nil {
				t.Fatalf("❌ Lỗi khi login: %v", err)
			}
			assert.Equal(t, http.StatusOK, resp.StatusCode, "Login phải trả 200, body: %s", string(body))

			result := parseEnvelope(t, body)
			data, ok := result["data"].(map[string]interface{})
			if !ok {
				t.Fatal("❌ Response login thiếu data")
			}
			token, _ := data["token"].(string)
			assert.NotEmpty(t, token, "Login phải trả về token")
			client.SetToken(token)
		})

		t.Run("LOGIN - Sai mật khẩu", func(t *testing.T) {
			anon := utils.NewHTTPClient(baseURL, 10)
			payload := map[string]interface{}{"email": email, "password": "wrong"}
			resp, _, err := anon.POST("/auth/login", payload)
			if err != nil {
				t.Fatalf("❌ Lỗi khi login: %v", err)
			}
			assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, "Sai mật khẩu phải trả 401")
		})

		t.Run("ME - Xem hồ sơ", func(t *testing.T) {
			resp, body, err := client.GET("/auth/me")
			if err != nil {
				t.Fatalf("❌ Lỗi khi lấy hồ sơ: %v", err)
			}
			assert.Equal(t, http.StatusOK, resp.StatusCode, "body: %s", string(body))
		})
	})

	// ============================================
	// ENTRY + HISTORY
	// ============================================
	t.Run("📋 Entry CRUD và nhật ký trạng thái", func(t *testing.T) {
		var entryID string

		t.Run("CREATE - Tạo entry", func(t *testing.T) {
			payload := map[string]interface{}{
				"customerName": fmt.Sprintf("ACME %d", suffix),
				"mobileNumber": "9876543210",
				"liveLocation": "10.762,106.660",
				"type":         "Customer",
				"category":     "Private",
				"products": []map[string]interface{}{
					{"name": "Pump", "specification": "X1", "size": "L", "quantity": 2},
				},
			}
			resp, body, err := client.POST("/entries/", payload)
			if err != nil {
				t.Fatalf("❌ Lỗi khi tạo entry: %v", err)
			}
			assert.Equal(t, http.StatusCreated, resp.StatusCode, "body: %s", string(body))

			result := parseEnvelope(t, body)
			data, ok := result["data"].(map[string]interface{})
			if !ok {
				t.Fatal("❌ Response tạo entry thiếu data")
			}
			entryID, _ = data["id"].(string)
			assert.NotEmpty(t, entryID, "Entry phải có id")
			assert.Equal(t, "Not Found", data["status"], "Status thiếu phải nhận default Not Found")

			history, ok := data["history"].([]interface{})
			assert.True(t, ok, "Entry mới phải có nhật ký")
			assert.Len(t, history, 1, "Entry mới phải có đúng 1 phần tử nhật ký")
		})

		t.Run("UPDATE - Đổi status ghi nhật ký", func(t *testing.T) {
			if entryID == "" {
				t.Skip("Skipping: Chưa có entry ID")
			}
			payload := map[string]interface{}{
				"status":  "Quoted",
				"remarks": "sent quotation",
			}
			resp, body, err := client.PUT("/entries/"+entryID, payload)
			if err != nil {
				t.Fatalf("❌ Lỗi khi sửa entry: %v", err)
			}
			assert.Equal(t, http.StatusOK, resp.StatusCode, "body: %s", string(body))

			result := parseEnvelope(t, body)
			data, _ := result["data"].(map[string]interface{})
			history, _ := data["history"].([]interface{})
			assert.Len(t, history, 2, "Đổi status phải thêm phần tử nhật ký")
			last, _ := history[len(history)-1].(map[string]interface{})
			assert.Equal(t, "Quoted", last["status"], "Phần tử cuối phải mang status mới")
		})

		t.Run("UPDATE - Sửa address không ghi nhật ký", func(t *testing.T) {
			if entryID == "" {
				t.Skip("Skipping: Chưa có entry ID")
			}
			payload := map[string]interface{}{"address": "12 New Street"}
			resp, body, err := client.PUT("/entries/"+entryID, payload)
			if err != nil {
				t.Fatalf("❌ Lỗi khi sửa entry: %v", err)
			}
			assert.Equal(t, http.StatusOK, resp.StatusCode, "body: %s", string(body))

			result := parseEnvelope(t, body)
			data, _ := result["data"].(map[string]interface{})
			history, _ := data["history"].([]interface{})
			assert.Len(t, history, 2, "Sửa address không được thêm phần tử nhật ký")
		})

		t.Run("UPDATE - Nhật ký giới hạn 4 phần tử", func(t *testing.T) {
			if entryID == "" {
				t.Skip("Skipping: Chưa có entry ID")
			}
			statuses := []string{"Visited", "Negotiation", "Quoted", "Closed", "Visited"}
			var lastBody []byte
			for _, status := range statuses {
				_, body, err := client.PUT("/entries/"+entryID, map[string]interface{}{"status": status})
				if err != nil {
					t.Fatalf("❌ Lỗi khi sửa entry: %v", err)
				}
				lastBody = body
			}
			result := parseEnvelope(t, lastBody)
			data, _ := result["data"].(map[string]interface{})
			history, _ := data["history"].([]interface{})
			assert.Len(t, history, 4, "Nhật ký không được vượt quá 4 phần tử")
			last, _ := history[len(history)-1].(map[string]interface{})
			assert.Equal(t, "Visited", last["status"], "Phần tử cuối phải là thay đổi mới nhất")
		})

		t.Run("LIST - Danh sách entry", func(t *testing.T) {
			resp, body, err := client.GET("/entries/")
			if err != nil {
				t.Fatalf("❌ Lỗi khi lấy danh sách: %v", err)
			}
			assert.Equal(t, http.StatusOK, resp.StatusCode, "body: %s", string(body))
		})

		t.Run("EXPORT - Xuất XLSX", func(t *testing.T) {
			resp, body, err := client.GET("/entries/export")
			if err != nil {
				t.Fatalf("❌ Lỗi khi xuất file: %v", err)
			}
			assert.Equal(t, http.StatusOK, resp.StatusCode)
			assert.NotEmpty(t, body, "File xuất không được rỗng")
			assert.Contains(t, resp.Header.Get("Content-Disposition"), "attachment", "Phải trả file đính kèm")
		})

		t.Run("DELETE - Xóa entry", func(t *testing.T) {
			if entryID == "" {
				t.Skip("Skipping: Chưa có entry ID")
			}
			resp, body, err := client.DELETE("/entries/" + entryID)
			if err != nil {
				t.Fatalf("❌ Lỗi khi xóa entry: %v", err)
			}
			assert.Equal(t, http.StatusOK, resp.StatusCode, "body: %s", string(body))
		})
	})

	// ============================================
	// BULK IMPORT
	// ============================================
	t.Run("📥 Bulk import", func(t *testing.T) {
		t.Run("IMPORT - Một dòng lỗi hủy cả batch", func(t *testing.T) {
			rows := []map[string]interface{}{
				{
					"customerName": "Valid Corp", "mobileNumber": "9876543211",
					"contactperson": "Mr. A", "address": "Street 1",
					"state": "Karnataka", "city": "Bangalore",
					"organization": "Valid", "type": "Customer", "category": "Private",
					"products": []map[string]interface{}{
						{"name": "Pump", "specification": "X1", "size": "L", "quantity": 1},
					},
				},
				{
					// Thiếu mobileNumber: cả batch phải bị từ chối
					"customerName":  "Broken Corp",
					"contactperson": "Mr. B", "address": "Street 2",
					"state": "Karnataka", "city": "Bangalore",
					"organization": "Broken", "type": "Customer", "category": "Private",
					"products": []map[string]interface{}{
						{"name": "Valve", "specification": "V1", "size": "S", "quantity": 1},
					},
				},
			}
			resp, body, err := client.POST("/entries/import", rows)
			if err != nil {
				t.Fatalf("❌ Lỗi khi import: %v", err)
			}
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "Batch có dòng lỗi phải trả 400")
			result := parseEnvelope(t, body)
			assert.Contains(t, result["message"], "Row 2", "Thông điệp lỗi phải chỉ rõ dòng vi phạm")
		})

		t.Run("IMPORT - Batch hợp lệ", func(t *testing.T) {
			rows := []map[string]interface{}{
				{
					"customerName": fmt.Sprintf("Import Corp %d", suffix), "mobileNumber": "9876543212",
					"contactperson": "Mr. C", "address": "Street 3",
					"state": "Karnataka", "city": "Bangalore",
					"organization": "Import", "type": "Partner", "category": "Government",
					"products": []map[string]interface{}{
						{"name": "Pump", "specification": "X1", "size": "L", "quantity": 3},
					},
				},
			}
			resp, body, err := client.POST("/entries/import", rows)
			if err != nil {
				t.Fatalf("❌ Lỗi khi import: %v", err)
			}
			assert.Equal(t, http.StatusCreated, resp.StatusCode, "body: %s", string(body))
			result := parseEnvelope(t, body)
			data, _ := result["data"].(map[string]interface{})
			assert.EqualValues(t, 1, data["count"], "Phải ghi nhận số dòng đã import")
		})
	})

	// ============================================
	// ATTENDANCE
	// ============================================
	t.Run("📍 Chấm công", func(t *testing.T) {
		location := map[string]interface{}{"latitude": 10.762, "longitude": 106.660}

		t.Run("CHECK-IN", func(t *testing.T) {
			resp, body, err := client.POST("/attendance/check-in", map[string]interface{}{"location": location})
			if err != nil {
				t.Fatalf("❌ Lỗi khi check-in: %v", err)
			}
			assert.Equal(t, http.StatusCreated, resp.StatusCode, "body: %s", string(body))
			result := parseEnvelope(t, body)
			data, _ := result["data"].(map[string]interface{})
			assert.Equal(t, "Pending", data["status"], "Check-in phải ở trạng thái Pending")
		})

		t.Run("CHECK-IN - Lần hai trong ngày bị từ chối", func(t *testing.T) {
			resp, _, err := client.POST("/attendance/check-in", map[string]interface{}{"location": location})
			if err != nil {
				t.Fatalf("❌ Lỗi khi check-in: %v", err)
			}
			assert.Equal(t, http.StatusConflict, resp.StatusCode, "Check-in hai lần một ngày phải trả 409")
		})

		t.Run("CHECK-OUT", func(t *testing.T) {
			resp, body, err := client.POST("/attendance/check-out", map[string]interface{}{"location": location})
			if err != nil {
				t.Fatalf("❌ Lỗi khi check-out: %v", err)
			}
			assert.Equal(t, http.StatusOK, resp.StatusCode, "body: %s", string(body))
			result := parseEnvelope(t, body)
			data, _ := result["data"].(map[string]interface{})
			assert.Equal(t, "Present", data["status"], "Check-out phải chuyển trạng thái sang Present")
		})

		t.Run("LIST - Lịch sử chấm công", func(t *testing.T) {
			resp, body, err := client.GET("/attendance/")
			if err != nil {
				t.Fatalf("❌ Lỗi khi lấy lịch sử: %v", err)
			}
			assert.Equal(t, http.StatusOK, resp.StatusCode, "body: %s", string(body))
		})
	})

	// ============================================
	// NOTIFICATIONS
	// ============================================
	t.Run("🔔 Thông báo", func(t *testing.T) {
		t.Run("LIST - Danh sách thông báo", func(t *testing.T) {
			resp, body, err := client.GET("/notifications/")
			if err != nil {
				t.Fatalf("❌ Lỗi khi lấy thông báo: %v", err)
			}
			assert.Equal(t, http.StatusOK, resp.StatusCode, "body: %s", string(body))
		})

		t.Run("DELETE - Xóa tất cả thông báo", func(t *testing.T) {
			resp, body, err := client.DELETE("/notifications/")
			if err != nil {
				t.Fatalf("❌ Lỗi khi xóa thông báo: %v", err)
			}
			assert.Equal(t, http.StatusOK, resp.StatusCode, "body: %s", string(body))
		})
	})

	// ============================================
	// AUTHZ
	// ============================================
	t.Run("🚫 Không có token", func(t *testing.T) {
		anon := utils.NewHTTPClient(baseURL, 10)
		resp, _, err := anon.GET("/entries/")
		if err != nil {
			t.Fatalf("❌ Lỗi khi gọi không token: %v", err)
		}
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, "Thiếu token phải trả 401")
	})
}
