// Package registry cung cấp registry generic thread-safe cho các
// singleton của ứng dụng (hiện dùng cho *mongo.Collection theo tên).
package registry

import (
	"fmt"
	"sync"

	"field_crm/internal/common"
)

// Registry quản lý items theo tên. An toàn khi dùng đồng thời.
type Registry[T any] struct {
	items map[string]T
	mu    sync.RWMutex
}

// NewRegistry tạo và trả về một registry mới.
func NewRegistry[T any]() *Registry[T] {
	return &Registry[T]{
		items: make(map[string]T),
	}
}

// Register đăng ký một item; name đã tồn tại bị ghi đè.
// Trả về isNew=false khi ghi đè, lỗi khi name rỗng.
func (r *Registry[T]) Register(name string, item T) (isNew bool, err error) {
	if name == "" {
		return false, fmt.Errorf("name cannot be empty: %w", common.ErrRequiredField)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	_, exists := r.items[name]
	r.items[name] = item
	return !exists, nil
}

// Get lấy item theo tên.
func (r *Registry[T]) Get(name string) (item T, exists bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	item, exists = r.items[name]
	return item, exists
}
