package store

import (
	"context"
	"encoding/json"
	"fmt"
)

// 本地存储使用的键
const (
	KeySerialDate    = "slNoDate"
	KeySerialCounter = "slNoCounter"
	KeyUsage         = "accessoryUsage"
	KeyCustomItems   = "customAccessories"
	KeyOrders        = "mahindraOrders"
)

// LocalStore 键值存储，值为不透明字符串
type LocalStore interface {
	Get(ctx context.Context, key string) (value string, found bool, err error)
	Set(ctx context.Context, key, value string) error
}

// GetJSON 读取 JSON 值；不存在或解析失败时返回 fallback
func GetJSON[T any](ctx context.Context, s LocalStore, key string, fallback T) (T, error) {
	raw, found, err := s.Get(ctx, key)
	if err != nil {
		return fallback, err
	}
	if !found || raw == "" {
		return fallback, nil
	}
	var v T
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return fallback, nil
	}
	return v, nil
}

// SetJSON 序列化后写入
func SetJSON(ctx context.Context, s LocalStore, key string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return s.Set(ctx, key, string(b))
}
