package history

import (
	"context"
	"fmt"
	"sync"

	"order-entry/models"
	"order-entry/store"
)

// LocalOrders 本地保存的订单列表，最新的在前
type LocalOrders struct {
	mu    sync.Mutex
	store store.LocalStore
}

func NewLocalOrders(s store.LocalStore) *LocalOrders {
	return &LocalOrders{store: s}
}

// Prepend 插入到列表最前面
func (l *LocalOrders) Prepend(ctx context.Context, order models.Order) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	orders, err := l.list(ctx)
	if err != nil {
		return err
	}
	orders = append([]models.Order{order}, orders...)
	if err := store.SetJSON(ctx, l.store, store.KeyOrders, orders); err != nil {
		return fmt.Errorf("save local orders: %w", err)
	}
	return nil
}

// List 解析失败时返回空列表
func (l *LocalOrders) List(ctx context.Context) ([]models.Order, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.list(ctx)
}

func (l *LocalOrders) list(ctx context.Context) ([]models.Order, error) {
	orders, err := store.GetJSON(ctx, l.store, store.KeyOrders, []models.Order{})
	if err != nil {
		return nil, fmt.Errorf("load local orders: %w", err)
	}
	return orders, nil
}
