package catalog

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"order-entry/models"
	"order-entry/store"
)

// Ranker 内置目录加上持久化的使用次数和自定义配件
type Ranker struct {
	mu      sync.Mutex
	store   store.LocalStore
	builtin []models.Accessory
}

func NewRanker(s store.LocalStore, builtin []models.Accessory) *Ranker {
	if builtin == nil {
		builtin = DefaultAccessories
	}
	return &Ranker{store: s, builtin: builtin}
}

// Builtin 内置配件目录
func (r *Ranker) Builtin() []models.Accessory {
	out := make([]models.Accessory, len(r.builtin))
	copy(out, r.builtin)
	return out
}

// RankedOptions 读取存储后调用 RankOptions
func (r *Ranker) RankedOptions(ctx context.Context) ([]Group, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	usage, err := r.usage(ctx)
	if err != nil {
		return nil, err
	}
	customs, err := r.customs(ctx)
	if err != nil {
		return nil, err
	}
	return RankOptions(r.builtin, customs, usage), nil
}

// RecordUsage 使用次数加一，名称区分大小写
func (r *Ranker) RecordUsage(ctx context.Context, name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	usage, err := r.usage(ctx)
	if err != nil {
		return err
	}
	usage[name]++
	return store.SetJSON(ctx, r.store, store.KeyUsage, usage)
}

// RegisterCustomItem 不区分大小写去重，已存在时不做任何事
func (r *Ranker) RegisterCustomItem(ctx context.Context, name, partNo string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, acc := range r.builtin {
		if strings.EqualFold(acc.Name, name) {
			return nil
		}
	}
	customs, err := r.customs(ctx)
	if err != nil {
		return err
	}
	for _, c := range customs {
		if strings.EqualFold(c.Name, name) {
			return nil
		}
	}
	customs = append(customs, models.Accessory{Name: name, PartNo: strings.TrimSpace(partNo)})
	return store.SetJSON(ctx, r.store, store.KeyCustomItems, customs)
}

// LookupPartNo 只在内置目录中精确匹配，自定义配件的零件号不参与自动填充
func (r *Ranker) LookupPartNo(name string) string {
	for _, acc := range r.builtin {
		if acc.Name == name {
			return acc.PartNo
		}
	}
	return ""
}

// CustomItems 已保存的自定义配件
func (r *Ranker) CustomItems(ctx context.Context) ([]models.Accessory, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.customs(ctx)
}

// Usage 当前使用次数
func (r *Ranker) Usage(ctx context.Context) (map[string]int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.usage(ctx)
}

func (r *Ranker) usage(ctx context.Context) (map[string]int, error) {
	usage, err := store.GetJSON(ctx, r.store, store.KeyUsage, map[string]int{})
	if err != nil {
		return nil, fmt.Errorf("load usage: %w", err)
	}
	if usage == nil {
		usage = map[string]int{}
	}
	return usage, nil
}

func (r *Ranker) customs(ctx context.Context) ([]models.Accessory, error) {
	customs, err := store.GetJSON(ctx, r.store, store.KeyCustomItems, []models.Accessory{})
	if err != nil {
		return nil, fmt.Errorf("load custom items: %w", err)
	}
	return customs, nil
}
