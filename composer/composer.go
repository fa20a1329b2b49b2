package composer

import (
	"fmt"
	"strings"
	"sync"

	"order-entry/catalog"
	"order-entry/errorx"
	"order-entry/models"
	"order-entry/utils"

	"github.com/shopspring/decimal"
)

// PartNoLookup 根据配件名称返回零件号
type PartNoLookup interface {
	LookupPartNo(name string) string
}

// Draft 编辑中的订单明细，金额保留原始输入
type Draft struct {
	Accessory  string `json:"accessory"`
	CustomName string `json:"customName"`
	PartNo     string `json:"partNo"`
	Amount     string `json:"amount"`
}

// IsCustom 选择了自定义配件
func (d Draft) IsCustom() bool {
	return d.Accessory == catalog.CustomSentinel
}

// Description 自定义配件取输入的名称，否则取所选配件
func (d Draft) Description() string {
	if d.IsCustom() {
		return strings.TrimSpace(d.CustomName)
	}
	return d.Accessory
}

// Composer 订单明细列表，始终至少有一项
type Composer struct {
	mu        sync.Mutex
	lookup    PartNoLookup
	multiItem bool
	items     []Draft
	// 提交期间为 true，拒绝修改明细
	frozen bool
}

func New(lookup PartNoLookup, multiItem bool) *Composer {
	return &Composer{lookup: lookup, multiItem: multiItem, items: []Draft{{}}}
}

// Len 当前明细数量
func (c *Composer) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// Items 返回明细副本
func (c *Composer) Items() []Draft {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Draft, len(c.items))
	copy(out, c.items)
	return out
}

// AddItem 追加空白明细，返回其下标
func (c *Composer) AddItem() (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.frozen {
		return 0, errorx.ErrSubmissionInFlight
	}
	if !c.multiItem {
		return 0, errorx.ErrMaximumItems
	}
	c.items = append(c.items, Draft{})
	return len(c.items) - 1, nil
}

// RemoveItem 只剩一项时拒绝，删除后下标重新连续编号
func (c *Composer) RemoveItem(index int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.frozen {
		return errorx.ErrSubmissionInFlight
	}
	if len(c.items) <= 1 {
		return errorx.ErrMinimumItems
	}
	if err := c.check(index); err != nil {
		return err
	}
	c.items = append(c.items[:index], c.items[index+1:]...)
	return nil
}

// SetItemAccessory 选择配件；自定义时清空零件号，否则按目录自动填充
func (c *Composer) SetItemAccessory(index int, name string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.frozen {
		return errorx.ErrSubmissionInFlight
	}
	if err := c.check(index); err != nil {
		return err
	}
	item := &c.items[index]
	item.Accessory = name
	if name == catalog.CustomSentinel {
		item.PartNo = ""
		return nil
	}
	item.CustomName = ""
	if c.lookup != nil {
		// 只覆盖，不合并；目录中没有零件号时保留原输入
		if partNo := c.lookup.LookupPartNo(name); partNo != "" {
			item.PartNo = partNo
		}
	}
	return nil
}

func (c *Composer) SetCustomName(index int, name string) error {
	return c.update(index, func(d *Draft) { d.CustomName = name })
}

func (c *Composer) SetPartNo(index int, partNo string) error {
	return c.update(index, func(d *Draft) { d.PartNo = partNo })
}

func (c *Composer) SetAmount(index int, amount string) error {
	return c.update(index, func(d *Draft) { d.Amount = amount })
}

// Total 所有明细金额之和，无法解析的金额按 0 计算
func (c *Composer) Total() decimal.Decimal {
	c.mu.Lock()
	defer c.mu.Unlock()
	total := decimal.Zero
	for _, d := range c.items {
		total = total.Add(utils.ParseAmount(d.Amount))
	}
	return total
}

// Snapshot 生成提交用的明细
func (c *Composer) Snapshot() []models.LineItem {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lineItems()
}

// Freeze 锁定明细并返回同一时刻的草稿和提交明细，Thaw 之前所有修改返回 ErrSubmissionInFlight
func (c *Composer) Freeze() ([]Draft, []models.LineItem, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.frozen {
		return nil, nil, errorx.ErrSubmissionInFlight
	}
	c.frozen = true
	drafts := make([]Draft, len(c.items))
	copy(drafts, c.items)
	return drafts, c.lineItems(), nil
}

// Thaw 解除 Freeze
func (c *Composer) Thaw() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.frozen = false
}

// Frozen 是否正在提交
func (c *Composer) Frozen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.frozen
}

func (c *Composer) lineItems() []models.LineItem {
	out := make([]models.LineItem, len(c.items))
	for i, d := range c.items {
		out[i] = models.LineItem{
			Description: d.Description(),
			PartNo:      strings.TrimSpace(d.PartNo),
			Amount:      utils.ParseAmount(d.Amount),
			IsCustom:    d.IsCustom(),
		}
	}
	return out
}

// Reset 恢复为一条空白明细，提交成功后在锁定状态下也可调用
func (c *Composer) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = []Draft{{}}
}

func (c *Composer) update(index int, fn func(*Draft)) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.frozen {
		return errorx.ErrSubmissionInFlight
	}
	if err := c.check(index); err != nil {
		return err
	}
	fn(&c.items[index])
	return nil
}

func (c *Composer) check(index int) error {
	if index < 0 || index >= len(c.items) {
		return fmt.Errorf("%w: index %d", errorx.ErrItemNotFound, index)
	}
	return nil
}
