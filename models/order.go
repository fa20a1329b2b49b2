package models

import (
	"encoding/json"
	"strings"
	"time"

	"order-entry/utils"

	"github.com/shopspring/decimal"
)

// 订单状态
const (
	StatusPending   = "Pending"
	StatusCompleted = "Completed"
	StatusCancelled = "Cancelled"
)

// Order 提交到表格接口、或保存在本地订单列表中的订单
type Order struct {
	SlNo         string `json:"slNo"`
	Date         string `json:"date"`
	OTFNo        string `json:"otfNo"`
	CustomerName string `json:"customerName"`
	VehicleModel string `json:"vehicleModel"`
	ChassisNo    string `json:"chassisNo"`

	// 兼容表格的竖线分隔字段
	ItemDescription string `json:"itemDescription"`
	PartNo          string `json:"partNo"`
	Amount          string `json:"amount"`

	TotalAmount decimal.Decimal `json:"totalAmount"`
	Status      string          `json:"status"`
	Remarks     string          `json:"remarks"`
	Items       []LineItem      `json:"items"`
	Photo       string          `json:"photo,omitempty"`

	// 仅本地保存的订单有 ID 和 synced
	ID     int64 `json:"id,omitempty"`
	Synced *bool `json:"synced,omitempty"`
}

type LineItem struct {
	Description string          `json:"description"`
	PartNo      string          `json:"partNo"`
	Amount      decimal.Decimal `json:"amount"`
	IsCustom    bool            `json:"isCustom"`
}

// 金额以 JSON 数字输出，兼容表格脚本；decimal 解码同时接受数字和字符串

func (o Order) MarshalJSON() ([]byte, error) {
	type alias Order
	return json.Marshal(struct {
		alias
		TotalAmount json.Number `json:"totalAmount"`
	}{alias(o), utils.AmountNumber(o.TotalAmount)})
}

func (l LineItem) MarshalJSON() ([]byte, error) {
	type alias LineItem
	return json.Marshal(struct {
		alias
		Amount json.Number `json:"amount"`
	}{alias(l), utils.AmountNumber(l.Amount)})
}

// Accessory 内置目录或用户自定义的配件
type Accessory struct {
	Name   string `json:"name" mapstructure:"name"`
	PartNo string `json:"partNo" mapstructure:"partNo"`
}

// ItemCount 与历史列表一致：优先使用结构化明细
func (o Order) ItemCount() int {
	if len(o.Items) > 0 {
		return len(o.Items)
	}
	if o.ItemDescription == "" {
		return 1
	}
	return strings.Count(o.ItemDescription, " | ") + 1
}

// MarkLocal 标记为本地保存、尚未同步
func (o *Order) MarkLocal(now time.Time) {
	synced := false
	o.ID = now.UnixMilli()
	o.Synced = &synced
}

// IsSynced 没有 synced 字段的订单来自远端
func (o Order) IsSynced() bool {
	return o.Synced == nil || *o.Synced
}

// 订单事件类型
const (
	EventSubmitted     = "submitted"
	EventQueuedLocally = "queued_locally"
)

type OrderEvent struct {
	SlNo     string          `json:"sl_no"`
	Type     string          `json:"type"` // submitted, queued_locally
	Status   string          `json:"status"`
	Total    decimal.Decimal `json:"total"`
	Items    int             `json:"items"`
	Synced   bool            `json:"synced"`
	Occurred time.Time       `json:"occurred"`
}

func (e OrderEvent) MarshalJSON() ([]byte, error) {
	type alias OrderEvent
	return json.Marshal(struct {
		alias
		Total json.Number `json:"total"`
	}{alias(e), utils.AmountNumber(e.Total)})
}
