package submission

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"order-entry/catalog"
	"order-entry/composer"
	"order-entry/errorx"
	"order-entry/logger"
	"order-entry/models"
	"order-entry/transport"
	"order-entry/utils"

	"github.com/shopspring/decimal"
	"go.uber.org/atomic"
)

// State 提交状态机
type State int32

const (
	Idle State = iota
	Validating
	Submitting
	Succeeded
	Recovering
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Validating:
		return "validating"
	case Submitting:
		return "submitting"
	case Succeeded:
		return "succeeded"
	case Recovering:
		return "recovering"
	default:
		return "unknown"
	}
}

// 提示信息
const (
	MsgSubmitted  = "Order submitted successfully!"
	MsgDemoSaved  = "Order saved locally (Demo Mode)"
	MsgSavedLocal = "Saved locally. Will sync when online."
)

// Sender 远端订单接口
type Sender interface {
	Configured() bool
	Send(ctx context.Context, order models.Order) (*transport.Ack, error)
}

// SerialSource 每日流水号
type SerialSource interface {
	DisplayDate(date string) (string, error)
	Increment(ctx context.Context) (string, error)
}

// UsageRecorder 配件使用次数和自定义配件
type UsageRecorder interface {
	RecordUsage(ctx context.Context, name string) error
	RegisterCustomItem(ctx context.Context, name, partNo string) error
}

// OrderQueue 本地订单列表
type OrderQueue interface {
	Prepend(ctx context.Context, order models.Order) error
}

// EventPublisher 订单事件发布，可为空
type EventPublisher interface {
	PublishOrderEvent(ctx context.Context, event models.OrderEvent) error
}

// Deps 所有会话共享的依赖
type Deps struct {
	Sender    Sender
	Serial    SerialSource
	Usage     UsageRecorder
	Local     OrderQueue
	Publisher EventPublisher
	Log       logger.Logger
	Now       func() time.Time
}

// Outcome 一次提交的结果
type Outcome struct {
	Order   models.Order `json:"order"`
	State   State        `json:"-"`
	Message string       `json:"message"`
	Local   bool         `json:"local"`
	Serial  string       `json:"nextSerial"`
}

// Coordinator 单个表单的提交协调器，同一时间只允许一个提交
type Coordinator struct {
	deps     Deps
	composer *composer.Composer
	state    *atomic.Int32
	inFlight *atomic.Bool
}

func NewCoordinator(deps Deps, c *composer.Composer) *Coordinator {
	if deps.Log == nil {
		deps.Log = logger.NewNop()
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	return &Coordinator{
		deps:     deps,
		composer: c,
		state:    atomic.NewInt32(int32(Idle)),
		inFlight: atomic.NewBool(false),
	}
}

// State 当前状态
func (c *Coordinator) State() State {
	return State(c.state.Load())
}

func (c *Coordinator) setState(s State) {
	c.state.Store(int32(s))
}

// Submit 校验、发送，失败时保存到本地，然后更新使用次数和流水号并重置表单
// 提交期间明细被锁定；校验通过后不受调用方取消影响，发送超时由 HTTP 客户端控制
func (c *Coordinator) Submit(ctx context.Context, form Form) (*Outcome, error) {
	if !c.inFlight.CAS(false, true) {
		return nil, errorx.ErrSubmissionInFlight
	}
	defer c.inFlight.Store(false)
	defer c.setState(Idle)

	drafts, items, err := c.composer.Freeze()
	if err != nil {
		return nil, err
	}
	defer c.composer.Thaw()

	c.setState(Validating)
	form = form.trimmed()
	if detail := validateForm(form, drafts); detail != "" {
		c.deps.Log.Infof(ctx, "validation failed: %s", detail)
		return nil, errorx.ErrValidationFailed
	}

	c.setState(Submitting)
	order, err := c.buildOrder(form, items)
	if err != nil {
		return nil, err
	}
	ctx = logger.WithSlNo(context.WithoutCancel(ctx), order.SlNo)

	out := &Outcome{State: Succeeded, Message: MsgSubmitted}
	if !c.deps.Sender.Configured() {
		order.MarkLocal(c.deps.Now())
		if err := c.deps.Local.Prepend(ctx, order); err != nil {
			return nil, fmt.Errorf("save demo order: %w", err)
		}
		out.Message = MsgDemoSaved
		out.Local = true
	} else if _, err := c.deps.Sender.Send(ctx, order); err != nil {
		c.deps.Log.Warnf(ctx, "send order failed, saving locally: %v", err)
		c.setState(Recovering)
		order.MarkLocal(c.deps.Now())
		if perr := c.deps.Local.Prepend(ctx, order); perr != nil {
			return nil, errors.Join(err, fmt.Errorf("save local order: %w", perr))
		}
		out.State = Recovering
		out.Message = MsgSavedLocal
		out.Local = true
	}
	if out.State == Succeeded {
		c.setState(Succeeded)
	}
	out.Order = order

	out.Serial = c.bookkeeping(ctx, order)
	c.publish(ctx, order, out)
	c.deps.Log.Infof(ctx, "order %s %s (total %s, %d items)", order.SlNo, out.State, order.TotalAmount, len(order.Items))
	return out, nil
}

// Busy 是否有提交正在进行
func (c *Coordinator) Busy() bool {
	return c.inFlight.Load()
}

func (c *Coordinator) buildOrder(form Form, items []models.LineItem) (models.Order, error) {
	slNo, err := c.deps.Serial.DisplayDate(form.Date)
	if err != nil {
		return models.Order{}, errorx.ErrValidationFailed
	}

	total := decimal.Zero
	descriptions := make([]string, len(items))
	partNos := make([]string, len(items))
	amounts := make([]string, len(items))
	for i, it := range items {
		total = total.Add(it.Amount)
		descriptions[i] = it.Description
		partNos[i] = it.PartNo
		if partNos[i] == "" {
			partNos[i] = "-"
		}
		amounts[i] = utils.FormatRupees(it.Amount)
	}

	status := form.Status
	if status == "" {
		status = models.StatusPending
	}

	return models.Order{
		SlNo:            slNo,
		Date:            form.Date,
		OTFNo:           form.OTFNo,
		CustomerName:    form.CustomerName,
		VehicleModel:    form.VehicleModel,
		ChassisNo:       form.ChassisNo,
		ItemDescription: strings.Join(descriptions, " | "),
		PartNo:          strings.Join(partNos, " | "),
		Amount:          strings.Join(amounts, " | "),
		TotalAmount:     total,
		Status:          status,
		Remarks:         form.Remarks,
		Items:           items,
		Photo:           form.Photo,
	}, nil
}

// bookkeeping 订单已保存（远端或本地）后执行，错误只记录日志
func (c *Coordinator) bookkeeping(ctx context.Context, order models.Order) string {
	for _, it := range order.Items {
		if it.Description == "" || it.Description == catalog.CustomSentinel {
			continue
		}
		if it.IsCustom {
			if err := c.deps.Usage.RegisterCustomItem(ctx, it.Description, it.PartNo); err != nil {
				c.deps.Log.Errorf(ctx, "register custom item %q: %v", it.Description, err)
			}
		}
		if err := c.deps.Usage.RecordUsage(ctx, it.Description); err != nil {
			c.deps.Log.Errorf(ctx, "record usage %q: %v", it.Description, err)
		}
	}

	next, err := c.deps.Serial.Increment(ctx)
	if err != nil {
		c.deps.Log.Errorf(ctx, "increment serial: %v", err)
	}
	c.composer.Reset()
	return next
}

func (c *Coordinator) publish(ctx context.Context, order models.Order, out *Outcome) {
	if c.deps.Publisher == nil {
		return
	}
	event := models.OrderEvent{
		SlNo:     order.SlNo,
		Type:     models.EventSubmitted,
		Status:   order.Status,
		Total:    order.TotalAmount,
		Items:    len(order.Items),
		Synced:   !out.Local,
		Occurred: c.deps.Now(),
	}
	if out.Local {
		event.Type = models.EventQueuedLocally
	}
	if err := c.deps.Publisher.PublishOrderEvent(ctx, event); err != nil {
		c.deps.Log.Warnf(ctx, "publish order event: %v", err)
	}
}
