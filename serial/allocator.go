package serial

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"order-entry/store"
)

// Allocator 维护每日流水号并持久化到本地存储
type Allocator struct {
	mu    sync.Mutex
	store store.LocalStore
	loc   *time.Location
	now   func() time.Time
	state State
}

type Option func(*Allocator)

// WithClock 替换当前时间来源
func WithClock(now func() time.Time) Option {
	return func(a *Allocator) { a.now = now }
}

// WithLocation 按指定时区计算日期
func WithLocation(loc *time.Location) Option {
	return func(a *Allocator) {
		if loc != nil {
			a.loc = loc
		}
	}
}

// NewAllocator 读取持久化状态并初始化
func NewAllocator(ctx context.Context, s store.LocalStore, opts ...Option) (*Allocator, error) {
	a := &Allocator{store: s, loc: time.Local, now: time.Now}
	for _, opt := range opts {
		opt(a)
	}
	if err := a.Reload(ctx); err != nil {
		return nil, err
	}
	return a, nil
}

func (a *Allocator) today() time.Time {
	return a.now().In(a.loc)
}

// Reload 重新读取存储并执行每日初始化，相当于重新打开表单。
// 读取和写回都在锁内，避免覆盖并发的 Increment
func (a *Allocator) Reload(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	persisted, err := a.load(ctx)
	if err != nil {
		return err
	}
	today := a.today()
	next := Initialize(today, persisted)
	resumed := persisted != nil && persisted.Counter >= 1 && SameDay(persisted.LastResetDate, today)
	if !resumed {
		// 新的一天同时写入日期和计数，避免残留旧计数
		if err := a.persist(ctx, next); err != nil {
			return err
		}
	}
	a.state = next
	return nil
}

// Current 当天日期加当前计数
func (a *Allocator) Current() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return Format(a.today(), a.state.Counter)
}

// Display 所选日期不是今天时返回 NotAssigned，计数不变
func (a *Allocator) Display(selected time.Time) string {
	if !SameDay(selected.In(a.loc), a.today()) {
		return NotAssigned
	}
	return a.Current()
}

// DisplayDate 解析 YYYY-MM-DD 后调用 Display，空字符串视为今天
func (a *Allocator) DisplayDate(date string) (string, error) {
	if strings.TrimSpace(date) == "" {
		return a.Current(), nil
	}
	d, err := time.ParseInLocation("2006-01-02", strings.TrimSpace(date), a.loc)
	if err != nil {
		return "", fmt.Errorf("invalid date %q: %w", date, err)
	}
	return a.Display(d), nil
}

// State 返回当前状态副本
func (a *Allocator) State() State {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state
}

// Increment 订单提交后调用，立即持久化
func (a *Allocator) Increment(ctx context.Context) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	today := a.today()
	next := Increment(a.state, today)
	if err := a.persist(ctx, next); err != nil {
		return "", err
	}
	a.state = next
	return Format(today, next.Counter), nil
}

func (a *Allocator) persist(ctx context.Context, s State) error {
	if err := a.store.Set(ctx, store.KeySerialCounter, strconv.Itoa(s.Counter)); err != nil {
		return fmt.Errorf("persist serial counter: %w", err)
	}
	if err := a.store.Set(ctx, store.KeySerialDate, s.LastResetDate.Format(DateLayout)); err != nil {
		return fmt.Errorf("persist serial date: %w", err)
	}
	return nil
}

// load 缺失或无法解析的状态视为首次运行
func (a *Allocator) load(ctx context.Context) (*State, error) {
	rawDate, found, err := a.store.Get(ctx, store.KeySerialDate)
	if err != nil {
		return nil, fmt.Errorf("load serial date: %w", err)
	}
	if !found {
		return nil, nil
	}
	date, ok := parseDate(rawDate, a.loc)
	if !ok {
		return nil, nil
	}

	rawCounter, found, err := a.store.Get(ctx, store.KeySerialCounter)
	if err != nil {
		return nil, fmt.Errorf("load serial counter: %w", err)
	}
	counter := 0
	if found {
		if n, err := strconv.Atoi(strings.TrimSpace(rawCounter)); err == nil {
			counter = n
		}
	}
	return &State{LastResetDate: date, Counter: counter}, nil
}

func parseDate(raw string, loc *time.Location) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	for _, layout := range []string{DateLayout, "2006-01-02"} {
		if t, err := time.ParseInLocation(layout, raw, loc); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
