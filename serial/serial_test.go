package serial

import (
	"context"
	"sync"
	"testing"
	"time"

	"order-entry/store"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time { return c.t }

func day(y int, m time.Month, d, h int) time.Time {
	return time.Date(y, m, d, h, 0, 0, 0, time.UTC)
}

func newAllocator(t *testing.T, s store.LocalStore, clock *fakeClock) *Allocator {
	t.Helper()
	a, err := NewAllocator(context.Background(), s, WithClock(clock.Now), WithLocation(time.UTC))
	if err != nil {
		t.Fatalf("NewAllocator: %v", err)
	}
	return a
}

func TestFormat(t *testing.T) {
	cases := []struct {
		counter int
		want    string
	}{
		{1, "20240115-001"},
		{42, "20240115-042"},
		{999, "20240115-999"},
		{1000, "20240115-1000"},
	}
	for _, c := range cases {
		if got := Format(day(2024, 1, 15, 9), c.counter); got != c.want {
			t.Fatalf("Format(%d) = %q, want %q", c.counter, got, c.want)
		}
	}
}

func TestInitialize(t *testing.T) {
	today := day(2024, 1, 15, 10)
	if s := Initialize(today, nil); s.Counter != 1 || !SameDay(s.LastResetDate, today) {
		t.Fatalf("first run: %+v", s)
	}
	if s := Initialize(today, &State{LastResetDate: day(2024, 1, 15, 0), Counter: 7}); s.Counter != 7 {
		t.Fatalf("resume: %+v", s)
	}
	if s := Initialize(today, &State{LastResetDate: day(2024, 1, 14, 0), Counter: 57}); s.Counter != 1 || !SameDay(s.LastResetDate, today) {
		t.Fatalf("yesterday should reset: %+v", s)
	}
	if s := Initialize(today, &State{LastResetDate: day(2024, 1, 15, 0), Counter: 0}); s.Counter != 1 {
		t.Fatalf("missing counter should reset: %+v", s)
	}
}

func TestFreshStoreAndIncrements(t *testing.T) {
	clock := &fakeClock{t: day(2024, 1, 15, 9)}
	s := store.NewMemoryStore()
	a := newAllocator(t, s, clock)

	if got := a.Current(); got != "20240115-001" {
		t.Fatalf("Current = %q", got)
	}
	for i := 0; i < 3; i++ {
		if _, err := a.Increment(context.Background()); err != nil {
			t.Fatalf("Increment: %v", err)
		}
	}
	if got := a.Current(); got != "20240115-004" {
		t.Fatalf("Current after 3 increments = %q", got)
	}

	counter, _, _ := s.Get(context.Background(), store.KeySerialCounter)
	date, _, _ := s.Get(context.Background(), store.KeySerialDate)
	if counter != "4" || date != "Mon Jan 15 2024" {
		t.Fatalf("persisted %q / %q", counter, date)
	}

	// 重新打开后继续计数
	b := newAllocator(t, s, clock)
	if got := b.Current(); got != "20240115-004" {
		t.Fatalf("resumed Current = %q", got)
	}
}

func TestDayBoundaryResets(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryStore()
	_ = s.Set(ctx, store.KeySerialDate, "Sun Jan 14 2024")
	_ = s.Set(ctx, store.KeySerialCounter, "57")

	a := newAllocator(t, s, &fakeClock{t: day(2024, 1, 15, 8)})
	if got := a.Current(); got != "20240115-001" {
		t.Fatalf("Current = %q", got)
	}
	counter, _, _ := s.Get(ctx, store.KeySerialCounter)
	date, _, _ := s.Get(ctx, store.KeySerialDate)
	if counter != "1" || date != "Mon Jan 15 2024" {
		t.Fatalf("reset not persisted: %q / %q", counter, date)
	}
}

func TestIncrementAfterMidnightReanchors(t *testing.T) {
	clock := &fakeClock{t: day(2024, 1, 15, 23)}
	s := store.NewMemoryStore()
	a := newAllocator(t, s, clock)
	if _, err := a.Increment(context.Background()); err != nil {
		t.Fatal(err)
	}

	clock.t = day(2024, 1, 16, 0).Add(5 * time.Minute)
	got, err := a.Increment(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	// 未重新加载时计数不重置，日期重新锚定到新的一天
	if got != "20240116-003" {
		t.Fatalf("Increment after midnight = %q", got)
	}
	if st := a.State(); !SameDay(st.LastResetDate, clock.t) {
		t.Fatalf("reset date not re-stamped: %v", st.LastResetDate)
	}
	b := newAllocator(t, s, clock)
	if got := b.Current(); got != "20240116-003" {
		t.Fatalf("reload after re-anchor = %q", got)
	}
}

func TestDisplay(t *testing.T) {
	clock := &fakeClock{t: day(2024, 1, 15, 9)}
	a := newAllocator(t, store.NewMemoryStore(), clock)

	if got := a.Display(day(2024, 1, 14, 0)); got != NotAssigned {
		t.Fatalf("Display(yesterday) = %q", got)
	}
	if got := a.Display(day(2024, 1, 15, 0)); got != "20240115-001" {
		t.Fatalf("Display(today) = %q", got)
	}
	if got, err := a.DisplayDate("2024-02-01"); err != nil || got != NotAssigned {
		t.Fatalf("DisplayDate = %q, %v", got, err)
	}
	if got, err := a.DisplayDate(""); err != nil || got != "20240115-001" {
		t.Fatalf("DisplayDate(empty) = %q, %v", got, err)
	}
	if _, err := a.DisplayDate("15/01/2024"); err == nil {
		t.Fatalf("expected parse error")
	}
	if a.State().Counter != 1 {
		t.Fatalf("display must not touch the counter")
	}
}

func TestCorruptStateIsFirstRun(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryStore()
	_ = s.Set(ctx, store.KeySerialDate, "not a date")
	_ = s.Set(ctx, store.KeySerialCounter, "x")
	a := newAllocator(t, s, &fakeClock{t: day(2024, 1, 15, 9)})
	if got := a.Current(); got != "20240115-001" {
		t.Fatalf("Current = %q", got)
	}
}

// pausingStore 在读取计数时可暂停，用于构造 Reload 与 Increment 交错
type pausingStore struct {
	store.LocalStore
	mu      sync.Mutex
	armed   bool
	entered chan struct{}
	release chan struct{}
}

func (p *pausingStore) Get(ctx context.Context, key string) (string, bool, error) {
	p.mu.Lock()
	pause := p.armed && key == store.KeySerialCounter
	if pause {
		p.armed = false
	}
	p.mu.Unlock()
	if pause {
		close(p.entered)
		<-p.release
	}
	return p.LocalStore.Get(ctx, key)
}

func TestReloadDoesNotLoseConcurrentIncrement(t *testing.T) {
	clock := &fakeClock{t: day(2024, 1, 15, 9)}
	s := &pausingStore{
		LocalStore: store.NewMemoryStore(),
		entered:    make(chan struct{}),
		release:    make(chan struct{}),
	}
	a := newAllocator(t, s, clock)
	if _, err := a.Increment(context.Background()); err != nil {
		t.Fatal(err)
	}

	s.mu.Lock()
	s.armed = true
	s.mu.Unlock()

	reloaded := make(chan error, 1)
	go func() { reloaded <- a.Reload(context.Background()) }()
	<-s.entered

	type result struct {
		next string
		err  error
	}
	incremented := make(chan result, 1)
	go func() {
		next, err := a.Increment(context.Background())
		incremented <- result{next, err}
	}()

	select {
	case r := <-incremented:
		t.Fatalf("Increment finished during Reload: %+v", r)
	case <-time.After(50 * time.Millisecond):
	}
	close(s.release)

	if err := <-reloaded; err != nil {
		t.Fatalf("Reload: %v", err)
	}
	r := <-incremented
	if r.err != nil {
		t.Fatalf("Increment: %v", r.err)
	}
	if r.next != "20240115-003" || a.Current() != "20240115-003" {
		t.Fatalf("next %q, Current %q", r.next, a.Current())
	}
	counter, _, _ := s.LocalStore.Get(context.Background(), store.KeySerialCounter)
	if counter != "3" {
		t.Fatalf("persisted counter = %q", counter)
	}
}
