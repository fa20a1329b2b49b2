package serial

import (
	"fmt"
	"time"
)

// DateLayout 存储 slNoDate 的格式，如 "Mon Jan 15 2024"
const DateLayout = "Mon Jan 02 2006"

// NotAssigned 选择非当天日期时显示的流水号
const NotAssigned = "Will be assigned"

// State 每日流水号状态，Counter 始终 >= 1
type State struct {
	LastResetDate time.Time
	Counter       int
}

// Format 生成 YYYYMMDD-NNN，计数超过 999 时不截断
func Format(date time.Time, counter int) string {
	return fmt.Sprintf("%s-%03d", date.Format("20060102"), counter)
}

// Initialize 同一天且有计数时继续，否则从 1 重新开始
func Initialize(today time.Time, persisted *State) State {
	if persisted != nil && persisted.Counter >= 1 && SameDay(persisted.LastResetDate, today) {
		return State{LastResetDate: dateOf(persisted.LastResetDate), Counter: persisted.Counter}
	}
	return State{LastResetDate: dateOf(today), Counter: 1}
}

// Increment 计数加一，并把重置日期改为 today（不会重置计数）
func Increment(s State, today time.Time) State {
	return State{LastResetDate: dateOf(today), Counter: s.Counter + 1}
}

// SameDay 比较日历日期，忽略时间部分
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

func dateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
