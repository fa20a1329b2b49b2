package session

import (
	"context"
	"sync"
	"time"

	"order-entry/composer"
	"order-entry/errorx"
	"order-entry/submission"

	"github.com/google/uuid"
)

// Reloader 打开新表单时重新执行流水号的每日初始化
type Reloader interface {
	Reload(ctx context.Context) error
}

// Session 一个订单表单：明细、照片和提交协调器
type Session struct {
	ID          string
	CreatedAt   time.Time
	Composer    *composer.Composer
	Coordinator *submission.Coordinator

	mu         sync.Mutex
	photo      string
	submitting bool
}

// Photo 当前照片的 data URL，没有时为空
func (s *Session) Photo() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.photo
}

// SetPhoto 提交进行中时返回 ErrSubmissionInFlight
func (s *Session) SetPhoto(dataURL string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.submitting {
		return errorx.ErrSubmissionInFlight
	}
	s.photo = dataURL
	return nil
}

func (s *Session) ClearPhoto() error {
	return s.SetPhoto("")
}

// Submit 带上当前照片提交，成功或本地保存后清除照片
func (s *Session) Submit(ctx context.Context, form submission.Form) (*submission.Outcome, error) {
	s.mu.Lock()
	if s.submitting {
		s.mu.Unlock()
		return nil, errorx.ErrSubmissionInFlight
	}
	s.submitting = true
	form.Photo = s.photo
	s.mu.Unlock()

	out, err := s.Coordinator.Submit(ctx, form)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.submitting = false
	if err != nil {
		return nil, err
	}
	s.photo = ""
	return out, nil
}

// Registry 管理进程内的表单会话
type Registry struct {
	mu        sync.RWMutex
	sessions  map[string]*Session
	deps      submission.Deps
	lookup    composer.PartNoLookup
	serial    Reloader
	multiItem bool
}

func NewRegistry(deps submission.Deps, lookup composer.PartNoLookup, serial Reloader, multiItem bool) *Registry {
	return &Registry{
		sessions:  make(map[string]*Session),
		deps:      deps,
		lookup:    lookup,
		serial:    serial,
		multiItem: multiItem,
	}
}

// Create 新建会话
func (r *Registry) Create(ctx context.Context) (*Session, error) {
	if r.serial != nil {
		if err := r.serial.Reload(ctx); err != nil {
			return nil, err
		}
	}
	c := composer.New(r.lookup, r.multiItem)
	s := &Session{
		ID:          uuid.New().String(),
		CreatedAt:   time.Now(),
		Composer:    c,
		Coordinator: submission.NewCoordinator(r.deps, c),
	}

	r.mu.Lock()
	r.sessions[s.ID] = s
	r.mu.Unlock()
	return s, nil
}

func (r *Registry) Get(id string) (*Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[id]
	if !ok {
		return nil, errorx.ErrSessionNotFound
	}
	return s, nil
}

func (r *Registry) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sessions[id]; !ok {
		return errorx.ErrSessionNotFound
	}
	delete(r.sessions, id)
	return nil
}

// Len 当前会话数
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// Prune 删除创建时间早于 cutoff 的会话，返回删除数量
func (r *Registry) Prune(cutoff time.Time) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for id, s := range r.sessions {
		if s.CreatedAt.Before(cutoff) {
			delete(r.sessions, id)
			n++
		}
	}
	return n
}
