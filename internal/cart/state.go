// Package cart координирует мутации корзины и хранит последний подтверждённый снимок.
package cart

import (
	"context"
	"sync"
	"time"

	"github.com/mmeshcher/hempmart-system/internal/model"
)

// State хранит признак выполняющейся мутации корзины и последний снимок,
// полученный от коммерс-бэкенда. Один State обслуживает одну корзину и
// передаётся всем потребителям её состояния.
type State struct {
	mu       sync.Mutex
	busy     bool
	snapshot *model.Cart
	touched  time.Time
}

// Begin помечает корзину занятой и возвращает функцию завершения. Вызывающий
// обязан вызвать её на каждом пути выхода, включая ошибки, иначе признак
// занятости останется висеть. Это индикатор для интерфейса, а не мьютекс:
// параллельные мутации не отклоняются.
func (s *State) Begin() func() {
	s.mu.Lock()
	s.busy = true
	s.touched = time.Now()
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		s.busy = false
		s.mu.Unlock()
	}
}

// Mutating сообщает, выполняется ли сейчас мутация корзины.
func (s *State) Mutating() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.busy
}

// Snapshot возвращает последний подтверждённый снимок корзины.
func (s *State) Snapshot() *model.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot
}

// SetSnapshot запоминает снимок корзины, полученный от бэкенда.
func (s *State) SetSnapshot(c *model.Cart) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot = c
	s.touched = time.Now()
}

// Mutate оборачивает мутацию корзины: помечает её занятой, выполняет вызов к
// бэкенду и обновляет снимок из его авторитетного ответа. При ошибке снимок
// не меняется и возвращается последнее известное состояние.
func (s *State) Mutate(ctx context.Context, fn func(ctx context.Context) (*model.Cart, error)) (*model.Cart, error) {
	end := s.Begin()
	defer end()

	updated, err := fn(ctx)
	if err != nil {
		return s.Snapshot(), err
	}

	s.SetSnapshot(updated)
	return updated, nil
}

// Tracker выдаёт State по идентификатору корзины. Состояние принадлежит
// трекеру, а не глобальной переменной, чтобы корзины разных сессий не
// пересекались.
type Tracker struct {
	mu     sync.Mutex
	states map[string]*State
	now    func() time.Time
}

// NewTracker создаёт пустой трекер состояний корзин.
func NewTracker() *Tracker {
	return &Tracker{
		states: make(map[string]*State),
		now:    time.Now,
	}
}

// State возвращает состояние указанной корзины, создавая его при первом обращении.
func (t *Tracker) State(cartID string) *State {
	t.mu.Lock()
	defer t.mu.Unlock()

	s, ok := t.states[cartID]
	if !ok {
		s = &State{touched: t.now()}
		t.states[cartID] = s
	}
	return s
}

// Sweep удаляет состояния корзин, к которым давно не обращались.
func (t *Tracker) Sweep(maxAge time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()

	cutoff := t.now().Add(-maxAge)
	for id, s := range t.states {
		s.mu.Lock()
		stale := !s.busy && s.touched.Before(cutoff)
		s.mu.Unlock()
		if stale {
			delete(t.states, id)
		}
	}
}

// StartSweeping периодически чистит устаревшие состояния до отмены контекста.
func (t *Tracker) StartSweeping(ctx context.Context, interval, maxAge time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			t.Sweep(maxAge)
		}
	}
}
