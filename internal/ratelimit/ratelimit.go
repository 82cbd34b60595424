// Package ratelimit реализует ограничение частоты запросов по фиксированному окну.
package ratelimit

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"
)

const (
	defaultWindow = time.Minute
	sweepInterval = 5 * time.Minute
)

type entry struct {
	count   int
	resetAt time.Time
}

// Limiter считает запросы от каждого идентификатора внутри фиксированного окна.
// Доступ к карте записей защищён мьютексом: запросы обрабатываются
// параллельно.
type Limiter struct {
	mu      sync.Mutex
	max     int
	window  time.Duration
	now     func() time.Time
	entries map[string]*entry
}

// NewLimiter создаёт ограничитель с указанным максимумом запросов в минуту.
func NewLimiter(max int) *Limiter {
	return &Limiter{
		max:     max,
		window:  defaultWindow,
		now:     time.Now,
		entries: make(map[string]*entry),
	}
}

// Allow регистрирует запрос от идентификатора и сообщает, разрешён ли он.
// Первый запрос в окне всегда разрешён; по достижении максимума запросы
// отклоняются до истечения окна. Ошибок не возвращает.
func (l *Limiter) Allow(identifier string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()

	e, ok := l.entries[identifier]
	if !ok || now.After(e.resetAt) {
		l.entries[identifier] = &entry{count: 1, resetAt: now.Add(l.window)}
		return true
	}

	if e.count >= l.max {
		return false
	}

	e.count++
	return true
}

// RetryAfter возвращает подсказку для заголовка Retry-After в секундах.
func (l *Limiter) RetryAfter() int {
	return int(l.window / time.Second)
}

// Sweep удаляет записи с истёкшим окном, чтобы карта не росла бесконечно.
func (l *Limiter) Sweep() {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	for id, e := range l.entries {
		if now.After(e.resetAt) {
			delete(l.entries, id)
		}
	}
}

// StartSweeping периодически чистит устаревшие записи до отмены контекста.
func (l *Limiter) StartSweeping(ctx context.Context) {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			l.Sweep()
		}
	}
}

// ClientID выводит идентификатор клиента из заголовков запроса: первый адрес
// из X-Forwarded-For, затем X-Real-IP, иначе общая корзина "anonymous".
func ClientID(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		if first = strings.TrimSpace(first); first != "" {
			return first
		}
	}
	if ip := r.Header.Get("X-Real-IP"); ip != "" {
		return ip
	}
	return "anonymous"
}
