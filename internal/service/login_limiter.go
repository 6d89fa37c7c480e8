package service

import (
	"context"
	"strings"
	"sync"
	"time"
)

// LoginLimiter cuenta credenciales fallidas por username.
// Solo los fallos cuentan; un login correcto limpia el contador.
type LoginLimiter interface {
	Blocked(ctx context.Context, username string) (bool, error)
	RecordFailure(ctx context.Context, username string) error
	Reset(ctx context.Context, username string) error
}

// failureWindow es una ventana fija que arranca con el primer fallo.
type failureWindow struct {
	count     int
	expiresAt time.Time
}

type memoryLoginLimiter struct {
	mu          sync.Mutex
	window      time.Duration
	maxFailures int
	failures    map[string]failureWindow
	now         func() time.Time
}

// NewLoginLimiter crea un limitador en memoria para una sola instancia.
func NewLoginLimiter(window time.Duration, maxFailures int) LoginLimiter {
	window, maxFailures = limiterDefaults(window, maxFailures)
	return &memoryLoginLimiter{
		window:      window,
		maxFailures: maxFailures,
		failures:    make(map[string]failureWindow),
		now:         func() time.Time { return time.Now().UTC() },
	}
}

func (l *memoryLoginLimiter) Blocked(_ context.Context, username string) (bool, error) {
	key := limiterKey(username)
	l.mu.Lock()
	defer l.mu.Unlock()
	w, ok := l.current(key)
	return ok && w.count >= l.maxFailures, nil
}

func (l *memoryLoginLimiter) RecordFailure(_ context.Context, username string) error {
	key := limiterKey(username)
	if key == "" {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	w, ok := l.current(key)
	if !ok {
		w = failureWindow{expiresAt: l.now().Add(l.window)}
	}
	w.count++
	l.failures[key] = w
	return nil
}

func (l *memoryLoginLimiter) Reset(_ context.Context, username string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.failures, limiterKey(username))
	return nil
}

// current devuelve la ventana vigente de key y descarta la vencida. Requiere l.mu.
func (l *memoryLoginLimiter) current(key string) (failureWindow, bool) {
	w, ok := l.failures[key]
	if !ok {
		return failureWindow{}, false
	}
	if !l.now().Before(w.expiresAt) {
		delete(l.failures, key)
		return failureWindow{}, false
	}
	return w, true
}

func limiterDefaults(window time.Duration, maxFailures int) (time.Duration, int) {
	if window <= 0 {
		window = 10 * time.Minute
	}
	if maxFailures <= 0 {
		maxFailures = 5
	}
	return window, maxFailures
}

// limiterKey respeta mayusculas: "ALICE" y "alice" son cuentas distintas.
func limiterKey(username string) string {
	return strings.TrimSpace(username)
}
