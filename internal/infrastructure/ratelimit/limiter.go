// Package ratelimit limita los turnos del asistente por usuario con token buckets en memoria.
package ratelimit

import (
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/jhoicas/estoque-inteligente-api/internal/application/ports"
)

var _ ports.RateLimiter = (*KeyedLimiter)(nil)

// idleTTL tiempo sin uso tras el cual se descarta el bucket de una clave.
const idleTTL = 10 * time.Minute

type entry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// KeyedLimiter un rate.Limiter por clave. Es el único estado compartido en proceso del
// asistente; seguro para uso concurrente.
type KeyedLimiter struct {
	mu        sync.Mutex
	limit     rate.Limit
	burst     int
	keys      map[string]*entry
	now       func() time.Time
	lastSweep time.Time
}

// NewKeyedLimiter permite perMinute turnos por minuto con ráfagas de hasta burst.
// perMinute ≤ 0 desactiva el límite.
func NewKeyedLimiter(perMinute, burst int) *KeyedLimiter {
	limit := rate.Inf
	if perMinute > 0 {
		limit = rate.Limit(float64(perMinute) / 60)
	}
	if burst <= 0 {
		burst = 1
	}
	return &KeyedLimiter{limit: limit, burst: burst, keys: make(map[string]*entry), now: time.Now}
}

// Allow consume un token de key.
func (l *KeyedLimiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.sweep(now)

	e, ok := l.keys[key]
	if !ok {
		e = &entry{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.keys[key] = e
	}
	e.lastSeen = now
	return e.limiter.AllowN(now, 1)
}

// sweep descarta claves inactivas como máximo una vez por idleTTL.
func (l *KeyedLimiter) sweep(now time.Time) {
	if now.Sub(l.lastSweep) < idleTTL {
		return
	}
	l.lastSweep = now
	for k, e := range l.keys {
		if now.Sub(e.lastSeen) > idleTTL {
			delete(l.keys, k)
		}
	}
}
