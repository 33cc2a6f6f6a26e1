package middleware

import (
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/m04kA/SMC-DetailingService/internal/api/handlers"
)

const msgTooManyRequests = "слишком много запросов, попробуйте позже"

// idleLimiterTTL через сколько удаляется лимитер неактивного клиента
const idleLimiterTTL = 10 * time.Minute

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter ограничивает частоту запросов с одного IP
type RateLimiter struct {
	mu        sync.Mutex
	limiters  map[string]*clientLimiter
	lastSweep time.Time
	limit     rate.Limit
	burst     int
	logger    Logger
	now       func() time.Time
}

// NewRateLimiter создает лимитер: requestsPerMinute запросов в минуту с запасом burst
// Нулевой requestsPerMinute снимает ограничение.
func NewRateLimiter(requestsPerMinute, burst int, logger Logger) *RateLimiter {
	limit := rate.Inf
	if requestsPerMinute > 0 {
		limit = rate.Every(time.Minute / time.Duration(requestsPerMinute))
	}
	return &RateLimiter{
		limiters: make(map[string]*clientLimiter),
		limit:    limit,
		burst:    burst,
		logger:   logger,
		now:      time.Now,
	}
}

// Middleware отклоняет запросы сверх лимита с кодом 429
func (l *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := clientIP(r)
		if !l.allow(ip) {
			l.logger.Warn("RateLimit: %s %s - limit exceeded for ip=%s", r.Method, r.URL.Path, ip)
			handlers.RespondError(w, http.StatusTooManyRequests, msgTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (l *RateLimiter) allow(ip string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if now.Sub(l.lastSweep) > idleLimiterTTL {
		for key, c := range l.limiters {
			if now.Sub(c.lastSeen) > idleLimiterTTL {
				delete(l.limiters, key)
			}
		}
		l.lastSweep = now
	}

	c, ok := l.limiters[ip]
	if !ok {
		c = &clientLimiter{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.limiters[ip] = c
	}
	c.lastSeen = now
	return c.limiter.AllowN(now, 1)
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
