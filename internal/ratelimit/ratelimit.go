package ratelimit

import (
	"fmt"
	"sync"
	"time"
)

// Config sets the report request budgets.
type Config struct {
	Window       time.Duration `mapstructure:"window"`
	LoginReports int           `mapstructure:"login_reports"`
	IPReports    int           `mapstructure:"ip_reports"`
}

// Limiter implements a simple in-memory fixed window rate limiter
type Limiter struct {
	mu       sync.RWMutex
	counters map[string]*counter
	window   time.Duration
	max      int
	stop     chan struct{}
	once     sync.Once
}

type counter struct {
	count     int
	expiresAt time.Time
}

// NewLimiter creates a new rate limiter with the specified window and max requests
func NewLimiter(window time.Duration, max int) *Limiter {
	l := &Limiter{
		counters: make(map[string]*counter),
		window:   window,
		max:      max,
		stop:     make(chan struct{}),
	}
	go l.cleanup()
	return l
}

// Allow checks if a request for the given key is allowed
func (l *Limiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	c, exists := l.counters[key]

	if !exists || now.After(c.expiresAt) {
		l.counters[key] = &counter{
			count:     1,
			expiresAt: now.Add(l.window),
		}
		return true
	}

	if c.count >= l.max {
		return false
	}

	c.count++
	return true
}

// GetRemaining returns the number of remaining requests for the given key
func (l *Limiter) GetRemaining(key string) int {
	l.mu.RLock()
	defer l.mu.RUnlock()

	c, exists := l.counters[key]
	if !exists || time.Now().After(c.expiresAt) {
		return l.max
	}

	remaining := l.max - c.count
	if remaining < 0 {
		return 0
	}
	return remaining
}

// Stop ends the cleanup loop.
func (l *Limiter) Stop() {
	l.once.Do(func() { close(l.stop) })
}

// cleanup periodically removes expired counters
func (l *Limiter) cleanup() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-l.stop:
			return
		case <-ticker.C:
		}
		l.mu.Lock()
		now := time.Now()
		for key, c := range l.counters {
			if now.After(c.expiresAt) {
				delete(l.counters, key)
			}
		}
		l.mu.Unlock()
	}
}

// ReportLimiter budgets report requests per login and per client IP.
type ReportLimiter struct {
	login *Limiter
	ip    *Limiter
}

// NewReportLimiter creates a limiter from c. Zero values fall back to 120
// requests per login and 600 per IP each minute.
func NewReportLimiter(c Config) *ReportLimiter {
	if c.Window <= 0 {
		c.Window = time.Minute
	}
	if c.LoginReports <= 0 {
		c.LoginReports = 120
	}
	if c.IPReports <= 0 {
		c.IPReports = 600
	}
	return &ReportLimiter{
		login: NewLimiter(c.Window, c.LoginReports),
		ip:    NewLimiter(c.Window, c.IPReports),
	}
}

// CheckReport verifies that a report request from the login and IP is allowed.
func (m *ReportLimiter) CheckReport(loginID, ip string) error {
	if !m.ip.Allow(ip) {
		return fmt.Errorf("too many report requests from this IP address, please try again later")
	}
	if loginID != "" && !m.login.Allow(loginID) {
		return fmt.Errorf("too many report requests for %s, please slow down", loginID)
	}
	return nil
}

// Remaining returns the requests left in the current window for the login.
func (m *ReportLimiter) Remaining(loginID string) int {
	return m.login.GetRemaining(loginID)
}

func (m *ReportLimiter) Stop() {
	m.login.Stop()
	m.ip.Stop()
}
