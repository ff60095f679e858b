package server

import (
	"crypto/subtle"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/osse101/Crucible_Go/internal/logger"
)

// AuthMiddleware requires the X-API-Key header on every non-public path
func AuthMiddleware(apiKey string, trustedProxies []string, detector *SuspiciousActivityDetector) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if isPublicPath(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			providedKey := r.Header.Get(HeaderAPIKey)
			if subtle.ConstantTimeCompare([]byte(providedKey), []byte(apiKey)) != 1 {
				ip := extractIP(r, trustedProxies)
				detector.RecordFailedAuth(ip)

				logger.FromContext(r.Context()).Warn(LogMsgAuthFailed,
					"path", r.URL.Path,
					"has_key", providedKey != "",
					"ip", ip)

				http.Error(w, ErrMsgUnauthorized, http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func isPublicPath(path string) bool {
	for _, prefix := range PublicPaths {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

// RequestSizeLimitMiddleware limits request body size
func RequestSizeLimitMiddleware(maxBytes int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			next.ServeHTTP(w, r)
		})
	}
}

// DetectorConfig tunes the per-IP counters of a SuspiciousActivityDetector
type DetectorConfig struct {
	Window          time.Duration
	MaxRequests     int
	FailedAuthAlert int
}

// DefaultDetectorConfig allows 1000 requests per IP every five minutes
func DefaultDetectorConfig() DetectorConfig {
	return DetectorConfig{
		Window:          DefaultDetectorWindow,
		MaxRequests:     DefaultMaxRequests,
		FailedAuthAlert: DefaultFailedAuthAlert,
	}
}

// SuspiciousActivityDetector counts requests and failed logins per IP over a fixed window
type SuspiciousActivityDetector struct {
	mu               sync.Mutex
	cfg              DetectorConfig
	failedAuthByIP   map[string]int
	requestCountByIP map[string]int
	windowStart      time.Time
	now              func() time.Time
}

// NewSuspiciousActivityDetector creates a detector; zero fields of cfg take defaults
func NewSuspiciousActivityDetector(cfg DetectorConfig) *SuspiciousActivityDetector {
	def := DefaultDetectorConfig()
	if cfg.Window <= 0 {
		cfg.Window = def.Window
	}
	if cfg.MaxRequests <= 0 {
		cfg.MaxRequests = def.MaxRequests
	}
	if cfg.FailedAuthAlert <= 0 {
		cfg.FailedAuthAlert = def.FailedAuthAlert
	}
	return &SuspiciousActivityDetector{
		cfg:              cfg,
		failedAuthByIP:   make(map[string]int),
		requestCountByIP: make(map[string]int),
		windowStart:      time.Now(),
		now:              time.Now,
	}
}

// RecordFailedAuth records a failed authentication attempt
func (s *SuspiciousActivityDetector) RecordFailedAuth(ip string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.resetIfWindowElapsed()
	s.failedAuthByIP[ip]++

	if s.failedAuthByIP[ip] >= s.cfg.FailedAuthAlert {
		slog.Warn(SecurityAlertFailedAuth, "ip", ip, "count", s.failedAuthByIP[ip])
	}
}

// RecordRequest counts a request and reports whether the IP is still under its limit
func (s *SuspiciousActivityDetector) RecordRequest(ip string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.resetIfWindowElapsed()
	s.requestCountByIP[ip]++

	count := s.requestCountByIP[ip]
	if count <= s.cfg.MaxRequests {
		return true
	}
	if count%highRateLogEvery == 0 {
		slog.Warn(SecurityAlertHighRate, "ip", ip, "count_in_window", count)
	}
	return false
}

// resetIfWindowElapsed must be called with mu held
func (s *SuspiciousActivityDetector) resetIfWindowElapsed() {
	now := s.now()
	if now.Sub(s.windowStart) > s.cfg.Window {
		s.requestCountByIP = make(map[string]int)
		s.failedAuthByIP = make(map[string]int)
		s.windowStart = now
	}
}

// RateLimitMiddleware rejects clients that exceed the detector's request budget
func RateLimitMiddleware(trustedProxies []string, detector *SuspiciousActivityDetector) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !detector.RecordRequest(extractIP(r, trustedProxies)) {
				http.Error(w, ErrMsgTooManyRequests, http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// extractIP returns the client address. X-Forwarded-For is only honoured
// when the direct peer is a trusted proxy, and then its rightmost entry is used.
func extractIP(r *http.Request, trustedProxies []string) string {
	remoteIP, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		remoteIP = r.RemoteAddr
	}

	for _, proxy := range trustedProxies {
		if proxy != remoteIP {
			continue
		}
		if forwarded := r.Header.Get(HeaderForwardedFor); forwarded != "" {
			ips := strings.Split(forwarded, ",")
			return strings.TrimSpace(ips[len(ips)-1])
		}
		break
	}
	return remoteIP
}

// SecurityHeadersMiddleware adds security headers to responses
func SecurityHeadersMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			h.Set(HeaderContentType, HeaderValueNoSniff)
			h.Set(HeaderFrameOptions, HeaderValueSameOrigin)
			h.Set(HeaderXSSProtection, HeaderValueXSSBlock)
			h.Set(HeaderReferrerPolicy, HeaderValueReferrerStrictOrigin)
			next.ServeHTTP(w, r)
		})
	}
}
