package session

import (
	"context"
	"net/http"
	"time"

	"github.com/fekuna/omnipos-inventory-service/pkg/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Keys used by the web handlers.
const (
	KeyOrderStatus        = "order_status"
	FlashDeleteNotAllowed = "delete_not_allowed"
)

type sidKey struct{}

type Options struct {
	CookieName string
	TTL        time.Duration
	Secure     bool
}

// Manager binds a cookie-identified session to each request. Session state is
// best effort: store failures are logged and read as empty values.
type Manager struct {
	store  Store
	opts   Options
	logger logger.ZapLogger
}

func NewManager(store Store, opts Options, log logger.ZapLogger) *Manager {
	if opts.CookieName == "" {
		opts.CookieName = "omnipos_sid"
	}
	return &Manager{store: store, opts: opts, logger: log}
}

func (m *Manager) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sid := ""
		if c, err := r.Cookie(m.opts.CookieName); err == nil {
			if _, err := uuid.Parse(c.Value); err == nil {
				sid = c.Value
			}
		}
		if sid == "" {
			sid = uuid.New().String()
			http.SetCookie(w, &http.Cookie{
				Name:     m.opts.CookieName,
				Value:    sid,
				Path:     "/",
				MaxAge:   int(m.opts.TTL.Seconds()),
				HttpOnly: true,
				Secure:   m.opts.Secure,
				SameSite: http.SameSiteLaxMode,
			})
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), sidKey{}, sid)))
	})
}

// ID returns the session id bound by Middleware, or "" outside of it.
func ID(ctx context.Context) string {
	sid, _ := ctx.Value(sidKey{}).(string)
	return sid
}

func (m *Manager) Get(r *http.Request, key string) string {
	sid := ID(r.Context())
	if sid == "" {
		return ""
	}
	val, err := m.store.Get(r.Context(), sid, key)
	if err != nil {
		m.logger.Warn("session read failed", zap.String("key", key), zap.Error(err))
		return ""
	}
	return val
}

func (m *Manager) Put(r *http.Request, key, value string) {
	sid := ID(r.Context())
	if sid == "" {
		return
	}
	if err := m.store.Set(r.Context(), sid, key, value); err != nil {
		m.logger.Warn("session write failed", zap.String("key", key), zap.Error(err))
	}
}

func (m *Manager) Flash(r *http.Request, key string) {
	m.Put(r, key, "1")
}

// PopFlash reports whether the flash flag was set and clears it.
func (m *Manager) PopFlash(r *http.Request, key string) bool {
	sid := ID(r.Context())
	if sid == "" {
		return false
	}
	val, err := m.store.Pop(r.Context(), sid, key)
	if err != nil {
		m.logger.Warn("session flash read failed", zap.String("key", key), zap.Error(err))
		return false
	}
	return val != ""
}
