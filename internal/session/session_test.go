package session_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/fekuna/omnipos-inventory-service/internal/session"
	"github.com/fekuna/omnipos-inventory-service/pkg/logger"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T) (*session.RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	return session.NewRedisStore(rdb, time.Hour), mr
}

func TestRedisStore(t *testing.T) {
	ctx := context.Background()
	store, mr := newStore(t)

	val, err := store.Get(ctx, "sid-1", "order_status")
	require.NoError(t, err)
	assert.Empty(t, val)

	require.NoError(t, store.Set(ctx, "sid-1", "order_status", "PAID"))
	val, err = store.Get(ctx, "sid-1", "order_status")
	require.NoError(t, err)
	assert.Equal(t, "PAID", val)
	assert.Equal(t, time.Hour, mr.TTL("session:sid-1"))

	require.NoError(t, store.Set(ctx, "sid-1", "flash", "1"))
	val, err = store.Pop(ctx, "sid-1", "flash")
	require.NoError(t, err)
	assert.Equal(t, "1", val)

	val, err = store.Pop(ctx, "sid-1", "flash")
	require.NoError(t, err)
	assert.Empty(t, val)
}

func TestManagerMiddlewareIssuesCookieAndKeepsState(t *testing.T) {
	store, _ := newStore(t)
	m := session.NewManager(store, session.Options{CookieName: "sid", TTL: time.Hour}, logger.NewNop())

	mux := http.NewServeMux()
	mux.HandleFunc("/set", func(w http.ResponseWriter, r *http.Request) {
		m.Put(r, session.KeyOrderStatus, "PAID")
		m.Flash(r, session.FlashDeleteNotAllowed)
	})
	mux.HandleFunc("/get", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(m.Get(r, session.KeyOrderStatus)))
		if m.PopFlash(r, session.FlashDeleteNotAllowed) {
			_, _ = w.Write([]byte(" flash"))
		}
	})
	h := m.Middleware(mux)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/set", nil))
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "sid", cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)

	get := func() string {
		req := httptest.NewRequest(http.MethodGet, "/get", nil)
		req.AddCookie(cookies[0])
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Empty(t, rec.Result().Cookies(), "existing session must not be reissued")
		return rec.Body.String()
	}

	assert.Equal(t, "PAID flash", get())
	assert.Equal(t, "PAID", get())
}

func TestManagerOutsideMiddleware(t *testing.T) {
	store, _ := newStore(t)
	m := session.NewManager(store, session.Options{TTL: time.Hour}, logger.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	m.Put(req, "k", "v")
	assert.Empty(t, m.Get(req, "k"))
	assert.False(t, m.PopFlash(req, "k"))
}
