package server

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/fekuna/omnipos-inventory-service/internal/session"
	"github.com/fekuna/omnipos-inventory-service/pkg/logger"
	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type stubModule string

func (s stubModule) Routes() http.Handler {
	r := chi.NewRouter()
	r.Get("/list", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(s))
	})
	r.Get("/panic", func(http.ResponseWriter, *http.Request) {
		panic("boom")
	})
	return r
}

func newRouter(t *testing.T, log logger.ZapLogger) http.Handler {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	sessions := session.NewManager(session.NewRedisStore(rdb, time.Hour), session.Options{TTL: time.Hour}, log)

	return NewRouter(Handlers{
		Dashboard: http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte("dashboard"))
		}),
		Categories: stubModule("categories"),
		Customers:  stubModule("customers"),
		Products:   stubModule("products"),
		Orders:     stubModule("orders"),
		Inventory:  stubModule("inventory"),
	}, sessions, log)
}

func TestRootRedirectsToDashboard(t *testing.T) {
	srv := newRouter(t, logger.NewNop())

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/dashboard", rec.Header().Get("Location"))
}

func TestMountsModules(t *testing.T) {
	srv := newRouter(t, logger.NewNop())

	for path, want := range map[string]string{
		"/dashboard":       "dashboard",
		"/categories/list": "categories",
		"/customers/list":  "customers",
		"/products/list":   "products",
		"/orders/list":     "orders",
		"/inventory/list":  "inventory",
	} {
		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		require.Equal(t, http.StatusOK, rec.Code, path)
		assert.Equal(t, want, rec.Body.String(), path)
		assert.NotEmpty(t, rec.Result().Cookies(), path)
	}
}

func TestAccessLogAndRecover(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	srv := newRouter(t, logger.FromZap(zap.New(core)))

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/orders/panic", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	entries := logs.FilterMessage("http request").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "/orders/panic", fields["path"])
	assert.Equal(t, int64(http.StatusInternalServerError), fields["status"])
}
