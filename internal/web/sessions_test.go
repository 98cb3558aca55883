package web

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/ruta66/motoclub/internal/config"
	"github.com/ruta66/motoclub/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRegistry(t *testing.T) *Registry {
	t.Helper()

	backend := testutil.NewBackend(t)
	cfg := &config.Config{
		APIBaseURL:        backend.URL(),
		HTTPTimeout:       5 * time.Second,
		Environment:       "development",
		DashboardCacheTTL: time.Minute,
	}
	return NewRegistry(cfg, NewHub(testutil.Logger()), testutil.Logger())
}

func TestRegistryGet(t *testing.T) {
	t.Run("first visit sets the cookie", func(t *testing.T) {
		reg := newRegistry(t)

		w := httptest.NewRecorder()
		bs := reg.Get(w, httptest.NewRequest(http.MethodGet, "/", nil))
		require.NotNil(t, bs)

		cookies := w.Result().Cookies()
		require.Len(t, cookies, 1)
		assert.Equal(t, sessionCookie, cookies[0].Name)
		assert.Equal(t, bs.id, cookies[0].Value)
		assert.True(t, cookies[0].HttpOnly)
	})

	t.Run("the cookie returns the same session", func(t *testing.T) {
		reg := newRegistry(t)

		w := httptest.NewRecorder()
		first := reg.Get(w, httptest.NewRequest(http.MethodGet, "/", nil))

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(w.Result().Cookies()[0])
		second := reg.Get(httptest.NewRecorder(), req)

		assert.Same(t, first, second)
		assert.Len(t, reg.sessions, 1)
	})

	t.Run("a cookie that is not our UUID is ignored", func(t *testing.T) {
		reg := newRegistry(t)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: sessionCookie, Value: "definitely-not-a-uuid"})

		w := httptest.NewRecorder()
		bs := reg.Get(w, req)
		require.NotNil(t, bs)
		assert.NotEqual(t, "definitely-not-a-uuid", bs.id)
		require.Len(t, w.Result().Cookies(), 1)
	})
}

// Several tabs can race on the same stale cookie; they must converge on one
// session instead of each registering their own.
func TestRegistryGetConcurrentSameCookie(t *testing.T) {
	const visitors = 16

	reg := newRegistry(t)
	stale := uuid.New().String()

	sessions := make([]*browserSession, visitors)
	var wg sync.WaitGroup
	for i := 0; i < visitors; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.AddCookie(&http.Cookie{Name: sessionCookie, Value: stale})
			sessions[i] = reg.Get(httptest.NewRecorder(), req)
		}(i)
	}
	wg.Wait()

	for i := 1; i < visitors; i++ {
		assert.Same(t, sessions[0], sessions[i])
	}
	assert.Len(t, reg.sessions, 1)
	assert.Equal(t, stale, sessions[0].id)
}
