package web_test

import (
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/ruta66/motoclub/internal/config"
	"github.com/ruta66/motoclub/internal/testutil"
	"github.com/ruta66/motoclub/internal/web"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newSite serves the front-end against a scripted backend and returns a client
// that keeps its session cookie between requests.
func newSite(t *testing.T) (*testutil.Backend, *httptest.Server, *http.Client) {
	t.Helper()

	backend := testutil.NewBackend(t)
	cfg := &config.Config{
		APIBaseURL:        backend.URL(),
		HTTPTimeout:       5 * time.Second,
		Port:              "0",
		Environment:       "development",
		DashboardCacheTTL: time.Minute,
	}

	app, err := web.NewApp(cfg, testutil.Logger())
	require.NoError(t, err)

	site := httptest.NewServer(app.Router())
	t.Cleanup(site.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)

	return backend, site, &http.Client{Jar: jar}
}

func get(t *testing.T, client *http.Client, url string) (*http.Response, string) {
	t.Helper()

	resp, err := client.Get(url)
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	resp.Body.Close()
	return resp, string(body)
}

func postForm(t *testing.T, client *http.Client, url string, form url.Values) (*http.Response, string) {
	t.Helper()

	resp, err := client.PostForm(url, form)
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	resp.Body.Close()
	return resp, string(body)
}

func TestHealth(t *testing.T) {
	_, site, client := newSite(t)

	resp, body := get(t, client, site.URL+"/health")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "OK", body)
}

func TestDashboardRequiresLogin(t *testing.T) {
	_, site, client := newSite(t)

	resp, body := get(t, client, site.URL+"/dashboard")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "/auth/login", resp.Request.URL.Path, "redirected to the login page")
	assert.Contains(t, body, "Iniciar sesión")
}

func TestLoginFlow(t *testing.T) {
	backend, site, client := newSite(t)

	backend.HandleJSON(http.MethodPost, "/api/auth/jwt/login/", http.StatusOK, testutil.LoginResponse(t))
	backend.HandleJSON(http.MethodGet, "/api/dashboard/overview/", http.StatusOK, testutil.Overview())

	resp, body := postForm(t, client, site.URL+"/auth/login", url.Values{
		"email":    {"rider@example.com"},
		"password": {"secret"},
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "/dashboard", resp.Request.URL.Path)

	// The overview may still be loading on the first render; it settles within
	// the cache window.
	require.Eventually(t, func() bool {
		_, body := get(t, client, site.URL+"/dashboard")
		return strings.Contains(body, "Mis clubes") && strings.Contains(body, "Ruta 66 MC")
	}, 2*time.Second, 25*time.Millisecond)

	// The session survives the next request.
	resp, body = get(t, client, site.URL+"/profile")
	assert.Equal(t, "/profile", resp.Request.URL.Path)
	assert.Contains(t, body, "rider@example.com")
}

func TestLoginShowsBackendFieldError(t *testing.T) {
	backend, site, client := newSite(t)

	backend.HandleJSON(http.MethodPost, "/api/auth/jwt/login/", http.StatusBadRequest,
		map[string][]string{"password": {"too short"}})

	resp, body := postForm(t, client, site.URL+"/auth/login", url.Values{
		"email":    {"rider@example.com"},
		"password": {"x"},
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "/auth/login", resp.Request.URL.Path)
	assert.Contains(t, body, "Contraseña: too short")
}

func TestLogoutFlow(t *testing.T) {
	backend, site, client := newSite(t)

	backend.HandleJSON(http.MethodPost, "/api/auth/jwt/login/", http.StatusOK, testutil.LoginResponse(t))
	backend.HandleJSON(http.MethodGet, "/api/dashboard/overview/", http.StatusOK, testutil.Overview())

	postForm(t, client, site.URL+"/auth/login", url.Values{
		"email":    {"rider@example.com"},
		"password": {"secret"},
	})

	resp, _ := postForm(t, client, site.URL+"/logout", url.Values{})
	assert.Equal(t, "/auth/login", resp.Request.URL.Path)

	resp, _ = get(t, client, site.URL+"/dashboard")
	assert.Equal(t, "/auth/login", resp.Request.URL.Path, "session is gone after logout")
}

func TestRegisterFlow(t *testing.T) {
	backend, site, client := newSite(t)

	t.Run("success redirects to login with a flash", func(t *testing.T) {
		backend.HandleJSON(http.MethodPost, "/api/auth/register/", http.StatusCreated, map[string]any{"id": 43})

		resp, body := postForm(t, client, site.URL+"/auth/register", url.Values{
			"email":            {"new@example.com"},
			"password":         {"secret123"},
			"password_confirm": {"secret123"},
		})
		assert.Equal(t, "/auth/login", resp.Request.URL.Path)
		assert.Contains(t, body, "Cuenta creada")
	})

	t.Run("backend validation error is shown localized", func(t *testing.T) {
		backend.HandleJSON(http.MethodPost, "/api/auth/register/", http.StatusBadRequest,
			map[string][]string{"password_confirm": {"does not match"}})

		resp, body := postForm(t, client, site.URL+"/auth/register", url.Values{
			"email":            {"new@example.com"},
			"password":         {"secret123"},
			"password_confirm": {"different"},
		})
		assert.Equal(t, "/auth/register", resp.Request.URL.Path)
		assert.Contains(t, body, "Confirmar contraseña: does not match")
	})
}

func TestClubPages(t *testing.T) {
	backend, site, client := newSite(t)

	backend.HandleJSON(http.MethodGet, "/api/clubs/", http.StatusOK, map[string]any{
		"count": 1,
		"results": []map[string]any{
			{"id": 1, "name": "Ruta 66 MC", "total_members": 12},
		},
	})
	backend.HandleJSON(http.MethodGet, "/api/clubs/1/", http.StatusOK, map[string]any{
		"id": 1, "name": "Ruta 66 MC", "description": "**Desde 2010.**", "logo": "media/logos/ruta66.png",
	})
	backend.HandleJSON(http.MethodGet, "/api/chapters/", http.StatusOK, map[string]any{
		"count":   1,
		"results": []map[string]any{{"id": 7, "name": "Capítulo CDMX", "club": 1, "location": "CDMX"}},
	})

	t.Run("list", func(t *testing.T) {
		_, body := get(t, client, site.URL+"/clubs")
		assert.Contains(t, body, "Ruta 66 MC")
	})

	t.Run("detail renders markdown and resolves the logo", func(t *testing.T) {
		_, body := get(t, client, site.URL+"/clubs/1")
		assert.Contains(t, body, "<strong>Desde 2010.</strong>")
		assert.Contains(t, body, backend.URL()+"/media/logos/ruta66.png")
		assert.Contains(t, body, "Capítulo CDMX")
	})

	t.Run("unknown club is a 404", func(t *testing.T) {
		resp, _ := get(t, client, site.URL+"/clubs/99")
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestMapData(t *testing.T) {
	backend, site, client := newSite(t)

	backend.HandleJSON(http.MethodGet, "/api/chapters/", http.StatusOK, map[string]any{
		"count": 2,
		"results": []map[string]any{
			{"id": 7, "name": "Capítulo CDMX", "club": 1, "latitude": 19.4326, "longitude": -99.1332},
			{"id": 8, "name": "Sin coordenadas", "club": 1},
		},
	})

	resp, body := get(t, client, site.URL+"/map/data.json")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
	assert.Contains(t, body, `"Capítulo CDMX"`)
	assert.NotContains(t, body, "Sin coordenadas", "chapters without coordinates are filtered out")
	assert.Contains(t, body, `"zoom":10`)
}
