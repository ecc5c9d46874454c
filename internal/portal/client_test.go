package portal

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestClient(t *testing.T, srv *httptest.Server, timeout time.Duration) (*Client, string) {
	t.Helper()
	cookieFile := filepath.Join(t.TempDir(), "cookies.json")
	c := NewClient(Options{
		BaseURL:    srv.URL,
		CookieFile: cookieFile,
		Timeout:    timeout,
	}, zap.NewNop())
	return c, cookieFile
}

func TestClientGetSendsHeadersAndPersistsCookies(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/cd/GetDayPlay", r.URL.Path)
		assert.Equal(t, "XMLHttpRequest", r.Header.Get("X-Requested-With"))
		assert.Contains(t, r.Header.Get("Referer"), "/cd/particulars?type=0004")

		if c, err := r.Cookie("ASP.NET_SessionId"); err == nil {
			w.Header().Set("X-Session", c.Value)
		}
		http.SetCookie(w, &http.Cookie{Name: "token", Value: "fresh"})
		w.Write([]byte(`{"Code":1}`))
	}))
	defer srv.Close()

	c, cookieFile := newTestClient(t, srv, time.Second)
	require.NoError(t, os.WriteFile(cookieFile, []byte(`{"ASP.NET_SessionId":"abc"}`), 0o600))

	status, body, err := c.Get(context.Background(), "/cd/GetDayPlay", "/cd/particulars?type=0004")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"Code":1}`, string(body))

	data, err := os.ReadFile(cookieFile)
	require.NoError(t, err)
	var saved map[string]string
	require.NoError(t, json.Unmarshal(data, &saved))
	assert.Equal(t, "abc", saved["ASP.NET_SessionId"])
	assert.Equal(t, "fresh", saved["token"])
}

func TestClientGetSendsStoredCookies(t *testing.T) {
	var got string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if c, err := r.Cookie("ASP.NET_SessionId"); err == nil {
			got = c.Value
		}
	}))
	defer srv.Close()

	c, cookieFile := newTestClient(t, srv, time.Second)
	require.NoError(t, os.WriteFile(cookieFile, []byte(`{"ASP.NET_SessionId":"abc"}`), 0o600))

	_, _, err := c.Get(context.Background(), "CD/Index2", "")
	require.NoError(t, err)
	assert.Equal(t, "abc", got)
}

func TestClientGetTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	c, _ := newTestClient(t, srv, 50*time.Millisecond)

	_, _, err := c.Get(context.Background(), "/slow", "")
	require.Error(t, err)
}

func TestCookieStoreCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cookies.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	store := NewCookieStore(path)
	assert.Empty(t, store.Cookies())

	require.NoError(t, store.Merge([]*http.Cookie{{Name: "a", Value: "1"}}))
	assert.Equal(t, map[string]string{"a": "1"}, store.Cookies())

	require.NoError(t, store.Merge([]*http.Cookie{{Name: "a", MaxAge: -1}}))
	assert.Empty(t, store.Cookies())
}

func TestClientURL(t *testing.T) {
	c := NewClient(Options{BaseURL: "http://portal.local/"}, zap.NewNop())
	assert.Equal(t, "http://portal.local/cd/home", c.URL("/cd/home"))
	assert.Equal(t, "http://portal.local/cd/home", c.URL("cd/home"))
	assert.Equal(t, "https://cdn.local/x.png", c.URL("https://cdn.local/x.png"))
}
