package auth_test

import (
	"context"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/jrsteele09/go-okta-login/auth"
	"github.com/stretchr/testify/require"
)

// cookieServer sets a session cookie during primary authentication and
// records the Cookie header each later step receives.
type cookieServer struct {
	mu      sync.Mutex
	cookies map[string]string
}

func (c *cookieServer) record(r *http.Request) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cookies[r.URL.Path] = r.Header.Get("Cookie")
}

func (c *cookieServer) seen(path string) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cookies[path]
}

func startCookieServer(t *testing.T) (*httptest.Server, *cookieServer) {
	t.Helper()
	cs := &cookieServer{cookies: map[string]string{}}
	mux := http.NewServeMux()
	mux.HandleFunc("POST "+authnPath, func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{Name: "sid", Value: "okta-session", Path: "/"})
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"SUCCESS","sessionToken":"tok1"}`))
	})
	mux.HandleFunc("GET "+authorizePath, func(w http.ResponseWriter, r *http.Request) {
		cs.record(r)
		http.Redirect(w, r, "app://callback?code=authcode1&state=xyz", http.StatusFound)
	})
	mux.HandleFunc("POST "+tokenPath, func(w http.ResponseWriter, r *http.Request) {
		cs.record(r)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"AT1","id_token":"IDT1"}`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, cs
}

func TestLogin_TokenExchangeSendsNoCookies(t *testing.T) {
	srv, cs := startCookieServer(t)
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	client := &http.Client{Jar: jar}

	s, err := auth.NewSession(
		auth.Config{BaseURL: srv.URL, ClientID: testClientID, RedirectURI: testRedirectURI},
		testCredentials(),
		auth.WithHTTPClient(client),
	)
	require.NoError(t, err)

	res := s.LoginAndWait(context.Background())
	require.NoError(t, res.Err)
	require.Equal(t, "AT1", res.Tokens.AccessToken)

	require.Equal(t, "sid=okta-session", cs.seen(authorizePath), "the jar still serves the authorization request")
	require.Empty(t, cs.seen(tokenPath))
	require.Same(t, jar, client.Jar, "the caller's client is left untouched")
}
