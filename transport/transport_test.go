package transport_test

import (
	"bytes"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jrsteele09/go-okta-login/internal/logging"
	"github.com/jrsteele09/go-okta-login/transport"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func redirectServer(t *testing.T, followed *int32) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/authorize", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Location", "/landing?code=authcode1&state=xyz")
		w.Header().Set("X-Custom", "kept")
		w.WriteHeader(http.StatusFound)
	})
	mux.HandleFunc("/landing", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(followed, 1)
		w.WriteHeader(http.StatusOK)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestNewClient_InterceptsByDefault(t *testing.T) {
	var followed int32
	srv := redirectServer(t, &followed)

	resp, err := transport.NewClient().Get(srv.URL + "/authorize")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusFound, resp.StatusCode)
	require.Equal(t, "/landing?code=authcode1&state=xyz", resp.Header.Get("Location"))
	require.Equal(t, "kept", resp.Header.Get("X-Custom"))
	require.Zero(t, atomic.LoadInt32(&followed))
}

func TestNewClient_FollowPolicy(t *testing.T) {
	var followed int32
	srv := redirectServer(t, &followed)

	c := transport.NewClient(transport.WithRedirectPolicy(transport.FollowRedirects))
	resp, err := c.Get(srv.URL + "/authorize")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.EqualValues(t, 1, atomic.LoadInt32(&followed))
}

func TestNewClient_NoCookieJar(t *testing.T) {
	require.Nil(t, transport.NewClient().Jar)
}

func TestIntercepting_LeavesOriginalAlone(t *testing.T) {
	var followed int32
	srv := redirectServer(t, &followed)

	original := &http.Client{}
	c := transport.Intercepting(original)
	require.Nil(t, original.CheckRedirect)

	resp, err := c.Get(srv.URL + "/authorize")
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusFound, resp.StatusCode)
	require.Zero(t, atomic.LoadInt32(&followed))

	require.NotNil(t, transport.Intercepting(nil).CheckRedirect)
}

func TestRedirectPolicy_String(t *testing.T) {
	require.Equal(t, "intercept", transport.InterceptRedirects.String())
	require.Equal(t, "follow", transport.FollowRedirects.String())
	require.Equal(t, "unknown", transport.RedirectPolicy(9).String())
}

func TestLoggingRoundTripper_Redacts(t *testing.T) {
	var buf bytes.Buffer
	logging.ConfigureWriter(&buf, "debug", "PROD")
	t.Cleanup(func() { zerolog.SetGlobalLevel(zerolog.InfoLevel) })

	var followed int32
	srv := redirectServer(t, &followed)

	c := transport.NewClient(transport.WithLogging("client_id"))
	resp, err := c.Get(srv.URL + "/authorize?sessionToken=tok1&client_id=abc&scope=openid")
	require.NoError(t, err)
	resp.Body.Close()

	out := buf.String()
	require.Contains(t, out, `"status":302`)
	require.Contains(t, out, "scope=openid")
	require.NotContains(t, out, "tok1")
	require.NotContains(t, out, "abc")
	require.NotContains(t, out, "authcode1")
	require.NotContains(t, out, "xyz")
}

func TestLoggingRoundTripper_RedactURL(t *testing.T) {
	l := transport.NewLoggingRoundTripper(http.DefaultTransport)
	u, err := url.Parse("https://user:pw@example.com/cb?code=abc&keep=1")
	require.NoError(t, err)

	got := l.RedactURL(u)
	require.Equal(t, "https://example.com/cb?code=REDACTED&keep=1", got)
	require.Equal(t, "", l.RedactURL(nil))
}

func TestWithoutCookies(t *testing.T) {
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	c := &http.Client{Jar: jar, Timeout: time.Second}

	cp := transport.WithoutCookies(c)
	require.Nil(t, cp.Jar)
	require.Equal(t, time.Second, cp.Timeout)
	require.Same(t, jar, c.Jar)

	require.NotNil(t, transport.WithoutCookies(nil))
}
