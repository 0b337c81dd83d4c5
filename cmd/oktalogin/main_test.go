package main

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/jrsteele09/go-okta-login/internal/config"
	"github.com/jrsteele09/go-okta-login/internal/mockidp"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, vars map[string]string, args ...string) (string, error) {
	t.Helper()
	c, err := config.NewFromMap(vars)
	require.NoError(t, err)
	root := newRootCmd(c)
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err = root.Execute()
	return out.String(), err
}

func TestPKCECommand(t *testing.T) {
	out, err := execute(t, nil, "pkce")
	require.NoError(t, err)
	require.Regexp(t, `code_verifier: +[A-Za-z0-9]{64}\n`, out)
	require.Regexp(t, `code_challenge: +[A-Za-z0-9_-]{43}\n`, out)
	require.Contains(t, out, "code_challenge_method: S256")
}

func TestLoginCommand(t *testing.T) {
	idp, err := mockidp.New(mockidp.DemoOptions())
	require.NoError(t, err)
	srv := httptest.NewServer(idp)
	t.Cleanup(srv.Close)

	env := map[string]string{
		"OKTA_BASE_URL":     srv.URL,
		"OKTA_CLIENT_ID":    mockidp.DemoClientID,
		"OKTA_REDIRECT_URI": mockidp.DemoRedirectURI,
		"OKTA_USERNAME":     mockidp.DemoUsername,
		"OKTA_PASSWORD":     mockidp.DemoPassword,
	}

	t.Run("prints tokens and claims", func(t *testing.T) {
		out, err := execute(t, env, "login", "--quiet", "--verify-id-token", "--state-check")
		require.NoError(t, err)

		var got struct {
			AccessToken  string `json:"access_token"`
			IDToken      string `json:"id_token"`
			RefreshToken string `json:"refresh_token"`
			Claims       struct {
				Subject string `json:"sub"`
				Email   string `json:"email"`
			} `json:"claims"`
		}
		require.NoError(t, json.Unmarshal([]byte(out), &got))
		require.NotEmpty(t, got.AccessToken)
		require.NotEmpty(t, got.IDToken)
		require.NotEmpty(t, got.RefreshToken)
		require.Equal(t, "00u1alice", got.Claims.Subject)
		require.Equal(t, "alice@example.com", got.Claims.Email)
	})

	t.Run("flags override the environment", func(t *testing.T) {
		_, err := execute(t, env, "login", "--quiet", "--password", "wrong")
		require.Error(t, err)
		require.Contains(t, err.Error(), "unexpected status code (401)")
	})

	t.Run("username required", func(t *testing.T) {
		_, err := execute(t, env, "login", "--quiet", "--username", "")
		require.ErrorContains(t, err, "username required")
	})

	t.Run("invalid base url", func(t *testing.T) {
		_, err := execute(t, env, "login", "--quiet", "--base-url", "not a url")
		require.Error(t, err)
	})
}

func TestLoadOrCreateKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "signing.pem")

	created, err := loadOrCreateKey(path, "kid-1")
	require.NoError(t, err)
	info, err := os.Stat(path)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	loaded, err := loadOrCreateKey(path, "kid-1")
	require.NoError(t, err)
	require.Equal(t, "kid-1", loaded.KeyID)
	require.True(t, created.PublicKey.Equal(loaded.PublicKey))
}
