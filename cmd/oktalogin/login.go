package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/jrsteele09/go-okta-login/auth"
	"github.com/jrsteele09/go-okta-login/internal/config"
	"github.com/jrsteele09/go-okta-login/oauthmodel"
	"github.com/jrsteele09/go-okta-login/token"
	"github.com/jrsteele09/go-okta-login/transport"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var errPasswordRequired = errors.New("password required: pass --password, set OKTA_PASSWORD or run in a terminal")

type loginOutput struct {
	AccessToken  string          `json:"access_token"`
	IDToken      string          `json:"id_token"`
	TokenType    string          `json:"token_type,omitempty"`
	RefreshToken string          `json:"refresh_token,omitempty"`
	Scope        string          `json:"scope,omitempty"`
	Expiry       *time.Time      `json:"expiry,omitempty"`
	Claims       *token.IDClaims `json:"claims,omitempty"`
}

func newLoginCmd(c config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and print the issued tokens as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			baseURL, _ := cmd.Flags().GetString("base-url")
			clientID, _ := cmd.Flags().GetString("client-id")
			redirectURI, _ := cmd.Flags().GetString("redirect-uri")
			username, _ := cmd.Flags().GetString("username")
			password, _ := cmd.Flags().GetString("password")
			verifyIDToken, _ := cmd.Flags().GetBool("verify-id-token")
			stateCheck, _ := cmd.Flags().GetBool("state-check")
			timeout, _ := cmd.Flags().GetDuration("timeout")
			logHTTP, _ := cmd.Flags().GetBool("log-http")
			quiet, _ := cmd.Flags().GetBool("quiet")

			if !quiet {
				displayAppname(c.GetAppName())
			}
			if username == "" {
				return errors.New("username required: pass --username or set OKTA_USERNAME")
			}
			if password == "" {
				var err error
				if password, err = promptPassword(username); err != nil {
					return err
				}
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			clientOpts := []transport.Option{transport.WithTimeout(timeout)}
			if logHTTP {
				clientOpts = append(clientOpts, transport.WithLogging())
			}
			cfg := auth.Config{BaseURL: baseURL, ClientID: clientID, RedirectURI: redirectURI}
			opts := []auth.SessionOption{auth.WithHTTPClient(transport.NewClient(clientOpts...))}
			if stateCheck {
				opts = append(opts, auth.WithStateCheck())
			}
			if verifyIDToken {
				endpoints, err := oauthmodel.NewEndpoints(baseURL)
				if err != nil {
					return err
				}
				discovery := transport.NewClient(append(clientOpts, transport.WithRedirectPolicy(transport.FollowRedirects))...)
				verifier, err := token.NewVerifier(ctx, endpoints.Issuer(), clientID, discovery)
				if err != nil {
					return err
				}
				opts = append(opts, auth.WithIDTokenVerifier(verifier))
			}

			session, err := auth.NewSession(cfg, auth.Credentials{Username: username, Password: password}, opts...)
			if err != nil {
				return err
			}
			res := session.LoginAndWait(ctx)
			if res.Err != nil {
				return res.Err
			}
			return writeLoginOutput(cmd, res.Tokens)
		},
	}

	f := cmd.Flags()
	f.String("base-url", c.GetBaseURL(), "Okta org URL, e.g. https://example.oktapreview.com (OKTA_BASE_URL)")
	f.String("client-id", c.GetClientID(), "OAuth client ID (OKTA_CLIENT_ID)")
	f.String("redirect-uri", c.GetRedirectURI(), "Redirect URI registered for the client (OKTA_REDIRECT_URI)")
	f.String("username", c.GetUsername(), "Username (OKTA_USERNAME)")
	f.String("password", c.GetPassword(), "Password (OKTA_PASSWORD); prompted for when empty")
	f.Bool("verify-id-token", c.GetVerifyIDToken(), "Verify the ID token against the authorization server's keys (VERIFY_ID_TOKEN)")
	f.Bool("state-check", false, "Reject an authorization redirect whose state differs from the one sent")
	f.Duration("timeout", c.GetHTTPTimeout(), "Per request timeout (HTTP_TIMEOUT)")
	f.Bool("log-http", c.GetLogHTTP(), "Log each request and response at debug level, secrets redacted (LOG_HTTP)")
	f.BoolP("quiet", "q", false, "Do not print the banner")
	return cmd
}

func promptPassword(username string) (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", errPasswordRequired
	}
	fmt.Fprintf(os.Stderr, "Password for %s: ", username)
	b, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	password := strings.TrimSpace(string(b))
	if password == "" {
		return "", errPasswordRequired
	}
	return password, nil
}

func writeLoginOutput(cmd *cobra.Command, tokens *auth.Tokens) error {
	out := loginOutput{
		AccessToken:  tokens.AccessToken,
		IDToken:      tokens.IDToken,
		TokenType:    tokens.TokenType,
		RefreshToken: tokens.RefreshToken,
		Scope:        tokens.Scope,
	}
	if expiry := tokens.OAuth2Token().Expiry; !expiry.IsZero() {
		out.Expiry = &expiry
	}
	claims, err := token.ParseClaims(tokens.IDToken)
	if err != nil {
		log.Warn().Err(err).Msg("ID token claims could not be decoded")
	} else {
		out.Claims = claims
		if claims.Expired(time.Now()) {
			log.Warn().Time("exp", claims.ExpiresAt).Msg("ID token is already expired")
		}
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
