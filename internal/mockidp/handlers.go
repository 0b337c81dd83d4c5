package mockidp

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jrsteele09/go-okta-login/internal/utils"
	"github.com/jrsteele09/go-okta-login/oauthmodel"
	"github.com/jrsteele09/go-okta-login/pkce"
	"github.com/jrsteele09/go-okta-login/token/keys"
	"github.com/rs/zerolog/log"
)

const contentTypeJSON = "application/json; charset=utf-8"

// Authn checks a username and password and answers with a session token.
func (s *Server) Authn() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req oauthmodel.AuthnRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeOktaError(w, http.StatusBadRequest, "E0000003", "The request body was not well-formed.")
			return
		}

		user, ok := s.users[req.Username]
		if !ok || user.Password != req.Password {
			log.Info().Str("user", req.Username).Msg("mockidp: authentication failed")
			writeOktaError(w, http.StatusUnauthorized, "E0000004", "Authentication failed")
			return
		}

		sessionToken := s.issueSessionToken(user.Username)
		log.Debug().Str("user", user.Username).Str("session_token", utils.Redact(sessionToken, 4)).Msg("mockidp: session token issued")
		writeJSON(w, http.StatusOK, map[string]any{
			"status":       oauthmodel.AuthnStatusSuccess,
			"sessionToken": sessionToken,
			"expiresAt":    s.nowTime().Add(sessionTokenLifetime).UTC().Format("2006-01-02T15:04:05.000Z"),
			"relayState":   req.RelayState,
		})
	}
}

// Authorize redeems a session token for an authorization code, delivered by
// redirecting to the client's redirect URI. Unknown clients and unregistered
// redirect URIs get an error page instead of a redirect.
func (s *Server) Authorize() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		client, ok := s.clients[q.Get("client_id")]
		if !ok {
			writeOAuthError(w, http.StatusBadRequest, "invalid_client", "unknown client")
			return
		}
		redirectURI := q.Get("redirect_uri")
		if !client.allowsRedirect(redirectURI) {
			writeOAuthError(w, http.StatusBadRequest, "invalid_request", "redirect_uri is not registered for the client")
			return
		}
		state := q.Get("state")

		switch {
		case q.Get("response_type") != string(oauthmodel.CodeResponseType):
			redirectError(w, r, redirectURI, state, "unsupported_response_type", "response_type must be code")
			return
		case q.Get("code_challenge_method") != string(oauthmodel.CodeMethodTypeS256) || q.Get("code_challenge") == "":
			redirectError(w, r, redirectURI, state, "invalid_request", "PKCE code_challenge with method S256 is required")
			return
		}

		username, ok := s.redeemSessionToken(q.Get("sessionToken"))
		if !ok {
			redirectError(w, r, redirectURI, state, "login_required", "The session token is invalid or expired")
			return
		}

		code := s.issueCode(codeGrant{
			username:      username,
			clientID:      client.ID,
			redirectURI:   redirectURI,
			scope:         q.Get("scope"),
			codeChallenge: q.Get("code_challenge"),
		})
		params := url.Values{"code": {code}}
		if state != "" {
			params.Set("state", state)
		}
		redirect(w, r, redirectURI, params)
	}
}

// Token exchanges an authorization code and its PKCE verifier for tokens.
func (s *Server) Token() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			writeOAuthError(w, http.StatusBadRequest, "invalid_request", "Failed to parse form data")
			return
		}
		if r.PostForm.Get("grant_type") != string(oauthmodel.AuthorizationCodeGrant) {
			writeOAuthError(w, http.StatusBadRequest, "unsupported_grant_type", "grant_type must be authorization_code")
			return
		}

		grant, ok := s.redeemCode(r.PostForm.Get("code"))
		if !ok {
			writeOAuthError(w, http.StatusBadRequest, "invalid_grant", "The authorization code is invalid or has expired.")
			return
		}
		if grant.clientID != r.PostForm.Get("client_id") || grant.redirectURI != r.PostForm.Get("redirect_uri") {
			writeOAuthError(w, http.StatusBadRequest, "invalid_grant", "client_id or redirect_uri does not match the authorization request")
			return
		}
		if !pkce.Verify(r.PostForm.Get("code_verifier"), grant.codeChallenge) {
			writeOAuthError(w, http.StatusBadRequest, "invalid_grant", "PKCE verification failed")
			return
		}

		resp, err := s.tokenResponse(issuerURL(r), grant)
		if err != nil {
			log.Err(err).Msg("mockidp: failed to sign tokens")
			writeOAuthError(w, http.StatusInternalServerError, "server_error", "failed to sign tokens")
			return
		}

		w.Header().Set("Cache-Control", "no-store")
		w.Header().Set("Pragma", "no-cache")
		writeJSON(w, http.StatusOK, resp)
	}
}

// WellKnownOpenIDConfig serves the discovery document of the default authorization server.
func (s *Server) WellKnownOpenIDConfig() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		issuer := issuerURL(r)
		writeJSON(w, http.StatusOK, map[string]any{
			"issuer":                                issuer,
			"authorization_endpoint":                issuer + "/v1/authorize",
			"token_endpoint":                        issuer + "/v1/token",
			"jwks_uri":                              issuer + "/v1/keys",
			"response_types_supported":              []string{"code"},
			"subject_types_supported":               []string{"public"},
			"id_token_signing_alg_values_supported": []string{keys.RS256},
			"scopes_supported":                      []string{oauthmodel.ScopeOpenID, oauthmodel.ScopeOfflineAccess, "email", "profile"},
			"token_endpoint_auth_methods_supported": []string{"none"},
			"grant_types_supported":                 []string{string(oauthmodel.AuthorizationCodeGrant)},
			"code_challenge_methods_supported":      []string{string(oauthmodel.CodeMethodTypeS256)},
		})
	}
}

// JWKS returns the keys that verify issued tokens.
func (s *Server) JWKS() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "public, max-age=3600")
		writeJSON(w, http.StatusOK, s.signer.JWKS())
	}
}

func (s *Server) tokenResponse(issuer string, grant codeGrant) (*oauthmodel.TokenResponse, error) {
	user := s.users[grant.username]
	now := s.nowTime()
	exp := now.Add(s.lifetime)

	idToken, err := s.signer.Sign(jwt.MapClaims{
		"iss":                issuer,
		"sub":                user.Subject,
		"aud":                grant.clientID,
		"iat":                now.Unix(),
		"exp":                exp.Unix(),
		"auth_time":          now.Unix(),
		"amr":                []string{"pwd"},
		"email":              user.Email,
		"name":               user.Name,
		"preferred_username": user.Username,
	})
	if err != nil {
		return nil, err
	}
	accessToken, err := s.signer.Sign(jwt.MapClaims{
		"iss": issuer,
		"sub": user.Username,
		"aud": "api://default",
		"cid": grant.clientID,
		"iat": now.Unix(),
		"exp": exp.Unix(),
		"jti": uuid.NewString(),
		"scp": strings.Fields(grant.scope),
	})
	if err != nil {
		return nil, err
	}

	resp := &oauthmodel.TokenResponse{
		AccessToken: utils.Ptr(accessToken),
		IdToken:     utils.Ptr(idToken),
		TokenType:   "Bearer",
		ExpiresIn:   int(s.lifetime.Seconds()),
		Scope:       grant.scope,
	}
	for _, scope := range strings.Fields(grant.scope) {
		if scope == oauthmodel.ScopeOfflineAccess {
			resp.RefreshToken = utils.Ptr(uuid.NewString())
		}
	}
	return resp, nil
}

// issuerURL derives the issuer from the request so the server works on any
// listen address.
func issuerURL(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	return scheme + "://" + r.Host + oauthmodel.IssuerPath
}

func redirect(w http.ResponseWriter, r *http.Request, redirectURI string, params url.Values) {
	u, err := url.Parse(redirectURI)
	if err != nil {
		writeOAuthError(w, http.StatusBadRequest, "invalid_request", "invalid redirect_uri")
		return
	}
	q := u.Query()
	for k, v := range params {
		q[k] = v
	}
	u.RawQuery = q.Encode()
	http.Redirect(w, r, u.String(), http.StatusFound)
}

func redirectError(w http.ResponseWriter, r *http.Request, redirectURI, state, code, description string) {
	params := url.Values{"error": {code}, "error_description": {description}}
	if state != "" {
		params.Set("state", state)
	}
	redirect(w, r, redirectURI, params)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", contentTypeJSON)
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeOAuthError(w http.ResponseWriter, status int, code, description string) {
	writeJSON(w, status, oauthmodel.ErrorResponse{Error: code, ErrorDescription: description})
}

func writeOktaError(w http.ResponseWriter, status int, code, summary string) {
	writeJSON(w, status, oauthmodel.ErrorResponse{
		ErrorCode:    code,
		ErrorSummary: summary,
	})
}
