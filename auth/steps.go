package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/jrsteele09/go-okta-login/codec"
	"github.com/jrsteele09/go-okta-login/internal/utils"
	"github.com/jrsteele09/go-okta-login/oauthmodel"
	"github.com/jrsteele09/go-okta-login/pkce"
	"github.com/jrsteele09/go-okta-login/transport"
)

const (
	contentTypeJSON = "application/json"
	contentTypeForm = "application/x-www-form-urlencoded"

	stateLength     = 64
	maxResponseBody = 1 << 20
)

// response is an HTTP response read in full and closed.
type response struct {
	status int
	header http.Header
	body   []byte
}

func do(client transport.Doer, req *http.Request) (*response, error) {
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}
	return &response{status: resp.StatusCode, header: resp.Header, body: body}, nil
}

// primaryAuthentication posts the credentials to /api/v1/authn and returns the session token.
func (s *Session) primaryAuthentication(ctx context.Context, creds Credentials) (string, *Error) {
	const stage = StageReady

	payload, err := json.Marshal(oauthmodel.NewAuthnRequest(creds.Username, creds.Password))
	if err != nil {
		return "", transportError(stage, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoints.Authn(), bytes.NewReader(payload))
	if err != nil {
		return "", transportError(stage, err)
	}
	req.Header.Set("Accept", contentTypeJSON)
	req.Header.Set("Content-Type", contentTypeJSON)

	resp, err := do(s.client, req)
	if err != nil {
		return "", transportError(stage, err)
	}
	if resp.status != http.StatusOK {
		return "", protocolError(stage, resp.status, resp.body, describeErrorBody(resp.body))
	}

	var authn oauthmodel.AuthnResponse
	if perr := decodeObject(resp.body, &authn); perr != nil {
		return "", parseError(stage, resp.status, resp.body, "error parsing server response", perr)
	}
	sessionToken := utils.Value(authn.SessionToken)
	if sessionToken == "" {
		reason := "session token not found"
		if authn.Status != "" && authn.Status != oauthmodel.AuthnStatusSuccess {
			reason = fmt.Sprintf("%s (status %s)", reason, authn.Status)
		}
		return "", parseError(stage, resp.status, nil, reason, nil)
	}
	return sessionToken, nil
}

// authorize redeems the session token at /authorize and captures the code
// from the intercepted 302.
func (s *Session) authorize(ctx context.Context, sessionToken string) (string, *Error) {
	const stage = StageSessionTokenReceived

	sentState := pkce.RandomAlphanumeric(stateLength)
	params := oauthmodel.AuthorizationParameters{
		ClientID:            s.cfg.ClientID,
		ResponseType:        oauthmodel.CodeResponseType,
		Scope:               oauthmodel.DefaultScope,
		RedirectURI:         s.cfg.RedirectURI,
		State:               sentState,
		CodeChallenge:       s.pkce.Challenge,
		CodeChallengeMethod: oauthmodel.CodeMethodTypeS256,
		SessionToken:        sessionToken,
	}
	if err := params.Validate(); err != nil {
		return "", &Error{Kind: ErrProtocol, Stage: stage, Reason: "invalid authorization parameters", Cause: err}
	}

	target := codec.WithQuery(s.endpoints.URL(oauthmodel.AuthorizePath), params.Query())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.String(), nil)
	if err != nil {
		return "", transportError(stage, err)
	}

	resp, err := do(s.client, req)
	if err != nil {
		return "", transportError(stage, err)
	}
	if resp.status != http.StatusFound {
		return "", protocolError(stage, resp.status, resp.body, describeErrorBody(resp.body))
	}

	location := resp.header.Get("Location")
	if location == "" {
		return "", redirectError(resp.status, "redirect location missing", nil)
	}
	query, err := codec.ParseQuery(location)
	if err != nil {
		return "", redirectError(resp.status, "can't parse redirect location", err)
	}
	code := query.Get("code")
	if code == "" {
		if oauthErr := (oauthmodel.ErrorResponse{
			Error:            query.Get("error"),
			ErrorDescription: query.Get("error_description"),
		}).Describe(); oauthErr != "" {
			return "", redirectError(resp.status, "authorization denied: "+oauthErr, nil)
		}
		return "", redirectError(resp.status, "can't find code in redirect location", nil)
	}
	if s.strictState && query.Get("state") != sentState {
		return "", redirectError(resp.status, "state in redirect does not match request", nil)
	}
	return code, nil
}

// exchange trades the code and PKCE verifier for tokens at /token.
func (s *Session) exchange(ctx context.Context, code string) (*Tokens, *Error) {
	const stage = StageAuthCodeReceived

	form := oauthmodel.TokenRequest{
		GrantType:    oauthmodel.AuthorizationCodeGrant,
		ClientID:     s.cfg.ClientID,
		RedirectURI:  s.cfg.RedirectURI,
		Code:         code,
		CodeVerifier: s.pkce.Verifier,
	}.Form()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoints.Token(), strings.NewReader(codec.EncodeForm(form)))
	if err != nil {
		return nil, transportError(stage, err)
	}
	req.Header.Set("Accept", contentTypeJSON)
	req.Header.Set("Cache-Control", "no-cache")
	req.Header.Set("Content-Type", contentTypeForm)

	resp, err := do(s.tokenClient, req)
	if err != nil {
		return nil, transportError(stage, err)
	}
	if resp.status != http.StatusOK {
		return nil, protocolError(stage, resp.status, resp.body, describeErrorBody(resp.body))
	}

	var tr oauthmodel.TokenResponse
	if perr := decodeObject(resp.body, &tr); perr != nil {
		return nil, parseError(stage, resp.status, resp.body, "error parsing server response", perr)
	}
	accessToken, idToken := utils.Value(tr.AccessToken), utils.Value(tr.IdToken)
	if accessToken == "" || idToken == "" {
		return nil, parseError(stage, resp.status, nil, "tokens not found", nil)
	}

	if s.verifier != nil {
		if _, err := s.verifier.Verify(ctx, idToken); err != nil {
			return nil, &Error{Kind: ErrVerification, Stage: stage, Status: resp.status, Reason: "id token rejected", Cause: err}
		}
	}

	return &Tokens{
		AccessToken:  accessToken,
		IDToken:      idToken,
		TokenType:    tr.TokenType,
		RefreshToken: utils.Value(tr.RefreshToken),
		Scope:        tr.Scope,
		ExpiresIn:    tr.ExpiresIn,
		ObtainedAt:   s.nowTime(),
	}, nil
}

// decodeObject unmarshals a JSON object into v. A field of the wrong type is
// left unset, like a missing one; anything that is not an object is an error.
func decodeObject(body []byte, v any) error {
	err := json.Unmarshal(body, v)
	if err == nil {
		return nil
	}
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		return nil
	}
	return err
}

// describeErrorBody extracts the error summary of an OAuth or Okta error body, if any.
func describeErrorBody(body []byte) string {
	var e oauthmodel.ErrorResponse
	if err := json.Unmarshal(body, &e); err != nil {
		return ""
	}
	return e.Describe()
}
