// Package mockidp is an in-process stand-in for an Okta org: primary
// authentication, the authorization endpoint of the default authorization
// server, the token endpoint with PKCE enforcement, and the OpenID discovery
// and key documents needed to verify the ID tokens it signs.
package mockidp

import (
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/jrsteele09/go-okta-login/oauthmodel"
	"github.com/jrsteele09/go-okta-login/token/keys"
	"github.com/rs/zerolog/log"
)

const (
	defaultTokenLifetime = time.Hour
	sessionTokenLifetime = 5 * time.Minute
	codeLifetime         = time.Minute
)

// User is an account that can sign in with Password.
type User struct {
	Username string
	Password string
	Subject  string
	Email    string
	Name     string
}

// Client is a registered public client.
type Client struct {
	ID           string
	RedirectURIs []string
}

func (c Client) allowsRedirect(uri string) bool {
	for _, r := range c.RedirectURIs {
		if r == uri {
			return true
		}
	}
	return false
}

// Options configures a Server.
type Options struct {
	Users   []User
	Clients []Client

	// Signer signs ID and access tokens. A fresh RSA key is generated when nil.
	Signer *keys.KeyPairSigner

	// TokenLifetime is the validity of issued tokens, one hour by default.
	TokenLifetime time.Duration

	// NowTime defaults to time.Now.
	NowTime func() time.Time
}

type sessionGrant struct {
	username  string
	expiresAt time.Time
}

type codeGrant struct {
	username      string
	clientID      string
	redirectURI   string
	scope         string
	codeChallenge string
	expiresAt     time.Time
}

// Server is an http.Handler serving the Okta endpoints used by the login flow.
// Session tokens and authorization codes are single use.
type Server struct {
	users    map[string]User
	clients  map[string]Client
	signer   *keys.KeyPairSigner
	lifetime time.Duration
	nowTime  func() time.Time
	router   *chi.Mux

	mu       sync.Mutex
	sessions map[string]sessionGrant
	codes    map[string]codeGrant
}

// New builds a Server from opts.
func New(opts Options) (*Server, error) {
	s := &Server{
		users:    make(map[string]User, len(opts.Users)),
		clients:  make(map[string]Client, len(opts.Clients)),
		signer:   opts.Signer,
		lifetime: opts.TokenLifetime,
		nowTime:  opts.NowTime,
		router:   chi.NewRouter(),
		sessions: map[string]sessionGrant{},
		codes:    map[string]codeGrant{},
	}
	for _, u := range opts.Users {
		s.users[u.Username] = u
	}
	for _, c := range opts.Clients {
		s.clients[c.ID] = c
	}
	if s.lifetime <= 0 {
		s.lifetime = defaultTokenLifetime
	}
	if s.nowTime == nil {
		s.nowTime = time.Now
	}
	if s.signer == nil {
		kp, err := keys.GenerateRSAKeyPair(uuid.NewString(), keys.MinRSABits)
		if err != nil {
			return nil, err
		}
		s.signer = keys.NewKeyPairSigner(kp)
	}

	s.initRoutes()
	return s, nil
}

func (s *Server) initRoutes() {
	s.router.Use(middleware.Recoverer)
	s.router.Use(requestLogger)

	s.router.Post(oauthmodel.AuthnPath, s.Authn())
	s.router.Route(oauthmodel.IssuerPath, func(r chi.Router) {
		r.Get("/.well-known/openid-configuration", s.WellKnownOpenIDConfig())
		r.Get("/v1/keys", s.JWKS())
		r.Get("/v1/authorize", s.Authorize())
		r.Post("/v1/token", s.Token())
	})
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Signer returns the key pair tokens are signed with.
func (s *Server) Signer() *keys.KeyPairSigner {
	return s.signer
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		log.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("elapsed", time.Since(start)).
			Msg("mockidp request")
	})
}

func (s *Server) issueSessionToken(username string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	tok := uuid.NewString()
	s.sessions[tok] = sessionGrant{username: username, expiresAt: s.nowTime().Add(sessionTokenLifetime)}
	return tok
}

func (s *Server) redeemSessionToken(tok string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.sessions[tok]
	delete(s.sessions, tok)
	if !ok || s.nowTime().After(g.expiresAt) {
		return "", false
	}
	return g.username, true
}

func (s *Server) issueCode(g codeGrant) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	code := uuid.NewString()
	g.expiresAt = s.nowTime().Add(codeLifetime)
	s.codes[code] = g
	return code
}

func (s *Server) redeemCode(code string) (codeGrant, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.codes[code]
	delete(s.codes, code)
	if !ok || s.nowTime().After(g.expiresAt) {
		return codeGrant{}, false
	}
	return g, true
}
