// Package auth runs the Okta primary authentication + authorization code + PKCE
// login flow as a small state machine.
package auth

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jrsteele09/go-okta-login/oauthmodel"
	"github.com/jrsteele09/go-okta-login/pkce"
	"github.com/jrsteele09/go-okta-login/token"
	"github.com/jrsteele09/go-okta-login/transport"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const defaultHTTPTimeout = 30 * time.Second

// Config identifies the authorization server and the client application.
type Config struct {
	// BaseURL is the org URL, e.g. "https://example.oktapreview.com".
	BaseURL string
	// ClientID is the public client's identifier.
	ClientID string
	// RedirectURI is registered for the client; it is never fetched.
	RedirectURI string
}

// Credentials are held until primary authentication completes, then dropped.
type Credentials struct {
	Username string
	Password string
}

// Session performs one login attempt. Create a new Session to retry.
//
// A Session issues at most one request at a time and never moves backwards
// through its stages. Login may be called once; the callback is invoked exactly
// once with the terminal result. There is no cancellation beyond the context
// passed to Login, whose cancellation surfaces as a transport error.
type Session struct {
	cfg         Config
	endpoints   oauthmodel.Endpoints
	client      transport.Doer
	tokenClient transport.Doer
	verifier    token.Verifier
	strictState bool
	executor    Executor
	logger      zerolog.Logger
	nowTime     func() time.Time
	pkce        pkce.Pair
	flowID      string

	mu       sync.Mutex
	current  state
	creds    *Credentials
	callback Callback
	started  bool
	done     chan struct{}
}

// NewSession validates cfg and returns a Session in the Ready stage with a
// freshly generated PKCE pair.
func NewSession(cfg Config, creds Credentials, options ...SessionOption) (*Session, error) {
	endpoints, err := validateConfig(cfg)
	if err != nil {
		return nil, err
	}

	s := &Session{
		cfg:       cfg,
		endpoints: endpoints,
		executor:  InlineExecutor,
		logger:    log.Logger,
		nowTime:   time.Now,
		pkce:      pkce.Generate(),
		flowID:    uuid.NewString(),
		current:   state{stage: StageReady},
		creds:     &Credentials{Username: creds.Username, Password: creds.Password},
		done:      make(chan struct{}),
	}
	for _, opt := range options {
		opt(s)
	}
	if s.client == nil {
		s.client = transport.NewClient(transport.WithTimeout(defaultHTTPTimeout))
		s.tokenClient = s.client
	}
	s.logger = s.logger.With().Str("flow_id", s.flowID).Logger()
	return s, nil
}

func validateConfig(cfg Config) (oauthmodel.Endpoints, error) {
	if strings.TrimSpace(cfg.ClientID) == "" {
		return oauthmodel.Endpoints{}, fmt.Errorf("[auth.NewSession] %w: %w", ErrInvalidConfig, oauthmodel.ErrMissingClientID)
	}
	if strings.TrimSpace(cfg.RedirectURI) == "" {
		return oauthmodel.Endpoints{}, fmt.Errorf("[auth.NewSession] %w: %w", ErrInvalidConfig, oauthmodel.ErrMissingRedirectURI)
	}
	endpoints, err := oauthmodel.NewEndpoints(cfg.BaseURL)
	if err != nil {
		return oauthmodel.Endpoints{}, fmt.Errorf("[auth.NewSession] %w: %w", ErrInvalidConfig, err)
	}
	return endpoints, nil
}

// Login starts the flow in the background and returns true. It returns false,
// doing nothing, when the session already left Ready or Login was called before.
func (s *Session) Login(ctx context.Context, callback Callback) bool {
	if callback == nil {
		return false
	}
	if ctx == nil {
		ctx = context.Background()
	}

	s.mu.Lock()
	if s.started || s.current.stage != StageReady {
		s.mu.Unlock()
		s.logger.Debug().Str("stage", s.Stage().String()).Msg("login ignored, session already used")
		return false
	}
	s.started = true
	s.callback = callback
	s.mu.Unlock()

	go s.run(ctx)
	return true
}

// LoginAndWait runs Login and blocks until the result is delivered. The
// session's executor must run callbacks without help from the caller.
func (s *Session) LoginAndWait(ctx context.Context) Result {
	results := make(chan Result, 1)
	if !s.Login(ctx, func(r Result) { results <- r }) {
		return Result{Err: ErrAlreadyStarted}
	}
	return <-results
}

// Stage returns the current stage.
func (s *Session) Stage() Stage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current.stage
}

// Done is closed once the terminal result has been handed to the executor.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// FlowID identifies this attempt in logs.
func (s *Session) FlowID() string {
	return s.flowID
}

// run is the driver loop: enter the current stage, advance to the stage its
// entry action produced, repeat until terminal, then deliver.
func (s *Session) run(ctx context.Context) {
	for {
		cur := s.snapshot()
		if cur.stage.Terminal() {
			s.deliver(cur)
			return
		}
		s.advance(cur.stage, s.enter(ctx, cur))
	}
}

// enter performs the single request belonging to cur's stage.
func (s *Session) enter(ctx context.Context, cur state) state {
	switch cur.stage {
	case StageReady:
		creds := s.takeCredentials()
		s.logger.Info().Str("user", creds.Username).Msg("performing primary authentication")
		sessionToken, err := s.primaryAuthentication(ctx, creds)
		if err != nil {
			return failed(err)
		}
		return state{stage: StageSessionTokenReceived, sessionToken: sessionToken}

	case StageSessionTokenReceived:
		s.logger.Info().Msg("session token received, requesting authorization code")
		code, err := s.authorize(ctx, cur.sessionToken)
		if err != nil {
			return failed(err)
		}
		return state{stage: StageAuthCodeReceived, code: code}

	case StageAuthCodeReceived:
		s.logger.Info().Msg("authorization code received, exchanging for tokens")
		tokens, err := s.exchange(ctx, cur.code)
		if err != nil {
			return failed(err)
		}
		return state{stage: StageLoggedIn, tokens: tokens}
	}
	return failed(&Error{Kind: ErrProtocol, Stage: cur.stage, Reason: "no entry action for stage " + cur.stage.String()})
}

// advance commits next if the transition table allows it. Anything else is a
// bug and fails the flow rather than loop.
func (s *Session) advance(from Stage, next state) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current.stage != from || !canTransition(from, next.stage) {
		s.logger.Error().Str("from", from.String()).Str("to", next.stage.String()).Msg("illegal stage transition")
		next = failed(&Error{Kind: ErrProtocol, Stage: from, Reason: fmt.Sprintf("illegal transition %s -> %s", from, next.stage)})
		if s.current.stage.Terminal() {
			return
		}
	}
	s.current = next

	ev := s.logger.Debug()
	if next.stage == StageFailed {
		ev = s.logger.Warn().Err(next.err)
	}
	ev.Str("from", from.String()).Str("to", next.stage.String()).Msg("stage transition")
}

// deliver hands the result to the callback through the executor, at most once.
func (s *Session) deliver(final state) {
	s.mu.Lock()
	callback := s.callback
	s.callback = nil
	s.mu.Unlock()

	if callback == nil {
		return
	}
	if final.stage == StageLoggedIn {
		s.logger.Info().Msg("logged in")
	} else {
		s.logger.Error().Err(final.err).Msg("login failed")
	}

	res := final.result()
	s.executor(func() { callback(res) })
	close(s.done)
}

func (s *Session) snapshot() state {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

func (s *Session) takeCredentials() Credentials {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.creds == nil {
		return Credentials{}
	}
	c := *s.creds
	s.creds = nil
	return c
}
