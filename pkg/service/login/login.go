// Package login drives a single login attempt: validate the form, sign in
// with the identity provider, relay the token to the backend and navigate
// or report the failure.
package login

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/casevault/casevault/pkg/domain/auth"
	"github.com/casevault/casevault/pkg/provider/identity"
	"github.com/casevault/casevault/pkg/relay"
	"github.com/google/uuid"
)

// Outcome is the discriminated result of Submit. Err is nil on success and
// otherwise one of *auth.ValidationError, *auth.AuthError, *auth.RelayError
// or auth.ErrSubmitInFlight.
type Outcome struct {
	AttemptID uuid.UUID
	State     State
	Email     string
	Relay     relay.Result
	Err       error
}

func (o Outcome) Success() bool {
	return o.Err == nil && o.State == StateNavigated
}

type Service struct {
	authn     identity.Authenticator
	relayer   relay.Relayer
	notifier  Notifier
	navigator Navigator
	logger    *slog.Logger

	inFlight atomic.Bool
	mu       sync.Mutex
	state    State
}

func New(
	authn identity.Authenticator,
	relayer relay.Relayer,
	notifier Notifier,
	navigator Navigator,
	logger *slog.Logger,
) *Service {
	return &Service{
		authn:     authn,
		relayer:   relayer,
		notifier:  notifier,
		navigator: navigator,
		logger:    logger,
	}
}

// State returns the state of the current or most recent attempt.
func (s *Service) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Service) setState(log *slog.Logger, st State) {
	s.mu.Lock()
	prev := s.state
	s.state = st
	s.mu.Unlock()
	log.Debug("Login state changed", "from", prev, "to", st)
}

// Validate checks the shape of the credentials. It never calls out.
func (s *Service) Validate(c auth.Credentials) error {
	return c.Validate()
}

// Authenticate signs in with the identity provider. Any provider failure,
// including a session without a token, is returned as *auth.AuthError.
func (s *Service) Authenticate(
	ctx context.Context,
	c auth.Credentials,
) (*auth.Session, error) {
	sess, err := s.authn.AuthenticateWithPassword(ctx, c.Email, c.Password)
	if err != nil {
		return nil, &auth.AuthError{Message: err.Error(), Err: err}
	}
	if sess == nil || sess.Token.Empty() {
		return nil, &auth.AuthError{Message: "identity provider returned no token"}
	}
	return sess, nil
}

// Submit runs one attempt. A call made while another is still running
// returns ErrSubmitInFlight without touching the provider or the backend.
func (s *Service) Submit(ctx context.Context, c auth.Credentials) Outcome {
	out := Outcome{AttemptID: uuid.New(), Email: c.Email}
	log := s.logger.With("context", "Submit", "attempt", out.AttemptID)

	if !s.inFlight.CompareAndSwap(false, true) {
		log.Warn("Login submitted while another attempt is running")
		out.State = s.State()
		out.Err = auth.ErrSubmitInFlight
		return out
	}
	defer s.inFlight.Store(false)

	s.setState(log, StateIdle)

	s.setState(log, StateValidating)
	if err := s.Validate(c); err != nil {
		var verr *auth.ValidationError
		msg := err.Error()
		if errors.As(err, &verr) {
			msg = verr.Message
		}
		log.Info("Login form rejected", "error", err)
		s.notifier.Notify(Notice{Kind: NoticeError, Title: TitleValidation, Message: msg})
		return s.finish(log, out, StateFormError, err)
	}

	s.setState(log, StateAuthenticating)
	sess, err := s.Authenticate(ctx, c)
	if err != nil {
		log.Warn("Identity provider rejected login", "email", c.Email, "error", err)
		s.notifier.Notify(Notice{Kind: NoticeError, Title: TitleLoginError, Message: err.Error()})
		return s.finish(log, out, StateFormError, err)
	}
	if sess.Email != "" {
		out.Email = sess.Email
	}
	s.notifier.Notify(Notice{Kind: NoticeSuccess, Title: TitleLoginOK, Message: "Welcome " + out.Email})

	s.setState(log, StateRelaying)
	// The token goes out of scope here; Outcome never carries it.
	out.Relay = s.relayer.Relay(ctx, sess.Token)
	if err := out.Relay.Err(); err != nil {
		log.Error("Backend did not confirm login", "error", err)
		s.notifier.Notify(Notice{Kind: NoticeError, Title: TitleBackend, Message: MsgBackend})
		return s.finish(log, out, StateBackendError, err)
	}

	s.navigator.Navigate(RouteLanding)
	log.Info("Login completed", "email", out.Email)
	return s.finish(log, out, StateNavigated, nil)
}

func (s *Service) finish(log *slog.Logger, out Outcome, st State, err error) Outcome {
	s.setState(log, st)
	out.State = st
	out.Err = err
	return out
}

// SignUp follows the "create account" link.
func (s *Service) SignUp() {
	s.navigator.Navigate(RouteSignup)
}

func (s *Service) ForgotPassword() {
	s.notifier.Notify(Notice{Kind: NoticeInfo, Title: TitleComingSoon})
}
