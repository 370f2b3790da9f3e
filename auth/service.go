// Package auth owns the session lifecycle: password login, registration,
// logout, OAuth callback reconciliation and the inactivity watchdog. Every
// operation converts API failures into a session-held error string plus a
// boolean result; errors never escape to page-level consumers.
package auth

import (
	"context"
	"time"

	"github.com/dignahq/go-digna-client/api"
	"github.com/dignahq/go-digna-client/internal/config"
	"github.com/dignahq/go-digna-client/sessions"
	"github.com/dignahq/go-digna-client/storage"
	"github.com/dignahq/go-digna-client/users"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// Deps holds the collaborators of the Service.
type Deps struct {
	API     *api.Client
	Tokens  *storage.TokenStore
	Session *sessions.Store
	Config  config.EnvConfig
}

// Service is the auth orchestrator. It is the only writer of the session
// store and of the token/user records in durable storage.
type Service struct {
	api     *api.Client
	tokens  *storage.TokenStore
	session *sessions.Store
	config  config.EnvConfig
	log     zerolog.Logger
	nowTime func() time.Time
}

type Option func(*Service)

func WithLogger(log zerolog.Logger) Option {
	return func(s *Service) {
		s.log = log
	}
}

// WithNowTime sets the now time function (primarily for testing)
func WithNowTime(nowFunc func() time.Time) Option {
	return func(s *Service) {
		s.nowTime = nowFunc
	}
}

func NewService(deps Deps, options ...Option) (*Service, error) {
	if deps.API == nil {
		return nil, errors.New("[NewService] API client is required")
	}
	if deps.Tokens == nil {
		return nil, errors.New("[NewService] token store is required")
	}
	if deps.Session == nil {
		return nil, errors.New("[NewService] session store is required")
	}
	if deps.Config == nil {
		return nil, errors.New("[NewService] config is required")
	}

	service := &Service{
		api:     deps.API,
		tokens:  deps.Tokens,
		session: deps.Session,
		config:  deps.Config,
		log:     zerolog.Nop(),
		nowTime: time.Now,
	}
	for _, opt := range options {
		opt(service)
	}
	return service, nil
}

// Login authenticates with email and password. On success the session user is
// set and persisted; the token pair was already stored by the API client. On
// failure the session error is set and the prior user is left untouched.
func (s *Service) Login(ctx context.Context, email, password string) bool {
	s.session.SetLoading(true)
	defer s.session.SetLoading(false)
	s.session.ClearError()

	resp, err := s.api.Login(ctx, email, password)
	if err != nil {
		s.session.SetError(messageOr(err.Error(), msgLoginFailed))
		return false
	}
	if !resp.Success {
		s.session.SetError(messageOr(resp.Message, msgLoginFailed))
		return false
	}

	user := &users.User{
		UserID:       resp.Data.UserID,
		Email:        resp.Data.Email,
		FirstName:    resp.Data.FirstName,
		LastName:     resp.Data.LastName,
		ProfileImage: resp.Data.ProfileImage,
	}
	if err := s.tokens.SaveUser(user); err != nil {
		s.log.Error().Err(err).Msg("persisting user after login failed")
		s.session.SetError(msgLoginFailed)
		return false
	}
	s.session.SetUser(user)
	return true
}

// Register creates an account and records the entered email for the
// out-of-band verification step. It never authenticates the session.
func (s *Service) Register(ctx context.Context, name, email, password string) bool {
	s.session.SetLoading(true)
	defer s.session.SetLoading(false)
	s.session.ClearError()

	resp, err := s.api.Register(ctx, name, email, password)
	if err != nil {
		s.session.SetError(messageOr(err.Error(), msgRegistrationFailed))
		return false
	}
	if !resp.Success {
		s.session.SetError(messageOr(resp.Message, msgRegistrationFailed))
		return false
	}
	if err := s.tokens.SavePendingEmail(email); err != nil {
		s.log.Warn().Err(err).Msg("recording pending email failed")
	}
	return true
}

// Logout revokes the session server-side on a best-effort basis, then
// unconditionally clears the session user and durable storage. A failed
// server logout never keeps the local session alive.
func (s *Service) Logout(ctx context.Context) {
	s.session.SetLoading(true)
	defer s.session.SetLoading(false)

	if _, err := s.api.Logout(ctx); err != nil {
		s.log.Warn().Err(err).Msg("server logout failed")
	}
	s.session.SetUser(nil)
	if err := s.tokens.ClearSession(); err != nil {
		s.log.Error().Err(err).Msg("clearing stored session failed")
	}
}

// HandleOAuthCallback installs the first-party token pair and user produced
// by a provider exchange. Calling it twice with the same arguments leaves the
// session unchanged.
func (s *Service) HandleOAuthCallback(accessToken, refreshToken string, user *users.User) error {
	if accessToken == "" || refreshToken == "" {
		return MissingTokenPairErr
	}
	if err := s.tokens.SetTokens(accessToken, refreshToken); err != nil {
		return errors.Wrap(err, "[Service.HandleOAuthCallback] tokens.SetTokens")
	}
	if user != nil {
		if err := s.tokens.SaveUser(user); err != nil {
			return errors.Wrap(err, "[Service.HandleOAuthCallback] tokens.SaveUser")
		}
		s.session.SetUser(user)
	}
	return nil
}

// Restore hydrates the session from durable storage at application start. A
// stored user that no longer parses clears the token pair, leaving the
// session unauthenticated.
func (s *Service) Restore() {
	if s.tokens.Token() == "" {
		return
	}
	user, err := s.tokens.LoadUser()
	if err != nil {
		if !errors.Is(err, storage.KeyNotFoundErr) {
			s.log.Warn().Err(err).Msg("stored user unreadable, clearing tokens")
			if clearErr := s.tokens.ClearTokens(); clearErr != nil {
				s.log.Error().Err(clearErr).Msg("clearing tokens failed")
			}
		}
		return
	}
	s.session.SetUser(user)
}

// ClearError resets the session error string.
func (s *Service) ClearError() {
	s.session.ClearError()
}

func messageOr(message, fallback string) string {
	if message == "" {
		return fallback
	}
	return message
}
