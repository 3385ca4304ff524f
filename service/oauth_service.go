package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/tieubaoca/doc2cal/config"
	"github.com/tieubaoca/doc2cal/types"
)

const CalendarScope = "https://www.googleapis.com/auth/calendar"

var (
	ErrAuthorizationDenied = errors.New("authorization denied by provider")
	ErrStateMismatch       = errors.New("oauth state mismatch")
	ErrMissingCode         = errors.New("authorization code missing")
)

type OAuthService struct {
	conf        *oauth2.Config
	sessions    *SessionStore
	credentials *CredentialStore
	persist     bool
	logger      *zap.Logger
}

func NewOAuthConfig(cfg config.OAuthConfig) *oauth2.Config {
	scopes := cfg.Scopes
	if len(scopes) == 0 {
		scopes = []string{CalendarScope}
	}
	return &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		RedirectURL:  cfg.RedirectURL,
		Scopes:       scopes,
		Endpoint:     google.Endpoint,
	}
}

func NewOAuthService(conf *oauth2.Config, sessions *SessionStore, credentials *CredentialStore, persist bool, logger *zap.Logger) *OAuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OAuthService{
		conf:        conf,
		sessions:    sessions,
		credentials: credentials,
		persist:     persist,
		logger:      logger.With(zap.String("module", "oauth")),
	}
}

// AuthorizeURL starts the consent flow for the session and remembers the state.
func (s *OAuthService) AuthorizeURL(sessionID string) (string, error) {
	state, err := generateState()
	if err != nil {
		return "", err
	}
	s.sessions.Set(sessionID, sessionKeyState, state)
	return s.conf.AuthCodeURL(state,
		oauth2.AccessTypeOffline,
		oauth2.SetAuthURLParam("include_granted_scopes", "true"),
	), nil
}

// HandleCallback completes the flow. providerErr is the provider's error
// parameter, if any. The stored state is consumed whatever the outcome.
func (s *OAuthService) HandleCallback(ctx context.Context, sessionID, providerErr, state, code string) (*types.Credential, error) {
	expected, ok := s.sessions.Pop(sessionID, sessionKeyState)
	if providerErr != "" {
		s.logger.Warn("Authorization denied", zap.String("reason", providerErr))
		return nil, fmt.Errorf("%w: %s", ErrAuthorizationDenied, providerErr)
	}
	if !ok || state == "" || expected.(string) != state {
		s.logger.Warn("OAuth state mismatch")
		return nil, ErrStateMismatch
	}
	if code == "" {
		return nil, ErrMissingCode
	}

	token, err := s.conf.Exchange(ctx, code)
	if err != nil {
		s.logger.Error("Code exchange failed", zap.Error(err))
		return nil, fmt.Errorf("code exchange failed: %w", err)
	}

	cred := types.NewCredential(token, s.conf)
	s.credentials.Save(sessionID, cred)
	if s.persist {
		if err := s.credentials.Persist(cred); err != nil {
			s.logger.Error("Failed to persist credential", zap.Error(err))
			return cred, nil
		}
	}
	s.logger.Info("Calendar credential stored", zap.Bool("persisted", s.persist))
	return cred, nil
}

func generateState() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate state: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
