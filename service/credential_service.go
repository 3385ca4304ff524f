package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/tieubaoca/doc2cal/types"
)

// CredentialStore keeps the calendar credential at two levels: the session
// tier (per browser session) and the file tier (token.json, shared with
// generated scripts). The file tier is only consulted on a session miss.
type CredentialStore struct {
	sessions  *SessionStore
	tokenFile string
	logger    *zap.Logger
}

func NewCredentialStore(sessions *SessionStore, tokenFile string, logger *zap.Logger) *CredentialStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CredentialStore{
		sessions:  sessions,
		tokenFile: tokenFile,
		logger:    logger.With(zap.String("module", "credential")),
	}
}

func (s *CredentialStore) TokenFile() string {
	return s.tokenFile
}

// Current returns a usable credential for the session or nil. A complete
// credential found in the file tier is promoted into the session tier.
// Expired credentials are never refreshed here.
func (s *CredentialStore) Current(sessionID string) *types.Credential {
	cred := s.fromSession(sessionID)
	if cred == nil {
		fileCred, err := s.Load()
		if err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				s.logger.Warn("Failed to read credential file", zap.String("file", s.tokenFile), zap.Error(err))
			}
			return nil
		}
		if !fileCred.Complete() {
			s.logger.Debug("Credential file is incomplete", zap.String("file", s.tokenFile))
			return nil
		}
		s.Save(sessionID, fileCred)
		cred = fileCred
	}
	if !cred.Valid() {
		return nil
	}
	return cred
}

func (s *CredentialStore) fromSession(sessionID string) *types.Credential {
	if sessionID == "" {
		return nil
	}
	v, ok := s.sessions.Get(sessionID, sessionKeyCredential)
	if !ok {
		return nil
	}
	return v.(*types.Credential)
}

// Save stores cred in the session tier.
func (s *CredentialStore) Save(sessionID string, cred *types.Credential) {
	if sessionID == "" || cred == nil {
		return
	}
	s.sessions.Set(sessionID, sessionKeyCredential, cred)
}

// Persist writes cred to the file tier.
func (s *CredentialStore) Persist(cred *types.Credential) error {
	raw, err := json.Marshal(cred)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(s.tokenFile); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(s.tokenFile, raw, 0o600); err != nil {
		return fmt.Errorf("write %s: %w", s.tokenFile, err)
	}
	return nil
}

// Load reads the file tier without validating it.
func (s *CredentialStore) Load() (*types.Credential, error) {
	raw, err := os.ReadFile(s.tokenFile)
	if err != nil {
		return nil, err
	}
	var cred types.Credential
	if err := json.Unmarshal(raw, &cred); err != nil {
		return nil, fmt.Errorf("decode %s: %w", s.tokenFile, err)
	}
	return &cred, nil
}

// Forget drops the session tier entry. The file tier is left alone.
func (s *CredentialStore) Forget(sessionID string) {
	s.sessions.Delete(sessionID, sessionKeyCredential)
}
