package service

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tieubaoca/doc2cal/types"
)

func validCredential() *types.Credential {
	return &types.Credential{
		Token:        "access",
		RefreshToken: "refresh",
		TokenURI:     "https://oauth2.googleapis.com/token",
		ClientID:     "client",
		ClientSecret: "secret",
		Scopes:       []string{CalendarScope},
		Expiry:       time.Now().Add(time.Hour).UTC(),
	}
}

func newTestCredentialStore(t *testing.T) (*CredentialStore, *SessionStore) {
	t.Helper()
	sessions := NewSessionStore(time.Hour)
	return NewCredentialStore(sessions, filepath.Join(t.TempDir(), "token.json"), nil), sessions
}

func writeCredentialFile(t *testing.T, path string, cred *types.Credential) {
	t.Helper()
	raw, err := json.Marshal(cred)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, raw, 0o600))
}

func TestCredentialStoreEmpty(t *testing.T) {
	store, _ := newTestCredentialStore(t)
	assert.Nil(t, store.Current("s1"))
}

func TestCredentialStoreSessionTier(t *testing.T) {
	store, _ := newTestCredentialStore(t)
	cred := validCredential()
	store.Save("s1", cred)

	assert.Equal(t, cred, store.Current("s1"))
	assert.Nil(t, store.Current("s2"), "sessions do not share the session tier")
	assert.NoFileExists(t, store.TokenFile())
}

func TestCredentialStorePromotesFileTier(t *testing.T) {
	store, sessions := newTestCredentialStore(t)
	writeCredentialFile(t, store.TokenFile(), validCredential())

	got := store.Current("s1")
	require.NotNil(t, got)
	assert.Equal(t, "access", got.Token)

	promoted, ok := sessions.Get("s1", sessionKeyCredential)
	require.True(t, ok)
	assert.Equal(t, got, promoted)

	// The session tier now answers even if the file goes away.
	require.NoError(t, os.Remove(store.TokenFile()))
	assert.NotNil(t, store.Current("s1"))
}

func TestCredentialStoreSessionTakesPrecedence(t *testing.T) {
	store, _ := newTestCredentialStore(t)
	fileCred := validCredential()
	fileCred.Token = "from-file"
	writeCredentialFile(t, store.TokenFile(), fileCred)

	sessionCred := validCredential()
	sessionCred.Token = "from-session"
	store.Save("s1", sessionCred)

	assert.Equal(t, "from-session", store.Current("s1").Token)
}

func TestCredentialStoreIncompleteFile(t *testing.T) {
	store, sessions := newTestCredentialStore(t)
	cred := validCredential()
	cred.RefreshToken = ""
	writeCredentialFile(t, store.TokenFile(), cred)

	assert.Nil(t, store.Current("s1"))
	_, ok := sessions.Get("s1", sessionKeyCredential)
	assert.False(t, ok, "incomplete credentials are not promoted")
}

func TestCredentialStoreExpiredIsAbsent(t *testing.T) {
	store, _ := newTestCredentialStore(t)
	expired := validCredential()
	expired.Expiry = time.Now().Add(-time.Hour)

	store.Save("s1", expired)
	assert.Nil(t, store.Current("s1"))

	writeCredentialFile(t, store.TokenFile(), expired)
	assert.Nil(t, store.Current("s2"))
}

func TestCredentialStoreCorruptFile(t *testing.T) {
	store, _ := newTestCredentialStore(t)
	require.NoError(t, os.WriteFile(store.TokenFile(), []byte("{not json"), 0o600))

	assert.Nil(t, store.Current("s1"))
}

func TestCredentialStorePersistAndLoad(t *testing.T) {
	store, _ := newTestCredentialStore(t)
	cred := validCredential()
	require.NoError(t, store.Persist(cred))

	info, err := os.Stat(store.TokenFile())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	loaded, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, cred.Token, loaded.Token)
	assert.True(t, cred.Expiry.Equal(loaded.Expiry))
	assert.True(t, loaded.Complete())
}

func TestCredentialStoreForget(t *testing.T) {
	store, _ := newTestCredentialStore(t)
	store.Save("s1", validCredential())
	store.Forget("s1")

	assert.Nil(t, store.Current("s1"))
}
