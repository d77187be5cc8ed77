package auth

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memoryStore is an in-memory CredentialStore for manager tests
type memoryStore struct {
	creds    map[string]*Credential
	readOnly bool
}

func newMemoryStore() *memoryStore {
	return &memoryStore{creds: make(map[string]*Credential)}
}

func (m *memoryStore) Store(cred *Credential) error {
	if m.readOnly {
		return ErrStoreUnavailable
	}
	c := *cred
	m.creds[cred.Profile] = &c
	return nil
}

func (m *memoryStore) Retrieve(profile string) (*Credential, error) {
	if cred, ok := m.creds[profile]; ok {
		c := *cred
		return &c, nil
	}
	return nil, ErrCredentialsNotFound
}

func (m *memoryStore) List() ([]*Credential, error) {
	var out []*Credential
	for _, cred := range m.creds {
		c := *cred
		out = append(out, &c)
	}
	return out, nil
}

func (m *memoryStore) Delete(profile string) error {
	if _, ok := m.creds[profile]; !ok {
		return ErrCredentialsNotFound
	}
	delete(m.creds, profile)
	return nil
}

func (m *memoryStore) Exists(profile string) bool {
	_, ok := m.creds[profile]
	return ok
}

func TestManagerStoreFallsBack(t *testing.T) {
	broken := newMemoryStore()
	broken.readOnly = true
	working := newMemoryStore()
	mgr := NewManagerWithStores(broken, working)

	cred := &Credential{Profile: "default", APIKey: "key_123"}
	require.NoError(t, mgr.Store(cred))

	got, err := mgr.Retrieve("default")
	require.NoError(t, err)
	assert.Equal(t, "key_123", got.APIKey)
	assert.False(t, got.LastModified.IsZero())
}

func TestManagerRejectsEmptyCredential(t *testing.T) {
	mgr := NewManagerWithStores(newMemoryStore())

	assert.Error(t, mgr.Store(nil))
	assert.Error(t, mgr.Store(&Credential{Profile: ""}))
	assert.Error(t, mgr.Store(&Credential{Profile: "default"}))
}

func TestManagerDelete(t *testing.T) {
	store := newMemoryStore()
	mgr := NewManagerWithStores(store)

	require.NoError(t, mgr.Store(&Credential{Profile: "default", Token: "tok"}))
	require.NoError(t, mgr.Delete("default"))
	_, err := mgr.Retrieve("default")
	assert.Error(t, err)

	assert.Error(t, mgr.Delete("missing"))
}

func TestEnvironmentStore(t *testing.T) {
	store := NewEnvironmentStore()

	_, err := store.Retrieve("default")
	assert.ErrorIs(t, err, ErrCredentialsNotFound)
	assert.False(t, store.Exists("default"))

	t.Setenv("JOKESDK_API_KEY", "env_key_123")

	cred, err := store.Retrieve("")
	require.NoError(t, err)
	assert.Equal(t, "default", cred.Profile)
	assert.Equal(t, "env_key_123", cred.APIKey)
	assert.True(t, store.Exists("default"))

	assert.ErrorIs(t, store.Store(cred), ErrStoreUnavailable)
	assert.ErrorIs(t, store.Delete("default"), ErrStoreUnavailable)
}

func TestEncryptedFileStoreRoundTrip(t *testing.T) {
	t.Setenv("JOKESDK_PASSPHRASE", "test-passphrase")
	path := filepath.Join(t.TempDir(), "credentials.enc")

	store, err := NewEncryptedFileStore(path)
	require.NoError(t, err)

	cred := &Credential{Profile: "work", APIKey: "secret_key_456"}
	require.NoError(t, store.Store(cred))

	got, err := store.Retrieve("work")
	require.NoError(t, err)
	assert.Equal(t, "secret_key_456", got.APIKey)

	list, err := store.List()
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, store.Delete("work"))
	_, err = store.Retrieve("work")
	assert.ErrorIs(t, err, ErrCredentialsNotFound)
}

func TestEncryptedFileStoreWrongPassphrase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials.enc")

	t.Setenv("JOKESDK_PASSPHRASE", "first-passphrase")
	store, err := NewEncryptedFileStore(path)
	require.NoError(t, err)
	require.NoError(t, store.Store(&Credential{Profile: "work", Token: "tok"}))

	t.Setenv("JOKESDK_PASSPHRASE", "other-passphrase")
	store2, err := NewEncryptedFileStore(path)
	require.NoError(t, err)
	_, err = store2.Retrieve("work")
	assert.Error(t, err)
}

func TestSanitize(t *testing.T) {
	cred := &Credential{
		Profile: "default",
		APIKey:  "super_secret_api_key",
	}
	masked := Sanitize(cred)

	assert.Equal(t, "default", masked.Profile)
	assert.Equal(t, "supe..._key", masked.APIKey)
	assert.Empty(t, masked.Token)

	assert.Nil(t, Sanitize(nil))
}
