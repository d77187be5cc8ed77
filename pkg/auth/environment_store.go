package auth

import (
	"os"
	"time"
)

// EnvironmentStore implements CredentialStore over JOKESDK_* environment
// variables. It is read-only and mostly useful for CI.
type EnvironmentStore struct{}

// NewEnvironmentStore creates a new environment-based credential store
func NewEnvironmentStore() *EnvironmentStore {
	return &EnvironmentStore{}
}

// Store is not supported for environment variables
func (e *EnvironmentStore) Store(cred *Credential) error {
	return ErrStoreUnavailable
}

// Retrieve gets a credential from environment variables
func (e *EnvironmentStore) Retrieve(profile string) (*Credential, error) {
	apiKey := os.Getenv("JOKESDK_API_KEY")
	token := os.Getenv("JOKESDK_TOKEN")
	username := os.Getenv("JOKESDK_USERNAME")
	password := os.Getenv("JOKESDK_PASSWORD")

	if apiKey == "" && token == "" && username == "" {
		return nil, ErrCredentialsNotFound
	}

	// The environment carries no profile name of its own
	if profile == "" {
		profile = "default"
	}

	return &Credential{
		Profile:      profile,
		APIKey:       apiKey,
		Token:        token,
		Username:     username,
		Password:     password,
		LastModified: time.Now(),
	}, nil
}

// List returns a single credential if environment variables are set
func (e *EnvironmentStore) List() ([]*Credential, error) {
	cred, err := e.Retrieve("")
	if err != nil {
		return []*Credential{}, nil
	}
	return []*Credential{cred}, nil
}

// Delete is not supported for environment variables
func (e *EnvironmentStore) Delete(profile string) error {
	return ErrStoreUnavailable
}

// Exists checks if environment credentials exist
func (e *EnvironmentStore) Exists(profile string) bool {
	return os.Getenv("JOKESDK_API_KEY") != "" ||
		os.Getenv("JOKESDK_TOKEN") != "" ||
		os.Getenv("JOKESDK_USERNAME") != ""
}
