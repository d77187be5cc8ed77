package auth

import (
	"encoding/base64"
	"fmt"
)

// Authenticator produces authentication headers for outgoing requests.
// Implementations are immutable and safe to share across concurrent calls.
type Authenticator interface {
	// GetAuthHeaders returns the headers this scheme contributes
	GetAuthHeaders() map[string]string

	// AuthenticateRequest returns a new header set with auth headers merged
	// in. The input is not mutated; an existing Authorization header is
	// overwritten, everything else is preserved.
	AuthenticateRequest(headers map[string]string) map[string]string
}

// mergeAuthHeaders copies headers and overlays the auth headers on top
func mergeAuthHeaders(headers, authHeaders map[string]string) map[string]string {
	merged := make(map[string]string, len(headers)+len(authHeaders))
	for k, v := range headers {
		merged[k] = v
	}
	for k, v := range authHeaders {
		merged[k] = v
	}
	return merged
}

// NoAuth is the authenticator for public APIs; it contributes nothing
type NoAuth struct{}

// NewNoAuth creates an authenticator that adds no headers
func NewNoAuth() *NoAuth {
	return &NoAuth{}
}

func (a *NoAuth) GetAuthHeaders() map[string]string {
	return map[string]string{}
}

func (a *NoAuth) AuthenticateRequest(headers map[string]string) map[string]string {
	return mergeAuthHeaders(headers, nil)
}

// APIKeyAuth sends an API key in a configurable header
type APIKeyAuth struct {
	apiKey       string
	headerName   string
	headerPrefix string
}

// NewAPIKeyAuth creates an API key authenticator using the Authorization
// header with a Bearer prefix.
func NewAPIKeyAuth(apiKey string) *APIKeyAuth {
	return NewAPIKeyAuthWithHeader(apiKey, "Authorization", "Bearer")
}

// NewAPIKeyAuthWithHeader creates an API key authenticator with a custom
// header name and prefix. An empty prefix sends the raw key.
func NewAPIKeyAuthWithHeader(apiKey, headerName, headerPrefix string) *APIKeyAuth {
	return &APIKeyAuth{apiKey: apiKey, headerName: headerName, headerPrefix: headerPrefix}
}

func (a *APIKeyAuth) GetAuthHeaders() map[string]string {
	value := a.apiKey
	if a.headerPrefix != "" {
		value = fmt.Sprintf("%s %s", a.headerPrefix, a.apiKey)
	}
	return map[string]string{a.headerName: value}
}

func (a *APIKeyAuth) AuthenticateRequest(headers map[string]string) map[string]string {
	return mergeAuthHeaders(headers, a.GetAuthHeaders())
}

// BearerTokenAuth sends a token as "Authorization: Bearer <token>"
type BearerTokenAuth struct {
	token string
}

// NewBearerTokenAuth creates a Bearer token authenticator
func NewBearerTokenAuth(token string) *BearerTokenAuth {
	return &BearerTokenAuth{token: token}
}

func (a *BearerTokenAuth) GetAuthHeaders() map[string]string {
	return map[string]string{"Authorization": "Bearer " + a.token}
}

func (a *BearerTokenAuth) AuthenticateRequest(headers map[string]string) map[string]string {
	return mergeAuthHeaders(headers, a.GetAuthHeaders())
}

// BasicAuth sends RFC 7617 basic credentials
type BasicAuth struct {
	username string
	password string
}

// NewBasicAuth creates a basic authentication authenticator
func NewBasicAuth(username, password string) *BasicAuth {
	return &BasicAuth{username: username, password: password}
}

func (a *BasicAuth) GetAuthHeaders() map[string]string {
	credentials := base64.StdEncoding.EncodeToString([]byte(a.username + ":" + a.password))
	return map[string]string{"Authorization": "Basic " + credentials}
}

func (a *BasicAuth) AuthenticateRequest(headers map[string]string) map[string]string {
	return mergeAuthHeaders(headers, a.GetAuthHeaders())
}

// OAuthAuth sends an OAuth access token with a configurable token type
type OAuthAuth struct {
	token     string
	tokenType string
}

// NewOAuthAuth creates an OAuth authenticator with the Bearer token type
func NewOAuthAuth(token string) *OAuthAuth {
	return NewOAuthAuthWithType(token, "Bearer")
}

// NewOAuthAuthWithType creates an OAuth authenticator with a custom token type
func NewOAuthAuthWithType(token, tokenType string) *OAuthAuth {
	return &OAuthAuth{token: token, tokenType: tokenType}
}

func (a *OAuthAuth) GetAuthHeaders() map[string]string {
	return map[string]string{"Authorization": fmt.Sprintf("%s %s", a.tokenType, a.token)}
}

func (a *OAuthAuth) AuthenticateRequest(headers map[string]string) map[string]string {
	return mergeAuthHeaders(headers, a.GetAuthHeaders())
}
