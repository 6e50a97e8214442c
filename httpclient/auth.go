package httpclient

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// AuthType identifies the authentication method.
type AuthType int

const (
	// AuthNone disables authentication.
	AuthNone AuthType = iota
	// AuthBearer uses Bearer token authentication.
	AuthBearer
	// AuthBasic uses HTTP Basic authentication.
	AuthBasic
	// AuthAPIKey uses API key authentication (header or query parameter).
	AuthAPIKey
	// AuthJWT signs a short-lived HS256 token for every request.
	AuthJWT
	// AuthCustom uses a custom authentication function.
	AuthCustom
)

// AuthConfig configures request authentication.
type AuthConfig struct {
	// Type is the authentication method.
	Type AuthType
	// Token is the bearer token (AuthBearer).
	Token string
	// Username is the basic auth username (AuthBasic).
	Username string
	// Password is the basic auth password (AuthBasic).
	Password string
	// Key is the API key value (AuthAPIKey).
	Key string
	// In specifies where to place the API key: "header" (default) or "query" (AuthAPIKey).
	In string
	// Name is the header or query parameter name (AuthAPIKey). Defaults to "X-API-Key".
	Name string
	// JWT configures token signing (AuthJWT).
	JWT *JWTConfig
	// Apply is a custom function to modify the request (AuthCustom).
	Apply func(*http.Request)
}

// JWTConfig configures the tokens minted by AuthJWT.
type JWTConfig struct {
	// Secret is the HMAC key.
	Secret []byte
	// Issuer, Subject and Audience populate the registered claims when set.
	Issuer   string
	Subject  string
	Audience []string
	// TTL is the token lifetime. Defaults to one minute.
	TTL time.Duration
	// Claims are extra private claims added to every token.
	Claims map[string]any

	now func() time.Time
}

const defaultJWTTTL = time.Minute

// BearerAuth creates a bearer token auth config.
func BearerAuth(token string) *AuthConfig {
	return &AuthConfig{Type: AuthBearer, Token: token}
}

// BasicAuth creates a basic auth config.
func BasicAuth(username, password string) *AuthConfig {
	return &AuthConfig{Type: AuthBasic, Username: username, Password: password}
}

// APIKeyAuth creates an API key auth config sent via header.
func APIKeyAuth(key string) *AuthConfig {
	return &AuthConfig{Type: AuthAPIKey, Key: key, In: "header", Name: "X-API-Key"}
}

// APIKeyAuthHeader creates an API key auth config with a custom header name.
func APIKeyAuthHeader(key, headerName string) *AuthConfig {
	return &AuthConfig{Type: AuthAPIKey, Key: key, In: "header", Name: headerName}
}

// APIKeyAuthQuery creates an API key auth config sent via query parameter.
func APIKeyAuthQuery(key, paramName string) *AuthConfig {
	return &AuthConfig{Type: AuthAPIKey, Key: key, In: "query", Name: paramName}
}

// JWTAuth creates an auth config that sends "Authorization: Bearer <jwt>"
// with a freshly signed token on every request.
func JWTAuth(cfg JWTConfig) *AuthConfig {
	return &AuthConfig{Type: AuthJWT, JWT: &cfg}
}

// CustomAuth creates a custom auth config with a request modifier function.
func CustomAuth(fn func(*http.Request)) *AuthConfig {
	return &AuthConfig{Type: AuthCustom, Apply: fn}
}

func (a *AuthConfig) validate() error {
	if a == nil {
		return nil
	}
	if a.Type == AuthJWT && (a.JWT == nil || len(a.JWT.Secret) == 0) {
		return errors.New("httpclient: jwt auth requires a secret")
	}
	return nil
}

// apply applies authentication to an HTTP request.
func (a *AuthConfig) apply(req *http.Request) error {
	if a == nil {
		return nil
	}
	switch a.Type {
	case AuthBearer:
		req.Header.Set("Authorization", "Bearer "+a.Token)
	case AuthBasic:
		req.SetBasicAuth(a.Username, a.Password)
	case AuthAPIKey:
		name := a.Name
		if name == "" {
			name = "X-API-Key"
		}
		if a.In == "query" {
			q := req.URL.Query()
			q.Set(name, a.Key)
			req.URL.RawQuery = q.Encode()
		} else {
			req.Header.Set(name, a.Key)
		}
	case AuthJWT:
		token, err := a.JWT.sign()
		if err != nil {
			return err
		}
		req.Header.Set("Authorization", "Bearer "+token)
	case AuthCustom:
		if a.Apply != nil {
			a.Apply(req)
		}
	}
	return nil
}

func (c *JWTConfig) sign() (string, error) {
	if c == nil || len(c.Secret) == 0 {
		return "", errors.New("httpclient: jwt auth requires a secret")
	}
	now := time.Now
	if c.now != nil {
		now = c.now
	}
	ttl := c.TTL
	if ttl <= 0 {
		ttl = defaultJWTTTL
	}
	issued := now()

	claims := jwt.MapClaims{}
	for k, v := range c.Claims {
		claims[k] = v
	}
	claims["iat"] = jwt.NewNumericDate(issued)
	claims["exp"] = jwt.NewNumericDate(issued.Add(ttl))
	if c.Issuer != "" {
		claims["iss"] = c.Issuer
	}
	if c.Subject != "" {
		claims["sub"] = c.Subject
	}
	if len(c.Audience) > 0 {
		claims["aud"] = jwt.ClaimStrings(c.Audience)
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.Secret)
	if err != nil {
		return "", fmt.Errorf("httpclient: sign jwt: %w", err)
	}
	return signed, nil
}
