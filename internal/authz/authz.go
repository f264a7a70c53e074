package authz

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"errors"
)

// ErrUnauthorized reports a missing, invalid, or mismatched credential.
var ErrUnauthorized = errors.New("authz: unauthorized")

// Credentials carry the caller identity extracted by the transport.
type Credentials struct {
	// Principal is the account name the caller claims to act as.
	Principal string
	// Signature is the HMAC-SHA256 of Message under the principal's key.
	Signature []byte
	// Message is the byte sequence the signature covers (the request body).
	Message []byte
}

type credentialsKey struct{}

// WithCredentials returns a context carrying the given credentials.
func WithCredentials(ctx context.Context, c Credentials) context.Context {
	return context.WithValue(ctx, credentialsKey{}, c)
}

// CredentialsFrom extracts credentials from ctx, if present.
func CredentialsFrom(ctx context.Context) (Credentials, bool) {
	c, ok := ctx.Value(credentialsKey{}).(Credentials)
	return c, ok
}

// Authorizer decides whether the caller bound to ctx may act as principal.
type Authorizer interface {
	RequireAuth(ctx context.Context, principal string) error
}

// AllowAll authorizes every caller. Development and test use only.
type AllowAll struct{}

func (AllowAll) RequireAuth(context.Context, string) error { return nil }

// Keyring authorizes callers by verifying an HMAC-SHA256 signature against a
// static per-principal secret.
type Keyring struct {
	keys map[string][]byte
}

// NewKeyring builds a Keyring from principal -> secret pairs.
func NewKeyring(keys map[string][]byte) *Keyring {
	kr := &Keyring{keys: make(map[string][]byte, len(keys))}
	for principal, secret := range keys {
		kr.keys[principal] = append([]byte(nil), secret...)
	}
	return kr
}

// RequireAuth verifies that ctx carries credentials for exactly the given
// principal and that the signature checks out under that principal's key.
func (k *Keyring) RequireAuth(ctx context.Context, principal string) error {
	creds, ok := CredentialsFrom(ctx)
	if !ok || creds.Principal != principal {
		return ErrUnauthorized
	}
	secret, ok := k.keys[principal]
	if !ok {
		return ErrUnauthorized
	}
	mac := hmac.New(sha256.New, secret)
	mac.Write(creds.Message)
	if !hmac.Equal(mac.Sum(nil), creds.Signature) {
		return ErrUnauthorized
	}
	return nil
}

// Sign computes the HMAC-SHA256 signature for message under secret. Shared
// with the CLI client so both ends agree on the scheme.
func Sign(secret, message []byte) []byte {
	mac := hmac.New(sha256.New, secret)
	mac.Write(message)
	return mac.Sum(nil)
}
