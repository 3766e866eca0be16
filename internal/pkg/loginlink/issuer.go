package loginlink

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/acessoclub/acessoclub/app/models"
	"github.com/google/uuid"
)

// DefaultTTL is how long a minted login link stays redeemable.
const DefaultTTL = 15 * time.Minute

var (
	ErrTokenNotFound = errors.New("login token not found or already used")
	ErrEmailRequired = errors.New("email is required")
)

// TokenStore holds token -> email bindings. Consume must be atomic: a token
// resolves exactly once no matter how many requests race on it.
type TokenStore interface {
	Put(ctx context.Context, token, email string, ttl time.Duration) error
	Consume(ctx context.Context, token string) (string, error)
}

// Issuer mints single-use, time-limited login links for verified emails.
type Issuer struct {
	store   TokenStore
	baseURL string
	ttl     time.Duration
}

// NewIssuer creates a login link issuer. baseURL is the public site root the
// link path is appended to.
func NewIssuer(store TokenStore, baseURL string, ttl time.Duration) *Issuer {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Issuer{
		store:   store,
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		ttl:     ttl,
	}
}

// Issue mints a fresh token bound to the given email and returns the full
// login URL. Tokens are opaque: a uuid plus random tail, never derived from
// the email.
func (i *Issuer) Issue(ctx context.Context, email string) (string, error) {
	norm := models.NormalizeEmail(email)
	if norm == "" {
		return "", ErrEmailRequired
	}

	tail := make([]byte, 16)
	if _, err := rand.Read(tail); err != nil {
		return "", err
	}
	token := uuid.NewString() + "." + base64.RawURLEncoding.EncodeToString(tail)

	if err := i.store.Put(ctx, token, norm, i.ttl); err != nil {
		return "", err
	}

	return fmt.Sprintf("%s/auth/login-link/%s", i.baseURL, token), nil
}

// Consume redeems a token, returning the bound email. A second redeem of the
// same token fails with ErrTokenNotFound.
func (i *Issuer) Consume(ctx context.Context, token string) (string, error) {
	t := strings.TrimSpace(token)
	if t == "" {
		return "", ErrTokenNotFound
	}
	return i.store.Consume(ctx, t)
}
