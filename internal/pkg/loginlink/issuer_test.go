package loginlink

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueAndConsume(t *testing.T) {
	issuer := NewIssuer(NewMemoryStore(), "https://acessoclub.com.br/", 0)

	url, err := issuer.Issue(context.Background(), " Maria@Example.COM ")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "https://acessoclub.com.br/auth/login-link/"))

	token := strings.TrimPrefix(url, "https://acessoclub.com.br/auth/login-link/")
	require.NotEmpty(t, token)

	email, err := issuer.Consume(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "maria@example.com", email)
}

func TestConsumeIsSingleUse(t *testing.T) {
	issuer := NewIssuer(NewMemoryStore(), "https://acessoclub.com.br", 0)

	url, err := issuer.Issue(context.Background(), "maria@example.com")
	require.NoError(t, err)
	token := strings.TrimPrefix(url, "https://acessoclub.com.br/auth/login-link/")

	_, err = issuer.Consume(context.Background(), token)
	require.NoError(t, err)

	_, err = issuer.Consume(context.Background(), token)
	assert.ErrorIs(t, err, ErrTokenNotFound)
}

func TestConsumeExpiredToken(t *testing.T) {
	store := NewMemoryStore()
	issuer := NewIssuer(store, "https://acessoclub.com.br", time.Nanosecond)

	url, err := issuer.Issue(context.Background(), "maria@example.com")
	require.NoError(t, err)
	token := strings.TrimPrefix(url, "https://acessoclub.com.br/auth/login-link/")

	time.Sleep(time.Millisecond)

	_, err = issuer.Consume(context.Background(), token)
	assert.ErrorIs(t, err, ErrTokenNotFound)
}

func TestIssueRequiresEmail(t *testing.T) {
	issuer := NewIssuer(NewMemoryStore(), "https://acessoclub.com.br", 0)

	_, err := issuer.Issue(context.Background(), "   ")
	assert.ErrorIs(t, err, ErrEmailRequired)
}

func TestTokensAreUnique(t *testing.T) {
	issuer := NewIssuer(NewMemoryStore(), "https://acessoclub.com.br", 0)

	first, err := issuer.Issue(context.Background(), "maria@example.com")
	require.NoError(t, err)
	second, err := issuer.Issue(context.Background(), "maria@example.com")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}
