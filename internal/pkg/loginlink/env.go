package loginlink

import (
	"github.com/acessoclub/acessoclub/internal/pkg/cache"
	"github.com/acessoclub/acessoclub/internal/pkg/env"
)

// NewRedisIssuerFromEnv builds the production issuer: tokens in Redis, link
// base taken from PUBLIC_DOMAIN.
func NewRedisIssuerFromEnv() *Issuer {
	return NewIssuer(
		NewRedisStore(cache.GetClient()),
		env.GetEnv("PUBLIC_DOMAIN", "http://localhost:4000"),
		DefaultTTL,
	)
}
