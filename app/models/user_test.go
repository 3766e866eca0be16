package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateUserNormalizesEmail(t *testing.T) {
	u, err := CreateUser("Maria Silva", "  Maria@Example.COM ", "s3nhaforte")
	require.NoError(t, err)

	assert.Equal(t, "maria@example.com", u.Email)
	assert.Equal(t, STATUS_ACTIVE, u.Status)
	assert.True(t, u.CheckPassword("s3nhaforte"))
	assert.False(t, u.CheckPassword("errada"))
}

func TestCreateUserValidation(t *testing.T) {
	_, err := CreateUser("ab", "maria@example.com", "s3nhaforte")
	assert.Error(t, err)

	_, err = CreateUser("Maria Silva", "not-an-email", "s3nhaforte")
	assert.Error(t, err)

	_, err = CreateUser("Maria Silva", "maria@example.com", "curta")
	assert.Error(t, err)
}

func TestSetPassword(t *testing.T) {
	u := &User{}
	require.NoError(t, u.SetPassword("novasenha"))
	assert.True(t, u.CheckPassword("novasenha"))
}
