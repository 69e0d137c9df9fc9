package jwtauth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "mostokey/pkg/domain-errors"
)

func newService() *Service {
	return New("test-signing-key", "mostokey", "mostokey-api")
}

func TestGenerateAndValidate(t *testing.T) {
	svc := newService()

	token, err := svc.GenerateAccessToken("0xalice", time.Hour)
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "0xalice", claims.Account)
}

func TestValidateRejectsExpiredToken(t *testing.T) {
	svc := newService()

	token, err := svc.GenerateAccessToken("0xalice", -time.Minute)
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
	assert.Contains(t, err.Error(), "expired")
}

func TestValidateRejectsWrongKey(t *testing.T) {
	token, err := newService().GenerateAccessToken("0xalice", time.Hour)
	require.NoError(t, err)

	other := New("another-key", "mostokey", "mostokey-api")
	_, err = other.ValidateToken(token)
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
}

func TestValidateRejectsForeignIssuerOrAudience(t *testing.T) {
	svc := newService()

	for name, foreign := range map[string]*Service{
		"issuer":   New("test-signing-key", "someone-else", "mostokey-api"),
		"audience": New("test-signing-key", "mostokey", "someone-else-api"),
	} {
		t.Run(name, func(t *testing.T) {
			token, err := foreign.GenerateAccessToken("0xalice", time.Hour)
			require.NoError(t, err)

			_, err = svc.ValidateToken(token)
			require.Error(t, err)
			assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
		})
	}
}

func TestValidateRejectsGarbage(t *testing.T) {
	_, err := newService().ValidateToken("not.a.token")
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
}
