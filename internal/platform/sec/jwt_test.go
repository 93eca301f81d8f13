// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec_test

import (
	"crypto/rand"
	"crypto/rsa"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/yomira-widgets/internal/platform/sec"
)

func signToken(t *testing.T, key *rsa.PrivateKey, claims sec.AuthClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	signed, err := token.SignedString(key)
	require.NoError(t, err)
	return signed
}

/*
TestVerifyToken covers valid, expired, foreign-issuer and foreign-key tokens.
*/
func TestVerifyToken(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	otherKey, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	verifier := sec.NewTokenVerifierFromKey(&key.PublicKey, "yomira.app")

	claimsFor := func(issuer string, expires time.Time) sec.AuthClaims {
		return sec.AuthClaims{
			RegisteredClaims: jwt.RegisteredClaims{
				Issuer:    issuer,
				ExpiresAt: jwt.NewNumericDate(expires),
			},
			UserID: "7",
			Role:   "moderator",
		}
	}

	t.Run("valid", func(t *testing.T) {
		claims, err := verifier.VerifyToken(signToken(t, key, claimsFor("yomira.app", time.Now().Add(time.Hour))))
		require.NoError(t, err)
		assert.Equal(t, "7", claims.UserID)
		assert.True(t, claims.CanModerate())
	})

	t.Run("expired", func(t *testing.T) {
		_, err := verifier.VerifyToken(signToken(t, key, claimsFor("yomira.app", time.Now().Add(-time.Hour))))
		assert.Error(t, err)
	})

	t.Run("wrong_issuer", func(t *testing.T) {
		_, err := verifier.VerifyToken(signToken(t, key, claimsFor("elsewhere", time.Now().Add(time.Hour))))
		assert.Error(t, err)
	})

	t.Run("wrong_key", func(t *testing.T) {
		_, err := verifier.VerifyToken(signToken(t, otherKey, claimsFor("yomira.app", time.Now().Add(time.Hour))))
		assert.Error(t, err)
	})
}

/*
TestUserRole_AtLeast checks the role hierarchy.
*/
func TestUserRole_AtLeast(t *testing.T) {
	assert.True(t, sec.RoleAdmin.AtLeast(sec.RoleModerator))
	assert.False(t, sec.RoleMember.AtLeast(sec.RoleModerator))
	assert.False(t, sec.UserRole("guest").AtLeast(sec.RoleMember))

	var anonymous *sec.AuthClaims
	assert.False(t, anonymous.CanModerate())
}
