package token

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	jwtv5 "github.com/golang-jwt/jwt/v5"

	"PostPilot/config"
)

// 签进 token 的主体 ID 必须原样带回来，服务端只认这个身份
func TestTokenPairCarriesSubjectID(t *testing.T) {
	require.NoError(t, Init())

	publicID := "1956301231841280001"
	accessToken, refreshToken, expiresIn, err := GenerateTokenPair(publicID)
	require.NoError(t, err)
	assert.Positive(t, expiresIn)

	uid, err := ValidateRefreshToken(refreshToken)
	require.NoError(t, err)
	assert.Equal(t, publicID, uid)

	// access token 的 uid claim 同样是传入的 ID
	parsed, err := jwtv5.ParseWithClaims(accessToken, jwtv5.MapClaims{}, func(token *jwtv5.Token) (interface{}, error) {
		return []byte(config.Cfg.JWTSecret), nil
	})
	require.NoError(t, err)
	claims := parsed.Claims.(jwtv5.MapClaims)
	assert.Equal(t, publicID, claims[IdentityKey])

	// access token 不能当 refresh token 用
	_, err = ValidateRefreshToken(accessToken)
	assert.ErrorIs(t, err, ErrInvalidTokenType)
}
