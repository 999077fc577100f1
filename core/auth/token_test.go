package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeroonecreation/classify/core"
)

func testConfig() *core.Config {
	conf := new(core.Config)
	conf.AppName = "Classify"
	conf.SecretKey = []byte("s3cr3t")
	conf.Server.JWTExpirationDelta = 365 * 24 * time.Hour
	return conf
}

func Test_Codec_IssueVerify(t *testing.T) {
	codec, err := NewCodec(testConfig())
	require.NoError(t, err)

	token, err := codec.Issue("0cb0e9a4-35cc-4f43-9cb7-adb5fdadacef", "student@test.cm", "Awe Student")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := codec.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "0cb0e9a4-35cc-4f43-9cb7-adb5fdadacef", claims.Subject)
	assert.Equal(t, "student@test.cm", claims.Email)
	assert.Equal(t, "Awe Student", claims.FullName)
	assert.Equal(t, "Classify", claims.Issuer)
}

func Test_Codec_Verify_failures(t *testing.T) {
	codec, err := NewCodec(testConfig())
	require.NoError(t, err)

	token, err := codec.Issue("0cb0e9a4-35cc-4f43-9cb7-adb5fdadacef", "student@test.cm", "Awe Student")
	require.NoError(t, err)

	t.Run("garbage", func(t *testing.T) {
		_, err := codec.Verify("not.a.token")
		assert.Equal(t, ErrInvalidToken, err)
	})

	t.Run("tampered signature", func(t *testing.T) {
		conf := testConfig()
		conf.SecretKey = []byte("other-secret")
		other, err := NewCodec(conf)
		require.NoError(t, err)
		_, err = other.Verify(token)
		assert.Equal(t, ErrInvalidToken, err)
	})

	t.Run("expired", func(t *testing.T) {
		origNow := nowFunc
		defer func() { nowFunc = origNow }()
		nowFunc = func() time.Time { return origNow().Add(366 * 24 * time.Hour) }
		_, err := codec.Verify(token)
		assert.Equal(t, ErrInvalidToken, err)
	})
}
