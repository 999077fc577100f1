package student

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_generateCode(t *testing.T) {
	for i := 0; i < 50; i++ {
		code, err := generateCode()
		require.NoError(t, err)
		require.Len(t, code, 6)
		for _, c := range code {
			require.True(t, c >= '0' && c <= '9')
		}
	}
}

func Test_codeMatches(t *testing.T) {
	origNow := nowFunc
	defer func() { nowFunc = origNow }()

	now := time.Date(2021, time.September, 4, 10, 0, 0, 0, time.UTC)
	nowFunc = func() time.Time { return now }
	expiry := now.Add(5 * time.Minute)

	std := Student{VerifyCode: "123456", VerifyCodeExpiry: &expiry}

	tests := []struct {
		name  string
		code  string
		at    time.Time
		match bool
	}{
		{name: "match within window", code: "123456", at: now.Add(4 * time.Minute), match: true},
		{name: "match at expiry", code: "123456", at: expiry, match: true},
		{name: "wrong digits", code: "654321", at: now, match: false},
		{name: "empty code", code: "", at: now, match: false},
		{name: "expired even when digits match", code: "123456", at: expiry.Add(time.Second), match: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nowFunc = func() time.Time { return tt.at }
			assert.Equal(t, tt.match, codeMatches(std, tt.code))
		})
	}

	t.Run("no code stored", func(t *testing.T) {
		nowFunc = func() time.Time { return now }
		assert.False(t, codeMatches(Student{}, "123456"))
	})

	t.Run("no expiry stored", func(t *testing.T) {
		nowFunc = func() time.Time { return now }
		assert.False(t, codeMatches(Student{VerifyCode: "123456"}, "123456"))
	})
}
