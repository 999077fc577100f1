package student

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"
)

var nowFunc = time.Now // mockable

var codeMax = big.NewInt(900000)

// generateCode returns a random 6-digit verification code.
func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, codeMax)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%d", n.Int64()+100000), nil
}

// codeMatches reports whether the given code matches the one stored on the
// Student and has not expired. A code strictly older than its expiry is
// rejected even when the digits match.
func codeMatches(s Student, code string) bool {
	if s.VerifyCode == "" || code == "" || s.VerifyCode != code {
		return false
	}
	if s.VerifyCodeExpiry == nil || nowFunc().After(*s.VerifyCodeExpiry) {
		return false
	}
	return true
}
