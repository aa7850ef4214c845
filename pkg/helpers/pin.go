package helpers

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// KeyResetToken is the Redis key mapping a password-reset token to a user id.
func KeyResetToken(tok string) string {
	return "pwd:reset:token:" + tok
}

// GenVerifyPin generates a secure random 4-digit account verification PIN,
// matching the code sent over SMS at signup.
func GenVerifyPin() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(9000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%d", 1000+n.Int64()), nil
}
