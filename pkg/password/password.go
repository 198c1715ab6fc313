package password

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

const MinLength = 6

var ErrTooShort = errors.New("password too short (min 6)")

func Hash(plain string) ([]byte, error) {
	if len(plain) < MinLength {
		return nil, ErrTooShort
	}
	return bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
}

// Matches compares in constant time with respect to the plaintext.
func Matches(hash []byte, plain string) bool {
	return bcrypt.CompareHashAndPassword(hash, []byte(plain)) == nil
}
