package main

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"tokoikan/models"
	"tokoikan/pkg/password"
	"tokoikan/repository"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("wrong email or password")
	ErrTokenMissing       = errors.New("access token required")
	ErrTokenInvalid       = errors.New("invalid token")
	ErrTokenExpired       = errors.New("token expired")
	ErrAccountDisabled    = errors.New("invalid or disabled account")
)

// TokenClaims is the payload of an admin session token.
type TokenClaims struct {
	AdminID uint   `json:"id"`
	Email   string `json:"email"`
	Nama    string `json:"nama"`
	jwt.RegisteredClaims
}

// TokenIssuer signs and verifies HS256 session tokens. Tokens are not stored
// anywhere; revocation happens by disabling the account.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenIssuer(secret []byte, ttl time.Duration) *TokenIssuer {
	return &TokenIssuer{secret: secret, ttl: ttl, now: time.Now}
}

func (t *TokenIssuer) Issue(admin *models.Admin) (string, time.Time, error) {
	issued := t.now()
	expires := issued.Add(t.ttl)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, TokenClaims{
		AdminID: admin.ID,
		Email:   admin.Email,
		Nama:    admin.Nama,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(issued),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	})
	signed, err := token.SignedString(t.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expires, nil
}

// Verify checks signature and expiry only. It returns ErrTokenExpired for an
// otherwise valid token past its exp and ErrTokenInvalid for everything else.
func (t *TokenIssuer) Verify(tokenString string) (*TokenClaims, error) {
	claims := &TokenClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrInvalidKeyType
		}
		return t.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(t.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}
	if !token.Valid || claims.AdminID == 0 {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}

// dummyHash is compared against when the email is unknown so both failure
// paths spend the same bcrypt time.
var dummyHash = sync.OnceValue(func() []byte {
	h, _ := bcrypt.GenerateFromPassword([]byte("tokoikan-dummy-password"), bcrypt.DefaultCost)
	return h
})

// Authenticate looks up an aktif account by email and checks the password.
// Unknown email, inactive account and wrong password all return
// ErrInvalidCredentials.
func Authenticate(ctx context.Context, admins adminStore, email, plain string) (*models.Admin, error) {
	email = strings.TrimSpace(email)
	admin, err := admins.FindActiveByEmail(ctx, email)
	if errors.Is(err, repository.ErrAdminNotFound) {
		password.Matches(dummyHash(), plain)
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if !password.Matches(admin.HashedPassword, plain) {
		return nil, ErrInvalidCredentials
	}
	return admin, nil
}
