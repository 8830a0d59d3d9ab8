package auth

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

const (
	RoleAdmin = "admin"
	TokenTTL  = 24 * time.Hour
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid or expired token")
)

type User struct {
	Username string `json:"username"`
	Role     string `json:"role"`
}

type Claims struct {
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// Issuer checks the single admin account and signs HS256 tokens.
type Issuer struct {
	secret   []byte
	username string
	password string
	now      func() time.Time
}

func NewIssuer(secret, username, password string) *Issuer {
	return &Issuer{
		secret:   []byte(secret),
		username: username,
		password: password,
		now:      time.Now,
	}
}

// Login returns a signed token for the admin account.
func (i *Issuer) Login(username, password string) (string, User, error) {
	if i.username == "" || i.password == "" {
		return "", User{}, ErrInvalidCredentials
	}
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(i.username)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(i.password)) == 1
	if !userOK || !passOK {
		return "", User{}, ErrInvalidCredentials
	}

	user := User{Username: username, Role: RoleAdmin}
	token, err := i.Issue(user)
	if err != nil {
		return "", User{}, err
	}
	return token, user, nil
}

func (i *Issuer) Issue(user User) (string, error) {
	now := i.now()
	claims := Claims{
		Username: user.Username,
		Role:     user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(TokenTTL)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

func (i *Issuer) Verify(token string) (User, error) {
	claims := &Claims{}
	parser := jwt.Parser{}
	parsed, err := parser.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return i.secret, nil
	})
	if err != nil || !parsed.Valid {
		return User{}, ErrInvalidToken
	}
	if !claims.VerifyExpiresAt(i.now(), true) {
		return User{}, ErrInvalidToken
	}
	return User{Username: claims.Username, Role: claims.Role}, nil
}
