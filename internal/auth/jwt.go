package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// JWT signs and checks bearer tokens. The username travels as the subject
// claim; validity is signature + expiry only, there is no revocation list.
type JWT struct {
	secret []byte
	ttl    time.Duration
}

func NewJWT(secret string, ttl time.Duration) *JWT {
	return &JWT{secret: []byte(secret), ttl: ttl}
}

func (j *JWT) Sign(username string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub": username,
		"iat": now.Unix(),
		"exp": now.Add(j.ttl).Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(j.secret)
}

// Valid reports whether the token has an intact signature and has not
// expired. Malformed input is simply invalid, never an error.
func (j *JWT) Valid(tokenStr string) bool {
	t, err := jwt.Parse(tokenStr, func(token *jwt.Token) (any, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return j.secret, nil
	})
	return err == nil && t.Valid
}

// Subject extracts the username claim without checking signature or expiry.
// Callers must only trust the result after Valid has passed.
func (j *JWT) Subject(tokenStr string) (string, bool) {
	t, _, err := jwt.NewParser().ParseUnverified(tokenStr, jwt.MapClaims{})
	if err != nil {
		return "", false
	}
	sub, err := t.Claims.GetSubject()
	if err != nil || sub == "" {
		return "", false
	}
	return sub, true
}
