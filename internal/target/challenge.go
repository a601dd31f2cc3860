package target

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/robalobadob/footle/internal/roster"
)

// ErrBadChallenge covers malformed, tampered and expired challenge codes.
var ErrBadChallenge = errors.New("target: invalid challenge code")

// challengeClaims carries the roster ordinal of the mystery player.
type challengeClaims struct {
	Index int `json:"idx"`
	jwt.RegisteredClaims
}

// Challenges signs and verifies custom challenge codes (HS256 JWTs).
type Challenges struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewChallenges returns a signer. A zero ttl issues codes that never expire.
func NewChallenges(secret string, ttl time.Duration) *Challenges {
	return &Challenges{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Issue returns a code that resolves to p's roster ordinal.
func (c *Challenges) Issue(p *roster.Player) (string, time.Time, error) {
	now := c.now()
	claims := challengeClaims{
		Index:            p.Ordinal,
		RegisteredClaims: jwt.RegisteredClaims{IssuedAt: jwt.NewNumericDate(now)},
	}
	var exp time.Time
	if c.ttl > 0 {
		exp = now.Add(c.ttl)
		claims.ExpiresAt = jwt.NewNumericDate(exp)
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	ss, err := t.SignedString(c.secret)
	return ss, exp, err
}

// Resolve verifies code and returns the roster ordinal it carries.
func (c *Challenges) Resolve(code string) (int, error) {
	claims := &challengeClaims{}
	t, err := jwt.ParseWithClaims(code, claims, func(t *jwt.Token) (interface{}, error) {
		return c.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil || !t.Valid {
		return 0, fmt.Errorf("%w: %v", ErrBadChallenge, err)
	}
	return claims.Index, nil
}
