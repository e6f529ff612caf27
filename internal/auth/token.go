package auth

import (
	"errors"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/thejerf/abtime"
)

const defaultTokenTTL = 60 * time.Minute

var errEmptySecret = errors.New("auth: signing secret is empty")

// Claims describes JWT payload. Timestamps are whole Unix seconds.
type Claims struct {
	jwt.RegisteredClaims
}

// IssueToken signs a token for subject that expires ttl from now.
func IssueToken(subject string, secret []byte, ttl time.Duration) (string, *Claims, error) {
	return issue(subject, secret, ttl, time.Now())
}

// VerifyToken checks the signature and expiry of token and returns its claims.
// Every failure is reported as ErrInvalidToken.
func VerifyToken(token string, secret []byte) (*Claims, error) {
	return verify(token, secret, time.Now())
}

func issue(subject string, secret []byte, ttl time.Duration, now time.Time) (string, *Claims, error) {
	if subject == "" {
		return "", nil, ErrEmptySubject
	}
	if len(secret) == 0 {
		return "", nil, errEmptySecret
	}

	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(secret)
	if err != nil {
		return "", nil, err
	}
	return tokenString, claims, nil
}

func verify(token string, secret []byte, now time.Time) (*Claims, error) {
	if token == "" || len(secret) == 0 {
		return nil, ErrInvalidToken
	}

	// Expiry is checked below against the caller's clock, inclusive of the
	// exp second, so the library's own claim validation is skipped.
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithoutClaimsValidation(),
	)

	claims := &Claims{}
	parsed, err := parser.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return secret, nil
	})
	if err != nil || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Subject == "" || claims.ExpiresAt == nil {
		return nil, ErrInvalidToken
	}
	if now.Unix() > claims.ExpiresAt.Unix() {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// TokenManager issues and validates tokens with a fixed secret and lifetime.
// It is immutable after construction and safe for concurrent use.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
	clock  abtime.AbstractTime
}

// TokenOption customizes a TokenManager.
type TokenOption func(*TokenManager)

// WithClock replaces the wall clock used for issuance and expiry checks.
func WithClock(clock abtime.AbstractTime) TokenOption {
	return func(tm *TokenManager) {
		if clock != nil {
			tm.clock = clock
		}
	}
}

// NewTokenManager builds a new manager.
func NewTokenManager(secret string, ttl time.Duration, opts ...TokenOption) *TokenManager {
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}
	tm := &TokenManager{
		secret: []byte(secret),
		ttl:    ttl,
		clock:  abtime.NewRealTime(),
	}
	for _, opt := range opts {
		opt(tm)
	}
	return tm
}

// TTL returns the lifetime given to issued tokens.
func (tm *TokenManager) TTL() time.Duration {
	return tm.ttl
}

// Issue builds and signs a token for the subject.
func (tm *TokenManager) Issue(subject string) (string, *Claims, error) {
	return issue(subject, tm.secret, tm.ttl, tm.clock.Now())
}

// Verify validates a token and returns its claims.
func (tm *TokenManager) Verify(token string) (*Claims, error) {
	return verify(token, tm.secret, tm.clock.Now())
}
