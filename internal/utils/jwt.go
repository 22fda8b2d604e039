package utils // package utils provides token issuance, password hashing and redirect checks

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
)

// ErrTokenExpired is returned by Verify when the signature is valid but the
// token's expiry has passed.
var ErrTokenExpired = errors.New("token expired")

// ErrTokenInvalid is returned by Verify for every other failure: bad
// signature, malformed structure, unexpected algorithm or missing subject.
var ErrTokenInvalid = errors.New("token invalid")

// exp and iat keep milliseconds so a token issued at a fractional second
// stays valid until now+ttl instead of the whole second before it.
func init() { jwt.TimePrecision = time.Millisecond }

// TokenIssuer creates and verifies HS256 tokens asserting a principal's
// identity.  Tokens are stateless: nothing is stored and there is no
// revocation, so changing the secret invalidates every issued token.
type TokenIssuer struct {
	secret []byte
}

// NewTokenIssuer builds an issuer around the process-wide secret key.
func NewTokenIssuer(secret string) *TokenIssuer {
	return &TokenIssuer{secret: []byte(secret)}
}

// Issue signs a token for subject with iat = now and exp = now + ttl.
func (ti *TokenIssuer) Issue(subject string, now time.Time, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		return "", errors.New("token ttl must be positive")
	}
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now.UTC()),
		ExpiresAt: jwt.NewNumericDate(now.UTC().Add(ttl)),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(ti.secret)
	if err != nil {
		return "", errors.Wrap(err, "error signing token")
	}
	return signed, nil
}

// Verify checks the token's signature and expiry as of now and returns its
// subject.
func (ti *TokenIssuer) Verify(raw string, now time.Time) (string, error) {
	var claims jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (interface{}, error) {
		return ti.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(func() time.Time { return now }),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) && !errors.Is(err, jwt.ErrTokenSignatureInvalid) {
			return "", ErrTokenExpired
		}
		return "", ErrTokenInvalid
	}
	if claims.Subject == "" {
		return "", ErrTokenInvalid
	}
	return claims.Subject, nil
}
