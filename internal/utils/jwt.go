package utils // package utils provides helpers for session tokens and password hashing

import (
    "errors"
    "strconv"
    "time"

    "github.com/golang-jwt/jwt/v5" // JWT library for creating signed tokens
    "github.com/google/uuid"
)

// SessionClaims is the payload of a session cookie.  The registered
// subject carries the user id and the registered ID carries the session
// id persisted in the sessions table, so a token can be revoked before it
// expires.
type SessionClaims struct {
    Role string `json:"role"`
    Name string `json:"name"`
    jwt.RegisteredClaims
}

// UserID returns the numeric subject of the claims.
func (c *SessionClaims) UserID() (uint64, error) {
    return strconv.ParseUint(c.Subject, 10, 64)
}

// SessionToken is a signed token along with the session id it embeds and
// its expiry.
type SessionToken struct {
    Token string    // the serialized JWT string
    ID    string    // the jti claim
    Exp   time.Time // the UTC expiration time
}

// ErrInvalidToken is returned for any token that fails to parse, carries a
// bad signature or has expired.
var ErrInvalidToken = errors.New("invalid session token")

// NewSessionToken builds and signs an HS256 JWT for a user.  The token
// expires ttl after now.
func NewSessionToken(secret string, userID uint64, name, role string, ttl time.Duration, now time.Time) (SessionToken, error) {
    now = now.UTC()
    exp := now.Add(ttl)
    id := uuid.NewString()
    claims := SessionClaims{
        Role: role,
        Name: name,
        RegisteredClaims: jwt.RegisteredClaims{
            Subject:   strconv.FormatUint(userID, 10),
            ID:        id,
            IssuedAt:  jwt.NewNumericDate(now),
            ExpiresAt: jwt.NewNumericDate(exp),
        },
    }
    signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
    if err != nil {
        return SessionToken{}, err
    }
    return SessionToken{Token: signed, ID: id, Exp: exp}, nil
}

// ParseSessionToken verifies the signature and expiry of raw as of now
// and returns its claims.
func ParseSessionToken(secret, raw string, now time.Time) (*SessionClaims, error) {
    claims := &SessionClaims{}
    tok, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
        // Reject anything that is not HMAC signed.
        if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
            return nil, ErrInvalidToken
        }
        return []byte(secret), nil
    },
        jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
        jwt.WithExpirationRequired(),
        jwt.WithTimeFunc(func() time.Time { return now }),
    )
    if err != nil || !tok.Valid {
        return nil, ErrInvalidToken
    }
    if _, err := claims.UserID(); err != nil || claims.ID == "" {
        return nil, ErrInvalidToken
    }
    return claims, nil
}
