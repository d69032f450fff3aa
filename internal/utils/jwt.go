package utils // package utils provides helpers for issuing and reading session tokens

import (
    "errors" // errors builds the sentinel returned for bad tokens
    "time"   // time utilities for generating expirations

    "github.com/golang-jwt/jwt/v5" // JWT library for creating and parsing signed tokens
)

// ErrInvalidToken is returned by ParseSessionToken for any token that is
// malformed, expired, signed with another key or missing its subject.
var ErrInvalidToken = errors.New("invalid session token")

// SessionToken represents a signed JWT carrying a session id along with
// its expiry.  Clients send it back as "Authorization: Bearer <token>".
type SessionToken struct {
    Token string    // the serialized JWT string
    Exp   time.Time // the UTC expiration time
}

// NewSessionToken builds and signs an HS256 JWT whose subject (sub) is the
// session id.  The identity itself is not in the token: it is loaded from
// the key-value store on every request, so logout takes effect at once.
func NewSessionToken(secret, sessionID string, ttl time.Duration, now time.Time) (SessionToken, error) {
    exp := now.UTC().Add(ttl)
    claims := jwt.MapClaims{
        "sub": sessionID,
        "exp": exp.Unix(),
        "iat": now.UTC().Unix(),
    }
    t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
    signed, err := t.SignedString([]byte(secret))
    if err != nil {
        return SessionToken{}, err
    }
    return SessionToken{Token: signed, Exp: exp}, nil
}

// ParseSessionToken verifies raw and returns the session id it carries.
func ParseSessionToken(secret, raw string) (string, error) {
    tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
        // Reject anything that is not HMAC; HS256 is the only method we issue.
        if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
            return nil, ErrInvalidToken
        }
        return []byte(secret), nil
    })
    if err != nil || !tok.Valid {
        return "", ErrInvalidToken
    }
    claims, ok := tok.Claims.(jwt.MapClaims)
    if !ok {
        return "", ErrInvalidToken
    }
    sid, _ := claims["sub"].(string)
    if sid == "" {
        return "", ErrInvalidToken
    }
    return sid, nil
}
