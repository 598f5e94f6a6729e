package jwt_parse

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	stateIssuer = "taxibooking/oauth-state"
	tokenIssuer = "taxibooking/design-token"
)

var (
	ErrInvalidToken  = errors.New("invalid or expired token")
	ErrStateMismatch = errors.New("oauth state was not issued to this browser")
)

type stateClaims struct {
	Nonce string `json:"nonce"`
	jwt.RegisteredClaims
}

type accessClaims struct {
	AccessToken string `json:"tok"`
	jwt.RegisteredClaims
}

// SignState returns an OAuth state value and the nonce inside it. The nonce
// belongs in a cookie on the browser that starts the flow; VerifyState only
// accepts the state back together with that nonce.
func SignState(secret []byte, ttl time.Duration) (state, nonce string, err error) {
	raw := make([]byte, 16)
	if _, err := rand.Read(raw); err != nil {
		return "", "", fmt.Errorf("failed to generate state nonce: %w", err)
	}
	nonce = hex.EncodeToString(raw)

	now := time.Now()
	claims := stateClaims{
		Nonce: nonce,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    stateIssuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	state, err = jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		return "", "", err
	}
	return state, nonce, nil
}

// VerifyState checks a state value produced by SignState against the nonce
// held by the calling browser.
func VerifyState(secret []byte, state, nonce string) error {
	var claims stateClaims
	if err := parse(secret, state, stateIssuer, &claims); err != nil {
		return err
	}
	if claims.Nonce == "" || nonce == "" || subtle.ConstantTimeCompare([]byte(claims.Nonce), []byte(nonce)) != 1 {
		return ErrStateMismatch
	}
	return nil
}

// SignAccessToken wraps a design-service access token for storage in a
// cookie, so a tampered cookie is rejected before it reaches the API.
func SignAccessToken(secret []byte, accessToken string, expiresAt time.Time) (string, error) {
	claims := accessClaims{
		AccessToken: accessToken,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

// ParseAccessToken returns the access token inside a cookie value.
func ParseAccessToken(secret []byte, value string) (string, error) {
	var claims accessClaims
	if err := parse(secret, value, tokenIssuer, &claims); err != nil {
		return "", err
	}
	if claims.AccessToken == "" {
		return "", ErrInvalidToken
	}
	return claims.AccessToken, nil
}

func parse(secret []byte, tokenString, issuer string, claims jwt.Claims) error {
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return secret, nil
	},
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	)
	if err != nil || !token.Valid {
		return fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	return nil
}
