package services

import (
	"crypto/subtle"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// AccessService guards the review flow. It holds the single process-wide
// passphrase and exchanges a correct submission for a signed session token;
// there is no logout, the token simply expires.
//
// The passphrase may be configured either as plain text or as a bcrypt hash
// (recognized by its $2a$/$2b$/$2y$ prefix).
type AccessService struct {
	passphrase string
	jwtSecret  []byte
	tokenDurat time.Duration // Duration for which the session token is valid
}

// NewAccessService creates a new AccessService.
func NewAccessService(passphrase, jwtSecret string) *AccessService {
	return &AccessService{
		passphrase: passphrase,
		jwtSecret:  []byte(jwtSecret),
		tokenDurat: 8 * time.Hour, // Long enough for a review session
	}
}

// Unlock checks the submitted passphrase and, on a match, issues a session
// token carrying the purchasing role. Any other input returns ErrAuthFailed
// and leaves the gate locked.
func (s *AccessService) Unlock(passphrase string) (string, error) {
	if passphrase == "" || !s.matches(passphrase) {
		return "", ErrAuthFailed
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"role": "purchasing",
		"jti":  uuid.New().String(),
		"exp":  time.Now().Add(s.tokenDurat).Unix(),
		"iat":  time.Now().Unix(),
	})

	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to generate session token: %w", err)
	}

	return tokenString, nil
}

// matches compares the submitted passphrase against the configured secret.
func (s *AccessService) matches(passphrase string) bool {
	if isBcryptHash(s.passphrase) {
		return bcrypt.CompareHashAndPassword([]byte(s.passphrase), []byte(passphrase)) == nil
	}
	return subtle.ConstantTimeCompare([]byte(s.passphrase), []byte(passphrase)) == 1
}

// ValidateToken parses and validates a session token, returning the claims
// if valid.
func (s *AccessService) ValidateToken(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})

	if err != nil {
		log.Printf("Session token validation error: %v", err)
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		return claims, nil
	}

	return nil, fmt.Errorf("invalid token")
}

// isBcryptHash reports whether the configured secret looks like a bcrypt hash.
func isBcryptHash(value string) bool {
	return strings.HasPrefix(value, "$2a$") ||
		strings.HasPrefix(value, "$2b$") ||
		strings.HasPrefix(value, "$2y$")
}
