// Package auth issues and validates access tokens and resolves the
// authenticated user on incoming requests. The core pipeline never sees a
// token, only the numeric user id this package produces.
package auth

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"cruxlog/config"
	"cruxlog/models"
	"cruxlog/store"
	"cruxlog/utils"
)

const issuer = "cruxlog"

var (
	ErrNoToken      = errors.New("authorization token required")
	ErrBadCreds     = errors.New("incorrect username or password")
	ErrTokenRevoked = errors.New("token has been revoked")
)

// Login checks the credentials and returns a signed access token
func Login(username, password string) (string, error) {
	user, err := store.GetUserByName(username)
	if err != nil {
		return "", err
	}
	if user == nil || !VerifyPassword(password, user.HashedPassword) {
		return "", ErrBadCreds
	}
	return IssueToken(user.Username)
}

// IssueToken signs an access token for the username using the configured
// secret and expiry.
func IssueToken(username string) (string, error) {
	now := time.Now()
	claims := &models.AccessClaims{
		Issuer:    issuer,
		Subject:   username,
		IssuedAt:  now.Unix(),
		ExpiresAt: now.Add(config.GetTokenExpiry()).Unix(),
	}
	return utils.CreateAccessToken(claims, config.GetJWTSecret())
}

// TokenFromRequest extracts the bearer token from the Authorization header
// or, for websocket clients that cannot set headers, the token query
// parameter.
func TokenFromRequest(r *http.Request) (string, error) {
	header := r.Header.Get("Authorization")
	if header != "" {
		token := strings.TrimPrefix(header, "Bearer ")
		if token == header {
			return "", fmt.Errorf("%w: invalid authorization header format", ErrNoToken)
		}
		return token, nil
	}
	if token := r.URL.Query().Get("token"); token != "" {
		return token, nil
	}
	return "", ErrNoToken
}

// CurrentUser resolves the authenticated user on the request, rejecting
// missing, invalid and revoked tokens.
func CurrentUser(r *http.Request) (*models.User, error) {
	token, err := TokenFromRequest(r)
	if err != nil {
		return nil, err
	}

	revoked, err := store.IsTokenRevoked(token)
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, ErrTokenRevoked
	}

	claims, err := utils.VerifyAccessToken(token, utils.VerifyConfig{
		SecretKey:      config.GetJWTSecret(),
		ExpectedIssuer: issuer,
	})
	if err != nil {
		return nil, err
	}

	user, err := store.GetUserByName(claims.Subject)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("no user for subject %s", claims.Subject)
	}
	return user, nil
}

// Revoke invalidates the presented token for all future requests
func Revoke(r *http.Request) error {
	token, err := TokenFromRequest(r)
	if err != nil {
		return err
	}
	return store.RevokeToken(token)
}
