package utils

import (
	"errors"
	"fmt"
	"time"

	"cruxlog/models"

	"github.com/go-jose/go-jose/v4"
	"github.com/go-jose/go-jose/v4/jwt"
)

var (
	ErrInvalidToken     = errors.New("invalid token format")
	ErrTokenExpired     = errors.New("token has expired")
	ErrTokenNotYetValid = errors.New("token not yet valid")
	ErrInvalidSignature = errors.New("invalid token signature")
	ErrInvalidIssuer    = errors.New("invalid issuer")
)

// VerifyConfig holds verification configuration
type VerifyConfig struct {
	SecretKey      []byte        // For HMAC (HS256)
	PublicKey      any           // For RSA (RS256) - *rsa.PublicKey
	ExpectedIssuer string        // Optional: validate issuer
	ClockSkew      time.Duration // Optional: allow clock skew (default 0)
}

// VerifyAccessToken safely verifies and decodes a cruxlog access token
func VerifyAccessToken(tokenString string, config VerifyConfig) (*models.AccessClaims, error) {
	if tokenString == "" {
		return nil, ErrInvalidToken
	}

	// Determine which algorithms to accept based on config
	var allowedAlgs []jose.SignatureAlgorithm
	if config.SecretKey != nil {
		allowedAlgs = append(allowedAlgs, jose.HS256)
	}
	if config.PublicKey != nil {
		allowedAlgs = append(allowedAlgs, jose.RS256)
	}

	if len(allowedAlgs) == 0 {
		return nil, errors.New("no verification key provided")
	}

	// Parse the token
	tok, err := jwt.ParseSigned(tokenString, allowedAlgs)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	// Prepare claims struct
	claims := &models.AccessClaims{}

	// Verify signature and extract claims
	var verifyErr error
	if config.SecretKey != nil {
		verifyErr = tok.Claims(config.SecretKey, claims)
	} else if config.PublicKey != nil {
		verifyErr = tok.Claims(config.PublicKey, claims)
	}

	if verifyErr != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSignature, verifyErr)
	}

	// Validate timestamps
	now := time.Now().Unix()
	clockSkew := int64(config.ClockSkew.Seconds())

	// Check expiry
	if claims.ExpiresAt > 0 && claims.ExpiresAt < (now-clockSkew) {
		return nil, ErrTokenExpired
	}

	// Check issued at (not in future)
	if claims.IssuedAt > 0 && claims.IssuedAt > (now+clockSkew) {
		return nil, ErrTokenNotYetValid
	}

	// Validate issuer if specified
	if config.ExpectedIssuer != "" && claims.Issuer != config.ExpectedIssuer {
		return nil, fmt.Errorf("%w: expected '%s', got '%s'",
			ErrInvalidIssuer, config.ExpectedIssuer, claims.Issuer)
	}

	return claims, nil
}

// CreateAccessToken creates a signed HS256 token from the given claims
func CreateAccessToken(claims *models.AccessClaims, secretKey []byte) (string, error) {
	if claims == nil {
		return "", errors.New("claims cannot be nil")
	}
	if len(secretKey) == 0 {
		return "", errors.New("secret key cannot be empty")
	}

	// Create the signer
	signer, err := jose.NewSigner(jose.SigningKey{Algorithm: jose.HS256, Key: secretKey}, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create signer: %w", err)
	}

	// Create the JWT
	token, err := jwt.Signed(signer).Claims(claims).Serialize()
	if err != nil {
		return "", fmt.Errorf("failed to create token: %w", err)
	}

	return token, nil
}
