package auth

import (
	"errors"
	"unicode"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrUsernameTooShort = errors.New("username must be at least 6 characters")
	ErrPasswordTooShort = errors.New("password must be at least 8 characters")
	ErrPasswordNoUpper  = errors.New("password must have at least one uppercase character")
	ErrPasswordNoLower  = errors.New("password must have at least one lowercase character")
	ErrPasswordNoDigit  = errors.New("password must have at least one digit")
)

// ValidateUsername enforces the registration username policy
func ValidateUsername(username string) error {
	if len(username) < 6 {
		return ErrUsernameTooShort
	}
	return nil
}

// ValidatePassword enforces the registration password policy: at least 8
// characters with an uppercase letter, a lowercase letter and a digit.
func ValidatePassword(password string) error {
	if len(password) < 8 {
		return ErrPasswordTooShort
	}

	var hasUpper, hasLower, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	if !hasUpper {
		return ErrPasswordNoUpper
	}
	if !hasLower {
		return ErrPasswordNoLower
	}
	if !hasDigit {
		return ErrPasswordNoDigit
	}
	return nil
}

// HashPassword produces a bcrypt hash of the password
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyPassword reports whether the password matches the stored hash
func VerifyPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
