package auth

import (
	"errors"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"cruxlog/store"
)

func TestMain(m *testing.M) {
	dir, err := os.MkdirTemp("", "cruxlog-auth-test")
	if err != nil {
		panic(err)
	}
	if err := store.Init(filepath.Join(dir, "test.db")); err != nil {
		panic(err)
	}

	code := m.Run()

	store.Close()
	os.RemoveAll(dir)
	os.Exit(code)
}

func TestValidateUsername(t *testing.T) {
	if err := ValidateUsername("short"); !errors.Is(err, ErrUsernameTooShort) {
		t.Errorf("Expected ErrUsernameTooShort, got %v", err)
	}
	if err := ValidateUsername("climber01"); err != nil {
		t.Errorf("Expected valid username, got %v", err)
	}
}

func TestValidatePassword(t *testing.T) {
	cases := []struct {
		password string
		want     error
	}{
		{"Ab1", ErrPasswordTooShort},
		{"alllower1", ErrPasswordNoUpper},
		{"ALLUPPER1", ErrPasswordNoLower},
		{"NoDigitsHere", ErrPasswordNoDigit},
		{"GoodPass1", nil},
	}
	for _, c := range cases {
		if err := ValidatePassword(c.password); !errors.Is(err, c.want) {
			t.Errorf("ValidatePassword(%q) = %v, want %v", c.password, err, c.want)
		}
	}
}

func TestHashVerifyRoundtrip(t *testing.T) {
	hash, err := HashPassword("GoodPass1")
	if err != nil {
		t.Fatalf("Failed to hash password: %v", err)
	}
	if hash == "GoodPass1" {
		t.Error("Hash must not equal the plaintext password")
	}
	if !VerifyPassword("GoodPass1", hash) {
		t.Error("Expected correct password to verify")
	}
	if VerifyPassword("WrongPass1", hash) {
		t.Error("Expected wrong password to fail verification")
	}
}

func registerUser(t *testing.T, username, password string) {
	t.Helper()
	hash, err := HashPassword(password)
	if err != nil {
		t.Fatalf("Failed to hash password: %v", err)
	}
	if _, err := store.CreateUser(username, hash); err != nil {
		t.Fatalf("Failed to create user: %v", err)
	}
}

func TestLoginAndCurrentUser(t *testing.T) {
	registerUser(t, "loginuser", "GoodPass1")

	token, err := Login("loginuser", "GoodPass1")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	r := httptest.NewRequest("GET", "/users/me", nil)
	r.Header.Set("Authorization", "Bearer "+token)

	user, err := CurrentUser(r)
	if err != nil {
		t.Fatalf("CurrentUser failed: %v", err)
	}
	if user.Username != "loginuser" {
		t.Errorf("Expected loginuser, got %s", user.Username)
	}
}

func TestLoginBadCredentials(t *testing.T) {
	registerUser(t, "creduser", "GoodPass1")

	if _, err := Login("creduser", "WrongPass1"); !errors.Is(err, ErrBadCreds) {
		t.Errorf("Expected ErrBadCreds for wrong password, got %v", err)
	}
	if _, err := Login("no-such-user", "GoodPass1"); !errors.Is(err, ErrBadCreds) {
		t.Errorf("Expected ErrBadCreds for unknown user, got %v", err)
	}
}

func TestTokenFromQueryParameter(t *testing.T) {
	registerUser(t, "socketuser", "GoodPass1")

	token, err := Login("socketuser", "GoodPass1")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	r := httptest.NewRequest("GET", "/ws?token="+token, nil)
	user, err := CurrentUser(r)
	if err != nil {
		t.Fatalf("CurrentUser via query token failed: %v", err)
	}
	if user.Username != "socketuser" {
		t.Errorf("Expected socketuser, got %s", user.Username)
	}
}

func TestMissingToken(t *testing.T) {
	r := httptest.NewRequest("GET", "/users/me", nil)
	if _, err := CurrentUser(r); !errors.Is(err, ErrNoToken) {
		t.Errorf("Expected ErrNoToken, got %v", err)
	}

	r = httptest.NewRequest("GET", "/users/me", nil)
	r.Header.Set("Authorization", "Basic abc")
	if _, err := CurrentUser(r); !errors.Is(err, ErrNoToken) {
		t.Errorf("Expected ErrNoToken for non-bearer header, got %v", err)
	}
}

func TestRevokedTokenRejected(t *testing.T) {
	registerUser(t, "revokeuser", "GoodPass1")

	token, err := Login("revokeuser", "GoodPass1")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	r := httptest.NewRequest("POST", "/logout", nil)
	r.Header.Set("Authorization", "Bearer "+token)
	if err := Revoke(r); err != nil {
		t.Fatalf("Revoke failed: %v", err)
	}

	r = httptest.NewRequest("GET", "/users/me", nil)
	r.Header.Set("Authorization", "Bearer "+token)
	if _, err := CurrentUser(r); !errors.Is(err, ErrTokenRevoked) {
		t.Errorf("Expected ErrTokenRevoked, got %v", err)
	}
}
