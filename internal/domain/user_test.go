package domain

import (
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestNewUser(t *testing.T) {
	t.Parallel()

	user, err := NewUser("ops@example.com", "a-long-enough-password")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if user.ID == uuid.Nil {
		t.Error("Expected non-nil UUID, got nil UUID")
	}

	if user.Email != "ops@example.com" {
		t.Errorf("Expected email %q, got %q", "ops@example.com", user.Email)
	}

	// Invalid email
	if _, err = NewUser("not-an-email", "a-long-enough-password"); err != ErrInvalidEmail {
		t.Errorf("Expected error %v, got %v", ErrInvalidEmail, err)
	}

	// Short password
	if _, err = NewUser("ops@example.com", "short"); err != ErrPasswordTooShort {
		t.Errorf("Expected error %v, got %v", ErrPasswordTooShort, err)
	}

	// Over-long password
	if _, err = NewUser("ops@example.com", strings.Repeat("p", MaxPasswordLength+1)); err != ErrPasswordTooLong {
		t.Errorf("Expected error %v, got %v", ErrPasswordTooLong, err)
	}
}

func TestUserValidateWithHashOnly(t *testing.T) {
	t.Parallel()

	user := &User{
		ID:             uuid.New(),
		Email:          "ops@example.com",
		HashedPassword: "$2a$10$fakehashfortesting",
	}

	if err := user.Validate(); err != nil {
		t.Errorf("Expected hash-only user to validate, got %v", err)
	}

	user.HashedPassword = ""
	if err := user.Validate(); err != ErrEmptyPassword {
		t.Errorf("Expected error %v, got %v", ErrEmptyPassword, err)
	}
}
