package domain

import (
	"fmt"
	"strings"
	"time"
)

// AccountType enumerates the supported account categories.
type AccountType string

const (
	AccountTypePersonal AccountType = "personal"
	AccountTypeBusiness AccountType = "business"
)

// ParseAccountType validates and normalizes a raw account type value.
func ParseAccountType(raw string) (AccountType, error) {
	switch AccountType(strings.ToLower(strings.TrimSpace(raw))) {
	case AccountTypePersonal:
		return AccountTypePersonal, nil
	case AccountTypeBusiness:
		return AccountTypeBusiness, nil
	default:
		return "", fmt.Errorf("unknown account type %q", raw)
	}
}

// User mirrors the persisted representation in the auth.users table.
// The phone number is globally unique and immutable after creation.
type User struct {
	ID              string
	PhoneNumber     string
	Name            string
	ProfileImageURL *string
	AccountType     AccountType
	IsVerified      bool
	IsDeleted       bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// RequiresProfileSetup reports whether the user has not yet completed the
// post-verification profile setup (empty or whitespace-only display name).
func (u User) RequiresProfileSetup() bool {
	return strings.TrimSpace(u.Name) == ""
}
