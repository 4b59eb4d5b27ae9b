package domain

import "time"

const (
	RoleBuyer     = "buyer"
	RoleDeveloper = "developer"
	RoleAdmin     = "admin"
)

// ValidRole reports whether role is one of the known account roles.
func ValidRole(role string) bool {
	return role == RoleBuyer || role == RoleDeveloper || role == RoleAdmin
}

// User models an account in the marketplace.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	Verified     bool      `json:"verified"`
	AvatarURL    string    `json:"avatar_url,omitempty"`
	Bio          string    `json:"bio,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

const (
	TokenKindEmailVerification = "email"
	TokenKindPasswordReset     = "password_reset"
)

// AccountToken is a single-use token for email verification or password reset.
type AccountToken struct {
	ID        string
	UserID    string
	Token     string
	Kind      string
	Used      bool
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Expired reports whether the token is past its expiry at the given instant.
func (t AccountToken) Expired(now time.Time) bool {
	return now.After(t.ExpiresAt)
}
