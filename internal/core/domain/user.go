package domain

import "time"

const (
	RoleAdmin = "ADMIN"
	RoleUser  = "USER"
)

// Identity is the {id, role} tuple a token asserts on behalf of a user.
// It is a snapshot taken at issuance time; the user record remains the
// canonical source of truth for the role.
type Identity struct {
	ID   string `json:"id"`
	Role string `json:"role"`
}

// User models an account in the catalog.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Surname      string    `json:"surname"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	Image        Asset     `json:"image"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Identity returns the token payload snapshot for this user.
func (u *User) Identity() Identity {
	return Identity{ID: u.ID, Role: u.Role}
}
