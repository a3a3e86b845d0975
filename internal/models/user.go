package models

import (
	"strings"
	"time"
)

const (
	RoleAdmin  = "Admin"
	RoleNormal = "Normal"
)

// User & roles. Passwords are stored as bcrypt hashes.
type User struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Nom      string `gorm:"not null" json:"nom"`
	Prenom   string `json:"prenom"`
	Numero   string `json:"numero"`
	Adresse  string `json:"adresse"`
	Email    string `gorm:"index" json:"email"`
	Login    string `gorm:"not null;uniqueIndex" json:"login"`
	Password string `gorm:"not null" json:"-"`
	Role     string `gorm:"not null;default:'Normal'" json:"role"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsAdmin matches the role case-insensitively, like the menu gating does.
func (u *User) IsAdmin() bool {
	return strings.EqualFold(u.Role, RoleAdmin)
}
