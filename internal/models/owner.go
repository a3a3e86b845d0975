package models

import "time"

// Owner is the singleton-per-installation business profile used for
// invoice headers.
type Owner struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	Nom       string `json:"nom"`
	Adresse   string `json:"adresse"`
	Telephone string `json:"telephone"`
	LogoPath  string `json:"logo_path"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
