package models

import "time"

// Client entity
type Client struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	Nom          string `gorm:"not null;index" json:"nom"`
	Prenom       string `json:"prenom"`
	Numero       string `json:"numero"` // téléphone
	Adresse      string `json:"adresse"`
	Email        string `json:"email"`
	NumeroClient string `gorm:"size:40;uniqueIndex" json:"numero_client"` // référence client générée

	// Suppression d'un client => suppression en cascade de ses transactions
	Transactions []SaleTransaction `gorm:"foreignKey:ClientID;constraint:OnDelete:CASCADE" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
