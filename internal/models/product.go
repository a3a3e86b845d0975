package models

import "time"

// Product entity
type Product struct {
	ID          uint    `gorm:"primaryKey" json:"id"`
	Code        string  `gorm:"size:40;not null;uniqueIndex" json:"code"` // code affiché unique
	Nom         string  `gorm:"not null;index" json:"nom"`
	Description string  `json:"description"`
	Categorie   string  `gorm:"index" json:"categorie"`
	Taille      string  `json:"taille"`
	UniteMesure string  `json:"unite_mesure"` // ex: pièce, kg, litre
	PrixAchat   float64 `json:"prix_achat"`
	PrixVente   float64 `gorm:"not null" json:"prix_vente"`
	// Quantité en stock; jamais négative (décrémentée par le checkout)
	Quantite       int        `gorm:"not null;default:0;check:quantite >= 0" json:"quantite"`
	DateExpiration *time.Time `json:"date_expiration,omitempty"`

	// Suppression d'un produit => suppression en cascade de ses ventes
	Sales []SaleTransaction `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
