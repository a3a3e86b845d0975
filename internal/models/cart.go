package models

import "time"

// CartLine is one line of the in-progress sale. It lives in memory inside
// the cart service (snapshotted to the preferences store), never in the
// relational store: display fields are cached from the product at the time
// the line was added.
type CartLine struct {
	ID          string     `json:"id"` // identité de ligne, générée à l'ajout
	ProductID   uint       `json:"product_id"`
	Nom         string     `json:"nom"`
	Description string     `json:"description"`
	Prix        float64    `json:"prix"`
	Quantite    int        `json:"quantite"`
	Categorie   string     `json:"categorie"`
	Taille      string     `json:"taille"`
	DateLimite  *time.Time `json:"date_limite,omitempty"`
	DateDeVente time.Time  `json:"date_de_vente"`
}

// TotalPrice is quantity times cached unit price.
func (l CartLine) TotalPrice() float64 {
	return float64(l.Quantite) * l.Prix
}
