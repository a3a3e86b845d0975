package models

import "time"

// PaymentMode is the payment method recorded on a sale transaction.
type PaymentMode string

const (
	PaymentCash PaymentMode = "cash"
	PaymentCard PaymentMode = "card"
)

// Valid reports whether the mode is one of the accepted values.
func (m PaymentMode) Valid() bool {
	return m == PaymentCash || m == PaymentCard
}

// SaleTransaction is one committed line of a checkout. Rows are immutable
// once written; they are only removed by cascade when the product or client
// is deleted.
type SaleTransaction struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Quantite    int       `gorm:"not null" json:"quantite"`
	DateDeVente time.Time `gorm:"not null;index" json:"date_de_vente"`

	ProductID uint    `gorm:"not null;index" json:"product_id"`
	Product   Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`

	ClientID *uint   `gorm:"index" json:"client_id,omitempty"`
	Client   *Client `gorm:"foreignKey:ClientID" json:"client,omitempty"`

	// OrderID regroupe toutes les lignes d'un même passage en caisse
	OrderID int64 `gorm:"not null;index" json:"order_id"`

	PaymentMode PaymentMode `gorm:"size:10;not null" json:"payment_mode"`

	// Prix de vente unitaire au moment de la vente (snapshot). Le reporting
	// l'utilise pour que l'historique ne bouge pas quand le prix change.
	PrixUnitaire float64 `gorm:"not null" json:"prix_unitaire"`

	CreatedAt time.Time `json:"created_at"`
}
