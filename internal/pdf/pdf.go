// Package pdf renders the printable documents of the point of sale:
// order invoices, product and client listings, inventory, sales history
// and sales summaries. Generation is pure (bytes in, bytes out); writing
// timestamped files under the export directory is the Generator's job.
package pdf

import (
	"fmt"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
)

// OwnerInfo is the merchant block printed at the top of every document.
type OwnerInfo struct {
	Nom       string
	Adresse   string
	Telephone string
	Email     string
}

// InvoiceLine is one sold article on an invoice.
type InvoiceLine struct {
	Nom          string
	Quantite     int
	PrixUnitaire float64
}

// InvoiceData carries everything needed to render one order's invoice.
type InvoiceData struct {
	OrderID     string
	Date        string
	ClientNom   string
	PaymentMode string
	Lines       []InvoiceLine
	Total       float64
}

// InvoicePDF renders an order invoice.
func InvoicePDF(owner OwnerInfo, data InvoiceData) ([]byte, error) {
	m := newDocument()
	addOwnerHeader(m, owner, "Facture")

	m.AddRow(6,
		text.NewCol(6, "Commande: "+data.OrderID, props.Text{Size: 9}),
		text.NewCol(6, "Date: "+data.Date, props.Text{Size: 9, Align: align.Right}),
	)
	client := data.ClientNom
	if client == "" {
		client = "Client de passage"
	}
	m.AddRow(6,
		text.NewCol(6, "Client: "+client, props.Text{Size: 9}),
		text.NewCol(6, "Paiement: "+data.PaymentMode, props.Text{Size: 9, Align: align.Right}),
	)
	m.AddRow(4, line.NewCol(12))

	addTableHeader(m, headerCell{6, "Article"}, headerCell{2, "Qté"}, headerCell{2, "P.U."}, headerCell{2, "Montant"})
	for _, l := range data.Lines {
		m.AddRow(5,
			text.NewCol(6, l.Nom, props.Text{Size: 8}),
			text.NewCol(2, fmt.Sprintf("%d", l.Quantite), props.Text{Size: 8, Align: align.Right}),
			text.NewCol(2, money(l.PrixUnitaire), props.Text{Size: 8, Align: align.Right}),
			text.NewCol(2, money(float64(l.Quantite)*l.PrixUnitaire), props.Text{Size: 8, Align: align.Right}),
		)
	}

	m.AddRow(4, line.NewCol(12))
	m.AddRow(7,
		text.NewCol(8, "Total", props.Text{Size: 10, Style: fontstyle.Bold}),
		text.NewCol(4, money(data.Total), props.Text{Size: 10, Style: fontstyle.Bold, Align: align.Right}),
	)

	return render(m)
}

// ProductRow is one article in the catalogue listing.
type ProductRow struct {
	Code      string
	Nom       string
	Categorie string
	PrixVente float64
	Quantite  int
}

// ProductListPDF renders the product catalogue.
func ProductListPDF(owner OwnerInfo, rows []ProductRow) ([]byte, error) {
	m := newDocument()
	addOwnerHeader(m, owner, "Liste des produits")
	addTableHeader(m, headerCell{2, "Code"}, headerCell{4, "Nom"}, headerCell{2, "Catégorie"}, headerCell{2, "Prix"}, headerCell{2, "Stock"})
	for _, p := range rows {
		m.AddRow(5,
			text.NewCol(2, p.Code, props.Text{Size: 8}),
			text.NewCol(4, p.Nom, props.Text{Size: 8}),
			text.NewCol(2, p.Categorie, props.Text{Size: 8}),
			text.NewCol(2, money(p.PrixVente), props.Text{Size: 8, Align: align.Right}),
			text.NewCol(2, fmt.Sprintf("%d", p.Quantite), props.Text{Size: 8, Align: align.Right}),
		)
	}
	return render(m)
}

// InventoryRow is one article in the stock valuation report.
type InventoryRow struct {
	Code      string
	Nom       string
	Quantite  int
	PrixAchat float64
}

// InventoryPDF renders the stock valuation report, ending with the total
// purchase value of everything on hand.
func InventoryPDF(owner OwnerInfo, rows []InventoryRow) ([]byte, error) {
	m := newDocument()
	addOwnerHeader(m, owner, "Inventaire")
	addTableHeader(m, headerCell{2, "Code"}, headerCell{4, "Nom"}, headerCell{2, "Stock"}, headerCell{2, "P. achat"}, headerCell{2, "Valeur"})
	var total float64
	for _, p := range rows {
		value := float64(p.Quantite) * p.PrixAchat
		total += value
		m.AddRow(5,
			text.NewCol(2, p.Code, props.Text{Size: 8}),
			text.NewCol(4, p.Nom, props.Text{Size: 8}),
			text.NewCol(2, fmt.Sprintf("%d", p.Quantite), props.Text{Size: 8, Align: align.Right}),
			text.NewCol(2, money(p.PrixAchat), props.Text{Size: 8, Align: align.Right}),
			text.NewCol(2, money(value), props.Text{Size: 8, Align: align.Right}),
		)
	}
	m.AddRow(4, line.NewCol(12))
	m.AddRow(7,
		text.NewCol(8, "Valeur totale du stock", props.Text{Size: 10, Style: fontstyle.Bold}),
		text.NewCol(4, money(total), props.Text{Size: 10, Style: fontstyle.Bold, Align: align.Right}),
	)
	return render(m)
}

// ClientRow is one entry in the client directory.
type ClientRow struct {
	NumeroClient string
	Nom          string
	Telephone    string
	Adresse      string
}

// ClientListPDF renders the client directory.
func ClientListPDF(owner OwnerInfo, rows []ClientRow) ([]byte, error) {
	m := newDocument()
	addOwnerHeader(m, owner, "Liste des clients")
	addTableHeader(m, headerCell{3, "Numéro"}, headerCell{4, "Nom"}, headerCell{2, "Téléphone"}, headerCell{3, "Adresse"})
	for _, c := range rows {
		m.AddRow(5,
			text.NewCol(3, c.NumeroClient, props.Text{Size: 8}),
			text.NewCol(4, c.Nom, props.Text{Size: 8}),
			text.NewCol(2, c.Telephone, props.Text{Size: 8}),
			text.NewCol(3, c.Adresse, props.Text{Size: 8}),
		)
	}
	return render(m)
}

// HistoryRow is one sale line in the sales history report.
type HistoryRow struct {
	Date         string
	Produit      string
	Quantite     int
	PrixUnitaire float64
	Client       string
}

// HistoryPDF renders the sales history over a period.
func HistoryPDF(owner OwnerInfo, period string, rows []HistoryRow) ([]byte, error) {
	m := newDocument()
	addOwnerHeader(m, owner, "Historique des ventes")
	if period != "" {
		m.AddRow(6, text.NewCol(12, period, props.Text{Size: 9, Align: align.Center}))
	}
	addTableHeader(m, headerCell{3, "Date"}, headerCell{4, "Produit"}, headerCell{1, "Qté"}, headerCell{2, "Montant"}, headerCell{2, "Client"})
	var total float64
	for _, r := range rows {
		amount := float64(r.Quantite) * r.PrixUnitaire
		total += amount
		m.AddRow(5,
			text.NewCol(3, r.Date, props.Text{Size: 8}),
			text.NewCol(4, r.Produit, props.Text{Size: 8}),
			text.NewCol(1, fmt.Sprintf("%d", r.Quantite), props.Text{Size: 8, Align: align.Right}),
			text.NewCol(2, money(amount), props.Text{Size: 8, Align: align.Right}),
			text.NewCol(2, r.Client, props.Text{Size: 8}),
		)
	}
	m.AddRow(4, line.NewCol(12))
	m.AddRow(7,
		text.NewCol(8, "Total des ventes", props.Text{Size: 10, Style: fontstyle.Bold}),
		text.NewCol(4, money(total), props.Text{Size: 10, Style: fontstyle.Bold, Align: align.Right}),
	)
	return render(m)
}

// SummaryRow is one product's aggregate in the per-product sales summary.
type SummaryRow struct {
	Produit       string
	QuantiteVendu int
	MontantTotal  float64
}

// SummaryPDF renders the per-product sales summary over a period.
func SummaryPDF(owner OwnerInfo, period string, rows []SummaryRow) ([]byte, error) {
	m := newDocument()
	addOwnerHeader(m, owner, "Résumé des ventes")
	if period != "" {
		m.AddRow(6, text.NewCol(12, period, props.Text{Size: 9, Align: align.Center}))
	}
	addTableHeader(m, headerCell{6, "Produit"}, headerCell{3, "Qté vendue"}, headerCell{3, "Montant"})
	var total float64
	for _, r := range rows {
		total += r.MontantTotal
		m.AddRow(5,
			text.NewCol(6, r.Produit, props.Text{Size: 8}),
			text.NewCol(3, fmt.Sprintf("%d", r.QuantiteVendu), props.Text{Size: 8, Align: align.Right}),
			text.NewCol(3, money(r.MontantTotal), props.Text{Size: 8, Align: align.Right}),
		)
	}
	m.AddRow(4, line.NewCol(12))
	m.AddRow(7,
		text.NewCol(9, "Total", props.Text{Size: 10, Style: fontstyle.Bold}),
		text.NewCol(3, money(total), props.Text{Size: 10, Style: fontstyle.Bold, Align: align.Right}),
	)
	return render(m)
}

func newDocument() core.Maroto {
	cfg := config.NewBuilder().
		WithLeftMargin(15).
		WithTopMargin(15).
		WithRightMargin(15).
		Build()
	return maroto.New(cfg)
}

func addOwnerHeader(m core.Maroto, owner OwnerInfo, title string) {
	name := owner.Nom
	if name == "" {
		name = "Point de vente"
	}
	m.AddRow(8, text.NewCol(12, name, props.Text{Size: 14, Style: fontstyle.Bold}))
	if owner.Adresse != "" {
		m.AddRow(4, text.NewCol(12, owner.Adresse, props.Text{Size: 8}))
	}
	contact := owner.Telephone
	if owner.Email != "" {
		if contact != "" {
			contact += " / "
		}
		contact += owner.Email
	}
	if contact != "" {
		m.AddRow(4, text.NewCol(12, contact, props.Text{Size: 8}))
	}
	m.AddRow(10, text.NewCol(12, title, props.Text{Size: 12, Style: fontstyle.Bold, Align: align.Center, Top: 3}))
}

type headerCell struct {
	size int
	text string
}

func addTableHeader(m core.Maroto, cells ...headerCell) {
	cols := make([]core.Col, 0, len(cells))
	for _, c := range cells {
		cols = append(cols, text.NewCol(c.size, c.text, props.Text{Size: 9, Style: fontstyle.Bold}))
	}
	m.AddRow(6, cols...)
	m.AddRow(2, line.NewCol(12))
}

func money(v float64) string { return fmt.Sprintf("%.2f", v) }

func render(m core.Maroto) ([]byte, error) {
	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("génération du PDF: %w", err)
	}
	return doc.GetBytes(), nil
}
