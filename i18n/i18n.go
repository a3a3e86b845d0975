// Package i18n provides French-first message translation for API responses.
// French is the reference language; English strings exist for a subset of
// messages and any gap falls back to the French text, then to the code.
package i18n

import "strings"

const defaultLang = "fr"

var messages = map[string]map[string]string{
	"fr": {
		"required":            "Requis",
		"must_be_positive":    "Doit être positif",
		"out_of_range":        "Hors limites",
		"invalid_choice":      "Choix invalide",
		"invalid_credentials": "Identifiants invalides",
		"product_not_found":   "Produit introuvable",
		"client_not_found":    "Client introuvable",
		"order_not_found":     "Commande introuvable",
		"insufficient_stock":  "Stock insuffisant",
		"empty_basket":        "Le panier est vide",
		"duplicate_code":      "Ce code produit existe déjà",
		"duplicate_login":     "Ce nom d'utilisateur existe déjà",
		"license_expired":     "Licence expirée",
	},
	"en": {
		"required":            "Required",
		"must_be_positive":    "Must be positive",
		"out_of_range":        "Out of range",
		"invalid_choice":      "Invalid choice",
		"invalid_credentials": "Invalid credentials",
		"product_not_found":   "Product not found",
		"client_not_found":    "Client not found",
		"order_not_found":     "Order not found",
		"insufficient_stock":  "Insufficient stock",
		"empty_basket":        "The basket is empty",
		"duplicate_code":      "This product code already exists",
		"duplicate_login":     "This username already exists",
		"license_expired":     "License expired",
	},
}

// DetectLanguage maps an Accept-Language header to a supported language,
// defaulting to French.
func DetectLanguage(header string) string {
	h := strings.ToLower(strings.TrimSpace(header))
	if strings.HasPrefix(h, "en") {
		return "en"
	}
	return defaultLang
}

// T translates a message code. Unknown languages fall back to French and
// unknown codes fall back to the code itself.
func T(lang, code string) string {
	if m, ok := messages[lang]; ok {
		if s, ok := m[code]; ok {
			return s
		}
	}
	if s, ok := messages[defaultLang][code]; ok {
		return s
	}
	return code
}
