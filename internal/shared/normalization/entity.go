package normalization

import "strings"

// entityAliases maps singular, plural and separator variants to the canonical entity name.
var entityAliases = map[string]string{
	"":        "",
	"-":       "",
	"default": "",

	"table":  "tables",
	"tables": "tables",

	"menu":       "menu",
	"menus":      "menu",
	"menu-item":  "menu",
	"menu-items": "menu",
	"menuitem":   "menu",
	"menuitems":  "menu",

	"order":  "orders",
	"orders": "orders",

	"robot":  "robot",
	"robots": "robot",

	"system": "system",
}

// NormalizeEntity converts various entity name formats to their canonical form.
//
// Example:
//
//	NormalizeEntity("Order") => "orders"
//	NormalizeEntity("menu_items") => "menu"
func NormalizeEntity(raw string) string {
	normalized := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(raw)), "_", "-")
	if canonical, found := entityAliases[normalized]; found {
		return canonical
	}
	return normalized
}

// IsValidEntity checks if the given entity name is a known entity type.
func IsValidEntity(raw string) bool {
	normalized := NormalizeEntity(raw)
	if normalized == "" {
		return false
	}
	for _, canonical := range entityAliases {
		if canonical == normalized {
			return true
		}
	}
	return false
}
