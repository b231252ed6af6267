package core

import "strings"

// Category maps a canonical key to a display label and the spelled-out
// aliases accepted by the command parser. Matching is alias-exact rather
// than label-substring so that adding a category cannot silently change
// how an existing token resolves.
type Category struct {
	Key     string
	Label   string
	Aliases []string
}

// Categories is the fixed registry. Order matters: the parser picks the
// first category whose alias set contains the token, so the order below is
// part of the parsing contract.
var Categories = []Category{
	{Key: "food", Label: "🍔 Еда", Aliases: []string{"еда", "food"}},
	{Key: "transport", Label: "🚕 Транспорт", Aliases: []string{"транспорт", "такси", "transport"}},
	{Key: "home", Label: "🏠 Дом", Aliases: []string{"дом", "home"}},
	{Key: "fun", Label: "🎮 Развлечения", Aliases: []string{"развлечения", "игры", "fun"}},
	{Key: "other", Label: "🧾 Прочее", Aliases: []string{"прочее", "other"}},
}

// MatchCategory resolves a lower-cased token to a category key.
func MatchCategory(token string) (string, bool) {
	token = strings.ToLower(strings.TrimSpace(token))
	for _, c := range Categories {
		for _, a := range c.Aliases {
			if token == a {
				return c.Key, true
			}
		}
	}
	return "", false
}

// ValidCategory reports whether key is a known canonical category key.
func ValidCategory(key string) bool {
	for _, c := range Categories {
		if c.Key == key {
			return true
		}
	}
	return false
}

// CategoryLabel returns the display label for a key, or the key itself
// when it is unknown (mirrors how reports render stray rows).
func CategoryLabel(key string) string {
	for _, c := range Categories {
		if c.Key == key {
			return c.Label
		}
	}
	return key
}
