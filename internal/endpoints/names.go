package endpoints

import (
	"strings"

	"github.com/iancoleman/strcase"
)

var initialisms = map[string]string{
	"api":   "API",
	"id":    "ID",
	"ids":   "IDs",
	"mfa":   "MFA",
	"oauth": "OAuth",
	"sku":   "SKU",
	"url":   "URL",
}

// EndpointName normalizes a documented route title ("Get Application Assets")
// or an existing name to SCREAMING_SNAKE_CASE.
func EndpointName(title string) string {
	return strcase.ToScreamingSnake(strings.TrimSpace(title))
}

// PlaceholderName turns a documented placeholder ("application.id") into
// snake_case.
func PlaceholderName(placeholder string) string {
	return strcase.ToSnake(strings.ReplaceAll(placeholder, ".", "_"))
}

// GoName converts a snake_case or SCREAMING_SNAKE_CASE name to a Go
// identifier, keeping common initialisms upper case.
func GoName(name string, exported bool) string {
	words := strings.FieldsFunc(strings.ToLower(name), func(r rune) bool {
		return r == '_' || r == ' ' || r == '.' || r == '-'
	})

	b := strings.Builder{}

	for i, word := range words {
		switch {
		case i == 0 && !exported:
			b.WriteString(strcase.ToLowerCamel(word))
		case initialisms[word] != "":
			b.WriteString(initialisms[word])
		default:
			b.WriteString(strcase.ToCamel(word))
		}
	}

	return b.String()
}

func muxVarName(placeholder string) string {
	return strcase.ToLowerCamel(placeholder)
}
