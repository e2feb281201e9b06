// Package catalog maps Mexican state names, as spelled by external datasets, to state identifiers.
package catalog

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// NoState is the identifier of the catch-all "SIN ESTADO" row.
const NoState = 33

var states = map[string]int{
	"AGUASCALIENTES":      1,
	"BAJA CALIFORNIA":     2,
	"BAJA CALIFORNIA SUR": 3,
	"CAMPECHE":            4,
	"COAHUILA":            5,
	"COLIMA":              6,
	"CHIAPAS":             7,
	"CHIHUAHUA":           8,
	"CIUDAD DE MEXICO":    9,
	"DURANGO":             10,
	"GUANAJUATO":          11,
	"GUERRERO":            12,
	"HIDALGO":             13,
	"JALISCO":             14,
	"ESTADO DE MEXICO":    15,
	"MICHOACAN":           16,
	"MORELOS":             17,
	"NAYARIT":             18,
	"NUEVO LEON":          19,
	"OAXACA":              20,
	"PUEBLA":              21,
	"QUERETARO":           22,
	"QUINTANA ROO":        23,
	"SAN LUIS POTOSI":     24,
	"SINALOA":             25,
	"SONORA":              26,
	"TABASCO":             27,
	"TAMAULIPAS":          28,
	"TLAXCALA":            29,
	"VERACRUZ":            30,
	"YUCATAN":             31,
	"ZACATECAS":           32,
	"SIN ESTADO":          NoState,
}

// aliases are alternative spellings found in census and georeference exports.
var aliases = map[string]string{
	"CDMX":                            "CIUDAD DE MEXICO",
	"DISTRITO FEDERAL":                "CIUDAD DE MEXICO",
	"MEXICO":                          "ESTADO DE MEXICO",
	"COAHUILA DE ZARAGOZA":            "COAHUILA",
	"MICHOACAN DE OCAMPO":             "MICHOACAN",
	"VERACRUZ DE IGNACIO DE LA LLAVE": "VERACRUZ",
	"QUERETARO DE ARTEAGA":            "QUERETARO",
}

// Normalize trims, collapses inner whitespace, upper-cases and strips accents,
// so "  Nuevo  León" becomes "NUEVO LEON".
func Normalize(name string) string {
	stripAccents := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

	plain, _, err := transform.String(stripAccents, name)
	if err != nil {
		plain = name
	}

	return cases.Upper(language.Spanish).String(strings.Join(strings.Fields(plain), " "))
}

// StateID returns the identifier for a state name. The lookup ignores case, accents
// and extra whitespace and understands common aliases.
func StateID(name string) (int, bool) {
	key := Normalize(name)
	if canonical, ok := aliases[key]; ok {
		key = canonical
	}

	id, ok := states[key]
	return id, ok
}
