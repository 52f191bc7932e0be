package parser

import "regexp"

// DefaultLayout handles "ESTADO DE CUENTA NEGOCIOS" business account statements.
//
// Header lines look like:
//
//	ESTADO DE CUENTA NEGOCIOS Mes: MARZO 2025
//	MONEDA: SOLES
//
// and each movement occupies one line:
//
//	01/03 02/03 PAGO SUNAT RUC 2060   -1,200.00   5,400.00
//
// The second date is the value date and is not kept. Patterns run against
// diacritic-folded text, so DÓLARES arrives here as DOLARES.
var DefaultLayout = &Layout{
	Name:     "negocios",
	Currency: regexp.MustCompile(`(?i)MONEDA:\s+(SOLES|DOLARES)`),
	Period:   regexp.MustCompile(`(?i)ESTADO DE CUENTA NEGOCIOS\s+Mes:\s+([A-Za-z]+)\s+(\d{4})`),
	// Blanks are [ \t] so a match never spans two lines.
	Line: regexp.MustCompile(
		`(\d{2}/\d{2})[ \t]+\d{2}/\d{2}[ \t]+(.+?)` +
			`[ \t]+(-?[\d,]+\.\d{2})[ \t]+(-?[\d,]+\.\d{2})`,
	),
}
