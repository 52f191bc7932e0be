package parser

import (
	"strings"

	"github.com/Marcotagoras/CODIGOS-POLLO/internal/models"
)

// Rule assigns Category when the description contains any of Keywords.
type Rule struct {
	Category models.Category
	Keywords []string
}

// Rules are evaluated in order and the first match wins.
// "PAGO SUNAT RETIRO" is SUNAT, never WITHDRAWAL.
var Rules = []Rule{
	{Category: models.CategorySUNAT, Keywords: []string{"SUNAT"}},
	{Category: models.CategoryITF, Keywords: []string{"ITF"}},
	{Category: models.CategoryTransfer, Keywords: []string{"TRANSFERENCIA"}},
	{Category: models.CategoryDeposit, Keywords: []string{"ABONO", "DEPOSITO"}},
	{Category: models.CategoryWithdrawal, Keywords: []string{"RETIRO", "CARGO"}},
}

// Categorize returns the category of a transaction description.
// Matching is by substring on the upper-cased description.
func Categorize(description string) models.Category {
	desc := strings.ToUpper(description)
	for _, rule := range Rules {
		for _, kw := range rule.Keywords {
			if strings.Contains(desc, kw) {
				return rule.Category
			}
		}
	}
	return models.CategoryOther
}
