// Package money renders FCFA amounts the way the MALABRO shop displays them:
// fr-FR digit grouping, no fraction digits, "F CFA" label.
package money

import (
	"fmt"
	"math"
	"strings"

	"github.com/eworkforce/malabro-cart/internal/domain"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.French)

// Format renders an amount as e.g. "2 000 F CFA" (French digit grouping,
// rounded to whole francs).
func Format(amount float64) string {
	return printer.Sprintf("%d F CFA", int64(math.Round(amount)))
}

// FormatWithUnit renders a unit price as e.g. "1000 F CFA / Kg". The price is
// floored, the unit abbreviation is preferred over its name, and the slash is
// omitted when no unit is set. No digit grouping here; this matches the
// product-card rendering rather than the cart totals.
func FormatWithUnit(price float64, unit *domain.UnitOfMeasure) string {
	p := int64(math.Floor(price))

	label := ""
	if unit != nil {
		label = strings.TrimSpace(unit.Abbreviation)
		if label == "" {
			label = strings.TrimSpace(unit.Name)
		}
	}

	if label == "" {
		return fmt.Sprintf("%d F CFA", p)
	}
	return fmt.Sprintf("%d F CFA / %s", p, label)
}
