package cli

import (
	"math"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	xmessage "golang.org/x/text/message"
)

var (
	printer = xmessage.NewPrinter(language.English)
	titler  = cases.Title(language.English)
	upperer = cases.Upper(language.English)
)

var symbols = map[string]string{
	"USD": "$",
	"CAD": "CA$",
	"AUD": "A$",
	"EUR": "€",
	"GBP": "£",
	"JPY": "¥",
	"INR": "₹",
}

// Money formats an amount with grouping and the currency's symbol, e.g.
// "-$1,234.56". Unknown or empty codes format as USD.
func Money(amount float64, code string) string {
	unit, err := currency.ParseISO(code)
	if err != nil {
		unit = currency.USD
	}
	iso := unit.String()

	prefix, ok := symbols[iso]
	if !ok {
		prefix = iso + " "
	}

	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}
	if math.IsInf(amount, 0) {
		return sign + "∞"
	}
	return sign + prefix + printer.Sprintf("%.2f", amount)
}

// Percent formats a percentage with one decimal.
func Percent(v float64) string {
	return printer.Sprintf("%.1f%%", v)
}

// Label turns a metric or category key such as "burn_rate" into "Burn Rate".
func Label(key string) string {
	return titler.String(strings.ReplaceAll(key, "_", " "))
}

func upper(s string) string {
	return upperer.String(s)
}
