// Package format renders ledger amounts for display.
package format

import (
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

const (
	DefaultLocale   = "pt-BR"
	DefaultCurrency = "BRL"
)

// Formatter renders amounts in one locale and currency.
type Formatter struct {
	symbol string

	group     string // empty when the locale does not group
	decimal   string
	groupFour bool // whether four-digit integers are grouped too
}

// New builds a Formatter. Empty or unparsable values fall back to pt-BR and BRL.
func New(locale, currencyCode string) Formatter {
	tag, err := language.Parse(strings.TrimSpace(locale))
	if err != nil || strings.TrimSpace(locale) == "" {
		tag = language.MustParse(DefaultLocale)
	}
	unit, err := currency.ParseISO(strings.TrimSpace(currencyCode))
	if err != nil {
		unit = currency.MustParseISO(DefaultCurrency)
	}
	p := message.NewPrinter(tag)

	f := Formatter{symbol: p.Sprint(currency.Symbol(unit))}
	f.group, f.decimal = separators(p.Sprint(number.Decimal(12345.5, number.Scale(1))))
	f.groupFour = f.group != "" && strings.Contains(p.Sprint(number.Decimal(1234.5, number.Scale(1))), f.group)
	return f
}

// separators reads the group and decimal separators off a sample rendering
// of 12345.5.
func separators(sample string) (group, dec string) {
	var marks []string
	for _, r := range sample {
		if !unicode.IsDigit(r) {
			marks = append(marks, string(r))
		}
	}
	switch len(marks) {
	case 0:
		return "", "."
	case 1:
		return "", marks[0]
	default:
		return marks[0], marks[len(marks)-1]
	}
}

// Currency renders d with the currency symbol, locale grouping and exactly
// two fractional digits, e.g. "R$ 5.500,00". Digits come straight from the
// decimal, so amounts of any size render exactly. Negative amounts get a
// leading minus sign.
func (f Formatter) Currency(d decimal.Decimal) string {
	d = d.Round(2)
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Abs()
	}
	intPart, frac, _ := strings.Cut(d.StringFixed(2), ".")
	return sign + f.symbol + " " + f.groupDigits(intPart) + f.decimal + frac
}

func (f Formatter) groupDigits(digits string) string {
	if f.group == "" || len(digits) <= 3 || (len(digits) == 4 && !f.groupFour) {
		return digits
	}
	var b strings.Builder
	head := len(digits) % 3
	if head == 0 {
		head = 3
	}
	b.WriteString(digits[:head])
	for i := head; i < len(digits); i += 3 {
		b.WriteString(f.group)
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}
