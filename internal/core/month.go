package core

import (
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// DefaultLocale is used when a label is requested for an unsupported locale.
const DefaultLocale = "pt-BR"

// Years a MonthID can hold; both bounds print as four digits.
const (
	MinYear = 1
	MaxYear = 9999
)

// MonthID identifies a calendar month as "yyyy-mm". The zero value is not a
// valid month; build one with ParseMonthID, MonthOf or CurrentMonth.
type MonthID struct {
	year  int
	month time.Month
}

var shortMonthNames = map[language.Base][12]string{
	mustBase("pt"): {"jan", "fev", "mar", "abr", "mai", "jun", "jul", "ago", "set", "out", "nov", "dez"},
	mustBase("en"): {"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"},
	mustBase("it"): {"gen", "feb", "mar", "apr", "mag", "giu", "lug", "ago", "set", "ott", "nov", "dic"},
	mustBase("es"): {"ene", "feb", "mar", "abr", "may", "jun", "jul", "ago", "sept", "oct", "nov", "dic"},
}

var (
	labelLocales = []language.Tag{
		language.BrazilianPortuguese,
		language.English,
		language.Italian,
		language.Spanish,
	}
	labelMatcher = language.NewMatcher(labelLocales)
)

func mustBase(s string) language.Base {
	return language.MustParseBase(s)
}

// ParseMonthID parses the canonical "yyyy-mm" form.
func ParseMonthID(s string) (MonthID, error) {
	if len(s) != 7 || s[4] != '-' {
		return MonthID{}, fmt.Errorf("%w: %q", ErrInvalidFormat, s)
	}
	year, ok := parseDigits(s[:4])
	if !ok || year < MinYear {
		return MonthID{}, fmt.Errorf("%w: %q", ErrInvalidFormat, s)
	}
	month, ok := parseDigits(s[5:])
	if !ok || month < 1 || month > 12 {
		return MonthID{}, fmt.Errorf("%w: %q", ErrInvalidFormat, s)
	}
	return MonthID{year: year, month: time.Month(month)}, nil
}

func parseDigits(s string) (int, bool) {
	n := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c < '0' || c > '9' {
			return 0, false
		}
		n = n*10 + int(c-'0')
	}
	return n, true
}

// MonthOf returns the month containing t, evaluated in UTC.
func MonthOf(t time.Time) MonthID {
	y, m, _ := t.UTC().Date()
	return MonthID{year: y, month: m}
}

// CurrentMonth returns the month containing now in UTC.
func CurrentMonth() MonthID {
	return MonthOf(time.Now())
}

// Year returns the calendar year.
func (m MonthID) Year() int { return m.year }

// Month returns the calendar month.
func (m MonthID) Month() time.Month { return m.month }

// IsZero reports whether m is the unset MonthID.
func (m MonthID) IsZero() bool { return m.month == 0 }

// Start returns the first instant of the month in UTC.
func (m MonthID) Start() time.Time {
	return time.Date(m.year, m.month, 1, 0, 0, 0, 0, time.UTC)
}

// Next returns the following month, rolling December over into January.
// December of MaxYear has no successor and is returned unchanged.
func (m MonthID) Next() MonthID {
	if m.year >= MaxYear && m.month == time.December {
		return m
	}
	return MonthOf(m.Start().AddDate(0, 1, 0))
}

// Previous returns the preceding month, rolling January back into December.
// January of MinYear has no predecessor and is returned unchanged.
func (m MonthID) Previous() MonthID {
	if m.year <= MinYear && m.month == time.January {
		return m
	}
	return MonthOf(m.Start().AddDate(0, -1, 0))
}

// String returns the canonical "yyyy-mm" form.
func (m MonthID) String() string {
	return fmt.Sprintf("%04d-%02d", m.year, int(m.month))
}

// Label renders the month as "Mar/2025" using the short month names of the
// closest supported locale, always with a capital first letter.
func (m MonthID) Label(locale string) string {
	if m.IsZero() {
		return ""
	}
	tag := matchLocale(locale)
	base, _ := tag.Base()
	names, ok := shortMonthNames[base]
	if !ok {
		names = shortMonthNames[mustBase("pt")]
	}
	raw := fmt.Sprintf("%s/%04d", names[m.month-1], m.year)
	return capitalizeFirst(raw, tag)
}

// MarshalText encodes m as "yyyy-mm".
func (m MonthID) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText parses "yyyy-mm".
func (m *MonthID) UnmarshalText(b []byte) error {
	parsed, err := ParseMonthID(string(b))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// IsSameMonth reports whether t's UTC year and month match m.
func IsSameMonth(t time.Time, m MonthID) bool {
	y, mo, _ := t.UTC().Date()
	return y == m.year && mo == m.month
}

func matchLocale(locale string) language.Tag {
	if strings.TrimSpace(locale) == "" {
		locale = DefaultLocale
	}
	tag, err := language.Parse(locale)
	if err != nil {
		return language.BrazilianPortuguese
	}
	_, idx, conf := labelMatcher.Match(tag)
	if conf == language.No {
		return language.BrazilianPortuguese
	}
	return labelLocales[idx]
}

func capitalizeFirst(s string, tag language.Tag) string {
	for i, r := range s {
		head := cases.Upper(tag).String(string(r))
		return head + s[i+len(string(r)):]
	}
	return s
}
