package core

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

const (
	// MaxTitleLength bounds entry titles, counted in characters.
	MaxTitleLength = 200

	isoDateLayout = "2006-01-02"
)

type (
	// CategoryDef is the display metadata of a category. Whether an entry is
	// income or expense is decided here, never on the entry.
	CategoryDef struct {
		Key       string `json:"key"`
		Title     string `json:"title"`
		ColorHex  string `json:"color"`
		IsExpense bool   `json:"isExpense"`
	}

	Date struct {
		time.Time
	}

	// Entry is one ledger line. Amount is a non-negative magnitude.
	Entry struct {
		ID          string          `json:"id"`
		Date        Date            `json:"date"`
		CategoryKey string          `json:"category"`
		Title       string          `json:"title"`
		Amount      decimal.Decimal `json:"amount"`
	}
)

var (
	ErrInvalidFormat = errors.New("invalid month format")
	ErrNotFound      = errors.New("not found")
	ErrValidation    = errors.New("validation failed")

	ErrInvalidDate     = errors.New("invalid date")
	ErrUnknownCategory = errors.New("unknown category")
	ErrEmptyTitle      = errors.New("empty title")
	ErrTitleTooLong    = fmt.Errorf("title too long (max %d characters)", MaxTitleLength)
	ErrInvalidAmount   = errors.New("invalid amount")
)

// NewDate creates a new Date from year, month, day at UTC midnight.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates t to its calendar day in UTC.
func DateOf(t time.Time) Date {
	y, m, d := t.UTC().Date()
	return NewDate(y, int(m), d)
}

// ParseDate parses a strict YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.ParseInLocation(isoDateLayout, strings.TrimSpace(s), time.UTC)
	if err != nil || t.Year() < MinYear {
		return Date{}, ErrInvalidDate
	}
	return Date{Time: t}, nil
}

// Validate rejects the zero Date.
func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

// TitleTooLong reports whether title exceeds MaxTitleLength characters.
func TitleTooLong(title string) bool {
	return utf8.RuneCountInString(title) > MaxTitleLength
}

// String returns the date as YYYY-MM-DD.
func (d Date) String() string {
	return d.Time.Format(isoDateLayout)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Validate checks the invariants every stored entry must hold.
func (e Entry) Validate() error {
	if err := e.Date.Validate(); err != nil {
		return err
	}
	if len(strings.TrimSpace(e.Title)) == 0 {
		return ErrEmptyTitle
	}
	if TitleTooLong(e.Title) {
		return ErrTitleTooLong
	}
	if e.Amount.IsNegative() {
		return ErrInvalidAmount
	}
	if strings.TrimSpace(e.CategoryKey) == "" {
		return ErrUnknownCategory
	}
	return nil
}
