// Package core provides money parsing and handling utilities.
//
// This file contains functions for parsing monetary amounts typed by users
// into exact decimals.
package core

import (
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
)

// ParseAmount converts a user-entered decimal string to an exact amount.
//
// It accepts both dot (12.34) and comma (12,34) decimal separators and keeps
// every fractional digit; nothing is rounded. Signs, exponents, grouping
// separators and zero amounts are rejected with ErrInvalidAmount.
//
// Examples:
//
//	ParseAmount("12.34")  -> 12.34, nil
//	ParseAmount("12,34")  -> 12.34, nil
//	ParseAmount("0.005")  -> 0.005, nil
//	ParseAmount("-1")     -> 0, ErrInvalidAmount
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, ErrInvalidAmount
	}
	// Normalize decimal comma to dot
	s = strings.ReplaceAll(s, ",", ".")
	parts := strings.Split(s, ".")
	if len(parts) > 2 {
		return decimal.Zero, ErrInvalidAmount
	}
	intPart := parts[0]
	fracPart := ""
	if len(parts) == 2 {
		fracPart = parts[1]
	}
	if intPart == "" && fracPart == "" {
		return decimal.Zero, ErrInvalidAmount
	}
	for _, r := range intPart + fracPart {
		if !unicode.IsDigit(r) || r > unicode.MaxASCII {
			return decimal.Zero, ErrInvalidAmount
		}
	}
	if intPart == "" {
		intPart = "0"
	}
	normalized := intPart
	if fracPart != "" {
		normalized += "." + fracPart
	}
	d, err := decimal.NewFromString(normalized)
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}
	if !d.IsPositive() {
		return decimal.Zero, ErrInvalidAmount
	}
	return d, nil
}

// MustAmount parses a canonical decimal literal and panics on failure.
// Intended for seed data and tests.
func MustAmount(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// AmountString renders an exact amount with at least two fractional digits.
func AmountString(d decimal.Decimal) string {
	if d.Exponent() >= -2 {
		return d.StringFixed(2)
	}
	return d.String()
}
