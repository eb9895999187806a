package format

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

func TestCurrency(t *testing.T) {
	tests := []struct {
		name       string
		locale     string
		code       string
		amount     string
		wantPrefix string
		wantSuffix string
	}{
		{"pt-BR grouping", "pt-BR", "BRL", "5500.00", "R$", "5.500,00"},
		{"en-US grouping", "en-US", "USD", "1234.5", "", "1,234.50"},
		{"negative", "pt-BR", "BRL", "-3300", "-", "3.300,00"},
		{"small", "pt-BR", "BRL", "7.1", "R$", " 7,10"},
		{"rounds half up", "", "not-a-currency", "0.005", "R$", " 0,01"},
		{"millions", "pt-BR", "BRL", "1234567.891", "R$", " 1.234.567,89"},
		{"beyond float precision", "pt-BR", "BRL", "12345678901234567.89", "R$", " 12.345.678.901.234.567,89"},
		{"beyond float precision en", "en", "USD", "98765432109876543.21", "", " 98,765,432,109,876,543.21"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := New(tt.locale, tt.code).Currency(decimal.RequireFromString(tt.amount))
			if !strings.HasPrefix(got, tt.wantPrefix) || !strings.HasSuffix(got, tt.wantSuffix) {
				t.Fatalf("Currency(%s) = %q, want prefix %q suffix %q", tt.amount, got, tt.wantPrefix, tt.wantSuffix)
			}
		})
	}
}

func TestCurrencyNegativeZero(t *testing.T) {
	got := New("pt-BR", "BRL").Currency(decimal.RequireFromString("-0.001"))
	if strings.HasPrefix(got, "-") {
		t.Fatalf("amount rounding to zero rendered with a sign: %q", got)
	}
}

func TestSeparators(t *testing.T) {
	tests := []struct {
		sample    string
		wantGroup string
		wantDec   string
	}{
		{"12.345,5", ".", ","},
		{"12,345.5", ",", "."},
		{"12345,5", "", ","},
	}
	for _, tt := range tests {
		group, dec := separators(tt.sample)
		if group != tt.wantGroup || dec != tt.wantDec {
			t.Fatalf("separators(%q) = %q %q, want %q %q", tt.sample, group, dec, tt.wantGroup, tt.wantDec)
		}
	}
}
