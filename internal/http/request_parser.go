// Package http provides the JSON API over the ledger.
//
// This file implements utilities for reading request bodies. Clients may send
// JSON or form-encoded data; handlers read fields by name either way.

package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"gastos/internal/core"
)

// maxBodyBytes bounds request bodies; entries are a handful of short fields.
const maxBodyBytes = 64 << 10

var (
	// ErrBadRequest marks bodies that cannot be read or decoded.
	ErrBadRequest = errors.New("malformed request body")
	// ErrBodyTooLarge marks bodies over maxBodyBytes.
	ErrBodyTooLarge = errors.New("request body too large")
)

// RequestBodyParser handles different content types for request body parsing.
type RequestBodyParser struct {
	body        []byte
	contentType string
	jsonData    map[string]any
	formData    url.Values
	parsed      bool
	err         error
}

// NewRequestBodyParser reads the body of r once, up to maxBodyBytes.
func NewRequestBodyParser(w http.ResponseWriter, r *http.Request) *RequestBodyParser {
	p := &RequestBodyParser{
		contentType: r.Header.Get("Content-Type"),
	}
	p.body, p.err = io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	return p
}

// Parse decodes the body as JSON when it looks like a JSON object, as a form
// otherwise. Errors wrap ErrBadRequest, or ErrBodyTooLarge for bodies over
// maxBodyBytes.
func (p *RequestBodyParser) Parse() error {
	if p.parsed {
		return p.err
	}
	p.parsed = true

	if p.err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(p.err, &tooLarge) {
			p.err = fmt.Errorf("%w: limit is %d bytes", ErrBodyTooLarge, tooLarge.Limit)
			return p.err
		}
		p.err = fmt.Errorf("%w: %v", ErrBadRequest, p.err)
		return p.err
	}

	body := strings.TrimSpace(string(p.body))
	if body == "" {
		p.formData = url.Values{}
		return nil
	}

	if body[0] == '{' || strings.HasPrefix(p.contentType, "application/json") {
		// numbers stay json.Number so amounts keep every digit
		dec := json.NewDecoder(strings.NewReader(body))
		dec.UseNumber()
		p.jsonData = make(map[string]any)
		if err := dec.Decode(&p.jsonData); err != nil {
			p.err = fmt.Errorf("%w: %v", ErrBadRequest, err)
			return p.err
		}
		if _, err := dec.Token(); err != io.EOF {
			p.err = fmt.Errorf("%w: unexpected data after JSON object", ErrBadRequest)
			return p.err
		}
		return nil
	}

	p.formData, p.err = url.ParseQuery(body)
	if p.err != nil {
		p.err = fmt.Errorf("%w: %v", ErrBadRequest, p.err)
	}
	return p.err
}

// Get returns a sanitized string value from the parsed data (JSON or form).
func (p *RequestBodyParser) Get(key string) string {
	if p.jsonData != nil {
		if val, ok := p.jsonData[key]; ok {
			return sanitizeInput(stringValue(val))
		}
		return ""
	}
	if p.formData != nil {
		return sanitizeInput(p.formData.Get(key))
	}
	return ""
}

// IsJSON returns true if the parsed content was JSON.
func (p *RequestBodyParser) IsJSON() bool {
	return p.jsonData != nil
}

// EntryInput collects the entry form fields.
func (p *RequestBodyParser) EntryInput() core.EntryInput {
	return core.EntryInput{
		Date:        p.Get("date"),
		CategoryKey: p.Get("category"),
		Title:       p.Get("title"),
		Amount:      p.Get("amount"),
	}
}

// stringValue converts a decoded JSON value to the text a form would carry.
// Numbers keep their literal digits.
func stringValue(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case json.Number:
		return val.String()
	case bool:
		return strconv.FormatBool(val)
	default:
		return ""
	}
}

// sanitizeInput trims whitespace and drops control characters other than
// tab, newline and carriage return.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}
