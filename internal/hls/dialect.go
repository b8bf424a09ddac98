package hls

import (
	"fmt"
	"strings"
)

// Dialect selects the numeric library the generated code is written against.
type Dialect string

const (
	// DialectAP is the bounded-width library (ap_int, ap_fixed).
	DialectAP Dialect = "ap"

	// DialectAC is the algorithmic library (ac_int, ac_fixed).
	DialectAC Dialect = "ac"
)

// ValidDialects defines the allowed dialects.
var ValidDialects = []Dialect{DialectAP, DialectAC}

// ParseDialect parses a dialect name ("ap" or "ac", case-insensitive).
func ParseDialect(s string) (Dialect, error) {
	d := Dialect(strings.ToLower(strings.TrimSpace(s)))
	if !d.Valid() {
		return "", fmt.Errorf("invalid dialect %q: must be one of %v", s, ValidDialects)
	}
	return d, nil
}

// Valid reports whether d is a known dialect.
func (d Dialect) Valid() bool {
	return d == DialectAP || d == DialectAC
}

// Upper returns "AP" or "AC".
func (d Dialect) Upper() string {
	return strings.ToUpper(string(d))
}

// Prefix returns the type name prefix, "ap_" or "ac_".
func (d Dialect) Prefix() string {
	return string(d) + "_"
}

// modeToken renders a rounding or saturation mode name for this dialect.
// Returns "" for an unset mode.
func (d Dialect) modeToken(mode string) string {
	if mode == "" {
		return ""
	}
	return d.Upper() + "_" + mode
}
