// Package core defines the household finance domain model.
//
// This file contains parsing and rounding helpers for monetary amounts.
// Amounts are currency-agnostic float64 values; exact decimal handling is
// only needed at the input boundary, where user-entered strings are parsed.
package core

import (
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// ParseAmount converts a user-entered decimal string into a non-negative
// amount. It accepts both dot (12.34) and comma (12,34) separators and
// rounds to two decimal places. Negative values and malformed strings
// return ErrInvalidAmount.
//
// Examples:
//
//	ParseAmount("12.34")  -> 12.34, nil
//	ParseAmount("12,34")  -> 12.34, nil
//	ParseAmount("-5")     -> 0, ErrInvalidAmount
func ParseAmount(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidAmount
	}
	s = strings.ReplaceAll(s, ",", ".")
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	if d.IsNegative() {
		return 0, ErrInvalidAmount
	}
	return d.Round(2).InexactFloat64(), nil
}

// ParseFrequency converts a user-entered billing frequency (months between
// occurrences) into a positive float64. An empty string means the field was
// never set and maps to zero, the domain's "monthly by default" marker.
func ParseFrequency(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	s = strings.ReplaceAll(s, ",", ".")
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, ErrInvalidFrequency
	}
	if d.IsNegative() {
		return 0, ErrInvalidFrequency
	}
	return d.InexactFloat64(), nil
}

// RoundUnit rounds to the nearest whole unit of currency. Display-facing
// projection figures use it; internal accumulation never does.
func RoundUnit(v float64) float64 {
	return math.Round(v)
}
