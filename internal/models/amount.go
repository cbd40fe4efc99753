package models

import (
	"errors"
	"math/big"
	"strings"
)

// Amount is a money value kept as canonical decimal text with two fractional digits.
type Amount string

var errInvalidAmount = errors.New("not a decimal amount")

// ParseAmount accepts "2500", "2500.5", "2 500,50" and similar inputs.
func ParseAmount(raw string) (Amount, error) {
	s := strings.ReplaceAll(strings.TrimSpace(raw), " ", "")
	s = strings.Replace(s, ",", ".", 1)
	if s == "" || strings.Trim(s, "+-0123456789.") != "" {
		return "", errInvalidAmount
	}
	r, ok := new(big.Rat).SetString(s)
	if !ok {
		return "", errInvalidAmount
	}
	return Amount(r.FloatString(2)), nil
}

func (a Amount) String() string {
	return string(a)
}
