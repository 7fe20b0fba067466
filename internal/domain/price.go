package domain

import (
	"errors"
	"strconv"
	"strings"
)

const (
	// PriceMaxDigits is the total number of digits a price may carry.
	PriceMaxDigits = 7
	// PriceDecimalPlaces is the number of digits after the decimal point.
	PriceDecimalPlaces = 2
)

// Price parsing errors. Messages are user facing.
var (
	ErrPriceInvalid       = errors.New("a valid number is required")
	ErrPriceDecimalPlaces = errors.New("ensure that there are no more than 2 decimal places")
	ErrPriceTooManyDigits = errors.New("ensure that there are no more than 5 digits before the decimal point")
)

// Price is a fixed 2-decimal currency amount stored in cents.
type Price int64

// ParsePrice parses a decimal string such as "1515", "1515.5" or "-3.10".
func ParsePrice(s string) (Price, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrPriceInvalid
	}

	negative := false
	switch s[0] {
	case '-':
		negative = true
		s = s[1:]
	case '+':
		s = s[1:]
	}

	whole, frac, _ := strings.Cut(s, ".")
	if whole == "" && frac == "" {
		return 0, ErrPriceInvalid
	}
	if !allDigits(whole) || !allDigits(frac) {
		return 0, ErrPriceInvalid
	}

	whole = strings.TrimLeft(whole, "0")
	frac = strings.TrimRight(frac, "0")

	if len(frac) > PriceDecimalPlaces {
		return 0, ErrPriceDecimalPlaces
	}
	if len(whole)+PriceDecimalPlaces > PriceMaxDigits {
		return 0, ErrPriceTooManyDigits
	}

	var units int64
	if whole != "" {
		n, err := strconv.ParseInt(whole, 10, 64)
		if err != nil {
			return 0, ErrPriceInvalid
		}
		units = n
	}

	for len(frac) < PriceDecimalPlaces {
		frac += "0"
	}
	cents, err := strconv.ParseInt(frac, 10, 64)
	if err != nil {
		return 0, ErrPriceInvalid
	}

	total := units*100 + cents
	if negative {
		total = -total
	}
	return Price(total), nil
}

// MustParsePrice is like ParsePrice but panics on malformed input.
// Intended for fixtures and tests.
func MustParsePrice(s string) Price {
	p, err := ParsePrice(s)
	if err != nil {
		panic("domain: invalid price " + strconv.Quote(s) + ": " + err.Error())
	}
	return p
}

// Cents returns the amount in cents.
func (p Price) Cents() int64 {
	return int64(p)
}

// String renders the price with exactly two decimals, e.g. "1515.00".
func (p Price) String() string {
	cents := int64(p)
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	frac := strconv.FormatInt(cents%100, 10)
	if len(frac) < 2 {
		frac = "0" + frac
	}
	return sign + strconv.FormatInt(cents/100, 10) + "." + frac
}

// MarshalJSON encodes the price as a decimal string.
func (p Price) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(p.String())), nil
}

// UnmarshalJSON accepts either a JSON string ("12.50") or a JSON number (12.5).
func (p *Price) UnmarshalJSON(b []byte) error {
	raw := string(b)
	if unquoted, err := strconv.Unquote(raw); err == nil {
		raw = unquoted
	}
	parsed, err := ParsePrice(raw)
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
