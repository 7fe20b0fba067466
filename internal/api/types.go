package api

import (
	"bytes"
	"fmt"
	"reflect"

	"github.com/danielgtaylor/huma/v2"
	"github.com/goccy/go-json"

	"github.com/listenupapp/bookstore-server/internal/domain"
)

// PriceInput accepts a price as a JSON string ("1515.00") or a number
// (1515). The literal text is kept so no precision is lost before the
// service parses it.
type PriceInput string

// UnmarshalJSON implements json.Unmarshaler.
func (p *PriceInput) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*p = ""
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*p = PriceInput(s)
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return fmt.Errorf("price must be a string or number: %w", err)
		}
		*p = PriceInput(n.String())
	}
	return nil
}

// Schema implements huma.SchemaProvider.
func (PriceInput) Schema(_ huma.Registry) *huma.Schema {
	return &huma.Schema{
		Description: "Decimal price with up to 5 integer digits and 2 decimal places",
		Examples:    []any{"1515.00"},
		OneOf: []*huma.Schema{
			{Type: huma.TypeString},
			{Type: huma.TypeNumber},
		},
	}
}

// String returns the raw price text.
func (p PriceInput) String() string { return string(p) }

// OptionalRate tells apart a missing "rate" key, an explicit null and a
// value. Range checks happen in the service so the error message can name
// the offending value.
type OptionalRate struct {
	Sent  bool
	Null  bool
	Value int
}

// UnmarshalJSON is only called when the key is present.
func (o *OptionalRate) UnmarshalJSON(data []byte) error {
	o.Sent = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		o.Null = true
		return nil
	}
	return json.Unmarshal(data, &o.Value)
}

// Schema implements huma.SchemaProvider.
func (o OptionalRate) Schema(r huma.Registry) *huma.Schema {
	s := *r.Schema(reflect.TypeOf(o.Value), true, "")
	s.Nullable = true
	s.Description = fmt.Sprintf("Rating from %d to %d, or null to clear it", domain.RateMin, domain.RateMax)
	return &s
}

// toDomain converts the wire value into a domain.OptionalRate.
func (o OptionalRate) toDomain() domain.OptionalRate {
	switch {
	case !o.Sent:
		return domain.OptionalRate{}
	case o.Null:
		return domain.ClearRate()
	default:
		return domain.SetRate(o.Value)
	}
}
