package store

import (
	"strings"

	"github.com/listenupapp/bookstore-server/internal/domain"
)

// BookQuery narrows and orders the book list.
// The zero value lists every book ordered by id.
type BookQuery struct {
	// Price keeps only books with exactly this price.
	Price *domain.Price
	// Search terms must each appear in the name or the author name.
	Search []string
	// Ordering is applied before the id tie-breaker.
	Ordering []OrderTerm
}

// OrderField is a column the book list may be ordered by.
type OrderField string

// Orderable fields.
const (
	OrderByPrice     OrderField = "price"
	OrderByAutorName OrderField = "autor_name"
)

var orderColumns = map[OrderField]string{
	OrderByPrice:     "b.price_cents",
	OrderByAutorName: "b.autor_name",
}

// OrderTerm is one ordering key.
type OrderTerm struct {
	Field      OrderField
	Descending bool
}

// String renders the term the way it appears in the ordering parameter.
func (o OrderTerm) String() string {
	if o.Descending {
		return "-" + string(o.Field)
	}
	return string(o.Field)
}

// SQL renders the ORDER BY fragment for the term.
func (o OrderTerm) SQL() string {
	col := orderColumns[o.Field]
	if o.Descending {
		return col + " DESC"
	}
	return col + " ASC"
}

// ParseOrdering parses a comma separated ordering parameter such as
// "-price,autor_name". Unknown and duplicate fields are ignored.
func ParseOrdering(raw string) []OrderTerm {
	var terms []OrderTerm
	seen := make(map[OrderField]bool)

	for part := range strings.SplitSeq(raw, ",") {
		part = strings.TrimSpace(part)
		desc := strings.HasPrefix(part, "-")
		field := OrderField(strings.TrimPrefix(part, "-"))

		if _, ok := orderColumns[field]; !ok || seen[field] {
			continue
		}
		seen[field] = true
		terms = append(terms, OrderTerm{Field: field, Descending: desc})
	}
	return terms
}

// SplitSearchTerms splits a search parameter into terms on whitespace and commas.
func SplitSearchTerms(raw string) []string {
	raw = strings.ReplaceAll(raw, "\x00", "")
	return strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n' || r == '\r'
	})
}
