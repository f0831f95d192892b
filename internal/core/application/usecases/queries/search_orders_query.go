package queries

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"storefront/internal/pkg/errs"
	"storefront/internal/pkg/guard"
)

const (
	DefaultSearchLimit = 20
	MaxSearchLimit     = 100
)

var (
	ErrSearchOrdersQueryIsNotConstructed = errors.New(
		"SearchOrdersQuery must be created via NewSearchOrdersQuery constructor",
	)

	idFragment = regexp.MustCompile(`^[0-9a-f-]+$`)
)

// SearchOrdersQuery finds orders by a full id or the start of one, as staff
// type it from an invoice number or a customer's message. Matching ignores
// case and a leading "INV-".
type SearchOrdersQuery struct {
	term  string
	limit int

	guard guard.ConstructorGuard
}

// NewSearchOrdersQuery normalizes term. A limit of zero selects DefaultSearchLimit.
func NewSearchOrdersQuery(term string, limit int) (SearchOrdersQuery, error) {
	term = strings.ToLower(strings.TrimSpace(term))
	term = strings.TrimPrefix(term, "inv-")
	if term == "" {
		return SearchOrdersQuery{}, errs.NewValueIsRequiredError("search term")
	}
	if !idFragment.MatchString(term) {
		return SearchOrdersQuery{}, errs.NewValueIsInvalidErrorWithCause("search term",
			fmt.Errorf("%q is not part of an order id", term))
	}

	if limit == 0 {
		limit = DefaultSearchLimit
	}
	if limit < 0 || limit > MaxSearchLimit {
		return SearchOrdersQuery{}, errs.NewValueIsOutOfRangeError("limit", limit, 1, MaxSearchLimit)
	}

	return SearchOrdersQuery{term: term, limit: limit, guard: guard.NewConstructorGuard()}, nil
}

func (q SearchOrdersQuery) Validate() error {
	return q.guard.Validate(ErrSearchOrdersQueryIsNotConstructed)
}

func (q SearchOrdersQuery) Term() string { return q.term }
func (q SearchOrdersQuery) Limit() int   { return q.limit }
