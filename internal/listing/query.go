// Package listing turns list endpoint query strings into bounded, ordered
// page fetches and shapes the pagination envelope returned to clients.
package listing

import (
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"
)

const (
	DefaultLimit    = 10
	DefaultMaxLimit = 100
)

// Match selects how a filter value is compared with its column
type Match int

const (
	// Contains is a case-insensitive substring match on a text column
	Contains Match = iota
	// Equals is an exact match on a text column
	Equals
	// EqualsInt is an exact match on an integer column; non-integer values are ignored
	EqualsInt
)

// Filter maps a query parameter to a column predicate
type Filter struct {
	Param  string
	Column string
	Match  Match
}

// Sort maps a query parameter to an orderable column
type Sort struct {
	Param  string
	Column string
}

// Limits bounds the page size. Zero values fall back to the package defaults.
type Limits struct {
	Default int
	Max     int
}

// Spec is the allow-list of filters and sorts for one collection.
// Column names must be trusted identifiers; they are written into SQL as is.
// Default is the order used when the request names no usable sort.
type Spec struct {
	Filters []Filter
	Sorts   []Sort
	Default []Order
	Limits  Limits
}

// WithLimits returns a copy of the spec with the given limit bounds
func (s Spec) WithLimits(l Limits) Spec {
	s.Limits = l
	return s
}

// Predicate is a parsed filter ready to be rendered
type Predicate struct {
	Column string
	Match  Match
	Value  any
}

// Order is a parsed sort ready to be rendered
type Order struct {
	Column string
	Desc   bool
}

// Query is the request-scoped fetch plan
type Query struct {
	Limit      int
	Page       int
	Predicates []Predicate
	Orders     []Order
}

// Offset is the zero-based row offset of the requested page
func (q Query) Offset() int {
	return (q.Page - 1) * q.Limit
}

// Parse builds a Query from a raw query string. Parameters are read in the
// order they appear so that the first sort given takes precedence. Unknown
// keys and unusable values are ignored; Parse never fails.
func Parse(rawQuery string, spec Spec) Query {
	defaultLimit := spec.Limits.Default
	if defaultLimit <= 0 {
		defaultLimit = DefaultLimit
	}
	maxLimit := spec.Limits.Max
	if maxLimit <= 0 {
		maxLimit = DefaultMaxLimit
	}

	q := Query{Limit: defaultLimit, Page: 1}
	seen := make(map[string]bool)

	for _, pair := range strings.Split(rawQuery, "&") {
		if pair == "" {
			continue
		}
		rawKey, rawValue, _ := strings.Cut(pair, "=")
		key, err := url.QueryUnescape(rawKey)
		if err != nil {
			continue
		}
		value, err := url.QueryUnescape(rawValue)
		if err != nil {
			continue
		}
		value = strings.TrimSpace(value)

		// page is accepted as an alias of offset
		if key == "page" {
			key = "offset"
		}
		if seen[key] {
			continue
		}

		switch key {
		case "limit":
			seen[key] = true
			if n, err := strconv.Atoi(value); err == nil && n > 0 {
				q.Limit = min(n, maxLimit)
			}
		case "offset":
			seen[key] = true
			if n, err := strconv.Atoi(value); err == nil && n > 1 {
				q.Page = n
			}
		default:
			if f, ok := spec.filter(key); ok {
				if p, ok := f.predicate(value); ok {
					seen[key] = true
					q.Predicates = append(q.Predicates, p)
				}
				continue
			}
			if s, ok := spec.sort(key); ok {
				switch strings.ToLower(value) {
				case "asc":
					seen[key] = true
					q.Orders = append(q.Orders, Order{Column: s.Column})
				case "desc":
					seen[key] = true
					q.Orders = append(q.Orders, Order{Column: s.Column, Desc: true})
				}
			}
		}
	}

	if len(q.Orders) == 0 && len(spec.Default) > 0 {
		q.Orders = append([]Order(nil), spec.Default...)
	}

	// The row offset must stay representable, whatever page was asked for
	if maxPage := math.MaxInt / q.Limit; q.Page > maxPage {
		q.Page = maxPage
	}

	return q
}

func (s Spec) filter(param string) (Filter, bool) {
	for _, f := range s.Filters {
		if f.Param == param {
			return f, true
		}
	}
	return Filter{}, false
}

func (s Spec) sort(param string) (Sort, bool) {
	for _, srt := range s.Sorts {
		if srt.Param == param {
			return srt, true
		}
	}
	return Sort{}, false
}

func (f Filter) predicate(value string) (Predicate, bool) {
	if value == "" {
		return Predicate{}, false
	}
	switch f.Match {
	case EqualsInt:
		n, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return Predicate{}, false
		}
		return Predicate{Column: f.Column, Match: EqualsInt, Value: n}, true
	case Equals:
		return Predicate{Column: f.Column, Match: Equals, Value: value}, true
	default:
		return Predicate{Column: f.Column, Match: Contains, Value: "%" + escapeLike(value) + "%"}, true
	}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// Scoped returns a copy of q restricted to rows where column equals value.
// The scope is applied ahead of any client supplied filter.
func (q Query) Scoped(column string, value any) Query {
	predicates := make([]Predicate, 0, len(q.Predicates)+1)
	predicates = append(predicates, Predicate{Column: column, Match: Equals, Value: value})
	q.Predicates = append(predicates, q.Predicates...)
	return q
}

// Where renders the predicates as a SQL WHERE clause with positional
// placeholders starting at $start. It returns an empty clause when there
// are no predicates.
func (q Query) Where(start int) (string, []any) {
	if len(q.Predicates) == 0 {
		return "", nil
	}

	conds := make([]string, 0, len(q.Predicates))
	args := make([]any, 0, len(q.Predicates))
	for i, p := range q.Predicates {
		placeholder := fmt.Sprintf("$%d", start+i)
		switch p.Match {
		case Contains:
			conds = append(conds, p.Column+" ILIKE "+placeholder+` ESCAPE '\'`)
		default:
			conds = append(conds, p.Column+" = "+placeholder)
		}
		args = append(args, p.Value)
	}

	return "WHERE " + strings.Join(conds, " AND "), args
}

// OrderBy renders the requested orders followed by the id tiebreaker
func (q Query) OrderBy() string {
	parts := make([]string, 0, len(q.Orders)+1)
	hasID := false
	for _, o := range q.Orders {
		dir := "ASC"
		if o.Desc {
			dir = "DESC"
		}
		parts = append(parts, o.Column+" "+dir)
		if o.Column == "id" {
			hasID = true
		}
	}
	if !hasID {
		parts = append(parts, "id ASC")
	}
	return "ORDER BY " + strings.Join(parts, ", ")
}
