package repository

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	appErrors "github.com/noah-isme/school-billing-api/pkg/errors"
)

// Page bounds applied when callers pass nothing sensible.
const (
	DefaultLimit = 10
	MaxLimit     = 100
)

// NormalizePage clamps an offset/limit pair to the bounds every listing uses.
func NormalizePage(offset, limit int) (int, int) {
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return offset, limit
}

// whereBuilder collects AND-ed conditions written with ? placeholders; the
// final query is rebound to the driver's bind style by sqlx.
type whereBuilder struct {
	conditions []string
	args       []interface{}
}

func (w *whereBuilder) add(condition string, args ...interface{}) {
	w.conditions = append(w.conditions, condition)
	w.args = append(w.args, args...)
}

func (w *whereBuilder) clause() string {
	if len(w.conditions) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.conditions, " AND ")
}

// attribute maps a public filter key onto a column and a value parser.
type attribute struct {
	column string
	parse  func(raw string) (interface{}, error)
}

// attributeSet is the explicit list of keys an entity can be filtered by.
// Internal column names never leak into the public filter surface.
type attributeSet map[string]attribute

var studentAttributes = attributeSet{
	"id":         {column: "s.id", parse: parseInteger},
	"email":      {column: "s.email", parse: parseText},
	"first_name": {column: "s.first_name", parse: parseText},
	"last_name":  {column: "s.last_name", parse: parseText},
	"age":        {column: "s.age", parse: parseInteger},
}

var schoolAttributes = attributeSet{
	"id":   {column: "sc.id", parse: parseInteger},
	"ref":  {column: "sc.ref", parse: parseText},
	"name": {column: "sc.name", parse: parseText},
}

// Keys lists the supported attribute names in sorted order.
func (a attributeSet) Keys() []string {
	keys := make([]string, 0, len(a))
	for key := range a {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// apply adds one equality condition per known key. Unknown keys are skipped
// so a query with an unsupported key matches the same query without it; in
// strict mode they fail instead. Keys are visited in sorted order so the
// generated SQL is stable.
func (a attributeSet) apply(w *whereBuilder, values map[string]string, strict bool) error {
	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		attr, ok := a[key]
		if !ok {
			if strict {
				return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported filter %q (supported: %s)", key, strings.Join(a.Keys(), ", ")))
			}
			continue
		}
		value, err := attr.parse(values[key])
		if err != nil {
			return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, fmt.Sprintf("invalid value for filter %q", key))
		}
		w.add(attr.column+" = ?", value)
	}
	return nil
}

// IgnoredStudentFilters lists the keys a student listing does not support.
func IgnoredStudentFilters(values map[string]string) []string {
	return studentAttributes.unknown(values)
}

// IgnoredSchoolFilters lists the keys a school listing does not support.
func IgnoredSchoolFilters(values map[string]string) []string {
	return schoolAttributes.unknown(values)
}

func (a attributeSet) unknown(values map[string]string) []string {
	var keys []string
	for key := range values {
		if _, ok := a[key]; !ok {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys
}

func parseText(raw string) (interface{}, error) {
	return raw, nil
}

func parseInteger(raw string) (interface{}, error) {
	return strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
}
