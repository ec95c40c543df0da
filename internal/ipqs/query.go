package ipqs

import (
	"net/url"
	"strconv"
)

// Query is an insertion-ordered set of string parameters sent to the
// provider. Typed values are encoded to their canonical string form here, at
// the boundary, so business logic never deals with string rendering.
type Query struct {
	keys   []string
	values map[string]string
}

// NewQuery returns an empty query.
func NewQuery() *Query {
	return &Query{values: make(map[string]string)}
}

// Set stores a string parameter, preserving first-insertion order.
func (q *Query) Set(key, value string) *Query {
	if _, ok := q.values[key]; !ok {
		q.keys = append(q.keys, key)
	}
	q.values[key] = value
	return q
}

// SetBool stores a boolean parameter as "true"/"false".
func (q *Query) SetBool(key string, value bool) *Query {
	return q.Set(key, strconv.FormatBool(value))
}

// SetInt stores an integer parameter.
func (q *Query) SetInt(key string, value int) *Query {
	return q.Set(key, strconv.Itoa(value))
}

// SetFloat stores a fixed-point, locale-invariant number (money amounts).
func (q *Query) SetFloat(key string, value float64) *Query {
	return q.Set(key, strconv.FormatFloat(value, 'f', 2, 64))
}

// Get returns the stored value for key, or "".
func (q *Query) Get(key string) string {
	return q.values[key]
}

// Len returns the number of parameters.
func (q *Query) Len() int {
	return len(q.keys)
}

// Encode renders the parameters as a URL query string in insertion order.
func (q *Query) Encode() string {
	if q == nil || len(q.keys) == 0 {
		return ""
	}
	var buf []byte
	for i, k := range q.keys {
		if i > 0 {
			buf = append(buf, '&')
		}
		buf = append(buf, url.QueryEscape(k)...)
		buf = append(buf, '=')
		buf = append(buf, url.QueryEscape(q.values[k])...)
	}
	return string(buf)
}
