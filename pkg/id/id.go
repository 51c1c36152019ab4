package id

import (
	"github.com/oklog/ulid/v2"
)

// New returns a time-sortable ULID string. Run and trade rows keyed by
// these sort in creation order, which keeps journal queries cheap.
func New() string {
	return ulid.Make().String()
}

// WithPrefix tags an identifier with a short type prefix, e.g.
// "run-01J...". The prefix makes mixed-table identifiers self-describing
// in logs.
func WithPrefix(prefix string) string {
	return prefix + "-" + ulid.Make().String()
}
