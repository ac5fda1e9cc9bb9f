// Package idgen generates record IDs.
package idgen

import (
	"strconv"
	"sync/atomic"

	"github.com/artpar/themedesigner/ports"
	"github.com/google/uuid"
)

// UUID generates random (v4) UUIDs.
type UUID struct{}

// New returns a new UUID string.
func (UUID) New() string {
	return uuid.New().String()
}

var _ ports.IDGenerator = UUID{}

// Sequential generates prefix1, prefix2, ... Tests only.
type Sequential struct {
	prefix  string
	counter atomic.Uint64
}

// NewSequential creates a sequential ID generator.
func NewSequential(prefix string) *Sequential {
	return &Sequential{prefix: prefix}
}

// New returns the next ID.
func (s *Sequential) New() string {
	return s.prefix + strconv.FormatUint(s.counter.Add(1), 10)
}

var _ ports.IDGenerator = (*Sequential)(nil)
