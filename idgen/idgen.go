// Package idgen supplies unique identifiers for new todo items. The default
// generator is UUID-backed; a deterministic sequential generator exists for
// tests.
package idgen

import (
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"
)

// Generator produces unique identifiers.
type Generator interface {
	NewID() string
}

// UUID generates random UUIDv4 identifiers.
type UUID struct{}

func (UUID) NewID() string { return uuid.NewString() }

// Sequential generates deterministic identifiers of the form
// "<prefix>-000001", "<prefix>-000002", and so on.
type Sequential struct {
	prefix string
	n      atomic.Uint64
}

// NewSequential creates a deterministic generator. An empty prefix defaults
// to "todo".
func NewSequential(prefix string) *Sequential {
	if prefix == "" {
		prefix = "todo"
	}
	return &Sequential{prefix: prefix}
}

func (g *Sequential) NewID() string {
	return fmt.Sprintf("%s-%06d", g.prefix, g.n.Add(1))
}
