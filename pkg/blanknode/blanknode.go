// Package blanknode provides blank node label generators for node map
// generation and flattening. Generators issue fresh "_:"-prefixed labels
// and remember the label issued for each previously seen identifier so
// relabeling is stable within one processing pass.
package blanknode

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// Generator issues blank node labels. Issue returns a stable label for a
// previously seen identifier, or a fresh label when identifier is "" or
// unseen.
type Generator interface {
	Issue(identifier string) string
}

// Sequential issues counter-based labels: _:b0, _:b1, ... It is safe for
// concurrent use, though processing passes normally own their generator.
type Sequential struct {
	mu      sync.Mutex
	prefix  string
	counter int
	issued  map[string]string
}

// NewSequential creates a Sequential generator with the conventional
// "b" prefix.
func NewSequential() *Sequential {
	return NewSequentialWithPrefix("b")
}

// NewSequentialWithPrefix creates a Sequential generator with a custom
// label prefix.
func NewSequentialWithPrefix(prefix string) *Sequential {
	return &Sequential{
		prefix: prefix,
		issued: make(map[string]string),
	}
}

// Issue returns the label for identifier, generating a fresh one if the
// identifier is empty or unseen.
func (g *Sequential) Issue(identifier string) string {
	g.mu.Lock()
	defer g.mu.Unlock()

	if identifier != "" {
		if label, ok := g.issued[identifier]; ok {
			return label
		}
	}
	label := fmt.Sprintf("_:%s%d", g.prefix, g.counter)
	g.counter++
	if identifier != "" {
		g.issued[identifier] = label
	}
	return label
}

// UUID issues random UUID-based labels: _:uuid-prefixed labels that are
// unique across generators, useful when node maps from independent
// documents are merged downstream.
type UUID struct {
	mu     sync.Mutex
	issued map[string]string
}

// NewUUID creates a UUID generator.
func NewUUID() *UUID {
	return &UUID{issued: make(map[string]string)}
}

// Issue returns the label for identifier, generating a fresh UUID label if
// the identifier is empty or unseen.
func (g *UUID) Issue(identifier string) string {
	g.mu.Lock()
	defer g.mu.Unlock()

	if identifier != "" {
		if label, ok := g.issued[identifier]; ok {
			return label
		}
	}
	label := "_:" + uuid.NewString()
	if identifier != "" {
		g.issued[identifier] = label
	}
	return label
}
