// Package idgen provides pluggable ID generation.
//
// Extraction components accept a Generator so that tests can use the
// deterministic Sequence strategy and compare output byte for byte.
package idgen

import (
	"strconv"
	"sync"

	"github.com/google/uuid"
)

// Generator produces unique string identifiers.
type Generator func() string

// Sequence returns a Generator that yields prefix1, prefix2, ... in call
// order. It is safe for concurrent use, but ids are only reproducible when
// calls happen in a fixed order.
func Sequence(prefix string) Generator {
	var (
		mu sync.Mutex
		n  int
	)
	return func() string {
		mu.Lock()
		defer mu.Unlock()
		n++
		return prefix + strconv.Itoa(n)
	}
}

// UUIDv7 returns a Generator that produces RFC 9562 UUID v7 strings.
func UUIDv7() Generator {
	return func() string {
		return uuid.Must(uuid.NewV7()).String()
	}
}

// Prefixed wraps a Generator and prepends a fixed prefix to every ID.
func Prefixed(prefix string, gen Generator) Generator {
	return func() string {
		return prefix + gen()
	}
}

// NewTemplateID returns a random UUID for a template without a caller
// supplied id.
func NewTemplateID() string {
	return uuid.NewString()
}
