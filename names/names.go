// Package names resolves manifest item names into collision-free file
// names within a single output folder.
package names

import (
	"strconv"
	"strings"
	"sync"
)

// unnamedPlaceholder substitutes for names that sanitize down to nothing.
const unnamedPlaceholder = "unnamed"

// Sanitize replaces characters illegal in common filesystem paths with
// underscores, strips trailing dots and spaces, and falls back to a fixed
// placeholder when nothing is left. It is a pure function and idempotent.
func Sanitize(rawName string) string {
	sanitized := strings.Map(func(r rune) rune {
		switch r {
		case '<', '>', ':', '"', '/', '\\', '|', '?', '*':
			return '_'
		}
		return r
	}, rawName)

	sanitized = strings.TrimRight(sanitized, ". ")
	if sanitized == "" {
		return unnamedPlaceholder
	}
	return sanitized
}

// Registry tracks file names already assigned within one output folder for
// one media kind. Reserve is the only mutator and serializes access
// internally, so concurrent fetch tasks writing into the same folder can
// share a single Registry.
type Registry struct {
	mu   sync.Mutex
	used map[string]struct{}
}

// NewRegistry returns an empty registry for one output folder.
func NewRegistry() *Registry {
	return &Registry{used: make(map[string]struct{})}
}

// Reserve returns baseName+extension if unclaimed, otherwise probes
// baseName+"1"+extension, baseName+"2"+extension, ... until a free name is
// found. The returned name is reserved before Reserve returns, so no two
// calls on the same registry ever yield the same string.
func (r *Registry) Reserve(baseName, extension string) string {
	r.mu.Lock()
	defer r.mu.Unlock()

	candidate := baseName + extension
	for i := 1; ; i++ {
		if _, taken := r.used[candidate]; !taken {
			break
		}
		candidate = baseName + strconv.Itoa(i) + extension
	}
	r.used[candidate] = struct{}{}
	return candidate
}
