package codec

import (
	"fmt"
	"sort"
	"sync"
)

var (
	registryMu sync.RWMutex
	registry   = make(map[string]Schema)
)

// Register makes a schema available under its family tag. Registering the
// same tag twice panics; families are wired once at startup.
func Register(s Schema) {
	registryMu.Lock()
	defer registryMu.Unlock()
	if _, dup := registry[s.Family()]; dup {
		panic(fmt.Sprintf("codec: duplicate schema registration for %q", s.Family()))
	}
	registry[s.Family()] = s
}

// Lookup returns the schema registered under the format tag.
func Lookup(family string) (Schema, error) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	s, ok := registry[family]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFamily, family)
	}
	return s, nil
}

// Families lists the registered format tags in sorted order.
func Families() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	out := make([]string, 0, len(registry))
	for name := range registry {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
