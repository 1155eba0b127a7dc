package cache

import (
	"sort"
	"strings"
)

// Key is a hierarchical cache key: resource, refined by operation, refined
// by a canonical parameter set. The hierarchy is what lets invalidation be
// expressed both coarsely (everything under "artwork") and precisely (one
// detail entry).
type Key string

const keySeparator = ":"

// NewKey starts a key at the resource level.
func NewKey(resource string) Key {
	return Key(strings.TrimSpace(resource))
}

// Op refines the key with an operation segment, e.g. "list" or "detail".
func (k Key) Op(op string) Key {
	return k.append(op)
}

// ID refines the key with an entity identifier.
func (k Key) ID(id string) Key {
	return k.append(id)
}

// Params refines the key with a canonical encoding of the parameter set.
// Encoding is order-independent: the same parameters always yield the same
// key. An empty set encodes as "all" so unfiltered reads stay distinct from
// the bare operation prefix.
func (k Key) Params(params map[string]string) Key {
	if len(params) == 0 {
		return k.append("all")
	}
	names := make([]string, 0, len(params))
	for name, value := range params {
		if strings.TrimSpace(value) == "" {
			continue
		}
		names = append(names, name)
	}
	if len(names) == 0 {
		return k.append("all")
	}
	sort.Strings(names)
	pairs := make([]string, 0, len(names))
	for _, name := range names {
		pairs = append(pairs, name+"="+params[name])
	}
	return k.append(strings.Join(pairs, "&"))
}

// Resource returns the top-level segment, used as the metrics label.
func (k Key) Resource() string {
	value := string(k)
	if idx := strings.Index(value, keySeparator); idx >= 0 {
		return value[:idx]
	}
	return value
}

func (k Key) String() string {
	return string(k)
}

func (k Key) append(part string) Key {
	part = strings.TrimSpace(part)
	if part == "" {
		return k
	}
	if k == "" {
		return Key(part)
	}
	return Key(string(k) + keySeparator + part)
}
