package toolset

import "strings"

// BackendId identifies a tool's backend: a short user-facing name ("node")
// plus a full identifier ("core:node" or "ubi:cli/cli"). A backend may be
// reachable under several full identifiers (aliases for the same short
// name); all are kept for lockfile lookup.
type BackendId struct {
	short string
	full  string
	fulls []string
}

// NewBackendId builds a BackendId from a short name and one or more full
// identifiers. The first full identifier is canonical; the rest are aliases
// recorded for lockfile lookup (§3.1).
func NewBackendId(short string, fulls ...string) BackendId {
	id := BackendId{short: short}
	if len(fulls) == 0 {
		id.full = "core:" + short
		id.fulls = []string{id.full}
		return id
	}
	id.full = fulls[0]
	id.fulls = append([]string{}, fulls...)
	return id
}

// ParseBackendId splits a "prefix:name" full identifier into a BackendId,
// using the trailing path segment (or the whole name) as the short form.
func ParseBackendId(full string) BackendId {
	short := full
	if i := strings.IndexByte(full, ':'); i >= 0 {
		short = full[i+1:]
	}
	if i := strings.LastIndexByte(short, '/'); i >= 0 {
		short = short[i+1:]
	}
	return BackendId{short: short, full: full, fulls: []string{full}}
}

func (b BackendId) Short() string     { return b.short }
func (b BackendId) Full() string      { return b.full }
func (b BackendId) AllFulls() []string { return b.fulls }

func (b BackendId) String() string { return b.full }

// WithAlias returns a copy of b with an additional full identifier recorded.
func (b BackendId) WithAlias(full string) BackendId {
	b.fulls = append(append([]string{}, b.fulls...), full)
	return b
}
