// Package lockfile implements the Lockfile Engine (§4.5): a multi-platform,
// content-integrity TOML lockfile with merge-preserving updates and
// round-trip-stable canonical formatting.
package lockfile

import (
	"fmt"
	"os"
	"sort"

	"github.com/BurntSushi/toml"

	"github.com/gnodet/mvx/pkg/toolset"
)

// Tool is one resolved, versioned entry for a short tool name (§3.1's
// LockfileTool).
type Tool struct {
	Version   string                          `toml:"version"`
	Backend   string                          `toml:"backend,omitempty"`
	Platforms map[string]toolset.PlatformInfo `toml:"platforms,omitempty"`
}

// Lockfile is the in-memory form of a `.lock`/`.local.lock` file: a map from
// short tool name to its (possibly multi-version) entry list.
type Lockfile struct {
	Path  string
	Tools map[string][]Tool
}

// New returns an empty lockfile bound to path (not yet written to disk).
func New(path string) *Lockfile {
	return &Lockfile{Path: path, Tools: make(map[string][]Tool)}
}

// Load reads and parses a lockfile at path. A missing file is not an error:
// it returns an empty Lockfile, since creation is reserved for an explicit
// lock operation (§4.5).
func Load(path string) (*Lockfile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return New(path), nil
		}
		return nil, fmt.Errorf("read lockfile %s: %w", path, err)
	}
	lf, err := parse(data)
	if err != nil {
		// A corrupt lockfile degrades to empty rather than aborting the run
		// (§7): the caller is expected to log the returned error and proceed
		// as if nothing were locked.
		return New(path), fmt.Errorf("lockfile %s is unreadable, treating as empty: %w", path, err)
	}
	lf.Path = path
	return lf, nil
}

// rawTable is the legacy single-version shape: `[tools.node]`.
type rawTable struct {
	Version   string                          `toml:"version"`
	Backend   string                          `toml:"backend"`
	Platforms map[string]toolset.PlatformInfo `toml:"platforms"`
}

// parse decodes either shape tools can take on disk: an array of tables
// (`[[tools.node]]`, current form) or a single inline table (`[tools.node]`,
// legacy form that §4.5 says is auto-migrated on read).
func parse(data []byte) (*Lockfile, error) {
	var doc struct {
		Tools map[string]toml.Primitive `toml:"tools"`
	}
	md, err := toml.Decode(string(data), &doc)
	if err != nil {
		return nil, err
	}
	lf := New("")
	for name, prim := range doc.Tools {
		var asArray []rawTable
		if err := md.PrimitiveDecode(prim, &asArray); err == nil && len(asArray) > 0 {
			lf.Tools[name] = make([]Tool, len(asArray))
			for i, rt := range asArray {
				lf.Tools[name][i] = Tool{Version: rt.Version, Backend: rt.Backend, Platforms: rt.Platforms}
			}
			continue
		}
		var asTable rawTable
		if err := md.PrimitiveDecode(prim, &asTable); err != nil {
			return nil, fmt.Errorf("tool %q: %w", name, err)
		}
		lf.Tools[name] = []Tool{{Version: asTable.Version, Backend: asTable.Backend, Platforms: asTable.Platforms}}
	}
	return lf, nil
}

// Lookup returns the locked entry for short, if any (used by the resolver's
// locked short-circuit, §4.2 step 1).
func (lf *Lockfile) Lookup(short string) (Tool, bool) {
	entries, ok := lf.Tools[short]
	if !ok || len(entries) == 0 {
		return Tool{}, false
	}
	return entries[0], true
}

// LookupVersion returns the locked entry for short at an exact version, used
// when a toolset already pins a version and only the platform checksum/URL
// info is being recovered from the lock.
func (lf *Lockfile) LookupVersion(short, version string) (Tool, bool) {
	for _, t := range lf.Tools[short] {
		if t.Version == version {
			return t, true
		}
	}
	return Tool{}, false
}

// HasPlatform reports whether short@version already carries lock info for
// platformKey. The scheduler's locked-mode pre-check does not call it; it
// reads the resolved ToolVersion's LockPlatforms directly.
func (lf *Lockfile) HasPlatform(short, version, platformKey string) bool {
	t, ok := lf.LookupVersion(short, version)
	if !ok {
		return false
	}
	_, ok = t.Platforms[platformKey]
	return ok
}

// Put merges one resolved tool version into the lockfile: a new (short,
// version) pair is appended, an existing one has its Platforms map merged
// in-place (§4.5's "update never discards sibling-platform entries for an
// already-locked version").
func (lf *Lockfile) Put(short string, t Tool) {
	entries := lf.Tools[short]
	for i, existing := range entries {
		if existing.Version == t.Version {
			if existing.Platforms == nil {
				existing.Platforms = make(map[string]toolset.PlatformInfo)
			}
			for k, v := range t.Platforms {
				existing.Platforms[k] = v
			}
			if t.Backend != "" {
				existing.Backend = t.Backend
			}
			entries[i] = existing
			lf.Tools[short] = entries
			return
		}
	}
	lf.Tools[short] = append(entries, t)
}

// Save writes the lockfile in its canonical form: tools sorted alphabetically,
// each tool's versions in insertion order, each version always rendered as an
// array of tables (never the legacy single-table shape) with platforms sorted
// by key (§4.5's "canonical formatter", needed so re-running `mvx install`
// against an unchanged toolset produces a byte-identical file).
func (lf *Lockfile) Save() error {
	return writeAtomic(lf.Path, lf.render())
}

func (lf *Lockfile) render() []byte {
	names := make([]string, 0, len(lf.Tools))
	for name := range lf.Tools {
		names = append(names, name)
	}
	sort.Strings(names)

	var buf []byte
	for _, name := range names {
		for _, t := range lf.Tools[name] {
			buf = append(buf, fmt.Sprintf("[[tools.%s]]\n", name)...)
			buf = append(buf, fmt.Sprintf("version = %q\n", t.Version)...)
			if t.Backend != "" {
				buf = append(buf, fmt.Sprintf("backend = %q\n", t.Backend)...)
			}
			platKeys := make([]string, 0, len(t.Platforms))
			for k := range t.Platforms {
				platKeys = append(platKeys, k)
			}
			sort.Strings(platKeys)
			for _, pk := range platKeys {
				p := t.Platforms[pk]
				buf = append(buf, fmt.Sprintf("\n[tools.%s.platforms.%s]\n", name, pk)...)
				if p.Checksum != "" {
					buf = append(buf, fmt.Sprintf("checksum = %q\n", p.Checksum)...)
				}
				if p.Size != 0 {
					buf = append(buf, fmt.Sprintf("size = %d\n", p.Size)...)
				}
				if p.URL != "" {
					buf = append(buf, fmt.Sprintf("url = %q\n", p.URL)...)
				}
			}
			buf = append(buf, '\n')
		}
	}
	return buf
}
