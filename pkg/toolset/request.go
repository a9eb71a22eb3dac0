package toolset

import (
	"fmt"
	"path/filepath"
	"strings"
)

// RequestKind discriminates the six ToolRequest variants of §3.1.
type RequestKind string

const (
	RequestVersion RequestKind = "version"
	RequestPrefix  RequestKind = "prefix"
	RequestRef     RequestKind = "ref"
	RequestSub     RequestKind = "sub"
	RequestPath    RequestKind = "path"
	RequestSystem  RequestKind = "system"
)

// RefType enumerates the VCS reference kinds a Ref request may carry.
type RefType string

const (
	RefTypeRef    RefType = "ref"
	RefTypeTag    RefType = "tag"
	RefTypeBranch RefType = "branch"
	RefTypeRev    RefType = "rev"
)

// Options carries a request's install-time knobs: arbitrary string options,
// an OS allowlist, and extra environment variables passed to the installer.
type Options struct {
	Values     map[string]string
	OSAllow    []string // empty means "all platforms"
	InstallEnv map[string]string
}

// AllowsOS reports whether goos is permitted to install this request.
func (o Options) AllowsOS(goos string) bool {
	if len(o.OSAllow) == 0 {
		return true
	}
	for _, os := range o.OSAllow {
		if os == goos {
			return true
		}
	}
	return false
}

// ToolRequest is a declarative ask for a tool; exactly one of the Request*
// variant fields is meaningful, selected by Kind. Every request carries a
// BackendId and a Source recording its provenance (§3.1).
//
// ToolRequest is created by the config loader, may be mutated to re-attach a
// Source or Options before resolution, then must be treated as frozen.
type ToolRequest struct {
	Kind RequestKind
	BA   BackendId

	Version string // RequestVersion, RequestPrefix (as prefix), RequestSub (as sub)
	RefType RefType
	Ref     string // RequestRef
	Orig    string // RequestSub: the base request to resolve before subtracting
	Path    string // RequestPath

	Options Options
	Source  ToolSource
}

// NewVersionRequest builds a Version{} variant request.
func NewVersionRequest(ba BackendId, version string, opts Options, src ToolSource) ToolRequest {
	return ToolRequest{Kind: RequestVersion, BA: ba, Version: version, Options: opts, Source: src}
}

// NewPrefixRequest builds a Prefix{} variant request.
func NewPrefixRequest(ba BackendId, prefix string, opts Options, src ToolSource) ToolRequest {
	return ToolRequest{Kind: RequestPrefix, BA: ba, Version: prefix, Options: opts, Source: src}
}

// NewRefRequest builds a Ref{} variant request.
func NewRefRequest(ba BackendId, refType RefType, ref string, opts Options, src ToolSource) ToolRequest {
	return ToolRequest{Kind: RequestRef, BA: ba, RefType: refType, Ref: ref, Options: opts, Source: src}
}

// NewSubRequest builds a Sub{} variant request: sub is the delta ("2" or
// "0.1"), origVersion is the base request string to resolve before
// subtracting (§4.2's version_sub).
func NewSubRequest(ba BackendId, sub, origVersion string, opts Options, src ToolSource) ToolRequest {
	return ToolRequest{Kind: RequestSub, BA: ba, Version: sub, Orig: origVersion, Options: opts, Source: src}
}

// NewPathRequest builds a Path{} (BYO install) variant request.
func NewPathRequest(ba BackendId, path string, opts Options, src ToolSource) ToolRequest {
	return ToolRequest{Kind: RequestPath, BA: ba, Path: path, Options: opts, Source: src}
}

// NewSystemRequest builds a System{} variant request: resolves to whatever
// is already on PATH and contributes nothing to env/PATH composition.
func NewSystemRequest(ba BackendId, opts Options, src ToolSource) ToolRequest {
	return ToolRequest{Kind: RequestSystem, BA: ba, Options: opts, Source: src}
}

// String renders a request the way diagnostics want it: "short@query".
func (r ToolRequest) String() string {
	switch r.Kind {
	case RequestRef:
		return fmt.Sprintf("%s@%s-%s", r.BA.Short(), r.RefType, r.Ref)
	case RequestSub:
		return fmt.Sprintf("%s@sub-%s:%s", r.BA.Short(), r.Version, r.Orig)
	case RequestPath:
		return fmt.Sprintf("%s@path:%s", r.BA.Short(), r.Path)
	case RequestSystem:
		return fmt.Sprintf("%s@system", r.BA.Short())
	default:
		return fmt.Sprintf("%s@%s", r.BA.Short(), r.Version)
	}
}

// ToolVersion is a resolved request: the frozen concrete version string, the
// install path it resolves (or will resolve) to, and the per-platform lock
// metadata a backend may fill in during install (§3.1, §4.5).
type ToolVersion struct {
	Request        ToolRequest
	ConcreteVersion string
	InstallPath    string
	System         bool // true for resolved System{} requests: contributes no paths/env
	LockPlatforms  map[string]PlatformInfo
}

// PlatformInfo is the per-platform lockfile payload (§3.1, §4.5).
type PlatformInfo struct {
	Checksum string `toml:"checksum,omitempty"`
	Size     int64  `toml:"size,omitempty"`
	URL      string `toml:"url,omitempty"`
}

// Short is a convenience accessor onto the underlying request's backend.
func (tv ToolVersion) Short() string { return tv.Request.BA.Short() }

// ToolVersionList is one backend's ordered requests within a single source,
// paired with their resolved versions (§3.1). A backend may have multiple
// versions requested from the same source (e.g. python = ["3.12", "3.11"]).
type ToolVersionList struct {
	BA       BackendId
	Source   ToolSource
	Requests []ToolRequest
	Versions []ToolVersion // parallel to Requests once resolved; nil before resolution
}

// Toolset is the ordered mapping BackendId -> ToolVersionList produced by the
// Resolver. Insertion order is significant: it establishes PATH precedence,
// earlier entries ranking higher (§3.1, §5).
type Toolset struct {
	order []string // BackendId.Short(), insertion order
	byID  map[string]*ToolVersionList
}

// NewToolset returns an empty Toolset ready for insertion.
func NewToolset() *Toolset {
	return &Toolset{byID: make(map[string]*ToolVersionList)}
}

// Insert appends or merges a ToolVersionList. If the backend already has an
// entry (e.g. a more specific config file overriding an outer one), the new
// list REPLACES the old one but keeps the backend's original insertion
// position, matching the spec's "later entries override earlier for the
// same BackendId" rule (§4.1) without disturbing PATH precedence for
// unrelated tools.
func (t *Toolset) Insert(list ToolVersionList) {
	key := list.BA.Short()
	if _, exists := t.byID[key]; !exists {
		t.order = append(t.order, key)
	}
	stored := list
	t.byID[key] = &stored
}

// Get returns the ToolVersionList for a backend's short name, if present.
func (t *Toolset) Get(short string) (*ToolVersionList, bool) {
	l, ok := t.byID[short]
	return l, ok
}

// Ordered returns the toolset's ToolVersionLists in PATH-precedence order
// (earliest-inserted first).
func (t *Toolset) Ordered() []*ToolVersionList {
	out := make([]*ToolVersionList, 0, len(t.order))
	for _, key := range t.order {
		out = append(out, t.byID[key])
	}
	return out
}

// AllVersions flattens every resolved, non-System ToolVersion across the
// toolset in PATH-precedence order — the sequence whose bin paths define the
// final PATH ordering invariant of §8.
func (t *Toolset) AllVersions() []ToolVersion {
	var out []ToolVersion
	for _, list := range t.Ordered() {
		for _, tv := range list.Versions {
			if !tv.System {
				out = append(out, tv)
			}
		}
	}
	return out
}

func withExtension(path, ext string) string {
	dir, base := filepath.Split(path)
	if i := strings.LastIndexByte(base, '.'); i >= 0 {
		base = base[:i]
	}
	return filepath.Join(dir, base+"."+ext)
}
