// Package backend defines the capability trait (§6.1) the mvx core consumes
// and a process-wide registry of concrete backends keyed by short name. The
// core never imports a backend's internals — it only ever calls through
// these interfaces.
package backend

import (
	"context"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/gnodet/mvx/pkg/toolset"
)

// remoteVersionsCacheSize bounds how many backends' remote-version listings
// Registry keeps warm at once; each entry is one backend's full listing, not
// one version, so this is generous relative to a typical project's tool count.
const remoteVersionsCacheSize = 64

// VersionInfo describes one version a backend's remote listing returned.
type VersionInfo struct {
	Version string
	Pinned  bool // true if this entry is an exact, unparsed alias target
}

// InstallContext carries everything a backend needs to perform one install
// (§4.3): the resolved toolset (for cross-tool env during install, e.g. a
// Python backend needing the resolved pip version), progress reporting, and
// the run's flags.
type InstallContext struct {
	Context   context.Context
	Toolset   *toolset.Toolset
	Force     bool
	DryRun    bool
	Locked    bool
	OnProgress func(short string, message string)
}

// BackendId identifies a backend (short + full name(s)); re-exported here so
// callers of this package don't need to import toolset for the common case.
type BackendId = toolset.BackendId

// VersionProvider exposes version discovery: remote listing, what's already
// installed, alias/latest resolution, and idiomatic-version-file parsing.
type VersionProvider interface {
	ListRemoteVersions(ctx context.Context) ([]VersionInfo, error)
	ListInstalledVersions() ([]string, error)
	LatestVersion(ctx context.Context, prefix string) (string, bool, error)
	ParseIdiomaticFile(path string) (string, bool)
}

// DependencyManager reports a backend's declared dependencies so the Install
// Scheduler can build its DAG (§4.3).
type DependencyManager interface {
	GetAllDependencies(includeOptional bool) []toolset.BackendId
}

// Installer performs the actual install/uninstall of one resolved version.
// Install mutates and returns tv so the backend can record checksum/url/size
// into tv.LockPlatforms for the Lockfile Engine (§4.5).
type Installer interface {
	InstallVersion(ctx *InstallContext, tv toolset.ToolVersion) (toolset.ToolVersion, error)
	UninstallVersion(ctx *InstallContext, tv toolset.ToolVersion) error
	IsVersionInstalled(tv toolset.ToolVersion, checkSymlink bool) bool
}

// BinPathProvider exposes the paths/env a resolved version contributes to
// the Environment Composer (§4.4, §4.4.1).
type BinPathProvider interface {
	ListBinPaths(tv toolset.ToolVersion) ([]string, error)
	ExecEnv(ts *toolset.Toolset, tv toolset.ToolVersion) (map[string]string, error)
	Which(tv toolset.ToolVersion, name string) (string, bool)
}

// LockfileSupport exposes everything the Lockfile Engine needs from a
// backend to generate or back-fill platform entries (§4.5).
type LockfileSupport interface {
	GetPlatformKey() string
	ResolveLockfileOptions(req toolset.ToolRequest, target string) map[string]string
	PlatformVariants(platform string) []string
	ResolveLockInfo(ctx context.Context, tv toolset.ToolVersion, target string) (toolset.PlatformInfo, error)
}

// AliasProvider is an optional capability: a backend may map a short alias
// (e.g. "lts", "system") to a concrete version or request string before the
// Toolset Resolver applies its own variant dispatch (§4.2 step 2). Backends
// that don't need aliasing simply don't implement it; the resolver type-
// asserts for it.
type AliasProvider interface {
	ResolveAlias(alias string) (string, bool)
}

// Backend is the full capability trait (§6.1). Concrete backends may embed
// DefaultBinPaths/DefaultLockfileSupport to get sensible defaults for the
// optional parts of the trait.
type Backend interface {
	ID() toolset.BackendId
	VersionProvider
	DependencyManager
	Installer
	BinPathProvider
	LockfileSupport
}

// Registry is the process-wide, keyed-by-short-name backend registry (§9:
// "concrete backends are registered at process start; scheduler code talks
// to the trait only").
type Registry struct {
	backends    map[string]Backend
	remoteCache *lru.Cache[string, []VersionInfo]
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	cache, _ := lru.New[string, []VersionInfo](remoteVersionsCacheSize)
	return &Registry{backends: make(map[string]Backend), remoteCache: cache}
}

// Register adds a backend under its short name, overwriting any previous
// registration for that name (later registrations win, mirroring plugin
// override semantics).
func (r *Registry) Register(b Backend) {
	r.backends[b.ID().Short()] = b
}

// Get looks up a backend by short name.
func (r *Registry) Get(short string) (Backend, bool) {
	b, ok := r.backends[short]
	return b, ok
}

// MustGet panics if short is not registered; used in paths where the caller
// already validated the request set against the registry.
func (r *Registry) MustGet(short string) Backend {
	b, ok := r.backends[short]
	if !ok {
		panic("backend not registered: " + short)
	}
	return b
}

// ListRemoteVersions returns b's remote version listing, served from an
// in-process LRU cache keyed by b's short name when already warm (remote
// listings are comparatively expensive network calls and don't change
// within a single run). InvalidateRemoteVersions clears one entry, e.g.
// after an install a caller expects to have changed what's available.
func (r *Registry) ListRemoteVersions(ctx context.Context, b Backend) ([]VersionInfo, error) {
	short := b.ID().Short()
	if r.remoteCache != nil {
		if cached, ok := r.remoteCache.Get(short); ok {
			return cached, nil
		}
	}
	versions, err := b.ListRemoteVersions(ctx)
	if err != nil {
		return nil, err
	}
	if r.remoteCache != nil {
		r.remoteCache.Add(short, versions)
	}
	return versions, nil
}

// InvalidateRemoteVersions drops short's cached remote-version listing, if
// any.
func (r *Registry) InvalidateRemoteVersions(short string) {
	if r.remoteCache != nil {
		r.remoteCache.Remove(short)
	}
}

// Shorts returns every registered backend's short name, for diagnostics.
func (r *Registry) Shorts() []string {
	out := make([]string, 0, len(r.backends))
	for k := range r.backends {
		out = append(out, k)
	}
	return out
}
