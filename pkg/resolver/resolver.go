// Package resolver implements the Toolset Resolver (§4.2): it turns a
// backend registry plus a set of declarative ToolRequests into a concrete,
// installable Toolset, one request at a time, never aborting the whole batch
// on a single request's failure.
package resolver

import (
	"context"
	"fmt"

	"github.com/gnodet/mvx/pkg/backend"
	"github.com/gnodet/mvx/pkg/lockfile"
	"github.com/gnodet/mvx/pkg/mvxerr"
	"github.com/gnodet/mvx/pkg/toolset"
)

// Options controls how ambiguous requests are resolved (§4.2, §9).
type Options struct {
	// UseLockedVersion makes resolution prefer an exact version already
	// recorded in the lockfile over a fresh "latest" lookup, short-
	// circuiting remote version discovery entirely when present.
	UseLockedVersion bool
	// LatestVersions forces re-resolution against the freshest remote
	// listing even when a lockfile entry exists (the `mvx outdated`/`mvx
	// upgrade` behavior of §4.2's "ignore the lock").
	LatestVersions bool
}

// Failure records one request's resolution failure without aborting the
// rest of the batch (§4.2: "resolution failures are per-request").
type Failure struct {
	Request toolset.ToolRequest
	Err     error
}

// Result is the outcome of resolving one ToolRequestSet: a Toolset holding
// everything that resolved, plus the failures recorded alongside it.
type Result struct {
	Toolset  *toolset.Toolset
	Failures []Failure
}

// Resolver turns declarative requests into concrete ToolVersions.
type Resolver struct {
	registry *backend.Registry
	lock     *lockfile.Lockfile
}

// New builds a Resolver. lock may be nil, meaning "no lockfile is in play";
// the locked short-circuit (step 1 below) is then always skipped.
func New(registry *backend.Registry, lock *lockfile.Lockfile) *Resolver {
	return &Resolver{registry: registry, lock: lock}
}

// Resolve resolves every ToolVersionList in order, inserting successes into
// the returned Toolset at the position corresponding to each list's source
// precedence and recording failures per-request (§4.2, §4.1).
func (r *Resolver) Resolve(ctx context.Context, lists []toolset.ToolVersionList, opts Options) Result {
	out := toolset.NewToolset()
	var failures []Failure

	for _, list := range lists {
		b, ok := r.registry.Get(list.BA.Short())
		if !ok {
			for _, req := range list.Requests {
				failures = append(failures, Failure{Request: req, Err: mvxerr.PluginNotInstalled(list.BA.Short())})
			}
			continue
		}

		resolved := list
		resolved.Versions = make([]toolset.ToolVersion, 0, len(list.Requests))
		for _, req := range list.Requests {
			tv, err := r.resolveOne(ctx, b, req, opts)
			if err != nil {
				failures = append(failures, Failure{Request: req, Err: err})
				continue
			}
			resolved.Versions = append(resolved.Versions, tv)
		}
		if len(resolved.Versions) > 0 {
			out.Insert(resolved)
		}
	}

	return Result{Toolset: out, Failures: failures}
}

// resolveOne implements the per-request algorithm of §4.2:
//
//  1. Locked short-circuit: if opts.UseLockedVersion and the lockfile
//     already pins an exact version for this (short, Version-variant)
//     request, use it without touching the backend's remote listing.
//  2. Alias resolution: for Version{} requests only, ask the backend (if it
//     implements AliasProvider) whether the request string is itself an
//     alias for a concrete version or another request string.
//  3. Variant dispatch: Version/Prefix/Ref/Sub/Path/System each resolve
//     differently (below).
//  4. A variant that cannot produce a concrete version returns
//     mvxerr.VersionNotFound; the caller records it and continues with the
//     rest of the batch.
func (r *Resolver) resolveOne(ctx context.Context, b backend.Backend, req toolset.ToolRequest, opts Options) (toolset.ToolVersion, error) {
	short := req.BA.Short()

	if !opts.LatestVersions && opts.UseLockedVersion && req.Kind == toolset.RequestVersion && r.lock != nil {
		if locked, ok := r.lock.Lookup(short); ok {
			return toolset.ToolVersion{Request: req, ConcreteVersion: locked.Version, LockPlatforms: locked.Platforms}, nil
		}
	}

	query := req.Version
	if req.Kind == toolset.RequestVersion {
		if ap, ok := b.(backend.AliasProvider); ok {
			if resolved, ok := ap.ResolveAlias(query); ok {
				query = resolved
			}
		}
	}

	switch req.Kind {
	case toolset.RequestSystem:
		return toolset.ToolVersion{Request: req, ConcreteVersion: "system", System: true}, nil

	case toolset.RequestPath:
		return toolset.ToolVersion{Request: req, ConcreteVersion: "path", InstallPath: req.Path}, nil

	case toolset.RequestRef:
		// Ref resolution never hits the network (§4.2): the concrete
		// version is the ref descriptor itself; the backend realises it on
		// install.
		return toolset.ToolVersion{Request: req, ConcreteVersion: fmt.Sprintf("%s-%s", req.RefType, req.Ref)}, nil

	case toolset.RequestVersion:
		return r.resolveVersion(ctx, b, req, query)

	case toolset.RequestPrefix:
		return r.resolvePrefix(ctx, b, req, query)

	case toolset.RequestSub:
		return r.resolveSub(ctx, b, req)

	default:
		return toolset.ToolVersion{}, mvxerr.ArgumentError("unknown request kind %q for %s", req.Kind, short)
	}
}

// resolveVersion handles the Version{} variant: "latest" and bare
// already-exact versions (e.g. pinned release tags) resolve immediately
// against the installed/remote listing; anything else is matched as an
// exact string, first among installed version directories, then among
// remote versions.
func (r *Resolver) resolveVersion(ctx context.Context, b backend.Backend, req toolset.ToolRequest, query string) (toolset.ToolVersion, error) {
	short := req.BA.Short()

	if query == "latest" || query == "" {
		v, ok, err := b.LatestVersion(ctx, "")
		if err != nil {
			return toolset.ToolVersion{}, err
		}
		if !ok {
			return toolset.ToolVersion{}, mvxerr.VersionNotFound(short, query)
		}
		return toolset.ToolVersion{Request: req, ConcreteVersion: v}, nil
	}

	if installed, err := b.ListInstalledVersions(); err == nil {
		for _, v := range installed {
			if v == query {
				return toolset.ToolVersion{Request: req, ConcreteVersion: v}, nil
			}
		}
	}

	versions, err := r.registry.ListRemoteVersions(ctx, b)
	if err != nil {
		return toolset.ToolVersion{}, err
	}
	for _, v := range versions {
		if v.Version == query {
			return toolset.ToolVersion{Request: req, ConcreteVersion: v.Version}, nil
		}
	}
	return toolset.ToolVersion{}, mvxerr.VersionNotFound(short, query)
}

// resolvePrefix handles the Prefix{} variant: the newest remote version
// whose string begins with the requested prefix (e.g. "20" -> "20.11.1").
func (r *Resolver) resolvePrefix(ctx context.Context, b backend.Backend, req toolset.ToolRequest, prefix string) (toolset.ToolVersion, error) {
	short := req.BA.Short()
	v, ok, err := b.LatestVersion(ctx, prefix)
	if err != nil {
		return toolset.ToolVersion{}, err
	}
	if ok {
		return toolset.ToolVersion{Request: req, ConcreteVersion: v}, nil
	}

	versions, err := r.registry.ListRemoteVersions(ctx, b)
	if err != nil {
		return toolset.ToolVersion{}, err
	}
	best := ""
	for _, cand := range versions {
		if len(cand.Version) < len(prefix) || cand.Version[:len(prefix)] != prefix {
			continue
		}
		if best == "" || toolset.VersionGreater(cand.Version, best) {
			best = cand.Version
		}
	}
	if best == "" {
		return toolset.ToolVersion{}, mvxerr.VersionNotFound(short, prefix)
	}
	return toolset.ToolVersion{Request: req, ConcreteVersion: best}, nil
}

// resolveSub handles the Sub{} variant (§4.2, §8): first resolve req.Orig as
// an ordinary Version/Prefix/latest request against the backend, then apply
// version_sub to the result.
func (r *Resolver) resolveSub(ctx context.Context, b backend.Backend, req toolset.ToolRequest) (toolset.ToolVersion, error) {
	short := req.BA.Short()

	baseReq := toolset.NewVersionRequest(req.BA, req.Orig, req.Options, req.Source)
	base, err := r.resolveVersion(ctx, b, baseReq, req.Orig)
	if err != nil {
		return toolset.ToolVersion{}, err
	}

	result, err := VersionSub(base.ConcreteVersion, req.Version)
	if err != nil {
		return toolset.ToolVersion{}, mvxerr.VersionNotFound(short, req.String())
	}
	return toolset.ToolVersion{Request: req, ConcreteVersion: result}, nil
}
