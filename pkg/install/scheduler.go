// Package install implements the Install Scheduler (§4.3): dependency-
// ordered, bounded-parallelism installation over the backend capability
// trait, with per-tool progress and partial-failure semantics.
package install

import (
	"context"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/semaphore"

	"github.com/gnodet/mvx/pkg/backend"
	"github.com/gnodet/mvx/pkg/mvxerr"
	"github.com/gnodet/mvx/pkg/toolset"
)

// Failure pairs a request with the error that aborted its install.
type Failure struct {
	Request toolset.ToolRequest
	Err     error
}

// Options carries the scheduler's run-time knobs (§4.3).
type Options struct {
	Jobs       int  // worker pool size; <=0 means 1 (serial, the "raw" mode)
	Force      bool // reinstall even if already present
	DryRun     bool
	Locked     bool
	PreInstall  func(short, version string) error
	PostInstall func(short, version string) error
	OnProgress  func(short, message string)
}

// Result is the scheduler's partial-failure contract (§4.3:
// "InstallFailed{successful, failed}").
type Result struct {
	Successful []toolset.ToolVersion
	Failed     []Failure
	Blocked    []Failure
}

func pluginMissing(short string) error { return mvxerr.PluginNotInstalled(short) }

// Run installs every tool in ts that needs installing, respecting declared
// dependencies and opts.Jobs concurrency, returning once every reachable
// node has either succeeded, failed, or been blocked by a failed dependency.
func Run(ctx context.Context, registry *backend.Registry, ts *toolset.Toolset, opts Options) Result {
	g, initialFailures := buildGraph(registry, ts, opts.Force)
	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = 1
	}
	sem := semaphore.NewWeighted(int64(jobs))

	var (
		mu     sync.Mutex
		result = Result{Failed: append([]Failure(nil), initialFailures...)}
		wg     sync.WaitGroup
	)

	logger := log.Default().With("component", "install")

	var runLeaf func(n *node)
	runLeaf = func(n *node) {
		defer wg.Done()
		if err := sem.Acquire(ctx, 1); err != nil {
			mu.Lock()
			for _, tv := range n.versions {
				result.Failed = append(result.Failed, Failure{Request: tv.Request, Err: mvxerr.Cancelled(n.short)})
			}
			mu.Unlock()
			return
		}
		defer sem.Release(1)

		logger.Debug("installing", "tool", n.short)
		versions, err := installNode(ctx, n, opts)

		mu.Lock()
		if err != nil {
			logger.Error("install failed", "tool", n.short, "err", err)
			for _, tv := range n.versions {
				result.Failed = append(result.Failed, Failure{Request: tv.Request, Err: err})
			}
			blocked := g.block(n.short)
			for _, b := range blocked {
				for _, tv := range b.versions {
					result.Blocked = append(result.Blocked, Failure{Request: tv.Request, Err: mvxerr.DependencyBlocked(b.short, n.short)})
				}
			}
			mu.Unlock()
			return
		}
		result.Successful = append(result.Successful, versions...)
		newlyReady := g.complete(n.short)
		mu.Unlock()

		for _, ready := range newlyReady {
			wg.Add(1)
			go runLeaf(ready)
		}
	}

	for _, n := range g.leaves() {
		wg.Add(1)
		go runLeaf(n)
	}
	wg.Wait()

	return result
}

// installNode runs the per-install sequence of §4.3 for every ToolVersion a
// node carries: preinstall hook, InstallContext, backend.InstallVersion,
// postinstall hook. The node's versions are installed sequentially relative
// to each other (concurrency is across nodes, not within one).
func installNode(ctx context.Context, n *node, opts Options) ([]toolset.ToolVersion, error) {
	if opts.Locked {
		if err := checkLocked(n); err != nil {
			return nil, err
		}
	}

	installCtx := &backend.InstallContext{
		Context:    ctx,
		Force:      opts.Force,
		DryRun:     opts.DryRun,
		Locked:     opts.Locked,
		OnProgress: opts.OnProgress,
	}

	out := make([]toolset.ToolVersion, 0, len(n.versions))
	for _, tv := range n.versions {
		if opts.PreInstall != nil {
			if err := opts.PreInstall(n.short, tv.ConcreteVersion); err != nil {
				return nil, fmt.Errorf("preinstall hook for %s: %w", n.short, err)
			}
		}
		if opts.OnProgress != nil {
			opts.OnProgress(n.short, "installing "+tv.ConcreteVersion)
		}
		installed, err := n.backend.InstallVersion(installCtx, tv)
		if err != nil {
			return nil, err
		}
		if opts.PostInstall != nil {
			if err := opts.PostInstall(n.short, installed.ConcreteVersion); err != nil {
				return nil, fmt.Errorf("postinstall hook for %s: %w", n.short, err)
			}
		}
		out = append(out, installed)
	}
	return out, nil
}

// checkLocked implements §4.3's locked-mode pre-check: every version must
// already carry a lock-provided entry for the backend's current platform
// key, or the install is refused before ever reaching the backend.
func checkLocked(n *node) error {
	for _, tv := range n.versions {
		if _, ok := tv.LockPlatforms[n.backend.GetPlatformKey()]; !ok {
			return mvxerr.Locked(n.short, n.backend.GetPlatformKey())
		}
	}
	return nil
}
