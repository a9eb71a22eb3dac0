// Package mvx is the core facade: it wires config loading, the Toolset
// Resolver, the Install Scheduler, the Environment Composer, and the
// Lockfile Engine together behind the small surface cmd/ actually needs.
package mvx

import (
	"context"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/gnodet/mvx/pkg/backend"
	"github.com/gnodet/mvx/pkg/config"
	mvxenv "github.com/gnodet/mvx/pkg/env"
	"github.com/gnodet/mvx/pkg/install"
	"github.com/gnodet/mvx/pkg/lockfile"
	"github.com/gnodet/mvx/pkg/resolver"
	"github.com/gnodet/mvx/pkg/state"
	"github.com/gnodet/mvx/pkg/toolset"
)

// envCacheTTL bounds how long a composed environment is trusted without
// re-checking the inputs that went into it (§4.4.2).
const envCacheTTL = 24 * time.Hour

var (
	globalProject *Project
	projectMutex  sync.Mutex
)

// Project is the per-project facade: one loaded config, its companion
// lockfile, and the backend registry it resolves against.
type Project struct {
	Root       string
	ConfigPath string
	Config     *config.Config
	Registry   *backend.Registry
	Lockfile   *lockfile.Lockfile
	Logger     *log.Logger
}

// Open loads a project's config (singleton per process, mirroring the
// teacher's NewManager/globalManager pattern) and its companion lockfile,
// registering registry as the backend set resolution/install will consult.
func Open(root string, registry *backend.Registry) (*Project, error) {
	projectMutex.Lock()
	defer projectMutex.Unlock()

	if globalProject != nil && globalProject.Root == root {
		return globalProject, nil
	}

	cfg, configPath, err := config.LoadConfigWithPath(root)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	lockPath := lockfile.ResolvePath(filepath.Dir(configPath))
	lf, err := lockfile.Load(lockPath)
	if err != nil {
		log.Warn("lockfile unreadable, continuing without it", "err", err)
	}
	lf.Path = lockPath

	if err := state.Track(configPath); err != nil {
		log.Debug("failed to track config path", "err", err)
	}

	p := &Project{
		Root:       root,
		ConfigPath: configPath,
		Config:     cfg,
		Registry:   registry,
		Lockfile:   lf,
		Logger:     log.Default().With("project", root),
	}
	globalProject = p
	return p, nil
}

// Reset clears the process-wide singleton (for tests).
func Reset() {
	projectMutex.Lock()
	defer projectMutex.Unlock()
	globalProject = nil
}

// Resolve runs the Toolset Resolver over the project's configured tools.
func (p *Project) Resolve(ctx context.Context, opts resolver.Options) resolver.Result {
	lists, err := p.Config.ToRequestSet(toolset.ConfigSource(p.ConfigPath))
	if err != nil {
		return resolver.Result{Failures: []resolver.Failure{{Err: err}}}
	}
	r := resolver.New(p.Registry, p.Lockfile)
	return r.Resolve(ctx, lists, opts)
}

// Install resolves, then installs everything missing via the Install
// Scheduler, then folds newly-recorded lock platform info back into the
// project's lockfile and persists it when any platform entry changed.
func (p *Project) Install(ctx context.Context, opts install.Options) (resolver.Result, install.Result, error) {
	resolveResult := p.Resolve(ctx, resolver.Options{UseLockedVersion: !opts.Force})

	installResult := install.Run(ctx, p.Registry, resolveResult.Toolset, opts)

	lockChanged := false
	for _, tv := range installResult.Successful {
		if len(tv.LockPlatforms) == 0 {
			continue
		}
		prev, _ := p.Lockfile.LookupVersion(tv.Short(), tv.ConcreteVersion)
		for k, v := range tv.LockPlatforms {
			if old, ok := prev.Platforms[k]; !ok || old != v {
				lockChanged = true
			}
		}
		p.Lockfile.Put(tv.Short(), lockfile.Tool{
			Version:   tv.ConcreteVersion,
			Backend:   tv.Request.BA.Full(),
			Platforms: tv.LockPlatforms,
		})
	}
	if lockChanged {
		if err := p.Lockfile.Save(); err != nil {
			return resolveResult, installResult, fmt.Errorf("save lockfile: %w", err)
		}
	}

	return resolveResult, installResult, nil
}

// ComposeEnv resolves the toolset (without installing) and runs the
// Environment Composer over it and the project's directives, consulting
// the encrypted disk cache (§4.4.2) first when directives neither run
// scripts nor modules (the only case a cache entry can actually represent,
// since Source/Module directives have side effects and external state a
// cached Result can't capture).
func (p *Project) ComposeEnv(ctx context.Context, baseEnv map[string]string) (mvxenv.Result, error) {
	resolveResult := p.Resolve(ctx, resolver.Options{UseLockedVersion: true})
	directives := p.Config.EnvDirectives(filepath.Dir(p.ConfigPath))

	fingerprint := mvxenv.FingerprintKey([]string{p.ConfigPath}, toolsetFingerprint(resolveResult.Toolset))
	cache := &mvxenv.Cache{
		Path: filepath.Join(state.EnvCacheDir(), hex.EncodeToString(fingerprint)),
		TTL:  envCacheTTL,
	}
	settings := config.LoadSettings()
	if !settings.FreshEnv() {
		if cached, ok := cache.Load(fingerprint); ok {
			return cached, nil
		}
	}

	composer := NewDefaultComposer(p.Registry)
	result, err := composer.Compose(ctx, resolveResult.Toolset, directives, baseEnv)
	if err != nil {
		return result, err
	}
	if !result.HasScripts && !result.HasModules {
		if err := cache.Store(fingerprint, result, time.Now()); err != nil {
			log.Debug("env cache store failed", "err", err)
		}
	}
	return result, nil
}

// toolsetFingerprint renders a resolved toolset's (short, version) pairs
// into a stable, order-independent string for FingerprintKey.
func toolsetFingerprint(ts *toolset.Toolset) string {
	versions := ts.AllVersions()
	parts := make([]string, 0, len(versions))
	for _, v := range versions {
		parts = append(parts, v.Short()+"@"+v.ConcreteVersion)
	}
	sort.Strings(parts)
	return strings.Join(parts, ",")
}

// Lock regenerates the project's lockfile from scratch against the
// currently-resolved toolset (the `mvx lock` / `--lock` path of §4.5).
func (p *Project) Lock(ctx context.Context, jobs int) error {
	resolveResult := p.Resolve(ctx, resolver.Options{LatestVersions: true})
	fresh, errs := lockfile.Generate(ctx, p.Registry, resolveResult.Toolset, jobs)
	if len(errs) > 0 {
		return fmt.Errorf("lock generation had %d error(s): %w", len(errs), errs[0])
	}
	p.Lockfile.Merge(fresh)
	return p.Lockfile.Save()
}

// ProcessEnv returns the current process environment as a map, the shape
// every env composition step starts from.
func ProcessEnv() map[string]string {
	out := make(map[string]string)
	for _, kv := range os.Environ() {
		if k, v, ok := strings.Cut(kv, "="); ok {
			out[k] = v
		}
	}
	return out
}
