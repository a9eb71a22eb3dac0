package lockfile

import (
	"context"
	"sync"

	"golang.org/x/sync/semaphore"

	"github.com/gnodet/mvx/pkg/backend"
	"github.com/gnodet/mvx/pkg/toolset"
)

// Generate implements §4.5's `lock` operation: for every resolved, non-
// System ToolVersion in ts, ask its backend to resolve platform lock info
// (checksum/size/url) for each of the backend's declared platform variants,
// bounded by jobs concurrent lookups, and merge the results into lf.
func Generate(ctx context.Context, registry *backend.Registry, ts *toolset.Toolset, jobs int) (*Lockfile, []error) {
	lf := New("")
	if jobs <= 0 {
		jobs = 1
	}
	sem := semaphore.NewWeighted(int64(jobs))

	var (
		mu   sync.Mutex
		wg   sync.WaitGroup
		errs []error
	)

	for _, tv := range ts.AllVersions() {
		tv := tv
		b, ok := registry.Get(tv.Short())
		if !ok {
			continue
		}
		platformKey := b.GetPlatformKey()
		variants := b.PlatformVariants(platformKey)

		for _, target := range variants {
			target := target
			wg.Add(1)
			go func() {
				defer wg.Done()
				if err := sem.Acquire(ctx, 1); err != nil {
					mu.Lock()
					errs = append(errs, err)
					mu.Unlock()
					return
				}
				defer sem.Release(1)

				info, err := b.ResolveLockInfo(ctx, tv, target)
				mu.Lock()
				defer mu.Unlock()
				if err != nil {
					errs = append(errs, err)
					return
				}
				lf.Put(tv.Short(), Tool{
					Version:   tv.ConcreteVersion,
					Backend:   tv.Request.BA.Full(),
					Platforms: map[string]toolset.PlatformInfo{target: info},
				})
			}()
		}
	}

	wg.Wait()
	return lf, errs
}

// Merge folds fresh (typically just-generated) entries into lf in place,
// per §4.5's "update never discards sibling-platform entries for an
// already-locked version" rule (the same merge Put already implements).
func (lf *Lockfile) Merge(fresh *Lockfile) {
	for short, entries := range fresh.Tools {
		for _, t := range entries {
			lf.Put(short, t)
		}
	}
}
