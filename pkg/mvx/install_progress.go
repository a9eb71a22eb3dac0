package mvx

import (
	"context"
	"fmt"
	"os"

	"github.com/gnodet/mvx/pkg/install"
	"github.com/gnodet/mvx/pkg/lockfile"
	"github.com/gnodet/mvx/pkg/progress"
	"github.com/gnodet/mvx/pkg/resolver"
)

// InstallWithProgress resolves and installs like Project.Install, but drives
// a live progress.Reporter (§7) through opts.OnProgress instead of leaving it
// unset, and prints a one-block summary once the scheduler settles. Unlike
// Project.Install, it returns an error before installing anything when
// resolution records any failure.
func (p *Project) InstallWithProgress(ctx context.Context, opts install.Options) (resolver.Result, install.Result, error) {
	resolveResult := p.Resolve(ctx, resolver.Options{UseLockedVersion: !opts.Force})
	if len(resolveResult.Failures) > 0 {
		return resolveResult, install.Result{}, fmt.Errorf("resolve toolset: %w", resolveResult.Failures[0].Err)
	}

	reporter := progress.NewReporter(os.Stdout)
	for _, tv := range resolveResult.Toolset.AllVersions() {
		reporter.Start(tv.Short(), "queued")
	}
	opts.OnProgress = func(short, message string) {
		reporter.Update(short, message)
	}

	installResult := install.Run(ctx, p.Registry, resolveResult.Toolset, opts)

	lockChanged := false
	for _, tv := range installResult.Successful {
		if len(tv.LockPlatforms) > 0 {
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
		reporter.Done(tv.Short(), tv.ConcreteVersion)
	}
	if lockChanged {
		if err := p.Lockfile.Save(); err != nil {
			return resolveResult, installResult, fmt.Errorf("save lockfile: %w", err)
		}
	}

	summary := progress.Summary{}
	for _, tv := range installResult.Successful {
		summary.Succeeded = append(summary.Succeeded, tv.Short()+"@"+tv.ConcreteVersion)
	}
	for _, f := range installResult.Failed {
		short := f.Request.BA.Short()
		reporter.Failed(short, f.Err.Error())
		summary.Failed = append(summary.Failed, short)
	}
	for _, f := range installResult.Blocked {
		summary.Blocked = append(summary.Blocked, f.Request.BA.Short())
	}
	reporter.PrintSummary(summary)

	return resolveResult, installResult, nil
}
