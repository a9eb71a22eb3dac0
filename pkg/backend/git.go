package backend

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"

	"github.com/gnodet/mvx/pkg/mvxerr"
	"github.com/gnodet/mvx/pkg/toolset"
)

// GitBackend realises Ref{} requests (§3.1: ref/tag/branch/rev) by cloning a
// repository at the requested reference. Resolution of a Ref request never
// does a remote lookup (§4.2): the request resolves to
// "<ref_type>-<ref>" immediately, and this backend "realises" it on install.
type GitBackend struct {
	id         toolset.BackendId
	url        string
	installDir string
}

// NewGitBackend builds a Ref-realising backend for one repository URL.
func NewGitBackend(short, repoURL, installRoot string) *GitBackend {
	return &GitBackend{
		id:         toolset.NewBackendId(short, "git:"+short),
		url:        repoURL,
		installDir: filepath.Join(installRoot, short),
	}
}

func (b *GitBackend) ID() toolset.BackendId { return b.id }

func (b *GitBackend) ListRemoteVersions(ctx context.Context) ([]VersionInfo, error) {
	remote := git.NewRemote(nil, &git.RemoteConfig{Name: "origin", URLs: []string{b.url}})
	refs, err := remote.ListContext(ctx, &git.ListOptions{})
	if err != nil {
		return nil, mvxerr.IOError(b.id.Short(), err)
	}
	var out []VersionInfo
	for _, ref := range refs {
		if ref.Name().IsTag() {
			out = append(out, VersionInfo{Version: ref.Name().Short()})
		}
	}
	return out, nil
}

func (b *GitBackend) ListInstalledVersions() ([]string, error) {
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

func (b *GitBackend) LatestVersion(ctx context.Context, prefix string) (string, bool, error) {
	versions, err := b.ListRemoteVersions(ctx)
	if err != nil {
		return "", false, err
	}
	best := ""
	for _, v := range versions {
		if prefix != "" && !strings.HasPrefix(v.Version, prefix) {
			continue
		}
		if best == "" || toolset.VersionGreater(v.Version, best) {
			best = v.Version
		}
	}
	return best, best != "", nil
}

func (b *GitBackend) ParseIdiomaticFile(path string) (string, bool) { return "", false }

func (b *GitBackend) GetAllDependencies(includeOptional bool) []toolset.BackendId { return nil }

// refSpec derives a go-git reference/hash target from the request's RefType
// and Ref fields (not from the "<ref_type>-<ref>" concrete version string).
func refSpec(req toolset.ToolRequest) (refName plumbing.ReferenceName, hash plumbing.Hash, isHash bool) {
	switch req.RefType {
	case toolset.RefTypeTag:
		return plumbing.NewTagReferenceName(req.Ref), plumbing.ZeroHash, false
	case toolset.RefTypeBranch:
		return plumbing.NewBranchReferenceName(req.Ref), plumbing.ZeroHash, false
	case toolset.RefTypeRev:
		return "", plumbing.NewHash(req.Ref), true
	default: // RefTypeRef: an arbitrary ref name as given
		return plumbing.ReferenceName(req.Ref), plumbing.ZeroHash, false
	}
}

func (b *GitBackend) InstallVersion(ctx *InstallContext, tv toolset.ToolVersion) (toolset.ToolVersion, error) {
	installPath := filepath.Join(b.installDir, tv.ConcreteVersion)
	if ctx.DryRun {
		tv.InstallPath = installPath
		return tv, nil
	}
	if err := os.RemoveAll(installPath); err != nil {
		return tv, mvxerr.IOError(b.id.Short(), err)
	}
	refName, hash, isHash := refSpec(tv.Request)
	cloneOpts := &git.CloneOptions{URL: b.url}
	if !isHash && refName != "" {
		cloneOpts.ReferenceName = refName
		cloneOpts.SingleBranch = true
		cloneOpts.Depth = 1
	}
	repo, err := git.PlainCloneContext(ctx.Context, installPath, false, cloneOpts)
	if err != nil {
		return tv, mvxerr.IOError(b.id.Short(), err)
	}
	if isHash {
		wt, err := repo.Worktree()
		if err != nil {
			return tv, mvxerr.IOError(b.id.Short(), err)
		}
		if err := wt.Checkout(&git.CheckoutOptions{Hash: hash}); err != nil {
			return tv, mvxerr.IOError(b.id.Short(), err)
		}
	}
	head, err := repo.Head()
	if err == nil {
		if tv.LockPlatforms == nil {
			tv.LockPlatforms = make(map[string]toolset.PlatformInfo)
		}
		tv.LockPlatforms[b.GetPlatformKey()] = toolset.PlatformInfo{Checksum: fmt.Sprintf("git:%s", head.Hash().String())}
	}
	tv.InstallPath = installPath
	return tv, nil
}

func (b *GitBackend) UninstallVersion(ctx *InstallContext, tv toolset.ToolVersion) error {
	return os.RemoveAll(filepath.Join(b.installDir, tv.ConcreteVersion))
}

func (b *GitBackend) IsVersionInstalled(tv toolset.ToolVersion, checkSymlink bool) bool {
	_, err := os.Stat(filepath.Join(b.installDir, tv.ConcreteVersion, ".git"))
	return err == nil
}

func (b *GitBackend) ListBinPaths(tv toolset.ToolVersion) ([]string, error) {
	return []string{filepath.Join(b.installDir, tv.ConcreteVersion, "bin")}, nil
}

func (b *GitBackend) ExecEnv(ts *toolset.Toolset, tv toolset.ToolVersion) (map[string]string, error) {
	return nil, nil
}

func (b *GitBackend) Which(tv toolset.ToolVersion, name string) (string, bool) {
	candidate := filepath.Join(b.installDir, tv.ConcreteVersion, "bin", name)
	if _, err := os.Stat(candidate); err == nil {
		return candidate, true
	}
	return "", false
}

func (b *GitBackend) GetPlatformKey() string { return toolset.HostPlatformKey() }

func (b *GitBackend) ResolveLockfileOptions(req toolset.ToolRequest, target string) map[string]string {
	return nil
}

func (b *GitBackend) PlatformVariants(platform string) []string { return []string{platform} }

func (b *GitBackend) ResolveLockInfo(ctx context.Context, tv toolset.ToolVersion, target string) (toolset.PlatformInfo, error) {
	return toolset.PlatformInfo{}, fmt.Errorf("git backend lock info is only known after install")
}
