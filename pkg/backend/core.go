package backend

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gnodet/mvx/pkg/config"
	"github.com/gnodet/mvx/pkg/mvxerr"
	"github.com/gnodet/mvx/pkg/toolset"
	"github.com/gnodet/mvx/pkg/tools"
)

// CoreBackend adapts the teacher's pkg/tools.Tool (java/maven/node/python/…)
// onto the capability trait (§6.1). It is the "core:" backend family: every
// built-in tool the manager already knows how to install.
type CoreBackend struct {
	manager *tools.Manager
	tool    tools.Tool
	id      toolset.BackendId
}

// NewCoreBackend wraps one teacher Tool as a capability-trait Backend.
func NewCoreBackend(manager *tools.Manager, tool tools.Tool) *CoreBackend {
	short := tool.GetToolName()
	return &CoreBackend{
		manager: manager,
		tool:    tool,
		id:      toolset.NewBackendId(short, "core:"+short),
	}
}

func (b *CoreBackend) ID() toolset.BackendId { return b.id }

func (b *CoreBackend) ListRemoteVersions(ctx context.Context) ([]VersionInfo, error) {
	versions, err := b.tool.ListVersions()
	if err != nil {
		return nil, mvxerr.IOError(b.id.Short(), err)
	}
	out := make([]VersionInfo, 0, len(versions))
	for _, v := range versions {
		out = append(out, VersionInfo{Version: v})
	}
	return out, nil
}

func (b *CoreBackend) ListInstalledVersions() ([]string, error) {
	out, err := listVersionDirs(b.manager.GetToolDir(b.id.Short()))
	if err != nil {
		return nil, mvxerr.IOError(b.id.Short(), err)
	}

	// MISE_SYSTEM_DIR (§6.3) names an additional, system-wide tree of
	// pre-installed versions mvx didn't itself install (e.g. provisioned
	// by a package manager or base image) but should still recognize.
	if sysDir := config.LoadSettings().SystemDir(); sysDir != "" {
		sysVersions, err := listVersionDirs(filepath.Join(sysDir, b.id.Short()))
		if err == nil {
			out = append(out, sysVersions...)
		}
	}
	return out, nil
}

// listVersionDirs lists the immediate subdirectory names of dir, treating a
// missing dir as "no versions" rather than an error.
func listVersionDirs(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() {
			out = append(out, e.Name())
		}
	}
	return out, nil
}

func (b *CoreBackend) LatestVersion(ctx context.Context, prefix string) (string, bool, error) {
	versions, err := b.tool.ListVersions()
	if err != nil {
		return "", false, mvxerr.IOError(b.id.Short(), err)
	}
	best := ""
	for _, v := range versions {
		if prefix != "" && !strings.HasPrefix(v, prefix) {
			continue
		}
		if best == "" || toolset.VersionGreater(v, best) {
			best = v
		}
	}
	return best, best != "", nil
}

func (b *CoreBackend) ParseIdiomaticFile(path string) (string, bool) {
	// Teacher tools don't expose idiomatic-version-file parsing directly;
	// fall back to reading a trimmed single line, which matches how
	// .node-version/.python-version files are structured.
	data, err := os.ReadFile(path)
	if err != nil {
		return "", false
	}
	v := strings.TrimSpace(strings.SplitN(string(data), "\n", 2)[0])
	return v, v != ""
}

func (b *CoreBackend) GetAllDependencies(includeOptional bool) []toolset.BackendId {
	// Declared in config.ToolConfig.RequiredFor historically means "this
	// tool is required for command X", not a tool-to-tool dependency edge.
	// The teacher has exactly one real cross-tool dependency today: mvnd
	// requires a JDK, expressed the same way maven does.
	switch b.id.Short() {
	case "mvnd", "maven":
		return []toolset.BackendId{toolset.NewBackendId("java", "core:java")}
	default:
		return nil
	}
}

func (b *CoreBackend) InstallVersion(ctx *InstallContext, tv toolset.ToolVersion) (toolset.ToolVersion, error) {
	cfg := config.ToolConfig{Version: tv.ConcreteVersion, Options: tv.Request.Options.Values}
	if err := b.tool.Install(tv.ConcreteVersion, cfg); err != nil {
		return tv, mvxerr.IOError(b.id.Short(), err)
	}
	path, err := b.tool.GetPath(tv.ConcreteVersion, cfg)
	if err != nil {
		return tv, mvxerr.IOError(b.id.Short(), err)
	}
	tv.InstallPath = path
	if checksum, err := b.tool.GetChecksum(tv.ConcreteVersion, ""); err == nil && checksum.Value != "" {
		if tv.LockPlatforms == nil {
			tv.LockPlatforms = make(map[string]toolset.PlatformInfo)
		}
		tv.LockPlatforms[b.GetPlatformKey()] = toolset.PlatformInfo{
			Checksum: fmt.Sprintf("%s:%s", checksum.Type, checksum.Value),
			URL:      b.tool.GetDownloadURL(tv.ConcreteVersion),
		}
	}
	return tv, nil
}

func (b *CoreBackend) UninstallVersion(ctx *InstallContext, tv toolset.ToolVersion) error {
	dir := b.manager.GetToolVersionDir(b.id.Short(), tv.ConcreteVersion, tv.Request.Options.Values["distribution"])
	return os.RemoveAll(dir)
}

func (b *CoreBackend) IsVersionInstalled(tv toolset.ToolVersion, checkSymlink bool) bool {
	cfg := config.ToolConfig{Version: tv.ConcreteVersion, Options: tv.Request.Options.Values}
	return b.tool.IsInstalled(tv.ConcreteVersion, cfg)
}

func (b *CoreBackend) ListBinPaths(tv toolset.ToolVersion) ([]string, error) {
	if tv.InstallPath != "" {
		return []string{filepath.Join(tv.InstallPath, "bin")}, nil
	}
	cfg := config.ToolConfig{Version: tv.ConcreteVersion, Options: tv.Request.Options.Values}
	path, err := b.tool.GetPath(tv.ConcreteVersion, cfg)
	if err != nil {
		return nil, err
	}
	return []string{filepath.Join(path, "bin")}, nil
}

func (b *CoreBackend) ExecEnv(ts *toolset.Toolset, tv toolset.ToolVersion) (map[string]string, error) {
	return map[string]string{}, nil
}

func (b *CoreBackend) Which(tv toolset.ToolVersion, name string) (string, bool) {
	paths, err := b.ListBinPaths(tv)
	if err != nil || len(paths) == 0 {
		return "", false
	}
	candidate := filepath.Join(paths[0], name)
	if _, err := os.Stat(candidate); err == nil {
		return candidate, true
	}
	return "", false
}

func (b *CoreBackend) GetPlatformKey() string { return toolset.HostPlatformKey() }

func (b *CoreBackend) ResolveLockfileOptions(req toolset.ToolRequest, target string) map[string]string {
	return req.Options.Values
}

func (b *CoreBackend) PlatformVariants(platform string) []string { return []string{platform} }

func (b *CoreBackend) ResolveLockInfo(ctx context.Context, tv toolset.ToolVersion, target string) (toolset.PlatformInfo, error) {
	checksum, err := b.tool.GetChecksum(tv.ConcreteVersion, "")
	if err != nil {
		return toolset.PlatformInfo{}, mvxerr.IOError(b.id.Short(), err)
	}
	return toolset.PlatformInfo{
		Checksum: fmt.Sprintf("%s:%s", checksum.Type, checksum.Value),
		URL:      b.tool.GetDownloadURL(tv.ConcreteVersion),
	}, nil
}
