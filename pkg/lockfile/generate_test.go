package lockfile

import (
	"context"
	"testing"

	"github.com/gnodet/mvx/pkg/backend"
	"github.com/gnodet/mvx/pkg/toolset"
)

type lockBackend struct{ short string }

func (b *lockBackend) ID() toolset.BackendId { return toolset.NewBackendId(b.short) }
func (b *lockBackend) ListRemoteVersions(ctx context.Context) ([]backend.VersionInfo, error) {
	return nil, nil
}
func (b *lockBackend) ListInstalledVersions() ([]string, error) { return nil, nil }
func (b *lockBackend) LatestVersion(ctx context.Context, prefix string) (string, bool, error) {
	return "", false, nil
}
func (b *lockBackend) ParseIdiomaticFile(path string) (string, bool) { return "", false }
func (b *lockBackend) GetAllDependencies(includeOptional bool) []toolset.BackendId { return nil }
func (b *lockBackend) InstallVersion(ctx *backend.InstallContext, tv toolset.ToolVersion) (toolset.ToolVersion, error) {
	return tv, nil
}
func (b *lockBackend) UninstallVersion(ctx *backend.InstallContext, tv toolset.ToolVersion) error { return nil }
func (b *lockBackend) IsVersionInstalled(tv toolset.ToolVersion, checkSymlink bool) bool { return true }
func (b *lockBackend) ListBinPaths(tv toolset.ToolVersion) ([]string, error)             { return nil, nil }
func (b *lockBackend) ExecEnv(ts *toolset.Toolset, tv toolset.ToolVersion) (map[string]string, error) {
	return nil, nil
}
func (b *lockBackend) Which(tv toolset.ToolVersion, name string) (string, bool) { return "", false }
func (b *lockBackend) GetPlatformKey() string                                   { return "linux-x64" }
func (b *lockBackend) ResolveLockfileOptions(req toolset.ToolRequest, target string) map[string]string {
	return nil
}
func (b *lockBackend) PlatformVariants(platform string) []string { return []string{"linux-x64", "macos-arm64"} }
func (b *lockBackend) ResolveLockInfo(ctx context.Context, tv toolset.ToolVersion, target string) (toolset.PlatformInfo, error) {
	return toolset.PlatformInfo{Checksum: "sha256:" + target}, nil
}

func TestGenerateCoversAllPlatformVariants(t *testing.T) {
	registry := backend.NewRegistry()
	registry.Register(&lockBackend{short: "node"})

	ts := toolset.NewToolset()
	ba := toolset.NewBackendId("node")
	req := toolset.NewVersionRequest(ba, "20.10.0", toolset.Options{}, toolset.CLIArgSource())
	ts.Insert(toolset.ToolVersionList{BA: ba, Requests: []toolset.ToolRequest{req}, Versions: []toolset.ToolVersion{{Request: req, ConcreteVersion: "20.10.0"}}})

	lf, errs := Generate(context.Background(), registry, ts, 2)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	entry, ok := lf.LookupVersion("node", "20.10.0")
	if !ok {
		t.Fatalf("expected a locked entry for node@20.10.0")
	}
	if len(entry.Platforms) != 2 {
		t.Fatalf("expected both platform variants recorded, got %+v", entry.Platforms)
	}
}
