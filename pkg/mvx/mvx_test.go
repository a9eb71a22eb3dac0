package mvx

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/gnodet/mvx/pkg/backend"
	"github.com/gnodet/mvx/pkg/install"
	"github.com/gnodet/mvx/pkg/resolver"
	"github.com/gnodet/mvx/pkg/toolset"
)

// fakeBackend is a minimal Backend, mirroring pkg/install's test double, used
// to exercise the facade without any real filesystem or network access.
type fakeBackend struct {
	short     string
	installed bool
}

func (b *fakeBackend) ID() toolset.BackendId { return toolset.NewBackendId(b.short) }
func (b *fakeBackend) ListRemoteVersions(ctx context.Context) ([]backend.VersionInfo, error) {
	return []backend.VersionInfo{{Version: "1.0.0"}}, nil
}
func (b *fakeBackend) ListInstalledVersions() ([]string, error) { return nil, nil }
func (b *fakeBackend) LatestVersion(ctx context.Context, prefix string) (string, bool, error) {
	return "1.0.0", true, nil
}
func (b *fakeBackend) ParseIdiomaticFile(path string) (string, bool) { return "", false }
func (b *fakeBackend) GetAllDependencies(includeOptional bool) []toolset.BackendId { return nil }
func (b *fakeBackend) InstallVersion(ctx *backend.InstallContext, tv toolset.ToolVersion) (toolset.ToolVersion, error) {
	tv.LockPlatforms = map[string]toolset.PlatformInfo{"linux-x64": {Checksum: "deadbeef"}}
	return tv, nil
}
func (b *fakeBackend) UninstallVersion(ctx *backend.InstallContext, tv toolset.ToolVersion) error { return nil }
func (b *fakeBackend) IsVersionInstalled(tv toolset.ToolVersion, checkSymlink bool) bool {
	return b.installed
}
func (b *fakeBackend) ListBinPaths(tv toolset.ToolVersion) ([]string, error) { return nil, nil }
func (b *fakeBackend) ExecEnv(ts *toolset.Toolset, tv toolset.ToolVersion) (map[string]string, error) {
	return nil, nil
}
func (b *fakeBackend) Which(tv toolset.ToolVersion, name string) (string, bool) { return "", false }
func (b *fakeBackend) GetPlatformKey() string                                   { return "linux-x64" }
func (b *fakeBackend) ResolveLockfileOptions(req toolset.ToolRequest, target string) map[string]string {
	return nil
}
func (b *fakeBackend) PlatformVariants(platform string) []string { return []string{platform} }
func (b *fakeBackend) ResolveLockInfo(ctx context.Context, tv toolset.ToolVersion, target string) (toolset.PlatformInfo, error) {
	return toolset.PlatformInfo{Checksum: "fresh"}, nil
}

func newTestProject(t *testing.T) (*Project, *backend.Registry) {
	t.Helper()
	Reset()
	root := t.TempDir()
	mvxDir := filepath.Join(root, ".mvx")
	if err := os.MkdirAll(mvxDir, 0o755); err != nil {
		t.Fatal(err)
	}
	cfg := "tools:\n  demo:\n    version: \"1.0.0\"\n"
	if err := os.WriteFile(filepath.Join(mvxDir, "config.yml"), []byte(cfg), 0o644); err != nil {
		t.Fatal(err)
	}

	registry := backend.NewRegistry()
	registry.Register(&fakeBackend{short: "demo"})

	p, err := Open(root, registry)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	return p, registry
}

func TestOpenLoadsConfigAtResolvedPath(t *testing.T) {
	p, _ := newTestProject(t)
	expected := filepath.Join(p.Root, ".mvx", "config.yml")
	if p.ConfigPath != expected {
		t.Fatalf("expected config path %q, got %q", expected, p.ConfigPath)
	}
}

func TestResolveProducesToolsetFromConfig(t *testing.T) {
	p, _ := newTestProject(t)
	result := p.Resolve(context.Background(), resolver.Options{})
	if len(result.Failures) != 0 {
		t.Fatalf("unexpected failures: %+v", result.Failures)
	}
	if _, ok := result.Toolset.Get("demo"); !ok {
		t.Fatalf("expected demo tool resolved")
	}
}

func TestInstallPersistsLockPlatforms(t *testing.T) {
	p, _ := newTestProject(t)
	_, installResult, err := p.Install(context.Background(), install.Options{Jobs: 1})
	if err != nil {
		t.Fatalf("install: %v", err)
	}
	if len(installResult.Successful) != 1 {
		t.Fatalf("expected one successful install, got %+v", installResult)
	}
	tool, ok := p.Lockfile.Lookup("demo")
	if !ok || tool.Platforms["linux-x64"].Checksum != "deadbeef" {
		t.Fatalf("expected lockfile to record install checksum, got %+v (ok=%v)", tool, ok)
	}
}

func TestLockGeneratesFreshEntry(t *testing.T) {
	p, _ := newTestProject(t)
	if err := p.Lock(context.Background(), 1); err != nil {
		t.Fatalf("lock: %v", err)
	}
	tool, ok := p.Lockfile.Lookup("demo")
	if !ok || tool.Platforms["linux-x64"].Checksum != "fresh" {
		t.Fatalf("expected lock to record generated checksum, got %+v (ok=%v)", tool, ok)
	}
}

func TestProcessEnvParsesKeyValuePairs(t *testing.T) {
	t.Setenv("MVX_TEST_VAR", "hello")
	env := ProcessEnv()
	if env["MVX_TEST_VAR"] != "hello" {
		t.Fatalf("expected MVX_TEST_VAR=hello, got %q", env["MVX_TEST_VAR"])
	}
}
