package env

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/gnodet/mvx/pkg/backend"
	"github.com/gnodet/mvx/pkg/toolset"
)

// toolBackend is a minimal Backend that contributes a fixed ExecEnv/bin path
// pair, enough to exercise the Environment Composer's tool-derived step.
type toolBackend struct {
	short    string
	env      map[string]string
	binPaths []string
}

func (b *toolBackend) ID() toolset.BackendId { return toolset.NewBackendId(b.short) }
func (b *toolBackend) ListRemoteVersions(ctx context.Context) ([]backend.VersionInfo, error) {
	return nil, nil
}
func (b *toolBackend) ListInstalledVersions() ([]string, error) { return nil, nil }
func (b *toolBackend) LatestVersion(ctx context.Context, prefix string) (string, bool, error) {
	return "", false, nil
}
func (b *toolBackend) ParseIdiomaticFile(path string) (string, bool) { return "", false }
func (b *toolBackend) GetAllDependencies(includeOptional bool) []toolset.BackendId { return nil }
func (b *toolBackend) InstallVersion(ctx *backend.InstallContext, tv toolset.ToolVersion) (toolset.ToolVersion, error) {
	return tv, nil
}
func (b *toolBackend) UninstallVersion(ctx *backend.InstallContext, tv toolset.ToolVersion) error { return nil }
func (b *toolBackend) IsVersionInstalled(tv toolset.ToolVersion, checkSymlink bool) bool { return true }
func (b *toolBackend) ListBinPaths(tv toolset.ToolVersion) ([]string, error)             { return b.binPaths, nil }
func (b *toolBackend) ExecEnv(ts *toolset.Toolset, tv toolset.ToolVersion) (map[string]string, error) {
	return b.env, nil
}
func (b *toolBackend) Which(tv toolset.ToolVersion, name string) (string, bool) { return "", false }
func (b *toolBackend) GetPlatformKey() string                                   { return "linux-x64" }
func (b *toolBackend) ResolveLockfileOptions(req toolset.ToolRequest, target string) map[string]string {
	return nil
}
func (b *toolBackend) PlatformVariants(platform string) []string { return []string{platform} }
func (b *toolBackend) ResolveLockInfo(ctx context.Context, tv toolset.ToolVersion, target string) (toolset.PlatformInfo, error) {
	return toolset.PlatformInfo{}, nil
}

func tsWithTool(short string) *toolset.Toolset {
	ts := toolset.NewToolset()
	ba := toolset.NewBackendId(short)
	req := toolset.NewVersionRequest(ba, "1.0.0", toolset.Options{}, toolset.CLIArgSource())
	ts.Insert(toolset.ToolVersionList{BA: ba, Requests: []toolset.ToolRequest{req}, Versions: []toolset.ToolVersion{{Request: req, ConcreteVersion: "1.0.0"}}})
	return ts
}

func TestComposeSetDirectiveRendersTemplate(t *testing.T) {
	registry := backend.NewRegistry()
	registry.Register(&toolBackend{short: "node", env: map[string]string{"NODE_ENV": "production"}, binPaths: []string{"/opt/node/bin"}})
	c := &Composer{Registry: registry}

	directives := []Directive{Set("GREETING", "hello {{ env \"NODE_ENV\" }}", false)}
	result, err := c.Compose(context.Background(), tsWithTool("node"), directives, map[string]string{"PATH": "/usr/bin"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Env["GREETING"] != "hello production" {
		t.Fatalf("expected rendered greeting, got %q", result.Env["GREETING"])
	}
}

func TestComposePathOrderingInvariant(t *testing.T) {
	registry := backend.NewRegistry()
	registry.Register(&toolBackend{
		short:    "node",
		env:      map[string]string{"MISE_ADD_PATH": "/tool/add/path"},
		binPaths: []string{"/tool/bin"},
	})
	c := &Composer{Registry: registry}

	directives := []Directive{Path("/directive/path", "")}
	result, err := c.Compose(context.Background(), tsWithTool("node"), directives, map[string]string{"PATH": "/usr/bin"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"/directive/path", "/tool/add/path", "/tool/bin", "/usr/bin"}
	if len(result.Path) != len(want) {
		t.Fatalf("got %v, want %v", result.Path, want)
	}
	for i, w := range want {
		if result.Path[i] != w {
			t.Fatalf("PATH[%d] = %q, want %q (full: %v)", i, result.Path[i], w, result.Path)
		}
	}
}

func TestComposeUnsetRemovesKey(t *testing.T) {
	registry := backend.NewRegistry()
	c := &Composer{Registry: registry}
	directives := []Directive{Unset("SECRET")}
	result, err := c.Compose(context.Background(), toolset.NewToolset(), directives, map[string]string{"SECRET": "x", "PATH": ""})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := result.Env["SECRET"]; ok {
		t.Fatalf("expected SECRET to be removed")
	}
	if len(result.Removed) != 1 || result.Removed[0] != "SECRET" {
		t.Fatalf("expected SECRET recorded as removed, got %v", result.Removed)
	}
}

func TestComposeFileDirectiveFlattensJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "env.json")
	if err := os.WriteFile(path, []byte(`{"DB_HOST":"localhost","DB":{"PORT":"5432"}}`), 0o644); err != nil {
		t.Fatal(err)
	}
	registry := backend.NewRegistry()
	c := &Composer{Registry: registry}
	directives := []Directive{File("env.json", dir, false)}
	result, err := c.Compose(context.Background(), toolset.NewToolset(), directives, map[string]string{"PATH": ""})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Env["DB_HOST"] != "localhost" || result.Env["DB_PORT"] != "5432" {
		t.Fatalf("expected flattened JSON pairs, got %+v", result.Env)
	}
	if len(result.WatchFiles) == 0 {
		t.Fatalf("expected the matched file to be recorded as a watch file")
	}
}
