package resolver

import (
	"context"
	"testing"

	"github.com/gnodet/mvx/pkg/backend"
	"github.com/gnodet/mvx/pkg/mvxerr"
	"github.com/gnodet/mvx/pkg/toolset"
)

// stubBackend is a minimal in-memory Backend used to exercise the resolver's
// variant dispatch without any real network or filesystem access.
type stubBackend struct {
	id       toolset.BackendId
	remote   []string
	installed []string
	aliases  map[string]string
}

func newStub(short string, remote ...string) *stubBackend {
	return &stubBackend{id: toolset.NewBackendId(short), remote: remote, aliases: map[string]string{}}
}

func (s *stubBackend) ID() toolset.BackendId { return s.id }

func (s *stubBackend) ListRemoteVersions(ctx context.Context) ([]backend.VersionInfo, error) {
	out := make([]backend.VersionInfo, len(s.remote))
	for i, v := range s.remote {
		out[i] = backend.VersionInfo{Version: v}
	}
	return out, nil
}

func (s *stubBackend) ListInstalledVersions() ([]string, error) { return s.installed, nil }

func (s *stubBackend) LatestVersion(ctx context.Context, prefix string) (string, bool, error) {
	best := ""
	for _, v := range s.remote {
		if prefix != "" && (len(v) < len(prefix) || v[:len(prefix)] != prefix) {
			continue
		}
		if best == "" || toolset.VersionGreater(v, best) {
			best = v
		}
	}
	return best, best != "", nil
}

func (s *stubBackend) ParseIdiomaticFile(path string) (string, bool) { return "", false }
func (s *stubBackend) GetAllDependencies(includeOptional bool) []toolset.BackendId { return nil }

func (s *stubBackend) InstallVersion(ctx *backend.InstallContext, tv toolset.ToolVersion) (toolset.ToolVersion, error) {
	return tv, nil
}
func (s *stubBackend) UninstallVersion(ctx *backend.InstallContext, tv toolset.ToolVersion) error { return nil }
func (s *stubBackend) IsVersionInstalled(tv toolset.ToolVersion, checkSymlink bool) bool { return false }

func (s *stubBackend) ListBinPaths(tv toolset.ToolVersion) ([]string, error) { return nil, nil }
func (s *stubBackend) ExecEnv(ts *toolset.Toolset, tv toolset.ToolVersion) (map[string]string, error) {
	return nil, nil
}
func (s *stubBackend) Which(tv toolset.ToolVersion, name string) (string, bool) { return "", false }

func (s *stubBackend) GetPlatformKey() string { return "linux-x64" }
func (s *stubBackend) ResolveLockfileOptions(req toolset.ToolRequest, target string) map[string]string {
	return nil
}
func (s *stubBackend) PlatformVariants(platform string) []string { return []string{platform} }
func (s *stubBackend) ResolveLockInfo(ctx context.Context, tv toolset.ToolVersion, target string) (toolset.PlatformInfo, error) {
	return toolset.PlatformInfo{}, nil
}

func (s *stubBackend) ResolveAlias(alias string) (string, bool) {
	v, ok := s.aliases[alias]
	return v, ok
}

func newRegistryWith(b backend.Backend) *backend.Registry {
	r := backend.NewRegistry()
	r.Register(b)
	return r
}

func TestResolveVersionExact(t *testing.T) {
	node := newStub("node", "18.0.0", "20.10.0")
	r := New(newRegistryWith(node), nil)
	req := toolset.NewVersionRequest(node.id, "18.0.0", toolset.Options{}, toolset.CLIArgSource())

	result := r.Resolve(context.Background(), []toolset.ToolVersionList{{BA: node.id, Requests: []toolset.ToolRequest{req}}}, Options{})
	if len(result.Failures) != 0 {
		t.Fatalf("unexpected failures: %+v", result.Failures)
	}
	versions := result.Toolset.AllVersions()
	if len(versions) != 1 || versions[0].ConcreteVersion != "18.0.0" {
		t.Fatalf("expected resolved 18.0.0, got %+v", versions)
	}
}

func TestResolveVersionNotFoundIsPerRequest(t *testing.T) {
	node := newStub("node", "18.0.0")
	r := New(newRegistryWith(node), nil)
	bad := toolset.NewVersionRequest(node.id, "99.0.0", toolset.Options{}, toolset.CLIArgSource())
	good := toolset.NewVersionRequest(node.id, "18.0.0", toolset.Options{}, toolset.CLIArgSource())

	result := r.Resolve(context.Background(), []toolset.ToolVersionList{
		{BA: node.id, Requests: []toolset.ToolRequest{bad}},
		{BA: node.id, Requests: []toolset.ToolRequest{good}},
	}, Options{})

	if len(result.Failures) != 1 || !mvxerr.Is(result.Failures[0].Err, mvxerr.KindVersionNotFound) {
		t.Fatalf("expected one VersionNotFound failure, got %+v", result.Failures)
	}
	if len(result.Toolset.AllVersions()) != 1 {
		t.Fatalf("expected the second list to still resolve despite the first failing")
	}
}

func TestResolvePrefixPicksNewestMatch(t *testing.T) {
	node := newStub("node", "20.9.0", "20.10.0", "18.0.0")
	r := New(newRegistryWith(node), nil)
	req := toolset.NewPrefixRequest(node.id, "20", toolset.Options{}, toolset.CLIArgSource())

	result := r.Resolve(context.Background(), []toolset.ToolVersionList{{BA: node.id, Requests: []toolset.ToolRequest{req}}}, Options{})
	versions := result.Toolset.AllVersions()
	if len(versions) != 1 || versions[0].ConcreteVersion != "20.10.0" {
		t.Fatalf("expected 20.10.0, got %+v", versions)
	}
}

func TestResolveSubAppliesVersionSub(t *testing.T) {
	node := newStub("node", "18.2.3")
	r := New(newRegistryWith(node), nil)
	req := toolset.NewSubRequest(node.id, "2", "18.2.3", toolset.Options{}, toolset.CLIArgSource())

	result := r.Resolve(context.Background(), []toolset.ToolVersionList{{BA: node.id, Requests: []toolset.ToolRequest{req}}}, Options{})
	versions := result.Toolset.AllVersions()
	if len(versions) != 1 || versions[0].ConcreteVersion != "16" {
		t.Fatalf("expected sub result 16, got %+v", versions)
	}
}

func TestResolveSystemAndPathNeverTouchBackend(t *testing.T) {
	node := newStub("node")
	r := New(newRegistryWith(node), nil)
	sysReq := toolset.NewSystemRequest(node.id, toolset.Options{}, toolset.CLIArgSource())
	pathReq := toolset.NewPathRequest(node.id, "/opt/node", toolset.Options{}, toolset.CLIArgSource())

	result := r.Resolve(context.Background(), []toolset.ToolVersionList{
		{BA: node.id, Requests: []toolset.ToolRequest{sysReq}},
	}, Options{})
	if len(result.Failures) != 0 {
		t.Fatalf("unexpected failures: %+v", result.Failures)
	}
	// System requests contribute no entries to AllVersions (they're filtered).
	if len(result.Toolset.AllVersions()) != 0 {
		t.Fatalf("expected system request to be excluded from AllVersions")
	}

	result = r.Resolve(context.Background(), []toolset.ToolVersionList{
		{BA: node.id, Requests: []toolset.ToolRequest{pathReq}},
	}, Options{})
	versions := result.Toolset.AllVersions()
	if len(versions) != 1 || versions[0].InstallPath != "/opt/node" {
		t.Fatalf("expected path request to resolve to /opt/node, got %+v", versions)
	}
}

func TestResolveUsesLockedVersionWhenRequested(t *testing.T) {
	node := newStub("node", "20.10.0")
	r := New(newRegistryWith(node), nil)
	req := toolset.NewVersionRequest(node.id, "18.0.0", toolset.Options{}, toolset.CLIArgSource())

	result := r.Resolve(context.Background(), []toolset.ToolVersionList{{BA: node.id, Requests: []toolset.ToolRequest{req}}}, Options{UseLockedVersion: true})
	// With no lockfile attached (nil), the locked short-circuit is a no-op
	// and ordinary exact-match resolution still applies.
	versions := result.Toolset.AllVersions()
	if len(versions) != 1 || versions[0].ConcreteVersion != "18.0.0" {
		t.Fatalf("expected normal resolution with nil lockfile, got %+v", versions)
	}
}
