package mvx

import (
	"context"
	"fmt"
	"os"
	"os/exec"

	"github.com/gnodet/mvx/pkg/backend"
	"github.com/gnodet/mvx/pkg/config"
	"github.com/gnodet/mvx/pkg/install"
	"github.com/gnodet/mvx/pkg/lockfile"
	"github.com/gnodet/mvx/pkg/resolver"
	"github.com/gnodet/mvx/pkg/toolset"
)

// RunStub executes a tool-stub file (§6.2): it resolves and, if needed,
// installs the single tool the stub names, then execs its bin with args,
// mirroring original_source/src/cli/tool_stub.rs's execute_with_tool_request.
func RunStub(ctx context.Context, registry *backend.Registry, stubPath string, args []string) error {
	stub, err := config.LoadToolStub(stubPath)
	if err != nil {
		return err
	}

	src := toolset.ToolSource{Kind: toolset.SourceToolStub, Path: stubPath}
	req, err := stub.ToRequest(src)
	if err != nil {
		return fmt.Errorf("build tool request for stub %s: %w", stubPath, err)
	}

	lists := []toolset.ToolVersionList{{BA: req.BA, Source: src, Requests: []toolset.ToolRequest{req}}}

	r := resolver.New(registry, lockfile.New(""))
	resolveResult := r.Resolve(ctx, lists, resolver.Options{})
	if len(resolveResult.Failures) > 0 {
		return fmt.Errorf("resolve tool stub %s: %w", stubPath, resolveResult.Failures[0].Err)
	}

	installResult := install.Run(ctx, registry, resolveResult.Toolset, install.Options{})
	if len(installResult.Failed) > 0 {
		return fmt.Errorf("install tool stub %s: %w", stubPath, installResult.Failed[0].Err)
	}

	b, ok := registry.Get(req.BA.Short())
	if !ok {
		return fmt.Errorf("backend %q not registered", req.BA.Short())
	}

	tvs := resolveResult.Toolset.AllVersions()
	if len(tvs) == 0 {
		return fmt.Errorf("no resolved version for tool stub %s", stubPath)
	}

	binPath, ok := b.Which(tvs[0], stub.BinName)
	if !ok {
		return fmt.Errorf("bin %q not found for tool %q", stub.BinName, stub.ToolName)
	}

	composer := NewDefaultComposer(registry)
	envResult, err := composer.Compose(ctx, resolveResult.Toolset, nil, ProcessEnv())
	if err != nil {
		return fmt.Errorf("compose env for tool stub %s: %w", stubPath, err)
	}

	return execProgram(binPath, args, envResult.Env)
}

// execProgram runs bin as a child process, inheriting stdio, with env as its
// full environment, and propagates its exit code as a plain error.
func execProgram(bin string, args []string, env map[string]string) error {
	cmd := exec.Command(bin, args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.Env = make([]string, 0, len(env))
	for k, v := range env {
		cmd.Env = append(cmd.Env, k+"="+v)
	}
	return cmd.Run()
}
