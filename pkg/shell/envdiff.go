package shell

import (
	"bufio"
	"bytes"
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"

	"github.com/google/shlex"
)

// EnvDiffRunner implements env.ShellRunner (§4.4's Source directive): it
// runs a script through a real system shell and diffs the environment left
// behind against the one it started with, the same env-dump-after-marker
// technique original_source/src/config/env_directive/source.rs uses.
type EnvDiffRunner struct {
	// ShellCommand overrides the interpreter invocation, e.g. "/bin/zsh -c",
	// tokenized into argv with shlex. Empty means the platform default
	// (bash -c on unix, cmd /c on windows), mirroring
	// pkg/executor.executeNativeScript.
	ShellCommand string
}

func (r *EnvDiffRunner) Diff(ctx context.Context, script string, baseEnv map[string]string, dir string) (map[string]string, []string, error) {
	marker, err := randomMarker()
	if err != nil {
		return nil, nil, fmt.Errorf("generate diff marker: %w", err)
	}

	argv, err := r.shellArgv()
	if err != nil {
		return nil, nil, fmt.Errorf("resolve shell command: %w", err)
	}

	full := script + "\n" + "echo " + marker + "\n" + envDumpCommand()
	cmd := exec.CommandContext(ctx, argv[0], append(argv[1:], full)...)
	cmd.Dir = dir
	cmd.Env = envSlice(baseEnv)
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return nil, nil, fmt.Errorf("run source script: %w", err)
	}

	after, err := parseEnvAfterMarker(out.String(), marker)
	if err != nil {
		return nil, nil, err
	}

	sets := make(map[string]string)
	for k, v := range after {
		if baseEnv[k] != v {
			sets[k] = v
		}
	}
	var unset []string
	for k := range baseEnv {
		if _, ok := after[k]; !ok {
			unset = append(unset, k)
		}
	}
	return sets, unset, nil
}

// shellArgv returns the interpreter argv (missing only the script itself,
// appended by the caller), tokenizing a custom ShellCommand with shlex.
func (r *EnvDiffRunner) shellArgv() ([]string, error) {
	if r.ShellCommand != "" {
		argv, err := shlex.Split(r.ShellCommand)
		if err != nil {
			return nil, fmt.Errorf("parse shell command %q: %w", r.ShellCommand, err)
		}
		if len(argv) == 0 {
			return nil, fmt.Errorf("empty shell command")
		}
		return argv, nil
	}
	if runtime.GOOS == "windows" {
		return []string{"cmd", "/c"}, nil
	}
	return []string{"/bin/bash", "-c"}, nil
}

func envDumpCommand() string {
	if runtime.GOOS == "windows" {
		return "set"
	}
	return "env"
}

func randomMarker() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return "___MVX_SOURCE_DIFF_" + hex.EncodeToString(buf) + "___", nil
}

// parseEnvAfterMarker scans output for the marker line, then parses every
// "KEY=VALUE" line that follows as the post-script environment.
func parseEnvAfterMarker(output, marker string) (map[string]string, error) {
	scanner := bufio.NewScanner(strings.NewReader(output))
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	seenMarker := false
	out := make(map[string]string)
	for scanner.Scan() {
		line := scanner.Text()
		if !seenMarker {
			if strings.TrimSpace(line) == marker {
				seenMarker = true
			}
			continue
		}
		k, v, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		out[k] = v
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan env dump: %w", err)
	}
	if !seenMarker {
		return nil, fmt.Errorf("diff marker %q not found in script output", marker)
	}
	return out, nil
}

func envSlice(env map[string]string) []string {
	out := make([]string, 0, len(env))
	for k, v := range env {
		out = append(out, k+"="+v)
	}
	return out
}
