package env

import (
	"os"
	"strings"

	"github.com/gnodet/mvx/pkg/backend"
	"github.com/gnodet/mvx/pkg/toolset"
)

// addPathKeys are the legacy and current spellings of the "contribute to
// PATH" env key a backend's ExecEnv may return (§4.4.1).
var addPathKeys = []string{"MISE_ADD_PATH", "RTX_ADD_PATH"}

// toolOptsPrefix marks keys ExecEnv returns purely for the backend's own
// bookkeeping; they are never exported (§4.4.1).
const toolOptsPrefix = "MISE_TOOL_OPTS__"

// toolDerived is the per-tool contribution computed in §4.4.1: plain env
// pairs, the paths the tool asked to be added to PATH (via MISE_ADD_PATH),
// and the tool's own bin directories.
type toolDerived struct {
	env      map[string]string
	addPaths []string
	binPaths []string
}

// deriveToolEnv walks every resolved non-System ToolVersion in PATH-
// precedence order and collects its exec env and bin paths.
func deriveToolEnv(registry *backend.Registry, ts *toolset.Toolset) (toolDerived, error) {
	var out toolDerived
	out.env = make(map[string]string)

	for _, tv := range ts.AllVersions() {
		b, ok := registry.Get(tv.Short())
		if !ok {
			continue
		}

		pairs, err := b.ExecEnv(ts, tv)
		if err != nil {
			return out, err
		}
		for k, v := range pairs {
			if strings.HasPrefix(k, toolOptsPrefix) {
				continue
			}
			if isAddPathKey(k) {
				out.addPaths = append(out.addPaths, splitPathList(v)...)
				continue
			}
			out.env[k] = v
		}

		binPaths, err := b.ListBinPaths(tv)
		if err != nil {
			return out, err
		}
		out.binPaths = append(out.binPaths, binPaths...)
	}

	return out, nil
}

func isAddPathKey(k string) bool {
	for _, candidate := range addPathKeys {
		if k == candidate {
			return true
		}
	}
	return false
}

func splitPathList(v string) []string {
	if v == "" {
		return nil
	}
	return strings.Split(v, string(os.PathListSeparator))
}
