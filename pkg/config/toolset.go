package config

import (
	"sort"

	"github.com/gnodet/mvx/pkg/env"
	"github.com/gnodet/mvx/pkg/toolset"
)

// backendAliases pads a config file's short tool name out to its backend's
// full/canonical spelling where the two differ, mirroring mise's own
// alias table (`node` -> `nodejs`, `go` -> `golang`) so the resolved
// BackendId always carries both spellings for the lockfile/registry.
var backendAliases = map[string]string{
	"node": "nodejs",
	"go":   "golang",
}

func backendIDFor(short string) toolset.BackendId {
	if full, ok := backendAliases[short]; ok {
		return toolset.NewBackendId(short, full)
	}
	return toolset.NewBackendId(short)
}

// ToRequestSet implements the ConfigFile contract's to_tool_request_set()
// (§3.2): one ToolVersionList per configured tool, in a deterministic
// (sorted) order so repeated loads of the same file produce the same
// Toolset insertion order.
func (c *Config) ToRequestSet(src toolset.ToolSource) ([]toolset.ToolVersionList, error) {
	names := make([]string, 0, len(c.Tools))
	for name := range c.Tools {
		names = append(names, name)
	}
	sort.Strings(names)

	lists := make([]toolset.ToolVersionList, 0, len(names))
	for _, name := range names {
		tc := c.Tools[name]
		ba := backendIDFor(name)
		opts := toolset.Options{Values: tc.Options}
		req, err := toolset.ParseRequest(ba, tc.Version, opts, src)
		if err != nil {
			return nil, err
		}
		lists = append(lists, toolset.ToolVersionList{BA: ba, Source: src, Requests: []toolset.ToolRequest{req}})
	}
	return lists, nil
}

// EnvDirectives implements the ConfigFile contract's env_entries() (§3.2):
// the config's flat `environment` table becomes ordinary Set directives, in
// sorted key order, anchored to configDir for any relative File/Source
// directives layered on top by future config syntax.
func (c *Config) EnvDirectives(configDir string) []env.Directive {
	keys := make([]string, 0, len(c.Environment))
	for k := range c.Environment {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]env.Directive, 0, len(keys))
	for _, k := range keys {
		out = append(out, env.Set(k, c.Environment[k], false))
	}
	return out
}

// WatchFiles implements the ConfigFile contract's watch_files() (§3.2): the
// config file itself is always watched; env File directives add their own
// entries once composed (tracked by the Environment Composer, not here).
func (c *Config) WatchFiles(path string) []string {
	return []string{path}
}
