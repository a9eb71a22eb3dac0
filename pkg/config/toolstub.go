package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"github.com/gnodet/mvx/pkg/toolset"
)

// ToolStub is the parsed form of a tool-stub file (§6.2, supplemented from
// original_source/src/cli/tool_stub.rs): a TOML document, optionally
// preceded by a `#!/usr/bin/env -S mvx tool-stub` shebang line, naming a
// single tool and an executable inside it to run in its place.
type ToolStub struct {
	Version    string
	Bin        string
	Tool       string
	InstallEnv map[string]string
	OS         []string
	Opts       map[string]string

	// ToolName/BinName are derived: explicit tool/bin fields win, otherwise
	// both default to the stub file's own name.
	ToolName string
	BinName  string
}

var toolStubKnownKeys = map[string]bool{
	"version": true, "bin": true, "tool": true, "install_env": true, "os": true,
}

// LoadToolStub reads and parses a tool-stub file.
func LoadToolStub(path string) (*ToolStub, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read tool stub %s: %w", path, err)
	}
	data = stripShebang(data)

	var raw map[string]interface{}
	if err := toml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse tool stub %s: %w", path, err)
	}

	stub := &ToolStub{Version: "latest", Opts: make(map[string]string)}
	if v, ok := raw["version"].(string); ok {
		stub.Version = v
	}
	if v, ok := raw["bin"].(string); ok {
		stub.Bin = v
	}
	if v, ok := raw["tool"].(string); ok {
		stub.Tool = v
	}
	if m, ok := raw["install_env"].(map[string]interface{}); ok {
		stub.InstallEnv = make(map[string]string, len(m))
		for k, v := range m {
			stub.InstallEnv[k] = fmt.Sprintf("%v", v)
		}
	}
	if arr, ok := raw["os"].([]interface{}); ok {
		for _, v := range arr {
			stub.OS = append(stub.OS, fmt.Sprintf("%v", v))
		}
	}
	for k, v := range raw {
		if toolStubKnownKeys[k] {
			continue
		}
		stub.Opts[k] = stringifyTOMLValue(v)
	}

	base := filepath.Base(path)
	stub.ToolName = stub.Tool
	if stub.ToolName == "" {
		stub.ToolName = stub.Opts["tool"]
	}
	if stub.ToolName == "" {
		stub.ToolName = base
	}
	delete(stub.Opts, "tool")

	stub.BinName = stub.Bin
	if stub.BinName == "" {
		stub.BinName = base
	}

	return stub, nil
}

// stripShebang removes a leading `#!...` line, if present, so the remainder
// parses as plain TOML.
func stripShebang(data []byte) []byte {
	if len(data) < 2 || data[0] != '#' || data[1] != '!' {
		return data
	}
	if i := bytes.IndexByte(data, '\n'); i >= 0 {
		return data[i+1:]
	}
	return nil
}

// stringifyTOMLValue mirrors tool_stub.rs's deserialize_tool_stub_options:
// scalars render as their plain string form, tables/arrays re-serialize as
// TOML so they can still round-trip through a flat string-keyed opts map.
func stringifyTOMLValue(v interface{}) string {
	switch val := v.(type) {
	case string:
		return val
	case map[string]interface{}, []interface{}:
		out, err := toml.Marshal(val)
		if err != nil {
			return fmt.Sprintf("%v", val)
		}
		return string(out)
	default:
		return fmt.Sprintf("%v", val)
	}
}

// ToRequest builds the single ToolRequest a stub resolves to, applying the
// same short-name backend aliasing as a project config file.
func (s *ToolStub) ToRequest(src toolset.ToolSource) (toolset.ToolRequest, error) {
	ba := backendIDFor(s.ToolName)
	opts := toolset.Options{
		Values:     s.Opts,
		OSAllow:    s.OS,
		InstallEnv: s.InstallEnv,
	}
	return toolset.ParseRequest(ba, s.Version, opts, src)
}
