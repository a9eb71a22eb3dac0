// Package module implements a minimal, file-based substitute for the
// Module{} directive's plugin runtime (§4.4). original_source's
// src/config/env_directive/module.rs delegates to a Lua vfox plugin's
// mise_env/mise_path hooks; backend/plugin internals are out of scope here
// (a full Lua runtime is not), so this reads two flat files a module
// directory may publish instead of running a plugin.
package module

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
)

// DirProvider resolves a Module{} directive from static files under
// Root/<name>/: "env" (dotenv-format KEY=VALUE pairs) and "path" (one
// directory per line). It implements env.ModuleProvider.
type DirProvider struct {
	Root string
}

// MiseEnv reads Root/<name>/env as a dotenv file. A missing file yields an
// empty map, not an error — a module that only contributes path entries is
// a normal case.
func (p *DirProvider) MiseEnv(ctx context.Context, name, value string) (map[string]string, error) {
	data, err := os.ReadFile(filepath.Join(p.Root, name, "env"))
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, err
	}
	return godotenv.Unmarshal(string(data))
}

// MisePath reads Root/<name>/path, one directory per non-blank line.
func (p *DirProvider) MisePath(ctx context.Context, name, value string) ([]string, error) {
	data, err := os.ReadFile(filepath.Join(p.Root, name, "path"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var out []string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			out = append(out, line)
		}
	}
	return out, nil
}
