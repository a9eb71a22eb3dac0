package env

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/gnodet/mvx/pkg/backend"
	"github.com/gnodet/mvx/pkg/toolset"
)

// ModuleProvider resolves a Module{} directive (§4.4 step 2, "Module"):
// instantiate the named plugin and ask it for its contributed env/path.
type ModuleProvider interface {
	MiseEnv(ctx context.Context, name, value string) (map[string]string, error)
	MisePath(ctx context.Context, name, value string) ([]string, error)
}

// ShellRunner executes a Source{} directive's script and reports the
// resulting env as a diff against what it was handed (§4.4 step 2,
// "Source"): sets is every key whose value changed or was newly set;
// unset is every key the script removed.
type ShellRunner interface {
	Diff(ctx context.Context, script string, baseEnv map[string]string, dir string) (sets map[string]string, unset []string, err error)
}

// SecretDecrypter decrypts a sops-wrapped document before it is parsed
// (§4.4 step 2, "File"). With a nil SecretDecrypter on the Composer, a File
// directive that matches a sops-encrypted file fails with an error.
type SecretDecrypter interface {
	Decrypt(data []byte) ([]byte, error)
}

// Result is the Environment Composer's output (§4.4): env_map plus
// env_results (paths, removed keys, watch files, redactions, flags).
type Result struct {
	Env        map[string]string
	Path       []string // final, fully-ordered PATH entries
	Removed    []string
	WatchFiles []string
	Redactions []string
	HasScripts bool
	HasModules bool
}

// Composer reduces directives into a Result. Modules, Shell, and Secrets
// are optional; a Source or Module directive whose capability is absent is
// logged as a warning and skipped (mirrors §7's "env composition degrades
// gracefully per-directive"). A File directive that matches a sops-encrypted
// file while Secrets is nil fails the whole composition with an error.
type Composer struct {
	Registry *backend.Registry
	Modules  ModuleProvider
	Shell    ShellRunner
	Secrets  SecretDecrypter
}

// Compose runs the full reduction algorithm of §4.4 against ts (the
// resolved toolset), directives (outermost config file first), and the
// base process environment.
func (c *Composer) Compose(ctx context.Context, ts *toolset.Toolset, directives []Directive, baseEnv map[string]string) (Result, error) {
	derived, err := deriveToolEnv(c.Registry, ts)
	if err != nil {
		return Result{}, fmt.Errorf("tool-derived env: %w", err)
	}

	env := make(map[string]string, len(baseEnv)+len(derived.env))
	for k, v := range baseEnv {
		env[k] = v
	}
	for k, v := range derived.env {
		env[k] = v
	}

	originalPath := splitPathList(baseEnv["PATH"])
	provisionalPath := concatPaths(derived.addPaths, derived.binPaths, originalPath)

	var (
		directivePaths []string
		removed        []string
		watchFiles     []string
		redactions     []string
		hasScripts     bool
		hasModules     bool
	)

	snapshot := func() map[string]string {
		s := make(map[string]string, len(env)+1)
		for k, v := range env {
			s[k] = v
		}
		s["PATH"] = strings.Join(concatPaths(directivePaths, provisionalPath), string(os.PathListSeparator))
		return s
	}

	for _, d := range directives {
		switch d.Kind {
		case DirectiveSet:
			rendered, err := renderTemplate(d.Value, snapshot())
			if err != nil {
				return Result{}, fmt.Errorf("render %s: %w", d.Key, err)
			}
			env[d.Key] = rendered
			if d.Redact {
				redactions = append(redactions, d.Key)
			}

		case DirectiveUnset:
			delete(env, d.Key)
			removed = append(removed, d.Key)

		case DirectivePath:
			rendered, err := renderTemplate(d.Value, snapshot())
			if err != nil {
				return Result{}, fmt.Errorf("render path directive: %w", err)
			}
			entries := splitPathList(rendered)
			directivePaths = prependPreservingOrder(directivePaths, entries)

		case DirectiveFile:
			watchFiles = append(watchFiles, d.Value)
			pairs, matched, err := c.loadFileDirective(d, snapshot())
			if err != nil {
				return Result{}, fmt.Errorf("file directive %q: %w", d.Value, err)
			}
			watchFiles = append(watchFiles, matched...)
			for k, v := range pairs {
				env[k] = v
				if d.Redact {
					redactions = append(redactions, k)
				}
			}

		case DirectiveSource:
			hasScripts = true
			if c.Shell == nil {
				log.Warn("skipping source directive: no shell runner configured", "script", d.Value)
				continue
			}
			sets, unset, err := c.Shell.Diff(ctx, d.Value, snapshot(), d.ConfigDir)
			if err != nil {
				return Result{}, fmt.Errorf("source script: %w", err)
			}
			for k, v := range sets {
				env[k] = v
			}
			for _, k := range unset {
				delete(env, k)
				removed = append(removed, k)
			}

		case DirectiveModule:
			hasModules = true
			if c.Modules == nil {
				log.Warn("skipping module directive: no module provider configured", "module", d.Key)
				continue
			}
			pairs, err := c.Modules.MiseEnv(ctx, d.Key, d.ModuleValue)
			if err != nil {
				return Result{}, fmt.Errorf("module %q env: %w", d.Key, err)
			}
			for k, v := range pairs {
				env[k] = v
			}
			paths, err := c.Modules.MisePath(ctx, d.Key, d.ModuleValue)
			if err != nil {
				return Result{}, fmt.Errorf("module %q path: %w", d.Key, err)
			}
			directivePaths = prependPreservingOrder(directivePaths, paths)

		case DirectiveVenv:
			bin := filepath.Join(d.VenvPath, "bin")
			directivePaths = prependPreservingOrder(directivePaths, []string{bin})
			env["VIRTUAL_ENV"] = d.VenvPath

		default:
			return Result{}, fmt.Errorf("unknown directive kind %q", d.Kind)
		}
	}

	finalPath := dedupPreserveOrder(concatPaths(directivePaths, derived.addPaths, derived.binPaths, originalPath))

	return Result{
		Env:        env,
		Path:       finalPath,
		Removed:    removed,
		WatchFiles: watchFiles,
		Redactions: redactions,
		HasScripts: hasScripts,
		HasModules: hasModules,
	}, nil
}

// loadFileDirective implements the File{} branch of §4.4 step 2: render the
// template, glob-expand relative to ConfigDir, and for each match parse by
// extension into flat scalar (key,value) pairs.
func (c *Composer) loadFileDirective(d Directive, snapshot map[string]string) (map[string]string, []string, error) {
	rendered, err := renderTemplate(d.Value, snapshot)
	if err != nil {
		return nil, nil, err
	}
	pattern := rendered
	if !filepath.IsAbs(pattern) {
		pattern = filepath.Join(d.ConfigDir, pattern)
	}
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return nil, nil, err
	}
	sort.Strings(matches)

	out := make(map[string]string)
	for _, path := range matches {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, nil, err
		}
		if d.Decrypt && looksLikeSops(data) {
			if c.Secrets == nil {
				return nil, nil, fmt.Errorf("%s is sops-encrypted but no secret decrypter is configured", path)
			}
			data, err = c.Secrets.Decrypt(data)
			if err != nil {
				return nil, nil, fmt.Errorf("decrypt %s: %w", path, err)
			}
		}
		pairs, err := parseByExtension(path, data)
		if err != nil {
			return nil, nil, err
		}
		for k, v := range pairs {
			out[k] = v
		}
	}
	return out, matches, nil
}

func looksLikeSops(data []byte) bool {
	return strings.Contains(string(data), "\"sops\"") || strings.Contains(string(data), "sops:")
}

// parseByExtension flattens a file into scalar env pairs, dispatching on
// extension per §4.4: json/yaml/toml get structural flattening; anything
// else is parsed as dotenv.
func parseByExtension(path string, data []byte) (map[string]string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		var doc map[string]interface{}
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, err
		}
		return flatten(doc), nil
	case ".yaml", ".yml":
		var doc map[string]interface{}
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, err
		}
		return flatten(doc), nil
	case ".toml":
		var doc map[string]interface{}
		if err := toml.Unmarshal(data, &doc); err != nil {
			return nil, err
		}
		return flatten(doc), nil
	default:
		return godotenv.Unmarshal(string(data))
	}
}

// flatten turns a nested document into leaf (key,value) pairs, joining
// nested keys with "_" the way mise's env.json/env.yaml flattening does.
func flatten(doc map[string]interface{}) map[string]string {
	out := make(map[string]string)
	var walk func(prefix string, v interface{})
	walk = func(prefix string, v interface{}) {
		switch val := v.(type) {
		case map[string]interface{}:
			for k, child := range val {
				key := k
				if prefix != "" {
					key = prefix + "_" + k
				}
				walk(key, child)
			}
		case nil:
			out[prefix] = ""
		default:
			out[prefix] = fmt.Sprintf("%v", val)
		}
	}
	walk("", doc)
	return out
}

func concatPaths(groups ...[]string) []string {
	var out []string
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}

// prependPreservingOrder adds entries to the front of existing, keeping
// entries' relative order among themselves (§4.4: "prepend each resulting
// directory to env_paths preserving relative order among entries in the
// same directive").
func prependPreservingOrder(existing []string, entries []string) []string {
	return append(append([]string{}, entries...), existing...)
}

func dedupPreserveOrder(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, v := range in {
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}
