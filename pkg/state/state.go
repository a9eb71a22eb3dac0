// Package state manages mvx's persisted per-user state directory
// (§6.4): the tracked-configs registry (which project config files have
// ever been trusted/loaded) and hint markers used to nudge first-time
// users ("you have an untrusted .mvx/config.yml here").
package state

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Dir is the root state directory, defaulting to
// "$XDG_STATE_HOME/mvx" or "~/.local/state/mvx".
func Dir() string {
	if v := os.Getenv("MVX_STATE_DIR"); v != "" {
		return v
	}
	if v := os.Getenv("MISE_STATE_DIR"); v != "" {
		return v
	}
	if xdg := os.Getenv("XDG_STATE_HOME"); xdg != "" {
		return filepath.Join(xdg, "mvx")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "mvx-state")
	}
	return filepath.Join(home, ".local", "state", "mvx")
}

// TrackedConfigsFile is where every config path mvx has ever resolved is
// recorded, one absolute path per line, so `mvx config ls` can report on
// projects the user isn't currently sitting in.
func TrackedConfigsFile() string {
	return filepath.Join(Dir(), "tracked-configs")
}

// Track appends path to the tracked-configs registry if it is not already
// present (idempotent; order of first appearance is preserved).
func Track(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolve absolute path for %s: %w", path, err)
	}
	existing, err := ListTracked()
	if err != nil {
		return err
	}
	for _, e := range existing {
		if e == abs {
			return nil
		}
	}
	if err := os.MkdirAll(Dir(), 0o755); err != nil {
		return fmt.Errorf("create state dir: %w", err)
	}
	f, err := os.OpenFile(TrackedConfigsFile(), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open tracked-configs: %w", err)
	}
	defer f.Close()
	_, err = fmt.Fprintln(f, abs)
	return err
}

// ListTracked returns every tracked config path, sorted, skipping entries
// whose file no longer exists on disk.
func ListTracked() ([]string, error) {
	data, err := os.ReadFile(TrackedConfigsFile())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read tracked-configs: %w", err)
	}
	var out []string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if _, err := os.Stat(line); err == nil {
			out = append(out, line)
		}
	}
	sort.Strings(out)
	return out, nil
}

// Untrack removes path from the tracked-configs registry.
func Untrack(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	existing, err := ListTracked()
	if err != nil {
		return err
	}
	var kept []string
	for _, e := range existing {
		if e != abs {
			kept = append(kept, e)
		}
	}
	return os.WriteFile(TrackedConfigsFile(), []byte(strings.Join(kept, "\n")+"\n"), 0o644)
}

// hintsDir holds one empty marker file per (hint name) shown-once flag.
func hintsDir() string { return filepath.Join(Dir(), "hints") }

// HintShown reports whether hint has already been shown to this user.
func HintShown(hint string) bool {
	_, err := os.Stat(filepath.Join(hintsDir(), hint))
	return err == nil
}

// MarkHintShown records that hint has now been shown, so it is not
// repeated on subsequent runs.
func MarkHintShown(hint string) error {
	if err := os.MkdirAll(hintsDir(), 0o755); err != nil {
		return fmt.Errorf("create hints dir: %w", err)
	}
	f, err := os.Create(filepath.Join(hintsDir(), hint))
	if err != nil {
		return fmt.Errorf("mark hint %s shown: %w", hint, err)
	}
	return f.Close()
}

// EnvCacheDir is where the Environment Composer's encrypted cache files
// live (§4.4.2), one file per fingerprint of the config paths and resolved
// toolset.
func EnvCacheDir() string { return filepath.Join(Dir(), "env-cache") }
