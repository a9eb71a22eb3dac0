package lockfile

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// writeAtomic writes data to path under an exclusive flock on a sibling
// ".flock" guard file, then renames a temp file into place (§4.5: "lockfile
// writes are atomic and safe under concurrent `mvx install` runs").
func writeAtomic(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir for lockfile %s: %w", path, err)
	}
	guard := flock.New(path + ".flock")
	if err := guard.Lock(); err != nil {
		return fmt.Errorf("lock %s: %w", path, err)
	}
	defer guard.Unlock()

	tmp, err := os.CreateTemp(filepath.Dir(path), ".mvx-lock-*")
	if err != nil {
		return fmt.Errorf("create temp lockfile: %w", err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("write temp lockfile: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("close temp lockfile: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename temp lockfile into place: %w", err)
	}
	return nil
}

// ResolvePath picks between ".local.lock" and ".lock" per the Open Question
// decision recorded in DESIGN.md: when both exist for a given base config
// path, the local variant wins.
func ResolvePath(configDir string) string {
	local := filepath.Join(configDir, "mise.local.lock")
	if _, err := os.Stat(local); err == nil {
		return local
	}
	return filepath.Join(configDir, "mise.lock")
}
