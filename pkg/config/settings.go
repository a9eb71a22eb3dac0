package config

import (
	"github.com/spf13/viper"
)

// settingsEnvVars are the §6.3 overrides: mirrors how divijg19-rig and
// compozy bind a settings struct to a handful of env vars instead of
// scattering os.Getenv calls across the codebase. __MISE_ENV_CACHE_KEY is
// deliberately NOT bound here: it is a secret, read through its own narrow
// accessor in pkg/env/cache.go, and pkg/env must not import this package
// (this package already imports pkg/env for EnvDirectives).
var settingsEnvVars = []string{
	"MISE_JOBS",
	"MISE_SYSTEM_DIR",
	"MISE_CACHE_DIR",
	"MISE_STATE_DIR",
	"MISE_CONFIG_DIR",
	"MISE_DATA_DIR",
	"__MISE_FRESH_ENV",
}

// Settings layers the MISE_*/__MISE_* environment overrides of §6.3 over
// mvx's own defaults.
type Settings struct {
	v *viper.Viper
}

// LoadSettings builds a Settings reading the current process environment.
// It is built fresh per call rather than cached, since tests set/unset
// these env vars around individual calls.
func LoadSettings() *Settings {
	v := viper.New()
	for _, name := range settingsEnvVars {
		_ = v.BindEnv(name)
	}
	v.SetDefault("MISE_JOBS", 0)
	return &Settings{v: v}
}

// Jobs returns the MISE_JOBS override, or 0 if unset (the caller falls back
// to its own default concurrency).
func (s *Settings) Jobs() int {
	return s.v.GetInt("MISE_JOBS")
}

// SystemDir is where pre-installed, system-wide tool versions may live,
// consulted by core backends alongside their normal per-user install tree.
func (s *Settings) SystemDir() string {
	return s.v.GetString("MISE_SYSTEM_DIR")
}

// CacheDir overrides the tool manager's download/version cache root.
func (s *Settings) CacheDir() string {
	return s.v.GetString("MISE_CACHE_DIR")
}

// StateDir overrides mvx's persisted state root (tracked configs, hints,
// env cache); pkg/state.Dir also accepts this directly to avoid pkg/state
// importing this package.
func (s *Settings) StateDir() string {
	return s.v.GetString("MISE_STATE_DIR")
}

// ConfigDir overrides the global (per-user) mvx config directory.
func (s *Settings) ConfigDir() string {
	return s.v.GetString("MISE_CONFIG_DIR")
}

// DataDir overrides where module-directive data (e.g. the Module directive
// substitute's env/path files) is rooted.
func (s *Settings) DataDir() string {
	return s.v.GetString("MISE_DATA_DIR")
}

// FreshEnv reports whether __MISE_FRESH_ENV is set, the marker the
// Environment Composer's disk cache (§4.4.2) treats as "recompute, don't
// trust whatever's cached", mirroring the original implementation's guard
// against stale inherited shell state.
func (s *Settings) FreshEnv() bool {
	return s.v.GetString("__MISE_FRESH_ENV") != ""
}
