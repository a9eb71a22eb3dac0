package mvx

import (
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/gnodet/mvx/pkg/backend"
	"github.com/gnodet/mvx/pkg/config"
	mvxenv "github.com/gnodet/mvx/pkg/env"
	"github.com/gnodet/mvx/pkg/module"
	"github.com/gnodet/mvx/pkg/secret"
	"github.com/gnodet/mvx/pkg/shell"
	"github.com/gnodet/mvx/pkg/state"
)

// secretIdentityEnvVars are, in order, the environment variables consulted
// for age identity files backing sops-encrypted File directives (§4.4
// step 2's "File"). mirrors sops' own SOPS_AGE_KEY_FILE plus an
// mvx-specific override.
var secretIdentityEnvVars = []string{"MVX_AGE_KEY_FILE", "SOPS_AGE_KEY_FILE"}

// NewDefaultComposer wires every optional Composer capability against this
// process's registry, state directory, and configured secrets, so every
// real caller (tool-stub execution, `mvx env`) gets the same Module/Shell/
// Secrets wiring instead of a bare Registry-only Composer.
func NewDefaultComposer(registry *backend.Registry) *mvxenv.Composer {
	dataDir := config.LoadSettings().DataDir()
	if dataDir == "" {
		dataDir = state.Dir()
	}
	return &mvxenv.Composer{
		Registry: registry,
		Modules:  &module.DirProvider{Root: filepath.Join(dataDir, "modules")},
		Shell:    &shell.EnvDiffRunner{},
		Secrets:  defaultSecretDecrypter(),
	}
}

// defaultSecretDecrypter builds an age Decrypter from whichever identity
// env var is set, or returns nil (no secret support configured) if none
// are — matching Composer's documented "nil SecretDecrypter" degrade path.
func defaultSecretDecrypter() mvxenv.SecretDecrypter {
	var files []string
	for _, envVar := range secretIdentityEnvVars {
		if v := os.Getenv(envVar); v != "" {
			files = append(files, v)
		}
	}
	if len(files) == 0 {
		return nil
	}
	dec, err := secret.NewDecrypter(files...)
	if err != nil {
		log.Warn("secret decrypter unavailable, sops-tagged files will error", "err", err)
		return nil
	}
	return dec
}
