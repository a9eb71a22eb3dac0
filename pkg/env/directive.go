// Package env implements the Environment Composer (§4.4): it reduces an
// ordered list of env directives, a resolved Toolset, and the base process
// environment into the final exported env map and PATH.
package env

// DirectiveKind discriminates the seven directive variants of §4.4.
type DirectiveKind string

const (
	DirectiveSet    DirectiveKind = "set"
	DirectiveUnset  DirectiveKind = "unset"
	DirectivePath   DirectiveKind = "path"
	DirectiveFile   DirectiveKind = "file"
	DirectiveSource DirectiveKind = "source"
	DirectiveModule DirectiveKind = "module"
	DirectiveVenv   DirectiveKind = "venv"
)

// Directive is one entry from a config file's env table, in file-declared
// order. Exactly the fields relevant to Kind are populated.
type Directive struct {
	Kind DirectiveKind

	Key   string // Set, Unset
	Value string // Set (template), Path (template), File (glob template), Source (script), Module (name)

	ModuleValue string // Module: the arbitrary value passed to mise_env/mise_path

	Decrypt bool // File: whether to attempt sops decryption first

	VenvPath   string // Venv: path template to the virtualenv directory
	VenvCreate bool   // Venv: create it if missing

	Redact bool // marks the contributed key(s) for env_results.redactions

	// ConfigDir anchors relative File globs and Source script execution to
	// the config file this directive came from.
	ConfigDir string
}

// Set builds a Set{} directive.
func Set(key, value string, redact bool) Directive {
	return Directive{Kind: DirectiveSet, Key: key, Value: value, Redact: redact}
}

// Unset builds an Unset{} directive.
func Unset(key string) Directive {
	return Directive{Kind: DirectiveUnset, Key: key}
}

// Path builds a Path{} directive: value is a template that renders to one or
// more platform-separator-delimited directories.
func Path(value, configDir string) Directive {
	return Directive{Kind: DirectivePath, Value: value, ConfigDir: configDir}
}

// File builds a File{} directive.
func File(value, configDir string, decrypt bool) Directive {
	return Directive{Kind: DirectiveFile, Value: value, ConfigDir: configDir, Decrypt: decrypt}
}

// Source builds a Source{} directive: value is a shell script to execute
// with the composed env, diffing its result back in.
func Source(script, configDir string) Directive {
	return Directive{Kind: DirectiveSource, Value: script, ConfigDir: configDir}
}

// Module builds a Module{} directive.
func Module(name, value string) Directive {
	return Directive{Kind: DirectiveModule, Key: name, ModuleValue: value}
}

// Venv builds a Venv{} directive.
func Venv(path string, create bool) Directive {
	return Directive{Kind: DirectiveVenv, VenvPath: path, VenvCreate: create}
}
