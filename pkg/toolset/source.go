package toolset

// SourceKind tags where a ToolRequest came from, for diagnostics and for
// picking the right lockfile companion file (§4.1, §4.5).
type SourceKind string

const (
	SourceMiseToml     SourceKind = "config_toml"
	SourceToolVersions SourceKind = "tool_versions"
	SourceLegacyFile   SourceKind = "legacy_version_file"
	SourceEnvVar       SourceKind = "env_var"
	SourceCLIArg       SourceKind = "cli_arg"
	SourceToolStub     SourceKind = "tool_stub"
)

// ToolSource records the provenance of a ToolRequest: which config file,
// environment variable, or CLI argument produced it.
type ToolSource struct {
	Kind SourceKind
	Path string // config file path, for file-backed sources
	Name string // env var name, for SourceEnvVar
}

func ConfigSource(path string) ToolSource {
	return ToolSource{Kind: SourceMiseToml, Path: path}
}

func ToolVersionsSource(path string) ToolSource {
	return ToolSource{Kind: SourceToolVersions, Path: path}
}

func LegacyFileSource(path string) ToolSource {
	return ToolSource{Kind: SourceLegacyFile, Path: path}
}

func EnvVarSource(name string) ToolSource {
	return ToolSource{Kind: SourceEnvVar, Name: name}
}

func CLIArgSource() ToolSource {
	return ToolSource{Kind: SourceCLIArg}
}

// LockfileCompanion returns the lockfile path this source's config file
// pairs with, per §4.5 ("config_path.with_extension(\"lock\")").
// Empty when the source is not file-backed.
func (s ToolSource) LockfileCompanion() string {
	if s.Path == "" {
		return ""
	}
	return withExtension(s.Path, "lock")
}
