package config

import (
	"testing"

	"github.com/gnodet/mvx/pkg/toolset"
)

func TestToRequestSetAppliesBackendAliases(t *testing.T) {
	cfg := &Config{Tools: map[string]ToolConfig{
		"node": {Version: "20.10.0"},
		"java": {Version: "21"},
	}}
	lists, err := cfg.ToRequestSet(toolset.CLIArgSource())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(lists) != 2 {
		t.Fatalf("expected 2 lists, got %d", len(lists))
	}
	// sorted order: java, node
	if lists[0].BA.Short() != "java" || lists[1].BA.Short() != "node" {
		t.Fatalf("expected sorted order java,node, got %+v", lists)
	}
	if lists[1].BA.Full() != "nodejs" {
		t.Fatalf("expected node to alias to nodejs, got %q", lists[1].BA.Full())
	}
}

func TestToRequestSetParsesVariantStrings(t *testing.T) {
	cfg := &Config{Tools: map[string]ToolConfig{
		"node": {Version: "prefix:20"},
	}}
	lists, err := cfg.ToRequestSet(toolset.CLIArgSource())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if lists[0].Requests[0].Kind != toolset.RequestPrefix {
		t.Fatalf("expected a Prefix request, got %v", lists[0].Requests[0].Kind)
	}
}

func TestEnvDirectivesSortedByKey(t *testing.T) {
	cfg := &Config{Environment: map[string]string{"ZEBRA": "1", "APPLE": "2"}}
	directives := cfg.EnvDirectives("")
	if len(directives) != 2 || directives[0].Key != "APPLE" {
		t.Fatalf("expected sorted env directives, got %+v", directives)
	}
}
