package toolset

import "testing"

func TestToolsetInsertionOrderIsPathPrecedence(t *testing.T) {
	ts := NewToolset()
	node := NewBackendId("node")
	python := NewBackendId("python")

	ts.Insert(ToolVersionList{BA: node, Versions: []ToolVersion{{Request: NewVersionRequest(node, "20", Options{}, ToolSource{}), ConcreteVersion: "20.10.0"}}})
	ts.Insert(ToolVersionList{BA: python, Versions: []ToolVersion{{Request: NewVersionRequest(python, "3.12", Options{}, ToolSource{}), ConcreteVersion: "3.12.1"}}})

	ordered := ts.Ordered()
	if len(ordered) != 2 || ordered[0].BA.Short() != "node" || ordered[1].BA.Short() != "python" {
		t.Fatalf("expected [node python] insertion order, got %#v", ordered)
	}
}

func TestToolsetInsertOverrideKeepsOriginalPosition(t *testing.T) {
	ts := NewToolset()
	node := NewBackendId("node")
	python := NewBackendId("python")

	ts.Insert(ToolVersionList{BA: node})
	ts.Insert(ToolVersionList{BA: python})
	// outer config re-declares node; override must not move it to the back.
	ts.Insert(ToolVersionList{BA: node, Requests: []ToolRequest{NewVersionRequest(node, "22", Options{}, ToolSource{})}})

	ordered := ts.Ordered()
	if ordered[0].BA.Short() != "node" {
		t.Fatalf("expected node to keep its original position, got order %#v", ordered)
	}
	if len(ordered[0].Requests) != 1 || ordered[0].Requests[0].Version != "22" {
		t.Fatalf("expected override to replace node's request list")
	}
}

func TestAllVersionsSkipsSystem(t *testing.T) {
	ts := NewToolset()
	node := NewBackendId("node")
	mvn := NewBackendId("maven")
	ts.Insert(ToolVersionList{BA: node, Versions: []ToolVersion{{Request: NewVersionRequest(node, "20", Options{}, ToolSource{}), ConcreteVersion: "20.10.0"}}})
	ts.Insert(ToolVersionList{BA: mvn, Versions: []ToolVersion{{Request: NewSystemRequest(mvn, Options{}, ToolSource{}), System: true}}})

	versions := ts.AllVersions()
	if len(versions) != 1 || versions[0].Short() != "node" {
		t.Fatalf("expected only node in AllVersions, got %#v", versions)
	}
}

func TestBackendIdAliases(t *testing.T) {
	b := NewBackendId("cli", "ubi:cli/cli").WithAlias("gh:cli/cli")
	if b.Short() != "cli" || b.Full() != "ubi:cli/cli" {
		t.Fatalf("unexpected backend id %#v", b)
	}
	if len(b.AllFulls()) != 2 {
		t.Fatalf("expected two aliases, got %v", b.AllFulls())
	}
}

func TestLockfileCompanion(t *testing.T) {
	src := ConfigSource("/proj/.mvx/config.toml")
	if got := src.LockfileCompanion(); got != "/proj/.mvx/config.lock" {
		t.Fatalf("unexpected companion path %q", got)
	}
}
