package toolset

import "testing"

func TestParseRequestVariants(t *testing.T) {
	ba := NewBackendId("node")
	cases := []struct {
		in   string
		kind RequestKind
	}{
		{"20.10.0", RequestVersion},
		{"prefix:20", RequestPrefix},
		{"path:/opt/node", RequestPath},
		{"system", RequestSystem},
		{"sub-2:20.10.0", RequestSub},
		{"ref-abc123", RequestRef},
		{"tag:v1.0.0", RequestRef},
		{"branch-main", RequestRef},
	}
	for _, c := range cases {
		req, err := ParseRequest(ba, c.in, Options{}, CLIArgSource())
		if err != nil {
			t.Fatalf("ParseRequest(%q): %v", c.in, err)
		}
		if req.Kind != c.kind {
			t.Errorf("ParseRequest(%q).Kind = %v, want %v", c.in, req.Kind, c.kind)
		}
	}
}

func TestParseRequestSubFields(t *testing.T) {
	ba := NewBackendId("node")
	req, err := ParseRequest(ba, "sub-2:20.10.0", Options{}, CLIArgSource())
	if err != nil {
		t.Fatal(err)
	}
	if req.Version != "2" || req.Orig != "20.10.0" {
		t.Fatalf("got Version=%q Orig=%q", req.Version, req.Orig)
	}
}

func TestParseRequestRefFields(t *testing.T) {
	ba := NewBackendId("node")
	req, err := ParseRequest(ba, "branch-main", Options{}, CLIArgSource())
	if err != nil {
		t.Fatal(err)
	}
	if req.RefType != RefTypeBranch || req.Ref != "main" {
		t.Fatalf("got RefType=%q Ref=%q", req.RefType, req.Ref)
	}
}
