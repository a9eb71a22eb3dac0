package shell

import (
	"context"
	"runtime"
	"testing"
)

func TestEnvDiffRunnerDetectsSetAndUnset(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("bash-based diffing only runs on unix in this suite")
	}
	r := &EnvDiffRunner{}
	base := map[string]string{"KEEP": "same", "REMOVE_ME": "gone"}
	sets, unset, err := r.Diff(context.Background(), `export NEW_VAR=hello; unset REMOVE_ME`, base, t.TempDir())
	if err != nil {
		t.Fatalf("diff: %v", err)
	}
	if sets["NEW_VAR"] != "hello" {
		t.Fatalf("expected NEW_VAR=hello, got %+v", sets)
	}
	if _, stillSet := sets["KEEP"]; stillSet {
		t.Fatalf("did not expect KEEP to be reported as changed, got %+v", sets)
	}
	found := false
	for _, k := range unset {
		if k == "REMOVE_ME" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected REMOVE_ME in unset list, got %v", unset)
	}
}

func TestEnvDiffRunnerRejectsEmptyShellCommand(t *testing.T) {
	r := &EnvDiffRunner{ShellCommand: "   "}
	_, _, err := r.Diff(context.Background(), "true", nil, t.TempDir())
	if err == nil {
		t.Fatalf("expected an error for a blank shell command")
	}
}

func TestShellArgvDefaultsToBashOnUnix(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("default argv differs on windows")
	}
	r := &EnvDiffRunner{}
	argv, err := r.shellArgv()
	if err != nil {
		t.Fatalf("shellArgv: %v", err)
	}
	if len(argv) != 2 || argv[0] != "/bin/bash" || argv[1] != "-c" {
		t.Fatalf("unexpected default argv: %v", argv)
	}
}

func TestShellArgvTokenizesCustomCommand(t *testing.T) {
	r := &EnvDiffRunner{ShellCommand: "/bin/sh -c"}
	argv, err := r.shellArgv()
	if err != nil {
		t.Fatalf("shellArgv: %v", err)
	}
	if len(argv) != 2 || argv[0] != "/bin/sh" || argv[1] != "-c" {
		t.Fatalf("unexpected argv: %v", argv)
	}
}
