package state

import (
	"os"
	"path/filepath"
	"testing"
)

func withStateDir(t *testing.T) string {
	dir := t.TempDir()
	t.Setenv("MVX_STATE_DIR", dir)
	return dir
}

func TestTrackThenListTracked(t *testing.T) {
	withStateDir(t)
	configDir := t.TempDir()
	cfgPath := filepath.Join(configDir, "config.yml")
	if err := os.WriteFile(cfgPath, []byte("tools: {}"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := Track(cfgPath); err != nil {
		t.Fatalf("track: %v", err)
	}
	// idempotent
	if err := Track(cfgPath); err != nil {
		t.Fatalf("track again: %v", err)
	}
	tracked, err := ListTracked()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(tracked) != 1 {
		t.Fatalf("expected exactly one tracked entry, got %v", tracked)
	}
}

func TestUntrackRemovesEntry(t *testing.T) {
	withStateDir(t)
	configDir := t.TempDir()
	cfgPath := filepath.Join(configDir, "config.yml")
	os.WriteFile(cfgPath, []byte("tools: {}"), 0o644)
	Track(cfgPath)
	if err := Untrack(cfgPath); err != nil {
		t.Fatalf("untrack: %v", err)
	}
	tracked, _ := ListTracked()
	if len(tracked) != 0 {
		t.Fatalf("expected no tracked entries, got %v", tracked)
	}
}

func TestHintShownRoundTrips(t *testing.T) {
	withStateDir(t)
	if HintShown("first-run") {
		t.Fatalf("expected hint not yet shown")
	}
	if err := MarkHintShown("first-run"); err != nil {
		t.Fatalf("mark: %v", err)
	}
	if !HintShown("first-run") {
		t.Fatalf("expected hint to be marked shown")
	}
}
