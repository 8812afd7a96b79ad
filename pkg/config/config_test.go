package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultAllowsEverything(t *testing.T) {
	c := Default()
	for _, name := range []string{"clock", "readFile", "env", "anything"} {
		if !c.IsAllowed(name) {
			t.Errorf("default config should allow %q", name)
		}
	}
}

func TestNilConfigAllowsEverything(t *testing.T) {
	var c *Config
	if !c.IsAllowed("clock") {
		t.Error("nil config should allow everything")
	}
}

func TestAllowList(t *testing.T) {
	c := build(&File{Natives: &NativePolicy{Allow: []string{"clock"}}})
	if !c.IsAllowed("clock") {
		t.Error("clock should be allowed")
	}
	if c.IsAllowed("readFile") {
		t.Error("readFile should not be allowed")
	}
}

func TestDenyOnlyList(t *testing.T) {
	c := build(&File{Natives: &NativePolicy{Deny: []string{"readFile"}}})
	if c.IsAllowed("readFile") {
		t.Error("readFile should be denied")
	}
	if !c.IsAllowed("clock") {
		t.Error("clock should still be allowed")
	}
}

func TestDenyOverridesAllow(t *testing.T) {
	c := build(&File{Natives: &NativePolicy{
		Allow: []string{"clock", "readFile"},
		Deny:  []string{"readFile"},
	}})
	if c.IsAllowed("readFile") {
		t.Error("deny should override allow")
	}
	if !c.IsAllowed("clock") {
		t.Error("clock should be allowed")
	}
}

func TestLoadProjectFile(t *testing.T) {
	dir := t.TempDir()
	content := `{"natives": {"deny": ["env"]}, "history": "/tmp/hist"}`
	if err := os.WriteFile(filepath.Join(dir, ".loxrc.json"), []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	c, f := Load(dir)
	if f == nil {
		t.Fatal("expected config file to be found")
	}
	if c.IsAllowed("env") {
		t.Error("env should be denied")
	}
	if !c.IsAllowed("clock") {
		t.Error("clock should be allowed")
	}
	if c.HistoryFile != "/tmp/hist" {
		t.Errorf("history file: got %q, want /tmp/hist", c.HistoryFile)
	}
}

func TestLoadMissingFileFallsBackToDefault(t *testing.T) {
	c, f := Load(t.TempDir())
	if f != nil && c == nil {
		t.Fatal("expected a config either way")
	}
	// Whatever the fallback source, clock must remain available.
	if !c.IsAllowed("clock") {
		t.Error("clock should be allowed by fallback config")
	}
}

func TestLoadRejectsMalformedJSON(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, ".loxrc.json"), []byte("{nope"), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	c, _ := Load(dir)
	if !c.IsAllowed("clock") {
		t.Error("malformed project config should fall back to an allowing config")
	}
}
