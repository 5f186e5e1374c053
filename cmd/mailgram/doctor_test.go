package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func runDoctor(t *testing.T, cfgPath string) string {
	t.Helper()
	prev := configPath
	configPath = cfgPath
	t.Cleanup(func() { configPath = prev })

	var buf bytes.Buffer
	cmd := doctorCmd()
	cmd.SetOut(&buf)
	cmd.SetArgs(nil)
	if err := cmd.Execute(); err != nil {
		t.Fatal(err)
	}
	return buf.String()
}

func TestDoctor_MissingConfig(t *testing.T) {
	out := runDoctor(t, filepath.Join(t.TempDir(), "config.json"))

	if !strings.Contains(out, "[fail] Config file") {
		t.Errorf("missing config must fail the first check:\n%s", out)
	}
	if !strings.Contains(out, "0 passed, 1 failed") {
		t.Errorf("summary must count the failed check:\n%s", out)
	}
}

func TestDoctor_InvalidConfig(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(cfgPath, []byte(`{"general":{"logLevel":"bogus"}}`), 0o600); err != nil {
		t.Fatal(err)
	}

	out := runDoctor(t, cfgPath)

	if !strings.Contains(out, "[fail] Config validation") {
		t.Errorf("invalid config must fail validation:\n%s", out)
	}
	if !strings.Contains(out, "1 passed, 1 failed") {
		t.Errorf("summary must count both checks:\n%s", out)
	}
}
