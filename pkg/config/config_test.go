package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

type testConf struct {
	Name  string `yaml:"name"`
	Port  int    `yaml:"port"`
	Token string `yaml:"token"`
}

func writeFile(t *testing.T, data string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "conf.yaml")
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	t.Setenv("CONF_TOKEN", "sekrit")
	path := writeFile(t, "name: inkwell\nport: 9000\ntoken: ${CONF_TOKEN}\n")

	var got testConf
	if err := Load(path, &got); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.Name != "inkwell" || got.Port != 9000 {
		t.Errorf("decoded %+v", got)
	}
	if got.Token != "sekrit" {
		t.Errorf("env expansion: Token = %q", got.Token)
	}
}

func TestLoadMissingFile(t *testing.T) {
	var got testConf
	err := Load(filepath.Join(t.TempDir(), "nope.yaml"), &got)
	if !errors.Is(err, ErrMissing) {
		t.Fatalf("err = %v, want ErrMissing", err)
	}
}

func TestLoadUnknownKey(t *testing.T) {
	path := writeFile(t, "name: inkwell\nbogus: 1\n")
	var got testConf
	if err := Load(path, &got); err == nil {
		t.Fatal("expected error for unknown key")
	}
}

func TestLoadEmptyFile(t *testing.T) {
	path := writeFile(t, "")
	got := testConf{Name: "default"}
	if err := Load(path, &got); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.Name != "default" {
		t.Errorf("defaults clobbered: %+v", got)
	}
}
