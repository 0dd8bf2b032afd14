package toolchain

import (
	"path/filepath"
	"strings"
	"testing"
)

func testEnv() Env {
	return Env{
		HostOS:     "linux",
		HostArch:   "amd64",
		ProjectDir: "/work/demo",
		Environ:    map[string]string{"HOME": "/home/dev"},
	}
}

func TestParseConfig(t *testing.T) {
	const doc = `
[toolchain.riscv32-v2]
root = "/opt/rv32/v2"
gcc-version = "10.2.0"

[toolchain.riscv32-v3]
root = "/opt/rv32/v3"
triple = "riscv32-unknown-elf"
`
	cfg, err := ParseConfig(strings.NewReader(doc), testEnv())
	if err != nil {
		t.Fatalf("ParseConfig: %v", err)
	}
	if got := cfg.Toolchain["riscv32-v2"].Root; got != "/opt/rv32/v2" {
		t.Errorf("root = %q", got)
	}
	if got := cfg.Toolchain["riscv32-v3"].Triple; got != "riscv32-unknown-elf" {
		t.Errorf("triple = %q", got)
	}
}

func TestParseConfigExpressions(t *testing.T) {
	const doc = `
[toolchain.riscv32-v2]
root = '{{ environ["HOME"] }}/rv32-{{ host_os }}'
`
	cfg, err := ParseConfig(strings.NewReader(doc), testEnv())
	if err != nil {
		t.Fatalf("ParseConfig: %v", err)
	}
	if got := cfg.Toolchain["riscv32-v2"].Root; got != "/home/dev/rv32-linux" {
		t.Errorf("root = %q", got)
	}
}

func TestParseConfigBadExpression(t *testing.T) {
	const doc = `
[toolchain.riscv32-v2]
root = '{{ nonsense( }}'
`
	if _, err := ParseConfig(strings.NewReader(doc), testEnv()); err == nil {
		t.Fatal("invalid expression must fail")
	}
}

func TestParseConfigBadTOML(t *testing.T) {
	if _, err := ParseConfig(strings.NewReader("[toolchain\n"), testEnv()); err == nil {
		t.Fatal("malformed TOML must fail")
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), ConfigFilename), testEnv())
	if err != nil {
		t.Fatalf("missing file must not be an error: %v", err)
	}
	if cfg != nil {
		t.Fatal("missing file must yield a nil config")
	}
}
