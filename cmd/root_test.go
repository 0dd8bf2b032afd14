package cmd

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cbgen-build/cbgen/internal/project"
)

func TestFindProjectFileDirect(t *testing.T) {
	dir := t.TempDir()
	cbp := filepath.Join(dir, "demo.cbp")
	if err := os.WriteFile(cbp, []byte(project.SampleDocument), 0o644); err != nil {
		t.Fatal(err)
	}
	got, err := findProjectFile(cbp)
	if err != nil {
		t.Fatal(err)
	}
	if got != cbp {
		t.Fatalf("got %q", got)
	}
}

func TestFindProjectFileInDir(t *testing.T) {
	dir := t.TempDir()
	nested := filepath.Join(dir, "fw", "app")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}
	cbp := filepath.Join(nested, "demo.cbp")
	if err := os.WriteFile(cbp, []byte(project.SampleDocument), 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := findProjectFile(dir)
	if err != nil {
		t.Fatal(err)
	}
	if got != cbp {
		t.Fatalf("got %q, want %q", got, cbp)
	}
}

func TestFindProjectFileAmbiguous(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.cbp", "b.cbp"} {
		if err := os.WriteFile(filepath.Join(dir, name), nil, 0o644); err != nil {
			t.Fatal(err)
		}
	}
	if _, err := findProjectFile(dir); err == nil {
		t.Fatal("two project files must be an error")
	}
}

func TestFindProjectFileNone(t *testing.T) {
	if _, err := findProjectFile(t.TempDir()); err == nil {
		t.Fatal("empty dir must be an error")
	}
}

func TestRunPipeline(t *testing.T) {
	dir := t.TempDir()
	cbp := filepath.Join(dir, "demo.cbp")
	if err := os.WriteFile(cbp, []byte(project.SampleDocument), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := runPipeline([]string{cbp, "generated"}); err != nil {
		t.Fatalf("runPipeline: %v", err)
	}

	outDir := filepath.Join(dir, "generated")

	ninja, err := os.ReadFile(filepath.Join(outDir, "build.ninja"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(ninja), "default build/out/demo.elf") {
		t.Fatalf("build.ninja incomplete:\n%s", ninja)
	}

	db, err := os.ReadFile(filepath.Join(outDir, "compile_commands.json"))
	if err != nil {
		t.Fatal(err)
	}
	var entries []map[string]string
	if err := json.Unmarshal(db, &entries); err != nil {
		t.Fatalf("compile_commands.json invalid: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("got %d compile entries", len(entries))
	}

	clangd, err := os.ReadFile(filepath.Join(outDir, ".clangd"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(clangd), "CompileFlags:") {
		t.Fatalf(".clangd incomplete:\n%s", clangd)
	}
}

func TestRunPipelineMissingArg(t *testing.T) {
	if err := runPipeline(nil); err == nil {
		t.Fatal("no argument and no test mode must be an error")
	}
}

func TestRunPipelineToolchainOverride(t *testing.T) {
	dir := t.TempDir()
	cbp := filepath.Join(dir, "demo.cbp")
	if err := os.WriteFile(cbp, []byte(project.SampleDocument), 0o644); err != nil {
		t.Fatal(err)
	}
	const cfg = `
[toolchain.riscv32-v2]
root = "/opt/rv32/v2"
gcc-version = "12.0.0"
`
	if err := os.WriteFile(filepath.Join(dir, "toolchains.toml"), []byte(cfg), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := runPipeline([]string{cbp}); err != nil {
		t.Fatalf("runPipeline: %v", err)
	}

	clangd, err := os.ReadFile(filepath.Join(dir, ".clangd"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(clangd), "/opt/rv32/v2/lib/gcc/riscv32-elf/12.0.0/include") {
		t.Fatalf("override not applied to system includes:\n%s", clangd)
	}
}
