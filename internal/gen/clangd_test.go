package gen

import (
	"strings"
	"testing"

	"github.com/cbgen-build/cbgen/internal/project"
	"gopkg.in/yaml.v3"
)

func generateClangd(t *testing.T, xml string, noHeaderInsertion bool) (string, clangdConfig) {
	t.Helper()
	out, err := NewClangdGen(buildContext(t, xml, "gcc"), noHeaderInsertion).Generate()
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	var cfg clangdConfig
	if err := yaml.Unmarshal([]byte(out), &cfg); err != nil {
		t.Fatalf("output is not valid YAML: %v\n%s", err, out)
	}
	return out, cfg
}

func TestClangdVendorMarchSplit(t *testing.T) {
	_, cfg := generateClangd(t, project.SampleDocument, false)

	add := strings.Join(cfg.CompileFlags.Add, " ")
	if !strings.Contains(add, "-march=rv32imac") {
		t.Errorf("base march missing from Add: %v", cfg.CompileFlags.Add)
	}
	if strings.Contains(add, "xcustom") {
		t.Errorf("vendor extension leaked into Add: %v", cfg.CompileFlags.Add)
	}

	remove := strings.Join(cfg.CompileFlags.Remove, " ")
	if !strings.Contains(remove, "-march=rv32imacxcustom") {
		t.Errorf("full march missing from Remove: %v", cfg.CompileFlags.Remove)
	}
	if !strings.Contains(remove, "-mjump-tables-in-text") {
		t.Errorf("unknown flag missing from Remove: %v", cfg.CompileFlags.Remove)
	}
}

func TestClangdAddContents(t *testing.T) {
	_, cfg := generateClangd(t, project.SampleDocument, false)
	add := cfg.CompileFlags.Add

	if len(add) < 3 || add[0] != "-xc" || add[1] != "-target" {
		t.Fatalf("Add must open with the language and target: %v", add)
	}
	joined := strings.Join(add, " ")
	for _, want := range []string{"-target riscv32-unknown-elf", "-Iinclude", "-DDEBUG", "-g", "-Wall"} {
		if !strings.Contains(joined, want) {
			t.Errorf("missing %q in Add: %v", want, add)
		}
	}
	if strings.Contains(joined, "-mjump-tables-in-text") {
		t.Errorf("unknown flag present in Add: %v", add)
	}
}

func TestClangdSystemIncludes(t *testing.T) {
	_, cfg := generateClangd(t, project.SampleDocument, false)
	joined := strings.Join(cfg.CompileFlags.Add, " ")
	// riscv32-v2 ships gcc 10.2.0
	for _, want := range []string{
		"lib/gcc/riscv32-elf/10.2.0/include",
		"lib/gcc/riscv32-elf/10.2.0/include-fixed",
		"riscv32-elf/include",
	} {
		if !strings.Contains(joined, want) {
			t.Errorf("system include %q missing: %v", want, cfg.CompileFlags.Add)
		}
	}
}

func TestClangdNoVendorKeepsMarchWhole(t *testing.T) {
	const xml = `<CodeBlocks_project_file>
	<Project>
		<Option title="app" />
		<Build>
			<Target title="Debug">
				<Option output="app.elf" object_output="obj" />
				<Compiler>
					<Add option="-march=rv32imac" />
				</Compiler>
			</Target>
		</Build>
		<Unit filename="main.c" />
	</Project>
</CodeBlocks_project_file>`

	_, cfg := generateClangd(t, xml, false)
	add := strings.Join(cfg.CompileFlags.Add, " ")
	if !strings.Contains(add, "-march=rv32imac") {
		t.Errorf("standard-only march dropped from Add: %v", cfg.CompileFlags.Add)
	}
}

func TestClangdHeaderInsertion(t *testing.T) {
	_, with := generateClangd(t, project.SampleDocument, true)
	if with.Completion == nil || with.Completion.HeaderInsertion != "Never" {
		t.Errorf("Completion = %+v", with.Completion)
	}

	out, without := generateClangd(t, project.SampleDocument, false)
	if without.Completion != nil {
		t.Errorf("Completion present without the flag: %+v", without.Completion)
	}
	if strings.Contains(out, "Completion") {
		t.Errorf("empty Completion section serialized:\n%s", out)
	}
}
