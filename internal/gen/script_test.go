package gen

import (
	"strings"
	"testing"
)

const scriptProjectXML = `<CodeBlocks_project_file>
	<Project>
		<Option title="demo" compiler="riscv32-v2" />
		<Build>
			<Target title="Debug">
				<Option output="build/out/demo.elf" object_output="obj" />
			</Target>
		</Build>
		<ExtraCommands>
			<Add before="python gen_version.py $(PROJECT_NAME)" />
			<Add after="riscv32-elf-objcopy -O binary $(TARGET_OUTPUT_DIR)demo.elf demo.bin" />
		</ExtraCommands>
		<Unit filename="main.c" />
	</Project>
</CodeBlocks_project_file>`

func TestShellScript(t *testing.T) {
	g := NewScriptGen(buildContext(t, scriptProjectXML, "gcc"))
	out := g.generateShell()

	for _, want := range []string{
		"#!/bin/sh",
		"set -e",
		"RV32-Toolchain/RV32-V2/bin:$PATH",
		"export PATH",
		"python gen_version.py demo",
		"ninja -f build.ninja",
		"-O binary build/out/demo.elf demo.bin",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in:\n%s", want, out)
		}
	}

	// prebuild before ninja, postbuild after
	pre := strings.Index(out, "gen_version")
	build := strings.Index(out, "ninja -f")
	post := strings.Index(out, "objcopy")
	if !(pre < build && build < post) {
		t.Fatalf("command order wrong:\n%s", out)
	}
}

func TestBatchScript(t *testing.T) {
	g := NewScriptGen(buildContext(t, scriptProjectXML, "gcc"))
	out := g.generateBatch()

	for _, want := range []string{
		"@echo off",
		`cd /d "%~dp0"`,
		"set PATH=",
		"RV32-Toolchain/RV32-V2/bin;%PATH%",
		"call python gen_version.py demo",
		"ninja -f build.ninja",
		"if %errorlevel% neq 0 exit /b %errorlevel%",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in:\n%s", want, out)
		}
	}
}

func TestScriptNinjaOverride(t *testing.T) {
	ctx := buildContext(t, scriptProjectXML, "gcc")
	ctx.NinjaPath = "/opt/ninja/bin/ninja"
	out := NewScriptGen(ctx).generateShell()
	if !strings.Contains(out, "/opt/ninja/bin/ninja -f build.ninja") {
		t.Fatalf("ninja override ignored:\n%s", out)
	}
}
