package gen

import (
	"path"
	"runtime"
	"strings"
)

// ScriptGen emits a wrapper script that sets up the toolchain PATH, runs
// the project's pre-build commands, invokes ninja and runs the post-build
// commands. Batch file on windows, POSIX shell elsewhere.
type ScriptGen struct {
	ctx *Context
}

func NewScriptGen(ctx *Context) *ScriptGen { return &ScriptGen{ctx: ctx} }

func (g *ScriptGen) Filename() string {
	if runtime.GOOS == "windows" {
		return "build.bat"
	}
	return "build.sh"
}

func (g *ScriptGen) Generate() (string, error) {
	if runtime.GOOS == "windows" {
		return g.generateBatch(), nil
	}
	return g.generateShell(), nil
}

func (g *ScriptGen) ninja() string {
	if g.ctx.NinjaPath != "" {
		return g.ctx.NinjaPath
	}
	return "ninja"
}

func (g *ScriptGen) generateBatch() string {
	ctx := g.ctx
	t := ctx.Project.DefaultTarget()
	prof := ctx.Profiles[t.Name]

	var sb strings.Builder
	writeln(&sb, "@echo off")
	writeln(&sb, "rem Generated by cbgen")
	writeln(&sb)
	writeln(&sb, `cd /d "%~dp0"`)
	writeln(&sb)
	if prof.Root != "" {
		writeln(&sb, "rem Set toolchain path")
		writeln(&sb, "set PATH=", path.Join(prof.Root, "bin"), ";%PATH%")
		writeln(&sb)
	}

	if len(ctx.Project.Prebuild) > 0 {
		writeln(&sb, "rem Prebuild commands")
		for _, cmd := range ctx.Project.Prebuild {
			writeln(&sb, "pushd %~dp0")
			writeln(&sb, "call ", ctx.substituteCommand(cmd, t, ""))
			writeln(&sb, "popd")
		}
		writeln(&sb)
	}

	writeln(&sb, "rem Build project with ninja")
	writeln(&sb, g.ninja(), " -f build.ninja")
	writeln(&sb, "if %errorlevel% neq 0 exit /b %errorlevel%")
	writeln(&sb)

	if len(ctx.Project.Postbuild) > 0 {
		writeln(&sb, "rem Postbuild commands")
		for _, cmd := range ctx.Project.Postbuild {
			writeln(&sb, "pushd %~dp0")
			writeln(&sb, "call ", ctx.substituteCommand(cmd, t, ""))
			writeln(&sb, "popd")
		}
		writeln(&sb)
	}

	writeln(&sb, "echo Build completed successfully")
	return sb.String()
}

func (g *ScriptGen) generateShell() string {
	ctx := g.ctx
	t := ctx.Project.DefaultTarget()
	prof := ctx.Profiles[t.Name]

	var sb strings.Builder
	writeln(&sb, "#!/bin/sh")
	writeln(&sb, "# Generated by cbgen")
	writeln(&sb, "set -e")
	writeln(&sb, `cd "$(dirname "$0")"`)
	writeln(&sb)
	if prof.Root != "" {
		writeln(&sb, "# Set toolchain path")
		writeln(&sb, `PATH="`, path.Join(prof.Root, "bin"), `:$PATH"`)
		writeln(&sb, "export PATH")
		writeln(&sb)
	}

	if len(ctx.Project.Prebuild) > 0 {
		writeln(&sb, "# Prebuild commands")
		for _, cmd := range ctx.Project.Prebuild {
			writeln(&sb, ctx.substituteCommand(cmd, t, ""))
		}
		writeln(&sb)
	}

	writeln(&sb, "# Build project with ninja")
	writeln(&sb, g.ninja(), " -f build.ninja")
	writeln(&sb)

	if len(ctx.Project.Postbuild) > 0 {
		writeln(&sb, "# Postbuild commands")
		for _, cmd := range ctx.Project.Postbuild {
			writeln(&sb, ctx.substituteCommand(cmd, t, ""))
		}
		writeln(&sb)
	}

	writeln(&sb, `echo "Build completed successfully"`)
	return sb.String()
}
