// Package gen turns the resolved project model into output artifacts: the
// ninja build graph, the compilation database, the clangd config and the
// build wrapper script.
package gen

import (
	"path"
	"path/filepath"
	"strings"

	"github.com/cbgen-build/cbgen/internal/msg"
	"github.com/cbgen-build/cbgen/internal/project"
	"github.com/cbgen-build/cbgen/internal/toolchain"
)

// Emitter produces one output artifact from a resolved Context.
type Emitter interface {
	Filename() string
	Generate() (string, error)
}

// Context carries the fully resolved model every emitter consumes. All
// resolution happens in NewContext; emitters only format.
type Context struct {
	Project    *project.ProjectInfo
	LinkerType string // "gcc" or "ld"
	NinjaPath  string // optional override for the ninja binary

	// per-target resolution results, keyed by target name
	Profiles map[string]toolchain.Profile
	March    map[string]toolchain.MarchInfo
	Libs     map[string]*project.LibrarySet
	Objects  map[string]project.ObjectMapping

	roots map[string]string // effective object root per target
}

// NewContext runs the resolution stages for every target: toolchain
// profile, architecture flags, library set and object mapping. Any fatal
// resolution error surfaces here, before a single artifact is generated.
func NewContext(info *project.ProjectInfo, cfg *toolchain.Config, linkerType, ninjaPath string) (*Context, error) {
	ctx := &Context{
		Project:    info,
		LinkerType: linkerType,
		NinjaPath:  ninjaPath,
		Profiles:   make(map[string]toolchain.Profile, len(info.Targets)),
		March:      make(map[string]toolchain.MarchInfo, len(info.Targets)),
		Libs:       make(map[string]*project.LibrarySet, len(info.Targets)),
		Objects:    make(map[string]project.ObjectMapping, len(info.Targets)),
	}

	for _, t := range info.Targets {
		prof, known := toolchain.Resolve(t.CompilerID, cfg)
		if !known {
			msg.Warn("unrecognized compiler %q for target %q, using default profile", t.CompilerID, t.Name)
		}
		ctx.Profiles[t.Name] = prof
		ctx.March[t.Name] = toolchain.ExtractMarch(t.Cflags)
	}

	ctx.roots = ctx.objectRoots()

	for _, t := range info.Targets {
		libs, err := project.ResolveLibraries(info, t)
		if err != nil {
			return nil, err
		}
		ctx.Libs[t.Name] = libs

		var compiled []*project.SourceFile
		for _, src := range info.MembersOf(t) {
			if src.Class != project.ClassSpecial {
				compiled = append(compiled, src)
			}
		}
		objects, err := project.MapObjects(compiled, ctx.roots[t.Name])
		if err != nil {
			return nil, err
		}
		ctx.Objects[t.Name] = objects

		msg.Debug("target %q: compiler %s, %d objects, %d libraries",
			t.Name, t.CompilerID, len(objects), len(libs.Args))
	}

	return ctx, nil
}

// objectRoots decides each target's object root. Targets may share an
// object directory only when they compile with the same toolchain and
// flags; otherwise a shared directory would hand one target objects built
// with another target's flags, so each target's objects move under a
// subdirectory named after it.
func (ctx *Context) objectRoots() map[string]string {
	byDir := make(map[string][]*project.Target)
	for _, t := range ctx.Project.Targets {
		dir := path.Clean(filepath.ToSlash(t.ObjectDir))
		byDir[dir] = append(byDir[dir], t)
	}

	roots := make(map[string]string, len(ctx.Project.Targets))
	for dir, targets := range byDir {
		shared := true
		first := targets[0]
		firstFlags := strings.Join(ctx.compileFlags(first), " ")
		for _, t := range targets[1:] {
			if t.CompilerID != first.CompilerID || strings.Join(ctx.compileFlags(t), " ") != firstFlags {
				shared = false
				break
			}
		}
		for _, t := range targets {
			if shared {
				roots[t.Name] = dir
			} else {
				roots[t.Name] = path.Join(dir, t.Name)
			}
		}
	}
	return roots
}

// compileFlags is the resolved flag list for one target: the overlaid
// project/target flags (or the profile defaults when the project supplies
// none) plus the include dirs.
func (ctx *Context) compileFlags(t *project.Target) []string {
	prof := ctx.Profiles[t.Name]
	var flags []string
	if len(t.Cflags) > 0 {
		flags = append(flags, t.Cflags...)
	} else {
		flags = append(flags, prof.DefaultFlags()...)
	}
	for _, dir := range t.IncludeDirs {
		flags = append(flags, "-I"+dir)
	}
	return flags
}

func (ctx *Context) includeFlags(t *project.Target) []string {
	flags := make([]string, 0, len(t.IncludeDirs))
	for _, dir := range t.IncludeDirs {
		flags = append(flags, "-I"+dir)
	}
	return flags
}

// substituteCommand applies the Code::Blocks command macros to a per-file
// build command or an extra (pre/post-build) command. file may be empty.
func (ctx *Context) substituteCommand(command string, t *project.Target, file string) string {
	prof := ctx.Profiles[t.Name]
	flags := ctx.compileFlags(t)
	includes := ctx.includeFlags(t)
	outputDir := path.Dir(t.Output)

	r := strings.NewReplacer(
		"$compiler", quoteExe(prof.CompilerPath()),
		"$options", strings.Join(flags, " "),
		"$includes", strings.Join(includes, " "),
		"$file", file,
		"$(TARGET_OBJECT_DIR)", t.ObjectDir,
		"$(TARGET_OUTPUT_DIR)", outputDir+"/",
		"$(PROJECT_NAME)", ctx.Project.Name,
		"$(PROJECT_DIR)", "./",
	)
	return r.Replace(command)
}
