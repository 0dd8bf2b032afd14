package gen

import (
	"path"
	"strings"

	"github.com/cbgen-build/cbgen/internal/msg"
	"github.com/cbgen-build/cbgen/internal/project"
)

var ninjaPathEscaper = strings.NewReplacer(":", "$:", " ", "$ ")

func quote(s string) string { return ninjaPathEscaper.Replace(s) }

// NinjaGen synthesizes the incremental build graph as a build.ninja file:
// compile rules per toolchain variant, one build statement per compiled
// source, link or archive statements per target, and header dependencies
// declared via compiler-emitted depfiles.
type NinjaGen struct {
	ctx *Context
}

func NewNinjaGen(ctx *Context) *NinjaGen { return &NinjaGen{ctx: ctx} }

func (g *NinjaGen) Filename() string { return "build.ninja" }

func (g *NinjaGen) Generate() (string, error) {
	ctx := g.ctx
	targets := ctx.Project.Targets
	multi := len(targets) > 1

	// one compile-rule pair per distinct toolchain
	singleCompiler := true
	for _, t := range targets {
		if t.CompilerID != targets[0].CompilerID {
			singleCompiler = false
			break
		}
	}
	suffix := func(t *project.Target) string {
		if singleCompiler {
			return ""
		}
		return "_" + sanitize(t.CompilerID)
	}

	var sb strings.Builder
	writeln(&sb, "# Generated by cbgen")
	writeln(&sb)

	emittedRules := make(map[string]bool)
	for _, t := range targets {
		prof := ctx.Profiles[t.Name]
		cc := quoteExe(prof.CompilerPath())

		if rule := "cc" + suffix(t); !emittedRules[rule] {
			emittedRules[rule] = true
			writeln(&sb, "rule ", rule)
			writeln(&sb, "  command = ", cc, " $flags -MMD -MF $out.d -c $in -o $out")
			writeln(&sb, "  depfile = $out.d")
			writeln(&sb, "  deps = gcc")
			writeln(&sb)
		}
		if rule := "as" + suffix(t); !emittedRules[rule] {
			emittedRules[rule] = true
			writeln(&sb, "rule ", rule)
			writeln(&sb, "  command = ", cc, " $flags -c $in -o $out")
			writeln(&sb)
		}
	}

	// compile statements; objects shared between targets (same object dir
	// and identical flags, see objectRoots) compile once
	type edge struct{ src string }
	built := make(map[string]edge)
	specialOuts := make(map[string][]string) // target name -> special outputs

	for _, t := range targets {
		flags := ctx.compileFlags(t)
		flagsLine := strings.Join(flags, " ")
		objects := ctx.Objects[t.Name]

		for _, src := range ctx.Project.MembersOf(t) {
			if cmd, ok := src.Command(t.CompilerID); ok {
				out, err := g.emitSpecial(&sb, t, src, cmd, multi)
				if err != nil {
					return "", err
				}
				if out != "" {
					specialOuts[t.Name] = append(specialOuts[t.Name], out)
				}
				continue
			}
			if src.Class == project.ClassSpecial {
				// no usable build command; filtered during model build
				continue
			}

			obj := objects[src.Path]
			if prev, ok := built[obj]; ok {
				if prev.src == src.Path {
					continue
				}
				return "", &project.PathError{Object: obj, Sources: [2]string{prev.src, src.Path}}
			}
			built[obj] = edge{src: src.Path}

			rule := "cc"
			if src.Class == project.ClassAssembly {
				rule = "as"
			}
			writeln(&sb, "build ", quote(obj), ": ", rule+suffix(t), " ", quote(src.Path))
			writeln(&sb, "  flags = ", flagsLine)
			writeln(&sb)
		}
	}

	// link and archive statements
	for _, t := range targets {
		if err := g.emitLink(&sb, t, emittedRules, suffix(t), specialOuts[t.Name]); err != nil {
			return "", err
		}
	}

	writeln(&sb, "default ", quote(g.outputName(ctx.Project.DefaultTarget())))

	return sb.String(), nil
}

// emitSpecial writes the dedicated rule and build statement for a file
// with its own build command. Blank commands never produce a build
// statement.
func (g *NinjaGen) emitSpecial(sb *strings.Builder, t *project.Target, src *project.SourceFile, cmd project.BuildCommand, multi bool) (string, error) {
	command := g.ctx.substituteCommand(cmd.Command, t, src.Path)
	if strings.TrimSpace(command) == "" {
		msg.Warn("empty build command for %s, skipping", src.Path)
		return "", nil
	}

	out := extractOutput(command)
	if out == "" {
		out = project.ObjectPath(g.ctx.roots[t.Name], src.Path)
	}

	rule := "special_" + sanitize(src.Path)
	if multi {
		rule += "_" + sanitize(t.Name)
	}

	writeln(sb, "rule ", rule)
	writeln(sb, "  command = ", command)
	writeln(sb)
	writeln(sb, "build ", quote(out), ": ", rule, " ", quote(src.Path))
	writeln(sb)

	return out, nil
}

func (g *NinjaGen) emitLink(sb *strings.Builder, t *project.Target, emittedRules map[string]bool, suffix string, specials []string) error {
	ctx := g.ctx
	prof := ctx.Profiles[t.Name]
	libs := ctx.Libs[t.Name]
	objects := ctx.Objects[t.Name]

	var objs []string
	for _, src := range ctx.Project.MembersOf(t) {
		if obj, ok := objects[src.Path]; ok {
			objs = append(objs, quote(obj))
		}
	}

	implicit := append([]string(nil), specials...)
	implicit = append(implicit, libs.Implicit...)
	for _, dep := range libs.BuildDeps {
		implicit = append(implicit, archiveName(dep))
	}
	if libs.LinkScript != "" {
		implicit = append(implicit, libs.LinkScript)
	}

	out := g.outputName(t)

	if t.IsStaticLib() {
		rule := "ar" + suffix
		if !emittedRules[rule] {
			emittedRules[rule] = true
			writeln(sb, "rule ", rule)
			writeln(sb, "  command = ", quoteExe(prof.ArPath()), " rcs $out $in")
			writeln(sb)
		}
		write(sb, "build ", quote(out), ": ", rule, " ", strings.Join(objs, " "))
		writeImplicit(sb, implicit)
		writeln(sb)
		writeln(sb)
		return nil
	}

	rule := "link" + suffix
	if !emittedRules[rule] {
		emittedRules[rule] = true
		writeln(sb, "rule ", rule)
		writeln(sb, "  command = ", quoteExe(prof.LinkerPath(ctx.LinkerType)), " $pre_flags $in $lib_flags -o $out")
		writeln(sb)
	}

	// pre_flags go before the objects, libraries after, so static-archive
	// symbol resolution sees objects first
	preFlags := append([]string(nil), t.Ldflags...)
	for _, dir := range t.LibDirs {
		preFlags = append(preFlags, "-L"+dir)
	}
	if ctx.LinkerType == "ld" {
		// the raw linker gets no entry or script from a driver, pass both
		preFlags = append(preFlags, "--entry", "_start")
	}
	if libs.LinkScript != "" {
		preFlags = append(preFlags, "-T", libs.LinkScript)
	}

	libFlags := make([]string, 0, len(libs.Args))
	for _, arg := range libs.Args {
		libFlags = append(libFlags, g.fixSiblingRef(arg))
	}

	write(sb, "build ", quote(out), ": ", rule, " ", strings.Join(objs, " "))
	writeImplicit(sb, implicit)
	writeln(sb)
	if len(preFlags) > 0 {
		writeln(sb, "  pre_flags = ", strings.Join(preFlags, " "))
	}
	if len(libFlags) > 0 {
		writeln(sb, "  lib_flags = ", strings.Join(libFlags, " "))
	}
	writeln(sb)
	return nil
}

func writeImplicit(sb *strings.Builder, implicit []string) {
	if len(implicit) == 0 {
		return
	}
	write(sb, " |")
	for _, dep := range implicit {
		write(sb, " ", quote(dep))
	}
}

// outputName is the target's declared output path verbatim, except that
// archive outputs get the conventional lib prefix on the filename.
func (g *NinjaGen) outputName(t *project.Target) string {
	if t.IsStaticLib() {
		return archiveName(t.Output)
	}
	return t.Output
}

// archiveName prepends lib to an archive's filename when missing.
func archiveName(out string) string {
	dir, base := path.Split(out)
	if !strings.HasPrefix(base, "lib") {
		base = "lib" + base
	}
	return dir + base
}

// fixSiblingRef rewrites a path-qualified link argument that points at a
// sibling archive so it matches the fixed-up output name.
func (g *NinjaGen) fixSiblingRef(arg string) string {
	for _, t := range g.ctx.Project.Targets {
		if t.IsStaticLib() && path.Clean(arg) == path.Clean(t.Output) {
			return archiveName(arg)
		}
	}
	return arg
}

// extractOutput pulls the -o argument out of a substituted command.
func extractOutput(command string) string {
	tokens := strings.Fields(command)
	for i, tok := range tokens {
		if tok == "-o" && i+1 < len(tokens) {
			return tokens[i+1]
		}
	}
	return ""
}

// quoteExe wraps an executable path containing spaces for a shell command
// line.
func quoteExe(p string) string {
	if strings.ContainsRune(p, ' ') {
		return `"` + p + `"`
	}
	return p
}

func sanitize(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}
