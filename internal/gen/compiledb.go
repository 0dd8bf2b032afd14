package gen

import (
	"encoding/json"
	"path/filepath"

	"github.com/kballard/go-shellquote"
)

// CompileCommand is one compilation database entry.
type CompileCommand struct {
	Directory string `json:"directory"`
	Command   string `json:"command"`
	File      string `json:"file"`
}

// CompileDBGen emits compile_commands.json for the active target: one
// entry per compiled source with the literal compiler invocation.
type CompileDBGen struct {
	ctx *Context
}

func NewCompileDBGen(ctx *Context) *CompileDBGen { return &CompileDBGen{ctx: ctx} }

func (g *CompileDBGen) Filename() string { return "compile_commands.json" }

func (g *CompileDBGen) Generate() (string, error) {
	ctx := g.ctx
	t := ctx.Project.DefaultTarget()
	prof := ctx.Profiles[t.Name]
	flags := ctx.compileFlags(t)

	dir, err := filepath.Abs(ctx.Project.Dir)
	if err != nil {
		dir = ctx.Project.Dir
	}

	var entries []CompileCommand
	for _, src := range ctx.Project.MembersOf(t) {
		if _, compiled := ctx.Objects[t.Name][src.Path]; !compiled {
			continue // special files have no clang-comprehensible command
		}

		args := []string{prof.CompilerPath(), "-c"}
		args = append(args, flags...)
		args = append(args, src.Path)

		entries = append(entries, CompileCommand{
			Directory: filepath.ToSlash(dir),
			Command:   shellquote.Join(args...),
			File:      src.Path,
		})
	}

	out, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return "", err
	}
	return string(out) + "\n", nil
}
