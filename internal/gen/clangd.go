package gen

import (
	"gopkg.in/yaml.v3"
)

type clangdConfig struct {
	CompileFlags clangdFlags       `yaml:"CompileFlags"`
	Completion   *clangdCompletion `yaml:"Completion,omitempty"`
}

type clangdFlags struct {
	Add    []string `yaml:"Add"`
	Remove []string `yaml:"Remove,omitempty"`
}

type clangdCompletion struct {
	HeaderInsertion string `yaml:"HeaderInsertion"`
}

// ClangdGen emits the .clangd editor config for the active target. The
// vendor-extension part of -march is moved to the Remove list so clangd
// keeps base-ISA checking precise without choking on custom extensions.
type ClangdGen struct {
	ctx               *Context
	noHeaderInsertion bool
}

func NewClangdGen(ctx *Context, noHeaderInsertion bool) *ClangdGen {
	return &ClangdGen{ctx: ctx, noHeaderInsertion: noHeaderInsertion}
}

func (g *ClangdGen) Filename() string { return ".clangd" }

// flags clangd cannot digest; always removed
var clangdUnknownFlags = []string{"-mjump-tables-in-text"}

func (g *ClangdGen) Generate() (string, error) {
	ctx := g.ctx
	t := ctx.Project.DefaultTarget()
	prof := ctx.Profiles[t.Name]
	march := ctx.March[t.Name]

	add := []string{"-xc", "-target", prof.TargetTriple()}
	for _, inc := range prof.IncludePaths() {
		add = append(add, "-I"+inc)
	}
	add = append(add, ctx.includeFlags(t)...)

	for _, flag := range t.Cflags {
		if flag == march.Full && march.Full != "" {
			continue // re-added below, split or whole
		}
		if isClangdUnknown(flag) {
			continue
		}
		add = append(add, flag)
	}

	switch {
	case march.HasVendor:
		add = append(add, march.Base)
	case march.Full != "":
		add = append(add, march.Full)
	}

	var remove []string
	if march.Full != "" {
		remove = append(remove, march.Full)
	}
	remove = append(remove, clangdUnknownFlags...)

	cfg := clangdConfig{CompileFlags: clangdFlags{Add: add, Remove: remove}}
	if g.noHeaderInsertion {
		cfg.Completion = &clangdCompletion{HeaderInsertion: "Never"}
	}

	out, err := yaml.Marshal(&cfg)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

func isClangdUnknown(flag string) bool {
	for _, f := range clangdUnknownFlags {
		if flag == f {
			return true
		}
	}
	return false
}
