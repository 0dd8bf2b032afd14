package project

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/cbgen-build/cbgen/internal/msg"
	"github.com/kballard/go-shellquote"
)

// Code::Blocks assigns this ID when a project doesn't pick a compiler.
const defaultCompilerID = "riscv32-v2"

// BuildProject converts a parsed document into the normalized project
// model, applying Code::Blocks overlay semantics: target-level settings
// override project-level ones field by field, except for additive list
// fields (include paths, library dirs, libraries) and flag strings, which
// concatenate with project-level entries first.
func BuildProject(doc *Document, dir string) (*ProjectInfo, error) {
	proj := doc.Project

	info := &ProjectInfo{
		Name:       "output",
		CompilerID: defaultCompilerID,
		Dir:        dir,
	}
	for _, opt := range proj.Options {
		if opt.Title != "" {
			info.Name = opt.Title
			break
		}
	}
	for _, opt := range proj.Options {
		if opt.Compiler != "" {
			info.CompilerID = opt.Compiler
			break
		}
	}

	// Duplicate target titles are deduplicated last-wins, keeping the
	// first-seen position so default-target selection stays stable.
	var order []string
	byTitle := make(map[string]TargetNode)
	for _, tn := range proj.Build.Targets {
		if tn.Title == "" {
			return nil, &SemanticError{Subject: "target", Reason: "missing title attribute"}
		}
		if _, seen := byTitle[tn.Title]; seen {
			msg.Warn("duplicate target %q, the later definition wins", tn.Title)
		} else {
			order = append(order, tn.Title)
		}
		byTitle[tn.Title] = tn
	}

	// An output path is mandatory once any target declares one; the bare
	// <project>.elf fallback exists only for minimal legacy projects that
	// declare none at all.
	anyOutput := false
	for _, tn := range byTitle {
		if firstOutput(tn) != "" {
			anyOutput = true
			break
		}
	}

	for _, title := range order {
		t, err := buildTarget(info, proj, byTitle[title], anyOutput)
		if err != nil {
			return nil, err
		}
		info.Targets = append(info.Targets, t)
	}

	if err := buildUnits(info, proj); err != nil {
		return nil, err
	}

	collectExtraCommands(info, proj.ExtraCommands)
	for _, title := range order {
		tn := byTitle[title]
		collectExtraCommands(info, tn.ExtraCommands)
	}

	if len(info.Sources) == 0 {
		return nil, &SemanticError{
			Subject: fmt.Sprintf("project %q", info.Name),
			Reason:  "no source files (.c/.cpp) or buildable special files found",
		}
	}

	return info, nil
}

func firstOutput(tn TargetNode) string {
	for _, opt := range tn.Options {
		if opt.Output != "" {
			return opt.Output
		}
	}
	return ""
}

func buildTarget(info *ProjectInfo, proj *ProjectNode, tn TargetNode, anyOutput bool) (*Target, error) {
	t := &Target{
		Name:       tn.Title,
		CompilerID: info.CompilerID,
		ObjectDir:  "./",
	}

	compilerSet := false
	for _, opt := range tn.Options {
		if opt.Compiler != "" && !compilerSet {
			t.CompilerID = opt.Compiler
			compilerSet = true
		}
		if opt.ObjectOutput != "" {
			t.ObjectDir = opt.ObjectOutput
		}
		if opt.WorkingDir != "" {
			t.WorkingDir = opt.WorkingDir
		}
	}

	t.Output = firstOutput(tn)
	if t.Output == "" {
		if anyOutput {
			return nil, &SemanticError{
				Subject: fmt.Sprintf("target %q", t.Name),
				Reason:  "no output path declared (<Option output=...>)",
			}
		}
		t.Output = info.Name + ".elf"
		msg.Warn("target %q has no output path, assuming %q", t.Name, t.Output)
	}

	// compiler settings: project first, then target overlay
	collectCompilerAdds(t, proj.Compiler)
	collectCompilerAdds(t, tn.Compiler)

	// linker settings, same order
	collectLinkerAdds(t, proj.Linker, &t.libSources.project)
	collectLinkerAdds(t, tn.Linker, &t.libSources.target)

	subst := placeholderMap(info, t)
	t.Cflags = expandAll(t.Cflags, subst)
	t.Ldflags = expandAll(t.Ldflags, subst)
	t.LibDirs = expandAll(t.LibDirs, subst)
	t.IncludeDirs = expandAll(t.IncludeDirs, subst)
	t.LinkScript = expand(t.LinkScript, subst)

	return t, nil
}

func collectCompilerAdds(t *Target, node *ToolNode) {
	if node == nil {
		return
	}
	for _, add := range node.Adds {
		if add.Option != "" {
			t.Cflags = append(t.Cflags, splitOption(add.Option)...)
		}
		if add.Directory != "" {
			t.IncludeDirs = append(t.IncludeDirs, add.Directory)
		}
	}
}

// collectLinkerAdds gathers linker options, library dirs and library nodes.
// -l and -T entries inside option strings are lifted out so link order and
// script handling stay under the resolver's control.
func collectLinkerAdds(t *Target, node *ToolNode, libs *[]string) {
	if node == nil {
		return
	}
	for _, add := range node.Adds {
		if add.Library != "" {
			*libs = append(*libs, add.Library)
		}
		if add.Directory != "" {
			t.LibDirs = append(t.LibDirs, add.Directory)
		}
		if add.Option == "" {
			continue
		}
		tokens := splitOption(add.Option)
		for i := 0; i < len(tokens); i++ {
			tok := tokens[i]
			switch {
			case tok == "-T" && i+1 < len(tokens):
				t.LinkScript = tokens[i+1]
				i++
			case strings.HasPrefix(tok, "-T") && len(tok) > 2:
				t.LinkScript = tok[2:]
			case strings.HasPrefix(tok, "-l") && len(tok) > 2:
				t.libSources.flags = append(t.libSources.flags, tok)
			default:
				t.Ldflags = append(t.Ldflags, tok)
			}
		}
	}
}

// splitOption tokenizes an option attribute, honoring shell quoting so
// values like -DNAME="a b" survive intact.
func splitOption(s string) []string {
	tokens, err := shellquote.Split(s)
	if err != nil {
		msg.Warn("unparsable option string %q: %v", s, err)
		return strings.Fields(s)
	}
	return tokens
}

func buildUnits(info *ProjectInfo, proj *ProjectNode) error {
	for _, un := range proj.Units {
		if un.Filename == "" {
			continue
		}

		src := &SourceFile{
			Path:  filepath.ToSlash(un.Filename),
			Class: Classify(un.Filename),
		}

		compile := src.Class != ClassSpecial
		for _, opt := range un.Options {
			if opt.Target != "" {
				if info.target(opt.Target) == nil {
					return &SemanticError{
						Subject: fmt.Sprintf("unit %q", un.Filename),
						Reason:  fmt.Sprintf("references unknown target %q", opt.Target),
					}
				}
				if src.targets == nil {
					src.targets = make(map[string]bool)
				}
				src.targets[opt.Target] = true
			}
			switch opt.Compile {
			case "1":
				compile = true
			case "0":
				compile = false
			}
			if opt.Use == "1" && opt.Compiler != "" {
				if cmd := strings.TrimSpace(opt.BuildCommand); cmd != "" {
					src.Commands = append(src.Commands, BuildCommand{
						CompilerID: opt.Compiler,
						Command:    cmd,
					})
				}
			}
		}

		if src.Class == ClassSpecial && (!compile || len(src.Commands) == 0) {
			// headers and other passive files
			continue
		}
		if !compile {
			continue
		}
		info.Sources = append(info.Sources, src)
	}
	return nil
}

func collectExtraCommands(info *ProjectInfo, node *ExtraCommandsNode) {
	if node == nil {
		return
	}
	for _, add := range node.Adds {
		if cmd := strings.TrimSpace(add.Before); cmd != "" {
			info.Prebuild = append(info.Prebuild, cmd)
		}
		if cmd := strings.TrimSpace(add.After); cmd != "" {
			info.Postbuild = append(info.Postbuild, cmd)
		}
	}
}

// placeholderMap is the Code::Blocks variable table for one target,
// computed once after all per-target values are known.
func placeholderMap(info *ProjectInfo, t *Target) map[string]string {
	outputDir := filepath.ToSlash(filepath.Dir(t.Output))
	return map[string]string{
		"$(TARGET_OBJECT_DIR)":  t.ObjectDir,
		"$(TARGET_OUTPUT_DIR)":  outputDir + "/",
		"$(TARGET_OUTPUT_FILE)": t.Output,
		"$(PROJECT_NAME)":       info.Name,
		"$(PROJECT_DIR)":        "./",
	}
}

func expand(s string, subst map[string]string) string {
	for name, val := range subst {
		s = strings.ReplaceAll(s, name, val)
	}
	return s
}

func expandAll(list []string, subst map[string]string) []string {
	for i, s := range list {
		list[i] = expand(s, subst)
	}
	return list
}
