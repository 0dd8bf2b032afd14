package project

import (
	"path/filepath"
	"strings"
)

// ProjectInfo is the normalized project model. It is built once from the
// parsed document and read-only afterwards.
type ProjectInfo struct {
	Name       string
	Dir        string // directory containing the project file
	CompilerID string // project-wide compiler, may be overridden per target
	Targets    []*Target
	Sources    []*SourceFile
	Prebuild   []string
	Postbuild  []string
}

// DefaultTarget returns the active target. Document order is significant in
// Code::Blocks: the first target is the default one.
func (p *ProjectInfo) DefaultTarget() *Target { return p.Targets[0] }

func (p *ProjectInfo) target(name string) *Target {
	for _, t := range p.Targets {
		if t.Name == name {
			return t
		}
	}
	return nil
}

// MembersOf returns the source files that belong to the given target, in
// document order.
func (p *ProjectInfo) MembersOf(t *Target) []*SourceFile {
	var members []*SourceFile
	for _, src := range p.Sources {
		if src.InTarget(t.Name) {
			members = append(members, src)
		}
	}
	return members
}

// Target is a named build configuration with all project-level settings
// already overlaid. Immutable once BuildProject returns.
type Target struct {
	Name       string
	CompilerID string
	Output     string // declared artifact path, never substituted with a default name
	ObjectDir  string
	WorkingDir string

	Cflags      []string // project flags first, then target flags
	IncludeDirs []string // additive: project then target
	Ldflags     []string // linker options with -l/-T entries extracted
	LibDirs     []string // additive: project then target
	LinkScript  string

	libSources librarySources
}

// librarySources keeps the three library origins separate so the resolver
// can merge them in precedence order.
type librarySources struct {
	project []string // project-level <Linker> library nodes
	target  []string // target-level <Linker> library nodes
	flags   []string // -l entries lifted out of linker option strings
}

// IsStaticLib reports whether the target produces an archive.
func (t *Target) IsStaticLib() bool { return strings.HasSuffix(t.Output, ".a") }

// FileClass partitions sources by the compile rule they need.
type FileClass int

const (
	ClassNormal   FileClass = iota // .c .cpp .C .CPP
	ClassAssembly                  // .S .s
	ClassSpecial                   // anything else with its own build command
)

// Classify determines the file class from the extension alone.
func Classify(path string) FileClass {
	switch ext := filepath.Ext(path); ext {
	case ".c", ".cpp", ".C", ".CPP":
		return ClassNormal
	case ".S", ".s":
		return ClassAssembly
	default:
		return ClassSpecial
	}
}

// BuildCommand is a per-file compile command declared for a specific
// compiler ID.
type BuildCommand struct {
	CompilerID string
	Command    string
}

// SourceFile is a project-relative source path plus its per-file overrides.
type SourceFile struct {
	Path     string
	Class    FileClass
	Commands []BuildCommand

	targets map[string]bool // nil means the file belongs to every target
}

// InTarget reports whether the file is compiled into the named target.
func (f *SourceFile) InTarget(name string) bool {
	if f.targets == nil {
		return true
	}
	return f.targets[name]
}

// Command returns the build command declared for the given compiler ID,
// falling back to the first declared command.
func (f *SourceFile) Command(compilerID string) (BuildCommand, bool) {
	for _, c := range f.Commands {
		if c.CompilerID == compilerID {
			return c, true
		}
	}
	if len(f.Commands) > 0 {
		return f.Commands[0], true
	}
	return BuildCommand{}, false
}
