// Package toolchain maps Code::Blocks compiler IDs onto known RISC-V
// cross-toolchain installations and analyzes architecture flags.
package toolchain

import (
	"os"
	"os/exec"
	"path"
	"path/filepath"
	"runtime"
)

// CompilerID is the closed set of known toolchains plus a generic
// fallback. Adding a supported compiler means adding a constant and a
// profile entry, not another string comparison.
type CompilerID int

const (
	Generic CompilerID = iota
	RiscV32V1
	RiscV32V2
	RiscV32V3
)

func (id CompilerID) String() string {
	switch id {
	case RiscV32V1:
		return "riscv32-v1"
	case RiscV32V2:
		return "riscv32-v2"
	case RiscV32V3:
		return "riscv32-v3"
	default:
		return "generic"
	}
}

// FromString maps a compiler ID string from the project file. ok is false
// for unrecognized IDs; callers warn and continue with Generic.
func FromString(id string) (CompilerID, bool) {
	switch id {
	case "riscv32-v1":
		return RiscV32V1, true
	case "riscv32-v2":
		return RiscV32V2, true
	case "riscv32-v3":
		return RiscV32V3, true
	default:
		return Generic, false
	}
}

// Profile describes one toolchain installation.
type Profile struct {
	ID         CompilerID
	Root       string // install root; empty means "resolve tools from PATH"
	GCCVersion string
	Triple     string
}

var profiles = map[CompilerID]Profile{
	RiscV32V1: {
		ID:         RiscV32V1,
		Root:       "C:/Program Files (x86)/RV32-Toolchain/RV32-V1",
		GCCVersion: "6.1.0",
		Triple:     "riscv32-elf",
	},
	RiscV32V2: {
		ID:         RiscV32V2,
		Root:       "C:/Program Files (x86)/RV32-Toolchain/RV32-V2",
		GCCVersion: "10.2.0",
		Triple:     "riscv32-elf",
	},
	RiscV32V3: {
		ID:         RiscV32V3,
		Root:       "C:/Program Files (x86)/RV32-Toolchain/RV32-V3",
		GCCVersion: "14.2.0",
		Triple:     "riscv32-elf",
	},
	Generic: {
		ID:     Generic,
		Triple: "riscv32-elf",
	},
}

// Resolve returns the profile for a compiler ID string, with overrides
// from the optional config applied. ok is false when the ID is
// unrecognized and the generic profile is returned instead.
func Resolve(id string, cfg *Config) (Profile, bool) {
	cid, ok := FromString(id)
	p := profiles[cid]
	if cfg != nil {
		p = cfg.apply(id, p)
	}
	return p, ok
}

// DefaultFlags is the baseline option set a profile contributes when the
// project supplies nothing. Never empty, so an unrecognized compiler still
// yields a usable compile command.
func (p Profile) DefaultFlags() []string {
	return []string{"-Wall", "-O2", "-g"}
}

// TargetTriple is the clang -target value matching this toolchain.
func (p Profile) TargetTriple() string {
	return "riscv32-unknown-elf"
}

// CompilerPath returns the gcc driver executable for this profile.
func (p Profile) CompilerPath() string {
	return p.tool(p.Triple + "-gcc")
}

// LinkerPath returns the link executable for the given linker type
// ("gcc" for the compiler driver, "ld" for the raw linker).
func (p Profile) LinkerPath(linkerType string) string {
	if linkerType == "ld" {
		return p.tool(p.Triple + "-ld")
	}
	return p.tool(p.Triple + "-gcc")
}

// ArPath returns the archiver executable.
func (p Profile) ArPath() string {
	return p.tool(p.Triple + "-ar")
}

// IncludePaths lists the toolchain's system include directories.
func (p Profile) IncludePaths() []string {
	if p.Root == "" || p.GCCVersion == "" {
		return nil
	}
	gccInclude := path.Join(p.Root, "lib/gcc", p.Triple, p.GCCVersion)
	return []string{
		path.Join(gccInclude, "include"),
		path.Join(gccInclude, "include-fixed"),
		path.Join(p.Root, p.Triple, "include"),
	}
}

// tool resolves a tool name against the install root, falling back to
// PATH (and the CC environment override for the compiler) when the root
// isn't present on this machine. The returned bare name acts as a
// placeholder in generated files when nothing is installed.
func (p Profile) tool(name string) string {
	if p.Root != "" {
		full := path.Join(p.Root, "bin", name+exeSuffix())
		if _, err := os.Stat(filepath.FromSlash(full)); err == nil {
			return full
		}
	}
	if name == p.Triple+"-gcc" {
		if cc := os.Getenv("CC"); cc != "" {
			return cc
		}
	}
	if found, err := exec.LookPath(name); err == nil {
		return filepath.ToSlash(found)
	}
	return name
}

func exeSuffix() string {
	if runtime.GOOS == "windows" {
		return ".exe"
	}
	return ""
}
