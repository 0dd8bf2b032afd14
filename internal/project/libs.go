package project

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/cbgen-build/cbgen/internal/msg"
)

// LibrarySet is the per-target resolved link inputs. Order matters: with
// static libraries the link order decides symbol resolution, so the
// sequence in Args is exactly the first-seen merge order.
type LibrarySet struct {
	Args       []string // link arguments in resolved order (-lname or path-qualified)
	Implicit   []string // on-disk library paths declared as implicit deps
	BuildDeps  []string // sibling target outputs that must be built first
	LinkScript string
}

// ResolveLibraries merges library references from the three sources
// (project-level linker nodes, target-level linker nodes, -l entries lifted
// from linker option strings) in that precedence order and deduplicates
// keeping the first occurrence, so later duplicates never shift link order.
func ResolveLibraries(info *ProjectInfo, t *Target) (*LibrarySet, error) {
	set := &LibrarySet{LinkScript: t.LinkScript}

	// archive outputs of sibling targets, by cleaned path
	siblings := make(map[string]string)
	for _, other := range info.Targets {
		if other != t && other.IsStaticLib() {
			siblings[filepath.ToSlash(filepath.Clean(other.Output))] = other.Output
		}
	}

	var refs []string
	refs = append(refs, t.libSources.project...)
	refs = append(refs, t.libSources.target...)
	refs = append(refs, t.libSources.flags...)

	seen := make(map[string]bool)
	for _, ref := range refs {
		arg := normalizeLibRef(ref)
		if seen[arg] {
			continue
		}
		seen[arg] = true
		set.Args = append(set.Args, arg)

		if strings.HasPrefix(arg, "-l") {
			// probe the search dirs so header-only rebuilds notice a
			// rebuilt archive; absence is fine, it may be a system lib
			if p, ok := findLibrary(info.Dir, t.LibDirs, arg[2:]); ok {
				set.Implicit = append(set.Implicit, p)
			}
			continue
		}

		clean := filepath.ToSlash(filepath.Clean(arg))
		if out, ok := siblings[clean]; ok {
			set.BuildDeps = append(set.BuildDeps, out)
			continue
		}

		full := clean
		if !filepath.IsAbs(full) {
			full = filepath.Join(info.Dir, full)
		}
		if _, err := os.Stat(full); err != nil {
			if strings.HasSuffix(clean, ".a") || strings.HasSuffix(clean, ".o") {
				return nil, &LibraryError{Library: ref, Target: t.Name}
			}
			msg.Warn("target %q: library reference %q not found on disk", t.Name, ref)
			continue
		}
		set.Implicit = append(set.Implicit, clean)
	}

	return set, nil
}

// normalizeLibRef turns a library reference into a link argument. Entries
// lifted from option strings are -l flags already; entries carrying a path
// stay path-qualified; bare names become -l flags with any lib prefix /
// .a suffix stripped first.
func normalizeLibRef(ref string) string {
	if strings.HasPrefix(ref, "-l") {
		return ref
	}
	if filepath.IsAbs(ref) || strings.ContainsAny(ref, `/\`) {
		return filepath.ToSlash(ref)
	}
	name := strings.TrimSuffix(ref, ".a")
	name = strings.TrimPrefix(name, "lib")
	return "-l" + name
}

// findLibrary searches the -L dirs for lib<name>.a, resolving relative
// dirs against the project directory.
func findLibrary(projectDir string, libDirs []string, name string) (string, bool) {
	for _, dir := range libDirs {
		search := dir
		if !filepath.IsAbs(search) {
			search = filepath.Join(projectDir, search)
		}
		candidate := filepath.Join(search, "lib"+name+".a")
		if _, err := os.Stat(candidate); err == nil {
			return filepath.ToSlash(filepath.Join(dir, "lib"+name+".a")), true
		}
	}
	return "", false
}
