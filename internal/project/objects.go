package project

import (
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// ObjectMapping maps each source path to its object file path. The mapping
// is bijective: two distinct sources never share an object path.
type ObjectMapping map[string]string

// MapObjects derives object paths for the given sources under the object
// root, mirroring each source's directory structure so same-named files in
// different directories cannot collide. Any remaining collision is fatal
// rather than silently overwriting another file's object.
func MapObjects(sources []*SourceFile, objectRoot string) (ObjectMapping, error) {
	mapping := make(ObjectMapping, len(sources))
	owner := make(map[string]string, len(sources))
	for _, src := range sources {
		obj := ObjectPath(objectRoot, src.Path)
		if prev, taken := owner[obj]; taken {
			return nil, &PathError{Object: obj, Sources: [2]string{prev, src.Path}}
		}
		owner[obj] = src.Path
		mapping[src.Path] = obj
	}
	return mapping, nil
}

// ObjectPath returns the object file path for a single source: object root
// plus the source's project-relative path with the extension replaced by
// .o. Sources that climb out of the project root are rehomed under a
// stable ext-<token> directory, one per distinct climb prefix, so paths
// differing only in leading ".." segments stay distinct.
func ObjectPath(objectRoot, src string) string {
	rel := path.Clean(filepath.ToSlash(src))

	if prefix, rest, climbs := splitClimb(rel); climbs {
		rel = path.Join("ext-"+climbToken(prefix), rest)
	}

	ext := path.Ext(rel)
	obj := strings.TrimSuffix(rel, ext) + ".o"
	return path.Join(filepath.ToSlash(objectRoot), obj)
}

// splitClimb separates the leading ..-run (or volume/root of an absolute
// path) from the in-tree remainder.
func splitClimb(rel string) (prefix, rest string, climbs bool) {
	if path.IsAbs(rel) || filepath.IsAbs(rel) {
		return path.Dir(rel), path.Base(rel), true
	}
	parts := strings.Split(rel, "/")
	n := 0
	for n < len(parts) && parts[n] == ".." {
		n++
	}
	if n == 0 {
		return "", rel, false
	}
	return strings.Join(parts[:n], "/"), strings.Join(parts[n:], "/"), true
}

// climbToken derives a short stable token from the climb prefix. NewSHA1
// is deterministic, so reruns map the same source to the same object.
func climbToken(prefix string) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte("cbgen:"+prefix)).String()[:8]
}
