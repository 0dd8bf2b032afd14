package project

import "fmt"

// StructuralError reports a malformed or incomplete project document.
// The pipeline stops before producing any output.
type StructuralError struct {
	Element string // required element that is missing
	Err     error  // underlying decode error for ill-formed XML
}

func (e *StructuralError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("project file is not well-formed: %v", e.Err)
	}
	return fmt.Sprintf("project file is missing required element %s", e.Element)
}

func (e *StructuralError) Unwrap() error { return e.Err }

// SemanticError reports a document that parsed but cannot be turned into a
// valid project model (e.g. a target without an output path).
type SemanticError struct {
	Subject string // target, unit or option the error refers to
	Reason  string
}

func (e *SemanticError) Error() string {
	return fmt.Sprintf("%s: %s", e.Subject, e.Reason)
}

// LibraryError reports a library reference that cannot be resolved to a
// file or a sibling target output. Fatal, since link order correctness
// cannot be guaranteed for an unresolvable static library.
type LibraryError struct {
	Library string
	Target  string
}

func (e *LibraryError) Error() string {
	return fmt.Sprintf("target %q: cannot locate static library %q", e.Target, e.Library)
}

// PathError reports an object path collision between two source files.
type PathError struct {
	Object  string
	Sources [2]string
}

func (e *PathError) Error() string {
	return fmt.Sprintf("object path %q maps from both %q and %q", e.Object, e.Sources[0], e.Sources[1])
}
