package project

import (
	"encoding/xml"
	"io"
	"strconv"

	"github.com/cbgen-build/cbgen/internal/msg"
)

// Document is the raw attribute tree of a Code::Blocks project file.
// Only the elements the pipeline consumes are modeled; anything else in the
// document is ignored by the decoder so newer project-file features don't
// break the parse.
type Document struct {
	XMLName     xml.Name     `xml:"CodeBlocks_project_file"`
	FileVersion *FileVersion `xml:"FileVersion"`
	Project     *ProjectNode `xml:"Project"`
}

type FileVersion struct {
	Major string `xml:"major,attr"`
	Minor string `xml:"minor,attr"`
}

type ProjectNode struct {
	Options       []OptionNode       `xml:"Option"`
	Build         *BuildNode         `xml:"Build"`
	Compiler      *ToolNode          `xml:"Compiler"`
	Linker        *ToolNode          `xml:"Linker"`
	ExtraCommands *ExtraCommandsNode `xml:"ExtraCommands"`
	Units         []UnitNode         `xml:"Unit"`
}

type BuildNode struct {
	Targets []TargetNode `xml:"Target"`
}

type TargetNode struct {
	Title         string             `xml:"title,attr"`
	Options       []OptionNode       `xml:"Option"`
	Compiler      *ToolNode          `xml:"Compiler"`
	Linker        *ToolNode          `xml:"Linker"`
	ExtraCommands *ExtraCommandsNode `xml:"ExtraCommands"`
}

// ToolNode is a <Compiler> or <Linker> element; both carry <Add> children.
type ToolNode struct {
	Adds []AddNode `xml:"Add"`
}

type AddNode struct {
	Option    string `xml:"option,attr"`
	Directory string `xml:"directory,attr"`
	Library   string `xml:"library,attr"`
}

type ExtraCommandsNode struct {
	Adds []ExtraAddNode `xml:"Add"`
}

type ExtraAddNode struct {
	Before string `xml:"before,attr"`
	After  string `xml:"after,attr"`
}

// OptionNode is the catch-all <Option> element; which attributes are set
// depends on where it appears (project, target or unit scope).
type OptionNode struct {
	Title        string `xml:"title,attr"`
	Compiler     string `xml:"compiler,attr"`
	Output       string `xml:"output,attr"`
	ObjectOutput string `xml:"object_output,attr"`
	WorkingDir   string `xml:"working_dir,attr"`
	Type         string `xml:"type,attr"`
}

type UnitNode struct {
	Filename string           `xml:"filename,attr"`
	Options  []UnitOptionNode `xml:"Option"`
}

type UnitOptionNode struct {
	Compile      string `xml:"compile,attr"`
	Link         string `xml:"link,attr"`
	Target       string `xml:"target,attr"`
	Compiler     string `xml:"compiler,attr"`
	BuildCommand string `xml:"buildCommand,attr"`
	Use          string `xml:"use,attr"`
	CompilerVar  string `xml:"compilerVar,attr"`
}

// ParseDocument decodes a CBP document and checks it is structurally
// complete: a <Project> element with at least one build target. No semantic
// interpretation happens here.
func ParseDocument(r io.Reader) (*Document, error) {
	var doc Document
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, &StructuralError{Err: err}
	}

	if doc.FileVersion == nil {
		msg.Warn("project file has no FileVersion element")
	} else {
		major, errMajor := strconv.Atoi(doc.FileVersion.Major)
		minor, errMinor := strconv.Atoi(doc.FileVersion.Minor)
		if errMajor != nil || errMinor != nil {
			msg.Warn("invalid FileVersion %q.%q", doc.FileVersion.Major, doc.FileVersion.Minor)
		} else if major != 1 || minor < 6 {
			msg.Warn("FileVersion %d.%d may be incompatible (expected 1.6+)", major, minor)
		}
	}

	if doc.Project == nil {
		return nil, &StructuralError{Element: "<Project>"}
	}
	if doc.Project.Build == nil || len(doc.Project.Build.Targets) == 0 {
		return nil, &StructuralError{Element: "<Build> with at least one <Target>"}
	}

	return &doc, nil
}
