package toolchain

import (
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"runtime"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/pelletier/go-toml/v2"
)

// ConfigFilename is looked up next to the project file.
const ConfigFilename = "toolchains.toml"

// Config overrides the built-in toolchain table, e.g.
//
//	[toolchain.riscv32-v2]
//	root = '{{ environ["HOME"] }}/rv32/RV32-V2'
//	gcc-version = "10.2.0"
//
// String values may contain {{ ... }} expressions evaluated against Env.
type Config struct {
	Toolchain map[string]Section `toml:"toolchain"`
}

type Section struct {
	Root       string `toml:"root"`
	GCCVersion string `toml:"gcc-version"`
	Triple     string `toml:"triple"`
}

func (c *Config) apply(id string, p Profile) Profile {
	sec, ok := c.Toolchain[id]
	if !ok {
		return p
	}
	if sec.Root != "" {
		p.Root = sec.Root
	}
	if sec.GCCVersion != "" {
		p.GCCVersion = sec.GCCVersion
	}
	if sec.Triple != "" {
		p.Triple = sec.Triple
	}
	return p
}

// Env is the expression environment for config strings.
type Env struct {
	HostOS     string            `expr:"host_os"`
	HostArch   string            `expr:"host_arch"`
	ProjectDir string            `expr:"project_dir"`
	Environ    map[string]string `expr:"environ"`
}

func NewEnv(projectDir string) Env {
	environ := make(map[string]string)
	for _, e := range os.Environ() {
		if i := strings.Index(e, "="); i >= 0 {
			environ[e[:i]] = e[i+1:]
		}
	}
	return Env{
		HostOS:     runtime.GOOS,
		HostArch:   runtime.GOARCH,
		ProjectDir: projectDir,
		Environ:    environ,
	}
}

// LoadConfig reads the override file if it exists; a missing file is not
// an error, the built-in table simply applies.
func LoadConfig(path string, env Env) (*Config, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ParseConfig(f, env)
}

func ParseConfig(r io.Reader, env Env) (*Config, error) {
	var cfg Config
	dec := toml.NewDecoder(r)
	if err := dec.Decode(&cfg); err != nil {
		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			return nil, errors.New(derr.String())
		}
		return nil, err
	}

	for id, sec := range cfg.Toolchain {
		var err error
		if sec.Root, err = evaluateString(sec.Root, env); err != nil {
			return nil, fmt.Errorf("toolchain %q: %w", id, err)
		}
		if sec.GCCVersion, err = evaluateString(sec.GCCVersion, env); err != nil {
			return nil, fmt.Errorf("toolchain %q: %w", id, err)
		}
		if sec.Triple, err = evaluateString(sec.Triple, env); err != nil {
			return nil, fmt.Errorf("toolchain %q: %w", id, err)
		}
		cfg.Toolchain[id] = sec
	}

	return &cfg, nil
}

var exprRegex = regexp.MustCompile(`\{\{(.+?)\}\}`)

// evaluateString finds and evaluates all {{...}} expressions in a string
func evaluateString(s string, env Env) (string, error) {
	matches := exprRegex.FindAllStringSubmatchIndex(s, -1)
	if len(matches) == 0 {
		return s, nil
	}

	var builder strings.Builder
	lastIndex := 0

	for _, m := range matches {
		builder.WriteString(s[lastIndex:m[0]])

		expression := strings.TrimSpace(s[m[2]:m[3]])
		program, err := expr.Compile(expression, expr.Env(env))
		if err != nil {
			return "", fmt.Errorf("failed to compile expression %q: %w", expression, err)
		}

		result, err := expr.Run(program, env)
		if err != nil {
			return "", fmt.Errorf("failed to run expression %q: %w", expression, err)
		}

		builder.WriteString(fmt.Sprintf("%v", result))
		lastIndex = m[1]
	}

	builder.WriteString(s[lastIndex:])

	return builder.String(), nil
}
