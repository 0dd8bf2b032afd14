// cbgen [project.cbp], cbgen generate [project.cbp]
package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/cbgen-build/cbgen/internal/gen"
	"github.com/cbgen-build/cbgen/internal/msg"
	"github.com/cbgen-build/cbgen/internal/project"
	"github.com/cbgen-build/cbgen/internal/toolchain"
)

const version = "0.3.0"

var (
	flagLinker = NewEnumValue("gcc", map[string]string{
		"gcc": "Link through the compiler driver (default)",
		"ld":  "Invoke the raw linker with explicit entry/script arguments",
	})
	flagNinja             string
	flagTest              bool
	flagDebug             bool
	flagNoHeaderInsertion bool
)

func doGenerate(cmd *cobra.Command, args []string) {
	msg.SetDebug(flagDebug)
	if err := runPipeline(args); err != nil {
		msg.Fatal("%v", err)
	}
}

var rootCmd = &cobra.Command{
	Use:     "cbgen [project.cbp | dir] [output dir]",
	Short:   "Generate ninja, compile_commands.json and .clangd from a Code::Blocks project",
	Long:    `Generate ninja, compile_commands.json and .clangd from a Code::Blocks project`,
	Args:    cobra.MaximumNArgs(2),
	Version: version,
	Run:     doGenerate,
}

var generateCmd = &cobra.Command{
	Use:   "generate [project.cbp | dir] [output dir]",
	Short: "Generate all build artifacts",
	Long:  `Generate all build artifacts. A directory argument is searched for a single .cbp file.`,
	Args:  cobra.MaximumNArgs(2),
	Run:   doGenerate,
}

func init() {
	addGenerateFlags(rootCmd)

	rootCmd.AddCommand(generateCmd)
	addGenerateFlags(generateCmd)
}

func addGenerateFlags(cmd *cobra.Command) {
	cmd.Flags().VarP(&flagLinker, "linker", "l", "Linker type, one of "+flagLinker.HelpString())
	cmd.Flags().StringVarP(&flagNinja, "ninja", "n", "", "Path to the ninja executable referenced by the build script")
	cmd.Flags().BoolVar(&flagTest, "test", false, "Use the built-in sample project instead of reading a file")
	cmd.Flags().BoolVar(&flagDebug, "debug", false, "Enable debug logging")
	cmd.Flags().BoolVar(&flagNoHeaderInsertion, "no-header-insertion", false, "Disable header insertion in clangd completion")
	cmd.RegisterFlagCompletionFunc("linker", flagLinker.CompletionFunc())
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		msg.Error("%v", err)
		os.Exit(1)
	}
}

func runPipeline(args []string) error {
	var (
		doc        *project.Document
		projectDir string
	)

	if flagTest {
		cwd, err := os.Getwd()
		if err != nil {
			return err
		}
		projectDir = cwd
		doc, err = project.ParseDocument(strings.NewReader(project.SampleDocument))
		if err != nil {
			return fmt.Errorf("parsing built-in sample document: %w", err)
		}
	} else {
		if len(args) == 0 {
			return errors.New("missing project file argument (or use --test)")
		}
		cbpPath, err := findProjectFile(args[0])
		if err != nil {
			return err
		}
		msg.Debug("project file: %s", cbpPath)
		projectDir = filepath.Dir(cbpPath)

		f, err := os.Open(cbpPath)
		if err != nil {
			return err
		}
		doc, err = project.ParseDocument(f)
		f.Close()
		if err != nil {
			return fmt.Errorf("parsing %s: %w", cbpPath, err)
		}
	}

	outDir := projectDir
	if len(args) > 1 {
		outDir = args[1]
		if !filepath.IsAbs(outDir) {
			outDir = filepath.Join(projectDir, outDir)
		}
	}

	info, err := project.BuildProject(doc, projectDir)
	if err != nil {
		return fmt.Errorf("building project model: %w", err)
	}

	env := toolchain.NewEnv(projectDir)
	cfg, err := toolchain.LoadConfig(filepath.Join(projectDir, toolchain.ConfigFilename), env)
	if err != nil {
		return fmt.Errorf("loading %s: %w", toolchain.ConfigFilename, err)
	}

	ctx, err := gen.NewContext(info, cfg, flagLinker.Value(), flagNinja)
	if err != nil {
		return fmt.Errorf("resolving project %q: %w", info.Name, err)
	}

	emitters := []gen.Emitter{
		gen.NewNinjaGen(ctx),
		gen.NewCompileDBGen(ctx),
		gen.NewClangdGen(ctx, flagNoHeaderInsertion),
		gen.NewScriptGen(ctx),
	}

	// generate everything in memory first so a failed stage never leaves
	// a partial set of artifacts behind
	outputs := make(map[string]string, len(emitters))
	for _, e := range emitters {
		content, err := e.Generate()
		if err != nil {
			return fmt.Errorf("generating %s: %w", e.Filename(), err)
		}
		outputs[e.Filename()] = content
	}

	if err := os.MkdirAll(outDir, 0755); err != nil {
		return err
	}

	var wg errgroup.Group
	for name, content := range outputs {
		name, content := name, content
		wg.Go(func() error {
			path := filepath.Join(outDir, name)
			mode := os.FileMode(0644)
			if strings.HasSuffix(name, ".sh") || strings.HasSuffix(name, ".bat") {
				mode = 0755
			}
			if err := os.WriteFile(path, []byte(content), mode); err != nil {
				return err
			}
			msg.Info("generated %s", path)
			return nil
		})
	}
	return wg.Wait()
}

// findProjectFile accepts either a .cbp path or a directory containing
// exactly one project file.
func findProjectFile(arg string) (string, error) {
	stat, err := os.Stat(arg)
	if err != nil {
		return "", err
	}
	if !stat.IsDir() {
		return arg, nil
	}

	fsys := os.DirFS(arg)
	for _, pattern := range []string{"*.cbp", "**/*.cbp"} {
		matches, err := doublestar.Glob(fsys, pattern, doublestar.WithFilesOnly())
		if err != nil {
			return "", err
		}
		if len(matches) == 1 {
			return filepath.Join(arg, matches[0]), nil
		}
		if len(matches) > 1 {
			return "", fmt.Errorf("multiple project files in %s: %s", arg, strings.Join(matches, ", "))
		}
	}
	return "", fmt.Errorf("no .cbp project file found in %s", arg)
}
