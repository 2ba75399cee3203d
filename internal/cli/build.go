package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/spf13/cobra"

	"bennypowers.dev/coloradjust/internal/log"
	"bennypowers.dev/coloradjust/internal/parser"
	"bennypowers.dev/coloradjust/internal/project"
	"bennypowers.dev/coloradjust/internal/transform"
)

type buildOptions struct {
	write  bool
	outDir string
	check  bool
}

func newBuildCommand(g *globalOptions) *cobra.Command {
	opts := &buildOptions{}

	cmd := &cobra.Command{
		Use:   "build [paths...]",
		Short: "Rewrite color expressions in files",
		Long: `Rewrite every color( ) expression in the given files and directories.
Without arguments, the files selected by the include and exclude globs of
the project configuration are built. Output goes to stdout unless --write
or --out-dir is set. Failed expressions are reported on stderr as
path:line:column and replaced by their base color.`,
		Example: `  color-adjust build styles/theme.css
  color-adjust build --out-dir dist
  color-adjust build --check`,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := g.load(cmd)
			if err != nil {
				return err
			}

			b := &builder{
				project: p,
				opts:    opts,
				out:     cmd.OutOrStdout(),
				errOut:  cmd.ErrOrStderr(),
			}
			files, err := b.collectFiles(args)
			if err != nil {
				return err
			}
			failed, err := b.build(files)
			if err != nil {
				return err
			}
			if opts.check && failed > 0 {
				return fmt.Errorf("%w: %d", ErrCheckFailed, failed)
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&opts.write, "write", "w", false, "rewrite files in place")
	cmd.Flags().StringVarP(&opts.outDir, "out-dir", "o", "", "write output files under this directory")
	cmd.Flags().BoolVar(&opts.check, "check", false, "exit with an error when any expression fails")
	cmd.MarkFlagsMutuallyExclusive("write", "out-dir")
	return cmd
}

// collectFiles expands directory arguments with the configured globs.
// Files named explicitly are always built.
func (b *builder) collectFiles(args []string) ([]string, error) {
	if len(args) == 0 {
		return b.sourceFiles(b.project.Root)
	}

	var files []string
	for _, arg := range args {
		path, err := filepath.Abs(arg)
		if err != nil {
			return nil, err
		}
		info, err := os.Stat(path)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			files = append(files, path)
			continue
		}
		found, err := b.sourceFiles(path)
		if err != nil {
			return nil, fmt.Errorf("failed to walk %s: %w", arg, err)
		}
		files = append(files, found...)
	}
	return files, nil
}

type builder struct {
	project *project.Project
	opts    *buildOptions
	out     io.Writer
	errOut  io.Writer
}

// sourceFiles lists the configured files under dir. The output directory
// is never read back as input.
func (b *builder) sourceFiles(dir string) ([]string, error) {
	if b.opts.outDir == "" {
		return b.project.Config.Files(dir)
	}
	outDir, err := filepath.Abs(b.opts.outDir)
	if err != nil {
		return nil, err
	}
	return b.project.Config.Files(dir, outDir)
}

// build rewrites each file and returns the number of failed expressions.
func (b *builder) build(files []string) (int, error) {
	failed := 0
	for _, path := range files {
		n, err := b.buildFile(path)
		if errors.Is(err, os.ErrNotExist) {
			log.Debug("Skipping removed file %s", path)
			continue
		}
		if err != nil {
			return failed, err
		}
		failed += n
	}
	return failed, nil
}

func (b *builder) buildFile(path string) (int, error) {
	lang := parser.LanguageForPath(path)
	if !parser.IsCSSSupportedLanguage(lang) {
		log.Warn("Skipping %s: unsupported file type", path)
		return 0, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	content := string(data)

	result, err := b.project.Transformer.Transform(content, lang)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", path, err)
	}
	for _, d := range result.Diagnostics {
		fmt.Fprintln(b.errOut, formatDiagnostic(b.displayPath(path), content, d))
	}
	log.Debug("Built %s: %d expressions", path, len(result.Expressions))

	switch {
	case b.opts.write:
		if result.Content != content {
			if err := os.WriteFile(path, []byte(result.Content), 0o644); err != nil {
				return 0, err
			}
		}
	case b.opts.outDir != "":
		dest := filepath.Join(b.opts.outDir, b.relPath(path))
		if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
			return 0, err
		}
		if err := os.WriteFile(dest, []byte(result.Content), 0o644); err != nil {
			return 0, err
		}
	default:
		if _, err := io.WriteString(b.out, result.Content); err != nil {
			return 0, err
		}
	}
	return len(result.Diagnostics), nil
}

// relPath places files outside the project root at the top of the output
// directory.
func (b *builder) relPath(path string) string {
	rel := b.project.Rel(path)
	if strings.HasPrefix(rel, "../") || filepath.IsAbs(rel) {
		return filepath.Base(path)
	}
	return filepath.FromSlash(rel)
}

func (b *builder) displayPath(path string) string {
	rel := b.project.Rel(path)
	if strings.HasPrefix(rel, "../") {
		return path
	}
	return rel
}

// formatDiagnostic renders path:line:column: message: expression, with a
// 1-based line and a 1-based column counted in characters.
func formatDiagnostic(path, content string, d transform.Diagnostic) string {
	line, col := lineColumn(content, int(d.Start))
	return fmt.Sprintf("%s:%d:%d: %s: %s", path, line, col, d.Message(), d.Expression)
}

func lineColumn(content string, offset int) (int, int) {
	offset = min(offset, len(content))
	before := content[:offset]
	line := strings.Count(before, "\n") + 1
	lineStart := strings.LastIndexByte(before, '\n') + 1
	return line, utf8.RuneCountInString(before[lineStart:]) + 1
}
