// Package execute runs the selector command for a parsed configuration.
package execute

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/fatih/color"

	"github.com/kodexa-ai/selector/ast"
	"github.com/kodexa-ai/selector/internal/config"
	"github.com/kodexa-ai/selector/internal/corpus"
	"github.com/kodexa-ai/selector/internal/diag"
	"github.com/kodexa-ai/selector/internal/dump"
	"github.com/kodexa-ai/selector/internal/exit"
	"github.com/kodexa-ai/selector/lexer"
	"github.com/kodexa-ai/selector/parser"
	"github.com/kodexa-ai/selector/token"
)

// ErrUnboundVariable is returned in strict mode for a $reference without a
// binding.
var ErrUnboundVariable = errors.New("unbound variable")

type Runner struct {
	config    *config.Config
	output    io.Writer
	errOutput io.Writer
}

func New(cfg *config.Config) (*Runner, *exit.Result) {
	if cfg == nil {
		return nil, exit.Usagef("Error creating runner: missing configuration\n")
	}

	if cfg.NoColor {
		color.NoColor = true
	}

	return &Runner{
		config:    cfg,
		output:    os.Stdout,
		errOutput: os.Stderr,
	}, nil
}

func (r *Runner) SetOutput(w io.Writer) {
	r.output = w
}

func (r *Runner) SetErrorOutput(w io.Writer) {
	r.errOutput = w
}

func (r *Runner) payloadWriter() io.Writer {
	if r.output == nil {
		return io.Discard
	}
	return r.output
}

func (r *Runner) errorWriter() io.Writer {
	if r.errOutput == nil {
		return io.Discard
	}
	return r.errOutput
}

func (r *Runner) logf(format string, args ...any) {
	_, _ = fmt.Fprintf(r.errorWriter(), format, args...)
}

// fail prints a failure result to the error output and returns its code.
func (r *Runner) fail(result *exit.Result) int {
	result.Output = r.errorWriter()
	result.Print()
	return result.ExitCode
}

// Run processes the configured selectors, or the corpus file when one is
// set, and returns the process exit code.
func (r *Runner) Run(ctx context.Context) int {
	if r.config.CorpusFile != "" {
		return r.runCorpus(ctx)
	}
	return r.runSelectors(ctx)
}

func (r *Runner) runSelectors(ctx context.Context) int {
	total := len(r.config.Selectors)
	for i, src := range r.config.Selectors {
		select {
		case <-ctx.Done():
			return r.fail(exit.Errorf("\nInterrupted after %d of %d selectors\n", i, total))
		default:
		}

		if i > 0 && r.config.Format == config.FormatYAML {
			_, _ = fmt.Fprint(r.payloadWriter(), "---\n")
		}

		if err := r.runSelector(src); err != nil {
			var b strings.Builder
			if rerr := diag.Render(&b, src, err); rerr != nil {
				return r.fail(exit.Errorf("Error writing diagnostic: %v\n", rerr))
			}
			return r.fail(exit.Error(b.String()))
		}
	}
	return exit.CodeSuccess
}

func (r *Runner) runSelector(src string) error {
	tokens, err := lexer.Tokenize(src)
	if err != nil {
		return err
	}

	if r.config.Tokens {
		if _, err := io.WriteString(r.payloadWriter(), formatTokens(tokens)); err != nil {
			return err
		}
	}

	expr, err := parser.Parse(tokens)
	if err != nil {
		return err
	}

	if r.config.StrictVariables {
		for _, name := range ast.Variables(expr) {
			if !r.config.IsBound(name) {
				return fmt.Errorf("%w: $%s", ErrUnboundVariable, name)
			}
		}
	}

	payload, err := r.render(expr, r.config.Variables)
	if err != nil {
		return err
	}
	_, err = r.payloadWriter().Write(payload)
	return err
}

func (r *Runner) render(expr ast.Expr, bindings map[string]string) ([]byte, error) {
	if r.config.Query != "" {
		matches, err := dump.Query(dump.Tree(expr), r.config.Query)
		if err != nil {
			return nil, err
		}
		if r.config.Format == config.FormatJSON {
			return dump.JSON(matches)
		}
		return dump.YAML(matches)
	}

	switch r.config.Format {
	case config.FormatTree:
		return []byte(dump.Outline(expr)), nil
	case config.FormatYAML:
		return dump.YAML(dump.Tree(expr))
	case config.FormatJSON:
		return dump.JSON(dump.Tree(expr))
	default:
		return []byte(formatText(expr, bindings)), nil
	}
}

// formatText prints the canonical selector followed by the functions and
// variables it references, when there are any. Bound variables show their
// value.
func formatText(expr ast.Expr, bindings map[string]string) string {
	var b strings.Builder
	b.WriteString(ast.Format(expr))
	b.WriteByte('\n')
	if functions := ast.Functions(expr); len(functions) > 0 {
		fmt.Fprintf(&b, "  functions: %s\n", strings.Join(functions, ", "))
	}
	if variables := ast.Variables(expr); len(variables) > 0 {
		for i, name := range variables {
			if value, ok := bindings[name]; ok {
				variables[i] = name + "=" + strconv.Quote(value)
			}
		}
		fmt.Fprintf(&b, "  variables: %s\n", strings.Join(variables, ", "))
	}
	return b.String()
}

func formatTokens(tokens []token.Token) string {
	var b strings.Builder
	for _, tok := range tokens {
		fmt.Fprintf(&b, "%4d  %-22s %s\n", tok.Offset, tok.Kind, strconv.Quote(tok.Lexeme))
	}
	return b.String()
}

func (r *Runner) runCorpus(ctx context.Context) int {
	f, err := corpus.LoadFile(r.config.CorpusFile)
	if err != nil {
		return r.fail(exit.Errorf("Error: %v\n", err))
	}

	if ctx.Err() != nil {
		return r.fail(exit.Errorf("\nInterrupted before checking %d selectors\n", len(f.Selectors)))
	}

	report := corpus.Check(f)
	for _, result := range report.Results {
		if result.Passed {
			continue
		}
		label := result.Name
		if label == "" {
			label = result.Selector
		}
		r.logf("%s %s\n", diag.Status(false), label)
	}
	r.logf("%s %d passed, %d failed\n", diag.Status(report.OK()), report.Passed, report.Failed)

	payload, err := report.YAML()
	if err != nil {
		return r.fail(exit.Errorf("Error formatting results: %v\n", err))
	}
	if _, err := r.payloadWriter().Write(payload); err != nil {
		return r.fail(exit.Errorf("Error writing results: %v\n", err))
	}

	if !report.OK() {
		return exit.CodeFailure
	}
	return exit.CodeSuccess
}
