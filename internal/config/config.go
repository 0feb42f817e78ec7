package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"maps"
	"os"
	"slices"
	"strings"

	"github.com/kodexa-ai/selector/internal/exit"
)

// Format selects how parsed selectors are printed.
type Format string

const (
	// FormatText prints the canonical selector with its functions and variables.
	FormatText Format = "text"
	// FormatTree prints an indented outline of the AST.
	FormatTree Format = "tree"
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

var formats = []Format{FormatText, FormatTree, FormatYAML, FormatJSON}

var (
	ErrNoArguments           = errors.New("no arguments provided")
	ErrNoSelectors           = errors.New("no selectors specified")
	ErrInvalidFormat         = errors.New("invalid output format")
	ErrInvalidVariableFormat = errors.New("variable must be in format name=value")
	ErrEmptyVariableName     = errors.New("variable name cannot be empty")
)

// Config represents the complete configuration for the selector tool.
type Config struct {
	Selectors []string
	Format    Format
	Tokens    bool   // print the token stream before the result
	Query     string // JSONPath applied to the AST dump
	NoColor   bool

	// Batch check
	CorpusFile string

	// Variable bindings checked against $references
	Variables       map[string]string
	VariableFile    string
	StrictVariables bool
}

// Validate validates the configuration and returns an error if invalid.
func (c *Config) Validate() error {
	if len(c.Selectors) == 0 && c.CorpusFile == "" {
		return ErrNoSelectors
	}

	if !slices.Contains(formats, c.Format) {
		return fmt.Errorf("%w: %q (want one of text, tree, yaml, json)", ErrInvalidFormat, c.Format)
	}

	if c.CorpusFile != "" {
		if _, err := os.Stat(c.CorpusFile); err != nil {
			return fmt.Errorf("corpus file %s not found: %w", c.CorpusFile, err)
		}
	}

	return nil
}

// IsBound reports whether a variable name has a binding.
func (c *Config) IsBound(name string) bool {
	_, ok := c.Variables[name]
	return ok
}

// variablesFlag implements flag.Value for parsing multiple -variable flags.
type variablesFlag map[string]string

func (v variablesFlag) String() string {
	pairs := make([]string, 0, len(v))
	for _, k := range slices.Sorted(maps.Keys(v)) {
		pairs = append(pairs, fmt.Sprintf("%s=%s", k, v[k]))
	}
	return strings.Join(pairs, ",")
}

func (v variablesFlag) Set(value string) error {
	name, val, ok := strings.Cut(value, "=")
	if !ok {
		return fmt.Errorf("%w, got: %s", ErrInvalidVariableFormat, value)
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyVariableName
	}

	v[name] = val
	return nil
}

// Parse parses command-line arguments and returns a validated Config.
// If parsing fails or help is requested, returns nil config and exit result.
func Parse(args []string) (*Config, *exit.Result) {
	if len(args) == 0 {
		return nil, exit.Usagef("Error: %v\n\n%s", ErrNoArguments, Usage())
	}

	fs := flag.NewFlagSet(args[0], flag.ContinueOnError)

	// Usage and errors are reported through exit.Result instead.
	fs.Usage = func() {}
	fs.SetOutput(io.Discard)

	var (
		format       = fs.String("format", string(FormatText), "Output format: text, tree, yaml or json")
		tokens       = fs.Bool("tokens", false, "Print the token stream of each selector")
		query        = fs.String("query", "", "JSONPath applied to the AST dump of each selector")
		noColor      = fs.Bool("no-color", false, "Disable coloured diagnostics")
		corpusFile   = fs.String("corpus", "", "YAML file of selectors with expected validity")
		variables    = make(variablesFlag)
		variableFile = fs.String("variable-file", "", "Path to key=value file containing variable bindings")
		strictVars   = fs.Bool("strict-vars", false, "Reject selectors that reference unbound variables")
	)

	fs.Var(variables, "variable", "Variable in format name=value (can be used multiple times)")

	if err := fs.Parse(args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, exit.Success(Usage())
		}
		return nil, exit.Usagef("Error: failed to parse arguments: %v\n\n%s", err, Usage())
	}

	// Command-line variables take precedence over file variables.
	finalVariables := make(map[string]string)
	if *variableFile != "" {
		fileVariables, err := loadVariableFile(*variableFile)
		if err != nil {
			return nil, exit.Usagef("Error: failed to load variable file: %v\n\n%s", err, Usage())
		}
		maps.Copy(finalVariables, fileVariables)
	}
	maps.Copy(finalVariables, variables)

	var selectors []string
	if fs.NArg() > 0 {
		selectors = fs.Args()
	}

	config := &Config{
		Selectors:       selectors,
		Format:          Format(*format),
		Tokens:          *tokens,
		Query:           *query,
		NoColor:         *noColor,
		CorpusFile:      *corpusFile,
		Variables:       finalVariables,
		VariableFile:    *variableFile,
		StrictVariables: *strictVars,
	}

	if err := config.Validate(); err != nil {
		return nil, exit.Usagef("Error: %v\n\n%s", err, Usage())
	}

	return config, nil
}

// loadVariableFile loads variables from a key=value format file.
// It supports comments (lines starting with #) and empty lines.
func loadVariableFile(filename string) (map[string]string, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}

	variables := make(map[string]string)
	for lineNum, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			return nil, fmt.Errorf("invalid format at line %d: %s (expected key=value)", lineNum+1, line)
		}

		key = strings.TrimSpace(key)
		if key == "" {
			return nil, fmt.Errorf("empty key at line %d: %s", lineNum+1, line)
		}

		variables[key] = strings.TrimSpace(value)
	}

	return variables, nil
}

// Usage returns a usage string for the CLI tool.
func Usage() string {
	return `selector - parse and inspect Kodexa selector expressions

Usage: selector [options] <selector> [selector] ...
       selector -corpus FILE

Options:
  -format FORMAT          Output format: text, tree, yaml, json (default: text)
  -tokens                 Print the token stream of each selector
  -query JSONPATH         Apply a JSONPath to the AST dump (yaml or json output)
  -corpus FILE            Check a YAML corpus of selectors and print a report
  -variable NAME=VALUE    Variable binding (can be used multiple times)
  -variable-file FILE     Path to key=value file containing variable bindings
  -strict-vars            Reject selectors referencing unbound variables
  -no-color               Disable coloured diagnostics
  -h, -help               Show this help message

Examples:
  selector '//p[hasTag("ORG")]'                          # Print canonical form
  selector -format yaml '(//p)[1]/span'                  # Dump the AST as YAML
  selector -query '$..[?@.kind=="function_call"].name' \
           '//*[typeRegex("te.*") and contentRegex("H.*W")]'
  selector -strict-vars -variable entityName=ORG '//*[hasTag($entityName)]'
  selector -corpus selectors.yaml                        # Batch check`
}
