package config

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/kodexa-ai/selector/internal/exit"
)

func TestParse(t *testing.T) {
	tempDir := t.TempDir()
	corpusFile := filepath.Join(tempDir, "corpus.yaml")
	varsFile := filepath.Join(tempDir, "vars.env")

	if err := os.WriteFile(corpusFile, []byte("selectors:\n  - selector: //p\n    valid: true\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(varsFile, []byte("# bindings\nentityName=ORG\n\nlimit = 10\n"), 0644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name     string
		args     []string
		want     *Config
		wantCode int
		wantMsg  string
	}{
		{
			name: "single selector with defaults",
			args: []string{"selector", "//p"},
			want: &Config{
				Selectors: []string{"//p"},
				Format:    FormatText,
				Variables: map[string]string{},
			},
		},
		{
			name: "all output flags",
			args: []string{"selector", "-format", "json", "-tokens", "-no-color", "-query", "$..name", "a", "b"},
			want: &Config{
				Selectors: []string{"a", "b"},
				Format:    FormatJSON,
				Tokens:    true,
				NoColor:   true,
				Query:     "$..name",
				Variables: map[string]string{},
			},
		},
		{
			name: "corpus without selectors",
			args: []string{"selector", "-corpus", corpusFile},
			want: &Config{
				Format:     FormatText,
				CorpusFile: corpusFile,
				Variables:  map[string]string{},
			},
		},
		{
			name: "variables from flags override file",
			args: []string{"selector", "-strict-vars", "-variable-file", varsFile, "-variable", "limit=20", "-variable", "x=", "$x"},
			want: &Config{
				Selectors:       []string{"$x"},
				Format:          FormatText,
				Variables:       map[string]string{"entityName": "ORG", "limit": "20", "x": ""},
				VariableFile:    varsFile,
				StrictVariables: true,
			},
		},
		{
			name:     "help",
			args:     []string{"selector", "-h"},
			wantCode: exit.CodeSuccess,
			wantMsg:  "Usage: selector",
		},
		{
			name:     "no arguments",
			args:     nil,
			wantCode: exit.CodeUsage,
			wantMsg:  ErrNoArguments.Error(),
		},
		{
			name:     "no selectors",
			args:     []string{"selector", "-tokens"},
			wantCode: exit.CodeUsage,
			wantMsg:  ErrNoSelectors.Error(),
		},
		{
			name:     "invalid format",
			args:     []string{"selector", "-format", "xml", "//p"},
			wantCode: exit.CodeUsage,
			wantMsg:  ErrInvalidFormat.Error(),
		},
		{
			name:     "unknown flag",
			args:     []string{"selector", "-verbose", "//p"},
			wantCode: exit.CodeUsage,
			wantMsg:  "failed to parse arguments",
		},
		{
			name:     "malformed variable",
			args:     []string{"selector", "-variable", "novalue", "//p"},
			wantCode: exit.CodeUsage,
			wantMsg:  ErrInvalidVariableFormat.Error(),
		},
		{
			name:     "missing corpus file",
			args:     []string{"selector", "-corpus", filepath.Join(tempDir, "missing.yaml")},
			wantCode: exit.CodeUsage,
			wantMsg:  "corpus file",
		},
		{
			name:     "missing variable file",
			args:     []string{"selector", "-variable-file", filepath.Join(tempDir, "missing.env"), "//p"},
			wantCode: exit.CodeUsage,
			wantMsg:  "failed to load variable file",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, result := Parse(tt.args)
			if tt.want != nil {
				if result != nil {
					t.Fatalf("Parse() unexpected result: %q", result.Message)
				}
				if !reflect.DeepEqual(got, tt.want) {
					t.Errorf("Parse() = %+v, want %+v", got, tt.want)
				}
				return
			}

			if result == nil {
				t.Fatalf("Parse() = %+v, want exit result", got)
			}
			if result.ExitCode != tt.wantCode {
				t.Errorf("Parse() exit code = %d, want %d", result.ExitCode, tt.wantCode)
			}
			if !strings.Contains(result.Message, tt.wantMsg) {
				t.Errorf("Parse() message = %q, want substring %q", result.Message, tt.wantMsg)
			}
		})
	}
}

func TestVariablesFlag(t *testing.T) {
	t.Parallel()

	v := make(variablesFlag)
	for _, arg := range []string{"b=2", "a=1=one", " c =3"} {
		if err := v.Set(arg); err != nil {
			t.Fatalf("Set(%q) error = %v", arg, err)
		}
	}

	if got, want := v.String(), "a=1=one,b=2,c=3"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}

	if err := v.Set("=x"); !errors.Is(err, ErrEmptyVariableName) {
		t.Errorf("Set(\"=x\") error = %v, want %v", err, ErrEmptyVariableName)
	}
}

func TestLoadVariableFile(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		want    map[string]string
		wantErr string
	}{
		{
			name:    "comments and blank lines",
			content: "# header\n\ntag = ORG\nregex=H.*W\n",
			want:    map[string]string{"tag": "ORG", "regex": "H.*W"},
		},
		{
			name:    "missing separator",
			content: "tag=ORG\nbroken\n",
			wantErr: "invalid format at line 2",
		},
		{
			name:    "empty key",
			content: " = value\n",
			wantErr: "empty key at line 1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			path := filepath.Join(t.TempDir(), "vars.env")
			if err := os.WriteFile(path, []byte(tt.content), 0644); err != nil {
				t.Fatal(err)
			}

			got, err := loadVariableFile(path)
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("loadVariableFile() error = %v, want %q", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("loadVariableFile() error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("loadVariableFile() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsBound(t *testing.T) {
	t.Parallel()

	cfg := &Config{Variables: map[string]string{"empty": ""}}
	if !cfg.IsBound("empty") {
		t.Error("IsBound(empty) = false, want true")
	}
	if cfg.IsBound("other") {
		t.Error("IsBound(other) = true, want false")
	}
}
