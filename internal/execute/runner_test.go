package execute

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"

	"github.com/kodexa-ai/selector/internal/config"
	"github.com/kodexa-ai/selector/internal/exit"
)

func TestMain(m *testing.M) {
	color.NoColor = true
	os.Exit(m.Run())
}

func run(t *testing.T, ctx context.Context, cfg *config.Config) (string, string, int) {
	t.Helper()

	if cfg.Format == "" {
		cfg.Format = config.FormatText
	}

	r, result := New(cfg)
	if result != nil {
		t.Fatalf("New() result = %q", result.Message)
	}

	var stdout, stderr bytes.Buffer
	r.SetOutput(&stdout)
	r.SetErrorOutput(&stderr)

	code := r.Run(ctx)
	return stdout.String(), stderr.String(), code
}

func TestRunText(t *testing.T) {
	t.Parallel()

	stdout, stderr, code := run(t, context.Background(), &config.Config{
		Selectors: []string{`//p[hasTag($tag)]`, "a  or  b"},
	})

	if code != exit.CodeSuccess {
		t.Fatalf("Run() = %d, stderr = %q", code, stderr)
	}
	want := "//p[hasTag($tag)]\n  functions: hasTag\n  variables: tag\na or b\n"
	if stdout != want {
		t.Errorf("stdout = %q, want %q", stdout, want)
	}
}

func TestRunTextShowsBoundValues(t *testing.T) {
	t.Parallel()

	stdout, stderr, code := run(t, context.Background(), &config.Config{
		Selectors: []string{`//*[hasTag($entityName)][@limit < $limit][$other]`},
		Variables: map[string]string{"entityName": "ORG", "limit": ""},
	})

	if code != exit.CodeSuccess {
		t.Fatalf("Run() = %d, stderr = %q", code, stderr)
	}
	want := `  variables: entityName="ORG", limit="", other` + "\n"
	if !strings.HasSuffix(stdout, want) {
		t.Errorf("stdout = %q, want suffix %q", stdout, want)
	}
}

func TestRunStopsAtFirstInvalidSelector(t *testing.T) {
	t.Parallel()

	stdout, stderr, code := run(t, context.Background(), &config.Config{
		Selectors: []string{"a", "a/[1]", "c"},
	})

	if code != exit.CodeFailure {
		t.Fatalf("Run() = %d, want %d", code, exit.CodeFailure)
	}
	if stdout != "a\n" {
		t.Errorf("stdout = %q, want only the first selector", stdout)
	}
	want := "error: expected node test, found LBRACKET \"[\" (line 1, column 3)\n  a/[1]\n    ^\n"
	if stderr != want {
		t.Errorf("stderr = %q, want %q", stderr, want)
	}
}

func TestRunStrictVariables(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		variables map[string]string
		strict    bool
		wantCode  int
		wantErr   string
	}{
		{"unbound in strict mode", map[string]string{"other": "x"}, true, exit.CodeFailure, "error: unbound variable: $entityName\n"},
		{"bound in strict mode", map[string]string{"entityName": "ORG"}, true, exit.CodeSuccess, ""},
		{"unbound without strict mode", nil, false, exit.CodeSuccess, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, stderr, code := run(t, context.Background(), &config.Config{
				Selectors:       []string{"//*[hasTag($entityName)]"},
				Variables:       tt.variables,
				StrictVariables: tt.strict,
			})
			if code != tt.wantCode {
				t.Errorf("Run() = %d, want %d", code, tt.wantCode)
			}
			if stderr != tt.wantErr {
				t.Errorf("stderr = %q, want %q", stderr, tt.wantErr)
			}
		})
	}
}

func TestRunTokens(t *testing.T) {
	t.Parallel()

	stdout, _, code := run(t, context.Background(), &config.Config{
		Selectors: []string{"a>=1"},
		Tokens:    true,
	})

	if code != exit.CodeSuccess {
		t.Fatalf("Run() = %d", code)
	}
	lines := strings.Split(strings.TrimSuffix(stdout, "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("stdout has %d lines, want 3 tokens and the selector:\n%s", len(lines), stdout)
	}
	for i, want := range []string{"NAME", "REL_OP", "INTEGER"} {
		if !strings.Contains(lines[i], want) {
			t.Errorf("line %d = %q, want kind %s", i, lines[i], want)
		}
	}
	if !strings.Contains(lines[1], `">="`) || !strings.HasPrefix(strings.TrimSpace(lines[1]), "1") {
		t.Errorf("REL_OP line = %q, want offset 1 and lexeme >=", lines[1])
	}
	if lines[3] != "a >= 1" {
		t.Errorf("selector line = %q", lines[3])
	}
}

func TestRunFormats(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		format    config.Format
		selectors []string
		contains  []string
	}{
		{
			name:      "yaml documents",
			format:    config.FormatYAML,
			selectors: []string{"//p", `"x"`},
			contains:  []string{"kind: abbreviated_absolute_path", "---\n", "kind: literal"},
		},
		{
			name:      "tree",
			format:    config.FormatTree,
			selectors: []string{"-1"},
			contains:  []string{"unary_minus\n  operand: number float=false value=\"1\"\n"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			stdout, stderr, code := run(t, context.Background(), &config.Config{
				Selectors: tt.selectors,
				Format:    tt.format,
			})
			if code != exit.CodeSuccess {
				t.Fatalf("Run() = %d, stderr = %q", code, stderr)
			}
			for _, want := range tt.contains {
				if !strings.Contains(stdout, want) {
					t.Errorf("stdout missing %q:\n%s", want, stdout)
				}
			}
		})
	}
}

func TestRunJSON(t *testing.T) {
	t.Parallel()

	stdout, _, code := run(t, context.Background(), &config.Config{
		Selectors: []string{`hasTag("ORG")`},
		Format:    config.FormatJSON,
	})
	if code != exit.CodeSuccess {
		t.Fatalf("Run() = %d", code)
	}

	var tree map[string]any
	if err := json.Unmarshal([]byte(stdout), &tree); err != nil {
		t.Fatalf("stdout is not JSON: %v\n%s", err, stdout)
	}
	if tree["kind"] != "function_call" || tree["name"] != "hasTag" {
		t.Errorf("tree = %v", tree)
	}
}

func TestRunQuery(t *testing.T) {
	t.Parallel()

	stdout, stderr, code := run(t, context.Background(), &config.Config{
		Selectors: []string{`//*[typeRegex("te.*")]`},
		Format:    config.FormatJSON,
		Query:     "$..[?@.kind=='function_call'].name",
	})
	if code != exit.CodeSuccess {
		t.Fatalf("Run() = %d, stderr = %q", code, stderr)
	}

	var names []string
	if err := json.Unmarshal([]byte(stdout), &names); err != nil {
		t.Fatalf("stdout is not a JSON array: %v\n%s", err, stdout)
	}
	if len(names) != 1 || names[0] != "typeRegex" {
		t.Errorf("names = %v, want [typeRegex]", names)
	}

	_, stderr, code = run(t, context.Background(), &config.Config{
		Selectors: []string{"a"},
		Query:     "$[",
	})
	if code != exit.CodeFailure || !strings.Contains(stderr, "invalid query") {
		t.Errorf("invalid query: Run() = %d, stderr = %q", code, stderr)
	}
}

func TestRunCorpus(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	passing := filepath.Join(dir, "passing.yaml")
	failing := filepath.Join(dir, "failing.yaml")
	broken := filepath.Join(dir, "broken.yaml")

	files := map[string]string{
		passing: "selectors:\n  - selector: '//p'\n    valid: true\n  - selector: 'a[1'\n    valid: false\n",
		failing: "selectors:\n  - name: bad step\n    selector: 'a/[1]'\n    valid: true\n",
		broken:  "selectors: [\n",
	}
	for path, content := range files {
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}

	tests := []struct {
		name       string
		file       string
		wantCode   int
		wantStdout string
		wantStderr string
	}{
		{"passing corpus", passing, exit.CodeSuccess, "passed: 2", "PASS 2 passed, 0 failed"},
		{"failing corpus", failing, exit.CodeFailure, "failed: 1", "FAIL bad step"},
		{"broken corpus", broken, exit.CodeFailure, "", "invalid corpus"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			stdout, stderr, code := run(t, context.Background(), &config.Config{CorpusFile: tt.file})
			if code != tt.wantCode {
				t.Errorf("Run() = %d, want %d", code, tt.wantCode)
			}
			if !strings.Contains(stdout, tt.wantStdout) {
				t.Errorf("stdout missing %q:\n%s", tt.wantStdout, stdout)
			}
			if !strings.Contains(stderr, tt.wantStderr) {
				t.Errorf("stderr missing %q:\n%s", tt.wantStderr, stderr)
			}
		})
	}
}

func TestRunInterrupted(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	stdout, stderr, code := run(t, ctx, &config.Config{Selectors: []string{"a", "b"}})
	if code != exit.CodeFailure {
		t.Errorf("Run() = %d, want %d", code, exit.CodeFailure)
	}
	if stdout != "" {
		t.Errorf("stdout = %q, want nothing", stdout)
	}
	if !strings.Contains(stderr, "Interrupted after 0 of 2 selectors") {
		t.Errorf("stderr = %q", stderr)
	}
}

func TestNew(t *testing.T) {
	if _, result := New(nil); result == nil || result.ExitCode != exit.CodeUsage {
		t.Errorf("New(nil) result = %+v, want usage error", result)
	}

	r, result := New(&config.Config{Selectors: []string{"a"}, Format: config.FormatText, NoColor: true})
	if result != nil {
		t.Fatalf("New() result = %q", result.Message)
	}
	if !color.NoColor {
		t.Error("New() with NoColor left colour enabled")
	}

	// Nil writers discard output.
	r.SetOutput(nil)
	r.SetErrorOutput(nil)
	if code := r.Run(context.Background()); code != exit.CodeSuccess {
		t.Errorf("Run() = %d", code)
	}
}
