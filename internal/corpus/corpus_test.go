package corpus

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
)

const sample = `selectors:
  - name: tagged paragraphs
    selector: '//p[hasTag("ORG")]'
    valid: true
  - name: regex predicate
    selector: '//*[typeRegex("te.*") and contentRegex("H.*W")]'
    valid: true
  - name: unclosed predicate
    selector: 'a[1'
    valid: false
  - selector: 'a/[1]'
    valid: true
  - selector: '(//p)[0]'
    valid: false
`

func TestLoad(t *testing.T) {
	t.Parallel()

	f, err := Load(strings.NewReader(sample))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(f.Selectors) != 5 {
		t.Fatalf("Load() got %d selectors, want 5", len(f.Selectors))
	}

	first := f.Selectors[0]
	if first.Name != "tagged paragraphs" || first.Selector != `//p[hasTag("ORG")]` || !first.Valid {
		t.Errorf("Load() first entry = %+v", first)
	}
}

func TestLoadErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
	}{
		{"empty document", ""},
		{"no selectors", "selectors: []\n"},
		{"malformed yaml", "selectors: [\n"},
		{"wrong shape", "selectors: 42\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if _, err := Load(strings.NewReader(tt.input)); !errors.Is(err, ErrInvalidCorpus) {
				t.Errorf("Load() error = %v, want %v", err, ErrInvalidCorpus)
			}
		})
	}
}

func TestLoadFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "corpus.yaml")
	if err := os.WriteFile(path, []byte(sample), 0644); err != nil {
		t.Fatal(err)
	}

	f, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}
	if len(f.Selectors) != 5 {
		t.Errorf("LoadFile() got %d selectors, want 5", len(f.Selectors))
	}

	if _, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("LoadFile() on a missing file succeeded")
	}
}

func TestCheck(t *testing.T) {
	t.Parallel()

	f, err := Load(strings.NewReader(sample))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	report := Check(f)
	if _, err := uuid.Parse(report.RunID); err != nil {
		t.Errorf("RunID %q is not a UUID: %v", report.RunID, err)
	}
	if report.Total != 5 || report.Passed != 3 || report.Failed != 2 {
		t.Errorf("Check() totals = %d/%d/%d, want 5/3/2", report.Total, report.Passed, report.Failed)
	}
	if report.OK() {
		t.Error("OK() = true with failures")
	}

	want := []struct {
		valid     bool
		passed    bool
		canonical string
		errSubstr string
	}{
		{true, true, `//p[hasTag("ORG")]`, ""},
		{true, true, `//*[typeRegex("te.*") and contentRegex("H.*W")]`, ""},
		{false, true, "", "expected ']'"},
		{false, false, "", "expected node test"},
		{true, false, "(//p)[0]", ""},
	}
	for i, w := range want {
		got := report.Results[i]
		if got.Selector != f.Selectors[i].Selector {
			t.Errorf("result %d is for %q, want %q", i, got.Selector, f.Selectors[i].Selector)
		}
		if got.Valid != w.valid || got.Passed != w.passed || got.Canonical != w.canonical {
			t.Errorf("result %d = %+v", i, got)
		}
		if w.errSubstr != "" && !strings.Contains(got.Error, w.errSubstr) {
			t.Errorf("result %d error = %q, want substring %q", i, got.Error, w.errSubstr)
		}
		if w.errSubstr == "" && got.Error != "" {
			t.Errorf("result %d unexpected error %q", i, got.Error)
		}
	}
}

func TestCheckKeepsOrder(t *testing.T) {
	t.Parallel()

	f := &File{}
	for i := range 200 {
		f.Selectors = append(f.Selectors, Entry{
			Selector: fmt.Sprintf("//p[%d]", i),
			Valid:    true,
		})
	}

	report := Check(f)
	if !report.OK() {
		t.Fatalf("Check() failed %d entries", report.Failed)
	}
	for i, result := range report.Results {
		if want := fmt.Sprintf("//p[%d]", i); result.Canonical != want {
			t.Fatalf("result %d canonical = %q, want %q", i, result.Canonical, want)
		}
	}

	if again := Check(f); again.RunID == report.RunID {
		t.Error("two runs share a RunID")
	}
}

func TestReportYAML(t *testing.T) {
	t.Parallel()

	report := Check(&File{Selectors: []Entry{{Name: "root", Selector: "/", Valid: true}}})
	payload, err := report.YAML()
	if err != nil {
		t.Fatalf("YAML() error = %v", err)
	}

	for _, want := range []string{"run_id:", "total: 1", "passed: 1", "failed: 0", "name: root", "expected_valid: true"} {
		if !strings.Contains(string(payload), want) {
			t.Errorf("YAML() missing %q in:\n%s", want, payload)
		}
	}
}
