// Package corpus checks a YAML file of selectors against their expected
// validity.
package corpus

import (
	"errors"
	"fmt"
	"io"
	"os"
	"reflect"
	"runtime"
	"sync"

	"github.com/goccy/go-yaml"
	"github.com/google/uuid"

	"github.com/kodexa-ai/selector/ast"
	"github.com/kodexa-ai/selector/parser"
)

var (
	// ErrInvalidCorpus indicates a corpus file that cannot be decoded.
	ErrInvalidCorpus = errors.New("invalid corpus")

	// ErrRoundTrip indicates a selector whose canonical text parses to a
	// different tree.
	ErrRoundTrip = errors.New("canonical form does not round-trip")
)

// Entry is one selector with its expected validity.
type Entry struct {
	Name     string `yaml:"name,omitempty"`
	Selector string `yaml:"selector"`
	Valid    bool   `yaml:"valid"`
}

// File is the decoded corpus document.
type File struct {
	Selectors []Entry `yaml:"selectors"`
}

// Load decodes a corpus document.
func Load(r io.Reader) (*File, error) {
	var f File
	if err := yaml.NewDecoder(r).Decode(&f); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCorpus, err)
	}
	if len(f.Selectors) == 0 {
		return nil, fmt.Errorf("%w: no selectors", ErrInvalidCorpus)
	}
	return &f, nil
}

// LoadFile decodes the corpus document at path.
func LoadFile(path string) (*File, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open corpus %s: %w", path, err)
	}
	defer file.Close()

	return Load(file)
}

// Result is the outcome for one entry.
type Result struct {
	Name      string `yaml:"name,omitempty"`
	Selector  string `yaml:"selector"`
	Expected  bool   `yaml:"expected_valid"`
	Valid     bool   `yaml:"valid"`
	Passed    bool   `yaml:"passed"`
	Canonical string `yaml:"canonical,omitempty"`
	Error     string `yaml:"error,omitempty"`
}

// Report summarizes a corpus check. RunID distinguishes reports of repeated
// runs over the same corpus.
type Report struct {
	RunID   string   `yaml:"run_id"`
	Total   int      `yaml:"total"`
	Passed  int      `yaml:"passed"`
	Failed  int      `yaml:"failed"`
	Results []Result `yaml:"results"`
}

// OK reports whether every entry passed.
func (r *Report) OK() bool {
	return r.Failed == 0
}

// YAML renders the report.
func (r *Report) YAML() ([]byte, error) {
	payload, err := yaml.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("encode report: %w", err)
	}
	return payload, nil
}

// Check parses every entry. Entries are independent, so they are parsed
// concurrently; results keep the corpus order.
func Check(f *File) *Report {
	results := make([]Result, len(f.Selectors))

	jobs := make(chan int)
	var wg sync.WaitGroup
	for range min(runtime.GOMAXPROCS(0), len(f.Selectors)) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				results[i] = checkEntry(f.Selectors[i])
			}
		}()
	}
	for i := range f.Selectors {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	report := &Report{
		RunID:   uuid.NewString(),
		Total:   len(results),
		Results: results,
	}
	for _, result := range results {
		if result.Passed {
			report.Passed++
		} else {
			report.Failed++
		}
	}
	return report
}

func checkEntry(entry Entry) Result {
	result := Result{
		Name:     entry.Name,
		Selector: entry.Selector,
		Expected: entry.Valid,
	}

	expr, err := parser.ParseString(entry.Selector)
	if err != nil {
		result.Error = err.Error()
		result.Passed = !entry.Valid
		return result
	}

	result.Valid = true
	result.Canonical = ast.Format(expr)
	if err := roundTrip(expr, result.Canonical); err != nil {
		result.Error = err.Error()
		return result
	}

	result.Passed = entry.Valid
	return result
}

func roundTrip(expr ast.Expr, canonical string) error {
	again, err := parser.ParseString(canonical)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRoundTrip, err)
	}
	if !reflect.DeepEqual(expr, again) {
		return fmt.Errorf("%w: %s", ErrRoundTrip, canonical)
	}
	return nil
}
