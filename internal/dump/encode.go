package dump

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/goccy/go-yaml"
	"github.com/theory/jsonpath"
)

var (
	// ErrEncode indicates a dump could not be rendered.
	ErrEncode = errors.New("dump: encode failed")

	// ErrQuery indicates an invalid JSONPath query.
	ErrQuery = errors.New("dump: invalid query")
)

// YAML renders a dump as YAML.
func YAML(v any) ([]byte, error) {
	payload, err := yaml.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("%w: yaml: %v", ErrEncode, err)
	}
	return payload, nil
}

// JSON renders a dump as indented JSON followed by a newline.
func JSON(v any) ([]byte, error) {
	payload, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("%w: json: %v", ErrEncode, err)
	}
	return append(payload, '\n'), nil
}

// Query selects the values of a dump matching a JSONPath expression, for
// example "$..[?@.kind=='function_call'].name".
func Query(tree map[string]any, expr string) ([]any, error) {
	if expr == "" {
		return nil, fmt.Errorf("%w: query is empty", ErrQuery)
	}

	path, err := jsonpath.Parse(expr)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrQuery, expr, err)
	}

	return path.Select(tree), nil
}
