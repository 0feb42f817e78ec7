package dump

import (
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/kodexa-ai/selector/ast"
)

// Outline renders n as an indented tree, one node per line. Scalar fields
// follow the node kind; child nodes are nested under their field name.
//
//	binary op="and"
//	  lhs: relative_path
//	    steps[0]: step
//	      test: name_test match="qualified" name="a"
func Outline(n ast.Node) string {
	var b strings.Builder
	writeOutline(&b, "", Tree(n), 0)
	return b.String()
}

func writeOutline(b *strings.Builder, label string, m map[string]any, depth int) {
	b.WriteString(strings.Repeat("  ", depth))
	b.WriteString(label)
	fmt.Fprint(b, m["kind"])

	keys := slices.Sorted(maps.Keys(m))
	for _, k := range keys {
		switch v := m[k].(type) {
		case string:
			if k != "kind" {
				fmt.Fprintf(b, " %s=%s", k, strconv.Quote(v))
			}
		case bool:
			fmt.Fprintf(b, " %s=%t", k, v)
		}
	}
	b.WriteByte('\n')

	for _, k := range keys {
		switch v := m[k].(type) {
		case map[string]any:
			writeOutline(b, k+": ", v, depth+1)
		case []any:
			for i, item := range v {
				writeOutline(b, fmt.Sprintf("%s[%d]: ", k, i), item.(map[string]any), depth+1)
			}
		}
	}
}
