package token

var keywords = map[string]Kind{
	"or":        OR,
	"and":       AND,
	"intersect": INTERSECT,
	"stream":    PIPELINE,
	"true":      TRUE,
	"false":     FALSE,
}

var nodeTypes = map[string]bool{
	"comment":                true,
	"text":                   true,
	"processing-instruction": true,
	"node":                   true,
}

var axisNames = map[string]bool{
	"ancestor":           true,
	"ancestor-or-self":   true,
	"attribute":          true,
	"child":              true,
	"descendant":         true,
	"descendant-or-self": true,
	"following":          true,
	"following-sibling":  true,
	"namespace":          true,
	"parent":             true,
	"preceding":          true,
	"preceding-sibling":  true,
	"self":               true,
}

// Keyword reports the keyword kind for ident, if it is one.
func Keyword(ident string) (Kind, bool) {
	k, ok := keywords[ident]
	return k, ok
}

// IsNodeType reports whether name is one of the node-type test names
// (comment, text, processing-instruction, node).
func IsNodeType(name string) bool {
	return nodeTypes[name]
}

// IsAxisName reports whether name is a named axis.
func IsAxisName(name string) bool {
	return axisNames[name]
}

// StartsStep reports whether a token of kind k can begin a location step.
func StartsStep(k Kind) bool {
	switch k {
	case NAME, STAR, AXIS_NAME, ATTR_AXIS, SELF, PARENT, NODE_TYPE:
		return true
	}
	return false
}
