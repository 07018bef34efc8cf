package codegen

// IndexEntry maps an atom name to its position in a generated vector.
type IndexEntry struct {
	Name  string
	Index int
}

// ValueEntry pairs an atom name with its numeric default.
type ValueEntry struct {
	Name  string
	Value float64
}

// Method is the structured content of one generated function, computed by
// the generator and rendered by a target template. Blocks are newline
// separated statement lists without indentation; the template owns layout.
type Method struct {
	Name       string
	Args       []string
	States     string
	Parameters string
	Missing    string
	Body       string
	ReturnName string
}

// Template renders structured content into one target language's source
// text. Swapping the template changes surface syntax only; which equations
// are emitted, and in what order, is decided upstream.
type Template interface {
	// Header emits the preamble of a generated module (includes, imports,
	// helpers) for the named model.
	Header(modelName string) string
	StateIndex(entries []IndexEntry) string
	ParameterIndex(entries []IndexEntry) string
	MissingIndex(entries []IndexEntry) string
	InitStateValues(entries []ValueEntry, code string) string
	InitParameterValues(entries []ValueEntry, code string) string
	Method(m Method) string
	// MethodArgs renders the argument declarations for the given calling
	// order, appending declarations for extra scalar arguments such as
	// "dt". The missing flag adds the coupling-variable vector used by
	// sub-models.
	MethodArgs(order ArgOrder, missing bool, extra ...string) []string
}

func indentBlock(block, prefix string) string {
	if block == "" {
		return ""
	}
	out := ""
	for i, line := range splitLines(block) {
		if i > 0 {
			out += "\n"
		}
		if line == "" {
			out += line
		} else {
			out += prefix + line
		}
	}
	return out
}

func splitLines(s string) []string {
	var lines []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			lines = append(lines, s[start:i])
			start = i + 1
		}
	}
	return append(lines, s[start:])
}
