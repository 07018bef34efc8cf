package codegen

import (
	"fmt"
	"strings"
)

// pythonTemplate renders numpy-based Python source. Generated functions
// allocate and return the values vector.
type pythonTemplate struct{}

func (pythonTemplate) Header(modelName string) string {
	return fmt.Sprintf("# Generated code for %s\nimport numpy\n", modelName)
}

func (pythonTemplate) index(fnName, kind string, entries []IndexEntry) string {
	var b strings.Builder
	fmt.Fprintf(&b, "def %s(name: str) -> int:\n", fnName)
	fmt.Fprintf(&b, "    \"\"\"Return the index of the %s with the given name\"\"\"\n", kind)
	parts := make([]string, len(entries))
	for i, e := range entries {
		parts[i] = fmt.Sprintf("\"%s\": %d", e.Name, e.Index)
	}
	fmt.Fprintf(&b, "    data = {%s}\n", strings.Join(parts, ", "))
	b.WriteString("    return data[name]\n")
	return b.String()
}

func (t pythonTemplate) StateIndex(entries []IndexEntry) string {
	return t.index("state_index", "state", entries)
}

func (t pythonTemplate) ParameterIndex(entries []IndexEntry) string {
	return t.index("parameter_index", "parameter", entries)
}

func (t pythonTemplate) MissingIndex(entries []IndexEntry) string {
	return t.index("missing_index", "missing variable", entries)
}

func (pythonTemplate) initValues(fnName string, entries []ValueEntry) string {
	var b strings.Builder
	fmt.Fprintf(&b, "def %s():\n", fnName)
	for _, e := range entries {
		fmt.Fprintf(&b, "    # %s=%s\n", e.Name, floatLiteral(e.Value))
	}
	parts := make([]string, len(entries))
	for i, e := range entries {
		parts[i] = floatLiteral(e.Value)
	}
	fmt.Fprintf(&b, "    return numpy.array([%s])\n", strings.Join(parts, ", "))
	return b.String()
}

func (t pythonTemplate) InitStateValues(entries []ValueEntry, code string) string {
	return t.initValues("init_state_values", entries)
}

func (t pythonTemplate) InitParameterValues(entries []ValueEntry, code string) string {
	return t.initValues("init_parameter_values", entries)
}

func (pythonTemplate) MethodArgs(order ArgOrder, missing bool, extra ...string) []string {
	var args []string
	for _, tok := range order.Tokens() {
		switch tok {
		case tokenStates:
			args = append(args, "states")
		case tokenTime:
			args = append(args, "t")
		case tokenParameters:
			args = append(args, "parameters")
		}
	}
	if missing {
		args = append(args, "missing_variables")
	}
	return append(args, extra...)
}

func (pythonTemplate) Method(m Method) string {
	var b strings.Builder
	fmt.Fprintf(&b, "def %s(%s):\n\n", m.Name, strings.Join(m.Args, ", "))
	b.WriteString("    # Assign states\n")
	b.WriteString(indentBlock(m.States, "    "))
	b.WriteString("\n\n    # Assign parameters\n")
	b.WriteString(indentBlock(m.Parameters, "    "))
	if m.Missing != "" {
		b.WriteString("\n\n    # Assign missing variables\n")
		b.WriteString(indentBlock(m.Missing, "    "))
	}
	b.WriteString("\n\n    # Assign expressions\n\n")
	fmt.Fprintf(&b, "    %s = numpy.zeros_like(states)\n", m.ReturnName)
	b.WriteString(indentBlock(m.Body, "    "))
	fmt.Fprintf(&b, "\n\n    return %s\n", m.ReturnName)
	return b.String()
}
