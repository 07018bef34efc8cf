package codegen

import (
	"fmt"
	"strings"
)

// cTemplate renders C source. Vectors are raw double pointers; generated
// functions write results into a caller-provided values array.
type cTemplate struct{}

func (cTemplate) Header(modelName string) string {
	return fmt.Sprintf("// Generated code for %s\n#include <math.h>\n#include <string.h>\n", modelName)
}

func (cTemplate) index(fnName string, entries []IndexEntry) string {
	var b strings.Builder
	fmt.Fprintf(&b, "int %s(const char* name){\n", fnName)
	for _, e := range entries {
		fmt.Fprintf(&b, "    if (strcmp(name, \"%s\") == 0) return %d;\n", e.Name, e.Index)
	}
	b.WriteString("    return -1;\n}\n")
	return b.String()
}

func (t cTemplate) StateIndex(entries []IndexEntry) string {
	return t.index("state_index", entries)
}

func (t cTemplate) ParameterIndex(entries []IndexEntry) string {
	return t.index("parameter_index", entries)
}

func (t cTemplate) MissingIndex(entries []IndexEntry) string {
	return t.index("missing_index", entries)
}

func (cTemplate) initValues(fnName, argName string, entries []ValueEntry, code string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "void %s(double* %s){\n    /*\n", fnName, argName)
	for _, e := range entries {
		fmt.Fprintf(&b, "    %s=%s\n", e.Name, floatLiteral(e.Value))
	}
	b.WriteString("    */\n")
	b.WriteString(indentBlock(code, "    "))
	b.WriteString("\n}\n")
	return b.String()
}

func (t cTemplate) InitStateValues(entries []ValueEntry, code string) string {
	return t.initValues("init_state_values", "states", entries, code)
}

func (t cTemplate) InitParameterValues(entries []ValueEntry, code string) string {
	return t.initValues("init_parameter_values", "parameters", entries, code)
}

func (cTemplate) MethodArgs(order ArgOrder, missing bool, extra ...string) []string {
	var args []string
	for _, tok := range order.Tokens() {
		switch tok {
		case tokenStates:
			args = append(args, "const double* states")
		case tokenTime:
			args = append(args, "const double t")
		case tokenParameters:
			args = append(args, "const double* parameters")
		}
	}
	if missing {
		args = append(args, "const double* missing_variables")
	}
	for _, name := range extra {
		args = append(args, "const double "+name)
	}
	return append(args, "double* values")
}

func (cTemplate) Method(m Method) string {
	var b strings.Builder
	fmt.Fprintf(&b, "void %s(%s){\n\n", m.Name, strings.Join(m.Args, ", "))
	b.WriteString("    // Assign states\n")
	b.WriteString(indentBlock(m.States, "    "))
	b.WriteString("\n\n    // Assign parameters\n")
	b.WriteString(indentBlock(m.Parameters, "    "))
	if m.Missing != "" {
		b.WriteString("\n\n    // Assign missing variables\n")
		b.WriteString(indentBlock(m.Missing, "    "))
	}
	b.WriteString("\n\n    // Assign expressions\n")
	b.WriteString(indentBlock(m.Body, "    "))
	b.WriteString("\n}\n")
	return b.String()
}
