package codegen

import (
	"fmt"
	"strings"
)

// goTemplate renders Go source. Vectors are float64 slices; generated
// functions write into a caller-provided values slice. The header defines
// the when helper used for conditional Rush-Larsen factors.
type goTemplate struct{}

func (goTemplate) Header(modelName string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "// Code generated for %s. DO NOT EDIT.\npackage %s\n\nimport \"math\"\n\n", modelName, goPackageName(modelName))
	b.WriteString("func when(cond bool, a, b float64) float64 {\n")
	b.WriteString("\tif cond {\n\t\treturn a\n\t}\n\treturn b\n}\n")
	return b.String()
}

func goPackageName(modelName string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(modelName) {
		if r >= 'a' && r <= 'z' || r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 || b.String()[0] >= '0' && b.String()[0] <= '9' {
		return "model"
	}
	return b.String()
}

func (goTemplate) index(fnName string, entries []IndexEntry) string {
	var b strings.Builder
	fmt.Fprintf(&b, "func %s(name string) (int, bool) {\n\tswitch name {\n", fnName)
	for _, e := range entries {
		fmt.Fprintf(&b, "\tcase %q:\n\t\treturn %d, true\n", e.Name, e.Index)
	}
	b.WriteString("\t}\n\treturn 0, false\n}\n")
	return b.String()
}

func (t goTemplate) StateIndex(entries []IndexEntry) string {
	return t.index("StateIndex", entries)
}

func (t goTemplate) ParameterIndex(entries []IndexEntry) string {
	return t.index("ParameterIndex", entries)
}

func (t goTemplate) MissingIndex(entries []IndexEntry) string {
	return t.index("MissingIndex", entries)
}

func (goTemplate) initValues(fnName, argName string, entries []ValueEntry, code string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "func %s(%s []float64) {\n", fnName, argName)
	for _, e := range entries {
		fmt.Fprintf(&b, "\t// %s=%s\n", e.Name, floatLiteral(e.Value))
	}
	b.WriteString(indentBlock(code, "\t"))
	b.WriteString("\n}\n")
	return b.String()
}

func (t goTemplate) InitStateValues(entries []ValueEntry, code string) string {
	return t.initValues("InitStateValues", "states", entries, code)
}

func (t goTemplate) InitParameterValues(entries []ValueEntry, code string) string {
	return t.initValues("InitParameterValues", "parameters", entries, code)
}

func (goTemplate) MethodArgs(order ArgOrder, missing bool, extra ...string) []string {
	var args []string
	for _, tok := range order.Tokens() {
		switch tok {
		case tokenStates:
			args = append(args, "states []float64")
		case tokenTime:
			args = append(args, "t float64")
		case tokenParameters:
			args = append(args, "parameters []float64")
		}
	}
	if missing {
		args = append(args, "missing_variables []float64")
	}
	for _, name := range extra {
		args = append(args, name+" float64")
	}
	return append(args, "values []float64")
}

func (goTemplate) Method(m Method) string {
	var b strings.Builder
	fmt.Fprintf(&b, "func %s(%s) {\n", goMethodName(m.Name), strings.Join(m.Args, ", "))
	b.WriteString("\t// Assign states\n")
	b.WriteString(indentBlock(m.States, "\t"))
	b.WriteString("\n\n\t// Assign parameters\n")
	b.WriteString(indentBlock(m.Parameters, "\t"))
	if m.Missing != "" {
		b.WriteString("\n\n\t// Assign missing variables\n")
		b.WriteString(indentBlock(m.Missing, "\t"))
	}
	b.WriteString("\n\n\t// Assign expressions\n")
	b.WriteString(indentBlock(m.Body, "\t"))
	b.WriteString("\n}\n")
	return b.String()
}

// goMethodName exports snake_case method names as CamelCase.
func goMethodName(name string) string {
	parts := strings.Split(name, "_")
	var b strings.Builder
	for _, p := range parts {
		if p == "" {
			continue
		}
		b.WriteString(strings.ToUpper(p[:1]))
		b.WriteString(p[1:])
	}
	return b.String()
}
