package script

import "strings"

// Assemble builds the final script body: the props-destructuring preamble,
// the resolved content substitutions (ordered as ContentRequests), then the
// retained statements re-serialized in source order.
//
// An effectively empty module still assembles to the bare preamble so the
// emitted script stays valid standalone module code.
func (m *Module) Assemble(substitutions []string) string {
	var b strings.Builder
	empty := len(substitutions) == 0 && len(m.Retained) == 0
	if len(m.Props) > 0 || empty {
		b.WriteString(m.propsPreamble())
	}
	for _, code := range substitutions {
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		b.WriteString(code)
	}
	for _, raw := range m.Retained {
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		b.WriteString(raw)
	}
	return b.String()
}

func (m *Module) propsPreamble() string {
	if len(m.Props) == 0 {
		return "let {} = props;"
	}
	var b strings.Builder
	b.WriteString("let { ")
	for i, p := range m.Props {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(p.Name)
		if p.Default != "" {
			b.WriteString(" = " + p.Default)
		}
	}
	b.WriteString(" } = props;")
	return b.String()
}

// Assemble re-emits the collection-builder function with its content-fetch
// statements replaced by the resolved substitutions (ordered as Requests)
// and the substitutions' import statements prefixed. The function stays
// exported either way.
func (c *Collection) Assemble(imports []string, substitutions []string) string {
	src := c.Source
	// splice back to front so earlier offsets stay valid
	for i := len(c.Requests) - 1; i >= 0; i-- {
		r := c.Requests[i]
		src = src[:r.start-c.offset] + substitutions[i] + src[r.end-c.offset:]
	}
	var b strings.Builder
	for _, imp := range imports {
		b.WriteString(imp)
		b.WriteString("\n")
	}
	if !c.Exported {
		b.WriteString("export ")
	}
	b.WriteString(src)
	return b.String()
}
