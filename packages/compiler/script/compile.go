package script

import (
	"fmt"
	"strings"

	"astroc-go/packages/compiler/util"
)

// Reserved identifiers. Declarations named after layout/content markers are
// re-emitted untouched; the collection builder is extracted whole.
const (
	// CollectionBuilderName is the reserved collection-builder function name.
	CollectionBuilderName = "createCollection"
	// ContentNamespace is the global namespace carrying the content-fetch call.
	ContentNamespace = "Astro"
	// ContentFetchMethod is the content-fetch method name on ContentNamespace.
	ContentFetchMethod = "fetchContent"
)

var reservedMarkers = map[string]bool{
	"setup":   true,
	"layout":  true,
	"content": true,
}

// Prop is one component prop collected from a value declaration.
type Prop struct {
	Name    string
	Default string
}

// Import is one import declaration removed from the script body.
type Import struct {
	Raw    string
	Clause *ImportClause
	Span   *util.ParseSourceSpan
}

// ContentRequest is one pending content-collection call removed from a
// statement body.
type ContentRequest struct {
	Binding        string
	Name           string
	Specifier      string
	RedundantAwait bool
	Span           *util.ParseSourceSpan

	start, end int
}

// Collection is the captured collection-builder function, with the content
// requests detected inside its own body.
type Collection struct {
	Source   string
	Exported bool
	Requests []ContentRequest

	offset int
}

// Module is the classified frontmatter script: every top-level statement
// partitioned into its bucket, with raw source slices preserved for
// re-serialization.
type Module struct {
	File    *util.ParseSourceFile
	Props   []Prop
	Imports []Import
	// Externals carries the raw import and re-export statements in source
	// order, so the emitted import list preserves first discovery.
	Externals       []string
	ContentRequests []ContentRequest
	Collection      *Collection
	Retained        []string
	Warnings        []*util.ParseError
}

// Parse tokenizes and classifies the embedded script. Content may be empty.
func Parse(content, filename string) (*Module, error) {
	file := util.NewParseSourceFile(content, filename)
	mod := &Module{File: file}
	if strings.TrimSpace(content) == "" {
		return mod, nil
	}
	tokens, err := tokenize(file)
	if err != nil {
		return nil, err
	}
	stmts, err := splitStatements(file, tokens)
	if err != nil {
		return nil, err
	}
	for i := range stmts {
		if err := mod.classify(&stmts[i]); err != nil {
			return nil, err
		}
	}
	return mod, nil
}

func (m *Module) classify(stmt *statement) error {
	t := stmt.tokens
	i := 0
	exported := false
	if t[i].IsIdent("export") {
		exported = true
		i++
		if i >= len(t) {
			m.Retained = append(m.Retained, stmt.raw(m.File))
			return nil
		}
	}

	switch {
	case !exported && t[i].IsIdent("import"):
		clause, err := parseImport(m.File, stmt)
		if err != nil {
			return err
		}
		raw := stmt.raw(m.File)
		m.Imports = append(m.Imports, Import{
			Raw:    raw,
			Clause: clause,
			Span:   stmt.span(m.File),
		})
		m.Externals = append(m.Externals, raw)
		return nil

	case t[i].IsIdent("let") || t[i].IsIdent("const") || t[i].IsIdent("var"):
		return m.classifyDeclaration(stmt, t[i].Value, i+1, exported)

	case t[i].IsIdent("function"), t[i].IsIdent("async") && i+1 < len(t) && t[i+1].IsIdent("function"):
		name := functionName(t[i:])
		if name == CollectionBuilderName {
			return m.captureCollection(stmt, exported)
		}
		m.Retained = append(m.Retained, stmt.raw(m.File))
		return nil

	case exported:
		// export default / export { ... } / export * from '...'
		m.Externals = append(m.Externals, stmt.raw(m.File))
		return nil

	default:
		m.Retained = append(m.Retained, stmt.raw(m.File))
		return nil
	}
}

func functionName(t []Token) string {
	for i, tok := range t {
		if tok.IsIdent("function") && i+1 < len(t) && t[i+1].IsType("Ident") {
			return t[i+1].Value
		}
	}
	return ""
}

// classifyDeclaration walks the declarators of a let/const/var statement and
// partitions them into props, content requests, or the retained bucket.
func (m *Module) classifyDeclaration(stmt *statement, binding string, start int, exported bool) error {
	t := stmt.tokens
	type declarator struct {
		name string
		init []Token
	}
	var decls []declarator

	i := start
	for i < len(t) {
		if !t[i].IsType("Ident") {
			// destructuring or anything else the classifier does not model
			m.Retained = append(m.Retained, stmt.raw(m.File))
			return nil
		}
		d := declarator{name: t[i].Value}
		i++
		// skip a static typing annotation up to '=' or ','
		if i < len(t) && t[i].IsPunct(":") {
			depth := 0
			i++
			for i < len(t) {
				switch {
				case t[i].IsPunct("(") || t[i].IsPunct("[") || t[i].IsPunct("{") || t[i].IsPunct("<"):
					depth++
				case t[i].IsPunct(")") || t[i].IsPunct("]") || t[i].IsPunct("}") || t[i].IsPunct(">"):
					depth--
				}
				if depth == 0 && (t[i].IsPunct("=") || t[i].IsPunct(",")) {
					break
				}
				i++
			}
		}
		if i < len(t) && t[i].IsPunct("=") {
			i++
			initStart := i
			depth := 0
			for i < len(t) {
				if t[i].IsPunct("<") && inExpressionPosition(t[:i], t, i) {
					next, err := scanElementLiteral(m.File, t, i)
					if err != nil {
						return err
					}
					i = next
					continue
				}
				switch {
				case t[i].IsPunct("(") || t[i].IsPunct("[") || t[i].IsPunct("{"):
					depth++
				case t[i].IsPunct(")") || t[i].IsPunct("]") || t[i].IsPunct("}"):
					depth--
				}
				if depth == 0 && (t[i].IsPunct(",") || t[i].IsPunct(";")) {
					break
				}
				i++
			}
			d.init = t[initStart:i]
		}
		decls = append(decls, d)
		if i < len(t) && t[i].IsPunct(",") {
			i++
			continue
		}
		break
	}

	// reserved markers keep the whole statement as written
	for _, d := range decls {
		if reservedMarkers[d.name] {
			m.Retained = append(m.Retained, stmt.raw(m.File))
			return nil
		}
	}

	for _, d := range decls {
		if len(d.init) == 0 {
			if exported && len(decls) == 1 {
				// exported bare declarations still surface as props,
				// without a default
				m.Props = append(m.Props, Prop{Name: d.name})
				continue
			}
			m.Retained = append(m.Retained, stmt.raw(m.File))
			return nil
		}
		req, err := m.matchContentFetch(stmt, d.init, binding, d.name)
		if err != nil {
			return err
		}
		if req != nil {
			req.start = stmt.start
			req.end = stmt.end
			m.ContentRequests = append(m.ContentRequests, *req)
			continue
		}
		raw := m.File.Content[d.init[0].Offset:tokenEnd(d.init[len(d.init)-1])]
		m.Props = append(m.Props, Prop{Name: d.name, Default: raw})
	}
	return nil
}

// matchContentFetch recognizes `Astro.fetchContent('...')`, optionally
// wrapped in a redundant await. The whole initializer must be the call:
// anything following the closing parenthesis (a chained method, an operator)
// makes the declaration an ordinary prop. A matching call with a non-string
// argument is fatal.
func (m *Module) matchContentFetch(stmt *statement, init []Token, binding, name string) (*ContentRequest, error) {
	i := 0
	await := false
	if i < len(init) && init[i].IsIdent("await") {
		await = true
		i++
	}
	if len(init)-i < 4 ||
		!init[i].IsIdent(ContentNamespace) ||
		!init[i+1].IsPunct(".") ||
		!init[i+2].IsIdent(ContentFetchMethod) ||
		!init[i+3].IsPunct("(") {
		return nil, nil
	}
	close := -1
	depth := 0
	for j := i + 3; j < len(init) && close < 0; j++ {
		switch {
		case init[j].IsPunct("("):
			depth++
		case init[j].IsPunct(")"):
			depth--
			if depth == 0 {
				close = j
			}
		}
	}
	if close != len(init)-1 {
		// the call is a subexpression of a larger initializer
		return nil, nil
	}
	args := init[i+4 : close]
	if len(args) != 1 || !args[0].IsType("String") {
		return nil, util.NewParseError(stmt.span(m.File),
			fmt.Sprintf("%s.%s() must be called with a string literal", ContentNamespace, ContentFetchMethod))
	}
	if await {
		m.Warnings = append(m.Warnings, util.NewParseWarning(stmt.span(m.File),
			fmt.Sprintf("awaiting %s.%s() is unnecessary, it is synchronous", ContentNamespace, ContentFetchMethod)))
	}
	spec := args[0].Value
	return &ContentRequest{
		Binding:        binding,
		Name:           name,
		Specifier:      spec[1 : len(spec)-1],
		RedundantAwait: await,
		Span:           stmt.span(m.File),
	}, nil
}

// captureCollection extracts the collection-builder function verbatim and
// re-runs content-fetch detection over its own body.
func (m *Module) captureCollection(stmt *statement, exported bool) error {
	if m.Collection != nil {
		return util.NewParseError(stmt.span(m.File),
			fmt.Sprintf("%s() may only be declared once per file", CollectionBuilderName))
	}
	t := stmt.tokens
	// body tokens: inside the outermost braces
	open := -1
	depth := 0
	for i, tok := range t {
		if tok.IsPunct("{") {
			if depth == 0 {
				open = i
			}
			depth++
		} else if tok.IsPunct("}") {
			depth--
		}
	}
	col := &Collection{
		Source:   stmt.raw(m.File),
		Exported: exported,
		offset:   stmt.start,
	}
	if open >= 0 && t[len(t)-1].IsPunct("}") {
		body := t[open+1 : len(t)-1]
		if len(body) > 0 {
			stmts, err := splitStatements(m.File, body)
			if err != nil {
				return err
			}
			for i := range stmts {
				req, err := m.matchBodyContentFetch(&stmts[i])
				if err != nil {
					return err
				}
				if req != nil {
					col.Requests = append(col.Requests, *req)
				}
			}
		}
	}
	m.Collection = col
	return nil
}

// matchBodyContentFetch applies the content-fetch declaration rule to one
// statement of the collection-builder body.
func (m *Module) matchBodyContentFetch(stmt *statement) (*ContentRequest, error) {
	t := stmt.tokens
	if len(t) < 4 || !t[0].IsType("Ident") {
		return nil, nil
	}
	binding := t[0].Value
	if binding != "let" && binding != "const" && binding != "var" {
		return nil, nil
	}
	if !t[1].IsType("Ident") || !t[2].IsPunct("=") {
		return nil, nil
	}
	init := t[3:]
	if init[len(init)-1].IsPunct(";") {
		init = init[:len(init)-1]
	}
	req, err := m.matchContentFetch(stmt, init, binding, t[1].Value)
	if err != nil || req == nil {
		return req, err
	}
	req.start = stmt.start
	req.end = stmt.end
	return req, nil
}
