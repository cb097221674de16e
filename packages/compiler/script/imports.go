package script

import (
	"github.com/alecthomas/participle/v2"

	"astroc-go/packages/compiler/util"
)

// ImportClause is the parsed head of an import declaration: which local
// names the statement binds and the module specifier it names.
type ImportClause struct {
	Default   string
	Star      string
	Named     []NamedSpec
	Specifier string
}

// NamedSpec is one named import specifier, with its optional local alias.
type NamedSpec struct {
	Name  string `parser:"@Ident"`
	Alias string `parser:"('as' @Ident)?"`
}

// LocalName returns the name the specifier binds locally.
func (n NamedSpec) LocalName() string {
	if n.Alias != "" {
		return n.Alias
	}
	return n.Name
}

type importDecl struct {
	Clause *importClause `parser:"'import' (@@ 'from')?"`
	Source string        `parser:"@String ';'?"`
}

type importClause struct {
	Star    string       `parser:"( '*' 'as' @Ident"`
	Named   []NamedSpec  `parser:"| '{' (@@ (',' @@)* ','?)? '}'"`
	Default string       `parser:"| @Ident )"`
	Rest    *importClause `parser:"(',' @@)?"`
}

var importParser = participle.MustBuild[importDecl](
	participle.Lexer(scriptLexer),
	participle.Elide("Whitespace", "Comment"),
	participle.Unquote("String"),
)

// parseImport parses one raw import statement into its clause. A nil clause
// error means the statement is not a well-formed import declaration.
func parseImport(file *util.ParseSourceFile, stmt *statement) (*ImportClause, error) {
	decl, err := importParser.ParseString(file.URL, stmt.raw(file))
	if err != nil {
		return nil, util.NewParseError(stmt.span(file),
			"Unable to parse import statement: "+err.Error())
	}
	clause := &ImportClause{Specifier: decl.Source}
	for c := decl.Clause; c != nil; c = c.Rest {
		switch {
		case c.Star != "":
			clause.Star = c.Star
		case c.Default != "":
			clause.Default = c.Default
		case len(c.Named) > 0:
			clause.Named = append(clause.Named, c.Named...)
		}
	}
	return clause, nil
}

// LocalName returns the registry key the import binds: the default binding,
// the first named binding, or the namespace alias.
func (c *ImportClause) LocalName() string {
	if c.Default != "" {
		return c.Default
	}
	if len(c.Named) > 0 {
		return c.Named[0].LocalName()
	}
	return c.Star
}
