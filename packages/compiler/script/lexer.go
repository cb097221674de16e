// Package script implements the frontmatter module compiler: it tokenizes the
// embedded script with a permissive grammar, splits it into top-level
// statements, classifies each statement, and re-assembles the final script
// body.
package script

import (
	"errors"

	"github.com/alecthomas/participle/v2/lexer"

	"astroc-go/packages/compiler/util"
)

// The grammar is deliberately permissive: statement bodies are carried as raw
// source slices, so only the shapes the classifier cares about (declaration
// heads, import clauses, the content-fetch call) need exact token structure.
// Element literals, type annotations and top-level await survive untouched
// inside the raw slices.
var scriptLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Comment", Pattern: `//[^\n]*|/\*(?:[^*]|\*+[^*/])*\*+/`},
	{Name: "Template", Pattern: "`(?:\\\\.|[^`\\\\])*`"},
	{Name: "String", Pattern: `"(?:\\.|[^"\\])*"|'(?:\\.|[^'\\])*'`},
	{Name: "Number", Pattern: `\d[\d_.a-zA-Z]*`},
	{Name: "Ident", Pattern: `[A-Za-z_$][A-Za-z0-9_$]*`},
	{Name: "Punct", Pattern: `[-+*/%=<>!&|^~?:;,.(){}\[\]@#]`},
	{Name: "Whitespace", Pattern: `[ \t\r\n]+`},
})

var scriptSymbols = scriptLexer.Symbols()

// Token is one lexed token of the embedded script.
type Token struct {
	Type          lexer.TokenType
	Value         string
	Offset        int
	Line          int
	Col           int
	NewlineBefore bool
}

// IsType reports whether the token has the named lexer symbol type.
func (t Token) IsType(name string) bool {
	return t.Type == scriptSymbols[name]
}

// IsPunct reports whether the token is the given punctuation character.
func (t Token) IsPunct(value string) bool {
	return t.IsType("Punct") && t.Value == value
}

// IsIdent reports whether the token is the given identifier.
func (t Token) IsIdent(value string) bool {
	return t.IsType("Ident") && t.Value == value
}

// tokenize lexes content into significant tokens, eliding whitespace and
// comments but recording whether a newline preceded each token.
func tokenize(file *util.ParseSourceFile) ([]Token, error) {
	lx, err := scriptLexer.LexString(file.URL, file.Content)
	if err != nil {
		return nil, util.NewParseError(util.SpanAt(file, 0), err.Error())
	}
	var tokens []Token
	newline := false
	for {
		tok, err := lx.Next()
		if err != nil {
			span := util.SpanAt(file, 0)
			var lexErr *lexer.Error
			if errors.As(err, &lexErr) {
				span = util.SpanAt(file, lexErr.Pos.Offset)
			}
			return nil, util.NewParseError(span, "Unable to parse embedded module: "+err.Error())
		}
		if tok.EOF() {
			break
		}
		switch tok.Type {
		case scriptSymbols["Whitespace"]:
			for _, ch := range tok.Value {
				if ch == '\n' {
					newline = true
					break
				}
			}
			continue
		case scriptSymbols["Comment"]:
			continue
		}
		tokens = append(tokens, Token{
			Type:          tok.Type,
			Value:         tok.Value,
			Offset:        tok.Pos.Offset,
			Line:          tok.Pos.Line,
			Col:           tok.Pos.Column,
			NewlineBefore: newline,
		})
		newline = false
	}
	return tokens, nil
}
