package script

import (
	"strings"

	"astroc-go/packages/compiler/util"
)

// statement is one top-level statement of the embedded script, carried as a
// raw source slice plus its tokens. Only statement heads are interpreted;
// bodies stay raw.
type statement struct {
	start, end int
	tokens     []Token
}

func (s *statement) raw(file *util.ParseSourceFile) string {
	return strings.TrimSpace(file.Content[s.start:s.end])
}

func (s *statement) span(file *util.ParseSourceFile) *util.ParseSourceSpan {
	return util.SpanAt(file, s.start)
}

// statement-start keywords used for newline splitting. The splitter only has
// to isolate the statements the classifier interprets; anything else may glom
// into one retained slice and still re-serialize correctly.
var statementStartKeywords = map[string]bool{
	"import": true, "export": true, "const": true, "let": true, "var": true,
	"function": true, "async": true, "class": true,
}

var expressionPositionIdents = map[string]bool{
	"return": true, "yield": true, "await": true, "typeof": true, "do": true,
	"else": true, "case": true, "default": true, "in": true, "of": true, "new": true,
}

// splitStatements partitions the token stream into top-level statements,
// tracking bracket depth and element literals so separators inside them do
// not split.
func splitStatements(file *util.ParseSourceFile, tokens []Token) ([]statement, error) {
	var stmts []statement
	var cur []Token
	depth := 0
	flush := func(end int) {
		if len(cur) == 0 {
			return
		}
		stmts = append(stmts, statement{start: cur[0].Offset, end: end, tokens: cur})
		cur = nil
	}

	i := 0
	for i < len(tokens) {
		tok := tokens[i]

		if depth == 0 && len(cur) > 0 && tok.NewlineBefore && wantsNewlineSplit(cur, tok) {
			flush(tokenEnd(cur[len(cur)-1]))
		}

		if tok.IsPunct("<") && inExpressionPosition(cur, tokens, i) {
			next, err := scanElementLiteral(file, tokens, i)
			if err != nil {
				return nil, err
			}
			cur = append(cur, tokens[i:next]...)
			i = next
			continue
		}

		switch {
		case tok.IsPunct("(") || tok.IsPunct("[") || tok.IsPunct("{"):
			depth++
		case tok.IsPunct(")") || tok.IsPunct("]") || tok.IsPunct("}"):
			if depth == 0 {
				return nil, util.NewParseError(util.SpanAt(file, tok.Offset),
					"Unable to parse embedded module: unexpected token "+tok.Value)
			}
			depth--
		}
		cur = append(cur, tok)
		i++

		if depth == 0 {
			if tok.IsPunct(";") {
				flush(tokenEnd(tok))
			} else if tok.IsPunct("}") && isBlockForm(cur) {
				flush(tokenEnd(tok))
			}
		}
	}
	if depth > 0 {
		last := tokens[len(tokens)-1]
		return nil, util.NewParseError(util.SpanAt(file, tokenEnd(last)),
			"Unable to parse embedded module: unexpected end of input")
	}
	if len(cur) > 0 {
		flush(tokenEnd(cur[len(cur)-1]))
	}
	return stmts, nil
}

func tokenEnd(tok Token) int {
	return tok.Offset + len(tok.Value)
}

// wantsNewlineSplit decides whether a newline before next terminates the
// statement built up in cur.
func wantsNewlineSplit(cur []Token, next Token) bool {
	last := cur[len(cur)-1]
	if last.IsType("Punct") && strings.ContainsAny(last.Value, ".+-*/%=<>?:&|^,([{!~") {
		return false
	}
	if next.IsType("Punct") && strings.ContainsAny(next.Value, ".+-*/%=<>?:&|^,([") {
		return false
	}
	if next.IsType("Ident") && statementStartKeywords[next.Value] {
		return true
	}
	// A declaration head followed by a fresh value-start token: split so the
	// initializer slice does not swallow the next statement.
	first := cur[0]
	if first.IsType("Ident") && (first.Value == "import" || first.Value == "export" ||
		first.Value == "const" || first.Value == "let" || first.Value == "var") {
		return true
	}
	return false
}

// isBlockForm reports whether the statement opened a body block that ends it
// without a semicolon (function/class/control-flow declarations).
func isBlockForm(cur []Token) bool {
	for _, tok := range cur[:min(4, len(cur))] {
		if !tok.IsType("Ident") {
			return false
		}
		switch tok.Value {
		case "function", "class", "if", "for", "while", "try", "switch", "do":
			return true
		case "export", "default", "async":
			continue
		default:
			return false
		}
	}
	return false
}

// inExpressionPosition reports whether a '<' at index i begins an element
// literal rather than a comparison.
func inExpressionPosition(cur []Token, tokens []Token, i int) bool {
	if i+1 >= len(tokens) {
		return false
	}
	next := tokens[i+1]
	if !next.IsType("Ident") && !next.IsPunct(">") && !next.IsPunct("/") {
		return false
	}
	if len(cur) == 0 {
		return true
	}
	last := cur[len(cur)-1]
	if last.IsType("Ident") {
		return expressionPositionIdents[last.Value]
	}
	if last.IsType("Punct") {
		if last.Value == ">" && len(cur) >= 2 && cur[len(cur)-2].IsPunct("=") {
			return true // arrow body
		}
		return strings.ContainsAny(last.Value, "=(,?:&|[!{;")
	}
	return false
}

// scanElementLiteral consumes one complete element literal starting at the
// '<' at index i and returns the index of the first token after it.
func scanElementLiteral(file *util.ParseSourceFile, tokens []Token, i int) (int, error) {
	open := 0
	for i < len(tokens) {
		if !tokens[i].IsPunct("<") {
			i++
			continue
		}
		closing := i+1 < len(tokens) && tokens[i+1].IsPunct("/")
		selfClosing := false
		// scan the tag to its '>', tracking embedded {...} attribute
		// expressions which may themselves contain '>'.
		braces := 0
		j := i + 1
		for j < len(tokens) {
			t := tokens[j]
			if t.IsPunct("{") {
				braces++
			} else if t.IsPunct("}") {
				braces--
			} else if braces == 0 && t.IsPunct(">") {
				selfClosing = j > i+1 && tokens[j-1].IsPunct("/")
				break
			}
			j++
		}
		if j >= len(tokens) {
			return 0, util.NewParseError(util.SpanAt(file, tokens[i].Offset),
				"Unable to parse embedded module: unterminated element literal")
		}
		switch {
		case closing:
			open--
		case selfClosing:
			// opened and closed in place
		default:
			open++
		}
		i = j + 1
		if open <= 0 {
			return i, nil
		}
	}
	return 0, util.NewParseError(util.SpanAt(file, tokens[len(tokens)-1].Offset),
		"Unable to parse embedded module: unterminated element literal")
}
