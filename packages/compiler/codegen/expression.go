package codegen

import "strings"

// ExpressionCompiler converts one raw expression fragment, which may contain
// nested render calls spliced in by the markup compiler, into a valid
// expression string. The real implementation is an external transpiler; the
// compiler only depends on this interface.
type ExpressionCompiler interface {
	CompileExpression(raw, filename string) (string, error)
}

// ExpressionCompilerFunc adapts a function to the ExpressionCompiler
// interface.
type ExpressionCompilerFunc func(raw, filename string) (string, error)

// CompileExpression implements ExpressionCompiler.
func (f ExpressionCompilerFunc) CompileExpression(raw, filename string) (string, error) {
	return f(raw, filename)
}

// IdentityExpressionCompiler passes expressions through unchanged. It is the
// default when no transpiler is configured and is sufficient for input that
// is already valid expression syntax.
func IdentityExpressionCompiler() ExpressionCompiler {
	return ExpressionCompilerFunc(func(raw, _ string) (string, error) {
		return raw, nil
	})
}

// safeExpression runs the expression through the configured transpiler,
// trims it, and strips a single trailing statement terminator.
func (c *Compiler) safeExpression(raw string) (string, error) {
	code := raw
	if c.Expression != nil {
		var err error
		code, err = c.Expression.CompileExpression(raw, c.Filename)
		if err != nil {
			return "", err
		}
	}
	code = strings.TrimSpace(code)
	code = strings.TrimSuffix(code, ";")
	return code, nil
}
