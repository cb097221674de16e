package codegen

import "astroc-go/packages/compiler/ast"

// ExtractStyles collects the contents of the document-level style blocks.
// Style nodes encountered inline in the markup tree are collected by the
// traversal itself; both feed the same CSS accumulator.
func ExtractStyles(styles []*ast.Style) []string {
	var css []string
	for _, s := range styles {
		css = append(css, s.Content)
	}
	return css
}
