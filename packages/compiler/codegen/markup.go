package codegen

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"astroc-go/packages/compiler/ast"
	"astroc-go/packages/compiler/registry"
	"astroc-go/packages/compiler/util"
)

const (
	renderCall         = "h"
	fragmentRef        = "Fragment"
	childrenRef        = "children"
	markdownHelper     = "__astroMarkdown"
	markdownHelperPath = "astroc/runtime/__astro_markdown.js"
)

// Compiler walks the markup tree depth-first and produces the render
// expression, consulting the registry for component references and
// accumulating CSS from inline style nodes.
type Compiler struct {
	Filename   string
	Registry   *registry.Registry
	Imports    *util.OrderedStringSet
	Expression ExpressionCompiler

	css []string
}

// CSS returns the style contents collected from inline style nodes, in
// traversal order.
func (c *Compiler) CSS() []string {
	return c.css
}

// CompileMarkup compiles the markup children into a single well-formed
// render expression. Multiple root children are wrapped in a fragment call.
func (c *Compiler) CompileMarkup(nodes []ast.Node) (string, error) {
	args, err := c.compileNodes(nodes, "", false)
	if err != nil {
		return "", err
	}
	if len(args) == 1 {
		return Serialize(args[0]), nil
	}
	call := &Call{
		Callee: &Raw{renderCall},
		Args:   append([]Expr{&Raw{fragmentRef}, &Raw{"null"}}, args...),
	}
	return Serialize(call), nil
}

func (c *Compiler) compileNodes(nodes []ast.Node, markdown string, parentIsMarkdown bool) ([]Expr, error) {
	var out []Expr
	for _, node := range nodes {
		exprs, err := c.compileNode(node, markdown, parentIsMarkdown)
		if err != nil {
			return nil, err
		}
		out = append(out, exprs...)
	}
	return out, nil
}

// compileNode compiles one node. The markdown parameter carries the captured
// Markdown attribute string while the traversal is inside markdown content;
// it is threaded explicitly so the recursion stays referentially
// transparent.
func (c *Compiler) compileNode(node ast.Node, markdown string, parentIsMarkdown bool) ([]Expr, error) {
	switch n := node.(type) {
	case *ast.Comment, *ast.MustacheTag:
		return nil, nil

	case *ast.Fragment:
		return c.compileNodes(n.Children, markdown, false)

	case *ast.Text:
		if strings.TrimSpace(n.Value) == "" && !parentIsMarkdown {
			return nil, nil
		}
		return []Expr{&Str{n.Value}}, nil

	case *ast.CodeFence:
		return []Expr{&Str{n.Raw}}, nil

	case *ast.CodeSpan:
		return []Expr{&Str{n.Raw}}, nil

	case *ast.Style:
		c.css = append(c.css, n.Content)
		return nil, nil

	case *ast.Expression:
		return c.compileExpressionNode(n, markdown)

	case *ast.Slot:
		children, err := c.compileNodes(n.Children, markdown, false)
		if err != nil {
			return nil, err
		}
		args := append([]Expr{&Raw{fragmentRef}, &Raw{"null"}, &Raw{childrenRef}}, children...)
		return []Expr{&Call{Callee: &Raw{renderCall}, Args: args}}, nil

	case *ast.Head:
		return c.compileHostElement("head", n.Attributes, n.Children, markdown)

	case *ast.Title:
		return c.compileHostElement("title", n.Attributes, n.Children, markdown)

	case *ast.Element:
		return c.compileElement(n, markdown)

	default:
		return nil, fmt.Errorf("Unexpected node type: %T", node)
	}
}

func (c *Compiler) compileElement(n *ast.Element, markdown string) ([]Expr, error) {
	name, qualifier, qualified := strings.Cut(n.Name, ":")

	if startsLower(name) {
		if qualified {
			return nil, fmt.Errorf("Hydration directive <%s:%s> is not supported on a plain element", name, qualifier)
		}
		return c.compileHostElement(name, n.Attributes, n.Children, markdown)
	}

	attrs, err := computeAttributes(n.Attributes)
	if err != nil {
		return nil, err
	}

	if name == registry.MarkdownComponentName {
		if qualified {
			return nil, fmt.Errorf("The built-in %s component cannot be hydrated: <%s:%s> in %s",
				name, name, qualifier, c.Filename)
		}
		// the captured attribute string re-applies markdown's prose styling
		// to components nested inside this subtree
		children, err := c.compileNodes(n.Children, attrs, true)
		if err != nil {
			return nil, err
		}
		c.Imports.Add(fmt.Sprintf("import { %s } from '%s';", markdownHelper, markdownHelperPath))
		args := append([]Expr{&Raw{attrs}}, children...)
		return []Expr{&Call{Callee: &Raw{markdownHelper}, Args: args}}, nil
	}

	wrapper, err := c.Registry.GetComponentWrapper(n.Name)
	if err != nil {
		return nil, err
	}
	if wrapper.Import != "" {
		c.Imports.Add(wrapper.Import)
	}
	children, err := c.compileNodes(n.Children, markdown, false)
	if err != nil {
		return nil, err
	}
	args := append([]Expr{&Raw{wrapper.Expr}, &Raw{attrs}}, children...)
	call := &Call{Callee: &Raw{renderCall}, Args: args}
	if markdown != "" {
		// components nested inside markdown content keep the outer prose
		// styling: their render call is wrapped with the captured attributes
		return []Expr{&Call{
			Callee: &Raw{markdownHelper},
			Args:   []Expr{&Raw{markdown}, call},
		}}, nil
	}
	return []Expr{call}, nil
}

func (c *Compiler) compileHostElement(tag string, attrs []*ast.Attribute, children []ast.Node, markdown string) ([]Expr, error) {
	attrStr, err := computeAttributes(attrs)
	if err != nil {
		return nil, err
	}
	childExprs, err := c.compileNodes(children, markdown, false)
	if err != nil {
		return nil, err
	}
	args := append([]Expr{Expr(&Str{tag}), Expr(&Raw{attrStr})}, childExprs...)
	return []Expr{&Call{Callee: &Raw{renderCall}, Args: args}}, nil
}

// compileExpressionNode compiles each child subtree, interleaves the results
// into the raw code chunks in original order, and runs the assembled
// expression through the expression safety compiler. The node's children are
// consumed here; the traversal does not descend again.
func (c *Compiler) compileExpressionNode(n *ast.Expression, markdown string) ([]Expr, error) {
	var b strings.Builder
	for i, code := range n.Codes {
		b.WriteString(code)
		if i < len(n.Children) {
			exprs, err := c.compileNode(n.Children[i], markdown, false)
			if err != nil {
				return nil, err
			}
			for j, e := range exprs {
				if j > 0 {
					b.WriteString(",")
				}
				b.WriteString(Serialize(e))
			}
		}
	}
	for i := len(n.Codes); i < len(n.Children); i++ {
		exprs, err := c.compileNode(n.Children[i], markdown, false)
		if err != nil {
			return nil, err
		}
		for _, e := range exprs {
			b.WriteString(Serialize(e))
		}
	}
	code, err := c.safeExpression(b.String())
	if err != nil {
		return nil, err
	}
	return []Expr{&Raw{code}}, nil
}

func startsLower(name string) bool {
	r, _ := utf8.DecodeRuneInString(name)
	return unicode.IsLower(r)
}
