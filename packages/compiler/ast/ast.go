// Package ast defines the parsed-document tree handed to the compiler by the
// upstream markup/script/style parser. The node set is closed: the parser's
// grammar produces exactly these kinds, and the compiler treats anything else
// as a version mismatch.
package ast

import "astroc-go/packages/compiler/util"

// Node is a node of the markup tree. The interface is sealed; the full set of
// implementations lives in this package.
type Node interface {
	SourceSpan() *util.ParseSourceSpan
	node()
}

type base struct {
	Span *util.ParseSourceSpan
}

// SourceSpan returns the source span, which may be nil when the upstream
// parser did not record one.
func (b base) SourceSpan() *util.ParseSourceSpan { return b.Span }
func (base) node()                               {}

// Document is the full parsed document: the frontmatter script, the style
// subtree and the markup children.
type Document struct {
	// Module holds the raw frontmatter script source; nil when the document
	// has no script block.
	Module *Script
	// Css holds document-level style blocks. Style nodes may also appear
	// inline in Html; both feed the style extractor.
	Css  []*Style
	Html []Node
}

// Script is the embedded frontmatter module.
type Script struct {
	base
	Content string
}

// NewScript creates a new Script node
func NewScript(content string, span *util.ParseSourceSpan) *Script {
	return &Script{base{span}, content}
}

// Fragment is a transparent grouping node; its children attach to the nearest
// enclosing render call.
type Fragment struct {
	base
	Children []Node
}

// NewFragment creates a new Fragment node
func NewFragment(children []Node, span *util.ParseSourceSpan) *Fragment {
	return &Fragment{base{span}, children}
}

// Element is a markup element: a literal host element when the name starts
// with a lowercase letter, otherwise a reference to an imported component,
// possibly qualified with a hydration kind ("Name:load").
type Element struct {
	base
	Name       string
	Attributes []*Attribute
	Children   []Node
}

// NewElement creates a new Element node
func NewElement(name string, attributes []*Attribute, children []Node, span *util.ParseSourceSpan) *Element {
	return &Element{base{span}, name, attributes, children}
}

// Head is the document head structural tag.
type Head struct {
	base
	Attributes []*Attribute
	Children   []Node
}

// NewHead creates a new Head node
func NewHead(attributes []*Attribute, children []Node, span *util.ParseSourceSpan) *Head {
	return &Head{base{span}, attributes, children}
}

// Title is the document title structural tag.
type Title struct {
	base
	Attributes []*Attribute
	Children   []Node
}

// NewTitle creates a new Title node
func NewTitle(attributes []*Attribute, children []Node, span *util.ParseSourceSpan) *Title {
	return &Title{base{span}, attributes, children}
}

// Slot marks the children passthrough position of a component.
type Slot struct {
	base
	Attributes []*Attribute
	Children   []Node
}

// NewSlot creates a new Slot node
func NewSlot(attributes []*Attribute, children []Node, span *util.ParseSourceSpan) *Slot {
	return &Slot{base{span}, attributes, children}
}

// Text is literal text content.
type Text struct {
	base
	Value string
}

// NewText creates a new Text node
func NewText(value string, span *util.ParseSourceSpan) *Text {
	return &Text{base{span}, value}
}

// Comment is a markup comment; it contributes nothing to output.
type Comment struct {
	base
	Value string
}

// NewComment creates a new Comment node
func NewComment(value string, span *util.ParseSourceSpan) *Comment {
	return &Comment{base{span}, value}
}

// MustacheTag is a bare mustache marker left behind by the parser; it
// contributes nothing to output.
type MustacheTag struct {
	base
}

// NewMustacheTag creates a new MustacheTag node
func NewMustacheTag(span *util.ParseSourceSpan) *MustacheTag {
	return &MustacheTag{base{span}}
}

// Expression is an embedded expression. Codes holds the raw code chunks and
// Children the markup subtrees interleaved between them: the assembled
// expression is Codes[0] + render(Children[0]) + Codes[1] + ... Trailing
// chunks without a following child are permitted.
type Expression struct {
	base
	Codes    []string
	Children []Node
}

// NewExpression creates a new Expression node
func NewExpression(codes []string, children []Node, span *util.ParseSourceSpan) *Expression {
	return &Expression{base{span}, codes, children}
}

// Style is a style block. The style extractor collects its content and
// removes the node from further processing.
type Style struct {
	base
	Content string
}

// NewStyle creates a new Style node
func NewStyle(content string, span *util.ParseSourceSpan) *Style {
	return &Style{base{span}, content}
}

// CodeFence is a fenced raw block, emitted verbatim as a string literal.
type CodeFence struct {
	base
	Raw string
}

// NewCodeFence creates a new CodeFence node
func NewCodeFence(raw string, span *util.ParseSourceSpan) *CodeFence {
	return &CodeFence{base{span}, raw}
}

// CodeSpan is an inline raw span, emitted verbatim as a string literal.
type CodeSpan struct {
	base
	Raw string
}

// NewCodeSpan creates a new CodeSpan node
func NewCodeSpan(raw string, span *util.ParseSourceSpan) *CodeSpan {
	return &CodeSpan{base{span}, raw}
}

// AttrPartKind discriminates the parts of an attribute value.
type AttrPartKind string

const (
	// AttrPartText is a literal text part.
	AttrPartText AttrPartKind = "Text"
	// AttrPartExpression is an embedded expression part; Raw holds its code.
	AttrPartExpression AttrPartKind = "MustacheTag"
)

// AttrPart is one part of an attribute value.
type AttrPart struct {
	Kind AttrPartKind
	Raw  string
}

// Attribute is an element attribute. Exactly one of the value forms applies:
// Boolean when the attribute was written without a value expression
// (true keeps the attribute, false drops it), otherwise Value lists the
// parts. A nil Boolean with a nil Value means the upstream transform
// produced a malformed attribute; the compiler skips it.
type Attribute struct {
	base
	Name    string
	Boolean *bool
	Value   []AttrPart
}

// NewAttribute creates a new Attribute node with a parts value
func NewAttribute(name string, value []AttrPart, span *util.ParseSourceSpan) *Attribute {
	return &Attribute{base{span}, name, nil, value}
}

// NewBooleanAttribute creates a new Attribute node with a boolean value
func NewBooleanAttribute(name string, value bool, span *util.ParseSourceSpan) *Attribute {
	return &Attribute{base{span}, name, &value, nil}
}
