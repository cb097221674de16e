package ast

import (
	"encoding/json"
	"fmt"
)

// The upstream parser ships the document tree across the process boundary as
// JSON with a "type" discriminator per node. DecodeDocument rebuilds the
// typed tree from that form.

type rawDocument struct {
	Module *rawNode  `json:"module"`
	Css    []rawNode `json:"css"`
	Html   []rawNode `json:"html"`
}

type rawNode struct {
	Type       string         `json:"type"`
	Name       string         `json:"name"`
	Value      string         `json:"value"`
	Content    string         `json:"content"`
	Raw        string         `json:"raw"`
	Codes      []string       `json:"codes"`
	Attributes []rawAttribute `json:"attributes"`
	Children   []rawNode      `json:"children"`
}

type rawAttribute struct {
	Name    string        `json:"name"`
	Boolean *bool         `json:"boolean"`
	Value   []rawAttrPart `json:"value"`
}

type rawAttrPart struct {
	Type string `json:"type"`
	Raw  string `json:"raw"`
}

// DecodeDocument decodes a JSON-serialized parsed document into a Document.
func DecodeDocument(data []byte) (*Document, error) {
	var raw rawDocument
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decoding document: %w", err)
	}
	doc := &Document{}
	if raw.Module != nil {
		if raw.Module.Type != "Script" {
			return nil, fmt.Errorf("document module must be a Script node, got %q", raw.Module.Type)
		}
		doc.Module = NewScript(raw.Module.Content, nil)
	}
	for _, s := range raw.Css {
		if s.Type != "Style" {
			return nil, fmt.Errorf("document css entries must be Style nodes, got %q", s.Type)
		}
		doc.Css = append(doc.Css, NewStyle(s.Content, nil))
	}
	html, err := decodeNodes(raw.Html)
	if err != nil {
		return nil, err
	}
	doc.Html = html
	return doc, nil
}

func decodeNodes(raws []rawNode) ([]Node, error) {
	var nodes []Node
	for i := range raws {
		n, err := decodeNode(&raws[i])
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, n)
	}
	return nodes, nil
}

func decodeNode(raw *rawNode) (Node, error) {
	children, err := decodeNodes(raw.Children)
	if err != nil {
		return nil, err
	}
	attrs, err := decodeAttributes(raw.Attributes)
	if err != nil {
		return nil, err
	}
	switch raw.Type {
	case "Fragment":
		return NewFragment(children, nil), nil
	case "Element", "InlineComponent":
		return NewElement(raw.Name, attrs, children, nil), nil
	case "Head":
		return NewHead(attrs, children, nil), nil
	case "Title":
		return NewTitle(attrs, children, nil), nil
	case "Slot":
		return NewSlot(attrs, children, nil), nil
	case "Text":
		return NewText(raw.Value, nil), nil
	case "Comment":
		return NewComment(raw.Value, nil), nil
	case "MustacheTag":
		return NewMustacheTag(nil), nil
	case "Expression":
		return NewExpression(raw.Codes, children, nil), nil
	case "Style":
		return NewStyle(raw.Content, nil), nil
	case "CodeFence":
		return NewCodeFence(raw.Raw, nil), nil
	case "CodeSpan":
		return NewCodeSpan(raw.Raw, nil), nil
	default:
		return nil, fmt.Errorf("decoding document: unknown node type %q", raw.Type)
	}
}

func decodeAttributes(raws []rawAttribute) ([]*Attribute, error) {
	var attrs []*Attribute
	for _, a := range raws {
		if a.Boolean != nil {
			attrs = append(attrs, NewBooleanAttribute(a.Name, *a.Boolean, nil))
			continue
		}
		var parts []AttrPart
		if a.Value != nil {
			parts = make([]AttrPart, 0, len(a.Value))
			for _, p := range a.Value {
				parts = append(parts, AttrPart{Kind: AttrPartKind(p.Type), Raw: p.Raw})
			}
		}
		attrs = append(attrs, NewAttribute(a.Name, parts, nil))
	}
	return attrs, nil
}
