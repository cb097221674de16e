package codegen

import (
	"fmt"
	"strconv"
	"strings"

	"astroc-go/packages/compiler/ast"
)

// computeAttributes renders the attributes object literal for a node, or
// "null" when nothing serializes.
//
// A boolean true keeps the attribute as the literal true; boolean false and
// malformed value-less attributes are skipped so a buggy upstream transform
// degrades gracefully instead of crashing the compile.
func computeAttributes(attrs []*ast.Attribute) (string, error) {
	var b strings.Builder
	count := 0
	write := func(name, value string) {
		if count > 0 {
			b.WriteString(", ")
		}
		b.WriteString(strconv.Quote(name))
		b.WriteString(": ")
		b.WriteString(value)
		count++
	}
	for _, a := range attrs {
		if a.Boolean != nil {
			if *a.Boolean {
				write(a.Name, "true")
			}
			continue
		}
		if a.Value == nil {
			continue
		}
		value, err := attributeValue(a)
		if err != nil {
			return "", err
		}
		write(a.Name, value)
	}
	if count == 0 {
		return "null", nil
	}
	return "{" + b.String() + "}", nil
}

func attributeValue(a *ast.Attribute) (string, error) {
	switch len(a.Value) {
	case 0:
		// An empty parts list yields a parenthesized empty expression.
		// Inherited behavior; see the serializer tests.
		return "()", nil
	case 1:
		return attributePart(a, a.Value[0])
	default:
		parts := make([]string, 0, len(a.Value))
		for _, p := range a.Value {
			s, err := attributePart(a, p)
			if err != nil {
				return "", err
			}
			parts = append(parts, s)
		}
		return "(" + strings.Join(parts, " + ") + ")", nil
	}
}

func attributePart(a *ast.Attribute, p ast.AttrPart) (string, error) {
	switch p.Kind {
	case ast.AttrPartExpression:
		return p.Raw, nil
	case ast.AttrPartText:
		return strconv.Quote(p.Raw), nil
	default:
		return "", fmt.Errorf("Unknown attribute type %q on %q", p.Kind, a.Name)
	}
}
