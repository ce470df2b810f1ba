// Package mustache implements the logic-less template subset used for
// changelog headers and entries.
//
// Supported tags:
//   - {{name}}            variable substitution (no HTML escaping)
//   - {{#name}}...{{/name}} section, rendered when name is truthy
//   - {{^name}}...{{/name}} inverted section, rendered when name is falsy
//   - {{! comment }}      ignored
//
// Loops, partials and delimiter changes are not supported. Contexts are flat.
package mustache

import (
	"fmt"
	"strconv"
	"strings"
)

// Context holds the values visible to a template.
type Context map[string]any

// Template is a parsed template ready to render.
type Template struct {
	nodes []node
}

type nodeKind int

const (
	textNode nodeKind = iota
	varNode
	sectionNode
	invertedNode
)

type node struct {
	kind     nodeKind
	text     string // literal text or tag name
	children []node
}

// SyntaxError reports an unbalanced or malformed tag.
type SyntaxError struct {
	Offset  int
	Message string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("template syntax error at offset %d: %s", e.Offset, e.Message)
}

// Parse parses src into a Template.
func Parse(src string) (*Template, error) {
	p := &parser{src: src}
	nodes, err := p.parse("")
	if err != nil {
		return nil, err
	}
	return &Template{nodes: nodes}, nil
}

// Render evaluates the template against ctx. Missing names render as "".
func (t *Template) Render(ctx Context) string {
	var b strings.Builder
	renderNodes(&b, t.nodes, ctx)
	return b.String()
}

func renderNodes(b *strings.Builder, nodes []node, ctx Context) {
	for _, n := range nodes {
		switch n.kind {
		case textNode:
			b.WriteString(n.text)
		case varNode:
			b.WriteString(stringify(ctx[n.text]))
		case sectionNode:
			if truthy(ctx[n.text]) {
				renderNodes(b, n.children, ctx)
			}
		case invertedNode:
			if !truthy(ctx[n.text]) {
				renderNodes(b, n.children, ctx)
			}
		}
	}
}

type parser struct {
	src string
	pos int
}

// parse consumes nodes until the closing tag for open (or EOF when open is "").
func (p *parser) parse(open string) ([]node, error) {
	var nodes []node
	for p.pos < len(p.src) {
		start := strings.Index(p.src[p.pos:], "{{")
		if start < 0 {
			nodes = append(nodes, node{kind: textNode, text: p.src[p.pos:]})
			p.pos = len(p.src)
			break
		}
		if start > 0 {
			nodes = append(nodes, node{kind: textNode, text: p.src[p.pos : p.pos+start]})
		}
		tagStart := p.pos + start
		end := strings.Index(p.src[tagStart+2:], "}}")
		if end < 0 {
			return nil, &SyntaxError{Offset: tagStart, Message: "unclosed tag"}
		}
		raw := p.src[tagStart+2 : tagStart+2+end]
		p.pos = tagStart + 2 + end + 2

		// triple mustache {{{name}}} behaves like {{name}}; there is no escaping
		if strings.HasPrefix(raw, "{") && strings.HasPrefix(p.src[p.pos:], "}") {
			raw = raw[1:]
			p.pos++
		}

		tag := strings.TrimSpace(raw)
		if tag == "" {
			return nil, &SyntaxError{Offset: tagStart, Message: "empty tag"}
		}

		switch tag[0] {
		case '!':
			continue
		case '#', '^':
			name := strings.TrimSpace(tag[1:])
			children, err := p.parse(name)
			if err != nil {
				return nil, err
			}
			kind := sectionNode
			if tag[0] == '^' {
				kind = invertedNode
			}
			nodes = append(nodes, node{kind: kind, text: name, children: children})
		case '/':
			name := strings.TrimSpace(tag[1:])
			if name != open {
				return nil, &SyntaxError{Offset: tagStart, Message: fmt.Sprintf("unexpected closing tag %q", name)}
			}
			return nodes, nil
		case '&':
			nodes = append(nodes, node{kind: varNode, text: strings.TrimSpace(tag[1:])})
		case '>', '=':
			return nil, &SyntaxError{Offset: tagStart, Message: fmt.Sprintf("unsupported tag %q", tag)}
		default:
			nodes = append(nodes, node{kind: varNode, text: tag})
		}
	}

	if open != "" {
		return nil, &SyntaxError{Offset: len(p.src), Message: fmt.Sprintf("section %q is not closed", open)}
	}
	return nodes, nil
}

func truthy(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case bool:
		return x
	case string:
		return x != ""
	case int:
		return x != 0
	case int64:
		return x != 0
	case float64:
		return x != 0
	default:
		return true
	}
}

func stringify(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case bool:
		if x {
			return "true"
		}
		return ""
	case int:
		return strconv.Itoa(x)
	case fmt.Stringer:
		return x.String()
	default:
		return fmt.Sprint(x)
	}
}
