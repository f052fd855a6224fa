package discovery

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
)

func (w *walker) python(node *sitter.Node, scope string) {
	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)

		switch child.Type() {
		case "class_definition":
			w.pyClass(child, scope)

		case "function_definition":
			w.pyFunction(child, child, scope)

		case "decorated_definition":
			def := child.ChildByFieldName("definition")
			if def == nil {
				continue
			}
			switch def.Type() {
			case "function_definition":
				w.pyFunction(child, def, scope)
			case "class_definition":
				w.pyClass(def, scope)
			}
		}
	}
}

func (w *walker) pyClass(node *sitter.Node, scope string) {
	name := node.ChildByFieldName("name")
	body := node.ChildByFieldName("body")
	if name == nil || body == nil {
		return
	}
	w.python(body, joinScope(scope, w.text(name)))
}

// pyFunction records def. outer is the statement holding it, which differs
// from def when the function is decorated
func (w *walker) pyFunction(outer, def *sitter.Node, scope string) {
	name := def.ChildByFieldName("name")
	if name == nil {
		return
	}

	var params []string
	if list := def.ChildByFieldName("parameters"); list != nil {
		for i := 0; i < int(list.NamedChildCount()); i++ {
			p := pyParameterName(list.NamedChild(i), w.src)
			if p == "" || (scope != "" && len(params) == 0 && i == 0 && (p == "self" || p == "cls")) {
				continue
			}
			params = append(params, p)
		}
	}

	w.add(def, scope, w.text(name), params, w.pyLeadingString(outer), w.pyDocstring(def))
}

func pyParameterName(n *sitter.Node, src []byte) string {
	switch n.Type() {
	case "identifier":
		return n.Content(src)
	case "default_parameter", "typed_default_parameter":
		if name := n.ChildByFieldName("name"); name != nil {
			return name.Content(src)
		}
	case "typed_parameter":
		if n.NamedChildCount() > 0 && n.NamedChild(0).Type() == "identifier" {
			return n.NamedChild(0).Content(src)
		}
	}
	// *args, **kwargs and the / and * separators take no annotation values
	return ""
}

// pyLeadingString returns the string statement directly preceding node
func (w *walker) pyLeadingString(node *sitter.Node) string {
	prev := node.PrevNamedSibling()
	if prev == nil || prev.EndPoint().Row+1 < node.StartPoint().Row {
		return ""
	}
	return w.pyStringStatement(prev)
}

// pyDocstring returns the docstring of a function body
func (w *walker) pyDocstring(def *sitter.Node) string {
	body := def.ChildByFieldName("body")
	if body == nil || body.NamedChildCount() == 0 {
		return ""
	}
	return w.pyStringStatement(body.NamedChild(0))
}

func (w *walker) pyStringStatement(n *sitter.Node) string {
	if n.Type() != "expression_statement" || n.NamedChildCount() != 1 {
		return ""
	}
	s := n.NamedChild(0)
	if s.Type() != "string" {
		return ""
	}
	return unquotePython(w.text(s))
}

// unquotePython strips the prefix and quotes of a Python string literal.
// Escape sequences are left alone
func unquotePython(s string) string {
	s = strings.TrimLeft(s, "rRbBuUfF")
	for _, q := range []string{`"""`, `'''`, `"`, `'`} {
		if len(s) >= 2*len(q) && strings.HasPrefix(s, q) && strings.HasSuffix(s, q) {
			return s[len(q) : len(s)-len(q)]
		}
	}
	return s
}
