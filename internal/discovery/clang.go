package discovery

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
)

// clang walks C and C++ trees. Scopes of namespaces, classes and qualified
// definitions are joined with '.'
func (w *walker) clang(node *sitter.Node, scope string) {
	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)

		switch child.Type() {
		case "function_definition", "declaration", "field_declaration":
			w.cFunction(child, child, scope)

		case "template_declaration":
			for j := 0; j < int(child.NamedChildCount()); j++ {
				inner := child.NamedChild(j)
				switch inner.Type() {
				case "function_definition", "declaration":
					w.cFunction(child, inner, scope)
				}
			}

		case "namespace_definition":
			name := ""
			if n := child.ChildByFieldName("name"); n != nil {
				name = strings.ReplaceAll(w.text(n), "::", ".")
			}
			if body := child.ChildByFieldName("body"); body != nil {
				w.clang(body, joinScope(scope, name))
			}

		case "class_specifier", "struct_specifier":
			w.cClass(child, scope)

		case "linkage_specification":
			if body := child.ChildByFieldName("body"); body != nil {
				if body.Type() == "declaration_list" {
					w.clang(body, scope)
				} else {
					w.cFunction(child, body, scope)
				}
			}

		case "preproc_if", "preproc_ifdef", "preproc_else", "preproc_elif", "declaration_list":
			w.clang(child, scope)
		}
	}
}

func (w *walker) cClass(node *sitter.Node, scope string) {
	name := node.ChildByFieldName("name")
	body := node.ChildByFieldName("body")
	if name == nil || body == nil {
		return
	}
	w.clang(body, joinScope(scope, w.text(name)))
}

// cFunction records decl when its declarator is a function. outer is the
// node comments are attached to
func (w *walker) cFunction(outer, decl *sitter.Node, scope string) {
	// class Foo { ... }; at namespace level is a declaration-less specifier
	if typ := decl.ChildByFieldName("type"); typ != nil && decl.Type() != "function_definition" {
		if typ.Type() == "class_specifier" || typ.Type() == "struct_specifier" {
			w.cClass(typ, scope)
		}
	}

	declarator := decl.ChildByFieldName("declarator")
	if declarator == nil {
		return
	}
	fd := functionDeclarator(declarator)
	if fd == nil {
		return
	}

	target := fd.ChildByFieldName("declarator")
	if target == nil {
		return
	}
	name, qualifier := w.cName(target)
	if name == "" {
		return
	}

	var params []string
	if list := fd.ChildByFieldName("parameters"); list != nil {
		for i := 0; i < int(list.NamedChildCount()); i++ {
			p := list.NamedChild(i)
			if p.Type() != "parameter_declaration" && p.Type() != "optional_parameter_declaration" {
				continue
			}
			if d := p.ChildByFieldName("declarator"); d != nil {
				if pn := w.declaredName(d); pn != "" {
					params = append(params, pn)
				}
			}
		}
	}

	w.add(decl, joinScope(scope, qualifier), name, params, w.cComments(outer))
}

// functionDeclarator unwraps pointer and reference declarators around a
// function declarator. Function pointers are not functions
func functionDeclarator(n *sitter.Node) *sitter.Node {
	for n != nil {
		switch n.Type() {
		case "function_declarator":
			if inner := n.ChildByFieldName("declarator"); inner != nil && inner.Type() == "parenthesized_declarator" {
				return nil
			}
			return n
		case "pointer_declarator", "reference_declarator":
			next := n.ChildByFieldName("declarator")
			if next == nil && n.NamedChildCount() > 0 {
				next = n.NamedChild(int(n.NamedChildCount()) - 1)
			}
			n = next
		default:
			return nil
		}
	}
	return nil
}

// cName splits the declarator of a function into its name and the scope
// qualifying it, as in ns::Class::method
func (w *walker) cName(n *sitter.Node) (name, qualifier string) {
	switch n.Type() {
	case "identifier", "field_identifier", "destructor_name", "operator_name":
		return w.text(n), ""
	case "qualified_identifier":
		parts := strings.Split(w.text(n), "::")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		return parts[len(parts)-1], strings.Trim(strings.Join(parts[:len(parts)-1], "."), ".")
	case "template_function":
		if inner := n.ChildByFieldName("name"); inner != nil {
			return w.cName(inner)
		}
	}
	return "", ""
}

// declaredName finds the identifier of a parameter declarator
func (w *walker) declaredName(n *sitter.Node) string {
	switch n.Type() {
	case "identifier", "field_identifier":
		return w.text(n)
	}
	if d := n.ChildByFieldName("declarator"); d != nil {
		return w.declaredName(d)
	}
	for i := 0; i < int(n.NamedChildCount()); i++ {
		if name := w.declaredName(n.NamedChild(i)); name != "" {
			return name
		}
	}
	return ""
}

// cComments returns the run of comments directly preceding node, in source
// order, with comment delimiters removed
func (w *walker) cComments(node *sitter.Node) string {
	var blocks []string
	next := node
	for prev := node.PrevNamedSibling(); prev != nil && prev.Type() == "comment"; prev = prev.PrevNamedSibling() {
		if prev.EndPoint().Row+1 < next.StartPoint().Row {
			break
		}
		blocks = append(blocks, stripComment(w.text(prev)))
		next = prev
	}
	for i, j := 0, len(blocks)-1; i < j; i, j = i+1, j-1 {
		blocks[i], blocks[j] = blocks[j], blocks[i]
	}
	return strings.Join(blocks, "\n")
}

func stripComment(s string) string {
	if strings.HasPrefix(s, "/*") {
		s = strings.TrimSuffix(strings.TrimPrefix(s, "/*"), "*/")
		return s
	}
	return strings.TrimLeft(s, "/!")
}
