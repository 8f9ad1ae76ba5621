package cssaudit

// NodeKind tags the variant held by a Node
type NodeKind int

// Node kinds produced by the parser
const (
	NodeStylesheet NodeKind = iota
	NodeRule
	NodeAtRule
	NodeDeclaration
)

func (k NodeKind) String() string {
	switch k {
	case NodeStylesheet:
		return "Stylesheet"
	case NodeRule:
		return "Rule"
	case NodeAtRule:
		return "Atrule"
	case NodeDeclaration:
		return "Declaration"
	default:
		return "Unknown"
	}
}

// Node is one element of the stylesheet syntax tree.
//
// Which fields are populated depends on Kind:
//
//   - NodeRule:        Prelude (normalized selector list), Selectors, Children
//   - NodeAtRule:      Name ("media"), Prelude (query text), Children (nil for statements)
//   - NodeDeclaration: Name (property), Value, Important, Vars
type Node struct {
	Kind      NodeKind
	Line      int
	Name      string
	Prelude   string
	Selectors []string
	Value     string
	Important bool
	Vars      []string // custom properties referenced through var()
	Children  []*Node
}

// IsCustomProperty reports whether a declaration defines a custom property (--name)
func (n *Node) IsCustomProperty() bool {
	return n.Kind == NodeDeclaration && len(n.Name) > 2 && n.Name[:2] == "--"
}

// Visitor is called for every node in depth-first order. ancestors holds the
// chain from the root down to the node's parent. Returning false skips the
// node's children.
type Visitor func(n *Node, ancestors []*Node) bool

// Walk traverses the tree rooted at n
func Walk(n *Node, visit Visitor) {
	if n == nil {
		return
	}
	walk(n, nil, visit)
}

func walk(n *Node, ancestors []*Node, visit Visitor) {
	if !visit(n, ancestors) {
		return
	}
	if len(n.Children) == 0 {
		return
	}
	next := append(ancestors[:len(ancestors):len(ancestors)], n)
	for _, child := range n.Children {
		walk(child, next, visit)
	}
}

// enclosingRule returns the nearest rule in ancestors, or nil
func enclosingRule(ancestors []*Node) *Node {
	for i := len(ancestors) - 1; i >= 0; i-- {
		if ancestors[i].Kind == NodeRule {
			return ancestors[i]
		}
	}
	return nil
}

// outermostMedia returns the prelude of the first @media in ancestors
func outermostMedia(ancestors []*Node) string {
	for _, a := range ancestors {
		if a.Kind == NodeAtRule && a.Name == "media" {
			return a.Prelude
		}
	}
	return ""
}

// insideAtRule reports whether any ancestor is an at-rule with the given name
func insideAtRule(ancestors []*Node, names ...string) bool {
	for _, a := range ancestors {
		if a.Kind != NodeAtRule {
			continue
		}
		for _, name := range names {
			if a.Name == name {
				return true
			}
		}
	}
	return false
}
