// Package markup defines the structural tree handed to a layout engine:
// container, text and image nodes with typed style attributes.
package markup

import (
	"strconv"
	"strings"

	"github.com/a-h/templ"
)

// Kind identifies the node type.
type Kind int

const (
	KindContainer Kind = iota
	KindText
	KindImage
)

func (k Kind) String() string {
	switch k {
	case KindContainer:
		return "div"
	case KindText:
		return "p"
	case KindImage:
		return "img"
	}
	return "unknown"
}

// Role tags a node with its meaning on a card so callers can find it
// without depending on tree shape.
type Role string

const (
	RoleNone         Role = ""
	RoleRoot         Role = "root"
	RolePanel        Role = "panel"
	RoleAvatarColumn Role = "avatar-column"
	RoleAvatar       Role = "avatar"
	RoleContent      Role = "content"
	RoleDate         Role = "date"
	RoleTitle        Role = "title"
	RoleAuthor       Role = "author"
)

// Node is one element of the markup tree.
type Node struct {
	Kind     Kind
	Role     Role
	Style    Style
	Text     string // KindText only
	Src      string // KindImage only
	Children []*Node
}

// Column returns a flex container laid out top to bottom.
func Column(style Style, children ...*Node) *Node {
	style.Direction = DirectionColumn
	return &Node{Kind: KindContainer, Style: style, Children: compact(children)}
}

// Row returns a flex container laid out left to right.
func Row(style Style, children ...*Node) *Node {
	style.Direction = DirectionRow
	return &Node{Kind: KindContainer, Style: style, Children: compact(children)}
}

// Text returns a text node.
func Text(text string, style Style) *Node {
	return &Node{Kind: KindText, Style: style, Text: text}
}

// Image returns an image node; src is usually a data URI.
func Image(src string, style Style) *Node {
	return &Node{Kind: KindImage, Style: style, Src: src}
}

// As sets the node role and returns the node.
func (n *Node) As(role Role) *Node {
	n.Role = role
	return n
}

// compact drops nil children so optional nodes can be passed inline.
func compact(nodes []*Node) []*Node {
	out := nodes[:0]
	for _, n := range nodes {
		if n != nil {
			out = append(out, n)
		}
	}
	return out
}

// Walk visits n and its descendants depth-first. Returning false from fn
// skips the node's children.
func Walk(n *Node, fn func(*Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	for _, c := range n.Children {
		Walk(c, fn)
	}
}

// FindAll returns every node in the tree carrying role.
func FindAll(n *Node, role Role) []*Node {
	var out []*Node
	Walk(n, func(c *Node) bool {
		if c.Role == role {
			out = append(out, c)
		}
		return true
	})
	return out
}

// Find returns the first node carrying role, or nil.
func Find(n *Node, role Role) *Node {
	if all := FindAll(n, role); len(all) > 0 {
		return all[0]
	}
	return nil
}

// HTML serializes the tree as satori-style HTML with inline styles.
// It is a debugging aid; layout engines consume the tree directly.
func HTML(n *Node) string {
	var b strings.Builder
	writeHTML(&b, n)
	return b.String()
}

func writeHTML(b *strings.Builder, n *Node) {
	if n == nil {
		return
	}
	tag := n.Kind.String()
	if n.Role == RoleTitle {
		tag = "h1"
	}
	b.WriteString("<" + tag)
	if css := n.Style.CSS(); css != "" {
		b.WriteString(` style="` + templ.EscapeString(css) + `"`)
	}
	if n.Kind == KindImage {
		b.WriteString(` src="` + templ.EscapeString(n.Src) + `" />`)
		return
	}
	b.WriteString(">")
	if n.Kind == KindText {
		b.WriteString(templ.EscapeString(n.Text))
	}
	for _, c := range n.Children {
		writeHTML(b, c)
	}
	b.WriteString("</" + tag + ">")
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
