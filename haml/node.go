package haml

import (
	"golang.org/x/net/html/atom"
)

// Node is a node of the parsed template tree. The set of implementations is
// closed: Root, Doctype, Element, Script, SilentScript, HTMLComment,
// HamlComment, Text, Filter and Empty.
type Node interface {
	node()
}

// Parent is implemented by the nodes that own a list of children.
type Parent interface {
	Node
	Children() []Node
	AppendChild(c Node)
}

// Container holds the ordered children of a node. It is embedded in every
// node type that may have nested content.
type Container struct {
	children []Node
}

// Children returns the children in source order.
func (c *Container) Children() []Node {
	return c.children
}

// AppendChild adds n as the last child.
func (c *Container) AppendChild(n Node) {
	c.children = append(c.children, n)
}

// truncate drops every child from index i on and returns the dropped ones.
func (c *Container) truncate(i int) []Node {
	dropped := append([]Node(nil), c.children[i:]...)
	c.children = c.children[:i]
	return dropped
}

// container is a Parent that the parser may rearrange.
type container interface {
	Parent
	truncate(i int) []Node
}

// Position is the source location where a construct began.
type Position struct {
	Filename string
	Lineno   int // 1-based
}

// Pos returns the position itself; it is promoted to every node embedding it.
func (p Position) Pos() Position { return p }

// Root is the document node returned by Parse.
type Root struct {
	Container
}

// Doctype is a "!!!" declaration.
type Doctype struct {
	Position
	Doctype string
}

// Element is a "%tag" line, or an implicit div started with "." or "#".
type Element struct {
	Container
	Position

	TagName     string
	StaticClass string // space separated .class tokens
	StaticID    string // last #id token

	// AttributeText is the legacy {...} text followed by the normalized (...)
	// pairs, joined with ", ".
	AttributeText string

	// ObjectRef is the text between [ and ], nil when there is no object reference.
	ObjectRef *string

	// OnelineChild is the content given on the same line as the tag. An element
	// has either OnelineChild or children, never both.
	OnelineChild Node

	SelfClosing         bool
	NukeInnerWhitespace bool
	NukeOuterWhitespace bool
}

// Void reports whether the tag is an HTML void element, which a code
// generator may close without an explicit "/".
func (e *Element) Void() bool {
	switch atom.Lookup([]byte(e.TagName)) {
	case atom.Area, atom.Base, atom.Br, atom.Col, atom.Embed, atom.Hr, atom.Img, atom.Input,
		atom.Keygen, atom.Link, atom.Meta, atom.Param, atom.Source, atom.Track, atom.Wbr:
		return true
	}
	return false
}

// Script is an expression whose value is inserted into the output ("=", "~",
// "&=", "!=").
type Script struct {
	Container
	Position

	Script string

	// Keyword is the block keyword the script starts with ("if", "case", ...),
	// empty when there is none.
	Keyword string

	EscapeHTML bool
	Preserve   bool
}

// SilentScript is a "-" line: code that is run but not inserted.
type SilentScript struct {
	Container
	Position

	Script string

	// MidBlockKeyword is set when the script opens a block that a later
	// sibling at the same level may continue (e.g. "if" followed by "else").
	MidBlockKeyword bool
}

// HTMLComment is a "/" line.
type HTMLComment struct {
	Container
	Position

	Comment     string
	Conditional string // text between [ and ] of a conditional comment
}

// HamlComment is a "-#" line. Its nested lines are kept as Text children and
// are never interpreted.
type HamlComment struct {
	Container
	Position
}

// Text is plain text.
type Text struct {
	Position

	Text       string
	EscapeHTML bool
}

// Filter is a ":name" block holding its nested lines verbatim.
type Filter struct {
	Position

	Name  string
	Texts []string
}

// Empty stands for a blank source line, or for a line consumed by a
// multi-line construct.
type Empty struct {
	Position
}

func (*Root) node()         {}
func (*Doctype) node()      {}
func (*Element) node()      {}
func (*Script) node()       {}
func (*SilentScript) node() {}
func (*HTMLComment) node()  {}
func (*HamlComment) node()  {}
func (*Text) node()         {}
func (*Filter) node()       {}
func (*Empty) node()        {}

// nodeStack is the stack of open scopes.
type nodeStack []container

// push adds c on top of the stack.
func (s *nodeStack) push(c container) {
	*s = append(*s, c)
}

// pop pops the stack. It will panic if the stack is empty.
func (s *nodeStack) pop() container {
	i := len(*s)
	n := (*s)[i-1]
	*s = (*s)[:i-1]
	return n
}

// top returns the most recently pushed node, or nil if the stack is empty.
func (s *nodeStack) top() container {
	if i := len(*s); i > 0 {
		return (*s)[i-1]
	}
	return nil
}
