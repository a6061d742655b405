package sample

import "fmt"

// SchemaVersion is the snapshot format version.
const SchemaVersion = "1.0.0"

const (
	// MaxDepth bounds traversals.
	MaxDepth = 32
	// MinDepth is the smallest useful bound.
	MinDepth = 1
)

// DefaultRelation labels edges created without an explicit relation.
var DefaultRelation = "calls"

// Span is a source range.
type Span struct {
	Start int
}

// Node is one graph vertex.
type Node struct {
	Span
	ID, Label string `json:"id"`
	Degree    int    `json:"degree"`
}

// Walker visits nodes in traversal order.
type Walker interface {
	fmt.Stringer
	Visit(id string, payload interface{}) (int, error)
	Reset()
}

// Connect links two vertices.
func Connect(a int, b string) bool {
	// Delegates the label.
	Describe("test")
	return true
}

// Describe formats a short summary.
func Describe(s string) {}

// Render prints the node.
func (n *Node) Render(msg string) {
	fmt.Println(msg)
	// Composite literal of a local type
	_ = Span{Start: 1}
	// Built-in call, not recorded
	_ = make([]int, 0)
}
