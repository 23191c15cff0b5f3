package parse

// NodeKind identifies the variant of a body element.
type NodeKind int

const (
	KindText NodeKind = iota
	KindExpr
	KindCond
	KindLoop
	KindCall
)

// Node is one element of a template body. Block-structured nodes carry
// nested bodies, so the tree nests to a depth bounded only by the input.
type Node interface {
	Kind() NodeKind
	Pos() int // byte offset of the element in the source
}

// TextNode is a run of literal output text.
type TextNode struct {
	Text string
	pos  int
}

func (n *TextNode) Kind() NodeKind { return KindText }
func (n *TextNode) Pos() int       { return n.pos }

// ExprNode is an interpolation. Expr is an opaque host-language expression
// span; its value is escaped at render time unless wrapped in the raw
// marker type.
type ExprNode struct {
	Expr string
	pos  int
}

func (n *ExprNode) Kind() NodeKind { return KindExpr }
func (n *ExprNode) Pos() int       { return n.pos }

// Branch is one conditioned arm of a conditional chain.
type Branch struct {
	Cond string
	Body []Node
}

// CondNode is an if / else if / else chain. Branches are in source order;
// the optional condition-less arm is Else and is always last.
type CondNode struct {
	Branches []Branch
	Else     []Node
	HasElse  bool
	pos      int
}

func (n *CondNode) Kind() NodeKind { return KindCond }
func (n *CondNode) Pos() int       { return n.pos }

// LoopNode iterates Source, binding Pattern for each element.
type LoopNode struct {
	Pattern string
	Source  string
	Body    []Node
	pos     int
}

func (n *LoopNode) Kind() NodeKind { return KindLoop }
func (n *LoopNode) Pos() int       { return n.pos }

// CallNode invokes another generated template. Name is resolved at code
// generation time against the module tree; forward and cross-directory
// references are legal here.
type CallNode struct {
	Name string
	Args []string
	pos  int
}

func (n *CallNode) Kind() NodeKind { return KindCall }
func (n *CallNode) Pos() int       { return n.pos }

// Param is one declared template parameter. Type is passed through to the
// generated source verbatim.
type Param struct {
	Name string
	Type string
}

// Template is the parsed form of one template file, immutable after a
// successful parse and consumed exactly once by the code generator.
type Template struct {
	Params []Param
	Body   []Node
}
