package models

// Side identifies one edge of a block.
type Side int

const (
	SideTop Side = iota
	SideBottom
	SideLeft
	SideRight
)

// sideNames is indexed by Side.
var sideNames = [...]string{"top", "bottom", "left", "right"}

func (s Side) String() string {
	if s < SideTop || s > SideRight {
		return "unknown"
	}
	return sideNames[s]
}

// Opposite returns the facing side (top<->bottom, left<->right).
func (s Side) Opposite() Side {
	switch s {
	case SideTop:
		return SideBottom
	case SideBottom:
		return SideTop
	case SideLeft:
		return SideRight
	default:
		return SideLeft
	}
}

// IsHorizontal reports whether the side joins blocks on the same row.
func (s Side) IsHorizontal() bool {
	return s == SideLeft || s == SideRight
}

// Sides lists all four sides in a stable order.
var Sides = []Side{SideTop, SideBottom, SideLeft, SideRight}

// ParseSide converts a wire-format side name back to a Side.
func ParseSide(name string) (Side, bool) {
	for i, n := range sideNames {
		if n == name {
			return Side(i), true
		}
	}
	return SideTop, false
}

// SocketShape is the jigsaw profile of one block edge.
type SocketShape int

const (
	ShapeFlat SocketShape = iota
	ShapeTab
	ShapeSlot
)

func (sh SocketShape) String() string {
	switch sh {
	case ShapeTab:
		return "tab"
	case ShapeSlot:
		return "slot"
	default:
		return "flat"
	}
}

// Complement returns the shape that fits against this one.
// Flat edges mate with flat edges.
func (sh SocketShape) Complement() SocketShape {
	switch sh {
	case ShapeTab:
		return ShapeSlot
	case ShapeSlot:
		return ShapeTab
	default:
		return ShapeFlat
	}
}

// Pattern holds the socket shape of each edge of a block.
type Pattern struct {
	Top    SocketShape `json:"top"`
	Bottom SocketShape `json:"bottom"`
	Left   SocketShape `json:"left"`
	Right  SocketShape `json:"right"`
}

// Side returns the shape on the given side.
func (p Pattern) Side(s Side) SocketShape {
	switch s {
	case SideTop:
		return p.Top
	case SideBottom:
		return p.Bottom
	case SideLeft:
		return p.Left
	default:
		return p.Right
	}
}

// Point is a position on the puzzle canvas.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Block is one draggable source-code fragment on the board.
type Block struct {
	ID      int     `json:"id"`
	Text    string  `json:"text"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Color   string  `json:"color"`
	Pattern Pattern `json:"pattern"`
	// Distractor marks fragments that belong to no canonical line.
	Distractor bool `json:"distractor"`
}

// Pos returns the block's top-left corner.
func (b Block) Pos() Point {
	return Point{X: b.X, Y: b.Y}
}

// Link is one stored edge of the connection graph. Only the
// canonical direction is persisted; the reverse edge is implied.
type Link struct {
	From int    `json:"from"`
	Side string `json:"side"`
	To   int    `json:"to"`
}
