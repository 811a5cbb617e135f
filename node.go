package canvas

// NodeType is the kind of content a node renders.
type NodeType string

const (
	NodeTypeText        NodeType = "text"
	NodeTypeAIGenerated NodeType = "ai-generated"
	NodeTypeImage       NodeType = "image"
	NodeTypeShape       NodeType = "shape"
)

// CanvasNode is a positioned item on the canvas. Position is the node's
// centre in world units; Size is in world units.
type CanvasNode struct {
	ID       string         `json:"id"`
	Type     NodeType       `json:"type"`
	Content  string         `json:"content"`
	Position Position       `json:"position"`
	Size     Size           `json:"size"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// Bounds returns the node's world-space bounding box, centred on Position.
func (n CanvasNode) Bounds() Rect {
	return Rect{
		X:      n.Position.X - n.Size.Width/2,
		Y:      n.Position.Y - n.Size.Height/2,
		Width:  n.Size.Width,
		Height: n.Size.Height,
	}
}

// Contains reports whether the world point p lies inside the node's box.
// Edges count as inside.
func (n CanvasNode) Contains(p Position) bool {
	return n.Bounds().Contains(p.X, p.Y)
}

// Clone returns a copy that shares no mutable state with n.
func (n CanvasNode) Clone() CanvasNode {
	n.Metadata = cloneMap(n.Metadata)
	return n
}

func cloneMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return cloneMap(t)
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = cloneValue(e)
		}
		return out
	default:
		return v
	}
}

// NodePatch selects which fields UpdateNode overwrites. Nil fields are left
// alone. The id is not patchable.
type NodePatch struct {
	Type     *NodeType
	Content  *string
	Position *Position
	Size     *Size
	Metadata map[string]any
}

func (p NodePatch) apply(n *CanvasNode) {
	if p.Type != nil {
		n.Type = *p.Type
	}
	if p.Content != nil {
		n.Content = *p.Content
	}
	if p.Position != nil {
		n.Position = *p.Position
	}
	if p.Size != nil {
		n.Size = *p.Size
	}
	if p.Metadata != nil {
		n.Metadata = cloneMap(p.Metadata)
	}
}

// DemoNodes returns a small seed graph: a text node at the origin, a red
// circle to the upper left, and an AI node to the lower right.
func DemoNodes() []CanvasNode {
	return []CanvasNode{
		{
			ID:       "1",
			Type:     NodeTypeText,
			Content:  "Center Node",
			Position: Position{X: 0, Y: 0},
			Size:     Size{Width: 150, Height: 80},
		},
		{
			ID:       "2",
			Type:     NodeTypeShape,
			Position: Position{X: -300, Y: -200},
			Size:     Size{Width: 100, Height: 100},
			Metadata: map[string]any{"color": "#ef4444", "shape": "circle"},
		},
		{
			ID:       "3",
			Type:     NodeTypeAIGenerated,
			Content:  "AI Insights",
			Position: Position{X: 300, Y: 200},
			Size:     Size{Width: 200, Height: 120},
		},
	}
}

// --- Store ---

// nodeStore keeps nodes in paint order (last is topmost) with an id→index
// map. Callers receive clones, never pointers into the slice.
type nodeStore struct {
	nodes []CanvasNode
	index map[string]int
}

func newNodeStore() *nodeStore {
	return &nodeStore{index: make(map[string]int)}
}

func (s *nodeStore) len() int {
	return len(s.nodes)
}

func (s *nodeStore) has(id string) bool {
	_, ok := s.index[id]
	return ok
}

// get returns a pointer into the store. It is only valid until the next
// structural change.
func (s *nodeStore) get(id string) *CanvasNode {
	i, ok := s.index[id]
	if !ok {
		return nil
	}
	return &s.nodes[i]
}

func (s *nodeStore) append(n CanvasNode) {
	s.index[n.ID] = len(s.nodes)
	s.nodes = append(s.nodes, n)
}

func (s *nodeStore) remove(id string) (CanvasNode, bool) {
	i, ok := s.index[id]
	if !ok {
		return CanvasNode{}, false
	}
	removed := s.nodes[i]
	copy(s.nodes[i:], s.nodes[i+1:])
	s.nodes[len(s.nodes)-1] = CanvasNode{}
	s.nodes = s.nodes[:len(s.nodes)-1]
	delete(s.index, id)
	s.reindex(i)
	return removed, true
}

// raise moves id to the end of the paint order. Returns false if id is
// unknown; already-topmost nodes are left in place.
func (s *nodeStore) raise(id string) bool {
	i, ok := s.index[id]
	if !ok {
		return false
	}
	last := len(s.nodes) - 1
	if i == last {
		return true
	}
	n := s.nodes[i]
	copy(s.nodes[i:], s.nodes[i+1:])
	s.nodes[last] = n
	s.reindex(i)
	return true
}

func (s *nodeStore) reindex(from int) {
	for i := from; i < len(s.nodes); i++ {
		s.index[s.nodes[i].ID] = i
	}
}

// replace swaps the whole node set.
func (s *nodeStore) replace(nodes []CanvasNode) {
	s.nodes = nodes
	s.index = make(map[string]int, len(nodes))
	s.reindex(0)
}

// topmostAt scans back to front and returns the index of the first node
// containing p, or -1.
func (s *nodeStore) topmostAt(p Position) int {
	for i := len(s.nodes) - 1; i >= 0; i-- {
		if s.nodes[i].Contains(p) {
			return i
		}
	}
	return -1
}

func (s *nodeStore) snapshot() []CanvasNode {
	out := make([]CanvasNode, len(s.nodes))
	for i := range s.nodes {
		out[i] = s.nodes[i].Clone()
	}
	return out
}

func (s *nodeStore) clear() {
	s.nodes = nil
	s.index = make(map[string]int)
}
