// Package scenegraph defines the immutable per-frame labelled directed
// graph consumed by the property monitor: nodes carry a name, an
// optional base class, and a bag of attributes; edges carry a single
// label. A graph also owns a small mutable scratch area (a predicate
// memoisation cache) that lives only as long as the frame itself.
//
// Graphs are built once per frame by an upstream acquisition step
// (scene-graph deserialisation and phantom-node backfill are both out
// of scope for this module, only their output, a Graph value, is
// consumed here) and are never mutated afterwards except through the
// Cache field.
package scenegraph

import "fmt"

// EntityIDAttr is the attribute key under which a node's stable
// cross-frame identity is stored, when it differs from Name.
const EntityIDAttr = "entity_id"

// Node is a single vertex of a scene graph.
//
// ID returns attr["entity_id"] when present, else Name, this is the
// identity nodes are compared by across frames; within a frame nodes
// are additionally distinguishable by pointer.
type Node struct {
	Name      string
	BaseClass string
	Attr      map[string]interface{}
	// Phantom marks a node re-inserted by the upstream backfill step to
	// preserve presence across frames when no fresh observation exists.
	Phantom bool
}

// NewNode constructs a Node with a defensively-copied attribute map.
func NewNode(name, baseClass string, attr map[string]interface{}) *Node {
	n := &Node{Name: name, BaseClass: baseClass, Attr: make(map[string]interface{}, len(attr))}
	for k, v := range attr {
		n.Attr[k] = v
	}
	return n
}

// ID returns the node's cross-frame identity.
func (n *Node) ID() string {
	if n == nil {
		return ""
	}
	if v, ok := n.Attr[EntityIDAttr]; ok {
		if s, ok := v.(string); ok && s != "" {
			return s
		}
	}
	return n.Name
}

func (n *Node) String() string {
	return n.Name
}

// Edge is a single labelled directed arc between two nodes, identified
// by their IDs (not by pointer, edges are built before the graph's
// internal node index exists).
type Edge struct {
	From  string
	To    string
	Label string
}

// Graph is an immutable-after-construction multi-digraph, keyed by
// node identity, plus per-frame scratch state.
//
// Frame is the monotone frame index as a string (natural-sort-ordered
// per spec.md §6). Name is the source file name for diagnostics. Cache
// is cleared implicitly by being fresh per Graph, no explicit
// invalidation method is provided or required (see SPEC_FULL.md §9,
// "Open Question resolution: per-frame cache scope").
type Graph struct {
	Frame string
	Name  string
	Cache map[string]interface{}

	nodesByID map[string]*Node
	allNodes  []*Node
	out       map[string][]Edge // nodeID -> outgoing edges
	in        map[string][]Edge // nodeID -> incoming edges
}

// New builds a Graph from an explicit node and edge list. Edge
// endpoints are matched against node IDs (Node.ID()); an edge
// referencing an unknown node ID is dropped (the upstream phantom-node
// backfill step is responsible for ensuring referential integrity;
// this module only consumes the result).
func New(frame, name string, nodes []*Node, edges []Edge) *Graph {
	g := &Graph{
		Frame:     frame,
		Name:      name,
		Cache:     make(map[string]interface{}),
		nodesByID: make(map[string]*Node, len(nodes)),
		allNodes:  make([]*Node, 0, len(nodes)),
		out:       make(map[string][]Edge),
		in:        make(map[string][]Edge),
	}
	for _, n := range nodes {
		if n == nil {
			continue
		}
		id := n.ID()
		g.nodesByID[id] = n
		g.allNodes = append(g.allNodes, n)
	}
	for _, e := range edges {
		if _, ok := g.nodesByID[e.From]; !ok {
			continue
		}
		if _, ok := g.nodesByID[e.To]; !ok {
			continue
		}
		g.out[e.From] = append(g.out[e.From], e)
		g.in[e.To] = append(g.in[e.To], e)
	}
	return g
}

// Nodes returns every node in the graph, in construction order.
func (g *Graph) Nodes() []*Node {
	return g.allNodes
}

// NodeByID looks up a node by its identity, or returns (nil, false).
func (g *Graph) NodeByID(id string) (*Node, bool) {
	n, ok := g.nodesByID[id]
	return n, ok
}

// Ego returns the unique node with Name == "ego", or nil if none
// exists. If more than one exists, the first encountered wins, this
// matches the upstream scene-graph acquisition step, which guarantees
// at most one ego node per frame in practice.
func (g *Graph) Ego() *Node {
	for _, n := range g.allNodes {
		if n.Name == "ego" {
			return n
		}
	}
	return nil
}

// EdgeDirection selects which side of a relation to traverse.
type EdgeDirection int

const (
	// Outgoing follows edges where the queried node is the source.
	Outgoing EdgeDirection = iota
	// Incoming follows edges where the queried node is the destination.
	Incoming
)

func (d EdgeDirection) String() string {
	if d == Incoming {
		return "incoming"
	}
	return "outgoing"
}

// Related returns, for a given node ID and relation label, the set of
// neighbour node IDs reachable by one edge in the requested direction.
func (g *Graph) Related(nodeID, label string, dir EdgeDirection) []string {
	var edges []Edge
	if dir == Incoming {
		edges = g.in[nodeID]
	} else {
		edges = g.out[nodeID]
	}
	var out []string
	for _, e := range edges {
		if e.Label != label {
			continue
		}
		if dir == Incoming {
			out = append(out, e.From)
		} else {
			out = append(out, e.To)
		}
	}
	return out
}

// CacheGet reads a previously memoised predicate evaluation result.
func (g *Graph) CacheGet(key string) (interface{}, bool) {
	v, ok := g.Cache[key]
	return v, ok
}

// CachePut stores a predicate evaluation result under key, including
// an Unbound result, deliberately: re-evaluating the same symbol
// under the same binding in the same frame must return the identical
// (possibly Unbound) result, per spec.md Testable Property 3.
func (g *Graph) CachePut(key string, value interface{}) {
	g.Cache[key] = value
}

func (g *Graph) String() string {
	return fmt.Sprintf("Graph(frame=%s, name=%s, nodes=%d)", g.Frame, g.Name, len(g.allNodes))
}
