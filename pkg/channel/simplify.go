package channel

import "sort"

// Ports is the set of directions in which a grid node connects to a
// neighbour of the same net.
type Ports uint8

const (
	PortN Ports = 1 << iota
	PortS
	PortE
	PortW
)

// Straight reports whether the node only passes a wire through.
func (p Ports) Straight() bool { return p == PortN|PortS || p == PortE|PortW }

func direction(from, to Point) Ports {
	switch {
	case to.Track > from.Track:
		return PortN
	case to.Track < from.Track:
		return PortS
	case to.Col > from.Col:
		return PortE
	default:
		return PortW
	}
}

// SimpleEdge is a straight run between two nodes of a simplified net.
type SimpleEdge struct {
	From Point `json:"from" bson:"from"`
	To   Point `json:"to" bson:"to"`
	Net  int   `json:"net" bson:"net"`
}

// Simplified is the graph of one net reduced to its endpoints, bends and
// junctions.
type Simplified struct {
	Nodes []Point      `json:"nodes" bson:"nodes"`
	Edges []SimpleEdge `json:"edges" bson:"edges"`
}

// adjacency is an undirected graph over grid points.
type adjacency map[Point]map[Point]bool

func (a adjacency) link(p, q Point) {
	if p == q {
		return
	}
	for _, e := range [][2]Point{{p, q}, {q, p}} {
		if a[e[0]] == nil {
			a[e[0]] = make(map[Point]bool)
		}
		a[e[0]][e[1]] = true
	}
}

func (a adjacency) ports(p Point) Ports {
	var out Ports
	for q := range a[p] {
		out |= direction(p, q)
	}
	return out
}

// Profiles returns the port profile of every grid node touched by segs.
func Profiles(segs []Segment) map[Point]Ports {
	a := make(adjacency)
	for _, s := range segs {
		for _, u := range s.units() {
			a.link(u.From, u.To)
		}
	}
	out := make(map[Point]Ports, len(a))
	for p := range a {
		out[p] = a.ports(p)
	}
	return out
}

// Simplify reduces every net of g to its critical nodes: the nodes whose
// port profile is not a straight pass-through. g is not modified.
func Simplify(g WireGraph) map[int]Simplified {
	out := make(map[int]Simplified, len(g))
	for _, n := range g.Nets() {
		a := make(adjacency)
		for _, s := range g[n] {
			for _, u := range s.units() {
				a.link(u.From, u.To)
			}
		}
		out[n] = a.contract(n)
	}
	return out
}

// SimplifyGraph runs the same reduction on an already simplified net. The
// result equals s whenever s came from Simplify.
func SimplifyGraph(s Simplified) Simplified {
	a := make(adjacency)
	net := 0
	for _, e := range s.Edges {
		a.link(e.From, e.To)
		net = e.Net
	}
	out := a.contract(net)
	// Isolated nodes carry no edge and survive unchanged.
	for _, p := range s.Nodes {
		if _, ok := a[p]; !ok {
			out.Nodes = append(out.Nodes, p)
		}
	}
	sortPoints(out.Nodes)
	return out
}

func (a adjacency) contract(net int) Simplified {
	critical := make(map[Point]bool)
	for p := range a {
		if !a.ports(p).Straight() {
			critical[p] = true
		}
	}

	var nodes []Point
	for p := range critical {
		nodes = append(nodes, p)
	}
	sortPoints(nodes)

	seen := make(map[[2]Point]bool)
	var edges []SimpleEdge
	for _, c := range nodes {
		for nb := range a[c] {
			prev, cur := c, nb
			for !critical[cur] {
				for q := range a[cur] {
					if q != prev {
						prev, cur = cur, q
						break
					}
				}
			}
			e := SimpleEdge{From: c, To: cur, Net: net}
			if cur.Less(c) {
				e.From, e.To = cur, c
			}
			if k := [2]Point{e.From, e.To}; !seen[k] {
				seen[k] = true
				edges = append(edges, e)
			}
		}
	}
	sort.Slice(edges, func(i, j int) bool {
		if edges[i].From != edges[j].From {
			return edges[i].From.Less(edges[j].From)
		}
		return edges[i].To.Less(edges[j].To)
	})
	return Simplified{Nodes: nodes, Edges: edges}
}

func sortPoints(ps []Point) {
	sort.Slice(ps, func(i, j int) bool { return ps[i].Less(ps[j]) })
}
