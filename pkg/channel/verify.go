package channel

import (
	errs "github.com/matzehuels/chanroute/pkg/errors"
)

// Verify checks that no two nets collide. Vertical and horizontal wires live
// on separate layers, so a vertical wire of one net may cross a horizontal
// wire of another. Within a layer no grid node may belong to two nets, and a
// vertical wire may not end on a node another net uses horizontally.
//
// Verify holds after every phase of a partial routing, so it does not look
// at connectivity. VerifyConnected does, for a finished one.
func Verify(g WireGraph) error {
	vertical := make(map[Point]int)
	horizontal := make(map[Point]int)
	type via struct {
		at  Point
		net int
	}
	var vias []via

	for _, n := range g.Nets() {
		for _, s := range g[n] {
			layer, name := horizontal, "horizontal"
			if s.Vertical() {
				layer, name = vertical, "vertical"
				vias = append(vias, via{s.From, n}, via{s.To, n})
			}
			for _, p := range s.points() {
				if o, ok := layer[p]; ok && o != n {
					return errs.New(errs.ErrCodeInvariant, "nets %d and %d share %s node %s", o, n, name, p)
				}
				layer[p] = n
			}
		}
	}
	for _, v := range vias {
		if o, ok := horizontal[v.at]; ok && o != v.net {
			return errs.New(errs.ErrCodeInvariant, "net %d ends a vertical wire on track %d of net %d at %s",
				v.net, v.at.Track, o, v.at)
		}
	}
	return nil
}

// VerifyConnected checks a finished routing of pins in a channel of the given
// width: every pin of a net lies on that net's wires, bottom pins on track 0
// and top pins on track width+1, and the wires of each net form one
// connected tree.
func VerifyConnected(pins Pins, width int, g WireGraph) error {
	for _, n := range pins.Nets() {
		segs := g[n]
		if len(segs) == 0 {
			return errs.New(errs.ErrCodeInvariant, "net %d has no wires", n)
		}
		parent := make(map[Point]Point)
		var find func(Point) Point
		find = func(p Point) Point {
			q, ok := parent[p]
			if !ok || q == p {
				parent[p] = p
				return p
			}
			root := find(q)
			parent[p] = root
			return root
		}
		for _, s := range segs {
			prev := s.From
			find(prev)
			for _, u := range s.units() {
				parent[find(u.To)] = find(prev)
				prev = u.To
			}
		}
		for col := range pins.Len() {
			for _, pin := range []Point{{col, 0}, {col, width + 1}} {
				row := pins.Bottom
				if pin.Track != 0 {
					row = pins.Top
				}
				if row[col] != n {
					continue
				}
				if _, ok := parent[pin]; !ok {
					return errs.New(errs.ErrCodeInvariant, "net %d does not reach its pin at %s", n, pin)
				}
			}
		}
		roots := make(map[Point]struct{})
		for p := range parent {
			roots[find(p)] = struct{}{}
		}
		if len(roots) > 1 {
			return errs.New(errs.ErrCodeInvariant, "net %d is split into %d pieces", n, len(roots))
		}
	}
	return nil
}

// points lists every grid node on the segment.
func (s Segment) points() []Point {
	out := []Point{s.From}
	for _, u := range s.units() {
		out = append(out, u.To)
	}
	return out
}
