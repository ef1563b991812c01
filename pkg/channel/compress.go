package channel

import "sort"

// scout walks from track toward goal and returns the farthest cell the net
// can land on. Vertical wires of other nets stop the walk; tracks held by
// other nets can be crossed but not landed on.
func (r *Router) scout(net, track, goal int) int {
	if goal == track {
		return track
	}
	step := 1
	if goal < track {
		step = -1
	}
	verticals := r.columnVerticals()
	marker := track
	for i := track + step; i != goal+step; i += step {
		if blocked(verticals, net, i) {
			break
		}
		if o := r.owner(i); o != 0 && o != net {
			continue
		}
		marker = i
	}
	return marker
}

func blocked(verticals []span, net, track int) bool {
	for _, v := range verticals {
		if v.net != net && v.covers(track) {
			return true
		}
	}
	return false
}

// move jogs net from track to dest and records the wire.
func (r *Router) move(net, track, dest int) {
	if dest == track {
		return
	}
	r.tracks[net].remove(track)
	r.tracks[net].add(dest)
	r.addVertical(net, track, dest)
	r.jogs++
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// compressSplitNets pulls the outermost tracks of every split net toward
// each other.
func (r *Router) compressSplitNets() {
	for _, n := range r.SplitNets() {
		r.compressSplitNet(n)
	}
}

// compressSplitNet computes both targets before moving either track so the
// first move cannot shorten the second.
func (r *Router) compressSplitNet(net int) {
	ts := r.tracks[net].sorted()
	if len(ts) < 2 {
		return
	}
	low, high := ts[0], ts[len(ts)-1]
	lowDest := r.scout(net, low, ts[1])
	highDest := r.scout(net, high, ts[len(ts)-2])

	if abs(highDest-high) >= r.cfg.MinJogLength {
		r.move(net, high, highDest)
	}
	// The high move may already have merged the net onto one track.
	if len(r.tracks[net]) > 1 && r.tracks[net].has(low) && abs(lowDest-low) >= r.cfg.MinJogLength {
		r.move(net, low, lowDest)
	}
}

// pushUnsplitNets moves single-track nets toward the edge of their next pin,
// longest achievable move first. Equal distances keep ascending net order.
func (r *Router) pushUnsplitNets() {
	type push struct {
		distance, net, track, goal int
	}
	var pushes []push
	for _, n := range r.nets {
		if len(r.tracks[n]) != 1 {
			continue
		}
		var goal int
		switch r.Classify(n) {
		case Rising:
			goal = r.width
		case Falling:
			goal = 1
		default:
			continue
		}
		track := r.tracks[n].sorted()[0]
		d := abs(r.scout(n, track, goal) - track)
		if d >= r.cfg.MinJogLength {
			pushes = append(pushes, push{d, n, track, goal})
		}
	}

	sort.SliceStable(pushes, func(i, j int) bool { return pushes[i].distance > pushes[j].distance })
	for _, p := range pushes {
		// Earlier pushes may have blocked part of the way.
		dest := r.scout(p.net, p.track, p.goal)
		if abs(dest-p.track) >= r.cfg.MinJogLength {
			r.move(p.net, p.track, dest)
		}
	}
}
