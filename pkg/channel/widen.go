package channel

// insertionTrack picks where a new track goes for a pin on side: as close to
// the middle as possible while staying reachable from side without crossing
// a vertical wire already placed in this column.
func (r *Router) insertionTrack(side Side) int {
	mid := r.width/2 + 1
	verticals := r.columnVerticals()
	if side == SideBottom {
		limit := r.width + 1
		for _, v := range verticals {
			limit = min(limit, v.low)
		}
		return max(1, min(limit, mid))
	}
	limit := 1
	for _, v := range verticals {
		limit = max(limit, v.high+1)
	}
	return min(r.width+1, max(limit, mid))
}

// widen inserts a free track for a pin on side and returns its index. Every
// track at or above it moves up by one, in the track sets and in every
// recorded segment endpoint.
func (r *Router) widen(side Side) int {
	at := r.insertionTrack(side)
	r.insertTrack(at)
	return at
}

func (r *Router) insertTrack(at int) {
	r.width++
	r.widenings++

	shift := func(t int) int {
		if t >= at {
			return t + 1
		}
		return t
	}
	for _, n := range r.nets {
		moved := make(trackSet, len(r.tracks[n]))
		for t := range r.tracks[n] {
			moved.add(shift(t))
		}
		r.tracks[n] = moved
	}
	for n, segs := range r.wires {
		for i := range segs {
			segs[i].From.Track = shift(segs[i].From.Track)
			segs[i].To.Track = shift(segs[i].To.Track)
		}
		r.wires[n] = segs
	}
}
