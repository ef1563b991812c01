package channel

// connectPins attaches the pins of the current column to tracks. A pin that
// cannot be attached is left pending for the widener.
func (r *Router) connectPins() {
	r.topPending, r.bottomPending = false, false
	x := r.col
	if x >= r.length {
		return
	}
	top, bottom := r.pins.Top[x], r.pins.Bottom[x]
	r.topPending, r.bottomPending = top != 0, bottom != 0

	// A net whose only pins face each other in this column crosses a full
	// channel directly.
	if top != 0 && top == bottom && len(r.free()) == 0 && len(r.tracks[top]) == 0 {
		if _, more := r.NextPin(top, SideAny); !more {
			r.addVertical(top, 0, r.width+1)
			r.topPending, r.bottomPending = false, false
			return
		}
	}

	bt, okBottom := r.nearest(bottom, SideBottom)
	tt, okTop := r.nearest(top, SideTop)

	if okBottom && okTop {
		switch {
		case top == bottom || bt < tt:
			r.attach(bottom, SideBottom, bt)
			r.attach(top, SideTop, tt)
		case bt < r.width+1-tt:
			r.attach(bottom, SideBottom, bt)
		default:
			r.attach(top, SideTop, tt)
		}
		return
	}
	if okBottom {
		r.attach(bottom, SideBottom, bt)
	}
	if okTop {
		r.attach(top, SideTop, tt)
	}
}

// connectSide retries one pending pin of the current column.
func (r *Router) connectSide(side Side) bool {
	net := r.pins.Bottom[r.col]
	if side == SideTop {
		net = r.pins.Top[r.col]
	}
	t, ok := r.nearest(net, side)
	if ok {
		r.attach(net, side, t)
	}
	return ok
}

// nearest picks the track closest to side among the free tracks and the
// tracks net already holds.
func (r *Router) nearest(net int, side Side) (int, bool) {
	if net == 0 {
		return 0, false
	}
	candidates := append(r.free(), r.tracks[net].sorted()...)
	if len(candidates) == 0 {
		return 0, false
	}
	best := candidates[0]
	for _, t := range candidates[1:] {
		if (side == SideBottom && t < best) || (side == SideTop && t > best) {
			best = t
		}
	}
	return best, true
}

// attach runs the pin wire from side to track and claims the track.
func (r *Router) attach(net int, side Side, track int) {
	r.tracks[net].add(track)
	if side == SideBottom {
		r.addVertical(net, 0, track)
		r.bottomPending = false
		return
	}
	r.addVertical(net, track, r.width+1)
	r.topPending = false
}
