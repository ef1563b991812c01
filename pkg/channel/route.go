package channel

import (
	"context"
	"math"

	errs "github.com/matzehuels/chanroute/pkg/errors"
)

// Phase names a step of the per-column sequence.
type Phase int

const (
	PhaseConnect Phase = iota
	PhaseCollapse
	PhaseCompress
	PhasePush
	PhaseWiden
	PhaseExtend
)

var phaseNames = [...]string{"connect", "collapse", "compress", "push", "widen", "extend"}

func (p Phase) String() string {
	if int(p) < len(phaseNames) {
		return phaseNames[p]
	}
	return "unknown"
}

// Observer is notified after every phase of every column. The Router passed
// in must only be read.
type Observer interface {
	OnPhase(r *Router, col int, p Phase)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(r *Router, col int, p Phase)

// OnPhase calls f.
func (f ObserverFunc) OnPhase(r *Router, col int, p Phase) { f(r, col, p) }

// SetObserver installs o; nil removes it.
func (r *Router) SetObserver(o Observer) { r.observer = o }

// Result is a completed routing.
type Result struct {
	Pins   Pins   `json:"pins"`
	Config Config `json:"config"`

	// Width is the final number of tracks.
	Width int `json:"width"`
	// Columns is the number of columns processed, including any past the
	// last pin.
	Columns int `json:"columns"`

	Wires      WireGraph          `json:"wires"`
	Simplified map[int]Simplified `json:"simplified"`

	Widenings int `json:"widenings"`
	Jogs      int `json:"jogs"`
	Tries     int `json:"tries"`
}

// Stats summarizes a result.
type Stats struct {
	InitialWidth int `json:"initial_width" bson:"initial_width"`
	Width        int `json:"width" bson:"width"`
	Columns      int `json:"columns" bson:"columns"`
	Nets         int `json:"nets" bson:"nets"`
	Segments     int `json:"segments" bson:"segments"`
	WireLength   int `json:"wire_length" bson:"wire_length"`
	Widenings    int `json:"widenings" bson:"widenings"`
	Jogs         int `json:"jogs" bson:"jogs"`
	Tries        int `json:"tries" bson:"tries"`
}

// Stats computes summary figures.
func (res *Result) Stats() Stats {
	return Stats{
		InitialWidth: res.Config.InitialWidth,
		Width:        res.Width,
		Columns:      res.Columns,
		Nets:         len(res.Wires),
		Segments:     res.Wires.SegmentCount(),
		WireLength:   res.Wires.WireLength(),
		Widenings:    res.Widenings,
		Jogs:         res.Jogs,
		Tries:        res.Tries,
	}
}

// extendNets releases finished nets and carries every other held track into
// the next column.
func (r *Router) extendNets() {
	for _, n := range r.nets {
		ts := r.tracks[n]
		if len(ts) == 1 {
			if _, more := r.NextPin(n, SideAny); !more {
				r.tracks[n] = make(trackSet)
				continue
			}
		}
		for _, t := range ts.sorted() {
			r.addHorizontal(n, t)
		}
	}
}

// Step routes the current column and advances to the next one.
func (r *Router) Step() error {
	r.connectPins()
	if err := r.after(PhaseConnect); err != nil {
		return err
	}

	r.collapseSplitNets()
	if err := r.after(PhaseCollapse); err != nil {
		return err
	}

	r.compressSplitNets()
	if err := r.after(PhaseCompress); err != nil {
		return err
	}

	r.pushUnsplitNets()
	if err := r.after(PhasePush); err != nil {
		return err
	}

	for _, side := range []Side{SideTop, SideBottom} {
		pending := r.topPending
		if side == SideBottom {
			pending = r.bottomPending
		}
		if !pending {
			continue
		}
		r.widen(side)
		if !r.connectSide(side) {
			return errs.New(errs.ErrCodeUnroutable, "%s pin at column %d stays unconnected after widening", side, r.col)
		}
	}
	if err := r.after(PhaseWiden); err != nil {
		return err
	}

	r.extendNets()
	if err := r.after(PhaseExtend); err != nil {
		return err
	}
	r.col++
	return nil
}

func (r *Router) after(p Phase) error {
	if r.cfg.Verify {
		if err := Verify(r.wires); err != nil {
			return errs.Wrap(errs.ErrCodeInvariant, err, "after %s at column %d", p, r.col)
		}
	}
	if r.observer != nil {
		r.observer.OnPhase(r, r.col, p)
	}
	return nil
}

// Done reports whether routing has terminated.
func (r *Router) Done() bool { return r.finished() }

// cutoff is the column count at which an unfinished attempt is abandoned.
func (r *Router) cutoff() int {
	return int(math.Ceil(float64(r.length) * r.cfg.LengthFactor))
}

// Route runs the column loop to completion. It fails with UNROUTABLE when
// the safety cutoff is reached first, and with INVARIANT_VIOLATION when
// verification is on and two nets collide or a net ends up disconnected.
func (r *Router) Route(ctx context.Context) (*Result, error) {
	for !r.finished() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := r.Step(); err != nil {
			return nil, err
		}
		if !r.finished() && r.col >= r.cutoff() {
			return nil, errs.New(errs.ErrCodeUnroutable,
				"channel of length %d not finished after %d columns at width %d", r.length, r.col, r.width)
		}
	}
	if r.cfg.Verify {
		if err := VerifyConnected(r.pins, r.width, r.wires); err != nil {
			return nil, errs.Wrap(errs.ErrCodeInvariant, err, "finished routing at width %d", r.width)
		}
	}
	return r.result(), nil
}

func (r *Router) result() *Result {
	wires := r.wires.Clone()
	return &Result{
		Pins:       r.pins.Clone(),
		Config:     r.cfg,
		Width:      r.width,
		Columns:    r.col,
		Wires:      wires,
		Simplified: Simplify(wires),
		Widenings:  r.widenings,
		Jogs:       r.jogs,
		Tries:      1,
	}
}
