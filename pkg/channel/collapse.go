package channel

import (
	"fmt"
	"sort"
)

// Jog is a vertical connection between two tracks of one net in the current
// column.
type Jog struct {
	Net  int
	Low  int
	High int
}

func (j Jog) String() string { return fmt.Sprintf("%d:%d-%d", j.Net, j.Low, j.High) }

func (j Jog) span() span { return span{j.Low, j.High, j.Net} }

// Pattern is a set of jogs grouped per split net, in ascending net order.
type Pattern [][]Jog

// Jogs flattens the pattern.
func (p Pattern) Jogs() []Jog {
	var out []Jog
	for _, g := range p {
		out = append(out, g...)
	}
	return out
}

// Score ranks a pattern. All three keys are maximized in order.
type Score struct {
	// Freed counts one track per jog plus one per net the pattern finishes.
	Freed int
	// Ranking holds, ascending, the edge distance of every split net the
	// pattern leaves dangling.
	Ranking []int
	// Length is the summed jog length.
	Length int
}

// Better reports whether s beats o. Rankings are compared over their common
// prefix; equal scores are never better than each other.
func (s Score) Better(o Score) bool {
	if s.Freed != o.Freed {
		return s.Freed > o.Freed
	}
	for i := 0; i < min(len(s.Ranking), len(o.Ranking)); i++ {
		if s.Ranking[i] != o.Ranking[i] {
			return s.Ranking[i] > o.Ranking[i]
		}
	}
	return s.Length > o.Length
}

func (s Score) String() string {
	return fmt.Sprintf("(%d, %v, %d)", s.Freed, s.Ranking, s.Length)
}

// collapseSplitNets applies the best scoring pattern of merging jogs.
func (r *Router) collapseSplitNets() {
	best, ok := r.bestPattern()
	if !ok {
		return
	}
	for _, j := range best.Jogs() {
		r.addVertical(j.Net, j.Low, j.High)
		r.tracks[j.Net].remove(j.Low)
		r.jogs++
	}
}

// candidateJogs lists, per split net, the jogs between adjacent tracks that
// do not touch a vertical wire of another net in this column.
func (r *Router) candidateJogs() (nets []int, cands [][]Jog) {
	verticals := r.columnVerticals()
	for _, n := range r.SplitNets() {
		ts := r.tracks[n].sorted()
		var js []Jog
	next:
		for i := 0; i+1 < len(ts); i++ {
			j := Jog{n, ts[i], ts[i+1]}
			for _, v := range verticals {
				if v.net != n && v.overlaps(j.span()) {
					continue next
				}
			}
			js = append(js, j)
		}
		nets = append(nets, n)
		cands = append(cands, js)
	}
	return nets, cands
}

// jogPatterns enumerates every valid pattern: one subset of candidate jogs
// per split net, with no two jogs of different nets overlapping.
func (r *Router) jogPatterns() []Pattern {
	_, cands := r.candidateJogs()
	var out []Pattern
	r.walkPatterns(cands, func(p Pattern) {
		cp := make(Pattern, len(p))
		for i, g := range p {
			cp[i] = append([]Jog(nil), g...)
		}
		out = append(out, cp)
	})
	return out
}

// bestPattern finds the highest scoring pattern containing at least one jog.
// Ties keep the pattern found first.
func (r *Router) bestPattern() (Pattern, bool) {
	_, cands := r.candidateJogs()
	var (
		best      Pattern
		bestScore Score
		found     bool
	)
	r.walkPatterns(cands, func(p Pattern) {
		if len(p.Jogs()) == 0 {
			return
		}
		s := r.evaluate(p)
		if !found || s.Better(bestScore) {
			best = make(Pattern, len(p))
			for i, g := range p {
				best[i] = append([]Jog(nil), g...)
			}
			bestScore, found = s, true
		}
	})
	return best, found
}

// walkPatterns runs a depth-first product over the per-net subsets of
// cands, pruning a branch as soon as it clashes with a jog of another net
// chosen earlier. visit must copy the pattern if it keeps it.
func (r *Router) walkPatterns(cands [][]Jog, visit func(Pattern)) {
	pattern := make(Pattern, len(cands))
	var chosen []Jog

	var walk func(i int)
	walk = func(i int) {
		if i == len(cands) {
			visit(pattern)
			return
		}
		for _, sub := range subsets(cands[i]) {
			if clashes(sub, chosen) {
				continue
			}
			pattern[i] = sub
			chosen = append(chosen, sub...)
			walk(i + 1)
			chosen = chosen[:len(chosen)-len(sub)]
		}
		pattern[i] = nil
	}
	walk(0)
}

// subsets lists every subset of js by increasing size, in combination order.
func subsets(js []Jog) [][]Jog {
	out := [][]Jog{nil}
	var pick func(start, size int, acc []Jog)
	pick = func(start, size int, acc []Jog) {
		if len(acc) == size {
			out = append(out, append([]Jog(nil), acc...))
			return
		}
		for i := start; i < len(js); i++ {
			pick(i+1, size, append(acc, js[i]))
		}
	}
	for size := 1; size <= len(js); size++ {
		pick(0, size, nil)
	}
	return out
}

func clashes(group, chosen []Jog) bool {
	for _, a := range group {
		for _, b := range chosen {
			if a.Net != b.Net && a.span().overlaps(b.span()) {
				return true
			}
		}
	}
	return false
}

// evaluate scores pattern against the current state.
func (r *Router) evaluate(p Pattern) Score {
	var s Score
	touched := make(map[int]bool)

	for _, group := range p {
		if len(group) == 0 {
			continue
		}
		s.Freed += len(group)
		for _, j := range group {
			touched[j.Low], touched[j.High] = true, true
			s.Length += j.High - j.Low
		}
		if r.finishes(group) {
			s.Freed++
		}
	}

	for _, n := range r.SplitNets() {
		lo, hi, dangling := 0, 0, false
		for _, t := range r.tracks[n].sorted() {
			if touched[t] {
				continue
			}
			if !dangling {
				lo, dangling = t, true
			}
			hi = t
		}
		if dangling {
			s.Ranking = append(s.Ranking, min(lo-1, r.width-hi))
		}
	}
	sort.Ints(s.Ranking)
	return s
}

// finishes reports whether a net's jogs form one chain over all its tracks
// and the net has no pins ahead, so the merged track is released this column.
func (r *Router) finishes(group []Jog) bool {
	net := group[0].Net
	if _, more := r.NextPin(net, SideAny); more {
		return false
	}
	js := append([]Jog(nil), group...)
	sort.Slice(js, func(a, b int) bool { return js[a].Low < js[b].Low })
	for i := 1; i < len(js); i++ {
		if js[i-1].High != js[i].Low {
			return false
		}
	}
	covered := make(map[int]bool)
	for _, j := range js {
		covered[j.Low], covered[j.High] = true, true
	}
	for t := range r.tracks[net] {
		if !covered[t] {
			return false
		}
	}
	return true
}
