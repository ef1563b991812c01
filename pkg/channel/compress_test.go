package channel

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScout(t *testing.T) {
	pins := Pins{Top: []int{1, 2, 3}, Bottom: []int{0, 0, 0}}

	tests := []struct {
		name        string
		extra       [][3]int // net, low, high of verticals in column 0
		net         int
		track, goal int
		want        int
	}{
		{"jumps over held tracks, stops at verticals", nil, 1, 1, 5, 4},
		{"goal is start", nil, 1, 1, 1, 1},
		{"downward", nil, 2, 3, 1, 2},
		{"blocked right away", [][3]int{{2, 2, 4}}, 1, 1, 5, 1},
		{"blocked by vertical of another net", [][3]int{{2, 3, 4}}, 1, 1, 5, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := testRouter(pins, 5)
			r.tracks[1] = trackSet{1: {}}
			r.tracks[2] = trackSet{3: {}}
			r.tracks[3] = trackSet{5: {}}
			r.addVertical(3, 5, 6)
			for _, v := range tt.extra {
				r.addVertical(v[0], v[1], v[2])
			}
			if got := r.scout(tt.net, tt.track, tt.goal); got != tt.want {
				t.Errorf("scout(%d, %d, %d) = %d, want %d", tt.net, tt.track, tt.goal, got, tt.want)
			}
		})
	}
}

func TestCompressSplitNet(t *testing.T) {
	pins := Pins{Top: []int{1, 0, 1}, Bottom: []int{0, 0, 0}}

	t.Run("merges from both ends", func(t *testing.T) {
		r := testRouter(pins, 5)
		r.col = 1
		r.tracks[1] = trackSet{1: {}, 3: {}, 5: {}}
		r.compressSplitNets()

		assert.Equal(t, []int{3}, r.Tracks(1))
		assert.Equal(t, 2, r.jogs)
		assert.ElementsMatch(t, []Segment{
			{Point{1, 3}, Point{1, 5}},
			{Point{1, 1}, Point{1, 3}},
		}, r.wires[1])
	})

	t.Run("short moves are not committed", func(t *testing.T) {
		r := testRouter(pins, 5)
		r.cfg.MinJogLength = 3
		r.col = 1
		r.tracks[1] = trackSet{1: {}, 3: {}, 5: {}}
		r.compressSplitNets()

		assert.Equal(t, []int{1, 3, 5}, r.Tracks(1))
		assert.Zero(t, r.jogs)
		assert.Empty(t, r.wires[1])
	})

	t.Run("lands next to a held track of another net", func(t *testing.T) {
		two := Pins{Top: []int{1, 2, 1}, Bottom: []int{0, 0, 0}}
		r := testRouter(two, 6)
		r.col = 1
		r.tracks[1] = trackSet{1: {}, 6: {}}
		r.tracks[2] = trackSet{5: {}}
		r.addVertical(2, 5, 7)
		r.compressSplitNets()

		// The pin wire of net 2 blocks the high track; the low one walks up
		// to track 4.
		assert.Equal(t, []int{4, 6}, r.Tracks(1))
	})
}

func TestPushUnsplitNets(t *testing.T) {
	pins := Pins{Top: []int{0, 1, 0, 0}, Bottom: []int{0, 0, 0, 2}}

	t.Run("equal distances keep net order", func(t *testing.T) {
		r := testRouter(pins, 4)
		r.tracks[1] = trackSet{1: {}}
		r.tracks[2] = trackSet{4: {}}
		r.pushUnsplitNets()

		// Net 1 rises first and its jog blocks the fall of net 2.
		assert.Equal(t, []int{3}, r.Tracks(1))
		assert.Equal(t, []int{4}, r.Tracks(2))
		assert.Equal(t, []Segment{{Point{0, 1}, Point{0, 3}}}, r.wires[1])
		assert.Empty(t, r.wires[2])
	})

	t.Run("longest push first", func(t *testing.T) {
		r := testRouter(pins, 4)
		r.tracks[1] = trackSet{2: {}}
		r.tracks[2] = trackSet{4: {}}
		r.pushUnsplitNets()

		// Net 2 falls over net 1 to track 1, which leaves net 1 stuck.
		assert.Equal(t, []int{2}, r.Tracks(1))
		assert.Equal(t, []int{1}, r.Tracks(2))
		assert.Equal(t, []Segment{{Point{0, 1}, Point{0, 4}}}, r.wires[2])
	})

	t.Run("steady and split nets stay", func(t *testing.T) {
		r := testRouter(Pins{Top: []int{0, 1, 0}, Bottom: []int{0, 1, 0}}, 3)
		r.tracks[1] = trackSet{2: {}}
		r.pushUnsplitNets()
		assert.Equal(t, []int{2}, r.Tracks(1))
		assert.Zero(t, r.jogs)
	})
}
