package channel

import (
	"math/rand/v2"
	"sort"
)

// Example is a named channel used by tests, benchmarks and the generate
// command.
type Example struct {
	Name  string
	Pins  Pins
	Width int
}

// Examples are small channels that each exercise a particular situation.
var Examples = []Example{
	{"simple", Pins{Top: []int{1, 0, 3, 0, 2}, Bottom: []int{3, 2, 0, 1, 0}}, 3},
	{"zigzag", Pins{Top: []int{1, 0, 2, 0, 3, 0, 4, 0, 5}, Bottom: []int{5, 0, 4, 0, 3, 0, 2, 0, 1}}, 3},
	{"dense", Pins{Top: []int{1, 2, 3, 4, 5, 6, 7, 8}, Bottom: []int{8, 7, 6, 5, 4, 3, 2, 1}}, 4},
	{"parallel", Pins{Top: []int{1, 2, 3, 1, 2, 3}, Bottom: []int{1, 2, 3, 1, 2, 3}}, 3},
	{"cross", Pins{Top: []int{0, 0, 1, 1, 1, 0}, Bottom: []int{0, 0, 0, 1, 0, 0}}, 3},
	{"t_up", Pins{Top: []int{0, 1, 0, 0, 0, 2}, Bottom: []int{0, 0, 0, 0, 0, 0}}, 3},
	{"t_down", Pins{Top: []int{0, 0, 0, 0, 0, 0}, Bottom: []int{0, 1, 0, 0, 0, 2}}, 3},
	{"face_to_face", Pins{Top: []int{0, 0, 1, 0, 0, 0}, Bottom: []int{0, 0, 1, 0, 0, 0}}, 3},
	{"double_t", Pins{Top: []int{1, 0, 1, 0, 2, 0}, Bottom: []int{0, 1, 0, 2, 0, 2}}, 4},
	{"overlap_full", Pins{Top: []int{1, 2}, Bottom: []int{2, 1}}, 4},
	{"overlap_contained", Pins{Top: []int{0, 2, 0, 0, 0, 0, 0, 4}, Bottom: []int{1, 0, 0, 0, 0, 0, 3, 0}}, 4},
	{"complex_overlap", Pins{Top: []int{0, 5, 0, 0, 0, 6, 0, 0}, Bottom: []int{1, 0, 0, 0, 0, 0, 3, 4}}, 5},
	{"multi_height", Pins{Top: []int{1, 0, 0, 0, 0, 0, 0, 0, 0, 2}, Bottom: []int{0, 0, 3, 0, 0, 0, 0, 0, 4, 0}}, 5},
	{"split_tracks", Pins{Top: []int{1, 0, 2, 0, 0, 2, 3, 0, 0, 2}, Bottom: []int{2, 0, 2, 3, 0, 0, 0, 0, 2, 1}}, 5},
}

// LookupExample returns the example called name.
func LookupExample(name string) (Example, bool) {
	for _, e := range Examples {
		if e.Name == name {
			return e, true
		}
	}
	return Example{}, false
}

// ExampleNames lists the example names, sorted.
func ExampleNames() []string {
	names := make([]string, len(Examples))
	for i, e := range Examples {
		names[i] = e.Name
	}
	sort.Strings(names)
	return names
}

// RandomRow draws pins+1 net ids from 0..nets, every id at least once when
// pins >= nets, shuffles them and puts an empty column between neighbours.
// The row has 2*pins+1 columns.
func RandomRow(rng *rand.Rand, nets, pins int) []int {
	nets, pins = max(nets, 0), max(pins, 0)
	ids := make([]int, 0, pins+1)
	for n := 0; n <= nets && len(ids) <= pins; n++ {
		ids = append(ids, n)
	}
	for len(ids) <= pins {
		ids = append(ids, ids[rng.IntN(nets+1)])
	}
	rng.Shuffle(len(ids), func(i, j int) { ids[i], ids[j] = ids[j], ids[i] })

	row := make([]int, 0, 2*len(ids)-1)
	for i, n := range ids {
		if i > 0 {
			row = append(row, 0)
		}
		row = append(row, n)
	}
	return row
}

// RandomPins builds a channel with independent random top and bottom rows.
func RandomPins(rng *rand.Rand, nets, pins int) Pins {
	return Pins{Top: RandomRow(rng, nets, pins), Bottom: RandomRow(rng, nets, pins)}
}
