package channel

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestSimplify(t *testing.T) {
	tests := []struct {
		name string
		segs []Segment
		want Simplified
	}{
		{
			name: "L turn into a riser",
			segs: []Segment{
				{Point{0, 0}, Point{0, 2}},
				{Point{0, 2}, Point{1, 2}},
				{Point{1, 2}, Point{2, 2}},
				{Point{2, 2}, Point{2, 3}},
			},
			want: Simplified{
				Nodes: []Point{{0, 0}, {0, 2}, {2, 2}, {2, 3}},
				Edges: []SimpleEdge{
					{Point{0, 0}, Point{0, 2}, 7},
					{Point{0, 2}, Point{2, 2}, 7},
					{Point{2, 2}, Point{2, 3}, 7},
				},
			},
		},
		{
			name: "junction",
			segs: []Segment{
				{Point{0, 1}, Point{1, 1}},
				{Point{1, 1}, Point{2, 1}},
				{Point{2, 1}, Point{3, 1}},
				{Point{2, 0}, Point{2, 1}},
			},
			want: Simplified{
				Nodes: []Point{{0, 1}, {2, 0}, {2, 1}, {3, 1}},
				Edges: []SimpleEdge{
					{Point{0, 1}, Point{2, 1}, 7},
					{Point{2, 0}, Point{2, 1}, 7},
					{Point{2, 1}, Point{3, 1}, 7},
				},
			},
		},
		{
			name: "overlapping segments count once",
			segs: []Segment{
				{Point{0, 1}, Point{0, 4}},
				{Point{0, 2}, Point{0, 3}},
			},
			want: Simplified{
				Nodes: []Point{{0, 1}, {0, 4}},
				Edges: []SimpleEdge{{Point{0, 1}, Point{0, 4}, 7}},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Simplify(WireGraph{7: tt.segs})
			if diff := cmp.Diff(tt.want, got[7]); diff != "" {
				t.Errorf("Simplify() mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(got[7], SimplifyGraph(got[7])); diff != "" {
				t.Errorf("SimplifyGraph() is not idempotent (-first +second):\n%s", diff)
			}
		})
	}
}

func TestSimplifyRoutedExamples(t *testing.T) {
	for _, e := range Examples {
		t.Run(e.Name, func(t *testing.T) {
			res, err := RouteAndRetry(context.Background(), e.Pins, Config{InitialWidth: e.Width})
			if err != nil {
				t.Skipf("not routable: %v", err)
			}
			for net, s := range res.Simplified {
				for _, edge := range s.Edges {
					if edge.Net != net {
						t.Errorf("edge %v tagged with net %d, want %d", edge, edge.Net, net)
					}
					if edge.From.Col != edge.To.Col && edge.From.Track != edge.To.Track {
						t.Errorf("edge %v is not axis aligned", edge)
					}
				}
				if diff := cmp.Diff(s, SimplifyGraph(s)); diff != "" {
					t.Errorf("net %d: SimplifyGraph() changed a simplified graph:\n%s", net, diff)
				}
			}
		})
	}
}

func TestProfiles(t *testing.T) {
	got := Profiles([]Segment{
		{Point{0, 0}, Point{0, 2}},
		{Point{0, 2}, Point{1, 2}},
	})
	want := map[Point]Ports{
		{0, 0}: PortN,
		{0, 1}: PortN | PortS,
		{0, 2}: PortS | PortE,
		{1, 2}: PortW,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Profiles() mismatch (-want +got):\n%s", diff)
	}
	if !got[Point{0, 1}].Straight() {
		t.Error("pass-through node should be straight")
	}
	if got[Point{0, 2}].Straight() {
		t.Error("bend should not be straight")
	}
}
