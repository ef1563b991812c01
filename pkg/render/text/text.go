// Package text plots a routed channel with box-drawing characters.
//
// Columns run left to right and tracks bottom to top, so the plot reads
// like the channel itself: top pins on the first line, bottom pins on the
// last. Every grid node is drawn from the set of directions in which its
// net leaves it:
//
//	   1
//	   │
//	╭──╯
//	│
//	1
package text

import (
	"slices"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/chanroute/pkg/channel"
	"github.com/matzehuels/chanroute/pkg/graph"
)

// DefaultScale is the number of characters per column.
const DefaultScale = 2

// Options configures the plot.
type Options struct {
	// Scale is the horizontal distance between two columns in characters.
	Scale int
	// Color draws each net in its own colour.
	Color bool
	// NoLabels hides the pin rows above and below the channel.
	NoLabels bool
	// Nets restricts the plot to these nets. Empty means all nets.
	Nets []int
}

var boxChars = map[channel.Ports]rune{
	channel.PortN:                                                 '│',
	channel.PortS:                                                 '│',
	channel.PortE:                                                 '─',
	channel.PortW:                                                 '─',
	channel.PortN | channel.PortS:                                 '│',
	channel.PortE | channel.PortW:                                 '─',
	channel.PortN | channel.PortE:                                 '╰',
	channel.PortN | channel.PortW:                                 '╯',
	channel.PortS | channel.PortE:                                 '╭',
	channel.PortS | channel.PortW:                                 '╮',
	channel.PortN | channel.PortS | channel.PortE:                 '├',
	channel.PortN | channel.PortS | channel.PortW:                 '┤',
	channel.PortN | channel.PortE | channel.PortW:                 '┴',
	channel.PortS | channel.PortE | channel.PortW:                 '┬',
	channel.PortN | channel.PortS | channel.PortE | channel.PortW: '┼',
}

// palette holds ANSI 256 colour codes that stay readable on dark and light
// backgrounds.
var palette = []string{"39", "208", "70", "170", "220", "45", "203", "141", "114", "215"}

type cell struct {
	ports channel.Ports
	net   int
}

// Plot draws the graph as lines of text joined by newlines.
func Plot(g graph.Graph, opts Options) string {
	return strings.Join(lines(g, opts), "\n")
}

// Export plots the graph and wraps the plot in a text layout.
func Export(g graph.Graph, opts Options) graph.Layout {
	ls := lines(g, opts)
	width := 0
	for _, l := range ls {
		width = max(width, lipgloss.Width(l))
	}
	style := graph.StylePlain
	if opts.Color {
		style = graph.StyleColor
	}
	return graph.Layout{
		VizType: graph.VizTypeText,
		Width:   float64(width),
		Height:  float64(len(ls)),
		Style:   style,
		Nets:    drawn(g, opts.Nets),
		Text:    strings.Join(ls, "\n") + "\n",
		Scale:   scale(opts),
	}
}

func scale(opts Options) int {
	if opts.Scale < 1 {
		return DefaultScale
	}
	return opts.Scale
}

func drawn(g graph.Graph, only []int) []int {
	var ids []int
	for _, n := range g.Nets {
		if len(only) == 0 || slices.Contains(only, n.ID) {
			ids = append(ids, n.ID)
		}
	}
	return ids
}

func lines(g graph.Graph, opts Options) []string {
	sc := scale(opts)
	cols := max(g.Columns, g.Length())
	if cols == 0 {
		return nil
	}
	height := g.Width + 2
	width := (cols-1)*sc + 1
	grid := make([][]cell, height)
	for i := range grid {
		grid[i] = make([]cell, width)
	}
	row := func(track int) int { return g.Width + 1 - track }

	for _, id := range drawn(g, opts.Nets) {
		n, _ := g.Net(id)
		for p, ports := range channel.Profiles(n.Segments) {
			if p.Col >= cols || p.Track > g.Width+1 {
				continue
			}
			x, y := p.Col*sc, row(p.Track)
			grid[y][x] = cell{grid[y][x].ports | ports, id}
			if ports&channel.PortE != 0 {
				for dx := 1; dx < sc && x+dx < width; dx++ {
					c := &grid[y][x+dx]
					*c = cell{c.ports | channel.PortE | channel.PortW, id}
				}
			}
		}
	}

	var out []string
	if !opts.NoLabels {
		out = append(out, labels(g.Top, sc, width))
	}
	for _, r := range grid {
		var b strings.Builder
		for _, c := range r {
			ch, ok := boxChars[c.ports]
			if !ok {
				ch = ' '
			}
			if opts.Color && c.net > 0 && ch != ' ' {
				b.WriteString(netStyle(c.net).Render(string(ch)))
			} else {
				b.WriteRune(ch)
			}
		}
		out = append(out, strings.TrimRight(b.String(), " "))
	}
	if !opts.NoLabels {
		out = append(out, labels(g.Bottom, sc, width))
	}
	return out
}

func labels(pins []int, sc, width int) string {
	row := []rune(strings.Repeat(" ", width))
	for c, id := range pins {
		if id == 0 {
			continue
		}
		x := c * sc
		for i, r := range strconv.Itoa(id) {
			if x+i >= len(row) {
				row = append(row, ' ')
			}
			row[x+i] = r
		}
	}
	return strings.TrimRight(string(row), " ")
}

func netStyle(net int) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(palette[(net-1)%len(palette)]))
}
