// Package channel implements a greedy channel router in the style of Rivest
// and Fiduccia.
//
// A channel is a rectangular grid between two rows of pins. Each pin names a
// net, and every net must be connected by horizontal wires running along
// tracks 1..width and vertical wires running in the columns. The router
// sweeps the columns left to right. In each column it
//
//  1. connects the column's pins to the nearest usable track,
//  2. merges split nets with the best scoring set of jogs,
//  3. pulls the outermost tracks of nets that stay split toward each other,
//  4. pushes single-track nets toward the edge of their next pin,
//  5. inserts a track near the middle when a pin could not be connected,
//  6. extends every held track into the next column.
//
// Vertical and horizontal wires live on separate layers: wires of different
// nets may cross but never share a node on the same layer, and a vertical
// wire never ends on another net's track. [Verify] checks this.
//
// # Usage
//
//	pins := channel.Pins{Top: []int{1, 0, 2}, Bottom: []int{2, 0, 1}}
//	res, err := channel.RouteAndRetry(ctx, pins, channel.Config{})
//	if err != nil {
//	    return err
//	}
//	for net, segs := range res.Wires {
//	    ...
//	}
//
// [RouteAndRetry] widens the initial channel after every failed attempt. A
// single attempt can be driven column by column with [NewRouter] and
// [Router.Step], which is what the interactive stepper does.
//
// After routing, [Simplify] reduces each net to its endpoints, bends and
// junctions.
package channel
