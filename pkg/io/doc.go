// Package io reads and writes the pin rows of a channel.
//
// # Overview
//
// A channel is described by two equally long rows of net ids, one along the
// top edge and one along the bottom edge. Id 0 marks a column without a
// pin. This package moves those rows between files and [channel.Pins]:
//
//   - JSON: {"top": [1, 0, 2], "bottom": [2, 0, 1]}
//   - TOML: top = [1, 0, 2] and bottom = [2, 0, 1] at the top level
//   - Text: two lines of whitespace separated ids, top row first
//
// # Import
//
// Use [ImportPins] to read a file, with the format taken from the file
// extension, or [ReadPins] to read any io.Reader:
//
//	pins, err := io.ImportPins("channel.toml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Decoded rows are validated before they are returned: both rows must have
// the same length and no id may be negative. Decode failures carry the
// INVALID_FORMAT code, inconsistent rows INVALID_INPUT.
//
// # Export
//
// Use [ExportPins] or [WritePins]. Every format round-trips through the
// matching reader, so generated inputs can be saved and routed later:
//
//	err := io.ExportPins(channel.RandomPins(rng, 6, 10), "random.txt")
//
// Routed channels are serialized by package graph, not here.
//
// [channel.Pins]: github.com/matzehuels/chanroute/pkg/channel.Pins
package io
