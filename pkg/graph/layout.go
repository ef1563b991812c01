package graph

import (
	"encoding/json"
	"fmt"
	"os"
)

// =============================================================================
// Layout - Unified Visualization Format
// =============================================================================

// Layout is the serialization format for a rendered channel.
//
// This is a discriminated union type - check VizType to determine which
// fields are populated:
//
//	Text ("text"):
//	  - Text: the plotted grid, one string per line joined by newlines
//	  - Scale: horizontal characters per column
//
//	Nodelink ("nodelink"):
//	  - DOT: Graphviz DOT string with pinned node positions
//	  - Engine: Graphviz layout engine ("neato")
//
// Shared fields (both types):
//   - Width, Height: frame dimensions (characters for text, points for nodelink)
//   - Style: visual style ("plain", "color")
//   - Nets: ids of the nets drawn
type Layout struct {
	// Discriminator
	VizType string `json:"viz_type" bson:"viz_type"`

	// Common dimensions and style
	Width  float64 `json:"width" bson:"width"`
	Height float64 `json:"height" bson:"height"`
	Style  string  `json:"style,omitempty" bson:"style,omitempty"`
	Nets   []int   `json:"nets,omitempty" bson:"nets,omitempty"`

	// Text-specific
	Text  string `json:"text,omitempty" bson:"text,omitempty"`
	Scale int    `json:"scale,omitempty" bson:"scale,omitempty"`

	// Nodelink-specific
	DOT    string `json:"dot,omitempty" bson:"dot,omitempty"`
	Engine string `json:"engine,omitempty" bson:"engine,omitempty"`
}

// IsText returns true if this is a text layout.
func (l *Layout) IsText() bool { return l.VizType == VizTypeText }

// IsNodelink returns true if this is a nodelink layout.
func (l *Layout) IsNodelink() bool { return l.VizType == VizTypeNodelink }

// =============================================================================
// Layout Serialization API
// =============================================================================

// MarshalLayout serializes a Layout to pretty-printed JSON bytes.
func MarshalLayout(l Layout) ([]byte, error) {
	return json.MarshalIndent(l, "", "  ")
}

// UnmarshalLayout deserializes JSON bytes into a Layout.
// Validates that required fields are present for the viz type.
func UnmarshalLayout(data []byte) (Layout, error) {
	var l Layout
	if err := json.Unmarshal(data, &l); err != nil {
		return Layout{}, fmt.Errorf("unmarshal layout: %w", err)
	}

	if l.VizType == "" {
		l.VizType = VizTypeText
	}

	switch {
	case l.IsText() && l.Text == "":
		return Layout{}, fmt.Errorf("text layout must contain text")
	case l.IsNodelink() && l.DOT == "":
		return Layout{}, fmt.Errorf("nodelink layout must contain DOT string")
	case !l.IsText() && !l.IsNodelink():
		return Layout{}, fmt.Errorf("unknown viz type %q", l.VizType)
	}

	return l, nil
}

// WriteLayoutFile writes a Layout to a JSON file.
func WriteLayoutFile(l Layout, path string) error {
	data, err := MarshalLayout(l)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ReadLayoutFile reads a Layout from a JSON file.
func ReadLayoutFile(path string) (Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Layout{}, fmt.Errorf("read %s: %w", path, err)
	}
	return UnmarshalLayout(data)
}
