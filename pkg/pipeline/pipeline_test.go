package pipeline

import (
	"testing"

	"github.com/matzehuels/chanroute/pkg/channel"
	errs "github.com/matzehuels/chanroute/pkg/errors"
)

var scenarioA = channel.Pins{
	Top:    []int{1, 0, 2, 0, 3, 4},
	Bottom: []int{1, 0, 0, 2, 4, 3},
}

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		vizType string
		format  string
		wantErr bool
	}{
		{"text", "txt", false},
		{"text", "json", false},
		{"text", "svg", true},
		{"nodelink", "dot", false},
		{"nodelink", "svg", false},
		{"nodelink", "png", false},
		{"nodelink", "pdf", false},
		{"nodelink", "json", false},
		{"nodelink", "txt", true},
		{"nodelink", "SVG", true}, // case-sensitive
		{"nodelink", "", true},
		{"tower", "svg", true},
	}

	for _, tt := range tests {
		err := ValidateFormat(tt.vizType, tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q, %q) error = %v, wantErr %v", tt.vizType, tt.format, err, tt.wantErr)
		}
	}
}

func TestValidateFormats(t *testing.T) {
	if err := ValidateFormats("nodelink", []string{"svg", "png"}); err != nil {
		t.Errorf("Valid formats should pass: %v", err)
	}

	if err := ValidateFormats("nodelink", []string{"svg", "invalid"}); err == nil {
		t.Error("Invalid format should fail")
	}

	// Empty slice is valid
	if err := ValidateFormats("text", nil); err != nil {
		t.Errorf("Empty formats should pass: %v", err)
	}
}

func TestValidateStyle(t *testing.T) {
	tests := []struct {
		style   string
		wantErr bool
	}{
		{"plain", false},
		{"color", false},
		{"handdrawn", true},
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateStyle(tt.style)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateStyle(%q) error = %v, wantErr %v", tt.style, err, tt.wantErr)
		}
	}
}

func TestValidateVizType(t *testing.T) {
	tests := []struct {
		vizType string
		wantErr bool
	}{
		{"text", false},
		{"nodelink", false},
		{"tower", true},
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateVizType(tt.vizType)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateVizType(%q) error = %v, wantErr %v", tt.vizType, err, tt.wantErr)
		}
	}
}

func TestOptionsValidateForRoute(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		code errs.Code
	}{
		{"Pins", Options{Pins: scenarioA}, ""},
		{"Example", Options{Example: "dense"}, ""},
		{"Empty", Options{}, ""},
		{"UnknownExample", Options{Example: "nope"}, errs.ErrCodeInvalidInput},
		{"PinsAndExample", Options{Example: "dense", Pins: scenarioA}, errs.ErrCodeInvalidInput},
		{"RowMismatch", Options{Pins: channel.Pins{Top: []int{1, 2}, Bottom: []int{1}}}, errs.ErrCodeInvalidInput},
		{"NegativeNet", Options{Pins: channel.Pins{Top: []int{-1}, Bottom: []int{1}}}, errs.ErrCodeInvalidInput},
		{"NegativeJog", Options{Pins: scenarioA, MinJogLength: -1}, errs.ErrCodeInvalidConfig},
		{"ShortLengthFactor", Options{Pins: scenarioA, LengthFactor: 0.5}, errs.ErrCodeInvalidConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.ValidateForRoute()
			if tt.code == "" {
				if err != nil {
					t.Fatalf("ValidateForRoute() error = %v", err)
				}
				return
			}
			if !errs.Is(err, tt.code) {
				t.Errorf("ValidateForRoute() error = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestOptionsExampleResolves(t *testing.T) {
	opts := Options{Example: "dense"}
	if err := opts.ValidateForRoute(); err != nil {
		t.Fatalf("ValidateForRoute() error = %v", err)
	}

	ex, _ := channel.LookupExample("dense")
	if opts.Pins.Len() != ex.Pins.Len() {
		t.Errorf("Pins.Len() = %d, want %d", opts.Pins.Len(), ex.Pins.Len())
	}
	if opts.InitialWidth != ex.Width {
		t.Errorf("InitialWidth = %d, want %d", opts.InitialWidth, ex.Width)
	}
	if opts.Example != "" {
		t.Error("Example should be cleared once resolved")
	}

	// An explicit width wins over the example's.
	opts = Options{Example: "dense", InitialWidth: 9}
	if err := opts.ValidateForRoute(); err != nil {
		t.Fatalf("ValidateForRoute() error = %v", err)
	}
	if opts.InitialWidth != 9 {
		t.Errorf("InitialWidth = %d, want 9", opts.InitialWidth)
	}
}

func TestOptionsIsText(t *testing.T) {
	opts := Options{}
	if !opts.IsText() {
		t.Error("Empty VizType should be text")
	}

	opts.VizType = "nodelink"
	if opts.IsText() {
		t.Error("nodelink VizType should not be text")
	}
}

func TestOptionsIsNodelink(t *testing.T) {
	opts := Options{}
	if opts.IsNodelink() {
		t.Error("Empty VizType should not be nodelink")
	}

	opts.VizType = "nodelink"
	if !opts.IsNodelink() {
		t.Error("nodelink VizType should be nodelink")
	}
}

func TestOptionsValidateAndSetDefaultsIdempotent(t *testing.T) {
	opts := Options{Example: "simple"}

	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("First validation failed: %v", err)
	}

	pins := opts.Pins.Clone()
	originalVizType := opts.VizType
	originalStyle := opts.Style

	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("Second validation failed: %v", err)
	}

	if opts.Pins.Len() != pins.Len() {
		t.Error("Pins changed on second call")
	}
	if opts.VizType != originalVizType {
		t.Error("VizType changed on second call")
	}
	if opts.Style != originalStyle {
		t.Error("Style changed on second call")
	}
}

func TestSetLayoutDefaults(t *testing.T) {
	opts := Options{}
	opts.SetLayoutDefaults()

	if opts.VizType != DefaultVizType {
		t.Errorf("VizType should be %s, got %s", DefaultVizType, opts.VizType)
	}
	if opts.Style != DefaultStyle {
		t.Errorf("Style should be %s, got %s", DefaultStyle, opts.Style)
	}
	if opts.Logger == nil {
		t.Error("Logger should be set")
	}
}

func TestSetRenderDefaults(t *testing.T) {
	opts := Options{}
	opts.SetRenderDefaults()
	if len(opts.Formats) != 1 || opts.Formats[0] != FormatText {
		t.Errorf("Formats should be [txt], got %v", opts.Formats)
	}

	opts = Options{VizType: "nodelink"}
	opts.SetRenderDefaults()
	if len(opts.Formats) != 1 || opts.Formats[0] != FormatSVG {
		t.Errorf("Formats should be [svg], got %v", opts.Formats)
	}
}

func TestValidateForRenderRejectsMismatch(t *testing.T) {
	opts := Options{VizType: "text", Formats: []string{"svg"}}
	if err := opts.ValidateForRender(); !errs.Is(err, errs.ErrCodeInvalidConfig) {
		t.Errorf("ValidateForRender() error = %v, want INVALID_CONFIG", err)
	}
}

func TestKeyOpts(t *testing.T) {
	opts := Options{MinJogLength: 2, Aesthetic: true, VizType: "nodelink", Style: "plain", Detailed: true}

	rk := opts.RouteKeyOpts()
	if rk.MinJogLength != 2 || !rk.Aesthetic {
		t.Errorf("RouteKeyOpts() = %+v", rk)
	}
	lk := opts.LayoutKeyOpts()
	if lk.VizType != "nodelink" || lk.Style != "plain" || !lk.Detailed {
		t.Errorf("LayoutKeyOpts() = %+v", lk)
	}
	ak := opts.ArtifactKeyOpts("svg")
	if ak.Format != "svg" || ak.Style != "plain" {
		t.Errorf("ArtifactKeyOpts() = %+v", ak)
	}
}
