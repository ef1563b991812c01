package render

import (
	"context"
	"os/exec"
	"testing"

	errs "github.com/matzehuels/chanroute/pkg/errors"
)

const tinySVG = `<svg xmlns="http://www.w3.org/2000/svg" width="4" height="4"><rect width="4" height="4"/></svg>`

func TestMissingConverter(t *testing.T) {
	old := rsvgBinary
	rsvgBinary = "chanroute-no-such-converter"
	defer func() { rsvgBinary = old }()

	_, err := ToPDF(context.Background(), []byte(tinySVG))
	if !errs.Is(err, errs.ErrCodeUnsupported) {
		t.Errorf("ToPDF() error = %v, want %s", err, errs.ErrCodeUnsupported)
	}
}

func TestToPNG(t *testing.T) {
	if _, err := exec.LookPath(rsvgBinary); err != nil {
		t.Skip("rsvg-convert not installed")
	}
	png, err := ToPNG(context.Background(), []byte(tinySVG), 2)
	if err != nil {
		t.Fatalf("ToPNG: %v", err)
	}
	if len(png) < 8 || string(png[1:4]) != "PNG" {
		t.Errorf("ToPNG() did not produce a PNG header")
	}
}
