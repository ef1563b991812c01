package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"
)

func TestSpinnerStop(t *testing.T) {
	var buf bytes.Buffer
	s := newSpinner(context.Background(), &buf, "Routing...")
	s.Start()
	time.Sleep(100 * time.Millisecond)
	s.Stop()

	if s.Cancelled() {
		t.Error("Cancelled() = true after Stop, want false")
	}
	if !strings.Contains(buf.String(), "Routing...") {
		t.Errorf("spinner output %q does not contain message", buf.String())
	}
}

func TestSpinnerWithContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	var buf bytes.Buffer
	s := newSpinner(ctx, &buf, "Testing with context...")
	s.Start()
	cancel()
	time.Sleep(100 * time.Millisecond)

	if !s.Cancelled() {
		t.Error("Cancelled() = false after context cancellation, want true")
	}
	s.Stop()
}

func TestSpinnerWithTimeout(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	var buf bytes.Buffer
	s := newSpinner(ctx, &buf, "Testing with timeout...")
	s.Start()
	time.Sleep(100 * time.Millisecond)

	if !s.Cancelled() {
		t.Error("Cancelled() = false after timeout, want true")
	}
	s.Stop()
}

func TestSpinnerStopIsIdempotent(t *testing.T) {
	var buf bytes.Buffer
	s := newSpinner(context.Background(), &buf, "Testing idempotent stop...")
	s.Start()
	s.Stop()
	s.Stop()
	s.Stop()
}

func TestSpinnerUpdate(t *testing.T) {
	var buf bytes.Buffer
	s := newSpinner(context.Background(), &buf, "first")
	s.Start()
	s.Update("second")
	time.Sleep(100 * time.Millisecond)
	s.Stop()

	if !strings.Contains(buf.String(), "second") {
		t.Errorf("spinner output %q does not contain updated message", buf.String())
	}
}

func TestSpinnerStopWithMessages(t *testing.T) {
	var buf bytes.Buffer
	s := newSpinner(context.Background(), &buf, "Testing success...")
	s.Start()
	s.StopWithSuccess("Done!")
	if !strings.Contains(buf.String(), "Done!") {
		t.Errorf("output %q missing success line", buf.String())
	}

	buf.Reset()
	s = newSpinner(context.Background(), &buf, "Testing error...")
	s.Start()
	s.StopWithError("Failed!")
	if !strings.Contains(buf.String(), "Failed!") {
		t.Errorf("output %q missing error line", buf.String())
	}
}
