package channel

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"

	errs "github.com/matzehuels/chanroute/pkg/errors"
)

// RetryHook is called before each retry with the attempt number that failed,
// the width of the next attempt and the failure.
type RetryHook func(ctx context.Context, try, width int, cause error)

type retryOptions struct {
	logger   *log.Logger
	observer Observer
	onRetry  RetryHook
}

// Option configures RouteAndRetry.
type Option func(*retryOptions)

// WithLogger logs every retry on l.
func WithLogger(l *log.Logger) Option {
	return func(o *retryOptions) { o.logger = l }
}

// WithObserver attaches o to every attempt.
func WithObserver(ob Observer) Option {
	return func(o *retryOptions) { o.observer = ob }
}

// WithRetryHook calls h before every retry.
func WithRetryHook(h RetryHook) Option {
	return func(o *retryOptions) { o.onRetry = h }
}

// RouteError reports that no attempt within the budget completed. It
// carries the last configuration tried.
type RouteError struct {
	Pins         Pins
	Width        int
	MinJogLength int
	Tries        int
	Last         error
}

func (e *RouteError) Error() string {
	return fmt.Sprintf("%s: %v", e.summary(), e.Last)
}

// Unwrap exposes a RETRIES_EXHAUSTED error so errs.Is and errs.GetCode work.
// Its message names the input, so errs.UserMessage does too.
func (e *RouteError) Unwrap() error {
	return errs.Wrap(errs.ErrCodeRetriesExhausted, e.Last, "%s", e.summary())
}

func (e *RouteError) summary() string {
	return fmt.Sprintf("routing top %v bottom %v failed after %d tries (last width %d, min jog length %d)",
		e.Pins.Top, e.Pins.Bottom, e.Tries, e.Width, e.MinJogLength)
}

// RouteAndRetry routes pins, widening the channel by one track after every
// failed attempt until cfg.MaxTries attempts are spent. With cfg.Aesthetic
// a successful routing is re-run once with a minimum jog length of a
// quarter of the width, and the re-run is kept if it also succeeds.
//
// Configuration errors, invariant violations and context cancellation are
// returned at once and are never retried.
func RouteAndRetry(ctx context.Context, pins Pins, cfg Config, opts ...Option) (*Result, error) {
	var o retryOptions
	for _, opt := range opts {
		opt(&o)
	}
	if err := pins.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.SetDefaults()
	if cfg.InitialWidth == 0 {
		cfg.InitialWidth = Density(pins)
	}

	width := cfg.InitialWidth
	tries := 0
	var last error
	for tries < cfg.MaxTries {
		tries++
		res, err := o.attempt(ctx, pins, cfg, width)
		if err == nil {
			res.Tries = tries
			if cfg.Aesthetic {
				res = o.refine(ctx, pins, cfg, res, &tries)
			}
			return res, nil
		}
		if errs.GetCode(err) != errs.ErrCodeUnroutable {
			return nil, err
		}
		last = err
		if tries == cfg.MaxTries {
			break
		}
		width++
		if o.logger != nil {
			o.logger.Debug("retrying with a wider channel", "try", tries, "width", width, "err", err)
		}
		if o.onRetry != nil {
			o.onRetry(ctx, tries, width, err)
		}
	}
	return nil, &RouteError{
		Pins:         pins.Clone(),
		Width:        width,
		MinJogLength: cfg.MinJogLength,
		Tries:        tries,
		Last:         last,
	}
}

func (o *retryOptions) attempt(ctx context.Context, pins Pins, cfg Config, width int) (*Result, error) {
	c := cfg
	c.InitialWidth = width
	r := newRouter(pins, c)
	r.SetObserver(o.observer)
	return r.Route(ctx)
}

// refine re-runs a successful routing with a shorter minimum jog length
// while the budget allows it. The better of the two is res unless the
// re-run succeeds.
func (o *retryOptions) refine(ctx context.Context, pins Pins, cfg Config, res *Result, tries *int) *Result {
	ideal := max(1, res.Width/4)
	if ideal >= cfg.MinJogLength || *tries >= cfg.MaxTries {
		return res
	}
	c := cfg
	c.MinJogLength = ideal
	*tries++
	if o.logger != nil {
		o.logger.Debug("re-routing with shorter jogs", "try", *tries, "width", res.Width, "min_jog_length", ideal)
	}
	again, err := o.attempt(ctx, pins, c, res.Width)
	if err != nil {
		return res
	}
	again.Tries = *tries
	return again
}
